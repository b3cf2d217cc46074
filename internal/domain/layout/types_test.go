package layout

import (
	"errors"
	"reflect"
	"testing"
)

func testBlueprint() Blueprint {
	return Blueprint{
		{{"q"}, {"w"}, {"e"}},
		{{"a"}, {"s"}, {"d"}},
	}
}

func TestParseBlueprint(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{"valid", `[[["a"],["b"]],[["c","C"]]]`, nil},
		{"not json", `{{`, ErrBadBlueprint},
		{"wrong shape", `{"rows": 3}`, ErrBadBlueprint},
		{"empty", `[]`, ErrBadBlueprint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bp, err := ParseBlueprint([]byte(tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(bp) == 0 {
				t.Error("expected rows")
			}
		})
	}
}

func TestBlueprintEncodeRoundTrip(t *testing.T) {
	bp := testBlueprint()
	data, err := bp.Encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	decoded, err := ParseBlueprint(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(bp, decoded) {
		t.Error("encode/decode must round-trip")
	}
}

func TestBlueprintCloneIsIndependent(t *testing.T) {
	bp := testBlueprint()
	clone := bp.Clone()
	clone[0][0][0] = "z"
	if bp[0][0][0] != "q" {
		t.Error("mutating a clone must not touch the original")
	}
}

func TestBlueprintAt(t *testing.T) {
	bp := testBlueprint()
	tests := []struct {
		name string
		pos  Position
		want string
	}{
		{"in range", Position{Row: 1, Slot: 2, Layer: 0}, "d"},
		{"row out of range", Position{Row: 9}, ""},
		{"slot out of range", Position{Row: 0, Slot: 9}, ""},
		{"layer out of range", Position{Row: 0, Slot: 0, Layer: 3}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bp.At(tt.pos); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestApplySwap(t *testing.T) {
	bp := testBlueprint()
	swapped := bp.ApplySwap("q", "d")

	if bp[0][0][0] != "q" || bp[1][2][0] != "d" {
		t.Fatal("ApplySwap must not mutate its receiver")
	}
	if swapped[0][0][0] != "d" || swapped[1][2][0] != "q" {
		t.Errorf("swap did not exchange cells: %v", swapped)
	}
}

func TestApplySwapRoundTrip(t *testing.T) {
	bp := testBlueprint()
	restored := bp.ApplySwap("q", "d").ApplySwap("q", "d")
	if !reflect.DeepEqual(bp, restored) {
		t.Error("double swap must restore the original exactly")
	}
}

func TestApplySwapMissingChar(t *testing.T) {
	bp := testBlueprint()
	same := bp.ApplySwap("q", "missing")
	if !reflect.DeepEqual(bp, same) {
		t.Error("swap with an absent character must be a no-op")
	}
}

func TestMergeRows(t *testing.T) {
	bp := Blueprint{
		{{"0"}, {"1"}, {"2"}, {"3"}},
		{{"x"}, {"a"}, {"b"}, {"c"}},
		{{"y"}, {"d"}, {"e"}, {"f"}},
	}
	merged := bp.MergeRows("u v\nw")

	// Offset by one row and one slot; spaces stripped.
	if merged[1][1][0] != "u" || merged[1][2][0] != "v" {
		t.Errorf("first line misplaced: %v", merged[1])
	}
	if merged[2][1][0] != "w" {
		t.Errorf("second line misplaced: %v", merged[2])
	}
	if merged[0][0][0] != "0" || merged[1][0][0] != "x" {
		t.Error("fixed corner keys must stay put")
	}
	if bp[1][1][0] != "a" {
		t.Error("MergeRows must not mutate its receiver")
	}
}

func TestMergeRowsOverflowIgnored(t *testing.T) {
	bp := Blueprint{{{"a"}, {"b"}}}
	merged := bp.MergeRows("xyz\nlmnop")
	if !reflect.DeepEqual(bp, merged) {
		t.Error("characters landing outside the grid must be ignored")
	}
}

func TestDefaultBlueprint(t *testing.T) {
	bp := DefaultBlueprint()
	if len(bp) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(bp))
	}
	model := FromBlueprint(bp, nil)
	for _, r := range "abcdefghijklmnopqrstuvwxyzäöüß" {
		if _, ok := model.PositionOf(string(r)); !ok {
			t.Errorf("default board must cover alphabet character %q", string(r))
		}
	}
	if _, ok := model.PositionOf("⇧"); !ok {
		t.Error("default board must cover the shift marker")
	}
}
