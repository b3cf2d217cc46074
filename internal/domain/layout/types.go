// Package layout models the physical keyboard: the Blueprint character grid,
// its fixed ergonomic geometry, and the derived lookup caches the cost model
// reads.
package layout

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Position addresses one cell of a Blueprint: row, key slot within the row
// (left to right), and modifier layer of that key.
type Position struct {
	Row   uint8
	Slot  uint8
	Layer uint8
}

// Blueprint is the character-assignment grid: rows of key slots of layer
// strings. Each layer string is a single character or empty for an unassigned
// layer. The row/slot/layer shape is fixed by the device; only the character
// content changes across mutations.
type Blueprint [][][]string

// ParseBlueprint decodes the nested-array JSON form of a Blueprint.
func ParseBlueprint(data []byte) (Blueprint, error) {
	var bp Blueprint
	if err := json.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBlueprint, err)
	}
	if len(bp) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrBadBlueprint)
	}
	return bp, nil
}

// Encode serializes the Blueprint to its nested-array JSON form, the inverse
// of ParseBlueprint.
func (b Blueprint) Encode() ([]byte, error) {
	return json.Marshal([][][]string(b))
}

// Clone returns an independent deep copy.
func (b Blueprint) Clone() Blueprint {
	clone := make(Blueprint, len(b))
	for r, row := range b {
		clone[r] = make([][]string, len(row))
		for s, key := range row {
			layers := make([]string, len(key))
			copy(layers, key)
			clone[r][s] = layers
		}
	}
	return clone
}

// At returns the character at pos, or "" when pos is outside the grid.
func (b Blueprint) At(pos Position) string {
	if int(pos.Row) >= len(b) {
		return ""
	}
	row := b[pos.Row]
	if int(pos.Slot) >= len(row) {
		return ""
	}
	key := row[pos.Slot]
	if int(pos.Layer) >= len(key) {
		return ""
	}
	return key[pos.Layer]
}

// findTopLayer locates ch on layer 0. When a character appears more than once
// the last match wins.
func (b Blueprint) findTopLayer(ch string) (row, slot int, ok bool) {
	for r, rowKeys := range b {
		for s, key := range rowKeys {
			if len(key) > 0 && key[0] == ch {
				row, slot, ok = r, s, true
			}
		}
	}
	return row, slot, ok
}

// ApplySwap returns a new Blueprint with the layer-0 cells of a and b
// exchanged. The receiver is never mutated. If either character is absent from
// layer 0 the clone is returned unchanged, so swaps are total over any pair.
// Applying the same swap twice restores the original exactly.
func (b Blueprint) ApplySwap(a, c string) Blueprint {
	clone := b.Clone()
	ar, as, aok := b.findTopLayer(a)
	cr, cs, cok := b.findTopLayer(c)
	if !aok || !cok {
		return clone
	}
	clone[ar][as][0], clone[cr][cs][0] = c, a
	return clone
}

// MergeRows overlays a newline-separated starting-layout string onto a copy of
// the Blueprint. Spaces are stripped from each line first; characters land on
// layer 0, offset by one row and one slot from the top-left so the fixed
// corner keys stay put. Characters that would fall outside the grid are
// ignored.
func (b Blueprint) MergeRows(rows string) Blueprint {
	clone := b.Clone()
	for lineIdx, line := range strings.Split(rows, "\n") {
		line = strings.ReplaceAll(line, " ", "")
		slotIdx := 0
		for _, ch := range line {
			row := lineIdx + 1
			slot := slotIdx + 1
			slotIdx++
			if row >= len(clone) || slot >= len(clone[row]) || len(clone[row][slot]) == 0 {
				continue
			}
			clone[row][slot][0] = string(ch)
		}
	}
	return clone
}
