package optimizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"reflect"
	"testing"

	domainCorpus "github.com/Glitchy-Tozier/klo/internal/domain/corpus"
	infraCorpus "github.com/Glitchy-Tozier/klo/internal/infrastructure/corpus"
	"github.com/Glitchy-Tozier/klo/internal/infrastructure/store"
	"github.com/Glitchy-Tozier/klo/internal/shared"
)

func mapLoader(files map[string]string) infraCorpus.Loader {
	return func(path string) ([]byte, error) {
		contents, ok := files[path]
		if !ok {
			return nil, fmt.Errorf("no such file: %s", path)
		}
		return []byte(contents), nil
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testFiles() map[string]string {
	return map[string]string{
		"ngrams.config": "1.0 text corpus.txt",
		"corpus.txt":    "the tin ten net in it tie hint then nine",
	}
}

func testOptions() shared.OptimizeOptions {
	opts := shared.DefaultOptimizeOptions()
	opts.NumLayouts = 2
	opts.Steps = 60
	opts.Prerandomize = 10
	opts.Anneal = 2
	opts.AnnealStep = 10
	opts.ControlledTail = true
	opts.Alphabet = "entih"
	opts.StartingLayout = ""
	opts.NgramsConfig = "ngrams.config"
	opts.Seed = 7
	return opts
}

func TestServiceRunEndToEnd(t *testing.T) {
	runs, err := store.NewSQLiteRunStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer runs.Close()

	svc := New(testOptions(), mapLoader(testFiles()), testLogger(), runs)
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Best == nil {
		t.Fatal("expected a best blueprint")
	}
	if result.Runs != 2 {
		t.Errorf("expected 2 evolutions, got %d", result.Runs)
	}
	if result.Cost < 0 || math.IsNaN(result.Cost) {
		t.Errorf("cost must be a non-negative number, got %v", result.Cost)
	}

	saved, err := runs.ListRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("expected exactly one persisted run, got %d", len(saved))
	}
	if saved[0].ID != result.RunID || saved[0].Cost != result.Cost {
		t.Errorf("persisted record %+v does not match result %+v", saved[0], result)
	}
}

func TestServiceRunWithoutStore(t *testing.T) {
	svc := New(testOptions(), mapLoader(testFiles()), testLogger(), nil)
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("a nil store must only disable persistence: %v", err)
	}
	if result.Best == nil {
		t.Fatal("expected a best blueprint")
	}
}

func TestServiceRunIsDeterministicForSeed(t *testing.T) {
	run := func() (*Result, error) {
		svc := New(testOptions(), mapLoader(testFiles()), testLogger(), nil)
		return svc.Run(context.Background())
	}

	first, err := run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := run()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Cost != second.Cost || !reflect.DeepEqual(first.Best, second.Best) {
		t.Error("a fixed seed must reproduce the identical result")
	}
}

func TestServiceRunConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*shared.OptimizeOptions)
		files   map[string]string
		wantErr error
	}{
		{"missing ngrams config",
			func(o *shared.OptimizeOptions) { o.NgramsConfig = "gone.config" },
			testFiles(), domainCorpus.ErrConfig},
		{"missing base layout",
			func(o *shared.OptimizeOptions) { o.BaseLayout = "gone.json" },
			testFiles(), domainCorpus.ErrConfig},
		{"missing cost config",
			func(o *shared.OptimizeOptions) { o.CostConfig = "gone.toml" },
			testFiles(), domainCorpus.ErrConfig},
		{"empty corpus",
			func(o *shared.OptimizeOptions) {},
			map[string]string{"ngrams.config": "1.0 text corpus.txt", "corpus.txt": ""},
			domainCorpus.ErrEmptyCorpus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.mutate(&opts)
			svc := New(opts, mapLoader(tt.files), testLogger(), nil)
			if _, err := svc.Run(context.Background()); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestServiceRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := New(testOptions(), mapLoader(testFiles()), testLogger(), nil)
	result, err := svc.Run(ctx)
	if err != nil {
		t.Fatalf("cancellation is not an error: %v", err)
	}
	// No evolution was dispatched, so there is no best layout to report.
	if result.Best != nil {
		t.Errorf("expected no blueprint from a cancelled run, got %v", result.Best)
	}
}

func TestServiceRunWithCostConfig(t *testing.T) {
	files := testFiles()
	files["cost.toml"] = "same_finger = 9.0\nuncovered = 500.0\n"

	opts := testOptions()
	opts.CostConfig = "cost.toml"

	tuned, err := New(opts, mapLoader(files), testLogger(), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tuned.Best == nil {
		t.Fatal("expected a best blueprint")
	}

	files["cost.toml"] = "same_finger = {broken"
	if _, err := New(opts, mapLoader(files), testLogger(), nil).Run(context.Background()); err == nil {
		t.Fatal("expected an error for a malformed weights file")
	}
}
