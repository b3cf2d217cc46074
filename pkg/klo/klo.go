// Package klo provides the public API for embedding the keyboard layout
// optimizer.
//
// Example:
//
//	opts := klo.DefaultOptions()
//	opts.NumLayouts = 10
//	opts.Seed = 42
//	result, err := klo.Optimize(context.Background(), opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Cost)
package klo

import (
	"context"
	"io"
	"os"

	"github.com/Glitchy-Tozier/klo/internal/application/optimizer"
	"github.com/Glitchy-Tozier/klo/internal/domain/layout"
	"github.com/Glitchy-Tozier/klo/internal/infrastructure/store"
	"github.com/Glitchy-Tozier/klo/internal/shared"
)

// Re-export types for the public API.
type (
	// Options configures an optimization run.
	Options = shared.OptimizeOptions
	// Result is the best layout found and its cost.
	Result = optimizer.Result
	// Blueprint is the character-assignment grid.
	Blueprint = layout.Blueprint
	// Position addresses one Blueprint cell.
	Position = layout.Position
	// RunStore persists run history.
	RunStore = store.RunStore
	// RunRecord is one persisted run.
	RunRecord = store.RunRecord
)

// DefaultOptions returns the stock configuration.
func DefaultOptions() Options {
	return shared.DefaultOptimizeOptions()
}

// Optimize runs a full optimization with files read from the local
// filesystem and no persistence.
func Optimize(ctx context.Context, opts Options) (*Result, error) {
	return OptimizeWith(ctx, opts, io.Discard, nil)
}

// OptimizeWith runs a full optimization, logging to logOutput and persisting
// to runs when non-nil.
func OptimizeWith(ctx context.Context, opts Options, logOutput io.Writer, runs RunStore) (*Result, error) {
	logger := shared.NewLogger(logOutput, opts.Quiet, opts.Verbose)
	service := optimizer.New(opts, os.ReadFile, logger, runs)
	return service.Run(ctx)
}

// NewSQLiteRunStore opens a SQLite-backed run history store.
func NewSQLiteRunStore(path string) (RunStore, error) {
	return store.NewSQLiteRunStore(path)
}
