// Package store persists optimization run history so past results stay
// comparable across invocations.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrStoreInitFailed indicates the backing database could not be opened.
	ErrStoreInitFailed = errors.New("store: initialization failed")
	// ErrStoreClosed indicates use after Close.
	ErrStoreClosed = errors.New("store: store is closed")
)

// RunRecord is one finished optimization run.
type RunRecord struct {
	ID        string
	CreatedAt time.Time
	Cost      float64
	Steps     int
	Seed      int64
	// Layout is the best blueprint in its nested-array JSON form.
	Layout []byte
}

// RunStore is implemented by the history backends.
type RunStore interface {
	SaveRun(ctx context.Context, record RunRecord) error
	ListRuns(ctx context.Context, limit int) ([]RunRecord, error)
	Close() error
}
