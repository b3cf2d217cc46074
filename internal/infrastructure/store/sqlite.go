package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteRunStore implements RunStore using SQLite.
type SQLiteRunStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// NewSQLiteRunStore opens (creating if needed) the history database at dbPath.
// ":memory:" gives an ephemeral store.
func NewSQLiteRunStore(dbPath string) (*SQLiteRunStore, error) {
	if dbPath == "" {
		dbPath = ".data/runs.db"
	}
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("%w: failed to create directory: %v", ErrStoreInitFailed, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrStoreInitFailed, err)
	}

	store := &SQLiteRunStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteRunStore) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at INTEGER NOT NULL,
			cost REAL NOT NULL,
			steps INTEGER NOT NULL,
			seed INTEGER NOT NULL,
			layout BLOB NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
		CREATE INDEX IF NOT EXISTS idx_runs_cost ON runs(cost);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("%w: failed to create schema: %v", ErrStoreInitFailed, err)
	}
	return nil
}

// SaveRun inserts one run record.
func (s *SQLiteRunStore) SaveRun(ctx context.Context, record RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, cost, steps, seed, layout)
		VALUES (?, ?, ?, ?, ?, ?)
	`, record.ID, record.CreatedAt.UnixMilli(), record.Cost, record.Steps, record.Seed, record.Layout)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// ListRuns returns up to limit records, best cost first.
func (s *SQLiteRunStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, cost, steps, seed, layout
		FROM runs ORDER BY cost ASC, created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Close releases the database handle.
func (s *SQLiteRunStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
