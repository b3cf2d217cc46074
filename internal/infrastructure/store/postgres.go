package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresConfig configures the PostgreSQL history backend. Empty fields fall
// back to the standard PG* environment variables.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSL      bool
}

// PostgresRunStore implements RunStore on PostgreSQL, for setups that share
// run history between machines.
type PostgresRunStore struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// NewPostgresRunStore connects and ensures the schema exists.
func NewPostgresRunStore(ctx context.Context, config PostgresConfig) (*PostgresRunStore, error) {
	if config.Host == "" {
		config.Host = getEnvOrDefault("PGHOST", "localhost")
	}
	if config.Port == 0 {
		config.Port = 5432
	}
	if config.User == "" {
		config.User = getEnvOrDefault("PGUSER", "postgres")
	}
	if config.Password == "" {
		config.Password = os.Getenv("PGPASSWORD")
	}
	if config.Database == "" {
		config.Database = os.Getenv("PGDATABASE")
	}

	db, err := sql.Open("postgres", buildConnectionString(config))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrStoreInitFailed, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to connect: %v", ErrStoreInitFailed, err)
	}

	store := &PostgresRunStore{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func buildConnectionString(config PostgresConfig) string {
	sslMode := "disable"
	if config.SSL {
		sslMode = "require"
	}
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Database, sslMode,
	)
	if config.Password != "" {
		connStr += fmt.Sprintf(" password=%s", config.Password)
	}
	return connStr
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func (s *PostgresRunStore) initSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at BIGINT NOT NULL,
			cost DOUBLE PRECISION NOT NULL,
			steps INTEGER NOT NULL,
			seed BIGINT NOT NULL,
			layout BYTEA NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
		CREATE INDEX IF NOT EXISTS idx_runs_cost ON runs(cost);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: failed to create schema: %v", ErrStoreInitFailed, err)
	}
	return nil
}

// SaveRun inserts one run record.
func (s *PostgresRunStore) SaveRun(ctx context.Context, record RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, cost, steps, seed, layout)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, record.ID, record.CreatedAt.UnixMilli(), record.Cost, record.Steps, record.Seed, record.Layout)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// ListRuns returns up to limit records, best cost first.
func (s *PostgresRunStore) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
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
		FROM runs ORDER BY cost ASC, created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// Close releases the database handle.
func (s *PostgresRunStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// scanRuns converts result rows into records; shared by both backends.
func scanRuns(rows *sql.Rows) ([]RunRecord, error) {
	var records []RunRecord
	for rows.Next() {
		var record RunRecord
		var createdMilli int64
		if err := rows.Scan(&record.ID, &createdMilli, &record.Cost, &record.Steps, &record.Seed, &record.Layout); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		record.CreatedAt = time.UnixMilli(createdMilli)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read runs: %w", err)
	}
	return records, nil
}
