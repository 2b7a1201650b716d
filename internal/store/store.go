// Package store provides the SQLite storage layer for processed FIR
// records.
//
// All data lives in a single SQLite database file:
// - Finalized records with their summary and full JSON body
// - Per-district sequence counters for FIR number allocation
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultDBPath is the default database location.
const DefaultDBPath = "~/.firfill/firfill.db"

// Record is a finalized FIR record as persisted.
type Record struct {
	ID          int64
	FIRNumber   string
	District    string
	OffenseType string
	Summary     string
	RecordJSON  string
	CreatedAt   time.Time
}

// ListOpts controls pagination and filtering for ListRecords.
type ListOpts struct {
	Limit       int
	Offset      int
	District    string // filter by district, empty = all
	OffenseType string // filter by offense type, empty = all
}

// Stats holds observability statistics about the store.
type Stats struct {
	RecordCount   int64
	ByOffenseType map[string]int64
	DBSizeBytes   int64
}

// Config holds configuration for NewStore.
type Config struct {
	DBPath string
}

// Store defines the record storage interface.
type Store interface {
	SaveRecord(ctx context.Context, r *Record) (int64, error)
	GetRecord(ctx context.Context, id int64) (*Record, error)
	GetRecordByFIRNumber(ctx context.Context, firNumber string) (*Record, error)
	ListRecords(ctx context.Context, opts ListOpts) ([]*Record, error)

	// NextSequence allocates the next FIR sequence number for a
	// district and year. Allocation is transactional and
	// monotonically increasing, starting at 1000.
	NextSequence(ctx context.Context, district string, year int) (int, error)

	Stats(ctx context.Context) (*Stats, error)
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new SQLite-backed Store.
// Pass ":memory:" for in-memory databases (testing).
func NewStore(cfg Config) (Store, error) {
	if cfg.DBPath == "" {
		cfg.DBPath = expandPath(DefaultDBPath)
	}

	if cfg.DBPath != ":memory:" {
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, dbPath: cfg.DBPath}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
