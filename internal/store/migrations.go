package store

import "fmt"

// migrate creates all tables if they don't exist.
func (s *SQLiteStore) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			fir_number   TEXT UNIQUE NOT NULL,
			district     TEXT NOT NULL DEFAULT '',
			offense_type TEXT NOT NULL DEFAULT '',
			summary      TEXT NOT NULL DEFAULT '',
			record_json  TEXT NOT NULL,
			created_at   DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Per-district, per-year counter for FIR number allocation.
		`CREATE TABLE IF NOT EXISTS fir_sequences (
			district TEXT NOT NULL,
			year     INTEGER NOT NULL,
			last_seq INTEGER NOT NULL,
			PRIMARY KEY (district, year)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_records_district ON records(district)`,
		`CREATE INDEX IF NOT EXISTS idx_records_offense ON records(offense_type)`,
		`CREATE INDEX IF NOT EXISTS idx_records_created ON records(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}
	return nil
}
