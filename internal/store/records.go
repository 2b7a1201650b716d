package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// SaveRecord inserts a finalized record and returns its ID.
func (s *SQLiteStore) SaveRecord(ctx context.Context, r *Record) (int64, error) {
	if r == nil {
		return 0, fmt.Errorf("record is nil")
	}
	if strings.TrimSpace(r.FIRNumber) == "" {
		return 0, fmt.Errorf("record requires a FIR number")
	}
	if strings.TrimSpace(r.RecordJSON) == "" {
		return 0, fmt.Errorf("record requires a JSON body")
	}

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO records (fir_number, district, offense_type, summary, record_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.FIRNumber, r.District, r.OffenseType, r.Summary, r.RecordJSON, createdAt.Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("inserting record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting record id: %w", err)
	}
	r.ID = id
	r.CreatedAt = createdAt
	return id, nil
}

// GetRecord fetches a record by ID. Returns nil if not found.
func (s *SQLiteStore) GetRecord(ctx context.Context, id int64) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, fir_number, district, offense_type, summary, record_json, created_at
		 FROM records WHERE id = ?`, id)
	return scanRecord(row)
}

// GetRecordByFIRNumber fetches a record by its FIR number. Returns nil
// if not found.
func (s *SQLiteStore) GetRecordByFIRNumber(ctx context.Context, firNumber string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, fir_number, district, offense_type, summary, record_json, created_at
		 FROM records WHERE fir_number = ?`, firNumber)
	return scanRecord(row)
}

func scanRecord(row *sql.Row) (*Record, error) {
	var r Record
	var createdAt string
	err := row.Scan(&r.ID, &r.FIRNumber, &r.District, &r.OffenseType, &r.Summary, &r.RecordJSON, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning record: %w", err)
	}
	r.CreatedAt = parseTimestamp(createdAt)
	return &r, nil
}

// ListRecords returns records newest first, with optional district and
// offense type filters.
func (s *SQLiteStore) ListRecords(ctx context.Context, opts ListOpts) ([]*Record, error) {
	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	var conds []string
	var args []any
	if opts.District != "" {
		conds = append(conds, "district = ?")
		args = append(args, opts.District)
	}
	if opts.OffenseType != "" {
		conds = append(conds, "offense_type = ?")
		args = append(args, opts.OffenseType)
	}

	query := `SELECT id, fir_number, district, offense_type, summary, record_json, created_at FROM records`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, opts.Limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		var r Record
		var createdAt string
		if err := rows.Scan(&r.ID, &r.FIRNumber, &r.District, &r.OffenseType, &r.Summary, &r.RecordJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.CreatedAt = parseTimestamp(createdAt)
		out = append(out, &r)
	}
	return out, rows.Err()
}

// NextSequence allocates the next sequence number for (district, year).
// The first allocation for a pair returns 1000; later ones increment.
func (s *SQLiteStore) NextSequence(ctx context.Context, district string, year int) (int, error) {
	if year <= 0 {
		return 0, fmt.Errorf("invalid year %d", year)
	}
	district = strings.TrimSpace(district)
	if district == "" {
		district = "Unknown"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning sequence tx: %w", err)
	}
	defer tx.Rollback()

	var last int
	err = tx.QueryRowContext(ctx,
		`SELECT last_seq FROM fir_sequences WHERE district = ? AND year = ?`,
		district, year).Scan(&last)
	switch {
	case err == sql.ErrNoRows:
		last = 999
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO fir_sequences (district, year, last_seq) VALUES (?, ?, ?)`,
			district, year, last+1); err != nil {
			return 0, fmt.Errorf("inserting sequence row: %w", err)
		}
	case err != nil:
		return 0, fmt.Errorf("reading sequence: %w", err)
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE fir_sequences SET last_seq = ? WHERE district = ? AND year = ?`,
			last+1, district, year); err != nil {
			return 0, fmt.Errorf("updating sequence: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing sequence tx: %w", err)
	}
	return last + 1, nil
}

// Stats returns record counts and database size.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByOffenseType: map[string]int64{}}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&stats.RecordCount); err != nil {
		return nil, fmt.Errorf("counting records: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT offense_type, COUNT(*) FROM records GROUP BY offense_type`)
	if err != nil {
		return nil, fmt.Errorf("counting by offense type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var typ string
		var n int64
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scanning offense count: %w", err)
		}
		if typ == "" {
			typ = "(unspecified)"
		}
		stats.ByOffenseType[typ] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if s.dbPath != ":memory:" {
		if fi, err := statFile(s.dbPath); err == nil {
			stats.DBSizeBytes = fi
		}
	}
	return stats, nil
}

// parseTimestamp handles both RFC3339 (our inserts) and the SQLite
// CURRENT_TIMESTAMP format.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
