package records

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists records to a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS run_records (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        ts INTEGER,
        run_id TEXT,
        kind TEXT,
        generation INTEGER,
        data TEXT
    );
    CREATE INDEX IF NOT EXISTS run_records_run_kind ON run_records (run_id, kind, generation);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Emit writes the record to the database.
func (s *SQLiteStore) Emit(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_records (ts, run_id, kind, generation, data) VALUES (?, ?, ?, ?, ?)`,
		rec.Timestamp.UnixNano(), rec.RunID, string(rec.Kind), rec.Generation, string(rec.Data))
	return err
}

// Query returns records matching q in insertion order.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]Record, error) {
	var args []any
	query := `SELECT ts, run_id, kind, generation, data FROM run_records WHERE generation >= ?`
	args = append(args, q.FromGen)
	if q.ToGen > 0 {
		query += ` AND generation <= ?`
		args = append(args, q.ToGen)
	}
	if q.RunID != "" {
		query += ` AND run_id = ?`
		args = append(args, q.RunID)
	}
	if q.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(q.Kind))
	}
	query += ` ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Record
	for rows.Next() {
		var (
			ts   int64
			kind string
			data string
			r    Record
		)
		if err := rows.Scan(&ts, &r.RunID, &kind, &r.Generation, &data); err != nil {
			return nil, err
		}
		r.Timestamp = timeFromUnixNano(ts)
		r.Kind = Kind(kind)
		r.Data = []byte(data)
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
