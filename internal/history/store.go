package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS evaluations (
	id          TEXT PRIMARY KEY,
	operation   TEXT NOT NULL,
	operator    TEXT NOT NULL DEFAULT '',
	outcome     TEXT NOT NULL,
	result      TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_evaluations_created_at ON evaluations(created_at);
`

// timeLayout is fixed-width so created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// OutcomeOK marks a successful evaluation; failures store the error kind name
const OutcomeOK = "ok"

// Entry is one recorded evaluation
type Entry struct {
	ID        string
	Operation string
	Operator  string
	Outcome   string
	// Result is the displayed value, or the error message for failures
	Result    string
	CreatedAt time.Time
}

// Store keeps evaluation history in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts e, assigning an ID and timestamp when they are empty.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.Operation == "" {
		return Entry{}, fmt.Errorf("operation is required")
	}
	if e.Outcome == "" {
		return Entry{}, fmt.Errorf("outcome is required")
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO evaluations (id, operation, operator, outcome, result, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.Operation, e.Operator, e.Outcome, e.Result, e.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("insert evaluation: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, operation, operator, outcome, result, created_at
		 FROM evaluations ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var createdStr string
		if err := rows.Scan(&e.ID, &e.Operation, &e.Operator, &e.Outcome, &e.Result, &createdStr); err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		e.CreatedAt, _ = time.Parse(timeLayout, createdStr)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate evaluations: %w", err)
	}
	return entries, nil
}

// Count returns the number of recorded evaluations.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM evaluations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count evaluations: %w", err)
	}
	return n, nil
}

// Clear deletes all entries.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM evaluations`); err != nil {
		return fmt.Errorf("clear evaluations: %w", err)
	}
	return nil
}
