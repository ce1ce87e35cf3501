package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"CallbackNotifier/internal/ports"
)

const (
	markerTable = "cooldown_markers"
	markerKey   = "last_sent"
)

// SQLMarkerStore persists the last-sent marker in a SQL table shared by runs.
type SQLMarkerStore struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.MarkerStore = (*SQLMarkerStore)(nil)

// NewSQLMarkerStore wires a sql.DB opened with the "sqlite" or "postgres" driver.
func NewSQLMarkerStore(db *sql.DB, driver string) *SQLMarkerStore {
	var placeholder sq.PlaceholderFormat = sq.Question
	if driver == "postgres" {
		placeholder = sq.Dollar
	}
	return &SQLMarkerStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

// EnsureSchema creates the marker table when it does not exist yet.
func (r *SQLMarkerStore) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS ` + markerTable + ` (
              name    TEXT PRIMARY KEY,
              sent_at TEXT NOT NULL
              )`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create marker table: %w", err)
	}
	return nil
}

// LastSent returns the stored marker; no row yields ok=false.
func (r *SQLMarkerStore) LastSent(ctx context.Context) (time.Time, bool, error) {
	query, args, err := r.builder.
		Select("sent_at").
		From(markerTable).
		Where(sq.Eq{"name": markerKey}).
		ToSql()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("build marker query: %w", err)
	}

	var raw string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query marker: %w", err)
	}

	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("malformed marker %q", raw)
	}
	return at, true, nil
}

// SetLastSent upserts the marker row.
func (r *SQLMarkerStore) SetLastSent(ctx context.Context, at time.Time) error {
	query, args, err := r.builder.
		Insert(markerTable).
		Columns("name", "sent_at").
		Values(markerKey, at.UTC().Format(time.RFC3339Nano)).
		Suffix("ON CONFLICT (name) DO UPDATE SET sent_at = excluded.sent_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build marker upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert marker: %w", err)
	}
	return nil
}
