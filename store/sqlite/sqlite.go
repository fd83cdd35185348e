/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements workforce.TxStore over five tables. Every statement is built
  with squirrel and runs against either the pool or an open transaction
  through the same queries type.

KEY TABLES:
  employees:           Directory rows (seeded, never written by the engine)
  projects:            Rate + budget hours
  time_entries:        Logged hours; worked_at is the instant range filters use
  leave_requests:      Leave workflow records
  timesheet_approvals: Weekly snapshots awaiting review

INDEXES:
  - idx_entries_user_worked / idx_entries_project_worked: Range queries (hot path)
  - idx_timesheets_live_week: At most one non-rejected timesheet per user-week
  - idx_leave_status / idx_timesheets_status: Pending listings

REVIEWS:
  ReviewLeave / ReviewTimesheet issue
      UPDATE ... SET status = ?, approver_id = ?, ... WHERE id = ? AND status = 'pending'
  and treat zero affected rows as a lost race (or a missing record). The
  guarded UPDATE is the compare-and-swap; no application lock is held.

WAL MODE:
  Opened with WAL, a 5s busy timeout and IMMEDIATE transactions, so a
  WithTx block takes the write lock up front and check-then-insert
  sequences cannot interleave.

ENCODING:
  Timestamps:  fixed-width UTC text (sortable as strings)
  Dates:       2006-01-02
  Decimals:    TEXT via decimal.Decimal's Scanner/Valuer

USAGE:
  store, err := sqlite.New("./data/workforce.db")
  if err != nil {
      return err
  }
  defer store.Close()

SEE ALSO:
  - workforce/store.go: Interface definitions
  - workforce/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"

	"github.com/warp/workforce-engine/workforce"
)

const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries implements workforce.Store on top of a queryer.
type queries struct {
	q queryer
}

// Store implements workforce.TxStore using SQLite.
type Store struct {
	queries
	db *sql.DB
}

var _ workforce.TxStore = (*Store)(nil)

// New opens (and migrates) the database at dbPath.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// each connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{queries: queries{q: db}, db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_employees_department ON employees(department);

	CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		client TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		hourly_rate TEXT NOT NULL,
		budget_hours TEXT NOT NULL,
		status TEXT NOT NULL,
		manager_id TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS time_entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		project_id TEXT NOT NULL REFERENCES projects(id),
		start_time TEXT,
		end_time TEXT,
		hours_worked TEXT NOT NULL,
		billable INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		entry_type TEXT NOT NULL,
		worked_at TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_user_worked ON time_entries(user_id, worked_at);
	CREATE INDEX IF NOT EXISTS idx_entries_project_worked ON time_entries(project_id, worked_at);
	CREATE INDEX IF NOT EXISTS idx_entries_worked ON time_entries(worked_at);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		total_days INTEGER NOT NULL CHECK (total_days >= 1),
		reason TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		approver_id TEXT,
		comments TEXT,
		reviewed_at TEXT,
		requested_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_leave_user ON leave_requests(user_id);
	CREATE INDEX IF NOT EXISTS idx_leave_status ON leave_requests(status);

	CREATE TABLE IF NOT EXISTS timesheet_approvals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		assigned_approver_id TEXT NOT NULL DEFAULT '',
		week_start TEXT NOT NULL,
		week_end TEXT NOT NULL,
		total_hours TEXT NOT NULL,
		billable_hours TEXT NOT NULL,
		non_billable_hours TEXT NOT NULL,
		status TEXT NOT NULL,
		approver_id TEXT,
		comments TEXT,
		reviewed_at TEXT,
		submitted_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_timesheets_status ON timesheet_approvals(status);

	-- a rejected week may be resubmitted; anything else may not
	CREATE UNIQUE INDEX IF NOT EXISTS idx_timesheets_live_week
		ON timesheet_approvals(user_id, week_start)
		WHERE status <> 'rejected';
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TRANSACTIONS (workforce.TxStore)
// =============================================================================

// WithTx executes fn within a database transaction. fn's Store reads and
// writes through the transaction; it is rolled back if fn returns an error.
func (s *Store) WithTx(ctx context.Context, fn func(workforce.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&queries{q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// =============================================================================
// HELPERS
// =============================================================================

func (qs *queries) exec(ctx context.Context, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return qs.q.ExecContext(ctx, query, args...)
}

func (qs *queries) query(ctx context.Context, b sq.Sqlizer) (*sql.Rows, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}
	return qs.q.QueryContext(ctx, query, args...)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}

func nullTimestamp(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTimestamp(*t), Valid: true}
}

func parseNullTimestamp(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid {
		return nil, nil
	}
	t, err := parseTimestamp(ns.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func isConstraint(err error, code sqlite3.ErrNoExtended) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == code
}
