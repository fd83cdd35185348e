package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"

	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

// =============================================================================
// TIME ENTRIES (workforce.EntryStore)
// =============================================================================

var entryColumns = []string{
	"id", "user_id", "project_id", "start_time", "end_time", "hours_worked",
	"billable", "description", "entry_type", "created_at",
}

func (qs *queries) InsertEntry(ctx context.Context, e workforce.TimeEntry) error {
	insert := sq.Insert("time_entries").
		Columns(append(entryColumns, "worked_at")...).
		Values(
			e.ID, e.UserID, e.ProjectID,
			nullTimestamp(e.StartTime), nullTimestamp(e.EndTime),
			e.HoursWorked, e.Billable, e.Description, e.Type,
			formatTimestamp(e.CreatedAt),
			formatTimestamp(e.WorkedAt()),
		)

	if _, err := qs.exec(ctx, insert); err != nil {
		if isConstraint(err, sqlite3.ErrConstraintForeignKey) {
			return &generic.NotFoundError{Kind: "project", ID: string(e.ProjectID)}
		}
		return fmt.Errorf("failed to insert time entry: %w", err)
	}
	return nil
}

// QueryEntries filters on worked_at, so a window applies to the same
// instant the aggregator uses.
func (qs *queries) QueryEntries(ctx context.Context, q workforce.EntryQuery) ([]workforce.TimeEntry, error) {
	sel := sq.Select(entryColumns...).From("time_entries").OrderBy("worked_at ASC", "id ASC")
	if q.UserID != "" {
		sel = sel.Where(sq.Eq{"user_id": q.UserID})
	}
	if q.ProjectID != "" {
		sel = sel.Where(sq.Eq{"project_id": q.ProjectID})
	}
	if !q.Window.IsZero() {
		sel = sel.Where(sq.GtOrEq{"worked_at": formatTimestamp(q.Window.From)}).
			Where(sq.Lt{"worked_at": formatTimestamp(q.Window.To)})
	}

	rows, err := qs.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to query time entries: %w", err)
	}
	defer rows.Close()

	var out []workforce.TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEntry(row scanner) (workforce.TimeEntry, error) {
	var (
		e          workforce.TimeEntry
		start, end sql.NullString
		createdAt  string
	)
	err := row.Scan(
		&e.ID, &e.UserID, &e.ProjectID, &start, &end, &e.HoursWorked,
		&e.Billable, &e.Description, &e.Type, &createdAt,
	)
	if err != nil {
		return e, fmt.Errorf("failed to scan time entry: %w", err)
	}
	if e.StartTime, err = parseNullTimestamp(start); err != nil {
		return e, err
	}
	if e.EndTime, err = parseNullTimestamp(end); err != nil {
		return e, err
	}
	e.CreatedAt, err = parseTimestamp(createdAt)
	return e, err
}
