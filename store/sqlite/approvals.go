package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"

	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

// =============================================================================
// LEAVE REQUESTS (workforce.LeaveStore)
// =============================================================================

var leaveColumns = []string{
	"id", "user_id", "leave_type", "start_date", "end_date", "total_days", "reason",
	"status", "approver_id", "comments", "reviewed_at", "requested_at",
}

func (qs *queries) InsertLeave(ctx context.Context, l workforce.LeaveRequest) error {
	insert := sq.Insert("leave_requests").
		Columns(leaveColumns...).
		Values(
			l.ID, l.UserID, l.Type, l.Start.String(), l.End.String(), l.TotalDays, l.Reason,
			l.Status, nil, nil, nil, formatTimestamp(l.RequestedAt),
		)
	if _, err := qs.exec(ctx, insert); err != nil {
		return fmt.Errorf("failed to insert leave request: %w", err)
	}
	return nil
}

func (qs *queries) GetLeave(ctx context.Context, id string) (workforce.LeaveRequest, error) {
	out, err := qs.selectLeave(ctx, sq.Eq{"id": id})
	if err != nil {
		return workforce.LeaveRequest{}, err
	}
	if len(out) == 0 {
		return workforce.LeaveRequest{}, &generic.NotFoundError{Kind: "leave request", ID: id}
	}
	return out[0], nil
}

func (qs *queries) QueryLeave(ctx context.Context, q workforce.LeaveQuery) ([]workforce.LeaveRequest, error) {
	where := sq.Eq{}
	if q.UserID != "" {
		where["user_id"] = q.UserID
	}
	if q.Status != "" {
		where["status"] = q.Status
	}
	return qs.selectLeave(ctx, where)
}

func (qs *queries) ReviewLeave(ctx context.Context, id string, d generic.Decision, r generic.Review) (workforce.LeaveRequest, error) {
	if err := qs.review(ctx, "leave_requests", id, d, r); err != nil {
		if errors.Is(err, errNotPending) {
			return workforce.LeaveRequest{}, qs.explainLeave(ctx, id, d)
		}
		return workforce.LeaveRequest{}, err
	}
	return qs.GetLeave(ctx, id)
}

func (qs *queries) explainLeave(ctx context.Context, id string, d generic.Decision) error {
	cur, err := qs.GetLeave(ctx, id)
	if err != nil {
		return err
	}
	return &generic.IllegalTransitionError{RecordID: id, From: cur.Status, To: d.Target()}
}

func (qs *queries) selectLeave(ctx context.Context, where sq.Eq) ([]workforce.LeaveRequest, error) {
	sel := sq.Select(leaveColumns...).From("leave_requests").
		Where(where).
		OrderBy("requested_at DESC", "id ASC")

	rows, err := qs.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var out []workforce.LeaveRequest
	for rows.Next() {
		var (
			l                     workforce.LeaveRequest
			start, end, requested string
			audit                 reviewColumns
		)
		err := rows.Scan(
			&l.ID, &l.UserID, &l.Type, &start, &end, &l.TotalDays, &l.Reason,
			&l.Status, &audit.approver, &audit.comments, &audit.reviewedAt, &requested,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		if l.Start, err = generic.ParseDate(start); err != nil {
			return nil, err
		}
		if l.End, err = generic.ParseDate(end); err != nil {
			return nil, err
		}
		if l.RequestedAt, err = parseTimestamp(requested); err != nil {
			return nil, err
		}
		if l.Review, err = audit.review(); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// =============================================================================
// TIMESHEET APPROVALS (workforce.TimesheetStore)
// =============================================================================

var timesheetColumns = []string{
	"id", "user_id", "assigned_approver_id", "week_start", "week_end",
	"total_hours", "billable_hours", "non_billable_hours",
	"status", "approver_id", "comments", "reviewed_at", "submitted_at",
}

// InsertTimesheet maps a violation of idx_timesheets_live_week to an
// IllegalTransitionError.
func (qs *queries) InsertTimesheet(ctx context.Context, t workforce.TimesheetApproval) error {
	insert := sq.Insert("timesheet_approvals").
		Columns(timesheetColumns...).
		Values(
			t.ID, t.UserID, t.AssignedApproverID, t.WeekStart.String(), t.WeekEnd.String(),
			t.Snapshot.TotalHours, t.Snapshot.BillableHours, t.Snapshot.NonBillableHours,
			t.Status, nil, nil, nil, formatTimestamp(t.SubmittedAt),
		)
	if _, err := qs.exec(ctx, insert); err != nil {
		if isConstraint(err, sqlite3.ErrConstraintUnique) {
			return &generic.IllegalTransitionError{
				RecordID: t.ID,
				To:       generic.StatusPending,
				Reason:   "week " + t.WeekStart.String() + " already submitted",
			}
		}
		return fmt.Errorf("failed to insert timesheet: %w", err)
	}
	return nil
}

func (qs *queries) GetTimesheet(ctx context.Context, id string) (workforce.TimesheetApproval, error) {
	out, err := qs.selectTimesheets(ctx, sq.Eq{"id": id})
	if err != nil {
		return workforce.TimesheetApproval{}, err
	}
	if len(out) == 0 {
		return workforce.TimesheetApproval{}, &generic.NotFoundError{Kind: "timesheet", ID: id}
	}
	return out[0], nil
}

func (qs *queries) QueryTimesheets(ctx context.Context, q workforce.TimesheetQuery) ([]workforce.TimesheetApproval, error) {
	where := sq.Eq{}
	if q.UserID != "" {
		where["user_id"] = q.UserID
	}
	if q.Status != "" {
		where["status"] = q.Status
	}
	if !q.WeekStart.IsZero() {
		where["week_start"] = q.WeekStart.String()
	}
	return qs.selectTimesheets(ctx, where)
}

func (qs *queries) ReviewTimesheet(ctx context.Context, id string, d generic.Decision, r generic.Review) (workforce.TimesheetApproval, error) {
	if err := qs.review(ctx, "timesheet_approvals", id, d, r); err != nil {
		if errors.Is(err, errNotPending) {
			cur, err := qs.GetTimesheet(ctx, id)
			if err != nil {
				return workforce.TimesheetApproval{}, err
			}
			return workforce.TimesheetApproval{}, &generic.IllegalTransitionError{RecordID: id, From: cur.Status, To: d.Target()}
		}
		return workforce.TimesheetApproval{}, err
	}
	return qs.GetTimesheet(ctx, id)
}

func (qs *queries) selectTimesheets(ctx context.Context, where sq.Eq) ([]workforce.TimesheetApproval, error) {
	sel := sq.Select(timesheetColumns...).From("timesheet_approvals").
		Where(where).
		OrderBy("week_start DESC", "submitted_at DESC")

	rows, err := qs.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to query timesheets: %w", err)
	}
	defer rows.Close()

	var out []workforce.TimesheetApproval
	for rows.Next() {
		var (
			t                          workforce.TimesheetApproval
			weekStart, weekEnd, subAt string
			audit                      reviewColumns
		)
		err := rows.Scan(
			&t.ID, &t.UserID, &t.AssignedApproverID, &weekStart, &weekEnd,
			&t.Snapshot.TotalHours, &t.Snapshot.BillableHours, &t.Snapshot.NonBillableHours,
			&t.Status, &audit.approver, &audit.comments, &audit.reviewedAt, &subAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timesheet: %w", err)
		}
		if t.WeekStart, err = generic.ParseDate(weekStart); err != nil {
			return nil, err
		}
		if t.WeekEnd, err = generic.ParseDate(weekEnd); err != nil {
			return nil, err
		}
		if t.SubmittedAt, err = parseTimestamp(subAt); err != nil {
			return nil, err
		}
		if t.Review, err = audit.review(); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// =============================================================================
// STATUS-GUARDED REVIEW
// =============================================================================

var errNotPending = errors.New("record not pending")

// review applies d to a pending row in one UPDATE. Zero affected rows means
// the row is missing or already reviewed; callers tell the two apart.
func (qs *queries) review(ctx context.Context, table, id string, d generic.Decision, r generic.Review) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if _, err := generic.Transition(id, generic.StatusPending, d); err != nil {
		return err
	}

	update := sq.Update(table).
		Set("status", d.Target()).
		Set("approver_id", r.ApproverID).
		Set("comments", r.Comments).
		Set("reviewed_at", formatTimestamp(r.ReviewedAt)).
		Where(sq.Eq{"id": id, "status": generic.StatusPending})

	res, err := qs.exec(ctx, update)
	if err != nil {
		return fmt.Errorf("failed to review %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errNotPending
	}
	return nil
}

type reviewColumns struct {
	approver   sql.NullString
	comments   sql.NullString
	reviewedAt sql.NullString
}

func (c reviewColumns) review() (*generic.Review, error) {
	if !c.approver.Valid {
		return nil, nil
	}
	at, err := parseTimestamp(c.reviewedAt.String)
	if err != nil {
		return nil, err
	}
	return &generic.Review{ApproverID: c.approver.String, Comments: c.comments.String, ReviewedAt: at}, nil
}
