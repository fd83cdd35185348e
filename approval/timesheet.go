package approval

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

// =============================================================================
// TIMESHEET WORKFLOW
// =============================================================================

// TimesheetService submits and reviews weekly timesheets.
type TimesheetService struct {
	store  workforce.TxStore
	logger *slog.Logger
	now    func() time.Time
	flow   workflow[workforce.TimesheetApproval]
}

func NewTimesheetService(store workforce.TxStore, logger *slog.Logger) *TimesheetService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &TimesheetService{store: store, logger: logger, now: time.Now}
	s.flow = workflow[workforce.TimesheetApproval]{
		kind:   "timesheet",
		get:    store.GetTimesheet,
		swap:   store.ReviewTimesheet,
		logger: logger,
		now:    func() time.Time { return s.now() },
	}
	return s
}

type TimesheetSubmission struct {
	UserID     workforce.UserID
	WeekStart  generic.TimePoint
	ApproverID string // optional
}

// Submit snapshots the hours logged in [WeekStart, WeekStart+7d) and records
// a pending approval. The duplicate check, the snapshot and the insert run in
// one transaction: either the record exists with its snapshot, or nothing was
// written. A week that already has a pending or approved timesheet is refused.
func (s *TimesheetService) Submit(ctx context.Context, sub TimesheetSubmission) (workforce.TimesheetApproval, error) {
	if strings.TrimSpace(string(sub.UserID)) == "" {
		return workforce.TimesheetApproval{}, &generic.InputError{Field: "user_id", Message: "required"}
	}
	if sub.WeekStart.IsZero() {
		return workforce.TimesheetApproval{}, &generic.InputError{Field: "week_start", Message: "required"}
	}

	var created workforce.TimesheetApproval
	err := s.store.WithTx(ctx, func(tx workforce.Store) error {
		existing, err := tx.QueryTimesheets(ctx, workforce.TimesheetQuery{UserID: sub.UserID, WeekStart: sub.WeekStart})
		if err != nil {
			return generic.WrapStorage("QueryTimesheets", err)
		}
		for _, ts := range existing {
			if ts.Status != generic.StatusRejected {
				return &generic.IllegalTransitionError{
					RecordID: ts.ID,
					From:     ts.Status,
					To:       generic.StatusPending,
					Reason:   "week " + sub.WeekStart.String() + " already submitted",
				}
			}
		}

		entries, err := tx.QueryEntries(ctx, workforce.EntryQuery{UserID: sub.UserID, Window: generic.WeekWindow(sub.WeekStart)})
		if err != nil {
			return generic.WrapStorage("QueryEntries", err)
		}
		totals := workforce.AggregateWeek(entries, sub.WeekStart)

		created = workforce.TimesheetApproval{
			ID:                 workforce.NewID(),
			UserID:             sub.UserID,
			AssignedApproverID: strings.TrimSpace(sub.ApproverID),
			WeekStart:          sub.WeekStart,
			WeekEnd:            sub.WeekStart.AddDays(6),
			Snapshot:           totals.Snapshot(),
			SubmittedAt:        s.now().UTC(),
			ApprovalState:      generic.Pending(),
		}
		return generic.WrapStorage("InsertTimesheet", tx.InsertTimesheet(ctx, created))
	})
	if err != nil {
		s.logger.Warn("timesheet submission failed",
			slog.String("user_id", string(sub.UserID)),
			slog.String("week_start", sub.WeekStart.String()),
			slog.String("error", err.Error()))
		return workforce.TimesheetApproval{}, generic.WrapStorage("WithTx", err)
	}

	s.logger.Info("timesheet submitted",
		slog.String("id", created.ID),
		slog.String("user_id", string(created.UserID)),
		slog.String("week_start", created.WeekStart.String()),
		slog.String("total_hours", created.Snapshot.TotalHours.String()))
	return created, nil
}

func (s *TimesheetService) Approve(ctx context.Context, id, approverID, comments string) (workforce.TimesheetApproval, error) {
	return s.flow.review(ctx, id, generic.DecisionApprove, approverID, comments)
}

func (s *TimesheetService) Reject(ctx context.Context, id, approverID, comments string) (workforce.TimesheetApproval, error) {
	return s.flow.review(ctx, id, generic.DecisionReject, approverID, comments)
}

func (s *TimesheetService) Get(ctx context.Context, id string) (workforce.TimesheetApproval, error) {
	ts, err := s.store.GetTimesheet(ctx, id)
	return ts, generic.WrapStorage("GetTimesheet", err)
}

// Pending lists timesheets awaiting review by approverID: those assigned to
// them plus unassigned ones. An empty approverID lists every pending item.
func (s *TimesheetService) Pending(ctx context.Context, approverID string) ([]workforce.TimesheetApproval, error) {
	all, err := s.store.QueryTimesheets(ctx, workforce.TimesheetQuery{Status: generic.StatusPending})
	if err != nil {
		return nil, generic.WrapStorage("QueryTimesheets", err)
	}
	if approverID == "" {
		return all, nil
	}
	var out []workforce.TimesheetApproval
	for _, ts := range all {
		if ts.AssignedApproverID == "" || ts.AssignedApproverID == approverID {
			out = append(out, ts)
		}
	}
	return out, nil
}

// ForUser lists a user's timesheets, newest week first. An empty status
// lists all of them.
func (s *TimesheetService) ForUser(ctx context.Context, user workforce.UserID, status generic.ApprovalStatus) ([]workforce.TimesheetApproval, error) {
	out, err := s.store.QueryTimesheets(ctx, workforce.TimesheetQuery{UserID: user, Status: status})
	return out, generic.WrapStorage("QueryTimesheets", err)
}
