/*
Package approval runs the leave and timesheet workflows.

PURPOSE:
  Both workflows share one transition model (generic/approval.go). This file
  holds the review step they have in common; leave.go and timesheet.go
  instantiate it over their own record type and store methods.

REVIEW FLOW:
  1. Load the record (NotFound if absent)
  2. Check the transition against its current status (fail fast)
  3. Apply it through the store's status-guarded compare-and-swap
     (the authoritative check: a concurrent reviewer may have won)

SEE ALSO:
  - generic/approval.go: State machine
  - workforce/store.go: ReviewLeave / ReviewTimesheet contract
*/
package approval

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/warp/workforce-engine/generic"
)

type reviewable interface {
	Current() generic.ApprovalStatus
}

type workflow[T reviewable] struct {
	kind   string
	get    func(context.Context, string) (T, error)
	swap   func(context.Context, string, generic.Decision, generic.Review) (T, error)
	logger *slog.Logger
	now    func() time.Time
}

func (w workflow[T]) review(ctx context.Context, id string, d generic.Decision, approverID, comments string) (T, error) {
	var zero T
	rv := generic.Review{
		ApproverID: strings.TrimSpace(approverID),
		Comments:   comments,
		ReviewedAt: w.now().UTC(),
	}
	if err := rv.Validate(); err != nil {
		return zero, err
	}

	current, err := w.get(ctx, id)
	if err != nil {
		return zero, generic.WrapStorage("Get", err)
	}
	if _, err := generic.Transition(id, current.Current(), d); err != nil {
		w.logger.Warn(w.kind+" review refused",
			slog.String("id", id),
			slog.String("status", string(current.Current())),
			slog.String("decision", string(d)))
		return zero, err
	}

	updated, err := w.swap(ctx, id, d, rv)
	if err != nil {
		if generic.IsConflict(err) {
			w.logger.Warn(w.kind+" review lost race", slog.String("id", id), slog.String("decision", string(d)))
		}
		return zero, generic.WrapStorage("Review", err)
	}

	w.logger.Info(w.kind+" reviewed",
		slog.String("id", id),
		slog.String("status", string(updated.Current())),
		slog.String("approver", rv.ApproverID))
	return updated, nil
}
