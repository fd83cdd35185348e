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
// LEAVE WORKFLOW
// =============================================================================

// LeaveService submits and reviews leave requests.
type LeaveService struct {
	store       workforce.LeaveStore
	logger      *slog.Logger
	now         func() time.Time
	allocations map[workforce.LeaveType]int
	flow        workflow[workforce.LeaveRequest]
}

// DefaultAllocations is the yearly allowance in days when none is configured.
func DefaultAllocations() map[workforce.LeaveType]int {
	return map[workforce.LeaveType]int{
		workforce.LeaveVacation: 15,
		workforce.LeaveSick:     10,
		workforce.LeavePersonal: 5,
	}
}

// NewLeaveService wires the workflow. allocations are days per year per leave
// type, used by Balance.
func NewLeaveService(store workforce.LeaveStore, allocations map[workforce.LeaveType]int, logger *slog.Logger) *LeaveService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &LeaveService{store: store, logger: logger, now: time.Now, allocations: allocations}
	s.flow = workflow[workforce.LeaveRequest]{
		kind:   "leave request",
		get:    store.GetLeave,
		swap:   store.ReviewLeave,
		logger: logger,
		now:    func() time.Time { return s.now() },
	}
	return s
}

type LeaveSubmission struct {
	UserID workforce.UserID
	Type   string
	Start  generic.TimePoint
	End    generic.TimePoint
	Reason string
}

// Submit creates a pending leave request.
func (s *LeaveService) Submit(ctx context.Context, sub LeaveSubmission) (workforce.LeaveRequest, error) {
	if strings.TrimSpace(string(sub.UserID)) == "" {
		return workforce.LeaveRequest{}, &generic.InputError{Field: "user_id", Message: "required"}
	}
	lt, err := workforce.ParseLeaveType(sub.Type)
	if err != nil {
		return workforce.LeaveRequest{}, err
	}
	p, err := generic.NewPeriod(sub.Start, sub.End)
	if err != nil {
		return workforce.LeaveRequest{}, err
	}
	days, err := workforce.LeaveDays(p.Start.Midnight(), p.End.Midnight())
	if err != nil {
		return workforce.LeaveRequest{}, err
	}

	req := workforce.LeaveRequest{
		ID:            workforce.NewID(),
		UserID:        sub.UserID,
		Type:          lt,
		Start:         p.Start,
		End:           p.End,
		TotalDays:     days,
		Reason:        sub.Reason,
		RequestedAt:   s.now().UTC(),
		ApprovalState: generic.Pending(),
	}
	if err := s.store.InsertLeave(ctx, req); err != nil {
		return workforce.LeaveRequest{}, generic.WrapStorage("InsertLeave", err)
	}

	s.logger.Info("leave request submitted",
		slog.String("id", req.ID),
		slog.String("user_id", string(req.UserID)),
		slog.String("type", string(req.Type)),
		slog.Int("days", req.TotalDays))
	return req, nil
}

func (s *LeaveService) Approve(ctx context.Context, id, approverID, comments string) (workforce.LeaveRequest, error) {
	return s.flow.review(ctx, id, generic.DecisionApprove, approverID, comments)
}

func (s *LeaveService) Reject(ctx context.Context, id, approverID, comments string) (workforce.LeaveRequest, error) {
	return s.flow.review(ctx, id, generic.DecisionReject, approverID, comments)
}

func (s *LeaveService) Get(ctx context.Context, id string) (workforce.LeaveRequest, error) {
	l, err := s.store.GetLeave(ctx, id)
	return l, generic.WrapStorage("GetLeave", err)
}

// Pending lists every leave request awaiting review. No side effects.
func (s *LeaveService) Pending(ctx context.Context) ([]workforce.LeaveRequest, error) {
	out, err := s.store.QueryLeave(ctx, workforce.LeaveQuery{Status: generic.StatusPending})
	return out, generic.WrapStorage("QueryLeave", err)
}

// ForUser lists a user's leave requests, newest first, optionally limited to
// one status.
func (s *LeaveService) ForUser(ctx context.Context, user workforce.UserID, status generic.ApprovalStatus) ([]workforce.LeaveRequest, error) {
	out, err := s.store.QueryLeave(ctx, workforce.LeaveQuery{UserID: user, Status: status})
	return out, generic.WrapStorage("QueryLeave", err)
}

// =============================================================================
// BALANCE
// =============================================================================

type Balance struct {
	Type      workforce.LeaveType
	Allocated int
	Used      int
	Remaining int
}

// Balance reports allocated, used and remaining days for the calendar year,
// per leave type that is allocated or has approved use. Used counts approved
// requests starting in that year; an unallocated type goes negative.
func (s *LeaveService) Balance(ctx context.Context, user workforce.UserID, year int) ([]Balance, error) {
	approved, err := s.store.QueryLeave(ctx, workforce.LeaveQuery{UserID: user, Status: generic.StatusApproved})
	if err != nil {
		return nil, generic.WrapStorage("QueryLeave", err)
	}

	used := make(map[workforce.LeaveType]int)
	for _, l := range approved {
		if l.Start.Year() == year {
			used[l.Type] += l.TotalDays
		}
	}

	var out []Balance
	for _, lt := range workforce.LeaveTypes {
		allocated, ok := s.allocations[lt]
		if !ok && used[lt] == 0 {
			continue
		}
		out = append(out, Balance{
			Type:      lt,
			Allocated: allocated,
			Used:      used[lt],
			Remaining: allocated - used[lt],
		})
	}
	return out, nil
}
