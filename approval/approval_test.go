package approval_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-engine/approval"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
	"github.com/warp/workforce-engine/workforce/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var (
	ctx    = context.Background()
	monday = generic.NewTimePoint(2025, 1, 6)
)

var allocations = map[workforce.LeaveType]int{
	workforce.LeaveVacation: 15,
	workforce.LeaveSick:     10,
	workforce.LeavePersonal: 5,
}

func logEntry(t *testing.T, mem *store.Memory, user string, day generic.TimePoint, hours string, billable bool) {
	t.Helper()
	start := day.Midnight().Add(9 * time.Hour)
	require.NoError(t, mem.InsertEntry(ctx, workforce.TimeEntry{
		ID:          workforce.NewID(),
		UserID:      workforce.UserID(user),
		ProjectID:   "p-1",
		StartTime:   &start,
		HoursWorked: decimal.RequireFromString(hours),
		Billable:    billable,
		Type:        workforce.EntryRegular,
		CreatedAt:   start,
	}))
}

func submitVacation(t *testing.T, svc *approval.LeaveService, user string, start, end generic.TimePoint) workforce.LeaveRequest {
	t.Helper()
	req, err := svc.Submit(ctx, approval.LeaveSubmission{
		UserID: workforce.UserID(user),
		Type:   "vacation",
		Start:  start,
		End:    end,
		Reason: "family trip",
	})
	require.NoError(t, err)
	return req
}

// =============================================================================
// LEAVE
// =============================================================================

func TestLeave_SubmitCountsInclusiveDays(t *testing.T) {
	svc := approval.NewLeaveService(store.NewMemory(), allocations, nil)

	req := submitVacation(t, svc, "u1", monday, generic.NewTimePoint(2025, 1, 10))

	assert.Equal(t, 5, req.TotalDays)
	assert.Equal(t, workforce.LeaveVacation, req.Type)
	assert.Equal(t, generic.StatusPending, req.Status)
	assert.Nil(t, req.Review)
}

func TestLeave_SubmitRejectsBadInput(t *testing.T) {
	svc := approval.NewLeaveService(store.NewMemory(), allocations, nil)

	_, err := svc.Submit(ctx, approval.LeaveSubmission{UserID: "u1", Type: "SABBATICAL", Start: monday, End: monday})
	assert.ErrorIs(t, err, generic.ErrInvalidInput)

	_, err = svc.Submit(ctx, approval.LeaveSubmission{UserID: "u1", Type: "SICK", Start: monday, End: monday.AddDays(-2)})
	assert.ErrorIs(t, err, generic.ErrInvalidRange)
}

func TestLeave_ApproveSetsAuditFields(t *testing.T) {
	svc := approval.NewLeaveService(store.NewMemory(), allocations, nil)
	req := submitVacation(t, svc, "u1", monday, monday.AddDays(1))

	approved, err := svc.Approve(ctx, req.ID, "mgr-1", "enjoy")
	require.NoError(t, err)

	assert.Equal(t, generic.StatusApproved, approved.Status)
	require.NotNil(t, approved.Review)
	assert.Equal(t, "mgr-1", approved.Review.ApproverID)
	assert.Equal(t, "enjoy", approved.Review.Comments)
	assert.False(t, approved.Review.ReviewedAt.IsZero())
}

func TestLeave_ReviewRequiresApprover(t *testing.T) {
	svc := approval.NewLeaveService(store.NewMemory(), allocations, nil)
	req := submitVacation(t, svc, "u1", monday, monday)

	_, err := svc.Reject(ctx, req.ID, "  ", "no")
	assert.ErrorIs(t, err, generic.ErrInvalidInput)

	got, err := svc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, generic.StatusPending, got.Status)
}

func TestLeave_ReviewUnknownRecord(t *testing.T) {
	svc := approval.NewLeaveService(store.NewMemory(), allocations, nil)
	_, err := svc.Approve(ctx, "missing", "mgr-1", "")
	assert.ErrorIs(t, err, generic.ErrNotFound)
}

func TestLeave_ConcurrentReviewsExactlyOneWins(t *testing.T) {
	// GIVEN: One pending request
	svc := approval.NewLeaveService(store.NewMemory(), allocations, nil)
	req := submitVacation(t, svc, "u1", monday, monday.AddDays(2))

	// WHEN: Many approvers approve and reject it at the same time
	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, errs[i] = svc.Approve(ctx, req.ID, "mgr-a", "ok")
			} else {
				_, errs[i] = svc.Reject(ctx, req.ID, "mgr-b", "no")
			}
		}(i)
	}
	wg.Wait()

	// THEN: Exactly one succeeds, the rest see an illegal transition
	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, generic.ErrIllegalTransition)
	}
	assert.Equal(t, 1, wins)

	got, err := svc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.NotEqual(t, generic.StatusPending, got.Status)
}

func TestLeave_PendingAndForUser(t *testing.T) {
	svc := approval.NewLeaveService(store.NewMemory(), allocations, nil)
	a := submitVacation(t, svc, "u1", monday, monday)
	submitVacation(t, svc, "u2", monday, monday)
	_, err := svc.Approve(ctx, a.ID, "mgr-1", "")
	require.NoError(t, err)

	pending, err := svc.Pending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, workforce.UserID("u2"), pending[0].UserID)

	mine, err := svc.ForUser(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, generic.StatusApproved, mine[0].Status)

	// WHEN: Filtered by a status the user has nothing in
	none, err := svc.ForUser(ctx, "u1", generic.StatusPending)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLeave_Balance(t *testing.T) {
	// GIVEN: Approved vacation in 2025 (5 + 2 days), one pending, one in 2024
	svc := approval.NewLeaveService(store.NewMemory(), allocations, nil)
	for _, r := range []workforce.LeaveRequest{
		submitVacation(t, svc, "u1", monday, generic.NewTimePoint(2025, 1, 10)),
		submitVacation(t, svc, "u1", generic.NewTimePoint(2025, 3, 3), generic.NewTimePoint(2025, 3, 4)),
		submitVacation(t, svc, "u1", generic.NewTimePoint(2024, 12, 23), generic.NewTimePoint(2024, 12, 24)),
	} {
		_, err := svc.Approve(ctx, r.ID, "mgr-1", "")
		require.NoError(t, err)
	}
	submitVacation(t, svc, "u1", generic.NewTimePoint(2025, 6, 2), generic.NewTimePoint(2025, 6, 6))

	// WHEN: Computing the 2025 balance
	balances, err := svc.Balance(ctx, "u1", 2025)
	require.NoError(t, err)

	// THEN: Only allocated types appear, and only approved 2025 days are used
	require.Len(t, balances, 3)
	assert.Equal(t, approval.Balance{Type: workforce.LeaveVacation, Allocated: 15, Used: 7, Remaining: 8}, balances[0])
	assert.Equal(t, approval.Balance{Type: workforce.LeaveSick, Allocated: 10, Used: 0, Remaining: 10}, balances[1])
	assert.Equal(t, workforce.LeavePersonal, balances[2].Type)
}

func TestLeave_BalanceReportsUnallocatedUse(t *testing.T) {
	// GIVEN: Approved unpaid leave, a type with no allocation
	svc := approval.NewLeaveService(store.NewMemory(), allocations, nil)
	req, err := svc.Submit(ctx, approval.LeaveSubmission{
		UserID: "u1", Type: "unpaid", Start: monday, End: monday.AddDays(1),
	})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, req.ID, "mgr-1", "")
	require.NoError(t, err)

	// WHEN: Computing the balance
	balances, err := svc.Balance(ctx, "u1", 2025)
	require.NoError(t, err)

	// THEN: The used days show up against a zero allocation
	require.Len(t, balances, 4)
	assert.Equal(t, approval.Balance{Type: workforce.LeaveUnpaid, Allocated: 0, Used: 2, Remaining: -2}, balances[3])
}

// =============================================================================
// TIMESHEETS
// =============================================================================

func TestTimesheet_SubmitSnapshotsWeek(t *testing.T) {
	// GIVEN: Entries inside the week and one on the following Monday
	mem := store.NewMemory()
	logEntry(t, mem, "u1", monday, "8", true)
	logEntry(t, mem, "u1", monday.AddDays(4), "6", false)
	logEntry(t, mem, "u1", monday.AddDays(7), "9", true)
	svc := approval.NewTimesheetService(mem, nil)

	// WHEN: Submitting the week
	ts, err := svc.Submit(ctx, approval.TimesheetSubmission{UserID: "u1", WeekStart: monday, ApproverID: "mgr-1"})
	require.NoError(t, err)

	// THEN: The snapshot covers [monday, monday+7d) only
	assert.Equal(t, generic.StatusPending, ts.Status)
	assert.Equal(t, "2025-01-12", ts.WeekEnd.String())
	assert.True(t, ts.Snapshot.TotalHours.Equal(decimal.NewFromInt(14)))
	assert.True(t, ts.Snapshot.BillableHours.Equal(decimal.NewFromInt(8)))
	assert.True(t, ts.Snapshot.NonBillableHours.Equal(decimal.NewFromInt(6)))
}

func TestTimesheet_SnapshotFrozenAfterSubmission(t *testing.T) {
	mem := store.NewMemory()
	logEntry(t, mem, "u1", monday, "8", true)
	svc := approval.NewTimesheetService(mem, nil)
	ts, err := svc.Submit(ctx, approval.TimesheetSubmission{UserID: "u1", WeekStart: monday})
	require.NoError(t, err)

	// WHEN: More hours are logged for the same week afterwards
	logEntry(t, mem, "u1", monday.AddDays(1), "5", true)

	// THEN: The stored snapshot does not move
	got, err := svc.Get(ctx, ts.ID)
	require.NoError(t, err)
	assert.True(t, got.Snapshot.TotalHours.Equal(decimal.NewFromInt(8)))
}

func TestTimesheet_DuplicateWeekRefused(t *testing.T) {
	svc := approval.NewTimesheetService(store.NewMemory(), nil)
	first, err := svc.Submit(ctx, approval.TimesheetSubmission{UserID: "u1", WeekStart: monday})
	require.NoError(t, err)

	// WHEN: Submitting the same week again while the first is pending
	_, err = svc.Submit(ctx, approval.TimesheetSubmission{UserID: "u1", WeekStart: monday})
	assert.ErrorIs(t, err, generic.ErrIllegalTransition)

	// AND: After rejection a resubmission is accepted
	_, err = svc.Reject(ctx, first.ID, "mgr-1", "missing Friday")
	require.NoError(t, err)
	_, err = svc.Submit(ctx, approval.TimesheetSubmission{UserID: "u1", WeekStart: monday})
	assert.NoError(t, err)
}

func TestTimesheet_ApproveTwiceLeavesAuditFieldsUnchanged(t *testing.T) {
	svc := approval.NewTimesheetService(store.NewMemory(), nil)
	ts, err := svc.Submit(ctx, approval.TimesheetSubmission{UserID: "u1", WeekStart: monday})
	require.NoError(t, err)
	first, err := svc.Approve(ctx, ts.ID, "mgr-1", "fine")
	require.NoError(t, err)

	// WHEN: A second approval arrives
	_, err = svc.Approve(ctx, ts.ID, "mgr-2", "also fine")

	// THEN: It fails and the first review is kept
	var illegal *generic.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, generic.StatusApproved, illegal.From)

	got, err := svc.Get(ctx, ts.ID)
	require.NoError(t, err)
	assert.Equal(t, "mgr-1", got.Review.ApproverID)
	assert.Equal(t, "fine", got.Review.Comments)
	assert.Equal(t, first.Review.ReviewedAt, got.Review.ReviewedAt)
}

func TestTimesheet_FailedInsertLeavesNoRecord(t *testing.T) {
	mem := store.NewMemory()
	logEntry(t, mem, "u1", monday, "8", true)
	cause := errors.New("database is locked")
	mem.FailOn("InsertTimesheet", cause)
	svc := approval.NewTimesheetService(mem, nil)

	_, err := svc.Submit(ctx, approval.TimesheetSubmission{UserID: "u1", WeekStart: monday})
	assert.ErrorIs(t, err, generic.ErrStorageFailure)
	assert.ErrorIs(t, err, cause)

	all, err := mem.QueryTimesheets(ctx, workforce.TimesheetQuery{UserID: "u1"})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTimesheet_PendingForApprover(t *testing.T) {
	svc := approval.NewTimesheetService(store.NewMemory(), nil)
	_, err := svc.Submit(ctx, approval.TimesheetSubmission{UserID: "u1", WeekStart: monday, ApproverID: "mgr-1"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, approval.TimesheetSubmission{UserID: "u2", WeekStart: monday, ApproverID: "mgr-2"})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, approval.TimesheetSubmission{UserID: "u3", WeekStart: monday})
	require.NoError(t, err)

	mine, err := svc.Pending(ctx, "mgr-1")
	require.NoError(t, err)
	users := []workforce.UserID{}
	for _, ts := range mine {
		users = append(users, ts.UserID)
	}
	assert.ElementsMatch(t, []workforce.UserID{"u1", "u3"}, users)

	all, err := svc.Pending(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
