/*
store.go - Storage interfaces consumed by the engine

PURPOSE:
  The engine never persists anything itself. It reads and writes through these
  interfaces; store/sqlite and workforce/store implement them.

KEY INTERFACES:
  EntryStore:     Query/insert time entries
  LeaveStore:     Query/insert leave requests, review with compare-and-swap
  TimesheetStore: Query/insert timesheet approvals, review with compare-and-swap
  ProjectStore:   Query/insert projects, update budget hours
  Directory:      Read-only employee rows
  TxStore:        All of the above plus WithTx for multi-step writes

REVIEW CONTRACT:
  ReviewLeave / ReviewTimesheet apply a decision only if the record is still
  pending, in a single atomic step. The loser of a race gets an
  IllegalTransitionError and the stored record is not modified. Missing
  records yield a NotFoundError.

SEE ALSO:
  - store/sqlite/sqlite.go: Production implementation
  - workforce/store/memory.go: In-memory implementation for tests
*/
package workforce

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// QUERIES
// =============================================================================

// EntryQuery filters time entries. Empty fields match everything.
type EntryQuery struct {
	UserID    UserID
	ProjectID ProjectID
	Window    generic.Window
}

// Matches applies the query to a single entry.
func (q EntryQuery) Matches(e TimeEntry) bool {
	if q.UserID != "" && e.UserID != q.UserID {
		return false
	}
	if q.ProjectID != "" && e.ProjectID != q.ProjectID {
		return false
	}
	return q.Window.Contains(e.WorkedAt())
}

type LeaveQuery struct {
	UserID UserID
	Status generic.ApprovalStatus
}

type TimesheetQuery struct {
	UserID    UserID
	Status    generic.ApprovalStatus
	WeekStart generic.TimePoint
}

type ProjectQuery struct {
	Status    ProjectStatus
	ManagerID UserID
}

type EmployeeQuery struct {
	Department string
}

// =============================================================================
// STORES
// =============================================================================

type EntryStore interface {
	// QueryEntries returns matching entries ordered by work time.
	QueryEntries(ctx context.Context, q EntryQuery) ([]TimeEntry, error)
	InsertEntry(ctx context.Context, e TimeEntry) error
}

type LeaveStore interface {
	GetLeave(ctx context.Context, id string) (LeaveRequest, error)
	QueryLeave(ctx context.Context, q LeaveQuery) ([]LeaveRequest, error)
	InsertLeave(ctx context.Context, l LeaveRequest) error

	// ReviewLeave moves a pending request to the decision's target status.
	ReviewLeave(ctx context.Context, id string, d generic.Decision, r generic.Review) (LeaveRequest, error)
}

type TimesheetStore interface {
	GetTimesheet(ctx context.Context, id string) (TimesheetApproval, error)
	QueryTimesheets(ctx context.Context, q TimesheetQuery) ([]TimesheetApproval, error)
	InsertTimesheet(ctx context.Context, t TimesheetApproval) error

	// ReviewTimesheet moves a pending timesheet to the decision's target status.
	ReviewTimesheet(ctx context.Context, id string, d generic.Decision, r generic.Review) (TimesheetApproval, error)
}

type ProjectStore interface {
	GetProject(ctx context.Context, id ProjectID) (Project, error)
	ListProjects(ctx context.Context, q ProjectQuery) ([]Project, error)
	InsertProject(ctx context.Context, p Project) error
	UpdateProjectBudget(ctx context.Context, id ProjectID, budgetHours decimal.Decimal) error
}

// Directory is read-only from the engine's point of view.
type Directory interface {
	GetEmployee(ctx context.Context, id UserID) (Employee, error)
	ListEmployees(ctx context.Context, q EmployeeQuery) ([]Employee, error)
}

// Store is the full storage collaborator.
type Store interface {
	EntryStore
	LeaveStore
	TimesheetStore
	ProjectStore
	Directory
}

// TxStore wraps Store with transaction support.
// If fn returns an error, nothing fn wrote is kept.
type TxStore interface {
	Store
	WithTx(ctx context.Context, fn func(Store) error) error
}
