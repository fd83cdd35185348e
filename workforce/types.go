/*
Package workforce holds the records the engine computes over.

PURPOSE:
  Five record kinds come from the storage collaborator: time entries, leave
  requests, timesheet approvals, projects and the employee directory. This
  package defines them, the storage interfaces that supply them, and the
  TimeEntry Aggregator every calculator builds on.

KEY CONCEPTS IN THIS FILE (types.go):
  - TimeEntry: hours logged by one user on one project
  - LeaveRequest: time away, reviewed through the approval state machine
  - TimesheetApproval: a week of hours frozen at submission
  - Project: hourly rate + budget hours
  - Employee: directory row used as join context only

SEE ALSO:
  - aggregate.go: TimeEntry Aggregator
  - store.go: Storage interfaces
  - generic/approval.go: Shared state machine
*/
package workforce

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
)

type UserID string
type ProjectID string

// NewID returns a random record identifier.
func NewID() string {
	return uuid.NewString()
}

// =============================================================================
// TIME ENTRY
// =============================================================================

type EntryType string

const (
	EntryRegular  EntryType = "regular"
	EntryOvertime EntryType = "overtime"
)

// TimeEntry is immutable once created.
type TimeEntry struct {
	ID          string
	UserID      UserID
	ProjectID   ProjectID
	StartTime   *time.Time
	EndTime     *time.Time
	HoursWorked decimal.Decimal
	Billable    bool
	Description string
	Type        EntryType
	CreatedAt   time.Time
}

// Hours is the duration between the timestamps when both are present,
// otherwise the stored hours-worked value.
func (e TimeEntry) Hours() decimal.Decimal {
	if e.StartTime != nil && e.EndTime != nil && !e.EndTime.Before(*e.StartTime) {
		d := e.EndTime.Sub(*e.StartTime)
		return decimal.NewFromInt(int64(d)).Div(decimal.NewFromInt(int64(time.Hour)))
	}
	return e.HoursWorked
}

// WorkedAt is the instant range filters apply to.
func (e TimeEntry) WorkedAt() time.Time {
	if e.StartTime != nil {
		return e.StartTime.UTC()
	}
	return e.CreatedAt.UTC()
}

// WorkDate is the calendar date the entry counts towards.
func (e TimeEntry) WorkDate() generic.TimePoint {
	return generic.DateOf(e.WorkedAt())
}

func (e TimeEntry) Validate() error {
	if e.UserID == "" {
		return &generic.InputError{Field: "user_id", Message: "required"}
	}
	if e.ProjectID == "" {
		return &generic.InputError{Field: "project_id", Message: "required"}
	}
	if e.HoursWorked.IsNegative() {
		return &generic.InputError{Field: "hours_worked", Message: "must be >= 0"}
	}
	if e.StartTime != nil && e.EndTime != nil && e.EndTime.Before(*e.StartTime) {
		return &generic.InputError{Field: "end_time", Message: "before start_time"}
	}
	return nil
}

// =============================================================================
// LEAVE REQUEST
// =============================================================================

type LeaveType string

const (
	LeaveVacation    LeaveType = "VACATION"
	LeaveSick        LeaveType = "SICK"
	LeavePersonal    LeaveType = "PERSONAL"
	LeaveParental    LeaveType = "PARENTAL"
	LeaveBereavement LeaveType = "BEREAVEMENT"
	LeaveUnpaid      LeaveType = "UNPAID"
)

// LeaveTypes lists every accepted leave type.
var LeaveTypes = []LeaveType{LeaveVacation, LeaveSick, LeavePersonal, LeaveParental, LeaveBereavement, LeaveUnpaid}

func ParseLeaveType(s string) (LeaveType, error) {
	lt := LeaveType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range LeaveTypes {
		if lt == known {
			return lt, nil
		}
	}
	return "", &generic.InputError{Field: "leave_type", Message: "unknown leave type " + s}
}

type LeaveRequest struct {
	ID          string
	UserID      UserID
	Type        LeaveType
	Start       generic.TimePoint
	End         generic.TimePoint
	TotalDays   int
	Reason      string
	RequestedAt time.Time
	generic.ApprovalState
}

func (l LeaveRequest) Period() generic.Period {
	return generic.Period{Start: l.Start, End: l.End}
}

// LeaveDays is the inclusive day count between two instants, rounded up:
// ceil((end - start) / 1 day) + 1. 2025-01-06 .. 2025-01-10 is 5 days.
func LeaveDays(start, end time.Time) (int, error) {
	if end.Before(start) {
		return 0, &generic.RangeError{Start: generic.DateOf(start), End: generic.DateOf(end), Reason: "end before start"}
	}
	days := math.Ceil(end.Sub(start).Hours() / 24)
	return int(days) + 1, nil
}

// =============================================================================
// TIMESHEET APPROVAL
// =============================================================================

// HoursSnapshot is the aggregate captured when a timesheet is submitted.
// It is never recomputed.
type HoursSnapshot struct {
	TotalHours       decimal.Decimal
	BillableHours    decimal.Decimal
	NonBillableHours decimal.Decimal
}

type TimesheetApproval struct {
	ID                 string
	UserID             UserID
	AssignedApproverID string // optional, set at submission
	WeekStart          generic.TimePoint
	WeekEnd            generic.TimePoint
	Snapshot           HoursSnapshot
	SubmittedAt        time.Time
	generic.ApprovalState
}

// =============================================================================
// PROJECT
// =============================================================================

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

func ParseProjectStatus(s string) (ProjectStatus, error) {
	st := ProjectStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case ProjectActive, ProjectOnHold, ProjectCompleted, ProjectCancelled:
		return st, nil
	}
	return "", &generic.InputError{Field: "status", Message: "unknown project status " + s}
}

type Project struct {
	ID          ProjectID
	Name        string
	Client      string
	Description string
	HourlyRate  decimal.Decimal
	BudgetHours decimal.Decimal
	Status      ProjectStatus
	ManagerID   UserID
	CreatedAt   time.Time
}

func (p Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &generic.InputError{Field: "name", Message: "required"}
	}
	if p.HourlyRate.IsNegative() {
		return &generic.InputError{Field: "hourly_rate", Message: "must be >= 0"}
	}
	if p.BudgetHours.IsNegative() {
		return &generic.InputError{Field: "budget_hours", Message: "must be >= 0"}
	}
	return nil
}

// =============================================================================
// EMPLOYEE DIRECTORY
// =============================================================================

type Employee struct {
	ID         UserID
	Name       string
	Email      string
	Department string
}
