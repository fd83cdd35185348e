/*
dto.go - Data Transfer Objects for API requests/responses

PURPOSE:
  Defines JSON-serializable structs for HTTP API communication.
  Separates API contract from internal domain models.

DESIGN:
  - All DTOs use JSON tags for serialization
  - Hours, money and percentages use float64 for JSON compatibility
  - Dates are ISO strings (YYYY-MM-DD), instants are RFC3339
  - Request DTOs are validated by the domain services, not here

CONVERSION:
  Domain -> DTO: the to*DTO helpers at the bottom of this file
  DTO -> Domain: parse* helpers in handlers.go

SEE ALSO:
  - handlers.go: Uses these DTOs
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/approval"
	"github.com/warp/workforce-engine/budget"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/overtime"
	"github.com/warp/workforce-engine/payroll"
	"github.com/warp/workforce-engine/report"
	"github.com/warp/workforce-engine/utilization"
	"github.com/warp/workforce-engine/workforce"
)

// =============================================================================
// REQUESTS
// =============================================================================

// CreateEmployeeRequest seeds a directory row.
type CreateEmployeeRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// CreateProjectRequest creates a project.
type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Client      string  `json:"client,omitempty"`
	Description string  `json:"description,omitempty"`
	HourlyRate  float64 `json:"hourly_rate"`
	BudgetHours float64 `json:"budget_hours"`
	Status      string  `json:"status,omitempty"` // defaults to active
	ManagerID   string  `json:"manager_id,omitempty"`
}

// UpdateBudgetRequest replaces a project's budget hours.
type UpdateBudgetRequest struct {
	BudgetHours float64 `json:"budget_hours"`
}

// CreateEntryRequest logs hours. When both start_time and end_time are given
// the duration takes precedence over hours_worked.
type CreateEntryRequest struct {
	UserID      string  `json:"user_id"`
	ProjectID   string  `json:"project_id"`
	StartTime   *string `json:"start_time,omitempty"` // RFC3339
	EndTime     *string `json:"end_time,omitempty"`   // RFC3339
	HoursWorked float64 `json:"hours_worked"`
	Billable    *bool   `json:"billable,omitempty"` // defaults to true
	Description string  `json:"description,omitempty"`
}

// RecordOvertimeRequest logs an overtime entry. Date is ignored when
// start_time is set; with both start_time and end_time the interval wins
// over hours.
type RecordOvertimeRequest struct {
	UserID      string  `json:"user_id"`
	ProjectID   string  `json:"project_id"`
	Date        string  `json:"date,omitempty"`
	StartTime   *string `json:"start_time,omitempty"` // RFC3339
	EndTime     *string `json:"end_time,omitempty"`   // RFC3339
	Hours       float64 `json:"hours"`
	Description string  `json:"description,omitempty"`
}

// SubmitLeaveRequest opens a leave request.
type SubmitLeaveRequest struct {
	UserID    string `json:"user_id"`
	LeaveType string `json:"leave_type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
}

// SubmitTimesheetRequest submits one week for approval.
type SubmitTimesheetRequest struct {
	UserID     string `json:"user_id"`
	WeekStart  string `json:"week_start"`
	ApproverID string `json:"approver_id,omitempty"`
}

// ReviewRequest approves or rejects a pending record.
type ReviewRequest struct {
	ApproverID string `json:"approver_id"`
	Comments   string `json:"comments,omitempty"`
}

// =============================================================================
// RECORDS
// =============================================================================

// EmployeeDTO represents a directory row.
type EmployeeDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
}

// ProjectDTO represents a project.
type ProjectDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Client      string  `json:"client,omitempty"`
	Description string  `json:"description,omitempty"`
	HourlyRate  float64 `json:"hourly_rate"`
	BudgetHours float64 `json:"budget_hours"`
	Status      string  `json:"status"`
	ManagerID   string  `json:"manager_id,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

// TimeEntryDTO represents a logged entry.
type TimeEntryDTO struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	ProjectID   string  `json:"project_id"`
	Date        string  `json:"date"`
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	Hours       float64 `json:"hours"`
	Billable    bool    `json:"billable"`
	Description string  `json:"description,omitempty"`
	EntryType   string  `json:"entry_type"`
	CreatedAt   string  `json:"created_at"`
}

// ReviewDTO carries the audit fields of a reviewed record.
type ReviewDTO struct {
	ApproverID string `json:"approver_id"`
	Comments   string `json:"comments,omitempty"`
	ReviewedAt string `json:"reviewed_at"`
}

// LeaveRequestDTO represents a leave request.
type LeaveRequestDTO struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	LeaveType   string     `json:"leave_type"`
	StartDate   string     `json:"start_date"`
	EndDate     string     `json:"end_date"`
	TotalDays   int        `json:"total_days"`
	Reason      string     `json:"reason,omitempty"`
	Status      string     `json:"status"`
	RequestedAt string     `json:"requested_at"`
	Review      *ReviewDTO `json:"review,omitempty"`
}

// LeaveBalanceDTO is one line of a yearly leave balance.
type LeaveBalanceDTO struct {
	LeaveType string `json:"leave_type"`
	Allocated int    `json:"allocated"`
	Used      int    `json:"used"`
	Remaining int    `json:"remaining"`
}

// TimesheetDTO represents a submitted week.
type TimesheetDTO struct {
	ID               string     `json:"id"`
	UserID           string     `json:"user_id"`
	ApproverID       string     `json:"assigned_approver_id,omitempty"`
	WeekStart        string     `json:"week_start"`
	WeekEnd          string     `json:"week_end"`
	TotalHours       float64    `json:"total_hours"`
	BillableHours    float64    `json:"billable_hours"`
	NonBillableHours float64    `json:"non_billable_hours"`
	Status           string     `json:"status"`
	SubmittedAt      string     `json:"submitted_at"`
	Review           *ReviewDTO `json:"review,omitempty"`
}

// =============================================================================
// OVERTIME
// =============================================================================

// OvertimeDTO is the regular/overtime split of one week or one day.
type OvertimeDTO struct {
	Date          string  `json:"date,omitempty"`
	WeekStart     string  `json:"week_start,omitempty"`
	WeekEnd       string  `json:"week_end,omitempty"`
	TotalHours    float64 `json:"total_hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
}

// OvertimePayDTO is the overtime pay over a period.
type OvertimePayDTO struct {
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	StandardHours float64 `json:"standard_hours"`
	TotalHours    float64 `json:"total_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	HourlyRate    float64 `json:"hourly_rate"`
	OvertimePay   float64 `json:"overtime_pay"`
}

// OvertimeSummaryDTO combines weekly, daily and pay views.
type OvertimeSummaryDTO struct {
	UserID              string         `json:"user_id"`
	Weeks               []OvertimeDTO  `json:"weeks"`
	Days                []OvertimeDTO  `json:"days"`
	Pay                 OvertimePayDTO `json:"pay"`
	WeeklyOvertimeHours float64        `json:"weekly_overtime_hours"`
	DailyOvertimeHours  float64        `json:"daily_overtime_hours"`
}

// =============================================================================
// UTILIZATION
// =============================================================================

// UtilizationDTO is one user's utilization over a period.
type UtilizationDTO struct {
	UserID                     string  `json:"user_id"`
	StartDate                  string  `json:"start_date"`
	EndDate                    string  `json:"end_date"`
	StandardHours              float64 `json:"standard_hours"`
	LeaveDays                  int     `json:"leave_days"`
	LeaveHours                 float64 `json:"leave_hours"`
	AvailableHours             float64 `json:"available_hours"`
	TotalHours                 float64 `json:"total_hours"`
	BillableHours              float64 `json:"billable_hours"`
	NonBillableHours           float64 `json:"non_billable_hours"`
	UtilizationRate            float64 `json:"utilization_rate"`
	BillableUtilizationRate    float64 `json:"billable_utilization_rate"`
	NonBillableUtilizationRate float64 `json:"non_billable_utilization_rate"`
}

// TrendPointDTO is one month of a utilization trend.
type TrendPointDTO struct {
	Year                    int     `json:"year"`
	Month                   int     `json:"month"`
	AvailableHours          float64 `json:"available_hours"`
	TotalHours              float64 `json:"total_hours"`
	BillableHours           float64 `json:"billable_hours"`
	UtilizationRate         float64 `json:"utilization_rate"`
	BillableUtilizationRate float64 `json:"billable_utilization_rate"`
}

// TeamUtilizationDTO aggregates members of a department.
type TeamUtilizationDTO struct {
	Department              string           `json:"department,omitempty"`
	StartDate               string           `json:"start_date"`
	EndDate                 string           `json:"end_date"`
	Members                 []UtilizationDTO `json:"members"`
	AvailableHours          float64          `json:"available_hours"`
	TotalHours              float64          `json:"total_hours"`
	BillableHours           float64          `json:"billable_hours"`
	UtilizationRate         float64          `json:"utilization_rate"`
	BillableUtilizationRate float64          `json:"billable_utilization_rate"`
}

// ProjectUtilizationDTO compares actual hours to budget.
type ProjectUtilizationDTO struct {
	ProjectID          string  `json:"project_id"`
	ProjectName        string  `json:"project_name"`
	PeriodStart        string  `json:"period_start"`
	PeriodEnd          string  `json:"period_end"`
	BudgetHours        float64 `json:"budget_hours"`
	ActualHours        float64 `json:"actual_hours"`
	BillableHours      float64 `json:"billable_hours"`
	UtilizationPercent float64 `json:"utilization_percent"`
	TeamSize           int     `json:"team_size"`
}

// =============================================================================
// PAYROLL & BILLING
// =============================================================================

// PayrollDTO is one employee's gross pay over a period.
type PayrollDTO struct {
	UserID           string  `json:"user_id"`
	Name             string  `json:"name"`
	Department       string  `json:"department,omitempty"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	StandardHours    float64 `json:"standard_hours"`
	TotalHours       float64 `json:"total_hours"`
	RegularHours     float64 `json:"regular_hours"`
	OvertimeHours    float64 `json:"overtime_hours"`
	BillableHours    float64 `json:"billable_hours"`
	NonBillableHours float64 `json:"non_billable_hours"`
	HourlyRate       float64 `json:"hourly_rate"`
	RegularPay       float64 `json:"regular_pay"`
	OvertimePay      float64 `json:"overtime_pay"`
	GrossPay         float64 `json:"gross_pay"`
}

// PayrollTotalsDTO is the aggregate payroll over a period.
type PayrollTotalsDTO struct {
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	EmployeeCount int     `json:"employee_count"`
	StandardHours float64 `json:"standard_hours"`
	TotalHours    float64 `json:"total_hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	BillableHours float64 `json:"billable_hours"`
	RegularPay    float64 `json:"regular_pay"`
	OvertimePay   float64 `json:"overtime_pay"`
	GrossPay      float64 `json:"gross_pay"`
}

// BillingLineDTO is one billed entry.
type BillingLineDTO struct {
	EntryID      string  `json:"entry_id"`
	Date         string  `json:"date"`
	UserID       string  `json:"user_id"`
	EmployeeName string  `json:"employee_name"`
	Hours        float64 `json:"hours"`
	Billable     bool    `json:"billable"`
	Description  string  `json:"description,omitempty"`
	Amount       float64 `json:"amount"`
}

// BillingDTO is a project billing statement.
type BillingDTO struct {
	ProjectID     string           `json:"project_id"`
	ProjectName   string           `json:"project_name"`
	HourlyRate    float64          `json:"hourly_rate"`
	StartDate     string           `json:"start_date"`
	EndDate       string           `json:"end_date"`
	Lines         []BillingLineDTO `json:"lines"`
	TotalHours    float64          `json:"total_hours"`
	BillableHours float64          `json:"billable_hours"`
	TotalAmount   float64          `json:"total_amount"`
}

// =============================================================================
// BUDGET
// =============================================================================

// VarianceDTO is a project's budget position.
type VarianceDTO struct {
	ProjectID      string  `json:"project_id"`
	ProjectName    string  `json:"project_name"`
	Status         string  `json:"status"`
	BudgetHours    float64 `json:"budget_hours"`
	ActualHours    float64 `json:"actual_hours"`
	BillableHours  float64 `json:"billable_hours"`
	TeamSize       int     `json:"team_size"`
	BudgetAmount   float64 `json:"budget_amount"`
	ActualAmount   float64 `json:"actual_amount"`
	BillableAmount float64 `json:"billable_amount"`
	VarianceHours  float64 `json:"variance_hours"`
	VarianceAmount float64 `json:"variance_amount"`
	PercentUsed    float64 `json:"percent_used"`
	OverBudget     bool    `json:"over_budget"`
}

// ContributionDTO is one member's share of a project.
type ContributionDTO struct {
	UserID        string  `json:"user_id"`
	Name          string  `json:"name"`
	Hours         float64 `json:"hours"`
	BillableHours float64 `json:"billable_hours"`
	EntryCount    int     `json:"entry_count"`
	Percentage    float64 `json:"percentage"`
}

// MilestoneDTO is one day of cumulative project burn.
type MilestoneDTO struct {
	Date            string  `json:"date"`
	Hours           float64 `json:"hours"`
	CumulativeHours float64 `json:"cumulative_hours"`
	BudgetPercent   float64 `json:"budget_percent"`
}

// =============================================================================
// REPORTS
// =============================================================================

// TotalsDTO is the common aggregate block of every report.
type TotalsDTO struct {
	TotalHours       float64 `json:"total_hours"`
	BillableHours    float64 `json:"billable_hours"`
	NonBillableHours float64 `json:"non_billable_hours"`
	EntryCount       int     `json:"entry_count"`
	DaysWorked       int     `json:"days_worked"`
	ProjectCount     int     `json:"project_count"`
}

// ProjectLineDTO is a project breakdown row.
type ProjectLineDTO struct {
	ProjectID     string  `json:"project_id"`
	ProjectName   string  `json:"project_name"`
	TotalHours    float64 `json:"total_hours"`
	BillableHours float64 `json:"billable_hours"`
}

// DayLineDTO is a daily breakdown row.
type DayLineDTO struct {
	Date string `json:"date"`
	TotalsDTO
}

// WeekLineDTO is a weekly breakdown row.
type WeekLineDTO struct {
	WeekStart  string  `json:"week_start"`
	WeekEnd    string  `json:"week_end"`
	TotalHours float64 `json:"total_hours"`
}

// UserReportDTO is a weekly or monthly report.
type UserReportDTO struct {
	UserID    string `json:"user_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	TotalsDTO
	AverageHoursPerDay float64          `json:"average_hours_per_day"`
	Projects           []ProjectLineDTO `json:"projects"`
	Daily              []DayLineDTO     `json:"daily"`
	Weekly             []WeekLineDTO    `json:"weekly,omitempty"`
}

// TeamSummaryDTO summarizes the whole team.
type TeamSummaryDTO struct {
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
	TotalEmployees    int    `json:"total_employees"`
	ActiveEmployees   int    `json:"active_employees"`
	InactiveEmployees int    `json:"inactive_employees"`
	TotalsDTO
	AverageHoursPerEntry    float64 `json:"average_hours_per_entry"`
	AverageHoursPerEmployee float64 `json:"average_hours_per_employee"`
	BillablePercent         float64 `json:"billable_percent"`
}

// MemberSummaryDTO is one row of the team members summary.
type MemberSummaryDTO struct {
	EmployeeDTO
	TotalsDTO
	AverageHoursPerDay float64 `json:"average_hours_per_day"`
	BillablePercent    float64 `json:"billable_percent"`
}

// ProjectSummaryDTO is one row of the team projects summary.
type ProjectSummaryDTO struct {
	ProjectID         string  `json:"project_id"`
	ProjectName       string  `json:"project_name"`
	Status            string  `json:"status"`
	BudgetHours       float64 `json:"budget_hours"`
	TeamSize          int     `json:"team_size"`
	TotalHours        float64 `json:"total_hours"`
	BillableHours     float64 `json:"billable_hours"`
	RemainingHours    float64 `json:"remaining_hours"`
	BudgetUtilization float64 `json:"budget_utilization"`
	Revenue           float64 `json:"revenue"`
}

// PerformerDTO is one ranked performer.
type PerformerDTO struct {
	Rank            int     `json:"rank"`
	UserID          string  `json:"user_id"`
	Name            string  `json:"name"`
	TotalHours      float64 `json:"total_hours"`
	BillableHours   float64 `json:"billable_hours"`
	ProjectCount    int     `json:"project_count"`
	BillablePercent float64 `json:"billable_percent"`
}

// ProductivityDTO is the team productivity view.
type ProductivityDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	TotalsDTO
	ActiveUsers          int     `json:"active_users"`
	AverageHoursPerUser  float64 `json:"average_hours_per_user"`
	AverageHoursPerEntry float64 `json:"average_hours_per_entry"`
	Score                float64 `json:"productivity_score"`
}

// DepartmentSummaryDTO summarizes one department.
type DepartmentSummaryDTO struct {
	Department    string `json:"department"`
	EmployeeCount int    `json:"employee_count"`
	TotalsDTO
	AverageHoursPerEntry float64 `json:"average_hours_per_entry"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func instant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func optionalInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := instant(*t)
	return &s
}

func toReviewDTO(r *generic.Review) *ReviewDTO {
	if r == nil {
		return nil
	}
	return &ReviewDTO{ApproverID: r.ApproverID, Comments: r.Comments, ReviewedAt: instant(r.ReviewedAt)}
}

func toEmployeeDTO(e workforce.Employee) EmployeeDTO {
	return EmployeeDTO{ID: string(e.ID), Name: e.Name, Email: e.Email, Department: e.Department}
}

func toProjectDTO(p workforce.Project) ProjectDTO {
	dto := ProjectDTO{
		ID:          string(p.ID),
		Name:        p.Name,
		Client:      p.Client,
		Description: p.Description,
		HourlyRate:  num(p.HourlyRate),
		BudgetHours: num(p.BudgetHours),
		Status:      string(p.Status),
		ManagerID:   string(p.ManagerID),
	}
	if !p.CreatedAt.IsZero() {
		dto.CreatedAt = instant(p.CreatedAt)
	}
	return dto
}

func toEntryDTO(e workforce.TimeEntry) TimeEntryDTO {
	return TimeEntryDTO{
		ID:          e.ID,
		UserID:      string(e.UserID),
		ProjectID:   string(e.ProjectID),
		Date:        e.WorkDate().String(),
		StartTime:   optionalInstant(e.StartTime),
		EndTime:     optionalInstant(e.EndTime),
		Hours:       num(e.Hours()),
		Billable:    e.Billable,
		Description: e.Description,
		EntryType:   string(e.Type),
		CreatedAt:   instant(e.CreatedAt),
	}
}

func toLeaveDTO(l workforce.LeaveRequest) LeaveRequestDTO {
	return LeaveRequestDTO{
		ID:          l.ID,
		UserID:      string(l.UserID),
		LeaveType:   string(l.Type),
		StartDate:   l.Start.String(),
		EndDate:     l.End.String(),
		TotalDays:   l.TotalDays,
		Reason:      l.Reason,
		Status:      string(l.Status),
		RequestedAt: instant(l.RequestedAt),
		Review:      toReviewDTO(l.Review),
	}
}

func toLeaveDTOs(ls []workforce.LeaveRequest) []LeaveRequestDTO {
	dtos := make([]LeaveRequestDTO, len(ls))
	for i, l := range ls {
		dtos[i] = toLeaveDTO(l)
	}
	return dtos
}

func toBalanceDTOs(bs []approval.Balance) []LeaveBalanceDTO {
	dtos := make([]LeaveBalanceDTO, len(bs))
	for i, b := range bs {
		dtos[i] = LeaveBalanceDTO{LeaveType: string(b.Type), Allocated: b.Allocated, Used: b.Used, Remaining: b.Remaining}
	}
	return dtos
}

func toTimesheetDTO(t workforce.TimesheetApproval) TimesheetDTO {
	return TimesheetDTO{
		ID:               t.ID,
		UserID:           string(t.UserID),
		ApproverID:       t.AssignedApproverID,
		WeekStart:        t.WeekStart.String(),
		WeekEnd:          t.WeekEnd.String(),
		TotalHours:       num(t.Snapshot.TotalHours),
		BillableHours:    num(t.Snapshot.BillableHours),
		NonBillableHours: num(t.Snapshot.NonBillableHours),
		Status:           string(t.Status),
		SubmittedAt:      instant(t.SubmittedAt),
		Review:           toReviewDTO(t.Review),
	}
}

func toTimesheetDTOs(ts []workforce.TimesheetApproval) []TimesheetDTO {
	dtos := make([]TimesheetDTO, len(ts))
	for i, t := range ts {
		dtos[i] = toTimesheetDTO(t)
	}
	return dtos
}

func toWeeklyOvertimeDTO(r overtime.WeeklyResult) OvertimeDTO {
	return OvertimeDTO{
		WeekStart:     r.WeekStart.String(),
		WeekEnd:       r.WeekEnd.String(),
		TotalHours:    num(r.TotalHours),
		RegularHours:  num(r.RegularHours),
		OvertimeHours: num(r.OvertimeHours),
	}
}

func toDailyOvertimeDTOs(rs []overtime.DailyResult) []OvertimeDTO {
	dtos := make([]OvertimeDTO, len(rs))
	for i, r := range rs {
		dtos[i] = OvertimeDTO{
			Date:          r.Date.String(),
			TotalHours:    num(r.TotalHours),
			RegularHours:  num(r.RegularHours),
			OvertimeHours: num(r.OvertimeHours),
		}
	}
	return dtos
}

func toOvertimePayDTO(r overtime.PayResult) OvertimePayDTO {
	return OvertimePayDTO{
		StartDate:     r.Period.Start.String(),
		EndDate:       r.Period.End.String(),
		StandardHours: num(r.StandardHours),
		TotalHours:    num(r.TotalHours),
		OvertimeHours: num(r.OvertimeHours),
		HourlyRate:    num(r.HourlyRate),
		OvertimePay:   num(r.OvertimePay),
	}
}

func toOvertimeSummaryDTO(s overtime.Summary) OvertimeSummaryDTO {
	weeks := make([]OvertimeDTO, len(s.Weeks))
	for i, w := range s.Weeks {
		weeks[i] = toWeeklyOvertimeDTO(w)
	}
	return OvertimeSummaryDTO{
		UserID:              string(s.UserID),
		Weeks:               weeks,
		Days:                toDailyOvertimeDTOs(s.Days),
		Pay:                 toOvertimePayDTO(s.Pay),
		WeeklyOvertimeHours: num(s.WeeklyOvertimeHours),
		DailyOvertimeHours:  num(s.DailyOvertimeHours),
	}
}

func toUtilizationDTO(r utilization.Result) UtilizationDTO {
	return UtilizationDTO{
		UserID:                     string(r.UserID),
		StartDate:                  r.Period.Start.String(),
		EndDate:                    r.Period.End.String(),
		StandardHours:              num(r.StandardHours),
		LeaveDays:                  r.LeaveDays,
		LeaveHours:                 num(r.LeaveHours),
		AvailableHours:             num(r.AvailableHours),
		TotalHours:                 num(r.TotalHours),
		BillableHours:              num(r.BillableHours),
		NonBillableHours:           num(r.NonBillableHours),
		UtilizationRate:            num(r.UtilizationRate),
		BillableUtilizationRate:    num(r.BillableUtilizationRate),
		NonBillableUtilizationRate: num(r.NonBillableUtilizationRate),
	}
}

func toTrendDTOs(ps []utilization.MonthlyPoint) []TrendPointDTO {
	dtos := make([]TrendPointDTO, len(ps))
	for i, p := range ps {
		dtos[i] = TrendPointDTO{
			Year:                    p.Year,
			Month:                   int(p.Month),
			AvailableHours:          num(p.AvailableHours),
			TotalHours:              num(p.TotalHours),
			BillableHours:           num(p.BillableHours),
			UtilizationRate:         num(p.UtilizationRate),
			BillableUtilizationRate: num(p.BillableUtilizationRate),
		}
	}
	return dtos
}

func toTeamUtilizationDTO(t utilization.TeamResult) TeamUtilizationDTO {
	members := make([]UtilizationDTO, len(t.Members))
	for i, m := range t.Members {
		members[i] = toUtilizationDTO(m)
	}
	return TeamUtilizationDTO{
		Department:              t.Department,
		StartDate:               t.Period.Start.String(),
		EndDate:                 t.Period.End.String(),
		Members:                 members,
		AvailableHours:          num(t.AvailableHours),
		TotalHours:              num(t.TotalHours),
		BillableHours:           num(t.BillableHours),
		UtilizationRate:         num(t.UtilizationRate),
		BillableUtilizationRate: num(t.BillableUtilizationRate),
	}
}

func toProjectUtilizationDTO(r utilization.ProjectResult) ProjectUtilizationDTO {
	return ProjectUtilizationDTO{
		ProjectID:          string(r.Project.ID),
		ProjectName:        r.Project.Name,
		PeriodStart:        r.Period.Start.String(),
		PeriodEnd:          r.Period.End.String(),
		BudgetHours:        num(r.Project.BudgetHours),
		ActualHours:        num(r.ActualHours),
		BillableHours:      num(r.BillableHours),
		UtilizationPercent: num(r.UtilizationPercent),
		TeamSize:           r.TeamSize,
	}
}

func toPayrollDTO(p payroll.EmployeePay) PayrollDTO {
	return PayrollDTO{
		UserID:           string(p.Employee.ID),
		Name:             p.Employee.Name,
		Department:       p.Employee.Department,
		StartDate:        p.Period.Start.String(),
		EndDate:          p.Period.End.String(),
		StandardHours:    num(p.StandardHours),
		TotalHours:       num(p.TotalHours),
		RegularHours:     num(p.RegularHours),
		OvertimeHours:    num(p.OvertimeHours),
		BillableHours:    num(p.BillableHours),
		NonBillableHours: num(p.NonBillableHours),
		HourlyRate:       num(p.HourlyRate),
		RegularPay:       num(p.RegularPay),
		OvertimePay:      num(p.OvertimePay),
		GrossPay:         num(p.GrossPay),
	}
}

func toPayrollTotalsDTO(t payroll.Totals) PayrollTotalsDTO {
	return PayrollTotalsDTO{
		StartDate:     t.Period.Start.String(),
		EndDate:       t.Period.End.String(),
		EmployeeCount: t.EmployeeCount,
		StandardHours: num(t.StandardHours),
		TotalHours:    num(t.TotalHours),
		RegularHours:  num(t.RegularHours),
		OvertimeHours: num(t.OvertimeHours),
		BillableHours: num(t.BillableHours),
		RegularPay:    num(t.RegularPay),
		OvertimePay:   num(t.OvertimePay),
		GrossPay:      num(t.GrossPay),
	}
}

func toBillingDTO(st payroll.BillingStatement) BillingDTO {
	lines := make([]BillingLineDTO, len(st.Lines))
	for i, l := range st.Lines {
		lines[i] = BillingLineDTO{
			EntryID:      l.EntryID,
			Date:         l.Date.String(),
			UserID:       string(l.UserID),
			EmployeeName: l.EmployeeName,
			Hours:        num(l.Hours),
			Billable:     l.Billable,
			Description:  l.Description,
			Amount:       num(l.Amount),
		}
	}
	return BillingDTO{
		ProjectID:     string(st.Project.ID),
		ProjectName:   st.Project.Name,
		HourlyRate:    num(st.Project.HourlyRate),
		StartDate:     st.Period.Start.String(),
		EndDate:       st.Period.End.String(),
		Lines:         lines,
		TotalHours:    num(st.TotalHours),
		BillableHours: num(st.BillableHours),
		TotalAmount:   num(st.TotalAmount),
	}
}

func toVarianceDTO(v budget.Variance) VarianceDTO {
	return VarianceDTO{
		ProjectID:      string(v.Project.ID),
		ProjectName:    v.Project.Name,
		Status:         string(v.Project.Status),
		BudgetHours:    num(v.Project.BudgetHours),
		ActualHours:    num(v.ActualHours),
		BillableHours:  num(v.BillableHours),
		TeamSize:       v.TeamSize,
		BudgetAmount:   num(v.BudgetAmount),
		ActualAmount:   num(v.ActualAmount),
		BillableAmount: num(v.BillableAmount),
		VarianceHours:  num(v.VarianceHours),
		VarianceAmount: num(v.VarianceAmount),
		PercentUsed:    num(v.PercentUsed),
		OverBudget:     v.OverBudget,
	}
}

func toTotalsDTO(t workforce.Totals) TotalsDTO {
	return TotalsDTO{
		TotalHours:       num(t.TotalHours),
		BillableHours:    num(t.BillableHours),
		NonBillableHours: num(t.NonBillableHours),
		EntryCount:       t.EntryCount,
		DaysWorked:       t.DaysWorked,
		ProjectCount:     t.ProjectCount,
	}
}

func toUserReportDTO(r report.UserReport) UserReportDTO {
	projects := make([]ProjectLineDTO, len(r.Projects))
	for i, p := range r.Projects {
		projects[i] = ProjectLineDTO{
			ProjectID:     string(p.ProjectID),
			ProjectName:   p.ProjectName,
			TotalHours:    num(p.TotalHours),
			BillableHours: num(p.BillableHours),
		}
	}
	daily := make([]DayLineDTO, len(r.Daily))
	for i, d := range r.Daily {
		daily[i] = DayLineDTO{Date: d.Date.String(), TotalsDTO: toTotalsDTO(d.Totals)}
	}
	var weekly []WeekLineDTO
	for _, w := range r.Weekly {
		weekly = append(weekly, WeekLineDTO{
			WeekStart:  w.WeekStart.String(),
			WeekEnd:    w.WeekEnd.String(),
			TotalHours: num(w.TotalHours),
		})
	}
	return UserReportDTO{
		UserID:             string(r.UserID),
		StartDate:          r.Period.Start.String(),
		EndDate:            r.Period.End.String(),
		TotalsDTO:          toTotalsDTO(r.Totals),
		AverageHoursPerDay: num(r.AverageHoursPerDay),
		Projects:           projects,
		Daily:              daily,
		Weekly:             weekly,
	}
}

func toTeamSummaryDTO(s report.TeamSummary) TeamSummaryDTO {
	return TeamSummaryDTO{
		StartDate:               s.Period.Start.String(),
		EndDate:                 s.Period.End.String(),
		TotalEmployees:          s.TotalEmployees,
		ActiveEmployees:         s.ActiveEmployees,
		InactiveEmployees:       s.InactiveEmployees,
		TotalsDTO:               toTotalsDTO(s.Totals),
		AverageHoursPerEntry:    num(s.AverageHoursPerEntry),
		AverageHoursPerEmployee: num(s.AverageHoursPerEmployee),
		BillablePercent:         num(s.BillablePercent),
	}
}

func toProjectSummaryDTO(s report.ProjectSummary) ProjectSummaryDTO {
	return ProjectSummaryDTO{
		ProjectID:         string(s.Project.ID),
		ProjectName:       s.Project.Name,
		Status:            string(s.Project.Status),
		BudgetHours:       num(s.Project.BudgetHours),
		TeamSize:          s.TeamSize,
		TotalHours:        num(s.TotalHours),
		BillableHours:     num(s.BillableHours),
		RemainingHours:    num(s.RemainingHours),
		BudgetUtilization: num(s.BudgetUtilization),
		Revenue:           num(s.Revenue),
	}
}
