/*
handlers_test.go - HTTP tests for the API handlers

Tests for:
- Error taxonomy to status mapping (400/404/409/500)
- Overtime and payroll over the overtime-week scenario
- Leave and timesheet workflows end to end
- Budget and report views over the team-month scenario
- CSV downloads
*/
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-engine/config"
	"github.com/warp/workforce-engine/store/sqlite"
	memstore "github.com/warp/workforce-engine/workforce/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestServer(t *testing.T, store Backend) http.Handler {
	t.Helper()
	h := NewHandler(store, Options{})
	return NewRouter(h, config.CORSConfig{AllowedOrigins: "*", MaxAge: 300})
}

func newSQLiteServer(t *testing.T, scenarioIDs ...string) http.Handler {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	srv := newTestServer(t, store)
	for _, id := range scenarioIDs {
		rec := do(t, srv, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: id})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	return srv
}

func do(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decodeAs[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	assert.Equal(t, code, decodeAs[ErrorResponse](t, rec).Code)
}

// =============================================================================
// PLUMBING
// =============================================================================

func TestHealth(t *testing.T) {
	srv := newTestServer(t, memstore.NewMemory())
	rec := do(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScenario_LoadTwice(t *testing.T) {
	srv := newSQLiteServer(t, "overtime-week")

	rec := do(t, srv, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "overtime-week"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "already_loaded", decodeAs[map[string]string](t, rec)["status"])

	rec = do(t, srv, http.MethodPost, "/api/scenarios/load", LoadScenarioRequest{ScenarioID: "nope"})
	requireErrorCode(t, rec, http.StatusBadRequest, "invalid_input")
}

func TestErrors_RangeAndInput(t *testing.T) {
	srv := newTestServer(t, memstore.NewMemory())

	// GIVEN: End before start
	rec := do(t, srv, http.MethodGet, "/api/payroll?start=2025-01-10&end=2025-01-06", nil)
	requireErrorCode(t, rec, http.StatusBadRequest, "invalid_range")

	// GIVEN: A zero-day span, which cannot be pro-rated
	rec = do(t, srv, http.MethodGet, "/api/payroll/totals?start=2025-01-06&end=2025-01-06", nil)
	requireErrorCode(t, rec, http.StatusBadRequest, "invalid_range")

	// GIVEN: A missing parameter
	rec = do(t, srv, http.MethodGet, "/api/reports/team?start=2025-01-06", nil)
	requireErrorCode(t, rec, http.StatusBadRequest, "invalid_input")

	// GIVEN: A malformed body
	req := httptest.NewRequest(http.MethodPost, "/api/leave", bytes.NewBufferString("{"))
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	requireErrorCode(t, rec, http.StatusBadRequest, "invalid_input")
}

func TestErrors_NotFound(t *testing.T) {
	srv := newTestServer(t, memstore.NewMemory())

	rec := do(t, srv, http.MethodGet, "/api/projects/missing/variance", nil)
	requireErrorCode(t, rec, http.StatusNotFound, "not_found")

	rec = do(t, srv, http.MethodPost, "/api/timesheets/missing/approve", ReviewRequest{ApproverID: "mgr"})
	requireErrorCode(t, rec, http.StatusNotFound, "not_found")
}

func TestErrors_StorageFailure(t *testing.T) {
	// GIVEN: A store whose entry query fails
	store := memstore.NewMemory()
	store.FailOn("QueryEntries", errors.New("disk I/O error"))
	srv := newTestServer(t, store)

	// WHEN: Weekly overtime is requested
	rec := do(t, srv, http.MethodGet, "/api/employees/u1/overtime/weekly?week_start=2025-01-06", nil)

	// THEN: The failure surfaces as a 500, not as zero hours
	requireErrorCode(t, rec, http.StatusInternalServerError, "storage_failure")
}

// =============================================================================
// OVERTIME & PAYROLL
// =============================================================================

func TestOvertime_WeeklyAndPay(t *testing.T) {
	srv := newSQLiteServer(t, "overtime-week")

	rec := do(t, srv, http.MethodGet, "/api/employees/emp-dana/overtime/weekly?week_start=2025-01-06", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	week := decodeAs[OvertimeDTO](t, rec)
	assert.Equal(t, 48.0, week.TotalHours)
	assert.Equal(t, 40.0, week.RegularHours)
	assert.Equal(t, 8.0, week.OvertimeHours)
	assert.Equal(t, "2025-01-12", week.WeekEnd)

	// 14 days pro-rate to 80 standard hours, so 48 hours carry no overtime
	rec = do(t, srv, http.MethodGet, "/api/employees/emp-dana/overtime/pay?start=2025-01-06&end=2025-01-20&rate=40", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	pay := decodeAs[OvertimePayDTO](t, rec)
	assert.Equal(t, 80.0, pay.StandardHours)
	assert.Equal(t, 0.0, pay.OvertimePay)
}

func TestRecordOvertime(t *testing.T) {
	srv := newSQLiteServer(t, "overtime-week")

	rec := do(t, srv, http.MethodPost, "/api/overtime", RecordOvertimeRequest{
		UserID: "emp-lee", ProjectID: "prj-atlas", Date: "2025-01-08", Hours: 2.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entry := decodeAs[TimeEntryDTO](t, rec)
	assert.Equal(t, "overtime", entry.EntryType)
	assert.True(t, entry.Billable)
	assert.Equal(t, "2025-01-08", entry.Date)

	rec = do(t, srv, http.MethodPost, "/api/overtime", RecordOvertimeRequest{
		UserID: "emp-lee", ProjectID: "prj-atlas", Date: "2025-01-08", Hours: -1,
	})
	requireErrorCode(t, rec, http.StatusBadRequest, "invalid_input")
}

func TestRecordOvertime_WithTimestamps(t *testing.T) {
	srv := newSQLiteServer(t, "overtime-week")
	start, end := "2025-01-09T18:00:00Z", "2025-01-09T19:30:00Z"

	// WHEN: The interval says 1.5 hours and the body says 4
	rec := do(t, srv, http.MethodPost, "/api/overtime", RecordOvertimeRequest{
		UserID: "emp-lee", ProjectID: "prj-atlas", StartTime: &start, EndTime: &end, Hours: 4,
	})

	// THEN: The stored entry keeps the instants and its hours come from them
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entry := decodeAs[TimeEntryDTO](t, rec)
	assert.Equal(t, 1.5, entry.Hours)
	assert.Equal(t, "2025-01-09", entry.Date)
	require.NotNil(t, entry.EndTime)

	rec = do(t, srv, http.MethodGet, "/api/entries?user_id=emp-lee", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stored := decodeAs[[]TimeEntryDTO](t, rec)
	require.Len(t, stored, 1)
	assert.Equal(t, 1.5, stored[0].Hours)
	require.NotNil(t, stored[0].StartTime)

	bad := "yesterday"
	rec = do(t, srv, http.MethodPost, "/api/overtime", RecordOvertimeRequest{
		UserID: "emp-lee", ProjectID: "prj-atlas", StartTime: &bad, Hours: 1,
	})
	requireErrorCode(t, rec, http.StatusBadRequest, "invalid_input")
}

func TestPayroll_ExportCSV(t *testing.T) {
	srv := newSQLiteServer(t, "overtime-week")

	rec := do(t, srv, http.MethodGet, "/api/payroll/export?start=2025-01-06&end=2025-01-13", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "payroll_2025-01-06_2025-01-13.csv")

	body := rec.Body.String()
	assert.Contains(t, body, "Employee ID,Employee Name,Regular Hours")
	assert.Contains(t, body, `emp-dana,"Dana Reyes",40.00,8.00,48.00,45.00,3.00,1300.00,2025-01-06,2025-01-13`)
	// Employees without hours are still listed
	assert.Contains(t, body, `emp-lee,"Lee Park",0.00,0.00,0.00`)
}

func TestBilling_ExportCSV(t *testing.T) {
	srv := newSQLiteServer(t, "overtime-week")

	rec := do(t, srv, http.MethodGet, "/api/projects/prj-atlas/billing/export?start=2025-01-06&end=2025-01-12", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Contains(t, body, "Date,Employee Name,Hours Worked,Billable,Description,Amount")
	assert.Contains(t, body, ",No,")

	rec = do(t, srv, http.MethodGet, "/api/projects/prj-atlas/billing?start=2025-01-06&end=2025-01-12", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decodeAs[BillingDTO](t, rec)
	assert.Len(t, st.Lines, 6)
	assert.Equal(t, 45.0, st.BillableHours)
	assert.Equal(t, 5400.0, st.TotalAmount)
}

// =============================================================================
// WORKFLOWS
// =============================================================================

func TestLeave_SubmitApproveConflict(t *testing.T) {
	srv := newSQLiteServer(t, "overtime-week")

	// GIVEN: A submitted vacation from Monday to Friday
	rec := do(t, srv, http.MethodPost, "/api/leave", SubmitLeaveRequest{
		UserID: "emp-dana", LeaveType: "vacation", StartDate: "2025-02-03", EndDate: "2025-02-07",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	leave := decodeAs[LeaveRequestDTO](t, rec)
	assert.Equal(t, 5, leave.TotalDays)
	assert.Equal(t, "pending", leave.Status)
	assert.Equal(t, "VACATION", leave.LeaveType)

	// WHEN: It is approved without an approver
	rec = do(t, srv, http.MethodPost, "/api/leave/"+leave.ID+"/approve", ReviewRequest{})
	requireErrorCode(t, rec, http.StatusBadRequest, "invalid_input")

	// WHEN: It is approved
	rec = do(t, srv, http.MethodPost, "/api/leave/"+leave.ID+"/approve", ReviewRequest{ApproverID: "emp-lee", Comments: "ok"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	approved := decodeAs[LeaveRequestDTO](t, rec)
	assert.Equal(t, "approved", approved.Status)
	require.NotNil(t, approved.Review)
	assert.Equal(t, "emp-lee", approved.Review.ApproverID)

	// THEN: A second review is a conflict
	rec = do(t, srv, http.MethodPost, "/api/leave/"+leave.ID+"/reject", ReviewRequest{ApproverID: "emp-lee"})
	requireErrorCode(t, rec, http.StatusConflict, "illegal_transition")

	// AND: The balance reflects the approved days
	rec = do(t, srv, http.MethodGet, "/api/employees/emp-dana/leave/balance?year=2025", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var vacation LeaveBalanceDTO
	for _, b := range decodeAs[[]LeaveBalanceDTO](t, rec) {
		if b.LeaveType == "VACATION" {
			vacation = b
		}
	}
	assert.Equal(t, LeaveBalanceDTO{LeaveType: "VACATION", Allocated: 15, Used: 5, Remaining: 10}, vacation)
}

func TestUserWorkflows_StatusFilter(t *testing.T) {
	srv := newSQLiteServer(t, "overtime-week")

	// GIVEN: Two leave requests, one approved, and one submitted timesheet
	var ids []string
	for _, d := range []string{"2025-02-03", "2025-03-03"} {
		rec := do(t, srv, http.MethodPost, "/api/leave", SubmitLeaveRequest{
			UserID: "emp-dana", LeaveType: "personal", StartDate: d, EndDate: d,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		ids = append(ids, decodeAs[LeaveRequestDTO](t, rec).ID)
	}
	rec := do(t, srv, http.MethodPost, "/api/leave/"+ids[0]+"/approve", ReviewRequest{ApproverID: "emp-lee"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = do(t, srv, http.MethodPost, "/api/timesheets", SubmitTimesheetRequest{UserID: "emp-dana", WeekStart: "2025-01-06"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// WHEN: Listing without a filter
	rec = do(t, srv, http.MethodGet, "/api/employees/emp-dana/leave", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeAs[[]LeaveRequestDTO](t, rec), 2)

	// THEN: ?status= narrows the list, in any casing
	rec = do(t, srv, http.MethodGet, "/api/employees/emp-dana/leave?status=APPROVED", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	approved := decodeAs[[]LeaveRequestDTO](t, rec)
	require.Len(t, approved, 1)
	assert.Equal(t, ids[0], approved[0].ID)

	rec = do(t, srv, http.MethodGet, "/api/employees/emp-dana/timesheets?status=pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeAs[[]TimesheetDTO](t, rec), 1)
	rec = do(t, srv, http.MethodGet, "/api/employees/emp-dana/timesheets?status=rejected", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeAs[[]TimesheetDTO](t, rec))

	// AND: An unknown status is a client error
	rec = do(t, srv, http.MethodGet, "/api/employees/emp-dana/leave?status=maybe", nil)
	requireErrorCode(t, rec, http.StatusBadRequest, "invalid_input")
	rec = do(t, srv, http.MethodGet, "/api/employees/emp-dana/timesheets?status=maybe", nil)
	requireErrorCode(t, rec, http.StatusBadRequest, "invalid_input")
}

func TestTimesheet_SubmitDuplicateAndPending(t *testing.T) {
	srv := newSQLiteServer(t, "overtime-week")

	// GIVEN: Dana submits the scenario week
	rec := do(t, srv, http.MethodPost, "/api/timesheets", SubmitTimesheetRequest{
		UserID: "emp-dana", WeekStart: "2025-01-06", ApproverID: "emp-lee",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ts := decodeAs[TimesheetDTO](t, rec)
	assert.Equal(t, 48.0, ts.TotalHours)
	assert.Equal(t, 45.0, ts.BillableHours)
	assert.Equal(t, "2025-01-12", ts.WeekEnd)

	// WHEN: The same week is submitted again
	rec = do(t, srv, http.MethodPost, "/api/timesheets", SubmitTimesheetRequest{UserID: "emp-dana", WeekStart: "2025-01-06"})

	// THEN: It is refused
	requireErrorCode(t, rec, http.StatusConflict, "illegal_transition")

	// AND: The approver sees it as pending
	rec = do(t, srv, http.MethodGet, "/api/timesheets/pending?approver_id=emp-lee", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pending := decodeAs[[]TimesheetDTO](t, rec)
	require.Len(t, pending, 1)
	assert.Equal(t, ts.ID, pending[0].ID)
}

// =============================================================================
// BUDGET & REPORTS
// =============================================================================

func TestBudget_StatusAndUpdate(t *testing.T) {
	srv := newSQLiteServer(t, "team-month")

	rec := do(t, srv, http.MethodGet, "/api/projects/prj-apollo/variance", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	v := decodeAs[VarianceDTO](t, rec)
	assert.Equal(t, 280.0, v.ActualHours)
	assert.Equal(t, 70.0, v.PercentUsed)
	assert.False(t, v.OverBudget)
	assert.Equal(t, 2, v.TeamSize)

	// WHEN: The budget shrinks below the actual hours
	rec = do(t, srv, http.MethodPut, "/api/projects/prj-apollo/budget", UpdateBudgetRequest{BudgetHours: 200})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// THEN: The all-project status shows it over budget
	rec = do(t, srv, http.MethodGet, "/api/budget", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decodeAs[[]VarianceDTO](t, rec)
	require.Len(t, rows, 2)
	assert.Equal(t, "prj-apollo", rows[0].ProjectID)
	assert.True(t, rows[0].OverBudget)

	rec = do(t, srv, http.MethodPut, "/api/projects/prj-apollo/budget", UpdateBudgetRequest{BudgetHours: -1})
	requireErrorCode(t, rec, http.StatusBadRequest, "invalid_input")
}

func TestUtilization_ApprovedLeaveReducesAvailableHours(t *testing.T) {
	srv := newSQLiteServer(t, "team-month")

	// Four weeks from 2025-01-06: 160 standard hours, 5 approved leave days
	rec := do(t, srv, http.MethodGet, "/api/employees/emp-ben/utilization?start=2025-01-06&end=2025-02-03", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	u := decodeAs[UtilizationDTO](t, rec)
	assert.Equal(t, 160.0, u.StandardHours)
	assert.Equal(t, 5, u.LeaveDays)
	assert.Equal(t, 120.0, u.AvailableHours)
	assert.Equal(t, 105.0, u.TotalHours)
	assert.Equal(t, 87.5, u.UtilizationRate)
	assert.Equal(t, 0.0, u.BillableUtilizationRate)
}

func TestProject_UtilizationAndMilestonesArePeriodScoped(t *testing.T) {
	srv := newSQLiteServer(t, "team-month")

	// WHEN: Only the first of the four scenario weeks is requested
	rec := do(t, srv, http.MethodGet, "/api/projects/prj-apollo/utilization?start=2025-01-06&end=2025-01-12", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	u := decodeAs[ProjectUtilizationDTO](t, rec)

	// THEN: Ava 40h + Cora 30h against the 400h budget
	assert.Equal(t, 70.0, u.ActualHours)
	assert.Equal(t, 17.5, u.UtilizationPercent)
	assert.Equal(t, 2, u.TeamSize)
	assert.Equal(t, "2025-01-06", u.PeriodStart)

	rec = do(t, srv, http.MethodGet, "/api/projects/prj-apollo/milestones?start=2025-01-06&end=2025-01-12", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ms := decodeAs[[]MilestoneDTO](t, rec)
	require.Len(t, ms, 5)
	assert.Equal(t, "2025-01-10", ms[4].Date)
	assert.Equal(t, 70.0, ms[4].CumulativeHours)

	// The range is required on both views
	rec = do(t, srv, http.MethodGet, "/api/projects/prj-apollo/utilization", nil)
	requireErrorCode(t, rec, http.StatusBadRequest, "invalid_input")
	rec = do(t, srv, http.MethodGet, "/api/projects/prj-apollo/milestones?start=2025-01-06", nil)
	requireErrorCode(t, rec, http.StatusBadRequest, "invalid_input")
}

func TestReports_TeamViews(t *testing.T) {
	srv := newSQLiteServer(t, "team-month")
	period := "?start=2025-01-06&end=2025-02-02"

	rec := do(t, srv, http.MethodGet, "/api/reports/team"+period, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	team := decodeAs[TeamSummaryDTO](t, rec)
	assert.Equal(t, 4, team.TotalEmployees)
	assert.Equal(t, 3, team.ActiveEmployees)
	assert.Equal(t, 425.0, team.TotalHours)

	rec = do(t, srv, http.MethodGet, "/api/reports/top-performers"+period+"&limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	top := decodeAs[[]PerformerDTO](t, rec)
	require.Len(t, top, 1)
	assert.Equal(t, "emp-ava", top[0].UserID)
	assert.Equal(t, 1, top[0].Rank)

	rec = do(t, srv, http.MethodGet, "/api/reports/departments/Design"+period, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dept := decodeAs[DepartmentSummaryDTO](t, rec)
	assert.Equal(t, 1, dept.EmployeeCount)
	assert.Equal(t, 160.0, dept.TotalHours)

	rec = do(t, srv, http.MethodGet, "/api/employees/emp-ava/reports/monthly?year=2025&month=13", nil)
	requireErrorCode(t, rec, http.StatusBadRequest, "invalid_input")
}
