package payroll_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/payroll"
	"github.com/warp/workforce-engine/workforce"
	"github.com/warp/workforce-engine/workforce/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var monday = generic.NewTimePoint(2025, 1, 6)

// twoWeeks is a 14-day span: 80 standard hours per employee.
var twoWeeks = generic.Period{Start: monday, End: monday.AddDays(14)}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func entryOn(user, project string, day generic.TimePoint, hours float64, billable bool, desc string) workforce.TimeEntry {
	start := day.Midnight().Add(9 * time.Hour)
	return workforce.TimeEntry{
		ID:          workforce.NewID(),
		UserID:      workforce.UserID(user),
		ProjectID:   workforce.ProjectID(project),
		StartTime:   &start,
		HoursWorked: decimal.NewFromFloat(hours),
		Billable:    billable,
		Description: desc,
		CreatedAt:   start,
	}
}

func hoursFor(user string, days int, perDay float64) []workforce.TimeEntry {
	var out []workforce.TimeEntry
	for d := 0; d < days; d++ {
		out = append(out, entryOn(user, "p-1", monday.AddDays(d), perDay, true, ""))
	}
	return out
}

// =============================================================================
// PER EMPLOYEE
// =============================================================================

func TestComputeEmployee_OvertimeAtOneAndAHalf(t *testing.T) {
	// GIVEN: 90 hours in a period with an 80-hour standard
	emp := workforce.Employee{ID: "u1", Name: "Ada"}

	// WHEN: Pricing at the default 25/h
	pay, err := payroll.ComputeEmployee(emp, hoursFor("u1", 10, 9), twoWeeks, payroll.DefaultConfig())

	// THEN: 80 x 25 + 10 x 37.5
	require.NoError(t, err)
	assert.True(t, pay.RegularHours.Equal(dec("80")))
	assert.True(t, pay.OvertimeHours.Equal(dec("10")))
	assert.True(t, pay.RegularPay.Equal(dec("2000")))
	assert.True(t, pay.OvertimePay.Equal(dec("375")))
	assert.True(t, pay.GrossPay.Equal(dec("2375")))
}

func TestComputeEmployee_IgnoresOtherUsers(t *testing.T) {
	entries := append(hoursFor("u1", 2, 8), hoursFor("u2", 5, 8)...)

	pay, err := payroll.ComputeEmployee(workforce.Employee{ID: "u1"}, entries, twoWeeks, payroll.DefaultConfig())

	require.NoError(t, err)
	assert.True(t, pay.TotalHours.Equal(dec("16")))
}

func TestComputeEmployee_ZeroSpan(t *testing.T) {
	_, err := payroll.ComputeEmployee(workforce.Employee{ID: "u1"}, nil, generic.Period{Start: monday, End: monday}, payroll.DefaultConfig())
	assert.ErrorIs(t, err, generic.ErrInvalidRange)
}

// =============================================================================
// AGGREGATE TOTALS
// =============================================================================

func TestComputeTotals_BaselineScalesWithHeadcount(t *testing.T) {
	// GIVEN: A fixed set of entries and a fixed period
	entries := append(hoursFor("u1", 10, 9), hoursFor("u2", 10, 9)...)
	cfg := payroll.DefaultConfig()

	// WHEN: Computing totals for N and 2N employees
	single, err := payroll.ComputeTotals(entries, 2, twoWeeks, cfg)
	require.NoError(t, err)
	double, err := payroll.ComputeTotals(entries, 4, twoWeeks, cfg)
	require.NoError(t, err)

	// THEN: The standard-hours baseline doubles
	assert.True(t, single.StandardHours.Equal(dec("160")))
	assert.True(t, double.StandardHours.Equal(single.StandardHours.Mul(decimal.NewFromInt(2))))

	// AND: With two employees 180h against 160h is 20h overtime; with four there is none
	assert.True(t, single.OvertimeHours.Equal(dec("20")))
	assert.True(t, double.OvertimeHours.IsZero())
	assert.True(t, double.RegularHours.Equal(dec("180")))
}

func TestComputeTotals_GrossPay(t *testing.T) {
	totals, err := payroll.ComputeTotals(hoursFor("u1", 10, 9), 1, twoWeeks, payroll.Config{
		HourlyRate: dec("40"), OvertimeMultiplier: dec("1.5"),
	})
	require.NoError(t, err)
	// 80 x 40 + 10 x 60
	assert.True(t, totals.GrossPay.Equal(dec("3800")))
}

// =============================================================================
// BILLING
// =============================================================================

func TestBill_NonBillableContributesZero(t *testing.T) {
	// GIVEN: A 5-hour non-billable entry and a 3-hour billable entry on a 150/h project
	project := workforce.Project{ID: "p-1", Name: "Apollo", HourlyRate: dec("150")}
	entries := []workforce.TimeEntry{
		entryOn("u1", "p-1", monday, 5, false, "internal sync"),
		entryOn("u1", "p-1", monday.AddDays(1), 3, true, "feature work"),
		entryOn("u1", "p-2", monday.AddDays(1), 8, true, "other project"),
	}

	// WHEN: Billing the project
	st := payroll.Bill(project, entries, map[workforce.UserID]string{"u1": "Ada"}, twoWeeks)

	// THEN: The non-billable row is 0.00 and only p-1 is billed
	require.Len(t, st.Lines, 2)
	assert.True(t, st.Lines[0].Amount.IsZero())
	assert.Equal(t, "0.00", st.Lines[0].Amount.StringFixed(2))
	assert.True(t, st.Lines[1].Amount.Equal(dec("450")))
	assert.True(t, st.TotalAmount.Equal(dec("450")))
	assert.True(t, st.TotalHours.Equal(dec("8")))
	assert.True(t, st.BillableHours.Equal(dec("3")))
	assert.Equal(t, "Ada", st.Lines[0].EmployeeName)
}

// =============================================================================
// CSV EXPORT
// =============================================================================

func TestWritePayrollCSV(t *testing.T) {
	pay, err := payroll.ComputeEmployee(workforce.Employee{ID: "u1", Name: `Ada "The Countess" Lovelace`},
		hoursFor("u1", 10, 9), twoWeeks, payroll.DefaultConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, payroll.WritePayrollCSV(&buf, []payroll.EmployeePay{pay}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Employee ID,Employee Name,Regular Hours,Overtime Hours,Total Hours,"+
		"Billable Hours,Non-Billable Hours,Gross Pay,Period Start,Period End", lines[0])
	assert.Equal(t, `u1,"Ada ""The Countess"" Lovelace",80.00,10.00,90.00,90.00,0.00,2375.00,2025-01-06,2025-01-20`, lines[1])
}

func TestWriteBillingCSV(t *testing.T) {
	project := workforce.Project{ID: "p-1", HourlyRate: dec("99.5")}
	st := payroll.Bill(project, []workforce.TimeEntry{
		entryOn("u1", "p-1", monday, 5, false, "standup"),
		entryOn("u1", "p-1", monday, 2, true, "api, auth"),
	}, map[workforce.UserID]string{"u1": "Ada"}, twoWeeks)

	var buf bytes.Buffer
	require.NoError(t, payroll.WriteBillingCSV(&buf, st))

	assert.Equal(t, "Date,Employee Name,Hours Worked,Billable,Description,Amount\n"+
		`2025-01-06,"Ada",5.00,No,"standup",0.00`+"\n"+
		`2025-01-06,"Ada",2.00,Yes,"api, auth",199.00`+"\n", buf.String())
}

// =============================================================================
// SERVICE
// =============================================================================

func seed(t *testing.T) *store.Memory {
	t.Helper()
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, mem.SaveEmployee(ctx, workforce.Employee{ID: "u1", Name: "Ada"}))
	require.NoError(t, mem.SaveEmployee(ctx, workforce.Employee{ID: "u2", Name: "Babbage"}))
	require.NoError(t, mem.InsertProject(ctx, workforce.Project{ID: "p-1", Name: "Apollo", HourlyRate: dec("100")}))
	for _, e := range hoursFor("u1", 10, 9) {
		require.NoError(t, mem.InsertEntry(ctx, e))
	}
	return mem
}

func TestService_SummaryIncludesIdleEmployees(t *testing.T) {
	svc := payroll.NewService(seed(t), payroll.DefaultConfig())

	rows, err := svc.Summary(context.Background(), twoWeeks)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Ada", rows[0].Employee.Name)
	assert.True(t, rows[0].GrossPay.Equal(dec("2375")))
	assert.Equal(t, "Babbage", rows[1].Employee.Name)
	assert.True(t, rows[1].GrossPay.IsZero())
}

func TestService_Totals(t *testing.T) {
	svc := payroll.NewService(seed(t), payroll.DefaultConfig())

	totals, err := svc.Totals(context.Background(), twoWeeks)

	require.NoError(t, err)
	assert.Equal(t, 2, totals.EmployeeCount)
	assert.True(t, totals.StandardHours.Equal(dec("160")))
	assert.True(t, totals.OvertimeHours.IsZero())
}

func TestService_ProjectBilling(t *testing.T) {
	svc := payroll.NewService(seed(t), payroll.DefaultConfig())

	st, err := svc.ProjectBilling(context.Background(), "p-1", twoWeeks)
	require.NoError(t, err)
	assert.Len(t, st.Lines, 10)
	assert.True(t, st.TotalAmount.Equal(dec("9000")))

	_, err = svc.ProjectBilling(context.Background(), "p-404", twoWeeks)
	assert.ErrorIs(t, err, generic.ErrNotFound)
}

func TestService_EmployeePayroll_UnknownEmployee(t *testing.T) {
	svc := payroll.NewService(seed(t), payroll.DefaultConfig())

	_, err := svc.EmployeePayroll(context.Background(), "ghost", twoWeeks)

	assert.ErrorIs(t, err, generic.ErrNotFound)
}
