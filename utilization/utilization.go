/*
utilization.go - Utilization calculator

PURPOSE:
  Measures logged hours against the hours a user was actually available.

FORMULAS:
  standard   = days / 7 x 40               (same pro-ration as overtime pay)
  leaveHours = approvedLeaveDays x 8
  available  = standard - leaveHours
  rate       = logged / available x 100    (billable and non-billable share
                                            the same denominator)

  approvedLeaveDays only counts APPROVED requests that lie entirely inside
  the queried period. Partial overlap is ignored.

  When available <= 0 every rate is reported as 0.

MONTHLY TREND:
  available = daysInMonth / 7 x 40, using the real length of each month.

SEE ALSO:
  - calculator.go: Store-backed entry points, team fan-out
  - overtime/overtime.go: Shares the pro-ration
*/
package utilization

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

// =============================================================================
// RESULTS
// =============================================================================

type Result struct {
	UserID         workforce.UserID
	Period         generic.Period
	StandardHours  decimal.Decimal
	LeaveDays      int
	LeaveHours     decimal.Decimal
	AvailableHours decimal.Decimal

	TotalHours       decimal.Decimal
	BillableHours    decimal.Decimal
	NonBillableHours decimal.Decimal

	UtilizationRate            decimal.Decimal
	BillableUtilizationRate    decimal.Decimal
	NonBillableUtilizationRate decimal.Decimal
}

type MonthlyPoint struct {
	Year                    int
	Month                   time.Month
	AvailableHours          decimal.Decimal
	TotalHours              decimal.Decimal
	BillableHours           decimal.Decimal
	UtilizationRate         decimal.Decimal
	BillableUtilizationRate decimal.Decimal
}

// =============================================================================
// RULES
// =============================================================================

// ApprovedLeaveDays sums TotalDays of approved requests fully contained in p.
func ApprovedLeaveDays(leaves []workforce.LeaveRequest, p generic.Period) int {
	days := 0
	for _, l := range leaves {
		if l.Status != generic.StatusApproved {
			continue
		}
		if p.Encloses(l.Period()) {
			days += l.TotalDays
		}
	}
	return days
}

func leaveOf(user workforce.UserID, leaves []workforce.LeaveRequest) []workforce.LeaveRequest {
	var out []workforce.LeaveRequest
	for _, l := range leaves {
		if l.UserID == user {
			out = append(out, l)
		}
	}
	return out
}

// Compute derives a user's utilization over p. Entries and leave belonging to
// other users are ignored.
func Compute(user workforce.UserID, entries []workforce.TimeEntry, leaves []workforce.LeaveRequest, p generic.Period) (Result, error) {
	days, err := p.SpanDays()
	if err != nil {
		return Result{}, err
	}
	entries = workforce.Select(entries, workforce.EntryQuery{UserID: user})
	leaves = leaveOf(user, leaves)

	standard := generic.ProRate(days)
	leaveDays := ApprovedLeaveDays(leaves, p)
	leaveHours := decimal.NewFromInt(int64(leaveDays)).Mul(generic.StandardHoursPerDay)
	available := standard.Sub(leaveHours)
	totals := workforce.AggregatePeriod(entries, p)

	return Result{
		UserID:                     user,
		Period:                     p,
		StandardHours:              standard,
		LeaveDays:                  leaveDays,
		LeaveHours:                 leaveHours,
		AvailableHours:             available,
		TotalHours:                 totals.TotalHours,
		BillableHours:              totals.BillableHours,
		NonBillableHours:           totals.NonBillableHours,
		UtilizationRate:            generic.Percent(totals.TotalHours, available),
		BillableUtilizationRate:    generic.Percent(totals.BillableHours, available),
		NonBillableUtilizationRate: generic.Percent(totals.NonBillableHours, available),
	}, nil
}

// Trend computes one point per calendar month of year.
func Trend(entries []workforce.TimeEntry, year int) []MonthlyPoint {
	points := make([]MonthlyPoint, 0, 12)
	for m := time.January; m <= time.December; m++ {
		available := generic.ProRate(generic.DaysInMonth(year, m))
		totals := workforce.AggregatePeriod(entries, generic.MonthPeriod(year, m))
		points = append(points, MonthlyPoint{
			Year:                    year,
			Month:                   m,
			AvailableHours:          available,
			TotalHours:              totals.TotalHours,
			BillableHours:           totals.BillableHours,
			UtilizationRate:         generic.Percent(totals.TotalHours, available),
			BillableUtilizationRate: generic.Percent(totals.BillableHours, available),
		})
	}
	return points
}
