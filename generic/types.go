/*
Package generic provides the domain-agnostic primitives of the workforce engine.

PURPOSE:
  Everything in here is independent of what is being tracked. Hours, money,
  calendar math, the error taxonomy and the approval state machine are shared
  by every calculator (overtime, utilization, payroll, budget) and by both
  approval workflows (leave, timesheets).

KEY CONCEPTS IN THIS FILE (types.go):
  - Standard hours: the 8h day / 40h week baseline
  - Ratio / Percent: division with a zero-denominator guard
  - ProRate: continuous pro-ration of the weekly baseline over N days

DESIGN PRINCIPLES:
  1. Precision: uses decimal.Decimal for hours, rates and money
  2. Totality: ratios never fail, never produce NaN or Inf
  3. Purity: nothing here touches storage or global state

USAGE:
  rate := generic.Percent(logged, available)  // 0 when available <= 0
  std := generic.ProRate(14)                  // 80 hours

SEE ALSO:
  - period.go: Period and Window used to filter entries
  - errors.go: Error taxonomy
  - approval.go: Approval state machine
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// STANDARD HOURS
// =============================================================================

var (
	// StandardHoursPerDay is the daily overtime threshold and the leave-day weight.
	StandardHoursPerDay = decimal.NewFromInt(8)

	// StandardHoursPerWeek is the weekly overtime threshold.
	StandardHoursPerWeek = decimal.NewFromInt(40)

	// OvertimeMultiplier is applied to the hourly rate for overtime hours.
	OvertimeMultiplier = decimal.NewFromFloat(1.5)

	daysPerWeek = decimal.NewFromInt(7)
	hundred     = decimal.NewFromInt(100)
)

// ProRate returns the standard hours for a span of days: days / 7 x 40.
// It is a continuous pro-ration, not a count of whole weeks.
func ProRate(days int) decimal.Decimal {
	return decimal.NewFromInt(int64(days)).Div(daysPerWeek).Mul(StandardHoursPerWeek)
}

// =============================================================================
// DIVIDE GUARD
// =============================================================================

// Ratio returns num / den, or zero when den is not positive.
func Ratio(num, den decimal.Decimal) decimal.Decimal {
	if !den.IsPositive() {
		return decimal.Zero
	}
	return num.Div(den)
}

// Percent returns num / den x 100, or zero when den is not positive.
func Percent(num, den decimal.Decimal) decimal.Decimal {
	return Ratio(num, den).Mul(hundred)
}

// RatioInt is Ratio with an integer denominator (days worked, entry count).
func RatioInt(num decimal.Decimal, den int) decimal.Decimal {
	return Ratio(num, decimal.NewFromInt(int64(den)))
}

// SplitAt partitions total into the part up to threshold and the excess above it.
// regular + excess == total for every total >= 0.
func SplitAt(total, threshold decimal.Decimal) (regular, excess decimal.Decimal) {
	regular = decimal.Min(total, threshold)
	excess = decimal.Max(decimal.Zero, total.Sub(threshold))
	return regular, excess
}
