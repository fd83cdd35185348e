/*
overtime.go - Overtime rule engine

PURPOSE:
  Classifies aggregated hours into regular vs overtime against the standard
  thresholds, and prices overtime over an arbitrary pay period.

RULES:
  Weekly:  regular = min(total, 40), overtime = max(0, total - 40)
           over the half-open window [weekStart, weekStart+7d)
  Daily:   the same split per work date against 8 hours
  Period:  standard = days / 7 x 40 (continuous, not whole weeks)
           overtime = max(0, total - standard)
           pay      = overtime x rate x 1.5

  Every function here is pure. Engine (engine.go) loads entries from the
  store and delegates.

SEE ALSO:
  - generic/types.go: Thresholds, ProRate, SplitAt
  - workforce/aggregate.go: Aggregation the rules run on
*/
package overtime

import (
	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

// =============================================================================
// RESULTS
// =============================================================================

// Split is total hours classified against a threshold.
// RegularHours + OvertimeHours == TotalHours.
type Split struct {
	TotalHours    decimal.Decimal
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal
}

func Classify(total, threshold decimal.Decimal) Split {
	regular, overtime := generic.SplitAt(total, threshold)
	return Split{TotalHours: total, RegularHours: regular, OvertimeHours: overtime}
}

type WeeklyResult struct {
	WeekStart generic.TimePoint
	WeekEnd   generic.TimePoint
	Split
}

type DailyResult struct {
	Date generic.TimePoint
	Split
}

type PayResult struct {
	Period        generic.Period
	StandardHours decimal.Decimal
	TotalHours    decimal.Decimal
	OvertimeHours decimal.Decimal
	HourlyRate    decimal.Decimal
	OvertimePay   decimal.Decimal
}

// =============================================================================
// RULES
// =============================================================================

// Weekly classifies the hours logged in [weekStart, weekStart+7d).
func Weekly(entries []workforce.TimeEntry, weekStart generic.TimePoint) WeeklyResult {
	totals := workforce.AggregateWeek(entries, weekStart)
	return WeeklyResult{
		WeekStart: weekStart,
		WeekEnd:   weekStart.AddDays(6),
		Split:     Classify(totals.TotalHours, generic.StandardHoursPerWeek),
	}
}

// Daily classifies each distinct work date in the period, ordered by date.
// Days without entries are omitted.
func Daily(entries []workforce.TimeEntry, p generic.Period) []DailyResult {
	days := workforce.ByDay(entries, p.Window())
	out := make([]DailyResult, 0, len(days))
	for _, d := range days {
		out = append(out, DailyResult{
			Date:  d.Date,
			Split: Classify(d.TotalHours, generic.StandardHoursPerDay),
		})
	}
	return out
}

// StandardHours is the pro-rated baseline for a period.
func StandardHours(p generic.Period) (decimal.Decimal, error) {
	days, err := p.SpanDays()
	if err != nil {
		return decimal.Zero, err
	}
	return generic.ProRate(days), nil
}

// Pay prices the hours above the pro-rated standard at rate x 1.5.
func Pay(entries []workforce.TimeEntry, p generic.Period, rate decimal.Decimal) (PayResult, error) {
	if rate.IsNegative() {
		return PayResult{}, &generic.InputError{Field: "hourly_rate", Message: "must be >= 0"}
	}
	standard, err := StandardHours(p)
	if err != nil {
		return PayResult{}, err
	}

	totals := workforce.AggregatePeriod(entries, p)
	_, overtime := generic.SplitAt(totals.TotalHours, standard)

	return PayResult{
		Period:        p,
		StandardHours: standard,
		TotalHours:    totals.TotalHours,
		OvertimeHours: overtime,
		HourlyRate:    rate,
		OvertimePay:   overtime.Mul(rate).Mul(generic.OvertimeMultiplier),
	}, nil
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summary bundles every overtime view of one user's period.
type Summary struct {
	UserID workforce.UserID
	Weeks  []WeeklyResult
	Days   []DailyResult
	Pay    PayResult

	WeeklyOvertimeHours decimal.Decimal
	DailyOvertimeHours  decimal.Decimal
}

// Summarize runs the weekly rule over consecutive weeks from p.Start, the daily
// rule over every work date, and prices the period.
func Summarize(user workforce.UserID, entries []workforce.TimeEntry, p generic.Period, rate decimal.Decimal) (Summary, error) {
	pay, err := Pay(entries, p, rate)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{UserID: user, Pay: pay, Days: Daily(entries, p)}
	for _, wk := range p.Weeks() {
		// the final chunk can be shorter than a week
		totals := workforce.AggregatePeriod(entries, wk)
		res := WeeklyResult{
			WeekStart: wk.Start,
			WeekEnd:   wk.End,
			Split:     Classify(totals.TotalHours, generic.StandardHoursPerWeek),
		}
		s.Weeks = append(s.Weeks, res)
		s.WeeklyOvertimeHours = s.WeeklyOvertimeHours.Add(res.OvertimeHours)
	}
	for _, d := range s.Days {
		s.DailyOvertimeHours = s.DailyOvertimeHours.Add(d.OvertimeHours)
	}
	return s, nil
}
