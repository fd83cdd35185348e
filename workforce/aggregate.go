package workforce

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
)

// =============================================================================
// TIME ENTRY AGGREGATOR
// =============================================================================

// Totals is the aggregate of an entry set over a window.
// BillableHours + NonBillableHours == TotalHours.
type Totals struct {
	TotalHours       decimal.Decimal
	BillableHours    decimal.Decimal
	NonBillableHours decimal.Decimal
	EntryCount       int
	DaysWorked       int
	ProjectCount     int
}

// Aggregate sums every entry whose work instant lies in w. Callers pick the
// window shape: Period.Window() for closed date ranges, WeekWindow for weeks.
func Aggregate(entries []TimeEntry, w generic.Window) Totals {
	t := Totals{}
	days := make(map[generic.TimePoint]struct{})
	projects := make(map[ProjectID]struct{})

	for _, e := range entries {
		if !w.Contains(e.WorkedAt()) {
			continue
		}
		h := e.Hours()
		t.TotalHours = t.TotalHours.Add(h)
		if e.Billable {
			t.BillableHours = t.BillableHours.Add(h)
		} else {
			t.NonBillableHours = t.NonBillableHours.Add(h)
		}
		t.EntryCount++
		days[e.WorkDate()] = struct{}{}
		projects[e.ProjectID] = struct{}{}
	}

	t.DaysWorked = len(days)
	t.ProjectCount = len(projects)
	return t
}

// AggregatePeriod aggregates over the closed range [p.Start, p.End].
func AggregatePeriod(entries []TimeEntry, p generic.Period) Totals {
	return Aggregate(entries, p.Window())
}

// AggregateWeek aggregates over [weekStart, weekStart+7d).
func AggregateWeek(entries []TimeEntry, weekStart generic.TimePoint) Totals {
	return Aggregate(entries, generic.WeekWindow(weekStart))
}

func (t Totals) Snapshot() HoursSnapshot {
	return HoursSnapshot{
		TotalHours:       t.TotalHours,
		BillableHours:    t.BillableHours,
		NonBillableHours: t.NonBillableHours,
	}
}

func (t Totals) AverageHoursPerDay() decimal.Decimal {
	return generic.RatioInt(t.TotalHours, t.DaysWorked)
}

func (t Totals) AverageHoursPerEntry() decimal.Decimal {
	return generic.RatioInt(t.TotalHours, t.EntryCount)
}

func (t Totals) BillablePercent() decimal.Decimal {
	return generic.Percent(t.BillableHours, t.TotalHours)
}

// =============================================================================
// GROUPINGS
// =============================================================================

// DailyTotals is the aggregate for one work date.
type DailyTotals struct {
	Date generic.TimePoint
	Totals
}

// ByDay groups the entries in w by work date, ordered by date.
func ByDay(entries []TimeEntry, w generic.Window) []DailyTotals {
	groups := make(map[generic.TimePoint][]TimeEntry)
	for _, e := range entries {
		if w.Contains(e.WorkedAt()) {
			d := e.WorkDate()
			groups[d] = append(groups[d], e)
		}
	}

	out := make([]DailyTotals, 0, len(groups))
	for d, es := range groups {
		out = append(out, DailyTotals{Date: d, Totals: Aggregate(es, generic.Window{})})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// ByUser groups the entries in w by owning user.
func ByUser(entries []TimeEntry, w generic.Window) map[UserID]Totals {
	groups := make(map[UserID][]TimeEntry)
	for _, e := range entries {
		if w.Contains(e.WorkedAt()) {
			groups[e.UserID] = append(groups[e.UserID], e)
		}
	}
	out := make(map[UserID]Totals, len(groups))
	for u, es := range groups {
		out[u] = Aggregate(es, generic.Window{})
	}
	return out
}

// ByProject groups the entries in w by owning project.
func ByProject(entries []TimeEntry, w generic.Window) map[ProjectID]Totals {
	groups := make(map[ProjectID][]TimeEntry)
	for _, e := range entries {
		if w.Contains(e.WorkedAt()) {
			groups[e.ProjectID] = append(groups[e.ProjectID], e)
		}
	}
	out := make(map[ProjectID]Totals, len(groups))
	for p, es := range groups {
		out[p] = Aggregate(es, generic.Window{})
	}
	return out
}

// Select returns the entries matching q, preserving order.
func Select(entries []TimeEntry, q EntryQuery) []TimeEntry {
	var out []TimeEntry
	for _, e := range entries {
		if q.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}
