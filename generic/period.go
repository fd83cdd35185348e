package generic

import "time"

// =============================================================================
// PERIOD - Closed date range [Start, End]
// =============================================================================

// Period is an inclusive range of calendar dates. Explicit period calculations
// (pay periods, reports, utilization) use it; an entry dated on End is inside.
//
// Examples:
//   - Pay period: Jan 1 - Jan 15
//   - Calendar month: Feb 1 - Feb 28
//   - A single day: Start == End
type Period struct {
	Start TimePoint
	End   TimePoint
}

// NewPeriod builds a period and validates its ordering.
func NewPeriod(start, end TimePoint) (Period, error) {
	p := Period{Start: start, End: end}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Validate rejects a period whose end is before its start.
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() {
		return &RangeError{Start: p.Start, End: p.End, Reason: "start and end are required"}
	}
	if p.End.Before(p.Start) {
		return &RangeError{Start: p.Start, End: p.End, Reason: "end before start"}
	}
	return nil
}

// Contains returns true if the date is within [Start, End].
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Encloses reports whether other lies entirely inside p.
func (p Period) Encloses(other Period) bool {
	return p.Contains(other.Start) && p.Contains(other.End)
}

// SpanDays is the pro-ration day count, End - Start. A zero span cannot be
// pro-rated and is reported as an invalid range.
func (p Period) SpanDays() (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}
	days := DaysBetween(p.Start, p.End)
	if days <= 0 {
		return 0, &RangeError{Start: p.Start, End: p.End, Reason: "period spans zero days"}
	}
	return days, nil
}

// Window converts the closed date range into the instants [Start 00:00, End+1 00:00).
func (p Period) Window() Window {
	return Window{From: p.Start.Midnight(), To: p.End.AddDays(1).Midnight()}
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// MonthPeriod returns the calendar month as a period.
func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

// Weeks splits the period into consecutive 7-day chunks starting at Start.
// The last chunk is truncated at End.
func (p Period) Weeks() []Period {
	var weeks []Period
	for ws := p.Start; ws.BeforeOrEqual(p.End); ws = ws.AddDays(7) {
		we := ws.AddDays(6)
		if we.After(p.End) {
			we = p.End
		}
		weeks = append(weeks, Period{Start: ws, End: we})
	}
	return weeks
}

// =============================================================================
// WINDOW - Half-open instant range [From, To)
// =============================================================================

// Window is the form every range takes at the storage boundary. A zero Window
// is unbounded.
type Window struct {
	From time.Time
	To   time.Time
}

// WeekWindow is the half-open [weekStart, weekStart+7d) window.
func WeekWindow(weekStart TimePoint) Window {
	return Window{From: weekStart.Midnight(), To: weekStart.AddDays(7).Midnight()}
}

// Contains reports whether t lies in [From, To).
func (w Window) Contains(t time.Time) bool {
	if w.IsZero() {
		return true
	}
	return !t.Before(w.From) && t.Before(w.To)
}

func (w Window) IsZero() bool { return w.From.IsZero() && w.To.IsZero() }
