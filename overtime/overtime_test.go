package overtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/overtime"
	"github.com/warp/workforce-engine/workforce"
	"github.com/warp/workforce-engine/workforce/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func entryOn(user string, day generic.TimePoint, hours float64) workforce.TimeEntry {
	start := day.Midnight().Add(9 * time.Hour)
	return workforce.TimeEntry{
		ID:          workforce.NewID(),
		UserID:      workforce.UserID(user),
		ProjectID:   "p-1",
		StartTime:   &start,
		HoursWorked: decimal.NewFromFloat(hours),
		Billable:    true,
		Type:        workforce.EntryRegular,
		CreatedAt:   start,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestEngine(t *testing.T) (*overtime.Engine, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	require.NoError(t, mem.InsertProject(context.Background(), workforce.Project{
		ID: "p-1", Name: "Apollo", HourlyRate: dec("100"), BudgetHours: dec("500"), Status: workforce.ProjectActive,
	}))
	return overtime.NewEngine(mem, mem, nil), mem
}

var monday = generic.NewTimePoint(2025, 1, 6)

// =============================================================================
// WEEKLY
// =============================================================================

func TestWeekly_RegularPlusOvertimeEqualsTotal(t *testing.T) {
	// GIVEN: Weeks with 0..60 hours spread over five days
	for _, perDay := range []string{"0", "6", "8", "8.5", "10", "12"} {
		var entries []workforce.TimeEntry
		for d := 0; d < 5; d++ {
			entries = append(entries, entryOn("u1", monday.AddDays(d), dec(perDay).InexactFloat64()))
		}

		// WHEN: Classifying the week
		res := overtime.Weekly(entries, monday)

		// THEN: regular = min(H, 40), overtime = max(0, H - 40), and they sum to H
		total := dec(perDay).Mul(decimal.NewFromInt(5))
		assert.True(t, res.TotalHours.Equal(total), "total for %s/day", perDay)
		assert.True(t, res.RegularHours.Equal(decimal.Min(total, dec("40"))))
		assert.True(t, res.OvertimeHours.Equal(decimal.Max(decimal.Zero, total.Sub(dec("40")))))
		assert.True(t, res.RegularHours.Add(res.OvertimeHours).Equal(res.TotalHours))
	}
}

func TestWeekly_ExcludesNextWeekStart(t *testing.T) {
	entries := []workforce.TimeEntry{
		entryOn("u1", monday, 45),
		entryOn("u1", monday.AddDays(7), 10),
	}

	res := overtime.Weekly(entries, monday)

	assert.True(t, res.TotalHours.Equal(dec("45")))
	assert.True(t, res.OvertimeHours.Equal(dec("5")))
	assert.Equal(t, "2025-01-12", res.WeekEnd.String())
}

// =============================================================================
// DAILY
// =============================================================================

func TestDaily_SplitsEachWorkDate(t *testing.T) {
	// GIVEN: 10h on Monday, 6h on Tuesday (two entries), nothing on Wednesday
	entries := []workforce.TimeEntry{
		entryOn("u1", monday, 10),
		entryOn("u1", monday.AddDays(1), 4),
		entryOn("u1", monday.AddDays(1), 2),
	}

	days := overtime.Daily(entries, generic.Period{Start: monday, End: monday.AddDays(2)})

	require.Len(t, days, 2)
	assert.True(t, days[0].RegularHours.Equal(dec("8")))
	assert.True(t, days[0].OvertimeHours.Equal(dec("2")))
	assert.True(t, days[1].RegularHours.Equal(dec("6")))
	assert.True(t, days[1].OvertimeHours.IsZero())
}

// =============================================================================
// PERIOD PAY
// =============================================================================

func TestPay_ProRatedStandard(t *testing.T) {
	// GIVEN: A 14-day pay period (standard 80h) with 90h logged
	var entries []workforce.TimeEntry
	for d := 0; d < 10; d++ {
		entries = append(entries, entryOn("u1", monday.AddDays(d), 9))
	}
	p := generic.Period{Start: monday, End: monday.AddDays(14)}

	// WHEN: Pricing at 25/h
	res, err := overtime.Pay(entries, p, dec("25"))

	// THEN: 10 overtime hours at 37.5
	require.NoError(t, err)
	assert.True(t, res.StandardHours.Equal(dec("80")))
	assert.True(t, res.OvertimeHours.Equal(dec("10")))
	assert.True(t, res.OvertimePay.Equal(dec("375")), "got %s", res.OvertimePay)
}

func TestPay_ContinuousProRation(t *testing.T) {
	// A 10-day span is 57.142857... standard hours, not one whole week
	std, err := overtime.StandardHours(generic.Period{Start: monday, End: monday.AddDays(10)})
	require.NoError(t, err)
	assert.True(t, std.GreaterThan(dec("57.14")) && std.LessThan(dec("57.15")), "got %s", std)
}

func TestPay_InvalidRanges(t *testing.T) {
	_, err := overtime.Pay(nil, generic.Period{Start: monday, End: monday}, dec("25"))
	assert.ErrorIs(t, err, generic.ErrInvalidRange)

	_, err = overtime.Pay(nil, generic.Period{Start: monday, End: monday.AddDays(-1)}, dec("25"))
	assert.ErrorIs(t, err, generic.ErrInvalidRange)
}

func TestSummarize(t *testing.T) {
	var entries []workforce.TimeEntry
	for d := 0; d < 5; d++ {
		entries = append(entries, entryOn("u1", monday.AddDays(d), 10))
	}

	s, err := overtime.Summarize("u1", entries, generic.Period{Start: monday, End: monday.AddDays(13)}, dec("20"))
	require.NoError(t, err)

	require.Len(t, s.Weeks, 2)
	assert.True(t, s.WeeklyOvertimeHours.Equal(dec("10")))
	assert.True(t, s.DailyOvertimeHours.Equal(dec("10")))
	assert.Len(t, s.Days, 5)
}

// =============================================================================
// ENGINE
// =============================================================================

func TestEngine_RecordOvertime(t *testing.T) {
	// GIVEN: An engine over an empty store
	engine, mem := newTestEngine(t)
	ctx := context.Background()

	// WHEN: Recording 3 overtime hours
	e, err := engine.RecordOvertime(ctx, overtime.RecordCommand{
		UserID: "u1", ProjectID: "p-1", Date: monday.AddDays(5), Hours: dec("3"), Description: "release night",
	})

	// THEN: A billable OVERTIME entry exists on that date
	require.NoError(t, err)
	assert.Equal(t, workforce.EntryOvertime, e.Type)
	assert.True(t, e.Billable)

	stored, err := mem.QueryEntries(ctx, workforce.EntryQuery{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "2025-01-11", stored[0].WorkDate().String())

	// AND: It counts in the weekly classification like any other hour
	res, err := engine.WeeklyOvertime(ctx, "u1", monday)
	require.NoError(t, err)
	assert.True(t, res.TotalHours.Equal(dec("3")))
}

func TestEngine_RecordOvertime_Validation(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.RecordOvertime(ctx, overtime.RecordCommand{UserID: "u1", ProjectID: "p-1", Date: monday, Hours: dec("0")})
	assert.ErrorIs(t, err, generic.ErrInvalidInput)

	_, err = engine.RecordOvertime(ctx, overtime.RecordCommand{UserID: "u1", ProjectID: "missing", Date: monday, Hours: dec("2")})
	assert.ErrorIs(t, err, generic.ErrNotFound)

	// end without a start, and end before start
	end := monday.Midnight().Add(20 * time.Hour)
	_, err = engine.RecordOvertime(ctx, overtime.RecordCommand{UserID: "u1", ProjectID: "p-1", End: &end, Hours: dec("2")})
	assert.ErrorIs(t, err, generic.ErrInvalidInput)

	start := end.Add(time.Hour)
	_, err = engine.RecordOvertime(ctx, overtime.RecordCommand{UserID: "u1", ProjectID: "p-1", Start: &start, End: &end})
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestEngine_RecordOvertime_TimestampsWinOverHours(t *testing.T) {
	// GIVEN: An entry from 18:00 to 20:30 that claims 4 hours
	engine, mem := newTestEngine(t)
	ctx := context.Background()
	start := monday.Midnight().Add(18 * time.Hour)
	end := start.Add(150 * time.Minute)

	// WHEN: It is recorded with both timestamps
	e, err := engine.RecordOvertime(ctx, overtime.RecordCommand{
		UserID: "u1", ProjectID: "p-1", Start: &start, End: &end, Hours: dec("4"),
	})

	// THEN: The stored entry keeps both instants and its duration is what counts
	require.NoError(t, err)
	require.NotNil(t, e.EndTime)
	assert.True(t, e.StartTime.Equal(start))
	assert.True(t, e.EndTime.Equal(end))
	assert.True(t, e.Hours().Equal(dec("2.5")))

	res, err := engine.WeeklyOvertime(ctx, "u1", monday)
	require.NoError(t, err)
	assert.True(t, res.TotalHours.Equal(dec("2.5")))

	stored, err := mem.QueryEntries(ctx, workforce.EntryQuery{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.NotNil(t, stored[0].EndTime)
}

func TestEngine_RecordOvertime_HoursFromTimestamps(t *testing.T) {
	engine, _ := newTestEngine(t)
	start := monday.Midnight().Add(19 * time.Hour)
	end := start.Add(90 * time.Minute)

	// Hours may be omitted when the interval is given
	e, err := engine.RecordOvertime(context.Background(), overtime.RecordCommand{
		UserID: "u1", ProjectID: "p-1", Start: &start, End: &end,
	})

	require.NoError(t, err)
	assert.True(t, e.HoursWorked.Equal(dec("1.5")))
}

func TestEngine_StorageFailureIsReported(t *testing.T) {
	engine, mem := newTestEngine(t)
	mem.FailOn("QueryEntries", assert.AnError)

	_, err := engine.OvertimePay(context.Background(), "u1", generic.Period{Start: monday, End: monday.AddDays(7)}, dec("25"))

	assert.ErrorIs(t, err, generic.ErrStorageFailure)
	assert.ErrorIs(t, err, assert.AnError)
}
