/*
Package report builds the per-user and team-wide hour reports.

PURPOSE:
  Everything here is a pure function of the records passed in. Reporter
  (service.go) loads those records from the store for a period.

REPORTS:
  - Weekly:          one user, [weekStart, weekStart+7d), project + daily breakdown
  - Monthly:         one user, calendar month, adds a weekly breakdown
  - Team:            headcount, active members, billable percent
  - Members:         one row per employee, zero rows included
  - Projects:        budget utilization and revenue per project
  - TopPerformers:   ranked by billable hours
  - Productivity:    hours per active user and per entry
  - Department:      totals for one department

SEE ALSO:
  - workforce/aggregate.go: Totals and groupings
*/
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

// =============================================================================
// USER REPORTS
// =============================================================================

type ProjectLine struct {
	ProjectID     workforce.ProjectID
	ProjectName   string
	TotalHours    decimal.Decimal
	BillableHours decimal.Decimal
}

type WeekLine struct {
	WeekStart  generic.TimePoint
	WeekEnd    generic.TimePoint
	TotalHours decimal.Decimal
}

// UserReport is a weekly or monthly report for one user.
// Weekly is only filled for monthly reports.
type UserReport struct {
	UserID workforce.UserID
	Period generic.Period
	workforce.Totals
	AverageHoursPerDay decimal.Decimal

	Projects []ProjectLine
	Daily    []workforce.DailyTotals
	Weekly   []WeekLine
}

// Weekly reports a user's week. Entries outside [weekStart, weekStart+7d)
// are ignored.
func Weekly(user workforce.UserID, entries []workforce.TimeEntry, projects map[workforce.ProjectID]string, weekStart generic.TimePoint) UserReport {
	w := generic.WeekWindow(weekStart)
	mine := workforce.Select(entries, workforce.EntryQuery{UserID: user, Window: w})
	totals := workforce.Aggregate(mine, w)

	return UserReport{
		UserID:             user,
		Period:             generic.Period{Start: weekStart, End: weekStart.AddDays(6)},
		Totals:             totals,
		AverageHoursPerDay: averagePerDay(totals),
		Projects:           projectLines(mine, projects),
		Daily:              workforce.ByDay(mine, w),
	}
}

// Monthly reports a user's calendar month, with 7-day buckets from the 1st.
func Monthly(user workforce.UserID, entries []workforce.TimeEntry, projects map[workforce.ProjectID]string, year int, month time.Month) UserReport {
	p := generic.MonthPeriod(year, month)
	mine := workforce.Select(entries, workforce.EntryQuery{UserID: user, Window: p.Window()})
	totals := workforce.Aggregate(mine, generic.Window{})

	var weeks []WeekLine
	for _, wk := range p.Weeks() {
		t := workforce.AggregatePeriod(mine, wk)
		if t.EntryCount == 0 {
			continue
		}
		weeks = append(weeks, WeekLine{WeekStart: wk.Start, WeekEnd: wk.End, TotalHours: t.TotalHours})
	}

	return UserReport{
		UserID:             user,
		Period:             p,
		Totals:             totals,
		AverageHoursPerDay: averagePerDay(totals),
		Projects:           projectLines(mine, projects),
		Daily:              workforce.ByDay(mine, generic.Window{}),
		Weekly:             weeks,
	}
}

// averagePerDay divides by at least one day.
func averagePerDay(t workforce.Totals) decimal.Decimal {
	return generic.RatioInt(t.TotalHours, max(1, t.DaysWorked))
}

func projectLines(entries []workforce.TimeEntry, names map[workforce.ProjectID]string) []ProjectLine {
	byProject := workforce.ByProject(entries, generic.Window{})
	out := make([]ProjectLine, 0, len(byProject))
	for id, t := range byProject {
		out = append(out, ProjectLine{
			ProjectID:     id,
			ProjectName:   names[id],
			TotalHours:    t.TotalHours,
			BillableHours: t.BillableHours,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalHours.Equal(out[j].TotalHours) {
			return out[i].TotalHours.GreaterThan(out[j].TotalHours)
		}
		return out[i].ProjectID < out[j].ProjectID
	})
	return out
}

// =============================================================================
// TEAM REPORTS
// =============================================================================

type TeamSummary struct {
	Period            generic.Period
	TotalEmployees    int
	ActiveEmployees   int
	InactiveEmployees int
	workforce.Totals

	AverageHoursPerEntry    decimal.Decimal
	AverageHoursPerEmployee decimal.Decimal // over active employees
	BillablePercent         decimal.Decimal
}

// Team summarises every entry in p against the directory. Active employees
// are those with at least one entry.
func Team(employees []workforce.Employee, entries []workforce.TimeEntry, p generic.Period) TeamSummary {
	w := p.Window()
	totals := workforce.Aggregate(entries, w)
	active := len(workforce.ByUser(entries, w))

	return TeamSummary{
		Period:                  p,
		TotalEmployees:          len(employees),
		ActiveEmployees:         active,
		InactiveEmployees:       max(0, len(employees)-active),
		Totals:                  totals,
		AverageHoursPerEntry:    totals.AverageHoursPerEntry(),
		AverageHoursPerEmployee: generic.RatioInt(totals.TotalHours, active),
		BillablePercent:         totals.BillablePercent(),
	}
}

type MemberSummary struct {
	Employee workforce.Employee
	workforce.Totals
	AverageHoursPerDay decimal.Decimal
	BillablePercent    decimal.Decimal
}

// Members returns one row per employee, including those with no hours,
// ordered by total hours descending.
func Members(employees []workforce.Employee, entries []workforce.TimeEntry, p generic.Period) []MemberSummary {
	byUser := workforce.ByUser(entries, p.Window())
	out := make([]MemberSummary, 0, len(employees))
	for _, emp := range employees {
		t := byUser[emp.ID]
		out = append(out, MemberSummary{
			Employee:           emp,
			Totals:             t,
			AverageHoursPerDay: t.AverageHoursPerDay(),
			BillablePercent:    t.BillablePercent(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalHours.GreaterThan(out[j].TotalHours) })
	return out
}

type ProjectSummary struct {
	Project           workforce.Project
	TeamSize          int
	TotalHours        decimal.Decimal
	BillableHours     decimal.Decimal
	RemainingHours    decimal.Decimal
	BudgetUtilization decimal.Decimal
	Revenue           decimal.Decimal // billable hours x project rate
}

// Projects returns one row per project, including idle ones, ordered by
// total hours descending.
func Projects(projects []workforce.Project, entries []workforce.TimeEntry, p generic.Period) []ProjectSummary {
	w := p.Window()
	out := make([]ProjectSummary, 0, len(projects))
	for _, proj := range projects {
		mine := workforce.Select(entries, workforce.EntryQuery{ProjectID: proj.ID, Window: w})
		t := workforce.Aggregate(mine, generic.Window{})
		out = append(out, ProjectSummary{
			Project:           proj,
			TeamSize:          len(workforce.ByUser(mine, generic.Window{})),
			TotalHours:        t.TotalHours,
			BillableHours:     t.BillableHours,
			RemainingHours:    proj.BudgetHours.Sub(t.TotalHours),
			BudgetUtilization: generic.Percent(t.TotalHours, proj.BudgetHours),
			Revenue:           t.BillableHours.Mul(proj.HourlyRate),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalHours.GreaterThan(out[j].TotalHours) })
	return out
}

type Performer struct {
	Rank            int
	UserID          workforce.UserID
	Name            string
	TotalHours      decimal.Decimal
	BillableHours   decimal.Decimal
	ProjectCount    int
	BillablePercent decimal.Decimal
}

// TopPerformers ranks users with entries in p by billable hours. A limit
// of zero or less returns everyone.
func TopPerformers(employees []workforce.Employee, entries []workforce.TimeEntry, p generic.Period, limit int) []Performer {
	names := make(map[workforce.UserID]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}

	var out []Performer
	for user, t := range workforce.ByUser(entries, p.Window()) {
		out = append(out, Performer{
			UserID:          user,
			Name:            names[user],
			TotalHours:      t.TotalHours,
			BillableHours:   t.BillableHours,
			ProjectCount:    t.ProjectCount,
			BillablePercent: t.BillablePercent(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BillableHours.Equal(out[j].BillableHours) {
			return out[i].BillableHours.GreaterThan(out[j].BillableHours)
		}
		return out[i].UserID < out[j].UserID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

type Productivity struct {
	Period generic.Period
	workforce.Totals
	ActiveUsers          int
	AverageHoursPerUser  decimal.Decimal
	AverageHoursPerEntry decimal.Decimal
	Score                decimal.Decimal // billable percent
}

func TeamProductivity(entries []workforce.TimeEntry, p generic.Period) Productivity {
	w := p.Window()
	totals := workforce.Aggregate(entries, w)
	active := len(workforce.ByUser(entries, w))
	return Productivity{
		Period:               p,
		Totals:               totals,
		ActiveUsers:          active,
		AverageHoursPerUser:  generic.RatioInt(totals.TotalHours, active),
		AverageHoursPerEntry: totals.AverageHoursPerEntry(),
		Score:                totals.BillablePercent(),
	}
}

type DepartmentSummary struct {
	Department    string
	EmployeeCount int
	workforce.Totals
	AverageHoursPerEntry decimal.Decimal
}

// Department totals the entries of a department's employees. Entries by
// users outside employees are ignored.
func Department(department string, employees []workforce.Employee, entries []workforce.TimeEntry, p generic.Period) DepartmentSummary {
	members := make(map[workforce.UserID]struct{}, len(employees))
	for _, e := range employees {
		members[e.ID] = struct{}{}
	}
	var mine []workforce.TimeEntry
	for _, e := range entries {
		if _, ok := members[e.UserID]; ok {
			mine = append(mine, e)
		}
	}
	totals := workforce.Aggregate(mine, p.Window())
	return DepartmentSummary{
		Department:           department,
		EmployeeCount:        len(employees),
		Totals:               totals,
		AverageHoursPerEntry: totals.AverageHoursPerEntry(),
	}
}
