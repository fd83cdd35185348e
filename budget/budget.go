/*
budget.go - Budget variance calculator

PURPOSE:
  Compares a project's budgeted hours and amount to what was actually logged.

FORMULAS:
  budgetAmount   = budgetHours x hourlyRate
  actualAmount   = actualHours x hourlyRate
  varianceHours  = budgetHours - actualHours
  varianceAmount = budgetAmount - actualAmount
  percentUsed    = actualHours / budgetHours x 100   (0 when budgetHours = 0)
  overBudget     = actualHours > budgetHours

TEAM CONTRIBUTION:
  Two phases. First accumulate every user's hours into a map; only then,
  with the grand total known, project each user's percentage.

SEE ALSO:
  - tracker.go: Store-backed entry points and the budget update command
*/
package budget

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

// =============================================================================
// VARIANCE
// =============================================================================

type Variance struct {
	Project       workforce.Project
	ActualHours   decimal.Decimal
	BillableHours decimal.Decimal
	TeamSize      int

	BudgetAmount   decimal.Decimal
	ActualAmount   decimal.Decimal
	BillableAmount decimal.Decimal
	VarianceHours  decimal.Decimal
	VarianceAmount decimal.Decimal
	PercentUsed    decimal.Decimal
	OverBudget     bool
}

// ComputeVariance measures every entry logged against the project.
func ComputeVariance(project workforce.Project, entries []workforce.TimeEntry) Variance {
	own := workforce.Select(entries, workforce.EntryQuery{ProjectID: project.ID})
	totals := workforce.Aggregate(own, generic.Window{})

	budgetAmount := project.BudgetHours.Mul(project.HourlyRate)
	actualAmount := totals.TotalHours.Mul(project.HourlyRate)

	return Variance{
		Project:        project,
		ActualHours:    totals.TotalHours,
		BillableHours:  totals.BillableHours,
		TeamSize:       len(workforce.ByUser(own, generic.Window{})),
		BudgetAmount:   budgetAmount,
		ActualAmount:   actualAmount,
		BillableAmount: totals.BillableHours.Mul(project.HourlyRate),
		VarianceHours:  project.BudgetHours.Sub(totals.TotalHours),
		VarianceAmount: budgetAmount.Sub(actualAmount),
		PercentUsed:    generic.Percent(totals.TotalHours, project.BudgetHours),
		OverBudget:     totals.TotalHours.GreaterThan(project.BudgetHours),
	}
}

// =============================================================================
// TEAM CONTRIBUTION
// =============================================================================

type Contribution struct {
	UserID        workforce.UserID
	Name          string
	Hours         decimal.Decimal
	BillableHours decimal.Decimal
	EntryCount    int
	Percentage    decimal.Decimal
}

// Contributions returns each contributor's share of the project's hours,
// largest first. Percentages sum to 100 when any hours were logged.
func Contributions(entries []workforce.TimeEntry, names map[workforce.UserID]string) []Contribution {
	// phase 1: accumulate
	byUser := workforce.ByUser(entries, generic.Window{})
	grand := decimal.Zero
	for _, totals := range byUser {
		grand = grand.Add(totals.TotalHours)
	}

	// phase 2: project percentages against the grand total
	out := make([]Contribution, 0, len(byUser))
	for user, totals := range byUser {
		name, ok := names[user]
		if !ok {
			name = string(user)
		}
		out = append(out, Contribution{
			UserID:        user,
			Name:          name,
			Hours:         totals.TotalHours,
			BillableHours: totals.BillableHours,
			EntryCount:    totals.EntryCount,
			Percentage:    generic.Percent(totals.TotalHours, grand),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Hours.Equal(out[j].Hours) {
			return out[i].Hours.GreaterThan(out[j].Hours)
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// =============================================================================
// MILESTONES
// =============================================================================

// Milestone is the project's burn on one work date.
type Milestone struct {
	Date            generic.TimePoint
	Hours           decimal.Decimal
	CumulativeHours decimal.Decimal
	BudgetPercent   decimal.Decimal
}

// Milestones returns daily and cumulative hours in p, in date order.
// Cumulative hours start from zero at p.Start.
func Milestones(project workforce.Project, entries []workforce.TimeEntry, p generic.Period) []Milestone {
	own := workforce.Select(entries, workforce.EntryQuery{ProjectID: project.ID})
	days := workforce.ByDay(own, p.Window())

	out := make([]Milestone, 0, len(days))
	cumulative := decimal.Zero
	for _, d := range days {
		cumulative = cumulative.Add(d.TotalHours)
		out = append(out, Milestone{
			Date:            d.Date,
			Hours:           d.TotalHours,
			CumulativeHours: cumulative,
			BudgetPercent:   generic.Percent(cumulative, project.BudgetHours),
		})
	}
	return out
}
