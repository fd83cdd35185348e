package utilization

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

// DefaultWorkers bounds the per-employee fan-out of team queries.
const DefaultWorkers = 8

// Calculator loads records from the store and applies the utilization rules.
type Calculator struct {
	store   workforce.Store
	workers int
}

func NewCalculator(store workforce.Store, workers int) *Calculator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Calculator{store: store, workers: workers}
}

// UserUtilization computes one user's utilization over p.
func (c *Calculator) UserUtilization(ctx context.Context, user workforce.UserID, p generic.Period) (Result, error) {
	if _, err := p.SpanDays(); err != nil {
		return Result{}, err
	}
	entries, err := c.store.QueryEntries(ctx, workforce.EntryQuery{UserID: user, Window: p.Window()})
	if err != nil {
		return Result{}, generic.WrapStorage("QueryEntries", err)
	}
	leaves, err := c.store.QueryLeave(ctx, workforce.LeaveQuery{UserID: user, Status: generic.StatusApproved})
	if err != nil {
		return Result{}, generic.WrapStorage("QueryLeave", err)
	}
	return Compute(user, entries, leaves, p)
}

// MonthlyTrend computes a user's month-by-month utilization for a year.
func (c *Calculator) MonthlyTrend(ctx context.Context, user workforce.UserID, year int) ([]MonthlyPoint, error) {
	window := generic.Period{Start: generic.StartOfYear(year), End: generic.EndOfYear(year)}.Window()
	entries, err := c.store.QueryEntries(ctx, workforce.EntryQuery{UserID: user, Window: window})
	if err != nil {
		return nil, generic.WrapStorage("QueryEntries", err)
	}
	return Trend(entries, year), nil
}

// =============================================================================
// TEAM
// =============================================================================

type TeamResult struct {
	Department string
	Period     generic.Period
	Members    []Result

	AvailableHours          decimal.Decimal
	TotalHours              decimal.Decimal
	BillableHours           decimal.Decimal
	UtilizationRate         decimal.Decimal
	BillableUtilizationRate decimal.Decimal
}

// TeamUtilization computes utilization for every employee of a department
// (all employees when department is empty). Members are computed in parallel
// and returned by descending utilization rate.
func (c *Calculator) TeamUtilization(ctx context.Context, department string, p generic.Period) (TeamResult, error) {
	if _, err := p.SpanDays(); err != nil {
		return TeamResult{}, err
	}
	employees, err := c.store.ListEmployees(ctx, workforce.EmployeeQuery{Department: department})
	if err != nil {
		return TeamResult{}, generic.WrapStorage("ListEmployees", err)
	}

	members := make([]Result, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, emp := range employees {
		g.Go(func() error {
			res, err := c.UserUtilization(gctx, emp.ID, p)
			if err != nil {
				return err
			}
			members[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return TeamResult{}, err
	}

	sort.SliceStable(members, func(i, j int) bool {
		return members[i].UtilizationRate.GreaterThan(members[j].UtilizationRate)
	})

	team := TeamResult{Department: department, Period: p, Members: members}
	for _, m := range members {
		team.AvailableHours = team.AvailableHours.Add(m.AvailableHours)
		team.TotalHours = team.TotalHours.Add(m.TotalHours)
		team.BillableHours = team.BillableHours.Add(m.BillableHours)
	}
	team.UtilizationRate = generic.Percent(team.TotalHours, team.AvailableHours)
	team.BillableUtilizationRate = generic.Percent(team.BillableHours, team.AvailableHours)
	return team, nil
}

// =============================================================================
// PROJECT
// =============================================================================

type ProjectResult struct {
	Project            workforce.Project
	Period             generic.Period
	ActualHours        decimal.Decimal
	BillableHours      decimal.Decimal
	UtilizationPercent decimal.Decimal
	TeamSize           int
}

// ProjectUtilization compares the hours logged on a project within p to its
// budget.
func (c *Calculator) ProjectUtilization(ctx context.Context, id workforce.ProjectID, p generic.Period) (ProjectResult, error) {
	if err := p.Validate(); err != nil {
		return ProjectResult{}, err
	}
	project, err := c.store.GetProject(ctx, id)
	if err != nil {
		return ProjectResult{}, generic.WrapStorage("GetProject", err)
	}
	window := p.Window()
	entries, err := c.store.QueryEntries(ctx, workforce.EntryQuery{ProjectID: id, Window: window})
	if err != nil {
		return ProjectResult{}, generic.WrapStorage("QueryEntries", err)
	}

	totals := workforce.Aggregate(entries, window)
	return ProjectResult{
		Project:            project,
		Period:             p,
		ActualHours:        totals.TotalHours,
		BillableHours:      totals.BillableHours,
		UtilizationPercent: generic.Percent(totals.TotalHours, project.BudgetHours),
		TeamSize:           len(workforce.ByUser(entries, window)),
	}, nil
}
