package budget

import (
	"context"
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

// Tracker loads projects and entries and applies the budget rules.
type Tracker struct {
	store   workforce.Store
	logger  *slog.Logger
	workers int
}

func NewTracker(store workforce.Store, logger *slog.Logger, workers int) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	return &Tracker{store: store, logger: logger, workers: workers}
}

func (t *Tracker) ProjectVariance(ctx context.Context, id workforce.ProjectID) (Variance, error) {
	project, entries, err := t.load(ctx, id)
	if err != nil {
		return Variance{}, err
	}
	return ComputeVariance(project, entries), nil
}

// AllProjects reports variance for every project with the given status
// (all projects when status is empty), most consumed budget first.
func (t *Tracker) AllProjects(ctx context.Context, status workforce.ProjectStatus) ([]Variance, error) {
	projects, err := t.store.ListProjects(ctx, workforce.ProjectQuery{Status: status})
	if err != nil {
		return nil, generic.WrapStorage("ListProjects", err)
	}

	out := make([]Variance, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.workers)
	for i, p := range projects {
		g.Go(func() error {
			entries, err := t.store.QueryEntries(gctx, workforce.EntryQuery{ProjectID: p.ID})
			if err != nil {
				return generic.WrapStorage("QueryEntries", err)
			}
			out[i] = ComputeVariance(p, entries)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].PercentUsed.GreaterThan(out[j].PercentUsed) })
	return out, nil
}

func (t *Tracker) TeamContribution(ctx context.Context, id workforce.ProjectID) ([]Contribution, error) {
	_, entries, err := t.load(ctx, id)
	if err != nil {
		return nil, err
	}
	employees, err := t.store.ListEmployees(ctx, workforce.EmployeeQuery{})
	if err != nil {
		return nil, generic.WrapStorage("ListEmployees", err)
	}
	names := make(map[workforce.UserID]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}
	return Contributions(entries, names), nil
}

// Milestones reports the project's daily burn within p.
func (t *Tracker) Milestones(ctx context.Context, id workforce.ProjectID, p generic.Period) ([]Milestone, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	project, err := t.store.GetProject(ctx, id)
	if err != nil {
		return nil, generic.WrapStorage("GetProject", err)
	}
	entries, err := t.store.QueryEntries(ctx, workforce.EntryQuery{ProjectID: id, Window: p.Window()})
	if err != nil {
		return nil, generic.WrapStorage("QueryEntries", err)
	}
	return Milestones(project, entries, p), nil
}

// UpdateBudget sets a project's budget hours. It is the only project
// mutation the engine issues.
func (t *Tracker) UpdateBudget(ctx context.Context, id workforce.ProjectID, hours decimal.Decimal) (workforce.Project, error) {
	if hours.IsNegative() {
		return workforce.Project{}, &generic.InputError{Field: "budget_hours", Message: "must be >= 0"}
	}
	if err := t.store.UpdateProjectBudget(ctx, id, hours); err != nil {
		return workforce.Project{}, generic.WrapStorage("UpdateProjectBudget", err)
	}
	project, err := t.store.GetProject(ctx, id)
	if err != nil {
		return workforce.Project{}, generic.WrapStorage("GetProject", err)
	}
	t.logger.Info("project budget updated",
		slog.String("project_id", string(id)),
		slog.String("budget_hours", hours.String()))
	return project, nil
}

func (t *Tracker) load(ctx context.Context, id workforce.ProjectID) (workforce.Project, []workforce.TimeEntry, error) {
	project, err := t.store.GetProject(ctx, id)
	if err != nil {
		return workforce.Project{}, nil, generic.WrapStorage("GetProject", err)
	}
	entries, err := t.store.QueryEntries(ctx, workforce.EntryQuery{ProjectID: id})
	if err != nil {
		return workforce.Project{}, nil, generic.WrapStorage("QueryEntries", err)
	}
	return project, entries, nil
}
