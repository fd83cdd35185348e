package report

import (
	"context"
	"time"

	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

// Reporter loads the records a report needs and builds it.
type Reporter struct {
	store workforce.Store
}

func NewReporter(store workforce.Store) *Reporter {
	return &Reporter{store: store}
}

func (r *Reporter) WeeklyReport(ctx context.Context, user workforce.UserID, weekStart generic.TimePoint) (UserReport, error) {
	entries, err := r.store.QueryEntries(ctx, workforce.EntryQuery{UserID: user, Window: generic.WeekWindow(weekStart)})
	if err != nil {
		return UserReport{}, generic.WrapStorage("QueryEntries", err)
	}
	names, err := r.projectNames(ctx)
	if err != nil {
		return UserReport{}, err
	}
	return Weekly(user, entries, names, weekStart), nil
}

func (r *Reporter) MonthlyReport(ctx context.Context, user workforce.UserID, year int, month time.Month) (UserReport, error) {
	if month < time.January || month > time.December {
		return UserReport{}, &generic.InputError{Field: "month", Message: "must be 1-12"}
	}
	p := generic.MonthPeriod(year, month)
	entries, err := r.store.QueryEntries(ctx, workforce.EntryQuery{UserID: user, Window: p.Window()})
	if err != nil {
		return UserReport{}, generic.WrapStorage("QueryEntries", err)
	}
	names, err := r.projectNames(ctx)
	if err != nil {
		return UserReport{}, err
	}
	return Monthly(user, entries, names, year, month), nil
}

func (r *Reporter) TeamSummary(ctx context.Context, p generic.Period) (TeamSummary, error) {
	employees, entries, err := r.load(ctx, "", p)
	if err != nil {
		return TeamSummary{}, err
	}
	return Team(employees, entries, p), nil
}

func (r *Reporter) MembersSummary(ctx context.Context, p generic.Period) ([]MemberSummary, error) {
	employees, entries, err := r.load(ctx, "", p)
	if err != nil {
		return nil, err
	}
	return Members(employees, entries, p), nil
}

func (r *Reporter) ProjectsSummary(ctx context.Context, p generic.Period) ([]ProjectSummary, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	projects, err := r.store.ListProjects(ctx, workforce.ProjectQuery{})
	if err != nil {
		return nil, generic.WrapStorage("ListProjects", err)
	}
	entries, err := r.store.QueryEntries(ctx, workforce.EntryQuery{Window: p.Window()})
	if err != nil {
		return nil, generic.WrapStorage("QueryEntries", err)
	}
	return Projects(projects, entries, p), nil
}

func (r *Reporter) TopPerformers(ctx context.Context, p generic.Period, limit int) ([]Performer, error) {
	employees, entries, err := r.load(ctx, "", p)
	if err != nil {
		return nil, err
	}
	return TopPerformers(employees, entries, p, limit), nil
}

func (r *Reporter) Productivity(ctx context.Context, p generic.Period) (Productivity, error) {
	if err := p.Validate(); err != nil {
		return Productivity{}, err
	}
	entries, err := r.store.QueryEntries(ctx, workforce.EntryQuery{Window: p.Window()})
	if err != nil {
		return Productivity{}, generic.WrapStorage("QueryEntries", err)
	}
	return TeamProductivity(entries, p), nil
}

func (r *Reporter) DepartmentSummary(ctx context.Context, department string, p generic.Period) (DepartmentSummary, error) {
	if department == "" {
		return DepartmentSummary{}, &generic.InputError{Field: "department", Message: "required"}
	}
	employees, entries, err := r.load(ctx, department, p)
	if err != nil {
		return DepartmentSummary{}, err
	}
	return Department(department, employees, entries, p), nil
}

func (r *Reporter) load(ctx context.Context, department string, p generic.Period) ([]workforce.Employee, []workforce.TimeEntry, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, err
	}
	employees, err := r.store.ListEmployees(ctx, workforce.EmployeeQuery{Department: department})
	if err != nil {
		return nil, nil, generic.WrapStorage("ListEmployees", err)
	}
	entries, err := r.store.QueryEntries(ctx, workforce.EntryQuery{Window: p.Window()})
	if err != nil {
		return nil, nil, generic.WrapStorage("QueryEntries", err)
	}
	return employees, entries, nil
}

func (r *Reporter) projectNames(ctx context.Context) (map[workforce.ProjectID]string, error) {
	projects, err := r.store.ListProjects(ctx, workforce.ProjectQuery{})
	if err != nil {
		return nil, generic.WrapStorage("ListProjects", err)
	}
	names := make(map[workforce.ProjectID]string, len(projects))
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names, nil
}
