package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

// =============================================================================
// PROJECTS (workforce.ProjectStore)
// =============================================================================

var projectColumns = []string{
	"id", "name", "client", "description", "hourly_rate", "budget_hours",
	"status", "manager_id", "created_at",
}

func (qs *queries) InsertProject(ctx context.Context, p workforce.Project) error {
	insert := sq.Insert("projects").
		Columns(projectColumns...).
		Values(
			p.ID, p.Name, p.Client, p.Description, p.HourlyRate, p.BudgetHours,
			p.Status, p.ManagerID, formatTimestamp(p.CreatedAt),
		)
	if _, err := qs.exec(ctx, insert); err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

func (qs *queries) GetProject(ctx context.Context, id workforce.ProjectID) (workforce.Project, error) {
	out, err := qs.selectProjects(ctx, sq.Eq{"id": id})
	if err != nil {
		return workforce.Project{}, err
	}
	if len(out) == 0 {
		return workforce.Project{}, &generic.NotFoundError{Kind: "project", ID: string(id)}
	}
	return out[0], nil
}

func (qs *queries) ListProjects(ctx context.Context, q workforce.ProjectQuery) ([]workforce.Project, error) {
	where := sq.Eq{}
	if q.Status != "" {
		where["status"] = q.Status
	}
	if q.ManagerID != "" {
		where["manager_id"] = q.ManagerID
	}
	return qs.selectProjects(ctx, where)
}

func (qs *queries) UpdateProjectBudget(ctx context.Context, id workforce.ProjectID, budgetHours decimal.Decimal) error {
	update := sq.Update("projects").
		Set("budget_hours", budgetHours).
		Where(sq.Eq{"id": id})

	res, err := qs.exec(ctx, update)
	if err != nil {
		return fmt.Errorf("failed to update project budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &generic.NotFoundError{Kind: "project", ID: string(id)}
	}
	return nil
}

func (qs *queries) selectProjects(ctx context.Context, where sq.Eq) ([]workforce.Project, error) {
	sel := sq.Select(projectColumns...).From("projects").Where(where).OrderBy("name ASC")

	rows, err := qs.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var out []workforce.Project
	for rows.Next() {
		var (
			p         workforce.Project
			createdAt string
		)
		err := rows.Scan(
			&p.ID, &p.Name, &p.Client, &p.Description, &p.HourlyRate, &p.BudgetHours,
			&p.Status, &p.ManagerID, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// =============================================================================
// EMPLOYEE DIRECTORY (workforce.Directory)
// =============================================================================

// SaveEmployee upserts a directory row. Used for seeding; the engine itself
// only reads employees.
func (s *Store) SaveEmployee(ctx context.Context, e workforce.Employee) error {
	insert := sq.Insert("employees").
		Columns("id", "name", "email", "department").
		Values(e.ID, e.Name, e.Email, e.Department).
		Suffix("ON CONFLICT(id) DO UPDATE SET name = excluded.name, email = excluded.email, department = excluded.department")
	if _, err := s.exec(ctx, insert); err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

func (qs *queries) GetEmployee(ctx context.Context, id workforce.UserID) (workforce.Employee, error) {
	out, err := qs.selectEmployees(ctx, sq.Eq{"id": id})
	if err != nil {
		return workforce.Employee{}, err
	}
	if len(out) == 0 {
		return workforce.Employee{}, &generic.NotFoundError{Kind: "employee", ID: string(id)}
	}
	return out[0], nil
}

func (qs *queries) ListEmployees(ctx context.Context, q workforce.EmployeeQuery) ([]workforce.Employee, error) {
	where := sq.Eq{}
	if q.Department != "" {
		where["department"] = q.Department
	}
	return qs.selectEmployees(ctx, where)
}

func (qs *queries) selectEmployees(ctx context.Context, where sq.Eq) ([]workforce.Employee, error) {
	sel := sq.Select("id", "name", "email", "department").From("employees").Where(where).OrderBy("id ASC")

	rows, err := qs.query(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var out []workforce.Employee
	for rows.Next() {
		var e workforce.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Department); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
