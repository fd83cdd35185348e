package payroll

import (
	"context"
	"sort"

	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

// Service loads records and runs payroll computations.
type Service struct {
	store workforce.Store
	cfg   Config
}

func NewService(store workforce.Store, cfg Config) *Service {
	return &Service{store: store, cfg: cfg}
}

func (s *Service) Config() Config { return s.cfg }

// EmployeePayroll prices one employee's period.
func (s *Service) EmployeePayroll(ctx context.Context, user workforce.UserID, p generic.Period) (EmployeePay, error) {
	if _, err := p.SpanDays(); err != nil {
		return EmployeePay{}, err
	}
	emp, err := s.store.GetEmployee(ctx, user)
	if err != nil {
		return EmployeePay{}, generic.WrapStorage("GetEmployee", err)
	}
	entries, err := s.store.QueryEntries(ctx, workforce.EntryQuery{UserID: user, Window: p.Window()})
	if err != nil {
		return EmployeePay{}, generic.WrapStorage("QueryEntries", err)
	}
	return ComputeEmployee(emp, entries, p, s.cfg)
}

// Summary prices every employee in the directory, including those with no
// hours, ordered by name.
func (s *Service) Summary(ctx context.Context, p generic.Period) ([]EmployeePay, error) {
	if _, err := p.SpanDays(); err != nil {
		return nil, err
	}
	employees, err := s.store.ListEmployees(ctx, workforce.EmployeeQuery{})
	if err != nil {
		return nil, generic.WrapStorage("ListEmployees", err)
	}
	entries, err := s.store.QueryEntries(ctx, workforce.EntryQuery{Window: p.Window()})
	if err != nil {
		return nil, generic.WrapStorage("QueryEntries", err)
	}

	rows := make([]EmployeePay, 0, len(employees))
	for _, emp := range employees {
		row, err := ComputeEmployee(emp, entries, p, s.cfg)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Employee.Name < rows[j].Employee.Name })
	return rows, nil
}

// Totals prices the whole company against a headcount-scaled baseline.
func (s *Service) Totals(ctx context.Context, p generic.Period) (Totals, error) {
	if _, err := p.SpanDays(); err != nil {
		return Totals{}, err
	}
	employees, err := s.store.ListEmployees(ctx, workforce.EmployeeQuery{})
	if err != nil {
		return Totals{}, generic.WrapStorage("ListEmployees", err)
	}
	entries, err := s.store.QueryEntries(ctx, workforce.EntryQuery{Window: p.Window()})
	if err != nil {
		return Totals{}, generic.WrapStorage("QueryEntries", err)
	}
	return ComputeTotals(entries, len(employees), p, s.cfg)
}

// ProjectBilling prices a project's entries at the project's own rate.
func (s *Service) ProjectBilling(ctx context.Context, id workforce.ProjectID, p generic.Period) (BillingStatement, error) {
	if err := p.Validate(); err != nil {
		return BillingStatement{}, err
	}
	project, err := s.store.GetProject(ctx, id)
	if err != nil {
		return BillingStatement{}, generic.WrapStorage("GetProject", err)
	}
	entries, err := s.store.QueryEntries(ctx, workforce.EntryQuery{ProjectID: id, Window: p.Window()})
	if err != nil {
		return BillingStatement{}, generic.WrapStorage("QueryEntries", err)
	}
	employees, err := s.store.ListEmployees(ctx, workforce.EmployeeQuery{})
	if err != nil {
		return BillingStatement{}, generic.WrapStorage("ListEmployees", err)
	}

	names := make(map[workforce.UserID]string, len(employees))
	for _, e := range employees {
		names[e.ID] = e.Name
	}
	return Bill(project, entries, names, p), nil
}
