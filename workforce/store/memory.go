// Package store provides an in-memory workforce.TxStore.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps every record in maps guarded by one RWMutex. Reviews are a
// compare-and-swap under the write lock, which is held only for the swap.
//
// The lock is store-wide, not per record. Writes to unrelated records
// serialize behind each other, and WithTx holds the write lock for the whole
// callback, so every other call waits until the transaction returns. Use the
// sqlite store where writers contend.
type Memory struct {
	mu sync.RWMutex
	state
	failures map[string]error
}

var _ workforce.TxStore = (*Memory)(nil)

type state struct {
	entries    []workforce.TimeEntry
	leaves     map[string]workforce.LeaveRequest
	timesheets map[string]workforce.TimesheetApproval
	projects   map[workforce.ProjectID]workforce.Project
	employees  map[workforce.UserID]workforce.Employee
}

func NewMemory() *Memory {
	return &Memory{
		state: state{
			leaves:     make(map[string]workforce.LeaveRequest),
			timesheets: make(map[string]workforce.TimesheetApproval),
			projects:   make(map[workforce.ProjectID]workforce.Project),
			employees:  make(map[workforce.UserID]workforce.Employee),
		},
		failures: make(map[string]error),
	}
}

// FailOn makes every later call of the named operation (e.g. "InsertTimesheet")
// return err. Used to exercise storage failure paths.
func (m *Memory) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = err
}

func (m *Memory) fail(op string) error {
	return m.failures[op]
}

// SaveEmployee seeds the directory. The engine itself never writes employees.
func (m *Memory) SaveEmployee(_ context.Context, e workforce.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
	return nil
}

// =============================================================================
// LOCKED ENTRY POINTS
// =============================================================================

func (m *Memory) QueryEntries(_ context.Context, q workforce.EntryQuery) ([]workforce.TimeEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.fail("QueryEntries"); err != nil {
		return nil, err
	}
	return m.queryEntries(q), nil
}

func (m *Memory) InsertEntry(_ context.Context, e workforce.TimeEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InsertEntry"); err != nil {
		return err
	}
	m.insertEntry(e)
	return nil
}

func (m *Memory) GetLeave(_ context.Context, id string) (workforce.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getLeave(id)
}

func (m *Memory) QueryLeave(_ context.Context, q workforce.LeaveQuery) ([]workforce.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.fail("QueryLeave"); err != nil {
		return nil, err
	}
	return m.queryLeave(q), nil
}

func (m *Memory) InsertLeave(_ context.Context, l workforce.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InsertLeave"); err != nil {
		return err
	}
	m.leaves[l.ID] = l
	return nil
}

func (m *Memory) ReviewLeave(_ context.Context, id string, d generic.Decision, r generic.Review) (workforce.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reviewLeave(id, d, r)
}

func (m *Memory) GetTimesheet(_ context.Context, id string) (workforce.TimesheetApproval, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getTimesheet(id)
}

func (m *Memory) QueryTimesheets(_ context.Context, q workforce.TimesheetQuery) ([]workforce.TimesheetApproval, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.queryTimesheets(q), nil
}

func (m *Memory) InsertTimesheet(_ context.Context, t workforce.TimesheetApproval) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("InsertTimesheet"); err != nil {
		return err
	}
	return m.insertTimesheet(t)
}

func (m *Memory) ReviewTimesheet(_ context.Context, id string, d generic.Decision, r generic.Review) (workforce.TimesheetApproval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reviewTimesheet(id, d, r)
}

func (m *Memory) GetProject(_ context.Context, id workforce.ProjectID) (workforce.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getProject(id)
}

func (m *Memory) ListProjects(_ context.Context, q workforce.ProjectQuery) ([]workforce.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listProjects(q), nil
}

func (m *Memory) InsertProject(_ context.Context, p workforce.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[p.ID] = p
	return nil
}

func (m *Memory) UpdateProjectBudget(_ context.Context, id workforce.ProjectID, budgetHours decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateProjectBudget(id, budgetHours)
}

func (m *Memory) GetEmployee(_ context.Context, id workforce.UserID) (workforce.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return workforce.Employee{}, &generic.NotFoundError{Kind: "employee", ID: string(id)}
	}
	return e, nil
}

func (m *Memory) ListEmployees(_ context.Context, q workforce.EmployeeQuery) ([]workforce.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.fail("ListEmployees"); err != nil {
		return nil, err
	}
	return m.listEmployees(q), nil
}

// =============================================================================
// UNLOCKED STATE OPERATIONS
// =============================================================================

func (s *state) queryEntries(q workforce.EntryQuery) []workforce.TimeEntry {
	out := workforce.Select(s.entries, q)
	sort.SliceStable(out, func(i, j int) bool { return out[i].WorkedAt().Before(out[j].WorkedAt()) })
	return out
}

func (s *state) insertEntry(e workforce.TimeEntry) {
	s.entries = append(s.entries, e)
}

func (s *state) getLeave(id string) (workforce.LeaveRequest, error) {
	l, ok := s.leaves[id]
	if !ok {
		return workforce.LeaveRequest{}, &generic.NotFoundError{Kind: "leave request", ID: id}
	}
	return l, nil
}

func (s *state) queryLeave(q workforce.LeaveQuery) []workforce.LeaveRequest {
	var out []workforce.LeaveRequest
	for _, l := range s.leaves {
		if q.UserID != "" && l.UserID != q.UserID {
			continue
		}
		if q.Status != "" && l.Status != q.Status {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	return out
}

func (s *state) reviewLeave(id string, d generic.Decision, r generic.Review) (workforce.LeaveRequest, error) {
	l, err := s.getLeave(id)
	if err != nil {
		return workforce.LeaveRequest{}, err
	}
	if err := l.ApprovalState.Apply(id, d, r); err != nil {
		return workforce.LeaveRequest{}, err
	}
	s.leaves[id] = l
	return l, nil
}

func (s *state) getTimesheet(id string) (workforce.TimesheetApproval, error) {
	t, ok := s.timesheets[id]
	if !ok {
		return workforce.TimesheetApproval{}, &generic.NotFoundError{Kind: "timesheet", ID: id}
	}
	return t, nil
}

func (s *state) queryTimesheets(q workforce.TimesheetQuery) []workforce.TimesheetApproval {
	var out []workforce.TimesheetApproval
	for _, t := range s.timesheets {
		if q.UserID != "" && t.UserID != q.UserID {
			continue
		}
		if q.Status != "" && t.Status != q.Status {
			continue
		}
		if !q.WeekStart.IsZero() && !t.WeekStart.Equal(q.WeekStart) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WeekStart.After(out[j].WeekStart) })
	return out
}

// insertTimesheet keeps at most one non-rejected timesheet per user and week.
func (s *state) insertTimesheet(t workforce.TimesheetApproval) error {
	for _, existing := range s.timesheets {
		if existing.UserID == t.UserID && existing.WeekStart.Equal(t.WeekStart) && existing.Status != generic.StatusRejected {
			return &generic.IllegalTransitionError{
				RecordID: existing.ID,
				From:     existing.Status,
				To:       generic.StatusPending,
				Reason:   "week " + t.WeekStart.String() + " already submitted",
			}
		}
	}
	s.timesheets[t.ID] = t
	return nil
}

func (s *state) reviewTimesheet(id string, d generic.Decision, r generic.Review) (workforce.TimesheetApproval, error) {
	t, err := s.getTimesheet(id)
	if err != nil {
		return workforce.TimesheetApproval{}, err
	}
	if err := t.ApprovalState.Apply(id, d, r); err != nil {
		return workforce.TimesheetApproval{}, err
	}
	s.timesheets[id] = t
	return t, nil
}

func (s *state) getProject(id workforce.ProjectID) (workforce.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return workforce.Project{}, &generic.NotFoundError{Kind: "project", ID: string(id)}
	}
	return p, nil
}

func (s *state) listProjects(q workforce.ProjectQuery) []workforce.Project {
	var out []workforce.Project
	for _, p := range s.projects {
		if q.Status != "" && p.Status != q.Status {
			continue
		}
		if q.ManagerID != "" && p.ManagerID != q.ManagerID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *state) updateProjectBudget(id workforce.ProjectID, budgetHours decimal.Decimal) error {
	p, err := s.getProject(id)
	if err != nil {
		return err
	}
	p.BudgetHours = budgetHours
	s.projects[id] = p
	return nil
}

func (s *state) listEmployees(q workforce.EmployeeQuery) []workforce.Employee {
	var out []workforce.Employee
	for _, e := range s.employees {
		if q.Department != "" && e.Department != q.Department {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn within a transaction.
// For memory store, this is simulated with a snapshot + rollback on error.
func (m *Memory) WithTx(ctx context.Context, fn func(workforce.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	view := &txView{m: m}

	if err := fn(view); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

func (s *state) clone() state {
	c := state{
		entries:    append([]workforce.TimeEntry(nil), s.entries...),
		leaves:     make(map[string]workforce.LeaveRequest, len(s.leaves)),
		timesheets: make(map[string]workforce.TimesheetApproval, len(s.timesheets)),
		projects:   make(map[workforce.ProjectID]workforce.Project, len(s.projects)),
		employees:  make(map[workforce.UserID]workforce.Employee, len(s.employees)),
	}
	for k, v := range s.leaves {
		c.leaves[k] = v
	}
	for k, v := range s.timesheets {
		c.timesheets[k] = v
	}
	for k, v := range s.projects {
		c.projects[k] = v
	}
	for k, v := range s.employees {
		c.employees[k] = v
	}
	return c
}

// txView runs against the parent's state while WithTx holds the write lock.
type txView struct {
	m *Memory
}

func (v *txView) QueryEntries(_ context.Context, q workforce.EntryQuery) ([]workforce.TimeEntry, error) {
	if err := v.m.fail("QueryEntries"); err != nil {
		return nil, err
	}
	return v.m.queryEntries(q), nil
}

func (v *txView) InsertEntry(_ context.Context, e workforce.TimeEntry) error {
	if err := v.m.fail("InsertEntry"); err != nil {
		return err
	}
	v.m.insertEntry(e)
	return nil
}

func (v *txView) GetLeave(_ context.Context, id string) (workforce.LeaveRequest, error) {
	return v.m.getLeave(id)
}

func (v *txView) QueryLeave(_ context.Context, q workforce.LeaveQuery) ([]workforce.LeaveRequest, error) {
	return v.m.queryLeave(q), nil
}

func (v *txView) InsertLeave(_ context.Context, l workforce.LeaveRequest) error {
	if err := v.m.fail("InsertLeave"); err != nil {
		return err
	}
	v.m.leaves[l.ID] = l
	return nil
}

func (v *txView) ReviewLeave(_ context.Context, id string, d generic.Decision, r generic.Review) (workforce.LeaveRequest, error) {
	return v.m.reviewLeave(id, d, r)
}

func (v *txView) GetTimesheet(_ context.Context, id string) (workforce.TimesheetApproval, error) {
	return v.m.getTimesheet(id)
}

func (v *txView) QueryTimesheets(_ context.Context, q workforce.TimesheetQuery) ([]workforce.TimesheetApproval, error) {
	return v.m.queryTimesheets(q), nil
}

func (v *txView) InsertTimesheet(_ context.Context, t workforce.TimesheetApproval) error {
	if err := v.m.fail("InsertTimesheet"); err != nil {
		return err
	}
	return v.m.insertTimesheet(t)
}

func (v *txView) ReviewTimesheet(_ context.Context, id string, d generic.Decision, r generic.Review) (workforce.TimesheetApproval, error) {
	return v.m.reviewTimesheet(id, d, r)
}

func (v *txView) GetProject(_ context.Context, id workforce.ProjectID) (workforce.Project, error) {
	return v.m.getProject(id)
}

func (v *txView) ListProjects(_ context.Context, q workforce.ProjectQuery) ([]workforce.Project, error) {
	return v.m.listProjects(q), nil
}

func (v *txView) InsertProject(_ context.Context, p workforce.Project) error {
	v.m.projects[p.ID] = p
	return nil
}

func (v *txView) UpdateProjectBudget(_ context.Context, id workforce.ProjectID, budgetHours decimal.Decimal) error {
	return v.m.updateProjectBudget(id, budgetHours)
}

func (v *txView) GetEmployee(_ context.Context, id workforce.UserID) (workforce.Employee, error) {
	e, ok := v.m.employees[id]
	if !ok {
		return workforce.Employee{}, &generic.NotFoundError{Kind: "employee", ID: string(id)}
	}
	return e, nil
}

func (v *txView) ListEmployees(_ context.Context, q workforce.EmployeeQuery) ([]workforce.Employee, error) {
	return v.m.listEmployees(q), nil
}
