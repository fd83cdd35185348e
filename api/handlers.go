/*
handlers.go - HTTP API handlers for the workforce engine

PURPOSE:
  Exposes the time-accounting and approval engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the domain services.

ENDPOINTS:
  Directory & projects (this file):
    GET    /api/employees                  List employees (?department=)
    POST   /api/employees                  Seed an employee
    GET    /api/employees/{id}             Get employee
    GET    /api/projects                   List projects (?status=)
    POST   /api/projects                   Create project
    GET    /api/projects/{id}              Get project

  Time entries (this file):
    GET    /api/entries                    Query entries (?user_id, project_id, start, end)
    POST   /api/entries                    Log hours

  Metrics: see metrics.go
  Leave and timesheet workflows: see workflows.go
  Reports: see reports.go

ARCHITECTURE:
  Handler struct holds the store plus one instance of every domain service,
  all built over the same store in NewHandler.

REQUEST FLOW:
  1. Parse path/query/body
  2. Call the domain service
  3. Convert the result to a DTO
  4. Serialize response, or map the error to a status

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid range, invalid input
  - 404: Record not found
  - 409: Illegal approval transition
  - 500: Storage failure

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/approval"
	"github.com/warp/workforce-engine/budget"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/overtime"
	"github.com/warp/workforce-engine/payroll"
	"github.com/warp/workforce-engine/report"
	"github.com/warp/workforce-engine/utilization"
	"github.com/warp/workforce-engine/workforce"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Backend is the store the API runs on. SaveEmployee seeds the directory,
// which the engine itself only reads.
type Backend interface {
	workforce.TxStore
	SaveEmployee(ctx context.Context, e workforce.Employee) error
}

// Options configures the services built by NewHandler.
type Options struct {
	Payroll     payroll.Config
	Allocations map[workforce.LeaveType]int
	Workers     int // parallel fan-out for team and all-project views
	Logger      *slog.Logger
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	store  Backend
	logger *slog.Logger
	now    func() time.Time

	overtime    *overtime.Engine
	utilization *utilization.Calculator
	payroll     *payroll.Service
	budget      *budget.Tracker
	leave       *approval.LeaveService
	timesheets  *approval.TimesheetService
	reports     *report.Reporter
}

// NewHandler wires every service over store.
func NewHandler(store Backend, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Payroll.HourlyRate.IsZero() && opts.Payroll.OvertimeMultiplier.IsZero() {
		opts.Payroll = payroll.DefaultConfig()
	}
	if opts.Allocations == nil {
		opts.Allocations = approval.DefaultAllocations()
	}
	return &Handler{
		store:       store,
		logger:      logger,
		now:         time.Now,
		overtime:    overtime.NewEngine(store, store, logger),
		utilization: utilization.NewCalculator(store, opts.Workers),
		payroll:     payroll.NewService(store, opts.Payroll),
		budget:      budget.NewTracker(store, logger, opts.Workers),
		leave:       approval.NewLeaveService(store, opts.Allocations, logger),
		timesheets:  approval.NewTimesheetService(store, logger),
		reports:     report.NewReporter(store),
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns the directory, optionally filtered by department.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	q := workforce.EmployeeQuery{Department: r.URL.Query().Get("department")}
	employees, err := h.store.ListEmployees(r.Context(), q)
	if err != nil {
		h.fail(w, generic.WrapStorage("ListEmployees", err))
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee seeds a directory row. Saving an existing id updates it.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		h.fail(w, &generic.InputError{Field: "name", Message: "required"})
		return
	}
	if req.ID == "" {
		req.ID = workforce.NewID()
	}

	emp := workforce.Employee{
		ID:         workforce.UserID(req.ID),
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
	}
	if err := h.store.SaveEmployee(r.Context(), emp); err != nil {
		h.fail(w, generic.WrapStorage("SaveEmployee", err))
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// GetEmployee returns one directory row.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.store.GetEmployee(r.Context(), userParam(r))
	if err != nil {
		h.fail(w, generic.WrapStorage("GetEmployee", err))
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// =============================================================================
// PROJECT HANDLERS
// =============================================================================

// ListProjects returns projects, optionally filtered by status.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	var q workforce.ProjectQuery
	if s := r.URL.Query().Get("status"); s != "" {
		status, err := workforce.ParseProjectStatus(s)
		if err != nil {
			h.fail(w, err)
			return
		}
		q.Status = status
	}
	q.ManagerID = workforce.UserID(r.URL.Query().Get("manager_id"))

	projects, err := h.store.ListProjects(r.Context(), q)
	if err != nil {
		h.fail(w, generic.WrapStorage("ListProjects", err))
		return
	}
	dtos := make([]ProjectDTO, len(projects))
	for i, p := range projects {
		dtos[i] = toProjectDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateProject creates a project. Status defaults to active.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if !h.decode(w, r, &req) {
		return
	}

	status := workforce.ProjectActive
	if req.Status != "" {
		s, err := workforce.ParseProjectStatus(req.Status)
		if err != nil {
			h.fail(w, err)
			return
		}
		status = s
	}

	p := workforce.Project{
		ID:          workforce.ProjectID(workforce.NewID()),
		Name:        req.Name,
		Client:      req.Client,
		Description: req.Description,
		HourlyRate:  decimal.NewFromFloat(req.HourlyRate),
		BudgetHours: decimal.NewFromFloat(req.BudgetHours),
		Status:      status,
		ManagerID:   workforce.UserID(req.ManagerID),
		CreatedAt:   h.now().UTC(),
	}
	if err := p.Validate(); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.store.InsertProject(r.Context(), p); err != nil {
		h.fail(w, generic.WrapStorage("InsertProject", err))
		return
	}

	h.logger.Info("project created", slog.String("project_id", string(p.ID)), slog.String("name", p.Name))
	writeJSON(w, http.StatusCreated, toProjectDTO(p))
}

// GetProject returns one project.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetProject(r.Context(), projectParam(r))
	if err != nil {
		h.fail(w, generic.WrapStorage("GetProject", err))
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(p))
}

// =============================================================================
// TIME ENTRY HANDLERS
// =============================================================================

// ListEntries queries entries. start/end are optional but must come together.
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := workforce.EntryQuery{
		UserID:    workforce.UserID(query.Get("user_id")),
		ProjectID: workforce.ProjectID(query.Get("project_id")),
	}
	if query.Get("start") != "" || query.Get("end") != "" {
		p, err := parsePeriod(r)
		if err != nil {
			h.fail(w, err)
			return
		}
		q.Window = p.Window()
	}

	entries, err := h.store.QueryEntries(r.Context(), q)
	if err != nil {
		h.fail(w, generic.WrapStorage("QueryEntries", err))
		return
	}
	dtos := make([]TimeEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEntry logs a regular time entry.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if !h.decode(w, r, &req) {
		return
	}

	start, err := parseInstant("start_time", req.StartTime)
	if err != nil {
		h.fail(w, err)
		return
	}
	end, err := parseInstant("end_time", req.EndTime)
	if err != nil {
		h.fail(w, err)
		return
	}
	billable := true
	if req.Billable != nil {
		billable = *req.Billable
	}

	e := workforce.TimeEntry{
		ID:          workforce.NewID(),
		UserID:      workforce.UserID(req.UserID),
		ProjectID:   workforce.ProjectID(req.ProjectID),
		StartTime:   start,
		EndTime:     end,
		HoursWorked: decimal.NewFromFloat(req.HoursWorked),
		Billable:    billable,
		Description: req.Description,
		Type:        workforce.EntryRegular,
		CreatedAt:   h.now().UTC(),
	}
	if err := e.Validate(); err != nil {
		h.fail(w, err)
		return
	}
	if err := h.store.InsertEntry(r.Context(), e); err != nil {
		h.fail(w, generic.WrapStorage("InsertEntry", err))
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(e))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	resp := ErrorResponse{Error: http.StatusText(status), Code: code}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// fail maps the error taxonomy onto an HTTP status.
func (h *Handler) fail(w http.ResponseWriter, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", slog.Any("error", err))
	}
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, generic.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, generic.ErrIllegalTransition):
		return http.StatusConflict, "illegal_transition"
	case errors.Is(err, generic.ErrInvalidRange):
		return http.StatusBadRequest, "invalid_range"
	case errors.Is(err, generic.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, generic.ErrStorageFailure):
		return http.StatusInternalServerError, "storage_failure"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// decode reads a JSON body into v, writing a 400 on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.fail(w, &generic.InputError{Field: "body", Message: err.Error()})
		return false
	}
	return true
}

func userParam(r *http.Request) workforce.UserID {
	return workforce.UserID(chi.URLParam(r, "id"))
}

func projectParam(r *http.Request) workforce.ProjectID {
	return workforce.ProjectID(chi.URLParam(r, "id"))
}

// parsePeriod reads the closed range ?start=YYYY-MM-DD&end=YYYY-MM-DD.
func parsePeriod(r *http.Request) (generic.Period, error) {
	start, err := dateParam(r, "start")
	if err != nil {
		return generic.Period{}, err
	}
	end, err := dateParam(r, "end")
	if err != nil {
		return generic.Period{}, err
	}
	return generic.NewPeriod(start, end)
}

func dateParam(r *http.Request, name string) (generic.TimePoint, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return generic.TimePoint{}, &generic.InputError{Field: name, Message: "required (YYYY-MM-DD)"}
	}
	return generic.ParseDate(s)
}

func parseDateField(field, s string) (generic.TimePoint, error) {
	if s == "" {
		return generic.TimePoint{}, &generic.InputError{Field: field, Message: "required (YYYY-MM-DD)"}
	}
	return generic.ParseDate(s)
}

// statusParam reads an optional ?status= approval filter.
func statusParam(r *http.Request) (generic.ApprovalStatus, error) {
	s := r.URL.Query().Get("status")
	if s == "" {
		return "", nil
	}
	return generic.ParseApprovalStatus(s)
}

func intParam(r *http.Request, name string, def int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &generic.InputError{Field: name, Message: "not an integer: " + s}
	}
	return n, nil
}

// decimalParam reads an optional decimal query parameter.
func decimalParam(r *http.Request, name string, def decimal.Decimal) (decimal.Decimal, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return def, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &generic.InputError{Field: name, Message: "not a number: " + s}
	}
	return d, nil
}

func parseInstant(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, &generic.InputError{Field: field, Message: "expected RFC3339 timestamp"}
	}
	t = t.UTC()
	return &t, nil
}
