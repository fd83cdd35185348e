/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built datasets that populate the store with realistic
	workforce data. Each scenario creates employees, projects and time
	entries, plus leave and timesheet records where the feature needs them.

AVAILABLE SCENARIOS:

	overtime-week:  One engineer logging 48 hours in the week of 2025-01-06
	team-month:     Two departments, two projects, January 2025 with an
	                approved vacation and a pending timesheet

HOW SCENARIOS WORK:
 1. Check the scenario's anchor project; if present the scenario is loaded
 2. Seed employees (upsert)
 3. Create projects
 4. Log entries
 5. Drive leave/timesheet records through the real workflows

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "team-month"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' with ID, name, description and loader

SEE ALSO:
  - cmd/workforcectl: "seed" command uses LoadScenario
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/approval"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects a scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

type scenario struct {
	ScenarioDTO
	anchor workforce.ProjectID
	load   func(ctx context.Context, s *seeder) error
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "overtime-week",
			Name:        "Overtime Week",
			Description: "One engineer logs 48 hours in the week of 2025-01-06",
		},
		anchor: "prj-atlas",
		load:   loadOvertimeWeek,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "team-month",
			Name:        "Team Month",
			Description: "Two departments, two projects, January 2025 with leave and a pending timesheet",
		},
		anchor: "prj-apollo",
		load:   loadTeamMonth,
	},
}

// Scenarios lists the available demo scenarios.
func Scenarios() []ScenarioDTO {
	out := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		out[i] = s.ScenarioDTO
	}
	return out
}

// LoadScenario seeds store with the named scenario. It reports false when
// the scenario was already present.
func LoadScenario(ctx context.Context, store Backend, id string, logger *slog.Logger) (bool, error) {
	for _, s := range scenarios {
		if s.ID != id {
			continue
		}
		if _, err := store.GetProject(ctx, s.anchor); err == nil {
			return false, nil
		} else if !generic.IsNotFound(err) {
			return false, generic.WrapStorage("GetProject", err)
		}
		if err := s.load(ctx, &seeder{store: store, logger: logger}); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, &generic.InputError{Field: "scenario_id", Message: "unknown scenario " + id}
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Scenarios())
}

// LoadScenario loads a scenario by ID.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if !h.decode(w, r, &req) {
		return
	}
	loaded, err := LoadScenario(r.Context(), h.store, req.ScenarioID, h.logger)
	if err != nil {
		h.fail(w, err)
		return
	}

	status := "loaded"
	if !loaded {
		status = "already_loaded"
	}
	h.logger.Info("scenario", slog.String("scenario_id", req.ScenarioID), slog.String("status", status))
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": req.ScenarioID, "status": status})
}

// =============================================================================
// SEEDER
// =============================================================================

// seeder writes fixture records, stopping at the first error.
type seeder struct {
	store  Backend
	logger *slog.Logger
	err    error
}

func (s *seeder) employee(ctx context.Context, id, name, dept string) {
	if s.err != nil {
		return
	}
	s.err = s.store.SaveEmployee(ctx, workforce.Employee{
		ID:         workforce.UserID(id),
		Name:       name,
		Email:      id + "@example.com",
		Department: dept,
	})
}

func (s *seeder) project(ctx context.Context, id, name, client string, rate, budget int64, manager string) {
	if s.err != nil {
		return
	}
	s.err = s.store.InsertProject(ctx, workforce.Project{
		ID:          workforce.ProjectID(id),
		Name:        name,
		Client:      client,
		HourlyRate:  decimal.NewFromInt(rate),
		BudgetHours: decimal.NewFromInt(budget),
		Status:      workforce.ProjectActive,
		ManagerID:   workforce.UserID(manager),
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
}

// entry logs hours starting at 09:00 on the given day.
func (s *seeder) entry(ctx context.Context, user, project string, day generic.TimePoint, hours float64, billable bool, desc string) {
	if s.err != nil {
		return
	}
	start := day.Midnight().Add(9 * time.Hour)
	s.err = s.store.InsertEntry(ctx, workforce.TimeEntry{
		ID:          workforce.NewID(),
		UserID:      workforce.UserID(user),
		ProjectID:   workforce.ProjectID(project),
		StartTime:   &start,
		HoursWorked: decimal.NewFromFloat(hours),
		Billable:    billable,
		Description: desc,
		Type:        workforce.EntryRegular,
		CreatedAt:   start,
	})
}

// week logs the same hours on each of the five weekdays from monday.
func (s *seeder) week(ctx context.Context, user, project string, monday generic.TimePoint, hours float64, billable bool, desc string) {
	for d := 0; d < 5; d++ {
		s.entry(ctx, user, project, monday.AddDays(d), hours, billable, desc)
	}
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func loadOvertimeWeek(ctx context.Context, s *seeder) error {
	monday := generic.NewTimePoint(2025, time.January, 6)

	s.employee(ctx, "emp-dana", "Dana Reyes", "Engineering")
	s.employee(ctx, "emp-lee", "Lee Park", "Engineering")
	s.project(ctx, "prj-atlas", "Atlas Migration", "Northwind", 120, 200, "emp-lee")
	s.week(ctx, "emp-dana", "prj-atlas", monday, 9, true, "Cutover rehearsal")
	s.entry(ctx, "emp-dana", "prj-atlas", monday.AddDays(5), 3, false, "Weekend on-call")
	return s.err
}

func loadTeamMonth(ctx context.Context, s *seeder) error {
	jan := generic.NewTimePoint(2025, time.January, 6)

	s.employee(ctx, "emp-ava", "Ava Chen", "Engineering")
	s.employee(ctx, "emp-ben", "Ben Ortiz", "Engineering")
	s.employee(ctx, "emp-cora", "Cora Silva", "Design")
	s.employee(ctx, "emp-mgr", "Morgan Hale", "Engineering")
	s.project(ctx, "prj-apollo", "Apollo Portal", "Acme", 150, 400, "emp-mgr")
	s.project(ctx, "prj-internal", "Internal Tooling", "", 0, 0, "emp-mgr")

	for w := 0; w < 4; w++ {
		monday := jan.AddDays(7 * w)
		s.week(ctx, "emp-ava", "prj-apollo", monday, 8, true, "Portal features")
		s.week(ctx, "emp-cora", "prj-apollo", monday, 6, true, "Design system")
		s.week(ctx, "emp-cora", "prj-internal", monday, 2, false, "Design reviews")
		if w != 2 {
			s.week(ctx, "emp-ben", "prj-internal", monday, 7, false, "Build pipeline")
		}
	}
	if s.err != nil {
		return s.err
	}

	// Ben's third week is an approved vacation.
	leave := approval.NewLeaveService(s.store, nil, s.logger)
	l, err := leave.Submit(ctx, approval.LeaveSubmission{
		UserID: "emp-ben",
		Type:   string(workforce.LeaveVacation),
		Start:  jan.AddDays(14),
		End:    jan.AddDays(18),
		Reason: "Family trip",
	})
	if err != nil {
		return err
	}
	if _, err := leave.Approve(ctx, l.ID, "emp-mgr", "Enjoy"); err != nil {
		return err
	}

	timesheets := approval.NewTimesheetService(s.store, s.logger)
	_, err = timesheets.Submit(ctx, approval.TimesheetSubmission{UserID: "emp-ava", WeekStart: jan, ApproverID: "emp-mgr"})
	return err
}
