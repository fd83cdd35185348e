/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address from proxy headers
  3. Logger:     Request logging
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. Heartbeat:  GET /health liveness probe
  6. CORS:       Cross-origin requests, origins from config

ROUTE GROUPS:
  /api/employees/*      Directory plus per-user overtime, utilization,
                        payroll, leave, timesheets and reports
  /api/projects/*       Projects, budget variance, billing
  /api/entries          Time entries
  /api/overtime         Record overtime
  /api/utilization/*    Team utilization
  /api/payroll/*        Payroll summary, totals, CSV export
  /api/budget           All-project budget status
  /api/leave/*          Leave request workflow
  /api/timesheets/*     Timesheet approval workflow
  /api/reports/*        Team reports
  /api/scenarios/*      Demo datasets

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/warp/workforce-engine/config"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsCfg config.CORSConfig) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/health"))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsCfg.Origins(),
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         corsCfg.MaxAge,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetEmployee)

				r.Get("/overtime/weekly", h.WeeklyOvertime)
				r.Get("/overtime/daily", h.DailyOvertime)
				r.Get("/overtime/pay", h.OvertimePay)
				r.Get("/overtime/summary", h.OvertimeSummary)

				r.Get("/utilization", h.UserUtilization)
				r.Get("/utilization/trend", h.UtilizationTrend)

				r.Get("/payroll", h.EmployeePayroll)

				r.Get("/leave", h.UserLeave)
				r.Get("/leave/balance", h.LeaveBalance)
				r.Get("/timesheets", h.UserTimesheets)

				r.Get("/reports/weekly", h.WeeklyReport)
				r.Get("/reports/monthly", h.MonthlyReport)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.ListProjects)
			r.Post("/", h.CreateProject)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetProject)
				r.Put("/budget", h.UpdateBudget)
				r.Get("/variance", h.ProjectVariance)
				r.Get("/contributions", h.TeamContribution)
				r.Get("/milestones", h.Milestones)
				r.Get("/utilization", h.ProjectUtilization)
				r.Get("/billing", h.ProjectBilling)
				r.Get("/billing/export", h.ExportBilling)
			})
		})

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", h.ListEntries)
			r.Post("/", h.CreateEntry)
		})
		r.Post("/overtime", h.RecordOvertime)
		r.Get("/utilization/team", h.TeamUtilization)

		r.Route("/payroll", func(r chi.Router) {
			r.Get("/", h.PayrollSummary)
			r.Get("/totals", h.PayrollTotals)
			r.Get("/export", h.ExportPayroll)
		})
		r.Get("/budget", h.BudgetStatus)

		// Approval workflows
		r.Route("/leave", func(r chi.Router) {
			r.Post("/", h.SubmitLeave)
			r.Get("/pending", h.PendingLeave)
			r.Get("/{id}", h.GetLeave)
			r.Post("/{id}/approve", h.ApproveLeave)
			r.Post("/{id}/reject", h.RejectLeave)
		})
		r.Route("/timesheets", func(r chi.Router) {
			r.Post("/", h.SubmitTimesheet)
			r.Get("/pending", h.PendingTimesheets)
			r.Get("/{id}", h.GetTimesheet)
			r.Post("/{id}/approve", h.ApproveTimesheet)
			r.Post("/{id}/reject", h.RejectTimesheet)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/team", h.TeamSummary)
			r.Get("/members", h.MembersSummary)
			r.Get("/projects", h.ProjectsSummary)
			r.Get("/top-performers", h.TopPerformers)
			r.Get("/productivity", h.Productivity)
			r.Get("/departments/{department}", h.DepartmentSummary)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})
	})

	return r
}
