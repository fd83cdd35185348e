package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// =============================================================================
// REPORTS
// =============================================================================

// WeeklyReport: GET /api/employees/{id}/reports/weekly?week_start=
func (h *Handler) WeeklyReport(w http.ResponseWriter, r *http.Request) {
	ws, err := dateParam(r, "week_start")
	if err != nil {
		h.fail(w, err)
		return
	}
	rep, err := h.reports.WeeklyReport(r.Context(), userParam(r), ws)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserReportDTO(rep))
}

// MonthlyReport: GET /api/employees/{id}/reports/monthly?year=&month=
// Defaults to the current month.
func (h *Handler) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	now := h.now().UTC()
	year, err := intParam(r, "year", now.Year())
	if err != nil {
		h.fail(w, err)
		return
	}
	month, err := intParam(r, "month", int(now.Month()))
	if err != nil {
		h.fail(w, err)
		return
	}
	rep, err := h.reports.MonthlyReport(r.Context(), userParam(r), year, time.Month(month))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserReportDTO(rep))
}

// TeamSummary: GET /api/reports/team?start=&end=
func (h *Handler) TeamSummary(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	s, err := h.reports.TeamSummary(r.Context(), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTeamSummaryDTO(s))
}

// MembersSummary: GET /api/reports/members?start=&end=
func (h *Handler) MembersSummary(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	rows, err := h.reports.MembersSummary(r.Context(), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	dtos := make([]MemberSummaryDTO, len(rows))
	for i, m := range rows {
		dtos[i] = MemberSummaryDTO{
			EmployeeDTO:        toEmployeeDTO(m.Employee),
			TotalsDTO:          toTotalsDTO(m.Totals),
			AverageHoursPerDay: num(m.AverageHoursPerDay),
			BillablePercent:    num(m.BillablePercent),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ProjectsSummary: GET /api/reports/projects?start=&end=
func (h *Handler) ProjectsSummary(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	rows, err := h.reports.ProjectsSummary(r.Context(), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	dtos := make([]ProjectSummaryDTO, len(rows))
	for i, s := range rows {
		dtos[i] = toProjectSummaryDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// TopPerformers: GET /api/reports/top-performers?start=&end=&limit=10
func (h *Handler) TopPerformers(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	limit, err := intParam(r, "limit", 10)
	if err != nil {
		h.fail(w, err)
		return
	}
	rows, err := h.reports.TopPerformers(r.Context(), p, limit)
	if err != nil {
		h.fail(w, err)
		return
	}
	dtos := make([]PerformerDTO, len(rows))
	for i, pf := range rows {
		dtos[i] = PerformerDTO{
			Rank:            pf.Rank,
			UserID:          string(pf.UserID),
			Name:            pf.Name,
			TotalHours:      num(pf.TotalHours),
			BillableHours:   num(pf.BillableHours),
			ProjectCount:    pf.ProjectCount,
			BillablePercent: num(pf.BillablePercent),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Productivity: GET /api/reports/productivity?start=&end=
func (h *Handler) Productivity(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	res, err := h.reports.Productivity(r.Context(), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ProductivityDTO{
		StartDate:            res.Period.Start.String(),
		EndDate:              res.Period.End.String(),
		TotalsDTO:            toTotalsDTO(res.Totals),
		ActiveUsers:          res.ActiveUsers,
		AverageHoursPerUser:  num(res.AverageHoursPerUser),
		AverageHoursPerEntry: num(res.AverageHoursPerEntry),
		Score:                num(res.Score),
	})
}

// DepartmentSummary: GET /api/reports/departments/{department}?start=&end=
func (h *Handler) DepartmentSummary(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	res, err := h.reports.DepartmentSummary(r.Context(), chi.URLParam(r, "department"), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DepartmentSummaryDTO{
		Department:           res.Department,
		EmployeeCount:        res.EmployeeCount,
		TotalsDTO:            toTotalsDTO(res.Totals),
		AverageHoursPerEntry: num(res.AverageHoursPerEntry),
	})
}
