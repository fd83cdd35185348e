package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/overtime"
	"github.com/warp/workforce-engine/payroll"
	"github.com/warp/workforce-engine/workforce"
)

// =============================================================================
// OVERTIME
// =============================================================================

// WeeklyOvertime: GET /api/employees/{id}/overtime/weekly?week_start=
func (h *Handler) WeeklyOvertime(w http.ResponseWriter, r *http.Request) {
	ws, err := dateParam(r, "week_start")
	if err != nil {
		h.fail(w, err)
		return
	}
	res, err := h.overtime.WeeklyOvertime(r.Context(), userParam(r), ws)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toWeeklyOvertimeDTO(res))
}

// DailyOvertime: GET /api/employees/{id}/overtime/daily?start=&end=
func (h *Handler) DailyOvertime(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	res, err := h.overtime.DailyOvertime(r.Context(), userParam(r), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDailyOvertimeDTOs(res))
}

// OvertimePay: GET /api/employees/{id}/overtime/pay?start=&end=&rate=
// The rate defaults to the configured hourly rate.
func (h *Handler) OvertimePay(w http.ResponseWriter, r *http.Request) {
	p, rate, ok := h.periodAndRate(w, r)
	if !ok {
		return
	}
	res, err := h.overtime.OvertimePay(r.Context(), userParam(r), p, rate)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOvertimePayDTO(res))
}

// OvertimeSummary: GET /api/employees/{id}/overtime/summary?start=&end=&rate=
func (h *Handler) OvertimeSummary(w http.ResponseWriter, r *http.Request) {
	p, rate, ok := h.periodAndRate(w, r)
	if !ok {
		return
	}
	res, err := h.overtime.Summary(r.Context(), userParam(r), p, rate)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOvertimeSummaryDTO(res))
}

// RecordOvertime: POST /api/overtime
func (h *Handler) RecordOvertime(w http.ResponseWriter, r *http.Request) {
	var req RecordOvertimeRequest
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
	var date generic.TimePoint
	if start == nil {
		if date, err = parseDateField("date", req.Date); err != nil {
			h.fail(w, err)
			return
		}
	}
	entry, err := h.overtime.RecordOvertime(r.Context(), overtime.RecordCommand{
		UserID:      workforce.UserID(req.UserID),
		ProjectID:   workforce.ProjectID(req.ProjectID),
		Date:        date,
		Start:       start,
		End:         end,
		Hours:       decimal.NewFromFloat(req.Hours),
		Description: req.Description,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryDTO(entry))
}

func (h *Handler) periodAndRate(w http.ResponseWriter, r *http.Request) (p generic.Period, rate decimal.Decimal, ok bool) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return p, rate, false
	}
	rate, err = decimalParam(r, "rate", h.payroll.Config().HourlyRate)
	if err != nil {
		h.fail(w, err)
		return p, rate, false
	}
	return p, rate, true
}

// =============================================================================
// UTILIZATION
// =============================================================================

// UserUtilization: GET /api/employees/{id}/utilization?start=&end=
func (h *Handler) UserUtilization(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	res, err := h.utilization.UserUtilization(r.Context(), userParam(r), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUtilizationDTO(res))
}

// UtilizationTrend: GET /api/employees/{id}/utilization/trend?year=
func (h *Handler) UtilizationTrend(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year", h.now().UTC().Year())
	if err != nil {
		h.fail(w, err)
		return
	}
	res, err := h.utilization.MonthlyTrend(r.Context(), userParam(r), year)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrendDTOs(res))
}

// TeamUtilization: GET /api/utilization/team?department=&start=&end=
func (h *Handler) TeamUtilization(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	res, err := h.utilization.TeamUtilization(r.Context(), r.URL.Query().Get("department"), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTeamUtilizationDTO(res))
}

// ProjectUtilization: GET /api/projects/{id}/utilization?start=&end=
func (h *Handler) ProjectUtilization(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	res, err := h.utilization.ProjectUtilization(r.Context(), projectParam(r), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectUtilizationDTO(res))
}

// =============================================================================
// PAYROLL & BILLING
// =============================================================================

// EmployeePayroll: GET /api/employees/{id}/payroll?start=&end=
func (h *Handler) EmployeePayroll(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	res, err := h.payroll.EmployeePayroll(r.Context(), userParam(r), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayrollDTO(res))
}

// PayrollSummary: GET /api/payroll?start=&end=
func (h *Handler) PayrollSummary(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	rows, err := h.payroll.Summary(r.Context(), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	dtos := make([]PayrollDTO, len(rows))
	for i, row := range rows {
		dtos[i] = toPayrollDTO(row)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PayrollTotals: GET /api/payroll/totals?start=&end=
func (h *Handler) PayrollTotals(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	res, err := h.payroll.Totals(r.Context(), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPayrollTotalsDTO(res))
}

// ExportPayroll: GET /api/payroll/export?start=&end= (text/csv)
func (h *Handler) ExportPayroll(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	rows, err := h.payroll.Summary(r.Context(), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	var buf bytes.Buffer
	if err := payroll.WritePayrollCSV(&buf, rows); err != nil {
		h.fail(w, err)
		return
	}
	writeCSV(w, fmt.Sprintf("payroll_%s_%s.csv", p.Start, p.End), buf.Bytes())
}

// ProjectBilling: GET /api/projects/{id}/billing?start=&end=
func (h *Handler) ProjectBilling(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	st, err := h.payroll.ProjectBilling(r.Context(), projectParam(r), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBillingDTO(st))
}

// ExportBilling: GET /api/projects/{id}/billing/export?start=&end= (text/csv)
func (h *Handler) ExportBilling(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	st, err := h.payroll.ProjectBilling(r.Context(), projectParam(r), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	var buf bytes.Buffer
	if err := payroll.WriteBillingCSV(&buf, st); err != nil {
		h.fail(w, err)
		return
	}
	writeCSV(w, fmt.Sprintf("billing_%s_%s_%s.csv", st.Project.ID, p.Start, p.End), buf.Bytes())
}

func writeCSV(w http.ResponseWriter, filename string, body []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// =============================================================================
// BUDGET
// =============================================================================

// BudgetStatus: GET /api/budget?status= (default active, "all" for every project)
func (h *Handler) BudgetStatus(w http.ResponseWriter, r *http.Request) {
	status := workforce.ProjectActive
	switch s := r.URL.Query().Get("status"); s {
	case "":
	case "all":
		status = ""
	default:
		parsed, err := workforce.ParseProjectStatus(s)
		if err != nil {
			h.fail(w, err)
			return
		}
		status = parsed
	}

	res, err := h.budget.AllProjects(r.Context(), status)
	if err != nil {
		h.fail(w, err)
		return
	}
	dtos := make([]VarianceDTO, len(res))
	for i, v := range res {
		dtos[i] = toVarianceDTO(v)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ProjectVariance: GET /api/projects/{id}/variance
func (h *Handler) ProjectVariance(w http.ResponseWriter, r *http.Request) {
	res, err := h.budget.ProjectVariance(r.Context(), projectParam(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVarianceDTO(res))
}

// TeamContribution: GET /api/projects/{id}/contributions
func (h *Handler) TeamContribution(w http.ResponseWriter, r *http.Request) {
	res, err := h.budget.TeamContribution(r.Context(), projectParam(r))
	if err != nil {
		h.fail(w, err)
		return
	}
	dtos := make([]ContributionDTO, len(res))
	for i, c := range res {
		dtos[i] = ContributionDTO{
			UserID:        string(c.UserID),
			Name:          c.Name,
			Hours:         num(c.Hours),
			BillableHours: num(c.BillableHours),
			EntryCount:    c.EntryCount,
			Percentage:    num(c.Percentage),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// Milestones: GET /api/projects/{id}/milestones?start=&end=
func (h *Handler) Milestones(w http.ResponseWriter, r *http.Request) {
	p, err := parsePeriod(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	res, err := h.budget.Milestones(r.Context(), projectParam(r), p)
	if err != nil {
		h.fail(w, err)
		return
	}
	dtos := make([]MilestoneDTO, len(res))
	for i, m := range res {
		dtos[i] = MilestoneDTO{
			Date:            m.Date.String(),
			Hours:           num(m.Hours),
			CumulativeHours: num(m.CumulativeHours),
			BudgetPercent:   num(m.BudgetPercent),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpdateBudget: PUT /api/projects/{id}/budget
func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req UpdateBudgetRequest
	if !h.decode(w, r, &req) {
		return
	}
	p, err := h.budget.UpdateBudget(r.Context(), projectParam(r), decimal.NewFromFloat(req.BudgetHours))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(p))
}
