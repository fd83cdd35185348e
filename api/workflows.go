package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warp/workforce-engine/approval"
	"github.com/warp/workforce-engine/workforce"
)

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

// SubmitLeave: POST /api/leave
func (h *Handler) SubmitLeave(w http.ResponseWriter, r *http.Request) {
	var req SubmitLeaveRequest
	if !h.decode(w, r, &req) {
		return
	}
	start, err := parseDateField("start_date", req.StartDate)
	if err != nil {
		h.fail(w, err)
		return
	}
	end, err := parseDateField("end_date", req.EndDate)
	if err != nil {
		h.fail(w, err)
		return
	}

	l, err := h.leave.Submit(r.Context(), approval.LeaveSubmission{
		UserID: workforce.UserID(req.UserID),
		Type:   req.LeaveType,
		Start:  start,
		End:    end,
		Reason: req.Reason,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveDTO(l))
}

// GetLeave: GET /api/leave/{id}
func (h *Handler) GetLeave(w http.ResponseWriter, r *http.Request) {
	l, err := h.leave.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveDTO(l))
}

// PendingLeave: GET /api/leave/pending
func (h *Handler) PendingLeave(w http.ResponseWriter, r *http.Request) {
	ls, err := h.leave.Pending(r.Context())
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveDTOs(ls))
}

// UserLeave: GET /api/employees/{id}/leave?status=
func (h *Handler) UserLeave(w http.ResponseWriter, r *http.Request) {
	status, err := statusParam(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	ls, err := h.leave.ForUser(r.Context(), userParam(r), status)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveDTOs(ls))
}

// LeaveBalance: GET /api/employees/{id}/leave/balance?year=
func (h *Handler) LeaveBalance(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year", h.now().UTC().Year())
	if err != nil {
		h.fail(w, err)
		return
	}
	bs, err := h.leave.Balance(r.Context(), userParam(r), year)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceDTOs(bs))
}

// ApproveLeave: POST /api/leave/{id}/approve
func (h *Handler) ApproveLeave(w http.ResponseWriter, r *http.Request) {
	h.reviewLeave(w, r, h.leave.Approve)
}

// RejectLeave: POST /api/leave/{id}/reject
func (h *Handler) RejectLeave(w http.ResponseWriter, r *http.Request) {
	h.reviewLeave(w, r, h.leave.Reject)
}

type reviewFunc[T any] func(ctx context.Context, id, approverID, comments string) (T, error)

func (h *Handler) reviewLeave(w http.ResponseWriter, r *http.Request, review reviewFunc[workforce.LeaveRequest]) {
	var req ReviewRequest
	if !h.decode(w, r, &req) {
		return
	}
	l, err := review(r.Context(), chi.URLParam(r, "id"), req.ApproverID, req.Comments)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveDTO(l))
}

// =============================================================================
// TIMESHEETS
// =============================================================================

// SubmitTimesheet: POST /api/timesheets
func (h *Handler) SubmitTimesheet(w http.ResponseWriter, r *http.Request) {
	var req SubmitTimesheetRequest
	if !h.decode(w, r, &req) {
		return
	}
	ws, err := parseDateField("week_start", req.WeekStart)
	if err != nil {
		h.fail(w, err)
		return
	}

	t, err := h.timesheets.Submit(r.Context(), approval.TimesheetSubmission{
		UserID:     workforce.UserID(req.UserID),
		WeekStart:  ws,
		ApproverID: req.ApproverID,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTimesheetDTO(t))
}

// GetTimesheet: GET /api/timesheets/{id}
func (h *Handler) GetTimesheet(w http.ResponseWriter, r *http.Request) {
	t, err := h.timesheets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimesheetDTO(t))
}

// PendingTimesheets: GET /api/timesheets/pending?approver_id=
func (h *Handler) PendingTimesheets(w http.ResponseWriter, r *http.Request) {
	ts, err := h.timesheets.Pending(r.Context(), r.URL.Query().Get("approver_id"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimesheetDTOs(ts))
}

// UserTimesheets: GET /api/employees/{id}/timesheets?status=
func (h *Handler) UserTimesheets(w http.ResponseWriter, r *http.Request) {
	status, err := statusParam(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	ts, err := h.timesheets.ForUser(r.Context(), userParam(r), status)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimesheetDTOs(ts))
}

// ApproveTimesheet: POST /api/timesheets/{id}/approve
func (h *Handler) ApproveTimesheet(w http.ResponseWriter, r *http.Request) {
	h.reviewTimesheet(w, r, h.timesheets.Approve)
}

// RejectTimesheet: POST /api/timesheets/{id}/reject
func (h *Handler) RejectTimesheet(w http.ResponseWriter, r *http.Request) {
	h.reviewTimesheet(w, r, h.timesheets.Reject)
}

func (h *Handler) reviewTimesheet(w http.ResponseWriter, r *http.Request, review reviewFunc[workforce.TimesheetApproval]) {
	var req ReviewRequest
	if !h.decode(w, r, &req) {
		return
	}
	t, err := review(r.Context(), chi.URLParam(r, "id"), req.ApproverID, req.Comments)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimesheetDTO(t))
}
