/*
approval.go - Approval state machine shared by every reviewed record

PURPOSE:
  Leave requests and weekly timesheets both move through the same lifecycle.
  This file holds the one transition model; each workflow instantiates it
  over its own record type.

STATE MACHINE:
  ┌─────────┐   approve   ┌──────────┐
  │ pending │ ──────────▶ │ approved │  (terminal)
  │         │             └──────────┘
  │         │   reject    ┌──────────┐
  │         │ ──────────▶ │ rejected │  (terminal)
  └─────────┘             └──────────┘

  Anything else is an IllegalTransitionError. A reviewed record is never
  overwritten: approver, comments and reviewed-at are set exactly once.

ATOMICITY:
  Transition() only decides. Stores apply the decision with a compare-and-swap
  keyed on the pending status (see workforce/store.go), so two concurrent
  reviews of one record cannot both succeed.

SEE ALSO:
  - approval/leave.go, approval/timesheet.go: The two workflows
  - store/sqlite: Status-guarded UPDATE
*/
package generic

import (
	"strings"
	"time"
)

// =============================================================================
// STATUS
// =============================================================================

type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// ParseApprovalStatus accepts any casing ("APPROVED", "approved").
func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	st := ApprovalStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	}
	return "", &InputError{Field: "status", Message: "unknown status " + s}
}

// =============================================================================
// DECISION
// =============================================================================

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Target is the status a decision leads to.
func (d Decision) Target() ApprovalStatus {
	if d == DecisionApprove {
		return StatusApproved
	}
	return StatusRejected
}

// Review carries the audit fields written by a transition. ApproverID and
// ReviewedAt are required; Comments is optional on both approve and reject.
type Review struct {
	ApproverID string
	Comments   string
	ReviewedAt time.Time
}

// Validate checks the required fields. Empty Comments are accepted.
func (r Review) Validate() error {
	if strings.TrimSpace(r.ApproverID) == "" {
		return &InputError{Field: "approver", Message: "approver identity is required"}
	}
	if r.ReviewedAt.IsZero() {
		return &InputError{Field: "reviewed_at", Message: "review timestamp is required"}
	}
	return nil
}

// Transition decides whether a record in status from may take decision d.
func Transition(recordID string, from ApprovalStatus, d Decision) (ApprovalStatus, error) {
	if d != DecisionApprove && d != DecisionReject {
		return from, &InputError{Field: "decision", Message: "unknown decision " + string(d)}
	}
	if from != StatusPending {
		return from, &IllegalTransitionError{RecordID: recordID, From: from, To: d.Target()}
	}
	return d.Target(), nil
}

// =============================================================================
// APPROVAL STATE - Embedded in reviewed records
// =============================================================================

// ApprovalState is the mutable part of a reviewed record. Review is nil
// until the record leaves pending.
type ApprovalState struct {
	Status ApprovalStatus
	Review *Review
}

// Pending returns the initial state.
func Pending() ApprovalState {
	return ApprovalState{Status: StatusPending}
}

// Current reports the status; records embedding ApprovalState inherit it.
func (s ApprovalState) Current() ApprovalStatus {
	return s.Status
}

// Apply validates and performs a transition in place. On error the state
// is left untouched.
func (s *ApprovalState) Apply(recordID string, d Decision, review Review) error {
	if err := review.Validate(); err != nil {
		return err
	}
	next, err := Transition(recordID, s.Status, d)
	if err != nil {
		return err
	}
	r := review
	s.Status = next
	s.Review = &r
	return nil
}
