package generic_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/workforce-engine/generic"
)

func review(approver string) generic.Review {
	return generic.Review{
		ApproverID: approver,
		Comments:   "looks fine",
		ReviewedAt: time.Date(2025, 1, 13, 10, 0, 0, 0, time.UTC),
	}
}

func TestTransition_FromPending(t *testing.T) {
	next, err := generic.Transition("r-1", generic.StatusPending, generic.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, generic.StatusApproved, next)

	next, err = generic.Transition("r-1", generic.StatusPending, generic.DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, generic.StatusRejected, next)
}

func TestTransition_TerminalStatesRefuse(t *testing.T) {
	for _, from := range []generic.ApprovalStatus{generic.StatusApproved, generic.StatusRejected} {
		for _, d := range []generic.Decision{generic.DecisionApprove, generic.DecisionReject} {
			next, err := generic.Transition("r-1", from, d)
			assert.ErrorIs(t, err, generic.ErrIllegalTransition, "%s -> %s", from, d)
			assert.Equal(t, from, next)
		}
	}
}

func TestApprovalState_Apply(t *testing.T) {
	// GIVEN: A pending record
	s := generic.Pending()
	assert.Nil(t, s.Review)

	// WHEN: It is approved
	require.NoError(t, s.Apply("r-1", generic.DecisionApprove, review("mgr-1")))

	// THEN: The audit fields are set
	assert.Equal(t, generic.StatusApproved, s.Status)
	require.NotNil(t, s.Review)
	assert.Equal(t, "mgr-1", s.Review.ApproverID)

	// WHEN: A second reviewer tries to reject it
	err := s.Apply("r-1", generic.DecisionReject, review("mgr-2"))

	// THEN: It fails and nothing is overwritten
	var illegal *generic.IllegalTransitionError
	require.ErrorAs(t, err, &illegal)
	assert.Equal(t, generic.StatusApproved, illegal.From)
	assert.Equal(t, generic.StatusApproved, s.Status)
	assert.Equal(t, "mgr-1", s.Review.ApproverID)
}

func TestApprovalState_ApplyRequiresApprover(t *testing.T) {
	s := generic.Pending()
	err := s.Apply("r-1", generic.DecisionApprove, review(" "))
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
	assert.Equal(t, generic.StatusPending, s.Status)
	assert.Nil(t, s.Review)
}

func TestReview_Validate(t *testing.T) {
	// Comments are optional on either decision
	r := review("mgr-1")
	r.Comments = ""
	assert.NoError(t, r.Validate())
	s := generic.Pending()
	require.NoError(t, s.Apply("r-1", generic.DecisionReject, r))
	assert.Empty(t, s.Review.Comments)

	// Approver and timestamp are not
	r = review("mgr-1")
	r.ReviewedAt = time.Time{}
	var input *generic.InputError
	require.ErrorAs(t, r.Validate(), &input)
	assert.Equal(t, "reviewed_at", input.Field)

	require.ErrorAs(t, review("").Validate(), &input)
	assert.Equal(t, "approver", input.Field)
}

func TestParseApprovalStatus(t *testing.T) {
	st, err := generic.ParseApprovalStatus("APPROVED")
	require.NoError(t, err)
	assert.Equal(t, generic.StatusApproved, st)

	_, err = generic.ParseApprovalStatus("cancelled")
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}
