/*
errors.go - Centralized error taxonomy for the workforce engine

PURPOSE:
  All error kinds in one place for consistency and discoverability.
  Calculators and workflows return these; the API maps them to HTTP status.

ERROR CATEGORIES:
  1. InvalidRange      - end before start, or a pro-rated period of zero days
  2. NotFound          - referenced project/user/approval record absent
  3. IllegalTransition - reviewing an already-reviewed record, or submitting a
                         timesheet for a week that already has a live approval
  4. StorageFailure    - anything the storage collaborator reports that is not
                         one of the above; never retried here
  5. InvalidInput      - malformed commands (negative hours, unknown leave type)

  Zero denominators are NOT errors: see Ratio/Percent in types.go.

USAGE:
  if errors.Is(err, generic.ErrIllegalTransition) {
      // already reviewed
  }

SEE ALSO:
  - approval.go: Produces IllegalTransitionError
  - period.go: Produces RangeError
  - api/handlers.go: Maps kinds to status codes
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidRange is returned when a period is malformed or spans zero days.
	ErrInvalidRange = errors.New("invalid range")

	// ErrNotFound is returned when a referenced record doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrIllegalTransition is returned when a state change is not allowed
	// from the record's current status.
	ErrIllegalTransition = errors.New("illegal transition")

	// ErrStorageFailure is returned when the storage collaborator fails.
	ErrStorageFailure = errors.New("storage failure")

	// ErrInvalidInput is returned when a command carries invalid values.
	ErrInvalidInput = errors.New("invalid input")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// RangeError provides details about a rejected period.
type RangeError struct {
	Start  TimePoint
	End    TimePoint
	Reason string
}

func (e *RangeError) Error() string {
	if e.Start.IsZero() && e.End.IsZero() {
		return fmt.Sprintf("invalid range: %s", e.Reason)
	}
	return fmt.Sprintf("invalid range [%s, %s]: %s", e.Start, e.End, e.Reason)
}

func (e *RangeError) Unwrap() error {
	return ErrInvalidRange
}

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string // e.g. "project", "leave request"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s: not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// IllegalTransitionError provides details about a refused state change.
type IllegalTransitionError struct {
	RecordID string
	From     ApprovalStatus
	To       ApprovalStatus
	Reason   string
}

func (e *IllegalTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("illegal transition for %s: %s", e.RecordID, e.Reason)
	}
	return fmt.Sprintf("illegal transition for %s: %s -> %s (already reviewed)", e.RecordID, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

// StorageError wraps a failure reported by the storage collaborator.
// It matches both ErrStorageFailure and the underlying cause.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure in %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorageFailure, e.Err}
}

// InputError names the offending field of a command.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// WrapStorage classifies an error coming back from a store. Taxonomy errors
// pass through unchanged; anything else becomes a StorageError.
func WrapStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrIllegalTransition) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrStorageFailure) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict returns true if the error is a refused state change.
func IsConflict(err error) bool {
	return errors.Is(err, ErrIllegalTransition)
}
