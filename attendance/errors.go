/*
errors.go - Error taxonomy for the attendance engine

ERROR CATEGORIES:
  1. Configuration gaps - no assignment covers a (user, day); expected during
     onboarding/offboarding, surfaced as a map miss / DayStatusGap
  2. Malformed records - clock-out before clock-in, overnight pairs
  3. Ambiguous assignments - overlapping intervals; non-fatal warning
  4. Input errors - invalid ranges and policies

None of these is fatal to a batch. RunBatch reports them per (user, day).

USAGE:
  outcome, err := attendance.Evaluate(record, policy, true)
  var malformed *attendance.MalformedRecordError
  if errors.As(err, &malformed) {
      log.Printf("skipping %s on %s: %s", malformed.UserID, malformed.Date, malformed.Reason)
  }
*/
package attendance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrConfigurationGap means no policy assignment covers a (user, day).
	ErrConfigurationGap = errors.New("no attendance policy configured")

	// ErrMalformedRecord means a clock pair cannot be evaluated as given.
	ErrMalformedRecord = errors.New("malformed attendance record")

	// ErrInvalidRange is returned when a range ends before it starts.
	ErrInvalidRange = errors.New("invalid range: end before start")

	// ErrInvalidPolicy is returned when a policy violates its invariants.
	ErrInvalidPolicy = errors.New("invalid attendance policy")

	// ErrPolicyNotFound is returned when a referenced policy doesn't exist.
	ErrPolicyNotFound = errors.New("policy not found")

	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrDuplicate is returned when a row with the same identity already exists.
	ErrDuplicate = errors.New("already exists")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// MalformedRecordError identifies the record that could not be evaluated.
type MalformedRecordError struct {
	UserID UserID
	Date   Date
	Reason string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed attendance record for %s on %s: %s", e.UserID, e.Date, e.Reason)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// AmbiguousAssignment reports two assignments for the same user that both
// cover [From, To]. Later is the assignment that takes
// precedence over Earlier on those days.
type AmbiguousAssignment struct {
	UserID  UserID
	Earlier AssignmentID
	Later   AssignmentID
	From    Date
	To      Date
}

func (a AmbiguousAssignment) Error() string {
	return fmt.Sprintf("overlapping policy assignments for %s: %s and %s both cover %s..%s (%s applied)",
		a.UserID, a.Earlier, a.Later, a.From, a.To, a.Later)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMalformedRecord) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidPolicy)
}

// IsConflict returns true if the error is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicate)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPolicyNotFound) ||
		errors.Is(err, ErrEmployeeNotFound)
}
