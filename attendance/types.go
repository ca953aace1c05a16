/*
Package attendance provides the attendance policy engine.

PURPOSE:
  This package turns raw policy assignments and clock-in/clock-out rows into
  per-user, per-day attendance facts. It has no I/O: the HTTP and storage
  layers load records, hand them in, and persist what comes out.

KEY CONCEPTS IN THIS FILE (types.go):
  - AttendancePolicy: working days, off days, shift window, grace, overtime threshold
  - PolicyAssignment: a time-bounded link between a user and a policy
  - AttendanceRecord: one raw clock-in/clock-out pair
  - EffectivePolicy: the policy resolved for a (user, day)
  - Outcome: is-late, is-absent, overtime minutes

PIPELINE:
  1. Build(assignments, resolver, range)  -> *Index       (index.go)
  2. IsWorkingDay(date, policy, holidays) -> bool         (calendar.go)
  3. Evaluate(record, policy, workingDay) -> Outcome      (evaluator.go)
  RunBatch (report.go) drives all three over every user and day in a range.

DESIGN PRINCIPLES:
  1. Pure functions: nothing here mutates its inputs or keeps state between calls
  2. Typed keys: (UserID, Date) structs, never concatenated strings
  3. Per-record failures: a bad row never aborts a whole report

SEE ALSO:
  - time.go: Date, DateRange, TimeOfDay
  - errors.go: error taxonomy
  - store.go: interfaces implemented by store/memory and store/sqlite
*/
package attendance

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type PolicyID string
type AssignmentID string

// =============================================================================
// WEEKDAYS - Set of days of the week
// =============================================================================

// Weekdays is a set of time.Weekday values stored as a bitmask.
type Weekdays uint8

// MondayToFriday is the standard office week.
var MondayToFriday = NewWeekdays(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)

func NewWeekdays(days ...time.Weekday) Weekdays {
	var w Weekdays
	for _, d := range days {
		w = w.With(d)
	}
	return w
}

func (w Weekdays) Has(d time.Weekday) bool    { return w&(1<<uint(d)) != 0 }
func (w Weekdays) With(d time.Weekday) Weekdays { return w | 1<<uint(d) }
func (w Weekdays) IsEmpty() bool              { return w == 0 }

// Days returns the members in Sunday..Saturday order.
func (w Weekdays) Days() []time.Weekday {
	var days []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if w.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

// Names returns three-letter names ("Mon", "Tue", ...).
func (w Weekdays) Names() []string {
	names := []string{}
	for _, d := range w.Days() {
		names = append(names, d.String()[:3])
	}
	return names
}

func (w Weekdays) String() string { return strings.Join(w.Names(), ",") }

// ParseWeekday accepts full or three-letter English names, any case.
func ParseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if n == full || n == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}

// ParseWeekdays parses a list of weekday names into a set.
func ParseWeekdays(names []string) (Weekdays, error) {
	var w Weekdays
	for _, name := range names {
		d, err := ParseWeekday(name)
		if err != nil {
			return 0, err
		}
		w = w.With(d)
	}
	return w, nil
}

// =============================================================================
// ATTENDANCE POLICY - The rules block referenced by assignments
// =============================================================================

// AttendancePolicy defines when a user is expected to work and how their
// clock times are judged.
type AttendancePolicy struct {
	ID   PolicyID
	Name string

	// WorkingDays are the weekdays attendance is expected on.
	WorkingDays Weekdays
	// OffDays override WorkingDays when both contain a weekday.
	OffDays Weekdays

	// Shift window. WorkStart < WorkEnd; overnight shifts are not supported.
	WorkStart TimeOfDay
	WorkEnd   TimeOfDay

	LateGraceMinutes         int
	OvertimeThresholdMinutes int
}

// Validate checks the invariants Evaluate relies on.
func (p AttendancePolicy) Validate() error {
	switch {
	case !p.WorkStart.Valid() || !p.WorkEnd.Valid():
		return fmt.Errorf("%w: shift times must be within 00:00-23:59", ErrInvalidPolicy)
	case p.WorkStart >= p.WorkEnd:
		return fmt.Errorf("%w: work start %s must be before work end %s", ErrInvalidPolicy, p.WorkStart, p.WorkEnd)
	case p.LateGraceMinutes < 0:
		return fmt.Errorf("%w: late grace minutes must not be negative", ErrInvalidPolicy)
	case p.OvertimeThresholdMinutes < 0:
		return fmt.Errorf("%w: overtime threshold minutes must not be negative", ErrInvalidPolicy)
	}
	return nil
}

// =============================================================================
// POLICY ASSIGNMENT - Time-bounded user -> policy link
// =============================================================================

// PolicyAssignment says that PolicyID governed UserID from StartDate through
// EndDate (both inclusive). Assignments are closed, never deleted, so past
// days keep resolving to the policy that applied at the time.
type PolicyAssignment struct {
	ID       AssignmentID
	UserID   UserID
	PolicyID PolicyID

	// Policy is the joined policy row. When nil, Build asks its resolver.
	Policy *AttendancePolicy

	StartDate Date
	EndDate   *Date // nil = open-ended, still in effect
}

// IsActive returns true if the assignment covers the given day.
func (pa PolicyAssignment) IsActive(on Date) bool {
	if on.Before(pa.StartDate) {
		return false
	}
	if pa.EndDate != nil && on.After(*pa.EndDate) {
		return false
	}
	return true
}

// PolicyResolver looks up a policy by ID. The bool is false when unknown.
type PolicyResolver func(PolicyID) (AttendancePolicy, bool)

// PolicyMap adapts a map into a PolicyResolver.
func PolicyMap(policies map[PolicyID]AttendancePolicy) PolicyResolver {
	return func(id PolicyID) (AttendancePolicy, bool) {
		p, ok := policies[id]
		return p, ok
	}
}

// =============================================================================
// ATTENDANCE RECORD - Raw clock-in / clock-out
// =============================================================================

// AttendanceRecord is one clock pair for a user on a work day. ClockIn and
// ClockOut are expected in the user's local time already.
type AttendanceRecord struct {
	ID       string
	UserID   UserID
	Date     Date
	ClockIn  *time.Time
	ClockOut *time.Time // nil while still clocked in
	IsManual bool       // entered by an administrator, not a device
}

// =============================================================================
// EFFECTIVE POLICY / OUTCOME - Derived values
// =============================================================================

// EffectivePolicy is the policy resolved for one (user, day).
type EffectivePolicy struct {
	AttendancePolicy
	AssignmentID AssignmentID
}

// Outcome holds the computed attendance facts for a day.
type Outcome struct {
	IsLate          bool
	IsAbsent        bool
	OvertimeMinutes int
}

// =============================================================================
// EMPLOYEE - Who reports are run for
// =============================================================================

// Placement is an employee's position in the organisation, used to decide
// which scoped holidays apply to them.
type Placement struct {
	CompanyID   string
	LocationID  string
	AreaID      string
	TerritoryID string
}

type Employee struct {
	ID        UserID
	Name      string
	Email     string
	Placement Placement
	CreatedAt time.Time
}
