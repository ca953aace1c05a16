/*
Package factory provides JSON to Go policy conversion.

PURPOSE:
  Converts JSON policy definitions into attendance.AttendancePolicy values.
  HR defines schedules in JSON (admin UI, database column, config file) and
  the factory produces validated Go structs.

JSON SCHEMA:
  {
    "id": "office-standard",
    "name": "Standard Office",
    "working_days": ["Mon", "Tue", "Wed", "Thu", "Fri"],
    "off_days": ["Sat", "Sun"],
    "work_start": "09:00",
    "work_end": "17:00",
    "late_grace_minutes": 10,
    "overtime_threshold_minutes": 30
  }

VALIDATION:
  - weekday names: full or three-letter, any case
  - times: HH:MM or HH:MM:SS, work_start strictly before work_end
  - minutes: never negative
  - at least one working day

USAGE:
  f := factory.NewPolicyFactory()
  policy, err := f.ParsePolicy(factory.StandardOfficeJSON("office", "Office", 10, 30))

SEE ALSO:
  - attendance/types.go: AttendancePolicy definition
  - factory/presets.go: ready-made schedules
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/attendance-engine/attendance"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// PolicyJSON is the JSON representation of a policy.
type PolicyJSON struct {
	ID                       string   `json:"id"`
	Name                     string   `json:"name"`
	WorkingDays              []string `json:"working_days"`
	OffDays                  []string `json:"off_days,omitempty"`
	WorkStart                string   `json:"work_start"`
	WorkEnd                  string   `json:"work_end"`
	LateGraceMinutes         int      `json:"late_grace_minutes"`
	OvertimeThresholdMinutes int      `json:"overtime_threshold_minutes"`
}

// =============================================================================
// POLICY FACTORY
// =============================================================================

// PolicyFactory converts JSON policies to Go structs.
type PolicyFactory struct{}

// NewPolicyFactory creates a new policy factory.
func NewPolicyFactory() *PolicyFactory {
	return &PolicyFactory{}
}

// ParsePolicy parses a JSON string into a validated AttendancePolicy.
func (f *PolicyFactory) ParsePolicy(jsonStr string) (attendance.AttendancePolicy, error) {
	var pj PolicyJSON
	if err := json.Unmarshal([]byte(jsonStr), &pj); err != nil {
		return attendance.AttendancePolicy{}, fmt.Errorf("failed to parse policy JSON: %w", err)
	}
	return f.FromJSON(pj)
}

// FromJSON converts PolicyJSON to an AttendancePolicy. Every failure wraps
// attendance.ErrInvalidPolicy.
func (f *PolicyFactory) FromJSON(pj PolicyJSON) (attendance.AttendancePolicy, error) {
	working, err := attendance.ParseWeekdays(pj.WorkingDays)
	if err != nil {
		return attendance.AttendancePolicy{}, invalid(pj.ID, "working_days", err)
	}
	off, err := attendance.ParseWeekdays(pj.OffDays)
	if err != nil {
		return attendance.AttendancePolicy{}, invalid(pj.ID, "off_days", err)
	}
	start, err := attendance.ParseTimeOfDay(pj.WorkStart)
	if err != nil {
		return attendance.AttendancePolicy{}, invalid(pj.ID, "work_start", err)
	}
	end, err := attendance.ParseTimeOfDay(pj.WorkEnd)
	if err != nil {
		return attendance.AttendancePolicy{}, invalid(pj.ID, "work_end", err)
	}

	policy := attendance.AttendancePolicy{
		ID:                       attendance.PolicyID(pj.ID),
		Name:                     pj.Name,
		WorkingDays:              working,
		OffDays:                  off,
		WorkStart:                start,
		WorkEnd:                  end,
		LateGraceMinutes:         pj.LateGraceMinutes,
		OvertimeThresholdMinutes: pj.OvertimeThresholdMinutes,
	}
	if policy.WorkingDays.IsEmpty() {
		return attendance.AttendancePolicy{}, invalid(pj.ID, "working_days", fmt.Errorf("at least one working day is required"))
	}
	if err := policy.Validate(); err != nil {
		return attendance.AttendancePolicy{}, err
	}
	return policy, nil
}

// ToJSON converts a policy back to its JSON form.
func (f *PolicyFactory) ToJSON(policy attendance.AttendancePolicy) PolicyJSON {
	return PolicyJSON{
		ID:                       string(policy.ID),
		Name:                     policy.Name,
		WorkingDays:              policy.WorkingDays.Names(),
		OffDays:                  policy.OffDays.Names(),
		WorkStart:                formatClock(policy.WorkStart),
		WorkEnd:                  formatClock(policy.WorkEnd),
		LateGraceMinutes:         policy.LateGraceMinutes,
		OvertimeThresholdMinutes: policy.OvertimeThresholdMinutes,
	}
}

// Marshal renders a policy as the JSON stored in the policies table.
func (f *PolicyFactory) Marshal(policy attendance.AttendancePolicy) (string, error) {
	b, err := json.Marshal(f.ToJSON(policy))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// =============================================================================
// HELPERS
// =============================================================================

func invalid(id, field string, err error) error {
	return fmt.Errorf("%w: policy %q: %s: %v", attendance.ErrInvalidPolicy, id, field, err)
}

// formatClock drops the seconds when they are zero, so "09:00" round-trips.
func formatClock(t attendance.TimeOfDay) string {
	s := t.String()
	if s[len(s)-3:] == ":00" {
		return s[:len(s)-3]
	}
	return s
}
