package factory

import (
	"encoding/json"
)

// =============================================================================
// PRESET POLICIES
// =============================================================================
//
// Presets return JSON so they travel through the same parser as policies
// coming from the API or the database.

// StandardOfficeJSON returns JSON for a 09:00-17:00 Monday to Friday policy.
func StandardOfficeJSON(id, name string, graceMinutes, overtimeThresholdMinutes int) string {
	pj := map[string]interface{}{
		"id":                         id,
		"name":                       name,
		"working_days":               []string{"Mon", "Tue", "Wed", "Thu", "Fri"},
		"off_days":                   []string{"Sat", "Sun"},
		"work_start":                 "09:00",
		"work_end":                   "17:00",
		"late_grace_minutes":         graceMinutes,
		"overtime_threshold_minutes": overtimeThresholdMinutes,
	}
	b, _ := json.MarshalIndent(pj, "", "  ")
	return string(b)
}

// FieldShiftJSON returns JSON for an early six-day field shift
// (07:00-15:00 Monday to Saturday, Sunday off).
func FieldShiftJSON(id, name string, graceMinutes, overtimeThresholdMinutes int) string {
	pj := map[string]interface{}{
		"id":                         id,
		"name":                       name,
		"working_days":               []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
		"off_days":                   []string{"Sun"},
		"work_start":                 "07:00",
		"work_end":                   "15:00",
		"late_grace_minutes":         graceMinutes,
		"overtime_threshold_minutes": overtimeThresholdMinutes,
	}
	b, _ := json.MarshalIndent(pj, "", "  ")
	return string(b)
}

// PartTimeJSON returns JSON for a half-day policy on the given weekdays.
func PartTimeJSON(id, name string, days []string, start, end string) string {
	pj := map[string]interface{}{
		"id":                         id,
		"name":                       name,
		"working_days":               days,
		"work_start":                 start,
		"work_end":                   end,
		"late_grace_minutes":         5,
		"overtime_threshold_minutes": 15,
	}
	b, _ := json.MarshalIndent(pj, "", "  ")
	return string(b)
}
