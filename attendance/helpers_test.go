package attendance_test

import (
	"time"

	"github.com/warp/attendance-engine/attendance"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) attendance.Date {
	return attendance.NewDate(year, month, day)
}

func datePtr(year int, month time.Month, day int) *attendance.Date {
	d := date(year, month, day)
	return &d
}

func clock(d attendance.Date, hour, minute int) *time.Time {
	t := time.Date(d.Year, d.Month, d.Day, hour, minute, 0, 0, time.UTC)
	return &t
}

// officePolicy is 09:00-17:00 Mon-Fri, 10 minutes grace, 30 minutes threshold.
func officePolicy(id attendance.PolicyID) attendance.AttendancePolicy {
	return attendance.AttendancePolicy{
		ID:                       id,
		Name:                     "Office " + string(id),
		WorkingDays:              attendance.MondayToFriday,
		WorkStart:                attendance.MustTimeOfDay(9, 0),
		WorkEnd:                  attendance.MustTimeOfDay(17, 0),
		LateGraceMinutes:         10,
		OvertimeThresholdMinutes: 30,
	}
}

func effective(p attendance.AttendancePolicy) attendance.EffectivePolicy {
	return attendance.EffectivePolicy{AttendancePolicy: p, AssignmentID: "assign-" + attendance.AssignmentID(p.ID)}
}

func record(user attendance.UserID, d attendance.Date, in, out *time.Time) *attendance.AttendanceRecord {
	return &attendance.AttendanceRecord{ID: "rec-" + d.String(), UserID: user, Date: d, ClockIn: in, ClockOut: out}
}

var (
	march3  = date(2025, time.March, 3) // Monday
	march4  = date(2025, time.March, 4) // Tuesday
	march8  = date(2025, time.March, 8) // Saturday
	march9  = date(2025, time.March, 9) // Sunday
	march31 = date(2025, time.March, 31)
	march   = attendance.MonthRange(2025, time.March)
)
