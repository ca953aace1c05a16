package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attendance-engine/attendance"
)

// =============================================================================
// CALENDAR RESOLVER TESTS
// =============================================================================

func TestIsWorkingDay_Weekdays(t *testing.T) {
	policy := effective(officePolicy("office"))

	assert.True(t, attendance.IsWorkingDay(march3, policy, nil), "Monday")
	assert.True(t, attendance.IsWorkingDay(march4, policy, nil), "Tuesday")
	assert.False(t, attendance.IsWorkingDay(march8, policy, nil), "Saturday")
	assert.False(t, attendance.IsWorkingDay(march9, policy, nil), "Sunday")
}

func TestIsWorkingDay_HolidayOverridesWorkingDay(t *testing.T) {
	// GIVEN: A Monday that is in workingDays but also a holiday
	// THEN: Not a working day

	policy := effective(officePolicy("office"))
	holidays := attendance.NewHolidaySet(march3)

	assert.False(t, attendance.IsWorkingDay(march3, policy, holidays))
	assert.True(t, attendance.IsWorkingDay(march4, policy, holidays))
}

func TestIsWorkingDay_HolidayAbsoluteEvenIfEveryDayWorks(t *testing.T) {
	p := officePolicy("seven-day")
	p.WorkingDays = attendance.NewWeekdays(time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday)
	policy := effective(p)
	holidays := attendance.NewHolidaySet(march8, march9)

	assert.False(t, attendance.IsWorkingDay(march8, policy, holidays))
	assert.False(t, attendance.IsWorkingDay(march9, policy, holidays))
	assert.True(t, attendance.IsWorkingDay(date(2025, time.March, 15), policy, holidays))
}

func TestIsWorkingDay_OffDaysBeatWorkingDays(t *testing.T) {
	// GIVEN: Friday listed in both workingDays and offDays
	// THEN: Friday is off

	p := officePolicy("office")
	p.OffDays = attendance.NewWeekdays(time.Friday)
	policy := effective(p)

	friday := date(2025, time.March, 7)
	assert.False(t, attendance.IsWorkingDay(friday, policy, nil))
	assert.True(t, attendance.IsWorkingDay(date(2025, time.March, 6), policy, nil), "Thursday unaffected")
}

// =============================================================================
// EVALUATOR TESTS
// =============================================================================

func TestEvaluate_LateWithOvertime(t *testing.T) {
	// GIVEN: 09:00-17:00 policy, 10 min grace, 30 min threshold
	// WHEN: Clock-in 09:15, clock-out 17:45 on a Tuesday
	// THEN: Late, present, 15 minutes overtime (45 over - 30 threshold)

	policy := effective(officePolicy("office"))
	rec := record("emp-1", march4, clock(march4, 9, 15), clock(march4, 17, 45))
	working := attendance.IsWorkingDay(march4, policy, attendance.NewHolidaySet())
	require.True(t, working)

	outcome, err := attendance.Evaluate(rec, policy, working)
	require.NoError(t, err)
	assert.Equal(t, attendance.Outcome{IsLate: true, IsAbsent: false, OvertimeMinutes: 15}, outcome)
}

func TestEvaluate_OnTimeBelowThreshold(t *testing.T) {
	// GIVEN: Clock-in 08:55, clock-out 17:05
	// THEN: Not late, overtime clamped to 0 (5 minutes < 30 threshold)

	policy := effective(officePolicy("office"))
	rec := record("emp-1", march4, clock(march4, 8, 55), clock(march4, 17, 5))

	outcome, err := attendance.Evaluate(rec, policy, true)
	require.NoError(t, err)
	assert.Equal(t, attendance.Outcome{}, outcome)
}

func TestEvaluate_GraceBoundaryIsInclusive(t *testing.T) {
	policy := effective(officePolicy("office"))

	atLimit := record("emp-1", march4, clock(march4, 9, 10), nil)
	outcome, err := attendance.Evaluate(atLimit, policy, true)
	require.NoError(t, err)
	assert.False(t, outcome.IsLate, "09:10:00 is within a 10 minute grace")

	in := time.Date(2025, time.March, 4, 9, 10, 1, 0, time.UTC)
	justAfter := record("emp-1", march4, &in, nil)
	outcome, err = attendance.Evaluate(justAfter, policy, true)
	require.NoError(t, err)
	assert.True(t, outcome.IsLate, "09:10:01 is late")
}

func TestEvaluate_SaturdayShortCircuit(t *testing.T) {
	// GIVEN: A Saturday with a very late clock-in and long clock-out
	// THEN: Zero outcome; off days are never evaluated

	policy := effective(officePolicy("office"))
	rec := record("emp-1", march8, clock(march8, 13, 0), clock(march8, 22, 0))
	working := attendance.IsWorkingDay(march8, policy, nil)
	require.False(t, working)

	outcome, err := attendance.Evaluate(rec, policy, working)
	require.NoError(t, err)
	assert.Equal(t, attendance.Outcome{}, outcome)
}

func TestEvaluate_NonWorkingDay_IgnoresMalformedRecord(t *testing.T) {
	policy := effective(officePolicy("office"))
	rec := record("emp-1", march8, clock(march8, 17, 0), clock(march8, 9, 0))

	outcome, err := attendance.Evaluate(rec, policy, false)
	require.NoError(t, err)
	assert.Equal(t, attendance.Outcome{}, outcome)
}

func TestEvaluate_HolidayMonday(t *testing.T) {
	policy := effective(officePolicy("office"))
	working := attendance.IsWorkingDay(march3, policy, attendance.NewHolidaySet(march3))

	outcome, err := attendance.Evaluate(nil, policy, working)
	require.NoError(t, err)
	assert.False(t, outcome.IsAbsent, "holiday is not an absence")
}

func TestEvaluate_Absent(t *testing.T) {
	policy := effective(officePolicy("office"))

	outcome, err := attendance.Evaluate(nil, policy, true)
	require.NoError(t, err)
	assert.Equal(t, attendance.Outcome{IsAbsent: true}, outcome)

	// A record with only a clock-out still counts as absent
	outcome, err = attendance.Evaluate(record("emp-1", march4, nil, clock(march4, 17, 0)), policy, true)
	require.NoError(t, err)
	assert.True(t, outcome.IsAbsent)
}

func TestEvaluate_VeryLateIsNotAbsent(t *testing.T) {
	policy := effective(officePolicy("office"))
	rec := record("emp-1", march4, clock(march4, 16, 30), nil)

	outcome, err := attendance.Evaluate(rec, policy, true)
	require.NoError(t, err)
	assert.True(t, outcome.IsLate)
	assert.False(t, outcome.IsAbsent)
}

func TestEvaluate_StillClockedIn_NoOvertime(t *testing.T) {
	policy := effective(officePolicy("office"))
	rec := record("emp-1", march4, clock(march4, 8, 45), nil)

	outcome, err := attendance.Evaluate(rec, policy, true)
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.OvertimeMinutes)

	// Re-evaluating after clock-out is safe and picks up overtime
	rec.ClockOut = clock(march4, 18, 0)
	outcome, err = attendance.Evaluate(rec, policy, true)
	require.NoError(t, err)
	assert.Equal(t, 30, outcome.OvertimeMinutes)
}

func TestEvaluate_EarlyLeave_NoNegativeOvertime(t *testing.T) {
	policy := effective(officePolicy("office"))
	rec := record("emp-1", march4, clock(march4, 9, 0), clock(march4, 12, 0))

	outcome, err := attendance.Evaluate(rec, policy, true)
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.OvertimeMinutes)
}

func TestEvaluate_ClockOutBeforeClockIn_Malformed(t *testing.T) {
	policy := effective(officePolicy("office"))
	rec := record("emp-1", march4, clock(march4, 17, 0), clock(march4, 9, 0))

	_, err := attendance.Evaluate(rec, policy, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, attendance.ErrMalformedRecord)

	var malformed *attendance.MalformedRecordError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, attendance.UserID("emp-1"), malformed.UserID)
	assert.Equal(t, march4, malformed.Date)
	assert.True(t, attendance.IsClientError(err))
}

func TestEvaluate_OvernightPair_Malformed(t *testing.T) {
	policy := effective(officePolicy("office"))
	next := march4.AddDays(1)
	rec := record("emp-1", march4, clock(march4, 9, 0), clock(next, 1, 0))

	_, err := attendance.Evaluate(rec, policy, true)
	assert.ErrorIs(t, err, attendance.ErrMalformedRecord)
}

func TestEvaluate_InvalidPolicy(t *testing.T) {
	p := officePolicy("broken")
	p.WorkStart, p.WorkEnd = p.WorkEnd, p.WorkStart

	_, err := attendance.Evaluate(nil, effective(p), true)
	assert.ErrorIs(t, err, attendance.ErrInvalidPolicy)

	p = officePolicy("negative")
	p.LateGraceMinutes = -5
	_, err = attendance.Evaluate(nil, effective(p), true)
	assert.ErrorIs(t, err, attendance.ErrInvalidPolicy)
}

func TestEvaluate_UsesTimeOfDayOnly(t *testing.T) {
	// GIVEN: Clock times carried in a non-UTC location
	// THEN: The wall clock in that location is what gets compared

	loc := time.FixedZone("UTC+7", 7*3600)
	in := time.Date(2025, time.March, 4, 9, 5, 0, 0, loc)
	out := time.Date(2025, time.March, 4, 18, 0, 0, 0, loc)
	rec := &attendance.AttendanceRecord{UserID: "emp-1", Date: march4, ClockIn: &in, ClockOut: &out}

	outcome, err := attendance.Evaluate(rec, effective(officePolicy("office")), true)
	require.NoError(t, err)
	assert.False(t, outcome.IsLate)
	assert.Equal(t, 30, outcome.OvertimeMinutes)
}
