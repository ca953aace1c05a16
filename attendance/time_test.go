package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attendance-engine/attendance"
)

func TestDate_ParseAndFormat(t *testing.T) {
	d, err := attendance.ParseDate("2025-03-04")
	require.NoError(t, err)
	assert.Equal(t, march4, d)
	assert.Equal(t, "2025-03-04", d.String())
	assert.Equal(t, time.Tuesday, d.Weekday())

	_, err = attendance.ParseDate("04/03/2025")
	assert.Error(t, err)
}

func TestDate_Arithmetic(t *testing.T) {
	assert.Equal(t, date(2025, time.March, 1), date(2025, time.February, 28).AddDays(1))
	assert.Equal(t, date(2024, time.March, 1), date(2024, time.February, 29).AddDays(1))
	assert.Equal(t, 30, attendance.DaysBetween(date(2025, time.March, 1), march31))
	assert.True(t, march3.Before(march4))
	assert.True(t, march4.AfterOrEqual(march4))
	assert.Equal(t, march3, attendance.MinDate(march4, march3))
	assert.Equal(t, march4, attendance.MaxDate(march4, march3))
}

func TestDateRange(t *testing.T) {
	feb := attendance.MonthRange(2024, time.February)
	assert.Equal(t, 29, feb.Len())
	assert.Equal(t, 31, march.Len())
	assert.Len(t, march.Days(), 31)
	assert.True(t, march.Contains(march31))
	assert.False(t, march.Contains(date(2025, time.April, 1)))

	inverted := attendance.DateRange{Start: march31, End: march3}
	assert.False(t, inverted.Valid())
	assert.Equal(t, 0, inverted.Len())
}

func TestDateRange_Clamp(t *testing.T) {
	// Open-ended assignment starting mid-month
	got, ok := march.Clamp(march4, nil)
	require.True(t, ok)
	assert.Equal(t, attendance.DateRange{Start: march4, End: march31}, got)

	// Closed assignment spanning the whole month and beyond
	got, ok = march.Clamp(date(2024, time.January, 1), datePtr(2026, time.January, 1))
	require.True(t, ok)
	assert.Equal(t, march, got)

	// Ends before the range starts
	_, ok = march.Clamp(date(2024, time.January, 1), datePtr(2025, time.February, 28))
	assert.False(t, ok)
}

func TestTimeOfDay(t *testing.T) {
	tod, err := attendance.ParseTimeOfDay("09:15")
	require.NoError(t, err)
	assert.Equal(t, attendance.MustTimeOfDay(9, 15), tod)
	assert.Equal(t, "09:15:00", tod.String())

	tod, err = attendance.ParseTimeOfDay("17:45:30")
	require.NoError(t, err)
	assert.Equal(t, "17:45:30", tod.String())

	for _, bad := range []string{"", "9", "24:00", "12:60", "12:00:00:00", "12:3x", "123:00"} {
		_, err := attendance.ParseTimeOfDay(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestTimeOfDay_MinutesUntil(t *testing.T) {
	end := attendance.MustTimeOfDay(17, 0)
	assert.Equal(t, 45, end.MinutesUntil(attendance.MustTimeOfDay(17, 45)))
	assert.Equal(t, -60, end.MinutesUntil(attendance.MustTimeOfDay(16, 0)))

	// Partial minutes are truncated
	out := attendance.ClockOf(time.Date(2025, 3, 4, 17, 31, 59, 0, time.UTC))
	assert.Equal(t, 31, end.MinutesUntil(out))

	// Grace past midnight still compares
	late := attendance.MustTimeOfDay(23, 50).AddMinutes(20)
	assert.True(t, late > attendance.MustTimeOfDay(23, 59))
}
