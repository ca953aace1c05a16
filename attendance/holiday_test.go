package attendance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warp/attendance-engine/attendance"
)

// =============================================================================
// HOLIDAY RESOLUTION TESTS
// =============================================================================

func TestResolveHolidays_Scopes(t *testing.T) {
	// GIVEN: Holidays at every scope level
	// WHEN: Resolving for a user placed in company c1, location l1
	// THEN: Only matching scopes contribute

	placement := attendance.Placement{CompanyID: "c1", LocationID: "l1", AreaID: "a1", TerritoryID: "t1"}
	holidays := []attendance.Holiday{
		{ID: "h1", Scope: attendance.ScopeGlobal, Date: date(2025, time.March, 3)},
		{ID: "h2", Scope: attendance.ScopeCompany, ScopeID: "c1", Date: date(2025, time.March, 4)},
		{ID: "h3", Scope: attendance.ScopeCompany, ScopeID: "c2", Date: date(2025, time.March, 5)},
		{ID: "h4", Scope: attendance.ScopeLocation, ScopeID: "l1", Date: date(2025, time.March, 6)},
		{ID: "h5", Scope: attendance.ScopeArea, ScopeID: "a2", Date: date(2025, time.March, 7)},
		{ID: "h6", Scope: attendance.ScopeTerritory, ScopeID: "t1", Date: date(2025, time.March, 10)},
		{ID: "h7", Scope: attendance.ScopeUser, ScopeID: "emp-1", Date: date(2025, time.March, 11)},
		{ID: "h8", Scope: attendance.ScopeUser, ScopeID: "emp-2", Date: date(2025, time.March, 12)},
	}

	set := attendance.ResolveHolidays(holidays, "emp-1", placement, march)

	for _, d := range []int{3, 4, 6, 10, 11} {
		assert.True(t, set.Contains(date(2025, time.March, d)), "March %d", d)
	}
	for _, d := range []int{5, 7, 12} {
		assert.False(t, set.Contains(date(2025, time.March, d)), "March %d", d)
	}
}

func TestResolveHolidays_EmptyPlacementIgnoresScopedHolidays(t *testing.T) {
	holidays := []attendance.Holiday{
		{ID: "h1", Scope: attendance.ScopeCompany, ScopeID: "", Date: march4},
		{ID: "h2", Scope: attendance.ScopeArea, ScopeID: "a1", Date: march3},
	}

	set := attendance.ResolveHolidays(holidays, "emp-1", attendance.Placement{}, march)
	assert.Empty(t, set)
}

func TestResolveHolidays_Recurring(t *testing.T) {
	christmas := attendance.Holiday{ID: "xmas", Date: date(2020, time.December, 25), Recurring: true}
	leap := attendance.Holiday{ID: "leap", Date: date(2024, time.February, 29), Recurring: true}
	rng := attendance.DateRange{Start: date(2024, time.December, 1), End: date(2026, time.March, 1)}

	set := attendance.ResolveHolidays([]attendance.Holiday{christmas, leap}, "emp-1", attendance.Placement{}, rng)

	assert.True(t, set.Contains(date(2024, time.December, 25)))
	assert.True(t, set.Contains(date(2025, time.December, 25)))
	assert.False(t, set.Contains(date(2025, time.March, 1)), "Feb 29 does not roll over to March 1")
	assert.Len(t, set, 2)
}

func TestResolveHolidays_OutsideRangeSkipped(t *testing.T) {
	h := attendance.Holiday{ID: "h1", Date: date(2025, time.April, 18)}
	set := attendance.ResolveHolidays([]attendance.Holiday{h}, "emp-1", attendance.Placement{}, march)
	assert.Empty(t, set)
}

func TestParseHolidayScope(t *testing.T) {
	s, ok := attendance.ParseHolidayScope("")
	assert.True(t, ok)
	assert.Equal(t, attendance.ScopeGlobal, s)

	s, ok = attendance.ParseHolidayScope("territory")
	assert.True(t, ok)
	assert.Equal(t, attendance.ScopeTerritory, s)

	_, ok = attendance.ParseHolidayScope("planet")
	assert.False(t, ok)
}

func TestStaticCalendar(t *testing.T) {
	cal := attendance.StaticCalendar{
		PerUser: map[attendance.UserID]attendance.HolidaySet{"emp-1": attendance.NewHolidaySet(march3)},
		Default: attendance.NewHolidaySet(march4),
	}

	assert.True(t, cal.IsHoliday("emp-1", march3))
	assert.False(t, cal.IsHoliday("emp-1", march4), "per-user set replaces the default")
	assert.True(t, cal.IsHoliday("emp-2", march4))

	var empty attendance.StaticCalendar
	assert.False(t, empty.IsHoliday("emp-1", march3))
}
