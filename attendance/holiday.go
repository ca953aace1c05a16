package attendance

// =============================================================================
// HOLIDAY CALENDAR - Scoped holidays
// =============================================================================

// HolidayScope says which part of the organisation a holiday applies to.
type HolidayScope string

const (
	ScopeGlobal    HolidayScope = "global"
	ScopeCompany   HolidayScope = "company"
	ScopeLocation  HolidayScope = "location"
	ScopeArea      HolidayScope = "area"
	ScopeTerritory HolidayScope = "territory"
	ScopeUser      HolidayScope = "user"
)

// ParseHolidayScope maps an empty string to ScopeGlobal.
func ParseHolidayScope(s string) (HolidayScope, bool) {
	switch HolidayScope(s) {
	case "", ScopeGlobal:
		return ScopeGlobal, true
	case ScopeCompany, ScopeLocation, ScopeArea, ScopeTerritory, ScopeUser:
		return HolidayScope(s), true
	}
	return "", false
}

// Holiday is a non-working date for everyone matching Scope/ScopeID.
type Holiday struct {
	ID        string
	Scope     HolidayScope
	ScopeID   string // company/location/area/territory/user ID; empty for global
	Date      Date
	Name      string
	Recurring bool // same month/day every year
}

// AppliesTo reports whether the holiday's scope covers the user.
func (h Holiday) AppliesTo(user UserID, p Placement) bool {
	switch h.Scope {
	case ScopeGlobal, "":
		return true
	case ScopeCompany:
		return h.ScopeID != "" && h.ScopeID == p.CompanyID
	case ScopeLocation:
		return h.ScopeID != "" && h.ScopeID == p.LocationID
	case ScopeArea:
		return h.ScopeID != "" && h.ScopeID == p.AreaID
	case ScopeTerritory:
		return h.ScopeID != "" && h.ScopeID == p.TerritoryID
	case ScopeUser:
		return h.ScopeID == string(user)
	}
	return false
}

// OccursOn reports whether the holiday falls on d, honouring Recurring.
func (h Holiday) OccursOn(d Date) bool {
	if h.Recurring {
		return h.Date.Month == d.Month && h.Date.Day == d.Day
	}
	return h.Date == d
}

// ResolveHolidays flattens scoped holidays into the set of dates in rng that
// are holidays for one user.
func ResolveHolidays(holidays []Holiday, user UserID, placement Placement, rng DateRange) HolidaySet {
	set := make(HolidaySet)
	for _, h := range holidays {
		if !h.AppliesTo(user, placement) {
			continue
		}
		if !h.Recurring {
			if rng.Contains(h.Date) {
				set.Add(h.Date)
			}
			continue
		}
		for year := rng.Start.Year; year <= rng.End.Year; year++ {
			d := Date{Year: year, Month: h.Date.Month, Day: h.Date.Day}
			// Feb 29 only recurs in leap years.
			if NewDate(year, h.Date.Month, h.Date.Day) != d {
				continue
			}
			if rng.Contains(d) {
				set.Add(d)
			}
		}
	}
	return set
}

// StaticCalendar holds pre-resolved per-user holiday sets.
// Users without an entry fall back to Default.
type StaticCalendar struct {
	PerUser map[UserID]HolidaySet
	Default HolidaySet
}

func (c StaticCalendar) IsHoliday(user UserID, date Date) bool {
	return c.For(user).Contains(date)
}

// For returns the holiday set used for user.
func (c StaticCalendar) For(user UserID) HolidaySet {
	if s, ok := c.PerUser[user]; ok {
		return s
	}
	return c.Default
}
