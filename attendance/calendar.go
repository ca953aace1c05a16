package attendance

// HolidaySet is a set of non-working dates already resolved for one user.
type HolidaySet map[Date]struct{}

func NewHolidaySet(dates ...Date) HolidaySet {
	s := make(HolidaySet, len(dates))
	for _, d := range dates {
		s[d] = struct{}{}
	}
	return s
}

// Contains is safe on a nil set.
func (s HolidaySet) Contains(d Date) bool {
	_, ok := s[d]
	return ok
}

func (s HolidaySet) Add(d Date) { s[d] = struct{}{} }

// IsWorkingDay decides whether attendance is expected on date under policy.
//
// Precedence, highest first: holidays, OffDays, WorkingDays. A weekday listed
// in both OffDays and WorkingDays is off.
func IsWorkingDay(date Date, policy EffectivePolicy, holidays HolidaySet) bool {
	if holidays.Contains(date) {
		return false
	}
	weekday := date.Weekday()
	if policy.OffDays.Has(weekday) {
		return false
	}
	return policy.WorkingDays.Has(weekday)
}
