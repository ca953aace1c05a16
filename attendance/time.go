package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// DATE - Day-granular calendar date (comparable, usable as a map key)
// =============================================================================

// Date is a calendar date with no time-of-day and no location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

// NewDate normalises overflowing values (e.g. Jan 32 -> Feb 1).
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func Today() Date { return DateOf(time.Now()) }

func (d Date) Time() time.Time { return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC) }

// Comparison
func (d Date) Before(o Date) bool        { return d.Time().Before(o.Time()) }
func (d Date) After(o Date) bool         { return d.Time().After(o.Time()) }
func (d Date) Equal(o Date) bool         { return d == o }
func (d Date) BeforeOrEqual(o Date) bool { return !d.After(o) }
func (d Date) AfterOrEqual(o Date) bool  { return !d.Before(o) }

// Arithmetic
func (d Date) AddDays(n int) Date { return DateOf(d.Time().AddDate(0, 0, n)) }

// Properties
func (d Date) Weekday() time.Weekday { return d.Time().Weekday() }
func (d Date) IsZero() bool          { return d == Date{} }
func (d Date) String() string        { return d.Time().Format(dateLayout) }

func MinDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// DaysBetween counts calendar days from -> to (negative if to is earlier).
func DaysBetween(from, to Date) int { return int(to.Time().Sub(from.Time()).Hours() / 24) }

// =============================================================================
// DATE RANGE - Inclusive [Start, End] window
// =============================================================================

// DateRange is an inclusive range of calendar days. Reporting runs are always
// bounded by one: typically a pay period or a month.
type DateRange struct {
	Start Date
	End   Date
}

// Valid reports whether Start <= End.
func (r DateRange) Valid() bool { return r.Start.BeforeOrEqual(r.End) }

// Contains returns true if d is within [Start, End].
func (r DateRange) Contains(d Date) bool {
	return d.AfterOrEqual(r.Start) && d.BeforeOrEqual(r.End)
}

// Len is the number of days in the range, 0 for an empty one.
func (r DateRange) Len() int {
	if !r.Valid() {
		return 0
	}
	return DaysBetween(r.Start, r.End) + 1
}

// Days returns every day in the range in ascending order.
func (r DateRange) Days() []Date {
	days := make([]Date, 0, r.Len())
	for current := r.Start; current.BeforeOrEqual(r.End); current = current.AddDays(1) {
		days = append(days, current)
	}
	return days
}

// Clamp intersects an interval starting at start and ending at end (nil =
// open-ended) with r. ok is false when the intersection is empty.
func (r DateRange) Clamp(start Date, end *Date) (DateRange, bool) {
	upper := r.End
	if end != nil {
		upper = MinDate(*end, r.End)
	}
	clamped := DateRange{Start: MaxDate(start, r.Start), End: upper}
	return clamped, clamped.Valid()
}

func (r DateRange) String() string {
	return "[" + r.Start.String() + ", " + r.End.String() + "]"
}

// MonthRange returns the first to last day of a month.
func MonthRange(year int, month time.Month) DateRange {
	start := NewDate(year, month, 1)
	return DateRange{Start: start, End: NewDate(year, month+1, 1).AddDays(-1)}
}

// =============================================================================
// TIME OF DAY - Wall-clock time without a date
// =============================================================================

// TimeOfDay is the number of seconds since midnight. All attendance
// comparisons happen on time-of-day so date rollover and zones never leak in.
type TimeOfDay int

const (
	secondsPerMinute = 60
	secondsPerDay    = 24 * 60 * 60
)

// NewTimeOfDay validates hour, minute and second ranges.
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, fmt.Errorf("time of day %02d:%02d:%02d out of range", hour, minute, second)
	}
	return TimeOfDay(hour*3600 + minute*60 + second), nil
}

// MustTimeOfDay is NewTimeOfDay for constants and tests.
func MustTimeOfDay(hour, minute int) TimeOfDay {
	tod, err := NewTimeOfDay(hour, minute, 0)
	if err != nil {
		panic(err)
	}
	return tod
}

// ParseTimeOfDay accepts HH:MM or HH:MM:SS.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid time of day %q: want HH:MM or HH:MM:SS", s)
	}
	fields := [3]int{}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || len(p) == 0 || len(p) > 2 {
			return 0, fmt.Errorf("invalid time of day %q", s)
		}
		fields[i] = n
	}
	return NewTimeOfDay(fields[0], fields[1], fields[2])
}

// ClockOf extracts the wall-clock time of t in t's own location.
func ClockOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay(h*3600 + m*60 + s)
}

func (t TimeOfDay) Valid() bool { return t >= 0 && t < secondsPerDay }

// AddMinutes does not wrap around midnight; the result may be >= 24h, which
// still compares correctly against any valid time of day.
func (t TimeOfDay) AddMinutes(n int) TimeOfDay { return t + TimeOfDay(n*secondsPerMinute) }

// MinutesUntil returns whole minutes from t to other, negative when other is
// earlier. Partial minutes are truncated toward zero.
func (t TimeOfDay) MinutesUntil(other TimeOfDay) int {
	return int(other-t) / secondsPerMinute
}

func (t TimeOfDay) String() string {
	s := int(t)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}
