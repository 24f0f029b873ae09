// internal/domain/dashboard/datefilter.go
package dashboard

import "time"

// Range selects the charting window driving the date boundary calculation.
type Range string

const (
	RangeToday Range = "today"
	RangeWeek  Range = "week"
	RangeMonth Range = "month"
	RangeYear  Range = "year"
)

// ParseRange maps a raw query value to a Range, defaulting to today.
func ParseRange(raw string) Range {
	switch Range(raw) {
	case RangeWeek, RangeMonth, RangeYear:
		return Range(raw)
	default:
		return RangeToday
	}
}

// DateKeyLayout is the canonical date-only key format used as an exact
// match against stored date strings.
const DateKeyLayout = "2006-01-02"

// DateFilter is an immutable half-open-ish window: [Start, End] where End
// is the last instant of the reference day. Boundaries use local wall-clock
// time because the stored date strings are local date-only values.
type DateFilter struct {
	Type  Range
	Start time.Time
	End   time.Time

	// DateString is the reference day as YYYY-MM-DD, used as an exact-match
	// key (not a range).
	DateString string
}

// NewDateFilter computes the window for a reference date and range.
//
//	today: the reference day only
//	week:  trailing 7 days ending on the reference day (not a calendar week)
//	month: first of the reference month through end of the reference day
//	year:  Jan 1 of the reference year through end of the reference day
func NewDateFilter(ref time.Time, rng Range) DateFilter {
	ref = ref.In(time.Local)
	y, m, d := ref.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	dayEnd := time.Date(y, m, d, 23, 59, 59, 999_000_000, time.Local)

	f := DateFilter{
		Type:       rng,
		End:        dayEnd,
		DateString: dayStart.Format(DateKeyLayout),
	}

	switch rng {
	case RangeWeek:
		f.Start = dayStart.AddDate(0, 0, -6)
	case RangeMonth:
		f.Start = time.Date(y, m, 1, 0, 0, 0, 0, time.Local)
	case RangeYear:
		f.Start = time.Date(y, time.January, 1, 0, 0, 0, 0, time.Local)
	default:
		f.Type = RangeToday
		f.Start = dayStart
	}

	return f
}

// Contains reports whether t falls inside the window.
func (f DateFilter) Contains(t time.Time) bool {
	return !t.Before(f.Start) && !t.After(f.End)
}

// ContainsDateString parses a stored date-only string and reports whether
// that day falls inside the window. Malformed or empty strings match
// nothing.
func (f DateFilter) ContainsDateString(s string) bool {
	t, ok := ParseDateKey(s)
	if !ok {
		return false
	}
	return f.Contains(t)
}

// ParseDateKey parses a YYYY-MM-DD string in local time. The second return
// is false for empty or malformed values.
func ParseDateKey(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateKeyLayout, s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
