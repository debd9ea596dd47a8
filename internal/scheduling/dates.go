package scheduling

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// dayKey collapses a timestamp to its calendar day in its own location.
func dayKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// SameDay compares calendar days, ignoring time of day.
func SameDay(a, b time.Time) bool {
	return dayKey(a) == dayKey(b)
}

// WithinDays reports whether day falls in [from, to], inclusive, by calendar day.
func WithinDays(day, from, to time.Time) bool {
	k := dayKey(day)
	return dayKey(from) <= k && k <= dayKey(to)
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParseDate parses a "YYYY-MM-DD" date at midnight in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, raw, loc)
}
