// Package scheduling holds the pure availability and conflict rules of the
// branch timetable. Nothing here performs I/O; callers load the records and
// pass them in.
//
// Times of day are "HH:MM" strings in 24-hour form. Callers must keep them
// zero-padded: comparisons are lexical, which matches chronological order only
// for that shape.
package scheduling

import (
	"fmt"
	"regexp"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Window is a half-open time-of-day range [Start, End).
type Window struct {
	Start string
	End   string
}

// String renders the window as "HH:MM-HH:MM".
func (w Window) String() string {
	return fmt.Sprintf("%s-%s", w.Start, w.End)
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
// Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

// Overlaps reports whether the two windows intersect.
func (w Window) Overlaps(other Window) bool {
	return Overlaps(w.Start, w.End, other.Start, other.End)
}

// ValidClock reports whether s is a zero-padded 24-hour "HH:MM" value.
func ValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// ValidWindow reports whether both ends are well formed and start < end.
func ValidWindow(start, end string) bool {
	return ValidClock(start) && ValidClock(end) && start < end
}
