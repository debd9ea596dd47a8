package scheduling

import (
	"time"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

// MatchHoliday finds the holiday closing branchID on date. When several rows
// match, a branch-scoped holiday is preferred over a national one; otherwise
// the first match in input order is used.
func MatchHoliday(holidays []models.Holiday, date time.Time, branchID string) (models.Holiday, bool) {
	var (
		found    models.Holiday
		hasMatch bool
	)
	for _, h := range holidays {
		if !SameDay(h.Date, date) || !h.AppliesTo(branchID) {
			continue
		}
		if !hasMatch {
			found, hasMatch = h, true
			if h.Scope == models.HolidayScopeBranch {
				break
			}
			continue
		}
		if h.Scope == models.HolidayScopeBranch {
			found = h
			break
		}
	}
	return found, hasMatch
}
