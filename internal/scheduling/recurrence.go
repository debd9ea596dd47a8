package scheduling

import (
	"time"

	"github.com/samber/lo"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

// MaterializedClass pairs a class whose pattern matches a date with whether a
// live occurrence row exists for that date.
type MaterializedClass struct {
	Class             models.RecurringClass
	Occurrence        *models.ClassOccurrence
	HasLiveOccurrence bool
}

// CandidatesForDate selects the schedulable classes of a branch whose weekly
// pattern and active date range include date. A matching pattern alone does
// not mean the class runs; see Reconcile.
func CandidatesForDate(classes []models.RecurringClass, date time.Time, branchID string) []models.RecurringClass {
	weekday := date.Weekday()
	return lo.Filter(classes, func(c models.RecurringClass, _ int) bool {
		return c.BranchID == branchID &&
			c.Status.Schedulable() &&
			c.MeetsOn(weekday) &&
			WithinDays(date, c.StartDate, c.EndDate)
	})
}

// IndexOccurrences keys occurrences by class id. When a class has several rows
// for the same date a live row wins over a cancelled one.
func IndexOccurrences(occurrences []models.ClassOccurrence) map[string]models.ClassOccurrence {
	index := make(map[string]models.ClassOccurrence, len(occurrences))
	for _, occ := range occurrences {
		existing, ok := index[occ.ClassID]
		if ok && existing.Live() {
			continue
		}
		index[occ.ClassID] = occ
	}
	return index
}

// Reconcile flags each candidate with whether its occurrence for the date
// exists and is not cancelled.
func Reconcile(candidates []models.RecurringClass, occurrences map[string]models.ClassOccurrence) []MaterializedClass {
	out := make([]MaterializedClass, 0, len(candidates))
	for _, class := range candidates {
		mc := MaterializedClass{Class: class}
		if occ, ok := occurrences[class.ID]; ok {
			mc.Occurrence = &occ
			mc.HasLiveOccurrence = occ.Live()
		}
		out = append(out, mc)
	}
	return out
}

// LiveClasses keeps only the reconciled classes that actually occur.
func LiveClasses(materialized []MaterializedClass) []models.RecurringClass {
	return lo.FilterMap(materialized, func(mc MaterializedClass, _ int) (models.RecurringClass, bool) {
		return mc.Class, mc.HasLiveOccurrence
	})
}
