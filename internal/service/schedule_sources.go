package service

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
	"github.com/noah-isme/tutoring-schedule-api/internal/scheduling"
)

type classLister interface {
	ListByBranch(ctx context.Context, branchID string) ([]models.RecurringClass, error)
}

type occurrenceLister interface {
	ListByClassesAndDate(ctx context.Context, classIDs []string, date time.Time) ([]models.ClassOccurrence, error)
}

type makeupLister interface {
	ListScheduled(ctx context.Context, branchID string, date time.Time) ([]models.MakeupSession, error)
}

type trialLister interface {
	ListScheduled(ctx context.Context, branchID string, date time.Time) ([]models.TrialSession, error)
}

type holidayDescriber interface {
	Describe(ctx context.Context, date time.Time, branchID string) (bool, string, error)
}

// ScheduleSources groups the read-only record sources the engine consumes.
type ScheduleSources struct {
	Classes     classLister
	Occurrences occurrenceLister
	Makeups     makeupLister
	Trials      trialLister
	Holidays    holidayDescriber
}

// materializedDay is the class view of one branch and date.
type materializedDay struct {
	all          []models.RecurringClass
	materialized []scheduling.MaterializedClass
}

func (d materializedDay) live() []models.RecurringClass {
	return scheduling.LiveClasses(d.materialized)
}

func (d materializedDay) byID() map[string]models.RecurringClass {
	return lo.KeyBy(d.all, func(c models.RecurringClass) string { return c.ID })
}

// materialize loads the branch's classes and reconciles the date's candidates
// with their occurrence rows.
func (s ScheduleSources) materialize(ctx context.Context, branchID string, date time.Time) (materializedDay, error) {
	classes, err := s.Classes.ListByBranch(ctx, branchID)
	if err != nil {
		return materializedDay{}, err
	}
	candidates := scheduling.CandidatesForDate(classes, date, branchID)
	if len(candidates) == 0 {
		return materializedDay{all: classes}, nil
	}
	ids := lo.Map(candidates, func(c models.RecurringClass, _ int) string { return c.ID })
	occurrences, err := s.Occurrences.ListByClassesAndDate(ctx, ids, date)
	if err != nil {
		return materializedDay{}, err
	}
	return materializedDay{
		all:          classes,
		materialized: scheduling.Reconcile(candidates, scheduling.IndexOccurrences(occurrences)),
	}, nil
}
