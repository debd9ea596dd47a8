package scheduling

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

func day(raw string) time.Time {
	d, err := time.Parse(DateLayout, raw)
	if err != nil {
		panic(err)
	}
	return d
}

func python101() models.RecurringClass {
	return models.RecurringClass{
		ID:        "c-python",
		BranchID:  "B",
		RoomID:    "R101",
		TeacherID: "T1",
		SubjectID: "s-py",
		Name:      "Python101",
		StartDate: day("2024-05-01"),
		EndDate:   day("2024-08-31"),
		Weekdays:  pq.Int64Array{int64(time.Tuesday)},
		StartTime: "10:00",
		EndTime:   "11:30",
		Status:    models.ClassStatusStarted,
	}
}

func TestCandidatesForDate(t *testing.T) {
	draft := python101()
	draft.ID = "c-draft"
	draft.Status = models.ClassStatusDraft

	otherBranch := python101()
	otherBranch.ID = "c-other"
	otherBranch.BranchID = "B2"

	expired := python101()
	expired.ID = "c-expired"
	expired.EndDate = day("2024-06-03")

	classes := []models.RecurringClass{python101(), draft, otherBranch, expired}

	got := CandidatesForDate(classes, day("2024-06-04"), "B")
	require.Len(t, got, 1)
	assert.Equal(t, "c-python", got[0].ID)

	assert.Empty(t, CandidatesForDate(classes, day("2024-06-05"), "B"), "wednesday is not in the pattern")
	assert.Empty(t, CandidatesForDate(classes, day("2024-09-03"), "B"), "after end date")
}

func TestCandidatesForDateInclusiveBounds(t *testing.T) {
	class := python101()
	class.StartDate = day("2024-06-04")
	class.EndDate = day("2024-06-04")

	loc := time.FixedZone("ICT", 7*60*60)
	date := time.Date(2024, 6, 4, 0, 0, 0, 0, loc)

	assert.Len(t, CandidatesForDate([]models.RecurringClass{class}, date, "B"), 1)
}

func TestLiveClasses(t *testing.T) {
	candidates := []models.RecurringClass{python101()}

	t.Run("no occurrence row means not occurring", func(t *testing.T) {
		assert.Empty(t, LiveClasses(Reconcile(candidates, map[string]models.ClassOccurrence{})))
	})

	t.Run("cancelled occurrence means not occurring", func(t *testing.T) {
		occ := map[string]models.ClassOccurrence{
			"c-python": {ID: "o1", ClassID: "c-python", SessionDate: day("2024-06-11"), Status: models.OccurrenceCancelled},
		}
		assert.Empty(t, LiveClasses(Reconcile(candidates, occ)))
	})

	t.Run("rescheduled occurrence still occurs", func(t *testing.T) {
		occ := map[string]models.ClassOccurrence{
			"c-python": {ID: "o1", ClassID: "c-python", SessionDate: day("2024-06-04"), Status: models.OccurrenceRescheduled},
		}
		assert.Len(t, LiveClasses(Reconcile(candidates, occ)), 1)
	})
}

func TestIndexOccurrencesPrefersLiveRow(t *testing.T) {
	rows := []models.ClassOccurrence{
		{ID: "o1", ClassID: "c1", Status: models.OccurrenceCancelled},
		{ID: "o2", ClassID: "c1", Status: models.OccurrenceScheduled},
		{ID: "o3", ClassID: "c1", Status: models.OccurrenceCancelled},
	}
	index := IndexOccurrences(rows)
	assert.Equal(t, "o2", index["c1"].ID)
}

func TestReconcileIndexedOccurrences(t *testing.T) {
	other := python101()
	other.ID = "c-other"

	classes := []models.RecurringClass{python101(), other}
	occurrences := []models.ClassOccurrence{
		{ID: "o1", ClassID: "c-python", SessionDate: day("2024-06-04"), Status: models.OccurrenceScheduled},
	}

	got := Reconcile(CandidatesForDate(classes, day("2024-06-04"), "B"), IndexOccurrences(occurrences))
	require.Len(t, got, 2)
	assert.True(t, got[0].HasLiveOccurrence)
	require.NotNil(t, got[0].Occurrence)
	assert.Equal(t, "o1", got[0].Occurrence.ID)
	assert.False(t, got[1].HasLiveOccurrence)
	assert.Nil(t, got[1].Occurrence)
}
