package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

func trial(id, student, start, end, room, teacher string) models.TrialSession {
	return models.TrialSession{
		ID:          id,
		StudentName: student,
		Date:        day("2024-06-04"),
		StartTime:   start,
		EndTime:     end,
		RoomID:      room,
		TeacherID:   teacher,
		BranchID:    "B",
		Status:      models.TrialScheduled,
	}
}

func TestGroupTrialsMergesCoincidentSessions(t *testing.T) {
	trials := []models.TrialSession{
		trial("t1", "A", "14:00", "15:00", "R101", "T3"),
		trial("t2", "B", "14:00", "15:00", "R101", "T3"),
		trial("t3", "C", "14:00", "15:00", "R101", "T3"),
	}

	groups := GroupTrials(trials)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Trials, 3)
	assert.Equal(t, []string{"A", "B", "C"}, groups[0].StudentNames())
	assert.Equal(t, TrialKey{StartTime: "14:00", EndTime: "15:00", RoomID: "R101", TeacherID: "T3"}, groups[0].Key)
}

func TestGroupTrialsSeparatesDifferentKeys(t *testing.T) {
	trials := []models.TrialSession{
		trial("t1", "A", "14:00", "15:00", "R101", "T3"),
		trial("t2", "B", "14:00", "15:00", "R102", "T3"),
		trial("t3", "C", "14:00", "15:00", "R101", "T4"),
		trial("t4", "D", "14:00", "15:30", "R101", "T3"),
		trial("t5", "E", "14:00", "15:00", "R101", "T3"),
	}

	groups := GroupTrials(trials)
	require.Len(t, groups, 4)
	assert.Equal(t, []string{"A", "E"}, groups[0].StudentNames())
	assert.Equal(t, []string{"B"}, groups[1].StudentNames())
	assert.Equal(t, []string{"C"}, groups[2].StudentNames())
	assert.Equal(t, []string{"D"}, groups[3].StudentNames())
}

func TestGroupTrialsEmpty(t *testing.T) {
	assert.Empty(t, GroupTrials(nil))
}
