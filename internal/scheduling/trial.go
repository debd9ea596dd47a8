package scheduling

import (
	"github.com/samber/lo"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

// TrialKey is the coincidence key under which concurrent trials are merged.
type TrialKey struct {
	StartTime string
	EndTime   string
	RoomID    string
	TeacherID string
}

// TrialGroup is the set of trials sharing one time, room and teacher.
type TrialGroup struct {
	Key    TrialKey
	Trials []models.TrialSession
}

// StudentNames lists the grouped students in input order.
func (g TrialGroup) StudentNames() []string {
	return lo.Map(g.Trials, func(t models.TrialSession, _ int) string {
		return t.StudentName
	})
}

// GroupTrials merges trials by (start, end, room, teacher). Groups keep the
// order in which their first member appeared.
func GroupTrials(trials []models.TrialSession) []TrialGroup {
	positions := make(map[TrialKey]int)
	var groups []TrialGroup
	for _, trial := range trials {
		key := TrialKey{
			StartTime: trial.StartTime,
			EndTime:   trial.EndTime,
			RoomID:    trial.RoomID,
			TeacherID: trial.TeacherID,
		}
		if idx, ok := positions[key]; ok {
			groups[idx].Trials = append(groups[idx].Trials, trial)
			continue
		}
		positions[key] = len(groups)
		groups = append(groups, TrialGroup{Key: key, Trials: []models.TrialSession{trial}})
	}
	return groups
}
