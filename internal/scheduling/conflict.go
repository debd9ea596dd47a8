package scheduling

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/noah-isme/tutoring-schedule-api/internal/models"
)

// Dimension is the resource a booking occupies.
type Dimension string

const (
	DimensionRoom    Dimension = "room"
	DimensionTeacher Dimension = "teacher"
)

// Target identifies the room or teacher being checked.
type Target struct {
	Dimension Dimension
	ID        string
}

// RoomTarget checks a room.
func RoomTarget(roomID string) Target {
	return Target{Dimension: DimensionRoom, ID: roomID}
}

// TeacherTarget checks a teacher.
func TeacherTarget(teacherID string) Target {
	return Target{Dimension: DimensionTeacher, ID: teacherID}
}

// matches never pairs an empty id with an unassigned room or teacher.
func (t Target) matches(roomID, teacherID string) bool {
	if t.ID == "" {
		return false
	}
	switch t.Dimension {
	case DimensionRoom:
		return roomID == t.ID
	case DimensionTeacher:
		return teacherID == t.ID
	default:
		return false
	}
}

// ConflictSource yields the existing bookings that collide with a window.
type ConflictSource interface {
	ConflictsFor(target Target, window Window) []models.Conflict
}

// ClassSource reports conflicts against classes that actually occur on the
// checked date. Classes must already be reconciled with their occurrences.
type ClassSource struct {
	Live    []models.RecurringClass
	Exclude models.Exclusion
}

// ConflictsFor implements ConflictSource.
func (s ClassSource) ConflictsFor(target Target, window Window) []models.Conflict {
	var out []models.Conflict
	for _, class := range s.Live {
		if s.Exclude.ClassID != "" && class.ID == s.Exclude.ClassID {
			continue
		}
		if !target.matches(class.RoomID, class.TeacherID) {
			continue
		}
		existing := Window{Start: class.StartTime, End: class.EndTime}
		if !window.Overlaps(existing) {
			continue
		}
		out = append(out, models.Conflict{
			Kind:      models.ConflictKindClass,
			SourceID:  class.ID,
			Name:      class.Name,
			StartTime: existing.Start,
			EndTime:   existing.End,
			Message:   fmt.Sprintf("%s %s", class.Name, existing),
		})
	}
	return out
}

// MakeupSource reports conflicts against scheduled makeup sessions of a branch
// on one date. StudentName labels each conflict; the student id is used when
// it is nil.
type MakeupSource struct {
	Sessions    []models.MakeupSession
	Date        time.Time
	BranchID    string
	Exclude     models.Exclusion
	StudentName func(models.MakeupSession) string
}

// ConflictsFor implements ConflictSource.
func (s MakeupSource) ConflictsFor(target Target, window Window) []models.Conflict {
	var out []models.Conflict
	for _, session := range s.Sessions {
		if session.Status != models.MakeupScheduled {
			continue
		}
		if s.Exclude.MakeupID != "" && session.ID == s.Exclude.MakeupID {
			continue
		}
		if session.Date == nil || !SameDay(*session.Date, s.Date) {
			continue
		}
		if session.BranchID == nil || *session.BranchID != s.BranchID {
			continue
		}
		if !target.matches(lo.FromPtr(session.RoomID), lo.FromPtr(session.TeacherID)) {
			continue
		}
		start, end := session.Window()
		existing := Window{Start: start, End: end}
		if !window.Overlaps(existing) {
			continue
		}
		name := session.StudentID
		if s.StudentName != nil {
			name = s.StudentName(session)
		}
		out = append(out, models.Conflict{
			Kind:      models.ConflictKindMakeup,
			SourceID:  session.ID,
			Name:      name,
			StartTime: existing.Start,
			EndTime:   existing.End,
			Message:   fmt.Sprintf("makeup: %s %s", name, existing),
		})
	}
	return out
}

// BookingSources composes the sources that block a booking. Trial sessions
// never block and have no source here.
func BookingSources(classes ClassSource, makeups MakeupSource) []ConflictSource {
	return []ConflictSource{classes, makeups}
}

// DetectConflicts gathers conflicts from every source in order.
func DetectConflicts(sources []ConflictSource, target Target, window Window) []models.Conflict {
	var out []models.Conflict
	for _, source := range sources {
		out = append(out, source.ConflictsFor(target, window)...)
	}
	return out
}
