package models

import (
	"time"

	"github.com/samber/lo"
)

// MakeupStatus tracks a makeup session request.
type MakeupStatus string

const (
	MakeupPending   MakeupStatus = "pending"
	MakeupScheduled MakeupStatus = "scheduled"
	MakeupCompleted MakeupStatus = "completed"
	MakeupCancelled MakeupStatus = "cancelled"
)

// MakeupSession compensates a student for a missed class occurrence.
// The schedule fields stay empty until the session is scheduled.
type MakeupSession struct {
	ID                   string       `db:"id" json:"id"`
	OriginalClassID      string       `db:"original_class_id" json:"original_class_id"`
	OriginalOccurrenceID string       `db:"original_occurrence_id" json:"original_occurrence_id"`
	ParentID             string       `db:"parent_id" json:"parent_id"`
	StudentID            string       `db:"student_id" json:"student_id"`
	Status               MakeupStatus `db:"status" json:"status"`
	Date                 *time.Time   `db:"makeup_date" json:"makeup_date,omitempty"`
	StartTime            *string      `db:"start_time" json:"start_time,omitempty"`
	EndTime              *string      `db:"end_time" json:"end_time,omitempty"`
	TeacherID            *string      `db:"teacher_id" json:"teacher_id,omitempty"`
	BranchID             *string      `db:"branch_id" json:"branch_id,omitempty"`
	RoomID               *string      `db:"room_id" json:"room_id,omitempty"`
}

// Window returns the scheduled time window, empty when unscheduled.
func (m MakeupSession) Window() (string, string) {
	return lo.FromPtr(m.StartTime), lo.FromPtr(m.EndTime)
}

// TrialStatus tracks a trial lesson.
type TrialStatus string

const (
	TrialScheduled TrialStatus = "scheduled"
	TrialAttended  TrialStatus = "attended"
	TrialAbsent    TrialStatus = "absent"
	TrialCancelled TrialStatus = "cancelled"
)

// TrialSession is a one-off lesson for a prospective student.
type TrialSession struct {
	ID          string      `db:"id" json:"id"`
	StudentName string      `db:"student_name" json:"student_name"`
	SubjectID   string      `db:"subject_id" json:"subject_id"`
	Date        time.Time   `db:"trial_date" json:"trial_date"`
	StartTime   string      `db:"start_time" json:"start_time"`
	EndTime     string      `db:"end_time" json:"end_time"`
	TeacherID   string      `db:"teacher_id" json:"teacher_id"`
	BranchID    string      `db:"branch_id" json:"branch_id"`
	RoomID      string      `db:"room_id" json:"room_id"`
	Status      TrialStatus `db:"status" json:"status"`
	Attended    *bool       `db:"attended" json:"attended,omitempty"`
}
