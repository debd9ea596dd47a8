package models

import (
	"time"

	"github.com/lib/pq"
)

// ClassStatus captures the lifecycle of a recurring class offering.
type ClassStatus string

const (
	ClassStatusDraft     ClassStatus = "draft"
	ClassStatusPublished ClassStatus = "published"
	ClassStatusStarted   ClassStatus = "started"
	ClassStatusCompleted ClassStatus = "completed"
	ClassStatusCancelled ClassStatus = "cancelled"
)

// Schedulable reports whether classes in this status occupy rooms and teachers.
func (s ClassStatus) Schedulable() bool {
	return s == ClassStatusPublished || s == ClassStatusStarted
}

// RecurringClass is a course offering meeting on a weekly pattern within a date range.
type RecurringClass struct {
	ID        string        `db:"id" json:"id"`
	BranchID  string        `db:"branch_id" json:"branch_id"`
	RoomID    string        `db:"room_id" json:"room_id"`
	TeacherID string        `db:"teacher_id" json:"teacher_id"`
	SubjectID string        `db:"subject_id" json:"subject_id"`
	Name      string        `db:"name" json:"name"`
	StartDate time.Time     `db:"start_date" json:"start_date"`
	EndDate   time.Time     `db:"end_date" json:"end_date"`
	Weekdays  pq.Int64Array `db:"weekdays" json:"weekdays"`
	StartTime string        `db:"start_time" json:"start_time"`
	EndTime   string        `db:"end_time" json:"end_time"`
	Status    ClassStatus   `db:"status" json:"status"`
	Capacity  int           `db:"capacity" json:"capacity"`
	Enrolled  int           `db:"enrolled" json:"enrolled"`
}

// MeetsOn reports whether the weekly pattern includes the weekday.
func (c RecurringClass) MeetsOn(day time.Weekday) bool {
	for _, d := range c.Weekdays {
		if time.Weekday(d) == day {
			return true
		}
	}
	return false
}

// OccurrenceStatus is the status of a single dated class session.
type OccurrenceStatus string

const (
	OccurrenceScheduled   OccurrenceStatus = "scheduled"
	OccurrenceCompleted   OccurrenceStatus = "completed"
	OccurrenceCancelled   OccurrenceStatus = "cancelled"
	OccurrenceRescheduled OccurrenceStatus = "rescheduled"
)

// ClassOccurrence is one calendar-dated instance of a recurring class.
type ClassOccurrence struct {
	ID              string           `db:"id" json:"id"`
	ClassID         string           `db:"class_id" json:"class_id"`
	SessionNumber   int              `db:"session_number" json:"session_number"`
	SessionDate     time.Time        `db:"session_date" json:"session_date"`
	Status          OccurrenceStatus `db:"status" json:"status"`
	RescheduledFrom *time.Time       `db:"rescheduled_from" json:"rescheduled_from,omitempty"`
	RescheduledBy   *string          `db:"rescheduled_by" json:"rescheduled_by,omitempty"`
	RescheduledAt   *time.Time       `db:"rescheduled_at" json:"rescheduled_at,omitempty"`
}

// Live reports whether the occurrence still takes place.
func (o ClassOccurrence) Live() bool {
	return o.Status != OccurrenceCancelled
}
