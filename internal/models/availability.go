package models

import "time"

// ConflictKind names the record type a proposed booking collides with.
type ConflictKind string

const (
	ConflictKindClass  ConflictKind = "class"
	ConflictKindMakeup ConflictKind = "makeup"
)

// Conflict describes an existing session overlapping a proposed booking.
type Conflict struct {
	Kind      ConflictKind `json:"kind"`
	SourceID  string       `json:"source_id"`
	Name      string       `json:"name"`
	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"`
	Message   string       `json:"message"`
}

// IssueKind classifies why a booking is not available.
type IssueKind string

const (
	IssueHoliday         IssueKind = "holiday"
	IssueRoomConflict    IssueKind = "room_conflict"
	IssueTeacherConflict IssueKind = "teacher_conflict"
	IssueUnavailable     IssueKind = "unavailable"
)

// Issue is one reason a booking was rejected.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	Message  string    `json:"message"`
	Conflict *Conflict `json:"conflict,omitempty"`
}

// AvailabilityResult is the verdict for a proposed booking.
type AvailabilityResult struct {
	Available bool    `json:"available"`
	Issues    []Issue `json:"issues"`
}

// Exclusion omits the caller's own record when re-validating an edit.
type Exclusion struct {
	ClassID  string `json:"class_id,omitempty"`
	MakeupID string `json:"makeup_id,omitempty"`
}

// SlotKind names the source of a busy slot.
type SlotKind string

const (
	SlotKindClass  SlotKind = "class"
	SlotKindMakeup SlotKind = "makeup"
	SlotKindTrial  SlotKind = "trial"
)

// TrialDetail is one student inside a grouped trial slot.
type TrialDetail struct {
	TrialID     string      `json:"trial_id"`
	StudentName string      `json:"student_name"`
	SubjectName string      `json:"subject_name"`
	Status      TrialStatus `json:"status"`
	Attended    *bool       `json:"attended,omitempty"`
}

// BusySlot is one entry in a branch's daily occupancy timeline.
type BusySlot struct {
	Kind         SlotKind      `json:"kind"`
	SourceID     string        `json:"source_id"`
	Name         string        `json:"name"`
	StartTime    string        `json:"start_time"`
	EndTime      string        `json:"end_time"`
	RoomID       string        `json:"room_id"`
	RoomName     string        `json:"room_name"`
	TeacherID    string        `json:"teacher_id"`
	TeacherName  string        `json:"teacher_name"`
	SubjectName  string        `json:"subject_name"`
	TrialCount   int           `json:"trial_count,omitempty"`
	TrialDetails []TrialDetail `json:"trial_details,omitempty"`
}

// DayAgenda is the occupancy timeline of a branch for one date.
type DayAgenda struct {
	BranchID    string     `json:"branch_id"`
	Date        time.Time  `json:"date"`
	IsHoliday   bool       `json:"is_holiday"`
	HolidayName string     `json:"holiday_name,omitempty"`
	BusySlots   []BusySlot `json:"busy_slots"`
}
