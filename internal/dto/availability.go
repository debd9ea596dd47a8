package dto

// AvailabilityRequest asks whether a room and/or teacher is free for a window on a date.
type AvailabilityRequest struct {
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime       string `json:"start_time" validate:"required,hhmm"`
	EndTime         string `json:"end_time" validate:"required,hhmm"`
	BranchID        string `json:"branch_id" validate:"required"`
	RoomID          string `json:"room_id" validate:"required_without=TeacherID"`
	TeacherID       string `json:"teacher_id" validate:"required_without=RoomID"`
	ExcludeClassID  string `json:"exclude_class_id,omitempty"`
	ExcludeMakeupID string `json:"exclude_makeup_id,omitempty"`
}

// AgendaQuery selects the agenda day; Date defaults to today in the school timezone.
type AgendaQuery struct {
	Date string `form:"date" validate:"omitempty,datetime=2006-01-02"`
}

// AgendaExportQuery selects the agenda day and output format.
type AgendaExportQuery struct {
	Date   string `form:"date" validate:"omitempty,datetime=2006-01-02"`
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
