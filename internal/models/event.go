package models

// ScheduleChange announces that classes, occurrences, sessions or holidays
// changed for a branch and/or date. Empty fields widen the scope.
type ScheduleChange struct {
	Type     string `json:"type"`
	BranchID string `json:"branch_id,omitempty"`
	Date     string `json:"date,omitempty"`
}
