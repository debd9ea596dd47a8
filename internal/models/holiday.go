package models

import (
	"time"

	"github.com/lib/pq"
)

// HolidayScope decides which branches a holiday closes.
type HolidayScope string

const (
	HolidayScopeNational HolidayScope = "national"
	HolidayScopeBranch   HolidayScope = "branch"
)

// Holiday marks a non-operating day.
type Holiday struct {
	ID        string         `db:"id" json:"id"`
	Date      time.Time      `db:"holiday_date" json:"holiday_date"`
	Scope     HolidayScope   `db:"scope" json:"scope"`
	BranchIDs pq.StringArray `db:"branch_ids" json:"branch_ids,omitempty"`
	Name      string         `db:"name" json:"name"`
}

// AppliesTo reports whether the holiday closes the given branch.
func (h Holiday) AppliesTo(branchID string) bool {
	if h.Scope == HolidayScopeNational {
		return true
	}
	for _, id := range h.BranchIDs {
		if id == branchID {
			return true
		}
	}
	return false
}
