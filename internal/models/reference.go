package models

// Branch is a physical school location.
type Branch struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Room is a bookable classroom within a branch.
type Room struct {
	ID       string `db:"id" json:"id"`
	BranchID string `db:"branch_id" json:"branch_id"`
	Name     string `db:"name" json:"name"`
	Capacity int    `db:"capacity" json:"capacity"`
}

// Teacher represents an instructor record.
type Teacher struct {
	ID       string  `db:"id" json:"id"`
	FullName string  `db:"full_name" json:"full_name"`
	Nickname *string `db:"nickname" json:"nickname,omitempty"`
}

// DisplayName prefers the nickname used on timetables.
func (t Teacher) DisplayName() string {
	if t.Nickname != nil && *t.Nickname != "" {
		return *t.Nickname
	}
	return t.FullName
}

// Subject represents a taught subject.
type Subject struct {
	ID   string `db:"id" json:"id"`
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// Student is a child registered under a parent account.
type Student struct {
	ID       string  `db:"id" json:"id"`
	ParentID string  `db:"parent_id" json:"parent_id"`
	FullName string  `db:"full_name" json:"full_name"`
	Nickname *string `db:"nickname" json:"nickname,omitempty"`
}

// DisplayName prefers the nickname.
func (s Student) DisplayName() string {
	if s.Nickname != nil && *s.Nickname != "" {
		return *s.Nickname
	}
	return s.FullName
}
