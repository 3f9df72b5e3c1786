package domain

import "time"

// Issue is a schedulable task as stored by the persistence layer.
// StartDate and DueDate are optional; a milestone carries only a due date.
type Issue struct {
	ID        string
	Subject   string
	StartDate *time.Time
	DueDate   *time.Time
	ParentID  *string
	Leaf      bool
	Milestone bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasParent reports whether the issue references a parent (which may dangle).
func (i *Issue) HasParent() bool {
	return i.ParentID != nil && *i.ParentID != ""
}

// DateChange is one issue's new dates as sent to the store. A nil StartDate
// leaves the stored start untouched (milestones only carry a due date).
type DateChange struct {
	ID        string
	StartDate *time.Time
	DueDate   *time.Time
}
