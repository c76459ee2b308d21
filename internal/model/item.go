package model

// Status represents the completion state of an item, using the host
// platform's wire values.
type Status string

const (
	StatusNeedsAction Status = "needs_action"
	StatusCompleted   Status = "completed"
)

// Toggled returns the opposite status.
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusNeedsAction
	}
	return StatusCompleted
}

// Item is a host-owned to-do entry. The host assigns the uid and persists
// Description as opaque free text; the card never writes an Item directly,
// only through host calls.
type Item struct {
	UID         string `json:"uid"`
	Summary     string `json:"summary"`
	Status      Status `json:"status"`
	Due         string `json:"due,omitempty"` // ISO date or date-time, empty when unset
	Description string `json:"description,omitempty"`
}

// IsCompleted reports whether the item is checked off.
func (it Item) IsCompleted() bool {
	return it.Status == StatusCompleted
}
