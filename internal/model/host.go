package model

import "context"

// AddItemParams is the payload for a host add_item call. DueDate and
// DueDateTime are mutually exclusive; both empty means no due date.
type AddItemParams struct {
	Summary     string
	Description string
	DueDate     string // "2006-01-02"
	DueDateTime string // "2006-01-02T15:04:05"
}

// UpdateItemParams is the payload for a host update_item call. Nil pointer
// fields are left untouched on the host. ClearDue sends an explicit null
// due date, removing any existing one.
type UpdateItemParams struct {
	UID         string
	Rename      *string
	Description *string
	Status      *Status
	DueDate     *string
	DueDateTime *string
	ClearDue    bool
}

// Host is the narrow surface the card needs from the platform that owns
// the todo entity. Implementations exist for the Home Assistant REST API
// and for a local SQLite provider.
type Host interface {
	ListItems(ctx context.Context, entityID string) ([]Item, error)
	AddItem(ctx context.Context, entityID string, p AddItemParams) error
	UpdateItem(ctx context.Context, entityID string, p UpdateItemParams) error
	RemoveItems(ctx context.Context, entityID string, uids []string) error
}
