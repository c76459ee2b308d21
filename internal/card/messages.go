package card

import (
	"github.com/okvist/hatodo/internal/model"
)

// mode is the card's UI state. Exactly one mode is active at a time, so
// invalid combinations (add form and edit form open together) cannot be
// represented.
type mode int

const (
	modeList mode = iota // browsing; expandedUID may point at an open sub-task area
	modeAdding
	modeEditing
	modeSubtaskInput // typing a new sub-item into the expanded area
	modeConfirmDelete
	modeConfirmClear
)

// Operation names used to prefix error banners.
const (
	opFetch    = "load items"
	opAdd      = "add item"
	opUpdate   = "update item"
	opDelete   = "delete item"
	opClear    = "clear completed items"
	opSubtasks = "update sub-tasks"
)

// itemsLoadedMsg carries the result of a fetch cycle.
type itemsLoadedMsg struct {
	tasks []model.TaskView
	err   error
}

// mutationDoneMsg reports the outcome of one host mutation. Every mutation,
// successful or not, is followed by a reconciling re-fetch.
type mutationDoneMsg struct {
	op  string
	err error
}
