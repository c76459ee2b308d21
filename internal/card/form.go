package card

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okvist/hatodo/internal/config"
	"github.com/okvist/hatodo/internal/model"
	"github.com/okvist/hatodo/internal/sanitize"
)

// draftValues is the transient, uncommitted input of an add or edit form.
type draftValues struct {
	summary     string
	description string
	priority    string
	icon        string
	link        string
	quantity    string
	dueDate     string
	dueTime     string
}

// form owns the text inputs for one add or edit operation. Which inputs
// exist depends on the card mode: tasks expose priority/due/icon, shopping
// exposes quantity/link.
type form struct {
	title  string
	labels []string
	inputs []textinput.Model
	focus  int

	cardMode string
}

func textField(placeholder string, value string, width int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = width
	ti.SetValue(value)
	return ti
}

// newForm builds an empty form for the configured card mode.
func newForm(cardMode string) *form {
	return prefilledForm(cardMode, draftValues{
		priority: sanitize.DefaultPriority,
		icon:     model.DefaultIcon,
	})
}

// editForm builds a form prefilled from an existing task view.
func editForm(cardMode string, t model.TaskView) *form {
	date, clock := model.SplitDue(t.Due)
	f := prefilledForm(cardMode, draftValues{
		summary:     t.Summary,
		description: t.Meta.Description,
		priority:    t.Meta.Priority,
		icon:        t.Meta.Icon,
		link:        t.Meta.Link,
		quantity:    t.Meta.Quantity,
		dueDate:     date,
		dueTime:     clock,
	})
	if cardMode == config.ModeTasks {
		f.title = "Edit Task"
	} else {
		f.title = "Edit Item"
	}
	return f
}

func prefilledForm(cardMode string, v draftValues) *form {
	f := &form{cardMode: cardMode}
	if cardMode == config.ModeShopping {
		f.title = "New Shopping Item"
		f.labels = []string{"Item Name", "Qty", "Description", "Link"}
		f.inputs = []textinput.Model{
			textField("Item name", v.summary, 40),
			textField("1", v.quantity, 6),
			textField("Optional", v.description, 40),
			textField("https://", v.link, 40),
		}
	} else {
		f.title = "New Task"
		f.labels = []string{"Title", "Description", "Priority", "Due Date", "Time", "Icon"}
		f.inputs = []textinput.Model{
			textField("Title", v.summary, 40),
			textField("Optional", v.description, 40),
			textField("1-10", v.priority, 6),
			textField("YYYY-MM-DD", v.dueDate, 12),
			textField("HH:MM", v.dueTime, 7),
			textField(model.DefaultIcon, v.icon, 30),
		}
	}
	f.inputs[0].Focus()
	return f
}

// Update routes a message to the focused input.
func (f *form) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// Next moves focus to the following field, wrapping around.
func (f *form) Next() {
	f.move(1)
}

// Prev moves focus to the preceding field, wrapping around.
func (f *form) Prev() {
	f.move(-1)
}

func (f *form) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// values snapshots the current input state.
func (f *form) values() draftValues {
	get := func(i int) string { return f.inputs[i].Value() }
	if f.cardMode == config.ModeShopping {
		return draftValues{
			summary:     get(0),
			quantity:    get(1),
			description: get(2),
			link:        get(3),
		}
	}
	return draftValues{
		summary:     get(0),
		description: get(1),
		priority:    get(2),
		dueDate:     get(3),
		dueTime:     get(4),
		icon:        get(5),
	}
}

// buildMetadata assembles the encoded metadata for a mutation, sanitizing
// at the write path. Tasks mode always carries priority and icon; shopping
// mode carries link and quantity only when set. Sub-tasks pass through
// untouched so edits preserve them.
func buildMetadata(cardMode string, v draftValues, subtasks []model.Subtask) model.Metadata {
	var md model.Metadata
	if d := strings.TrimSpace(v.description); d != "" {
		md.Description = sanitize.Text(d)
	}
	if cardMode == config.ModeTasks {
		md.Priority = sanitize.Priority(v.priority)
		md.Icon = v.icon
	} else {
		if v.link != "" {
			md.Link = sanitize.URL(v.link)
		}
		if v.quantity != "" {
			md.Quantity = sanitize.Text(v.quantity)
		}
	}
	md.Subtasks = subtasks
	return md
}

// dueFields maps the form's date/time pair onto the host payload fields:
// date+time becomes due_datetime, date alone becomes due_date.
func dueFields(v draftValues) (dueDate, dueDateTime string) {
	date := strings.TrimSpace(v.dueDate)
	if date == "" {
		return "", ""
	}
	if clock := strings.TrimSpace(v.dueTime); clock != "" {
		return "", date + "T" + clock + ":00"
	}
	return date, ""
}
