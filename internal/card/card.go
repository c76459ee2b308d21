package card

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okvist/hatodo/internal/browser"
	"github.com/okvist/hatodo/internal/config"
	"github.com/okvist/hatodo/internal/model"
	"github.com/okvist/hatodo/internal/sanitize"
)

// Model is the todo card. It renders one host entity and funnels every
// mutation through the host, then re-fetches so the card never drifts from
// the entity state.
type Model struct {
	cfg    config.Config
	host   model.Host
	keys   KeyMap
	styles Styles

	width  int
	height int

	spinner spinner.Model
	loading bool
	errMsg  string

	tasks     []model.TaskView
	active    []model.TaskView
	completed []model.TaskView
	cursor    int

	mode         mode
	draft        *form
	editUID      string
	editSubtasks []model.Subtask

	expandedUID  string
	subCursor    int
	subtaskInput textinput.Model

	confirmUIDs []string
}

// New builds the card model for the given host and config.
func New(cfg config.Config, host model.Host) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	ti := textinput.New()
	ti.Placeholder = "Sub-item"
	ti.CharLimit = 256
	ti.Width = 30

	return Model{
		cfg:          cfg,
		host:         host,
		keys:         DefaultKeyMap(),
		styles:       NewStyles(cfg),
		spinner:      sp,
		loading:      true,
		subtaskInput: ti,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchCmd())
}

// visible returns the rendered item order: active first, completed after.
func (m Model) visible() []model.TaskView {
	out := make([]model.TaskView, 0, len(m.active)+len(m.completed))
	out = append(out, m.active...)
	out = append(out, m.completed...)
	return out
}

func (m Model) current() (model.TaskView, bool) {
	items := m.visible()
	if m.cursor < 0 || m.cursor >= len(items) {
		return model.TaskView{}, false
	}
	return items[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.active) + len(m.completed)
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) repartition() {
	m.active, m.completed = model.Partition(m.tasks,
		model.SortField(m.cfg.SortBy), model.SortOrder(m.cfg.SortOrder))
	m.clampCursor()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case itemsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Failed to %s: %v", opFetch, msg.err)
			return m, nil
		}
		m.tasks = msg.tasks
		m.repartition()
		if m.expandedUID != "" && !m.hasUID(m.expandedUID) {
			m.expandedUID = ""
		}
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Failed to %s: %v", msg.op, msg.err)
			debugf("mutation %s failed: %v", msg.op, msg.err)
			if msg.op == opUpdate && m.editUID != "" {
				m.mode = modeEditing
			}
		} else {
			if msg.op == opAdd || msg.op == opUpdate {
				m.draft = nil
				m.editUID = ""
				m.editSubtasks = nil
			}
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchCmd())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) hasUID(uid string) bool {
	for _, t := range m.tasks {
		if t.UID == uid {
			return true
		}
	}
	return false
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAdding, modeEditing:
		return m.handleFormKey(msg)
	case modeSubtaskInput:
		return m.handleSubtaskInputKey(msg)
	case modeConfirmDelete, modeConfirmClear:
		return m.handleConfirmKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Up):
		if m.expandedUID != "" && m.subCursor > 0 {
			m.subCursor--
			return m, nil
		}
		if m.cursor > 0 {
			m.cursor--
			m.subCursor = 0
		}
		return m, nil

	case key.Matches(msg, k.Down):
		if t, ok := m.current(); ok && t.UID == m.expandedUID {
			if m.subCursor < len(t.Meta.Subtasks)-1 {
				m.subCursor++
				return m, nil
			}
		}
		if m.cursor < len(m.visible())-1 {
			m.cursor++
			m.subCursor = 0
		}
		return m, nil

	case key.Matches(msg, k.Top):
		m.cursor = 0
		m.subCursor = 0
		return m, nil

	case key.Matches(msg, k.Bottom):
		if n := len(m.visible()); n > 0 {
			m.cursor = n - 1
		}
		m.subCursor = 0
		return m, nil

	case key.Matches(msg, k.Refresh):
		m.errMsg = ""
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.fetchCmd())

	case key.Matches(msg, k.Add):
		m.errMsg = ""
		m.mode = modeAdding
		m.draft = newForm(m.cfg.Mode)
		return m, textinput.Blink

	case key.Matches(msg, k.Edit):
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		m.errMsg = ""
		m.mode = modeEditing
		m.editUID = t.UID
		m.editSubtasks = t.Meta.Subtasks
		m.draft = editForm(m.cfg.Mode, t)
		return m, textinput.Blink

	case key.Matches(msg, k.Toggle):
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		return m, m.setStatusCmd(t.UID, t.Status.Toggled())

	case key.Matches(msg, k.Delete):
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		if m.cfg.ConfirmDelete {
			m.mode = modeConfirmDelete
			m.confirmUIDs = []string{t.UID}
			return m, nil
		}
		return m, m.removeItemsCmd(opDelete, []string{t.UID})

	case key.Matches(msg, k.ClearCompleted):
		if len(m.completed) == 0 {
			return m, nil
		}
		uids := make([]string, len(m.completed))
		for i, t := range m.completed {
			uids[i] = t.UID
		}
		// Clearing is bulk and irreversible, so it always confirms.
		m.mode = modeConfirmClear
		m.confirmUIDs = uids
		return m, nil

	case key.Matches(msg, k.Expand):
		t, ok := m.current()
		if !ok {
			return m, nil
		}
		if m.expandedUID == t.UID {
			m.expandedUID = ""
		} else {
			m.expandedUID = t.UID
		}
		m.subCursor = 0
		return m, nil

	case key.Matches(msg, k.OpenLink):
		t, ok := m.current()
		if !ok || t.Meta.Link == "" {
			return m, nil
		}
		if err := browser.Open(t.Meta.Link); err != nil {
			m.errMsg = fmt.Sprintf("Failed to open link: %v", err)
		}
		return m, nil

	case key.Matches(msg, k.NewSubtask):
		t, ok := m.current()
		if !ok || t.UID != m.expandedUID {
			return m, nil
		}
		m.mode = modeSubtaskInput
		m.subtaskInput.SetValue("")
		m.subtaskInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, k.ToggleSubtask):
		t, ok := m.current()
		if !ok || t.UID != m.expandedUID {
			return m, nil
		}
		if m.subCursor < 0 || m.subCursor >= len(t.Meta.Subtasks) {
			return m, nil
		}
		return m, m.toggleSubtaskCmd(t, t.Meta.Subtasks[m.subCursor].UID)

	case key.Matches(msg, k.DeleteSubtask):
		t, ok := m.current()
		if !ok || t.UID != m.expandedUID {
			return m, nil
		}
		if m.subCursor < 0 || m.subCursor >= len(t.Meta.Subtasks) {
			return m, nil
		}
		meta := t.Meta.WithSubtaskRemoved(t.Meta.Subtasks[m.subCursor].UID)
		if m.subCursor > 0 {
			m.subCursor--
		}
		return m, m.setDescriptionCmd(opSubtasks, t.UID, meta.Encode())

	case key.Matches(msg, k.Cancel):
		m.errMsg = ""
		m.expandedUID = ""
		return m, nil
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	// Only esc cancels here; "n" and the other cancel runes are text.
	case msg.Type == tea.KeyEsc:
		m.mode = modeList
		m.draft = nil
		m.editUID = ""
		m.editSubtasks = nil
		return m, nil

	case msg.Type == tea.KeyEnter:
		return m.submitForm()

	case key.Matches(msg, k.NextField):
		m.draft.Next()
		return m, nil

	case key.Matches(msg, k.PrevField):
		m.draft.Prev()
		return m, nil
	}
	cmd := m.draft.Update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	v := m.draft.values()
	summary := sanitize.Text(strings.TrimSpace(v.summary))
	if summary == "" {
		m.errMsg = "Item name cannot be empty"
		return m, nil
	}
	m.errMsg = ""

	if m.mode == modeAdding {
		meta := buildMetadata(m.cfg.Mode, v, nil)
		m.mode = modeList
		return m, m.addItemCmd(summary, meta, v)
	}

	meta := buildMetadata(m.cfg.Mode, v, m.editSubtasks)
	uid := m.editUID
	m.mode = modeList
	return m, m.editItemCmd(uid, summary, meta, v)
}

func (m Model) handleSubtaskInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		m.mode = modeList
		m.subtaskInput.Blur()
		return m, nil

	case msg.Type == tea.KeyEnter:
		t, ok := m.current()
		if !ok || t.UID != m.expandedUID {
			m.mode = modeList
			return m, nil
		}
		summary := sanitize.Text(strings.TrimSpace(m.subtaskInput.Value()))
		if summary == "" {
			m.mode = modeList
			m.subtaskInput.Blur()
			return m, nil
		}
		meta := t.Meta.WithSubtaskAdded(summary)
		m.mode = modeList
		m.subtaskInput.Blur()
		return m, m.setDescriptionCmd(opSubtasks, t.UID, meta.Encode())
	}
	var cmd tea.Cmd
	m.subtaskInput, cmd = m.subtaskInput.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Confirm):
		op := opDelete
		if m.mode == modeConfirmClear {
			op = opClear
		}
		uids := m.confirmUIDs
		m.mode = modeList
		m.confirmUIDs = nil
		return m, m.removeItemsCmd(op, uids)

	case key.Matches(msg, k.Cancel):
		m.mode = modeList
		m.confirmUIDs = nil
		return m, nil
	}
	return m, nil
}

// fetchCmd reloads the entity and rebuilds the task views.
func (m Model) fetchCmd() tea.Cmd {
	host, entity := m.host, m.cfg.Entity
	return func() tea.Msg {
		items, err := host.ListItems(context.Background(), entity)
		if err != nil {
			return itemsLoadedMsg{err: err}
		}
		return itemsLoadedMsg{tasks: model.NewTaskViews(items)}
	}
}

func (m Model) addItemCmd(summary string, meta model.Metadata, v draftValues) tea.Cmd {
	host, entity := m.host, m.cfg.Entity
	dueDate, dueDateTime := dueFields(v)
	params := model.AddItemParams{
		Summary:     summary,
		Description: meta.Encode(),
		DueDate:     dueDate,
		DueDateTime: dueDateTime,
	}
	return func() tea.Msg {
		err := host.AddItem(context.Background(), entity, params)
		return mutationDoneMsg{op: opAdd, err: err}
	}
}

func (m Model) editItemCmd(uid, summary string, meta model.Metadata, v draftValues) tea.Cmd {
	host, entity := m.host, m.cfg.Entity
	desc := meta.Encode()
	params := model.UpdateItemParams{
		UID:         uid,
		Rename:      &summary,
		Description: &desc,
	}
	dueDate, dueDateTime := dueFields(v)
	switch {
	case dueDateTime != "":
		params.DueDateTime = &dueDateTime
	case dueDate != "":
		params.DueDate = &dueDate
	default:
		// Due was blanked in the form; clear it on the host too.
		params.ClearDue = true
	}
	return func() tea.Msg {
		err := host.UpdateItem(context.Background(), entity, params)
		return mutationDoneMsg{op: opUpdate, err: err}
	}
}

func (m Model) setStatusCmd(uid string, status model.Status) tea.Cmd {
	host, entity := m.host, m.cfg.Entity
	params := model.UpdateItemParams{UID: uid, Status: &status}
	return func() tea.Msg {
		err := host.UpdateItem(context.Background(), entity, params)
		return mutationDoneMsg{op: opUpdate, err: err}
	}
}

func (m Model) setDescriptionCmd(op, uid, desc string) tea.Cmd {
	host, entity := m.host, m.cfg.Entity
	params := model.UpdateItemParams{UID: uid, Description: &desc}
	return func() tea.Msg {
		err := host.UpdateItem(context.Background(), entity, params)
		return mutationDoneMsg{op: op, err: err}
	}
}

// toggleSubtaskCmd flips one sub-task and writes the new metadata back.
// When auto-complete-parent is on and the flip leaves the parent's status
// out of step with its sub-tasks, one extra status update brings the parent
// in line.
func (m Model) toggleSubtaskCmd(t model.TaskView, subUID string) tea.Cmd {
	host, entity := m.host, m.cfg.Entity
	meta, allComplete := t.Meta.WithSubtaskToggled(subUID)
	desc := meta.Encode()

	syncParent := m.cfg.AutoCompleteParent && len(meta.Subtasks) > 0 &&
		((allComplete && !t.IsCompleted()) || (!allComplete && t.IsCompleted()))
	parentStatus := model.StatusNeedsAction
	if allComplete {
		parentStatus = model.StatusCompleted
	}

	return func() tea.Msg {
		err := host.UpdateItem(context.Background(), entity, model.UpdateItemParams{
			UID:         t.UID,
			Description: &desc,
		})
		if err == nil && syncParent {
			err = host.UpdateItem(context.Background(), entity, model.UpdateItemParams{
				UID:    t.UID,
				Status: &parentStatus,
			})
		}
		return mutationDoneMsg{op: opSubtasks, err: err}
	}
}

func (m Model) removeItemsCmd(op string, uids []string) tea.Cmd {
	host, entity := m.host, m.cfg.Entity
	return func() tea.Msg {
		err := host.RemoveItems(context.Background(), entity, uids)
		return mutationDoneMsg{op: op, err: err}
	}
}
