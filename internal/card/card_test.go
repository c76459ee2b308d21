package card

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/okvist/hatodo/internal/config"
	"github.com/okvist/hatodo/internal/model"
)

// fakeHost records every call so tests can assert on the exact mutation
// sequence the card issues.
type fakeHost struct {
	items   []model.Item
	listErr error
	mutErr  error

	lists   int
	added   []model.AddItemParams
	updated []model.UpdateItemParams
	removed [][]string
}

func (f *fakeHost) ListItems(_ context.Context, _ string) ([]model.Item, error) {
	f.lists++
	return f.items, f.listErr
}

func (f *fakeHost) AddItem(_ context.Context, _ string, p model.AddItemParams) error {
	f.added = append(f.added, p)
	return f.mutErr
}

func (f *fakeHost) UpdateItem(_ context.Context, _ string, p model.UpdateItemParams) error {
	f.updated = append(f.updated, p)
	return f.mutErr
}

func (f *fakeHost) RemoveItems(_ context.Context, _ string, uids []string) error {
	f.removed = append(f.removed, uids)
	return f.mutErr
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Entity = "todo.chores"
	return cfg
}

func newTestModel(cfg config.Config, host *fakeHost) Model {
	m := New(cfg, host)
	m.tasks = model.NewTaskViews(host.items)
	m.repartition()
	m.loading = false
	return m
}

// runCmd executes a command chain synchronously and feeds each message back
// into the model, the way the bubbletea runtime would.
func runCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				m = runCmd(t, m, c)
			}
			return m
		}
		// Spinner ticks reschedule themselves forever; drop them.
		if _, ok := msg.(spinner.TickMsg); ok {
			return m
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestShoppingAddEncodesOnlyQuantity(t *testing.T) {
	cfg := testConfig()
	cfg.Mode = config.ModeShopping
	host := &fakeHost{}
	m := newTestModel(cfg, host)

	m.mode = modeAdding
	m.draft = newForm(cfg.Mode)
	m.draft.inputs[0].SetValue("Milk")
	m.draft.inputs[1].SetValue("2")

	next, cmd := m.submitForm()
	m = next.(Model)
	if cmd == nil {
		t.Fatal("submitForm returned no command")
	}
	runCmd(t, m, cmd)

	if len(host.added) != 1 {
		t.Fatalf("got %d add calls, want 1", len(host.added))
	}
	if host.added[0].Summary != "Milk" {
		t.Errorf("summary = %q, want Milk", host.added[0].Summary)
	}
	if host.added[0].Description != `{"quantity":"2"}` {
		t.Errorf("description = %s, want {\"quantity\":\"2\"}", host.added[0].Description)
	}
}

func TestTasksAddCarriesPriorityAndIcon(t *testing.T) {
	host := &fakeHost{}
	m := newTestModel(testConfig(), host)

	m.mode = modeAdding
	m.draft = newForm(config.ModeTasks)
	m.draft.inputs[0].SetValue("Fix the gate")
	m.draft.inputs[2].SetValue("2")
	m.draft.inputs[3].SetValue("2026-04-01")

	next, cmd := m.submitForm()
	runCmd(t, next.(Model), cmd)

	if len(host.added) != 1 {
		t.Fatalf("got %d add calls, want 1", len(host.added))
	}
	p := host.added[0]
	if p.DueDate != "2026-04-01" || p.DueDateTime != "" {
		t.Errorf("due fields = %q/%q, want date only", p.DueDate, p.DueDateTime)
	}
	meta := model.ParseMetadata(p.Description)
	if meta.Priority != "2" || meta.Icon != model.DefaultIcon {
		t.Errorf("metadata = %+v, want priority 2 and default icon", meta)
	}
}

func TestTypingCancelRunesIntoFormIsJustText(t *testing.T) {
	host := &fakeHost{}
	m := newTestModel(testConfig(), host)

	next, _ := m.handleListKey(keyRune('a'))
	m = next.(Model)
	for _, r := range "new fence" {
		next, _ = m.handleFormKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	if m.mode != modeAdding {
		t.Fatalf("mode = %v after typing, want modeAdding", m.mode)
	}
	if got := m.draft.inputs[0].Value(); got != "new fence" {
		t.Errorf("summary input = %q, want %q", got, "new fence")
	}

	next, _ = m.handleFormKey(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.mode != modeList || m.draft != nil {
		t.Error("esc should still cancel the form")
	}
}

func TestTypingCancelRunesIntoSubtaskInputIsJustText(t *testing.T) {
	host := &fakeHost{items: []model.Item{{
		UID: "u1", Summary: "Parent", Status: model.StatusNeedsAction,
	}}}
	m := newTestModel(testConfig(), host)
	m.expandedUID = "u1"
	m.mode = modeSubtaskInput
	m.subtaskInput.Focus()

	for _, r := range "nails" {
		next, _ := m.handleSubtaskInputKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	if m.mode != modeSubtaskInput {
		t.Fatalf("mode = %v after typing, want modeSubtaskInput", m.mode)
	}
	if got := m.subtaskInput.Value(); got != "nails" {
		t.Errorf("subtask input = %q, want %q", got, "nails")
	}
}

func TestDueFieldsUseISOSeparator(t *testing.T) {
	date, datetime := dueFields(draftValues{dueDate: "2026-04-01", dueTime: "18:30"})
	if date != "" || datetime != "2026-04-01T18:30:00" {
		t.Errorf("dueFields = %q, %q, want due_datetime 2026-04-01T18:30:00", date, datetime)
	}

	date, datetime = dueFields(draftValues{dueDate: "2026-04-01"})
	if date != "2026-04-01" || datetime != "" {
		t.Errorf("dueFields = %q, %q, want date only", date, datetime)
	}
}

func TestSubmitEmptySummaryFailsLocally(t *testing.T) {
	host := &fakeHost{}
	m := newTestModel(testConfig(), host)

	m.mode = modeAdding
	m.draft = newForm(config.ModeTasks)
	m.draft.inputs[0].SetValue("   ")

	next, cmd := m.submitForm()
	m = next.(Model)
	if cmd != nil {
		t.Fatal("empty summary should not produce a command")
	}
	if m.errMsg != "Item name cannot be empty" {
		t.Errorf("errMsg = %q", m.errMsg)
	}
	if len(host.added) != 0 || host.lists != 0 {
		t.Error("empty summary must not reach the host")
	}
}

func TestEditPreservesSubtasksAndClearsDue(t *testing.T) {
	meta := model.DefaultMetadata().WithSubtaskAdded("sand it")
	host := &fakeHost{items: []model.Item{{
		UID: "u1", Summary: "Paint fence", Status: model.StatusNeedsAction,
		Due: "2026-04-01", Description: meta.Encode(),
	}}}
	m := newTestModel(testConfig(), host)

	next, _ := m.handleListKey(keyRune('e'))
	m = next.(Model)
	if m.mode != modeEditing {
		t.Fatalf("mode = %v, want modeEditing", m.mode)
	}

	// Blank the due date; the host must be told to clear it.
	m.draft.inputs[3].SetValue("")
	next, cmd := m.submitForm()
	runCmd(t, next.(Model), cmd)

	if len(host.updated) != 1 {
		t.Fatalf("got %d update calls, want 1", len(host.updated))
	}
	p := host.updated[0]
	if p.UID != "u1" || p.Rename == nil || *p.Rename != "Paint fence" {
		t.Errorf("update params = %+v", p)
	}
	if !p.ClearDue {
		t.Error("blanked due date should set ClearDue")
	}
	if p.Description == nil {
		t.Fatal("update carried no description")
	}
	got := model.ParseMetadata(*p.Description)
	if len(got.Subtasks) != 1 || got.Subtasks[0].Summary != "sand it" {
		t.Errorf("subtasks not preserved through edit: %v", got.Subtasks)
	}
}

func TestToggleSubtaskAutoCompletesParentExactlyOnce(t *testing.T) {
	meta := model.Metadata{Subtasks: []model.Subtask{
		{UID: "s1", Summary: "one", Status: model.StatusCompleted},
		{UID: "s2", Summary: "two", Status: model.StatusNeedsAction},
	}}
	cfg := testConfig()
	cfg.AutoCompleteParent = true
	host := &fakeHost{items: []model.Item{{
		UID: "u1", Summary: "Parent", Status: model.StatusNeedsAction,
		Description: meta.Encode(),
	}}}
	m := newTestModel(cfg, host)

	cmd := m.toggleSubtaskCmd(m.tasks[0], "s2")
	runCmd(t, m, cmd)

	if len(host.updated) != 2 {
		t.Fatalf("got %d update calls, want 2 (description then parent status)", len(host.updated))
	}
	if host.updated[0].Description == nil {
		t.Error("first update should write the metadata")
	}
	if host.updated[1].Status == nil || *host.updated[1].Status != model.StatusCompleted {
		t.Errorf("second update = %+v, want parent completed", host.updated[1])
	}
}

func TestToggleSubtaskNoParentSyncWhenDisabled(t *testing.T) {
	meta := model.Metadata{Subtasks: []model.Subtask{
		{UID: "s1", Summary: "one", Status: model.StatusNeedsAction},
	}}
	host := &fakeHost{items: []model.Item{{
		UID: "u1", Summary: "Parent", Status: model.StatusNeedsAction,
		Description: meta.Encode(),
	}}}
	m := newTestModel(testConfig(), host) // AutoCompleteParent off

	cmd := m.toggleSubtaskCmd(m.tasks[0], "s1")
	runCmd(t, m, cmd)

	if len(host.updated) != 1 {
		t.Fatalf("got %d update calls, want 1", len(host.updated))
	}
}

func TestToggleSubtaskNoSyncWhenParentAlreadyMatches(t *testing.T) {
	meta := model.Metadata{Subtasks: []model.Subtask{
		{UID: "s1", Summary: "one", Status: model.StatusCompleted},
		{UID: "s2", Summary: "two", Status: model.StatusCompleted},
	}}
	cfg := testConfig()
	cfg.AutoCompleteParent = true
	host := &fakeHost{items: []model.Item{{
		UID: "u1", Summary: "Parent", Status: model.StatusNeedsAction,
		Description: meta.Encode(),
	}}}
	m := newTestModel(cfg, host)

	// Reopening a subtask leaves allComplete false; parent already open.
	cmd := m.toggleSubtaskCmd(m.tasks[0], "s1")
	runCmd(t, m, cmd)

	if len(host.updated) != 1 {
		t.Fatalf("got %d update calls, want 1", len(host.updated))
	}
}

func TestDeleteWithoutConfirmGoesStraightToHost(t *testing.T) {
	cfg := testConfig()
	cfg.ConfirmDelete = false
	host := &fakeHost{items: []model.Item{{UID: "u1", Summary: "Old", Status: model.StatusNeedsAction}}}
	m := newTestModel(cfg, host)

	next, cmd := m.handleListKey(keyRune('d'))
	m = next.(Model)
	if m.mode != modeList {
		t.Fatalf("mode = %v, want modeList", m.mode)
	}
	runCmd(t, m, cmd)

	if len(host.removed) != 1 || len(host.removed[0]) != 1 || host.removed[0][0] != "u1" {
		t.Errorf("removed = %v, want [[u1]]", host.removed)
	}
}

func TestDeleteWithConfirmWaitsForY(t *testing.T) {
	host := &fakeHost{items: []model.Item{{UID: "u1", Summary: "Old", Status: model.StatusNeedsAction}}}
	m := newTestModel(testConfig(), host) // ConfirmDelete on by default

	next, cmd := m.handleListKey(keyRune('d'))
	m = next.(Model)
	if cmd != nil {
		t.Fatal("delete with confirmation should not mutate yet")
	}
	if m.mode != modeConfirmDelete {
		t.Fatalf("mode = %v, want modeConfirmDelete", m.mode)
	}

	next, cmd = m.handleConfirmKey(keyRune('y'))
	runCmd(t, next.(Model), cmd)
	if len(host.removed) != 1 {
		t.Fatalf("got %d remove calls, want 1", len(host.removed))
	}
}

func TestClearCompletedAlwaysConfirms(t *testing.T) {
	cfg := testConfig()
	cfg.ConfirmDelete = false
	host := &fakeHost{items: []model.Item{
		{UID: "u1", Summary: "Open", Status: model.StatusNeedsAction},
		{UID: "u2", Summary: "Done A", Status: model.StatusCompleted},
		{UID: "u3", Summary: "Done B", Status: model.StatusCompleted},
	}}
	m := newTestModel(cfg, host)

	next, cmd := m.handleListKey(keyRune('C'))
	m = next.(Model)
	if cmd != nil {
		t.Fatal("clear completed must always go through confirmation")
	}
	if m.mode != modeConfirmClear {
		t.Fatalf("mode = %v, want modeConfirmClear", m.mode)
	}

	next, cmd = m.handleConfirmKey(keyRune('y'))
	runCmd(t, next.(Model), cmd)
	if len(host.removed) != 1 || len(host.removed[0]) != 2 {
		t.Fatalf("removed = %v, want one call with two uids", host.removed)
	}
}

func TestMutationFailureSetsBannerAndRefetches(t *testing.T) {
	host := &fakeHost{
		items:  []model.Item{{UID: "u1", Summary: "Task", Status: model.StatusNeedsAction}},
		mutErr: errors.New("boom"),
	}
	m := newTestModel(testConfig(), host)

	cmd := m.removeItemsCmd(opDelete, []string{"u1"})
	m = runCmd(t, m, cmd)

	if !strings.Contains(m.errMsg, "Failed to delete item") {
		t.Errorf("errMsg = %q, want delete failure banner", m.errMsg)
	}
	if host.lists != 1 {
		t.Errorf("got %d fetches after failed mutation, want 1", host.lists)
	}
}

func TestMutationSuccessRefetches(t *testing.T) {
	host := &fakeHost{items: []model.Item{{UID: "u1", Summary: "Task", Status: model.StatusNeedsAction}}}
	m := newTestModel(testConfig(), host)

	cmd := m.setStatusCmd("u1", model.StatusCompleted)
	m = runCmd(t, m, cmd)

	if m.errMsg != "" {
		t.Errorf("unexpected error banner: %q", m.errMsg)
	}
	if host.lists != 1 {
		t.Errorf("got %d fetches after mutation, want 1", host.lists)
	}
}

func TestFetchErrorSetsBanner(t *testing.T) {
	host := &fakeHost{listErr: errors.New("unreachable")}
	m := newTestModel(testConfig(), host)

	m = runCmd(t, m, m.fetchCmd())
	if !strings.Contains(m.errMsg, "Failed to load items") {
		t.Errorf("errMsg = %q, want load failure banner", m.errMsg)
	}
}
