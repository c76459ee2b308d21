package card

import (
	"fmt"
	"strings"
	"time"

	"github.com/okvist/hatodo/internal/config"
	"github.com/okvist/hatodo/internal/model"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errMsg))
		b.WriteString("\n")
	}

	switch m.mode {
	case modeAdding, modeEditing:
		b.WriteString(m.renderForm())
	case modeConfirmDelete:
		b.WriteString(m.renderList())
		b.WriteString("\n")
		b.WriteString(m.styles.ConfirmPrompt.Render("Delete this item? (y/n)"))
		b.WriteString("\n")
	case modeConfirmClear:
		b.WriteString(m.renderList())
		b.WriteString("\n")
		prompt := fmt.Sprintf("Remove %d completed item(s)? (y/n)", len(m.confirmUIDs))
		b.WriteString(m.styles.ConfirmPrompt.Render(prompt))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderList())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return m.styles.Card.Render(b.String())
}

func (m Model) renderHeader() string {
	title := m.cfg.Title
	if title == "" {
		title = m.cfg.Entity
	}

	noun, doneNoun := "tasks", "completed"
	if m.cfg.Mode == config.ModeShopping {
		noun, doneNoun = "items", "checked"
	}
	count := fmt.Sprintf("%d %s · %d %s", len(m.active), noun, len(m.completed), doneNoun)

	line := m.styles.Title.Render(title) + "  " + m.styles.Count.Render(count)
	if m.loading {
		line += " " + m.styles.Loading.Render(m.spinner.View())
	}
	return line
}

func (m Model) renderList() string {
	items := m.visible()
	if len(items) == 0 {
		if m.loading {
			return m.styles.Loading.Render("  loading...") + "\n"
		}
		empty := "No tasks yet. Press 'a' to add one."
		if m.cfg.Mode == config.ModeShopping {
			empty = "List is empty. Press 'a' to add an item."
		}
		return m.styles.EmptyList.Render(empty) + "\n"
	}

	now := time.Now()
	var b strings.Builder
	for i, t := range items {
		b.WriteString(m.renderItem(t, i == m.cursor, now))
		b.WriteString("\n")
		if t.UID == m.expandedUID {
			b.WriteString(m.renderSubtasks(t))
		}
	}
	return b.String()
}

func (m Model) renderItem(t model.TaskView, selected bool, now time.Time) string {
	cursor := "  "
	if selected {
		cursor = m.styles.ItemCursor.Render("▸") + " "
	}

	check := "[ ]"
	if t.IsCompleted() {
		check = "[x]"
	}

	var parts []string
	if m.cfg.Mode == config.ModeTasks {
		parts = append(parts, m.styles.Icon.Render(iconGlyph(t.Meta.Icon)))
	}

	nameStyle := m.styles.ItemActive
	if t.IsCompleted() {
		nameStyle = m.styles.ItemCompleted
	}
	parts = append(parts, nameStyle.Render(t.Summary))

	if m.cfg.Mode == config.ModeShopping {
		if t.Meta.Quantity != "" {
			parts = append(parts, m.styles.Quantity.Render("(x"+t.Meta.Quantity+")"))
		}
		if t.Meta.Link != "" {
			parts = append(parts, m.styles.ItemMeta.Render("🔗"))
		}
	} else {
		// Priority label is noise on a finished task.
		if m.cfg.ShowPriority && !t.IsCompleted() {
			if info, ok := model.PriorityInfoFor(t.Meta.Priority); ok {
				parts = append(parts, m.styles.priorityStyle(info.Color).Render(info.Label))
			}
		}
		if t.Due != "" {
			due := model.FormatDueDate(t.Due, now)
			switch t.DueStatusAt(now) {
			case model.Overdue:
				parts = append(parts, m.styles.DueOverdue.Render("⚠ "+due))
			case model.DueToday:
				parts = append(parts, m.styles.DueToday.Render(due))
			default:
				parts = append(parts, m.styles.DueDate.Render(due))
			}
		}
		if done, total, _ := t.Meta.SubtaskProgress(); total > 0 {
			parts = append(parts, m.styles.Progress.Render(fmt.Sprintf("%d/%d", done, total)))
		}
	}

	return cursor + check + " " + strings.Join(parts, " ")
}

func (m Model) renderSubtasks(t model.TaskView) string {
	var b strings.Builder
	for i, st := range t.Meta.Subtasks {
		cursor := "    "
		if i == m.subCursor && m.mode != modeSubtaskInput {
			cursor = "   ▸"
		}
		check := "[ ]"
		style := m.styles.Subtask
		if st.Status == model.StatusCompleted {
			check = "[x]"
			style = m.styles.SubtaskDone
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, check, style.Render(st.Summary)))
	}
	if m.mode == modeSubtaskInput {
		b.WriteString("    + " + m.subtaskInput.View() + "\n")
	} else if len(t.Meta.Subtasks) == 0 {
		b.WriteString(m.styles.ItemMeta.Render("    no sub-items · press 'n' to add one") + "\n")
	}
	return b.String()
}

func (m Model) renderForm() string {
	var b strings.Builder
	b.WriteString(m.styles.FormTitle.Render(m.draft.title))
	b.WriteString("\n")
	for i, in := range m.draft.inputs {
		label := fmt.Sprintf("%-12s", m.draft.labels[i])
		if i == m.draft.focus {
			b.WriteString(m.styles.HelpKey.Render(label))
		} else {
			b.WriteString(m.styles.HelpDesc.Render(label))
		}
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.HelpDesc.Render("enter save · esc cancel · tab next field"))
	b.WriteString("\n")
	return m.styles.FormArea.Render(b.String()) + "\n"
}

func (m Model) renderHelp() string {
	type hint struct{ key, desc string }
	var hints []hint
	switch m.mode {
	case modeAdding, modeEditing, modeSubtaskInput:
		hints = []hint{{"enter", "save"}, {"esc", "cancel"}}
	case modeConfirmDelete, modeConfirmClear:
		hints = []hint{{"y", "confirm"}, {"n", "cancel"}}
	default:
		hints = []hint{
			{"a", "add"}, {"e", "edit"}, {"d", "delete"},
			{"tab", "done"},
		}
		if m.cfg.Mode == config.ModeShopping {
			hints = append(hints, hint{"o", "open link"})
		} else {
			hints = append(hints, hint{"enter", "sub-tasks"})
		}
		hints = append(hints, hint{"C", "clear"}, hint{"r", "refresh"}, hint{"q", "quit"})
	}

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = m.styles.HelpKey.Render(h.key) + " " + m.styles.HelpDesc.Render(h.desc)
	}
	return strings.Join(parts, m.styles.HelpSep.Render(" · "))
}
