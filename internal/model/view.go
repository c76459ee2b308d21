package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okvist/hatodo/internal/sanitize"
)

// TaskView joins a host item with its decoded metadata. It is rebuilt on
// every fetch and treated as a value; nothing mutates it in place.
type TaskView struct {
	Item
	Meta Metadata
}

// NewTaskView decodes the item's description into metadata.
func NewTaskView(it Item) TaskView {
	return TaskView{Item: it, Meta: ParseMetadata(it.Description)}
}

// NewTaskViews builds views for a whole item list.
func NewTaskViews(items []Item) []TaskView {
	views := make([]TaskView, len(items))
	for i, it := range items {
		views[i] = NewTaskView(it)
	}
	return views
}

// DueStatus classifies an item's due date relative to a reference day.
type DueStatus int

const (
	DueNone DueStatus = iota
	DueToday
	Overdue
)

// DueStatusAt compares the date-only portion of the due value against the
// date-only portion of now. Completed items never report a due status.
func (t TaskView) DueStatusAt(now time.Time) DueStatus {
	if t.Due == "" || t.IsCompleted() {
		return DueNone
	}
	dueDay := t.Due
	if i := strings.IndexAny(dueDay, "T "); i >= 0 {
		dueDay = dueDay[:i]
	}
	today := now.Format("2006-01-02")
	switch {
	case dueDay < today:
		return Overdue
	case dueDay == today:
		return DueToday
	default:
		return DueNone
	}
}

// DueStatus classifies against the local clock.
func (t TaskView) DueStatus() DueStatus {
	return t.DueStatusAt(time.Now())
}

// PriorityNum returns the numeric priority, falling back to the default
// when the stored value is unparsable.
func (t TaskView) PriorityNum() int {
	n, err := strconv.Atoi(t.Meta.Priority)
	if err != nil {
		n, _ = strconv.Atoi(sanitize.DefaultPriority)
	}
	return n
}

// PriorityColor is an abstract severity token; the UI maps it to a
// concrete style.
type PriorityColor int

const (
	ColorError PriorityColor = iota
	ColorWarning
	ColorSuccess
)

// PriorityInfo is the display band for a numeric priority.
type PriorityInfo struct {
	Label string
	Color PriorityColor
}

// PriorityInfoFor bands a priority value for display. Urgent and High share
// the error color; only Medium and Low get distinct tokens.
func PriorityInfoFor(priority string) (PriorityInfo, bool) {
	p, err := strconv.Atoi(priority)
	if err != nil {
		return PriorityInfo{}, false
	}
	switch {
	case p <= 1:
		return PriorityInfo{Label: "Urgent", Color: ColorError}, true
	case p <= 4:
		return PriorityInfo{Label: "High", Color: ColorError}, true
	case p <= 7:
		return PriorityInfo{Label: "Medium", Color: ColorWarning}, true
	default:
		return PriorityInfo{Label: "Low", Color: ColorSuccess}, true
	}
}

// dueLayouts are tried in order when parsing a stored due value.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDue(due string) (time.Time, bool) {
	for _, layout := range dueLayouts {
		if t, err := time.Parse(layout, due); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SplitDue breaks a stored due value into a form date ("2006-01-02") and,
// when the value carries a non-midnight time, a form clock ("15:04").
// Malformed input yields two empty strings.
func SplitDue(due string) (date, clock string) {
	if due == "" {
		return "", ""
	}
	t, ok := parseDue(due)
	if !ok {
		return "", ""
	}
	date = t.Format("2006-01-02")
	if dueHasTime(due, t) {
		clock = t.Format("15:04")
	}
	return date, clock
}

// dueHasTime reports whether a stored due value carries a non-midnight time
// component. Hosts write either a bare date or a date-time with a T or
// space separator; a midnight time counts as date-only.
func dueHasTime(due string, t time.Time) bool {
	if len(due) <= len("2006-01-02") {
		return false
	}
	return t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0
}

// FormatDueDate renders a due value as "2.jan", adding the year when it
// differs from now's year and an HH:MM suffix when the stored value carries
// a non-midnight time. Malformed input comes back unchanged.
func FormatDueDate(due string, now time.Time) string {
	if due == "" {
		return ""
	}
	t, ok := parseDue(due)
	if !ok {
		return due
	}
	hasTime := dueHasTime(due, t)
	out := fmt.Sprintf("%d.%s", t.Day(), strings.ToLower(t.Format("Jan")))
	if t.Year() != now.Year() {
		out += fmt.Sprintf(".%d", t.Year())
	}
	if hasTime {
		out += fmt.Sprintf(", %02d:%02d", t.Hour(), t.Minute())
	}
	return out
}
