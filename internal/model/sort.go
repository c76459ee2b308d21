package model

import (
	"math"
	"sort"
	"strings"
)

// SortField selects the comparator key.
type SortField string

const (
	SortByPriority SortField = "priority"
	SortByDueDate  SortField = "duedate"
	SortByTitle    SortField = "title"
)

// SortOrder selects the comparator direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Partition splits tasks into active and completed sequences, each sorted
// independently with the same comparator. Display order is active first.
func Partition(tasks []TaskView, by SortField, order SortOrder) (active, completed []TaskView) {
	for _, t := range tasks {
		if t.IsCompleted() {
			completed = append(completed, t)
		} else {
			active = append(active, t)
		}
	}
	SortTasks(active, by, order)
	SortTasks(completed, by, order)
	return active, completed
}

// SortTasks sorts in place with a stable sort; ties keep their fetch order.
func SortTasks(tasks []TaskView, by SortField, order SortOrder) {
	direction := 1
	if order == SortDesc {
		direction = -1
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return compareTasks(tasks[i], tasks[j], by)*direction < 0
	})
}

func compareTasks(a, b TaskView, by SortField) int {
	switch by {
	case SortByDueDate:
		// Items with no due date sort as +infinity before the direction is
		// applied, so they land last in ascending order and first-ish in
		// descending. That matches the shipped behavior; keep it.
		va, vb := dueSortValue(a), dueSortValue(b)
		switch {
		case va < vb:
			return -1
		case va > vb:
			return 1
		}
		return 0
	case SortByPriority:
		switch {
		case a.PriorityNum() < b.PriorityNum():
			return -1
		case a.PriorityNum() > b.PriorityNum():
			return 1
		}
		return 0
	default: // SortByTitle
		return strings.Compare(strings.ToLower(a.Summary), strings.ToLower(b.Summary))
	}
}

func dueSortValue(t TaskView) int64 {
	if t.Due == "" {
		return math.MaxInt64
	}
	parsed, ok := parseDue(t.Due)
	if !ok {
		return math.MaxInt64
	}
	return parsed.Unix()
}
