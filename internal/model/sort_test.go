package model

import "testing"

func task(summary, priority, due string, status Status) TaskView {
	return TaskView{
		Item: Item{UID: summary, Summary: summary, Due: due, Status: status},
		Meta: Metadata{Priority: priority},
	}
}

func summaries(tasks []TaskView) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Summary
	}
	return out
}

func assertOrder(t *testing.T, got []TaskView, want ...string) {
	t.Helper()
	gotNames := summaries(got)
	if len(gotNames) != len(want) {
		t.Fatalf("got %v, want %v", gotNames, want)
	}
	for i := range want {
		if gotNames[i] != want[i] {
			t.Fatalf("got %v, want %v", gotNames, want)
		}
	}
}

func TestSortTasksByPriority(t *testing.T) {
	tasks := []TaskView{
		task("a", "8", "", StatusNeedsAction),
		task("b", "1", "", StatusNeedsAction),
		task("c", "5", "", StatusNeedsAction),
	}
	SortTasks(tasks, SortByPriority, SortAsc)
	assertOrder(t, tasks, "b", "c", "a")

	SortTasks(tasks, SortByPriority, SortDesc)
	assertOrder(t, tasks, "a", "c", "b")
}

func TestSortTasksByDueDate(t *testing.T) {
	tasks := []TaskView{
		task("late", "5", "2026-06-01", StatusNeedsAction),
		task("none", "5", "", StatusNeedsAction),
		task("soon", "5", "2026-01-01", StatusNeedsAction),
	}
	SortTasks(tasks, SortByDueDate, SortAsc)
	assertOrder(t, tasks, "soon", "late", "none")
}

func TestSortTasksNoDueSortsAsInfinity(t *testing.T) {
	tasks := []TaskView{
		task("none", "5", "", StatusNeedsAction),
		task("dated", "5", "2026-01-01", StatusNeedsAction),
	}
	// Descending flips the comparison, so the missing-date item leads.
	SortTasks(tasks, SortByDueDate, SortDesc)
	assertOrder(t, tasks, "none", "dated")

	SortTasks(tasks, SortByDueDate, SortAsc)
	assertOrder(t, tasks, "dated", "none")
}

func TestSortTasksUnparsableDueSortsLikeMissing(t *testing.T) {
	tasks := []TaskView{
		task("bad", "5", "whenever", StatusNeedsAction),
		task("dated", "5", "2026-01-01", StatusNeedsAction),
	}
	SortTasks(tasks, SortByDueDate, SortAsc)
	assertOrder(t, tasks, "dated", "bad")
}

func TestSortTasksByTitleIsCaseInsensitive(t *testing.T) {
	tasks := []TaskView{
		task("banana", "5", "", StatusNeedsAction),
		task("Apple", "5", "", StatusNeedsAction),
		task("cherry", "5", "", StatusNeedsAction),
	}
	SortTasks(tasks, SortByTitle, SortAsc)
	assertOrder(t, tasks, "Apple", "banana", "cherry")
}

func TestSortTasksStableOnTies(t *testing.T) {
	tasks := []TaskView{
		task("first", "5", "", StatusNeedsAction),
		task("second", "5", "", StatusNeedsAction),
		task("third", "5", "", StatusNeedsAction),
	}
	SortTasks(tasks, SortByPriority, SortAsc)
	assertOrder(t, tasks, "first", "second", "third")
}

func TestPartition(t *testing.T) {
	tasks := []TaskView{
		task("done-late", "9", "", StatusCompleted),
		task("open-b", "7", "", StatusNeedsAction),
		task("done-early", "1", "", StatusCompleted),
		task("open-a", "2", "", StatusNeedsAction),
	}
	active, completed := Partition(tasks, SortByPriority, SortAsc)
	assertOrder(t, active, "open-a", "open-b")
	assertOrder(t, completed, "done-early", "done-late")
}

func TestPartitionEmpty(t *testing.T) {
	active, completed := Partition(nil, SortByPriority, SortAsc)
	if len(active) != 0 || len(completed) != 0 {
		t.Errorf("Partition(nil) = %v, %v, want empty", active, completed)
	}
}
