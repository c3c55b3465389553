package store

import (
	"slices"

	"github.com/tgienger/postit/internal/models"
)

// SortByPriority orders tasks by priority, highest first. Tasks of equal
// priority keep their relative order.
func SortByPriority(tasks []models.Task) {
	slices.SortStableFunc(tasks, func(a, b models.Task) int {
		return b.Priority.Rank() - a.Priority.Rank()
	})
}

// FilterTasks returns the tasks that pass filter, preserving order.
func FilterTasks(tasks []models.Task, filter models.Filter) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if filter.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// CountDone returns how many of tasks are completed.
func CountDone(tasks []models.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Done {
			n++
		}
	}
	return n
}
