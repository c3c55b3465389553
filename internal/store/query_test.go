package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tgienger/postit/internal/models"
	"github.com/tgienger/postit/internal/store"
)

func TestSortByPriorityIsStable(t *testing.T) {
	tasks := []models.Task{
		{ID: 0, Priority: models.PriorityLow},
		{ID: 1, Priority: models.PriorityHigh},
		{ID: 2, Priority: models.PriorityMedium},
		{ID: 3, Priority: models.PriorityHigh},
	}

	store.SortByPriority(tasks)

	var ids []int64
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}
	assert.Equal(t, []int64{1, 3, 2, 0}, ids)
}

func TestSortByPriorityUnknownLast(t *testing.T) {
	tasks := []models.Task{
		{ID: 0, Priority: "urgent"},
		{ID: 1, Priority: models.PriorityLow},
	}
	store.SortByPriority(tasks)
	assert.Equal(t, int64(1), tasks[0].ID)
}

func TestFilterTasks(t *testing.T) {
	tasks := []models.Task{
		{ID: 0, Done: true},
		{ID: 1},
		{ID: 2, Done: true},
	}

	tests := []struct {
		filter models.Filter
		want   []int64
	}{
		{models.FilterAll, []int64{0, 1, 2}},
		{models.FilterPending, []int64{1}},
		{models.FilterCompleted, []int64{0, 2}},
	}
	for _, tt := range tests {
		t.Run(string(tt.filter), func(t *testing.T) {
			var ids []int64
			for _, task := range store.FilterTasks(tasks, tt.filter) {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestVisibleTasksSortsThenFilters(t *testing.T) {
	s := newStore()
	s.CreateTask(models.TaskFields{Title: "low", Priority: models.PriorityLow, ProjectID: 0})
	high := s.CreateTask(models.TaskFields{Title: "high", Priority: models.PriorityHigh, ProjectID: 0})
	s.CreateTask(models.TaskFields{Title: "other", Priority: models.PriorityHigh, ProjectID: 1})
	med := s.CreateTask(models.TaskFields{Title: "med", Priority: models.PriorityMedium, ProjectID: 0})
	s.UpdateTask(high.ID, models.TaskPatch{Done: models.Ptr(true)})
	s.SetActiveProject(0)

	var titles []string
	for _, task := range s.VisibleTasks(models.FilterAll) {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"high", "med", "low"}, titles)

	completed := s.VisibleTasks(models.FilterCompleted)
	if assert.Len(t, completed, 1) {
		assert.Equal(t, high.ID, completed[0].ID)
	}

	pending := s.VisibleTasks(models.FilterPending)
	if assert.Len(t, pending, 2) {
		assert.Equal(t, med.ID, pending[0].ID)
	}
	assert.Equal(t, 1, store.CountDone(s.VisibleTasks(models.FilterAll)))
}
