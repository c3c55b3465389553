package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/postit/internal/models"
	"github.com/tgienger/postit/internal/store"
)

func fixedClock(t time.Time) store.Clock {
	return store.ClockFunc(func() time.Time { return t })
}

func newStore() *store.Store {
	return store.New(store.WithClock(fixedClock(time.Date(2024, 4, 30, 10, 11, 12, 0, time.UTC))))
}

func TestCreateTaskAssignsIncreasingIDs(t *testing.T) {
	s := newStore()

	var ids []int64
	for i := 0; i < 5; i++ {
		task := s.CreateTask(models.TaskFields{Title: "task", Priority: models.PriorityLow})
		ids = append(ids, task.ID)
	}

	assert.Equal(t, []int64{0, 1, 2, 3, 4}, ids)
	assert.Len(t, s.Tasks(), 5)
}

func TestCreateTaskDefaults(t *testing.T) {
	s := newStore()

	task := s.CreateTask(models.TaskFields{
		Title:     "Write report",
		DueDate:   "2024-05-01",
		Priority:  models.PriorityHigh,
		Color:     "red",
		ProjectID: 42,
	})

	assert.False(t, task.Done)
	assert.Equal(t, "2024-04-30 10:11:12", task.CreatedAt)
	assert.Equal(t, int64(42), task.ProjectID, "project reference is stored unchecked")

	got, ok := s.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, task, got)
}

func TestCreateTaskUsesTimeLayout(t *testing.T) {
	s := store.New(
		store.WithClock(fixedClock(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))),
		store.WithTimeLayout(time.RFC3339),
	)
	task := s.CreateTask(models.TaskFields{Title: "x"})
	assert.Equal(t, "2024-01-02T03:04:05Z", task.CreatedAt)
}

func TestUpdateTaskMergesOnlySuppliedFields(t *testing.T) {
	s := newStore()
	orig := s.CreateTask(models.TaskFields{
		Title:       "Original",
		Description: "keep me",
		Priority:    models.PriorityLow,
		Color:       "blue",
	})

	ok := s.UpdateTask(orig.ID, models.TaskPatch{
		Title:    models.Ptr("Renamed"),
		Priority: models.Ptr(models.PriorityHigh),
	})
	require.True(t, ok)

	got, _ := s.Task(orig.ID)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.Equal(t, "keep me", got.Description)
	assert.Equal(t, models.Color("blue"), got.Color)
	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, orig.CreatedAt, got.CreatedAt)
	assert.False(t, got.Done)
}

func TestUpdateTaskMissingLeavesCollection(t *testing.T) {
	s := newStore()
	s.CreateTask(models.TaskFields{Title: "only"})

	ok := s.UpdateTask(99, models.TaskPatch{Title: models.Ptr("ghost")})

	assert.False(t, ok)
	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "only", tasks[0].Title)
}

func TestDeleteTask(t *testing.T) {
	s := newStore()
	a := s.CreateTask(models.TaskFields{Title: "a"})
	b := s.CreateTask(models.TaskFields{Title: "b"})

	assert.True(t, s.DeleteTask(a.ID))
	assert.False(t, s.DeleteTask(a.ID))

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, b.ID, tasks[0].ID)
}

func TestListsAreCopies(t *testing.T) {
	s := newStore()
	s.CreateTask(models.TaskFields{Title: "a"})
	s.CreateProject(models.ProjectFields{Name: "p"})

	tasks := s.Tasks()
	tasks[0].Title = "mutated"
	projects := s.Projects()
	projects[0].Name = "mutated"

	got, _ := s.Task(0)
	assert.Equal(t, "a", got.Title)
	p, _ := s.Project(0)
	assert.Equal(t, "p", p.Name)
}

func TestDeleteProjectCascades(t *testing.T) {
	s := newStore()
	p0 := s.CreateProject(models.ProjectFields{Name: "zero"})
	p1 := s.CreateProject(models.ProjectFields{Name: "one"})
	s.CreateTask(models.TaskFields{Title: "t0", ProjectID: p0.ID})
	t1 := s.CreateTask(models.TaskFields{Title: "t1", ProjectID: p1.ID})

	require.True(t, s.DeleteProject(p0.ID))

	projects := s.Projects()
	require.Len(t, projects, 1)
	assert.Equal(t, p1.ID, projects[0].ID)

	tasks := s.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, t1.ID, tasks[0].ID)
	assert.Equal(t, p1.ID, tasks[0].ProjectID)

	assert.False(t, s.DeleteProject(p0.ID))
}

func TestUpdateProject(t *testing.T) {
	s := newStore()
	p := s.CreateProject(models.ProjectFields{Name: "Inbox", Color: "blue"})

	require.True(t, s.UpdateProject(p.ID, models.ProjectPatch{Color: models.Ptr(models.Color("red"))}))
	got, _ := s.Project(p.ID)
	assert.Equal(t, "Inbox", got.Name)
	assert.Equal(t, models.Color("red"), got.Color)

	assert.False(t, s.UpdateProject(7, models.ProjectPatch{Name: models.Ptr("x")}))
}

func TestActiveProject(t *testing.T) {
	s := newStore()
	_, ok := s.ActiveProjectID()
	assert.False(t, ok)
	assert.Nil(t, s.ActiveProjectTasks())

	s.CreateTask(models.TaskFields{Title: "a", ProjectID: 1})
	s.CreateTask(models.TaskFields{Title: "b", ProjectID: 2})
	s.CreateTask(models.TaskFields{Title: "c", ProjectID: 1})

	s.SetActiveProject(1)
	id, ok := s.ActiveProjectID()
	require.True(t, ok)
	assert.Equal(t, int64(1), id)

	var titles []string
	for _, task := range s.ActiveProjectTasks() {
		titles = append(titles, task.Title)
	}
	assert.Equal(t, []string{"a", "c"}, titles)

	s.ClearActiveProject()
	_, ok = s.ActiveProjectID()
	assert.False(t, ok)
}

func TestLoadAllRecomputesCounters(t *testing.T) {
	s := newStore()
	s.CreateTask(models.TaskFields{Title: "before"})
	s.CreateProject(models.ProjectFields{Name: "before"})

	s.LoadAll(nil, nil)
	nextTask, nextProject := s.NextIDs()
	assert.Zero(t, nextTask)
	assert.Zero(t, nextProject)
	task := s.CreateTask(models.TaskFields{Title: "x"})
	assert.Equal(t, int64(0), task.ID)

	s.LoadAll([]models.Task{{ID: 5, Title: "five"}}, []models.Project{{ID: 2}, {ID: 9}})
	task = s.CreateTask(models.TaskFields{Title: "six"})
	assert.Equal(t, int64(6), task.ID)
	project := s.CreateProject(models.ProjectFields{Name: "ten"})
	assert.Equal(t, int64(10), project.ID)
}

func TestLoadAllCopiesInput(t *testing.T) {
	s := newStore()
	in := []models.Task{{ID: 1, Title: "one"}}
	s.LoadAll(in, nil)
	in[0].Title = "changed"

	got, ok := s.Task(1)
	require.True(t, ok)
	assert.Equal(t, "one", got.Title)
}
