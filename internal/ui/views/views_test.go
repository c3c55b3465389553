package views

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/postit/internal/app"
	"github.com/tgienger/postit/internal/config"
	"github.com/tgienger/postit/internal/db"
	"github.com/tgienger/postit/internal/logging"
	"github.com/tgienger/postit/internal/models"
	"github.com/tgienger/postit/internal/storage"
	"github.com/tgienger/postit/internal/store"
)

func newService(t *testing.T) *app.Service {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	cfg := config.Default()
	logger := logging.NewNop()
	svc := app.New(store.New(), storage.New(database, logger), &cfg, logger)
	require.NoError(t, svc.Bootstrap(context.Background()))
	return svc
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send delivers msg and then every message its commands produce, the way the
// bubbletea runtime would.
func send(m tea.Model, msg tea.Msg) {
	_, cmd := m.Update(msg)
	drain(m, cmd, 0)
}

func drain(m tea.Model, cmd tea.Cmd, depth int) {
	if cmd == nil || depth > 5 {
		return
	}
	switch msg := cmd().(type) {
	case nil, tea.QuitMsg:
	case tea.BatchMsg:
		for _, c := range msg {
			drain(m, c, depth+1)
		}
	default:
		_, next := m.Update(msg)
		drain(m, next, depth+1)
	}
}

func typeText(m tea.Model, s string) {
	for _, r := range s {
		send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func newTaskView(t *testing.T, svc *app.Service) *TaskListView {
	t.Helper()
	project, ok := svc.ActiveProject()
	require.True(t, ok)
	v := NewTaskListView(context.Background(), svc, project, models.FilterAll)
	send(v, tea.WindowSizeMsg{Width: 100, Height: 40})
	drain(v, v.Init(), 0)
	return v
}

func TestTaskViewCreateTask(t *testing.T) {
	svc := newService(t)
	v := newTaskView(t, svc)

	send(v, runes("n"))
	require.True(t, v.editing)
	typeText(v, "Buy milk")
	send(v, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.False(t, v.editing)
	require.Len(t, v.tasks, 1)
	assert.Equal(t, "Buy milk", v.tasks[0].Title)
	assert.Equal(t, models.PriorityLow, v.tasks[0].Priority)
	assert.Contains(t, v.View(), "Buy milk")
}

func TestTaskViewEmptyTitleKeepsFormOpen(t *testing.T) {
	svc := newService(t)
	v := newTaskView(t, svc)

	send(v, runes("n"))
	send(v, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.True(t, v.editing)
	assert.ErrorIs(t, v.status.err, app.ErrEmptyTitle)
	assert.Contains(t, v.View(), app.ErrEmptyTitle.Error())
}

func TestTaskViewToggleAndFilter(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.AddTask(ctx, models.TaskFields{Title: "low"})
	require.NoError(t, err)
	_, err = svc.AddTask(ctx, models.TaskFields{Title: "high", Priority: models.PriorityHigh})
	require.NoError(t, err)

	v := newTaskView(t, svc)
	require.Len(t, v.tasks, 2)
	assert.Equal(t, "high", v.tasks[0].Title)

	send(v, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.True(t, v.tasks[0].Done)

	send(v, runes("2"))
	assert.Equal(t, models.FilterPending, v.filter)
	require.Len(t, v.tasks, 1)
	assert.Equal(t, "low", v.tasks[0].Title)

	send(v, runes("f"))
	assert.Equal(t, models.FilterCompleted, v.filter)
	require.Len(t, v.tasks, 1)
	assert.Equal(t, "high", v.tasks[0].Title)

	send(v, runes("f"))
	assert.Equal(t, models.FilterAll, v.filter)
	assert.Len(t, v.tasks, 2)
}

func TestTaskViewDuplicateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.AddTask(ctx, models.TaskFields{Title: "note"})
	require.NoError(t, err)
	v := newTaskView(t, svc)

	send(v, runes("c"))
	require.Len(t, v.tasks, 2)
	assert.Equal(t, "Copy of note", v.tasks[1].Title)

	send(v, runes("d"))
	require.True(t, v.confirmingDelete)
	send(v, runes("n"))
	assert.Len(t, v.tasks, 2)

	send(v, runes("d"))
	send(v, runes("y"))
	require.Len(t, v.tasks, 1)
	assert.Equal(t, "Copy of note", v.tasks[0].Title)
}

func TestTaskViewEditCyclesPriority(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	task, err := svc.AddTask(ctx, models.TaskFields{Title: "edit me"})
	require.NoError(t, err)
	v := newTaskView(t, svc)

	send(v, runes("e"))
	require.True(t, v.editing)
	for range fieldPriority {
		send(v, tea.KeyMsg{Type: tea.KeyTab})
	}
	send(v, tea.KeyMsg{Type: tea.KeyRight})
	send(v, tea.KeyMsg{Type: tea.KeyRight})
	send(v, tea.KeyMsg{Type: tea.KeyCtrlS})

	got, err := svc.Task(task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, got.Priority)
	assert.Equal(t, "edit me", got.Title)
}

func TestTaskViewPostItShowsSelectedTask(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.AddTask(ctx, models.TaskFields{Title: "sticky", Description: "remember this", DueDate: "2024-05-01"})
	require.NoError(t, err)
	v := newTaskView(t, svc)

	out := v.View()
	assert.Contains(t, out, "remember this")
	assert.Contains(t, out, "2024-05-01")
}

func TestTaskViewBackToProjects(t *testing.T) {
	v := newTaskView(t, newService(t))
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, BackToProjects{}, cmd())
}

func TestProjectViewCreateSelectsProject(t *testing.T) {
	svc := newService(t)
	v := NewProjectListView(context.Background(), svc)
	send(v, tea.WindowSizeMsg{Width: 100, Height: 40})
	drain(v, v.Init(), 0)
	require.Len(t, v.list.Items(), 1)

	send(v, runes("n"))
	require.True(t, v.editing)
	typeText(v, "Work")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	selected, ok := cmd().(SelectedProject)
	require.True(t, ok)
	assert.Equal(t, "Work", selected.Project.Name)
	assert.Len(t, svc.Projects(), 2)
}

func TestProjectViewDuplicateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.AddTask(ctx, models.TaskFields{Title: "inbox task"})
	require.NoError(t, err)

	v := NewProjectListView(ctx, svc)
	send(v, tea.WindowSizeMsg{Width: 100, Height: 40})
	drain(v, v.Init(), 0)

	send(v, runes("c"))
	require.Len(t, v.list.Items(), 2)
	assert.Equal(t, "Copy of Inbox", v.list.Items()[1].(projectItem).project.Name)

	send(v, runes("d"))
	require.True(t, v.confirmingDelete)
	send(v, runes("y"))
	require.Len(t, v.list.Items(), 1)
	assert.Equal(t, "Copy of Inbox", v.list.Items()[0].(projectItem).project.Name)
	assert.Equal(t, 1, v.list.Items()[0].(projectItem).total)
}
