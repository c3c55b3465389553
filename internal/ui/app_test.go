package ui

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
	"github.com/tgienger/postit/internal/ui/views"
)

func newTestApp(t *testing.T) (*App, *app.Service) {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	cfg := config.Default()
	logger := logging.NewNop()
	svc := app.New(store.New(), storage.New(database, logger), &cfg, logger)
	require.NoError(t, svc.Bootstrap(context.Background()))
	return NewApp(context.Background(), svc, Options{Filter: models.FilterPending, Logger: logger}), svc
}

func TestInitOpensActiveProject(t *testing.T) {
	a, _ := newTestApp(t)
	require.NotNil(t, a.Init())
	assert.Equal(t, ViewTasks, a.CurrentView())
	assert.Equal(t, models.FilterPending, a.taskList.Filter())
}

func TestSelectedProjectSwitchesActive(t *testing.T) {
	ctx := context.Background()
	a, svc := newTestApp(t)
	work, err := svc.AddProject(ctx, models.ProjectFields{Name: "Work"})
	require.NoError(t, err)

	_, cmd := a.Update(views.SelectedProject{Project: work})
	require.NotNil(t, cmd)
	assert.Equal(t, ViewTasks, a.CurrentView())

	active, ok := svc.ActiveProject()
	require.True(t, ok)
	assert.Equal(t, work.ID, active.ID)
}

func TestBackToProjects(t *testing.T) {
	a, _ := newTestApp(t)
	a.Init()
	_, cmd := a.Update(views.BackToProjects{})
	require.NotNil(t, cmd)
	assert.Equal(t, ViewProjects, a.CurrentView())

	a.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	assert.Equal(t, 90, a.width)
}
