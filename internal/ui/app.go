// Package ui is the interactive terminal front end.
package ui

import (
	"context"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/postit/internal/app"
	"github.com/tgienger/postit/internal/logging"
	"github.com/tgienger/postit/internal/models"
	"github.com/tgienger/postit/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewProjects View = iota
	ViewTasks
)

// Options tune the initial state of the UI
type Options struct {
	Filter models.Filter
	Logger *slog.Logger
}

type App struct {
	ctx         context.Context
	svc         *app.Service
	logger      *slog.Logger
	filter      models.Filter
	currentView View
	projectList *views.ProjectListView
	taskList    *views.TaskListView
	width       int
	height      int
}

// NewApp creates the root model over svc, which must already be bootstrapped
func NewApp(ctx context.Context, svc *app.Service, opts Options) *App {
	filter := opts.Filter
	if filter == "" {
		filter = models.FilterAll
	}
	return &App{
		ctx:         ctx,
		svc:         svc,
		logger:      logging.NewComponentLogger(opts.Logger, "ui"),
		filter:      filter,
		currentView: ViewProjects,
		projectList: views.NewProjectListView(ctx, svc),
	}
}

func (a *App) Init() tea.Cmd {
	// Reopen the active project, as the last session left it
	if project, ok := a.svc.ActiveProject(); ok {
		return a.openProject(project)
	}
	return a.projectList.Init()
}

func (a *App) openProject(project models.Project) tea.Cmd {
	if a.taskList != nil {
		a.filter = a.taskList.Filter()
	}
	a.currentView = ViewTasks
	a.taskList = views.NewTaskListView(a.ctx, a.svc, project, a.filter)

	// Initialize task list with window size
	return tea.Batch(
		a.taskList.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Always update project list size since it persists
		a.projectList.Update(msg)

	case views.SelectedProject:
		project, err := a.svc.SelectProject(a.ctx, msg.Project.ID)
		if err != nil {
			a.logger.Warn("select project failed", "project_id", msg.Project.ID, logging.Error(err))
			if project.Name == "" {
				return a, a.projectList.Init()
			}
		}
		a.logger.Debug("project opened", "project_id", project.ID)
		return a, a.openProject(project)

	case views.BackToProjects:
		if a.taskList != nil {
			a.filter = a.taskList.Filter()
		}
		a.currentView = ViewProjects
		return a, tea.Batch(
			a.projectList.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewProjects:
		_, cmd = a.projectList.Update(msg)
	case ViewTasks:
		_, cmd = a.taskList.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewTasks:
		if a.taskList != nil {
			return a.taskList.View()
		}
	}
	return a.projectList.View()
}

// CurrentView reports which view is on screen
func (a *App) CurrentView() View {
	return a.currentView
}
