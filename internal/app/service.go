// Package app sequences validation, store mutation and persistence for the
// terminal UI and the command line.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tgienger/postit/internal/config"
	"github.com/tgienger/postit/internal/logging"
	"github.com/tgienger/postit/internal/models"
	"github.com/tgienger/postit/internal/storage"
	"github.com/tgienger/postit/internal/store"
)

var (
	ErrEmptyTitle      = errors.New("task title is required")
	ErrEmptyName       = errors.New("project name is required")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrUnknownProject  = errors.New("unknown project")
	ErrTaskNotFound    = errors.New("task not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrAmbiguousRef    = errors.New("reference matches more than one item")
)

const copyPrefix = "Copy of "

// Service is the single entry point for reading and changing postit data.
type Service struct {
	store   *store.Store
	storage *storage.Storage
	cfg     *config.Config
	logger  *slog.Logger
}

// New wires a service over an in-memory store and its persistence.
func New(st *store.Store, persist *storage.Storage, cfg *config.Config, logger *slog.Logger) *Service {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return &Service{
		store:   st,
		storage: persist,
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "app"),
	}
}

// Bootstrap loads persisted data, creates the default project on first run
// and restores the active project.
func (s *Service) Bootstrap(ctx context.Context) error {
	tasks, projects := s.storage.Load(ctx)
	s.store.LoadAll(tasks, projects)

	if len(projects) == 0 {
		p := s.store.CreateProject(models.ProjectFields{
			Name:  s.cfg.Defaults.ProjectName,
			Color: models.Color(s.cfg.Defaults.ProjectColor),
		})
		s.logger.Info("created default project", "project_id", p.ID, "name", p.Name)
		if err := s.save(ctx); err != nil {
			return err
		}
	}

	if id, ok := s.storage.LoadActiveProject(ctx); ok {
		if _, exists := s.store.Project(id); exists {
			s.store.SetActiveProject(id)
			return nil
		}
		s.logger.Warn("remembered project no longer exists", "project_id", id)
	}
	return s.selectFirst(ctx)
}

// AddTask validates fields and stores a new task.
func (s *Service) AddTask(ctx context.Context, fields models.TaskFields) (models.Task, error) {
	fields.Title = strings.TrimSpace(fields.Title)
	fields.Description = strings.TrimSpace(fields.Description)
	fields.DueDate = strings.TrimSpace(fields.DueDate)
	if fields.Title == "" {
		return models.Task{}, ErrEmptyTitle
	}
	if _, ok := s.store.Project(fields.ProjectID); !ok {
		return models.Task{}, fmt.Errorf("%w: %d", ErrUnknownProject, fields.ProjectID)
	}
	if fields.Priority == "" {
		fields.Priority = s.cfg.DefaultPriority()
	}
	if !fields.Priority.Valid() {
		return models.Task{}, fmt.Errorf("%w: %q", ErrInvalidPriority, fields.Priority)
	}
	if fields.Color == "" {
		fields.Color = models.Color(s.cfg.Defaults.TaskColor)
	}

	t := s.store.CreateTask(fields)
	s.logger.Info("task created", "task_id", t.ID, "project_id", t.ProjectID)
	return t, s.save(ctx)
}

// EditTask applies patch to the task with id after validating the supplied
// fields.
func (s *Service) EditTask(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	if _, ok := s.store.Task(id); !ok {
		return models.Task{}, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	if patch.Title != nil {
		patch.Title = models.Ptr(strings.TrimSpace(*patch.Title))
		if *patch.Title == "" {
			return models.Task{}, ErrEmptyTitle
		}
	}
	if patch.Description != nil {
		patch.Description = models.Ptr(strings.TrimSpace(*patch.Description))
	}
	if patch.DueDate != nil {
		patch.DueDate = models.Ptr(strings.TrimSpace(*patch.DueDate))
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return models.Task{}, fmt.Errorf("%w: %q", ErrInvalidPriority, *patch.Priority)
	}
	if patch.ProjectID != nil {
		if _, ok := s.store.Project(*patch.ProjectID); !ok {
			return models.Task{}, fmt.Errorf("%w: %d", ErrUnknownProject, *patch.ProjectID)
		}
	}
	if patch.Empty() {
		t, _ := s.store.Task(id)
		return t, nil
	}

	s.store.UpdateTask(id, patch)
	t, _ := s.store.Task(id)
	s.logger.Debug("task updated", "task_id", id)
	return t, s.save(ctx)
}

// ToggleTask flips the completion state of the task with id.
func (s *Service) ToggleTask(ctx context.Context, id int64) (models.Task, error) {
	t, ok := s.store.Task(id)
	if !ok {
		return models.Task{}, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	s.store.UpdateTask(id, models.TaskPatch{Done: models.Ptr(!t.Done)})
	t.Done = !t.Done
	s.logger.Debug("task toggled", "task_id", id, "done", t.Done)
	return t, s.save(ctx)
}

// SetTaskDone marks the task with id completed or pending.
func (s *Service) SetTaskDone(ctx context.Context, id int64, done bool) (models.Task, error) {
	return s.EditTask(ctx, id, models.TaskPatch{Done: models.Ptr(done)})
}

// DuplicateTask stores a pending copy of the task with id.
func (s *Service) DuplicateTask(ctx context.Context, id int64) (models.Task, error) {
	src, ok := s.store.Task(id)
	if !ok {
		return models.Task{}, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	t := s.store.CreateTask(copyFields(src, src.ProjectID))
	s.logger.Info("task duplicated", "task_id", t.ID, "source_id", id)
	return t, s.save(ctx)
}

// DeleteTask removes the task with id.
func (s *Service) DeleteTask(ctx context.Context, id int64) error {
	if !s.store.DeleteTask(id) {
		return fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	s.logger.Info("task deleted", "task_id", id)
	return s.save(ctx)
}

// AddProject stores a new project. An empty color takes the configured
// default.
func (s *Service) AddProject(ctx context.Context, fields models.ProjectFields) (models.Project, error) {
	fields.Name = strings.TrimSpace(fields.Name)
	if fields.Name == "" {
		return models.Project{}, ErrEmptyName
	}
	if fields.Color == "" {
		fields.Color = models.Color(s.cfg.Defaults.ProjectColor)
	}
	p := s.store.CreateProject(fields)
	s.logger.Info("project created", "project_id", p.ID, "name", p.Name)
	return p, s.save(ctx)
}

// EditProject applies patch to the project with id.
func (s *Service) EditProject(ctx context.Context, id int64, patch models.ProjectPatch) (models.Project, error) {
	if _, ok := s.store.Project(id); !ok {
		return models.Project{}, fmt.Errorf("%w: %d", ErrProjectNotFound, id)
	}
	if patch.Name != nil {
		patch.Name = models.Ptr(strings.TrimSpace(*patch.Name))
		if *patch.Name == "" {
			return models.Project{}, ErrEmptyName
		}
	}
	s.store.UpdateProject(id, patch)
	p, _ := s.store.Project(id)
	return p, s.save(ctx)
}

// SelectProject makes the project with id the active one and remembers it.
func (s *Service) SelectProject(ctx context.Context, id int64) (models.Project, error) {
	p, ok := s.store.Project(id)
	if !ok {
		return models.Project{}, fmt.Errorf("%w: %d", ErrProjectNotFound, id)
	}
	s.store.SetActiveProject(id)
	return p, s.storage.SaveActiveProject(ctx, id)
}

// DuplicateProject copies the project with id and all of its tasks.
func (s *Service) DuplicateProject(ctx context.Context, id int64) (models.Project, error) {
	src, ok := s.store.Project(id)
	if !ok {
		return models.Project{}, fmt.Errorf("%w: %d", ErrProjectNotFound, id)
	}
	p := s.store.CreateProject(models.ProjectFields{
		Name:  copyPrefix + src.Name,
		Color: src.Color,
	})
	tasks := s.store.TasksForProject(id)
	for _, t := range tasks {
		fields := copyFields(t, p.ID)
		fields.Title = t.Title
		s.store.CreateTask(fields)
	}
	s.logger.Info("project duplicated", "project_id", p.ID, "source_id", id, "tasks", len(tasks))
	return p, s.save(ctx)
}

// DeleteProject removes the project with id and its tasks. When it was the
// active project the first remaining project becomes active.
func (s *Service) DeleteProject(ctx context.Context, id int64) error {
	if !s.store.DeleteProject(id) {
		return fmt.Errorf("%w: %d", ErrProjectNotFound, id)
	}
	s.logger.Info("project deleted", "project_id", id)
	if err := s.save(ctx); err != nil {
		return err
	}
	if active, ok := s.store.ActiveProjectID(); !ok || active == id {
		return s.selectFirst(ctx)
	}
	return nil
}

// Projects returns every project in creation order.
func (s *Service) Projects() []models.Project {
	return s.store.Projects()
}

// Project returns the project with id.
func (s *Service) Project(id int64) (models.Project, error) {
	p, ok := s.store.Project(id)
	if !ok {
		return models.Project{}, fmt.Errorf("%w: %d", ErrProjectNotFound, id)
	}
	return p, nil
}

// ActiveProject returns the project whose tasks are displayed.
func (s *Service) ActiveProject() (models.Project, bool) {
	id, ok := s.store.ActiveProjectID()
	if !ok {
		return models.Project{}, false
	}
	return s.store.Project(id)
}

// VisibleTasks returns the active project's tasks, highest priority first,
// narrowed by filter.
func (s *Service) VisibleTasks(filter models.Filter) []models.Task {
	return s.store.VisibleTasks(filter)
}

// ProjectTasks returns the tasks of projectID ordered and filtered the same
// way as VisibleTasks.
func (s *Service) ProjectTasks(projectID int64, filter models.Filter) []models.Task {
	tasks := s.store.TasksForProject(projectID)
	store.SortByPriority(tasks)
	return store.FilterTasks(tasks, filter)
}

// Task returns the task with id.
func (s *Service) Task(id int64) (models.Task, error) {
	t, ok := s.store.Task(id)
	if !ok {
		return models.Task{}, fmt.Errorf("%w: %d", ErrTaskNotFound, id)
	}
	return t, nil
}

// FindProject resolves ref as a numeric id or a case-insensitive name.
func (s *Service) FindProject(ref string) (models.Project, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if p, ok := s.store.Project(id); ok {
			return p, nil
		}
	}
	var found []models.Project
	for _, p := range s.store.Projects() {
		if strings.EqualFold(p.Name, ref) {
			found = append(found, p)
		}
	}
	switch len(found) {
	case 0:
		return models.Project{}, fmt.Errorf("%w: %q", ErrProjectNotFound, ref)
	case 1:
		return found[0], nil
	}
	return models.Project{}, fmt.Errorf("%w: %q", ErrAmbiguousRef, ref)
}

// FindTask resolves ref as a numeric id or a case-insensitive title.
func (s *Service) FindTask(ref string) (models.Task, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if t, ok := s.store.Task(id); ok {
			return t, nil
		}
	}
	var found []models.Task
	for _, t := range s.store.Tasks() {
		if strings.EqualFold(t.Title, ref) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return models.Task{}, fmt.Errorf("%w: %q", ErrTaskNotFound, ref)
	case 1:
		return found[0], nil
	}
	return models.Task{}, fmt.Errorf("%w: %q", ErrAmbiguousRef, ref)
}

// Export writes every task and project to w.
func (s *Service) Export(w io.Writer) error {
	return storage.Export(w, s.store.Tasks(), s.store.Projects())
}

// Import replaces all data with the document read from r.
func (s *Service) Import(ctx context.Context, r io.Reader) (storage.Snapshot, error) {
	snap, err := storage.Import(r)
	if err != nil {
		return storage.Snapshot{}, err
	}
	s.store.LoadAll(snap.Tasks, snap.Projects)
	s.logger.Info("data imported", "tasks", len(snap.Tasks), "projects", len(snap.Projects))
	if err := s.save(ctx); err != nil {
		return snap, err
	}
	if id, ok := s.store.ActiveProjectID(); ok {
		if _, exists := s.store.Project(id); exists {
			return snap, nil
		}
	}
	return snap, s.selectFirst(ctx)
}

// Stats reports the number of tasks and completed tasks in a project.
func (s *Service) Stats(projectID int64) (total, done int) {
	tasks := s.store.TasksForProject(projectID)
	return len(tasks), store.CountDone(tasks)
}

func (s *Service) selectFirst(ctx context.Context) error {
	projects := s.store.Projects()
	if len(projects) == 0 {
		s.store.ClearActiveProject()
		return s.storage.ClearActiveProject(ctx)
	}
	s.store.SetActiveProject(projects[0].ID)
	return s.storage.SaveActiveProject(ctx, projects[0].ID)
}

func (s *Service) save(ctx context.Context) error {
	return s.storage.Save(ctx, s.store.Tasks(), s.store.Projects())
}

func copyFields(t models.Task, projectID int64) models.TaskFields {
	return models.TaskFields{
		Title:       copyPrefix + t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Color:       t.Color,
		ProjectID:   projectID,
	}
}
