// Package store holds the authoritative in-memory task and project
// collections.
//
// A Store allocates identifiers, tracks the active project, and answers the
// sorted and filtered queries the presentation layer renders. It performs no
// I/O; persistence is handled by internal/storage on top of the copies the
// Store hands out.
package store

import (
	"slices"
	"sync"
	"time"

	"github.com/tgienger/postit/internal/models"
)

// DefaultTimeLayout formats task creation timestamps.
const DefaultTimeLayout = "2006-01-02 15:04:05"

// Clock supplies the current time for creation timestamps.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithTimeLayout sets the layout used for creation timestamps.
func WithTimeLayout(layout string) Option {
	return func(s *Store) {
		if layout != "" {
			s.layout = layout
		}
	}
}

// Store owns tasks, projects, identifier counters, and the active project.
type Store struct {
	mu sync.RWMutex

	tasks    []models.Task
	projects []models.Project

	nextTaskID    int64
	nextProjectID int64

	activeProject int64
	hasActive     bool

	clock  Clock
	layout string
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		clock:  ClockFunc(time.Now),
		layout: DefaultTimeLayout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTask stores a new pending task and returns it. The project reference
// is not checked.
func (s *Store) CreateTask(fields models.TaskFields) models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := models.Task{
		ID:          s.nextTaskID,
		Title:       fields.Title,
		Description: fields.Description,
		DueDate:     fields.DueDate,
		Priority:    fields.Priority,
		Color:       fields.Color,
		ProjectID:   fields.ProjectID,
		Done:        false,
		CreatedAt:   s.clock.Now().Format(s.layout),
	}
	s.nextTaskID++
	s.tasks = append(s.tasks, t)
	return t
}

// UpdateTask merges patch over the task with id. It reports false, and
// changes nothing, when no such task exists.
func (s *Store) UpdateTask(id int64, patch models.TaskPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return false
	}
	patch.Apply(&s.tasks[i])
	return true
}

// DeleteTask removes the task with id and reports whether it existed.
func (s *Store) DeleteTask(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return true
}

// Task returns the task with id.
func (s *Store) Task(id int64) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.taskIndex(id)
	if i < 0 {
		return models.Task{}, false
	}
	return s.tasks[i], true
}

// Tasks returns a copy of every task in insertion order.
func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// TasksForProject returns the tasks owned by projectID.
func (s *Store) TasksForProject(projectID int64) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasksFor(projectID)
}

// ActiveProjectTasks returns the tasks of the active project, or nil when no
// project is active.
func (s *Store) ActiveProjectTasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasActive {
		return nil
	}
	return s.tasksFor(s.activeProject)
}

// VisibleTasks returns the active project's tasks ordered by priority and
// narrowed by filter.
func (s *Store) VisibleTasks(filter models.Filter) []models.Task {
	tasks := s.ActiveProjectTasks()
	SortByPriority(tasks)
	return FilterTasks(tasks, filter)
}

// CreateProject stores a new project and returns it.
func (s *Store) CreateProject(fields models.ProjectFields) models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := models.Project{
		ID:    s.nextProjectID,
		Name:  fields.Name,
		Color: fields.Color,
	}
	s.nextProjectID++
	s.projects = append(s.projects, p)
	return p
}

// UpdateProject merges patch over the project with id.
func (s *Store) UpdateProject(id int64, patch models.ProjectPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.projectIndex(id)
	if i < 0 {
		return false
	}
	patch.Apply(&s.projects[i])
	return true
}

// DeleteProject removes the project with id together with all of its tasks.
// It reports whether the project existed; orphaned tasks referencing id are
// removed either way.
func (s *Store) DeleteProject(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = slices.DeleteFunc(s.tasks, func(t models.Task) bool {
		return t.ProjectID == id
	})

	i := s.projectIndex(id)
	if i < 0 {
		return false
	}
	s.projects = slices.Delete(s.projects, i, i+1)
	return true
}

// Project returns the project with id.
func (s *Store) Project(id int64) (models.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.projectIndex(id)
	if i < 0 {
		return models.Project{}, false
	}
	return s.projects[i], true
}

// Projects returns a copy of every project in insertion order.
func (s *Store) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.projects)
}

// SetActiveProject records which project's tasks are displayed. The id is not
// checked.
func (s *Store) SetActiveProject(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeProject = id
	s.hasActive = true
}

// ClearActiveProject unsets the active project.
func (s *Store) ClearActiveProject() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeProject = 0
	s.hasActive = false
}

// ActiveProjectID returns the active project id, if one is set.
func (s *Store) ActiveProjectID() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeProject, s.hasActive
}

// LoadAll replaces both collections and recomputes the identifier counters.
// The active project is left untouched.
func (s *Store) LoadAll(tasks []models.Task, projects []models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = slices.Clone(tasks)
	s.projects = slices.Clone(projects)

	s.nextTaskID = 0
	for _, t := range s.tasks {
		if t.ID >= s.nextTaskID {
			s.nextTaskID = t.ID + 1
		}
	}
	s.nextProjectID = 0
	for _, p := range s.projects {
		if p.ID >= s.nextProjectID {
			s.nextProjectID = p.ID + 1
		}
	}
}

// NextIDs returns the identifiers the next creates will assign.
func (s *Store) NextIDs() (task, project int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextTaskID, s.nextProjectID
}

func (s *Store) tasksFor(projectID int64) []models.Task {
	out := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

func (s *Store) taskIndex(id int64) int {
	return slices.IndexFunc(s.tasks, func(t models.Task) bool { return t.ID == id })
}

func (s *Store) projectIndex(id int64) int {
	return slices.IndexFunc(s.projects, func(p models.Project) bool { return p.ID == id })
}
