// Package storage persists the store's collections as JSON documents in a
// durable key-value store.
//
// Tasks and projects live under the "tasks" and "projects" keys, each holding
// a JSON array. Loading never fails: an absent or unparsable document is
// logged and replaced with an empty collection so the application can start.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/tgienger/postit/internal/logging"
	"github.com/tgienger/postit/internal/models"
)

const (
	TasksKey         = "tasks"
	ProjectsKey      = "projects"
	ActiveProjectKey = "active_project"
)

// KV is the durable byte store the adapter writes to. internal/db.DB
// implements it.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, entries map[string][]byte) error
	Delete(ctx context.Context, key string) error
}

// Storage serializes tasks and projects to a KV.
type Storage struct {
	kv     KV
	logger *slog.Logger
}

// New returns a Storage writing to kv.
func New(kv KV, logger *slog.Logger) *Storage {
	return &Storage{
		kv:     kv,
		logger: logging.NewComponentLogger(logger, "storage"),
	}
}

// Save writes both collections in one batch. Failures are logged and
// returned; the in-memory state is unaffected.
func (s *Storage) Save(ctx context.Context, tasks []models.Task, projects []models.Project) error {
	taskJSON, err := marshalArray(tasks)
	if err != nil {
		s.logger.Error("encode tasks failed", logging.Error(err))
		return fmt.Errorf("encode tasks: %w", err)
	}
	projectJSON, err := marshalArray(projects)
	if err != nil {
		s.logger.Error("encode projects failed", logging.Error(err))
		return fmt.Errorf("encode projects: %w", err)
	}

	if err := s.kv.SetMany(ctx, map[string][]byte{
		TasksKey:    taskJSON,
		ProjectsKey: projectJSON,
	}); err != nil {
		s.logger.Error("save data failed", logging.Error(err))
		return fmt.Errorf("save data: %w", err)
	}
	s.logger.Debug("data saved", "tasks", len(tasks), "projects", len(projects))
	return nil
}

// Load reads both collections. Missing or corrupt documents yield empty
// collections.
func (s *Storage) Load(ctx context.Context) ([]models.Task, []models.Project) {
	tasks := loadArray[models.Task](ctx, s, TasksKey)
	projects := loadArray[models.Project](ctx, s, ProjectsKey)
	s.logger.Info("data loaded", "tasks", len(tasks), "projects", len(projects))
	return tasks, projects
}

// SaveActiveProject remembers the project the UI last displayed.
func (s *Storage) SaveActiveProject(ctx context.Context, id int64) error {
	if err := s.kv.Set(ctx, ActiveProjectKey, []byte(strconv.FormatInt(id, 10))); err != nil {
		s.logger.Warn("save active project failed", logging.Error(err))
		return err
	}
	return nil
}

// ClearActiveProject forgets the remembered project.
func (s *Storage) ClearActiveProject(ctx context.Context) error {
	if err := s.kv.Delete(ctx, ActiveProjectKey); err != nil {
		s.logger.Warn("clear active project failed", logging.Error(err))
		return err
	}
	return nil
}

// LoadActiveProject returns the remembered project id, if any.
func (s *Storage) LoadActiveProject(ctx context.Context) (int64, bool) {
	raw, ok, err := s.kv.Get(ctx, ActiveProjectKey)
	if err != nil {
		s.logger.Warn("load active project failed", logging.Error(err))
		return 0, false
	}
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		s.logger.Warn("ignoring malformed active project", "value", string(raw))
		return 0, false
	}
	return id, true
}

// Snapshot is the export document.
type Snapshot struct {
	Tasks    []models.Task    `json:"tasks"`
	Projects []models.Project `json:"projects"`
}

// Export writes both collections as one indented JSON document.
func Export(w io.Writer, tasks []models.Task, projects []models.Project) error {
	if tasks == nil {
		tasks = []models.Task{}
	}
	if projects == nil {
		projects = []models.Project{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Snapshot{Tasks: tasks, Projects: projects}); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// ErrInvalidSnapshot reports an import document that cannot be used.
var ErrInvalidSnapshot = errors.New("invalid export document")

// Import reads a document written by Export. Unlike Load it reports errors,
// since the caller is about to replace existing data.
func Import(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := checkUnique(snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func checkUnique(snap Snapshot) error {
	seen := make(map[int64]bool, len(snap.Projects))
	for _, p := range snap.Projects {
		if p.ID < 0 || seen[p.ID] {
			return fmt.Errorf("%w: bad or duplicate project id %d", ErrInvalidSnapshot, p.ID)
		}
		seen[p.ID] = true
	}
	clear(seen)
	for _, t := range snap.Tasks {
		if t.ID < 0 || seen[t.ID] {
			return fmt.Errorf("%w: bad or duplicate task id %d", ErrInvalidSnapshot, t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

func marshalArray[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

func loadArray[T any](ctx context.Context, s *Storage, key string) []T {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Error("read failed, starting empty", "key", key, logging.Error(err))
		return []T{}
	}
	if !ok || len(raw) == 0 {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Error("decode failed, starting empty", "key", key, logging.Error(err))
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}
