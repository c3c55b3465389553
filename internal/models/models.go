package models

import (
	"fmt"
	"strings"
)

// Priority is the urgency of a task. The stored values are the ones the
// original data files use.
type Priority string

const (
	PriorityLow    Priority = "baixa"
	PriorityMedium Priority = "media"
	PriorityHigh   Priority = "alta"
)

// Priorities lists the known priorities from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Rank orders priorities for display: alta=3, media=2, baixa=1.
// Unknown values rank below everything else.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Label returns an English name for the priority.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	}
	return string(p)
}

// ParsePriority accepts the stored value or its English label.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "alta", "high", "h", "3":
		return PriorityHigh, nil
	case "media", "média", "medium", "m", "2":
		return PriorityMedium, nil
	case "baixa", "low", "l", "1":
		return PriorityLow, nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// Color is the tag used to tint projects and tasks.
type Color string

// Colors is the known palette, in the order the UI cycles through it.
var Colors = []Color{"blue", "green", "yellow", "red", "purple", "orange", "pink", "gray"}

// NextColor returns the palette entry following c, wrapping around.
func NextColor(c Color) Color {
	for i, known := range Colors {
		if known == c {
			return Colors[(i+1)%len(Colors)]
		}
	}
	return Colors[0]
}

// Filter narrows the task list by completion state.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// Filters lists the display filters in cycling order.
var Filters = []Filter{FilterAll, FilterPending, FilterCompleted}

// ParseFilter accepts a filter name; the empty string means all.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPending, "open", "todo":
		return FilterPending, nil
	case FilterCompleted, "done":
		return FilterCompleted, nil
	}
	return "", fmt.Errorf("unknown filter %q (want all, pending or completed)", s)
}

// Next returns the filter following f in Filters.
func (f Filter) Next() Filter {
	for i, known := range Filters {
		if known == f {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Match reports whether t passes the filter.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterPending:
		return !t.Done
	case FilterCompleted:
		return t.Done
	}
	return true
}

// Project groups tasks
type Project struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Color Color  `json:"cor"`
}

// Task represents a single task
type Task struct {
	ID          int64    `json:"id"`
	Title       string   `json:"titulo"`
	Description string   `json:"descricao"`
	DueDate     string   `json:"dataVencimento"`
	Priority    Priority `json:"prioridade"`
	Color       Color    `json:"cor"`
	ProjectID   int64    `json:"projetoId"`
	Done        bool     `json:"concluida"`
	CreatedAt   string   `json:"dataCriacao"`
}

// TaskFields holds the caller-supplied fields of a new task.
type TaskFields struct {
	Title       string
	Description string
	DueDate     string
	Priority    Priority
	Color       Color
	ProjectID   int64
}

// TaskPatch is a partial update; nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	Priority    *Priority
	Color       *Color
	ProjectID   *int64
	Done        *bool
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.Priority == nil && p.Color == nil && p.ProjectID == nil && p.Done == nil
}

// Apply merges the patch over t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.ProjectID != nil {
		t.ProjectID = *p.ProjectID
	}
	if p.Done != nil {
		t.Done = *p.Done
	}
}

// ProjectFields holds the caller-supplied fields of a new project.
type ProjectFields struct {
	Name  string
	Color Color
}

// ProjectPatch is a partial update; nil fields are left unchanged.
type ProjectPatch struct {
	Name  *string
	Color *Color
}

// Apply merges the patch over p.
func (pp ProjectPatch) Apply(p *Project) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
	if pp.Color != nil {
		p.Color = *pp.Color
	}
}

// Ptr returns a pointer to v, for building patches.
func Ptr[T any](v T) *T {
	return &v
}
