package views

import (
	"errors"

	"github.com/tgienger/postit/internal/app"
	"github.com/tgienger/postit/internal/models"
	"github.com/tgienger/postit/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// resultMsg reports the outcome of a command that changed data
type resultMsg struct {
	text string
	err  error
}

func (m resultMsg) status() status {
	return status{text: m.text, err: m.err}
}

// status is the one-line message shown under a list
type status struct {
	text string
	err  error
}

func (s status) render(st *styles.Styles) string {
	if s.err != nil {
		return st.StatusError.Render(s.err.Error())
	}
	if s.text == "" {
		return ""
	}
	return st.StatusBar.Render(s.text)
}

// isInputError reports whether err is a validation failure the user can fix
// in the form that produced it.
func isInputError(err error) bool {
	return errors.Is(err, app.ErrEmptyTitle) ||
		errors.Is(err, app.ErrEmptyName) ||
		errors.Is(err, app.ErrInvalidPriority) ||
		errors.Is(err, app.ErrUnknownProject)
}

func prevColor(c models.Color) models.Color {
	for i, known := range models.Colors {
		if known == c {
			return models.Colors[(i+len(models.Colors)-1)%len(models.Colors)]
		}
	}
	return models.Colors[0]
}

func nextPriority(p models.Priority, dir int) models.Priority {
	n := len(models.Priorities)
	for i, known := range models.Priorities {
		if known == p {
			return models.Priorities[(i+dir+n)%n]
		}
	}
	return models.PriorityLow
}
