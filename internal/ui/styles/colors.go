package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/postit/internal/models"
)

// palette maps stored color tags to Tokyo Night hues
var palette = map[models.Color]lipgloss.Color{
	"blue":   lipgloss.Color("#7aa2f7"),
	"green":  lipgloss.Color("#9ece6a"),
	"yellow": lipgloss.Color("#e0af68"),
	"red":    lipgloss.Color("#f7768e"),
	"purple": lipgloss.Color("#bb9af7"),
	"orange": lipgloss.Color("#ff9e64"),
	"pink":   lipgloss.Color("#ff007c"),
	"gray":   lipgloss.Color("#a9b1d6"),
}

// TagColor returns the terminal color for a color tag. Unknown tags, including
// hex values from older data, fall back to gray unless they parse as a color.
func TagColor(c models.Color) lipgloss.Color {
	if col, ok := palette[c]; ok {
		return col
	}
	if len(c) == 7 && c[0] == '#' {
		return lipgloss.Color(c)
	}
	return palette["gray"]
}

// PriorityColor returns the accent used for a priority label
func PriorityColor(p models.Priority) lipgloss.Color {
	switch p {
	case models.PriorityHigh:
		return Current.Error
	case models.PriorityMedium:
		return Current.Warning
	case models.PriorityLow:
		return Current.Success
	}
	return Current.ForegroundDim
}

// Dot renders a colored bullet for c
func Dot(c models.Color) string {
	return lipgloss.NewStyle().Foreground(TagColor(c)).Render("●")
}
