// Package styles provides shared lipgloss styles for CLI and TUI output.
package styles

import (
	"sort"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/taskboard/internal/core/task"
)

// Palette defines a minimal semantic theme palette.
type Palette struct {
	Primary    lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Surface    lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
}

// DefaultTheme is the name of the default theme.
const DefaultTheme = "tokyo-night"

// themes holds the built-in named palettes.
var themes = map[string]Palette{
	"tokyo-night": {
		Primary:    lipgloss.Color("#7aa2f7"),
		Foreground: lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Surface:    lipgloss.Color("#3b4261"),
		Success:    lipgloss.Color("#9ece6a"),
		Warning:    lipgloss.Color("#e0af68"),
		Error:      lipgloss.Color("#f7768e"),
	},
	"gruvbox": {
		Primary:    lipgloss.Color("#83a598"),
		Foreground: lipgloss.Color("#ebdbb2"),
		Muted:      lipgloss.Color("#665c54"),
		Surface:    lipgloss.Color("#3c3836"),
		Success:    lipgloss.Color("#b8bb26"),
		Warning:    lipgloss.Color("#fabd2f"),
		Error:      lipgloss.Color("#fb4934"),
	},
}

var (
	mu      sync.RWMutex
	current = themes[DefaultTheme]
)

// ThemeNames returns sorted names of all built-in themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPalette returns the named palette, or false if unknown.
func GetPalette(name string) (Palette, bool) {
	p, ok := themes[name]
	return p, ok
}

// SetTheme replaces the active palette.
func SetTheme(p Palette) {
	mu.Lock()
	current = p
	mu.Unlock()
}

// Theme returns the active palette.
func Theme() Palette {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// PriorityStyle returns a style for rendering a task priority badge.
func PriorityStyle(p task.Priority) lipgloss.Style {
	t := Theme()
	switch p {
	case task.PriorityHigh:
		return lipgloss.NewStyle().Foreground(t.Error).Bold(true)
	case task.PriorityMedium:
		return lipgloss.NewStyle().Foreground(t.Warning)
	default:
		return lipgloss.NewStyle().Foreground(t.Success)
	}
}

// ColumnTitle returns a style for a board column header in the given
// status color. Falls back to the theme primary when color is empty.
func ColumnTitle(color string) lipgloss.Style {
	c := lipgloss.Color(color)
	if color == "" {
		c = Theme().Primary
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true)
}

// Muted returns a style for secondary text.
func Muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Theme().Muted)
}

// Card returns a bordered style for a board card.
func Card() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Theme().Surface).
		Padding(0, 1)
}
