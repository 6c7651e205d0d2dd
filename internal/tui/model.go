// Package tui implements the live board watcher.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/taskboard/internal/board"
	"github.com/hay-kot/taskboard/internal/core/auth"
	"github.com/hay-kot/taskboard/internal/core/styles"
)

// RefreshMsg tells the model to re-render from board state. The watch
// command sends one for every feed or registry event.
type RefreshMsg struct{}

// Model renders the board and refreshes on realtime events.
type Model struct {
	app    *board.App
	width  int
	height int
}

// New creates a watch model over the given app.
func New(app *board.App) Model {
	return Model{app: app}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case RefreshMsg:
		// Board state already changed; fall through to re-render.
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	actor := m.app.Oracle.CurrentUser()
	manager := m.app.Oracle.HasCapability(auth.CapManageTasks)
	view := m.app.Board.ViewFor(actor, manager)

	colWidth := 28
	if m.width > 0 && len(view.Columns) > 0 {
		if w := m.width/len(view.Columns) - 2; w > 16 {
			colWidth = w
		}
	}

	cols := make([]string, 0, len(view.Columns))
	for _, col := range view.Columns {
		cols = append(cols, m.renderColumn(col, colWidth))
	}

	boardView := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	footer := styles.Muted().Render("q to quit")
	if n := len(view.Orphans); n > 0 {
		footer = styles.Muted().Render(fmt.Sprintf("%d task(s) hidden (deleted status) · q to quit", n))
	}

	return boardView + "\n" + footer
}

func (m Model) renderColumn(col board.Column, width int) string {
	var b strings.Builder

	title := styles.ColumnTitle(col.Status.Color).Render(col.Status.Name)
	b.WriteString(fmt.Sprintf("%s (%d)\n", title, len(col.Tasks)))

	for _, t := range col.Tasks {
		card := t.Title
		if t.AssigneeName != "" {
			card += "\n" + styles.Muted().Render("@"+t.AssigneeName)
		}
		if est := board.FormatEstimate(t); est != "" {
			card += styles.Muted().Render(" · " + est)
		}
		b.WriteString(styles.Card().Width(width - 4).Render(card))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Width(width).Padding(0, 1).Render(b.String())
}
