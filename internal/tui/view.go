package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 2
	footerHeight = 3
)

// View implements tea.Model
func (m Model) View() string {
	header := HeaderStyle.Render(fmt.Sprintf("%s's Todo List", m.profile.Name))

	completed := "open only"
	if m.showCompleted {
		completed = "with completed"
	}
	status := fmt.Sprintf("%d tasks | %s | sort: %s", len(m.rows), completed, m.sortOrder())
	if m.message != "" {
		status = m.message
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.viewport.View(),
		StatusBarStyle.Render(status),
		HelpStyle.Render(m.help.View(keys)),
	)
}

func (m Model) renderBody() string {
	width := 0
	if m.ready {
		width = m.width / 2
	}
	return RenderTree(TreeView{
		Rows:          m.rows,
		CategoryPaths: m.paths,
		Now:           m.now(),
		Width:         width,
	})
}
