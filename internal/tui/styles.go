package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/famtodo/internal/model"
)

// Color palette
var (
	// Status colors
	StatusNotStarted = lipgloss.Color("#888888")
	StatusInProgress = lipgloss.Color("#FFA500")
	StatusBlocked    = lipgloss.Color("#FF0000")
	StatusOngoing    = lipgloss.Color("#FFFF00")
	StatusCompleted  = lipgloss.Color("#28A745")
	StatusCancelled  = lipgloss.Color("#DC3545")

	// UI colors
	Primary   = lipgloss.Color("#4ECDC4")
	Secondary = lipgloss.Color("#6C757D")
	Text      = lipgloss.Color("#FFFFFF")
	TextMuted = lipgloss.Color("#888888")
	Border    = lipgloss.Color("#333333")
	Overdue   = lipgloss.Color("#FF6B6B")
)

var statusColors = map[string]lipgloss.Color{
	model.StatusNotStarted: StatusNotStarted,
	model.StatusInProgress: StatusInProgress,
	model.StatusBlocked:    StatusBlocked,
	model.StatusOngoing:    StatusOngoing,
	model.StatusCompleted:  StatusCompleted,
	model.StatusCancelled:  StatusCancelled,
}

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Category heading inside the tree
	GroupStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	TitleStyle = lipgloss.NewStyle().Bold(true)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true)

	MutedStyle = lipgloss.NewStyle().Foreground(TextMuted)

	OverdueStyle = lipgloss.NewStyle().Foreground(Overdue).Bold(true)

	EnumeratorStyle = lipgloss.NewStyle().Foreground(Border).PaddingRight(1)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// GetStatusStyle returns the style for a status name; unknown names are muted
func GetStatusStyle(status string) lipgloss.Style {
	if c, ok := statusColors[status]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return MutedStyle
}

// hexStyle colors text with a lookup table color such as "#FF9900"
func hexStyle(hex string) lipgloss.Style {
	if hex == "" {
		return MutedStyle
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Bold(true)
}
