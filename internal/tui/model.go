package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/existflow/famtodo/internal/db"
	"github.com/existflow/famtodo/internal/hierarchy"
	"github.com/existflow/famtodo/internal/logger"
	"github.com/existflow/famtodo/internal/model"
)

// TreeSource is the read side of the store the browser needs
type TreeSource interface {
	FetchTaskTree(ctx context.Context, profileID int64, q db.TreeQuery) ([]model.TaskRow, error)
	CategoryPaths(ctx context.Context, profileID int64) (map[int64]string, error)
}

// sortCycle is the order the sort key steps through
var sortCycle = []hierarchy.SortOrder{
	hierarchy.SortDefault,
	hierarchy.SortStatus,
	hierarchy.SortPriority,
	hierarchy.SortDueDate,
}

// Model is the read-only task browser of one profile
type Model struct {
	source  TreeSource
	profile model.Profile

	rows  []model.TaskRow
	paths map[int64]string

	// View options
	showCompleted bool
	sortIndex     int

	// UI state
	width    int
	height   int
	ready    bool
	viewport viewport.Model
	help     help.Model

	now     func() time.Time
	message string
}

// NewModel creates a browser for the profile and loads its tasks
func NewModel(source TreeSource, profile model.Profile) Model {
	logger.Info("Initializing TUI model", logger.F("profile_id", profile.ID))

	m := Model{
		source:   source,
		profile:  profile,
		viewport: viewport.New(80, 20),
		help:     help.New(),
		now:      time.Now,
	}
	m.loadData()
	return m
}

func (m *Model) sortOrder() hierarchy.SortOrder {
	return sortCycle[m.sortIndex%len(sortCycle)]
}

// loadData re-reads the tree; nothing is cached between loads
func (m *Model) loadData() {
	ctx := context.Background()

	rows, err := m.source.FetchTaskTree(ctx, m.profile.ID, db.TreeQuery{
		ShowCompleted: m.showCompleted,
		Sort:          m.sortOrder(),
	})
	if err != nil {
		logger.Error("Failed to load tasks", logger.F("error", err))
		m.message = "Failed to load tasks: " + err.Error()
		return
	}

	paths, err := m.source.CategoryPaths(ctx, m.profile.ID)
	if err != nil {
		logger.Error("Failed to load categories", logger.F("error", err))
		m.message = "Failed to load categories: " + err.Error()
		return
	}

	m.rows, m.paths = rows, paths
	m.viewport.SetContent(m.renderBody())
	logger.Debug("TUI data loaded", logger.F("rows", len(rows)))
}
