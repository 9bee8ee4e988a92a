package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/famtodo/internal/db"
	"github.com/existflow/famtodo/internal/hierarchy"
	"github.com/existflow/famtodo/internal/model"
)

func ref(v int64) *int64 { return &v }

func sampleRows() []model.TaskRow {
	due := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	return []model.TaskRow{
		{
			Task:          model.Task{ID: 1, Title: "Standup", CategoryID: ref(2), DueDate: &due},
			PriorityLevel: 3,
			ThreatLevel:   "low",
			CurrentStatus: model.StatusInProgress,
			NumSubtasks:   1,
		},
		{
			Task:          model.Task{ID: 2, Title: "Write notes", CategoryID: ref(2), ParentID: ref(1)},
			CurrentStatus: model.StatusNotStarted,
		},
		{
			Task:          model.Task{ID: 3, Title: "Call bank"},
			CurrentStatus: model.StatusBlocked,
		},
	}
}

func TestRenderTree(t *testing.T) {
	out := RenderTree(TreeView{
		Rows:          sampleRows(),
		CategoryPaths: map[int64]string{2: "Work > Meetings"},
		Now:           time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.Contains(t, out, "Work > Meetings")
	assert.Contains(t, out, "Uncategorized")
	assert.Contains(t, out, "Standup | Due: 2026-01-02 (overdue) | In Progress | P:3 | T:Low | Subtasks: 1")
	assert.Contains(t, out, "Write notes | Due: TBD | Not Started | P:? | T:None")
	assert.Less(t, strings.Index(out, "Standup"), strings.Index(out, "Write notes"))
	assert.Less(t, strings.Index(out, "Write notes"), strings.Index(out, "Call bank"))
}

func TestRenderTreeFilteredHidesUncategorized(t *testing.T) {
	out := RenderTree(TreeView{
		Rows:          sampleRows(),
		CategoryPaths: map[int64]string{},
		Filtered:      true,
	})

	assert.Contains(t, out, "Unknown")
	assert.NotContains(t, out, "Uncategorized")
	assert.NotContains(t, out, "Call bank")
}

func TestRenderTreeEmpty(t *testing.T) {
	assert.Contains(t, RenderTree(TreeView{}), "No tasks.")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd...", truncate("abcdefghij", 7))
}

func TestPickerChoosesSelectedProfile(t *testing.T) {
	profiles := []model.Profile{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Dad"}, {ID: 3, Name: "Mum"}}

	m := NewPicker(profiles, "Dad")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	chosen, ok := next.(PickerModel).Chosen()
	require.True(t, ok)
	assert.Equal(t, "Mum", chosen.Name)
}

func TestPickerQuitWithoutChoice(t *testing.T) {
	m := NewPicker([]model.Profile{{ID: 1, Name: "Ann"}}, "")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)

	_, ok := next.(PickerModel).Chosen()
	assert.False(t, ok)
}

type fakeSource struct {
	queries []db.TreeQuery
	rows    []model.TaskRow
}

func (f *fakeSource) FetchTaskTree(_ context.Context, _ int64, q db.TreeQuery) ([]model.TaskRow, error) {
	f.queries = append(f.queries, q)
	return f.rows, nil
}

func (f *fakeSource) CategoryPaths(context.Context, int64) (map[int64]string, error) {
	return map[int64]string{2: "Work > Meetings"}, nil
}

func TestModelReloadsOnViewChanges(t *testing.T) {
	source := &fakeSource{rows: sampleRows()}
	m := NewModel(source, model.Profile{ID: 7, Name: "Dad"})
	require.Len(t, source.queries, 1)
	assert.False(t, source.queries[0].ShowCompleted)
	assert.Equal(t, hierarchy.SortDefault, source.queries[0].Sort)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	require.Len(t, source.queries, 3)
	assert.True(t, source.queries[2].ShowCompleted)
	assert.Equal(t, hierarchy.SortStatus, source.queries[2].Sort)

	view := next.View()
	assert.Contains(t, view, "Dad's Todo List")
	assert.Contains(t, view, "sort: status")

	_, cmd := next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
