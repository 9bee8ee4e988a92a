package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/famtodo/internal/hierarchy"
	"github.com/existflow/famtodo/internal/model"
)

func titles(rows []model.TaskRow) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Title)
	}
	return out
}

func TestStandupScenario(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	database.SetClock(steppingClock(time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)))

	dad := createTestProfile(t, database, "Dad")
	work := createTestCategory(t, database, dad.ID, "Work", nil)
	meetings := createTestCategory(t, database, dad.ID, "Meetings", &work.ID)

	priority, err := database.PriorityByLevel(ctx, 3)
	require.NoError(t, err)
	threat, err := database.ThreatByLevel(ctx, model.ThreatLow)
	require.NoError(t, err)

	standup := createTestTask(t, database, dad.ID, TaskInput{
		Title:      "Standup",
		CategoryID: &meetings.ID,
		PriorityID: &priority.ID,
		ThreatID:   &threat.ID,
	})

	paths, err := database.CategoryPaths(ctx, dad.ID)
	require.NoError(t, err)
	assert.Equal(t, "Work > Meetings", paths[meetings.ID])

	rows, err := database.FetchTaskTree(ctx, dad.ID, TreeQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Standup", rows[0].Title)
	assert.Equal(t, "Meetings", rows[0].CategoryName)
	assert.Equal(t, 3, rows[0].PriorityLevel)
	assert.Equal(t, model.ThreatLow, rows[0].ThreatLevel)
	assert.Equal(t, model.StatusNotStarted, rows[0].CurrentStatus)
	assert.Equal(t, 0, rows[0].NumSubtasks)

	_, err = database.InsertStatusLog(ctx, standup, model.StatusCompleted, "done early", "")
	require.NoError(t, err)

	history, err := database.StatusHistory(ctx, standup)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, model.StatusCompleted, history[0].Status)
	assert.Equal(t, "done early", history[0].Reason)

	rows, err = database.FetchTaskTree(ctx, dad.ID, TreeQuery{})
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = database.FetchTaskTree(ctx, dad.ID, TreeQuery{ShowCompleted: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.StatusCompleted, rows[0].CurrentStatus)
}

func TestFetchTaskTreeHidesClosedTasks(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	database.SetClock(steppingClock(time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)))
	p := createTestProfile(t, database, "Dad")

	open := createTestTask(t, database, p.ID, TaskInput{Title: "Open"})
	done := createTestTask(t, database, p.ID, TaskInput{Title: "Done"})
	dropped := createTestTask(t, database, p.ID, TaskInput{Title: "Dropped"})
	_, err := database.InsertStatusLog(ctx, done, model.StatusCompleted, "", "")
	require.NoError(t, err)
	_, err = database.InsertStatusLog(ctx, dropped, model.StatusCancelled, "", "")
	require.NoError(t, err)

	rows, err := database.FetchTaskTree(ctx, p.ID, TreeQuery{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, open, rows[0].ID)
	for _, r := range rows {
		assert.False(t, model.IsClosed(r.CurrentStatus))
	}

	rows, err = database.FetchTaskTree(ctx, p.ID, TreeQuery{ShowCompleted: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Open", "Done", "Dropped"}, titles(rows))
}

func TestFetchTaskTreeCategoryFilterAndSubtaskCounts(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	database.SetClock(steppingClock(time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)))
	p := createTestProfile(t, database, "Dad")

	home := createTestCategory(t, database, p.ID, "Home", nil)
	work := createTestCategory(t, database, p.ID, "Work", nil)

	parent := createTestTask(t, database, p.ID, TaskInput{Title: "Renovate", CategoryID: &home.ID})
	createTestTask(t, database, p.ID, TaskInput{Title: "Paint", ParentID: &parent, CategoryID: &home.ID})
	closed := createTestTask(t, database, p.ID, TaskInput{Title: "Demolish", ParentID: &parent, CategoryID: &home.ID})
	createTestTask(t, database, p.ID, TaskInput{Title: "Expense it", ParentID: &parent, CategoryID: &work.ID})
	createTestTask(t, database, p.ID, TaskInput{Title: "Loose end"})
	_, err := database.InsertStatusLog(ctx, closed, model.StatusCompleted, "", "")
	require.NoError(t, err)

	rows, err := database.FetchTaskTree(ctx, p.ID, TreeQuery{CategoryIDs: []int64{home.ID}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Renovate", "Paint"}, titles(rows))
	// Counted within the category-filtered set, before closed rows are dropped
	assert.Equal(t, 2, rows[0].NumSubtasks)

	rows, err = database.FetchTaskTree(ctx, p.ID, TreeQuery{ShowCompleted: true})
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, 3, rows[0].NumSubtasks)

	rows, err = database.FetchTaskTree(ctx, p.ID, TreeQuery{CategoryIDs: []int64{home.ID, work.ID}, ShowCompleted: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Renovate", "Paint", "Demolish", "Expense it"}, titles(rows))

	groups := hierarchy.GroupByCategory(rows, true)
	require.Len(t, groups, 2)
	assert.Equal(t, home.ID, *groups[0].CategoryID)
	assert.Equal(t, work.ID, *groups[1].CategoryID)
}

func TestFetchTaskTreeIsProfileScopedAndSorted(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	database.SetClock(steppingClock(time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)))
	dad := createTestProfile(t, database, "Dad")
	mum := createTestProfile(t, database, "Mum")

	low, err := database.PriorityByLevel(ctx, 1)
	require.NoError(t, err)
	high, err := database.PriorityByLevel(ctx, 5)
	require.NoError(t, err)

	soon := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	later := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	createTestTask(t, database, dad.ID, TaskInput{Title: "Undated", PriorityID: &low.ID})
	createTestTask(t, database, dad.ID, TaskInput{Title: "Later", PriorityID: &high.ID, DueDate: &later})
	soonID := createTestTask(t, database, dad.ID, TaskInput{Title: "Soon", PriorityID: &high.ID, DueDate: &soon})
	createTestTask(t, database, mum.ID, TaskInput{Title: "Not yours"})
	_, err = database.InsertStatusLog(ctx, soonID, model.StatusInProgress, "", "")
	require.NoError(t, err)

	rows, err := database.FetchTaskTree(ctx, dad.ID, TreeQuery{Sort: hierarchy.SortDueDate})
	require.NoError(t, err)
	assert.Equal(t, []string{"Soon", "Later", "Undated"}, titles(rows))

	rows, err = database.FetchTaskTree(ctx, dad.ID, TreeQuery{Sort: hierarchy.SortPriority})
	require.NoError(t, err)
	assert.Equal(t, []string{"Undated", "Soon", "Later"}, titles(rows))

	rows, err = database.FetchTaskTree(ctx, dad.ID, TreeQuery{Sort: hierarchy.SortStatus})
	require.NoError(t, err)
	assert.Equal(t, []string{"Soon", "Undated", "Later"}, titles(rows))
}
