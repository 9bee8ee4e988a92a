package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/famtodo/internal/model"
)

func TestNewTaskStartsNotStarted(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	p := createTestProfile(t, database, "Dad")

	id := createTestTask(t, database, p.ID, TaskInput{Title: "Mow lawn"})

	status, err := database.CurrentStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotStarted, status)

	history, err := database.StatusHistory(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, model.StatusNotStarted, history[0].Status)
	assert.Empty(t, history[0].Reason)
}

func TestCurrentStatusWithoutEntriesIsPending(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	p := createTestProfile(t, database, "Dad")
	id := createTestTask(t, database, p.ID, TaskInput{Title: "Orphan"})

	_, err := database.ExecContext(ctx, `DELETE FROM task_status_logs WHERE task_id = ?`, id)
	require.NoError(t, err)

	status, err := database.CurrentStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, status)

	statuses, err := database.CurrentStatuses(ctx, []int64{id})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{id: model.StatusPending}, statuses)
}

func TestCurrentStatusIsLatestByTimestampThenID(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	p := createTestProfile(t, database, "Dad")

	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	database.SetClock(func() time.Time { return base })
	id := createTestTask(t, database, p.ID, TaskInput{Title: "Taxes"})

	// Same timestamp: the higher id wins
	_, err := database.InsertStatusLog(ctx, id, model.StatusInProgress, "", "")
	require.NoError(t, err)
	status, err := database.CurrentStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, status)

	// A later timestamp wins over a later id
	database.SetClock(func() time.Time { return base.Add(time.Hour) })
	_, err = database.InsertStatusLog(ctx, id, model.StatusBlocked, "waiting on forms", "")
	require.NoError(t, err)

	database.SetClock(func() time.Time { return base.Add(-time.Hour) })
	_, err = database.InsertStatusLog(ctx, id, model.StatusCompleted, "backdated", "")
	require.NoError(t, err)

	status, err = database.CurrentStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBlocked, status)

	statuses, err := database.CurrentStatuses(ctx, []int64{id})
	require.NoError(t, err)
	assert.Equal(t, model.StatusBlocked, statuses[id])

	history, err := database.StatusHistory(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, []string{
		model.StatusBlocked, model.StatusInProgress, model.StatusNotStarted, model.StatusCompleted,
	}, []string{history[0].Status, history[1].Status, history[2].Status, history[3].Status})
	assert.True(t, history[0].Timestamp.Equal(base.Add(time.Hour)))
}

func TestInsertStatusLogUnknownStatus(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	p := createTestProfile(t, database, "Dad")
	id := createTestTask(t, database, p.ID, TaskInput{Title: "Taxes"})

	_, err := database.InsertStatusLog(ctx, id, "Paused", "", "")
	assert.ErrorIs(t, err, ErrNotFound)

	history, err := database.StatusHistory(ctx, id)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestCurrentStatusesReturnsEveryRequestedID(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	p := createTestProfile(t, database, "Dad")
	database.SetClock(steppingClock(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))

	parent := createTestTask(t, database, p.ID, TaskInput{Title: "Move house"})
	_, err := database.ExecContext(ctx, `DELETE FROM task_status_logs WHERE task_id = ?`, parent)
	require.NoError(t, err)

	ids := []int64{parent}
	const n = 4
	for i := 0; i < n; i++ {
		child := createTestTask(t, database, p.ID, TaskInput{Title: "Box room", ParentID: &parent})
		ids = append(ids, child)
	}
	_, err = database.InsertStatusLog(ctx, ids[1], model.StatusCompleted, "", "")
	require.NoError(t, err)

	statuses, err := database.CurrentStatuses(ctx, ids)
	require.NoError(t, err)
	require.Len(t, statuses, n+1)
	assert.Equal(t, model.StatusPending, statuses[parent])
	assert.Equal(t, model.StatusCompleted, statuses[ids[1]])
	for _, id := range ids[2:] {
		assert.Equal(t, model.StatusNotStarted, statuses[id])
	}

	empty, err := database.CurrentStatuses(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStatusHistoryKeepsReasonAndExtraInfo(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	p := createTestProfile(t, database, "Dad")
	database.SetClock(steppingClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	id := createTestTask(t, database, p.ID, TaskInput{Title: "Standup"})

	entry, err := database.InsertStatusLog(ctx, id, model.StatusCompleted, "done early", "room 4")
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)

	history, err := database.StatusHistory(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entry.ID, history[0].ID)
	assert.Equal(t, "done early", history[0].Reason)
	assert.Equal(t, "room 4", history[0].ExtraInfo)
	assert.True(t, history[0].Timestamp.After(history[1].Timestamp))
}
