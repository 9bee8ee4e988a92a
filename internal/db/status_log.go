package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/existflow/famtodo/internal/logger"
	"github.com/existflow/famtodo/internal/model"
)

// latestStatusQuery picks the newest entry per task; id breaks timestamp ties
const latestStatusQuery = `
SELECT task_id, status FROM (
    SELECT
        l.task_id,
        s.name AS status,
        ROW_NUMBER() OVER (PARTITION BY l.task_id ORDER BY l.timestamp DESC, l.id DESC) AS rn
    FROM task_status_logs l
    JOIN statuses s ON s.id = l.status_id
    WHERE l.task_id IN (?)
) ranked
WHERE rn = 1`

type statusLogRecord struct {
	ID        int64          `db:"id"`
	TaskID    int64          `db:"task_id"`
	Status    string         `db:"status"`
	Reason    sql.NullString `db:"reason"`
	ExtraInfo sql.NullString `db:"extra_info"`
	Timestamp nullTime       `db:"timestamp"`
}

// InsertStatusLog appends a status transition for a task. The status is given by name
// and must be one of the seeded statuses.
func (db *DB) InsertStatusLog(ctx context.Context, taskID int64, status, reason, extraInfo string) (model.StatusLogEntry, error) {
	entry, err := db.insertStatusLog(ctx, db, taskID, status, reason, extraInfo)
	if err != nil {
		return model.StatusLogEntry{}, err
	}

	logger.Info("Task status logged",
		logger.F("task_id", taskID),
		logger.F("status", status),
		logger.F("entry_id", entry.ID))
	return entry, nil
}

func (db *DB) insertStatusLog(ctx context.Context, q queryer, taskID int64, status, reason, extraInfo string) (model.StatusLogEntry, error) {
	sid, err := statusID(ctx, q, status)
	if err != nil {
		return model.StatusLogEntry{}, err
	}

	entry := model.StatusLogEntry{
		TaskID:    taskID,
		Status:    status,
		Reason:    reason,
		ExtraInfo: extraInfo,
		Timestamp: db.now(),
	}

	err = q.QueryRowxContext(ctx, q.Rebind(`
		INSERT INTO task_status_logs (task_id, status_id, reason, extra_info, timestamp)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`),
		taskID, sid, nullString(reason), nullString(extraInfo), entry.Timestamp,
	).Scan(&entry.ID)
	if err != nil {
		return model.StatusLogEntry{}, fmt.Errorf("insert status log: %w", err)
	}
	return entry, nil
}

// CurrentStatus returns the status of the task's newest log entry, or
// model.StatusPending when it has none
func (db *DB) CurrentStatus(ctx context.Context, taskID int64) (string, error) {
	var status string
	err := sqlxGet(ctx, db, &status, `
		SELECT s.name
		FROM task_status_logs l
		JOIN statuses s ON s.id = l.status_id
		WHERE l.task_id = ?
		ORDER BY l.timestamp DESC, l.id DESC
		LIMIT 1`, taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StatusPending, nil
	}
	if err != nil {
		return "", fmt.Errorf("get current status: %w", err)
	}
	return status, nil
}

// CurrentStatuses resolves the current status of every task in one query.
// Every requested id is present in the result; ids without entries map to model.StatusPending.
func (db *DB) CurrentStatuses(ctx context.Context, taskIDs []int64) (map[int64]string, error) {
	statuses := make(map[int64]string, len(taskIDs))
	for _, id := range taskIDs {
		statuses[id] = model.StatusPending
	}
	if len(taskIDs) == 0 {
		return statuses, nil
	}

	query, args, err := sqlx.In(latestStatusQuery, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("build status query: %w", err)
	}

	var latest []struct {
		TaskID int64  `db:"task_id"`
		Status string `db:"status"`
	}
	if err := db.SelectContext(ctx, &latest, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("get current statuses: %w", err)
	}

	for _, l := range latest {
		statuses[l.TaskID] = l.Status
	}
	return statuses, nil
}

// StatusHistory returns every log entry of a task, newest first
func (db *DB) StatusHistory(ctx context.Context, taskID int64) ([]model.StatusLogEntry, error) {
	var records []statusLogRecord
	err := sqlxSelect(ctx, db, &records, `
		SELECT l.id, l.task_id, s.name AS status, l.reason, l.extra_info, l.timestamp
		FROM task_status_logs l
		JOIN statuses s ON s.id = l.status_id
		WHERE l.task_id = ?
		ORDER BY l.timestamp DESC, l.id DESC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("get status history: %w", err)
	}

	history := make([]model.StatusLogEntry, 0, len(records))
	for _, r := range records {
		history = append(history, model.StatusLogEntry{
			ID:        r.ID,
			TaskID:    r.TaskID,
			Status:    r.Status,
			Reason:    r.Reason.String,
			ExtraInfo: r.ExtraInfo.String,
			Timestamp: r.Timestamp.Time,
		})
	}
	return history, nil
}
