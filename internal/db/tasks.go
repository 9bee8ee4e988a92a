package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/existflow/famtodo/internal/logger"
	"github.com/existflow/famtodo/internal/model"
)

// TaskInput holds the fields of a new task
type TaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	ParentID    *int64
	CategoryID  *int64
	PriorityID  *int64
	ThreatID    *int64
}

type taskRecord struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	DueDate     nullTime       `db:"due_date"`
	ParentID    sql.NullInt64  `db:"parent_id"`
	CategoryID  sql.NullInt64  `db:"category_id"`
	PriorityID  sql.NullInt64  `db:"priority_id"`
	ThreatID    sql.NullInt64  `db:"threat_id"`
	ProfileID   int64          `db:"profile_id"`

	CategoryName        sql.NullString `db:"category_name"`
	PriorityLevel       sql.NullInt64  `db:"priority_level"`
	PriorityColor       sql.NullString `db:"priority_color"`
	PriorityDescription sql.NullString `db:"priority_description"`
	ThreatLevel         sql.NullString `db:"threat_level"`
	ThreatColor         sql.NullString `db:"threat_color"`
	ThreatDescription   sql.NullString `db:"threat_description"`
}

const taskSelect = `
SELECT
    t.id, t.title, t.description, t.due_date, t.parent_id, t.category_id,
    t.priority_id, t.threat_id, t.profile_id,
    c.name AS category_name,
    p.level AS priority_level, p.color AS priority_color, p.description AS priority_description,
    th.level AS threat_level, th.color AS threat_color, th.description AS threat_description
FROM tasks t
LEFT JOIN categories c ON t.category_id = c.id
LEFT JOIN priorities p ON t.priority_id = p.id
LEFT JOIN threats th ON t.threat_id = th.id`

func (r taskRecord) toRow() model.TaskRow {
	return model.TaskRow{
		Task: model.Task{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description.String,
			DueDate:     r.DueDate.ptr(),
			ParentID:    int64Ptr(r.ParentID),
			CategoryID:  int64Ptr(r.CategoryID),
			PriorityID:  int64Ptr(r.PriorityID),
			ThreatID:    int64Ptr(r.ThreatID),
			ProfileID:   r.ProfileID,
		},
		CategoryName:  r.CategoryName.String,
		PriorityLevel: int(r.PriorityLevel.Int64),
		PriorityColor: r.PriorityColor.String,
		ThreatLevel:   r.ThreatLevel.String,
		ThreatColor:   r.ThreatColor.String,
	}
}

// InsertTask creates a task together with its initial "Not Started" log entry.
// Parent task and category, when given, must belong to the same profile.
func (db *DB) InsertTask(ctx context.Context, profileID int64, in TaskInput) (int64, error) {
	title, err := requireText("title", in.Title)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert task: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if in.ParentID != nil {
		if err := checkTask(ctx, tx, profileID, *in.ParentID); err != nil {
			return 0, fmt.Errorf("parent task: %w", err)
		}
	}
	if in.CategoryID != nil {
		if _, err := db.category(ctx, tx, profileID, *in.CategoryID); err != nil {
			return 0, err
		}
	}

	var id int64
	err = tx.QueryRowxContext(ctx, tx.Rebind(`
		INSERT INTO tasks (title, description, due_date, parent_id, category_id, priority_id, threat_id, profile_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		title,
		nullString(strings.TrimSpace(in.Description)),
		dateOnly(in.DueDate),
		nullInt64(in.ParentID),
		nullInt64(in.CategoryID),
		nullInt64(in.PriorityID),
		nullInt64(in.ThreatID),
		profileID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert task: %w", err)
	}

	if _, err := db.insertStatusLog(ctx, tx, id, model.StatusNotStarted, "", ""); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert task: %w", err)
	}

	logger.Info("Task created",
		logger.F("profile_id", profileID),
		logger.F("task_id", id),
		logger.F("parent_id", derefOr(in.ParentID, 0)))
	return id, nil
}

// UpdateTaskDescription replaces the description; blank clears it
func (db *DB) UpdateTaskDescription(ctx context.Context, profileID, taskID int64, description string) error {
	res, err := db.ExecContext(ctx,
		db.Rebind(`UPDATE tasks SET description = ? WHERE id = ? AND profile_id = ?`),
		nullString(strings.TrimSpace(description)), taskID, profileID)
	if err != nil {
		return fmt.Errorf("update task description: %w", err)
	}
	return requireAffected(res, "task", taskID)
}

// UpdateTaskDueDate replaces the due date; nil clears it
func (db *DB) UpdateTaskDueDate(ctx context.Context, profileID, taskID int64, due *time.Time) error {
	res, err := db.ExecContext(ctx,
		db.Rebind(`UPDATE tasks SET due_date = ? WHERE id = ? AND profile_id = ?`),
		dateOnly(due), taskID, profileID)
	if err != nil {
		return fmt.Errorf("update task due date: %w", err)
	}
	return requireAffected(res, "task", taskID)
}

// TaskUpdate holds the task fields to change; nil fields are left alone
type TaskUpdate struct {
	Description *string
	DueDate     *time.Time
	// ClearDue removes the due date and wins over DueDate
	ClearDue bool
}

// UpdateTask applies every requested change in one statement
func (db *DB) UpdateTask(ctx context.Context, profileID, taskID int64, u TaskUpdate) error {
	var (
		sets []string
		args []any
	)
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, nullString(strings.TrimSpace(*u.Description)))
	}
	switch {
	case u.ClearDue:
		sets = append(sets, "due_date = ?")
		args = append(args, dateOnly(nil))
	case u.DueDate != nil:
		sets = append(sets, "due_date = ?")
		args = append(args, dateOnly(u.DueDate))
	}
	if len(sets) == 0 {
		return checkTask(ctx, db, profileID, taskID)
	}

	query := `UPDATE tasks SET ` + strings.Join(sets, ", ") + ` WHERE id = ? AND profile_id = ?`
	args = append(args, taskID, profileID)
	res, err := db.ExecContext(ctx, db.Rebind(query), args...)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return requireAffected(res, "task", taskID)
}

// CheckTask returns ErrNotFound unless the task exists in the profile
func (db *DB) CheckTask(ctx context.Context, profileID, taskID int64) error {
	return checkTask(ctx, db, profileID, taskID)
}

// TaskCategory returns the category of a task, nil when uncategorized.
// New subtasks default to their parent's category.
func (db *DB) TaskCategory(ctx context.Context, profileID, taskID int64) (*int64, error) {
	var categoryID sql.NullInt64
	err := sqlxGet(ctx, db, &categoryID,
		`SELECT category_id FROM tasks WHERE id = ? AND profile_id = ?`, taskID, profileID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task category: %w", err)
	}
	return int64Ptr(categoryID), nil
}

// TaskDetails returns one task with lookups, current status, direct subtask count
// and category full path
func (db *DB) TaskDetails(ctx context.Context, profileID, taskID int64) (model.TaskDetails, error) {
	var r taskRecord
	err := sqlxGet(ctx, db, &r, taskSelect+` WHERE t.id = ? AND t.profile_id = ?`, taskID, profileID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.TaskDetails{}, fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	if err != nil {
		return model.TaskDetails{}, fmt.Errorf("get task: %w", err)
	}

	details := model.TaskDetails{
		TaskRow:             r.toRow(),
		PriorityDescription: r.PriorityDescription.String,
		ThreatDescription:   r.ThreatDescription.String,
	}

	if details.CurrentStatus, err = db.CurrentStatus(ctx, taskID); err != nil {
		return model.TaskDetails{}, err
	}

	if err := sqlxGet(ctx, db, &details.NumSubtasks,
		`SELECT COUNT(*) FROM tasks WHERE parent_id = ?`, taskID); err != nil {
		return model.TaskDetails{}, fmt.Errorf("count subtasks: %w", err)
	}

	if details.CategoryID != nil {
		paths, err := db.CategoryPaths(ctx, profileID)
		if err != nil {
			return model.TaskDetails{}, err
		}
		details.CategoryPath = paths[*details.CategoryID]
	}

	return details, nil
}

func checkTask(ctx context.Context, q queryer, profileID, taskID int64) error {
	var id int64
	err := sqlxGet(ctx, q, &id, `SELECT id FROM tasks WHERE id = ? AND profile_id = ?`, taskID, profileID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("task %d: %w", taskID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}

func derefOr(v *int64, fallback int64) int64 {
	if v == nil {
		return fallback
	}
	return *v
}
