package model

import "time"

// Task is a titled unit of work, optionally nested under a parent task.
// It carries no status: see StatusLogEntry.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ParentID    *int64     `json:"parent_id,omitempty"`
	CategoryID  *int64     `json:"category_id,omitempty"`
	PriorityID  *int64     `json:"priority_id,omitempty"`
	ThreatID    *int64     `json:"threat_id,omitempty"`
	ProfileID   int64      `json:"profile_id"`
}

// TaskRow is a task joined with its lookups and derived fields
type TaskRow struct {
	Task

	CategoryName  string `json:"category_name,omitempty"`
	PriorityLevel int    `json:"priority_level,omitempty"`
	PriorityColor string `json:"priority_color,omitempty"`
	ThreatLevel   string `json:"threat_level,omitempty"`
	ThreatColor   string `json:"threat_color,omitempty"`

	CurrentStatus string `json:"current_status"`
	NumSubtasks   int    `json:"num_subtasks"`
}

// IsClosed returns true if the task is completed or cancelled
func (r *TaskRow) IsClosed() bool {
	return IsClosed(r.CurrentStatus)
}

// IsOverdue returns true if the task is still open and its due date has passed
func (r *TaskRow) IsOverdue(now time.Time) bool {
	if r.DueDate == nil || r.IsClosed() {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return r.DueDate.Before(today)
}

// TaskDetails is the single-task view: lookups resolved, category as a full path
type TaskDetails struct {
	TaskRow

	PriorityDescription string `json:"priority_description,omitempty"`
	ThreatDescription   string `json:"threat_description,omitempty"`
	CategoryPath        string `json:"category_path,omitempty"`
}

// StatusLogEntry is one immutable status transition
type StatusLogEntry struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	Status    string    `json:"status"`
	Reason    string    `json:"reason,omitempty"`
	ExtraInfo string    `json:"extra_info,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
