package model

// Status names seeded into the statuses table
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusBlocked    = "Blocked"
	StatusOngoing    = "Ongoing"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled"

	// StatusPending is reported for a task without any status log entry.
	// It is never stored.
	StatusPending = "Pending"
)

// Threat levels seeded into the threats table
const (
	ThreatLow    = "low"
	ThreatMedium = "medium"
	ThreatHigh   = "high"
)

// Priority is one of the five fixed urgency levels (1 = least urgent)
type Priority struct {
	ID          int64  `json:"id" db:"id"`
	Level       int    `json:"level" db:"level"`
	Description string `json:"description" db:"description"`
	Color       string `json:"color" db:"color"`
}

// Threat is one of the fixed threat levels
type Threat struct {
	ID          int64  `json:"id" db:"id"`
	Level       string `json:"level" db:"level"`
	Description string `json:"description" db:"description"`
	Color       string `json:"color" db:"color"`
}

// Status names a lifecycle state a task can be logged into
type Status struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// IsClosed reports whether a status ends the task's active life
func IsClosed(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}
