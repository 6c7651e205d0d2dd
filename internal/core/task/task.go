// Package task defines the task domain model for the board.
package task

import "time"

// Priority classifies how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priority levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task represents a single unit of work on the board.
//
// StatusID is a foreign key into the status registry. It may dangle: a task
// whose StatusID no longer matches a registry entry is an orphan and is hidden
// from status-partitioned views while remaining in the store.
type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Priority       Priority   `json:"priority"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	EstimatedHours float64    `json:"estimated_hours"`
	StatusID       string     `json:"status_id"`
	// Status caches the lowercase name of the current status for display.
	Status        string    `json:"status"`
	CreatorID     string    `json:"creator_id"`
	CreatorName   string    `json:"creator_name"`
	AssigneeID    string    `json:"assignee_id"`
	AssigneeName  string    `json:"assignee_name"`
	ProjectID     string    `json:"project_id,omitempty"`
	QualityRating int       `json:"quality_rating"` // 0 = unrated, otherwise 1..5
	CreatedAt     time.Time `json:"created_at"`
}

// Rated reports whether the task has received a quality rating.
func (t Task) Rated() bool {
	return t.QualityRating > 0
}
