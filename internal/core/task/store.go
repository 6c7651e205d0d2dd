package task

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a task does not exist.
var ErrNotFound = errors.New("task not found")

// ListFilter controls which tasks are returned by List.
type ListFilter struct {
	AssigneeID string // empty means all assignees
	ProjectID  string // empty means all projects
	StatusID   string // empty means all statuses
	Limit      int    // 0 means no limit
}

// StatusUpdate is the field pair written by a status transition.
type StatusUpdate struct {
	StatusID string
	Status   string // lowercase display label of the new status
}

// AssigneeUpdate is the field pair written by a reassignment.
type AssigneeUpdate struct {
	AssigneeID   string
	AssigneeName string
}

// Store defines the interface for task persistence.
type Store interface {
	// Create persists a new task. The store assigns ID and CreatedAt
	// if not already set.
	Create(ctx context.Context, t *Task) error

	// Get returns a single task by ID.
	// Returns ErrNotFound if the task does not exist.
	Get(ctx context.Context, id string) (Task, error)

	// List returns tasks matching the filter, ordered by created_at ASC.
	List(ctx context.Context, filter ListFilter) ([]Task, error)

	// UpdateStatus writes a status transition.
	// Returns ErrNotFound if the task does not exist.
	UpdateStatus(ctx context.Context, id string, u StatusUpdate) error

	// UpdateAssignee writes a reassignment.
	// Returns ErrNotFound if the task does not exist.
	UpdateAssignee(ctx context.Context, id string, u AssigneeUpdate) error

	// UpdateRating writes a quality rating.
	// Returns ErrNotFound if the task does not exist.
	UpdateRating(ctx context.Context, id string, rating int) error

	// Delete removes a task by ID.
	// Returns ErrNotFound if the task does not exist.
	Delete(ctx context.Context, id string) error
}
