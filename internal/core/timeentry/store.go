package timeentry

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a time entry does not exist.
var ErrNotFound = errors.New("time entry not found")

// ErrNoOpenEntry is returned when a close is requested but no open
// entry exists for the task.
var ErrNoOpenEntry = errors.New("no open time entry for task")

// Store defines the interface for time entry persistence.
type Store interface {
	// Create persists a new entry. The store assigns ID and CreatedAt
	// if not already set.
	Create(ctx context.Context, e *Entry) error

	// List returns entries, most recent first. limit 0 means no limit.
	List(ctx context.Context, limit int) ([]Entry, error)

	// ListByTask returns all entries for a task, most recent first.
	ListByTask(ctx context.Context, taskID string) ([]Entry, error)

	// FindOpen returns the most recently created open entry for a task.
	// Returns ErrNoOpenEntry if the task has no open entry.
	FindOpen(ctx context.Context, taskID string) (Entry, error)

	// Close sets the duration on an entry, ending the interval.
	// Returns ErrNotFound if the entry does not exist.
	Close(ctx context.Context, id string, duration float64) error
}
