// Package board implements the task state machine, the status registry
// service, and the time-tracking engine behind the kanban board.
package board

import "errors"

var (
	// ErrNotAssignee is returned when an actor other than the task's
	// assignee attempts a status change or drag. Managers may reassign
	// and delete, but may not drive another user's task across the board.
	ErrNotAssignee = errors.New("only the assignee can change the status of their task")

	// ErrNotCompleted is returned when rating a task whose status is not
	// in the completed set.
	ErrNotCompleted = errors.New("task must be completed before it can be rated")

	// ErrInvalidRating is returned for ratings outside 1..5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrNoStatuses is returned when creating a task with an empty
	// status registry.
	ErrNoStatuses = errors.New("no statuses configured")

	// ErrReorderPartial is returned when one of the two writes of an
	// order swap failed. The registry's order values may no longer form
	// a total order; this is surfaced rather than corrected.
	ErrReorderPartial = errors.New("status reorder partially applied")
)
