package eventbus

import (
	"github.com/hay-kot/taskboard/internal/core/status"
	"github.com/hay-kot/taskboard/internal/core/task"
	"github.com/hay-kot/taskboard/internal/core/timeentry"
)

// TaskCreatedPayload is emitted after a task is persisted.
type TaskCreatedPayload struct {
	Task task.Task
}

// TaskUpdatedPayload is emitted after any task field write, carrying the
// full document so subscribers can replace-by-id.
type TaskUpdatedPayload struct {
	Task task.Task
}

// TaskDeletedPayload is emitted after a task is deleted.
type TaskDeletedPayload struct {
	TaskID string
}

// EntryOpenedPayload is emitted when automatic tracking opens a time entry.
type EntryOpenedPayload struct {
	Entry timeentry.Entry
}

// EntryClosedPayload is emitted when automatic tracking closes a time entry.
type EntryClosedPayload struct {
	Entry timeentry.Entry
}

// RegistryChangedPayload is emitted when the status registry is
// created, edited, reordered, or has an entry deleted.
type RegistryChangedPayload struct {
	Statuses []status.Status
}
