// Package timeentry defines tracked work intervals for tasks.
package timeentry

import "time"

// Entry represents one contiguous interval of tracked work on a task.
//
// An entry with Duration == 0 is open: the interval is still being tracked.
// Closing an entry sets Duration to the elapsed time in fractional hours.
// At most one open entry exists per task at any time.
type Entry struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	StartTime time.Time `json:"start_time"`
	Duration  float64   `json:"duration"` // fractional hours, 0 while open
	CreatedAt time.Time `json:"created_at"`
}

// Open reports whether the entry is still being tracked.
func (e Entry) Open() bool {
	return e.Duration == 0
}
