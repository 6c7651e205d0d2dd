package board

import (
	"fmt"
	"math"

	"github.com/hay-kot/taskboard/internal/core/task"
)

// FormatHours renders a fractional-hours value for display. Sub-minute
// durations are shown in seconds; otherwise hours and minutes. Returns ""
// for zero or negative values so callers can omit the badge entirely.
func FormatHours(h float64) string {
	if h <= 0 {
		return ""
	}

	totalSeconds := int(math.Round(h * 3600))
	if totalSeconds < 60 {
		return fmt.Sprintf("%ds", totalSeconds)
	}

	hrs := int(h)
	mins := int(math.Round((h - float64(hrs)) * 60))
	if mins == 60 {
		hrs++
		mins = 0
	}

	switch {
	case hrs > 0 && mins > 0:
		return fmt.Sprintf("%dh %dm", hrs, mins)
	case hrs > 0:
		return fmt.Sprintf("%dh", hrs)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

// FormatEstimate renders a task's estimated duration, stored as decimal
// hours (2.5 = 2h 30m). Returns "" when there is no estimate.
func FormatEstimate(t task.Task) string {
	totalMin := int(math.Round(t.EstimatedHours * 60))
	if totalMin <= 0 {
		return ""
	}

	h := totalMin / 60
	m := totalMin % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

// OverEstimate reports whether actual tracked hours exceed the task's
// estimate. A zero estimate means "no estimate" and never flags.
func OverEstimate(t task.Task, actualHours float64) bool {
	return t.EstimatedHours > 0 && actualHours > t.EstimatedHours
}
