// Package status defines the workflow status registry for the board.
package status

import "strings"

// inProgressName is the status name that drives automatic time tracking.
const inProgressName = "in progress"

// completedNames are the status names that gate quality rating.
var completedNames = map[string]struct{}{
	"completed": {},
	"approved":  {},
	"done":      {},
}

// Status represents one stage of the task workflow.
type Status struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Order int    `json:"order"`
}

// InProgress reports whether this status is the distinguished
// time-tracking stage, matched case-insensitively by name.
func (s Status) InProgress() bool {
	return strings.EqualFold(s.Name, inProgressName)
}

// Completed reports whether this status counts as a completion stage.
func (s Status) Completed() bool {
	_, ok := completedNames[strings.ToLower(s.Name)]
	return ok
}

// Registry holds the ordered status list and derived lookups.
// It is a snapshot value: rebuild it after the status set changes.
type Registry struct {
	statuses []Status
	byID     map[string]Status
}

// NewRegistry builds a registry from statuses already sorted by order.
func NewRegistry(statuses []Status) *Registry {
	byID := make(map[string]Status, len(statuses))
	for _, s := range statuses {
		byID[s.ID] = s
	}
	return &Registry{statuses: statuses, byID: byID}
}

// All returns the statuses in board column order.
func (r *Registry) All() []Status {
	out := make([]Status, len(r.statuses))
	copy(out, r.statuses)
	return out
}

// Len returns the number of registered statuses.
func (r *Registry) Len() int {
	return len(r.statuses)
}

// Get returns the status with the given id.
func (r *Registry) Get(id string) (Status, bool) {
	s, ok := r.byID[id]
	return s, ok
}

// IsValid reports whether id is present in the registry. Every
// status-partitioned read path uses this to filter orphaned tasks.
func (r *Registry) IsValid(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// InProgressID returns the id of the "in progress" status, or empty
// if the workflow has no such stage (time tracking disabled).
func (r *Registry) InProgressID() string {
	for _, s := range r.statuses {
		if s.InProgress() {
			return s.ID
		}
	}
	return ""
}

// CompletedIDs returns the set of ids whose names mark completion.
func (r *Registry) CompletedIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for _, s := range r.statuses {
		if s.Completed() {
			ids[s.ID] = struct{}{}
		}
	}
	return ids
}

// IsCompleted reports whether id belongs to the completed status set.
func (r *Registry) IsCompleted(id string) bool {
	s, ok := r.byID[id]
	return ok && s.Completed()
}
