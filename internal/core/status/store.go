package status

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a status does not exist.
var ErrNotFound = errors.New("status not found")

// Store defines the interface for status persistence.
type Store interface {
	// Create persists a new status. The store assigns ID if not already set.
	Create(ctx context.Context, s *Status) error

	// Get returns a single status by ID.
	// Returns ErrNotFound if the status does not exist.
	Get(ctx context.Context, id string) (Status, error)

	// List returns all statuses ordered by their order column ascending.
	List(ctx context.Context) ([]Status, error)

	// Update writes name and color for a status.
	// Returns ErrNotFound if the status does not exist.
	Update(ctx context.Context, id, name, color string) error

	// UpdateOrder writes the order value for a single status.
	// Returns ErrNotFound if the status does not exist.
	UpdateOrder(ctx context.Context, id string, order int) error

	// Delete removes a status by ID. Tasks referencing it are left in
	// place; they become orphans until given a valid status.
	// Returns ErrNotFound if the status does not exist.
	Delete(ctx context.Context, id string) error
}
