package board

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hay-kot/taskboard/internal/core/eventbus"
	"github.com/hay-kot/taskboard/internal/core/status"
)

// Direction selects which neighbor an order swap targets.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// RegistryService manages the status registry: create, edit, reorder,
// delete. Deleting a status never cascades; tasks referencing it become
// orphans until a manager restores them to a valid status.
type RegistryService struct {
	statuses status.Store
	bus      *eventbus.EventBus
	log      zerolog.Logger
}

// NewRegistryService creates a registry service.
func NewRegistryService(statuses status.Store, bus *eventbus.EventBus, log zerolog.Logger) *RegistryService {
	return &RegistryService{
		statuses: statuses,
		bus:      bus,
		log:      log.With().Str("component", "registry").Logger(),
	}
}

// List returns all statuses in board order.
func (s *RegistryService) List(ctx context.Context) ([]status.Status, error) {
	return s.statuses.List(ctx)
}

// Snapshot loads a fresh registry from the store.
func (s *RegistryService) Snapshot(ctx context.Context) (*status.Registry, error) {
	statuses, err := s.statuses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot registry: %w", err)
	}
	return status.NewRegistry(statuses), nil
}

// Create appends a new status after the current last column.
func (s *RegistryService) Create(ctx context.Context, name, color string) (status.Status, error) {
	existing, err := s.statuses.List(ctx)
	if err != nil {
		return status.Status{}, fmt.Errorf("list statuses: %w", err)
	}

	maxOrder := 0
	for _, st := range existing {
		if st.Order > maxOrder {
			maxOrder = st.Order
		}
	}

	st := status.Status{Name: name, Color: color, Order: maxOrder + 1}
	if err := s.statuses.Create(ctx, &st); err != nil {
		return status.Status{}, fmt.Errorf("create status: %w", err)
	}

	s.publishChanged(ctx)

	return st, nil
}

// Update edits the name and color of a status.
func (s *RegistryService) Update(ctx context.Context, id, name, color string) error {
	if err := s.statuses.Update(ctx, id, name, color); err != nil {
		return fmt.Errorf("update status %s: %w", id, err)
	}

	s.publishChanged(ctx)

	return nil
}

// Delete removes a status. Tasks referencing it are left orphaned in the
// raw store and disappear from status-partitioned views.
func (s *RegistryService) Delete(ctx context.Context, id string) error {
	if err := s.statuses.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete status %s: %w", id, err)
	}

	s.publishChanged(ctx)

	return nil
}

// Move swaps a status with its neighbor in the given direction by
// exchanging the two order values, not renumbering the registry.
//
// The swap is two independent writes. If the second write fails after the
// first succeeded, the order values no longer form a total order; the
// inconsistency is surfaced via ErrReorderPartial and left uncorrected.
func (s *RegistryService) Move(ctx context.Context, id string, dir Direction) error {
	statuses, err := s.statuses.List(ctx)
	if err != nil {
		return fmt.Errorf("list statuses: %w", err)
	}

	idx := -1
	for i, st := range statuses {
		if st.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return status.ErrNotFound
	}

	swapIdx := idx + 1
	if dir == DirectionUp {
		swapIdx = idx - 1
	}
	if swapIdx < 0 || swapIdx >= len(statuses) {
		return nil
	}

	cur, neighbor := statuses[idx], statuses[swapIdx]

	if err := s.statuses.UpdateOrder(ctx, cur.ID, neighbor.Order); err != nil {
		return fmt.Errorf("reorder status %s: %w", cur.ID, err)
	}
	if err := s.statuses.UpdateOrder(ctx, neighbor.ID, cur.Order); err != nil {
		s.log.Error().Err(err).
			Str("moved", cur.ID).
			Str("neighbor", neighbor.ID).
			Msg("second write of order swap failed, registry order inconsistent")
		return fmt.Errorf("%w: %s kept order %d", ErrReorderPartial, neighbor.ID, neighbor.Order)
	}

	s.publishChanged(ctx)

	return nil
}

// publishChanged broadcasts the fresh status list so board sessions can
// rebuild their registry snapshots.
func (s *RegistryService) publishChanged(ctx context.Context) {
	statuses, err := s.statuses.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("list statuses for change broadcast")
		return
	}
	s.bus.PublishRegistryChanged(eventbus.RegistryChangedPayload{Statuses: statuses})
}
