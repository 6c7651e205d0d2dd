package stores

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hay-kot/taskboard/internal/core/status"
	"github.com/hay-kot/taskboard/internal/data/db"
)

// StatusStore implements status.Store using SQLite.
type StatusStore struct {
	db *db.DB
}

var _ status.Store = (*StatusStore)(nil)

// NewStatusStore creates a new SQLite-backed status store.
func NewStatusStore(db *db.DB) *StatusStore {
	return &StatusStore{db: db}
}

// Create persists a new status, assigning an ID if unset.
func (s *StatusStore) Create(ctx context.Context, st *status.Status) error {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}

	_, err := s.db.Conn().ExecContext(ctx,
		`INSERT INTO task_statuses (id, name, color, sort_order) VALUES (?, ?, ?, ?)`,
		st.ID, st.Name, st.Color, st.Order,
	)
	if err != nil {
		return fmt.Errorf("failed to create status: %w", err)
	}

	return nil
}

// Get returns a status by ID. Returns status.ErrNotFound if not found.
func (s *StatusStore) Get(ctx context.Context, id string) (status.Status, error) {
	var st status.Status
	err := s.db.Conn().QueryRowContext(ctx,
		`SELECT id, name, color, sort_order FROM task_statuses WHERE id = ?`, id,
	).Scan(&st.ID, &st.Name, &st.Color, &st.Order)
	if IsNotFoundError(err) {
		return status.Status{}, status.ErrNotFound
	}
	if err != nil {
		return status.Status{}, fmt.Errorf("failed to get status: %w", err)
	}

	return st, nil
}

// List returns all statuses in board column order.
func (s *StatusStore) List(ctx context.Context) ([]status.Status, error) {
	rows, err := s.db.Conn().QueryContext(ctx,
		`SELECT id, name, color, sort_order FROM task_statuses ORDER BY sort_order ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list statuses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var statuses []status.Status
	for rows.Next() {
		var st status.Status
		if err := rows.Scan(&st.ID, &st.Name, &st.Color, &st.Order); err != nil {
			return nil, fmt.Errorf("failed to scan status: %w", err)
		}
		statuses = append(statuses, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate statuses: %w", err)
	}

	return statuses, nil
}

// Update writes name and color for a status.
func (s *StatusStore) Update(ctx context.Context, id, name, color string) error {
	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE task_statuses SET name = ?, color = ? WHERE id = ?`,
		name, color, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return checkAffected(res, status.ErrNotFound)
}

// UpdateOrder writes the order value for a single status.
func (s *StatusStore) UpdateOrder(ctx context.Context, id string, order int) error {
	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE task_statuses SET sort_order = ? WHERE id = ?`,
		order, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update status order: %w", err)
	}
	return checkAffected(res, status.ErrNotFound)
}

// Delete removes a status by ID. Referencing tasks are untouched and
// become orphans.
func (s *StatusStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM task_statuses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete status: %w", err)
	}
	return checkAffected(res, status.ErrNotFound)
}
