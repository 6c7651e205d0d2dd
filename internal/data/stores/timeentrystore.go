package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hay-kot/taskboard/internal/core/timeentry"
	"github.com/hay-kot/taskboard/internal/data/db"
)

// TimeEntryStore implements timeentry.Store using SQLite.
type TimeEntryStore struct {
	db *db.DB
}

var _ timeentry.Store = (*TimeEntryStore)(nil)

// NewTimeEntryStore creates a new SQLite-backed time entry store.
func NewTimeEntryStore(db *db.DB) *TimeEntryStore {
	return &TimeEntryStore{db: db}
}

// Create persists a new entry, assigning ID and CreatedAt if unset.
func (s *TimeEntryStore) Create(ctx context.Context, e *timeentry.Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO time_entries (id, task_id, user_id, start_time, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.TaskID, e.UserID, e.StartTime.UnixNano(), e.Duration, e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to create time entry: %w", err)
	}

	return nil
}

// List returns entries most recent first. limit 0 means no limit.
func (s *TimeEntryStore) List(ctx context.Context, limit int) ([]timeentry.Entry, error) {
	query := `SELECT id, task_id, user_id, start_time, duration, created_at
		FROM time_entries ORDER BY created_at DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectEntries(rows)
}

// ListByTask returns all entries for a task, most recent first.
func (s *TimeEntryStore) ListByTask(ctx context.Context, taskID string) ([]timeentry.Entry, error) {
	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT id, task_id, user_id, start_time, duration, created_at
		FROM time_entries WHERE task_id = ? ORDER BY created_at DESC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list time entries for task: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectEntries(rows)
}

// FindOpen returns the most recently created open entry for a task.
func (s *TimeEntryStore) FindOpen(ctx context.Context, taskID string) (timeentry.Entry, error) {
	var (
		e       timeentry.Entry
		start   int64
		created int64
	)
	err := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, task_id, user_id, start_time, duration, created_at
		FROM time_entries WHERE task_id = ? AND duration = 0
		ORDER BY created_at DESC LIMIT 1`, taskID,
	).Scan(&e.ID, &e.TaskID, &e.UserID, &start, &e.Duration, &created)
	if IsNotFoundError(err) {
		return timeentry.Entry{}, timeentry.ErrNoOpenEntry
	}
	if err != nil {
		return timeentry.Entry{}, fmt.Errorf("failed to find open time entry: %w", err)
	}

	e.StartTime = time.Unix(0, start)
	e.CreatedAt = time.Unix(0, created)
	return e, nil
}

// Close sets the duration on an entry, ending the interval.
func (s *TimeEntryStore) Close(ctx context.Context, id string, duration float64) error {
	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE time_entries SET duration = ? WHERE id = ?`, duration, id)
	if err != nil {
		return fmt.Errorf("failed to close time entry: %w", err)
	}
	return checkAffected(res, timeentry.ErrNotFound)
}

type rowIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collectEntries(rows rowIter) ([]timeentry.Entry, error) {
	var entries []timeentry.Entry
	for rows.Next() {
		var (
			e       timeentry.Entry
			start   int64
			created int64
		)
		if err := rows.Scan(&e.ID, &e.TaskID, &e.UserID, &start, &e.Duration, &created); err != nil {
			return nil, fmt.Errorf("failed to scan time entry: %w", err)
		}
		e.StartTime = time.Unix(0, start)
		e.CreatedAt = time.Unix(0, created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate time entries: %w", err)
	}

	return entries, nil
}
