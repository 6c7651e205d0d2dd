package stores

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hay-kot/taskboard/internal/core/task"
	"github.com/hay-kot/taskboard/internal/data/db"
)

// TaskStore implements task.Store using SQLite.
type TaskStore struct {
	db *db.DB
}

var _ task.Store = (*TaskStore)(nil)

// NewTaskStore creates a new SQLite-backed task store.
func NewTaskStore(db *db.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskColumns = `id, title, description, priority, due_date, estimated_hours,
	status_id, status, creator_id, creator_name, assignee_id, assignee_name,
	project_id, quality_rating, created_at`

// Create persists a new task, assigning ID and CreatedAt if unset.
func (s *TaskStore) Create(ctx context.Context, t *task.Task) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	if t.Priority == "" {
		t.Priority = task.PriorityMedium
	}

	var due sql.NullInt64
	if t.DueDate != nil {
		due = sql.NullInt64{Int64: t.DueDate.UnixNano(), Valid: true}
	}

	_, err := s.db.Conn().ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, string(t.Priority), due, t.EstimatedHours,
		t.StatusID, t.Status, t.CreatorID, t.CreatorName, t.AssigneeID, t.AssigneeName,
		t.ProjectID, t.QualityRating, t.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// Get returns a task by ID. Returns task.ErrNotFound if not found.
func (s *TaskStore) Get(ctx context.Context, id string) (task.Task, error) {
	row := s.db.Conn().QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)

	t, err := scanTask(row)
	if IsNotFoundError(err) {
		return task.Task{}, task.ErrNotFound
	}
	if err != nil {
		return task.Task{}, fmt.Errorf("failed to get task: %w", err)
	}

	return t, nil
}

// List returns tasks matching the filter, ordered by created_at ascending.
func (s *TaskStore) List(ctx context.Context, filter task.ListFilter) ([]task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var (
		where []string
		args  []any
	)
	if filter.AssigneeID != "" {
		where = append(where, "assignee_id = ?")
		args = append(args, filter.AssigneeID)
	}
	if filter.ProjectID != "" {
		where = append(where, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.StatusID != "" {
		where = append(where, "status_id = ?")
		args = append(args, filter.StatusID)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.Conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return tasks, nil
}

// UpdateStatus writes a status transition.
func (s *TaskStore) UpdateStatus(ctx context.Context, id string, u task.StatusUpdate) error {
	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE tasks SET status_id = ?, status = ? WHERE id = ?`,
		u.StatusID, u.Status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	return checkAffected(res, task.ErrNotFound)
}

// UpdateAssignee writes a reassignment.
func (s *TaskStore) UpdateAssignee(ctx context.Context, id string, u task.AssigneeUpdate) error {
	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE tasks SET assignee_id = ?, assignee_name = ? WHERE id = ?`,
		u.AssigneeID, u.AssigneeName, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update task assignee: %w", err)
	}
	return checkAffected(res, task.ErrNotFound)
}

// UpdateRating writes a quality rating.
func (s *TaskStore) UpdateRating(ctx context.Context, id string, rating int) error {
	res, err := s.db.Conn().ExecContext(ctx,
		`UPDATE tasks SET quality_rating = ? WHERE id = ?`,
		rating, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update task rating: %w", err)
	}
	return checkAffected(res, task.ErrNotFound)
}

// Delete removes a task by ID. Returns task.ErrNotFound if not found.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.Conn().ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return checkAffected(res, task.ErrNotFound)
}

// checkAffected converts a zero-row write into the store's not-found error.
func checkAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (task.Task, error) {
	var (
		t         task.Task
		priority  string
		due       sql.NullInt64
		createdAt int64
	)
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &priority, &due, &t.EstimatedHours,
		&t.StatusID, &t.Status, &t.CreatorID, &t.CreatorName, &t.AssigneeID, &t.AssigneeName,
		&t.ProjectID, &t.QualityRating, &createdAt,
	)
	if err != nil {
		return task.Task{}, err
	}

	t.Priority = task.Priority(priority)
	t.CreatedAt = time.Unix(0, createdAt)
	if due.Valid {
		d := time.Unix(0, due.Int64)
		t.DueDate = &d
	}

	return t, nil
}
