package stores

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/taskboard/internal/core/task"
	"github.com/hay-kot/taskboard/internal/data/db"
)

func TestTaskStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		store := NewTaskStore(database)

		due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
		tk := task.Task{
			ID:             "task-1",
			Title:          "Write report",
			Description:    "Quarterly numbers",
			Priority:       task.PriorityHigh,
			DueDate:        &due,
			EstimatedHours: 2.5,
			StatusID:       "status-todo",
			Status:         "to do",
			CreatorID:      "user-1",
			CreatorName:    "Ana",
			AssigneeID:     "user-2",
			AssigneeName:   "Ben",
			ProjectID:      "proj-1",
			CreatedAt:      time.Now(),
		}

		require.NoError(t, store.Create(ctx, &tk))

		got, err := store.Get(ctx, "task-1")
		require.NoError(t, err)
		assert.Equal(t, "Write report", got.Title)
		assert.Equal(t, task.PriorityHigh, got.Priority)
		assert.Equal(t, 2.5, got.EstimatedHours)
		assert.Equal(t, "status-todo", got.StatusID)
		assert.Equal(t, "user-2", got.AssigneeID)
		require.NotNil(t, got.DueDate)
		assert.True(t, got.DueDate.Equal(due))
		assert.Zero(t, got.QualityRating)
	})

	t.Run("create assigns defaults", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		store := NewTaskStore(database)

		tk := task.Task{Title: "No id or priority"}
		require.NoError(t, store.Create(ctx, &tk))

		assert.NotEmpty(t, tk.ID)
		assert.False(t, tk.CreatedAt.IsZero())

		got, err := store.Get(ctx, tk.ID)
		require.NoError(t, err)
		assert.Equal(t, task.PriorityMedium, got.Priority)
		assert.Nil(t, got.DueDate)
	})

	t.Run("get not found", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		store := NewTaskStore(database)

		_, err = store.Get(ctx, "nonexistent")
		assert.ErrorIs(t, err, task.ErrNotFound)
	})

	t.Run("list filters and ordering", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		store := NewTaskStore(database)

		base := time.Now()
		seed := []task.Task{
			{ID: "t-1", Title: "first", AssigneeID: "ana", StatusID: "s-1", ProjectID: "p-1"},
			{ID: "t-2", Title: "second", AssigneeID: "ben", StatusID: "s-1", ProjectID: "p-2"},
			{ID: "t-3", Title: "third", AssigneeID: "ana", StatusID: "s-2", ProjectID: "p-1"},
		}
		for i := range seed {
			seed[i].CreatedAt = base.Add(time.Duration(i) * time.Second)
			require.NoError(t, store.Create(ctx, &seed[i]))
		}

		all, err := store.List(ctx, task.ListFilter{})
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "t-1", all[0].ID, "oldest first")

		byAssignee, err := store.List(ctx, task.ListFilter{AssigneeID: "ana"})
		require.NoError(t, err)
		assert.Len(t, byAssignee, 2)

		byStatusAndProject, err := store.List(ctx, task.ListFilter{StatusID: "s-1", ProjectID: "p-2"})
		require.NoError(t, err)
		require.Len(t, byStatusAndProject, 1)
		assert.Equal(t, "t-2", byStatusAndProject[0].ID)

		limited, err := store.List(ctx, task.ListFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, limited, 2)
	})

	t.Run("update status", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		store := NewTaskStore(database)

		tk := task.Task{ID: "t-1", Title: "move me", StatusID: "s-1", Status: "to do"}
		require.NoError(t, store.Create(ctx, &tk))

		require.NoError(t, store.UpdateStatus(ctx, "t-1", task.StatusUpdate{StatusID: "s-2", Status: "in progress"}))

		got, err := store.Get(ctx, "t-1")
		require.NoError(t, err)
		assert.Equal(t, "s-2", got.StatusID)
		assert.Equal(t, "in progress", got.Status)

		err = store.UpdateStatus(ctx, "missing", task.StatusUpdate{StatusID: "s-2"})
		assert.ErrorIs(t, err, task.ErrNotFound)
	})

	t.Run("update assignee and rating", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		store := NewTaskStore(database)

		tk := task.Task{ID: "t-1", Title: "reassign me"}
		require.NoError(t, store.Create(ctx, &tk))

		require.NoError(t, store.UpdateAssignee(ctx, "t-1", task.AssigneeUpdate{AssigneeID: "u-9", AssigneeName: "Zed"}))
		require.NoError(t, store.UpdateRating(ctx, "t-1", 4))

		got, err := store.Get(ctx, "t-1")
		require.NoError(t, err)
		assert.Equal(t, "u-9", got.AssigneeID)
		assert.Equal(t, "Zed", got.AssigneeName)
		assert.Equal(t, 4, got.QualityRating)
		assert.True(t, got.Rated())
	})

	t.Run("delete", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		store := NewTaskStore(database)

		tk := task.Task{ID: "t-1", Title: "delete me"}
		require.NoError(t, store.Create(ctx, &tk))

		require.NoError(t, store.Delete(ctx, "t-1"))

		_, err = store.Get(ctx, "t-1")
		assert.ErrorIs(t, err, task.ErrNotFound)

		assert.ErrorIs(t, store.Delete(ctx, "t-1"), task.ErrNotFound)
	})
}

func TestTaskStoreListMany(t *testing.T) {
	ctx := context.Background()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	defer func() { _ = database.Close() }()

	store := NewTaskStore(database)

	base := time.Now()
	for i := 0; i < 25; i++ {
		tk := task.Task{
			ID:        fmt.Sprintf("t-%02d", i),
			Title:     fmt.Sprintf("task %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}
		require.NoError(t, store.Create(ctx, &tk))
	}

	got, err := store.List(ctx, task.ListFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 10)
	assert.Equal(t, "t-00", got[0].ID)
	assert.Equal(t, "t-09", got[9].ID)
}
