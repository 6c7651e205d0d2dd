package stores

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/taskboard/internal/core/status"
	"github.com/hay-kot/taskboard/internal/core/task"
	"github.com/hay-kot/taskboard/internal/data/db"
)

func TestStatusStore(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		store := NewStatusStore(database)

		st := status.Status{ID: "s-1", Name: "To Do", Color: "#89b4fa", Order: 0}
		require.NoError(t, store.Create(ctx, &st))

		got, err := store.Get(ctx, "s-1")
		require.NoError(t, err)
		assert.Equal(t, "To Do", got.Name)
		assert.Equal(t, "#89b4fa", got.Color)
	})

	t.Run("create assigns ID when empty", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		store := NewStatusStore(database)

		st := status.Status{Name: "Backlog"}
		require.NoError(t, store.Create(ctx, &st))
		assert.NotEmpty(t, st.ID)
	})

	t.Run("get not found", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		store := NewStatusStore(database)

		_, err = store.Get(ctx, "nonexistent")
		assert.ErrorIs(t, err, status.ErrNotFound)
	})

	t.Run("list follows sort order not insert order", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		store := NewStatusStore(database)

		seed := []status.Status{
			{ID: "s-done", Name: "Done", Order: 2},
			{ID: "s-todo", Name: "To Do", Order: 0},
			{ID: "s-wip", Name: "In Progress", Order: 1},
		}
		for i := range seed {
			require.NoError(t, store.Create(ctx, &seed[i]))
		}

		got, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "s-todo", got[0].ID)
		assert.Equal(t, "s-wip", got[1].ID)
		assert.Equal(t, "s-done", got[2].ID)
	})

	t.Run("update and reorder", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		store := NewStatusStore(database)

		st := status.Status{ID: "s-1", Name: "To Do", Color: "#fff", Order: 0}
		require.NoError(t, store.Create(ctx, &st))

		require.NoError(t, store.Update(ctx, "s-1", "Ready", "#000"))
		require.NoError(t, store.UpdateOrder(ctx, "s-1", 5))

		got, err := store.Get(ctx, "s-1")
		require.NoError(t, err)
		assert.Equal(t, "Ready", got.Name)
		assert.Equal(t, "#000", got.Color)
		assert.Equal(t, 5, got.Order)

		assert.ErrorIs(t, store.Update(ctx, "missing", "x", "y"), status.ErrNotFound)
		assert.ErrorIs(t, store.UpdateOrder(ctx, "missing", 1), status.ErrNotFound)
	})

	t.Run("delete leaves referencing tasks in place", func(t *testing.T) {
		database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
		require.NoError(t, err)
		defer func() { _ = database.Close() }()

		statuses := NewStatusStore(database)
		tasks := NewTaskStore(database)

		st := status.Status{ID: "s-1", Name: "Doomed"}
		require.NoError(t, statuses.Create(ctx, &st))

		tk := task.Task{ID: "t-1", Title: "survivor", StatusID: "s-1", Status: "doomed"}
		require.NoError(t, tasks.Create(ctx, &tk))

		require.NoError(t, statuses.Delete(ctx, "s-1"))

		// The task still exists and still points at the deleted status.
		got, err := tasks.Get(ctx, "t-1")
		require.NoError(t, err)
		assert.Equal(t, "s-1", got.StatusID)

		assert.ErrorIs(t, statuses.Delete(ctx, "s-1"), status.ErrNotFound)
	})
}
