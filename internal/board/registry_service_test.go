package board

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/taskboard/internal/core/eventbus"
	"github.com/hay-kot/taskboard/internal/core/eventbus/testbus"
	"github.com/hay-kot/taskboard/internal/core/status"
	"github.com/hay-kot/taskboard/internal/data/db"
	"github.com/hay-kot/taskboard/internal/data/stores"
)

func newTestRegistry(t *testing.T) (*RegistryService, status.Store, *testbus.Bus) {
	t.Helper()

	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	bus := testbus.New(t)
	statusStore := stores.NewStatusStore(database)
	return NewRegistryService(statusStore, bus.EventBus, zerolog.Nop()), statusStore, bus
}

func TestRegistryServiceCreate(t *testing.T) {
	ctx := context.Background()

	svc, _, bus := newTestRegistry(t)

	first, err := svc.Create(ctx, "To Do", "#89b4fa")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "Done", "#a6e3a1")
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.Greater(t, second.Order, first.Order, "new statuses append after the last column")

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, first.ID, listed[0].ID)

	bus.AssertPublished(t, eventbus.EventRegistryChanged)
}

func TestRegistryServiceMove(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T, store status.Store) (a, b, c status.Status) {
		a = status.Status{ID: "s-a", Name: "A", Order: 0}
		b = status.Status{ID: "s-b", Name: "B", Order: 1}
		c = status.Status{ID: "s-c", Name: "C", Order: 2}
		for _, st := range []*status.Status{&a, &b, &c} {
			require.NoError(t, store.Create(ctx, st))
		}
		return a, b, c
	}

	t.Run("down swaps with the next column", func(t *testing.T) {
		svc, store, _ := newTestRegistry(t)
		seed(t, store)

		require.NoError(t, svc.Move(ctx, "s-a", DirectionDown))

		listed, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"s-b", "s-a", "s-c"}, statusIDs(listed))
	})

	t.Run("up swaps with the previous column", func(t *testing.T) {
		svc, store, _ := newTestRegistry(t)
		seed(t, store)

		require.NoError(t, svc.Move(ctx, "s-c", DirectionUp))

		listed, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"s-a", "s-c", "s-b"}, statusIDs(listed))
	})

	t.Run("move at the edge is a no-op", func(t *testing.T) {
		svc, store, bus := newTestRegistry(t)
		seed(t, store)
		bus.Reset()

		require.NoError(t, svc.Move(ctx, "s-a", DirectionUp))
		require.NoError(t, svc.Move(ctx, "s-c", DirectionDown))

		listed, err := svc.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"s-a", "s-b", "s-c"}, statusIDs(listed))
		bus.AssertNotPublished(t, eventbus.EventRegistryChanged, 50*time.Millisecond)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, store, _ := newTestRegistry(t)
		seed(t, store)

		assert.ErrorIs(t, svc.Move(ctx, "missing", DirectionUp), status.ErrNotFound)
	})

	t.Run("second write failure surfaces partial reorder", func(t *testing.T) {
		svc, store, _ := newTestRegistry(t)
		seed(t, store)

		// First UpdateOrder succeeds, second fails.
		svc.statuses = &failingStatusStore{Store: store, failAfter: 1}

		err := svc.Move(ctx, "s-a", DirectionDown)
		assert.ErrorIs(t, err, ErrReorderPartial)

		// The half-applied swap leaves two statuses sharing an order value.
		listed, err := store.List(ctx)
		require.NoError(t, err)
		orders := map[int]int{}
		for _, st := range listed {
			orders[st.Order]++
		}
		assert.Equal(t, 2, orders[1], "s-a and s-b both hold order 1")
	})
}

func TestRegistryServiceDelete(t *testing.T) {
	ctx := context.Background()

	svc, store, bus := newTestRegistry(t)

	st := status.Status{ID: "s-1", Name: "Doomed"}
	require.NoError(t, store.Create(ctx, &st))

	require.NoError(t, svc.Delete(ctx, "s-1"))
	assert.ErrorIs(t, svc.Delete(ctx, "s-1"), status.ErrNotFound)
	bus.AssertPublished(t, eventbus.EventRegistryChanged)
}

func TestRegistryServiceUpdate(t *testing.T) {
	ctx := context.Background()

	svc, store, _ := newTestRegistry(t)

	st := status.Status{ID: "s-1", Name: "To Do", Color: "#fff"}
	require.NoError(t, store.Create(ctx, &st))

	require.NoError(t, svc.Update(ctx, "s-1", "Ready", "#000"))

	got, err := store.Get(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Ready", got.Name)
	assert.Equal(t, "#000", got.Color)
}

func statusIDs(statuses []status.Status) []string {
	out := make([]string, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, st.ID)
	}
	return out
}

// failingStatusStore lets failAfter UpdateOrder calls through, then fails.
type failingStatusStore struct {
	status.Store
	failAfter int
	calls     int
}

func (f *failingStatusStore) UpdateOrder(ctx context.Context, id string, order int) error {
	f.calls++
	if f.calls > f.failAfter {
		return errors.New("simulated write failure")
	}
	return f.Store.UpdateOrder(ctx, id, order)
}
