package eventbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/taskboard/internal/core/task"
)

func startBus(t *testing.T, size int) *EventBus {
	t.Helper()

	bus := New(size)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go bus.Start(ctx)
	return bus
}

func TestEventBusDelivery(t *testing.T) {
	bus := startBus(t, 16)

	var (
		mu  sync.Mutex
		got []string
	)
	bus.SubscribeTaskCreated(func(p TaskCreatedPayload) {
		mu.Lock()
		got = append(got, p.Task.ID)
		mu.Unlock()
	})

	bus.PublishTaskCreated(TaskCreatedPayload{Task: task.Task{ID: "t-1"}})
	bus.PublishTaskCreated(TaskCreatedPayload{Task: task.Task{ID: "t-2"}})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"t-1", "t-2"}, got, "delivery preserves publish order")
	mu.Unlock()
}

func TestEventBusTypedRouting(t *testing.T) {
	bus := startBus(t, 16)

	var (
		mu      sync.Mutex
		created int
		deleted int
	)
	bus.SubscribeTaskCreated(func(TaskCreatedPayload) {
		mu.Lock()
		created++
		mu.Unlock()
	})
	bus.SubscribeTaskDeleted(func(TaskDeletedPayload) {
		mu.Lock()
		deleted++
		mu.Unlock()
	})

	bus.PublishTaskCreated(TaskCreatedPayload{Task: task.Task{ID: "t-1"}})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return created == 1
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	assert.Zero(t, deleted, "unrelated handlers are not invoked")
	mu.Unlock()
}

func TestEventBusDropOnFull(t *testing.T) {
	// No Start call: nothing drains the channel, so the buffer fills.
	bus := New(1)

	var (
		mu      sync.Mutex
		dropped []Event
	)
	bus.OnDrop(func(event Event, payload any) {
		mu.Lock()
		dropped = append(dropped, event)
		mu.Unlock()
	})

	bus.PublishTaskCreated(TaskCreatedPayload{Task: task.Task{ID: "t-1"}})
	bus.PublishTaskCreated(TaskCreatedPayload{Task: task.Task{ID: "t-2"}})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, dropped, 1, "second publish exceeds the buffer")
	assert.Equal(t, EventTaskCreated, dropped[0])
}

func TestEventBusPanicRecovery(t *testing.T) {
	bus := startBus(t, 16)

	var (
		mu       sync.Mutex
		panicked int
		after    int
	)
	bus.OnPanic(func(event Event, payload any, recovered any) {
		mu.Lock()
		panicked++
		mu.Unlock()
	})
	bus.SubscribeTaskCreated(func(TaskCreatedPayload) {
		panic("bad handler")
	})
	bus.SubscribeTaskCreated(func(TaskCreatedPayload) {
		mu.Lock()
		after++
		mu.Unlock()
	})

	bus.PublishTaskCreated(TaskCreatedPayload{Task: task.Task{ID: "t-1"}})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return panicked == 1 && after == 1
	}, time.Second, 5*time.Millisecond, "panic is recovered and later handlers still run")
}
