package board

import (
	"github.com/hay-kot/taskboard/internal/core/eventbus"
	"github.com/hay-kot/taskboard/internal/core/task"
)

// FeedEventType classifies a realtime document event.
type FeedEventType string

const (
	FeedCreate FeedEventType = "create"
	FeedUpdate FeedEventType = "update"
	FeedDelete FeedEventType = "delete"
)

// FeedEvent is one event from the realtime task stream. Task carries the
// full document for create and update; TaskID is always set.
//
// The transport makes no ordering or single-delivery guarantees: handlers
// must tolerate duplicates and out-of-order arrival.
type FeedEvent struct {
	Type   FeedEventType
	TaskID string
	Task   task.Task
}

// Feed is a subscribable stream of task document events.
type Feed interface {
	// SubscribeTasks registers a handler for task events. The handler
	// must be safe to call at arbitrary rate and order.
	SubscribeTasks(fn func(FeedEvent))
}

// BusFeed adapts the event bus into a Feed. Every task write published on
// the bus is re-delivered to subscribers, echoing the writer's own events
// alongside those of other sessions sharing the bus.
type BusFeed struct {
	bus *eventbus.EventBus
}

var _ Feed = (*BusFeed)(nil)

// NewBusFeed creates a feed over the given bus.
func NewBusFeed(bus *eventbus.EventBus) *BusFeed {
	return &BusFeed{bus: bus}
}

// SubscribeTasks registers a handler for task create/update/delete events.
func (f *BusFeed) SubscribeTasks(fn func(FeedEvent)) {
	f.bus.SubscribeTaskCreated(func(p eventbus.TaskCreatedPayload) {
		fn(FeedEvent{Type: FeedCreate, TaskID: p.Task.ID, Task: p.Task})
	})
	f.bus.SubscribeTaskUpdated(func(p eventbus.TaskUpdatedPayload) {
		fn(FeedEvent{Type: FeedUpdate, TaskID: p.Task.ID, Task: p.Task})
	})
	f.bus.SubscribeTaskDeleted(func(p eventbus.TaskDeletedPayload) {
		fn(FeedEvent{Type: FeedDelete, TaskID: p.TaskID})
	})
}
