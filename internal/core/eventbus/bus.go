// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within taskboard. Delivery is asynchronous
// through a buffered channel drained by Start; events are dropped rather
// than blocking publishers when the buffer is full.
package eventbus

import (
	"context"
	"sync"
)

// Event identifies an event type on the bus.
type Event string

// All event types, kept sorted A-Z.
const (
	EventEntryClosed     Event = "timeentry.closed"
	EventEntryOpened     Event = "timeentry.opened"
	EventRegistryChanged Event = "status.registry-changed"
	EventTaskCreated     Event = "task.created"
	EventTaskDeleted     Event = "task.deleted"
	EventTaskUpdated     Event = "task.updated"
)

type envelope struct {
	event   Event
	payload any
}

// EventBus dispatches typed events to subscribers.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates a bus with the given channel buffer size.
func New(bufferSize int) *EventBus {
	return &EventBus{
		ch:   make(chan envelope, bufferSize),
		subs: make(map[Event][]func(any)),
	}
}

// Start drains the event channel and dispatches to subscribers until the
// context is cancelled. Subscriber panics are recovered and reported via
// the OnPanic hooks so one bad handler cannot take down the dispatch loop.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	handlers := make([]func(any), len(bus.subs[env.event]))
	copy(handlers, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					bus.runOnPanic(env.event, env.payload, r)
				}
			}()
			fn(env.payload)
		}()
	}
}

// send enqueues an event and fires hooks. Used by the typed Publish methods.
func (bus *EventBus) send(event Event, payload any) {
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		bus.runOnPublish(event, payload)
	default:
		bus.runOnDrop(event, payload)
	}
}

// subscribe registers an untyped handler. Used by the typed Subscribe methods.
func (bus *EventBus) subscribe(event Event, fn func(any)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], fn)
	bus.mu.Unlock()
	bus.runOnSubscribe(event)
}

// PublishTaskCreated publishes a task.created event.
func (bus *EventBus) PublishTaskCreated(p TaskCreatedPayload) { bus.send(EventTaskCreated, p) }

// SubscribeTaskCreated registers a handler for task.created events.
func (bus *EventBus) SubscribeTaskCreated(fn func(TaskCreatedPayload)) {
	bus.subscribe(EventTaskCreated, func(payload any) {
		if p, ok := payload.(TaskCreatedPayload); ok {
			fn(p)
		}
	})
}

// PublishTaskUpdated publishes a task.updated event.
func (bus *EventBus) PublishTaskUpdated(p TaskUpdatedPayload) { bus.send(EventTaskUpdated, p) }

// SubscribeTaskUpdated registers a handler for task.updated events.
func (bus *EventBus) SubscribeTaskUpdated(fn func(TaskUpdatedPayload)) {
	bus.subscribe(EventTaskUpdated, func(payload any) {
		if p, ok := payload.(TaskUpdatedPayload); ok {
			fn(p)
		}
	})
}

// PublishTaskDeleted publishes a task.deleted event.
func (bus *EventBus) PublishTaskDeleted(p TaskDeletedPayload) { bus.send(EventTaskDeleted, p) }

// SubscribeTaskDeleted registers a handler for task.deleted events.
func (bus *EventBus) SubscribeTaskDeleted(fn func(TaskDeletedPayload)) {
	bus.subscribe(EventTaskDeleted, func(payload any) {
		if p, ok := payload.(TaskDeletedPayload); ok {
			fn(p)
		}
	})
}

// PublishEntryOpened publishes a timeentry.opened event.
func (bus *EventBus) PublishEntryOpened(p EntryOpenedPayload) { bus.send(EventEntryOpened, p) }

// SubscribeEntryOpened registers a handler for timeentry.opened events.
func (bus *EventBus) SubscribeEntryOpened(fn func(EntryOpenedPayload)) {
	bus.subscribe(EventEntryOpened, func(payload any) {
		if p, ok := payload.(EntryOpenedPayload); ok {
			fn(p)
		}
	})
}

// PublishEntryClosed publishes a timeentry.closed event.
func (bus *EventBus) PublishEntryClosed(p EntryClosedPayload) { bus.send(EventEntryClosed, p) }

// SubscribeEntryClosed registers a handler for timeentry.closed events.
func (bus *EventBus) SubscribeEntryClosed(fn func(EntryClosedPayload)) {
	bus.subscribe(EventEntryClosed, func(payload any) {
		if p, ok := payload.(EntryClosedPayload); ok {
			fn(p)
		}
	})
}

// PublishRegistryChanged publishes a status.registry-changed event.
func (bus *EventBus) PublishRegistryChanged(p RegistryChangedPayload) {
	bus.send(EventRegistryChanged, p)
}

// SubscribeRegistryChanged registers a handler for status.registry-changed events.
func (bus *EventBus) SubscribeRegistryChanged(fn func(RegistryChangedPayload)) {
	bus.subscribe(EventRegistryChanged, func(payload any) {
		if p, ok := payload.(RegistryChangedPayload); ok {
			fn(p)
		}
	})
}
