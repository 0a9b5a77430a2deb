// Package messaging implements the in-process event bus for Team Step Hub.
// The Store publishes one domain event per successful mutation; subscribers
// (such as the redis derived-stats cache) react to keep anything computed
// from a snapshot in step with the snapshot itself. Dispatch is synchronous:
// this core has no background work by design, every call is bounded by the
// caller's own operation.
package messaging

import (
	"sync"

	"github.com/step-hub/team-step-hub/internal/domain/shared"
	"github.com/step-hub/team-step-hub/pkg/logger"
)

// EventBus is a synchronous in-process publisher of domain events.
type EventBus struct {
	mu          sync.RWMutex
	handlers    map[shared.EventType][]shared.EventHandler
	allHandlers []shared.EventHandler
	log         *logger.Logger
}

// NewEventBus creates an event bus.
func NewEventBus(log *logger.Logger) *EventBus {
	if log == nil {
		log = logger.Default()
	}
	return &EventBus{
		handlers: make(map[shared.EventType][]shared.EventHandler),
		log:      log.With(logger.String("component", "eventbus")),
	}
}

// Subscribe registers a handler for a specific event type.
func (b *EventBus) Subscribe(eventType shared.EventType, handler shared.EventHandler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.log.Debug("subscribed handler", logger.String("event_type", string(eventType)))
}

// SubscribeAll registers a handler for every event type.
func (b *EventBus) SubscribeAll(handler shared.EventHandler) {
	if handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allHandlers = append(b.allHandlers, handler)
}

// Publish dispatches an event to its subscribers synchronously, in
// subscription order. A panicking handler is recovered and logged so one
// subscriber can never poison a mutation.
func (b *EventBus) Publish(event shared.Event) {
	b.mu.RLock()
	typed := append([]shared.EventHandler(nil), b.handlers[event.EventType()]...)
	all := append([]shared.EventHandler(nil), b.allHandlers...)
	b.mu.RUnlock()

	for _, handler := range typed {
		b.dispatch(handler, event)
	}
	for _, handler := range all {
		b.dispatch(handler, event)
	}
}

func (b *EventBus) dispatch(handler shared.EventHandler, event shared.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event handler panicked",
				logger.String("event_type", string(event.EventType())),
				logger.Any("panic", r),
			)
		}
	}()
	handler(event)
}
