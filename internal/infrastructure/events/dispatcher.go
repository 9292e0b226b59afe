// Package events delivers domain events to in-process subscribers
package events

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/alchemorsel/pantry/internal/domain/shared"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// AllEvents subscribes a handler to every event name
const AllEvents = "*"

// Handler reacts to one domain event
type Handler func(ctx context.Context, event shared.DomainEvent) error

// Dispatcher logs every published event and hands it to the handlers
// subscribed to its name. Handler failures are logged and never reach the
// publisher, since the aggregate was already saved.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *zap.Logger
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]Handler),
		log:      log.Named("events"),
	}
}

var _ outbound.EventPublisher = (*Dispatcher)(nil)

// Subscribe registers handler for events named name
func (d *Dispatcher) Subscribe(name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[name] = append(d.handlers[name], handler)
	d.log.Debug("Registered event handler", zap.String("event", name))
}

// Publish delivers events in order
func (d *Dispatcher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		name := event.EventName()
		d.log.Info("Domain event",
			zap.String("event", name),
			zap.Time("occurred_at", event.OccurredAt()),
			zap.Any("payload", event),
		)

		d.mu.RLock()
		handlers := make([]Handler, 0, len(d.handlers[name])+len(d.handlers[AllEvents]))
		handlers = append(handlers, d.handlers[name]...)
		handlers = append(handlers, d.handlers[AllEvents]...)
		d.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(ctx, event); err != nil {
				d.log.Error("Failed to handle event",
					zap.String("event", name),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}
