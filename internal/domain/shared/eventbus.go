package shared

import "context"

// EventHandler handles domain events
type EventHandler interface {
	// Handle processes a domain event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler is interested in.
	// An empty slice means the handler receives all events.
	EventTypes() []string
}

// EventBus fans relayed outbox events out to in-process handlers
type EventBus interface {
	Publish(ctx context.Context, events ...DomainEvent) error
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// DomainEventRepository is the write side of the transactional outbox.
// Enqueue drains the aggregate's pending events into the outbox of the
// unit of work carried by ctx; a dispatcher delivers them later.
type DomainEventRepository interface {
	Enqueue(ctx context.Context, aggregate AggregateRoot) error
}
