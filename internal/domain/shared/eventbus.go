package shared

import "context"

// EventHandler reacts to domain events delivered by the bus.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler wants. Empty means
	// every event.
	EventTypes() []string
}

// EventPublisher pushes domain events onto the bus.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler registrations.
type EventSubscriber interface {
	// Subscribe registers a handler for the given event types, or for
	// all events when none are given.
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the in-process delivery mechanism. Order events reach it
// through the outbox processor, identity and catalog events directly
// from their services.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// OutboxEventSaver writes domain events into the outbox table inside the
// caller's transaction, so an order and its placed event commit together.
type OutboxEventSaver interface {
	// SaveEvents persists events within the transaction carried by
	// txProvider (a *gorm.DB).
	SaveEvents(ctx context.Context, txProvider interface{}, events ...DomainEvent) error
}
