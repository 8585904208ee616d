package event

import (
	"github.com/driveshop/backend/internal/domain/catalog"
	"github.com/driveshop/backend/internal/domain/identity"
	"github.com/driveshop/backend/internal/domain/ordering"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the outbox table.
func RegisterAllEvents(serializer *EventSerializer) {
	// Identity domain events
	serializer.Register(identity.EventTypeUserRegistered, &identity.UserRegisteredEvent{})
	serializer.Register(identity.EventTypeSellerApproved, &identity.SellerApprovedEvent{})

	// Catalog domain events
	serializer.Register(catalog.EventTypeListingCreated, &catalog.ListingCreatedEvent{})
	serializer.Register(catalog.EventTypeReviewAdded, &catalog.ReviewAddedEvent{})

	// Ordering domain events
	serializer.Register(ordering.EventTypeOrderPlaced, &ordering.OrderPlacedEvent{})
	serializer.Register(ordering.EventTypeOrderConfirmed, &ordering.OrderConfirmedEvent{})
	serializer.Register(ordering.EventTypeOrderCancelled, &ordering.OrderCancelledEvent{})
	serializer.Register(ordering.EventTypeOrderShipped, &ordering.OrderShippedEvent{})
	serializer.Register(ordering.EventTypeOrderDelivered, &ordering.OrderDeliveredEvent{})
}
