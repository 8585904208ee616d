package ordering

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Save persists the order aggregate and its items, writing pending
	// domain events to the outbox within the same transaction
	Save(ctx context.Context, order *Order) error

	// Update persists aggregate changes with optimistic locking
	Update(ctx context.Context, order *Order) error

	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByNumber finds an order by its order number
	FindByNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByBuyer returns the buyer's orders, newest first
	FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter OrderFilter) ([]*Order, int64, error)

	// FindBySeller returns orders containing at least one item of the
	// seller, newest first
	FindBySeller(ctx context.Context, sellerID uuid.UUID, filter OrderFilter) ([]*Order, int64, error)

	// HasConfirmedPurchase reports whether the buyer has an order at
	// confirmed stage or later containing the listing. Backs the review
	// gate.
	HasConfirmedPurchase(ctx context.Context, buyerID, listingID uuid.UUID) (bool, error)
}

// OrderFilter contains filter options for listing orders
type OrderFilter struct {
	Status   *OrderStatus
	Page     int
	PageSize int
}

// NewOrderFilter creates a filter with default pagination
func NewOrderFilter() OrderFilter {
	return OrderFilter{
		Page:     1,
		PageSize: 6,
	}
}

// Offset returns the offset for pagination
func (f OrderFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the limit for pagination
func (f OrderFilter) Limit() int {
	if f.PageSize <= 0 {
		return 6
	}
	if f.PageSize > 60 {
		return 60
	}
	return f.PageSize
}
