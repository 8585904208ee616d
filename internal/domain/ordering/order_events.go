package ordering

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/driveshop/backend/internal/domain/shared"
)

// Aggregate type constant for Order
const AggregateTypeOrder = "Order"

// Ordering domain event types
const (
	EventTypeOrderPlaced    = "ordering.order.placed"
	EventTypeOrderConfirmed = "ordering.order.confirmed"
	EventTypeOrderCancelled = "ordering.order.cancelled"
	EventTypeOrderShipped   = "ordering.order.shipped"
	EventTypeOrderDelivered = "ordering.order.delivered"
)

// OrderEventItem is the line snapshot carried in order events
type OrderEventItem struct {
	ListingID uuid.UUID       `json:"listing_id"`
	SellerID  uuid.UUID       `json:"seller_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func eventItems(o *Order) []OrderEventItem {
	items := make([]OrderEventItem, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderEventItem{
			ListingID: item.ListingID,
			SellerID:  item.SellerID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		})
	}
	return items
}

// OrderPlacedEvent is published when a buyer completes checkout
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string           `json:"order_number"`
	BuyerID       uuid.UUID        `json:"buyer_id"`
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email"`
	Items         []OrderEventItem `json:"items"`
	ShippingFee   decimal.Decimal  `json:"shipping_fee"`
	GrandTotal    decimal.Decimal  `json:"grand_total"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(order *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		BuyerID:         order.BuyerID,
		CustomerName:    order.Customer.Name,
		CustomerEmail:   order.Customer.Email,
		Items:           eventItems(order),
		ShippingFee:     order.ShippingFee,
		GrandTotal:      order.GrandTotal,
	}
}

// OrderConfirmedEvent is published when a seller confirms an order
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string          `json:"order_number"`
	BuyerID       uuid.UUID       `json:"buyer_id"`
	CustomerEmail string          `json:"customer_email"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

// NewOrderConfirmedEvent creates a new OrderConfirmedEvent
func NewOrderConfirmedEvent(order *Order) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, AggregateTypeOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		BuyerID:         order.BuyerID,
		CustomerEmail:   order.Customer.Email,
		GrandTotal:      order.GrandTotal,
	}
}

// OrderCancelledEvent is published when an order is cancelled or rejected
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string    `json:"order_number"`
	BuyerID       uuid.UUID `json:"buyer_id"`
	CustomerEmail string    `json:"customer_email"`
	Reason        string    `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order, reason string) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		BuyerID:         order.BuyerID,
		CustomerEmail:   order.Customer.Email,
		Reason:          reason,
	}
}

// OrderShippedEvent is published when the order leaves the warehouse
type OrderShippedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string    `json:"order_number"`
	BuyerID       uuid.UUID `json:"buyer_id"`
	CustomerEmail string    `json:"customer_email"`
}

// NewOrderShippedEvent creates a new OrderShippedEvent
func NewOrderShippedEvent(order *Order) *OrderShippedEvent {
	return &OrderShippedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderShipped, AggregateTypeOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		BuyerID:         order.BuyerID,
		CustomerEmail:   order.Customer.Email,
	}
}

// OrderDeliveredEvent is published when delivery is confirmed
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	BuyerID     uuid.UUID `json:"buyer_id"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(order *Order) *OrderDeliveredEvent {
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeOrder, order.ID),
		OrderNumber:     order.OrderNumber,
		BuyerID:         order.BuyerID,
	}
}
