package ordering

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/driveshop/backend/internal/domain/shared"
)

// OrderStatus represents the status of a marketplace order
type OrderStatus string

const (
	OrderStatusPendingConfirmation OrderStatus = "pending_confirmation"
	OrderStatusConfirmed           OrderStatus = "confirmed"
	OrderStatusPreparing           OrderStatus = "preparing"
	OrderStatusShipped             OrderStatus = "shipped"
	OrderStatusDelivered           OrderStatus = "delivered"
	OrderStatusCancelled           OrderStatus = "cancelled"
)

// IsValid checks if the status is a known value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPendingConfirmation, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPendingConfirmation:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusPreparing || target == OrderStatusCancelled
	case OrderStatusPreparing:
		return target == OrderStatusShipped
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered, OrderStatusCancelled:
		return false
	}
	return false
}

// ShippingMethod represents the delivery option chosen at checkout
type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

// IsValid checks if the shipping method is a known value
func (m ShippingMethod) IsValid() bool {
	return m == ShippingStandard || m == ShippingExpress
}

// Fee returns the flat delivery fee for the method
func (m ShippingMethod) Fee() decimal.Decimal {
	if m == ShippingExpress {
		return decimal.New(4990, -2)
	}
	return decimal.New(1990, -2)
}

// CustomerInfo is the contact and delivery information captured at checkout
type CustomerInfo struct {
	Name    string `gorm:"column:customer_name;type:varchar(200);not null" json:"name"`
	Email   string `gorm:"column:customer_email;type:varchar(200);not null" json:"email"`
	Phone   string `gorm:"column:customer_phone;type:varchar(50)" json:"phone"`
	Address string `gorm:"column:shipping_address;type:varchar(500);not null" json:"address"`
	City    string `gorm:"column:shipping_city;type:varchar(100);not null" json:"city"`
	Country string `gorm:"column:shipping_country;type:varchar(100);not null" json:"country"`
}

// Validate checks that the required contact fields are filled
func (c CustomerInfo) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer email is required")
	}
	if strings.TrimSpace(c.Address) == "" || strings.TrimSpace(c.City) == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Delivery address is required")
	}
	return nil
}

// OrderItem is a line of an order. Title, seller and unit price are
// snapshots taken at checkout so later listing edits do not rewrite
// order history.
type OrderItem struct {
	shared.BaseEntity
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ListingID uuid.UUID       `gorm:"type:uuid;not null;index"`
	SellerID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title     string          `gorm:"type:varchar(200);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity  int             `gorm:"not null"`
	Subtotal  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// Order represents a buyer's purchase.
// It is the aggregate root for the order workflow.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber    string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	BuyerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status         OrderStatus     `gorm:"type:varchar(30);not null;default:'pending_confirmation';index"`
	Items          []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Customer       CustomerInfo    `gorm:"embedded"`
	ShippingMethod ShippingMethod  `gorm:"type:varchar(20);not null"`
	ShippingFee    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ItemsTotal     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	GrandTotal     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Notes          string          `gorm:"type:text"`
	ConfirmedAt    *time.Time
	ShippedAt      *time.Time
	DeliveredAt    *time.Time
	CancelledAt    *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a pending order shell. Items are added with AddItem
// and the placed event is emitted by Place once the order is complete.
func NewOrder(buyerID uuid.UUID, customer CustomerInfo, shipping ShippingMethod) (*Order, error) {
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Buyer ID is required")
	}
	if err := customer.Validate(); err != nil {
		return nil, err
	}
	if !shipping.IsValid() {
		return nil, shared.NewDomainError("INVALID_SHIPPING", "Unknown shipping method")
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       GenerateOrderNumber(),
		BuyerID:           buyerID,
		Status:            OrderStatusPendingConfirmation,
		Items:             make([]OrderItem, 0),
		Customer:          customer,
		ShippingMethod:    shipping,
		ShippingFee:       shipping.Fee(),
		ItemsTotal:        decimal.Zero,
		GrandTotal:        shipping.Fee(),
	}, nil
}

// AddItem adds a line to the order with a price snapshot
func (o *Order) AddItem(listingID, sellerID uuid.UUID, title string, unitPrice decimal.Decimal, quantity int) error {
	if o.Status != OrderStatusPendingConfirmation {
		return shared.NewDomainError("ORDER_NOT_EDITABLE", "Can only add items to a pending order")
	}
	if listingID == uuid.Nil || sellerID == uuid.Nil {
		return shared.ErrInvalidInput
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	for _, item := range o.Items {
		if item.ListingID == listingID {
			return shared.NewDomainError("DUPLICATE_ITEM", "Listing already added to this order")
		}
	}

	o.Items = append(o.Items, OrderItem{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    o.ID,
		ListingID:  listingID,
		SellerID:   sellerID,
		Title:      title,
		UnitPrice:  unitPrice,
		Quantity:   quantity,
		Subtotal:   unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	})

	o.recalculateTotals()

	return nil
}

// Place finalizes the order and emits the placed event
func (o *Order) Place() error {
	if len(o.Items) == 0 {
		return shared.ErrEmptyCart
	}

	o.AddDomainEvent(NewOrderPlacedEvent(o))

	return nil
}

// Confirm transitions the order to confirmed. Stock was already taken
// at checkout; confirmation only acknowledges the sale.
func (o *Order) Confirm() error {
	if !o.Status.CanTransitionTo(OrderStatusConfirmed) {
		return invalidTransition(o.Status, OrderStatusConfirmed)
	}

	now := time.Now()
	o.Status = OrderStatusConfirmed
	o.ConfirmedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderConfirmedEvent(o))

	return nil
}

// StartPreparing transitions a confirmed order to preparing
func (o *Order) StartPreparing() error {
	if !o.Status.CanTransitionTo(OrderStatusPreparing) {
		return invalidTransition(o.Status, OrderStatusPreparing)
	}

	o.Status = OrderStatusPreparing
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Ship transitions the order to shipped
func (o *Order) Ship() error {
	if !o.Status.CanTransitionTo(OrderStatusShipped) {
		return invalidTransition(o.Status, OrderStatusShipped)
	}

	now := time.Now()
	o.Status = OrderStatusShipped
	o.ShippedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderShippedEvent(o))

	return nil
}

// Deliver transitions the order to delivered
func (o *Order) Deliver() error {
	if !o.Status.CanTransitionTo(OrderStatusDelivered) {
		return invalidTransition(o.Status, OrderStatusDelivered)
	}

	now := time.Now()
	o.Status = OrderStatusDelivered
	o.DeliveredAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderDeliveredEvent(o))

	return nil
}

// Cancel cancels the order with a required reason. Stock taken at
// checkout is not returned automatically.
func (o *Order) Cancel(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("CANCEL_REASON_REQUIRED", "Cancellation reason is required")
	}
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return invalidTransition(o.Status, OrderStatusCancelled)
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.appendNote(reason)
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewOrderCancelledEvent(o, reason))

	return nil
}

// RejectBySeller cancels the order on a seller's refusal, recording who
// refused it and why
func (o *Order) RejectBySeller(sellerName, reason string) error {
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("CANCEL_REASON_REQUIRED", "Rejection reason is required")
	}
	return o.Cancel(fmt.Sprintf("Rejected by %s: %s", sellerName, reason))
}

// SellerIDs returns the distinct sellers appearing in the order items
func (o *Order) SellerIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(o.Items))
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		if !seen[item.SellerID] {
			seen[item.SellerID] = true
			ids = append(ids, item.SellerID)
		}
	}
	return ids
}

// ItemsOfSeller returns the order lines belonging to one seller
func (o *Order) ItemsOfSeller(sellerID uuid.UUID) []OrderItem {
	items := make([]OrderItem, 0)
	for _, item := range o.Items {
		if item.SellerID == sellerID {
			items = append(items, item)
		}
	}
	return items
}

// InvolvesSeller returns true if any order line belongs to the seller
func (o *Order) InvolvesSeller(sellerID uuid.UUID) bool {
	return len(o.ItemsOfSeller(sellerID)) > 0
}

// IsPending returns true while the order awaits seller confirmation
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPendingConfirmation
}

// IsCancelled returns true if the order was cancelled or rejected
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

func (o *Order) recalculateTotals() {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal)
	}
	o.ItemsTotal = total
	o.GrandTotal = total.Add(o.ShippingFee)
}

func (o *Order) appendNote(note string) {
	if o.Notes == "" {
		o.Notes = note
		return
	}
	o.Notes = o.Notes + "\n" + note
}

func invalidTransition(from, to OrderStatus) error {
	return shared.NewDomainError("INVALID_STATUS_TRANSITION",
		fmt.Sprintf("Cannot transition order from %s to %s", from, to))
}

// GenerateOrderNumber builds a short order reference like CMD-3F2A9C01
func GenerateOrderNumber() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "CMD-" + strings.ToUpper(hex[:8])
}
