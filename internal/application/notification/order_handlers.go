package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/driveshop/backend/internal/domain/identity"
	"github.com/driveshop/backend/internal/domain/ordering"
	"github.com/driveshop/backend/internal/domain/shared"
	"github.com/driveshop/backend/internal/infrastructure/mail"
)

// OrderPlacedHandler mails the buyer a confirmation and each distinct
// seller appearing in the order a heads-up
type OrderPlacedHandler struct {
	mailer   *Mailer
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewOrderPlacedHandler creates a new OrderPlacedHandler
func NewOrderPlacedHandler(mailer *Mailer, userRepo identity.UserRepository, logger *zap.Logger) *OrderPlacedHandler {
	return &OrderPlacedHandler{
		mailer:   mailer,
		userRepo: userRepo,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *OrderPlacedHandler) EventTypes() []string {
	return []string{ordering.EventTypeOrderPlaced}
}

// Handle processes an order placed event
func (h *OrderPlacedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	placed, ok := event.(*ordering.OrderPlacedEvent)
	if !ok {
		h.logger.Warn("Unexpected event payload",
			zap.String("event_type", event.EventType()))
		return nil
	}

	h.mailer.Send(placed.CustomerEmail, mail.TemplateOrderPlacedBuyer, mail.TemplateData{
		Name:        placed.CustomerName,
		OrderNumber: placed.OrderNumber,
		Total:       placed.GrandTotal.String(),
	})

	notified := make(map[string]bool)
	for _, item := range placed.Items {
		key := item.SellerID.String()
		if notified[key] {
			continue
		}
		notified[key] = true

		seller, err := h.userRepo.FindByID(ctx, item.SellerID)
		if err != nil {
			h.logger.Warn("Seller lookup failed for order notification",
				zap.String("seller_id", key),
				zap.String("order_number", placed.OrderNumber),
				zap.Error(err))
			continue
		}

		h.mailer.Send(seller.Email, mail.TemplateOrderPlacedSeller, mail.TemplateData{
			Name:        seller.Username,
			OrderNumber: placed.OrderNumber,
		})
	}

	return nil
}

// OrderStatusHandler mails the buyer on every order status change
// after placement
type OrderStatusHandler struct {
	mailer    *Mailer
	orderRepo ordering.OrderRepository
	logger    *zap.Logger
}

// NewOrderStatusHandler creates a new OrderStatusHandler
func NewOrderStatusHandler(mailer *Mailer, orderRepo ordering.OrderRepository, logger *zap.Logger) *OrderStatusHandler {
	return &OrderStatusHandler{
		mailer:    mailer,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *OrderStatusHandler) EventTypes() []string {
	return []string{
		ordering.EventTypeOrderConfirmed,
		ordering.EventTypeOrderCancelled,
		ordering.EventTypeOrderShipped,
		ordering.EventTypeOrderDelivered,
	}
}

// Handle processes an order status change event
func (h *OrderStatusHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *ordering.OrderConfirmedEvent:
		h.notify(ctx, e.CustomerEmail, mail.TemplateOrderConfirmed, e.OrderNumber)
	case *ordering.OrderCancelledEvent:
		h.notify(ctx, e.CustomerEmail, mail.TemplateOrderCancelled, e.OrderNumber)
	case *ordering.OrderShippedEvent:
		h.notify(ctx, e.CustomerEmail, mail.TemplateOrderShipped, e.OrderNumber)
	case *ordering.OrderDeliveredEvent:
		h.notifyDelivered(ctx, e)
	default:
		h.logger.Warn("Unexpected event payload",
			zap.String("event_type", event.EventType()))
	}
	return nil
}

func (h *OrderStatusHandler) notify(ctx context.Context, email, templateName, orderNumber string) {
	name := h.customerName(ctx, orderNumber)
	h.mailer.Send(email, templateName, mail.TemplateData{
		Name:        name,
		OrderNumber: orderNumber,
	})
}

// notifyDelivered resolves the recipient from the order because the
// delivered event carries no contact details
func (h *OrderStatusHandler) notifyDelivered(ctx context.Context, e *ordering.OrderDeliveredEvent) {
	order, err := h.orderRepo.FindByNumber(ctx, e.OrderNumber)
	if err != nil {
		h.logger.Warn("Order lookup failed for delivery notification",
			zap.String("order_number", e.OrderNumber),
			zap.Error(err))
		return
	}
	h.mailer.Send(order.Customer.Email, mail.TemplateOrderDelivered, mail.TemplateData{
		Name:        order.Customer.Name,
		OrderNumber: order.OrderNumber,
	})
}

func (h *OrderStatusHandler) customerName(ctx context.Context, orderNumber string) string {
	order, err := h.orderRepo.FindByNumber(ctx, orderNumber)
	if err != nil {
		return "there"
	}
	return order.Customer.Name
}
