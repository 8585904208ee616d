package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/driveshop/backend/internal/application/ordering"
)

// OrderHandler handles buyer order history and seller fulfilment
// requests
type OrderHandler struct {
	BaseHandler
	orderService *ordering.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *ordering.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// ListMine returns the authenticated buyer's orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	buyerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	var filter ordering.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	orders, total, err := h.orderService.ListMyOrders(c.Request.Context(), buyerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Get returns one order visible to the buyer, an involved seller or an
// admin
func (h *OrderHandler) Get(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	orderID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), orderID, actorID, isAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel cancels the buyer's own pending order
func (h *OrderHandler) Cancel(c *gin.Context) {
	buyerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	orderID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid order id")
		return
	}

	var req ordering.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	order, err := h.orderService.CancelOrder(c.Request.Context(), buyerID, orderID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ListWithMyItems returns orders containing the authenticated seller's
// vehicles, projected onto the seller's own lines
func (h *OrderHandler) ListWithMyItems(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	var filter ordering.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	orders, total, err := h.orderService.ListOrdersWithMyItems(c.Request.Context(), sellerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// Confirm accepts a pending order after a stock re-check
func (h *OrderHandler) Confirm(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	orderID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid order id")
		return
	}

	order, err := h.orderService.ConfirmOrder(c.Request.Context(), sellerID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Reject declines a pending order with a reason
func (h *OrderHandler) Reject(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	orderID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid order id")
		return
	}

	var req ordering.RejectOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	order, err := h.orderService.RejectOrder(c.Request.Context(), sellerID, getUsername(c), orderID, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// StartPreparing moves a confirmed order into preparation
func (h *OrderHandler) StartPreparing(c *gin.Context) {
	h.advance(c, h.orderService.StartPreparing)
}

// Ship marks an order as shipped
func (h *OrderHandler) Ship(c *gin.Context) {
	h.advance(c, h.orderService.ShipOrder)
}

// Deliver marks an order as delivered
func (h *OrderHandler) Deliver(c *gin.Context) {
	h.advance(c, h.orderService.DeliverOrder)
}

func (h *OrderHandler) advance(c *gin.Context, fn func(ctx context.Context, actorID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*ordering.OrderResponse, error)) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	orderID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid order id")
		return
	}

	order, err := fn(c.Request.Context(), actorID, isAdmin(c), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}
