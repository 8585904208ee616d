package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/driveshop/backend/internal/application/ordering"
)

// CheckoutHandler handles the buyer's checkout steps. Checkout requires
// a logged-in buyer, guests are asked to log in first.
type CheckoutHandler struct {
	BaseHandler
	checkoutService *ordering.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *ordering.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// GetState returns the accumulated checkout state
func (h *CheckoutHandler) GetState(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	state, err := h.checkoutService.GetState(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, state)
}

// SubmitCustomerInfo records the delivery contact details
func (h *CheckoutHandler) SubmitCustomerInfo(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	var req ordering.CustomerInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	state, err := h.checkoutService.SubmitCustomerInfo(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, state)
}

// ChooseShipping records the shipping method
func (h *CheckoutHandler) ChooseShipping(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	var req ordering.ChooseShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	state, err := h.checkoutService.ChooseShipping(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, state)
}

// Pay places the order and captures payment
func (h *CheckoutHandler) Pay(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	result, err := h.checkoutService.Pay(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
