package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/driveshop/backend/internal/application/ordering"
	"github.com/driveshop/backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart requests for both guests and logged-in
// buyers. The cart owner is the JWT user id when authenticated and the
// session cookie id otherwise.
type CartHandler struct {
	BaseHandler
	cartService *ordering.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *ordering.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// cartOwner resolves who the cart belongs to. guest is true when the
// request carries no authenticated user.
func cartOwner(c *gin.Context) (owner string, guest bool, ok bool) {
	if userID := c.GetString(middleware.JWTUserIDKey); userID != "" {
		return userID, false, true
	}
	if sessionID := middleware.SessionIDFromContext(c); sessionID != "" {
		return sessionID, true, true
	}
	return "", false, false
}

// Get returns the current cart
func (h *CartHandler) Get(c *gin.Context) {
	owner, guest, ok := cartOwner(c)
	if !ok {
		h.Unauthorized(c, "no session")
		return
	}

	cart, err := h.cartService.Get(c.Request.Context(), owner, guest)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddItem adds a listing to the cart or increments its quantity
func (h *CartHandler) AddItem(c *gin.Context) {
	owner, guest, ok := cartOwner(c)
	if !ok {
		h.Unauthorized(c, "no session")
		return
	}

	var req ordering.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), owner, guest, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// UpdateItem sets a cart line's quantity, zero removes the line
func (h *CartHandler) UpdateItem(c *gin.Context) {
	owner, guest, ok := cartOwner(c)
	if !ok {
		h.Unauthorized(c, "no session")
		return
	}

	listingID, idOK := parseIDParam(c)
	if !idOK {
		h.BadRequest(c, "invalid listing id")
		return
	}

	var req ordering.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	cart, err := h.cartService.UpdateQuantity(c.Request.Context(), owner, guest, listingID, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveItem removes a cart line
func (h *CartHandler) RemoveItem(c *gin.Context) {
	owner, guest, ok := cartOwner(c)
	if !ok {
		h.Unauthorized(c, "no session")
		return
	}

	listingID, idOK := parseIDParam(c)
	if !idOK {
		h.BadRequest(c, "invalid listing id")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), owner, guest, listingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	owner, guest, ok := cartOwner(c)
	if !ok {
		h.Unauthorized(c, "no session")
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), owner, guest); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
