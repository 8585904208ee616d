package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/driveshop/backend/internal/application/identity"
	"github.com/driveshop/backend/internal/application/ordering"
	"github.com/driveshop/backend/internal/infrastructure/logger"
	"github.com/driveshop/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles registration, login and token lifecycle requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
	cartService *ordering.CartService
}

// NewAuthHandler creates a new auth handler. cartService may be nil in
// tests that do not exercise guest cart merging.
func NewAuthHandler(authService *identity.AuthService, cartService *ordering.CartService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cartService: cartService,
	}
}

// Register creates a new buyer or seller account
func (h *AuthHandler) Register(c *gin.Context) {
	var req identity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// Login authenticates a user and returns a token pair. A guest cart
// accumulated before login is merged into the user's cart.
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if h.cartService != nil {
		sessionID := middleware.SessionIDFromContext(c)
		if err := h.cartService.MergeGuestCart(c.Request.Context(), result.User.ID, sessionID); err != nil {
			// Losing a guest cart must not fail the login
			logger.GetGinLogger(c).Warn("guest cart merge failed",
				zap.String("user_id", result.User.ID.String()),
				zap.Error(err))
		}
	}

	h.Success(c, result)
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identity.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Logout revokes the presented access token
func (h *AuthHandler) Logout(c *gin.Context) {
	header := c.GetHeader(middleware.AuthHeaderKey)
	token := strings.TrimSpace(strings.TrimPrefix(header, middleware.BearerPrefix))
	if token == "" {
		h.Unauthorized(c, "authentication required")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
