package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/driveshop/backend/internal/application/catalog"
)

// FavoriteHandler handles the authenticated buyer's favorites
type FavoriteHandler struct {
	BaseHandler
	favoriteService *catalog.FavoriteService
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favoriteService *catalog.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// List returns the user's favorited listings
func (h *FavoriteHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	listings, err := h.favoriteService.List(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, listings)
}

// Add favorites a listing
func (h *FavoriteHandler) Add(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	listingID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid listing id")
		return
	}

	if err := h.favoriteService.Add(c.Request.Context(), userID, listingID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Remove unfavorites a listing
func (h *FavoriteHandler) Remove(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	listingID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid listing id")
		return
	}

	if err := h.favoriteService.Remove(c.Request.Context(), userID, listingID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
