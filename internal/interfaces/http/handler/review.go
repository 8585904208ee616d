package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/driveshop/backend/internal/application/catalog"
)

// ReviewHandler handles listing review requests
type ReviewHandler struct {
	BaseHandler
	reviewService *catalog.ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *catalog.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// ListForListing returns a listing's reviews with the aggregate rating
func (h *ReviewHandler) ListForListing(c *gin.Context) {
	listingID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid listing id")
		return
	}

	reviews, err := h.reviewService.ListForListing(c.Request.Context(), listingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reviews)
}

// Add creates a review on a listing the buyer purchased
func (h *ReviewHandler) Add(c *gin.Context) {
	reviewerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	listingID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid listing id")
		return
	}

	var req catalog.AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	review, err := h.reviewService.Add(c.Request.Context(), reviewerID, listingID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, review)
}

// Delete removes a review, admin only
func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid review id")
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), reviewID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
