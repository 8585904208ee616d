package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/driveshop/backend/internal/application/catalog"
)

// ListingHandler handles public catalog browsing and seller listing
// management requests
type ListingHandler struct {
	BaseHandler
	listingService *catalog.ListingService
	imageService   *catalog.ListingImageService
}

// NewListingHandler creates a new listing handler
func NewListingHandler(listingService *catalog.ListingService, imageService *catalog.ListingImageService) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		imageService:   imageService,
	}
}

// Browse returns the public paginated catalog with filters
func (h *ListingHandler) Browse(c *gin.Context) {
	var filter catalog.BrowseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	listings, total, err := h.listingService.Browse(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, listings, total, filter.Page, filter.PageSize)
}

// Get returns the public detail view of a listing
func (h *ListingHandler) Get(c *gin.Context) {
	listingID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid listing id")
		return
	}

	listing, err := h.listingService.Get(c.Request.Context(), listingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, listing)
}

// MyListings returns the authenticated seller's own listings
func (h *ListingHandler) MyListings(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	var filter catalog.SellerListingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.ValidationError(c, err)
		return
	}

	listings, total, err := h.listingService.SellerListings(c.Request.Context(), sellerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, listings, total, filter.Page, filter.PageSize)
}

// Create creates a new vehicle listing for the authenticated seller
func (h *ListingHandler) Create(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	var req catalog.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	listing, err := h.listingService.Create(c.Request.Context(), sellerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, listing)
}

// Update replaces a listing's editable fields
func (h *ListingHandler) Update(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	listingID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid listing id")
		return
	}

	var req catalog.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	listing, err := h.listingService.Update(c.Request.Context(), sellerID, listingID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, listing)
}

// Activate puts a listing back on the public catalog
func (h *ListingHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

// Deactivate hides a listing from the public catalog
func (h *ListingHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

func (h *ListingHandler) setActive(c *gin.Context, active bool) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	listingID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid listing id")
		return
	}

	var listing *catalog.ListingResponse
	if isAdmin(c) {
		listing, err = h.listingService.AdminSetActive(c.Request.Context(), listingID, active)
	} else {
		listing, err = h.listingService.SetActive(c.Request.Context(), actorID, listingID, active)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, listing)
}

// Delete removes a listing owned by the authenticated seller
func (h *ListingHandler) Delete(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	listingID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid listing id")
		return
	}

	if err := h.listingService.Delete(c.Request.Context(), sellerID, listingID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// InitiateImageUpload returns a presigned URL the seller uploads the
// listing image to
func (h *ListingHandler) InitiateImageUpload(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	listingID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid listing id")
		return
	}

	var req catalog.InitiateImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	resp, err := h.imageService.InitiateUpload(c.Request.Context(), sellerID, listingID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ConfirmImageUploadRequest names the uploaded object to attach
type ConfirmImageUploadRequest struct {
	StorageKey string `json:"storage_key" binding:"required,max=500"`
}

// ConfirmImageUpload verifies the uploaded object and attaches it to
// the listing
func (h *ListingHandler) ConfirmImageUpload(c *gin.Context) {
	sellerID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "authentication required")
		return
	}

	listingID, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid listing id")
		return
	}

	var req ConfirmImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	listing, err := h.imageService.ConfirmUpload(c.Request.Context(), sellerID, listingID, req.StorageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, listing)
}
