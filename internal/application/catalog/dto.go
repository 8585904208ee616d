package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/driveshop/backend/internal/domain/catalog"
)

// CreateListingRequest represents a request to create a vehicle listing
type CreateListingRequest struct {
	Title       string          `json:"title" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=5000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock" binding:"min=0"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Make        string          `json:"make" binding:"required,min=1,max=100"`
	Model       string          `json:"model" binding:"required,min=1,max=100"`
	Year        int             `json:"year" binding:"required"`
	Mileage     int             `json:"mileage" binding:"min=0"`
	Fuel        string          `json:"fuel" binding:"required,fuel"`
	Gearbox     string          `json:"gearbox" binding:"required,gearbox"`
	Doors       int             `json:"doors" binding:"omitempty,min=2,max=6"`
	Seats       int             `json:"seats" binding:"omitempty,min=1,max=9"`
	Condition   string          `json:"condition" binding:"required,vehiclecondition"`
	Equipment   []string        `json:"equipment"`
	Tags        []string        `json:"tags"`
}

// UpdateListingRequest represents a request to update a listing
type UpdateListingRequest struct {
	Title       string          `json:"title" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=5000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock" binding:"min=0"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Make        string          `json:"make" binding:"required,min=1,max=100"`
	Model       string          `json:"model" binding:"required,min=1,max=100"`
	Year        int             `json:"year" binding:"required"`
	Mileage     int             `json:"mileage" binding:"min=0"`
	Fuel        string          `json:"fuel" binding:"required,fuel"`
	Gearbox     string          `json:"gearbox" binding:"required,gearbox"`
	Doors       int             `json:"doors" binding:"omitempty,min=2,max=6"`
	Seats       int             `json:"seats" binding:"omitempty,min=1,max=9"`
	Condition   string          `json:"condition" binding:"required,vehiclecondition"`
	Equipment   []string        `json:"equipment"`
	Tags        []string        `json:"tags"`
}

// BrowseFilter represents the public catalog browse query
type BrowseFilter struct {
	Search    string           `form:"q"`
	Category  string           `form:"category"`
	Make      string           `form:"make"`
	Fuel      string           `form:"fuel" binding:"omitempty,fuel"`
	Gearbox   string           `form:"gearbox" binding:"omitempty,gearbox"`
	Condition string           `form:"condition" binding:"omitempty,vehiclecondition"`
	MinPrice  *decimal.Decimal `form:"min_price"`
	MaxPrice  *decimal.Decimal `form:"max_price"`
	Sort      string           `form:"sort" binding:"omitempty,oneof=created_at price year mileage"`
	Order     string           `form:"order" binding:"omitempty,oneof=asc desc"`
	Page      int              `form:"page" binding:"omitempty,min=1"`
	PageSize  int              `form:"page_size" binding:"omitempty,min=1,max=60"`
}

// SellerListingFilter represents the seller dashboard listing query
type SellerListingFilter struct {
	Search   string `form:"q"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=60"`
}

// VehicleSpecResponse is the vehicle attribute block of a listing
type VehicleSpecResponse struct {
	Make      string `json:"make"`
	Model     string `json:"model"`
	Year      int    `json:"year"`
	Mileage   int    `json:"mileage"`
	Fuel      string `json:"fuel"`
	Gearbox   string `json:"gearbox"`
	Doors     int    `json:"doors"`
	Seats     int    `json:"seats"`
	Condition string `json:"condition"`
}

// ListingResponse is the public view of a listing
type ListingResponse struct {
	ID          uuid.UUID           `json:"id"`
	SellerID    uuid.UUID           `json:"seller_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Price       decimal.Decimal     `json:"price"`
	Stock       int                 `json:"stock"`
	Active      bool                `json:"active"`
	CategoryID  *uuid.UUID          `json:"category_id,omitempty"`
	Spec        VehicleSpecResponse `json:"spec"`
	Equipment   []string            `json:"equipment"`
	ImageURL    string              `json:"image_url"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ListingDetailResponse enriches a listing with tags, rating and
// related vehicles for the detail page
type ListingDetailResponse struct {
	ListingResponse
	Tags          []TagResponse     `json:"tags"`
	AverageRating float64           `json:"average_rating"`
	ReviewCount   int64             `json:"review_count"`
	Related       []ListingResponse `json:"related"`
}

// CategoryResponse is the public view of a category
type CategoryResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// TagResponse is the public view of a tag
type TagResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// AddReviewRequest represents a request to review a purchased vehicle
type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// ReviewResponse is the public view of a review
type ReviewResponse struct {
	ID         uuid.UUID `json:"id"`
	ListingID  uuid.UUID `json:"listing_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListingReviewsResponse bundles reviews with their aggregate rating
type ListingReviewsResponse struct {
	Reviews       []ReviewResponse `json:"reviews"`
	AverageRating float64          `json:"average_rating"`
	ReviewCount   int64            `json:"review_count"`
}

// InitiateImageUploadRequest asks for a presigned upload slot
type InitiateImageUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,min=1,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// InitiateImageUploadResponse carries the presigned upload URL
type InitiateImageUploadResponse struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ToListingResponse converts a listing aggregate to its public view
func ToListingResponse(listing *catalog.Listing) ListingResponse {
	equipment := listing.Equipment
	if equipment == nil {
		equipment = make([]string, 0)
	}
	return ListingResponse{
		ID:          listing.ID,
		SellerID:    listing.SellerID,
		Title:       listing.Title,
		Description: listing.Description,
		Price:       listing.Price,
		Stock:       listing.Stock,
		Active:      listing.Active,
		CategoryID:  listing.CategoryID,
		Spec: VehicleSpecResponse{
			Make:      listing.Spec.Make,
			Model:     listing.Spec.Model,
			Year:      listing.Spec.Year,
			Mileage:   listing.Spec.Mileage,
			Fuel:      string(listing.Spec.Fuel),
			Gearbox:   string(listing.Spec.Gearbox),
			Doors:     listing.Spec.Doors,
			Seats:     listing.Spec.Seats,
			Condition: string(listing.Spec.Condition),
		},
		Equipment: equipment,
		ImageURL:  listing.ImageURL,
		CreatedAt: listing.CreatedAt,
		UpdatedAt: listing.UpdatedAt,
	}
}

// ToListingResponses converts a slice of listings
func ToListingResponses(listings []*catalog.Listing) []ListingResponse {
	responses := make([]ListingResponse, 0, len(listings))
	for _, listing := range listings {
		responses = append(responses, ToListingResponse(listing))
	}
	return responses
}

// ToCategoryResponse converts a category
func ToCategoryResponse(category *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:   category.ID,
		Name: category.Name,
		Slug: category.Slug,
	}
}

// ToTagResponses converts a slice of tags
func ToTagResponses(tags []*catalog.Tag) []TagResponse {
	responses := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		responses = append(responses, TagResponse{ID: tag.ID, Name: tag.Name, Slug: tag.Slug})
	}
	return responses
}

// ToReviewResponse converts a review
func ToReviewResponse(review *catalog.Review) ReviewResponse {
	return ReviewResponse{
		ID:         review.ID,
		ListingID:  review.ListingID,
		ReviewerID: review.ReviewerID,
		Rating:     review.Rating,
		Comment:    review.Comment,
		CreatedAt:  review.CreatedAt,
	}
}
