package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/driveshop/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeListing = "Listing"
	AggregateTypeReview  = "Review"
)

// Catalog domain event types
const (
	EventTypeListingCreated = "catalog.listing.created"
	EventTypeReviewAdded    = "catalog.review.added"
)

// ListingCreatedEvent is published when a seller publishes a new listing
type ListingCreatedEvent struct {
	shared.BaseDomainEvent
	SellerID uuid.UUID       `json:"seller_id"`
	Title    string          `json:"title"`
	Make     string          `json:"make"`
	Model    string          `json:"model"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
}

// NewListingCreatedEvent creates a new ListingCreatedEvent
func NewListingCreatedEvent(listing *Listing) *ListingCreatedEvent {
	return &ListingCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeListingCreated, AggregateTypeListing, listing.ID),
		SellerID:        listing.SellerID,
		Title:           listing.Title,
		Make:            listing.Spec.Make,
		Model:           listing.Spec.Model,
		Price:           listing.Price,
		Stock:           listing.Stock,
	}
}

// ReviewAddedEvent is published when a buyer reviews a vehicle
type ReviewAddedEvent struct {
	shared.BaseDomainEvent
	ListingID  uuid.UUID `json:"listing_id"`
	ReviewerID uuid.UUID `json:"reviewer_id"`
	Rating     int       `json:"rating"`
}

// NewReviewAddedEvent creates a new ReviewAddedEvent
func NewReviewAddedEvent(review *Review) *ReviewAddedEvent {
	return &ReviewAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReviewAdded, AggregateTypeReview, review.ID),
		ListingID:       review.ListingID,
		ReviewerID:      review.ReviewerID,
		Rating:          review.Rating,
	}
}
