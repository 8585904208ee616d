package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/driveshop/backend/internal/domain/shared"
)

// Review is a buyer's rating of a purchased vehicle.
// One review per buyer and listing; eligibility is enforced by the
// application service against the buyer's confirmed orders.
type Review struct {
	shared.BaseEntity
	ListingID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_listing_reviewer,priority:1"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_listing_reviewer,priority:2"`
	Rating     int       `gorm:"not null"`
	Comment    string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Review) TableName() string {
	return "reviews"
}

// NewReview creates a new review with a rating between 1 and 5
func NewReview(listingID, reviewerID uuid.UUID, rating int, comment string) (*Review, error) {
	if listingID == uuid.Nil || reviewerID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}
	if rating < 1 || rating > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	if len(comment) > 2000 {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 2000 characters")
	}

	return &Review{
		BaseEntity: shared.NewBaseEntity(),
		ListingID:  listingID,
		ReviewerID: reviewerID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
	}, nil
}

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// Save persists a review
	Save(ctx context.Context, review *Review) error

	// FindByListing returns reviews for a listing, newest first
	FindByListing(ctx context.Context, listingID uuid.UUID) ([]*Review, error)

	// Exists reports whether the reviewer already reviewed the listing
	Exists(ctx context.Context, listingID, reviewerID uuid.UUID) (bool, error)

	// AverageRating returns the average rating and review count for a listing
	AverageRating(ctx context.Context, listingID uuid.UUID) (float64, int64, error)

	// Delete removes a review
	Delete(ctx context.Context, id uuid.UUID) error
}
