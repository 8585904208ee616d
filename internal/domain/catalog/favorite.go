package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Favorite marks a listing a user wants to keep an eye on
type Favorite struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ListingID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (Favorite) TableName() string {
	return "favorites"
}

// FavoriteRepository defines the interface for favorite persistence
type FavoriteRepository interface {
	// Add records a favorite; adding twice is a no-op
	Add(ctx context.Context, userID, listingID uuid.UUID) error

	// Remove deletes a favorite; removing a missing one is a no-op
	Remove(ctx context.Context, userID, listingID uuid.UUID) error

	// Exists reports whether the user favorited the listing
	Exists(ctx context.Context, userID, listingID uuid.UUID) (bool, error)

	// FindByUser returns the listings a user has favorited, newest first
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Listing, error)
}
