package persistence

import (
	"context"

	"github.com/driveshop/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFavoriteRepository implements FavoriteRepository using GORM
type GormFavoriteRepository struct {
	db *gorm.DB
}

// NewGormFavoriteRepository creates a new GormFavoriteRepository
func NewGormFavoriteRepository(db *gorm.DB) *GormFavoriteRepository {
	return &GormFavoriteRepository{db: db}
}

// Add records a favorite; adding twice is a no-op
func (r *GormFavoriteRepository) Add(ctx context.Context, userID, listingID uuid.UUID) error {
	favorite := catalog.Favorite{UserID: userID, ListingID: listingID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&favorite).Error
}

// Remove deletes a favorite; removing a missing one is a no-op
func (r *GormFavoriteRepository) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Delete(&catalog.Favorite{}).Error
}

// Exists reports whether the user favorited the listing
func (r *GormFavoriteRepository) Exists(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Favorite{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByUser returns the listings a user has favorited, newest first
func (r *GormFavoriteRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*catalog.Listing, error) {
	var listings []*catalog.Listing
	if err := r.db.WithContext(ctx).
		Joins("JOIN favorites ON favorites.listing_id = listings.id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// Ensure GormFavoriteRepository implements FavoriteRepository
var _ catalog.FavoriteRepository = (*GormFavoriteRepository)(nil)
