package persistence

import (
	"context"

	"github.com/driveshop/backend/internal/domain/catalog"
	"github.com/driveshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// Save persists a review
func (r *GormReviewRepository) Save(ctx context.Context, review *catalog.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

// FindByListing returns reviews for a listing, newest first
func (r *GormReviewRepository) FindByListing(ctx context.Context, listingID uuid.UUID) ([]*catalog.Review, error) {
	var reviews []*catalog.Review
	if err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// Exists reports whether the reviewer already reviewed the listing
func (r *GormReviewRepository) Exists(ctx context.Context, listingID, reviewerID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Review{}).
		Where("listing_id = ? AND reviewer_id = ?", listingID, reviewerID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AverageRating returns the average rating and review count for a listing
func (r *GormReviewRepository) AverageRating(ctx context.Context, listingID uuid.UUID) (float64, int64, error) {
	type ratingSummary struct {
		Average float64
		Total   int64
	}

	var summary ratingSummary
	err := r.db.WithContext(ctx).Model(&catalog.Review{}).
		Select("COALESCE(AVG(rating), 0) as average, COUNT(*) as total").
		Where("listing_id = ?", listingID).
		Scan(&summary).Error
	if err != nil {
		return 0, 0, err
	}
	return summary.Average, summary.Total, nil
}

// Delete removes a review
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormReviewRepository implements ReviewRepository
var _ catalog.ReviewRepository = (*GormReviewRepository)(nil)
