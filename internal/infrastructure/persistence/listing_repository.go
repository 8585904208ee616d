package persistence

import (
	"context"
	"errors"

	"github.com/driveshop/backend/internal/domain/catalog"
	"github.com/driveshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormListingRepository implements ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByID finds a listing by its ID
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Listing, error) {
	var listing catalog.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &listing, nil
}

// FindByIDs finds multiple listings by their IDs
func (r *GormListingRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Listing, error) {
	if len(ids) == 0 {
		return []*catalog.Listing{}, nil
	}
	var listings []*catalog.Listing
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// FindAll finds listings matching the filter with a total count
func (r *GormListingRepository) FindAll(ctx context.Context, filter catalog.ListingFilter) ([]*catalog.Listing, int64, error) {
	return r.findFiltered(ctx, r.db.WithContext(ctx).Model(&catalog.Listing{}), filter)
}

// FindBySeller finds all listings owned by a seller
func (r *GormListingRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter catalog.ListingFilter) ([]*catalog.Listing, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Listing{}).Where("seller_id = ?", sellerID)
	return r.findFiltered(ctx, query, filter)
}

// FindRelated finds other active listings in the same category
func (r *GormListingRepository) FindRelated(ctx context.Context, listing *catalog.Listing, limit int) ([]*catalog.Listing, error) {
	if listing.CategoryID == nil || limit <= 0 {
		return []*catalog.Listing{}, nil
	}
	var listings []*catalog.Listing
	if err := r.db.WithContext(ctx).
		Where("category_id = ? AND id <> ? AND active = ? AND stock > 0", *listing.CategoryID, listing.ID, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// Save creates or updates a listing
func (r *GormListingRepository) Save(ctx context.Context, listing *catalog.Listing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

// Delete deletes a listing
func (r *GormListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&catalog.Listing{}, "id = ?", id).Error
}

// DecrementStock atomically decrements stock when the listing is active
// and has enough units left. The guard lives in the WHERE clause so
// concurrent checkouts can never push stock below zero.
func (r *GormListingRepository) DecrementStock(ctx context.Context, listingID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return shared.ErrInvalidInput
	}

	result := r.db.WithContext(ctx).Model(&catalog.Listing{}).
		Where("id = ? AND active = ? AND stock >= ?", listingID, true, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrInsufficientStock
	}
	return nil
}

// RestoreStock adds stock back after a failed checkout
func (r *GormListingRepository) RestoreStock(ctx context.Context, listingID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return shared.ErrInvalidInput
	}

	result := r.db.WithContext(ctx).Model(&catalog.Listing{}).
		Where("id = ?", listingID).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormListingRepository) findFiltered(ctx context.Context, query *gorm.DB, filter catalog.ListingFilter) ([]*catalog.Listing, int64, error) {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR make ILIKE ? OR model ILIKE ?", pattern, pattern, pattern)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Make != "" {
		query = query.Where("make = ?", filter.Make)
	}
	if filter.Fuel != nil {
		query = query.Where("fuel = ?", *filter.Fuel)
	}
	if filter.Gearbox != nil {
		query = query.Where("gearbox = ?", *filter.Gearbox)
	}
	if filter.Condition != nil {
		query = query.Where("condition = ?", *filter.Condition)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.ActiveOnly {
		query = query.Where("active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortField := ValidateSortField(filter.Sort, ListingSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.SortDir)

	var listings []*catalog.Listing
	if err := query.
		Order(sortField + " " + sortOrder).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&listings).Error; err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

// Ensure GormListingRepository implements ListingRepository
var _ catalog.ListingRepository = (*GormListingRepository)(nil)
