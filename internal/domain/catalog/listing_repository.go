package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListingRepository defines the interface for listing persistence
type ListingRepository interface {
	// FindByID finds a listing by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Listing, error)

	// FindByIDs finds multiple listings by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Listing, error)

	// FindAll finds listings matching the filter with a total count
	FindAll(ctx context.Context, filter ListingFilter) ([]*Listing, int64, error)

	// FindBySeller finds all listings owned by a seller
	FindBySeller(ctx context.Context, sellerID uuid.UUID, filter ListingFilter) ([]*Listing, int64, error)

	// FindRelated finds other active listings in the same category
	FindRelated(ctx context.Context, listing *Listing, limit int) ([]*Listing, error)

	// Save creates or updates a listing
	Save(ctx context.Context, listing *Listing) error

	// Delete deletes a listing
	Delete(ctx context.Context, id uuid.UUID) error

	// DecrementStock atomically decrements stock if the listing is active
	// and has at least quantity units left. Returns shared.ErrInsufficientStock
	// when the guard fails, so concurrent checkouts can never oversell.
	DecrementStock(ctx context.Context, listingID uuid.UUID, quantity int) error

	// RestoreStock atomically adds stock back. Used to compensate a
	// checkout that decremented some lines before failing.
	RestoreStock(ctx context.Context, listingID uuid.UUID, quantity int) error
}

// ListingFilter contains filter options for browsing listings
type ListingFilter struct {
	// Text search on title, make and model
	Search string

	CategoryID *uuid.UUID
	Make       string
	Fuel       *FuelType
	Gearbox    *Gearbox
	Condition  *Condition
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal

	// Only listings that are active; browsing always sets this,
	// seller dashboards leave it unset to include paused listings
	ActiveOnly bool

	// Sort column and direction. Repositories validate both against a
	// whitelist and fall back to newest first.
	Sort    string
	SortDir string

	Page     int
	PageSize int
}

// NewListingFilter creates a filter with default pagination
func NewListingFilter() ListingFilter {
	return ListingFilter{
		Page:     1,
		PageSize: 6,
	}
}

// Offset returns the offset for pagination
func (f ListingFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the limit for pagination
func (f ListingFilter) Limit() int {
	if f.PageSize <= 0 {
		return 6
	}
	if f.PageSize > 60 {
		return 60
	}
	return f.PageSize
}
