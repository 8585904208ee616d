package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driveshop/backend/internal/domain/catalog"
)

// FavoriteService handles a buyer's saved vehicles
type FavoriteService struct {
	favoriteRepo catalog.FavoriteRepository
	listingRepo  catalog.ListingRepository
	logger       *zap.Logger
}

// NewFavoriteService creates a new favorite service
func NewFavoriteService(favoriteRepo catalog.FavoriteRepository, listingRepo catalog.ListingRepository, logger *zap.Logger) *FavoriteService {
	return &FavoriteService{
		favoriteRepo: favoriteRepo,
		listingRepo:  listingRepo,
		logger:       logger,
	}
}

// Add saves a listing to the user's favorites. Adding twice is a no-op.
func (s *FavoriteService) Add(ctx context.Context, userID, listingID uuid.UUID) error {
	if _, err := s.listingRepo.FindByID(ctx, listingID); err != nil {
		return err
	}
	return s.favoriteRepo.Add(ctx, userID, listingID)
}

// Remove drops a listing from the user's favorites
func (s *FavoriteService) Remove(ctx context.Context, userID, listingID uuid.UUID) error {
	return s.favoriteRepo.Remove(ctx, userID, listingID)
}

// IsFavorite reports whether the user saved the listing
func (s *FavoriteService) IsFavorite(ctx context.Context, userID, listingID uuid.UUID) (bool, error) {
	return s.favoriteRepo.Exists(ctx, userID, listingID)
}

// List returns the user's saved listings, newest first
func (s *FavoriteService) List(ctx context.Context, userID uuid.UUID) ([]ListingResponse, error) {
	listings, err := s.favoriteRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToListingResponses(listings), nil
}
