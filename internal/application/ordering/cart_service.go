package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/driveshop/backend/internal/domain/catalog"
	"github.com/driveshop/backend/internal/domain/ordering"
	"github.com/driveshop/backend/internal/domain/shared"
)

// CartService manages shopping carts. The owner key is a user ID for
// authenticated carts and a session ID for guest carts; the HTTP layer
// picks the store accordingly.
type CartService struct {
	listingRepo catalog.ListingRepository
	userCarts   ordering.CartStore
	guestCarts  ordering.CartStore
	logger      *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(
	listingRepo catalog.ListingRepository,
	userCarts ordering.CartStore,
	guestCarts ordering.CartStore,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		listingRepo: listingRepo,
		userCarts:   userCarts,
		guestCarts:  guestCarts,
		logger:      logger,
	}
}

func (s *CartService) store(guest bool) ordering.CartStore {
	if guest {
		return s.guestCarts
	}
	return s.userCarts
}

// Get returns the cart with recomputed totals. The persisted cart of
// an authenticated user is repriced from the live catalog so its total
// follows seller price changes; guest session carts keep their
// add-time snapshots.
func (s *CartService) Get(ctx context.Context, owner string, guest bool) (*CartResponse, error) {
	cart, err := s.store(guest).Get(ctx, owner)
	if err != nil {
		return nil, err
	}
	if !guest {
		if err := s.reprice(ctx, cart); err != nil {
			return nil, err
		}
	}
	response := ToCartResponse(cart)
	return &response, nil
}

// reprice refreshes cart line prices from the catalog. A line whose
// listing is gone keeps its last known price; removal stays a user
// action.
func (s *CartService) reprice(ctx context.Context, cart *ordering.Cart) error {
	if cart.IsEmpty() {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		ids = append(ids, line.ListingID)
	}

	listings, err := s.listingRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}

	prices := make(map[uuid.UUID]decimal.Decimal, len(listings))
	for _, listing := range listings {
		prices[listing.ID] = listing.Price
	}
	cart.Reprice(prices)
	return nil
}

// AddItem adds a listing to the cart with a price and title snapshot.
// Adding the same listing again increments the quantity.
func (s *CartService) AddItem(ctx context.Context, owner string, guest bool, req AddCartItemRequest) (*CartResponse, error) {
	listing, err := s.listingRepo.FindByID(ctx, req.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsAvailable() {
		return nil, shared.ErrListingInactive
	}
	if !listing.HasStockFor(req.Quantity) {
		return nil, shared.ErrInsufficientStock
	}

	store := s.store(guest)
	cart, err := store.Get(ctx, owner)
	if err != nil {
		return nil, err
	}

	if err := cart.Add(ordering.CartLine{
		ListingID: listing.ID,
		Title:     listing.Title,
		UnitPrice: listing.Price,
		Quantity:  req.Quantity,
	}); err != nil {
		return nil, err
	}

	if err := store.Save(ctx, owner, cart); err != nil {
		return nil, err
	}

	s.logger.Debug("Cart item added",
		zap.String("owner", owner),
		zap.String("listing_id", listing.ID.String()),
		zap.Int("quantity", req.Quantity))

	response := ToCartResponse(cart)
	return &response, nil
}

// UpdateQuantity changes a cart line quantity; zero removes the line
func (s *CartService) UpdateQuantity(ctx context.Context, owner string, guest bool, listingID uuid.UUID, quantity int) (*CartResponse, error) {
	store := s.store(guest)
	cart, err := store.Get(ctx, owner)
	if err != nil {
		return nil, err
	}

	if err := cart.SetQuantity(listingID, quantity); err != nil {
		return nil, err
	}

	if err := store.Save(ctx, owner, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// RemoveItem deletes a cart line
func (s *CartService) RemoveItem(ctx context.Context, owner string, guest bool, listingID uuid.UUID) (*CartResponse, error) {
	store := s.store(guest)
	cart, err := store.Get(ctx, owner)
	if err != nil {
		return nil, err
	}

	cart.Remove(listingID)

	if err := store.Save(ctx, owner, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, owner string, guest bool) error {
	return s.store(guest).Clear(ctx, owner)
}

// MergeGuestCart folds the guest session cart into the user's cart
// after login, summing quantities of shared listings, then deletes the
// session cart
func (s *CartService) MergeGuestCart(ctx context.Context, userID uuid.UUID, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	guestCart, err := s.guestCarts.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if guestCart.IsEmpty() {
		return s.guestCarts.Clear(ctx, sessionID)
	}

	owner := userID.String()
	userCart, err := s.userCarts.Get(ctx, owner)
	if err != nil {
		return err
	}

	userCart.Merge(guestCart)

	if err := s.userCarts.Save(ctx, owner, userCart); err != nil {
		return err
	}

	if err := s.guestCarts.Clear(ctx, sessionID); err != nil {
		s.logger.Warn("Failed to clear guest cart after merge",
			zap.String("session_id", sessionID),
			zap.Error(err))
	}

	s.logger.Info("Guest cart merged",
		zap.String("user_id", owner),
		zap.Int("merged_lines", len(guestCart.Lines)))

	return nil
}
