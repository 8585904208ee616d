package ordering

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driveshop/backend/internal/domain/catalog"
	"github.com/driveshop/backend/internal/domain/ordering"
	"github.com/driveshop/backend/internal/domain/shared"
)

// CheckoutService walks the buyer through the checkout steps and turns
// the cart into an order on payment. Checkout is for authenticated
// users only; guests register first and their cart merges on login.
type CheckoutService struct {
	listingRepo   catalog.ListingRepository
	checkout      ordering.CheckoutUnitOfWork
	userCarts     ordering.CartStore
	checkoutStore ordering.CheckoutStore
	logger        *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	listingRepo catalog.ListingRepository,
	checkout ordering.CheckoutUnitOfWork,
	userCarts ordering.CartStore,
	checkoutStore ordering.CheckoutStore,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		listingRepo:   listingRepo,
		checkout:      checkout,
		userCarts:     userCarts,
		checkoutStore: checkoutStore,
		logger:        logger,
	}
}

// GetState returns the buyer's checkout progress
func (s *CheckoutService) GetState(ctx context.Context, userID uuid.UUID) (*CheckoutStateResponse, error) {
	state, err := s.checkoutStore.Get(ctx, userID.String())
	if err != nil {
		return nil, err
	}
	response := ToCheckoutStateResponse(state)
	return &response, nil
}

// SubmitCustomerInfo records the contact and delivery address step
func (s *CheckoutService) SubmitCustomerInfo(ctx context.Context, userID uuid.UUID, req CustomerInfoRequest) (*CheckoutStateResponse, error) {
	key := userID.String()
	state, err := s.checkoutStore.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := state.SetCustomer(ordering.CustomerInfo{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		Country: req.Country,
	}); err != nil {
		return nil, err
	}

	if err := s.checkoutStore.Save(ctx, key, state); err != nil {
		return nil, err
	}

	response := ToCheckoutStateResponse(state)
	return &response, nil
}

// ChooseShipping records the delivery method step
func (s *CheckoutService) ChooseShipping(ctx context.Context, userID uuid.UUID, req ChooseShippingRequest) (*CheckoutStateResponse, error) {
	key := userID.String()
	state, err := s.checkoutStore.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := state.SetShipping(ordering.ShippingMethod(req.Method)); err != nil {
		return nil, err
	}

	if err := s.checkoutStore.Save(ctx, key, state); err != nil {
		return nil, err
	}

	response := ToCheckoutStateResponse(state)
	return &response, nil
}

// Pay captures the simulated card payment and creates the order.
// Order lines are priced from the live catalog, not the cart snapshot.
// Stock is taken here, one conditional decrement per cart line; a line
// that no longer has stock aborts the checkout and already-taken stock
// is restored. The order, its payment and the cart removal then commit
// in one transaction, with the same stock compensation if the commit
// fails.
func (s *CheckoutService) Pay(ctx context.Context, userID uuid.UUID) (*PayResponse, error) {
	key := userID.String()

	state, err := s.checkoutStore.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !state.ReadyToPay() {
		return nil, shared.ErrCheckoutStateMissing
	}

	cart, err := s.userCarts.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}

	listings, err := s.lookupListings(ctx, cart)
	if err != nil {
		return nil, err
	}

	order, err := ordering.NewOrder(userID, state.Customer, state.Shipping)
	if err != nil {
		return nil, err
	}
	for _, line := range cart.Lines {
		listing := listings[line.ListingID]
		if err := order.AddItem(line.ListingID, listing.SellerID, listing.Title, listing.Price, line.Quantity); err != nil {
			return nil, err
		}
	}
	if err := order.Place(); err != nil {
		return nil, err
	}

	taken, err := s.takeStock(ctx, cart)
	if err != nil {
		return nil, err
	}

	payment, err := ordering.NewPayment(order.ID, order.GrandTotal)
	if err != nil {
		s.restoreStock(ctx, taken)
		return nil, err
	}

	if err := s.checkout.Commit(ctx, order, payment, key); err != nil {
		s.restoreStock(ctx, taken)
		s.logger.Error("Failed to commit checkout, stock restored",
			zap.String("buyer_id", key),
			zap.Error(err))
		return nil, err
	}

	if err := s.checkoutStore.Clear(ctx, key); err != nil {
		s.logger.Warn("Failed to clear checkout state after checkout",
			zap.String("user_id", key), zap.Error(err))
	}

	s.logger.Info("Order placed",
		zap.String("order_number", order.OrderNumber),
		zap.String("buyer_id", key),
		zap.String("grand_total", order.GrandTotal.String()))

	return &PayResponse{
		Order:   ToOrderResponse(order),
		Payment: ToPaymentResponse(payment),
	}, nil
}

// lookupListings loads every cart listing and verifies it is still on
// sale before any stock is touched
func (s *CheckoutService) lookupListings(ctx context.Context, cart *ordering.Cart) (map[uuid.UUID]*catalog.Listing, error) {
	ids := make([]uuid.UUID, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		ids = append(ids, line.ListingID)
	}

	listings, err := s.listingRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.Listing, len(listings))
	for _, listing := range listings {
		byID[listing.ID] = listing
	}

	for _, line := range cart.Lines {
		listing, ok := byID[line.ListingID]
		if !ok {
			return nil, shared.NewDomainError("LISTING_GONE",
				fmt.Sprintf("%q is no longer available", line.Title))
		}
		if !listing.IsAvailable() {
			return nil, shared.NewDomainError(shared.ErrListingInactive.Code,
				fmt.Sprintf("%q is no longer available", listing.Title))
		}
	}

	return byID, nil
}

// takeStock decrements stock line by line. The first line that fails
// aborts the checkout; stock already taken is restored.
func (s *CheckoutService) takeStock(ctx context.Context, cart *ordering.Cart) ([]ordering.CartLine, error) {
	taken := make([]ordering.CartLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		if err := s.listingRepo.DecrementStock(ctx, line.ListingID, line.Quantity); err != nil {
			s.restoreStock(ctx, taken)
			if errors.Is(err, shared.ErrInsufficientStock) {
				return nil, shared.NewDomainError(shared.ErrInsufficientStock.Code,
					fmt.Sprintf("Not enough stock for %q", line.Title))
			}
			return nil, err
		}
		taken = append(taken, line)
	}
	return taken, nil
}

func (s *CheckoutService) restoreStock(ctx context.Context, taken []ordering.CartLine) {
	for _, line := range taken {
		if err := s.listingRepo.RestoreStock(ctx, line.ListingID, line.Quantity); err != nil {
			s.logger.Error("Failed to restore stock after aborted checkout",
				zap.String("listing_id", line.ListingID.String()),
				zap.Int("quantity", line.Quantity),
				zap.Error(err))
		}
	}
}

// ToPaymentResponse converts a payment to its view
func ToPaymentResponse(payment *ordering.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        payment.ID,
		OrderID:   payment.OrderID,
		Reference: payment.Reference,
		Amount:    payment.Amount,
		Method:    string(payment.Method),
		Status:    string(payment.Status),
		CreatedAt: payment.CreatedAt,
	}
}
