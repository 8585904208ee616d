package ordering

import (
	"context"

	"github.com/driveshop/backend/internal/domain/shared"
)

// CheckoutState carries the buyer through the checkout steps. It lives
// outside the database (short TTL store) until payment creates the
// order.
type CheckoutState struct {
	Customer    CustomerInfo   `json:"customer"`
	HasCustomer bool           `json:"has_customer"`
	Shipping    ShippingMethod `json:"shipping"`
	HasShipping bool           `json:"has_shipping"`
}

// SetCustomer records the contact step
func (s *CheckoutState) SetCustomer(info CustomerInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}
	s.Customer = info
	s.HasCustomer = true
	return nil
}

// SetShipping records the delivery step; the contact step must be done first
func (s *CheckoutState) SetShipping(method ShippingMethod) error {
	if !s.HasCustomer {
		return shared.ErrCheckoutStateMissing
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_SHIPPING", "Unknown shipping method")
	}
	s.Shipping = method
	s.HasShipping = true
	return nil
}

// ReadyToPay returns true once both checkout steps are complete
func (s *CheckoutState) ReadyToPay() bool {
	return s.HasCustomer && s.HasShipping
}

// CheckoutUnitOfWork commits the outcome of a paid checkout
// atomically. Either the order with its outbox events, the captured
// payment and the removal of the buyer's persisted cart all land, or
// none of them do.
type CheckoutUnitOfWork interface {
	Commit(ctx context.Context, order *Order, payment *Payment, cartOwner string) error
}

// CheckoutStore persists in-progress checkout state keyed by user ID
type CheckoutStore interface {
	// Get loads the state, returning an empty state when none exists
	Get(ctx context.Context, userID string) (*CheckoutState, error)

	// Save replaces the state
	Save(ctx context.Context, userID string, state *CheckoutState) error

	// Clear removes the state
	Clear(ctx context.Context, userID string) error
}
