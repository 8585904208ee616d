package ordering

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/driveshop/backend/internal/domain/catalog"
	"github.com/driveshop/backend/internal/domain/ordering"
	"github.com/driveshop/backend/internal/domain/shared"
)

type checkoutFixture struct {
	listingRepo   *MockListingRepository
	orderRepo     *MockOrderRepository
	paymentRepo   *MockPaymentRepository
	userCarts     *memoryCartStore
	checkoutStore *memoryCheckoutStore
	svc           *CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		listingRepo:   new(MockListingRepository),
		orderRepo:     new(MockOrderRepository),
		paymentRepo:   new(MockPaymentRepository),
		userCarts:     newMemoryCartStore(),
		checkoutStore: newMemoryCheckoutStore(),
	}
	uow := &stubCheckoutUnitOfWork{orders: f.orderRepo, payments: f.paymentRepo, carts: f.userCarts}
	f.svc = NewCheckoutService(f.listingRepo, uow, f.userCarts, f.checkoutStore, zap.NewNop())
	return f
}

func (f *checkoutFixture) fillCart(t *testing.T, userID uuid.UUID, listings ...*catalog.Listing) {
	t.Helper()
	cart := ordering.NewCart()
	for _, listing := range listings {
		require.NoError(t, cart.Add(ordering.CartLine{
			ListingID: listing.ID,
			Title:     listing.Title,
			UnitPrice: listing.Price,
			Quantity:  1,
		}))
	}
	require.NoError(t, f.userCarts.Save(context.Background(), userID.String(), cart))
}

func (f *checkoutFixture) completeCheckout(t *testing.T, userID uuid.UUID) {
	t.Helper()
	state := &ordering.CheckoutState{}
	require.NoError(t, state.SetCustomer(newTestCustomer()))
	require.NoError(t, state.SetShipping(ordering.ShippingStandard))
	require.NoError(t, f.checkoutStore.Save(context.Background(), userID.String(), state))
}

func TestCheckoutService_Steps(t *testing.T) {
	ctx := context.Background()
	f := newCheckoutFixture()
	userID := uuid.New()

	t.Run("shipping before customer info is rejected", func(t *testing.T) {
		_, err := f.svc.ChooseShipping(ctx, userID, ChooseShippingRequest{Method: "standard"})
		assert.ErrorIs(t, err, shared.ErrCheckoutStateMissing)
	})

	t.Run("steps accumulate into a payable state", func(t *testing.T) {
		state, err := f.svc.SubmitCustomerInfo(ctx, userID, CustomerInfoRequest{
			Name:    "Alice Martin",
			Email:   "alice@example.com",
			Address: "12 rue des Lilas",
			City:    "Lyon",
			Country: "France",
		})
		require.NoError(t, err)
		assert.False(t, state.ReadyToPay)

		state, err = f.svc.ChooseShipping(ctx, userID, ChooseShippingRequest{Method: "express"})
		require.NoError(t, err)
		assert.True(t, state.ReadyToPay)
		require.NotNil(t, state.ShippingFee)
		assert.Equal(t, "49.9", state.ShippingFee.String())
	})
}

func TestCheckoutService_Pay(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the order and captures the payment", func(t *testing.T) {
		f := newCheckoutFixture()
		userID := uuid.New()
		sellerID := uuid.New()
		listing := newTestVehicle(t, sellerID, "Peugeot 208", "9500.00", 3)

		f.fillCart(t, userID, listing)
		f.completeCheckout(t, userID)

		f.listingRepo.On("FindByIDs", ctx, []uuid.UUID{listing.ID}).Return([]*catalog.Listing{listing}, nil)
		f.listingRepo.On("DecrementStock", ctx, listing.ID, 1).Return(nil)
		f.orderRepo.On("Save", ctx, mock.AnythingOfType("*ordering.Order")).Return(nil)
		f.paymentRepo.On("Save", ctx, mock.AnythingOfType("*ordering.Payment")).Return(nil)

		resp, err := f.svc.Pay(ctx, userID)

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.Order.OrderNumber, "CMD-"))
		assert.Equal(t, "pending_confirmation", resp.Order.Status)
		assert.Equal(t, "9519.9", resp.Order.GrandTotal.String())
		assert.True(t, strings.HasPrefix(resp.Payment.Reference, "PAY-"))
		assert.Equal(t, "captured", resp.Payment.Status)
		assert.True(t, resp.Payment.Amount.Equal(resp.Order.GrandTotal))

		cart, err := f.userCarts.Get(ctx, userID.String())
		require.NoError(t, err)
		assert.True(t, cart.IsEmpty())

		state, err := f.checkoutStore.Get(ctx, userID.String())
		require.NoError(t, err)
		assert.False(t, state.ReadyToPay())
	})

	t.Run("incomplete checkout state is rejected", func(t *testing.T) {
		f := newCheckoutFixture()
		userID := uuid.New()
		f.fillCart(t, userID, newTestVehicle(t, uuid.New(), "Peugeot 208", "9500.00", 3))

		_, err := f.svc.Pay(ctx, userID)

		assert.ErrorIs(t, err, shared.ErrCheckoutStateMissing)
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		f := newCheckoutFixture()
		userID := uuid.New()
		f.completeCheckout(t, userID)

		_, err := f.svc.Pay(ctx, userID)

		assert.ErrorIs(t, err, shared.ErrEmptyCart)
	})

	t.Run("a deactivated listing aborts before stock is touched", func(t *testing.T) {
		f := newCheckoutFixture()
		userID := uuid.New()
		listing := newTestVehicle(t, uuid.New(), "Peugeot 208", "9500.00", 3)
		listing.Deactivate()

		f.fillCart(t, userID, listing)
		f.completeCheckout(t, userID)

		f.listingRepo.On("FindByIDs", ctx, []uuid.UUID{listing.ID}).Return([]*catalog.Listing{listing}, nil)

		_, err := f.svc.Pay(ctx, userID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrListingInactive.Code, domainErr.Code)
		f.listingRepo.AssertNotCalled(t, "DecrementStock")
		f.orderRepo.AssertNotCalled(t, "Save")
	})

	t.Run("a failed decrement restores stock already taken", func(t *testing.T) {
		f := newCheckoutFixture()
		userID := uuid.New()
		first := newTestVehicle(t, uuid.New(), "Peugeot 208", "9500.00", 3)
		second := newTestVehicle(t, uuid.New(), "Renault Clio", "7800.00", 3)

		f.fillCart(t, userID, first, second)
		f.completeCheckout(t, userID)

		f.listingRepo.On("FindByIDs", ctx, mock.Anything).Return([]*catalog.Listing{first, second}, nil)
		f.listingRepo.On("DecrementStock", ctx, first.ID, 1).Return(nil)
		f.listingRepo.On("DecrementStock", ctx, second.ID, 1).Return(shared.ErrInsufficientStock)
		f.listingRepo.On("RestoreStock", ctx, first.ID, 1).Return(nil)

		_, err := f.svc.Pay(ctx, userID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrInsufficientStock.Code, domainErr.Code)
		assert.Contains(t, domainErr.Message, "Renault Clio")
		f.listingRepo.AssertCalled(t, "RestoreStock", ctx, first.ID, 1)
		f.orderRepo.AssertNotCalled(t, "Save")

		cart, err := f.userCarts.Get(ctx, userID.String())
		require.NoError(t, err)
		assert.False(t, cart.IsEmpty())
	})

	t.Run("a failed order save restores stock", func(t *testing.T) {
		f := newCheckoutFixture()
		userID := uuid.New()
		listing := newTestVehicle(t, uuid.New(), "Peugeot 208", "9500.00", 3)

		f.fillCart(t, userID, listing)
		f.completeCheckout(t, userID)

		f.listingRepo.On("FindByIDs", ctx, []uuid.UUID{listing.ID}).Return([]*catalog.Listing{listing}, nil)
		f.listingRepo.On("DecrementStock", ctx, listing.ID, 1).Return(nil)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(assert.AnError)
		f.listingRepo.On("RestoreStock", ctx, listing.ID, 1).Return(nil)

		_, err := f.svc.Pay(ctx, userID)

		require.Error(t, err)
		f.listingRepo.AssertCalled(t, "RestoreStock", ctx, listing.ID, 1)
		f.paymentRepo.AssertNotCalled(t, "Save")
	})

	t.Run("a failed payment save rolls back the checkout and restores stock", func(t *testing.T) {
		f := newCheckoutFixture()
		userID := uuid.New()
		listing := newTestVehicle(t, uuid.New(), "Peugeot 208", "9500.00", 3)

		f.fillCart(t, userID, listing)
		f.completeCheckout(t, userID)

		f.listingRepo.On("FindByIDs", ctx, []uuid.UUID{listing.ID}).Return([]*catalog.Listing{listing}, nil)
		f.listingRepo.On("DecrementStock", ctx, listing.ID, 1).Return(nil)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.paymentRepo.On("Save", ctx, mock.Anything).Return(assert.AnError)
		f.listingRepo.On("RestoreStock", ctx, listing.ID, 1).Return(nil)

		_, err := f.svc.Pay(ctx, userID)

		require.Error(t, err)
		f.listingRepo.AssertCalled(t, "RestoreStock", ctx, listing.ID, 1)

		cart, err := f.userCarts.Get(ctx, userID.String())
		require.NoError(t, err)
		assert.False(t, cart.IsEmpty())

		state, err := f.checkoutStore.Get(ctx, userID.String())
		require.NoError(t, err)
		assert.True(t, state.ReadyToPay())
	})

	t.Run("order lines are priced from the live catalog, not the cart snapshot", func(t *testing.T) {
		f := newCheckoutFixture()
		userID := uuid.New()
		listing := newTestVehicle(t, uuid.New(), "Peugeot 208", "9500.00", 3)

		f.fillCart(t, userID, listing)
		f.completeCheckout(t, userID)

		// The seller raises the price after the cart was filled
		require.NoError(t, listing.Update(listing.Title, listing.Description, decimal.RequireFromString("9800.00"), listing.Stock))

		f.listingRepo.On("FindByIDs", ctx, []uuid.UUID{listing.ID}).Return([]*catalog.Listing{listing}, nil)
		f.listingRepo.On("DecrementStock", ctx, listing.ID, 1).Return(nil)
		f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)
		f.paymentRepo.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := f.svc.Pay(ctx, userID)

		require.NoError(t, err)
		assert.Equal(t, "9819.9", resp.Order.GrandTotal.String())
	})
}
