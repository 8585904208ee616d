package ordering

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/driveshop/backend/internal/domain/catalog"
	"github.com/driveshop/backend/internal/domain/ordering"
)

// MockListingRepository is a mock implementation of catalog.ListingRepository
type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Listing), args.Error(1)
}

func (m *MockListingRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*catalog.Listing, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Listing), args.Error(1)
}

func (m *MockListingRepository) FindAll(ctx context.Context, filter catalog.ListingFilter) ([]*catalog.Listing, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*catalog.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter catalog.ListingFilter) ([]*catalog.Listing, int64, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*catalog.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) FindRelated(ctx context.Context, listing *catalog.Listing, limit int) ([]*catalog.Listing, error) {
	args := m.Called(ctx, listing, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*catalog.Listing), args.Error(1)
}

func (m *MockListingRepository) Save(ctx context.Context, listing *catalog.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockListingRepository) DecrementStock(ctx context.Context, listingID uuid.UUID, quantity int) error {
	args := m.Called(ctx, listingID, quantity)
	return args.Error(0)
}

func (m *MockListingRepository) RestoreStock(ctx context.Context, listingID uuid.UUID, quantity int) error {
	args := m.Called(ctx, listingID, quantity)
	return args.Error(0)
}

// MockOrderRepository is a mock implementation of ordering.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*ordering.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter ordering.OrderFilter) ([]*ordering.Order, int64, error) {
	args := m.Called(ctx, buyerID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*ordering.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter ordering.OrderFilter) ([]*ordering.Order, int64, error) {
	args := m.Called(ctx, sellerID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*ordering.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) HasConfirmedPurchase(ctx context.Context, buyerID, listingID uuid.UUID) (bool, error) {
	args := m.Called(ctx, buyerID, listingID)
	return args.Bool(0), args.Error(1)
}

// MockPaymentRepository is a mock implementation of ordering.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *ordering.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) Update(ctx context.Context, payment *ordering.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*ordering.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByReference(ctx context.Context, reference string) (*ordering.Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Payment), args.Error(1)
}

// stubCheckoutUnitOfWork drives the order and payment mocks in place
// of a database transaction. The cart is only cleared when both saves
// succeed, mirroring the all-or-nothing commit.
type stubCheckoutUnitOfWork struct {
	orders   ordering.OrderRepository
	payments ordering.PaymentRepository
	carts    ordering.CartStore
}

func (u *stubCheckoutUnitOfWork) Commit(ctx context.Context, order *ordering.Order, payment *ordering.Payment, cartOwner string) error {
	if err := u.orders.Save(ctx, order); err != nil {
		return err
	}
	if err := u.payments.Save(ctx, payment); err != nil {
		return err
	}
	return u.carts.Clear(ctx, cartOwner)
}

// memoryCartStore is an in-memory ordering.CartStore for tests
type memoryCartStore struct {
	carts map[string]*ordering.Cart
}

func newMemoryCartStore() *memoryCartStore {
	return &memoryCartStore{carts: make(map[string]*ordering.Cart)}
}

func (s *memoryCartStore) Get(_ context.Context, owner string) (*ordering.Cart, error) {
	if cart, ok := s.carts[owner]; ok {
		return cart, nil
	}
	return ordering.NewCart(), nil
}

func (s *memoryCartStore) Save(_ context.Context, owner string, cart *ordering.Cart) error {
	s.carts[owner] = cart
	return nil
}

func (s *memoryCartStore) Clear(_ context.Context, owner string) error {
	delete(s.carts, owner)
	return nil
}

// memoryCheckoutStore is an in-memory ordering.CheckoutStore for tests
type memoryCheckoutStore struct {
	states map[string]*ordering.CheckoutState
}

func newMemoryCheckoutStore() *memoryCheckoutStore {
	return &memoryCheckoutStore{states: make(map[string]*ordering.CheckoutState)}
}

func (s *memoryCheckoutStore) Get(_ context.Context, userID string) (*ordering.CheckoutState, error) {
	if state, ok := s.states[userID]; ok {
		return state, nil
	}
	return &ordering.CheckoutState{}, nil
}

func (s *memoryCheckoutStore) Save(_ context.Context, userID string, state *ordering.CheckoutState) error {
	s.states[userID] = state
	return nil
}

func (s *memoryCheckoutStore) Clear(_ context.Context, userID string) error {
	delete(s.states, userID)
	return nil
}

func newTestVehicle(t *testing.T, sellerID uuid.UUID, title string, price string, stock int) *catalog.Listing {
	t.Helper()
	listing, err := catalog.NewListing(sellerID, title, decimal.RequireFromString(price), stock, catalog.VehicleSpec{
		Make:      "Peugeot",
		Model:     "208",
		Year:      2021,
		Mileage:   30000,
		Fuel:      catalog.FuelPetrol,
		Gearbox:   catalog.GearboxManual,
		Doors:     5,
		Seats:     5,
		Condition: catalog.ConditionUsed,
	})
	require.NoError(t, err)
	return listing
}

func newTestCustomer() ordering.CustomerInfo {
	return ordering.CustomerInfo{
		Name:    "Alice Martin",
		Email:   "alice@example.com",
		Phone:   "+33600000000",
		Address: "12 rue des Lilas",
		City:    "Lyon",
		Country: "France",
	}
}

func newPlacedOrder(t *testing.T, buyerID, sellerID, listingID uuid.UUID) *ordering.Order {
	t.Helper()
	order, err := ordering.NewOrder(buyerID, newTestCustomer(), ordering.ShippingStandard)
	require.NoError(t, err)
	require.NoError(t, order.AddItem(listingID, sellerID, "Peugeot 208", decimal.RequireFromString("9500.00"), 1))
	require.NoError(t, order.Place())
	return order
}
