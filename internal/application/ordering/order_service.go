package ordering

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driveshop/backend/internal/domain/catalog"
	"github.com/driveshop/backend/internal/domain/ordering"
	"github.com/driveshop/backend/internal/domain/shared"
)

// OrderService handles the order workflow after checkout: buyers track
// and cancel their orders, sellers confirm, reject and advance them.
type OrderService struct {
	orderRepo   ordering.OrderRepository
	paymentRepo ordering.PaymentRepository
	listingRepo catalog.ListingRepository
	logger      *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo ordering.OrderRepository,
	paymentRepo ordering.PaymentRepository,
	listingRepo catalog.ListingRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		listingRepo: listingRepo,
		logger:      logger,
	}
}

// ListMyOrders returns the buyer's orders, newest first
func (s *OrderService) ListMyOrders(ctx context.Context, buyerID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	orders, total, err := s.orderRepo.FindByBuyer(ctx, buyerID, filter.ToDomainFilter())
	if err != nil {
		return nil, 0, err
	}
	return ToOrderResponses(orders), total, nil
}

// GetOrder returns one order. Visible to its buyer, any seller with
// items in it, and admins.
func (s *OrderService) GetOrder(ctx context.Context, orderID, actorID uuid.UUID, isAdmin bool) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != actorID && !order.InvolvesSeller(actorID) && !isAdmin {
		return nil, shared.ErrForbidden
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// CancelOrder cancels a pending order on the buyer's request and marks
// its payment refunded. Stock taken at checkout is not returned.
func (s *OrderService) CancelOrder(ctx context.Context, buyerID, orderID uuid.UUID, reason string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, shared.ErrForbidden
	}
	if !order.IsPending() {
		return nil, shared.NewDomainError("ORDER_NOT_PENDING",
			"Only orders awaiting confirmation can be cancelled")
	}

	if err := order.Cancel(reason); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.refundPayment(ctx, order)

	s.logger.Info("Order cancelled by buyer",
		zap.String("order_number", order.OrderNumber),
		zap.String("buyer_id", buyerID.String()))

	response := ToOrderResponse(order)
	return &response, nil
}

// ListOrdersWithMyItems returns orders containing the seller's
// listings, projected onto that seller's lines
func (s *OrderService) ListOrdersWithMyItems(ctx context.Context, sellerID uuid.UUID, filter OrderListFilter) ([]SellerOrderResponse, int64, error) {
	orders, total, err := s.orderRepo.FindBySeller(ctx, sellerID, filter.ToDomainFilter())
	if err != nil {
		return nil, 0, err
	}
	return ToSellerOrderResponses(orders, sellerID), total, nil
}

// ConfirmOrder accepts a pending order on the seller's behalf. Stock
// was already taken at checkout; confirmation only re-checks that the
// seller's lines are still covered and reports every line that is not.
func (s *OrderService) ConfirmOrder(ctx context.Context, sellerID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.InvolvesSeller(sellerID) {
		return nil, shared.ErrForbidden
	}

	if err := s.checkSellerStock(ctx, order, sellerID); err != nil {
		return nil, err
	}

	if err := order.Confirm(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order confirmed",
		zap.String("order_number", order.OrderNumber),
		zap.String("seller_id", sellerID.String()))

	response := ToOrderResponse(order)
	return &response, nil
}

// RejectOrder cancels a pending order on the seller's refusal and
// marks its payment refunded
func (s *OrderService) RejectOrder(ctx context.Context, sellerID uuid.UUID, sellerName string, orderID uuid.UUID, reason string) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.InvolvesSeller(sellerID) {
		return nil, shared.ErrForbidden
	}

	if err := order.RejectBySeller(sellerName, reason); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.refundPayment(ctx, order)

	s.logger.Info("Order rejected by seller",
		zap.String("order_number", order.OrderNumber),
		zap.String("seller_id", sellerID.String()))

	response := ToOrderResponse(order)
	return &response, nil
}

// StartPreparing moves a confirmed order into preparation
func (s *OrderService) StartPreparing(ctx context.Context, actorID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*OrderResponse, error) {
	return s.advance(ctx, actorID, isAdmin, orderID, (*ordering.Order).StartPreparing)
}

// ShipOrder marks the order shipped
func (s *OrderService) ShipOrder(ctx context.Context, actorID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*OrderResponse, error) {
	return s.advance(ctx, actorID, isAdmin, orderID, (*ordering.Order).Ship)
}

// DeliverOrder marks the order delivered
func (s *OrderService) DeliverOrder(ctx context.Context, actorID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*OrderResponse, error) {
	return s.advance(ctx, actorID, isAdmin, orderID, (*ordering.Order).Deliver)
}

// advance applies one status transition on behalf of an involved
// seller or an admin
func (s *OrderService) advance(ctx context.Context, actorID uuid.UUID, isAdmin bool, orderID uuid.UUID, transition func(*ordering.Order) error) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !order.InvolvesSeller(actorID) {
		return nil, shared.ErrForbidden
	}

	if err := transition(order); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// checkSellerStock verifies the seller's lines are still covered by
// current stock, naming every listing that fell short
func (s *OrderService) checkSellerStock(ctx context.Context, order *ordering.Order, sellerID uuid.UUID) error {
	items := order.ItemsOfSeller(sellerID)
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ListingID)
	}

	listings, err := s.listingRepo.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	stockByID := make(map[uuid.UUID]int, len(listings))
	for _, listing := range listings {
		stockByID[listing.ID] = listing.Stock
	}

	var short []string
	for _, item := range items {
		if stock, ok := stockByID[item.ListingID]; !ok || stock < item.Quantity {
			short = append(short, item.Title)
		}
	}

	if len(short) > 0 {
		return shared.NewDomainError(shared.ErrInsufficientStock.Code,
			fmt.Sprintf("Insufficient stock for: %s", strings.Join(short, ", ")))
	}
	return nil
}

// refundPayment marks the order's payment refunded. A missing or
// already refunded payment only logs.
func (s *OrderService) refundPayment(ctx context.Context, order *ordering.Order) {
	payment, err := s.paymentRepo.FindByOrder(ctx, order.ID)
	if err != nil {
		s.logger.Warn("No payment found for cancelled order",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return
	}
	if err := payment.Refund(); err != nil {
		s.logger.Warn("Payment could not be refunded",
			zap.String("reference", payment.Reference),
			zap.Error(err))
		return
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		s.logger.Error("Failed to persist payment refund",
			zap.String("reference", payment.Reference),
			zap.Error(err))
	}
}
