package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/driveshop/backend/internal/domain/ordering"
	"github.com/driveshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormOrderRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// withTx returns a copy of the repository bound to the given
// transaction handle, so the order commits together with other writes
func (r *GormOrderRepository) withTx(tx *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: tx, outboxSaver: r.outboxSaver}
}

// Save persists the order aggregate and its items, writing pending
// domain events to the outbox within the same transaction. A duplicate
// order number regenerates it and retries.
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) error {
	events := order.GetDomainEvents()

	err := retryOnUniqueViolation(referenceAttempts,
		func() { order.OrderNumber = ordering.GenerateOrderNumber() },
		func() error { return r.saveAggregate(ctx, order, events) })
	if err != nil {
		return err
	}

	order.ClearDomainEvents()
	return nil
}

// saveAggregate writes the order, its items and the pending events in
// one transaction. On a bound repository this becomes a savepoint, so
// a failed attempt can be retried without poisoning the outer
// transaction.
func (r *GormOrderRepository) saveAggregate(ctx context.Context, order *ordering.Order, events []shared.DomainEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			if err := tx.Save(&order.Items[i]).Error; err != nil {
				return err
			}
		}

		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
}

// Update persists aggregate changes with optimistic locking, writing
// pending domain events to the outbox within the same transaction
func (r *GormOrderRepository) Update(ctx context.Context, order *ordering.Order) error {
	events := order.GetDomainEvents()
	currentVersion := order.Version

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order.Version++
		order.UpdatedAt = time.Now()

		result := tx.Model(&ordering.Order{}).
			Where("id = ? AND version = ?", order.ID, currentVersion).
			Updates(map[string]interface{}{
				"status":       order.Status,
				"notes":        order.Notes,
				"confirmed_at": order.ConfirmedAt,
				"shipped_at":   order.ShippedAt,
				"delivered_at": order.DeliveredAt,
				"cancelled_at": order.CancelledAt,
				"version":      order.Version,
				"updated_at":   order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION", "The order has been modified by another request")
		}

		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		order.Version = currentVersion
		return err
	}

	order.ClearDomainEvents()
	return nil
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByNumber finds an order by its order number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*ordering.Order, error) {
	var order ordering.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByBuyer returns the buyer's orders, newest first
func (r *GormOrderRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter ordering.OrderFilter) ([]*ordering.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&ordering.Order{}).Where("buyer_id = ?", buyerID)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*ordering.Order
	if err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// FindBySeller returns orders containing at least one item of the
// seller, newest first
func (r *GormOrderRepository) FindBySeller(ctx context.Context, sellerID uuid.UUID, filter ordering.OrderFilter) ([]*ordering.Order, int64, error) {
	subquery := r.db.Model(&ordering.OrderItem{}).
		Select("DISTINCT order_id").
		Where("seller_id = ?", sellerID)

	query := r.db.WithContext(ctx).Model(&ordering.Order{}).Where("id IN (?)", subquery)
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*ordering.Order
	if err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// HasConfirmedPurchase reports whether the buyer has an order at
// confirmed stage or later containing the listing
func (r *GormOrderRepository) HasConfirmedPurchase(ctx context.Context, buyerID, listingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ordering.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.buyer_id = ? AND order_items.listing_id = ?", buyerID, listingID).
		Where("orders.status IN ?", []ordering.OrderStatus{
			ordering.OrderStatusConfirmed,
			ordering.OrderStatusPreparing,
			ordering.OrderStatusShipped,
			ordering.OrderStatusDelivered,
		}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormOrderRepository implements OrderRepository
var _ ordering.OrderRepository = (*GormOrderRepository)(nil)
