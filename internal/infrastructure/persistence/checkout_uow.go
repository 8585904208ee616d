package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/driveshop/backend/internal/domain/ordering"
)

// GormCheckoutUnitOfWork commits a paid checkout in one database
// transaction: the order with its outbox events, the captured payment
// and the deletion of the buyer's persisted cart rows. A failed
// payment write can never leave an order behind.
type GormCheckoutUnitOfWork struct {
	db       *gorm.DB
	orders   *GormOrderRepository
	payments *GormPaymentRepository
}

// NewGormCheckoutUnitOfWork creates a new GormCheckoutUnitOfWork
func NewGormCheckoutUnitOfWork(db *gorm.DB, orders *GormOrderRepository, payments *GormPaymentRepository) *GormCheckoutUnitOfWork {
	return &GormCheckoutUnitOfWork{db: db, orders: orders, payments: payments}
}

// Commit saves the order, the payment and clears the cart atomically
func (u *GormCheckoutUnitOfWork) Commit(ctx context.Context, order *ordering.Order, payment *ordering.Payment, cartOwner string) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.orders.withTx(tx).Save(ctx, order); err != nil {
			return err
		}
		if err := u.payments.withTx(tx).Save(ctx, payment); err != nil {
			return err
		}
		return tx.Where("owner = ?", cartOwner).Delete(&cartItemRow{}).Error
	})
}

// Ensure GormCheckoutUnitOfWork implements CheckoutUnitOfWork
var _ ordering.CheckoutUnitOfWork = (*GormCheckoutUnitOfWork)(nil)
