package persistence

import (
	"context"
	"errors"

	"github.com/driveshop/backend/internal/domain/ordering"
	"github.com/driveshop/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// withTx returns a copy of the repository bound to the given
// transaction handle
func (r *GormPaymentRepository) withTx(tx *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: tx}
}

// Save persists a payment. A duplicate reference regenerates it and
// retries. Each attempt runs in its own transaction (a savepoint on a
// bound repository) so a retry starts clean.
func (r *GormPaymentRepository) Save(ctx context.Context, payment *ordering.Payment) error {
	return retryOnUniqueViolation(referenceAttempts,
		func() { payment.Reference = ordering.GeneratePaymentReference() },
		func() error {
			return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				return tx.Create(payment).Error
			})
		})
}

// Update updates an existing payment
func (r *GormPaymentRepository) Update(ctx context.Context, payment *ordering.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// FindByOrder finds the payment taken for an order
func (r *GormPaymentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) (*ordering.Payment, error) {
	var payment ordering.Payment
	if err := r.db.WithContext(ctx).First(&payment, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindByReference finds a payment by its reference
func (r *GormPaymentRepository) FindByReference(ctx context.Context, reference string) (*ordering.Payment, error) {
	var payment ordering.Payment
	if err := r.db.WithContext(ctx).First(&payment, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// Ensure GormPaymentRepository implements PaymentRepository
var _ ordering.PaymentRepository = (*GormPaymentRepository)(nil)
