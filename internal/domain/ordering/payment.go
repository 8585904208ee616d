package ordering

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/driveshop/backend/internal/domain/shared"
)

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentStatusCaptured PaymentStatus = "captured"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// PaymentMethod represents how the buyer paid
type PaymentMethod string

// PaymentMethodCard is the only method the simulated gateway supports
const PaymentMethodCard PaymentMethod = "card"

// Payment records the simulated capture taken at checkout
type Payment struct {
	shared.BaseEntity
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Reference  string          `gorm:"type:varchar(20);not null;uniqueIndex"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Method     PaymentMethod   `gorm:"type:varchar(20);not null"`
	Status     PaymentStatus   `gorm:"type:varchar(20);not null"`
	RefundedAt *time.Time
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment records a captured payment for an order
func NewPayment(orderID uuid.UUID, amount decimal.Decimal) (*Payment, error) {
	if orderID == uuid.Nil {
		return nil, shared.ErrInvalidInput
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot be negative")
	}

	return &Payment{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		Reference:  GeneratePaymentReference(),
		Amount:     amount,
		Method:     PaymentMethodCard,
		Status:     PaymentStatusCaptured,
	}, nil
}

// Refund marks the payment as refunded
func (p *Payment) Refund() error {
	if p.Status == PaymentStatusRefunded {
		return shared.NewDomainError("ALREADY_REFUNDED", "Payment is already refunded")
	}

	now := time.Now()
	p.Status = PaymentStatusRefunded
	p.RefundedAt = &now
	p.UpdatedAt = now

	return nil
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	Save(ctx context.Context, payment *Payment) error
	Update(ctx context.Context, payment *Payment) error
	FindByOrder(ctx context.Context, orderID uuid.UUID) (*Payment, error)
	FindByReference(ctx context.Context, reference string) (*Payment, error)
}

// GeneratePaymentReference builds a payment reference like PAY-3F2A9C01D4
func GeneratePaymentReference() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "PAY-" + strings.ToUpper(hex[:10])
}
