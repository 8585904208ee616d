package persistence

import (
	"context"
	"time"

	"github.com/driveshop/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// cartItemRow is the storage shape of one cart line. Authenticated
// carts live in the database so they survive sessions and devices;
// the owner column holds the user ID.
type cartItemRow struct {
	Owner     string          `gorm:"type:varchar(64);primaryKey"`
	ListingID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Title     string          `gorm:"type:varchar(200);not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Quantity  int             `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (cartItemRow) TableName() string {
	return "cart_items"
}

// GormCartStore implements ordering.CartStore on the database
type GormCartStore struct {
	db *gorm.DB
}

// NewGormCartStore creates a new GormCartStore
func NewGormCartStore(db *gorm.DB) *GormCartStore {
	return &GormCartStore{db: db}
}

// Get loads the cart for the owner, returning an empty cart when none exists
func (s *GormCartStore) Get(ctx context.Context, owner string) (*ordering.Cart, error) {
	var rows []cartItemRow
	if err := s.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	cart := ordering.NewCart()
	for _, row := range rows {
		cart.Lines = append(cart.Lines, ordering.CartLine{
			ListingID: row.ListingID,
			Title:     row.Title,
			UnitPrice: row.UnitPrice,
			Quantity:  row.Quantity,
		})
	}
	return cart, nil
}

// Save replaces the owner's cart
func (s *GormCartStore) Save(ctx context.Context, owner string, cart *ordering.Cart) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner = ?", owner).Delete(&cartItemRow{}).Error; err != nil {
			return err
		}
		for _, line := range cart.Lines {
			row := cartItemRow{
				Owner:     owner,
				ListingID: line.ListingID,
				Title:     line.Title,
				UnitPrice: line.UnitPrice,
				Quantity:  line.Quantity,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear removes the owner's cart
func (s *GormCartStore) Clear(ctx context.Context, owner string) error {
	return s.db.WithContext(ctx).Where("owner = ?", owner).Delete(&cartItemRow{}).Error
}

// Ensure GormCartStore implements CartStore
var _ ordering.CartStore = (*GormCartStore)(nil)
