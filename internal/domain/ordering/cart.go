package ordering

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/driveshop/backend/internal/domain/shared"
)

// CartLine is one listing in a cart. UnitPrice is the listing price
// last seen: guest session carts keep the add-time snapshot, the
// persisted cart of an authenticated user is repriced from the live
// catalog on read.
type CartLine struct {
	ListingID uuid.UUID       `json:"listing_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal returns the line total
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds shopping cart lines. The same cart semantics back both
// the persisted cart of an authenticated user and the session cart of
// a guest; only the store differs.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// NewCart creates an empty cart
func NewCart() *Cart {
	return &Cart{Lines: make([]CartLine, 0)}
}

// Add adds a line, incrementing the quantity if the listing is already
// in the cart
func (c *Cart) Add(line CartLine) error {
	if line.ListingID == uuid.Nil {
		return shared.ErrInvalidInput
	}
	if line.Quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	for i := range c.Lines {
		if c.Lines[i].ListingID == line.ListingID {
			c.Lines[i].Quantity += line.Quantity
			return nil
		}
	}

	c.Lines = append(c.Lines, line)
	return nil
}

// SetQuantity updates a line's quantity; zero removes the line
func (c *Cart) SetQuantity(listingID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if quantity == 0 {
		c.Remove(listingID)
		return nil
	}

	for i := range c.Lines {
		if c.Lines[i].ListingID == listingID {
			c.Lines[i].Quantity = quantity
			return nil
		}
	}

	return shared.ErrNotFound
}

// Remove deletes a line from the cart
func (c *Cart) Remove(listingID uuid.UUID) {
	lines := c.Lines[:0]
	for _, line := range c.Lines {
		if line.ListingID != listingID {
			lines = append(lines, line)
		}
	}
	c.Lines = lines
}

// Merge folds another cart into this one, summing quantities of shared
// listings. Used when a guest logs in and their session cart joins the
// persisted one.
func (c *Cart) Merge(other *Cart) {
	if other == nil {
		return
	}
	for _, line := range other.Lines {
		_ = c.Add(line)
	}
}

// Reprice replaces line unit prices with the given live catalog
// prices. A line whose listing has no entry keeps its last price.
func (c *Cart) Reprice(prices map[uuid.UUID]decimal.Decimal) {
	for i := range c.Lines {
		if price, ok := prices[c.Lines[i].ListingID]; ok {
			c.Lines[i].UnitPrice = price
		}
	}
}

// Total returns the sum of all line subtotals
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// Count returns the total number of units in the cart
func (c *Cart) Count() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// CartStore persists carts keyed by their owner: a user ID for
// authenticated carts, a session ID for guest carts
type CartStore interface {
	// Get loads the cart for the owner, returning an empty cart when
	// none exists
	Get(ctx context.Context, owner string) (*Cart, error)

	// Save replaces the owner's cart
	Save(ctx context.Context, owner string, cart *Cart) error

	// Clear removes the owner's cart
	Clear(ctx context.Context, owner string) error
}
