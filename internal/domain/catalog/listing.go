package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/driveshop/backend/internal/domain/shared"
)

// FuelType represents the fuel type of a vehicle
type FuelType string

const (
	FuelPetrol   FuelType = "petrol"
	FuelDiesel   FuelType = "diesel"
	FuelElectric FuelType = "electric"
	FuelHybrid   FuelType = "hybrid"
)

// IsValid checks if the fuel type is a known value
func (f FuelType) IsValid() bool {
	switch f {
	case FuelPetrol, FuelDiesel, FuelElectric, FuelHybrid:
		return true
	}
	return false
}

// Gearbox represents the transmission type of a vehicle
type Gearbox string

const (
	GearboxManual    Gearbox = "manual"
	GearboxAutomatic Gearbox = "automatic"
)

// IsValid checks if the gearbox is a known value
func (g Gearbox) IsValid() bool {
	return g == GearboxManual || g == GearboxAutomatic
}

// Condition represents the sale condition of a vehicle
type Condition string

const (
	ConditionNew         Condition = "new"
	ConditionUsed        Condition = "used"
	ConditionRefurbished Condition = "refurbished"
)

// IsValid checks if the condition is a known value
func (c Condition) IsValid() bool {
	switch c {
	case ConditionNew, ConditionUsed, ConditionRefurbished:
		return true
	}
	return false
}

// VehicleSpec holds the vehicle attributes of a listing
type VehicleSpec struct {
	Make      string    `gorm:"type:varchar(100);not null;index" json:"make"`
	Model     string    `gorm:"type:varchar(100);not null" json:"model"`
	Year      int       `gorm:"not null" json:"year"`
	Mileage   int       `gorm:"not null;default:0" json:"mileage"`
	Fuel      FuelType  `gorm:"type:varchar(20);not null;index" json:"fuel"`
	Gearbox   Gearbox   `gorm:"type:varchar(20);not null" json:"gearbox"`
	Doors     int       `gorm:"not null;default:5" json:"doors"`
	Seats     int       `gorm:"not null;default:5" json:"seats"`
	Condition Condition `gorm:"type:varchar(20);not null;index" json:"condition"`
}

// Listing represents a vehicle offered for sale.
// It is the aggregate root for catalog operations.
type Listing struct {
	shared.BaseAggregateRoot
	SellerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title       string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Stock       int             `gorm:"not null;default:0"`
	Active      bool            `gorm:"not null;default:true;index"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index"`
	Spec        VehicleSpec     `gorm:"embedded"`
	Equipment   []string        `gorm:"type:jsonb;serializer:json"`
	ImageURL    string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Listing) TableName() string {
	return "listings"
}

// NewListing creates a new vehicle listing
func NewListing(sellerID uuid.UUID, title string, price decimal.Decimal, stock int, spec VehicleSpec) (*Listing, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Seller ID is required")
	}
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	if err := spec.validate(); err != nil {
		return nil, err
	}

	listing := &Listing{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SellerID:          sellerID,
		Title:             strings.TrimSpace(title),
		Price:             price,
		Stock:             stock,
		Active:            true,
		Spec:              spec,
		Equipment:         make([]string, 0),
	}

	listing.AddDomainEvent(NewListingCreatedEvent(listing))

	return listing, nil
}

// Update updates the listing's sale information
func (l *Listing) Update(title, description string, price decimal.Decimal, stock int) error {
	if err := validateTitle(title); err != nil {
		return err
	}
	if err := validatePrice(price); err != nil {
		return err
	}
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	l.Title = strings.TrimSpace(title)
	l.Description = description
	l.Price = price
	l.Stock = stock
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// UpdateSpec replaces the vehicle attributes
func (l *Listing) UpdateSpec(spec VehicleSpec) error {
	if err := spec.validate(); err != nil {
		return err
	}

	l.Spec = spec
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// SetEquipment replaces the equipment list
func (l *Listing) SetEquipment(equipment []string) {
	l.Equipment = equipment
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// SetCategory assigns the listing to a category
func (l *Listing) SetCategory(categoryID *uuid.UUID) {
	l.CategoryID = categoryID
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// SetImage sets the listing's image URL
func (l *Listing) SetImage(url string) error {
	if url != "" && len(url) > 500 {
		return shared.NewDomainError("INVALID_IMAGE_URL", "Image URL cannot exceed 500 characters")
	}

	l.ImageURL = url
	l.UpdatedAt = time.Now()
	l.IncrementVersion()

	return nil
}

// Deactivate removes the listing from sale without deleting it
func (l *Listing) Deactivate() {
	l.Active = false
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// Activate puts the listing back on sale
func (l *Listing) Activate() {
	l.Active = true
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
}

// IsOwnedBy returns true if the listing belongs to the given seller
func (l *Listing) IsOwnedBy(userID uuid.UUID) bool {
	return l.SellerID == userID
}

// IsAvailable returns true if the listing can be added to a cart
func (l *Listing) IsAvailable() bool {
	return l.Active && l.Stock > 0
}

// HasStockFor returns true if the current stock covers the quantity
func (l *Listing) HasStockFor(quantity int) bool {
	return quantity > 0 && l.Stock >= quantity
}

func (s VehicleSpec) validate() error {
	if strings.TrimSpace(s.Make) == "" {
		return shared.NewDomainError("INVALID_MAKE", "Vehicle make is required")
	}
	if strings.TrimSpace(s.Model) == "" {
		return shared.NewDomainError("INVALID_MODEL", "Vehicle model is required")
	}
	if s.Year < 1900 || s.Year > time.Now().Year()+1 {
		return shared.NewDomainError("INVALID_YEAR", "Vehicle year is out of range")
	}
	if s.Mileage < 0 {
		return shared.NewDomainError("INVALID_MILEAGE", "Mileage cannot be negative")
	}
	if !s.Fuel.IsValid() {
		return shared.NewDomainError("INVALID_FUEL", "Unknown fuel type")
	}
	if !s.Gearbox.IsValid() {
		return shared.NewDomainError("INVALID_GEARBOX", "Unknown gearbox type")
	}
	if !s.Condition.IsValid() {
		return shared.NewDomainError("INVALID_CONDITION", "Unknown vehicle condition")
	}
	if s.Doors < 2 || s.Doors > 6 {
		return shared.NewDomainError("INVALID_DOORS", "Door count is out of range")
	}
	if s.Seats < 1 || s.Seats > 9 {
		return shared.NewDomainError("INVALID_SEATS", "Seat count is out of range")
	}
	return nil
}

func validateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() || price.IsZero() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be positive")
	}
	return nil
}
