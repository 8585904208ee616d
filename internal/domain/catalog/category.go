package catalog

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/driveshop/backend/internal/domain/shared"
)

// Category groups listings for browsing (e.g. "SUV", "Citadine")
type Category struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Slug string `gorm:"type:varchar(120);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category name cannot exceed 100 characters")
	}

	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       Slugify(name),
	}, nil
}

// Tag is a free-form label sellers attach to listings (e.g. "first-hand")
type Tag struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(60);not null;uniqueIndex"`
	Slug string `gorm:"type:varchar(80);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Tag) TableName() string {
	return "tags"
}

// NewTag creates a new tag
func NewTag(name string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_TAG", "Tag name cannot be empty")
	}
	if len(name) > 60 {
		return nil, shared.NewDomainError("INVALID_TAG", "Tag name cannot exceed 60 characters")
	}

	return &Tag{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       Slugify(name),
	}, nil
}

// ListingTag links listings to tags
type ListingTag struct {
	ListingID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TagID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (ListingTag) TableName() string {
	return "listing_tags"
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindAll(ctx context.Context) ([]*Category, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// TagRepository defines the interface for tag persistence
type TagRepository interface {
	FindBySlug(ctx context.Context, slug string) (*Tag, error)
	FindByListing(ctx context.Context, listingID uuid.UUID) ([]*Tag, error)
	Save(ctx context.Context, tag *Tag) error
	SetListingTags(ctx context.Context, listingID uuid.UUID, tagIDs []uuid.UUID) error
}

var slugCleanup = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify converts a display name into a URL-safe slug
func Slugify(name string) string {
	slug := slugCleanup.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-")
}
