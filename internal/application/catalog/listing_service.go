package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driveshop/backend/internal/domain/catalog"
	"github.com/driveshop/backend/internal/domain/identity"
	"github.com/driveshop/backend/internal/domain/shared"
)

// relatedLimit is how many related vehicles the detail page shows
const relatedLimit = 4

// ListingService handles listing management and catalog browsing
type ListingService struct {
	listingRepo    catalog.ListingRepository
	categoryRepo   catalog.CategoryRepository
	tagRepo        catalog.TagRepository
	reviewRepo     catalog.ReviewRepository
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewListingService creates a new listing service
func NewListingService(
	listingRepo catalog.ListingRepository,
	categoryRepo catalog.CategoryRepository,
	tagRepo catalog.TagRepository,
	reviewRepo catalog.ReviewRepository,
	userRepo identity.UserRepository,
	logger *zap.Logger,
) *ListingService {
	return &ListingService{
		listingRepo:  listingRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		reviewRepo:   reviewRepo,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// SetEventPublisher sets the event publisher for listing events
func (s *ListingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new listing for an approved seller
func (s *ListingService) Create(ctx context.Context, sellerID uuid.UUID, req CreateListingRequest) (*ListingResponse, error) {
	seller, err := s.userRepo.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !seller.CanManageListings() {
		return nil, shared.ErrSellerNotApproved
	}

	spec := specFromRequest(req.Make, req.Model, req.Year, req.Mileage, req.Fuel, req.Gearbox, req.Doors, req.Seats, req.Condition)

	listing, err := catalog.NewListing(sellerID, req.Title, req.Price, req.Stock, spec)
	if err != nil {
		return nil, err
	}
	listing.Description = req.Description

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
		listing.SetCategory(req.CategoryID)
	}
	if len(req.Equipment) > 0 {
		listing.SetEquipment(req.Equipment)
	}

	if err := s.listingRepo.Save(ctx, listing); err != nil {
		return nil, err
	}

	if err := s.applyTags(ctx, listing.ID, req.Tags); err != nil {
		s.logger.Error("Failed to set listing tags", zap.Error(err))
	}

	s.publishEvents(ctx, listing)

	s.logger.Info("Listing created",
		zap.String("listing_id", listing.ID.String()),
		zap.String("seller_id", sellerID.String()))

	response := ToListingResponse(listing)
	return &response, nil
}

// Update replaces a listing's sale information and vehicle attributes.
// Only the owning seller may update a listing.
func (s *ListingService) Update(ctx context.Context, sellerID, listingID uuid.UUID, req UpdateListingRequest) (*ListingResponse, error) {
	listing, err := s.ownedListing(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}

	if err := listing.Update(req.Title, req.Description, req.Price, req.Stock); err != nil {
		return nil, err
	}

	spec := specFromRequest(req.Make, req.Model, req.Year, req.Mileage, req.Fuel, req.Gearbox, req.Doors, req.Seats, req.Condition)
	if err := listing.UpdateSpec(spec); err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category not found")
		}
	}
	listing.SetCategory(req.CategoryID)
	listing.SetEquipment(req.Equipment)

	if err := s.listingRepo.Save(ctx, listing); err != nil {
		return nil, err
	}

	if err := s.applyTags(ctx, listing.ID, req.Tags); err != nil {
		s.logger.Error("Failed to set listing tags", zap.Error(err))
	}

	response := ToListingResponse(listing)
	return &response, nil
}

// SetActive pauses or resumes a listing
func (s *ListingService) SetActive(ctx context.Context, sellerID, listingID uuid.UUID, active bool) (*ListingResponse, error) {
	listing, err := s.ownedListing(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}

	if active {
		listing.Activate()
	} else {
		listing.Deactivate()
	}

	if err := s.listingRepo.Save(ctx, listing); err != nil {
		return nil, err
	}

	response := ToListingResponse(listing)
	return &response, nil
}

// Delete removes a listing. Order lines keep their snapshots, so
// deleting a sold vehicle does not rewrite order history.
func (s *ListingService) Delete(ctx context.Context, sellerID, listingID uuid.UUID) error {
	if _, err := s.ownedListing(ctx, sellerID, listingID); err != nil {
		return err
	}
	return s.listingRepo.Delete(ctx, listingID)
}

// AdminSetActive lets an admin pause or resume any listing
func (s *ListingService) AdminSetActive(ctx context.Context, listingID uuid.UUID, active bool) (*ListingResponse, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	if active {
		listing.Activate()
	} else {
		listing.Deactivate()
	}

	if err := s.listingRepo.Save(ctx, listing); err != nil {
		return nil, err
	}

	s.logger.Info("Listing moderated",
		zap.String("listing_id", listingID.String()),
		zap.Bool("active", active))

	response := ToListingResponse(listing)
	return &response, nil
}

// Get returns the detail page view of a listing: the listing itself,
// its tags, its rating summary and related vehicles.
func (s *ListingService) Get(ctx context.Context, listingID uuid.UUID) (*ListingDetailResponse, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}

	detail := &ListingDetailResponse{
		ListingResponse: ToListingResponse(listing),
		Tags:            make([]TagResponse, 0),
		Related:         make([]ListingResponse, 0),
	}

	tags, err := s.tagRepo.FindByListing(ctx, listingID)
	if err != nil {
		s.logger.Error("Failed to load listing tags", zap.Error(err))
	} else {
		detail.Tags = ToTagResponses(tags)
	}

	average, count, err := s.reviewRepo.AverageRating(ctx, listingID)
	if err != nil {
		s.logger.Error("Failed to load rating summary", zap.Error(err))
	} else {
		detail.AverageRating = average
		detail.ReviewCount = count
	}

	related, err := s.listingRepo.FindRelated(ctx, listing, relatedLimit)
	if err != nil {
		s.logger.Error("Failed to load related listings", zap.Error(err))
	} else {
		detail.Related = ToListingResponses(related)
	}

	return detail, nil
}

// Browse returns active listings matching the public catalog filter
func (s *ListingService) Browse(ctx context.Context, filter BrowseFilter) ([]ListingResponse, int64, error) {
	domainFilter := catalog.NewListingFilter()
	domainFilter.Search = filter.Search
	domainFilter.Make = filter.Make
	domainFilter.MinPrice = filter.MinPrice
	domainFilter.MaxPrice = filter.MaxPrice
	domainFilter.Sort = filter.Sort
	domainFilter.SortDir = filter.Order
	domainFilter.ActiveOnly = true
	if filter.Fuel != "" {
		fuel := catalog.FuelType(filter.Fuel)
		domainFilter.Fuel = &fuel
	}
	if filter.Gearbox != "" {
		gearbox := catalog.Gearbox(filter.Gearbox)
		domainFilter.Gearbox = &gearbox
	}
	if filter.Condition != "" {
		condition := catalog.Condition(filter.Condition)
		domainFilter.Condition = &condition
	}
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	if filter.Category != "" {
		category, err := s.categoryRepo.FindBySlug(ctx, filter.Category)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return []ListingResponse{}, 0, nil
			}
			return nil, 0, err
		}
		domainFilter.CategoryID = &category.ID
	}

	listings, total, err := s.listingRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToListingResponses(listings), total, nil
}

// SellerListings returns the seller's own listings, paused ones included
func (s *ListingService) SellerListings(ctx context.Context, sellerID uuid.UUID, filter SellerListingFilter) ([]ListingResponse, int64, error) {
	domainFilter := catalog.NewListingFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	listings, total, err := s.listingRepo.FindBySeller(ctx, sellerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToListingResponses(listings), total, nil
}

// ownedListing loads a listing and checks the seller owns it
func (s *ListingService) ownedListing(ctx context.Context, sellerID, listingID uuid.UUID) (*catalog.Listing, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsOwnedBy(sellerID) {
		return nil, shared.ErrForbidden
	}
	return listing, nil
}

// applyTags resolves tag names to tags, creating missing ones, and
// replaces the listing's tag set
func (s *ListingService) applyTags(ctx context.Context, listingID uuid.UUID, names []string) error {
	if names == nil {
		return nil
	}

	tagIDs := make([]uuid.UUID, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		slug := catalog.Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true

		tag, err := s.tagRepo.FindBySlug(ctx, slug)
		if errors.Is(err, shared.ErrNotFound) {
			tag, err = catalog.NewTag(name)
			if err != nil {
				return err
			}
			if err := s.tagRepo.Save(ctx, tag); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	return s.tagRepo.SetListingTags(ctx, listingID, tagIDs)
}

func (s *ListingService) publishEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}

	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}

	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
		return
	}
	aggregate.ClearDomainEvents()
}

func specFromRequest(make_, model string, year, mileage int, fuel, gearbox string, doors, seats int, condition string) catalog.VehicleSpec {
	if doors == 0 {
		doors = 5
	}
	if seats == 0 {
		seats = 5
	}
	return catalog.VehicleSpec{
		Make:      make_,
		Model:     model,
		Year:      year,
		Mileage:   mileage,
		Fuel:      catalog.FuelType(fuel),
		Gearbox:   catalog.Gearbox(gearbox),
		Doors:     doors,
		Seats:     seats,
		Condition: catalog.Condition(condition),
	}
}
