package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driveshop/backend/internal/domain/catalog"
	"github.com/driveshop/backend/internal/domain/ordering"
	"github.com/driveshop/backend/internal/domain/shared"
)

// ReviewService handles the review workflow. Reviews are gated on a
// confirmed purchase: only a buyer whose order containing the listing
// reached confirmed stage or later may review it.
type ReviewService struct {
	reviewRepo     catalog.ReviewRepository
	listingRepo    catalog.ListingRepository
	orderRepo      ordering.OrderRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(
	reviewRepo catalog.ReviewRepository,
	listingRepo catalog.ListingRepository,
	orderRepo ordering.OrderRepository,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		listingRepo: listingRepo,
		orderRepo:   orderRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for review events
func (s *ReviewService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Add creates a review for a purchased vehicle
func (s *ReviewService) Add(ctx context.Context, reviewerID, listingID uuid.UUID, req AddReviewRequest) (*ReviewResponse, error) {
	if _, err := s.listingRepo.FindByID(ctx, listingID); err != nil {
		return nil, err
	}

	purchased, err := s.orderRepo.HasConfirmedPurchase(ctx, reviewerID, listingID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, shared.ErrNotPurchased
	}

	exists, err := s.reviewRepo.Exists(ctx, listingID, reviewerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.ErrAlreadyReviewed
	}

	review, err := catalog.NewReview(listingID, reviewerID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	if err := s.reviewRepo.Save(ctx, review); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		event := catalog.NewReviewAddedEvent(review)
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish review event", zap.Error(err))
		}
	}

	s.logger.Info("Review added",
		zap.String("listing_id", listingID.String()),
		zap.String("reviewer_id", reviewerID.String()),
		zap.Int("rating", req.Rating))

	response := ToReviewResponse(review)
	return &response, nil
}

// ListForListing returns a listing's reviews with the rating summary
func (s *ReviewService) ListForListing(ctx context.Context, listingID uuid.UUID) (*ListingReviewsResponse, error) {
	reviews, err := s.reviewRepo.FindByListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	average, count, err := s.reviewRepo.AverageRating(ctx, listingID)
	if err != nil {
		return nil, err
	}

	responses := make([]ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		responses = append(responses, ToReviewResponse(review))
	}

	return &ListingReviewsResponse{
		Reviews:       responses,
		AverageRating: average,
		ReviewCount:   count,
	}, nil
}

// Delete removes a review. Admin only.
func (s *ReviewService) Delete(ctx context.Context, reviewID uuid.UUID) error {
	return s.reviewRepo.Delete(ctx, reviewID)
}
