package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/driveshop/backend/internal/domain/catalog"
	"github.com/driveshop/backend/internal/domain/shared"
)

// ObjectStorageService defines the interface for object storage operations.
// It is implemented by the infrastructure layer (S3, MinIO, stub).
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file.
	// Returns the upload URL and expiration time
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file.
	// Returns the download URL and expiration time
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// ImageServiceConfig holds configuration for the listing image service
type ImageServiceConfig struct {
	// UploadURLExpiry is how long presigned upload URLs stay valid
	UploadURLExpiry time.Duration

	// PublicBaseURL is the base URL listing images are served from
	PublicBaseURL string
}

// DefaultImageServiceConfig returns default configuration
func DefaultImageServiceConfig() ImageServiceConfig {
	return ImageServiceConfig{
		UploadURLExpiry: 15 * time.Minute,
	}
}

// allowedImageContentTypes is the whitelist for listing photos
var allowedImageContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ListingImageService manages the listing photo upload flow: the
// seller asks for a presigned URL, uploads directly to object storage,
// then confirms so the listing points at the new image.
type ListingImageService struct {
	listingRepo    catalog.ListingRepository
	storageService ObjectStorageService
	config         ImageServiceConfig
	logger         *zap.Logger
}

// NewListingImageService creates a new listing image service
func NewListingImageService(
	listingRepo catalog.ListingRepository,
	storageService ObjectStorageService,
	config ImageServiceConfig,
	logger *zap.Logger,
) *ListingImageService {
	if config.UploadURLExpiry <= 0 {
		config.UploadURLExpiry = DefaultImageServiceConfig().UploadURLExpiry
	}
	return &ListingImageService{
		listingRepo:    listingRepo,
		storageService: storageService,
		config:         config,
		logger:         logger,
	}
}

// InitiateUpload returns a presigned URL the seller uploads the photo
// to. Only image content types are accepted.
func (s *ListingImageService) InitiateUpload(ctx context.Context, sellerID, listingID uuid.UUID, req InitiateImageUploadRequest) (*InitiateImageUploadResponse, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsOwnedBy(sellerID) {
		return nil, shared.ErrForbidden
	}

	ext, ok := allowedImageContentTypes[strings.ToLower(req.ContentType)]
	if !ok {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			"Listing photos must be JPEG, PNG or WebP images")
	}

	storageKey := fmt.Sprintf("listings/%s/%s%s", listingID, uuid.New().String(), ext)

	uploadURL, expiresAt, err := s.storageService.GenerateUploadURL(ctx, storageKey, req.ContentType, s.config.UploadURLExpiry)
	if err != nil {
		s.logger.Error("Failed to generate upload URL", zap.Error(err))
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}

	return &InitiateImageUploadResponse{
		StorageKey: storageKey,
		UploadURL:  uploadURL,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmUpload verifies the object landed in storage and points the
// listing at it, deleting the previous image
func (s *ListingImageService) ConfirmUpload(ctx context.Context, sellerID, listingID uuid.UUID, storageKey string) (*ListingResponse, error) {
	listing, err := s.listingRepo.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsOwnedBy(sellerID) {
		return nil, shared.ErrForbidden
	}

	if !strings.HasPrefix(storageKey, fmt.Sprintf("listings/%s/", listingID)) {
		return nil, shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key does not belong to this listing")
	}

	exists, err := s.storageService.ObjectExists(ctx, storageKey)
	if err != nil {
		s.logger.Error("Failed to verify upload", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to verify upload")
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND",
			"File not found in storage. Please upload the file first.")
	}

	previousKey := s.storageKeyFromURL(listing.ImageURL)

	if err := listing.SetImage(s.publicURL(storageKey)); err != nil {
		return nil, err
	}

	if err := s.listingRepo.Save(ctx, listing); err != nil {
		return nil, err
	}

	if previousKey != "" && previousKey != storageKey {
		if err := s.storageService.DeleteObject(ctx, previousKey); err != nil {
			s.logger.Warn("Failed to delete previous listing image",
				zap.String("storage_key", previousKey),
				zap.Error(err))
		}
	}

	response := ToListingResponse(listing)
	return &response, nil
}

// publicURL builds the serving URL for a storage key. Without a public
// base URL the raw key is stored and the handler serves presigned URLs.
func (s *ListingImageService) publicURL(storageKey string) string {
	base := strings.TrimRight(s.config.PublicBaseURL, "/")
	if base == "" {
		return storageKey
	}
	return base + "/" + storageKey
}

// storageKeyFromURL recovers the storage key from a stored image URL
func (s *ListingImageService) storageKeyFromURL(imageURL string) string {
	if imageURL == "" {
		return ""
	}
	base := strings.TrimRight(s.config.PublicBaseURL, "/")
	if base != "" && strings.HasPrefix(imageURL, base+"/") {
		return strings.TrimPrefix(imageURL, base+"/")
	}
	if !strings.Contains(imageURL, "://") && path.Dir(imageURL) != "." {
		return imageURL
	}
	return ""
}
