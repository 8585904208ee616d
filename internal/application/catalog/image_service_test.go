package catalog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/driveshop/backend/internal/domain/shared"
)

func newImageServiceForTest(listingRepo *MockListingRepository, storage *MockObjectStorage) *ListingImageService {
	return NewListingImageService(listingRepo, storage, ImageServiceConfig{
		UploadURLExpiry: 15 * time.Minute,
		PublicBaseURL:   "https://cdn.driveshop.example",
	}, zap.NewNop())
}

func TestListingImageService_InitiateUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a presigned URL for an image", func(t *testing.T) {
		listingRepo := new(MockListingRepository)
		storage := new(MockObjectStorage)
		svc := newImageServiceForTest(listingRepo, storage)

		sellerID := uuid.New()
		listing := newTestListing(t, sellerID)
		expiresAt := time.Now().Add(15 * time.Minute)

		listingRepo.On("FindByID", ctx, listing.ID).Return(listing, nil)
		storage.On("GenerateUploadURL", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "listings/"+listing.ID.String()+"/") && strings.HasSuffix(key, ".jpg")
		}), "image/jpeg", 15*time.Minute).Return("https://storage/upload", expiresAt, nil)

		resp, err := svc.InitiateUpload(ctx, sellerID, listing.ID, InitiateImageUploadRequest{
			FileName:    "front.jpg",
			ContentType: "image/jpeg",
		})

		require.NoError(t, err)
		assert.Equal(t, "https://storage/upload", resp.UploadURL)
		assert.Contains(t, resp.StorageKey, listing.ID.String())
	})

	t.Run("rejects non-image content types", func(t *testing.T) {
		listingRepo := new(MockListingRepository)
		storage := new(MockObjectStorage)
		svc := newImageServiceForTest(listingRepo, storage)

		sellerID := uuid.New()
		listing := newTestListing(t, sellerID)

		listingRepo.On("FindByID", ctx, listing.ID).Return(listing, nil)

		_, err := svc.InitiateUpload(ctx, sellerID, listing.ID, InitiateImageUploadRequest{
			FileName:    "malware.exe",
			ContentType: "application/octet-stream",
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DISALLOWED_CONTENT_TYPE", domainErr.Code)
		storage.AssertNotCalled(t, "GenerateUploadURL")
	})

	t.Run("rejects a non-owner", func(t *testing.T) {
		listingRepo := new(MockListingRepository)
		storage := new(MockObjectStorage)
		svc := newImageServiceForTest(listingRepo, storage)

		listing := newTestListing(t, uuid.New())
		listingRepo.On("FindByID", ctx, listing.ID).Return(listing, nil)

		_, err := svc.InitiateUpload(ctx, uuid.New(), listing.ID, InitiateImageUploadRequest{
			FileName:    "front.jpg",
			ContentType: "image/jpeg",
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestListingImageService_ConfirmUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("activates the uploaded image", func(t *testing.T) {
		listingRepo := new(MockListingRepository)
		storage := new(MockObjectStorage)
		svc := newImageServiceForTest(listingRepo, storage)

		sellerID := uuid.New()
		listing := newTestListing(t, sellerID)
		storageKey := "listings/" + listing.ID.String() + "/photo.jpg"

		listingRepo.On("FindByID", ctx, listing.ID).Return(listing, nil)
		storage.On("ObjectExists", ctx, storageKey).Return(true, nil)
		listingRepo.On("Save", ctx, listing).Return(nil)

		resp, err := svc.ConfirmUpload(ctx, sellerID, listing.ID, storageKey)

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.driveshop.example/"+storageKey, resp.ImageURL)
	})

	t.Run("replacing an image deletes the old object", func(t *testing.T) {
		listingRepo := new(MockListingRepository)
		storage := new(MockObjectStorage)
		svc := newImageServiceForTest(listingRepo, storage)

		sellerID := uuid.New()
		listing := newTestListing(t, sellerID)
		oldKey := "listings/" + listing.ID.String() + "/old.jpg"
		require.NoError(t, listing.SetImage("https://cdn.driveshop.example/"+oldKey))
		newKey := "listings/" + listing.ID.String() + "/new.jpg"

		listingRepo.On("FindByID", ctx, listing.ID).Return(listing, nil)
		storage.On("ObjectExists", ctx, newKey).Return(true, nil)
		listingRepo.On("Save", ctx, listing).Return(nil)
		storage.On("DeleteObject", ctx, oldKey).Return(nil)

		_, err := svc.ConfirmUpload(ctx, sellerID, listing.ID, newKey)

		require.NoError(t, err)
		storage.AssertCalled(t, "DeleteObject", ctx, oldKey)
	})

	t.Run("rejects a key of another listing", func(t *testing.T) {
		listingRepo := new(MockListingRepository)
		storage := new(MockObjectStorage)
		svc := newImageServiceForTest(listingRepo, storage)

		sellerID := uuid.New()
		listing := newTestListing(t, sellerID)
		foreignKey := "listings/" + uuid.New().String() + "/photo.jpg"

		listingRepo.On("FindByID", ctx, listing.ID).Return(listing, nil)

		_, err := svc.ConfirmUpload(ctx, sellerID, listing.ID, foreignKey)

		require.Error(t, err)
		storage.AssertNotCalled(t, "ObjectExists")
	})

	t.Run("rejects when the object never arrived", func(t *testing.T) {
		listingRepo := new(MockListingRepository)
		storage := new(MockObjectStorage)
		svc := newImageServiceForTest(listingRepo, storage)

		sellerID := uuid.New()
		listing := newTestListing(t, sellerID)
		storageKey := "listings/" + listing.ID.String() + "/photo.jpg"

		listingRepo.On("FindByID", ctx, listing.ID).Return(listing, nil)
		storage.On("ObjectExists", ctx, storageKey).Return(false, nil)

		_, err := svc.ConfirmUpload(ctx, sellerID, listing.ID, storageKey)

		require.Error(t, err)
		listingRepo.AssertNotCalled(t, "Save")
	})
}
