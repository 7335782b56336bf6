package image

import (
	"context"
	"errors"
	"slices"
	"time"

	"Recipe-Book/domain"
	"Recipe-Book/entities"
	"Recipe-Book/internal/utils/logger"
	"Recipe-Book/internal/utils/storage"
	"Recipe-Book/pkg/recipe"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	uploadURLTTL = 15 * time.Minute
	imageFolder  = "recipes"
)

type (
	ImageService interface {
		RequestUpload(ctx context.Context, req domain.RequestUploadRequest, userID string) (domain.RequestUploadResponse, error)
		ConfirmUpload(ctx context.Context, id string, userID string) (domain.ImageResponse, error)
		UploadImage(ctx context.Context, req domain.UploadImageRequest, userID string) (domain.ImageResponse, error)
		DeleteImage(ctx context.Context, id string, userID string) error
	}

	imageService struct {
		imageRepository ImageRepository
		recipeService   recipe.RecipeService
		s3              storage.AwsS3
	}
)

// NewImageService returns a service whose operations fail with ErrStorageUnavailable when s3 is nil.
func NewImageService(imageRepository ImageRepository, recipeService recipe.RecipeService, s3 storage.AwsS3) ImageService {
	return &imageService{
		imageRepository: imageRepository,
		recipeService:   recipeService,
		s3:              s3,
	}
}

func (s *imageService) RequestUpload(ctx context.Context, req domain.RequestUploadRequest, userID string) (domain.RequestUploadResponse, error) {
	if s.s3 == nil {
		return domain.RequestUploadResponse{}, domain.ErrStorageUnavailable
	}
	if !slices.Contains(storage.AllowImage, req.ContentType) {
		return domain.RequestUploadResponse{}, domain.ErrInvalidImageFormat
	}

	r, err := s.recipeService.GetOwnedRecipe(ctx, req.RecipeID, userID)
	if err != nil {
		return domain.RequestUploadResponse{}, err
	}

	key := storage.NewObjectKey(imageFolder+"/"+r.ID.String(), req.ContentType)
	url, err := s.s3.PresignUpload(ctx, key, req.ContentType, uploadURLTTL)
	if err != nil {
		return domain.RequestUploadResponse{}, err
	}

	image := &entities.Image{
		ID:          uuid.New(),
		UserID:      r.UserID,
		RecipeID:    &r.ID,
		ObjectKey:   key,
		URL:         s.s3.GetPublicLinkKey(key),
		ContentType: req.ContentType,
	}
	if err := s.imageRepository.CreateImage(ctx, image); err != nil {
		return domain.RequestUploadResponse{}, err
	}

	return domain.RequestUploadResponse{
		ImageID:   image.ID.String(),
		UploadURL: url,
		ObjectKey: key,
		ExpiresAt: time.Now().Add(uploadURLTTL),
	}, nil
}

func (s *imageService) ConfirmUpload(ctx context.Context, id string, userID string) (domain.ImageResponse, error) {
	if s.s3 == nil {
		return domain.ImageResponse{}, domain.ErrStorageUnavailable
	}

	image, err := s.getOwnedImage(ctx, id, userID)
	if err != nil {
		return domain.ImageResponse{}, err
	}
	if image.Confirmed {
		return ToImageResponse(image), nil
	}

	exists, err := s.s3.ObjectExists(ctx, image.ObjectKey)
	if err != nil {
		return domain.ImageResponse{}, err
	}
	if !exists {
		return domain.ImageResponse{}, domain.ErrImageNotUploaded
	}

	if err := s.confirm(ctx, image); err != nil {
		return domain.ImageResponse{}, err
	}
	return ToImageResponse(image), nil
}

func (s *imageService) UploadImage(ctx context.Context, req domain.UploadImageRequest, userID string) (domain.ImageResponse, error) {
	if s.s3 == nil {
		return domain.ImageResponse{}, domain.ErrStorageUnavailable
	}
	if req.Image == nil {
		return domain.ImageResponse{}, domain.ErrInvalidImageFormat
	}
	if req.Image.Size > domain.MaxImageSize {
		return domain.ImageResponse{}, domain.ErrImageTooLarge
	}

	contentType, err := storage.DetectContentType(req.Image)
	if err != nil {
		return domain.ImageResponse{}, err
	}
	if !slices.Contains(storage.AllowImage, contentType) {
		return domain.ImageResponse{}, domain.ErrInvalidImageFormat
	}

	r, err := s.recipeService.GetOwnedRecipe(ctx, req.RecipeID, userID)
	if err != nil {
		return domain.ImageResponse{}, err
	}

	fileName := uuid.NewString() + storage.ExtensionFor(contentType)
	key, err := s.s3.UploadFile(ctx, fileName, req.Image, imageFolder+"/"+r.ID.String(), storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return domain.ImageResponse{}, domain.ErrInvalidImageFormat
		}
		return domain.ImageResponse{}, err
	}

	image := &entities.Image{
		ID:          uuid.New(),
		UserID:      r.UserID,
		RecipeID:    &r.ID,
		ObjectKey:   key,
		URL:         s.s3.GetPublicLinkKey(key),
		ContentType: contentType,
	}
	if err := s.imageRepository.CreateImage(ctx, image); err != nil {
		return domain.ImageResponse{}, err
	}
	if err := s.confirm(ctx, image); err != nil {
		return domain.ImageResponse{}, err
	}
	return ToImageResponse(image), nil
}

func (s *imageService) DeleteImage(ctx context.Context, id string, userID string) error {
	image, err := s.getOwnedImage(ctx, id, userID)
	if err != nil {
		return err
	}

	if err := s.imageRepository.DeleteImage(ctx, id); err != nil {
		return err
	}

	if s.s3 != nil {
		if err := s.s3.DeleteFile(ctx, image.ObjectKey); err != nil {
			logger.L().Warn("failed to delete image object",
				zap.String("image_id", id),
				zap.String("object_key", image.ObjectKey),
				zap.Error(err))
		}
	}
	return nil
}

func (s *imageService) confirm(ctx context.Context, image *entities.Image) error {
	position, err := s.imageRepository.NextPosition(ctx, image.RecipeID.String())
	if err != nil {
		return err
	}
	if err := s.imageRepository.ConfirmImage(ctx, image.ID.String(), position); err != nil {
		return err
	}
	image.Confirmed = true
	image.Position = position
	return nil
}

func (s *imageService) getOwnedImage(ctx context.Context, id string, userID string) (*entities.Image, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrImageNotFound
	}

	image, err := s.imageRepository.GetImageByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrImageNotFound
		}
		return nil, err
	}
	if image.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedImageAccess
	}
	return image, nil
}

func ToImageResponse(image *entities.Image) domain.ImageResponse {
	return domain.ImageResponse{
		ID:          image.ID.String(),
		URL:         image.URL,
		ContentType: image.ContentType,
		Position:    image.Position,
	}
}
