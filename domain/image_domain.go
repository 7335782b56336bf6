package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

const MaxImageSize = 10 << 20

var (
	MessageSuccessRequestUpload = "upload url created"
	MessageSuccessConfirmUpload = "image confirmed"
	MessageSuccessUploadImage   = "image uploaded successfully"
	MessageSuccessDeleteImage   = "image deleted successfully"

	MessageFailedRequestUpload = "failed to create upload url"
	MessageFailedConfirmUpload = "failed to confirm image"
	MessageFailedUploadImage   = "failed to upload image"
	MessageFailedDeleteImage   = "failed to delete image"

	ErrImageNotFound           = errors.New("image not found")
	ErrImageNotUploaded        = errors.New("image object has not been uploaded")
	ErrUnauthorizedImageAccess = errors.New("unauthorized access to image")
	ErrInvalidImageFormat      = errors.New("invalid image format")
	ErrImageTooLarge           = errors.New("image exceeds 10 MiB")
	ErrStorageUnavailable      = errors.New("object storage is not configured")
)

type (
	RequestUploadRequest struct {
		RecipeID    string `json:"recipe_id" validate:"required,uuid"`
		ContentType string `json:"content_type" validate:"required"`
	}

	RequestUploadResponse struct {
		ImageID   string    `json:"image_id"`
		UploadURL string    `json:"upload_url"`
		ObjectKey string    `json:"object_key"`
		ExpiresAt time.Time `json:"expires_at"`
	}

	UploadImageRequest struct {
		RecipeID string                `form:"recipe_id" validate:"required,uuid"`
		Image    *multipart.FileHeader `form:"image" validate:"required"`
	}

	ImageResponse struct {
		ID          string `json:"id"`
		URL         string `json:"url"`
		ContentType string `json:"content_type"`
		Position    int    `json:"position"`
	}
)
