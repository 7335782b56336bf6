package handlers

import (
	"Recipe-Book/domain"
	"Recipe-Book/internal/api/presenters"
	"Recipe-Book/pkg/image"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ImageHandler interface {
		RequestUpload(c *fiber.Ctx) error
		ConfirmUpload(c *fiber.Ctx) error
		UploadImage(c *fiber.Ctx) error
		DeleteImage(c *fiber.Ctx) error
	}

	imageHandler struct {
		imageService image.ImageService
		validator    *validator.Validate
	}
)

func NewImageHandler(imageService image.ImageService, validator *validator.Validate) ImageHandler {
	return &imageHandler{
		imageService: imageService,
		validator:    validator,
	}
}

func (h *imageHandler) RequestUpload(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.RequestUploadRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRequestUpload, err)
	}

	res, err := h.imageService.RequestUpload(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.ErrorStatus(err), domain.MessageFailedRequestUpload, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessRequestUpload)
}

func (h *imageHandler) ConfirmUpload(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	imageID := c.Params("id")

	res, err := h.imageService.ConfirmUpload(c.Context(), imageID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.ErrorStatus(err), domain.MessageFailedConfirmUpload, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessConfirmUpload)
}

func (h *imageHandler) UploadImage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UploadImageRequest)

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	req.Image = file
	req.RecipeID = c.FormValue("recipe_id")

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadImage, err)
	}

	res, err := h.imageService.UploadImage(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.ErrorStatus(err), domain.MessageFailedUploadImage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessUploadImage)
}

func (h *imageHandler) DeleteImage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	imageID := c.Params("id")

	if err := h.imageService.DeleteImage(c.Context(), imageID, userID); err != nil {
		return presenters.ErrorResponse(c, presenters.ErrorStatus(err), domain.MessageFailedDeleteImage, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteImage)
}
