package presenters

import (
	"errors"

	"Recipe-Book/domain"
	"Recipe-Book/internal/utils/mailing"
	"Recipe-Book/internal/utils/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	Response struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    any    `json:"data,omitempty"`
		Error   string `json:"error,omitempty"`
	}
)

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(statusCode).JSON(res)
}

var (
	notFound = []error{
		domain.ErrUserNotFound,
		domain.ErrRecipeNotFound,
		domain.ErrIngredientNotFound,
		domain.ErrShoppingItemNotFound,
		domain.ErrMealNotFound,
		domain.ErrTagNotFound,
		domain.ErrImageNotFound,
		domain.ErrNoRecipeFound,
	}
	forbidden = []error{
		domain.ErrUserNotAllowed,
		domain.ErrUnauthorizedRecipeAccess,
		domain.ErrUnauthorizedIngredientAccess,
		domain.ErrUnauthorizedShoppingAccess,
		domain.ErrUnauthorizedMealAccess,
		domain.ErrUnauthorizedTagAccess,
		domain.ErrUnauthorizedImageAccess,
	}
	conflict = []error{
		domain.ErrEmailAlreadyExists,
		domain.ErrIngredientExists,
		domain.ErrTagExists,
	}
	unauthorized = []error{
		domain.ErrInvalidCredentials,
		domain.ErrTokenExpired,
		domain.ErrTokenInvalid,
		domain.ErrKrogerStateInvalid,
	}
	unavailable = []error{
		domain.ErrAIUnavailable,
		domain.ErrKrogerNotConfigured,
		domain.ErrStorageUnavailable,
		mailing.ErrSMTPNotConfigured,
	}
	badGateway = []error{
		domain.ErrAIInvalidResponse,
		domain.ErrKrogerRequestFailed,
		domain.ErrFetchRecipePage,
	}
)

// ErrorStatus maps domain errors to HTTP status codes. Anything unknown is a bad request.
func ErrorStatus(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case err == nil:
		return fiber.StatusOK
	case matches(err, notFound):
		return fiber.StatusNotFound
	case matches(err, forbidden):
		return fiber.StatusForbidden
	case matches(err, conflict):
		return fiber.StatusConflict
	case matches(err, unauthorized):
		return fiber.StatusUnauthorized
	case matches(err, unavailable):
		return fiber.StatusServiceUnavailable
	case matches(err, badGateway):
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrImageTooLarge):
		return fiber.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrInvalidImageFormat), errors.Is(err, storage.ErrFileTypeNotAllowed):
		return fiber.StatusUnsupportedMediaType
	case errors.As(err, &validationErrs):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusBadRequest
	}
}

func matches(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
