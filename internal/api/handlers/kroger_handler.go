package handlers

import (
	"fmt"
	"strings"

	"Recipe-Book/domain"
	"Recipe-Book/internal/api/presenters"
	"Recipe-Book/pkg/kroger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	KrogerHandler interface {
		Authorize(c *fiber.Ctx) error
		Callback(c *fiber.Ctx) error
		Disconnect(c *fiber.Ctx) error
		SearchLocations(c *fiber.Ctx) error
		SearchProducts(c *fiber.Ctx) error
		AddToCart(c *fiber.Ctx) error
		GetPurchases(c *fiber.Ctx) error
	}

	krogerHandler struct {
		krogerService kroger.KrogerService
		validator     *validator.Validate
		appURL        string
	}
)

// NewKrogerHandler redirects the OAuth callback back to appURL when it is set.
func NewKrogerHandler(krogerService kroger.KrogerService, validator *validator.Validate, appURL string) KrogerHandler {
	return &krogerHandler{
		krogerService: krogerService,
		validator:     validator,
		appURL:        strings.TrimRight(appURL, "/"),
	}
}

func (h *krogerHandler) Authorize(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.krogerService.AuthorizeURL(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.ErrorStatus(err), domain.MessageFailedKrogerAuthorize, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessKrogerAuthorize)
}

// Callback is hit by the Kroger consent page, so it runs without a session.
func (h *krogerHandler) Callback(c *fiber.Ctx) error {
	var err error
	if reason := c.Query("error"); reason != "" {
		err = fmt.Errorf("%w: %s", domain.ErrKrogerStateInvalid, reason)
	} else {
		err = h.krogerService.HandleCallback(c.Context(), c.Query("code"), c.Query("state"))
	}

	if h.appURL != "" {
		outcome := "connected"
		if err != nil {
			outcome = "error"
		}
		return c.Redirect(h.appURL+"/settings?kroger="+outcome, fiber.StatusFound)
	}

	if err != nil {
		return presenters.ErrorResponse(c, presenters.ErrorStatus(err), domain.MessageFailedKrogerConnect, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessKrogerConnect)
}

func (h *krogerHandler) Disconnect(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.krogerService.Disconnect(c.Context(), userID); err != nil {
		return presenters.ErrorResponse(c, presenters.ErrorStatus(err), domain.MessageFailedKrogerDisconnect, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessKrogerDisconnect)
}

func (h *krogerHandler) SearchLocations(c *fiber.Ctx) error {
	zip := c.Query("zip")
	if err := h.validator.Var(zip, "required,numeric,len=5"); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSearchLocations, err)
	}

	res, err := h.krogerService.SearchLocations(c.Context(), zip)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.ErrorStatus(err), domain.MessageFailedSearchLocations, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSearchLocations)
}

func (h *krogerHandler) SearchProducts(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	term := c.Query("q")
	if err := h.validator.Var(term, "required,min=2,max=100"); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSearchProducts, err)
	}

	res, err := h.krogerService.SearchProducts(c.Context(), userID, term, c.QueryInt("limit", 10))
	if err != nil {
		return presenters.ErrorResponse(c, presenters.ErrorStatus(err), domain.MessageFailedSearchProducts, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSearchProducts)
}

// AddToCart answers 200 even when Kroger refused the item. The purchase status says what happened.
func (h *krogerHandler) AddToCart(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AddToCartRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddToCart, err)
	}

	res, err := h.krogerService.AddToCart(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.ErrorStatus(err), domain.MessageFailedAddToCart, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAddToCart)
}

func (h *krogerHandler) GetPurchases(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	page, limit := pageParams(c)

	purchases, count, err := h.krogerService.ListPurchases(c.Context(), userID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, presenters.ErrorStatus(err), domain.MessageFailedGetPurchases, err)
	}

	return presenters.SuccessResponse(c, paginated(purchases, page, limit, count), fiber.StatusOK, domain.MessageSuccessGetPurchases)
}
