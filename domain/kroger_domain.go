package domain

import (
	"errors"
	"time"
)

const (
	PurchaseStatusAdded  = "added"
	PurchaseStatusFailed = "failed"
)

var (
	MessageSuccessKrogerAuthorize  = "kroger authorization url created"
	MessageSuccessKrogerConnect    = "kroger account connected"
	MessageSuccessKrogerDisconnect = "kroger account disconnected"
	MessageSuccessSearchLocations  = "success search locations"
	MessageSuccessSearchProducts   = "success search products"
	MessageSuccessAddToCart        = "cart request processed"
	MessageSuccessGetPurchases     = "success get purchases"

	MessageFailedKrogerAuthorize  = "failed to create kroger authorization url"
	MessageFailedKrogerConnect    = "failed to connect kroger account"
	MessageFailedKrogerDisconnect = "failed to disconnect kroger account"
	MessageFailedSearchLocations  = "failed to search locations"
	MessageFailedSearchProducts   = "failed to search products"
	MessageFailedAddToCart        = "failed to add to cart"
	MessageFailedGetPurchases     = "failed to get purchases"

	ErrKrogerNotConfigured = errors.New("kroger integration is not configured")
	ErrKrogerNotConnected  = errors.New("kroger account is not connected")
	ErrKrogerStateInvalid  = errors.New("invalid oauth state")
	ErrKrogerRequestFailed = errors.New("kroger request failed")
)

type (
	KrogerAuthorizeResponse struct {
		URL string `json:"url"`
	}

	KrogerLocation struct {
		LocationID string `json:"location_id"`
		Name       string `json:"name"`
		Chain      string `json:"chain"`
		Address    string `json:"address"`
		ZipCode    string `json:"zip_code"`
	}

	KrogerProduct struct {
		ProductID   string  `json:"product_id"`
		UPC         string  `json:"upc"`
		Description string  `json:"description"`
		Brand       string  `json:"brand"`
		Size        string  `json:"size"`
		Price       float64 `json:"price,omitempty"`
		PromoPrice  float64 `json:"promo_price,omitempty"`
		ImageURL    string  `json:"image_url,omitempty"`
		Aisle       string  `json:"aisle,omitempty"`
	}

	AddToCartRequest struct {
		ProductID          string `json:"product_id" validate:"required"`
		UPC                string `json:"upc" validate:"required"`
		Description        string `json:"description"`
		Quantity           int    `json:"quantity" validate:"required,min=1,max=99"`
		IngredientID       string `json:"ingredient_id" validate:"omitempty,uuid"`
		RecipeID           string `json:"recipe_id" validate:"omitempty,uuid"`
		ShoppingListItemID string `json:"shopping_list_item_id" validate:"omitempty,uuid"`
	}

	KrogerPurchaseResponse struct {
		ID                 string    `json:"id"`
		ProductID          string    `json:"product_id"`
		UPC                string    `json:"upc"`
		Description        string    `json:"description"`
		Quantity           int       `json:"quantity"`
		Status             string    `json:"status"`
		Note               string    `json:"note,omitempty"`
		IngredientID       string    `json:"ingredient_id,omitempty"`
		RecipeID           string    `json:"recipe_id,omitempty"`
		ShoppingListItemID string    `json:"shopping_list_item_id,omitempty"`
		CreatedAt          time.Time `json:"created_at"`
	}
)
