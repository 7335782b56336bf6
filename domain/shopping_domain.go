package domain

import (
	"errors"
	"time"
)

const AisleOther = "Other"

var (
	MessageSuccessAddShoppingItem    = "item added to shopping list"
	MessageSuccessAddRecipeToList    = "recipe ingredients added to shopping list"
	MessageSuccessGetShoppingList    = "success get shopping list"
	MessageSuccessToggleBought       = "item updated successfully"
	MessageSuccessUpdateAisle        = "aisle updated successfully"
	MessageSuccessDeleteShoppingItem = "item removed from shopping list"
	MessageSuccessClearBought        = "bought items cleared"
	MessageSuccessEmailList          = "shopping list sent"

	MessageFailedAddShoppingItem    = "failed to add item to shopping list"
	MessageFailedAddRecipeToList    = "failed to add recipe to shopping list"
	MessageFailedGetShoppingList    = "failed to get shopping list"
	MessageFailedToggleBought       = "failed to update item"
	MessageFailedUpdateAisle        = "failed to update aisle"
	MessageFailedDeleteShoppingItem = "failed to remove item"
	MessageFailedClearBought        = "failed to clear bought items"
	MessageFailedEmailList          = "failed to send shopping list"

	ErrShoppingItemNotFound       = errors.New("shopping list item not found")
	ErrUnauthorizedShoppingAccess = errors.New("unauthorized access to shopping list item")
	ErrEmptyShoppingList          = errors.New("shopping list has no unbought items")
)

type (
	AddShoppingItemRequest struct {
		Text         string `json:"text" validate:"required,max=300"`
		Quantity     string `json:"quantity" validate:"max=50"`
		Aisle        string `json:"aisle" validate:"max=50"`
		IngredientID string `json:"ingredient_id" validate:"omitempty,uuid"`
		RecipeID     string `json:"recipe_id" validate:"omitempty,uuid"`
	}

	AddRecipeToListRequest struct {
		RecipeID string `json:"recipe_id" validate:"required,uuid"`
	}

	UpdateAisleRequest struct {
		Aisle string `json:"aisle" validate:"max=50"`
	}

	ShoppingItemResponse struct {
		ID           string     `json:"id"`
		Text         string     `json:"text"`
		Quantity     string     `json:"quantity"`
		Aisle        string     `json:"aisle"`
		Bought       bool       `json:"bought"`
		BoughtAt     *time.Time `json:"bought_at,omitempty"`
		IngredientID string     `json:"ingredient_id,omitempty"`
		RecipeID     string     `json:"recipe_id,omitempty"`
		RecipeTitle  string     `json:"recipe_title,omitempty"`
		CreatedAt    time.Time  `json:"created_at"`
	}

	AisleGroup struct {
		Aisle string                 `json:"aisle"`
		Items []ShoppingItemResponse `json:"items"`
	}

	ShoppingListResponse struct {
		Items  []ShoppingItemResponse `json:"items"`
		Aisles []AisleGroup           `json:"aisles"`
	}
)
