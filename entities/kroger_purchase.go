package entities

import (
	"github.com/google/uuid"
)

type KrogerPurchase struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID             uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	ProductID          string     `json:"product_id"`
	UPC                string     `json:"upc"`
	Description        string     `json:"description"`
	Quantity           int        `json:"quantity"`
	Status             string     `json:"status"` // added, failed
	Note               string     `json:"note,omitempty" gorm:"type:text"`
	IngredientID       *uuid.UUID `gorm:"type:uuid;index" json:"ingredient_id,omitempty"`
	RecipeID           *uuid.UUID `gorm:"type:uuid;index" json:"recipe_id,omitempty"`
	ShoppingListItemID *uuid.UUID `gorm:"type:uuid" json:"shopping_list_item_id,omitempty"`

	Timestamp
}
