package entities

import (
	"time"

	"github.com/google/uuid"
)

type ShoppingListItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	Text         string     `json:"text"`
	Quantity     string     `json:"quantity"`
	Aisle        string     `json:"aisle"`
	Bought       bool       `json:"bought"`
	BoughtAt     *time.Time `json:"bought_at,omitempty"`
	IngredientID *uuid.UUID `gorm:"type:uuid;index" json:"ingredient_id,omitempty"`
	RecipeID     *uuid.UUID `gorm:"type:uuid;index" json:"recipe_id,omitempty"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
	Recipe     *Recipe     `gorm:"foreignKey:RecipeID"`
	Timestamp
}
