package entities

import (
	"time"

	"github.com/google/uuid"
)

type PlannedMeal struct {
	ID       uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID   uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	Date     time.Time  `gorm:"index" json:"date"`
	MealType string     `json:"meal_type"` // breakfast, lunch, dinner, snack
	RecipeID *uuid.UUID `gorm:"type:uuid;index" json:"recipe_id,omitempty"`
	Note     string     `json:"note"`
	Servings int        `json:"servings"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
	Timestamp
}
