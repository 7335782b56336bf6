package entities

import (
	"github.com/google/uuid"
)

type Recipe struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description" gorm:"type:text"`
	SourceURL       string    `json:"source_url,omitempty"`
	Servings        int       `json:"servings"`
	PrepTimeMinutes int       `json:"prep_time_minutes"`
	CookTimeMinutes int       `json:"cook_time_minutes"`
	Notes           string    `json:"notes" gorm:"type:text"`
	IsGenerated     bool      `json:"is_generated"`

	User             *User             `gorm:"foreignKey:UserID"`
	IngredientGroups []IngredientGroup `gorm:"foreignKey:RecipeID"`
	StepGroups       []StepGroup       `gorm:"foreignKey:RecipeID"`
	Tags             []Tag             `gorm:"many2many:recipe_tags;"`
	Images           []Image           `gorm:"foreignKey:RecipeID"`
	Timestamp
}

type IngredientGroup struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;index" json:"recipe_id"`
	Position int       `json:"position"`
	Title    string    `json:"title"`

	Items []IngredientItem `gorm:"foreignKey:GroupID"`
}

type IngredientItem struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	GroupID      uuid.UUID  `gorm:"type:uuid;index" json:"group_id"`
	Position     int        `json:"position"`
	Text         string     `json:"text"`
	IngredientID *uuid.UUID `gorm:"type:uuid;index" json:"ingredient_id,omitempty"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID"`
}

type StepGroup struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;index" json:"recipe_id"`
	Position int       `json:"position"`
	Title    string    `json:"title"`

	Steps []Step `gorm:"foreignKey:GroupID"`
}

type Step struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	GroupID  uuid.UUID `gorm:"type:uuid;index" json:"group_id"`
	Position int       `json:"position"`
	Text     string    `json:"text" gorm:"type:text"`
}
