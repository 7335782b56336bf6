package entities

import (
	"github.com/google/uuid"
)

type Tag struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Name   string    `json:"name"`

	Recipes []Recipe `gorm:"many2many:recipe_tags;"`
	Timestamp
}
