package entities

import (
	"github.com/google/uuid"
)

type Image struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	RecipeID    *uuid.UUID `gorm:"type:uuid;index" json:"recipe_id,omitempty"`
	ObjectKey   string     `json:"object_key"`
	URL         string     `json:"url"`
	ContentType string     `json:"content_type"`
	Position    int        `json:"position"`
	Confirmed   bool       `json:"confirmed"`

	Timestamp
}
