package entities

import (
	"github.com/google/uuid"
)

type Ingredient struct {
	ID                uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Name              string    `json:"name"`
	Aisle             string    `json:"aisle"`
	KrogerProductID   string    `json:"kroger_product_id,omitempty"`
	KrogerUPC         string    `json:"kroger_upc,omitempty"`
	KrogerDescription string    `json:"kroger_description,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}
