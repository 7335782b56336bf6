package entities

import (
	"time"

	"github.com/google/uuid"
)

type Timestamp struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name     string    `json:"name"`
	Email    string    `gorm:"uniqueIndex" json:"email"`
	Password string    `json:"-"`
	Role     string    `gorm:"default:user" json:"role"`

	Extras *UserExtras `gorm:"foreignKey:UserID"`
	Timestamp
}

// UserExtras holds per-user settings. Kroger tokens live here and never leave the server.
type UserExtras struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID             uuid.UUID  `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	KrogerLocationID   string     `json:"kroger_location_id"`
	KrogerZipCode      string     `json:"kroger_zip_code"`
	KrogerAccessToken  string     `json:"-"`
	KrogerRefreshToken string     `json:"-"`
	KrogerTokenExpiry  *time.Time `json:"-"`

	Timestamp
}
