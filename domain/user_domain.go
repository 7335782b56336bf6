package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister     = "register success"
	MessageSuccessLogin        = "login success"
	MessageSuccessGetDetail    = "success get detail user"
	MessageSuccessGetExtras    = "success get user settings"
	MessageSuccessUpdateExtras = "user settings updated successfully"

	MessageFailedRegister     = "failed to register"
	MessageFailedLogin        = "failed to login"
	MessageFailedGetDetail    = "failed to get detail user"
	MessageFailedGetExtras    = "failed to get user settings"
	MessageFailedUpdateExtras = "failed to update user settings"

	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrHashPassword       = errors.New("failed to hash password")
)

type (
	UserRegisterRequest struct {
		Name     string `json:"name" validate:"required,min=2,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	}

	UserRegisterResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Token string `json:"token"`
	}

	UserLoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	UserLoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	UserProfileResponse struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Role      string    `json:"role"`
		CreatedAt time.Time `json:"created_at"`
	}

	UserExtrasResponse struct {
		KrogerLocationID string `json:"kroger_location_id"`
		KrogerZipCode    string `json:"kroger_zip_code"`
		KrogerConnected  bool   `json:"kroger_connected"`
	}

	UpdateUserExtrasRequest struct {
		KrogerLocationID *string `json:"kroger_location_id" validate:"omitempty,max=32"`
		KrogerZipCode    *string `json:"kroger_zip_code" validate:"omitempty,numeric,len=5"`
	}
)
