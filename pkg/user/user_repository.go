package user

import (
	"context"
	"errors"

	"Recipe-Book/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	UserRepository interface {
		RegisterUser(ctx context.Context, user *entities.User) error
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		CheckEmailExists(ctx context.Context, email string) (bool, error)
		GetExtras(ctx context.Context, userID string) (*entities.UserExtras, error)
		SaveExtras(ctx context.Context, extras *entities.UserExtras) error
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) RegisterUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetExtras returns gorm.ErrRecordNotFound when the user never saved any settings.
func (r *userRepository) GetExtras(ctx context.Context, userID string) (*entities.UserExtras, error) {
	var extras entities.UserExtras
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&extras).Error; err != nil {
		return nil, err
	}
	return &extras, nil
}

func (r *userRepository) SaveExtras(ctx context.Context, extras *entities.UserExtras) error {
	if extras.ID == uuid.Nil {
		return errors.New("extras id is required")
	}
	return r.db.WithContext(ctx).Save(extras).Error
}
