package image

import (
	"context"
	"database/sql"

	"Recipe-Book/entities"

	"gorm.io/gorm"
)

type (
	ImageRepository interface {
		CreateImage(ctx context.Context, image *entities.Image) error
		GetImageByID(ctx context.Context, id string) (*entities.Image, error)
		NextPosition(ctx context.Context, recipeID string) (int, error)
		ConfirmImage(ctx context.Context, id string, position int) error
		DeleteImage(ctx context.Context, id string) error
	}

	imageRepository struct {
		db *gorm.DB
	}
)

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{
		db: db,
	}
}

func (r *imageRepository) CreateImage(ctx context.Context, image *entities.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *imageRepository) GetImageByID(ctx context.Context, id string) (*entities.Image, error) {
	var image entities.Image
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// NextPosition is one past the highest confirmed position for the recipe, or 0.
func (r *imageRepository) NextPosition(ctx context.Context, recipeID string) (int, error) {
	var max sql.NullInt64
	err := r.db.WithContext(ctx).
		Model(&entities.Image{}).
		Select("MAX(position)").
		Where("recipe_id = ? AND confirmed = ?", recipeID, true).
		Row().Scan(&max)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}

func (r *imageRepository) ConfirmImage(ctx context.Context, id string, position int) error {
	return r.db.WithContext(ctx).
		Model(&entities.Image{}).
		Where("id = ?", id).
		Updates(map[string]any{"confirmed": true, "position": position}).Error
}

func (r *imageRepository) DeleteImage(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Image{}).Error
}
