package tag

import (
	"context"

	"Recipe-Book/entities"

	"gorm.io/gorm"
)

type TagWithCount struct {
	entities.Tag
	RecipeCount int64
}

type (
	TagRepository interface {
		CreateTag(ctx context.Context, tag *entities.Tag) error
		GetTagByID(ctx context.Context, id string) (*entities.Tag, error)
		GetTagByName(ctx context.Context, userID, name string) (*entities.Tag, error)
		GetTagsWithCount(ctx context.Context, userID string) ([]TagWithCount, error)
		CountRecipes(ctx context.Context, tagID string) (int64, error)
		RenameTag(ctx context.Context, id, name string) error
		DeleteTag(ctx context.Context, id string) error
	}

	tagRepository struct {
		db *gorm.DB
	}
)

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{
		db: db,
	}
}

func (r *tagRepository) CreateTag(ctx context.Context, tag *entities.Tag) error {
	return r.db.WithContext(ctx).Omit("Recipes").Create(tag).Error
}

func (r *tagRepository) GetTagByID(ctx context.Context, id string) (*entities.Tag, error) {
	var tag entities.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetTagByName(ctx context.Context, userID, name string) (*entities.Tag, error) {
	var tag entities.Tag
	if err := r.db.WithContext(ctx).Where("user_id = ? AND LOWER(name) = LOWER(?)", userID, name).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) GetTagsWithCount(ctx context.Context, userID string) ([]TagWithCount, error) {
	var tags []TagWithCount
	err := r.db.WithContext(ctx).
		Model(&entities.Tag{}).
		Select("tags.*, COUNT(recipe_tags.recipe_id) AS recipe_count").
		Joins("LEFT JOIN recipe_tags ON recipe_tags.tag_id = tags.id").
		Where("tags.user_id = ?", userID).
		Group("tags.id").
		Order("LOWER(tags.name) ASC").
		Scan(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) CountRecipes(ctx context.Context, tagID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("recipe_tags").Where("tag_id = ?", tagID).Count(&count).Error
	return count, err
}

func (r *tagRepository) RenameTag(ctx context.Context, id, name string) error {
	return r.db.WithContext(ctx).Model(&entities.Tag{}).Where("id = ?", id).Update("name", name).Error
}

func (r *tagRepository) DeleteTag(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM recipe_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Tag{}).Error
	})
}
