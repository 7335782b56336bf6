package recipe

import (
	"context"
	"errors"
	"strings"

	"Recipe-Book/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, tagNames []string) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, userID, search, tag string, page, limit int) ([]*entities.Recipe, int64, error)
		ReplaceRecipe(ctx context.Context, recipe *entities.Recipe, tagNames []string) error
		DeleteRecipe(ctx context.Context, id string) ([]entities.Image, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Images").Create(recipe).Error; err != nil {
			return err
		}
		return replaceTags(tx, recipe, tagNames)
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("IngredientGroups", orderByPosition).
		Preload("IngredientGroups.Items", orderByPosition).
		Preload("IngredientGroups.Items.Ingredient").
		Preload("StepGroups", orderByPosition).
		Preload("StepGroups.Steps", orderByPosition).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Where("confirmed = ?", true).Order("position ASC") }).
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, userID, search, tag string, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	filtered := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&entities.Recipe{}).Where("recipes.user_id = ?", userID)
		if search != "" {
			like := "%" + strings.ToLower(search) + "%"
			query = query.Where("(LOWER(recipes.title) LIKE ? OR LOWER(recipes.description) LIKE ?)", like, like)
		}
		if tag != "" {
			query = query.
				Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("LOWER(tags.name) = LOWER(?)", tag)
		}
		return query
	}

	if err := filtered().Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := filtered().
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Where("confirmed = ?", true).Order("position ASC") }).
		Offset(offset).
		Limit(limit).
		Order("recipes.created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

// ReplaceRecipe saves scalar fields and swaps groups, steps and tags for the ones on recipe.
func (r *recipeRepository) ReplaceRecipe(ctx context.Context, recipe *entities.Recipe, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteGroups(tx, recipe.ID); err != nil {
			return err
		}

		if err := tx.Model(&entities.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]any{
			"title":             recipe.Title,
			"description":       recipe.Description,
			"source_url":        recipe.SourceURL,
			"servings":          recipe.Servings,
			"prep_time_minutes": recipe.PrepTimeMinutes,
			"cook_time_minutes": recipe.CookTimeMinutes,
			"notes":             recipe.Notes,
			"is_generated":      recipe.IsGenerated,
		}).Error; err != nil {
			return err
		}

		if len(recipe.IngredientGroups) > 0 {
			if err := tx.Create(&recipe.IngredientGroups).Error; err != nil {
				return err
			}
		}
		if len(recipe.StepGroups) > 0 {
			if err := tx.Create(&recipe.StepGroups).Error; err != nil {
				return err
			}
		}

		return replaceTags(tx, recipe, tagNames)
	})
}

// DeleteRecipe removes the recipe and everything hanging off it. The deleted images are
// returned so their objects can be removed from storage.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) ([]entities.Image, error) {
	var images []entities.Image
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipeID, err := uuid.Parse(id)
		if err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", id).Find(&images).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.Image{}).Error; err != nil {
			return err
		}
		if err := deleteGroups(tx, recipeID); err != nil {
			return err
		}
		if err := tx.Model(&entities.Recipe{ID: recipeID}).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.ShoppingListItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&entities.PlannedMeal{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&entities.KrogerPurchase{}).Where("recipe_id = ?", id).Update("recipe_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entities.Recipe{}).Error
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

func deleteGroups(tx *gorm.DB, recipeID uuid.UUID) error {
	ingredientGroups := tx.Model(&entities.IngredientGroup{}).Select("id").Where("recipe_id = ?", recipeID)
	if err := tx.Where("group_id IN (?)", ingredientGroups).Delete(&entities.IngredientItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.IngredientGroup{}).Error; err != nil {
		return err
	}

	stepGroups := tx.Model(&entities.StepGroup{}).Select("id").Where("recipe_id = ?", recipeID)
	if err := tx.Where("group_id IN (?)", stepGroups).Delete(&entities.Step{}).Error; err != nil {
		return err
	}
	return tx.Where("recipe_id = ?", recipeID).Delete(&entities.StepGroup{}).Error
}

// replaceTags finds or creates the owner's tags by case-insensitive name and links them.
func replaceTags(tx *gorm.DB, recipe *entities.Recipe, tagNames []string) error {
	tags := make([]entities.Tag, 0, len(tagNames))
	seen := map[string]bool{}

	for _, raw := range tagNames {
		name := strings.TrimSpace(raw)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true

		var tag entities.Tag
		err := tx.Where("user_id = ? AND LOWER(name) = ?", recipe.UserID, key).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = entities.Tag{ID: uuid.New(), UserID: recipe.UserID, Name: name}
			err = tx.Create(&tag).Error
		}
		if err != nil {
			return err
		}
		tags = append(tags, tag)
	}

	if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
		return err
	}
	recipe.Tags = tags
	return nil
}
