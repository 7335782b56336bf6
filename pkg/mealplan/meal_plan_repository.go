package mealplan

import (
	"context"
	"time"

	"Recipe-Book/entities"

	"gorm.io/gorm"
)

type (
	MealPlanRepository interface {
		CreateMeal(ctx context.Context, meal *entities.PlannedMeal) error
		GetMealByID(ctx context.Context, id string) (*entities.PlannedMeal, error)
		GetMealsInRange(ctx context.Context, userID string, from, to time.Time) ([]*entities.PlannedMeal, error)
		UpdateMeal(ctx context.Context, meal *entities.PlannedMeal) error
		DeleteMeal(ctx context.Context, id string) error
	}

	mealPlanRepository struct {
		db *gorm.DB
	}
)

func NewMealPlanRepository(db *gorm.DB) MealPlanRepository {
	return &mealPlanRepository{
		db: db,
	}
}

func (r *mealPlanRepository) CreateMeal(ctx context.Context, meal *entities.PlannedMeal) error {
	return r.db.WithContext(ctx).Omit("Recipe").Create(meal).Error
}

func (r *mealPlanRepository) GetMealByID(ctx context.Context, id string) (*entities.PlannedMeal, error) {
	var meal entities.PlannedMeal
	err := r.db.WithContext(ctx).
		Preload("Recipe", func(db *gorm.DB) *gorm.DB { return db.Select("id", "title") }).
		Where("id = ?", id).
		First(&meal).Error
	if err != nil {
		return nil, err
	}
	return &meal, nil
}

// GetMealsInRange returns meals whose date falls in [from, to], both given as UTC midnights.
func (r *mealPlanRepository) GetMealsInRange(ctx context.Context, userID string, from, to time.Time) ([]*entities.PlannedMeal, error) {
	var meals []*entities.PlannedMeal
	err := r.db.WithContext(ctx).
		Preload("Recipe", func(db *gorm.DB) *gorm.DB { return db.Select("id", "title") }).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").
		Order("created_at ASC").
		Find(&meals).Error
	if err != nil {
		return nil, err
	}
	return meals, nil
}

func (r *mealPlanRepository) UpdateMeal(ctx context.Context, meal *entities.PlannedMeal) error {
	return r.db.WithContext(ctx).
		Model(&entities.PlannedMeal{}).
		Where("id = ?", meal.ID).
		Updates(map[string]any{
			"date":       meal.Date,
			"meal_type":  meal.MealType,
			"note":       meal.Note,
			"servings":   meal.Servings,
			"updated_at": time.Now(),
		}).Error
}

func (r *mealPlanRepository) DeleteMeal(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.PlannedMeal{}).Error
}
