package shopping

import (
	"context"
	"time"

	"Recipe-Book/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ShoppingRepository interface {
		CreateItems(ctx context.Context, items []*entities.ShoppingListItem) error
		GetItemByID(ctx context.Context, id string) (*entities.ShoppingListItem, error)
		GetItems(ctx context.Context, userID string) ([]*entities.ShoppingListItem, error)
		GetUnboughtItems(ctx context.Context, userID string) ([]*entities.ShoppingListItem, error)
		SetBought(ctx context.Context, id string, bought bool, at *time.Time) error
		UpdateAisle(ctx context.Context, item *entities.ShoppingListItem, aisle string) error
		DeleteItem(ctx context.Context, id string) error
		DeleteBought(ctx context.Context, userID string) (int64, error)
	}

	shoppingRepository struct {
		db *gorm.DB
	}
)

func NewShoppingRepository(db *gorm.DB) ShoppingRepository {
	return &shoppingRepository{db: db}
}

func (r *shoppingRepository) CreateItems(ctx context.Context, items []*entities.ShoppingListItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Ingredient", "Recipe").Create(&items).Error
}

func (r *shoppingRepository) GetItemByID(ctx context.Context, id string) (*entities.ShoppingListItem, error) {
	var item entities.ShoppingListItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *shoppingRepository) GetItems(ctx context.Context, userID string) ([]*entities.ShoppingListItem, error) {
	var items []*entities.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Preload("Recipe", func(db *gorm.DB) *gorm.DB { return db.Select("id", "title") }).
		Where("user_id = ?", userID).
		Order("bought ASC").
		Order("CASE WHEN aisle = '' THEN 1 ELSE 0 END").
		Order("LOWER(aisle) ASC").
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *shoppingRepository) GetUnboughtItems(ctx context.Context, userID string) ([]*entities.ShoppingListItem, error) {
	var items []*entities.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND bought = ?", userID, false).
		Order("CASE WHEN aisle = '' THEN 1 ELSE 0 END").
		Order("LOWER(aisle) ASC").
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *shoppingRepository) SetBought(ctx context.Context, id string, bought bool, at *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.ShoppingListItem{}).
		Where("id = ?", id).
		Updates(map[string]any{"bought": bought, "bought_at": at}).Error
}

// UpdateAisle sets the item's aisle. A linked ingredient and all of its unbought items follow.
func (r *shoppingRepository) UpdateAisle(ctx context.Context, item *entities.ShoppingListItem, aisle string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.ShoppingListItem{}).Where("id = ?", item.ID).Update("aisle", aisle).Error; err != nil {
			return err
		}
		if item.IngredientID == nil || *item.IngredientID == uuid.Nil {
			return nil
		}

		if err := tx.Model(&entities.Ingredient{}).Where("id = ?", *item.IngredientID).Update("aisle", aisle).Error; err != nil {
			return err
		}
		return tx.Model(&entities.ShoppingListItem{}).
			Where("user_id = ? AND ingredient_id = ? AND bought = ?", item.UserID, *item.IngredientID, false).
			Update("aisle", aisle).Error
	})
}

func (r *shoppingRepository) DeleteItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.ShoppingListItem{}).Error
}

func (r *shoppingRepository) DeleteBought(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ? AND bought = ?", userID, true).Delete(&entities.ShoppingListItem{})
	return res.RowsAffected, res.Error
}
