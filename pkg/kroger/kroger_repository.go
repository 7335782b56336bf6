package kroger

import (
	"context"

	"Recipe-Book/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	KrogerRepository interface {
		CreatePurchase(ctx context.Context, purchase *entities.KrogerPurchase) error
		GetPurchases(ctx context.Context, userID string, page, limit int) ([]*entities.KrogerPurchase, int64, error)
		RememberProduct(ctx context.Context, ingredientID uuid.UUID, productID, upc, description string) error
	}

	krogerRepository struct {
		db *gorm.DB
	}
)

func NewKrogerRepository(db *gorm.DB) KrogerRepository {
	return &krogerRepository{
		db: db,
	}
}

func (r *krogerRepository) CreatePurchase(ctx context.Context, purchase *entities.KrogerPurchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *krogerRepository) GetPurchases(ctx context.Context, userID string, page, limit int) ([]*entities.KrogerPurchase, int64, error) {
	var purchases []*entities.KrogerPurchase
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.KrogerPurchase{}).Where("user_id = ?", userID)
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&purchases).Error
	if err != nil {
		return nil, 0, err
	}
	return purchases, count, nil
}

// RememberProduct stores the product as the ingredient's preferred Kroger product.
func (r *krogerRepository) RememberProduct(ctx context.Context, ingredientID uuid.UUID, productID, upc, description string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Ingredient{}).
		Where("id = ?", ingredientID).
		Updates(map[string]any{
			"kroger_product_id":  productID,
			"kroger_upc":         upc,
			"kroger_description": description,
		}).Error
}
