package migration

import (
	"fmt"

	"Recipe-Book/entities"
	"Recipe-Book/internal/utils/logger"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	}

	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"user extras", &entities.UserExtras{}},
		{"ingredient", &entities.Ingredient{}},
		{"tag", &entities.Tag{}},
		{"recipe", &entities.Recipe{}},
		{"ingredient group", &entities.IngredientGroup{}},
		{"ingredient item", &entities.IngredientItem{}},
		{"step group", &entities.StepGroup{}},
		{"step", &entities.Step{}},
		{"image", &entities.Image{}},
		{"shopping list item", &entities.ShoppingListItem{}},
		{"planned meal", &entities.PlannedMeal{}},
		{"kroger purchase", &entities.KrogerPurchase{}},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", m.name, err)
		}
	}

	logger.L().Info("Database migration complete")
	return nil
}
