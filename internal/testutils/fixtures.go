package testutils

import (
	"testing"

	"Recipe-Book/entities"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func CreateUser(t *testing.T, db *gorm.DB) *entities.User {
	t.Helper()

	user := &entities.User{
		ID:       uuid.New(),
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Password: "$2a$10$invalidinvalidinvalidinvalidinvalidinvalidinvalidinv",
		Role:     "user",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateIngredient(t *testing.T, db *gorm.DB, userID uuid.UUID, name, aisle string) *entities.Ingredient {
	t.Helper()

	ingredient := &entities.Ingredient{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		Aisle:  aisle,
	}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

// CreateRecipe stores a recipe with one ingredient group holding the given lines and one step group.
func CreateRecipe(t *testing.T, db *gorm.DB, userID uuid.UUID, lines ...string) *entities.Recipe {
	t.Helper()

	recipeID := uuid.New()
	group := entities.IngredientGroup{ID: uuid.New(), RecipeID: recipeID}
	for i, line := range lines {
		group.Items = append(group.Items, entities.IngredientItem{
			ID:       uuid.New(),
			GroupID:  group.ID,
			Position: i,
			Text:     line,
		})
	}
	steps := entities.StepGroup{ID: uuid.New(), RecipeID: recipeID}
	steps.Steps = []entities.Step{{ID: uuid.New(), GroupID: steps.ID, Text: gofakeit.Sentence(8)}}

	recipe := &entities.Recipe{
		ID:               recipeID,
		UserID:           userID,
		Title:            gofakeit.Dessert(),
		Description:      gofakeit.Sentence(10),
		Servings:         gofakeit.Number(1, 8),
		IngredientGroups: []entities.IngredientGroup{group},
		StepGroups:       []entities.StepGroup{steps},
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}
