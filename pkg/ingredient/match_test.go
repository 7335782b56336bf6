package ingredient

import (
	"testing"

	"Recipe-Book/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchIngredient(t *testing.T) {
	catalog := []entities.Ingredient{
		{Name: "Sugar"},
		{Name: "Brown Sugar"},
		{Name: "egg"},
		{Name: "  "},
	}

	t.Run("longest name wins", func(t *testing.T) {
		got := MatchIngredient("1 cup packed brown sugar", catalog)
		require.NotNil(t, got)
		assert.Equal(t, "Brown Sugar", got.Name)
	})

	t.Run("case insensitive", func(t *testing.T) {
		got := MatchIngredient("2 EGGS, beaten", catalog)
		require.NotNil(t, got)
		assert.Equal(t, "egg", got.Name)
	})

	t.Run("no match", func(t *testing.T) {
		assert.Nil(t, MatchIngredient("3 tbsp butter", catalog))
	})

	t.Run("empty catalog", func(t *testing.T) {
		assert.Nil(t, MatchIngredient("salt", nil))
	})
}
