package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"Recipe-Book/domain"
	"Recipe-Book/entities"
	"Recipe-Book/internal/testutils"
	"Recipe-Book/pkg/ingredient"
	"Recipe-Book/pkg/recipe"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCaller struct {
	args    map[string]any
	err     error
	prompts []string
}

func (f *fakeCaller) CallFunction(_ context.Context, _ string, prompt string, fn *genai.FunctionDeclaration) (map[string]any, error) {
	f.prompts = append(f.prompts, prompt)
	if fn.Name != submitRecipe {
		return nil, errors.New("unexpected function")
	}
	return f.args, f.err
}

func (f *fakeCaller) Close() error { return nil }

func soupArgs() map[string]any {
	return map[string]any{
		"title":    "Tomato Soup",
		"servings": float64(4),
		"ingredient_groups": []any{
			map[string]any{"title": "", "items": []any{"6 tomatoes", "1 onion"}},
		},
		"step_groups": []any{
			map[string]any{"title": "", "steps": []any{"Roast", "Blend"}},
		},
		"tags": []any{"Soup"},
	}
}

func setup(t *testing.T, caller FunctionCaller) (*gorm.DB, AIService, recipe.RecipeService, *entities.User) {
	db := testutils.NewTestDB(t)
	ingredientService := ingredient.NewIngredientService(ingredient.NewIngredientRepository(db))
	recipeService := recipe.NewRecipeService(recipe.NewRecipeRepository(db), ingredientService, recipe.NewImporter(nil, nil), nil)
	return db, NewAIService(caller, recipeService), recipeService, testutils.CreateUser(t, db)
}

func TestGenerateRecipe_DraftOnly(t *testing.T) {
	caller := &fakeCaller{args: soupArgs()}
	db, svc, _, user := setup(t, caller)

	res, err := svc.GenerateRecipe(context.Background(), domain.GenerateRecipeRequest{Prompt: "warm soup", Servings: 4}, user.ID.String())
	require.NoError(t, err)

	assert.Nil(t, res.Recipe)
	assert.Equal(t, "Tomato Soup", res.Draft.Title)
	assert.Equal(t, 4, res.Draft.Servings)
	assert.Equal(t, []string{"6 tomatoes", "1 onion"}, res.Draft.IngredientGroups[0].Items)
	assert.Contains(t, caller.prompts[0], "Serves 4.")

	var count int64
	db.Model(&entities.Recipe{}).Count(&count)
	assert.Zero(t, count)
}

func TestGenerateRecipe_Save(t *testing.T) {
	_, svc, _, user := setup(t, &fakeCaller{args: soupArgs()})

	res, err := svc.GenerateRecipe(context.Background(), domain.GenerateRecipeRequest{Prompt: "soup", Save: true}, user.ID.String())
	require.NoError(t, err)
	require.NotNil(t, res.Recipe)
	assert.True(t, res.Recipe.IsGenerated)
	assert.Equal(t, []string{"Soup"}, res.Recipe.Tags)
}

func TestGenerateRecipe_InvalidResponses(t *testing.T) {
	ctx := context.Background()

	_, svc, _, user := setup(t, &fakeCaller{args: nil})
	_, err := svc.GenerateRecipe(ctx, domain.GenerateRecipeRequest{Prompt: "soup"}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrAIInvalidResponse)

	_, svc, _, user = setup(t, &fakeCaller{args: map[string]any{"title": "", "step_groups": []any{}}})
	_, err = svc.GenerateRecipe(ctx, domain.GenerateRecipeRequest{Prompt: "soup"}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrAIInvalidResponse)

	_, svc, _, user = setup(t, &fakeCaller{args: map[string]any{"title": "x", "servings": "many"}})
	_, err = svc.GenerateRecipe(ctx, domain.GenerateRecipeRequest{Prompt: "soup"}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrAIInvalidResponse)

	_, svc, _, user = setup(t, &fakeCaller{err: errors.New("quota")})
	_, err = svc.GenerateRecipe(ctx, domain.GenerateRecipeRequest{Prompt: "soup"}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrAIInvalidResponse)
}

func TestGenerateRecipe_SaveRejectsInvalidDraft(t *testing.T) {
	ctx := context.Background()

	longTitle := soupArgs()
	longTitle["title"] = strings.Repeat("soup ", 41)
	blankTag := soupArgs()
	blankTag["tags"] = []any{"Soup", ""}
	emptyStep := soupArgs()
	emptyStep["step_groups"] = []any{map[string]any{"steps": []any{"Roast", ""}}}

	for name, args := range map[string]map[string]any{"long title": longTitle, "blank tag": blankTag, "empty step": emptyStep} {
		t.Run(name, func(t *testing.T) {
			db, svc, _, user := setup(t, &fakeCaller{args: args})

			res, err := svc.GenerateRecipe(ctx, domain.GenerateRecipeRequest{Prompt: "soup"}, user.ID.String())
			require.NoError(t, err, "drafts are returned unvalidated when not saved")
			assert.Nil(t, res.Recipe)

			_, err = svc.GenerateRecipe(ctx, domain.GenerateRecipeRequest{Prompt: "soup", Save: true}, user.ID.String())
			assert.ErrorIs(t, err, domain.ErrAIInvalidResponse)

			var count int64
			db.Model(&entities.Recipe{}).Count(&count)
			assert.Zero(t, count)
		})
	}
}

func TestTouchUpRecipe_SaveRejectsInvalidDraft(t *testing.T) {
	args := soupArgs()
	args["title"] = strings.Repeat("x", 201)
	_, svc, recipes, user := setup(t, &fakeCaller{args: args})
	ctx := context.Background()

	original, err := recipes.CreateRecipe(ctx, domain.RecipeRequest{Title: "Soup"}, user.ID.String())
	require.NoError(t, err)

	_, err = svc.TouchUpRecipe(ctx, original.ID, domain.TouchUpRecipeRequest{Save: true}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrAIInvalidResponse)

	stored, err := recipes.GetRecipe(ctx, original.ID, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Soup", stored.Title)
}

func TestGenerateRecipe_Unconfigured(t *testing.T) {
	_, svc, _, user := setup(t, nil)

	_, err := svc.GenerateRecipe(context.Background(), domain.GenerateRecipeRequest{Prompt: "soup"}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrAIUnavailable)
}

func TestTouchUpRecipe(t *testing.T) {
	caller := &fakeCaller{args: soupArgs()}
	db, svc, recipes, user := setup(t, caller)
	ctx := context.Background()

	original, err := recipes.CreateRecipe(ctx, domain.RecipeRequest{
		Title:            "tomatoe soop",
		SourceURL:        "https://example.com/soup",
		IngredientGroups: []domain.IngredientGroupRequest{{Items: []string{"6 tomatoe"}}},
	}, user.ID.String())
	require.NoError(t, err)

	res, err := svc.TouchUpRecipe(ctx, original.ID, domain.TouchUpRecipeRequest{Instructions: "fix spelling"}, user.ID.String())
	require.NoError(t, err)
	assert.Nil(t, res.Recipe)
	assert.Equal(t, "https://example.com/soup", res.Draft.SourceURL)
	assert.Contains(t, caller.prompts[0], "tomatoe soop")
	assert.Contains(t, caller.prompts[0], "fix spelling")

	res, err = svc.TouchUpRecipe(ctx, original.ID, domain.TouchUpRecipeRequest{Save: true}, user.ID.String())
	require.NoError(t, err)
	require.NotNil(t, res.Recipe)
	assert.Equal(t, original.ID, res.Recipe.ID)
	assert.Equal(t, "Tomato Soup", res.Recipe.Title)

	other := testutils.CreateUser(t, db)
	_, err = svc.TouchUpRecipe(ctx, original.ID, domain.TouchUpRecipeRequest{}, other.ID.String())
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)
}

func TestExtractor(t *testing.T) {
	caller := &fakeCaller{args: soupArgs()}

	draft, err := NewExtractor(caller).ExtractRecipe(context.Background(), "Tomato soup page")
	require.NoError(t, err)
	assert.Equal(t, "Tomato Soup", draft.Title)
	assert.Contains(t, caller.prompts[0], "Tomato soup page")
}

func TestRecipeFunctionSchema(t *testing.T) {
	fn := RecipeFunction()
	assert.Equal(t, "submit_recipe", fn.Name)
	assert.Contains(t, fn.Parameters.Required, "title")
	assert.Equal(t, genai.TypeArray, fn.Parameters.Properties["ingredient_groups"].Type)
}
