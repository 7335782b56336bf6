package recipe

import (
	"context"
	"testing"
	"time"

	"Recipe-Book/domain"
	"Recipe-Book/entities"
	"Recipe-Book/internal/testutils"
	"Recipe-Book/pkg/ingredient"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type stubImporter struct {
	draft domain.RecipeRequest
}

func (s stubImporter) Import(_ context.Context, url string) (domain.RecipeRequest, string, error) {
	d := s.draft
	d.SourceURL = url
	return d, SourceJSONLD, nil
}

type RecipeServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	service RecipeService
	user    *entities.User
	ctx     context.Context
}

func (s *RecipeServiceSuite) SetupTest() {
	s.db = testutils.NewTestDB(s.T())
	ingredientService := ingredient.NewIngredientService(ingredient.NewIngredientRepository(s.db))
	importer := stubImporter{draft: domain.RecipeRequest{Title: "Imported", IngredientGroups: []domain.IngredientGroupRequest{{Items: []string{"1 egg"}}}}}
	s.service = NewRecipeService(NewRecipeRepository(s.db), ingredientService, importer, nil)
	s.user = testutils.CreateUser(s.T(), s.db)
	s.ctx = context.Background()
}

func (s *RecipeServiceSuite) userID() string {
	return s.user.ID.String()
}

func sampleRequest() domain.RecipeRequest {
	return domain.RecipeRequest{
		Title:    "Apple Pie",
		Servings: 8,
		IngredientGroups: []domain.IngredientGroupRequest{
			{Title: "Crust", Items: []string{"2 cups flour", "1 cup butter", " "}},
			{Title: "Filling", Items: []string{"6 apples", "1/2 cup brown sugar"}},
			{Title: "Topping", Items: []string{"1 tbsp sugar"}},
		},
		StepGroups: []domain.StepGroupRequest{
			{Title: "Crust", Steps: []string{"Mix", "Chill"}},
			{Title: "Bake", Steps: []string{"Fill", "Bake 45 min"}},
		},
		Tags: []string{"Dessert", "dessert", "Baking"},
	}
}

func (s *RecipeServiceSuite) TestCreateRecipe_PreservesGroupOrder() {
	testutils.CreateIngredient(s.T(), s.db, s.user.ID, "sugar", "Baking")
	brown := testutils.CreateIngredient(s.T(), s.db, s.user.ID, "brown sugar", "Baking")

	detail, err := s.service.CreateRecipe(s.ctx, sampleRequest(), s.userID())
	require.NoError(s.T(), err)

	require.Len(s.T(), detail.IngredientGroups, 3)
	assert.Equal(s.T(), []string{"Crust", "Filling", "Topping"}, []string{
		detail.IngredientGroups[0].Title, detail.IngredientGroups[1].Title, detail.IngredientGroups[2].Title,
	})
	assert.Len(s.T(), detail.IngredientGroups[0].Items, 2)
	assert.Equal(s.T(), "1/2 cup brown sugar", detail.IngredientGroups[1].Items[1].Text)
	assert.Equal(s.T(), brown.ID.String(), detail.IngredientGroups[1].Items[1].IngredientID)
	assert.Equal(s.T(), "Baking", detail.IngredientGroups[1].Items[1].Aisle)
	assert.Empty(s.T(), detail.IngredientGroups[0].Items[0].IngredientID)

	require.Len(s.T(), detail.StepGroups, 2)
	assert.Equal(s.T(), "Bake 45 min", detail.StepGroups[1].Steps[1].Text)

	assert.ElementsMatch(s.T(), []string{"Baking", "Dessert"}, detail.Tags)
	assert.False(s.T(), detail.IsGenerated)
}

func (s *RecipeServiceSuite) TestGetRecipe_Ownership() {
	detail, err := s.service.CreateRecipe(s.ctx, sampleRequest(), s.userID())
	require.NoError(s.T(), err)

	other := testutils.CreateUser(s.T(), s.db)
	_, err = s.service.GetRecipe(s.ctx, detail.ID, other.ID.String())
	assert.ErrorIs(s.T(), err, domain.ErrUnauthorizedRecipeAccess)

	_, err = s.service.GetRecipe(s.ctx, uuid.NewString(), s.userID())
	assert.ErrorIs(s.T(), err, domain.ErrRecipeNotFound)

	_, err = s.service.GetRecipe(s.ctx, "not-a-uuid", s.userID())
	assert.ErrorIs(s.T(), err, domain.ErrRecipeNotFound)
}

func (s *RecipeServiceSuite) TestListRecipes_SearchTagAndPagination() {
	req := sampleRequest()
	_, err := s.service.CreateRecipe(s.ctx, req, s.userID())
	require.NoError(s.T(), err)

	req.Title = "Beef Stew"
	req.Tags = []string{"Dinner"}
	_, err = s.service.CreateRecipe(s.ctx, req, s.userID())
	require.NoError(s.T(), err)

	other := testutils.CreateUser(s.T(), s.db)
	_, err = s.service.CreateRecipe(s.ctx, sampleRequest(), other.ID.String())
	require.NoError(s.T(), err)

	all, total, err := s.service.ListRecipes(s.ctx, domain.RecipeListQuery{}, s.userID())
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 2, total)
	assert.Len(s.T(), all, 2)

	found, total, err := s.service.ListRecipes(s.ctx, domain.RecipeListQuery{Query: "stew"}, s.userID())
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 1, total)
	assert.Equal(s.T(), "Beef Stew", found[0].Title)

	tagged, total, err := s.service.ListRecipes(s.ctx, domain.RecipeListQuery{Tag: "DESSERT"}, s.userID())
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 1, total)
	assert.Equal(s.T(), "Apple Pie", tagged[0].Title)

	page, total, err := s.service.ListRecipes(s.ctx, domain.RecipeListQuery{Page: 2, Limit: 1}, s.userID())
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 2, total)
	assert.Len(s.T(), page, 1)
}

func (s *RecipeServiceSuite) TestUpdateRecipe_ReplacesGroupsAndTags() {
	detail, err := s.service.CreateRecipe(s.ctx, sampleRequest(), s.userID())
	require.NoError(s.T(), err)

	updated, err := s.service.UpdateRecipe(s.ctx, detail.ID, domain.RecipeRequest{
		Title:            "Apple Crumble",
		IngredientGroups: []domain.IngredientGroupRequest{{Items: []string{"4 apples"}}},
		StepGroups:       []domain.StepGroupRequest{{Steps: []string{"Bake"}}},
		Tags:             []string{"Quick"},
	}, s.userID())
	require.NoError(s.T(), err)

	assert.Equal(s.T(), "Apple Crumble", updated.Title)
	require.Len(s.T(), updated.IngredientGroups, 1)
	assert.Equal(s.T(), "4 apples", updated.IngredientGroups[0].Items[0].Text)
	assert.Equal(s.T(), []string{"Quick"}, updated.Tags)

	var items int64
	s.db.Model(&entities.IngredientItem{}).Count(&items)
	assert.EqualValues(s.T(), 1, items)
}

func (s *RecipeServiceSuite) TestDeleteRecipe_RemovesDependents() {
	detail, err := s.service.CreateRecipe(s.ctx, sampleRequest(), s.userID())
	require.NoError(s.T(), err)
	recipeID := uuid.MustParse(detail.ID)

	require.NoError(s.T(), s.db.Create(&entities.ShoppingListItem{ID: uuid.New(), UserID: s.user.ID, Text: "6 apples", RecipeID: &recipeID}).Error)
	require.NoError(s.T(), s.db.Create(&entities.ShoppingListItem{ID: uuid.New(), UserID: s.user.ID, Text: "milk"}).Error)
	require.NoError(s.T(), s.db.Create(&entities.PlannedMeal{ID: uuid.New(), UserID: s.user.ID, Date: time.Now(), MealType: domain.MealDinner, RecipeID: &recipeID}).Error)
	purchase := entities.KrogerPurchase{ID: uuid.New(), UserID: s.user.ID, UPC: "1", Status: domain.PurchaseStatusAdded, RecipeID: &recipeID}
	require.NoError(s.T(), s.db.Create(&purchase).Error)

	other := testutils.CreateUser(s.T(), s.db)
	assert.ErrorIs(s.T(), s.service.DeleteRecipe(s.ctx, detail.ID, other.ID.String()), domain.ErrUnauthorizedRecipeAccess)

	require.NoError(s.T(), s.service.DeleteRecipe(s.ctx, detail.ID, s.userID()))

	counts := map[string]int64{}
	for name, model := range map[string]any{
		"recipes":  &entities.Recipe{},
		"groups":   &entities.IngredientGroup{},
		"items":    &entities.IngredientItem{},
		"steps":    &entities.Step{},
		"shopping": &entities.ShoppingListItem{},
		"meals":    &entities.PlannedMeal{},
	} {
		var n int64
		s.db.Model(model).Count(&n)
		counts[name] = n
	}
	assert.Equal(s.T(), map[string]int64{"recipes": 0, "groups": 0, "items": 0, "steps": 0, "shopping": 1, "meals": 0}, counts)

	var links int64
	s.db.Table("recipe_tags").Count(&links)
	assert.Zero(s.T(), links)

	var kept entities.KrogerPurchase
	require.NoError(s.T(), s.db.First(&kept, "id = ?", purchase.ID).Error)
	assert.Nil(s.T(), kept.RecipeID)
}

func (s *RecipeServiceSuite) TestImportFromURL_Save() {
	res, err := s.service.ImportFromURL(s.ctx, domain.ImportRecipeRequest{URL: "https://example.com/r", Save: false}, s.userID())
	require.NoError(s.T(), err)
	assert.Nil(s.T(), res.Recipe)
	assert.Equal(s.T(), "Imported", res.Draft.Title)

	res, err = s.service.ImportFromURL(s.ctx, domain.ImportRecipeRequest{URL: "https://example.com/r", Save: true}, s.userID())
	require.NoError(s.T(), err)
	require.NotNil(s.T(), res.Recipe)
	assert.Equal(s.T(), "https://example.com/r", res.Recipe.SourceURL)
}

func (s *RecipeServiceSuite) TestSaveDraft_MarksGenerated() {
	detail, err := s.service.SaveDraft(s.ctx, domain.RecipeRequest{Title: "Robot Soup"}, s.userID(), SourceAI)
	require.NoError(s.T(), err)
	assert.True(s.T(), detail.IsGenerated)
	assert.Empty(s.T(), detail.IngredientGroups)
}

func TestRecipeServiceSuite(t *testing.T) {
	suite.Run(t, new(RecipeServiceSuite))
}
