package mealplan

import (
	"context"
	"testing"
	"time"

	"Recipe-Book/domain"
	"Recipe-Book/entities"
	"Recipe-Book/internal/testutils"
	"Recipe-Book/pkg/ingredient"
	"Recipe-Book/pkg/jwt"
	"Recipe-Book/pkg/recipe"
	"Recipe-Book/pkg/shopping"
	"Recipe-Book/pkg/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type MealPlanServiceSuite struct {
	suite.Suite
	db       *gorm.DB
	service  *mealPlanService
	shopping shopping.ShoppingService
	user     *entities.User
	ctx      context.Context
}

func (s *MealPlanServiceSuite) SetupTest() {
	s.db = testutils.NewTestDB(s.T())
	s.ctx = context.Background()

	ingredientService := ingredient.NewIngredientService(ingredient.NewIngredientRepository(s.db))
	recipeService := recipe.NewRecipeService(recipe.NewRecipeRepository(s.db), ingredientService, recipe.NewImporter(nil, nil), nil)
	userService := user.NewUserService(user.NewUserRepository(s.db), jwt.NewJWTService("secret"))
	s.shopping = shopping.NewShoppingService(shopping.NewShoppingRepository(s.db), ingredientService, recipeService, userService, nil)

	s.service = NewMealPlanService(NewMealPlanRepository(s.db), recipeService, s.shopping).(*mealPlanService)
	// Wednesday
	s.service.now = func() time.Time { return time.Date(2024, 5, 15, 18, 30, 0, 0, time.UTC) }
	s.user = testutils.CreateUser(s.T(), s.db)
}

func (s *MealPlanServiceSuite) uid() string {
	return s.user.ID.String()
}

func (s *MealPlanServiceSuite) add(date, mealType, recipeID, note string) domain.PlannedMealResponse {
	meal, err := s.service.AddMeal(s.ctx, domain.AddMealRequest{Date: date, MealType: mealType, RecipeID: recipeID, Note: note}, s.uid())
	require.NoError(s.T(), err)
	return meal
}

func (s *MealPlanServiceSuite) TestAddMeal() {
	r := testutils.CreateRecipe(s.T(), s.db, s.user.ID, "1 onion")

	meal := s.add("2024-05-14", domain.MealDinner, r.ID.String(), "")
	assert.Equal(s.T(), "2024-05-14", meal.Date)
	assert.Equal(s.T(), r.Title, meal.RecipeTitle)
	assert.Equal(s.T(), r.Servings, meal.Servings)

	_, err := s.service.AddMeal(s.ctx, domain.AddMealRequest{Date: "2024-05-14", MealType: domain.MealLunch}, s.uid())
	assert.ErrorIs(s.T(), err, domain.ErrMealNeedsRecipeOrNote)

	_, err = s.service.AddMeal(s.ctx, domain.AddMealRequest{Date: "14/05/2024", MealType: domain.MealLunch, Note: "leftovers"}, s.uid())
	assert.ErrorIs(s.T(), err, domain.ErrInvalidDate)

	other := testutils.CreateUser(s.T(), s.db)
	foreign := testutils.CreateRecipe(s.T(), s.db, other.ID)
	_, err = s.service.AddMeal(s.ctx, domain.AddMealRequest{Date: "2024-05-14", MealType: domain.MealLunch, RecipeID: foreign.ID.String()}, s.uid())
	assert.ErrorIs(s.T(), err, domain.ErrUnauthorizedRecipeAccess)
}

func (s *MealPlanServiceSuite) TestListMeals_DefaultWeekAndOrder() {
	s.add("2024-05-13", domain.MealSnack, "", "fruit")
	s.add("2024-05-13", domain.MealBreakfast, "", "oats")
	s.add("2024-05-19", domain.MealDinner, "", "pizza")
	s.add("2024-05-12", domain.MealDinner, "", "last week")
	s.add("2024-05-20", domain.MealLunch, "", "next week")
	s.add("2024-05-15", domain.MealLunch, "", "salad")

	plan, err := s.service.ListMeals(s.ctx, domain.MealRangeRequest{}, s.uid())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "2024-05-13", plan.From)
	assert.Equal(s.T(), "2024-05-19", plan.To)

	notes := []string{}
	for _, meal := range plan.Meals {
		notes = append(notes, meal.Note)
	}
	assert.Equal(s.T(), []string{"oats", "fruit", "salad", "pizza"}, notes)
}

func (s *MealPlanServiceSuite) TestListMeals_Range() {
	s.add("2024-05-01", domain.MealLunch, "", "a")
	s.add("2024-05-03", domain.MealLunch, "", "b")

	plan, err := s.service.ListMeals(s.ctx, domain.MealRangeRequest{From: "2024-05-01", To: "2024-05-02"}, s.uid())
	require.NoError(s.T(), err)
	require.Len(s.T(), plan.Meals, 1)
	assert.Equal(s.T(), "a", plan.Meals[0].Note)

	_, err = s.service.ListMeals(s.ctx, domain.MealRangeRequest{From: "2024-05-03", To: "2024-05-01"}, s.uid())
	assert.ErrorIs(s.T(), err, domain.ErrInvalidDateRange)
}

func (s *MealPlanServiceSuite) TestUpdateAndDeleteMeal() {
	meal := s.add("2024-05-14", domain.MealLunch, "", "soup")

	date, mealType, empty := "2024-05-16", domain.MealDinner, ""
	updated, err := s.service.UpdateMeal(s.ctx, meal.ID, domain.UpdateMealRequest{Date: &date, MealType: &mealType}, s.uid())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "2024-05-16", updated.Date)
	assert.Equal(s.T(), domain.MealDinner, updated.MealType)

	_, err = s.service.UpdateMeal(s.ctx, meal.ID, domain.UpdateMealRequest{Note: &empty}, s.uid())
	assert.ErrorIs(s.T(), err, domain.ErrMealNeedsRecipeOrNote)

	other := testutils.CreateUser(s.T(), s.db)
	assert.ErrorIs(s.T(), s.service.DeleteMeal(s.ctx, meal.ID, other.ID.String()), domain.ErrUnauthorizedMealAccess)

	require.NoError(s.T(), s.service.DeleteMeal(s.ctx, meal.ID, s.uid()))
	assert.ErrorIs(s.T(), s.service.DeleteMeal(s.ctx, meal.ID, s.uid()), domain.ErrMealNotFound)
}

func (s *MealPlanServiceSuite) TestAddRangeToShoppingList_EachRecipeOnce() {
	soup := testutils.CreateRecipe(s.T(), s.db, s.user.ID, "1 carrot", "2 potatoes")
	salad := testutils.CreateRecipe(s.T(), s.db, s.user.ID, "1 lettuce")

	s.add("2024-05-13", domain.MealLunch, soup.ID.String(), "")
	s.add("2024-05-14", domain.MealLunch, soup.ID.String(), "")
	s.add("2024-05-14", domain.MealDinner, salad.ID.String(), "")
	s.add("2024-05-14", domain.MealSnack, "", "crackers")

	res, err := s.service.AddRangeToShoppingList(s.ctx, domain.MealRangeRequest{}, s.uid())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, res.Recipes)
	assert.Equal(s.T(), 3, res.ItemsAdded)

	list, err := s.shopping.GetList(s.ctx, s.uid())
	require.NoError(s.T(), err)
	assert.Len(s.T(), list.Items, 3)
}

func TestWeekStart(t *testing.T) {
	sunday := time.Date(2024, 5, 19, 23, 0, 0, 0, time.UTC)
	monday := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, monday, weekStart(sunday))
	assert.Equal(t, monday, weekStart(monday))
}

func TestMealPlanServiceSuite(t *testing.T) {
	suite.Run(t, new(MealPlanServiceSuite))
}
