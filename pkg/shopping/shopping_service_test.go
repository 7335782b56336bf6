package shopping

import (
	"context"
	"errors"
	"testing"

	"Recipe-Book/domain"
	"Recipe-Book/entities"
	"Recipe-Book/internal/testutils"
	"Recipe-Book/pkg/ingredient"
	"Recipe-Book/pkg/jwt"
	"Recipe-Book/pkg/recipe"
	"Recipe-Book/pkg/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendMail(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type ShoppingServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	service ShoppingService
	recipes recipe.RecipeService
	mailer  *fakeMailer
	user    *entities.User
	ctx     context.Context
}

func (s *ShoppingServiceSuite) SetupTest() {
	s.db = testutils.NewTestDB(s.T())
	s.ctx = context.Background()
	s.mailer = &fakeMailer{}

	ingredientService := ingredient.NewIngredientService(ingredient.NewIngredientRepository(s.db))
	s.recipes = recipe.NewRecipeService(recipe.NewRecipeRepository(s.db), ingredientService, recipe.NewImporter(nil, nil), nil)
	userService := user.NewUserService(user.NewUserRepository(s.db), jwt.NewJWTService("secret"))
	s.service = NewShoppingService(NewShoppingRepository(s.db), ingredientService, s.recipes, userService, s.mailer)
	s.user = testutils.CreateUser(s.T(), s.db)
}

func (s *ShoppingServiceSuite) uid() string {
	return s.user.ID.String()
}

func (s *ShoppingServiceSuite) TestAddItem_LinksCatalogByExactName() {
	milk := testutils.CreateIngredient(s.T(), s.db, s.user.ID, "Milk", "Dairy")

	item, err := s.service.AddItem(s.ctx, domain.AddShoppingItemRequest{Text: "milk", Quantity: "1 gal"}, s.uid())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), milk.ID.String(), item.IngredientID)
	assert.Equal(s.T(), "Dairy", item.Aisle)

	item, err = s.service.AddItem(s.ctx, domain.AddShoppingItemRequest{Text: "milk chocolate", Aisle: "Candy"}, s.uid())
	require.NoError(s.T(), err)
	assert.Empty(s.T(), item.IngredientID)
	assert.Equal(s.T(), "Candy", item.Aisle)
}

func (s *ShoppingServiceSuite) TestAddItem_RejectsForeignReferences() {
	other := testutils.CreateUser(s.T(), s.db)
	foreign := testutils.CreateIngredient(s.T(), s.db, other.ID, "Eggs", "")
	foreignRecipe := testutils.CreateRecipe(s.T(), s.db, other.ID, "1 egg")

	_, err := s.service.AddItem(s.ctx, domain.AddShoppingItemRequest{Text: "eggs", IngredientID: foreign.ID.String()}, s.uid())
	assert.ErrorIs(s.T(), err, domain.ErrUnauthorizedIngredientAccess)

	_, err = s.service.AddItem(s.ctx, domain.AddShoppingItemRequest{Text: "eggs", RecipeID: foreignRecipe.ID.String()}, s.uid())
	assert.ErrorIs(s.T(), err, domain.ErrUnauthorizedRecipeAccess)
}

func (s *ShoppingServiceSuite) TestAddRecipe() {
	testutils.CreateIngredient(s.T(), s.db, s.user.ID, "flour", "Baking")
	r := testutils.CreateRecipe(s.T(), s.db, s.user.ID, "2 cups flour", "1 tsp salt")

	items, err := s.service.AddRecipe(s.ctx, r.ID.String(), s.uid())
	require.NoError(s.T(), err)
	require.Len(s.T(), items, 2)
	assert.Equal(s.T(), "2 cups flour", items[0].Text)
	assert.Equal(s.T(), "Baking", items[0].Aisle)
	assert.Equal(s.T(), r.Title, items[0].RecipeTitle)
	assert.Equal(s.T(), r.ID.String(), items[1].RecipeID)
	assert.Empty(s.T(), items[1].IngredientID)
}

func (s *ShoppingServiceSuite) TestGetList_OrderAndAisleGroups() {
	for _, req := range []domain.AddShoppingItemRequest{
		{Text: "napkins"},
		{Text: "apples", Aisle: "Produce"},
		{Text: "cheese", Aisle: "Dairy"},
		{Text: "pears", Aisle: "produce"},
	} {
		_, err := s.service.AddItem(s.ctx, req, s.uid())
		require.NoError(s.T(), err)
	}

	list, err := s.service.GetList(s.ctx, s.uid())
	require.NoError(s.T(), err)
	require.Len(s.T(), list.Items, 4)

	_, err = s.service.ToggleBought(s.ctx, list.Items[0].ID, s.uid())
	require.NoError(s.T(), err)

	list, err = s.service.GetList(s.ctx, s.uid())
	require.NoError(s.T(), err)

	texts := []string{}
	for _, item := range list.Items {
		texts = append(texts, item.Text)
	}
	assert.Equal(s.T(), []string{"apples", "pears", "napkins", "cheese"}, texts)
	assert.True(s.T(), list.Items[3].Bought)

	aisles := []string{}
	for _, g := range list.Aisles {
		aisles = append(aisles, g.Aisle)
	}
	assert.Equal(s.T(), []string{"Dairy", "Produce", domain.AisleOther}, aisles)
	assert.Len(s.T(), list.Aisles[1].Items, 2)
}

func (s *ShoppingServiceSuite) TestToggleBought() {
	item, err := s.service.AddItem(s.ctx, domain.AddShoppingItemRequest{Text: "bread"}, s.uid())
	require.NoError(s.T(), err)

	toggled, err := s.service.ToggleBought(s.ctx, item.ID, s.uid())
	require.NoError(s.T(), err)
	assert.True(s.T(), toggled.Bought)
	assert.NotNil(s.T(), toggled.BoughtAt)

	toggled, err = s.service.ToggleBought(s.ctx, item.ID, s.uid())
	require.NoError(s.T(), err)
	assert.False(s.T(), toggled.Bought)
	assert.Nil(s.T(), toggled.BoughtAt)

	other := testutils.CreateUser(s.T(), s.db)
	_, err = s.service.ToggleBought(s.ctx, item.ID, other.ID.String())
	assert.ErrorIs(s.T(), err, domain.ErrUnauthorizedShoppingAccess)

	_, err = s.service.ToggleBought(s.ctx, "missing", s.uid())
	assert.ErrorIs(s.T(), err, domain.ErrShoppingItemNotFound)
}

func (s *ShoppingServiceSuite) TestUpdateAisle_PropagatesToIngredient() {
	butter := testutils.CreateIngredient(s.T(), s.db, s.user.ID, "butter", "")

	first, err := s.service.AddItem(s.ctx, domain.AddShoppingItemRequest{Text: "butter"}, s.uid())
	require.NoError(s.T(), err)
	second, err := s.service.AddItem(s.ctx, domain.AddShoppingItemRequest{Text: "Butter"}, s.uid())
	require.NoError(s.T(), err)
	bought, err := s.service.AddItem(s.ctx, domain.AddShoppingItemRequest{Text: "butter"}, s.uid())
	require.NoError(s.T(), err)
	_, err = s.service.ToggleBought(s.ctx, bought.ID, s.uid())
	require.NoError(s.T(), err)

	updated, err := s.service.UpdateAisle(s.ctx, first.ID, domain.UpdateAisleRequest{Aisle: "Dairy"}, s.uid())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Dairy", updated.Aisle)

	var reloaded entities.Ingredient
	require.NoError(s.T(), s.db.First(&reloaded, "id = ?", butter.ID).Error)
	assert.Equal(s.T(), "Dairy", reloaded.Aisle)

	var sibling, boughtItem entities.ShoppingListItem
	require.NoError(s.T(), s.db.First(&sibling, "id = ?", second.ID).Error)
	assert.Equal(s.T(), "Dairy", sibling.Aisle)
	require.NoError(s.T(), s.db.First(&boughtItem, "id = ?", bought.ID).Error)
	assert.Equal(s.T(), "", boughtItem.Aisle)
}

func (s *ShoppingServiceSuite) TestDeleteAndClearBought() {
	keep, err := s.service.AddItem(s.ctx, domain.AddShoppingItemRequest{Text: "rice"}, s.uid())
	require.NoError(s.T(), err)
	gone, err := s.service.AddItem(s.ctx, domain.AddShoppingItemRequest{Text: "beans"}, s.uid())
	require.NoError(s.T(), err)
	done, err := s.service.AddItem(s.ctx, domain.AddShoppingItemRequest{Text: "corn"}, s.uid())
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.service.DeleteItem(s.ctx, gone.ID, s.uid()))
	_, err = s.service.ToggleBought(s.ctx, done.ID, s.uid())
	require.NoError(s.T(), err)

	n, err := s.service.ClearBought(s.ctx, s.uid())
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 1, n)

	list, err := s.service.GetList(s.ctx, s.uid())
	require.NoError(s.T(), err)
	require.Len(s.T(), list.Items, 1)
	assert.Equal(s.T(), keep.ID, list.Items[0].ID)
}

func (s *ShoppingServiceSuite) TestEmailList() {
	assert.ErrorIs(s.T(), s.service.EmailList(s.ctx, s.uid()), domain.ErrEmptyShoppingList)

	_, err := s.service.AddItem(s.ctx, domain.AddShoppingItemRequest{Text: "fish & chips", Quantity: "2", Aisle: "Frozen"}, s.uid())
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.service.EmailList(s.ctx, s.uid()))
	require.Len(s.T(), s.mailer.sent, 1)
	assert.Equal(s.T(), s.user.Email, s.mailer.sent[0].to)
	assert.Contains(s.T(), s.mailer.sent[0].body, "<h3>Frozen</h3>")
	assert.Contains(s.T(), s.mailer.sent[0].body, "2 fish &amp; chips")

	s.mailer.err = errors.New("smtp down")
	assert.Error(s.T(), s.service.EmailList(s.ctx, s.uid()))
}

func TestShoppingServiceSuite(t *testing.T) {
	suite.Run(t, new(ShoppingServiceSuite))
}
