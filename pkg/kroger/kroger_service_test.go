package kroger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"Recipe-Book/domain"
	"Recipe-Book/entities"
	"Recipe-Book/internal/testutils"
	"Recipe-Book/internal/utils/cache"
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

var _ cache.Cache = (*memoryCache)(nil)

type memoryCache struct {
	data map[string][]byte
}

func (m *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

type fakeKroger struct {
	server       *httptest.Server
	productCalls atomic.Int32
	lastLocation atomic.Value
	cartAuth     atomic.Value
}

func newFakeKroger(t *testing.T) *fakeKroger {
	f := &fakeKroger{}
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/connect/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.PostForm.Get("grant_type") {
		case "client_credentials":
			_, _ = w.Write([]byte(`{"access_token":"app-token","token_type":"bearer","expires_in":1800}`))
		case "authorization_code":
			if r.PostForm.Get("code") != "good-code" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
				return
			}
			_, _ = w.Write([]byte(`{"access_token":"user-access","refresh_token":"user-refresh","token_type":"bearer","expires_in":1800}`))
		case "refresh_token":
			if r.PostForm.Get("refresh_token") != "user-refresh" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
				return
			}
			_, _ = w.Write([]byte(`{"access_token":"refreshed-access","refresh_token":"user-refresh-2","token_type":"bearer","expires_in":1800}`))
		}
	})

	mux.HandleFunc("/v1/products", func(w http.ResponseWriter, r *http.Request) {
		f.productCalls.Add(1)
		f.lastLocation.Store(r.URL.Query().Get("filter.locationId"))
		if r.Header.Get("Authorization") != "Bearer app-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{
			"productId":"0001111041700","upc":"0001111041700","brand":"Kroger","description":"Kroger 2% Milk",
			"aisleLocations":[{"description":"Dairy"}],
			"images":[{"perspective":"front","sizes":[{"size":"large","url":"https://img.test/l.jpg"},{"size":"medium","url":"https://img.test/m.jpg"}]}],
			"items":[{"size":"1 gal","price":{"regular":3.49,"promo":2.99}}]
		}]}`))
	})

	mux.HandleFunc("/v1/locations", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"locationId":"01400943","name":"Kroger Marketplace","chain":"KROGER",
			"address":{"addressLine1":"1 Main St","city":"Cincinnati","state":"OH","zipCode":"45202"}}]}`))
	})

	mux.HandleFunc("/v1/cart/add", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		f.cartAuth.Store(r.Header.Get("Authorization"))

		var body struct {
			Items []CartItem `json:"items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if len(body.Items) != 1 || body.Items[0].UPC == "rejected" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors":{"reason":"invalid upc"}}`))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

type KrogerServiceSuite struct {
	suite.Suite
	db       *gorm.DB
	fake     *fakeKroger
	users    user.UserRepository
	shopping shopping.ShoppingService
	service  KrogerService
	user     *entities.User
	ctx      context.Context
}

func (s *KrogerServiceSuite) SetupTest() {
	s.db = testutils.NewTestDB(s.T())
	s.ctx = context.Background()
	s.fake = newFakeKroger(s.T())

	client, err := NewClient(ClientConfig{
		ClientID:          "client",
		ClientSecret:      "secret",
		RedirectURL:       "http://localhost:8080/api/v1/kroger/callback",
		BaseURL:           s.fake.server.URL,
		HTTPClient:        s.fake.server.Client(),
		RequestsPerMinute: 6000,
	})
	require.NoError(s.T(), err)

	s.users = user.NewUserRepository(s.db)
	jwtService := jwt.NewJWTService("secret")
	ingredientService := ingredient.NewIngredientService(ingredient.NewIngredientRepository(s.db))
	recipeService := recipe.NewRecipeService(recipe.NewRecipeRepository(s.db), ingredientService, recipe.NewImporter(nil, nil), nil)
	userService := user.NewUserService(s.users, jwtService)
	s.shopping = shopping.NewShoppingService(shopping.NewShoppingRepository(s.db), ingredientService, recipeService, userService, nil)

	s.service = NewKrogerService(client, NewKrogerRepository(s.db), s.users, jwtService,
		ingredientService, recipeService, s.shopping, &memoryCache{data: map[string][]byte{}})
	s.user = testutils.CreateUser(s.T(), s.db)
}

func (s *KrogerServiceSuite) uid() string {
	return s.user.ID.String()
}

func (s *KrogerServiceSuite) connect() {
	auth, err := s.service.AuthorizeURL(s.ctx, s.uid())
	require.NoError(s.T(), err)
	u, err := url.Parse(auth.URL)
	require.NoError(s.T(), err)
	require.NoError(s.T(), s.service.HandleCallback(s.ctx, "good-code", u.Query().Get("state")))
}

func (s *KrogerServiceSuite) TestConnectFlow() {
	auth, err := s.service.AuthorizeURL(s.ctx, s.uid())
	require.NoError(s.T(), err)

	u, err := url.Parse(auth.URL)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "/v1/connect/oauth2/authorize", u.Path)
	assert.Equal(s.T(), "client", u.Query().Get("client_id"))
	assert.Contains(s.T(), u.Query().Get("scope"), "cart.basic:write")
	assert.NotEmpty(s.T(), u.Query().Get("state"))

	require.NoError(s.T(), s.service.HandleCallback(s.ctx, "good-code", u.Query().Get("state")))

	extras, err := s.users.GetExtras(s.ctx, s.uid())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "user-access", extras.KrogerAccessToken)
	assert.Equal(s.T(), "user-refresh", extras.KrogerRefreshToken)
	require.NotNil(s.T(), extras.KrogerTokenExpiry)

	require.NoError(s.T(), s.service.Disconnect(s.ctx, s.uid()))
	extras, err = s.users.GetExtras(s.ctx, s.uid())
	require.NoError(s.T(), err)
	assert.Empty(s.T(), extras.KrogerRefreshToken)
}

func (s *KrogerServiceSuite) TestHandleCallback_Failures() {
	assert.ErrorIs(s.T(), s.service.HandleCallback(s.ctx, "good-code", "not-a-token"), domain.ErrKrogerStateInvalid)

	auth, err := s.service.AuthorizeURL(s.ctx, s.uid())
	require.NoError(s.T(), err)
	u, _ := url.Parse(auth.URL)
	err = s.service.HandleCallback(s.ctx, "bad-code", u.Query().Get("state"))
	assert.ErrorIs(s.T(), err, domain.ErrKrogerRequestFailed)
}

func (s *KrogerServiceSuite) TestRefreshToken() {
	_, ok := s.service.RefreshToken(s.ctx, s.uid())
	assert.False(s.T(), ok)

	s.connect()
	tok, ok := s.service.RefreshToken(s.ctx, s.uid())
	require.True(s.T(), ok)
	assert.Equal(s.T(), "user-access", tok.AccessToken)

	extras, err := s.users.GetExtras(s.ctx, s.uid())
	require.NoError(s.T(), err)
	expired := time.Now().Add(-time.Hour)
	extras.KrogerTokenExpiry = &expired
	require.NoError(s.T(), s.users.SaveExtras(s.ctx, extras))

	tok, ok = s.service.RefreshToken(s.ctx, s.uid())
	require.True(s.T(), ok)
	assert.Equal(s.T(), "refreshed-access", tok.AccessToken)

	extras, err = s.users.GetExtras(s.ctx, s.uid())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "refreshed-access", extras.KrogerAccessToken)
	assert.Equal(s.T(), "user-refresh-2", extras.KrogerRefreshToken)

	extras.KrogerTokenExpiry = &expired
	require.NoError(s.T(), s.users.SaveExtras(s.ctx, extras))
	_, ok = s.service.RefreshToken(s.ctx, s.uid())
	assert.False(s.T(), ok)
}

func (s *KrogerServiceSuite) TestSearchProducts_UsesLocationAndCache() {
	extras, err := user.LoadOrInitExtras(s.ctx, s.users, s.uid())
	require.NoError(s.T(), err)
	extras.KrogerLocationID = "01400943"
	require.NoError(s.T(), s.users.SaveExtras(s.ctx, extras))

	products, err := s.service.SearchProducts(s.ctx, s.uid(), "milk", 5)
	require.NoError(s.T(), err)
	require.Len(s.T(), products, 1)
	assert.Equal(s.T(), "Kroger 2% Milk", products[0].Description)
	assert.Equal(s.T(), "https://img.test/m.jpg", products[0].ImageURL)
	assert.Equal(s.T(), "Dairy", products[0].Aisle)
	assert.Equal(s.T(), 2.99, products[0].PromoPrice)
	assert.Equal(s.T(), "01400943", s.fake.lastLocation.Load())

	_, err = s.service.SearchProducts(s.ctx, s.uid(), "Milk", 5)
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 1, s.fake.productCalls.Load())
}

func (s *KrogerServiceSuite) TestSearchLocations() {
	locations, err := s.service.SearchLocations(s.ctx, "45202")
	require.NoError(s.T(), err)
	require.Len(s.T(), locations, 1)
	assert.Equal(s.T(), "1 Main St, Cincinnati, OH", locations[0].Address)
}

func (s *KrogerServiceSuite) TestAddToCart_Success() {
	s.connect()
	milk := testutils.CreateIngredient(s.T(), s.db, s.user.ID, "milk", "Dairy")
	item, err := s.shopping.AddItem(s.ctx, domain.AddShoppingItemRequest{Text: "milk"}, s.uid())
	require.NoError(s.T(), err)

	purchase, err := s.service.AddToCart(s.ctx, domain.AddToCartRequest{
		ProductID:          "0001111041700",
		UPC:                "0001111041700",
		Description:        "Kroger 2% Milk",
		Quantity:           2,
		IngredientID:       milk.ID.String(),
		ShoppingListItemID: item.ID,
	}, s.uid())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.PurchaseStatusAdded, purchase.Status)
	assert.Empty(s.T(), purchase.Note)
	assert.Equal(s.T(), "Bearer user-access", s.fake.cartAuth.Load())

	var reloaded entities.Ingredient
	require.NoError(s.T(), s.db.First(&reloaded, "id = ?", milk.ID).Error)
	assert.Equal(s.T(), "0001111041700", reloaded.KrogerUPC)
	assert.Equal(s.T(), "Kroger 2% Milk", reloaded.KrogerDescription)

	list, err := s.shopping.GetList(s.ctx, s.uid())
	require.NoError(s.T(), err)
	require.Len(s.T(), list.Items, 1)
	assert.True(s.T(), list.Items[0].Bought)
}

func (s *KrogerServiceSuite) TestAddToCart_FailuresAreRecorded() {
	purchase, err := s.service.AddToCart(s.ctx, domain.AddToCartRequest{ProductID: "1", UPC: "1", Quantity: 1}, s.uid())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.PurchaseStatusFailed, purchase.Status)
	assert.Contains(s.T(), purchase.Note, "not connected")

	s.connect()
	purchase, err = s.service.AddToCart(s.ctx, domain.AddToCartRequest{ProductID: "2", UPC: "rejected", Quantity: 1}, s.uid())
	require.NoError(s.T(), err)
	assert.Equal(s.T(), domain.PurchaseStatusFailed, purchase.Status)
	assert.Contains(s.T(), purchase.Note, "status=400")

	purchases, total, err := s.service.ListPurchases(s.ctx, s.uid(), 1, 10)
	require.NoError(s.T(), err)
	assert.EqualValues(s.T(), 2, total)
	assert.Len(s.T(), purchases, 2)
}

func (s *KrogerServiceSuite) TestAddToCart_RejectsForeignReferences() {
	other := testutils.CreateUser(s.T(), s.db)
	foreign := testutils.CreateIngredient(s.T(), s.db, other.ID, "eggs", "")

	_, err := s.service.AddToCart(s.ctx, domain.AddToCartRequest{ProductID: "1", UPC: "1", Quantity: 1, IngredientID: foreign.ID.String()}, s.uid())
	assert.ErrorIs(s.T(), err, domain.ErrUnauthorizedIngredientAccess)
}

func TestKrogerServiceSuite(t *testing.T) {
	suite.Run(t, new(KrogerServiceSuite))
}

func TestClientRateLimit(t *testing.T) {
	fake := newFakeKroger(t)
	client, err := NewClient(ClientConfig{
		ClientID:          "client",
		ClientSecret:      "secret",
		BaseURL:           fake.server.URL,
		HTTPClient:        fake.server.Client(),
		RequestsPerMinute: 1,
	})
	require.NoError(t, err)

	products, err := client.SearchProducts(context.Background(), "milk", "", 5)
	require.NoError(t, err)
	assert.Len(t, products, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = client.SearchProducts(ctx, "milk", "", 5)
	assert.ErrorIs(t, err, domain.ErrKrogerRequestFailed)
	assert.EqualValues(t, 1, fake.productCalls.Load())
}

func TestNotConfigured(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	assert.ErrorIs(t, err, domain.ErrKrogerNotConfigured)

	service := NewKrogerService(nil, nil, nil, jwt.NewJWTService("secret"), nil, nil, nil, nil)
	_, err = service.SearchProducts(context.Background(), "user", "milk", 5)
	assert.ErrorIs(t, err, domain.ErrKrogerNotConfigured)
	_, err = service.AuthorizeURL(context.Background(), "user")
	assert.ErrorIs(t, err, domain.ErrKrogerNotConfigured)
}
