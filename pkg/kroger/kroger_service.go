package kroger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"Recipe-Book/domain"
	"Recipe-Book/entities"
	"Recipe-Book/internal/utils/cache"
	"Recipe-Book/internal/utils/logger"
	"Recipe-Book/pkg/ingredient"
	"Recipe-Book/pkg/jwt"
	"Recipe-Book/pkg/recipe"
	"Recipe-Book/pkg/shopping"
	"Recipe-Book/pkg/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	stateTTL        = 10 * time.Minute
	statePurpose    = "kroger_connect"
	searchCacheTTL  = time.Hour
	defaultPageSize = 10
	maxPageSize     = 50
)

type (
	KrogerService interface {
		AuthorizeURL(ctx context.Context, userID string) (domain.KrogerAuthorizeResponse, error)
		HandleCallback(ctx context.Context, code, state string) error
		Disconnect(ctx context.Context, userID string) error
		// RefreshToken returns a usable user token. Any failure yields false.
		RefreshToken(ctx context.Context, userID string) (*oauth2.Token, bool)
		SearchLocations(ctx context.Context, zipCode string) ([]domain.KrogerLocation, error)
		SearchProducts(ctx context.Context, userID, term string, limit int) ([]domain.KrogerProduct, error)
		AddToCart(ctx context.Context, req domain.AddToCartRequest, userID string) (domain.KrogerPurchaseResponse, error)
		ListPurchases(ctx context.Context, userID string, page, limit int) ([]domain.KrogerPurchaseResponse, int64, error)
	}

	krogerService struct {
		client            Client
		krogerRepository  KrogerRepository
		userRepository    user.UserRepository
		jwtService        jwt.JWTService
		ingredientService ingredient.IngredientService
		recipeService     recipe.RecipeService
		shoppingService   shopping.ShoppingService
		cache             cache.Cache
	}
)

// NewKrogerService accepts a nil client, in which case Kroger calls fail with ErrKrogerNotConfigured.
func NewKrogerService(
	client Client,
	krogerRepository KrogerRepository,
	userRepository user.UserRepository,
	jwtService jwt.JWTService,
	ingredientService ingredient.IngredientService,
	recipeService recipe.RecipeService,
	shoppingService shopping.ShoppingService,
	searchCache cache.Cache,
) KrogerService {
	if searchCache == nil {
		searchCache = cache.NewNoopCache()
	}
	return &krogerService{
		client:            client,
		krogerRepository:  krogerRepository,
		userRepository:    userRepository,
		jwtService:        jwtService,
		ingredientService: ingredientService,
		recipeService:     recipeService,
		shoppingService:   shoppingService,
		cache:             searchCache,
	}
}

func (s *krogerService) AuthorizeURL(ctx context.Context, userID string) (domain.KrogerAuthorizeResponse, error) {
	if s.client == nil {
		return domain.KrogerAuthorizeResponse{}, domain.ErrKrogerNotConfigured
	}

	state, err := s.jwtService.GenerateStateToken(map[string]any{
		"user_id": userID,
		"purpose": statePurpose,
	}, stateTTL)
	if err != nil {
		return domain.KrogerAuthorizeResponse{}, err
	}
	return domain.KrogerAuthorizeResponse{URL: s.client.AuthCodeURL(state)}, nil
}

func (s *krogerService) HandleCallback(ctx context.Context, code, state string) error {
	if s.client == nil {
		return domain.ErrKrogerNotConfigured
	}

	claims, err := s.jwtService.ValidateStateToken(state)
	if err != nil {
		return domain.ErrKrogerStateInvalid
	}
	userID, _ := claims["user_id"].(string)
	if claims["purpose"] != statePurpose || userID == "" {
		return domain.ErrKrogerStateInvalid
	}

	tok, err := s.client.Exchange(ctx, code)
	if err != nil {
		return err
	}

	extras, err := user.LoadOrInitExtras(ctx, s.userRepository, userID)
	if err != nil {
		return err
	}
	storeToken(extras, tok)
	return s.userRepository.SaveExtras(ctx, extras)
}

func (s *krogerService) Disconnect(ctx context.Context, userID string) error {
	extras, err := user.LoadOrInitExtras(ctx, s.userRepository, userID)
	if err != nil {
		return err
	}
	extras.KrogerAccessToken = ""
	extras.KrogerRefreshToken = ""
	extras.KrogerTokenExpiry = nil
	return s.userRepository.SaveExtras(ctx, extras)
}

func (s *krogerService) RefreshToken(ctx context.Context, userID string) (*oauth2.Token, bool) {
	if s.client == nil {
		return nil, false
	}

	extras, err := s.userRepository.GetExtras(ctx, userID)
	if err != nil || extras.KrogerRefreshToken == "" {
		return nil, false
	}

	current := &oauth2.Token{
		AccessToken:  extras.KrogerAccessToken,
		RefreshToken: extras.KrogerRefreshToken,
		TokenType:    "Bearer",
	}
	if extras.KrogerTokenExpiry != nil {
		current.Expiry = *extras.KrogerTokenExpiry
	}

	tok, err := s.client.Refresh(ctx, current)
	if err != nil {
		logger.L().Warn("kroger token refresh failed", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}

	if tok.AccessToken != current.AccessToken {
		storeToken(extras, tok)
		if err := s.userRepository.SaveExtras(ctx, extras); err != nil {
			logger.L().Warn("failed to persist refreshed kroger token", zap.String("user_id", userID), zap.Error(err))
			return nil, false
		}
	}
	return tok, true
}

func (s *krogerService) SearchLocations(ctx context.Context, zipCode string) ([]domain.KrogerLocation, error) {
	if s.client == nil {
		return nil, domain.ErrKrogerNotConfigured
	}
	return s.client.SearchLocations(ctx, strings.TrimSpace(zipCode))
}

// SearchProducts searches at the user's preferred store when one is set.
func (s *krogerService) SearchProducts(ctx context.Context, userID, term string, limit int) ([]domain.KrogerProduct, error) {
	if s.client == nil {
		return nil, domain.ErrKrogerNotConfigured
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	term = strings.TrimSpace(term)

	locationID := ""
	if extras, err := s.userRepository.GetExtras(ctx, userID); err == nil {
		locationID = extras.KrogerLocationID
	}

	key := fmt.Sprintf("kroger:search:%s:%s:%d", locationID, strings.ToLower(term), limit)
	var products []domain.KrogerProduct
	if hit, err := s.cache.Get(ctx, key, &products); err != nil {
		logger.L().Warn("kroger search cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		return products, nil
	}

	products, err := s.client.SearchProducts(ctx, term, locationID, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, products, searchCacheTTL); err != nil {
		logger.L().Warn("kroger search cache write failed", zap.String("key", key), zap.Error(err))
	}
	return products, nil
}

// AddToCart always records a purchase. Kroger failures are stored on the purchase
// as a note with status failed and are not returned as errors.
func (s *krogerService) AddToCart(ctx context.Context, req domain.AddToCartRequest, userID string) (domain.KrogerPurchaseResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.KrogerPurchaseResponse{}, domain.ErrParseUUID
	}

	purchase := &entities.KrogerPurchase{
		ID:          uuid.New(),
		UserID:      userUUID,
		ProductID:   req.ProductID,
		UPC:         req.UPC,
		Description: req.Description,
		Quantity:    req.Quantity,
	}
	if purchase.Quantity <= 0 {
		purchase.Quantity = 1
	}

	if req.IngredientID != "" {
		ing, err := s.ingredientService.GetOwnedIngredient(ctx, req.IngredientID, userID)
		if err != nil {
			return domain.KrogerPurchaseResponse{}, err
		}
		purchase.IngredientID = &ing.ID
	}
	if req.RecipeID != "" {
		r, err := s.recipeService.GetOwnedRecipe(ctx, req.RecipeID, userID)
		if err != nil {
			return domain.KrogerPurchaseResponse{}, err
		}
		purchase.RecipeID = &r.ID
	}
	if req.ShoppingListItemID != "" {
		item, err := s.shoppingService.GetOwnedItem(ctx, req.ShoppingListItemID, userID)
		if err != nil {
			return domain.KrogerPurchaseResponse{}, err
		}
		purchase.ShoppingListItemID = &item.ID
	}

	if note := s.sendToCart(ctx, purchase, userID); note != "" {
		purchase.Status = domain.PurchaseStatusFailed
		purchase.Note = note
	} else {
		purchase.Status = domain.PurchaseStatusAdded
	}

	if err := s.krogerRepository.CreatePurchase(ctx, purchase); err != nil {
		return domain.KrogerPurchaseResponse{}, err
	}

	if purchase.Status == domain.PurchaseStatusAdded {
		s.applyPurchase(ctx, purchase, userID)
	}
	return toPurchaseResponse(purchase), nil
}

// sendToCart returns a human readable note when the cart add did not happen.
func (s *krogerService) sendToCart(ctx context.Context, purchase *entities.KrogerPurchase, userID string) string {
	if s.client == nil {
		return "Kroger integration is not configured on this server."
	}

	tok, ok := s.RefreshToken(ctx, userID)
	if !ok {
		return "Your Kroger account is not connected or the session expired. Reconnect Kroger and try again."
	}

	err := s.client.AddToCart(ctx, tok, []CartItem{{
		UPC:      purchase.UPC,
		Quantity: purchase.Quantity,
		Modality: "PICKUP",
	}})
	if err != nil {
		logger.L().Warn("kroger cart add failed", zap.String("user_id", userID), zap.String("upc", purchase.UPC), zap.Error(err))
		return fmt.Sprintf("Kroger did not accept the item: %v", err)
	}
	return ""
}

func (s *krogerService) applyPurchase(ctx context.Context, purchase *entities.KrogerPurchase, userID string) {
	if purchase.ShoppingListItemID != nil {
		if err := s.shoppingService.MarkBought(ctx, purchase.ShoppingListItemID.String(), userID); err != nil {
			logger.L().Warn("failed to mark shopping item bought", zap.String("purchase_id", purchase.ID.String()), zap.Error(err))
		}
	}
	if purchase.IngredientID != nil {
		err := s.krogerRepository.RememberProduct(ctx, *purchase.IngredientID, purchase.ProductID, purchase.UPC, purchase.Description)
		if err != nil {
			logger.L().Warn("failed to remember kroger product", zap.String("purchase_id", purchase.ID.String()), zap.Error(err))
		}
	}
}

func (s *krogerService) ListPurchases(ctx context.Context, userID string, page, limit int) ([]domain.KrogerPurchaseResponse, int64, error) {
	purchases, count, err := s.krogerRepository.GetPurchases(ctx, userID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.KrogerPurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		res = append(res, toPurchaseResponse(p))
	}
	return res, count, nil
}

func storeToken(extras *entities.UserExtras, tok *oauth2.Token) {
	extras.KrogerAccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		extras.KrogerRefreshToken = tok.RefreshToken
	}
	extras.KrogerTokenExpiry = nil
	if !tok.Expiry.IsZero() {
		expiry := tok.Expiry
		extras.KrogerTokenExpiry = &expiry
	}
}

func toPurchaseResponse(p *entities.KrogerPurchase) domain.KrogerPurchaseResponse {
	res := domain.KrogerPurchaseResponse{
		ID:          p.ID.String(),
		ProductID:   p.ProductID,
		UPC:         p.UPC,
		Description: p.Description,
		Quantity:    p.Quantity,
		Status:      p.Status,
		Note:        p.Note,
		CreatedAt:   p.CreatedAt,
	}
	if p.IngredientID != nil {
		res.IngredientID = p.IngredientID.String()
	}
	if p.RecipeID != nil {
		res.RecipeID = p.RecipeID.String()
	}
	if p.ShoppingListItemID != nil {
		res.ShoppingListItemID = p.ShoppingListItemID.String()
	}
	return res
}
