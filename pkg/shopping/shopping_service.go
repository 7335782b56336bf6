package shopping

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"Recipe-Book/domain"
	"Recipe-Book/entities"
	"Recipe-Book/internal/utils/mailing"
	"Recipe-Book/pkg/ingredient"
	"Recipe-Book/pkg/recipe"
	"Recipe-Book/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ShoppingService interface {
		AddItem(ctx context.Context, req domain.AddShoppingItemRequest, userID string) (domain.ShoppingItemResponse, error)
		AddRecipe(ctx context.Context, recipeID string, userID string) ([]domain.ShoppingItemResponse, error)
		GetList(ctx context.Context, userID string) (domain.ShoppingListResponse, error)
		ToggleBought(ctx context.Context, id string, userID string) (domain.ShoppingItemResponse, error)
		MarkBought(ctx context.Context, id string, userID string) error
		UpdateAisle(ctx context.Context, id string, req domain.UpdateAisleRequest, userID string) (domain.ShoppingItemResponse, error)
		DeleteItem(ctx context.Context, id string, userID string) error
		ClearBought(ctx context.Context, userID string) (int64, error)
		EmailList(ctx context.Context, userID string) error

		GetOwnedItem(ctx context.Context, id string, userID string) (*entities.ShoppingListItem, error)
	}

	shoppingService struct {
		shoppingRepository ShoppingRepository
		ingredientService  ingredient.IngredientService
		recipeService      recipe.RecipeService
		userService        user.UserService
		mailer             mailing.Sender
	}
)

func NewShoppingService(
	shoppingRepository ShoppingRepository,
	ingredientService ingredient.IngredientService,
	recipeService recipe.RecipeService,
	userService user.UserService,
	mailer mailing.Sender,
) ShoppingService {
	return &shoppingService{
		shoppingRepository: shoppingRepository,
		ingredientService:  ingredientService,
		recipeService:      recipeService,
		userService:        userService,
		mailer:             mailer,
	}
}

func (s *shoppingService) AddItem(ctx context.Context, req domain.AddShoppingItemRequest, userID string) (domain.ShoppingItemResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ShoppingItemResponse{}, domain.ErrParseUUID
	}

	item := &entities.ShoppingListItem{
		ID:       uuid.New(),
		UserID:   userUUID,
		Text:     strings.TrimSpace(req.Text),
		Quantity: strings.TrimSpace(req.Quantity),
		Aisle:    strings.TrimSpace(req.Aisle),
	}

	var linked *entities.Ingredient
	if req.IngredientID != "" {
		linked, err = s.ingredientService.GetOwnedIngredient(ctx, req.IngredientID, userID)
	} else {
		linked, err = s.ingredientService.FindByName(ctx, userID, item.Text)
	}
	if err != nil {
		return domain.ShoppingItemResponse{}, err
	}
	if linked != nil {
		item.IngredientID = &linked.ID
		if item.Aisle == "" {
			item.Aisle = linked.Aisle
		}
	}

	if req.RecipeID != "" {
		r, err := s.recipeService.GetOwnedRecipe(ctx, req.RecipeID, userID)
		if err != nil {
			return domain.ShoppingItemResponse{}, err
		}
		item.RecipeID = &r.ID
		item.Recipe = r
	}

	if err := s.shoppingRepository.CreateItems(ctx, []*entities.ShoppingListItem{item}); err != nil {
		return domain.ShoppingItemResponse{}, err
	}
	return toItemResponse(item), nil
}

// AddRecipe puts one unbought item on the list for each ingredient line of the recipe.
func (s *shoppingService) AddRecipe(ctx context.Context, recipeID string, userID string) ([]domain.ShoppingItemResponse, error) {
	r, err := s.recipeService.GetOwnedRecipe(ctx, recipeID, userID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.ingredientService.Catalog(ctx, userID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*entities.Ingredient, len(catalog))
	for i := range catalog {
		byID[catalog[i].ID] = &catalog[i]
	}

	var items []*entities.ShoppingListItem
	for _, group := range r.IngredientGroups {
		for _, line := range group.Items {
			item := &entities.ShoppingListItem{
				ID:       uuid.New(),
				UserID:   r.UserID,
				Text:     line.Text,
				RecipeID: &r.ID,
				Recipe:   r,
			}

			var match *entities.Ingredient
			if line.IngredientID != nil {
				match = byID[*line.IngredientID]
			}
			if match == nil {
				match = ingredient.MatchIngredient(line.Text, catalog)
			}
			if match != nil {
				item.IngredientID = &match.ID
				item.Aisle = match.Aisle
			}
			items = append(items, item)
		}
	}

	if err := s.shoppingRepository.CreateItems(ctx, items); err != nil {
		return nil, err
	}

	res := make([]domain.ShoppingItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, toItemResponse(item))
	}
	return res, nil
}

func (s *shoppingService) GetList(ctx context.Context, userID string) (domain.ShoppingListResponse, error) {
	items, err := s.shoppingRepository.GetItems(ctx, userID)
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}

	res := domain.ShoppingListResponse{
		Items:  make([]domain.ShoppingItemResponse, 0, len(items)),
		Aisles: []domain.AisleGroup{},
	}
	for _, item := range items {
		res.Items = append(res.Items, toItemResponse(item))
	}
	res.Aisles = groupByAisle(res.Items)
	return res, nil
}

func (s *shoppingService) ToggleBought(ctx context.Context, id string, userID string) (domain.ShoppingItemResponse, error) {
	item, err := s.GetOwnedItem(ctx, id, userID)
	if err != nil {
		return domain.ShoppingItemResponse{}, err
	}

	item.Bought = !item.Bought
	item.BoughtAt = nil
	if item.Bought {
		now := time.Now()
		item.BoughtAt = &now
	}

	if err := s.shoppingRepository.SetBought(ctx, id, item.Bought, item.BoughtAt); err != nil {
		return domain.ShoppingItemResponse{}, err
	}
	return toItemResponse(item), nil
}

func (s *shoppingService) MarkBought(ctx context.Context, id string, userID string) error {
	item, err := s.GetOwnedItem(ctx, id, userID)
	if err != nil {
		return err
	}
	if item.Bought {
		return nil
	}
	now := time.Now()
	return s.shoppingRepository.SetBought(ctx, id, true, &now)
}

func (s *shoppingService) UpdateAisle(ctx context.Context, id string, req domain.UpdateAisleRequest, userID string) (domain.ShoppingItemResponse, error) {
	item, err := s.GetOwnedItem(ctx, id, userID)
	if err != nil {
		return domain.ShoppingItemResponse{}, err
	}

	aisle := strings.TrimSpace(req.Aisle)
	if err := s.shoppingRepository.UpdateAisle(ctx, item, aisle); err != nil {
		return domain.ShoppingItemResponse{}, err
	}
	item.Aisle = aisle
	return toItemResponse(item), nil
}

func (s *shoppingService) DeleteItem(ctx context.Context, id string, userID string) error {
	if _, err := s.GetOwnedItem(ctx, id, userID); err != nil {
		return err
	}
	return s.shoppingRepository.DeleteItem(ctx, id)
}

func (s *shoppingService) ClearBought(ctx context.Context, userID string) (int64, error) {
	return s.shoppingRepository.DeleteBought(ctx, userID)
}

func (s *shoppingService) EmailList(ctx context.Context, userID string) error {
	u, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	items, err := s.shoppingRepository.GetUnboughtItems(ctx, userID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return domain.ErrEmptyShoppingList
	}

	responses := make([]domain.ShoppingItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, toItemResponse(item))
	}

	if err := s.mailer.SendMail(u.Email, "Your shopping list", renderListEmail(groupByAisle(responses))); err != nil {
		return fmt.Errorf("send shopping list: %w", err)
	}
	return nil
}

func (s *shoppingService) GetOwnedItem(ctx context.Context, id string, userID string) (*entities.ShoppingListItem, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrShoppingItemNotFound
	}

	item, err := s.shoppingRepository.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShoppingItemNotFound
		}
		return nil, err
	}
	if item.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedShoppingAccess
	}
	return item, nil
}

// groupByAisle keeps item order within each aisle. Aisles sort by name with "Other" last.
func groupByAisle(items []domain.ShoppingItemResponse) []domain.AisleGroup {
	index := map[string]int{}
	groups := []domain.AisleGroup{}

	for _, item := range items {
		aisle := item.Aisle
		if aisle == "" {
			aisle = domain.AisleOther
		}
		i, ok := index[strings.ToLower(aisle)]
		if !ok {
			i = len(groups)
			index[strings.ToLower(aisle)] = i
			groups = append(groups, domain.AisleGroup{Aisle: aisle})
		}
		groups[i].Items = append(groups[i].Items, item)
	}

	sort.SliceStable(groups, func(a, b int) bool {
		if groups[a].Aisle == domain.AisleOther || groups[b].Aisle == domain.AisleOther {
			return groups[b].Aisle == domain.AisleOther && groups[a].Aisle != domain.AisleOther
		}
		return strings.ToLower(groups[a].Aisle) < strings.ToLower(groups[b].Aisle)
	})
	return groups
}

func renderListEmail(groups []domain.AisleGroup) string {
	var sb strings.Builder
	sb.WriteString("<h2>Shopping list</h2>")
	for _, group := range groups {
		sb.WriteString("<h3>" + html.EscapeString(group.Aisle) + "</h3><ul>")
		for _, item := range group.Items {
			line := item.Text
			if item.Quantity != "" {
				line = item.Quantity + " " + line
			}
			sb.WriteString("<li>" + html.EscapeString(line) + "</li>")
		}
		sb.WriteString("</ul>")
	}
	return sb.String()
}

func toItemResponse(item *entities.ShoppingListItem) domain.ShoppingItemResponse {
	res := domain.ShoppingItemResponse{
		ID:        item.ID.String(),
		Text:      item.Text,
		Quantity:  item.Quantity,
		Aisle:     item.Aisle,
		Bought:    item.Bought,
		BoughtAt:  item.BoughtAt,
		CreatedAt: item.CreatedAt,
	}
	if item.IngredientID != nil {
		res.IngredientID = item.IngredientID.String()
	}
	if item.RecipeID != nil {
		res.RecipeID = item.RecipeID.String()
	}
	if item.Recipe != nil {
		res.RecipeTitle = item.Recipe.Title
	}
	return res
}
