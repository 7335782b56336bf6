package mealplan

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"Recipe-Book/domain"
	"Recipe-Book/entities"
	"Recipe-Book/pkg/recipe"
	"Recipe-Book/pkg/shopping"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type (
	MealPlanService interface {
		AddMeal(ctx context.Context, req domain.AddMealRequest, userID string) (domain.PlannedMealResponse, error)
		ListMeals(ctx context.Context, req domain.MealRangeRequest, userID string) (domain.MealPlanResponse, error)
		UpdateMeal(ctx context.Context, id string, req domain.UpdateMealRequest, userID string) (domain.PlannedMealResponse, error)
		DeleteMeal(ctx context.Context, id string, userID string) error
		AddRangeToShoppingList(ctx context.Context, req domain.MealRangeRequest, userID string) (domain.MealPlanShoppingResponse, error)
	}

	mealPlanService struct {
		mealPlanRepository MealPlanRepository
		recipeService      recipe.RecipeService
		shoppingService    shopping.ShoppingService
		now                func() time.Time
	}
)

func NewMealPlanService(mealPlanRepository MealPlanRepository, recipeService recipe.RecipeService, shoppingService shopping.ShoppingService) MealPlanService {
	return &mealPlanService{
		mealPlanRepository: mealPlanRepository,
		recipeService:      recipeService,
		shoppingService:    shoppingService,
		now:                time.Now,
	}
}

func (s *mealPlanService) AddMeal(ctx context.Context, req domain.AddMealRequest, userID string) (domain.PlannedMealResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.PlannedMealResponse{}, domain.ErrParseUUID
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return domain.PlannedMealResponse{}, err
	}

	meal := &entities.PlannedMeal{
		ID:       uuid.New(),
		UserID:   userUUID,
		Date:     date,
		MealType: req.MealType,
		Note:     strings.TrimSpace(req.Note),
		Servings: req.Servings,
	}

	if req.RecipeID != "" {
		r, err := s.recipeService.GetOwnedRecipe(ctx, req.RecipeID, userID)
		if err != nil {
			return domain.PlannedMealResponse{}, err
		}
		meal.RecipeID = &r.ID
		meal.Recipe = r
		if meal.Servings == 0 {
			meal.Servings = r.Servings
		}
	}

	if meal.RecipeID == nil && meal.Note == "" {
		return domain.PlannedMealResponse{}, domain.ErrMealNeedsRecipeOrNote
	}

	if err := s.mealPlanRepository.CreateMeal(ctx, meal); err != nil {
		return domain.PlannedMealResponse{}, err
	}
	return toMealResponse(meal), nil
}

func (s *mealPlanService) ListMeals(ctx context.Context, req domain.MealRangeRequest, userID string) (domain.MealPlanResponse, error) {
	from, to, err := s.resolveRange(req)
	if err != nil {
		return domain.MealPlanResponse{}, err
	}

	meals, err := s.mealPlanRepository.GetMealsInRange(ctx, userID, from, to)
	if err != nil {
		return domain.MealPlanResponse{}, err
	}
	sortMeals(meals)

	res := domain.MealPlanResponse{
		From:  from.Format(dateLayout),
		To:    to.Format(dateLayout),
		Meals: make([]domain.PlannedMealResponse, 0, len(meals)),
	}
	for _, meal := range meals {
		res.Meals = append(res.Meals, toMealResponse(meal))
	}
	return res, nil
}

func (s *mealPlanService) UpdateMeal(ctx context.Context, id string, req domain.UpdateMealRequest, userID string) (domain.PlannedMealResponse, error) {
	meal, err := s.getOwnedMeal(ctx, id, userID)
	if err != nil {
		return domain.PlannedMealResponse{}, err
	}

	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return domain.PlannedMealResponse{}, err
		}
		meal.Date = date
	}
	if req.MealType != nil {
		meal.MealType = *req.MealType
	}
	if req.Note != nil {
		meal.Note = strings.TrimSpace(*req.Note)
	}
	if req.Servings != nil {
		meal.Servings = *req.Servings
	}

	if meal.RecipeID == nil && meal.Note == "" {
		return domain.PlannedMealResponse{}, domain.ErrMealNeedsRecipeOrNote
	}

	if err := s.mealPlanRepository.UpdateMeal(ctx, meal); err != nil {
		return domain.PlannedMealResponse{}, err
	}
	return toMealResponse(meal), nil
}

func (s *mealPlanService) DeleteMeal(ctx context.Context, id string, userID string) error {
	if _, err := s.getOwnedMeal(ctx, id, userID); err != nil {
		return err
	}
	return s.mealPlanRepository.DeleteMeal(ctx, id)
}

// AddRangeToShoppingList adds every distinct recipe planned in the range to the shopping list once.
func (s *mealPlanService) AddRangeToShoppingList(ctx context.Context, req domain.MealRangeRequest, userID string) (domain.MealPlanShoppingResponse, error) {
	from, to, err := s.resolveRange(req)
	if err != nil {
		return domain.MealPlanShoppingResponse{}, err
	}

	meals, err := s.mealPlanRepository.GetMealsInRange(ctx, userID, from, to)
	if err != nil {
		return domain.MealPlanShoppingResponse{}, err
	}
	sortMeals(meals)

	var res domain.MealPlanShoppingResponse
	seen := map[uuid.UUID]bool{}
	for _, meal := range meals {
		if meal.RecipeID == nil || seen[*meal.RecipeID] {
			continue
		}
		seen[*meal.RecipeID] = true

		items, err := s.shoppingService.AddRecipe(ctx, meal.RecipeID.String(), userID)
		if err != nil {
			return res, err
		}
		res.Recipes++
		res.ItemsAdded += len(items)
	}
	return res, nil
}

func (s *mealPlanService) getOwnedMeal(ctx context.Context, id string, userID string) (*entities.PlannedMeal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrMealNotFound
	}

	meal, err := s.mealPlanRepository.GetMealByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMealNotFound
		}
		return nil, err
	}
	if meal.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedMealAccess
	}
	return meal, nil
}

// resolveRange defaults to the Monday..Sunday week containing today. A single bound spans one week.
func (s *mealPlanService) resolveRange(req domain.MealRangeRequest) (time.Time, time.Time, error) {
	var from, to time.Time
	var err error

	if req.From != "" {
		if from, err = parseDate(req.From); err != nil {
			return from, to, err
		}
	}
	if req.To != "" {
		if to, err = parseDate(req.To); err != nil {
			return from, to, err
		}
	}

	switch {
	case from.IsZero() && to.IsZero():
		from = weekStart(s.now())
		to = from.AddDate(0, 0, 6)
	case to.IsZero():
		to = from.AddDate(0, 0, 6)
	case from.IsZero():
		from = to.AddDate(0, 0, -6)
	}

	if to.Before(from) {
		return from, to, domain.ErrInvalidDateRange
	}
	return from, to, nil
}

func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, domain.ErrInvalidDate
	}
	return date, nil
}

func sortMeals(meals []*entities.PlannedMeal) {
	sort.SliceStable(meals, func(i, j int) bool {
		if !meals[i].Date.Equal(meals[j].Date) {
			return meals[i].Date.Before(meals[j].Date)
		}
		return domain.MealTypeOrder[meals[i].MealType] < domain.MealTypeOrder[meals[j].MealType]
	})
}

func toMealResponse(meal *entities.PlannedMeal) domain.PlannedMealResponse {
	res := domain.PlannedMealResponse{
		ID:        meal.ID.String(),
		Date:      meal.Date.Format(dateLayout),
		MealType:  meal.MealType,
		Note:      meal.Note,
		Servings:  meal.Servings,
		CreatedAt: meal.CreatedAt,
	}
	if meal.RecipeID != nil {
		res.RecipeID = meal.RecipeID.String()
	}
	if meal.Recipe != nil {
		res.RecipeTitle = meal.Recipe.Title
	}
	return res
}
