package domain

import (
	"errors"
	"time"
)

const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// MealTypeOrder ranks meal types within a day.
var MealTypeOrder = map[string]int{
	MealBreakfast: 0,
	MealLunch:     1,
	MealDinner:    2,
	MealSnack:     3,
}

var (
	MessageSuccessAddMeal          = "meal planned successfully"
	MessageSuccessGetMeals         = "success get meal plan"
	MessageSuccessUpdateMeal       = "meal updated successfully"
	MessageSuccessDeleteMeal       = "meal removed successfully"
	MessageSuccessMealPlanShopping = "meal plan ingredients added to shopping list"

	MessageFailedAddMeal          = "failed to plan meal"
	MessageFailedGetMeals         = "failed to get meal plan"
	MessageFailedUpdateMeal       = "failed to update meal"
	MessageFailedDeleteMeal       = "failed to remove meal"
	MessageFailedMealPlanShopping = "failed to add meal plan to shopping list"

	ErrMealNotFound           = errors.New("planned meal not found")
	ErrUnauthorizedMealAccess = errors.New("unauthorized access to planned meal")
	ErrMealNeedsRecipeOrNote  = errors.New("a planned meal needs a recipe or a note")
	ErrInvalidDateRange       = errors.New("invalid date range")
)

type (
	AddMealRequest struct {
		Date     string `json:"date" validate:"required,datetime=2006-01-02"`
		MealType string `json:"meal_type" validate:"required,oneof=breakfast lunch dinner snack"`
		RecipeID string `json:"recipe_id" validate:"omitempty,uuid"`
		Note     string `json:"note" validate:"max=500"`
		Servings int    `json:"servings" validate:"gte=0"`
	}

	UpdateMealRequest struct {
		Date     *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
		MealType *string `json:"meal_type" validate:"omitempty,oneof=breakfast lunch dinner snack"`
		Note     *string `json:"note" validate:"omitempty,max=500"`
		Servings *int    `json:"servings" validate:"omitempty,gte=0"`
	}

	MealRangeRequest struct {
		From string `json:"from" query:"from" validate:"omitempty,datetime=2006-01-02"`
		To   string `json:"to" query:"to" validate:"omitempty,datetime=2006-01-02"`
	}

	PlannedMealResponse struct {
		ID          string    `json:"id"`
		Date        string    `json:"date"`
		MealType    string    `json:"meal_type"`
		RecipeID    string    `json:"recipe_id,omitempty"`
		RecipeTitle string    `json:"recipe_title,omitempty"`
		Note        string    `json:"note"`
		Servings    int       `json:"servings"`
		CreatedAt   time.Time `json:"created_at"`
	}

	MealPlanResponse struct {
		From  string                `json:"from"`
		To    string                `json:"to"`
		Meals []PlannedMealResponse `json:"meals"`
	}

	MealPlanShoppingResponse struct {
		Recipes    int `json:"recipes"`
		ItemsAdded int `json:"items_added"`
	}
)
