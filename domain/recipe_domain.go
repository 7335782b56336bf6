package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "recipe deleted successfully"
	MessageSuccessParseText       = "text parsed successfully"
	MessageSuccessImportRecipe    = "recipe imported successfully"

	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"
	MessageFailedParseText       = "failed to parse text"
	MessageFailedImportRecipe    = "failed to import recipe"

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrUnauthorizedRecipeAccess = errors.New("unauthorized access to recipe")
	ErrNoRecipeFound            = errors.New("no recipe found on page")
	ErrFetchRecipePage          = errors.New("failed to fetch recipe page")
	ErrPrivateAddress           = errors.New("refusing to fetch a local or private address")
)

type (
	// RecipeRequest is the editable shape of a recipe, shared by create, update, import and AI drafts.
	RecipeRequest struct {
		Title            string                   `json:"title" validate:"required,max=200"`
		Description      string                   `json:"description"`
		SourceURL        string                   `json:"source_url" validate:"omitempty,url"`
		Servings         int                      `json:"servings" validate:"gte=0"`
		PrepTimeMinutes  int                      `json:"prep_time_minutes" validate:"gte=0"`
		CookTimeMinutes  int                      `json:"cook_time_minutes" validate:"gte=0"`
		Notes            string                   `json:"notes"`
		IngredientGroups []IngredientGroupRequest `json:"ingredient_groups" validate:"dive"`
		StepGroups       []StepGroupRequest       `json:"step_groups" validate:"dive"`
		Tags             []string                 `json:"tags" validate:"dive,required,max=50"`
	}

	IngredientGroupRequest struct {
		Title string   `json:"title"`
		Items []string `json:"items" validate:"dive,required"`
	}

	StepGroupRequest struct {
		Title string   `json:"title"`
		Steps []string `json:"steps" validate:"dive,required"`
	}

	RecipeSummary struct {
		ID              string    `json:"id"`
		Title           string    `json:"title"`
		Description     string    `json:"description"`
		Servings        int       `json:"servings"`
		PrepTimeMinutes int       `json:"prep_time_minutes"`
		CookTimeMinutes int       `json:"cook_time_minutes"`
		IsGenerated     bool      `json:"is_generated"`
		ImageURL        string    `json:"image_url,omitempty"`
		Tags            []string  `json:"tags"`
		CreatedAt       time.Time `json:"created_at"`
	}

	RecipeDetail struct {
		RecipeSummary
		SourceURL        string                  `json:"source_url,omitempty"`
		Notes            string                  `json:"notes"`
		IngredientGroups []IngredientGroupDetail `json:"ingredient_groups"`
		StepGroups       []StepGroupDetail       `json:"step_groups"`
		Images           []ImageResponse         `json:"images"`
		UpdatedAt        time.Time               `json:"updated_at"`
	}

	IngredientGroupDetail struct {
		ID    string                 `json:"id"`
		Title string                 `json:"title"`
		Items []IngredientItemDetail `json:"items"`
	}

	IngredientItemDetail struct {
		ID           string `json:"id"`
		Text         string `json:"text"`
		IngredientID string `json:"ingredient_id,omitempty"`
		Aisle        string `json:"aisle,omitempty"`
	}

	StepGroupDetail struct {
		ID    string       `json:"id"`
		Title string       `json:"title"`
		Steps []StepDetail `json:"steps"`
	}

	StepDetail struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	}

	RecipeListQuery struct {
		Query string
		Tag   string
		Page  int
		Limit int
	}

	ParseTextRequest struct {
		Text string `json:"text" validate:"required"`
	}

	// TextGroup is one header plus its items, as produced by the free-text splitter.
	TextGroup struct {
		Title string   `json:"title"`
		Items []string `json:"items"`
	}

	ImportRecipeRequest struct {
		URL  string `json:"url" validate:"required,http_url"`
		Save bool   `json:"save"`
	}

	ImportRecipeResponse struct {
		Draft  RecipeRequest `json:"draft"`
		Recipe *RecipeDetail `json:"recipe,omitempty"`
		Source string        `json:"source"` // json-ld or ai
	}
)
