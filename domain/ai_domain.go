package domain

import (
	"errors"
)

var (
	MessageSuccessGenerateRecipe = "recipe generated successfully"
	MessageSuccessTouchUpRecipe  = "recipe cleaned up successfully"

	MessageFailedGenerateRecipe = "failed to generate recipe"
	MessageFailedTouchUpRecipe  = "failed to clean up recipe"

	ErrAIUnavailable     = errors.New("ai generation is not configured")
	ErrAIInvalidResponse = errors.New("ai returned an invalid response")
)

type (
	GenerateRecipeRequest struct {
		Prompt   string `json:"prompt" validate:"required,max=2000"`
		Servings int    `json:"servings" validate:"gte=0,lte=50"`
		Save     bool   `json:"save"`
	}

	TouchUpRecipeRequest struct {
		Instructions string `json:"instructions" validate:"max=2000"`
		Save         bool   `json:"save"`
	}

	AIRecipeResponse struct {
		Draft  RecipeRequest `json:"draft"`
		Recipe *RecipeDetail `json:"recipe,omitempty"`
	}
)
