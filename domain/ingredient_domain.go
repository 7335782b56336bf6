package domain

import (
	"errors"
)

var (
	MessageSuccessCreateIngredient = "ingredient created successfully"
	MessageSuccessGetIngredients   = "success get ingredients"
	MessageSuccessUpdateIngredient = "ingredient updated successfully"
	MessageSuccessDeleteIngredient = "ingredient deleted successfully"

	MessageFailedCreateIngredient = "failed to create ingredient"
	MessageFailedGetIngredients   = "failed to get ingredients"
	MessageFailedUpdateIngredient = "failed to update ingredient"
	MessageFailedDeleteIngredient = "failed to delete ingredient"

	ErrIngredientNotFound           = errors.New("ingredient not found")
	ErrIngredientExists             = errors.New("ingredient with this name already exists")
	ErrUnauthorizedIngredientAccess = errors.New("unauthorized access to ingredient")
)

type (
	IngredientRequest struct {
		Name  string `json:"name" validate:"required,max=100"`
		Aisle string `json:"aisle" validate:"max=50"`
	}

	UpdateIngredientRequest struct {
		Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
		Aisle *string `json:"aisle" validate:"omitempty,max=50"`
	}

	IngredientResponse struct {
		ID                string `json:"id"`
		Name              string `json:"name"`
		Aisle             string `json:"aisle"`
		KrogerProductID   string `json:"kroger_product_id,omitempty"`
		KrogerUPC         string `json:"kroger_upc,omitempty"`
		KrogerDescription string `json:"kroger_description,omitempty"`
	}
)
