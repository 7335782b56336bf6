package ingredient

import (
	"context"
	"errors"
	"strings"

	"Recipe-Book/domain"
	"Recipe-Book/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	IngredientService interface {
		CreateIngredient(ctx context.Context, req domain.IngredientRequest, userID string) (domain.IngredientResponse, error)
		GetIngredients(ctx context.Context, userID, search string) ([]domain.IngredientResponse, error)
		UpdateIngredient(ctx context.Context, id string, req domain.UpdateIngredientRequest, userID string) (domain.IngredientResponse, error)
		DeleteIngredient(ctx context.Context, id string, userID string) error

		// GetOwnedIngredient loads an ingredient and checks it belongs to userID.
		GetOwnedIngredient(ctx context.Context, id string, userID string) (*entities.Ingredient, error)
		FindByName(ctx context.Context, userID, name string) (*entities.Ingredient, error)
		Catalog(ctx context.Context, userID string) ([]entities.Ingredient, error)
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{
		ingredientRepository: ingredientRepository,
	}
}

func (s *ingredientService) CreateIngredient(ctx context.Context, req domain.IngredientRequest, userID string) (domain.IngredientResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.IngredientResponse{}, domain.ErrParseUUID
	}

	name := strings.TrimSpace(req.Name)
	if err := s.ensureNameFree(ctx, userID, name, ""); err != nil {
		return domain.IngredientResponse{}, err
	}

	ingredient := &entities.Ingredient{
		ID:     uuid.New(),
		UserID: userUUID,
		Name:   name,
		Aisle:  strings.TrimSpace(req.Aisle),
	}
	if err := s.ingredientRepository.CreateIngredient(ctx, ingredient); err != nil {
		return domain.IngredientResponse{}, err
	}
	return ToIngredientResponse(ingredient), nil
}

func (s *ingredientService) GetIngredients(ctx context.Context, userID, search string) ([]domain.IngredientResponse, error) {
	ingredients, err := s.ingredientRepository.GetIngredients(ctx, userID, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}

	res := make([]domain.IngredientResponse, 0, len(ingredients))
	for i := range ingredients {
		res = append(res, ToIngredientResponse(&ingredients[i]))
	}
	return res, nil
}

func (s *ingredientService) UpdateIngredient(ctx context.Context, id string, req domain.UpdateIngredientRequest, userID string) (domain.IngredientResponse, error) {
	ingredient, err := s.GetOwnedIngredient(ctx, id, userID)
	if err != nil {
		return domain.IngredientResponse{}, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if !strings.EqualFold(name, ingredient.Name) {
			if err := s.ensureNameFree(ctx, userID, name, ingredient.ID.String()); err != nil {
				return domain.IngredientResponse{}, err
			}
		}
		ingredient.Name = name
	}
	if req.Aisle != nil {
		ingredient.Aisle = strings.TrimSpace(*req.Aisle)
	}

	if err := s.ingredientRepository.UpdateIngredient(ctx, ingredient); err != nil {
		return domain.IngredientResponse{}, err
	}
	return ToIngredientResponse(ingredient), nil
}

func (s *ingredientService) DeleteIngredient(ctx context.Context, id string, userID string) error {
	if _, err := s.GetOwnedIngredient(ctx, id, userID); err != nil {
		return err
	}
	return s.ingredientRepository.DeleteIngredient(ctx, id)
}

func (s *ingredientService) GetOwnedIngredient(ctx context.Context, id string, userID string) (*entities.Ingredient, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrIngredientNotFound
	}

	ingredient, err := s.ingredientRepository.GetIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrIngredientNotFound
		}
		return nil, err
	}
	if ingredient.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedIngredientAccess
	}
	return ingredient, nil
}

// FindByName returns nil without error when nothing matches.
func (s *ingredientService) FindByName(ctx context.Context, userID, name string) (*entities.Ingredient, error) {
	ingredient, err := s.ingredientRepository.GetIngredientByName(ctx, userID, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ingredient, nil
}

func (s *ingredientService) Catalog(ctx context.Context, userID string) ([]entities.Ingredient, error) {
	return s.ingredientRepository.GetIngredients(ctx, userID, "")
}

func (s *ingredientService) ensureNameFree(ctx context.Context, userID, name, exceptID string) error {
	existing, err := s.ingredientRepository.GetIngredientByName(ctx, userID, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID.String() != exceptID {
		return domain.ErrIngredientExists
	}
	return nil
}

func ToIngredientResponse(ingredient *entities.Ingredient) domain.IngredientResponse {
	return domain.IngredientResponse{
		ID:                ingredient.ID.String(),
		Name:              ingredient.Name,
		Aisle:             ingredient.Aisle,
		KrogerProductID:   ingredient.KrogerProductID,
		KrogerUPC:         ingredient.KrogerUPC,
		KrogerDescription: ingredient.KrogerDescription,
	}
}
