package recipe

import (
	"context"
	"errors"
	"strings"

	"Recipe-Book/domain"
	"Recipe-Book/entities"
	"Recipe-Book/internal/utils/logger"
	"Recipe-Book/internal/utils/metrics"
	"Recipe-Book/internal/utils/storage"
	"Recipe-Book/pkg/ingredient"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	SourceManual = "manual"
	SourceImport = "import"
	SourceAI     = "ai"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.RecipeRequest, userID string) (domain.RecipeDetail, error)
		SaveDraft(ctx context.Context, req domain.RecipeRequest, userID string, source string) (domain.RecipeDetail, error)
		GetRecipe(ctx context.Context, id string, userID string) (domain.RecipeDetail, error)
		GetOwnedRecipe(ctx context.Context, id string, userID string) (*entities.Recipe, error)
		ListRecipes(ctx context.Context, query domain.RecipeListQuery, userID string) ([]domain.RecipeSummary, int64, error)
		UpdateRecipe(ctx context.Context, id string, req domain.RecipeRequest, userID string) (domain.RecipeDetail, error)
		DeleteRecipe(ctx context.Context, id string, userID string) error
		ParseText(text string) []domain.TextGroup
		ImportFromURL(ctx context.Context, req domain.ImportRecipeRequest, userID string) (domain.ImportRecipeResponse, error)
	}

	recipeService struct {
		recipeRepository  RecipeRepository
		ingredientService ingredient.IngredientService
		importer          Importer
		s3                storage.AwsS3
	}
)

// NewRecipeService wires the recipe use cases. s3 may be nil when object storage is not configured.
func NewRecipeService(
	recipeRepository RecipeRepository,
	ingredientService ingredient.IngredientService,
	importer Importer,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:  recipeRepository,
		ingredientService: ingredientService,
		importer:          importer,
		s3:                s3,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.RecipeRequest, userID string) (domain.RecipeDetail, error) {
	return s.SaveDraft(ctx, req, userID, SourceManual)
}

func (s *recipeService) SaveDraft(ctx context.Context, req domain.RecipeRequest, userID string, source string) (domain.RecipeDetail, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeDetail{}, domain.ErrParseUUID
	}

	catalog, err := s.ingredientService.Catalog(ctx, userID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		UserID:      userUUID,
		IsGenerated: source == SourceAI,
	}
	applyRequest(recipe, req, catalog)

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, req.Tags); err != nil {
		return domain.RecipeDetail{}, err
	}
	metrics.RecipesCreatedTotal.WithLabelValues(source).Inc()

	return s.GetRecipe(ctx, recipe.ID.String(), userID)
}

func (s *recipeService) GetRecipe(ctx context.Context, id string, userID string) (domain.RecipeDetail, error) {
	recipe, err := s.GetOwnedRecipe(ctx, id, userID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	return ToRecipeDetail(recipe), nil
}

func (s *recipeService) GetOwnedRecipe(ctx context.Context, id string, userID string) (*entities.Recipe, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrRecipeNotFound
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}

	if recipe.UserID.String() != userID {
		return nil, domain.ErrUnauthorizedRecipeAccess
	}
	return recipe, nil
}

func (s *recipeService) ListRecipes(ctx context.Context, query domain.RecipeListQuery, userID string) ([]domain.RecipeSummary, int64, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 20
	}

	recipes, count, err := s.recipeRepository.GetRecipes(
		ctx, userID, strings.TrimSpace(query.Query), strings.TrimSpace(query.Tag), query.Page, query.Limit,
	)
	if err != nil {
		return nil, 0, err
	}

	res := make([]domain.RecipeSummary, 0, len(recipes))
	for _, recipe := range recipes {
		res = append(res, toRecipeSummary(recipe))
	}
	return res, count, nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id string, req domain.RecipeRequest, userID string) (domain.RecipeDetail, error) {
	recipe, err := s.GetOwnedRecipe(ctx, id, userID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	catalog, err := s.ingredientService.Catalog(ctx, userID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	applyRequest(recipe, req, catalog)
	if err := s.recipeRepository.ReplaceRecipe(ctx, recipe, req.Tags); err != nil {
		return domain.RecipeDetail{}, err
	}

	return s.GetRecipe(ctx, id, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id string, userID string) error {
	if _, err := s.GetOwnedRecipe(ctx, id, userID); err != nil {
		return err
	}

	images, err := s.recipeRepository.DeleteRecipe(ctx, id)
	if err != nil {
		return err
	}

	if s.s3 != nil {
		for _, image := range images {
			if err := s.s3.DeleteFile(ctx, image.ObjectKey); err != nil {
				logger.L().Warn("failed to delete recipe image object",
					zap.String("recipe_id", id),
					zap.String("object_key", image.ObjectKey),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

func (s *recipeService) ParseText(text string) []domain.TextGroup {
	return SplitTextIntoHeaderAndItems(text)
}

func (s *recipeService) ImportFromURL(ctx context.Context, req domain.ImportRecipeRequest, userID string) (domain.ImportRecipeResponse, error) {
	draft, source, err := s.importer.Import(ctx, req.URL)
	if err != nil {
		return domain.ImportRecipeResponse{}, err
	}

	res := domain.ImportRecipeResponse{Draft: draft, Source: source}
	if !req.Save {
		return res, nil
	}

	detail, err := s.SaveDraft(ctx, draft, userID, SourceImport)
	if err != nil {
		return domain.ImportRecipeResponse{}, err
	}
	res.Recipe = &detail
	return res, nil
}

// applyRequest copies req onto recipe, rebuilding groups with fresh ids and positions.
func applyRequest(recipe *entities.Recipe, req domain.RecipeRequest, catalog []entities.Ingredient) {
	recipe.Title = strings.TrimSpace(req.Title)
	recipe.Description = strings.TrimSpace(req.Description)
	recipe.SourceURL = strings.TrimSpace(req.SourceURL)
	recipe.Servings = req.Servings
	recipe.PrepTimeMinutes = req.PrepTimeMinutes
	recipe.CookTimeMinutes = req.CookTimeMinutes
	recipe.Notes = strings.TrimSpace(req.Notes)

	recipe.IngredientGroups = make([]entities.IngredientGroup, 0, len(req.IngredientGroups))
	for i, g := range req.IngredientGroups {
		group := entities.IngredientGroup{
			ID:       uuid.New(),
			RecipeID: recipe.ID,
			Position: i,
			Title:    strings.TrimSpace(g.Title),
		}
		for _, line := range g.Items {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			item := entities.IngredientItem{
				ID:       uuid.New(),
				GroupID:  group.ID,
				Position: len(group.Items),
				Text:     line,
			}
			if match := ingredient.MatchIngredient(line, catalog); match != nil {
				id := match.ID
				item.IngredientID = &id
			}
			group.Items = append(group.Items, item)
		}
		recipe.IngredientGroups = append(recipe.IngredientGroups, group)
	}

	recipe.StepGroups = make([]entities.StepGroup, 0, len(req.StepGroups))
	for i, g := range req.StepGroups {
		group := entities.StepGroup{
			ID:       uuid.New(),
			RecipeID: recipe.ID,
			Position: i,
			Title:    strings.TrimSpace(g.Title),
		}
		for _, text := range g.Steps {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			group.Steps = append(group.Steps, entities.Step{
				ID:       uuid.New(),
				GroupID:  group.ID,
				Position: len(group.Steps),
				Text:     text,
			})
		}
		recipe.StepGroups = append(recipe.StepGroups, group)
	}
}
