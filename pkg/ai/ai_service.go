package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"Recipe-Book/domain"
	"Recipe-Book/internal/utils/logger"
	"Recipe-Book/internal/utils/metrics"
	"Recipe-Book/pkg/recipe"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	generateSystem = "You are a recipe developer. Write practical home-cooking recipes with precise quantities. Always answer by calling submit_recipe."
	touchUpSystem  = "You are a recipe editor. Clean up the given recipe: fix typos, normalise quantities and units, split run-on steps, and group ingredients and steps sensibly. Keep the dish the same. Always answer by calling submit_recipe."
	extractSystem  = "You extract recipes from web page text. Copy ingredients and steps faithfully, do not invent anything. Always answer by calling submit_recipe."
)

type (
	AIService interface {
		GenerateRecipe(ctx context.Context, req domain.GenerateRecipeRequest, userID string) (domain.AIRecipeResponse, error)
		TouchUpRecipe(ctx context.Context, recipeID string, req domain.TouchUpRecipeRequest, userID string) (domain.AIRecipeResponse, error)
		ExtractRecipe(ctx context.Context, pageText string) (domain.RecipeRequest, error)
	}

	// Extractor turns page text into a recipe draft. It satisfies recipe.DraftExtractor.
	Extractor struct {
		caller FunctionCaller
	}

	aiService struct {
		caller        FunctionCaller
		extractor     *Extractor
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewExtractor(caller FunctionCaller) *Extractor {
	return &Extractor{caller: caller}
}

// NewAIService wires the AI use cases. caller may be nil, in which case every call fails with ErrAIUnavailable.
func NewAIService(caller FunctionCaller, recipeService recipe.RecipeService) AIService {
	return &aiService{
		caller:        caller,
		extractor:     NewExtractor(caller),
		recipeService: recipeService,
		validator:     validator.New(),
	}
}

func (e *Extractor) ExtractRecipe(ctx context.Context, pageText string) (domain.RecipeRequest, error) {
	prompt := "Extract the recipe from this page:\n\n" + pageText
	return callForRecipe(ctx, e.caller, "extract", extractSystem, prompt)
}

func (s *aiService) ExtractRecipe(ctx context.Context, pageText string) (domain.RecipeRequest, error) {
	return s.extractor.ExtractRecipe(ctx, pageText)
}

func (s *aiService) GenerateRecipe(ctx context.Context, req domain.GenerateRecipeRequest, userID string) (domain.AIRecipeResponse, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if req.Servings > 0 {
		prompt = fmt.Sprintf("%s\n\nServes %d.", prompt, req.Servings)
	}

	draft, err := callForRecipe(ctx, s.caller, "generate", generateSystem, prompt)
	if err != nil {
		return domain.AIRecipeResponse{}, err
	}
	if req.Servings > 0 && draft.Servings == 0 {
		draft.Servings = req.Servings
	}

	res := domain.AIRecipeResponse{Draft: draft}
	if !req.Save {
		return res, nil
	}

	if err := s.checkDraft(draft); err != nil {
		return domain.AIRecipeResponse{}, err
	}
	detail, err := s.recipeService.SaveDraft(ctx, draft, userID, recipe.SourceAI)
	if err != nil {
		return domain.AIRecipeResponse{}, err
	}
	res.Recipe = &detail
	return res, nil
}

func (s *aiService) TouchUpRecipe(ctx context.Context, recipeID string, req domain.TouchUpRecipeRequest, userID string) (domain.AIRecipeResponse, error) {
	existing, err := s.recipeService.GetOwnedRecipe(ctx, recipeID, userID)
	if err != nil {
		return domain.AIRecipeResponse{}, err
	}

	current := recipe.ToRecipeRequest(existing)
	payload, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return domain.AIRecipeResponse{}, err
	}

	prompt := "Recipe:\n" + string(payload)
	if extra := strings.TrimSpace(req.Instructions); extra != "" {
		prompt += "\n\nAdditional instructions: " + extra
	}

	draft, err := callForRecipe(ctx, s.caller, "touch_up", touchUpSystem, prompt)
	if err != nil {
		return domain.AIRecipeResponse{}, err
	}
	draft.SourceURL = current.SourceURL
	if len(draft.Tags) == 0 {
		draft.Tags = current.Tags
	}

	res := domain.AIRecipeResponse{Draft: draft}
	if !req.Save {
		return res, nil
	}

	if err := s.checkDraft(draft); err != nil {
		return domain.AIRecipeResponse{}, err
	}
	detail, err := s.recipeService.UpdateRecipe(ctx, recipeID, draft, userID)
	if err != nil {
		return domain.AIRecipeResponse{}, err
	}
	res.Recipe = &detail
	return res, nil
}

// checkDraft applies the same request rules as a hand-written recipe before a draft is stored.
func (s *aiService) checkDraft(draft domain.RecipeRequest) error {
	if err := s.validator.Struct(draft); err != nil {
		logger.L().Warn("llm draft failed validation", zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrAIInvalidResponse, err)
	}
	return nil
}

func callForRecipe(ctx context.Context, caller FunctionCaller, operation, system, prompt string) (domain.RecipeRequest, error) {
	if caller == nil {
		return domain.RecipeRequest{}, domain.ErrAIUnavailable
	}

	args, err := caller.CallFunction(ctx, system, prompt, RecipeFunction())
	metrics.AIRequestsTotal.WithLabelValues(operation, metrics.Outcome(err)).Inc()
	if err != nil {
		logger.L().Error("llm call failed", zap.String("operation", operation), zap.Error(err))
		return domain.RecipeRequest{}, fmt.Errorf("%w: %v", domain.ErrAIInvalidResponse, err)
	}

	draft, err := decodeDraft(args)
	if err != nil {
		logger.L().Warn("llm returned unusable recipe", zap.String("operation", operation), zap.Error(err))
		return domain.RecipeRequest{}, err
	}
	return draft, nil
}

func decodeDraft(args map[string]any) (domain.RecipeRequest, error) {
	if args == nil {
		return domain.RecipeRequest{}, domain.ErrAIInvalidResponse
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return domain.RecipeRequest{}, fmt.Errorf("%w: %v", domain.ErrAIInvalidResponse, err)
	}

	var draft domain.RecipeRequest
	if err := json.Unmarshal(raw, &draft); err != nil {
		return domain.RecipeRequest{}, fmt.Errorf("%w: %v", domain.ErrAIInvalidResponse, err)
	}
	if strings.TrimSpace(draft.Title) == "" {
		return domain.RecipeRequest{}, domain.ErrAIInvalidResponse
	}
	return draft, nil
}
