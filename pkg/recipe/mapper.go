package recipe

import (
	"Recipe-Book/domain"
	"Recipe-Book/entities"
)

func toRecipeSummary(recipe *entities.Recipe) domain.RecipeSummary {
	tags := make([]string, 0, len(recipe.Tags))
	for _, tag := range recipe.Tags {
		tags = append(tags, tag.Name)
	}

	summary := domain.RecipeSummary{
		ID:              recipe.ID.String(),
		Title:           recipe.Title,
		Description:     recipe.Description,
		Servings:        recipe.Servings,
		PrepTimeMinutes: recipe.PrepTimeMinutes,
		CookTimeMinutes: recipe.CookTimeMinutes,
		IsGenerated:     recipe.IsGenerated,
		Tags:            tags,
		CreatedAt:       recipe.CreatedAt,
	}
	if len(recipe.Images) > 0 {
		summary.ImageURL = recipe.Images[0].URL
	}
	return summary
}

func ToRecipeDetail(recipe *entities.Recipe) domain.RecipeDetail {
	detail := domain.RecipeDetail{
		RecipeSummary:    toRecipeSummary(recipe),
		SourceURL:        recipe.SourceURL,
		Notes:            recipe.Notes,
		IngredientGroups: make([]domain.IngredientGroupDetail, 0, len(recipe.IngredientGroups)),
		StepGroups:       make([]domain.StepGroupDetail, 0, len(recipe.StepGroups)),
		Images:           make([]domain.ImageResponse, 0, len(recipe.Images)),
		UpdatedAt:        recipe.UpdatedAt,
	}

	for _, g := range recipe.IngredientGroups {
		group := domain.IngredientGroupDetail{
			ID:    g.ID.String(),
			Title: g.Title,
			Items: make([]domain.IngredientItemDetail, 0, len(g.Items)),
		}
		for _, item := range g.Items {
			d := domain.IngredientItemDetail{ID: item.ID.String(), Text: item.Text}
			if item.IngredientID != nil {
				d.IngredientID = item.IngredientID.String()
			}
			if item.Ingredient != nil {
				d.Aisle = item.Ingredient.Aisle
			}
			group.Items = append(group.Items, d)
		}
		detail.IngredientGroups = append(detail.IngredientGroups, group)
	}

	for _, g := range recipe.StepGroups {
		group := domain.StepGroupDetail{
			ID:    g.ID.String(),
			Title: g.Title,
			Steps: make([]domain.StepDetail, 0, len(g.Steps)),
		}
		for _, step := range g.Steps {
			group.Steps = append(group.Steps, domain.StepDetail{ID: step.ID.String(), Text: step.Text})
		}
		detail.StepGroups = append(detail.StepGroups, group)
	}

	for _, image := range recipe.Images {
		detail.Images = append(detail.Images, domain.ImageResponse{
			ID:          image.ID.String(),
			URL:         image.URL,
			ContentType: image.ContentType,
			Position:    image.Position,
		})
	}

	return detail
}

// ToRecipeRequest converts a stored recipe back into its editable shape.
func ToRecipeRequest(recipe *entities.Recipe) domain.RecipeRequest {
	req := domain.RecipeRequest{
		Title:           recipe.Title,
		Description:     recipe.Description,
		SourceURL:       recipe.SourceURL,
		Servings:        recipe.Servings,
		PrepTimeMinutes: recipe.PrepTimeMinutes,
		CookTimeMinutes: recipe.CookTimeMinutes,
		Notes:           recipe.Notes,
		Tags:            make([]string, 0, len(recipe.Tags)),
	}
	for _, g := range recipe.IngredientGroups {
		group := domain.IngredientGroupRequest{Title: g.Title, Items: make([]string, 0, len(g.Items))}
		for _, item := range g.Items {
			group.Items = append(group.Items, item.Text)
		}
		req.IngredientGroups = append(req.IngredientGroups, group)
	}
	for _, g := range recipe.StepGroups {
		group := domain.StepGroupRequest{Title: g.Title, Steps: make([]string, 0, len(g.Steps))}
		for _, step := range g.Steps {
			group.Steps = append(group.Steps, step.Text)
		}
		req.StepGroups = append(req.StepGroups, group)
	}
	for _, tag := range recipe.Tags {
		req.Tags = append(req.Tags, tag.Name)
	}
	return req
}
