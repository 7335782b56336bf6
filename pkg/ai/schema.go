package ai

import (
	"github.com/google/generative-ai-go/genai"
)

const submitRecipe = "submit_recipe"

func stringList(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		Items:       &genai.Schema{Type: genai.TypeString},
	}
}

// RecipeFunction describes the recipe draft the model must return.
func RecipeFunction() *genai.FunctionDeclaration {
	return &genai.FunctionDeclaration{
		Name:        submitRecipe,
		Description: "Submit a complete recipe.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":             {Type: genai.TypeString, Description: "Recipe title"},
				"description":       {Type: genai.TypeString, Description: "One or two sentence summary"},
				"servings":          {Type: genai.TypeInteger},
				"prep_time_minutes": {Type: genai.TypeInteger},
				"cook_time_minutes": {Type: genai.TypeInteger},
				"notes":             {Type: genai.TypeString},
				"ingredient_groups": {
					Type:        genai.TypeArray,
					Description: "Ingredients, grouped by component. Use a single group with an empty title when there is only one.",
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"title": {Type: genai.TypeString},
							"items": stringList("One ingredient per line with quantity and unit, e.g. '2 cups flour'"),
						},
						Required: []string{"items"},
					},
				},
				"step_groups": {
					Type: genai.TypeArray,
					Items: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"title": {Type: genai.TypeString},
							"steps": stringList("Instructions in order, without numbering"),
						},
						Required: []string{"steps"},
					},
				},
				"tags": stringList("Short category tags such as 'Dinner' or 'Vegetarian'"),
			},
			Required: []string{"title", "ingredient_groups", "step_groups"},
		},
	}
}
