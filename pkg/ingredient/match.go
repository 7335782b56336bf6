package ingredient

import (
	"strings"

	"Recipe-Book/entities"
)

// MatchIngredient returns the catalog entry whose name is the longest case-insensitive
// substring of line, or nil. Ties go to the earlier catalog entry.
func MatchIngredient(line string, catalog []entities.Ingredient) *entities.Ingredient {
	text := strings.ToLower(line)
	var best *entities.Ingredient
	bestLen := 0

	for i := range catalog {
		name := strings.ToLower(strings.TrimSpace(catalog[i].Name))
		if name == "" || len(name) <= bestLen {
			continue
		}
		if strings.Contains(text, name) {
			best = &catalog[i]
			bestLen = len(name)
		}
	}
	return best
}
