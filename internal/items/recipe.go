package items

import (
	"fmt"
	"strings"
)

// Ingredient is one line of a crafting recipe.
type Ingredient struct {
	ID    string `yaml:"id"`
	Count int    `yaml:"count"`
}

// Recipe is a crafting recipe the game should offer.
type Recipe struct {
	// Category is where the game may craft it ("Field" or "Home").
	Category    string       `yaml:"category"`
	Output      string       `yaml:"output"`
	Ingredients []Ingredient `yaml:"ingredients"`
}

// GameString renders the recipe as the game's slash-separated recipe data:
// "<id> <count> .../<category>/<output>/false/default/".
func (r Recipe) GameString() string {
	parts := make([]string, 0, len(r.Ingredients))
	for _, in := range r.Ingredients {
		parts = append(parts, fmt.Sprintf("%s %d", in.ID, in.Count))
	}
	category := r.Category
	if category == "" {
		category = "Field"
	}
	return fmt.Sprintf("%s/%s/%s/false/default/", strings.Join(parts, " "), category, r.Output)
}
