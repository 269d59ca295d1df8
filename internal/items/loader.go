package items

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ItemDefinition represents an item definition from the YAML file
type ItemDefinition struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	Sprite      int    `yaml:"sprite"`
	Price       int    `yaml:"price,omitempty"`
}

// ItemsConfig represents the structure of the items YAML file
type ItemsConfig struct {
	Items   map[string]ItemDefinition `yaml:"items"`
	Recipes map[string]Recipe         `yaml:"recipes"`
}

// Default returns the built-in catalog. It panics if the embedded file is
// broken, which a test catches.
func Default() *ItemsConfig {
	var config ItemsConfig
	if err := yaml.Unmarshal(defaultsYAML, &config); err != nil {
		panic(fmt.Sprintf("items: built-in catalog does not parse: %v", err))
	}
	return &config
}

// LoadItemsFromYAML loads item definitions from a YAML file on top of the
// built-in catalog. Entries in the file replace built-in entries with the
// same ID.
func LoadItemsFromYAML(filename string) (*ItemsConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read items file: %w", err)
	}

	var override ItemsConfig
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse items YAML: %w", err)
	}

	config := Default()
	for id, def := range override.Items {
		config.Items[id] = def
	}
	for id, r := range override.Recipes {
		if config.Recipes == nil {
			config.Recipes = make(map[string]Recipe)
		}
		config.Recipes[id] = r
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that every recipe refers to known items.
func (config *ItemsConfig) Validate() error {
	for id, r := range config.Recipes {
		if _, ok := config.Items[r.Output]; !ok {
			return fmt.Errorf("recipe %s: unknown output %q", id, r.Output)
		}
		if len(r.Ingredients) == 0 {
			return fmt.Errorf("recipe %s: no ingredients", id)
		}
		for _, in := range r.Ingredients {
			if in.Count <= 0 {
				return fmt.Errorf("recipe %s: ingredient %s needs a positive count", id, in.ID)
			}
		}
	}
	return nil
}

// CreateItemFromDefinition creates an Item from an ItemDefinition
// The id parameter is the YAML key for this item
func CreateItemFromDefinition(id string, def ItemDefinition) *Item {
	item := NewItem(id, def.Name, def.Description, StringToItemType(def.Type), def.Sprite)
	item.Price = def.Price
	return item
}

// GetItemByID returns an item by its ID
func (config *ItemsConfig) GetItemByID(id string) (*Item, bool) {
	def, exists := config.Items[id]
	if !exists {
		return nil, false
	}
	return CreateItemFromDefinition(id, def), true
}

// All returns every item sorted by ID.
func (config *ItemsConfig) All() []*Item {
	ids := make([]string, 0, len(config.Items))
	for id := range config.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, CreateItemFromDefinition(id, config.Items[id]))
	}
	return out
}

// RecipeStrings returns every recipe in the game's crafting recipe format,
// keyed by recipe ID.
func (config *ItemsConfig) RecipeStrings() map[string]string {
	out := make(map[string]string, len(config.Recipes))
	for id, r := range config.Recipes {
		out[id] = r.GameString()
	}
	return out
}
