package items

import "fmt"

// ItemType says how the game should register an item.
type ItemType int

const (
	Quest ItemType = iota
	Tool
)

// String returns the string representation of an ItemType
func (t ItemType) String() string {
	switch t {
	case Quest:
		return "quest"
	case Tool:
		return "tool"
	default:
		return "unknown"
	}
}

// MarshalText encodes the type by name.
func (t ItemType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name written by MarshalText.
func (t *ItemType) UnmarshalText(b []byte) error {
	*t = StringToItemType(string(b))
	return nil
}

// StringToItemType converts a string to an ItemType. Unknown types are
// quest objects.
func StringToItemType(typeStr string) ItemType {
	switch typeStr {
	case "tool":
		return Tool
	default:
		return Quest
	}
}

// Item is one custom object the game must know about.
type Item struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        ItemType `json:"type"`
	// Sprite is the index into the mod's sprite sheet.
	Sprite int `json:"sprite"`
	// Price is zero for anything that must not be sold.
	Price int `json:"price"`
}

// NewItem creates a new item with the given properties
func NewItem(id, name, description string, itemType ItemType, sprite int) *Item {
	return &Item{
		ID:          id,
		Name:        name,
		Description: description,
		Type:        itemType,
		Sprite:      sprite,
	}
}

// String returns a formatted string representation of the item
func (i *Item) String() string {
	return fmt.Sprintf("%s (%s, %s)", i.Name, i.Type.String(), i.ID)
}

// IsTool reports whether the game registers the item as a tool rather than
// an object.
func (i *Item) IsTool() bool {
	return i.Type == Tool
}
