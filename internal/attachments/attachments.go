// Package attachments derives which tractor attachments the tractor mod
// should enable from quest progress.
package attachments

import (
	"fmt"
	"slices"
	"strings"
)

// Tool names a tractor mod standard attachment.
type Tool string

const (
	Axe          Tool = "Axe"
	Fertilizer   Tool = "Fertilizer"
	GrassStarter Tool = "GrassStarter"
	Hoe          Tool = "Hoe"
	MilkPail     Tool = "MilkPail"
	MeleeBlunt   Tool = "MeleeBlunt"
	MeleeDagger  Tool = "MeleeDagger"
	MeleeSword   Tool = "MeleeSword"
	PickAxe      Tool = "PickAxe"
	Scythe       Tool = "Scythe"
	Seeds        Tool = "Seeds"
	Shears       Tool = "Shears"
	Slingshot    Tool = "Slingshot"
	WateringCan  Tool = "WateringCan"
	SeedBagMod   Tool = "SeedBagMod"
)

// AllTools returns every attachment in the order the tractor mod lists them.
func AllTools() []Tool {
	return []Tool{
		Axe, Fertilizer, GrassStarter, Hoe, MilkPail, MeleeBlunt, MeleeDagger, MeleeSword,
		PickAxe, Scythe, Seeds, Shears, Slingshot, WateringCan, SeedBagMod,
	}
}

// IsValid returns true if t is a known attachment.
func (t Tool) IsValid() bool {
	return slices.Contains(AllTools(), t)
}

// ParseTool parses an attachment name, case-insensitive.
func ParseTool(s string) (Tool, error) {
	s = strings.TrimSpace(s)
	for _, t := range AllTools() {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown attachment: %s", s)
}

// Modes the tractor mod turns on for each attachment once it is unlocked.
var enabledModes = map[Tool][]string{
	Axe:          {"CutTreeStumps", "ClearTreeSeeds", "ClearTreeSaplings", "CutBushes", "ClearDebris"},
	Fertilizer:   {"Enable"},
	GrassStarter: {"Enable"},
	Hoe:          {"TillDirt", "ClearWeeds", "HarvestGinger"},
	PickAxe:      {"ClearDebris", "ClearDirt", "ClearWeeds"},
	Scythe:       {"HarvestCrops", "HarvestFlowers", "HarvestGrass", "HarvestForage", "ClearDeadCrops", "ClearWeeds"},
	Seeds:        {"Enable"},
	WateringCan:  {"Enable"},
	SeedBagMod:   {"Enable"},
}

// Progress is the quest progress the unlocks depend on.
type Progress struct {
	// BuildingUnlocked means Robin should offer the garage.
	BuildingUnlocked bool
	TractorUnlocked  bool
	Loader           bool
	Harvester        bool
	Seeder           bool
	Waterer          bool
}

// Setting is one attachment's configuration.
type Setting struct {
	Tool    Tool     `json:"tool"`
	Enabled bool     `json:"enabled"`
	Modes   []string `json:"modes"`
}

// Config is the full tractor mod configuration pushed to the game.
type Config struct {
	BuildingAvailable bool      `json:"building_available"`
	TractorEnabled    bool      `json:"tractor_enabled"`
	Tools             []Setting `json:"tools"`
}

// Compute derives the configuration for p. Tools come back in AllTools order.
func Compute(p Progress) Config {
	unlocked := map[Tool]bool{
		Axe:          p.Loader,
		PickAxe:      p.Loader,
		Scythe:       p.Harvester,
		Seeds:        p.Seeder,
		Fertilizer:   p.Seeder,
		GrassStarter: p.Seeder,
		SeedBagMod:   p.Seeder,
		WateringCan:  p.Waterer,
		Hoe:          p.TractorUnlocked,
	}

	cfg := Config{
		BuildingAvailable: p.BuildingUnlocked,
		TractorEnabled:    p.TractorUnlocked,
	}
	for _, t := range AllTools() {
		s := Setting{Tool: t, Enabled: unlocked[t], Modes: []string{}}
		if s.Enabled {
			s.Modes = slices.Clone(enabledModes[t])
		}
		cfg.Tools = append(cfg.Tools, s)
	}
	return cfg
}

// Enabled reports whether t is turned on.
func (c Config) Enabled(t Tool) bool {
	for _, s := range c.Tools {
		if s.Tool == t {
			return s.Enabled
		}
	}
	return false
}

// Equal reports whether c and o would configure the tractor mod the same way.
func (c Config) Equal(o Config) bool {
	return c.BuildingAvailable == o.BuildingAvailable &&
		c.TractorEnabled == o.TractorEnabled &&
		slices.EqualFunc(c.Tools, o.Tools, func(a, b Setting) bool {
			return a.Tool == b.Tool && a.Enabled == b.Enabled && slices.Equal(a.Modes, b.Modes)
		})
}
