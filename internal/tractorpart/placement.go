package tractorpart

import (
	"github.com/lawnchairsociety/questabletractor/internal/host"
	"github.com/lawnchairsociety/questabletractor/internal/logger"
)

// randomPlacementTries bounds the open-tile search on farms with no clumps.
const randomPlacementTries = 1000

// Rand is the random source used to pick a fallback tile. *rand.Rand
// satisfies it.
type Rand interface {
	Intn(n int) int
}

// PlaceBrokenPart hides the broken part on the farm unless it is already
// there. It prefers the bottom-most clump of the preferred kind, then the
// bottom-most clump of any kind, then a random open tile. It reports whether
// the part is on the farm afterwards.
func (c *Controller[S]) PlaceBrokenPart(preferred host.ClumpKind, rng Rand) bool {
	if t, ok := c.host.FindObject(c.brokenPartID); ok {
		logger.Debug("broken part already placed", "quest", c.Kind(), "item", c.brokenPartID, "x", t.X, "y", t.Y)
		return true
	}

	t, ok := FindPlace(c.host, preferred, rng, c.brokenPartID)
	if !ok {
		return false
	}

	c.host.PlaceObject(c.brokenPartID, t)
	logger.Debug("broken part placed", "quest", c.Kind(), "item", c.brokenPartID, "x", t.X, "y", t.Y)
	return true
}

// FindPlace picks the tile to hide itemID on. It is split out of
// PlaceBrokenPart so hosts can preview placements.
func FindPlace(world host.World, preferred host.ClumpKind, rng Rand, itemID string) (host.Tile, bool) {
	clumps := world.Clumps()

	if t, ok := bottomMost(clumps, func(c host.Clump) bool { return c.Kind == preferred }); ok {
		return t, true
	}
	logger.Warning("preferred clump not found", "item", itemID, "clump", int(preferred))

	if t, ok := bottomMost(clumps, func(host.Clump) bool { return true }); ok {
		return t, true
	}
	logger.Warning("farm has no resource clumps to hide under", "item", itemID)

	width, height := world.Size()
	if width > 0 && height > 0 {
		for range randomPlacementTries {
			t := host.Tile{X: rng.Intn(width), Y: rng.Intn(height)}
			if world.CanPlaceAt(t) {
				return t, true
			}
		}
	}

	logger.Error("no place at all to put the broken part", "item", itemID)
	return host.Tile{}, false
}

// bottomMost returns the tile of the matching clump with the largest Y.
// Ties keep the first clump in host order.
func bottomMost(clumps []host.Clump, match func(host.Clump) bool) (host.Tile, bool) {
	var (
		best  host.Tile
		found bool
	)
	for _, c := range clumps {
		if !match(c) {
			continue
		}
		if !found || c.Tile.Y > best.Y {
			best = c.Tile
			found = true
		}
	}
	return best, found
}
