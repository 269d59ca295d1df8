// Package tractorpart implements the attachment quest envelope shared by
// the loader, harvester, seeder and waterer: a broken part hidden on the
// farm is picked up, a working replacement eventually turns up, and the
// quest finishes when the working part is carried into the garage.
package tractorpart

import (
	"github.com/lawnchairsociety/questabletractor/internal/host"
	"github.com/lawnchairsociety/questabletractor/internal/inventory"
	"github.com/lawnchairsociety/questabletractor/internal/logger"
	"github.com/lawnchairsociety/questabletractor/internal/quest"
)

// Host is what a part quest needs from the game.
type Host interface {
	quest.Host
	host.Inventory
	host.World
}

// Hooks are the part-specific callbacks. All are optional.
type Hooks[S quest.Stage] struct {
	// Announce replaces the default hold-up animation shown when the broken
	// part is found.
	Announce func(c *Controller[S], playerID string, item inventory.Item)
	// HideStarterItem runs every morning until the broken part is found.
	HideStarterItem func(c *Controller[S])
	// GotWorkingPart runs when the repaired part reaches the owner.
	GotWorkingPart func(q *quest.Quest[S], item inventory.Item)
}

// Config wires a part quest.
type Config[S quest.Stage] struct {
	Kind    string
	Key     string
	Codec   quest.Codec[S]
	Store   quest.Store
	Host    Host
	Watcher quest.Watcher

	BrokenPartID  string
	WorkingPartID string
	// CompleteMessage is shown when the part is installed.
	CompleteMessage string

	Quest quest.Hooks[S]
	Part  Hooks[S]
}

// Controller is a quest controller with the part workflow layered on top.
type Controller[S quest.Stage] struct {
	*quest.Controller[S]

	host            Host
	brokenPartID    string
	workingPartID   string
	completeMessage string
	part            Hooks[S]
}

// New creates a part quest controller.
func New[S quest.Stage](cfg Config[S]) *Controller[S] {
	c := &Controller[S]{
		host:            cfg.Host,
		brokenPartID:    cfg.BrokenPartID,
		workingPartID:   cfg.WorkingPartID,
		completeMessage: cfg.CompleteMessage,
		part:            cfg.Part,
	}

	hooks := cfg.Quest
	onNotStarted := hooks.OnNotStarted
	hooks.OnNotStarted = func(qc *quest.Controller[S]) {
		c.Watch(c.brokenPartID, c.gotBrokenPart)
		if c.part.HideStarterItem != nil {
			c.part.HideStarterItem(c)
		}
		if onNotStarted != nil {
			onNotStarted(qc)
		}
	}

	onQuestStarted := hooks.OnQuestStarted
	hooks.OnQuestStarted = func(q *quest.Quest[S]) {
		c.Watch(c.workingPartID, c.gotWorkingPart)
		if onQuestStarted != nil {
			onQuestStarted(q)
		}
	}

	c.Controller = quest.NewController(quest.Config[S]{
		Kind:    cfg.Kind,
		Key:     cfg.Key,
		Codec:   cfg.Codec,
		Store:   cfg.Store,
		Host:    cfg.Host,
		Watcher: cfg.Watcher,
		Hooks:   hooks,
	})
	return c
}

// BrokenPartID returns the item ID of the broken part.
func (c *Controller[S]) BrokenPartID() string { return c.brokenPartID }

// WorkingPartID returns the item ID of the repaired part.
func (c *Controller[S]) WorkingPartID() string { return c.workingPartID }

// PartHost returns the game host with inventory and world access.
func (c *Controller[S]) PartHost() Host { return c.host }

func (c *Controller[S]) gotBrokenPart(playerID string, item inventory.Item) {
	if st := c.OverallState(); st != quest.NotStarted {
		logger.Warning("broken part found while the quest is already underway", "quest", c.Kind(), "item", item.ID, "state", st.String())
		c.Unwatch(c.brokenPartID)
		return
	}

	if c.part.Announce != nil {
		c.part.Announce(c, playerID, item)
	} else {
		c.host.HoldUpItem(playerID, item.ID, "")
	}

	if err := c.CreateQuestFresh(); err != nil {
		logger.Error("could not start part quest", "quest", c.Kind(), "error", err)
		return
	}
	c.Unwatch(c.brokenPartID)
}

// gotWorkingPart hands the repaired part to the live quest.
func (c *Controller[S]) gotWorkingPart(_ string, item inventory.Item) {
	q := c.Quest()
	if q == nil {
		logger.Warning("working part found when the quest was not active", "quest", c.Kind(), "item", item.ID)
		return
	}

	if c.part.GotWorkingPart != nil {
		c.part.GotWorkingPart(q, item)
	}
	c.Unwatch(c.workingPartID)
}

// CheckHeldItemAgainstGarage finishes the quest when the owner stands in the
// garage holding the working part. It returns true when the quest completed,
// meaning derived unlocks must be recomputed. Any other held item returns
// false straight away.
func (c *Controller[S]) CheckHeldItemAgainstGarage(playerID, heldItem string) bool {
	if heldItem != c.workingPartID {
		return false
	}

	if c.Quest() == nil {
		// The host polls every second while the part is held.
		logger.WarningOnce("working part brought to the garage but the quest is not active", "quest", c.Kind())
		return false
	}

	c.Complete()
	if c.host.Remove(playerID, c.workingPartID, 1) != 1 {
		logger.Warning("installed part was not in the inventory", "quest", c.Kind(), "item", c.workingPartID)
	}
	c.host.ShowMessage(c.completeMessage)
	return true
}
