package quests

import (
	"fmt"

	"github.com/lawnchairsociety/questabletractor/internal/host"
	"github.com/lawnchairsociety/questabletractor/internal/quest"
	"github.com/lawnchairsociety/questabletractor/internal/text"
	"github.com/lawnchairsociety/questabletractor/internal/tractorpart"
)

// Deps are the collaborators every quest is built from.
type Deps struct {
	Store   quest.Store
	Host    host.Host
	Watcher quest.Watcher
	// Text supplies titles, objectives and lines. Nil uses the built-in text.
	Text *text.Text
	// Rand picks fallback tiles and fishing outcomes.
	Rand Rand
}

// Rand is the random source quests draw from. *rand.Rand satisfies it.
type Rand interface {
	tractorpart.Rand
	Float64() float64
}

func stageName(names []string, i int, typ string) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("%s(%d)", typ, i)
}

func objective[S quest.Stage](t *text.Text, kind string) func(quest.Flagged[S]) string {
	return func(v quest.Flagged[S]) string {
		return t.Objective(kind, v.Stage.String())
	}
}

// before reports whether the quest's stage is earlier than s.
func before[S quest.Stage](s S) func(*quest.Controller[S], quest.Event) bool {
	return func(c *quest.Controller[S], _ quest.Event) bool {
		cur, err := c.Stage()
		return err == nil && cur < s
	}
}

// emptyHanded matches talk events where the owner holds nothing.
func emptyHanded[S quest.Stage](_ *quest.Controller[S], ev quest.Event) bool {
	return ev.Item == ""
}

// say shows an NPC line once per session. Outside a live quest the line is
// shown directly.
func say[S quest.Stage](c *quest.Controller[S], npc, line string) {
	if q := c.Quest(); q != nil {
		q.Say(npc, line)
		return
	}
	c.Host().Say(npc, line)
}

// once reports true the first time key is seen by the live quest today.
func once[S quest.Stage](c *quest.Controller[S], key string) bool {
	q := c.Quest()
	return q == nil || q.Once(key)
}

// hasItems reports whether the player carries count of every itemID.
func hasItems(inv host.Inventory, playerID string, want map[string]int) bool {
	for id, n := range want {
		if inv.Count(playerID, id) < n {
			return false
		}
	}
	return true
}

// takeItems removes count of each itemID from the player, but only if the
// player carries all of them.
func takeItems(inv host.Inventory, playerID string, want map[string]int) bool {
	if !hasItems(inv, playerID, want) {
		return false
	}
	for id, n := range want {
		inv.Remove(playerID, id, n)
	}
	return true
}
