package quests

import (
	"github.com/lawnchairsociety/questabletractor/internal/logger"
	"github.com/lawnchairsociety/questabletractor/internal/quest"
)

// HarpoonStage is a step in borrowing Willy's harpoon.
type HarpoonStage int

const (
	HarpoonGetThePole HarpoonStage = iota
	HarpoonCatchTheBigOne
	HarpoonReturnThePole
)

var harpoonStageNames = []string{
	"GetThePole",
	"CatchTheBigOne",
	"ReturnThePole",
}

func (s HarpoonStage) String() string {
	return stageName(harpoonStageNames, int(s), "HarpoonStage")
}

// HarpoonStages lists every harpoon stage in order.
func HarpoonStages() []HarpoonStage {
	out := make([]HarpoonStage, len(harpoonStageNames))
	for i := range out {
		out[i] = HarpoonStage(i)
	}
	return out
}

// HarpoonWillyHinted is set once Willy has told the owner to come back for
// the harpoon.
const HarpoonWillyHinted quest.Flag = 0

// Harpoon is the loan of Willy's harpoon, needed to haul the waterer out of
// the farm pond.
type Harpoon struct {
	*quest.Controller[HarpoonStage]
	deps Deps
}

// NewHarpoon creates the borrow-harpoon quest.
func NewHarpoon(d Deps) *Harpoon {
	h := &Harpoon{deps: d}
	h.Controller = quest.NewController(quest.Config[HarpoonStage]{
		Kind:    KindHarpoon,
		Key:     KeyBorrowHarpoon,
		Codec:   harpoonCodec,
		Store:   d.Store,
		Host:    d.Host,
		Watcher: d.Watcher,
		Hooks: quest.Hooks[HarpoonStage]{
			Title:     d.Text.Title(KindHarpoon),
			Objective: objective[HarpoonStage](d.Text, KindHarpoon),
			Table:     h.table(),
		},
	})
	return h
}

// StartQuest starts the loan after the owner snags something too big for
// their rod. It does nothing if the quest was ever started.
func (h *Harpoon) StartQuest() {
	if h.OverallState() != quest.NotStarted {
		return
	}
	h.deps.Host.ShowHUD(h.deps.Text.Get("fishing.snag"))
	if err := h.CreateQuestFresh(); err != nil {
		logger.Error("could not start the harpoon quest", "error", err)
	}
}

// LandedTheWaterer moves the loan on to returning the harpoon.
func (h *Harpoon) LandedTheWaterer() {
	if h.Quest() == nil {
		logger.Warning("landed the waterer without borrowing the harpoon")
		return
	}
	h.SetStage(HarpoonReturnThePole)
}

func (h *Harpoon) table() *quest.Table[HarpoonStage] {
	type rule = quest.Rule[HarpoonStage]
	talk := quest.TriggerTalk
	from := func(s ...HarpoonStage) []HarpoonStage { return s }
	hinted := func(c *quest.Controller[HarpoonStage], _ quest.Event) bool { return c.Flag(HarpoonWillyHinted) }

	return quest.NewTable(
		rule{Name: "willy-takes-harpoon", On: talk, From: from(HarpoonReturnThePole), NPC: "Willy", Item: ToolHarpoon,
			Effect: func(c *quest.Controller[HarpoonStage], _ quest.Event) {
				owner := h.deps.Host.OwnerID()
				if h.deps.Host.Remove(owner, ToolHarpoon, 1) != 1 {
					logger.Warning("harpoon returned but it was not in the inventory")
				}
				say(c, "Willy", h.deps.Text.Get("harpoon.willy.return"))
				c.Complete()
			}},
		rule{Name: "willy-lends-harpoon", On: talk, From: from(HarpoonGetThePole), NPC: "Willy", Guard: hinted, To: quest.To(HarpoonCatchTheBigOne),
			Effect: func(c *quest.Controller[HarpoonStage], _ quest.Event) {
				say(c, "Willy", h.deps.Text.Get("harpoon.willy.lend"))
				h.deps.Host.Add(h.deps.Host.OwnerID(), ToolHarpoon, 1)
			}},
		rule{Name: "willy-hints", On: talk, From: from(HarpoonGetThePole), NPC: "Willy",
			Effect: func(c *quest.Controller[HarpoonStage], _ quest.Event) {
				say(c, "Willy", h.deps.Text.Get("harpoon.willy.hint"))
				c.SetFlag(HarpoonWillyHinted, true)
			}},
	)
}
