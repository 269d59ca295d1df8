package quests

import (
	"fmt"
	"slices"

	"github.com/lawnchairsociety/questabletractor/internal/config"
	"github.com/lawnchairsociety/questabletractor/internal/host"
	"github.com/lawnchairsociety/questabletractor/internal/inventory"
	"github.com/lawnchairsociety/questabletractor/internal/quest"
	"github.com/lawnchairsociety/questabletractor/internal/tractorpart"
)

// WatererStage is a step in fixing the waterer.
type WatererStage int

const (
	WatererNoCluesYet WatererStage = iota
	WatererRobinFingered
	WatererMaruFingered
	WatererGetGoldBars
	WatererWaitForMaruDay1
	WatererWaitForMaruDay2
	WatererInstallPart
)

var watererStageNames = []string{
	"NoCluesYet",
	"RobinFingered",
	"MaruFingered",
	"GetGoldBars",
	"WaitForMaruDay1",
	"WaitForMaruDay2",
	"InstallPart",
}

func (s WatererStage) String() string {
	return stageName(watererStageNames, int(s), "WatererStage")
}

// WatererStages lists every waterer stage in order.
func WatererStages() []WatererStage {
	out := make([]WatererStage, len(watererStageNames))
	for i := range out {
		out[i] = WatererStage(i)
	}
	return out
}

const (
	watererGoldBarCount = 10
	fishingMissLines    = 3
)

// Townsfolk who recognize the waterer and send the owner to Robin.
var watererTownsfolk = []string{
	"Clint", "Lewis", "Pierre", "Abigail", "Pam", "Marnie", "Willy", "Linus", "Gus", "George", "Caroline",
}

// Cast is one fishing attempt by the owner.
type Cast struct {
	PlayerID string
	OnFarm   bool
	// HeldTool is the item ID of the rod in hand.
	HeldTool  string
	TotalDays int
}

// Waterer is the irrigation attachment quest. The busted waterer sits at the
// bottom of the farm pond and can only be landed with Willy's harpoon.
type Waterer struct {
	*tractorpart.Controller[WatererStage]
	deps            Deps
	fishing         config.FishingConfig
	harpoon         *Harpoon
	tractorUnlocked func() bool
}

// NewWaterer creates the waterer quest.
func NewWaterer(d Deps, fishing config.FishingConfig, harpoon *Harpoon, tractorUnlocked func() bool) *Waterer {
	w := &Waterer{deps: d, fishing: fishing, harpoon: harpoon, tractorUnlocked: tractorUnlocked}
	w.Controller = tractorpart.New(tractorpart.Config[WatererStage]{
		Kind:            KindWaterer,
		Key:             KeyWaterer,
		Codec:           watererCodec,
		Store:           d.Store,
		Host:            d.Host,
		Watcher:         d.Watcher,
		BrokenPartID:    ObjBustedWaterer,
		WorkingPartID:   ObjWorkingWaterer,
		CompleteMessage: d.Text.Get("waterer.complete"),
		Quest: quest.Hooks[WatererStage]{
			Title:     d.Text.Title(KindWaterer),
			Objective: objective[WatererStage](d.Text, KindWaterer),
			HintTopic: TopicWatererNotFound,
			Table:     w.table(),
		},
		Part: tractorpart.Hooks[WatererStage]{
			// It came out of a pond on a line; holding it up would look silly.
			Announce: func(*tractorpart.Controller[WatererStage], string, inventory.Item) {
				d.Host.ShowMessage(d.Text.Get("waterer.found"))
			},
			GotWorkingPart: func(q *quest.Quest[WatererStage], _ inventory.Item) {
				d.Host.ShowMessage(d.Text.Get("waterer.got_working"))
				q.SetStage(WatererInstallPart)
			},
		},
	})
	return w
}

// CatchChance is today's chance of snagging the waterer on an ordinary
// rod. It is zero once the waterer has been landed.
func (w *Waterer) CatchChance(totalDays int) float64 {
	if w.OverallState() != quest.NotStarted {
		return 0
	}
	if w.tractorUnlocked != nil && w.tractorUnlocked() {
		return w.fishing.BaseChance + float64(totalDays)/w.fishing.DaysDivisor
	}
	return w.fishing.BaseChance
}

// RollCatch decides whether a cast on the farm pulls up something for the
// waterer quest. It returns the item to hand the player in place of the
// game's own catch, or false to leave the catch alone.
func (w *Waterer) RollCatch(cast Cast) (string, bool) {
	if !cast.OnFarm {
		return "", false
	}

	chance := w.CatchChance(cast.TotalDays)
	h := w.deps.Host
	rng := w.deps.Rand

	if cast.HeldTool == ToolHarpoon && chance > 0 {
		if rng.Float64() < w.fishing.HarpoonChance {
			h.PlaySound(host.SoundBigCatch)
			w.harpoon.LandedTheWaterer()
			return ObjBustedWaterer, true
		}
		h.PlaySound(host.SoundClank)
		h.ShowHUD(w.deps.Text.Get(fmt.Sprintf("fishing.miss.%d", rng.Intn(fishingMissLines))))
		return ItemFishingJunk, true
	}

	if rng.Float64() < chance {
		w.harpoon.StartQuest()
		return ItemFishingJunk, true
	}
	return "", false
}

func (w *Waterer) line(npc, key string) func(*quest.Controller[WatererStage], quest.Event) {
	return func(c *quest.Controller[WatererStage], _ quest.Event) {
		say(c, npc, w.deps.Text.Get(key))
	}
}

// pointed says key and moves the quest to s unless it is already past it.
func (w *Waterer) pointed(key string, s WatererStage) func(*quest.Controller[WatererStage], quest.Event) {
	return func(c *quest.Controller[WatererStage], ev quest.Event) {
		say(c, ev.NPC, w.deps.Text.Get(key))
		if cur, err := c.Stage(); err == nil && cur < s {
			c.SetStage(s)
		}
	}
}

func (w *Waterer) table() *quest.Table[WatererStage] {
	type rule = quest.Rule[WatererStage]
	day, talk := quest.TriggerDayPassed, quest.TriggerTalk
	from := func(s ...WatererStage) []WatererStage { return s }
	maruWants := map[string]int{ItemGoldBar: watererGoldBarCount, ObjBustedWaterer: 1}

	return quest.NewTable(
		rule{Name: "maru-wait-1", On: day, From: from(WatererWaitForMaruDay1), To: quest.To(WatererWaitForMaruDay2),
			Effect: func(*quest.Controller[WatererStage], quest.Event) { w.deps.Host.AddMailForTomorrow(MailWatererRepaired) }},

		rule{Name: "maru-status-1", On: talk, From: from(WatererWaitForMaruDay1), NPC: "Maru", Guard: emptyHanded[WatererStage],
			Effect: w.line("Maru", "waterer.maru.day1")},
		rule{Name: "maru-status-2", On: talk, From: from(WatererWaitForMaruDay2), NPC: "Maru", Guard: emptyHanded[WatererStage],
			Effect: w.line("Maru", "waterer.maru.day2")},

		rule{Name: "townsfolk-recognize", On: talk, Item: ObjBustedWaterer,
			Guard:  func(_ *quest.Controller[WatererStage], ev quest.Event) bool { return slices.Contains(watererTownsfolk, ev.NPC) },
			Effect: w.pointed("waterer.townsfolk", WatererRobinFingered)},
		rule{Name: "demetrius-grumbles", On: talk, NPC: "Demetrius", Item: ObjBustedWaterer,
			Effect: w.pointed("waterer.demetrius", WatererMaruFingered)},
		rule{Name: "robin-remembers", On: talk, NPC: "Robin", Item: ObjBustedWaterer,
			Effect: w.pointed("waterer.robin", WatererMaruFingered)},

		rule{Name: "maru-offers", On: talk, From: from(WatererNoCluesYet, WatererRobinFingered, WatererMaruFingered), NPC: "Maru", Item: ObjBustedWaterer,
			To: quest.To(WatererGetGoldBars), Effect: w.line("Maru", "waterer.maru.offer")},
		rule{Name: "maru-takes-waterer", On: talk, From: from(WatererGetGoldBars), NPC: "Maru", Item: ObjBustedWaterer,
			Guard: func(*quest.Controller[WatererStage], quest.Event) bool {
				return hasItems(w.deps.Host, w.deps.Host.OwnerID(), maruWants)
			},
			To: quest.To(WatererWaitForMaruDay1),
			Effect: func(c *quest.Controller[WatererStage], _ quest.Event) {
				takeItems(w.deps.Host, w.deps.Host.OwnerID(), maruWants)
				say(c, "Maru", w.deps.Text.Get("waterer.maru.take"))
			}},
		rule{Name: "maru-needs-bars", On: talk, From: from(WatererGetGoldBars), NPC: "Maru", Item: ObjBustedWaterer,
			Effect: w.line("Maru", "waterer.maru.need_bars")},
	)
}
