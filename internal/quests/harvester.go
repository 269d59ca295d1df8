package quests

import (
	"github.com/lawnchairsociety/questabletractor/internal/host"
	"github.com/lawnchairsociety/questabletractor/internal/inventory"
	"github.com/lawnchairsociety/questabletractor/internal/quest"
	"github.com/lawnchairsociety/questabletractor/internal/tractorpart"
)

// HarvesterStage is a step in fixing the harvester.
type HarvesterStage int

const (
	HarvesterMissingParts HarvesterStage = iota
	HarvesterBuildPart
	HarvesterInstallPart
)

var harvesterStageNames = []string{
	"MissingParts",
	"BuildPart",
	"InstallPart",
}

func (s HarvesterStage) String() string {
	return stageName(harvesterStageNames, int(s), "HarvesterStage")
}

// HarvesterStages lists every harvester stage in order.
func HarvesterStages() []HarvesterStage {
	out := make([]HarvesterStage, len(harvesterStageNames))
	for i := range out {
		out[i] = HarvesterStage(i)
	}
	return out
}

// Harvester flags, in stored order.
const (
	HarvesterJasInformed quest.Flag = iota
	HarvesterVincentInformed
	HarvesterPart1Found
	HarvesterPart2Found
)

var harvesterFlagNames = []string{"JasInformed", "VincentInformed", "Part1Found", "Part2Found"}

// Harvester is the scythe attachment quest. The kids took one part off the
// harvester and Pierre can order the other.
type Harvester struct {
	*tractorpart.Controller[HarvesterStage]
	deps Deps
}

// NewHarvester creates the harvester quest. The busted harvester hides under
// a hollow log.
func NewHarvester(d Deps) *Harvester {
	h := &Harvester{deps: d}
	h.Controller = tractorpart.New(tractorpart.Config[HarvesterStage]{
		Kind:            KindHarvester,
		Key:             KeyHarvester,
		Codec:           harvesterCodec,
		Store:           d.Store,
		Host:            d.Host,
		Watcher:         d.Watcher,
		BrokenPartID:    ObjBustedScythe,
		WorkingPartID:   ObjWorkingScythe,
		CompleteMessage: d.Text.Get("harvester.complete"),
		Quest: quest.Hooks[HarvesterStage]{
			Title:          d.Text.Title(KindHarvester),
			Objective:      objective[HarvesterStage](d.Text, KindHarvester),
			HintTopic:      TopicScytheNotFound,
			OnQuestStarted: h.watchParts,
			Table:          h.table(),
		},
		Part: tractorpart.Hooks[HarvesterStage]{
			HideStarterItem: func(c *tractorpart.Controller[HarvesterStage]) {
				c.PlaceBrokenPart(host.ClumpHollowLog, d.Rand)
			},
			GotWorkingPart: func(q *quest.Quest[HarvesterStage], _ inventory.Item) {
				d.Host.ShowMessage(d.Text.Get("harvester.got_working"))
				q.SetStage(HarvesterInstallPart)
			},
		},
	})
	return h
}

func (h *Harvester) watchParts(q *quest.Quest[HarvesterStage]) {
	if q.Stage() != HarvesterMissingParts {
		return
	}
	c := q.Controller()
	if !q.Flag(HarvesterPart1Found) {
		c.WatchTrigger(ObjScythePart1)
	}
	if !q.Flag(HarvesterPart2Found) {
		c.WatchTrigger(ObjScythePart2)
	}
}

func flagClear(f quest.Flag) func(*quest.Controller[HarvesterStage], quest.Event) bool {
	return func(c *quest.Controller[HarvesterStage], _ quest.Event) bool { return !c.Flag(f) }
}

// kidInformed records that a kid has seen the busted harvester. Once both
// have, one of them owns up and hands back the missing part.
func (h *Harvester) kidInformed(self, other quest.Flag) func(*quest.Controller[HarvesterStage], quest.Event) {
	return func(c *quest.Controller[HarvesterStage], ev quest.Event) {
		c.SetFlag(self, true)
		if !c.Flag(other) {
			say(c, ev.NPC, h.deps.Text.Get("harvester.kid.informed"))
			return
		}
		say(c, ev.NPC, h.deps.Text.Get("harvester.kid.confess"))
		h.deps.Host.Add(h.deps.Host.OwnerID(), ObjScythePart1, 1)
	}
}

// partFound marks one part found and moves on once both are in hand.
func (h *Harvester) partFound(self, other quest.Flag, key string) func(*quest.Controller[HarvesterStage], quest.Event) {
	return func(c *quest.Controller[HarvesterStage], ev quest.Event) {
		c.SetFlag(self, true)
		if !c.Flag(other) {
			h.deps.Host.HoldUpItem(ev.PlayerID, ev.Item, h.deps.Text.Get(key))
			return
		}
		h.deps.Host.HoldUpItem(ev.PlayerID, ev.Item, h.deps.Text.Get("harvester.both.found"))
		c.SetStage(HarvesterBuildPart)
	}
}

func (h *Harvester) table() *quest.Table[HarvesterStage] {
	type rule = quest.Rule[HarvesterStage]
	talk, found := quest.TriggerTalk, quest.TriggerItemFound
	missing := []HarvesterStage{HarvesterMissingParts}

	return quest.NewTable(
		rule{Name: "part1-found", On: found, From: missing, Item: ObjScythePart1, Guard: flagClear(HarvesterPart1Found),
			Effect: h.partFound(HarvesterPart1Found, HarvesterPart2Found, "harvester.part1.found")},
		rule{Name: "part2-found", On: found, From: missing, Item: ObjScythePart2, Guard: flagClear(HarvesterPart2Found),
			Effect: h.partFound(HarvesterPart2Found, HarvesterPart1Found, "harvester.part2.found")},

		rule{Name: "jas-sees-harvester", On: talk, From: missing, NPC: "Jas", Item: ObjBustedScythe, Guard: flagClear(HarvesterJasInformed),
			Effect: h.kidInformed(HarvesterJasInformed, HarvesterVincentInformed)},
		rule{Name: "vincent-sees-harvester", On: talk, From: missing, NPC: "Vincent", Item: ObjBustedScythe, Guard: flagClear(HarvesterVincentInformed),
			Effect: h.kidInformed(HarvesterVincentInformed, HarvesterJasInformed)},
		rule{Name: "pierre-orders-part", On: talk, From: missing, NPC: "Pierre", Item: ObjBustedScythe,
			Guard: func(c *quest.Controller[HarvesterStage], _ quest.Event) bool {
				return !c.Flag(HarvesterPart2Found) && !h.deps.Host.HasMail(MailScythePart2)
			},
			Effect: func(c *quest.Controller[HarvesterStage], _ quest.Event) {
				say(c, "Pierre", h.deps.Text.Get("harvester.pierre.order"))
				h.deps.Host.AddMailForTomorrow(MailScythePart2)
			}},
	)
}
