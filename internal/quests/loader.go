package quests

import (
	"github.com/lawnchairsociety/questabletractor/internal/host"
	"github.com/lawnchairsociety/questabletractor/internal/inventory"
	"github.com/lawnchairsociety/questabletractor/internal/quest"
	"github.com/lawnchairsociety/questabletractor/internal/tractorpart"
)

// LoaderStage is a step in fixing the front-end loader.
type LoaderStage int

const (
	LoaderTalkToClint LoaderStage = iota
	LoaderFindSomeShoes
	LoaderSnagAlexsOldShoes
	LoaderLinusSniffing1
	LoaderLinusSniffing2
	LoaderLinusSniffing3
	LoaderLinusSniffing4
	LoaderLinusSniffing5
	LoaderDisguiseTheShoes
	LoaderGiveShoesToClint
	LoaderWaitForClint1
	LoaderWaitForClint2
	LoaderPickUpLoader
	LoaderInstallTheLoader
)

var loaderStageNames = []string{
	"TalkToClint",
	"FindSomeShoes",
	"SnagAlexsOldShoes",
	"LinusSniffing1",
	"LinusSniffing2",
	"LinusSniffing3",
	"LinusSniffing4",
	"LinusSniffing5",
	"DisguiseTheShoes",
	"GiveShoesToClint",
	"WaitForClint1",
	"WaitForClint2",
	"PickUpLoader",
	"InstallTheLoader",
}

func (s LoaderStage) String() string {
	return stageName(loaderStageNames, int(s), "LoaderStage")
}

// LoaderStages lists every loader stage in order.
func LoaderStages() []LoaderStage {
	out := make([]LoaderStage, len(loaderStageNames))
	for i := range out {
		out[i] = LoaderStage(i)
	}
	return out
}

// The dwarf keeps talking about the missing shoes for a long while, since
// the player may not read dwarvish yet.
const dwarfTopicDays = 100

// Loader is the front-end loader attachment quest.
type Loader struct {
	*tractorpart.Controller[LoaderStage]
	deps Deps
}

// NewLoader creates the loader quest. The busted loader hides under a boulder.
func NewLoader(d Deps) *Loader {
	l := &Loader{deps: d}
	l.Controller = tractorpart.New(tractorpart.Config[LoaderStage]{
		Kind:            KindLoader,
		Key:             KeyLoader,
		Codec:           loaderCodec,
		Store:           d.Store,
		Host:            d.Host,
		Watcher:         d.Watcher,
		BrokenPartID:    ObjBustedLoader,
		WorkingPartID:   ObjWorkingLoader,
		CompleteMessage: d.Text.Get("loader.complete"),
		Quest: quest.Hooks[LoaderStage]{
			Title:          d.Text.Title(KindLoader),
			Objective:      objective[LoaderStage](d.Text, KindLoader),
			HintTopic:      TopicLoaderNotFound,
			OnQuestStarted: l.watchShoes,
			Table:          l.table(),
		},
		Part: tractorpart.Hooks[LoaderStage]{
			HideStarterItem: func(c *tractorpart.Controller[LoaderStage]) {
				c.PlaceBrokenPart(host.ClumpBoulder, d.Rand)
			},
			GotWorkingPart: func(q *quest.Quest[LoaderStage], _ inventory.Item) {
				d.Host.ShowMessage(d.Text.Get("loader.got_working"))
				q.SetStage(LoaderInstallTheLoader)
			},
		},
	})
	return l
}

func (l *Loader) watchShoes(q *quest.Quest[LoaderStage]) {
	c := q.Controller()
	if q.Stage() < LoaderDisguiseTheShoes {
		c.WatchTrigger(ObjAlexesOldShoe)
	}
	if q.Stage() < LoaderGiveShoesToClint {
		c.WatchTrigger(ObjDisguisedShoe)
	}
}

func (l *Loader) line(npc, key string) func(*quest.Controller[LoaderStage], quest.Event) {
	return func(c *quest.Controller[LoaderStage], _ quest.Event) {
		say(c, npc, l.deps.Text.Get(key))
	}
}

func (l *Loader) holdUp(key string) func(*quest.Controller[LoaderStage], quest.Event) {
	return func(_ *quest.Controller[LoaderStage], ev quest.Event) {
		l.deps.Host.HoldUpItem(ev.PlayerID, ev.Item, l.deps.Text.Get(key))
	}
}

func (l *Loader) table() *quest.Table[LoaderStage] {
	type rule = quest.Rule[LoaderStage]
	day, talk, found := quest.TriggerDayPassed, quest.TriggerTalk, quest.TriggerItemFound
	from := func(s ...LoaderStage) []LoaderStage { return s }
	statusOnce := func(c *quest.Controller[LoaderStage], _ quest.Event) bool { return once(c, "clint-status") }

	return quest.NewTable(
		// Mornings
		rule{Name: "linus-sniffing-1", On: day, From: from(LoaderLinusSniffing1), To: quest.To(LoaderLinusSniffing2)},
		rule{Name: "linus-sniffing-2", On: day, From: from(LoaderLinusSniffing2), To: quest.To(LoaderLinusSniffing3)},
		rule{Name: "linus-sniffing-3", On: day, From: from(LoaderLinusSniffing3), To: quest.To(LoaderLinusSniffing4)},
		rule{Name: "linus-sniffing-4", On: day, From: from(LoaderLinusSniffing4), To: quest.To(LoaderLinusSniffing5)},
		rule{Name: "clint-wait-1", On: day, From: from(LoaderWaitForClint1), To: quest.To(LoaderWaitForClint2)},
		rule{Name: "clint-done", On: day, From: from(LoaderWaitForClint2), To: quest.To(LoaderPickUpLoader),
			Effect: func(*quest.Controller[LoaderStage], quest.Event) { l.deps.Host.AddMail(MailLoaderReady) }},

		// Shoes turning up
		rule{Name: "found-old-shoes", On: found, Item: ObjAlexesOldShoe, Guard: before(LoaderDisguiseTheShoes), To: quest.To(LoaderDisguiseTheShoes),
			Effect: func(c *quest.Controller[LoaderStage], ev quest.Event) {
				l.holdUp("loader.shoes.found")(c, ev)
				l.deps.Host.AddConversationTopic(TopicDwarfShoesTaken, dwarfTopicDays)
			}},
		rule{Name: "found-disguised-shoes", On: found, Item: ObjDisguisedShoe, Guard: before(LoaderGiveShoesToClint), To: quest.To(LoaderGiveShoesToClint),
			Effect: l.holdUp("loader.disguised.found")},

		// Talking
		rule{Name: "clint-intro", On: talk, From: from(LoaderTalkToClint), NPC: "Clint", Item: ObjBustedLoader, To: quest.To(LoaderFindSomeShoes),
			Effect: l.line("Clint", "loader.clint.intro")},
		rule{Name: "alex-shoes", On: talk, From: from(LoaderFindSomeShoes), NPC: "Alex", To: quest.To(LoaderSnagAlexsOldShoes),
			Effect: l.line("Alex", "loader.alex.shoes")},
		rule{Name: "linus-starts", On: talk, From: from(LoaderSnagAlexsOldShoes), NPC: "Linus", To: quest.To(LoaderLinusSniffing1),
			Effect: l.line("Linus", "loader.linus.start")},
		rule{Name: "linus-sniffing", On: talk, From: from(LoaderLinusSniffing1, LoaderLinusSniffing2, LoaderLinusSniffing3, LoaderLinusSniffing4), NPC: "Linus",
			Effect: l.line("Linus", "loader.linus.sniffing")},
		rule{Name: "linus-found", On: talk, From: from(LoaderLinusSniffing5), NPC: "Linus",
			Effect: l.line("Linus", "loader.linus.found")},
		rule{Name: "emily-dyes-shoes", On: talk, From: from(LoaderDisguiseTheShoes), NPC: "Emily", Item: ObjAlexesOldShoe,
			Effect: func(c *quest.Controller[LoaderStage], _ quest.Event) {
				owner := l.deps.Host.OwnerID()
				if l.deps.Host.Remove(owner, ObjAlexesOldShoe, 1) == 1 {
					say(c, "Emily", l.deps.Text.Get("loader.emily.dye"))
					l.deps.Host.Add(owner, ObjDisguisedShoe, 1)
				}
			}},
		rule{Name: "clint-takes-shoes", On: talk, From: from(LoaderGiveShoesToClint), NPC: "Clint", Item: ObjDisguisedShoe, To: quest.To(LoaderWaitForClint1),
			Effect: func(c *quest.Controller[LoaderStage], _ quest.Event) {
				l.deps.Host.Remove(l.deps.Host.OwnerID(), ObjDisguisedShoe, 1)
				say(c, "Clint", l.deps.Text.Get("loader.clint.shoes"))
			}},
		rule{Name: "clint-status", On: talk, From: from(LoaderWaitForClint1, LoaderWaitForClint2), NPC: "Clint", Guard: statusOnce,
			Effect: l.line("Clint", "loader.clint.waiting")},
		rule{Name: "clint-hands-over", On: talk, From: from(LoaderPickUpLoader), NPC: "Clint",
			Guard: func(c *quest.Controller[LoaderStage], _ quest.Event) bool { return once(c, "clint-hands-over") },
			Effect: func(c *quest.Controller[LoaderStage], _ quest.Event) {
				say(c, "Clint", l.deps.Text.Get("loader.clint.ready"))
				l.deps.Host.Add(l.deps.Host.OwnerID(), ObjWorkingLoader, 1)
			}},
	)
}
