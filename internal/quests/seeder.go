package quests

import (
	"github.com/lawnchairsociety/questabletractor/internal/inventory"
	"github.com/lawnchairsociety/questabletractor/internal/quest"
	"github.com/lawnchairsociety/questabletractor/internal/tractorpart"
)

// SeederStage is a step in fixing the seeder.
type SeederStage int

const (
	SeederGotPart SeederStage = iota
	SeederGetEvelynOnSide
	SeederWaitForEvelyn
	SeederTalkToAlex1
	SeederGetHaleyOnSide
	SeederWaitForHaleyDay1
	SeederTalkToAlex2
	SeederGiveAlexStuff
	SeederWaitForAlexDay1
	SeederWaitForAlexDay2
	SeederGetPartFromGeorge
	SeederInstallPart
)

var seederStageNames = []string{
	"GotPart",
	"GetEvelynOnSide",
	"WaitForEvelyn",
	"TalkToAlex1",
	"GetHaleyOnSide",
	"WaitForHaleyDay1",
	"TalkToAlex2",
	"GiveAlexStuff",
	"WaitForAlexDay1",
	"WaitForAlexDay2",
	"GetPartFromGeorge",
	"InstallPart",
}

func (s SeederStage) String() string {
	return stageName(seederStageNames, int(s), "SeederStage")
}

// SeederStages lists every seeder stage in order.
func SeederStages() []SeederStage {
	out := make([]SeederStage, len(seederStageNames))
	for i := range out {
		out[i] = SeederStage(i)
	}
	return out
}

const (
	// GeorgeSendsBrokenPartHeartLevel is the friendship George needs before
	// he mails the old seeder.
	GeorgeSendsBrokenPartHeartLevel = 3
	seederIronBarCount              = 5
)

// Seeder is the seeder attachment quest. The broken seeder arrives by mail
// from George instead of being hidden on the farm.
type Seeder struct {
	*tractorpart.Controller[SeederStage]
	deps            Deps
	tractorUnlocked func() bool
}

// NewSeeder creates the seeder quest. tractorUnlocked reports whether the
// tractor itself has been restored.
func NewSeeder(d Deps, tractorUnlocked func() bool) *Seeder {
	s := &Seeder{deps: d, tractorUnlocked: tractorUnlocked}
	s.Controller = tractorpart.New(tractorpart.Config[SeederStage]{
		Kind:            KindSeeder,
		Key:             KeySeeder,
		Codec:           seederCodec,
		Store:           d.Store,
		Host:            d.Host,
		Watcher:         d.Watcher,
		BrokenPartID:    ObjBustedSeeder,
		WorkingPartID:   ObjWorkingSeeder,
		CompleteMessage: d.Text.Get("seeder.complete"),
		Quest: quest.Hooks[SeederStage]{
			Title:     d.Text.Title(KindSeeder),
			Objective: objective[SeederStage](d.Text, KindSeeder),
			HintTopic: TopicSeederNotFound,
			Table:     s.table(),
		},
		Part: tractorpart.Hooks[SeederStage]{
			HideStarterItem: func(*tractorpart.Controller[SeederStage]) { s.maybeSendGeorgesMail() },
			GotWorkingPart: func(q *quest.Quest[SeederStage], _ inventory.Item) {
				d.Host.ShowMessage(d.Text.Get("seeder.got_working"))
				q.SetStage(SeederInstallPart)
			},
		},
	})
	return s
}

// maybeSendGeorgesMail mails the broken seeder once George likes the owner
// well enough and the tractor runs. It is only ever sent once per save.
func (s *Seeder) maybeSendGeorgesMail() {
	if _, sent := s.deps.Store.Get(KeySeederGeorgeSentMail); sent {
		return
	}
	if s.deps.Host.FriendshipHearts("George") < GeorgeSendsBrokenPartHeartLevel {
		return
	}
	if s.tractorUnlocked == nil || !s.tractorUnlocked() {
		return
	}
	s.deps.Host.AddMail(MailGeorgeSeeder)
	s.deps.Store.Set(KeySeederGeorgeSentMail, seederGeorgeSentMailMark)
}

func (s *Seeder) line(npc, key string) func(*quest.Controller[SeederStage], quest.Event) {
	return func(c *quest.Controller[SeederStage], _ quest.Event) {
		say(c, npc, s.deps.Text.Get(key))
	}
}

func (s *Seeder) table() *quest.Table[SeederStage] {
	type rule = quest.Rule[SeederStage]
	day, talk := quest.TriggerDayPassed, quest.TriggerTalk
	from := func(st ...SeederStage) []SeederStage { return st }
	alexWants := map[string]int{ObjBustedSeeder: 1, ItemIronBar: seederIronBarCount}

	return quest.NewTable(
		// Mornings
		rule{Name: "evelyn-talked", On: day, From: from(SeederWaitForEvelyn), To: quest.To(SeederTalkToAlex1)},
		rule{Name: "haley-talked", On: day, From: from(SeederWaitForHaleyDay1), To: quest.To(SeederTalkToAlex2)},
		rule{Name: "alex-wait-1", On: day, From: from(SeederWaitForAlexDay1), To: quest.To(SeederWaitForAlexDay2)},
		rule{Name: "alex-done", On: day, From: from(SeederWaitForAlexDay2), To: quest.To(SeederGetPartFromGeorge)},

		// Talking
		rule{Name: "george-intro", On: talk, From: from(SeederGotPart), NPC: "George", To: quest.To(SeederGetEvelynOnSide),
			Effect: s.line("George", "seeder.george.intro")},
		rule{Name: "evelyn-agrees", On: talk, From: from(SeederGetEvelynOnSide), NPC: "Evelyn", To: quest.To(SeederWaitForEvelyn),
			Effect: s.line("Evelyn", "seeder.evelyn.agree")},
		rule{Name: "alex-first", On: talk, From: from(SeederTalkToAlex1), NPC: "Alex", To: quest.To(SeederGetHaleyOnSide),
			Effect: s.line("Alex", "seeder.alex.first")},
		rule{Name: "haley-agrees", On: talk, From: from(SeederGetHaleyOnSide), NPC: "Haley", To: quest.To(SeederWaitForHaleyDay1),
			Effect: s.line("Haley", "seeder.haley.agree")},
		rule{Name: "alex-second", On: talk, From: from(SeederTalkToAlex2), NPC: "Alex", To: quest.To(SeederGiveAlexStuff),
			Effect: s.line("Alex", "seeder.alex.second")},
		rule{Name: "alex-takes-seeder", On: talk, From: from(SeederGiveAlexStuff), NPC: "Alex", Item: ObjBustedSeeder,
			Guard: func(*quest.Controller[SeederStage], quest.Event) bool {
				return hasItems(s.deps.Host, s.deps.Host.OwnerID(), alexWants)
			},
			To: quest.To(SeederWaitForAlexDay1),
			Effect: func(c *quest.Controller[SeederStage], _ quest.Event) {
				takeItems(s.deps.Host, s.deps.Host.OwnerID(), alexWants)
				say(c, "Alex", s.deps.Text.Get("seeder.alex.take"))
			}},
		rule{Name: "alex-needs-bars", On: talk, From: from(SeederGiveAlexStuff), NPC: "Alex",
			Effect: s.line("Alex", "seeder.alex.need_bars")},
		rule{Name: "alex-status", On: talk, From: from(SeederWaitForAlexDay1, SeederWaitForAlexDay2), NPC: "Alex",
			Effect: s.line("Alex", "seeder.alex.waiting")},
		rule{Name: "george-hands-over", On: talk, From: from(SeederGetPartFromGeorge), NPC: "George",
			Guard: func(c *quest.Controller[SeederStage], _ quest.Event) bool { return once(c, "george-hands-over") },
			Effect: func(c *quest.Controller[SeederStage], _ quest.Event) {
				say(c, "George", s.deps.Text.Get("seeder.george.ready"))
				s.deps.Host.Add(s.deps.Host.OwnerID(), ObjWorkingSeeder, 1)
			}},
	)
}
