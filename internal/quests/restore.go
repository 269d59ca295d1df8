package quests

import (
	"github.com/lawnchairsociety/questabletractor/internal/logger"
	"github.com/lawnchairsociety/questabletractor/internal/quest"
)

// RestoreStage is a step in restoring the derelict tractor.
type RestoreStage int

const (
	RestoreTalkToLewis RestoreStage = iota
	RestoreTalkToSebastian
	RestoreTalkToLewisAgain
	RestoreWaitingForMailFromRobinDay1
	RestoreWaitingForMailFromRobinDay2
	RestoreBuildTractorGarage
	RestoreWaitingForSebastianDay1
	RestoreWaitingForSebastianDay2
	RestoreTalkToWizard
	RestoreBringStuffToForest
	RestoreBringEngineToSebastian
	RestoreBringEngineToMaru
	RestoreWaitForEngineInstall
)

var restoreStageNames = []string{
	"TalkToLewis",
	"TalkToSebastian",
	"TalkToLewisAgain",
	"WaitingForMailFromRobinDay1",
	"WaitingForMailFromRobinDay2",
	"BuildTractorGarage",
	"WaitingForSebastianDay1",
	"WaitingForSebastianDay2",
	"TalkToWizard",
	"BringStuffToForest",
	"BringEngineToSebastian",
	"BringEngineToMaru",
	"WaitForEngineInstall",
}

func (s RestoreStage) String() string {
	return stageName(restoreStageNames, int(s), "RestoreStage")
}

// RestoreStages lists every restore stage in order.
func RestoreStages() []RestoreStage {
	out := make([]RestoreStage, len(restoreStageNames))
	for i := range out {
		out[i] = RestoreStage(i)
	}
	return out
}

// inGarage reports whether the derelict tractor has been moved into the garage.
func (s RestoreStage) inGarage() bool {
	return s > RestoreBuildTractorGarage
}

// Forest chest requirements for the engine.
const (
	forestSapCount   = 20
	forestSeedsCount = 20
)

// Restore is the main quest: get the derelict tractor running again.
type Restore struct {
	*quest.Controller[RestoreStage]
	deps Deps
}

// NewRestore creates the tractor restoration quest.
func NewRestore(d Deps) *Restore {
	r := &Restore{deps: d}
	r.Controller = quest.NewController(quest.Config[RestoreStage]{
		Kind:    KindRestore,
		Key:     KeyRestore,
		Codec:   restoreCodec,
		Store:   d.Store,
		Host:    d.Host,
		Watcher: d.Watcher,
		Hooks: quest.Hooks[RestoreStage]{
			Title:     d.Text.Title(KindRestore),
			Objective: objective[RestoreStage](d.Text, KindRestore),
			OnNotStarted: func(*quest.Controller[RestoreStage]) {
				d.Host.PlaceDerelictTractor(false)
			},
			OnQuestStarted: r.placeDerelict,
			Table:          r.table(),
		},
	})
	return r
}

// IsStarted reports whether the derelict has been inspected.
func (r *Restore) IsStarted() bool {
	return r.OverallState() != quest.NotStarted
}

// IsBuildingUnlocked reports whether Robin should offer the garage.
func (r *Restore) IsBuildingUnlocked() bool {
	switch r.OverallState() {
	case quest.Completed:
		return true
	case quest.InProgress:
		s, err := r.Stage()
		return err == nil && s >= RestoreBuildTractorGarage
	default:
		return false
	}
}

// IsTractorUnlocked reports whether the tractor runs.
func (r *Restore) IsTractorUnlocked() bool {
	return r.OverallState() == quest.Completed
}

// InspectDerelict starts the quest the first time the owner looks at the
// derelict tractor. It reports whether the quest started.
func (r *Restore) InspectDerelict() bool {
	if r.OverallState() != quest.NotStarted {
		return false
	}
	if err := r.CreateQuestFresh(); err != nil {
		logger.Error("could not start the restore quest", "error", err)
		return false
	}
	return true
}

func (r *Restore) placeDerelict(q *quest.Quest[RestoreStage]) {
	if q.IsNew() {
		return
	}

	stage := q.Stage()
	if !stage.inGarage() {
		r.deps.Host.PlaceDerelictTractor(false)
		return
	}
	if !r.deps.Host.GarageBuilt() {
		logger.Error("derelict tractor belongs in the garage but there is no garage", "stage", stage.String())
		return
	}
	r.deps.Host.PlaceDerelictTractor(true)
}

func (r *Restore) forestReady(*quest.Controller[RestoreStage], quest.Event) bool {
	h := r.deps.Host
	return h.ForestChestHas(ItemSap, forestSapCount) &&
		h.ForestChestHas(ObjBustedEngine, 1) &&
		h.ForestChestHas(ItemMixedSeeds, forestSeedsCount) &&
		h.ForestChestHas(ItemAquamarine, 1)
}

func (r *Restore) fixEngineInForest(*quest.Controller[RestoreStage], quest.Event) {
	h := r.deps.Host
	h.ForestChestTake(ItemSap, forestSapCount)
	h.ForestChestTake(ObjBustedEngine, 1)
	h.ForestChestTake(ItemMixedSeeds, forestSeedsCount)
	h.ForestChestTake(ItemAquamarine, 1)
	h.ForestChestPut(ObjWorkingEngine, 1)
}

func (r *Restore) line(npc, key string) func(*quest.Controller[RestoreStage], quest.Event) {
	return func(c *quest.Controller[RestoreStage], _ quest.Event) {
		say(c, npc, r.deps.Text.Get(key))
	}
}

func (r *Restore) reaction(key string) func(*quest.Controller[RestoreStage], quest.Event) {
	return func(c *quest.Controller[RestoreStage], ev quest.Event) {
		say(c, ev.NPC, r.deps.Text.Get(key))
	}
}

func (r *Restore) mail(id string) func(*quest.Controller[RestoreStage], quest.Event) {
	return func(*quest.Controller[RestoreStage], quest.Event) {
		r.deps.Host.AddMail(id)
	}
}

func (r *Restore) table() *quest.Table[RestoreStage] {
	type rule = quest.Rule[RestoreStage]
	day, talk := quest.TriggerDayPassed, quest.TriggerTalk
	from := func(s ...RestoreStage) []RestoreStage { return s }
	engineStages := from(RestoreBringEngineToSebastian, RestoreBringEngineToMaru)

	return quest.NewTable(
		// Mornings
		rule{Name: "robin-wait-1", On: day, From: from(RestoreWaitingForMailFromRobinDay1), To: quest.To(RestoreWaitingForMailFromRobinDay2)},
		rule{Name: "robin-mail", On: day, From: from(RestoreWaitingForMailFromRobinDay2), To: quest.To(RestoreBuildTractorGarage),
			Effect: r.mail(MailBuildTheGarage)},
		rule{Name: "garage-built", On: day, From: from(RestoreBuildTractorGarage), To: quest.To(RestoreWaitingForSebastianDay1),
			Guard: func(*quest.Controller[RestoreStage], quest.Event) bool { return r.deps.Host.GarageBuilt() }},
		rule{Name: "sebastian-wait-1", On: day, From: from(RestoreWaitingForSebastianDay1), To: quest.To(RestoreWaitingForSebastianDay2)},
		rule{Name: "sebastian-mail", On: day, From: from(RestoreWaitingForSebastianDay2), To: quest.To(RestoreTalkToWizard),
			Effect: r.mail(MailFixTheEngine)},
		rule{Name: "junimo-magic", On: day, From: from(RestoreBringStuffToForest), To: quest.To(RestoreBringEngineToSebastian),
			Guard: r.forestReady, Effect: r.fixEngineInForest},
		rule{Name: "engine-installed", On: day, From: from(RestoreWaitForEngineInstall),
			Effect: func(c *quest.Controller[RestoreStage], _ quest.Event) {
				r.deps.Host.AddMail(MailTractorDone)
				c.Complete()
			}},

		// Getting help
		rule{Name: "lewis-intro", On: talk, From: from(RestoreTalkToLewis), NPC: "Lewis", To: quest.To(RestoreTalkToSebastian),
			Effect: r.line("Lewis", "restore.lewis.intro")},
		rule{Name: "sebastian-refuses", On: talk, From: from(RestoreTalkToSebastian), NPC: "Sebastian", To: quest.To(RestoreTalkToLewisAgain),
			Effect: r.line("Sebastian", "restore.sebastian.refuse")},
		rule{Name: "lewis-again", On: talk, From: from(RestoreTalkToLewisAgain), NPC: "Lewis", To: quest.To(RestoreWaitingForMailFromRobinDay1),
			Effect: r.line("Lewis", "restore.lewis.again")},
		rule{Name: "sebastian-status-1", On: talk, From: from(RestoreWaitingForSebastianDay1), NPC: "Sebastian",
			Guard:  func(c *quest.Controller[RestoreStage], _ quest.Event) bool { return once(c, "sebastian-status") },
			Effect: r.line("Sebastian", "restore.sebastian.day1")},
		rule{Name: "sebastian-status-2", On: talk, From: from(RestoreWaitingForSebastianDay2), NPC: "Sebastian",
			Guard:  func(c *quest.Controller[RestoreStage], _ quest.Event) bool { return once(c, "sebastian-status") },
			Effect: r.line("Sebastian", "restore.sebastian.day2")},

		// The strange engine
		rule{Name: "wizard-engine", On: talk, From: from(RestoreTalkToWizard), NPC: "Wizard", Item: ObjBustedEngine, To: quest.To(RestoreBringStuffToForest),
			Effect: r.line("Wizard", "restore.wizard.engine")},
		rule{Name: "sebastian-busted-engine", On: talk, NPC: "Sebastian", Item: ObjBustedEngine, Effect: r.reaction("restore.sebastian.busted_engine")},
		rule{Name: "clint-busted-engine", On: talk, NPC: "Clint", Item: ObjBustedEngine, Effect: r.reaction("restore.clint.busted_engine")},
		rule{Name: "abigail-busted-engine", On: talk, NPC: "Abigail", Item: ObjBustedEngine, Effect: r.reaction("restore.kid.busted_engine")},
		rule{Name: "vincent-busted-engine", On: talk, NPC: "Vincent", Item: ObjBustedEngine, Effect: r.reaction("restore.kid.busted_engine")},
		rule{Name: "marnie-busted-engine", On: talk, NPC: "Marnie", Item: ObjBustedEngine, Effect: r.reaction("restore.marnie.busted_engine")},
		rule{Name: "anyone-busted-engine", On: talk, Item: ObjBustedEngine, Effect: r.reaction("restore.anyone.busted_engine")},

		// Installing it
		rule{Name: "sebastian-working-engine", On: talk, From: engineStages, NPC: "Sebastian", Item: ObjWorkingEngine, To: quest.To(RestoreBringEngineToMaru),
			Effect: r.line("Sebastian", "restore.sebastian.working_engine")},
		rule{Name: "maru-installs-engine", On: talk, From: engineStages, NPC: "Maru", Item: ObjWorkingEngine, To: quest.To(RestoreWaitForEngineInstall),
			Effect: func(c *quest.Controller[RestoreStage], _ quest.Event) {
				say(c, "Maru", r.deps.Text.Get("restore.maru.working_engine"))
				r.deps.Host.Remove(r.deps.Host.OwnerID(), ObjWorkingEngine, 1)
			}},
	)
}
