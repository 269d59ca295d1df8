// Package orchestrator drives every tractor quest from the game's day
// boundaries and owns the pieces they share: the mod data store, the
// inventory watch registry and the derived tractor mod configuration.
package orchestrator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/lawnchairsociety/questabletractor/internal/attachments"
	"github.com/lawnchairsociety/questabletractor/internal/config"
	"github.com/lawnchairsociety/questabletractor/internal/gametime"
	"github.com/lawnchairsociety/questabletractor/internal/host"
	"github.com/lawnchairsociety/questabletractor/internal/logger"
	"github.com/lawnchairsociety/questabletractor/internal/quest"
	"github.com/lawnchairsociety/questabletractor/internal/quests"
	"github.com/lawnchairsociety/questabletractor/internal/text"
)

// Controller is what the orchestrator needs from every quest.
type Controller interface {
	Kind() string
	Key() string
	HintTopic() string
	OverallState() quest.State
	OnDayStarted()
	OnDayEnding()
	OnInteraction(npc, heldItem string) bool
}

// GarageChecker is a quest that finishes when its part is carried into the
// garage.
type GarageChecker interface {
	Kind() string
	CheckHeldItemAgainstGarage(playerID, heldItem string) bool
}

// Config wires an orchestrator.
type Config struct {
	Store   quest.Store
	Host    host.Host
	Watcher quest.Watcher
	// Text is the message catalog. Nil uses the built-in text.
	Text *text.Text
	// Rand picks hints, fallback tiles and fishing outcomes. Nil seeds one
	// from the clock.
	Rand    quests.Rand
	Hints   config.HintsConfig
	Fishing config.FishingConfig
	// OnConfig receives the tractor mod configuration whenever it changes.
	OnConfig func(attachments.Config)
	// Today is the date the save was loaded on. The zero value is the first
	// day of a new save.
	Today gametime.Date
}

// Status is one quest's persisted state, for admin tooling.
type Status struct {
	Kind  string
	Key   string
	State quest.State
	Value string
}

// Orchestrator fans game events out to the quest controllers. It is not
// safe for concurrent use; the bridge serializes calls.
type Orchestrator struct {
	store    quest.Store
	host     host.Host
	rng      quests.Rand
	hints    config.HintsConfig
	hintDay  time.Weekday
	onConfig func(attachments.Config)

	restore   *quests.Restore
	loader    *quests.Loader
	harvester *quests.Harvester
	seeder    *quests.Seeder
	waterer   *quests.Waterer
	harpoon   *quests.Harpoon

	controllers []Controller
	parts       []GarageChecker

	// tractorAtDawn is whether the tractor ran before this morning's
	// controllers did, so no quest sees restoration finish mid-morning.
	tractorAtDawn bool
	calendar      *gametime.Calendar
	current       attachments.Config
	haveConfig    bool
}

// New builds the orchestrator and every quest controller.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Store == nil || cfg.Host == nil || cfg.Watcher == nil {
		return nil, fmt.Errorf("orchestrator needs a store, a host and a watcher")
	}
	hintDay, ok := config.ParseWeekday(cfg.Hints.DayOfWeek)
	if !ok {
		return nil, fmt.Errorf("unknown hints day_of_week %q", cfg.Hints.DayOfWeek)
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	o := &Orchestrator{
		store:    cfg.Store,
		host:     cfg.Host,
		rng:      rng,
		hints:    cfg.Hints,
		hintDay:  hintDay,
		onConfig: cfg.OnConfig,
		calendar: gametime.NewCalendar(cfg.Today),
	}

	d := quests.Deps{
		Store:   cfg.Store,
		Host:    cfg.Host,
		Watcher: cfg.Watcher,
		Text:    cfg.Text,
		Rand:    rng,
	}
	o.restore = quests.NewRestore(d)
	o.loader = quests.NewLoader(d)
	o.harvester = quests.NewHarvester(d)
	o.seeder = quests.NewSeeder(d, func() bool { return o.tractorAtDawn })
	o.harpoon = quests.NewHarpoon(d)
	o.waterer = quests.NewWaterer(d, cfg.Fishing, o.harpoon, o.restore.IsTractorUnlocked)

	o.controllers = []Controller{o.restore, o.loader, o.harvester, o.seeder, o.waterer, o.harpoon}
	o.parts = []GarageChecker{o.loader, o.harvester, o.seeder, o.waterer}
	return o, nil
}

// Controllers returns the quest controllers in dispatch order.
func (o *Orchestrator) Controllers() []Controller {
	return o.controllers
}

// Restore returns the main quest.
func (o *Orchestrator) Restore() *quests.Restore { return o.restore }

// Today returns the date of the last day start.
func (o *Orchestrator) Today() gametime.Date { return o.calendar.Today() }

// DayStarted runs every quest's morning, drops the weekly hint and pushes
// any change in unlocks.
func (o *Orchestrator) DayStarted(date gametime.Date) {
	if err := o.calendar.Set(date); err != nil {
		date = o.calendar.AdvanceDay()
		logger.Warning("day started with an invalid date; assuming the next morning", "error", err, "date", date.String())
	}
	o.tractorAtDawn = o.restore.IsTractorUnlocked()

	for _, c := range o.controllers {
		c.OnDayStarted()
	}
	o.dropHint(date)
	o.Recompute()
}

// DayEnding flushes every live quest back to the store.
func (o *Orchestrator) DayEnding() {
	for _, c := range o.controllers {
		c.OnDayEnding()
	}
}

// dropHint has a villager bring up a missing part once a week.
func (o *Orchestrator) dropHint(date gametime.Date) {
	if date.DayOfWeek() != o.hintDay || date.TotalDays() < o.hints.MinTotalDays {
		return
	}

	if !o.restore.IsStarted() {
		o.host.AddConversationTopic(quests.TopicTractorNotFound, o.hints.TopicDays)
		return
	}

	var topics []string
	for _, c := range o.controllers {
		if c.OverallState() == quest.NotStarted && c.HintTopic() != "" {
			topics = append(topics, c.HintTopic())
		}
	}
	if len(topics) == 0 {
		return
	}
	topic := topics[o.rng.Intn(len(topics))]
	logger.Debug("dropping hint", "topic", topic)
	o.host.AddConversationTopic(topic, o.hints.TopicDays)
}

// Tick is the host's once-a-second check of what the owner is holding. It
// reports whether a quest completed.
func (o *Orchestrator) Tick(playerID, heldItem string, inGarage bool) bool {
	if !inGarage || heldItem == "" || playerID != o.host.OwnerID() {
		return false
	}
	for _, p := range o.parts {
		if p.CheckHeldItemAgainstGarage(playerID, heldItem) {
			o.Recompute()
			return true
		}
	}
	return false
}

// Interaction offers a conversation to every quest. It reports whether any
// of them reacted.
func (o *Orchestrator) Interaction(npc, heldItem string) bool {
	handled := false
	for _, c := range o.controllers {
		if c.OnInteraction(npc, heldItem) {
			handled = true
		}
	}
	if handled {
		o.Recompute()
	}
	return handled
}

// Fish rolls a cast for the waterer quest. It returns the item to give the
// player instead of the game's catch, if any.
func (o *Orchestrator) Fish(cast quests.Cast) (string, bool) {
	if cast.TotalDays == 0 {
		cast.TotalDays = o.calendar.Today().TotalDays()
	}
	return o.waterer.RollCatch(cast)
}

// InspectDerelict starts restoration when the owner looks at the tractor.
func (o *Orchestrator) InspectDerelict(playerID string) bool {
	if playerID != o.host.OwnerID() {
		return false
	}
	if !o.restore.InspectDerelict() {
		return false
	}
	o.Recompute()
	return true
}

// Progress reads the unlock inputs from quest state.
func (o *Orchestrator) Progress() attachments.Progress {
	done := func(c Controller) bool { return c.OverallState() == quest.Completed }
	return attachments.Progress{
		BuildingUnlocked: o.restore.IsBuildingUnlocked(),
		TractorUnlocked:  o.restore.IsTractorUnlocked(),
		Loader:           done(o.loader),
		Harvester:        done(o.harvester),
		Seeder:           done(o.seeder),
		Waterer:          done(o.waterer),
	}
}

// Config returns the last computed tractor mod configuration.
func (o *Orchestrator) Config() attachments.Config {
	if !o.haveConfig {
		return attachments.Compute(o.Progress())
	}
	return o.current
}

// Recompute derives the tractor mod configuration and pushes it if it
// changed.
func (o *Orchestrator) Recompute() {
	next := attachments.Compute(o.Progress())
	if o.haveConfig && next.Equal(o.current) {
		return
	}
	o.current = next
	o.haveConfig = true
	logger.Info("tractor configuration changed", "tractor", next.TractorEnabled, "building", next.BuildingAvailable)
	if o.onConfig != nil {
		o.onConfig(next)
	}
}

// Loaded pushes the configuration unconditionally after a save loads.
func (o *Orchestrator) Loaded() {
	o.haveConfig = false
	o.Recompute()
}

// Status lists every quest's persisted state.
func (o *Orchestrator) Status() []Status {
	out := make([]Status, 0, len(o.controllers))
	for _, c := range o.controllers {
		v, _ := o.store.Get(c.Key())
		out = append(out, Status{Kind: c.Kind(), Key: c.Key(), State: c.OverallState(), Value: v})
	}
	return out
}
