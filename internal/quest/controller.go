package quest

import (
	"slices"

	"github.com/lawnchairsociety/questabletractor/internal/host"
	"github.com/lawnchairsociety/questabletractor/internal/inventory"
	"github.com/lawnchairsociety/questabletractor/internal/logger"
)

// Host is the part of the game a controller talks to directly.
type Host interface {
	host.Messenger
	host.QuestLog
}

// Watcher arms and disarms inventory watches. *inventory.Registry implements it.
type Watcher interface {
	Watch(itemID string, fn inventory.OnFound)
	Unwatch(itemID string)
}

// Hooks is the per-quest behavior plugged into a Controller.
type Hooks[S Stage] struct {
	// Title is the quest log title.
	Title string
	// Objective returns the quest log objective for a value.
	Objective func(v Flagged[S]) string
	// HintTopic is the conversation topic dropped as a hint while the quest
	// is not started. Empty means the quest is never hinted.
	HintTopic string

	// OnNotStarted runs at day start while the quest has not begun.
	OnNotStarted func(c *Controller[S])
	// OnInProgress runs at day start before the quest is shown, in silent mode.
	OnInProgress func(c *Controller[S])
	// OnCompleted runs at day start once the quest is finished.
	OnCompleted func(c *Controller[S])
	// OnQuestStarted runs whenever a live quest is built, fresh or replayed.
	OnQuestStarted func(q *Quest[S])

	// Table holds the quest's narrative rules.
	Table *Table[S]
}

// Config wires a Controller to its collaborators.
type Config[S Stage] struct {
	// Kind identifies the quest in logs and in the game's quest log.
	Kind string
	// Key is the mod data key the quest's state is stored under.
	Key     string
	Codec   Codec[S]
	Store   Store
	Host    Host
	Watcher Watcher
	Hooks   Hooks[S]
}

// Controller owns one quest kind for the life of the process. The store is
// the only source of truth for the quest's stage; the live Quest is a view.
type Controller[S Stage] struct {
	kind    string
	key     string
	codec   Codec[S]
	store   Store
	host    Host
	watcher Watcher
	hooks   Hooks[S]

	quest    *Quest[S]
	silent   bool
	watching []string
}

// NewController creates a controller from cfg.
func NewController[S Stage](cfg Config[S]) *Controller[S] {
	return &Controller[S]{
		kind:    cfg.Kind,
		key:     cfg.Key,
		codec:   cfg.Codec,
		store:   cfg.Store,
		host:    cfg.Host,
		watcher: cfg.Watcher,
		hooks:   cfg.Hooks,
	}
}

// Kind returns the quest kind ID.
func (c *Controller[S]) Kind() string { return c.kind }

// Key returns the mod data key.
func (c *Controller[S]) Key() string { return c.key }

// HintTopic returns the hint conversation topic, or "".
func (c *Controller[S]) HintTopic() string { return c.hooks.HintTopic }

// Host returns the game host.
func (c *Controller[S]) Host() Host { return c.host }

// Quest returns the live quest, or nil outside InProgress.
func (c *Controller[S]) Quest() *Quest[S] { return c.quest }

// Silent reports whether the controller is replaying stored state.
func (c *Controller[S]) Silent() bool { return c.silent }

// OverallState derives the quest's state from the store.
func (c *Controller[S]) OverallState() State {
	return StateOf(c.store, c.key)
}

// OnDayStarted runs the hook for the current state and, for a quest in
// progress, rebuilds the live quest from the store without progress cues.
// Calling it again before OnDayEnding does nothing.
func (c *Controller[S]) OnDayStarted() {
	switch c.OverallState() {
	case NotStarted:
		if c.hooks.OnNotStarted != nil {
			c.hooks.OnNotStarted(c)
		}

	case InProgress:
		if c.quest != nil {
			logger.Warning("day started twice without day ending; keeping live quest", "quest", c.kind)
			return
		}

		c.silent = true
		defer func() { c.silent = false }()

		if c.hooks.OnInProgress != nil {
			c.hooks.OnInProgress(c)
		}
		c.hooks.Table.Dispatch(c, Event{Trigger: TriggerDayPassed})

		// Day-passing logic may finish the quest outright.
		if c.OverallState() != InProgress {
			return
		}

		c.quest = newQuest(c, false)
		c.quest.MarkViewed()
		c.host.AddQuest(c.info())
		if c.hooks.OnQuestStarted != nil {
			c.hooks.OnQuestStarted(c.quest)
		}

	case Completed:
		if c.hooks.OnCompleted != nil {
			c.hooks.OnCompleted(c)
		}
	}
}

// OnDayEnding writes the live quest's value back to the store, drops the
// live quest and disarms this controller's watches. OnDayStarted rearms them.
func (c *Controller[S]) OnDayEnding() {
	if c.quest != nil {
		v := c.currentValue()
		c.store.Set(c.key, c.codec.Encode(v))
		c.host.RemoveQuest(c.kind)
		c.quest = nil
		logger.Debug("quest saved at day end", "quest", c.kind, "stage", v.Stage.String())
	}
	c.UnwatchAll()
}

// CreateQuestFresh starts the quest at its first stage and shows it as new.
// The quest must not have been started.
func (c *Controller[S]) CreateQuestFresh() error {
	if st := c.OverallState(); st != NotStarted {
		return &LifecycleError{Kind: c.kind, Op: "create a fresh quest", State: st}
	}
	if c.quest != nil {
		return &LifecycleError{Kind: c.kind, Op: "create a second live quest", State: InProgress}
	}

	c.store.Set(c.key, c.codec.Encode(Flagged[S]{}))
	c.quest = newQuest(c, true)
	c.host.AddQuest(c.info())
	c.host.PlaySound(host.SoundQuestAdded)
	logger.Info("quest started", "quest", c.kind)

	if c.hooks.OnQuestStarted != nil {
		c.hooks.OnQuestStarted(c.quest)
	}
	return nil
}

// Value returns the stored stage and flags. It fails with
// ErrInvalidLifecycle unless the quest is in progress. An unparseable stored
// value is logged and read as the starting stage.
func (c *Controller[S]) Value() (Flagged[S], error) {
	raw, ok := c.store.Get(c.key)
	if !ok || raw == CompletedValue {
		return Flagged[S]{}, &LifecycleError{Kind: c.kind, Op: "read the stage", State: c.OverallState()}
	}

	v, err := c.codec.Decode(raw)
	if err != nil {
		logger.Error("invalid stored quest state; using the starting stage", "quest", c.kind, "key", c.key, "value", raw, "error", err)
		return Flagged[S]{}, nil
	}
	return v, nil
}

// Stage returns the current stage. See Value.
func (c *Controller[S]) Stage() (S, error) {
	v, err := c.Value()
	return v.Stage, err
}

// SetStage writes s through to the store, keeping flags. A progress cue is
// played if the stored value changed, except during replay.
func (c *Controller[S]) SetStage(s S) {
	v := c.currentValue()
	v.Stage = s
	c.write(v)
}

// Flag reports whether f is set. Quests that are not running have no flags.
func (c *Controller[S]) Flag(f Flag) bool {
	v, err := c.Value()
	return err == nil && v.Flags.Has(f)
}

// SetFlag sets or clears f, writing through like SetStage.
func (c *Controller[S]) SetFlag(f Flag, on bool) {
	v := c.currentValue()
	if on {
		v.Flags = v.Flags.With(f)
	} else {
		v.Flags = v.Flags.Without(f)
	}
	c.write(v)
}

// currentValue is Value with lifecycle errors folded to the zero value.
func (c *Controller[S]) currentValue() Flagged[S] {
	v, _ := c.Value()
	return v
}

func (c *Controller[S]) write(v Flagged[S]) {
	encoded := c.codec.Encode(v)
	old, had := c.store.Get(c.key)
	if had && old == CompletedValue {
		logger.Warning("overwriting a completed quest", "quest", c.kind, "value", encoded)
	}

	c.store.Set(c.key, encoded)
	if had && c.sameValue(old, v) {
		return
	}

	if c.quest != nil {
		c.host.UpdateQuest(c.info())
	}
	if !c.silent {
		c.host.PlaySound(host.SoundQuestProgressed)
	}
}

// sameValue reports whether the stored raw value decodes to v. Values in an
// older encoding compare equal to their re-encoded form.
func (c *Controller[S]) sameValue(raw string, v Flagged[S]) bool {
	if raw == CompletedValue {
		return false
	}
	old, err := c.codec.Decode(raw)
	return err == nil && old == v
}

// Complete stores the completion value, removes the live quest from the log
// and disarms this controller's watches.
func (c *Controller[S]) Complete() {
	c.store.Set(c.key, CompletedValue)
	if c.quest != nil {
		c.host.RemoveQuest(c.kind)
		c.quest = nil
	}
	c.UnwatchAll()
	logger.Always("quest completed", "quest", c.kind)
}

// Watch arms an inventory watch owned by this controller.
func (c *Controller[S]) Watch(itemID string, fn inventory.OnFound) {
	c.watcher.Watch(itemID, fn)
	if !slices.Contains(c.watching, itemID) {
		c.watching = append(c.watching, itemID)
	}
}

// WatchTrigger arms a one-shot watch that feeds the found item to the table
// as a TriggerItemFound event.
func (c *Controller[S]) WatchTrigger(itemID string) {
	c.Watch(itemID, func(playerID string, item inventory.Item) {
		c.Unwatch(item.ID)
		c.hooks.Table.Dispatch(c, Event{Trigger: TriggerItemFound, PlayerID: playerID, Item: item.ID})
	})
}

// Unwatch disarms one of this controller's watches.
func (c *Controller[S]) Unwatch(itemID string) {
	c.watcher.Unwatch(itemID)
	c.watching = slices.DeleteFunc(c.watching, func(id string) bool { return id == itemID })
}

// UnwatchAll disarms every watch this controller armed.
func (c *Controller[S]) UnwatchAll() {
	for _, id := range c.watching {
		c.watcher.Unwatch(id)
	}
	c.watching = nil
}

// Watching returns the item IDs this controller is watching.
func (c *Controller[S]) Watching() []string {
	return slices.Clone(c.watching)
}

// OnInteraction offers an NPC interaction to the quest's table. It reports
// whether a rule fired.
func (c *Controller[S]) OnInteraction(npc, heldItem string) bool {
	if c.quest == nil {
		return false
	}
	return c.hooks.Table.Dispatch(c, Event{Trigger: TriggerTalk, NPC: npc, Item: heldItem})
}

// Fire offers an arbitrary event to the quest's table.
func (c *Controller[S]) Fire(ev Event) bool {
	return c.hooks.Table.Dispatch(c, ev)
}

func (c *Controller[S]) info() host.QuestInfo {
	info := host.QuestInfo{ID: c.kind, Title: c.hooks.Title}
	if c.hooks.Objective != nil {
		info.Objective = c.hooks.Objective(c.currentValue())
	}
	if c.quest != nil {
		info.IsNew = c.quest.IsNew()
	}
	return info
}
