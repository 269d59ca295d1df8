package quest

import (
	"slices"

	"github.com/lawnchairsociety/questabletractor/internal/logger"
)

// Trigger is the kind of game event a rule reacts to.
type Trigger int

const (
	// TriggerTalk fires when the owner interacts with an NPC.
	TriggerTalk Trigger = iota
	// TriggerDayPassed fires once per morning, before the quest is shown.
	TriggerDayPassed
	// TriggerItemFound fires when a watched narrative item reaches the owner.
	TriggerItemFound
)

func (t Trigger) String() string {
	switch t {
	case TriggerTalk:
		return "talk"
	case TriggerDayPassed:
		return "day"
	case TriggerItemFound:
		return "item"
	default:
		return "unknown"
	}
}

// Event is one game occurrence offered to a quest's table.
type Event struct {
	Trigger  Trigger
	PlayerID string
	NPC      string
	// Item is the held item for talk events and the found item for item events.
	Item string
}

// Rule is one row of a transition table: in any of From, on Trigger, if the
// NPC, Item and Guard match, move To and run Effect.
type Rule[S Stage] struct {
	Name string
	On   Trigger
	// From lists the stages the rule applies in. Empty means any stage.
	From []S
	// NPC and Item must match the event when non-empty.
	NPC  string
	Item string
	// Guard is an extra condition, such as a flag or a once-per-day check.
	Guard func(c *Controller[S], ev Event) bool
	// To is the next stage, or nil to stay.
	To *S
	// Effect runs after the stage change.
	Effect func(c *Controller[S], ev Event)
}

// To returns a pointer to s for use in Rule.To.
func To[S Stage](s S) *S {
	return &s
}

// Table is a quest's narrative as an ordered list of rules. The first rule
// that matches an event is the only one that fires.
type Table[S Stage] struct {
	rules []Rule[S]
}

// NewTable creates a table from rules in priority order.
func NewTable[S Stage](rules ...Rule[S]) *Table[S] {
	return &Table[S]{rules: rules}
}

// Rules returns the rules in priority order.
func (t *Table[S]) Rules() []Rule[S] {
	return slices.Clone(t.rules)
}

// Match returns the first rule matching ev at stage, if any.
func (t *Table[S]) Match(c *Controller[S], stage S, ev Event) (*Rule[S], bool) {
	if t == nil {
		return nil, false
	}
	for i := range t.rules {
		r := &t.rules[i]
		if r.On != ev.Trigger {
			continue
		}
		if len(r.From) > 0 && !slices.Contains(r.From, stage) {
			continue
		}
		if r.NPC != "" && r.NPC != ev.NPC {
			continue
		}
		if r.Item != "" && r.Item != ev.Item {
			continue
		}
		if r.Guard != nil && !r.Guard(c, ev) {
			continue
		}
		return r, true
	}
	return nil, false
}

// Dispatch fires the first matching rule against c's current stage. It
// reports whether a rule fired. Quests that are not in progress never match.
func (t *Table[S]) Dispatch(c *Controller[S], ev Event) bool {
	if t == nil || c.OverallState() != InProgress {
		return false
	}

	stage, err := c.Stage()
	if err != nil {
		return false
	}

	r, ok := t.Match(c, stage, ev)
	if !ok {
		return false
	}

	logger.Debug("quest rule fired", "quest", c.Kind(), "rule", r.Name, "trigger", ev.Trigger.String(), "stage", stage.String())
	if r.To != nil {
		c.SetStage(*r.To)
	}
	if r.Effect != nil {
		r.Effect(c, ev)
	}
	return true
}
