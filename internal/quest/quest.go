package quest

import (
	"github.com/lawnchairsociety/questabletractor/internal/logger"
)

// Quest is the live view of a quest in progress. It exists from day start
// (or first pickup) until day end, and every stage change goes through its
// controller to the store. Its own flags last one session and are never saved.
type Quest[S Stage] struct {
	ctrl   *Controller[S]
	isNew  bool
	viewed bool
	said   map[string]struct{}
	once   map[string]struct{}
}

func newQuest[S Stage](c *Controller[S], isNew bool) *Quest[S] {
	return &Quest[S]{
		ctrl:  c,
		isNew: isNew,
		said:  make(map[string]struct{}),
		once:  make(map[string]struct{}),
	}
}

// Controller returns the owning controller.
func (q *Quest[S]) Controller() *Controller[S] { return q.ctrl }

// Kind returns the quest kind ID.
func (q *Quest[S]) Kind() string { return q.ctrl.kind }

// Stage returns the current stage.
func (q *Quest[S]) Stage() S {
	s, err := q.ctrl.Stage()
	if err != nil {
		logger.Warning("live quest has no stored stage", "quest", q.ctrl.kind, "error", err)
	}
	return s
}

// SetStage changes the stage through the controller.
func (q *Quest[S]) SetStage(s S) { q.ctrl.SetStage(s) }

// Flag reports whether f is set.
func (q *Quest[S]) Flag(f Flag) bool { return q.ctrl.Flag(f) }

// SetFlag sets or clears f.
func (q *Quest[S]) SetFlag(f Flag, on bool) { q.ctrl.SetFlag(f, on) }

// IsNew reports whether the quest was started this session and should be
// highlighted.
func (q *Quest[S]) IsNew() bool { return q.isNew }

// MarkViewed records that the player has seen the quest.
func (q *Quest[S]) MarkViewed() { q.viewed = true }

// Viewed reports whether the player has seen the quest.
func (q *Quest[S]) Viewed() bool { return q.viewed }

// Say shows an NPC line unless that exact line was already shown this
// session. It reports whether the line was shown.
func (q *Quest[S]) Say(npc, text string) bool {
	key := npc + "\x00" + text
	if _, done := q.said[key]; done {
		return false
	}
	q.said[key] = struct{}{}
	q.ctrl.host.Say(npc, text)
	return true
}

// Once reports true the first time it is called with key this session.
// Quests use it for "already gave today's status line" checks.
func (q *Quest[S]) Once(key string) bool {
	if _, done := q.once[key]; done {
		return false
	}
	q.once[key] = struct{}{}
	return true
}
