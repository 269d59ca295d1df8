// Package inventory routes "items added" events from the game to the quests
// waiting on specific items.
package inventory

import (
	"slices"
	"sync"
)

// Item is a stack of one item kind.
type Item struct {
	ID    string `json:"id"`
	Stack int    `json:"stack"`
}

// Change is one batch of items a player gained in a single tick.
type Change struct {
	PlayerID string `json:"player_id"`
	Added    []Item `json:"added"`
}

// Source is a stream of inventory changes.
type Source interface {
	// Subscribe registers fn and returns a func that removes it.
	Subscribe(fn func(Change)) (unsubscribe func())
}

// Feed is an in-process Source. The bridge publishes into it.
type Feed struct {
	mu   sync.Mutex
	subs map[int]func(Change)
	next int
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]func(Change))}
}

// Subscribe implements Source.
func (f *Feed) Subscribe(fn func(Change)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++
	f.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

// Publish delivers c to every subscriber, in subscription order.
func (f *Feed) Publish(c Change) {
	f.mu.Lock()
	ids := make([]int, 0, len(f.subs))
	for id := range f.subs {
		ids = append(ids, id)
	}
	subs := make([]func(Change), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		subs = append(subs, f.subs[id])
	}
	f.mu.Unlock()

	for _, fn := range subs {
		fn(c)
	}
}

// Subscribers returns the number of live subscriptions.
func (f *Feed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
