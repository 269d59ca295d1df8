package inventory

import (
	"sync"

	"github.com/lawnchairsociety/questabletractor/internal/logger"
)

// NonOwnerMessage is shown to a farmhand who picks up a quest item.
const NonOwnerMessage = "This item is for unlocking the tractor - only the host can advance this quest.  Give this item to the host."

// OnFound is called when the owner gains a watched item.
type OnFound func(playerID string, item Item)

// Owner identifies the player allowed to progress quests.
type Owner interface {
	OwnerID() string
}

// Confiscator takes an item back from a player.
type Confiscator interface {
	Confiscate(playerID, itemID string, stack int, message string)
}

// Registry maps item IDs to the quest callbacks waiting for them. It holds a
// subscription on its Source only while at least one item is watched.
//
// Watches are one-shot by convention: callbacks call Unwatch themselves.
type Registry struct {
	source      Source
	owner       Owner
	confiscator Confiscator

	mu          sync.Mutex
	watches     map[string]OnFound
	unsubscribe func()
}

// NewRegistry creates a registry over source.
func NewRegistry(source Source, owner Owner, confiscator Confiscator) *Registry {
	return &Registry{
		source:      source,
		owner:       owner,
		confiscator: confiscator,
		watches:     make(map[string]OnFound),
	}
}

// Watch registers fn for itemID, replacing any previous callback for it.
func (r *Registry) Watch(itemID string, fn OnFound) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.watches[itemID] = fn
	if r.unsubscribe == nil {
		r.unsubscribe = r.source.Subscribe(r.onChange)
		logger.Debug("inventory registry subscribed", "item", itemID)
	}
}

// Unwatch removes the watch for itemID. Unwatching an unknown item is a no-op.
func (r *Registry) Unwatch(itemID string) {
	r.mu.Lock()
	unsubscribe := r.removeLocked(itemID)
	r.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
		logger.Debug("inventory registry unsubscribed")
	}
}

func (r *Registry) removeLocked(itemID string) func() {
	delete(r.watches, itemID)
	if len(r.watches) > 0 || r.unsubscribe == nil {
		return nil
	}
	unsubscribe := r.unsubscribe
	r.unsubscribe = nil
	return unsubscribe
}

// IsWatching reports whether itemID has a live watch.
func (r *Registry) IsWatching(itemID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.watches[itemID]
	return ok
}

// Watched returns the number of live watches.
func (r *Registry) Watched() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.watches)
}

// Subscribed reports whether the registry holds a source subscription.
func (r *Registry) Subscribed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unsubscribe != nil
}

func (r *Registry) lookup(itemID string) (OnFound, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn, ok := r.watches[itemID]
	return fn, ok
}

func (r *Registry) onChange(c Change) {
	// Snapshot the matching items first; callbacks add and remove watches.
	r.mu.Lock()
	var pending []Item
	for _, item := range c.Added {
		if _, ok := r.watches[item.ID]; ok {
			pending = append(pending, item)
		}
	}
	r.mu.Unlock()

	if len(pending) == 0 {
		return
	}

	ownerID := r.owner.OwnerID()
	for _, item := range pending {
		if c.PlayerID != ownerID {
			logger.Info("quest item picked up by non-owner", "player", c.PlayerID, "item", item.ID)
			r.confiscator.Confiscate(c.PlayerID, item.ID, item.Stack, NonOwnerMessage)
			continue
		}
		// An earlier callback in this batch may have dropped or replaced
		// the watch.
		fn, ok := r.lookup(item.ID)
		if !ok {
			continue
		}
		fn(c.PlayerID, item)
	}
}
