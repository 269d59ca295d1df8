// Package moddata holds the save owner's quest key/value data in memory
// between loads and saves.
package moddata

import (
	"maps"
	"sort"
	"sync"
)

// Data is one owner's mod data. It implements quest.Store.
type Data struct {
	mu      sync.RWMutex
	values  map[string]string
	dirty   bool
	ownerID string
}

// New returns empty mod data for ownerID.
func New(ownerID string) *Data {
	return &Data{ownerID: ownerID, values: make(map[string]string)}
}

// OwnerID returns the player the data belongs to.
func (d *Data) OwnerID() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.ownerID
}

// Get returns the value for key.
func (d *Data) Get(key string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v, ok := d.values[key]
	return v, ok
}

// Set stores value under key.
func (d *Data) Set(key, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if old, ok := d.values[key]; ok && old == value {
		return
	}
	d.values[key] = value
	d.dirty = true
}

// Remove deletes key.
func (d *Data) Remove(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	d.dirty = true
}

// Snapshot returns a copy of all values.
func (d *Data) Snapshot() map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return maps.Clone(d.values)
}

// Keys returns the stored keys, sorted.
func (d *Data) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	keys := make([]string, 0, len(d.values))
	for k := range d.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load replaces all values for a (possibly different) owner, as happens when
// the game loads a save. The data is clean afterwards.
func (d *Data) Load(ownerID string, values map[string]string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ownerID = ownerID
	d.values = maps.Clone(values)
	if d.values == nil {
		d.values = make(map[string]string)
	}
	d.dirty = false
}

// Dirty reports whether anything changed since the last Load or MarkClean.
func (d *Data) Dirty() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dirty
}

// MarkClean records that the current values have been saved.
func (d *Data) MarkClean() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dirty = false
}
