package socket

import (
	"slices"
	"sync"
)

// Collection is the authoritative in-process list of socket groups. Every
// write replaces the whole list, so readers never observe a partial update.
type Collection struct {
	mu     sync.RWMutex
	groups []Group
}

// NewCollection returns a collection holding a copy of groups.
func NewCollection(groups []Group) *Collection {
	return &Collection{groups: slices.Clone(groups)}
}

// Snapshot returns a copy of the current list.
func (c *Collection) Snapshot() []Group {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.groups)
}

// Len returns the number of groups.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.groups)
}

// Get returns the group with id.
func (c *Collection) Get(id string) (Group, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := Find(c.groups, id); i >= 0 {
		return c.groups[i], true
	}
	return Group{}, false
}

// Replace swaps in a new list.
func (c *Collection) Replace(groups []Group) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups = slices.Clone(groups)
}

// Update applies fn to a copy of the list and installs the result. fn runs
// under the write lock and must not call back into the collection.
func (c *Collection) Update(fn func([]Group) []Group) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.groups = fn(slices.Clone(c.groups))
}

// Put inserts g, or replaces the group with the same id.
func (c *Collection) Put(g Group) {
	c.Update(func(gs []Group) []Group {
		if i := Find(gs, g.ID); i >= 0 {
			gs[i] = g
			return gs
		}
		return append(gs, g)
	})
}

// Remove deletes the group with id and reports whether it existed.
func (c *Collection) Remove(id string) bool {
	var found bool
	c.Update(func(gs []Group) []Group {
		i := Find(gs, id)
		if i < 0 {
			return gs
		}
		found = true
		return slices.Delete(gs, i, i+1)
	})
	return found
}
