package calendar

import (
	"sync"
	"time"
)

// eventCache holds one merged event set per family with a TTL. Each entry
// carries its own lock so a rebuild for one family blocks only concurrent
// requests for that same family, never the whole cache.
type eventCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	mu      sync.Mutex
	events  []Event
	expires time.Time
}

func newEventCache() *eventCache {
	return &eventCache{entries: make(map[string]*cacheEntry)}
}

// entry returns the cache slot for a family, creating it if needed
func (c *eventCache) entry(familyID string) *cacheEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[familyID]
	if !ok {
		e = &cacheEntry{}
		c.entries[familyID] = e
	}
	return e
}

// invalidate drops a family's cached events
func (c *eventCache) invalidate(familyID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, familyID)
}

// fresh reports whether the entry holds a non-expired event set
func (e *cacheEntry) fresh(now time.Time) bool {
	return !e.expires.IsZero() && now.Before(e.expires)
}
