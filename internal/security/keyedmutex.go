package security

import (
	"sync"
	"time"
)

// KeyedMutex hands out one mutex per key so callers can serialize work per
// entity (a family's token refresh, a subject's provisioning). Idle entries
// are swept periodically, so the map is bounded by recent activity rather
// than by every key ever seen.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[string]*keyedLock
	idle    time.Duration
}

type keyedLock struct {
	sync.Mutex
	lastUsed time.Time // guarded by KeyedMutex.mu
}

// NewKeyedMutex creates a keyed mutex that drops entries unused for longer
// than idle
func NewKeyedMutex(idle time.Duration) *KeyedMutex {
	km := &KeyedMutex{
		entries: make(map[string]*keyedLock),
		idle:    idle,
	}
	go km.cleanup()
	return km
}

// Lock acquires the mutex for a key, creating it on first use, and returns
// the matching unlock func
func (km *KeyedMutex) Lock(key string) func() {
	km.mu.Lock()
	e, ok := km.entries[key]
	if !ok {
		e = &keyedLock{}
		km.entries[key] = e
	}
	e.lastUsed = time.Now()
	km.mu.Unlock()

	e.Lock()
	return e.Unlock
}

func (km *KeyedMutex) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		km.sweep(time.Now())
	}
}

// sweep drops idle entries; a held lock is never dropped
func (km *KeyedMutex) sweep(now time.Time) {
	km.mu.Lock()
	defer km.mu.Unlock()
	for key, e := range km.entries {
		if now.Sub(e.lastUsed) > km.idle && e.TryLock() {
			e.Unlock()
			delete(km.entries, key)
		}
	}
}

func (km *KeyedMutex) size() int {
	km.mu.Lock()
	defer km.mu.Unlock()
	return len(km.entries)
}
