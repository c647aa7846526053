package cache

import (
	"sync"
	"time"
)

// ─────────────────────────────────────────────────────────────
// TTLCache — short-lived external lookup results
// ─────────────────────────────────────────────────────────────

// staleGrace is how long an expired entry remains available to
// GetStale before Sweep drops it. Serving a stale star count beats
// serving nothing when the upstream is rate-limiting.
const staleGrace = time.Hour

type entry struct {
	value     any
	expiresAt time.Time
}

// TTLCache is an in-memory map with per-entry expiry. Keys are
// normalized by the caller (e.g. lowercased "owner/repo").
type TTLCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry

	now func() time.Time // injectable for tests
}

func NewTTL(ttl time.Duration) *TTLCache {
	return &TTLCache{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns a value that has not yet expired.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// GetStale returns a value even if expired. Used when the upstream
// lookup has failed and a stale answer is preferable to none.
func (c *TTLCache) GetStale(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

func (c *TTLCache) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Sweep drops entries expired beyond the stale grace period.
// Called periodically by the scheduler.
func (c *TTLCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	cutoff := c.now().Add(-staleGrace)
	for k, e := range c.entries {
		if e.expiresAt.Before(cutoff) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}
