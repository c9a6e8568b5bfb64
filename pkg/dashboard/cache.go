package dashboard

import (
	"sync"
	"time"
)

// ResultCache is a single-slot cache for the dashboard aggregate. The whole
// aggregate is one entry; Put overwrites unconditionally and Get hits only
// strictly before the expiry timestamp.
//
// The mutex protects memory visibility only. Two concurrent misses may both
// recompute and both Put; last writer wins. That race is accepted because
// recomputation is idempotent.
type ResultCache struct {
	mu        sync.RWMutex
	result    *Analytics
	expiresAt time.Time
	clock     func() time.Time
}

// NewResultCache creates an empty cache; the first Get is a miss
func NewResultCache() *ResultCache {
	return &ResultCache{
		clock: time.Now,
	}
}

// Get returns the cached aggregate if one is present and not yet expired
func (c *ResultCache) Get() (*Analytics, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.result == nil || !c.clock().Before(c.expiresAt) {
		return nil, false
	}
	return c.result, true
}

// Put replaces the slot with a new aggregate valid for ttl from now
func (c *ResultCache) Put(result *Analytics, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.result = result
	c.expiresAt = c.clock().Add(ttl)
}

// ExpiresAt returns the current slot's expiry timestamp (zero when empty)
func (c *ResultCache) ExpiresAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expiresAt
}
