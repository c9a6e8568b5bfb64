package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheRoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	cache := NewResultCache()
	cache.clock = func() time.Time { return now }

	// Empty cache misses
	result, ok := cache.Get()
	assert.False(t, ok)
	assert.Nil(t, result)

	stored := Empty(now)
	cache.Put(stored, 15*time.Minute)

	// Fresh entry hits and returns the same pointer
	result, ok = cache.Get()
	assert.True(t, ok)
	assert.Same(t, stored, result)
	assert.Equal(t, now.Add(15*time.Minute), cache.ExpiresAt())

	// One second before expiry still hits
	now = now.Add(15*time.Minute - time.Second)
	_, ok = cache.Get()
	assert.True(t, ok)

	// At the expiry instant the entry is stale
	now = now.Add(time.Second)
	_, ok = cache.Get()
	assert.False(t, ok)
}

func TestCachePutOverwrites(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	cache := NewResultCache()
	cache.clock = func() time.Time { return now }

	first := Empty(now)
	second := Empty(now)
	second.TotalTranscripts = 9

	cache.Put(first, time.Minute)
	cache.Put(second, time.Minute)

	result, ok := cache.Get()
	assert.True(t, ok)
	assert.Same(t, second, result)
}
