/*
# Module: services/cache.go
Process-wide TTL cache for successful resolutions.

## Linked Modules
- [types/unit](../types/unit.go) - Canonical unit structure

## Tags
cache, ttl, concurrency

## Exports
Cache, NewCache, Get, Set, Len

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "services/cache.go" ;
    code:description "Process-wide TTL cache for successful resolutions" ;
    code:linksTo [
        code:name "types/unit" ;
        code:path "../types/unit.go" ;
        code:relationship "Canonical unit structure"
    ] ;
    code:exports :Cache, :NewCache, :Get, :Set, :Len ;
    code:tags "cache", "ttl", "concurrency" .
<!-- End LinkedDoc RDF -->
*/
package services

import (
	"sync"
	"time"

	"unit-resolver/types"
)

// cacheEntry holds a snapshot of one resolution and its expiry
type cacheEntry struct {
	unit      types.CanonicalUnit
	expiresAt time.Time
}

// Cache is a token-keyed TTL cache. Expiry is lazy: an expired entry is
// treated as a miss at read time and evicted then; no background sweeper.
// Only complete, successful resolutions are ever written, so a hit is
// always a full snapshot - never a partial state.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns a copy of the cached unit for key, evicting the entry if it
// has expired
func (c *Cache) Get(key string) (*types.CanonicalUnit, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check: another goroutine may have rewritten the key
		if cur, ok := c.entries[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}

	unit := snapshot(entry.unit)
	return &unit, true
}

// Set stores a snapshot of unit under key for ttl
func (c *Cache) Set(key string, unit *types.CanonicalUnit, ttl time.Duration) {
	if unit == nil {
		return
	}

	entry := cacheEntry{
		unit:      snapshot(*unit),
		expiresAt: c.now().Add(ttl),
	}

	c.mu.Lock()
	c.entries[key] = entry
	c.mu.Unlock()
}

// Len reports the number of live entries (expired-but-unevicted included)
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// snapshot deep-copies the fields a caller could otherwise mutate through
// shared references
func snapshot(u types.CanonicalUnit) types.CanonicalUnit {
	if u.Latitude != nil {
		lat := *u.Latitude
		u.Latitude = &lat
	}
	if u.Longitude != nil {
		lng := *u.Longitude
		u.Longitude = &lng
	}
	if u.Milestones != nil {
		m := make(map[string]any, len(u.Milestones))
		for k, v := range u.Milestones {
			m[k] = v
		}
		u.Milestones = m
	}
	return u
}
