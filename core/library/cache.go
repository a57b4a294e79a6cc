package library

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache keeps the latest library snapshot for a TTL.
// Concurrent callers that find it stale share a single rebuild.
type Cache struct {
	lib *Library
	ttl time.Duration

	mu       sync.RWMutex
	snapshot *Snapshot
	// generation counts invalidations; a load started before one is not stored.
	generation uint64
	sf       singleflight.Group
	now      func() time.Time
}

// NewCache creates a snapshot cache. A zero TTL disables caching.
func NewCache(lib *Library, ttl time.Duration) *Cache {
	return &Cache{lib: lib, ttl: ttl, now: time.Now}
}

// Library returns the cached library.
func (c *Cache) Library() *Library {
	return c.lib
}

func (c *Cache) expired(s *Snapshot) bool {
	if c.ttl == 0 {
		return true
	}
	return c.now().Sub(s.Built) > c.ttl
}

// Get returns a fresh snapshot, loading the library when the cached one expired.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	snap := c.snapshot
	c.mu.RUnlock()

	if snap != nil && !c.expired(snap) {
		return snap, nil
	}

	result, err, _ := c.sf.Do("snapshot", func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		c.mu.RLock()
		snap := c.snapshot
		gen := c.generation
		c.mu.RUnlock()
		if snap != nil && !c.expired(snap) {
			return snap, nil
		}

		fresh, err := c.lib.Load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.generation == gen {
			c.snapshot = fresh
		}
		c.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*Snapshot), nil
}

// Invalidate drops the cached snapshot so the next Get reloads.
// A load already in flight still answers its callers but is not cached.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.generation++
	c.mu.Unlock()
	c.sf.Forget("snapshot")
}
