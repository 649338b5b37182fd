// Package flags caches feature flags per environment for the lifetime of a warm
// function instance.
package flags

import (
	"context"
	"sync"
	"time"

	"github.com/smartgolf/smartgolf-api/internal/models"
	"github.com/smartgolf/smartgolf-api/internal/store"
)

type entry struct {
	flags     models.FlagSet
	fetchedAt time.Time
}

// Cache serves flag sets from memory and rescans the store once an environment's entry
// is older than the TTL. Failed scans are not cached.
type Cache struct {
	store store.FlagStore
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

// NewCache returns an empty cache over s.
func NewCache(s store.FlagStore, ttl time.Duration) *Cache {
	return &Cache{
		store:   s,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// WithClock replaces the time source; used by tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get returns the flag set for env, scanning the store on a miss or an expired entry.
// The returned set is shared with other callers and must not be modified.
func (c *Cache) Get(ctx context.Context, env string) (models.FlagSet, error) {
	c.mu.Lock()
	e, ok := c.entries[env]
	c.mu.Unlock()
	if ok && c.now().Sub(e.fetchedAt) < c.ttl {
		return e.flags, nil
	}

	// The scan runs unlocked; concurrent misses for one env each scan and the last write wins.
	list, err := c.store.ListByEnvironment(ctx, env)
	if err != nil {
		return nil, err
	}
	set := models.NewFlagSet(list)

	c.mu.Lock()
	c.entries[env] = entry{flags: set, fetchedAt: c.now()}
	c.mu.Unlock()
	return set, nil
}
