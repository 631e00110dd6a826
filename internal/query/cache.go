// Package query is a read-through cache for API data. It deduplicates
// concurrent identical reads, keeps results fresh until a mutation
// invalidates them, and guarantees that a slow superseded fetch can never
// overwrite the result of a newer one.
package query

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/nutriscan/nutriscan/internal/logging"
)

// ErrDisabled is returned by Get when the read is gated off and no cached
// value exists.
var ErrDisabled = errors.New("query: disabled")

// FetchFunc loads the value for a key from the backend.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	value any
	gen   uint64
}

// Cache is safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	gens    map[string]uint64
	group   singleflight.Group
	log     logging.Logger
}

// NewCache returns an empty cache. A nil logger is replaced with a no-op
// one.
func NewCache(log logging.Logger) *Cache {
	if log == nil {
		log = logging.Nop()
	}
	return &Cache{
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
		log:     log,
	}
}

// Get returns the cached value for key, fetching it on a miss. Concurrent
// callers asking for the same key while a fetch is in flight share that one
// fetch. Fetch errors are returned but never cached, so the next Get tries
// again.
//
// If the key was invalidated while the fetch was running, the fetched value
// is still returned to the caller but not stored: the invalidation is newer
// and the next read must hit the backend.
func (c *Cache) Get(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	ks := key.String()

	c.mu.Lock()
	if e, ok := c.entries[ks]; ok {
		c.mu.Unlock()
		return e.value, nil
	}
	// materialize the generation so a concurrent Invalidate sees this key
	// even before its first fetch completes
	if _, ok := c.gens[ks]; !ok {
		c.gens[ks] = 0
	}
	startGen := c.gens[ks]
	c.mu.Unlock()

	v, err, shared := c.group.Do(ks, func() (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.log.Debug(ctx, "query fetch deduplicated", "key", ks)
	}

	c.mu.Lock()
	if c.gens[ks] == startGen {
		c.entries[ks] = entry{value: v, gen: startGen}
	} else {
		c.log.Debug(ctx, "discarding superseded fetch result", "key", ks)
	}
	c.mu.Unlock()

	return v, nil
}

// GetIf is Get with an enabled gate. When enabled is false it serves a
// cached value if one exists and otherwise returns ErrDisabled without
// touching the backend.
func (c *Cache) GetIf(ctx context.Context, enabled bool, key Key, fetch FetchFunc) (any, error) {
	if !enabled {
		c.mu.Lock()
		e, ok := c.entries[key.String()]
		c.mu.Unlock()
		if ok {
			return e.value, nil
		}
		return nil, ErrDisabled
	}
	return c.Get(ctx, key, fetch)
}

// Peek returns the cached value without fetching.
func (c *Cache) Peek(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Set stores a value directly, bypassing any fetch. Used by mutations that
// already hold the fresh server state.
func (c *Cache) Set(key Key, value any) {
	ks := key.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[ks]++
	c.group.Forget(ks)
	c.entries[ks] = entry{value: value, gen: c.gens[ks]}
}

// Invalidate drops every cached entry whose key starts with prefix and bumps
// their generations so in-flight fetches for those keys cannot repopulate
// the cache with pre-mutation data.
func (c *Cache) Invalidate(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for ks := range c.entries {
		if splitKey(ks).HasPrefix(prefix) {
			delete(c.entries, ks)
		}
	}
	// bump generations for every key ever seen under the prefix, cached or
	// still being fetched, and forget the in-flight call so a Get issued
	// after this point starts a fresh fetch instead of joining the
	// pre-mutation one
	for ks := range c.gens {
		if splitKey(ks).HasPrefix(prefix) {
			c.gens[ks]++
			c.group.Forget(ks)
		}
	}
	c.log.Debug(context.Background(), "cache invalidated", "prefix", prefix.String())
}

// Clear drops everything, e.g. on logout.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for ks := range c.entries {
		delete(c.entries, ks)
	}
	for ks := range c.gens {
		c.gens[ks]++
		c.group.Forget(ks)
	}
}
