package registry

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/tenantgate"
)

// RecordCache keeps tenant records between directory lookups. The TTL is a
// property of the cache, fixed at construction, so every layer applies the
// same staleness bound.
type RecordCache interface {
	Get(ctx context.Context, id tenantgate.ID) (*Record, bool)
	Set(ctx context.Context, id tenantgate.ID, rec *Record)
	Delete(ctx context.Context, id tenantgate.ID)
	Close() error
}

// DefaultCacheSize is the default maximum number of records held by the
// in-memory cache.
const DefaultCacheSize = 1000

// memoryCache is the in-process RecordCache with TTL expiry and LRU
// eviction. A janitor goroutine sweeps expired entries so deactivated
// tenants do not pin memory until their next request.
type memoryCache struct {
	ttl     time.Duration
	maxSize int

	mu    sync.Mutex
	items map[tenantgate.ID]cacheItem
	lru   []tenantgate.ID

	stop   chan struct{}
	done   chan struct{}
	closed bool
}

type cacheItem struct {
	rec       *Record
	expiresAt time.Time
}

// NewMemoryCache creates an in-memory cache with the given TTL and the
// default size limit.
func NewMemoryCache(ttl time.Duration) RecordCache {
	return NewMemoryCacheWithSize(ttl, DefaultCacheSize)
}

// NewMemoryCacheWithSize creates an in-memory cache with the given TTL and
// size limit. When the cache is full the least recently used record is
// evicted.
func NewMemoryCacheWithSize(ttl time.Duration, maxSize int) RecordCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}

	c := &memoryCache{
		ttl:     ttl,
		maxSize: maxSize,
		items:   make(map[tenantgate.ID]cacheItem),
		lru:     make([]tenantgate.ID, 0, maxSize),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	go c.janitor()

	return c
}

func (c *memoryCache) Get(ctx context.Context, id tenantgate.ID) (*Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[id]
	if !ok {
		return nil, false
	}

	if time.Now().After(item.expiresAt) {
		delete(c.items, id)
		c.removeLRU(id)
		return nil, false
	}

	c.touchLRU(id)
	return item.rec, true
}

func (c *memoryCache) Set(ctx context.Context, id tenantgate.ID, rec *Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[id]; !exists && len(c.items) >= c.maxSize {
		if len(c.lru) > 0 {
			evict := c.lru[0]
			delete(c.items, evict)
			c.lru = c.lru[1:]
		}
	}

	c.items[id] = cacheItem{
		rec:       rec,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.touchLRU(id)
}

func (c *memoryCache) Delete(ctx context.Context, id tenantgate.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, id)
	c.removeLRU(id)
}

// Close stops the janitor and waits for it to finish.
func (c *memoryCache) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	close(c.stop)
	<-c.done
	return nil
}

func (c *memoryCache) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	defer close(c.done)

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}

func (c *memoryCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, id)
			c.removeLRU(id)
		}
	}
}

// touchLRU moves the id to the most recently used position.
func (c *memoryCache) touchLRU(id tenantgate.ID) {
	for i, k := range c.lru {
		if k == id {
			c.lru = append(c.lru[:i], c.lru[i+1:]...)
			break
		}
	}
	c.lru = append(c.lru, id)
}

func (c *memoryCache) removeLRU(id tenantgate.ID) {
	for i, k := range c.lru {
		if k == id {
			c.lru = append(c.lru[:i], c.lru[i+1:]...)
			return
		}
	}
}

// nopCache disables caching: every lookup goes to the store.
type nopCache struct{}

// NewNopCache creates a cache that never stores anything.
func NewNopCache() RecordCache { return nopCache{} }

func (nopCache) Get(ctx context.Context, id tenantgate.ID) (*Record, bool) { return nil, false }
func (nopCache) Set(ctx context.Context, id tenantgate.ID, rec *Record)    {}
func (nopCache) Delete(ctx context.Context, id tenantgate.ID)              {}
func (nopCache) Close() error                                              { return nil }
