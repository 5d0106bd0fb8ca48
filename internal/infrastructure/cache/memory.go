package cache

import (
	"sync"
	"time"

	"storefront-backend/pkg/cache"

	gocache "github.com/patrickmn/go-cache"
)

type memoryCache struct {
	// touchMu makes the read and re-set in Touch a single step.
	touchMu sync.Mutex
	store   *gocache.Cache
}

// NewMemoryCache backs cache.Store with go-cache. A cleanupInterval of 0
// disables the janitor goroutine; callers then rely on Sweep.
func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration) cache.Store {
	return &memoryCache{
		store: gocache.New(defaultExpiration, cleanupInterval),
	}
}

func (c *memoryCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

func (c *memoryCache) Set(key string, value interface{}, duration time.Duration) {
	if duration == 0 {
		duration = gocache.DefaultExpiration
	}
	c.store.Set(key, value, duration)
}

func (c *memoryCache) Touch(key string, duration time.Duration) (interface{}, bool) {
	c.touchMu.Lock()
	defer c.touchMu.Unlock()

	val, found := c.store.Get(key)
	if !found {
		return nil, false
	}
	c.Set(key, val, duration)
	return val, true
}

func (c *memoryCache) Delete(key string) {
	c.store.Delete(key)
}

func (c *memoryCache) Flush() {
	c.store.Flush()
}

// Live uses Items, which already filters out expired entries.
func (c *memoryCache) Live() int {
	return len(c.store.Items())
}

func (c *memoryCache) Sweep() {
	c.store.DeleteExpired()
}

func (c *memoryCache) OnEvicted(fn func(key string, value interface{})) {
	c.store.OnEvicted(fn)
}
