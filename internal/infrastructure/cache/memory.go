// Package cache keeps pre-aggregated analytics in process memory.
package cache

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/muni-rrhh/dashboard/internal/application/port"
)

// MemoryCache implements port.Cache on top of go-cache
type MemoryCache struct {
	cache *gocache.Cache

	mu  sync.Mutex
	gen uint64
}

// NewMemoryCache creates a cache whose entries live for ttl by default and
// are purged every cleanupInterval
func NewMemoryCache(ttl, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(ttl, cleanupInterval),
	}
}

func (c *MemoryCache) Get(key string) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *MemoryCache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// SetAt stores value unless the cache was flushed after gen was read. A zero
// ttl uses the cache default.
func (c *MemoryCache) SetAt(gen uint64, key string, value interface{}, ttl time.Duration) bool {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.cache.Set(key, value, ttl)
	return true
}

func (c *MemoryCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.cache.Flush()
}

// ItemCount reports how many entries are held, expired ones included
func (c *MemoryCache) ItemCount() int {
	return c.cache.ItemCount()
}

// Verify interface compliance
var _ port.Cache = (*MemoryCache)(nil)
