package csharp

import (
	"crypto/sha256"
	"encoding/hex"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/oxhq/cs2hx/providers"
)

// unitCache keeps parsed units keyed by path and source hash. Units are
// read-only once built, so a cached unit is shared between callers.
type unitCache struct {
	items     *gocache.Cache
	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

func newUnitCache(maxAge time.Duration) *unitCache {
	c := &unitCache{items: gocache.New(maxAge, 2*maxAge)}
	c.items.OnEvicted(func(string, any) { c.evictions.Add(1) })
	return c
}

func (c *unitCache) key(path string, src []byte) string {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write(src)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *unitCache) get(key string) (*providers.Unit, bool) {
	v, ok := c.items.Get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return v.(*providers.Unit), true
}

func (c *unitCache) put(key string, unit *providers.Unit) {
	c.items.Set(key, unit, gocache.DefaultExpiration)
}

// sweep removes expired entries.
func (c *unitCache) sweep() {
	c.items.DeleteExpired()
}

func (c *unitCache) stats() map[string]int64 {
	hits, misses := c.hits.Load(), c.misses.Load()
	return map[string]int64{
		"entries":   int64(c.items.ItemCount()),
		"hits":      hits,
		"misses":    misses,
		"evictions": c.evictions.Load(),
		"hit_rate":  hits * 100 / (hits + misses + 1),
	}
}
