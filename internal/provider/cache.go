package provider

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/questdesk/gacha/internal/domain"
)

// cacheKey identifies one cached fetch. Keys are structured tuples rather
// than concatenated strings so pool-scoped invalidation is exact.
type cacheKey struct {
	PoolID string
	Tags   string
	Limit  int
}

type cacheEntry struct {
	Items     []domain.AssetItem
	FetchedAt time.Time
}

// fetchCache is a bounded TTL cache for provider responses. Expired entries
// are retained (up to LRU capacity) so a failing upstream can be served stale
// data as a fallback; plain lru.Cache is used instead of expirable.LRU
// because the latter drops entries at expiry.
type fetchCache struct {
	lru *lru.Cache[cacheKey, cacheEntry]
	ttl time.Duration
}

func newFetchCache(size int, ttl time.Duration) (*fetchCache, error) {
	c, err := lru.New[cacheKey, cacheEntry](size)
	if err != nil {
		return nil, err
	}
	return &fetchCache{lru: c, ttl: ttl}, nil
}

// Get returns the cached items and whether they are still within TTL.
// ok is false when nothing is cached at all.
func (c *fetchCache) Get(key cacheKey) (items []domain.AssetItem, fresh, ok bool) {
	entry, ok := c.lru.Get(key)
	if !ok {
		return nil, false, false
	}
	return entry.Items, time.Since(entry.FetchedAt) < c.ttl, true
}

// Put stores a fetch result stamped with the current time
func (c *fetchCache) Put(key cacheKey, items []domain.AssetItem) {
	c.lru.Add(key, cacheEntry{Items: items, FetchedAt: time.Now()})
}

// ClearPool removes every entry for the pool; an empty poolID clears all
func (c *fetchCache) ClearPool(poolID string) {
	if poolID == "" {
		c.lru.Purge()
		return
	}
	for _, key := range c.lru.Keys() {
		if key.PoolID == poolID {
			c.lru.Remove(key)
		}
	}
}

// Len returns the number of cached entries
func (c *fetchCache) Len() int {
	return c.lru.Len()
}
