package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questdesk/gacha/internal/domain"
)

func TestFetchCache_FreshHit(t *testing.T) {
	c, err := newFetchCache(8, time.Minute)
	require.NoError(t, err)

	key := cacheKey{PoolID: "p1", Tags: "cats", Limit: 10}
	want := []domain.AssetItem{{ID: "a"}}
	c.Put(key, want)

	items, fresh, ok := c.Get(key)
	assert.True(t, ok)
	assert.True(t, fresh)
	assert.Equal(t, want, items)
}

func TestFetchCache_ExpiredEntryStaysResident(t *testing.T) {
	c, err := newFetchCache(8, time.Nanosecond)
	require.NoError(t, err)

	key := cacheKey{PoolID: "p1", Tags: "cats", Limit: 10}
	c.Put(key, []domain.AssetItem{{ID: "a"}})
	time.Sleep(time.Millisecond)

	items, fresh, ok := c.Get(key)
	assert.True(t, ok)
	assert.False(t, fresh)
	assert.Len(t, items, 1)
}

func TestFetchCache_Miss(t *testing.T) {
	c, err := newFetchCache(8, time.Minute)
	require.NoError(t, err)

	_, _, ok := c.Get(cacheKey{PoolID: "nope"})
	assert.False(t, ok)
}

func TestFetchCache_ClearPool(t *testing.T) {
	c, err := newFetchCache(8, time.Minute)
	require.NoError(t, err)

	c.Put(cacheKey{PoolID: "p1", Tags: "a", Limit: 10}, nil)
	c.Put(cacheKey{PoolID: "p1", Tags: "b", Limit: 10}, nil)
	c.Put(cacheKey{PoolID: "p2", Tags: "a", Limit: 10}, nil)

	c.ClearPool("p1")

	assert.Equal(t, 1, c.Len())
	_, _, ok := c.Get(cacheKey{PoolID: "p2", Tags: "a", Limit: 10})
	assert.True(t, ok)
}

func TestFetchCache_ClearAll(t *testing.T) {
	c, err := newFetchCache(8, time.Minute)
	require.NoError(t, err)

	c.Put(cacheKey{PoolID: "p1"}, nil)
	c.Put(cacheKey{PoolID: "p2"}, nil)

	c.ClearPool("")

	assert.Zero(t, c.Len())
}

func TestFetchCache_EvictsAtCapacity(t *testing.T) {
	c, err := newFetchCache(2, time.Minute)
	require.NoError(t, err)

	c.Put(cacheKey{PoolID: "p1"}, nil)
	c.Put(cacheKey{PoolID: "p2"}, nil)
	c.Put(cacheKey{PoolID: "p3"}, nil)

	assert.Equal(t, 2, c.Len())
	_, _, ok := c.Get(cacheKey{PoolID: "p1"})
	assert.False(t, ok)
}
