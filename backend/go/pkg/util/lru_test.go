package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewWithConfig(CacheConfig[string, int]{Capacity: 2})
	require.NoError(t, err)

	c.Put("a", 1, 1)
	c.Put("b", 2, 1)
	_, _ = c.Get("a") // a is now most recent
	c.Put("c", 3, 1)

	_, ok := c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_MaxWeight(t *testing.T) {
	c, err := NewWithConfig(CacheConfig[string, string]{MaxWeight: 10})
	require.NoError(t, err)

	c.Put("small", "x", 3)
	c.Put("medium", "y", 4)
	c.Put("large", "z", 8) // pushes out both older entries

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 8, c.Weight())
}

func TestLRU_TTL(t *testing.T) {
	now := time.Unix(100, 0)
	c, err := NewWithConfig(CacheConfig[uint, string]{
		Capacity: 5,
		TTL:      time.Minute,
		Now:      func() time.Time { return now },
	})
	require.NoError(t, err)

	c.Put(1, "path", 1)
	_, ok := c.Get(1)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(1)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRU_DeleteAndPurge(t *testing.T) {
	c, err := NewWithConfig(CacheConfig[int, int]{Capacity: 3})
	require.NoError(t, err)

	c.Put(1, 1, 1)
	c.Put(2, 2, 1)

	assert.True(t, c.Delete(1))
	assert.False(t, c.Delete(1))
	assert.Equal(t, 1, c.Weight())

	c.Purge()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.Weight())
}

func TestLRU_RequiresALimit(t *testing.T) {
	_, err := NewWithConfig(CacheConfig[int, int]{})
	assert.Error(t, err)
}
