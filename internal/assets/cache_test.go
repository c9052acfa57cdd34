package assets

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_GetPut(t *testing.T) {
	c := NewCache(10, 0)

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Put("k", []byte("value"))
	data, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("value"), data)

	assert.Equal(t, CacheStats{Hits: 1, Misses: 1}, c.Stats())
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(5), c.Size())
}

func TestCache_EvictsLeastRecentlyUsedByCount(t *testing.T) {
	c := NewCache(2, 0)

	c.Put("a", []byte("1"))
	c.Put("b", []byte("2"))
	_, _ = c.Get("a") // a is now most recent
	c.Put("c", []byte("3"))

	assert.True(t, c.contains("a"))
	assert.False(t, c.contains("b"))
	assert.True(t, c.contains("c"))
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestCache_EvictsByBytes(t *testing.T) {
	c := NewCache(0, 10)

	c.Put("a", make([]byte, 4))
	c.Put("b", make([]byte, 4))
	c.Put("c", make([]byte, 4))

	assert.False(t, c.contains("a"))
	assert.True(t, c.contains("b"))
	assert.True(t, c.contains("c"))
	assert.Equal(t, int64(8), c.Size())
}

func TestCache_SkipsOversizedItems(t *testing.T) {
	c := NewCache(0, 10)
	c.Put("small", make([]byte, 3))
	c.Put("huge", make([]byte, 11))

	assert.False(t, c.contains("huge"))
	assert.True(t, c.contains("small"), "oversized put must not flush existing entries")
}

func TestCache_ReplaceUpdatesSize(t *testing.T) {
	c := NewCache(0, 0)
	c.Put("a", make([]byte, 4))
	c.Put("a", make([]byte, 9))

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(9), c.Size())
}

func TestCache_Remove(t *testing.T) {
	c := NewCache(0, 0)
	c.Put("a", []byte("xyz"))
	c.Remove("a")
	c.Remove("missing")

	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.Size())
}

func TestCache_Unbounded(t *testing.T) {
	c := NewCache(-1, -1)
	for i := 0; i < 1000; i++ {
		c.Put(fmt.Sprintf("k%d", i), []byte{byte(i)})
	}
	assert.Equal(t, 1000, c.Len())
	assert.Equal(t, int64(0), c.Stats().Evictions)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := NewCache(50, 0)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("k%d", (g*31+i)%80)
				if _, ok := c.Get(key); !ok {
					c.Put(key, []byte(key))
				}
			}
		}(g)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 50)
}
