package assets

import (
	"container/list"
	"log/slog"
	"sync"
)

// Cache is a bounded LRU of image bytes keyed by canonical URL.
// Either limit may be zero to disable it. Safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	maxEntries int
	maxBytes   int64
	size       int64
	order      *list.List // front = most recently used
	items      map[string]*list.Element
	stats      CacheStats
}

type cacheEntry struct {
	key  string
	data []byte
}

// CacheStats counts cache activity since creation.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// NewCache creates a cache bounded by entry count and total bytes.
func NewCache(maxEntries int, maxBytes int64) *Cache {
	if maxEntries < 0 {
		maxEntries = 0
	}
	if maxBytes < 0 {
		maxBytes = 0
	}
	return &Cache{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		order:      list.New(),
		items:      make(map[string]*list.Element),
	}
}

// Get returns the bytes for key and marks it recently used.
// The returned slice is shared and must not be modified.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).data, true
}

// contains reports whether key is cached without touching recency or stats.
func (c *Cache) contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Put stores data under key, evicting least recently used entries as needed.
// Entries larger than the byte budget are not stored.
func (c *Cache) Put(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := int64(len(data))
	if c.maxBytes > 0 && n > c.maxBytes {
		slog.Debug("Asset larger than cache budget, not caching", "key", key, "bytes", n)
		return
	}

	if el, ok := c.items[key]; ok {
		entry := el.Value.(*cacheEntry)
		c.size += n - int64(len(entry.data))
		entry.data = data
		c.order.MoveToFront(el)
	} else {
		c.items[key] = c.order.PushFront(&cacheEntry{key: key, data: data})
		c.size += n
	}

	for c.overLimit() {
		c.evictOldest()
	}
}

// Remove deletes key from the cache.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
	}
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Size returns the total number of cached bytes.
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Cache) overLimit() bool {
	if c.order.Len() == 0 {
		return false
	}
	if c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		return true
	}
	return c.maxBytes > 0 && c.size > c.maxBytes
}

func (c *Cache) evictOldest() {
	el := c.order.Back()
	if el == nil {
		return
	}
	entry := el.Value.(*cacheEntry)
	c.removeElement(el)
	c.stats.Evictions++
	slog.Debug("Evicted asset", "key", entry.key, "bytes", len(entry.data))
}

func (c *Cache) removeElement(el *list.Element) {
	entry := c.order.Remove(el).(*cacheEntry)
	delete(c.items, entry.key)
	c.size -= int64(len(entry.data))
}
