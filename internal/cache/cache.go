// Package cache provides a size-bounded LRU cache.
package cache

import (
	"container/list"
	"fmt"
	"sync"
)

// Sizer reports the approximate memory cost of an entry in bytes.
type Sizer[K comparable, V any] func(key K, value V) int64

// Cache is an LRU cache bounded by the summed size of its entries rather than
// their count. It is safe for concurrent use.
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	maxBytes  int64
	size      int64
	sizer     Sizer[K, V]
	evictList *list.List
	items     map[K]*list.Element
}

type entry[K comparable, V any] struct {
	key   K
	value V
	size  int64
}

// New returns a cache holding at most maxBytes. A nil sizer counts every
// entry as one byte, which turns maxBytes into an entry count.
func New[K comparable, V any](maxBytes int64, sizer Sizer[K, V]) *Cache[K, V] {
	if sizer == nil {
		sizer = func(K, V) int64 { return 1 }
	}
	if maxBytes < 1 {
		maxBytes = 1
	}
	return &Cache[K, V]{
		maxBytes:  maxBytes,
		sizer:     sizer,
		evictList: list.New(),
		items:     make(map[K]*list.Element),
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (value V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, hit := c.items[key]; hit {
		c.evictList.MoveToFront(ele)
		return ele.Value.(*entry[K, V]).value, true
	}
	return value, false
}

// Contains reports whether key is cached without touching its recency.
func (c *Cache[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Put stores value under key and evicts least recently used entries until
// the cache fits its budget again. It returns the number of evictions. An
// entry larger than the whole budget is not stored.
func (c *Cache[K, V]) Put(key K, value V) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	size := c.sizer(key, value)
	if size > c.maxBytes {
		if ele, hit := c.items[key]; hit {
			c.removeElement(ele)
		}
		return 0
	}

	if ele, hit := c.items[key]; hit {
		c.evictList.MoveToFront(ele)
		kv := ele.Value.(*entry[K, V])
		c.size += size - kv.size
		kv.value, kv.size = value, size
	} else {
		ele := c.evictList.PushFront(&entry[K, V]{key: key, value: value, size: size})
		c.items[key] = ele
		c.size += size
	}

	evicted := 0
	for c.size > c.maxBytes {
		c.removeOldest()
		evicted++
	}
	return evicted
}

// Remove drops key and reports whether it was present.
func (c *Cache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, hit := c.items[key]; hit {
		c.removeElement(ele)
		return true
	}
	return false
}

// Purge empties the cache.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictList.Init()
	c.items = make(map[K]*list.Element)
	c.size = 0
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

// Size returns the summed size of all entries.
func (c *Cache[K, V]) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Keys returns the keys from most to least recently used.
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, c.evictList.Len())
	for ele := c.evictList.Front(); ele != nil; ele = ele.Next() {
		keys = append(keys, ele.Value.(*entry[K, V]).key)
	}
	return keys
}

func (c *Cache[K, V]) removeOldest() {
	if ele := c.evictList.Back(); ele != nil {
		c.removeElement(ele)
	}
}

func (c *Cache[K, V]) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	kv := e.Value.(*entry[K, V])
	c.size -= kv.size
	delete(c.items, kv.key)
}

// ReadableSize formats a byte count with a binary unit suffix.
func ReadableSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
