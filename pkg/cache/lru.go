package cache

import (
	"container/list"
	"sync"
)

type lruEntry[K comparable, V any] struct {
	key   K
	value V
	cost  int64
}

// Option configures an LRU.
type Option[K comparable, V any] func(*LRU[K, V])

// WithMaxCost bounds the summed cost of all entries. cost is evaluated once,
// when a value is stored.
func WithMaxCost[K comparable, V any](maxCost int64, cost func(V) int64) Option[K, V] {
	return func(c *LRU[K, V]) {
		if maxCost > 0 && cost != nil {
			c.maxCost = maxCost
			c.cost = cost
		}
	}
}

// WithEvictCallback is called, with the lock held, for every entry that
// leaves the cache through eviction, Remove or Clear.
func WithEvictCallback[K comparable, V any](fn func(key K, value V)) Option[K, V] {
	return func(c *LRU[K, V]) { c.onEvict = fn }
}

// LRU is a thread-safe least-recently-used cache bounded by entry count and,
// optionally, by total cost.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*list.Element
	order    *list.List

	maxCost   int64
	totalCost int64
	cost      func(V) int64

	onEvict func(key K, value V)
}

// New returns an LRU holding at most capacity entries. It panics when
// capacity is not positive.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) *LRU[K, V] {
	if capacity <= 0 {
		panic("cache: LRU capacity must be positive")
	}
	c := &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.MoveToFront(elem)
		return elem.Value.(*lruEntry[K, V]).value, true
	}
	var zero V
	return zero, false
}

// Put stores value under key, evicting from the tail until both bounds hold.
// A value whose own cost exceeds the cost bound is not stored.
func (c *LRU[K, V]) Put(key K, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	var cost int64
	if c.cost != nil {
		cost = c.cost(value)
		if cost > c.maxCost {
			if elem, ok := c.items[key]; ok {
				c.removeElement(elem)
			}
			return false
		}
	}

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*lruEntry[K, V])
		c.totalCost += cost - entry.cost
		entry.value, entry.cost = value, cost
		c.order.MoveToFront(elem)
	} else {
		c.items[key] = c.order.PushFront(&lruEntry[K, V]{key: key, value: value, cost: cost})
		c.totalCost += cost
	}

	for c.order.Len() > c.capacity || (c.maxCost > 0 && c.totalCost > c.maxCost) {
		c.removeElement(c.order.Back())
	}
	return true
}

// Remove deletes key and reports whether it was present.
func (c *LRU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
		return true
	}
	return false
}

// RemoveFunc deletes every entry whose key satisfies match and returns how
// many were removed.
func (c *LRU[K, V]) RemoveFunc(match func(K) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int
	for key, elem := range c.items {
		if match(key) {
			c.removeElement(elem)
			n++
		}
	}
	return n
}

func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Cost returns the summed cost of all entries.
func (c *LRU[K, V]) Cost() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalCost
}

func (c *LRU[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.onEvict != nil {
		for _, elem := range c.items {
			entry := elem.Value.(*lruEntry[K, V])
			c.onEvict(entry.key, entry.value)
		}
	}
	c.items = make(map[K]*list.Element)
	c.order.Init()
	c.totalCost = 0
}

// lock must be held
func (c *LRU[K, V]) removeElement(elem *list.Element) {
	entry := c.order.Remove(elem).(*lruEntry[K, V])
	delete(c.items, entry.key)
	c.totalCost -= entry.cost
	if c.onEvict != nil {
		c.onEvict(entry.key, entry.value)
	}
}
