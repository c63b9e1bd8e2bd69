package cache

import "github.com/IvanBrykalov/tierlru/internal/util"

// EvictCallback is invoked with the key and value of every entry leaving a
// Cache for any reason: capacity eviction, explicit removal, Resize shrink,
// and Purge. Tier transfers inside a TwoQueueCache are not removals and do
// not fire it; neither does garbage collection of an abandoned cache.
type EvictCallback[K comparable, V any] func(k K, v V)

// Cache is a fixed-capacity single-tier LRU cache: a store (intrusive
// recency list plus hash index) under a capacity bound, with an optional
// eviction callback and metrics sink.
//
// All operations are O(1) expected time and never block. The cache carries
// no locks; a single goroutine must own it, or callers must synchronize
// externally (see the package documentation).
type Cache[K comparable, V any] struct {
	s       *store[K, V]
	cap     int
	hasher  Hasher[K]
	onEvict EvictCallback[K, V]
	metrics Metrics
}

// Option configures a Cache at construction time.
type Option[K comparable, V any] func(*Cache[K, V])

// WithHasher replaces the default randomized hasher. The layered cache
// passes one shared hasher to all of its tiers.
func WithHasher[K comparable, V any](h Hasher[K]) Option[K, V] {
	return func(c *Cache[K, V]) { c.hasher = h }
}

// WithEvict installs an eviction callback. The callback runs synchronously
// inside the mutating operation; keep it light.
func WithEvict[K comparable, V any](cb EvictCallback[K, V]) Option[K, V] {
	return func(c *Cache[K, V]) { c.onEvict = cb }
}

// WithMetrics installs a metrics sink (see metrics/prom for a Prometheus
// adapter).
func WithMetrics[K comparable, V any](m Metrics) Option[K, V] {
	return func(c *Cache[K, V]) { c.metrics = m }
}

// New constructs a Cache holding at most capacity entries.
// A capacity < 1 is rejected with *SizeError.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, &SizeError{Size: capacity}
	}
	c := &Cache[K, V]{cap: capacity, metrics: NoopMetrics{}}
	for _, o := range opts {
		o(c)
	}
	if c.hasher == nil {
		c.hasher = util.DefaultHasher[K]()
	}
	c.s = newStore[K, V](c.hasher)
	return c, nil
}

// Put inserts or updates k and reports what happened. Updating an existing
// key never evicts, even at full capacity: no new slot is needed. When a
// new key arrives at full capacity, the LRU entry's slot is recycled in
// place for the new pair and the displaced pair is reported (and handed to
// the eviction callback).
func (c *Cache[K, V]) Put(k K, v V) PutResult[K, V] {
	if e := c.s.lookup(k); e != nil {
		old := e.val
		e.val = v
		c.s.moveToFront(e)
		return PutResult[K, V]{Kind: PutUpdated, OldValue: old}
	}

	if c.cap == 0 {
		// Only reachable after Resize(0): the new pair is its own victim.
		c.evict(k, v, EvictCapacity)
		return PutResult[K, V]{Kind: PutEvicted, EvictedKey: k, EvictedValue: v}
	}

	if c.s.len() >= c.cap {
		e := c.s.back()
		ek, ev := e.key, e.val
		c.s.rekey(e, k, v)
		c.evict(ek, ev, EvictCapacity)
		c.metrics.Size(c.s.len())
		return PutResult[K, V]{Kind: PutEvicted, EvictedKey: ek, EvictedValue: ev}
	}

	c.s.insert(&entry[K, V]{key: k, val: v, hash: c.s.hash(k)})
	c.metrics.Size(c.s.len())
	return PutResult[K, V]{}
}

// Get returns the value for k and promotes the entry to MRU.
// Absence is not an error.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	e := c.s.lookup(k)
	if e == nil {
		c.metrics.Miss()
		var zero V
		return zero, false
	}
	c.s.moveToFront(e)
	c.metrics.Hit()
	return e.val, true
}

// Peek returns the value for k without disturbing the recency order.
func (c *Cache[K, V]) Peek(k K) (V, bool) {
	if e := c.s.lookup(k); e != nil {
		return e.val, true
	}
	var zero V
	return zero, false
}

// PeekMut returns a pointer to k's value for in-place mutation, without
// disturbing the recency order. The pointer stays valid until the entry
// leaves the cache or its slot is recycled by an eviction.
func (c *Cache[K, V]) PeekMut(k K) (*V, bool) {
	if e := c.s.lookup(k); e != nil {
		return &e.val, true
	}
	return nil, false
}

// GetLRU returns the least-recently-used pair and, despite the name,
// promotes it to most-recently-used. The asymmetry with PeekLRU is kept
// deliberately: use PeekLRU to observe the tail without reordering.
func (c *Cache[K, V]) GetLRU() (K, V, bool) {
	e := c.s.back()
	if e == nil {
		var zk K
		var zv V
		return zk, zv, false
	}
	c.s.moveToFront(e)
	return e.key, e.val, true
}

// PeekLRU returns the least-recently-used pair without reordering.
func (c *Cache[K, V]) PeekLRU() (K, V, bool) {
	e := c.s.back()
	if e == nil {
		var zk K
		var zv V
		return zk, zv, false
	}
	return e.key, e.val, true
}

// Contains reports membership without disturbing the recency order.
func (c *Cache[K, V]) Contains(k K) bool { return c.s.lookup(k) != nil }

// Remove deletes k and returns its value. The eviction callback fires for
// explicit removals too, not only capacity evictions.
func (c *Cache[K, V]) Remove(k K) (V, bool) {
	e := c.s.lookup(k)
	if e == nil {
		var zero V
		return zero, false
	}
	c.s.unlink(e)
	c.evict(e.key, e.val, EvictRemove)
	c.metrics.Size(c.s.len())
	return e.val, true
}

// RemoveLRU removes and returns the least-recently-used pair, firing the
// eviction callback.
func (c *Cache[K, V]) RemoveLRU() (K, V, bool) {
	e := c.s.back()
	if e == nil {
		var zk K
		var zv V
		return zk, zv, false
	}
	c.s.unlink(e)
	c.evict(e.key, e.val, EvictRemove)
	c.metrics.Size(c.s.len())
	return e.key, e.val, true
}

// Resize changes the capacity, evicting least-recent entries first while
// the cache is over the new bound, and returns the eviction count.
// Resizing to the current capacity is a no-op. Resize(0) empties the cache
// and pins the capacity at zero (every subsequent Put evicts its own pair);
// a negative capacity is treated as zero.
func (c *Cache[K, V]) Resize(capacity int) int {
	if capacity < 0 {
		capacity = 0
	}
	if capacity == c.cap {
		return 0
	}
	evicted := 0
	for c.s.len() > capacity {
		e := c.s.back()
		c.s.unlink(e)
		c.evict(e.key, e.val, EvictResize)
		evicted++
	}
	c.cap = capacity
	c.metrics.Size(c.s.len())
	return evicted
}

// Purge evicts every entry, least-recent first, firing the eviction
// callback once per entry.
func (c *Cache[K, V]) Purge() {
	for {
		e := c.s.back()
		if e == nil {
			break
		}
		c.s.unlink(e)
		c.evict(e.key, e.val, EvictPurge)
	}
	c.metrics.Size(0)
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int { return c.s.len() }

// IsEmpty reports whether the cache holds no entries.
func (c *Cache[K, V]) IsEmpty() bool { return c.s.len() == 0 }

// Cap returns the current capacity.
func (c *Cache[K, V]) Cap() int { return c.cap }

func (c *Cache[K, V]) evict(k K, v V, reason EvictReason) {
	c.metrics.Evict(reason)
	if c.onEvict != nil {
		c.onEvict(k, v)
	}
}

// -------------------- tier transfers (layered cache internals) --------------------
//
// These move whole entries between tiers without firing callbacks or
// metrics: a transfer is not a removal event.

// takeEntry removes and returns the entry for k, or nil.
func (c *Cache[K, V]) takeEntry(k K) *entry[K, V] {
	e := c.s.lookup(k)
	if e != nil {
		c.s.unlink(e)
	}
	return e
}

// takeOldest removes and returns the LRU entry, or nil when empty.
func (c *Cache[K, V]) takeOldest() *entry[K, V] {
	e := c.s.back()
	if e != nil {
		c.s.unlink(e)
	}
	return e
}

// putEntry admits an existing entry at MRU. When the cache is full the LRU
// entry is dropped silently and returned (the ghost tier's overflow rule).
// The entry's cached hash must come from this cache's hasher.
func (c *Cache[K, V]) putEntry(e *entry[K, V]) *entry[K, V] {
	var dropped *entry[K, V]
	if c.s.len() >= c.cap {
		if dropped = c.s.back(); dropped != nil {
			c.s.unlink(dropped)
		}
	}
	c.s.insert(e)
	return dropped
}
