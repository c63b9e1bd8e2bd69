package cache

import "github.com/IvanBrykalov/tierlru/internal/util"

// DefaultRecentRatio is the portion of a TwoQueueCache dedicated to
// recently added entries that have only been seen once.
const DefaultRecentRatio = 0.25

// DefaultGhostRatio sizes the ghost tier tracking keys recently evicted
// from the recent tier, relative to the total budget.
const DefaultGhostRatio = 0.5

// TwoQueueCache is a fixed-size 2Q cache. 2Q improves on plain LRU by
// tracking recently seen and frequently seen keys in separate tiers, so a
// burst of one-time reads cannot flush long-lived entries. A key seen a
// second time (by Put or Get) is promoted from the recent tier into the
// frequent tier; entries demoted from recent under capacity pressure linger
// in a ghost tier so a near-term return visit is readmitted straight into
// frequent.
//
// The combined occupancy of recent and frequent never exceeds the
// configured size; the ghost tier has its own independent budget. A key
// lives in at most one tier at a time. Like Cache, a TwoQueueCache carries
// no locks.
type TwoQueueCache[K comparable, V any] struct {
	size       int
	recentSize int

	recent   *Cache[K, V]
	frequent *Cache[K, V]
	ghost    *Cache[K, V]

	metrics Metrics
}

type twoQConfig[K comparable] struct {
	recentRatio float64
	ghostRatio  float64
	hasher      Hasher[K]
	metrics     Metrics
}

// TwoQOption configures a TwoQueueCache at construction time.
type TwoQOption[K comparable] func(*twoQConfig[K])

// WithRecentRatio sets the soft quota for the recent tier as a fraction of
// the total size. Must lie in [0.0, 1.0].
func WithRecentRatio[K comparable](r float64) TwoQOption[K] {
	return func(c *twoQConfig[K]) { c.recentRatio = r }
}

// WithGhostRatio sets the ghost tier capacity as a fraction of the total
// size. Must lie in [0.0, 1.0].
func WithGhostRatio[K comparable](g float64) TwoQOption[K] {
	return func(c *twoQConfig[K]) { c.ghostRatio = g }
}

// With2QHasher replaces the default randomized hasher. One hasher is shared
// by all three tiers so entries keep their cached hash across transfers.
func With2QHasher[K comparable](h Hasher[K]) TwoQOption[K] {
	return func(c *twoQConfig[K]) { c.hasher = h }
}

// With2QMetrics installs a metrics sink driven by the layered operations.
// The inner tiers report nothing of their own.
func With2QMetrics[K comparable](m Metrics) TwoQOption[K] {
	return func(c *twoQConfig[K]) { c.metrics = m }
}

// New2Q constructs a TwoQueueCache with total budget size.
// size < 1 is rejected with *SizeError; ratios outside [0.0, 1.0] with
// *RecentRatioError / *GhostRatioError. A ghost ratio small enough that
// floor(size*ratio) is zero fails the same way a zero size does, since the
// ghost tier is itself a cache with a positive capacity requirement.
func New2Q[K comparable, V any](size int, opts ...TwoQOption[K]) (*TwoQueueCache[K, V], error) {
	cfg := twoQConfig[K]{
		recentRatio: DefaultRecentRatio,
		ghostRatio:  DefaultGhostRatio,
		metrics:     NoopMetrics{},
	}
	for _, o := range opts {
		o(&cfg)
	}

	if size <= 0 {
		return nil, &SizeError{Size: size}
	}
	if cfg.recentRatio < 0.0 || cfg.recentRatio > 1.0 {
		return nil, &RecentRatioError{Ratio: cfg.recentRatio}
	}
	if cfg.ghostRatio < 0.0 || cfg.ghostRatio > 1.0 {
		return nil, &GhostRatioError{Ratio: cfg.ghostRatio}
	}
	if cfg.hasher == nil {
		cfg.hasher = util.DefaultHasher[K]()
	}

	// recent and frequent each get the full budget as a hard cap; the
	// combined invariant enforced by ensureSpace is what actually bounds
	// them. Only the ghost tier runs at its own capacity.
	recent, err := New[K, V](size, WithHasher[K, V](cfg.hasher))
	if err != nil {
		return nil, err
	}
	frequent, err := New[K, V](size, WithHasher[K, V](cfg.hasher))
	if err != nil {
		return nil, err
	}
	ghost, err := New[K, V](int(float64(size)*cfg.ghostRatio), WithHasher[K, V](cfg.hasher))
	if err != nil {
		return nil, err
	}

	return &TwoQueueCache[K, V]{
		size:       size,
		recentSize: int(float64(size) * cfg.recentRatio),
		recent:     recent,
		frequent:   frequent,
		ghost:      ghost,
		metrics:    cfg.metrics,
	}, nil
}

// Put inserts or updates k, routing it between the tiers:
//
//   - already frequent: update in place and bump recency;
//   - in recent: a second write promotes. The entry itself moves into
//     frequent with the value swapped; no eviction callback fires because
//     a transfer is not a removal;
//   - in ghost: the key was demoted not long ago, so make room and readmit
//     it straight into frequent;
//   - absent: make room and insert fresh into recent.
//
// The result reports the replaced value and, when making room evicted a
// frequent entry outright, the evicted pair (PutEvictedUpdated covers a
// ghost readmission doing both at once). Demotions from recent into the
// ghost tier are not reported: the entry is still resident there.
func (c *TwoQueueCache[K, V]) Put(k K, v V) PutResult[K, V] {
	if e := c.frequent.s.lookup(k); e != nil {
		old := e.val
		e.val = v
		c.frequent.s.moveToFront(e)
		return PutResult[K, V]{Kind: PutUpdated, OldValue: old}
	}

	if e := c.recent.takeEntry(k); e != nil {
		old := e.val
		e.val = v
		c.frequent.putEntry(e)
		return PutResult[K, V]{Kind: PutUpdated, OldValue: old}
	}

	// Take the ghost entry out before making room: ensureSpace may demote
	// into the ghost tier, and a ghost overflow must not drop the very
	// entry being readmitted.
	if e := c.ghost.takeEntry(k); e != nil {
		ek, ev, evicted := c.ensureSpace(true)
		old := e.val
		e.val = v
		c.frequent.putEntry(e)
		c.metrics.Size(c.Len())
		if evicted {
			c.metrics.Evict(EvictCapacity)
			return PutResult[K, V]{Kind: PutEvictedUpdated, OldValue: old, EvictedKey: ek, EvictedValue: ev}
		}
		return PutResult[K, V]{Kind: PutUpdated, OldValue: old}
	}

	ek, ev, evicted := c.ensureSpace(false)
	c.recent.s.insert(&entry[K, V]{key: k, val: v, hash: c.recent.s.hash(k)})
	c.metrics.Size(c.Len())
	if evicted {
		c.metrics.Evict(EvictCapacity)
		return PutResult[K, V]{Kind: PutEvicted, EvictedKey: ek, EvictedValue: ev}
	}
	return PutResult[K, V]{}
}

// Get returns the value for k. A frequent hit bumps recency there; a recent
// hit promotes the entry into frequent (a single read is enough, unlike the
// write path's second Put). The ghost tier is never consulted: a ghost hit
// is a miss for read purposes even though the stale value is still resident.
func (c *TwoQueueCache[K, V]) Get(k K) (V, bool) {
	if e := c.frequent.s.lookup(k); e != nil {
		c.frequent.s.moveToFront(e)
		c.metrics.Hit()
		return e.val, true
	}
	if e := c.recent.takeEntry(k); e != nil {
		c.frequent.putEntry(e)
		c.metrics.Hit()
		return e.val, true
	}
	c.metrics.Miss()
	var zero V
	return zero, false
}

// Peek returns the value for k from the resident tiers without reordering.
func (c *TwoQueueCache[K, V]) Peek(k K) (V, bool) {
	if v, ok := c.frequent.Peek(k); ok {
		return v, true
	}
	return c.recent.Peek(k)
}

// Contains reports residency in the recent or frequent tier; ghost entries
// do not count, matching Get.
func (c *TwoQueueCache[K, V]) Contains(k K) bool {
	return c.frequent.Contains(k) || c.recent.Contains(k)
}

// Remove deletes k from whichever tier holds it, frequent first, then
// recent, then ghost, and returns the stored value.
func (c *TwoQueueCache[K, V]) Remove(k K) (V, bool) {
	for _, tier := range []*Cache[K, V]{c.frequent, c.recent, c.ghost} {
		if e := tier.takeEntry(k); e != nil {
			c.metrics.Size(c.Len())
			return e.val, true
		}
	}
	var zero V
	return zero, false
}

// Purge drops every entry from all three tiers.
func (c *TwoQueueCache[K, V]) Purge() {
	c.recent.Purge()
	c.frequent.Purge()
	c.ghost.Purge()
	c.metrics.Size(0)
}

// Len returns the combined resident entry count (recent + frequent).
func (c *TwoQueueCache[K, V]) Len() int { return c.recent.Len() + c.frequent.Len() }

// Cap returns the total resident budget.
func (c *TwoQueueCache[K, V]) Cap() int { return c.size }

// RecentLen returns the recent tier's entry count.
func (c *TwoQueueCache[K, V]) RecentLen() int { return c.recent.Len() }

// FrequentLen returns the frequent tier's entry count.
func (c *TwoQueueCache[K, V]) FrequentLen() int { return c.frequent.Len() }

// GhostLen returns the ghost tier's entry count.
func (c *TwoQueueCache[K, V]) GhostLen() int { return c.ghost.Len() }

// ensureSpace restores recent.Len()+frequent.Len() < size ahead of an
// insertion. fromGhost marks a call made on behalf of a ghost readmission;
// it may displace recent entries only when recent is strictly over its
// quota, so a readmission does not cannibalize a recent tier sitting
// exactly at quota.
//
// A displaced recent entry is demoted into the ghost tier, which enforces
// its own capacity by silently dropping its tail; demotion is not an
// eviction. When no recent entry may be demoted, the coldest frequent entry
// is evicted outright and returned.
func (c *TwoQueueCache[K, V]) ensureSpace(fromGhost bool) (K, V, bool) {
	var zk K
	var zv V

	recentLen, freqLen := c.recent.Len(), c.frequent.Len()
	if recentLen+freqLen < c.size {
		return zk, zv, false
	}

	if recentLen > 0 && (recentLen > c.recentSize || (recentLen == c.recentSize && !fromGhost)) {
		e := c.recent.takeOldest()
		c.ghost.putEntry(e)
		return zk, zv, false
	}

	e := c.frequent.takeOldest()
	if e == nil {
		return zk, zv, false
	}
	return e.key, e.val, true
}
