// Package cache provides fixed-capacity, in-memory key/value caches with
// O(1) expected-time operations: a single-tier LRU engine (Cache) and a
// two-tier 2Q cache (TwoQueueCache) built from three of them.
//
// # Design
//
//   - Storage: each cache keeps an intrusive MRU<->LRU doubly linked list
//     bounded by two permanent sentinel entries, plus a hash index from key
//     to entry. Every operation is a hash lookup plus a constant-size list
//     splice. The index buckets by a pluggable 64-bit Hasher and resolves
//     collisions with ==, so WithHasher genuinely controls hashing rather
//     than decorating the built-in map.
//
//   - Ownership: an entry lives in exactly one tier at a time. The 2Q
//     promotion/demotion machinery moves the entry itself between tiers;
//     keys and values are never copied into fresh allocations on a
//     transfer, and transfers fire no eviction callback.
//
//   - Eviction callback: WithEvict installs a func(K, V) invoked whenever
//     an entry leaves a Cache for any reason (capacity eviction, Remove,
//     RemoveLRU, Resize shrink, Purge). Dropping the whole cache is not a
//     removal event. Ghost-tier overflow inside TwoQueueCache is silent.
//
//   - Results: Put returns a PutResult describing what happened, including
//     the evicted pair when the insert displaced one, and the combined
//     PutEvictedUpdated outcome a 2Q ghost readmission can produce.
//
//   - Errors: constructors validate eagerly (SizeError, RecentRatioError,
//     GhostRatioError); after construction no operation can fail. Missing
//     keys are reported with an ok bool, never an error.
//
//   - Metrics: WithMetrics accepts a Hit/Miss/Evict/Size sink; NoopMetrics
//     is the default. metrics/prom adapts it to Prometheus.
//
// # Concurrency
//
// These are single-threaded data structures: no locks, no atomics, nothing
// blocks. A whole cache may be handed from one goroutine to another, but
// concurrent mutation needs external synchronization, such as a mutex
// around the cache or a single-writer goroutine. Iterators (see
// Iter, IterMut, All) are pinned to the state they were created from and
// panic on use after any mutation of the cache.
//
// # Basic usage
//
//	c, err := cache.New[string, string](128)
//	if err != nil { ... }
//	c.Put("a", "1")
//	if v, ok := c.Get("a"); ok {
//		_ = v
//	}
//
// # A surprise worth knowing
//
// GetLRU returns the least-recently-used pair and promotes it to
// most-recently-used; PeekLRU looks without touching. The side effect
// behind the Get* name is intentional: scenarios built on cycling the tail
// through the front depend on it.
//
// # 2Q
//
//	tq, err := cache.New2Q[string, []byte](1024,
//		cache.WithRecentRatio[string](0.25),
//		cache.WithGhostRatio[string](0.5),
//	)
//
// A key's first Put lands in the recent tier; a second Put or a single Get
// promotes it into the frequent tier. Under pressure the recent tier's
// tail is demoted into a ghost tier, and a Put of a ghosted key is
// readmitted straight into frequent. Reads never see ghost entries.
package cache
