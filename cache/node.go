package cache

// entry is an intrusive doubly linked list element owned by exactly one
// store at a time. Transfers between tiers (TwoQueueCache promotions and
// demotions) move the *entry itself; the key and value are never copied
// into a new allocation.
type entry[K comparable, V any] struct {
	key K
	val V

	// hash is the key's hash under the owning store's Hasher, cached so
	// that reorderings and tier transfers never rehash. All tiers of a
	// layered cache share one Hasher, which keeps the cached value valid
	// across moves.
	hash uint64

	// Intrusive links: head.next is MRU, tail.prev is LRU.
	// Sentinels use the zero entry with no key/value.
	prev *entry[K, V]
	next *entry[K, V]
}
