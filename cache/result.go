package cache

import "fmt"

// PutKind discriminates the outcomes of a Put.
type PutKind int

const (
	// PutInserted: new key, room available, nothing displaced.
	PutInserted PutKind = iota
	// PutUpdated: the key existed and its value was replaced.
	PutUpdated
	// PutEvicted: new key admitted at full capacity; a different pair
	// was evicted to make room.
	PutEvicted
	// PutEvictedUpdated: layered-cache only. A ghost readmission updated
	// one entry and simultaneously evicted another from the frequent tier.
	PutEvictedUpdated
)

func (k PutKind) String() string {
	switch k {
	case PutInserted:
		return "inserted"
	case PutUpdated:
		return "updated"
	case PutEvicted:
		return "evicted"
	case PutEvictedUpdated:
		return "evicted+updated"
	default:
		return fmt.Sprintf("PutKind(%d)", int(k))
	}
}

// PutResult reports what a Put did. Kind selects which fields are
// meaningful: OldValue for PutUpdated and PutEvictedUpdated,
// EvictedKey/EvictedValue for PutEvicted and PutEvictedUpdated.
// The zero PutResult is a plain PutInserted.
type PutResult[K comparable, V any] struct {
	Kind PutKind

	// OldValue is the value replaced by an update.
	OldValue V

	// EvictedKey and EvictedValue are the pair forced out by the insert.
	EvictedKey   K
	EvictedValue V
}
