package contentcache

import (
	"container/list"
	"encoding/json"
	"time"
)

// entry is the in-memory record for one cached value. The store owns the
// value once inserted; callers must not mutate it afterwards.
type entry struct {
	key            string
	value          any
	createdAt      time.Time
	expiresAt      time.Time // zero => never expires
	accessCount    int64
	lastAccessedAt time.Time
	size           int64
	metadata       map[string]string

	// Positions in the store's order lists. Every live entry has both;
	// accessElem moves to the front on Get, insertElem never moves.
	accessElem *list.Element
	insertElem *list.Element
}

func (e *entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !e.expiresAt.After(now)
}

const defaultEntrySize = 64

// estimateSize approximates the memory footprint of a value. Strings and
// byte slices count their length; everything else counts its JSON length.
// This is a budget estimate, not an allocator-accurate measurement.
func estimateSize(v any) int64 {
	switch x := v.(type) {
	case nil:
		return 0
	case string:
		return int64(len(x))
	case []byte:
		return int64(len(x))
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return defaultEntrySize
		}
		return int64(len(b))
	}
}
