package contentcache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths, with no store lock held.
type Hooks interface {
	// An entry was removed to satisfy the capacity budget.
	EntryEvicted(store, key string, policy Policy)

	// An entry was removed because its TTL elapsed (lazy read or sweep).
	EntryExpired(store, key string)

	// A single entry larger than the whole byte budget was accepted.
	// The store now holds only that entry.
	OversizedInsert(store, key string, size, maxBytes int64)

	// A snapshot save did not reach the backend. The in-memory store is
	// unaffected; the next mutation schedules another attempt.
	SnapshotSaveFailed(store, slot string, err error)

	// A persisted snapshot was rejected on load and the slot cleared.
	// reason is one of "decode_error", "bad_envelope", "bad_shape".
	SnapshotDiscarded(slot, reason string)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) EntryEvicted(string, string, Policy)          {}
func (NopHooks) EntryExpired(string, string)                  {}
func (NopHooks) OversizedInsert(string, string, int64, int64) {}
func (NopHooks) SnapshotSaveFailed(string, string, error)     {}
func (NopHooks) SnapshotDiscarded(string, string)             {}
