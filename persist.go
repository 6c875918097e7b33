package contentcache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/openpress/contentcache/backend"
	"github.com/openpress/contentcache/codec"
	"github.com/openpress/contentcache/internal/wire"
)

// snapshot is the persisted form of a store: entries in insertion order
// (oldest first) plus the cumulative counters, wrapped in the wire
// envelope before it reaches the backend slot. Access order is not stored
// separately; it is rebuilt from LastAccessedAt on restore.
type snapshot struct {
	SavedAt time.Time       `json:"saved_at"`
	Entries []snapshotEntry `json:"entries"`
	Metrics snapshotMetrics `json:"metrics"`
}

type snapshotEntry struct {
	Key            string            `json:"key"`
	Value          any               `json:"value"`
	CreatedAt      time.Time         `json:"created_at"`
	ExpiresAt      time.Time         `json:"expires_at,omitempty"`
	AccessCount    int64             `json:"access_count"`
	LastAccessedAt time.Time         `json:"last_accessed_at"`
	Size           int64             `json:"size"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type snapshotMetrics struct {
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	Evictions   int64 `json:"evictions"`
	Expirations int64 `json:"expirations"`
}

// valid is the shape check applied after decoding. A snapshot that decoded
// cleanly can still be foreign or mangled data that happened to parse.
func (sn *snapshot) valid() bool {
	seen := make(map[string]struct{}, len(sn.Entries))
	for _, e := range sn.Entries {
		if e.Key == "" || e.Size < 0 || e.AccessCount < 0 {
			return false
		}
		if _, dup := seen[e.Key]; dup {
			return false
		}
		seen[e.Key] = struct{}{}
	}
	return true
}

// persister owns one store's snapshot round trip. Saves are debounced:
// a burst of mutations schedules a single background flush instead of one
// write per Set. flushNow exists for shutdown paths.
//
// Every backend failure is absorbed here - logged, reported through
// hooks, never surfaced to cache callers. The in-memory store is the
// source of truth; the slot is only a restart warm-up.
type persister struct {
	store    string
	slot     string
	backend  backend.Backend
	codec    codec.Codec
	debounce time.Duration
	log      Logger
	hooks    Hooks

	mu      sync.Mutex
	pending *time.Timer
	closed  bool
}

// scheduleFlush arms the debounce timer unless one is already pending.
func (p *persister) scheduleFlush(s *Store) {
	p.mu.Lock()
	if p.closed || p.pending != nil {
		p.mu.Unlock()
		return
	}
	p.pending = time.AfterFunc(p.debounce, func() {
		p.mu.Lock()
		p.pending = nil
		p.mu.Unlock()

		if err := p.save(context.Background(), s.snapshot()); err != nil {
			p.log.Warn("snapshot save failed; cache stays memory-only", Fields{
				"store": p.store, "slot": p.slot, "err": err,
			})
			p.hooks.SnapshotSaveFailed(p.store, p.slot, err)
		}
	})
	p.mu.Unlock()
}

// flushNow cancels any pending debounce and saves synchronously.
func (p *persister) flushNow(ctx context.Context, s *Store) error {
	p.mu.Lock()
	if p.pending != nil {
		p.pending.Stop()
		p.pending = nil
	}
	p.mu.Unlock()

	if err := p.save(ctx, s.snapshot()); err != nil {
		p.hooks.SnapshotSaveFailed(p.store, p.slot, err)
		return err
	}
	return nil
}

func (p *persister) save(ctx context.Context, snap snapshot) error {
	payload, err := p.codec.Encode(snap)
	if err != nil {
		return &SnapshotError{Slot: p.slot, Op: "save", Err: err}
	}
	if err := p.backend.SetItem(ctx, p.slot, string(wire.Encode(payload))); err != nil {
		return &SnapshotError{Slot: p.slot, Op: "save", Err: err}
	}
	return nil
}

// load reads and validates the slot. Any failure - backend error, bad
// envelope, decode error, bad shape - yields (nil, false) and the caller
// starts cold. Corrupt slots are cleared so the next start does not trip
// over them again.
func (p *persister) load(ctx context.Context) (*snapshot, bool) {
	raw, ok, err := p.backend.GetItem(ctx, p.slot)
	if err != nil {
		p.log.Warn("snapshot load failed; starting cold", Fields{
			"store": p.store, "slot": p.slot, "err": err,
		})
		return nil, false
	}
	if !ok {
		return nil, false
	}

	payload, err := wire.Decode([]byte(raw))
	if err != nil {
		p.discard(ctx, "bad_envelope")
		return nil, false
	}
	var snap snapshot
	if err := p.codec.Decode(payload, &snap); err != nil {
		p.discard(ctx, "decode_error")
		return nil, false
	}
	if !snap.valid() {
		p.discard(ctx, "bad_shape")
		return nil, false
	}
	return &snap, true
}

func (p *persister) discard(ctx context.Context, reason string) {
	// clear the slot so every future load does not re-fail on it
	_ = p.backend.RemoveItem(ctx, p.slot)
	p.log.Warn("discarded corrupt snapshot", Fields{
		"store": p.store, "slot": p.slot, "reason": reason,
	})
	p.hooks.SnapshotDiscarded(p.slot, reason)
}

func (p *persister) close() {
	p.mu.Lock()
	p.closed = true
	if p.pending != nil {
		p.pending.Stop()
		p.pending = nil
	}
	p.mu.Unlock()
}

// snapshot captures the store under its lock.
func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	snap := snapshot{
		SavedAt: time.Now(),
		Entries: make([]snapshotEntry, 0, len(s.entries)),
		Metrics: snapshotMetrics{
			Hits:        s.hits,
			Misses:      s.misses,
			Evictions:   s.evictions,
			Expirations: s.expirations,
		},
	}
	for el := s.insertion.Front(); el != nil; el = el.Next() {
		e := s.entries[el.Value.(string)]
		snap.Entries = append(snap.Entries, snapshotEntry{
			Key:            e.key,
			Value:          e.value,
			CreatedAt:      e.createdAt,
			ExpiresAt:      e.expiresAt,
			AccessCount:    e.accessCount,
			LastAccessedAt: e.lastAccessedAt,
			Size:           e.size,
			Metadata:       e.metadata,
		})
	}
	s.mu.Unlock()
	return snap
}

// restore seeds a freshly constructed store from a validated snapshot.
// Entries already expired at load time are dropped, not resurrected.
// Runs before the store is visible to callers, so no locking.
func (s *Store) restore(snap *snapshot) {
	now := time.Now()

	live := make([]snapshotEntry, 0, len(snap.Entries))
	for _, se := range snap.Entries {
		if !se.ExpiresAt.IsZero() && !se.ExpiresAt.After(now) {
			continue
		}
		live = append(live, se)
	}

	// insertion order is the serialized order
	for _, se := range live {
		e := &entry{
			key:            se.Key,
			value:          se.Value,
			createdAt:      se.CreatedAt,
			expiresAt:      se.ExpiresAt,
			accessCount:    se.AccessCount,
			lastAccessedAt: se.LastAccessedAt,
			size:           se.Size,
			metadata:       se.Metadata,
		}
		s.entries[se.Key] = e
		e.insertElem = s.insertion.PushBack(se.Key)
		s.sizeBytes += se.Size
	}

	// access order comes back from the timestamps: pushing in ascending
	// LastAccessedAt order leaves the most recent at the MRU front
	byAccess := make([]snapshotEntry, len(live))
	copy(byAccess, live)
	sort.SliceStable(byAccess, func(i, j int) bool {
		return byAccess[i].LastAccessedAt.Before(byAccess[j].LastAccessedAt)
	})
	for _, se := range byAccess {
		s.entries[se.Key].accessElem = s.access.PushFront(se.Key)
	}

	s.hits = snap.Metrics.Hits
	s.misses = snap.Metrics.Misses
	s.evictions = snap.Metrics.Evictions
	s.expirations = snap.Metrics.Expirations

	s.log.Info("restored cache from snapshot", Fields{
		"store": s.name, "slot": s.persist.slot,
		"entries": len(live), "dropped": len(snap.Entries) - len(live),
	})
}
