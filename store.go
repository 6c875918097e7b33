package contentcache

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/openpress/contentcache/backend"
	"github.com/openpress/contentcache/codec"
)

// Store is one capacity-bounded cache. All operations are synchronous and
// safe for concurrent use; a single mutex serializes the entry map, the
// order lists and the counters, so policy selection and the following
// removal are one atomic step. Persistence never blocks the caller: Set
// returns before the snapshot reaches the backend.
type Store struct {
	name       string
	policy     Policy
	maxBytes   int64
	maxEntries int
	defaultTTL time.Duration

	log   Logger
	hooks Hooks

	mu        sync.Mutex
	entries   map[string]*entry
	access    *list.List // front = most recently used
	insertion *list.List // front = oldest insertion
	sizeBytes int64

	hits        int64
	misses      int64
	evictions   int64
	expirations int64

	persist     *persister // nil when persistence is off
	jan         *janitor   // nil unless a standalone sweep is scheduled
	ownsBackend bool
}

func newStore(opts Options) (*Store, error) {
	switch opts.EvictionPolicy {
	case "", PolicyLRU, PolicyLFU, PolicyTTL, PolicyFIFO:
	default:
		return nil, fmt.Errorf("contentcache: unknown eviction policy %q", opts.EvictionPolicy)
	}

	s := &Store{
		name:       coalesce(opts.Name, "store"),
		policy:     coalesce(opts.EvictionPolicy, PolicyLRU),
		maxBytes:   coalesce(opts.MaxSizeBytes, int64(defaultMaxSizeBytes)),
		maxEntries: coalesce(opts.MaxEntries, defaultMaxEntries),
		defaultTTL: opts.DefaultTTL, // 0 stays 0: no time expiry by default
		log:        coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:      coalesce[Hooks](opts.Hooks, NopHooks{}),
		entries:    make(map[string]*entry),
		access:     list.New(),
		insertion:  list.New(),
	}

	if opts.Persistence {
		be := opts.Backend
		if be == nil {
			be = backend.NewMemory()
			s.ownsBackend = true
		}
		var cd codec.Codec = opts.Codec
		if cd == nil {
			cd = codec.JSON{}
		}
		if opts.Compression {
			cd = codec.Compressed{Inner: cd}
		}
		s.persist = &persister{
			store:    s.name,
			slot:     coalesce(opts.StorageKey, defaultStorageKey),
			backend:  be,
			codec:    cd,
			debounce: coalesce(opts.FlushDebounce, defaultFlushDebounce),
			log:      s.log,
			hooks:    s.hooks,
		}
		if snap, ok := s.persist.load(context.Background()); ok {
			s.restore(snap)
		}
	}

	if opts.SweepInterval > 0 {
		s.jan = startJanitor(opts.SweepInterval, func() { s.Sweep() })
	}

	return s, nil
}

// Name identifies the store in logs, hooks and manager stats.
func (s *Store) Name() string { return s.name }

// Get returns the live value for key. An expired entry is removed on the
// spot and reported as a miss. Hits update the entry's access bookkeeping
// and its position in the access order.
func (s *Store) Get(key string) (any, bool) {
	now := time.Now()

	s.mu.Lock()
	e, ok := s.entries[key]
	if !ok {
		s.misses++
		s.mu.Unlock()
		return nil, false
	}
	if e.expired(now) {
		s.removeLocked(e)
		s.misses++
		s.expirations++
		s.mu.Unlock()

		s.hooks.EntryExpired(s.name, key)
		s.flushAsync()
		return nil, false
	}

	e.accessCount++
	e.lastAccessedAt = now
	s.access.MoveToFront(e.accessElem)
	s.hits++
	v := e.value
	s.mu.Unlock()

	return v, true
}

// Set inserts or overwrites key. The store evicts per its policy until
// both budgets hold; if key was already present the old entry is removed
// first and does not count as an eviction. A value whose estimated size
// alone exceeds the byte budget is still inserted after everything else
// has been evicted - inserts always succeed, even when that leaves a
// single over-budget occupant.
func (s *Store) Set(key string, value any, opts ...SetOption) {
	var sc setConfig
	for _, o := range opts {
		o(&sc)
	}

	now := time.Now()
	e := &entry{
		key:            key,
		value:          value,
		createdAt:      now,
		lastAccessedAt: now,
		size:           estimateSize(value),
		metadata:       sc.metadata,
	}
	ttl := s.defaultTTL
	if sc.ttlSet {
		ttl = sc.ttl
	}
	switch {
	case sc.ttlSet && ttl <= 0:
		e.expiresAt = now // explicit zero/negative TTL: born expired
	case ttl > 0:
		e.expiresAt = now.Add(ttl)
	}

	var evicted []string

	s.mu.Lock()
	if old, ok := s.entries[key]; ok {
		// overwrite: a delete, not an eviction
		s.removeLocked(old)
	}
	for len(s.entries) > 0 &&
		(s.sizeBytes+e.size > s.maxBytes || len(s.entries) >= s.maxEntries) {
		victim, ok := s.nextEviction()
		if !ok {
			break
		}
		s.removeLocked(s.entries[victim])
		s.evictions++
		evicted = append(evicted, victim)
	}

	s.entries[key] = e
	e.accessElem = s.access.PushFront(key)
	e.insertElem = s.insertion.PushBack(key)
	s.sizeBytes += e.size
	oversized := e.size > s.maxBytes
	s.mu.Unlock()

	for _, k := range evicted {
		s.hooks.EntryEvicted(s.name, k, s.policy)
	}
	if oversized {
		s.log.Warn("oversized entry accepted", Fields{
			"store": s.name, "key": key, "size": e.size, "maxBytes": s.maxBytes,
		})
		s.hooks.OversizedInsert(s.name, key, e.size, s.maxBytes)
	}
	s.flushAsync()
}

// Delete removes key and reports whether it was present. Does not touch
// the hit/miss/eviction counters.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok {
		s.removeLocked(e)
	}
	s.mu.Unlock()

	if ok {
		s.flushAsync()
	}
	return ok
}

// Has reports whether key is present and unexpired. Peek semantics: no
// counter changes, no access-order repositioning, no lazy removal.
func (s *Store) Has(key string) bool {
	now := time.Now()
	s.mu.Lock()
	e, ok := s.entries[key]
	live := ok && !e.expired(now)
	s.mu.Unlock()
	return live
}

// Clear empties the store. Cumulative hit/miss/eviction counters survive;
// only occupancy resets.
func (s *Store) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]*entry)
	s.access.Init()
	s.insertion.Init()
	s.sizeBytes = 0
	s.mu.Unlock()

	s.flushAsync()
}

// Metrics returns a snapshot of the store's counters, independent of
// internal state after return.
func (s *Store) Metrics() Metrics {
	s.mu.Lock()
	m := Metrics{
		Hits:        s.hits,
		Misses:      s.misses,
		Evictions:   s.evictions,
		Expirations: s.expirations,
		EntryCount:  len(s.entries),
		SizeBytes:   s.sizeBytes,
		HitRate:     hitRate(s.hits, s.misses),
	}
	s.mu.Unlock()
	return m
}

// Size reports occupancy against the configured budgets.
func (s *Store) Size() SizeInfo {
	s.mu.Lock()
	info := SizeInfo{
		Entries:    len(s.entries),
		Bytes:      s.sizeBytes,
		MaxEntries: s.maxEntries,
		MaxBytes:   s.maxBytes,
	}
	s.mu.Unlock()
	return info
}

// Len returns the current entry count.
func (s *Store) Len() int {
	s.mu.Lock()
	n := len(s.entries)
	s.mu.Unlock()
	return n
}

// Keys returns the live keys in insertion order (oldest first).
func (s *Store) Keys() []string {
	s.mu.Lock()
	keys := make([]string, 0, len(s.entries))
	for el := s.insertion.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(string))
	}
	s.mu.Unlock()
	return keys
}

// Sweep removes every expired entry and returns how many were removed.
// The janitor calls this on its schedule; Optimize calls it on demand.
func (s *Store) Sweep() int {
	now := time.Now()

	s.mu.Lock()
	var swept []string
	for key, e := range s.entries {
		if e.expired(now) {
			swept = append(swept, key)
		}
	}
	for _, key := range swept {
		s.removeLocked(s.entries[key])
	}
	s.expirations += int64(len(swept))
	s.mu.Unlock()

	for _, key := range swept {
		s.hooks.EntryExpired(s.name, key)
	}
	if len(swept) > 0 {
		s.log.Debug("sweep removed expired entries", Fields{
			"store": s.name, "removed": len(swept),
		})
		s.flushAsync()
	}
	return len(swept)
}

// FlushNow writes the current snapshot synchronously, cancelling any
// pending debounced flush first. No-op without persistence. Meant for
// shutdown paths; the error is informational, the store stays usable.
func (s *Store) FlushNow(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	return s.persist.flushNow(ctx, s)
}

// Close stops the standalone janitor, flushes pending persistence and
// releases an internally-created backend. The store itself remains usable
// afterwards, memory-only.
func (s *Store) Close(ctx context.Context) error {
	s.jan.stop()
	if s.persist == nil {
		return nil
	}
	err := s.persist.flushNow(ctx, s)
	s.persist.close()
	if s.ownsBackend {
		if cerr := s.persist.backend.Close(ctx); err == nil {
			err = cerr
		}
	}
	return err
}

// removeLocked unlinks e from the map, both order lists and the byte
// accounting. Caller holds s.mu.
func (s *Store) removeLocked(e *entry) {
	delete(s.entries, e.key)
	s.access.Remove(e.accessElem)
	s.insertion.Remove(e.insertElem)
	s.sizeBytes -= e.size
}

func (s *Store) flushAsync() {
	if s.persist != nil {
		s.persist.scheduleFlush(s)
	}
}
