package contentcache

import (
	"context"
	"sync"
	"time"
)

const defaultSweepInterval = time.Minute

// ManagerOptions tune a Manager. The zero value is usable.
type ManagerOptions struct {
	// SweepInterval is the shared expiry-sweep schedule for every store
	// the manager owns. 0 => 1 minute.
	SweepInterval time.Duration
	Logger        Logger // nil => NopLogger; inherited by stores that set none
	Hooks         Hooks  // nil => NopHooks; inherited by stores that set none
}

// Manager owns a named registry of stores ("content", "converter",
// "block", ...) and their lifetimes: stores it creates are swept on its
// schedule and shut down by its Close. Construct one Manager per process
// scope and pass it to callers explicitly; this package keeps no ambient
// globals.
type Manager struct {
	log        Logger
	hooks      Hooks
	sweepEvery time.Duration

	mu     sync.RWMutex
	stores map[string]*Store

	jan *janitor
}

func NewManager(opts ManagerOptions) *Manager {
	m := &Manager{
		log:        coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:      coalesce[Hooks](opts.Hooks, NopHooks{}),
		sweepEvery: coalesce(opts.SweepInterval, defaultSweepInterval),
		stores:     make(map[string]*Store),
	}
	m.jan = startJanitor(m.sweepEvery, m.sweepAll)
	return m
}

// Configure returns the store registered under name, creating it with the
// given options on first use. Options are ignored when the store already
// exists. Manager-owned stores run on the manager's sweep schedule; the
// per-store SweepInterval is overridden.
func (m *Manager) Configure(name string, opts Options) (*Store, error) {
	m.mu.RLock()
	s, ok := m.stores[name]
	m.mu.RUnlock()
	if ok {
		return s, nil
	}

	opts.Name = name
	opts.SweepInterval = 0 // swept by the manager's janitor
	if opts.Logger == nil {
		opts.Logger = m.log
	}
	if opts.Hooks == nil {
		opts.Hooks = m.hooks
	}
	if opts.Persistence && opts.StorageKey == "" {
		opts.StorageKey = "contentcache:" + name
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[name]; ok {
		// lost the race; the winner's store stands
		return s, nil
	}
	s, err := newStore(opts)
	if err != nil {
		return nil, err
	}
	m.stores[name] = s
	m.log.Debug("registered cache store", Fields{"store": name, "policy": s.policy})
	return s, nil
}

// Lookup returns an already-configured store.
func (m *Manager) Lookup(name string) (*Store, bool) {
	m.mu.RLock()
	s, ok := m.stores[name]
	m.mu.RUnlock()
	return s, ok
}

// ManagerStats is per-store metrics plus their aggregate. The aggregate
// hit rate is recomputed from the summed counters, not averaged.
type ManagerStats struct {
	Stores    map[string]Metrics
	Aggregate Metrics
}

func (m *Manager) Stats() ManagerStats {
	stats := ManagerStats{Stores: make(map[string]Metrics)}
	for name, s := range m.snapshotStores() {
		mt := s.Metrics()
		stats.Stores[name] = mt

		stats.Aggregate.Hits += mt.Hits
		stats.Aggregate.Misses += mt.Misses
		stats.Aggregate.Evictions += mt.Evictions
		stats.Aggregate.Expirations += mt.Expirations
		stats.Aggregate.EntryCount += mt.EntryCount
		stats.Aggregate.SizeBytes += mt.SizeBytes
	}
	stats.Aggregate.HitRate = hitRate(stats.Aggregate.Hits, stats.Aggregate.Misses)
	return stats
}

// TotalSize sums occupancy and budgets across every registered store.
func (m *Manager) TotalSize() SizeInfo {
	var total SizeInfo
	for _, s := range m.snapshotStores() {
		info := s.Size()
		total.Entries += info.Entries
		total.Bytes += info.Bytes
		total.MaxEntries += info.MaxEntries
		total.MaxBytes += info.MaxBytes
	}
	return total
}

// ClearAll empties every registered store. Cumulative metrics survive,
// same as a per-store Clear.
func (m *Manager) ClearAll() {
	for _, s := range m.snapshotStores() {
		s.Clear()
	}
}

// Optimize forces an expiry sweep on every registered store immediately,
// independent of the background schedule.
func (m *Manager) Optimize() {
	m.sweepAll()
}

// Close stops the shared janitor and closes every store (flushing the
// persistent ones). The first error wins; closing continues regardless.
func (m *Manager) Close(ctx context.Context) error {
	m.jan.stop()

	var first error
	for name, s := range m.snapshotStores() {
		if err := s.Close(ctx); err != nil && first == nil {
			first = err
			m.log.Warn("store close failed", Fields{"store": name, "err": err})
		}
	}
	return first
}

func (m *Manager) sweepAll() {
	for _, s := range m.snapshotStores() {
		s.Sweep()
	}
}

// snapshotStores copies the registry so sweeps and stats never hold the
// manager lock while touching store locks.
func (m *Manager) snapshotStores() map[string]*Store {
	m.mu.RLock()
	out := make(map[string]*Store, len(m.stores))
	for name, s := range m.stores {
		out[name] = s
	}
	m.mu.RUnlock()
	return out
}
