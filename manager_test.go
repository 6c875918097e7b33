package contentcache

import (
	"context"
	"testing"
	"time"

	"github.com/openpress/contentcache/backend"
)

func newTestManager(t *testing.T, optsOpt func(*ManagerOptions)) *Manager {
	t.Helper()
	opts := ManagerOptions{SweepInterval: time.Hour} // background sweep off unless a test wants it
	if optsOpt != nil {
		optsOpt(&opts)
	}
	m := NewManager(opts)
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	return m
}

func TestConfigureIsGetOrCreate(t *testing.T) {
	m := newTestManager(t, nil)

	s1, err := m.Configure("content", Options{MaxEntries: 4})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	s2, err := m.Configure("content", Options{MaxEntries: 99})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if s1 != s2 {
		t.Fatal("Configure must return the existing store for a known name")
	}
	if s1.Size().MaxEntries != 4 {
		t.Fatal("options of the second Configure call must be ignored")
	}
	if s1.Name() != "content" {
		t.Fatalf("store name = %q", s1.Name())
	}
}

func TestLookup(t *testing.T) {
	m := newTestManager(t, nil)

	if _, ok := m.Lookup("content"); ok {
		t.Fatal("Lookup before Configure should miss")
	}
	want, _ := m.Configure("content", Options{})
	got, ok := m.Lookup("content")
	if !ok || got != want {
		t.Fatal("Lookup should return the configured store")
	}
}

func TestStatsAggregate(t *testing.T) {
	m := newTestManager(t, nil)

	content, _ := m.Configure("content", Options{})
	block, _ := m.Configure("block", Options{})

	content.Set("a", "123") // 3 bytes
	content.Get("a")        // hit
	block.Set("b", "4567")  // 4 bytes
	block.Get("nope")       // miss

	stats := m.Stats()
	if len(stats.Stores) != 2 {
		t.Fatalf("expected 2 per-store entries, got %d", len(stats.Stores))
	}
	agg := stats.Aggregate
	if agg.Hits != 1 || agg.Misses != 1 {
		t.Fatalf("aggregate counters = %+v", agg)
	}
	if agg.EntryCount != 2 || agg.SizeBytes != 7 {
		t.Fatalf("aggregate occupancy = %+v", agg)
	}
	if agg.HitRate != 0.5 {
		t.Fatalf("aggregate hit rate = %v, want 0.5", agg.HitRate)
	}
}

func TestTotalSize(t *testing.T) {
	m := newTestManager(t, nil)

	a, _ := m.Configure("a", Options{MaxEntries: 10, MaxSizeBytes: 100})
	b, _ := m.Configure("b", Options{MaxEntries: 20, MaxSizeBytes: 200})
	a.Set("x", "12")
	b.Set("y", "345")

	total := m.TotalSize()
	if total.Entries != 2 || total.Bytes != 5 {
		t.Fatalf("total occupancy = %+v", total)
	}
	if total.MaxEntries != 30 || total.MaxBytes != 300 {
		t.Fatalf("total budgets = %+v", total)
	}
}

func TestClearAll(t *testing.T) {
	m := newTestManager(t, nil)

	a, _ := m.Configure("a", Options{})
	b, _ := m.Configure("b", Options{})
	a.Set("x", "1")
	b.Set("y", "2")

	m.ClearAll()
	if a.Len() != 0 || b.Len() != 0 {
		t.Fatal("ClearAll should empty every store")
	}
}

func TestOptimizeSweepsAllStores(t *testing.T) {
	m := newTestManager(t, nil)

	a, _ := m.Configure("a", Options{})
	b, _ := m.Configure("b", Options{})
	a.Set("gone", "1", WithTTL(time.Millisecond))
	a.Set("stays", "2")
	b.Set("gone", "3", WithTTL(time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	m.Optimize()
	wantContents(t, a, "stays")
	if b.Len() != 0 {
		t.Fatalf("store b should be empty, has %v", b.Keys())
	}
}

func TestManagerJanitorSweepsOnSchedule(t *testing.T) {
	m := newTestManager(t, func(o *ManagerOptions) { o.SweepInterval = 5 * time.Millisecond })

	s, _ := m.Configure("content", Options{})
	s.Set("k", "v", WithTTL(time.Millisecond))

	deadline := time.Now().Add(time.Second)
	for s.Len() > 0 {
		if time.Now().After(deadline) {
			t.Fatal("manager janitor did not sweep in time")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestManagerCloseFlushesPersistentStores(t *testing.T) {
	be := backend.NewMemory()
	m := NewManager(ManagerOptions{SweepInterval: time.Hour})

	s, err := m.Configure("content", Options{
		Persistence:   true,
		Backend:       be,
		FlushDebounce: time.Hour, // only Close can flush this
	})
	if err != nil {
		t.Fatalf("Configure: %v", err)
	}
	s.Set("k", "v")
	if err := m.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, ok, _ := be.GetItem(context.Background(), "contentcache:content"); !ok {
		t.Fatal("manager Close should have flushed the store snapshot")
	}
}

func TestManagerDefaultStorageKeyPerStore(t *testing.T) {
	be := backend.NewMemory()
	m := newTestManager(t, nil)

	a, _ := m.Configure("content", Options{Persistence: true, Backend: be})
	b, _ := m.Configure("block", Options{Persistence: true, Backend: be})
	a.Set("x", "1")
	b.Set("y", "2")
	_ = a.FlushNow(context.Background())
	_ = b.FlushNow(context.Background())

	ctx := context.Background()
	if _, ok, _ := be.GetItem(ctx, "contentcache:content"); !ok {
		t.Fatal("content store should persist under its own slot")
	}
	if _, ok, _ := be.GetItem(ctx, "contentcache:block"); !ok {
		t.Fatal("block store should persist under its own slot")
	}
}
