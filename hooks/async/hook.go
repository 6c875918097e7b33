// Package asynchook decouples hook callbacks from the cache hot path:
// events are queued and replayed on worker goroutines, and dropped when
// the queue is full. Wrap any contentcache.Hooks whose handlers are too
// slow to run inline (remote metrics, chatty logging).
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{EvictEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	store, _ := contentcache.New(contentcache.Options{
//	    Name:  "content",
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/openpress/contentcache"
)

type Hooks struct {
	inner contentcache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ contentcache.Hooks = (*Hooks)(nil)

func New(inner contentcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) EntryEvicted(store, key string, policy contentcache.Policy) {
	h.try(func() { h.inner.EntryEvicted(store, key, policy) })
}

func (h *Hooks) EntryExpired(store, key string) {
	h.try(func() { h.inner.EntryExpired(store, key) })
}

func (h *Hooks) OversizedInsert(store, key string, size, maxBytes int64) {
	h.try(func() { h.inner.OversizedInsert(store, key, size, maxBytes) })
}

func (h *Hooks) SnapshotSaveFailed(store, slot string, err error) {
	h.try(func() { h.inner.SnapshotSaveFailed(store, slot, err) })
}

func (h *Hooks) SnapshotDiscarded(slot, reason string) {
	h.try(func() { h.inner.SnapshotDiscarded(slot, reason) })
}
