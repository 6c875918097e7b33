// Package sloghooks is a ready-made contentcache.Hooks that logs events
// through log/slog, with sampling on the high-frequency ones so a hot
// store cannot flood the logs.
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/openpress/contentcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	EvictEvery  uint64
	ExpireEvery uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	evictCtr  atomic.Uint64
	expireCtr atomic.Uint64
}

var _ contentcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) EntryEvicted(store, key string, policy contentcache.Policy) {
	if h.l == nil || !sample(h.opts.EvictEvery, &h.evictCtr) {
		return
	}
	h.l.Debug("contentcache.entry_evicted",
		"store", store,
		"key", key,
		"policy", string(policy))
}

func (h *Hooks) EntryExpired(store, key string) {
	if h.l == nil || !sample(h.opts.ExpireEvery, &h.expireCtr) {
		return
	}
	h.l.Debug("contentcache.entry_expired",
		"store", store,
		"key", key)
}

func (h *Hooks) OversizedInsert(store, key string, size, maxBytes int64) {
	if h.l == nil {
		return
	}
	h.l.Warn("contentcache.oversized_insert",
		"store", store,
		"key", key,
		"size", size,
		"max_bytes", maxBytes)
}

func (h *Hooks) SnapshotSaveFailed(store, slot string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("contentcache.snapshot_save_failed",
		"store", store,
		"slot", slot,
		"err", err)
}

func (h *Hooks) SnapshotDiscarded(slot, reason string) {
	if h.l == nil {
		return
	}
	h.l.Warn("contentcache.snapshot_discarded",
		"slot", slot,
		"reason", reason)
}
