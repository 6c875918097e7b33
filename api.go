package contentcache

import (
	"time"

	"github.com/openpress/contentcache/backend"
	"github.com/openpress/contentcache/codec"
)

// Policy selects the eviction discipline a store uses when it is over
// budget. See policy.go for the exact semantics of each.
type Policy string

const (
	PolicyLRU  Policy = "lru"
	PolicyLFU  Policy = "lfu"
	PolicyTTL  Policy = "ttl"
	PolicyFIFO Policy = "fifo"
)

// Options tune a single Store. The zero value is usable; every field has a
// sensible default.
type Options struct {
	// Name identifies the store in logs and hooks. "" => "store".
	// Stores created through a Manager are named by their registry key.
	Name string
	// MaxSizeBytes caps the sum of estimated entry sizes. 0 => 10 MiB.
	MaxSizeBytes int64
	// MaxEntries caps the number of live entries. 0 => 1024.
	MaxEntries int
	// DefaultTTL is applied when Set is called without WithTTL.
	// 0 means entries never expire by time.
	DefaultTTL time.Duration
	// EvictionPolicy is one of LRU/LFU/TTL/FIFO. "" => LRU.
	EvictionPolicy Policy

	// Persistence enables the snapshot round trip: the store warms itself
	// from StorageKey on construction and flushes back after mutations.
	Persistence bool
	// Backend is the durable slot store. nil + Persistence => in-process
	// memory backend (useful for tests; not durable across restarts).
	Backend backend.Backend
	// StorageKey is the durable-backend slot this store saves into.
	// "" => "contentcache:default".
	StorageKey string
	// Codec serializes snapshots. nil => codec.JSON{}.
	Codec codec.Codec
	// Compression wraps Codec in an s2 compression transform.
	Compression bool
	// FlushDebounce batches snapshot saves after a burst of mutations.
	// 0 => 250ms. Use Store.FlushNow on shutdown paths.
	FlushDebounce time.Duration

	// SweepInterval schedules the expiry janitor for a standalone store.
	// 0 => no background sweep (lazy expiry on read still applies).
	// Stores owned by a Manager are swept on the Manager's schedule and
	// ignore this field.
	SweepInterval time.Duration

	Logger Logger // nil => NopLogger
	Hooks  Hooks  // nil => NopHooks
}

// SetOption customizes a single Set call.
type SetOption func(*setConfig)

type setConfig struct {
	ttl      time.Duration
	ttlSet   bool
	metadata map[string]string
}

// WithTTL overrides the store's DefaultTTL for this entry. A zero or
// negative value means "already expired": the entry is inserted but every
// subsequent read misses and removes it.
func WithTTL(ttl time.Duration) SetOption {
	return func(c *setConfig) {
		c.ttl = ttl
		c.ttlSet = true
	}
}

// WithMetadata attaches an informational key-value bag to the entry. The
// cache never interprets it; it rides along into snapshots.
func WithMetadata(md map[string]string) SetOption {
	return func(c *setConfig) { c.metadata = md }
}

// New constructs a Store. When Persistence is on, the store attempts to
// restore prior state from the configured slot; a missing or corrupt
// snapshot yields an empty store, never an error.
func New(opts Options) (*Store, error) {
	return newStore(opts)
}
