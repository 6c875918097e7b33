// Package contentcache implements a keyed, capacity-bounded in-memory cache
// for rendered content, block output and converter results. Each store
// enforces a byte budget and an entry budget under one of four eviction
// disciplines (LRU, LFU, TTL, FIFO), expires entries lazily on read and
// periodically via a background sweep, and can warm itself from a durable
// key-value slot across restarts.
//
// Components:
//   - Store: the entry map with capacity enforcement and metrics.
//   - Manager: a named registry of stores ("content", "block", ...) that
//     owns their lifetimes and the shared sweep schedule.
//   - keygen: deterministic cache keys from arbitrary content.
//   - backend: the durable slot store (memory, file, Redis).
//   - codec: snapshot (de)serialization (JSON, msgpack, CBOR), optionally
//     compressed.
//
// Failure philosophy: nothing in this package surfaces an error on the
// read/write hot path. A broken persistence backend degrades the store to
// memory-only, a corrupt snapshot restores as empty, and content that
// cannot be hashed gets a unique throwaway key. Callers always observe a
// working cache, at worst a cold one.
package contentcache
