// Package backend defines the durable slot store used for cache snapshots.
//
// Implementations MUST be byte-for-byte transparent: GetItem must return
// exactly the same string that was previously passed to SetItem for a slot
// (no prepended/appended metadata, no re-encoding, no mutation). Snapshot
// envelopes are validated strictly on load; foreign writes under a store's
// slot may be treated as corruption and cleared.
package backend

import "context"

// Backend is a minimal string key-value contract with explicit misses.
// Must be safe for concurrent use. The cache treats every error returned
// here as non-fatal and degrades to memory-only operation.
type Backend interface {
	// GetItem returns (value, true, nil) when the slot holds a value and
	// ("", false, nil) when it does not. IO/remote failures return an error.
	GetItem(ctx context.Context, slot string) (string, bool, error)

	// SetItem stores value under slot, replacing any previous value.
	SetItem(ctx context.Context, slot string, value string) error

	// RemoveItem clears a slot (best-effort; removing a missing slot is
	// not an error).
	RemoveItem(ctx context.Context, slot string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
