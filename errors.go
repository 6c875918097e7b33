package contentcache

import (
	"errors"
	"fmt"
)

// ErrCorruptSnapshot marks a persisted snapshot that failed envelope or
// shape validation on load. It never reaches Store callers; loads treat it
// as "no prior state".
var ErrCorruptSnapshot = errors.New("contentcache: corrupt snapshot")

// SnapshotError wraps a persistence failure with the slot and operation it
// happened on. Surfaced only through logs, hooks and FlushNow.
type SnapshotError struct {
	Slot string
	Op   string // "load", "save" or "clear"
	Err  error
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("contentcache: snapshot %s on slot %q failed: %v", e.Op, e.Slot, e.Err)
}

func (e *SnapshotError) Unwrap() error { return e.Err }
