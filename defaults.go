package contentcache

import "time"

const (
	defaultMaxSizeBytes  = 10 << 20 // 10 MiB
	defaultMaxEntries    = 1024
	defaultFlushDebounce = 250 * time.Millisecond
	defaultStorageKey    = "contentcache:default"
)

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
