package contentcache

// Metrics is a point-in-time snapshot of a store's counters. Hits, misses,
// evictions and expirations are cumulative since construction (or since the
// last restore, which carries them over); Clear does not reset them.
type Metrics struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	Expirations int64

	EntryCount int
	SizeBytes  int64

	// HitRate is Hits / (Hits + Misses), 0 when no lookups happened yet.
	HitRate float64
}

// SizeInfo reports current occupancy against the configured budgets.
type SizeInfo struct {
	Entries    int
	Bytes      int64
	MaxEntries int
	MaxBytes   int64
}

func hitRate(hits, misses int64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
