package contentcache

// Eviction candidate selection. Called with the store lock held, once per
// needed removal; Set loops until the budget holds or no candidate
// remains.
//
// LRU and FIFO are O(1) off the maintained order lists. LFU and TTL scan
// the entry map, which is acceptable with MaxEntries bounding n.

// nextEviction returns the key the configured policy would remove next,
// or ok=false when the store is empty.
func (s *Store) nextEviction() (string, bool) {
	switch s.policy {
	case PolicyFIFO:
		return s.oldestInserted()
	case PolicyLFU:
		return s.leastFrequentlyUsed()
	case PolicyTTL:
		if key, ok := s.nearestExpiry(); ok {
			return key, true
		}
		// no entry carries a TTL; fall back to LRU order
		return s.leastRecentlyUsed()
	default: // PolicyLRU
		return s.leastRecentlyUsed()
	}
}

// leastRecentlyUsed: the key least recently touched by Get (or by its own
// Set if never read). Back of the access list.
func (s *Store) leastRecentlyUsed() (string, bool) {
	back := s.access.Back()
	if back == nil {
		return "", false
	}
	return back.Value.(string), true
}

// oldestInserted: the key inserted earliest and still present, regardless
// of access. Front of the insertion list.
func (s *Store) oldestInserted() (string, bool) {
	front := s.insertion.Front()
	if front == nil {
		return "", false
	}
	return front.Value.(string), true
}

// leastFrequentlyUsed: minimum access count, ties broken by earliest
// creation.
func (s *Store) leastFrequentlyUsed() (string, bool) {
	var (
		key   string
		found bool
		best  *entry
	)
	for k, e := range s.entries {
		if !found ||
			e.accessCount < best.accessCount ||
			(e.accessCount == best.accessCount && e.createdAt.Before(best.createdAt)) {
			key, best, found = k, e, true
		}
	}
	return key, found
}

// nearestExpiry: the soonest-expiring entry among those that have a TTL.
// ok=false when no entry expires by time.
func (s *Store) nearestExpiry() (string, bool) {
	var (
		key   string
		found bool
		best  *entry
	)
	for k, e := range s.entries {
		if e.expiresAt.IsZero() {
			continue
		}
		if !found || e.expiresAt.Before(best.expiresAt) {
			key, best, found = k, e, true
		}
	}
	return key, found
}
