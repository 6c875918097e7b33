package contentcache

import (
	"sync"
	"time"
)

// janitor runs a sweep function on a fixed schedule until stopped. One
// janitor serves a standalone store; a Manager runs a single shared one
// across every registered store.
type janitor struct {
	ticker *time.Ticker
	stopCh chan struct{}
	wg     sync.WaitGroup
}

func startJanitor(every time.Duration, sweep func()) *janitor {
	j := &janitor{
		ticker: time.NewTicker(every),
		stopCh: make(chan struct{}),
	}
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		for {
			select {
			case <-j.ticker.C:
				sweep()
			case <-j.stopCh:
				return
			}
		}
	}()
	return j
}

// stop cancels the schedule and waits for an in-flight sweep to finish.
// Safe on a nil janitor and safe to call once only.
func (j *janitor) stop() {
	if j == nil {
		return
	}
	close(j.stopCh)
	j.ticker.Stop() // stop ticker before waiting
	j.wg.Wait()
}
