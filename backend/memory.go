package backend

import (
	"context"
	"sync"
)

// Memory keeps slots in-process. It satisfies the Backend contract but is
// obviously not durable across restarts; it exists for tests and for
// wiring persistence-shaped code paths without real storage.
type Memory struct {
	mu    sync.RWMutex
	slots map[string]string
}

var _ Backend = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{slots: make(map[string]string)}
}

func (m *Memory) GetItem(_ context.Context, slot string) (string, bool, error) {
	m.mu.RLock()
	v, ok := m.slots[slot]
	m.mu.RUnlock()
	return v, ok, nil
}

func (m *Memory) SetItem(_ context.Context, slot, value string) error {
	m.mu.Lock()
	m.slots[slot] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) RemoveItem(_ context.Context, slot string) error {
	m.mu.Lock()
	delete(m.slots, slot)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close(context.Context) error { return nil }
