package stash

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	prefill Prefill
	expires time.Time
}

// Memory is the in-process store used when no Redis address is
// configured. Entries expire lazily on read.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemory builds an empty in-process store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) Put(_ context.Context, branchID string, p Prefill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[branchID] = memoryEntry{prefill: p, expires: m.now().Add(TTL)}
	return nil
}

func (m *Memory) Take(_ context.Context, branchID string) (Prefill, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[branchID]
	if !ok {
		return Prefill{}, false, nil
	}
	delete(m.entries, branchID)
	if m.now().After(e.expires) {
		return Prefill{}, false, nil
	}
	return e.prefill, true, nil
}
