package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is an in-process TTL store.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	writes  int
	now     func() time.Time
}

// NewMemory creates an in-process store whose entries live for ttl.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a live entry. Expired entries are removed lazily.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !m.now().After(e.expiresAt) {
		return e.data, true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Re-check under write lock; another writer may have refreshed it.
	if e, ok := m.entries[key]; ok {
		if m.now().After(e.expiresAt) {
			delete(m.entries, key)
			return nil, false
		}
		return e.data, true
	}
	return nil, false
}

// Set stores value, sweeping expired entries every 100 writes.
func (m *Memory) Set(_ context.Context, key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.writes++
	if m.writes%100 == 0 {
		for k, e := range m.entries {
			if now.After(e.expiresAt) {
				delete(m.entries, k)
			}
		}
	}
	m.entries[key] = entry{data: value, expiresAt: now.Add(m.ttl)}
}

// Len returns the number of stored entries, live or not yet swept.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
