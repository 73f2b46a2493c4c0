// Package cache is a small in-process TTL cache
package cache

import (
	"sync"
	"time"
)

// now is a seam for tests
var now = time.Now

type item struct {
	v       any
	expires time.Time // zero means no expiry
}

// Memory is a goroutine safe key/value store with per-key TTL
// expired entries are dropped lazily on read and by Sweep
type Memory struct {
	mu    sync.RWMutex
	items map[string]item
}

// New returns an empty cache
func New() *Memory {
	return &Memory{items: make(map[string]item)}
}

// Get returns the live value for key
func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	it, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if it.expired(now()) {
		m.mu.Lock()
		// re-check, a writer may have replaced it
		if cur, ok := m.items[key]; ok && cur.expired(now()) {
			delete(m.items, key)
		}
		m.mu.Unlock()
		return nil, false
	}
	return it.v, true
}

// Set stores v under key, ttl <= 0 keeps it until deleted
func (m *Memory) Set(key string, v any, ttl time.Duration) {
	it := item{v: v}
	if ttl > 0 {
		it.expires = now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = it
	m.mu.Unlock()
}

// Delete removes key, missing keys are ignored
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}

// TTL returns the time left for key, false when missing or expired
func (m *Memory) TTL(key string) (time.Duration, bool) {
	m.mu.RLock()
	it, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return 0, false
	}
	t := now()
	if it.expired(t) {
		return 0, false
	}
	if it.expires.IsZero() {
		return -1, true
	}
	return it.expires.Sub(t), true
}

// Len counts stored entries including expired ones not yet swept
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Sweep drops expired entries and returns how many were removed
func (m *Memory) Sweep() int {
	t := now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k, it := range m.items {
		if it.expired(t) {
			delete(m.items, k)
			n++
		}
	}
	return n
}

func (it item) expired(t time.Time) bool {
	return !it.expires.IsZero() && !t.Before(it.expires)
}
