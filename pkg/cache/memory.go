package cache

import (
	"context"
	"sync"
	"time"
)

// memoryEntry holds a stored index with its expiration time.
type memoryEntry struct {
	expiresAt time.Time // zero value = never expires
	index     *Index
}

// isExpired reports whether the entry has passed its expiration time.
func (e *memoryEntry) isExpired(now time.Time) bool {
	if e.expiresAt.IsZero() {
		return false
	}
	return now.After(e.expiresAt)
}

// Memory is an in-process Backend.
//
// Indexes are stored by pointer and replaced whole on Put, so readers
// holding the read lock never see a partially built mapping.
type Memory struct {
	items  map[string]*memoryEntry
	opts   *memoryOptions
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

// NewMemory creates a new in-memory backend.
//
// Example:
//
//	b := cache.NewMemory(
//	    cache.WithDefaultTTL(10 * time.Minute),
//	    cache.WithCleanupInterval(time.Minute),
//	)
//	defer b.Close()
func NewMemory(opts ...MemoryOption) *Memory {
	o := defaultMemoryOptions()
	for _, opt := range opts {
		opt(o)
	}

	m := &Memory{
		items: make(map[string]*memoryEntry),
		opts:  o,
		done:  make(chan struct{}),
	}

	if o.cleanupInterval > 0 {
		go m.janitor()
	}

	return m
}

// Get resolves key in the named index.
func (m *Memory) Get(_ context.Context, name string, kind Kind, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", ErrClosed
	}

	e, ok := m.items[name]
	if !ok || e.isExpired(time.Now()) {
		return "", ErrNotBuilt
	}

	v, ok := e.index.get(kind, key)
	if !ok {
		return "", ErrNotFound
	}

	return v, nil
}

// Put stores idx under name, replacing any previous index.
// TTL semantics: positive = expires after duration, zero = use default TTL,
// negative = never expires.
func (m *Memory) Put(_ context.Context, name string, idx *Index, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.opts.defaultTTL
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	m.items[name] = &memoryEntry{index: idx, expiresAt: expiresAt}

	return nil
}

// Delete drops the named index.
func (m *Memory) Delete(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	delete(m.items, name)

	return nil
}

// Clear drops every stored index.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	m.items = make(map[string]*memoryEntry)

	return nil
}

// Close stops the background janitor goroutine and marks the backend as closed.
// Close is idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	close(m.done)

	return nil
}

// janitor periodically removes expired indexes.
func (m *Memory) janitor() {
	ticker := time.NewTicker(m.opts.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.deleteExpired()
		}
	}
}

func (m *Memory) deleteExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for name, e := range m.items {
		if e.isExpired(now) {
			delete(m.items, name)
		}
	}
}

// len returns the number of stored indexes, expired ones included.
func (m *Memory) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

var _ Backend = (*Memory)(nil)
