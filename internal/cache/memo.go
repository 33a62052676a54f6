// Package cache memoises values derived from document snapshots. Every URI owns
// one slot tagged with the revision it was computed for; a lookup with a
// newer revision replaces the slot, so stale values are never served.
package cache

import (
	"sync"
	"sync/atomic"
)

// Revision identifies a snapshot. Later snapshots have larger revisions.
type Revision uint64

type Key struct {
	URI      string
	Revision Revision
}

type Stats struct {
	Hits   uint64
	Misses uint64
}

type slot[V any] struct {
	revision Revision
	once     sync.Once
	value    V
}

// Memo is safe for concurrent use. The zero value is ready to use.
type Memo[V any] struct {
	mu     sync.Mutex
	slots  map[string]*slot[V]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// Get returns the value for key, running compute at most once per key.
// Concurrent callers with the same key wait for the first computation.
// A key older than the cached slot is computed without being stored.
func (m *Memo[V]) Get(key Key, compute func() V) V {
	m.mu.Lock()
	if m.slots == nil {
		m.slots = make(map[string]*slot[V])
	}
	s := m.slots[key.URI]
	switch {
	case s == nil || s.revision < key.Revision:
		s = &slot[V]{revision: key.Revision}
		m.slots[key.URI] = s
	case s.revision > key.Revision:
		m.mu.Unlock()
		m.misses.Add(1)
		return compute()
	}
	m.mu.Unlock()

	computed := false
	s.once.Do(func() {
		s.value = compute()
		computed = true
	})
	if computed {
		m.misses.Add(1)
	} else {
		m.hits.Add(1)
	}
	return s.value
}

// Forget drops the slot of uri.
func (m *Memo[V]) Forget(uri string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, uri)
}

func (m *Memo[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}

func (m *Memo[V]) Stats() Stats {
	return Stats{Hits: m.hits.Load(), Misses: m.misses.Load()}
}
