package metrics

import (
	"sync"
	"sync/atomic"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	SetCacheHits   uint64
	SetCacheMisses uint64
	SetsCreated    uint64
	SetsUpdated    uint64
	SetsDeleted    uint64
	WordsDeleted   uint64
	AuthFailures   map[string]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	setCacheHits   uint64
	setCacheMisses uint64
	setsCreated    uint64
	setsUpdated    uint64
	setsDeleted    uint64
	wordsDeleted   uint64

	mu           sync.Mutex
	authFailures map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{authFailures: make(map[string]uint64)}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	failures := make(map[string]uint64, len(m.authFailures))
	for k, v := range m.authFailures {
		failures[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		SetCacheHits:   atomic.LoadUint64(&m.setCacheHits),
		SetCacheMisses: atomic.LoadUint64(&m.setCacheMisses),
		SetsCreated:    atomic.LoadUint64(&m.setsCreated),
		SetsUpdated:    atomic.LoadUint64(&m.setsUpdated),
		SetsDeleted:    atomic.LoadUint64(&m.setsDeleted),
		WordsDeleted:   atomic.LoadUint64(&m.wordsDeleted),
		AuthFailures:   failures,
	}
}

// IncSetCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncSetCacheHit() {
	atomic.AddUint64(&m.setCacheHits, 1)
}

// IncSetCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncSetCacheMiss() {
	atomic.AddUint64(&m.setCacheMisses, 1)
}

// IncSetCreated increments set created counter.
func (m *InMemoryRecorder) IncSetCreated() {
	atomic.AddUint64(&m.setsCreated, 1)
}

// IncSetUpdated increments set updated counter.
func (m *InMemoryRecorder) IncSetUpdated() {
	atomic.AddUint64(&m.setsUpdated, 1)
}

// IncSetsDeleted adds count to the set deleted counter.
func (m *InMemoryRecorder) IncSetsDeleted(count int) {
	if count > 0 {
		atomic.AddUint64(&m.setsDeleted, uint64(count))
	}
}

// IncWordDeleted increments word deleted counter.
func (m *InMemoryRecorder) IncWordDeleted() {
	atomic.AddUint64(&m.wordsDeleted, 1)
}

// IncAuthFailure increments the failure counter for reason.
func (m *InMemoryRecorder) IncAuthFailure(reason string) {
	m.mu.Lock()
	m.authFailures[reason]++
	m.mu.Unlock()
}
