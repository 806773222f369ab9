// Package progress tracks in-flight generation requests for polling.
// The store is an injected dependency rather than a package-level map
// so its lifecycle and TTL are explicit configuration.
package progress

import (
	"sync"
	"time"
)

// Generation statuses.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// DefaultTTL is how long a finished entry stays pollable.
const DefaultTTL = time.Hour

// Entry is a snapshot of one generation request's progress. Times are
// unix milliseconds.
type Entry struct {
	RequestID      string `json:"requestId"`
	Status         string `json:"status"`
	Progress       int    `json:"progress"`
	StartTime      int64  `json:"startTime"`
	CompletionTime int64  `json:"completionTime,omitempty"`
}

// Store is a TTL-evicting key-value store of progress entries.
type Store interface {
	Put(id string, e Entry)
	Get(id string) (Entry, bool)
	Delete(id string)
}

// MemoryStore keeps entries in process memory and evicts them on a
// timer. It is not shared across server instances; a multi-instance
// deployment needs an external store behind the same interface.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]Entry
	timers  map[string]*time.Timer
}

// NewMemoryStore creates a store evicting entries ttl after their last
// Put. A non-positive ttl falls back to DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]Entry),
		timers:  make(map[string]*time.Timer),
	}
}

func (s *MemoryStore) Put(id string, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = e
	if t, ok := s.timers[id]; ok {
		t.Stop()
	}
	s.timers[id] = time.AfterFunc(s.ttl, func() { s.Delete(id) })
}

func (s *MemoryStore) Get(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	return e, ok
}

func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	if t, ok := s.timers[id]; ok {
		t.Stop()
		delete(s.timers, id)
	}
}
