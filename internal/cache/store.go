package cache

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// Entry is one cached document plus the bookkeeping needed for lazy expiry
// and oldest-first eviction.
type Entry struct {
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	TTL       time.Duration   `json:"ttl"`
}

// Expired reports whether the entry's TTL has elapsed relative to now.
func (e Entry) Expired(now time.Time) bool {
	return now.Sub(e.CreatedAt) > e.TTL
}

// DocumentStore is the durable cache tier: simple key-document semantics.
// Implementations must tolerate concurrent callers.
type DocumentStore interface {
	Load(ctx context.Context, key string) (Entry, bool, error)
	Store(ctx context.Context, key string, entry Entry) error
	Delete(ctx context.Context, key string) error
	Count(ctx context.Context) (int, error)
	// DeleteOldest removes the n entries with the oldest creation times.
	DeleteOldest(ctx context.Context, n int) error
	Purge(ctx context.Context) error
}

var _ DocumentStore = (*MemoryStore)(nil)

// MemoryStore is an in-process DocumentStore. It backs tests and
// deployments that run without Postgres.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Load(_ context.Context, key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry, ok, nil
}

func (s *MemoryStore) Store(_ context.Context, key string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func (s *MemoryStore) DeleteOldest(_ context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	type keyed struct {
		key       string
		createdAt time.Time
	}
	ordered := make([]keyed, 0, len(s.entries))
	for k, e := range s.entries {
		ordered = append(ordered, keyed{key: k, createdAt: e.CreatedAt})
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].createdAt.Before(ordered[j].createdAt)
	})
	if n > len(ordered) {
		n = len(ordered)
	}
	for _, item := range ordered[:n] {
		delete(s.entries, item.key)
	}
	return nil
}

func (s *MemoryStore) Purge(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry)
	return nil
}
