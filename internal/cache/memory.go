package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type entry struct {
	expiresAt time.Time
	data      []byte
}

// MemoryStore is an in-process Store with per-key expiry. It is used
// when no Redis address is configured and as a test double. Values go
// through the same JSON round-trip as the Redis store so both behave
// identically for callers.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]entry

	// now is overridable in tests
	now func() time.Time
}

// NewMemory creates an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]entry),
		now:   time.Now,
	}
}

// Get reads key and unmarshals its value into dest. Expired entries
// are removed lazily.
func (s *MemoryStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		// re-check under the write lock; a Set may have raced in
		if cur, ok := s.items[key]; ok && s.now().After(cur.expiresAt) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return false, nil
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, nil
	}
	return true, nil
}

// Set stores value under key with the given TTL.
func (s *MemoryStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value for key %s: %w", key, err)
	}
	s.mu.Lock()
	s.items[key] = entry{expiresAt: s.now().Add(ttl), data: data}
	s.mu.Unlock()
	return nil
}
