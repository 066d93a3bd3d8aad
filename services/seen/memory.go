package seen

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store. It satisfies the same idempotence
// contract as the durable store but does not survive restarts; it backs
// tests and store-less development runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func key(source, listingID string) string {
	return source + ":" + listingID
}

// HasSeen reports whether the identity was marked.
func (s *MemoryStore) HasSeen(_ context.Context, source, listingID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[key(source, listingID)]
	return ok, nil
}

// MarkSeen records the identity; the first writer's timestamp survives.
func (s *MemoryStore) MarkSeen(_ context.Context, source, listingID string, firstSeen time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(source, listingID)
	if _, ok := s.records[k]; ok {
		return nil
	}
	s.records[k] = Record{Source: source, ListingID: listingID, FirstSeenAt: firstSeen}
	return nil
}

// Len returns the number of recorded identities.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
