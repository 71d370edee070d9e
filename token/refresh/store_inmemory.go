package refresh

import (
	"context"
	"sync"
	"time"
)

var _ Store = (*InMemoryStore)(nil)

type entry struct {
	expiresAt time.Time
}

// InMemoryStore is a concurrency-safe, single-process Store. Records are
// keyed by the exact (userID, token) pair; expired records are treated as
// absent and swept by Cleanup.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]entry
	nowFunc func() time.Time
}

// InMemoryStoreOption modifies an InMemoryStore.
type InMemoryStoreOption func(*InMemoryStore)

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(now func() time.Time) InMemoryStoreOption {
	return func(s *InMemoryStore) {
		s.nowFunc = now
	}
}

func NewInMemoryStore(options ...InMemoryStoreOption) *InMemoryStore {
	s := &InMemoryStore{
		records: make(map[string]entry),
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func storeKey(userID, token string) string {
	return userID + "::" + token
}

func (s *InMemoryStore) Save(_ context.Context, userID, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[storeKey(userID, token)] = entry{expiresAt: s.nowFunc().Add(ttl)}
	return nil
}

func (s *InMemoryStore) IsValid(_ context.Context, userID, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.records[storeKey(userID, token)]
	return ok && e.expiresAt.After(s.nowFunc()), nil
}

func (s *InMemoryStore) Revoke(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, storeKey(userID, token))
	return nil
}

// Cleanup removes expired records. Expired entries already read as invalid;
// this only reclaims memory and may be run periodically.
func (s *InMemoryStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFunc()
	for k, e := range s.records {
		if !e.expiresAt.After(now) {
			delete(s.records, k)
		}
	}
}
