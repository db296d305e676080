package store

import (
	"context"
	"sync"
	"time"

	"github.com/jmehdipour/churnctl/internal/model"
)

type memEntry struct {
	report  *model.Report
	expires time.Time
}

// MemoryStore is an in-process Store. Entries expire after ttl; a zero ttl
// keeps them forever.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]memEntry),
	}
}

func (s *MemoryStore) Put(_ context.Context, r *model.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	// drop expired entries on write so the map does not grow without bound
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
		}
	}

	e := memEntry{report: r}
	if s.ttl > 0 {
		e.expires = now.Add(s.ttl)
	}
	s.entries[r.ID] = e
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*model.Report, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok || s.expired(e, s.now()) {
		return nil, ErrNotFound
	}
	return e.report, nil
}

func (s *MemoryStore) expired(e memEntry, now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}
