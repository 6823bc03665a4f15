package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps upload records in a mutex-guarded map. Records
// never survive a process restart; pair it with Evict via the core
// sweeper so abandoned uploads do not accumulate for the life of the
// process.
type MemoryStore struct {
	mu      sync.RWMutex
	uploads map[string]Upload
}

// NewMemoryStore creates an empty in-memory registry.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{uploads: make(map[string]Upload)}
}

func (s *MemoryStore) Put(_ context.Context, u Upload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads[u.ID] = u
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.uploads[id]
	if !ok {
		return Upload{}, ErrUnknownUpload
	}
	return u, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fn func(*Upload)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.uploads[id]
	if !ok {
		return ErrUnknownUpload
	}
	fn(&u)
	s.uploads[id] = u
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.uploads, id)
	return nil
}

// Evict removes and returns all records created before the cutoff.
func (s *MemoryStore) Evict(_ context.Context, cutoff time.Time) ([]Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []Upload
	for id, u := range s.uploads {
		if u.CreatedAt.Before(cutoff) {
			evicted = append(evicted, u)
			delete(s.uploads, id)
		}
	}
	return evicted, nil
}

// Len reports the number of live records, for tests and diagnostics.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.uploads)
}
