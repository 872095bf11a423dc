package rategate

import (
	"context"
	"sync"
	"time"
)

// retention bounds how long MemoryStore keeps timestamps.
const retention = 48 * time.Hour

// MemoryStore keeps usage in process memory. Counts are lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string][]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string][]time.Time)}
}

func (s *MemoryStore) Count(_ context.Context, email string, from, to time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, at := range s.records[email] {
		if !at.Before(from) && at.Before(to) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Record(_ context.Context, email string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := at.Add(-retention)
	kept := s.records[email][:0]
	for _, ts := range s.records[email] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	s.records[email] = append(kept, at)
	return nil
}
