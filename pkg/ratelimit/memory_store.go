package ratelimit

import (
	"context"
	"sync"
	"time"
)

const sweepEvery = 1024

type counter struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore is a process-local Store. Expired counters are swept while
// incrementing, so no background goroutine is needed.
type MemoryStore struct {
	mu       sync.Mutex
	counters map[string]*counter
	calls    int
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counters: make(map[string]*counter), now: time.Now}
}

func (s *MemoryStore) Increment(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.calls++
	if s.calls%sweepEvery == 0 {
		for k, c := range s.counters {
			if !now.Before(c.expiresAt) {
				delete(s.counters, k)
			}
		}
	}

	c, ok := s.counters[key]
	if !ok || !now.Before(c.expiresAt) {
		c = &counter{expiresAt: now.Add(window)}
		s.counters[key] = c
	}
	c.count++
	return c.count, c.expiresAt.Sub(now), nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.counters, key)
	return nil
}

// Len reports how many counters are held, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.counters)
}
