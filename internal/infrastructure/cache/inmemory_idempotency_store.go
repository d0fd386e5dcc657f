package cache

import (
	"context"
	"sync"
	"time"

	"github.com/babel-30/sugarplum-backend/internal/domain/shared"
)

// submission records one seen checkout key with its expiry
type submission struct {
	expiresAt time.Time
}

// InMemoryIdempotencyStore tracks checkout submission keys in a local map.
// Suitable for the single-instance deployment this shop runs; duplicate
// submissions to a different process instance would not be caught.
type InMemoryIdempotencyStore struct {
	mu        sync.RWMutex
	seen      map[string]submission
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates the store and starts its expiry sweep.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		seen:     make(map[string]submission),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.sweepLoop()

	return store
}

// MarkProcessed records a submission key. Returns true when the key is new,
// false when it was already recorded and has not expired.
func (s *InMemoryIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.seen[key]; exists && time.Now().Before(e.expiresAt) {
		return false, nil
	}

	s.seen[key] = submission{expiresAt: time.Now().Add(ttl)}
	return true, nil
}

// IsProcessed reports whether a submission key was recorded and is unexpired.
func (s *InMemoryIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.seen[key]
	if !exists || time.Now().After(e.expiresAt) {
		return false, nil
	}
	return true, nil
}

// Close stops the sweep goroutine. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.seen {
		if now.After(e.expiresAt) {
			delete(s.seen, key)
		}
	}
}

// Size returns the number of tracked keys (for tests)
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}

// Ensure InMemoryIdempotencyStore implements IdempotencyStore
var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
