// Package cache holds short-lived key reservations used to reject replayed
// write requests. Redis backs them when enabled so every API instance sees
// the same keys.
package cache

import (
	"context"
	"sync"
	"time"
)

// KeyStore reserves keys for a limited time
type KeyStore interface {
	// Reserve claims key for ttl. It returns false when the key is already held.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Release frees key before its ttl runs out
	Release(ctx context.Context, key string) error
	Close() error
}

type entry struct {
	expiresAt time.Time
}

// InMemoryKeyStore keeps reservations in a map. Reservations are not shared
// between processes.
type InMemoryKeyStore struct {
	mu        sync.Mutex
	entries   map[string]entry
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryKeyStore starts a store and its expiry sweeper
func NewInMemoryKeyStore() *InMemoryKeyStore {
	return newInMemoryKeyStore(5 * time.Minute)
}

func newInMemoryKeyStore(sweepEvery time.Duration) *InMemoryKeyStore {
	store := &InMemoryKeyStore{
		entries:  make(map[string]entry),
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	store.wg.Add(1)
	go store.cleanupLoop(sweepEvery)
	return store
}

func (s *InMemoryKeyStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, exists := s.entries[key]; exists && now.Before(e.expiresAt) {
		return false, nil
	}
	s.entries[key] = entry{expiresAt: now.Add(ttl)}
	return true, nil
}

func (s *InMemoryKeyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Close stops the sweeper. Safe to call multiple times.
func (s *InMemoryKeyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of held entries, expired ones included until swept
func (s *InMemoryKeyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *InMemoryKeyStore) cleanupLoop(every time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryKeyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

var _ KeyStore = (*InMemoryKeyStore)(nil)
