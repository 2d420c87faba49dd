// Package cache is a small TTL store with request coalescing, used to keep
// scraped standings tables warm between refreshes.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pollahq/polla-champions/internal/platform/resilience"
)

type item struct {
	val      any
	deadline time.Time
}

func (it item) expired(now time.Time) bool {
	return !it.deadline.IsZero() && !it.deadline.After(now)
}

// Store holds values for a fixed TTL. A zero TTL means entries never expire.
// Expired items are dropped lazily on read.
type Store struct {
	ttl    time.Duration
	flight resilience.SingleFlight

	mu    sync.RWMutex
	items map[string]item
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:   ttl,
		items: make(map[string]item),
	}
}

func (s *Store) deadline(now time.Time) time.Time {
	if s.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(s.ttl)
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	it, ok := s.items[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if it.expired(time.Now()) {
		s.mu.Lock()
		if cur, still := s.items[key]; still && cur.expired(time.Now()) {
			delete(s.items, key)
		}
		s.mu.Unlock()
		return nil, false
	}
	return it.val, true
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	now := time.Now()
	s.mu.Lock()
	s.items[key] = item{val: value, deadline: s.deadline(now)}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// Len reports the number of stored entries, counting ones that expired but
// have not been read since.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// GetOrLoad returns the cached value for key, or runs loader and caches its
// result. Concurrent misses for the same key share a single loader call.
// Loader errors are never cached.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if val, ok := s.Get(ctx, key); ok {
		return val, nil
	}

	val, err, _ := s.flight.Do(key, func() (any, error) {
		// A concurrent caller may have filled the slot while this one
		// waited on the flight lock.
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return val, nil
}
