package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/matrixrace/matrixraceapp/internal/platform/resilience"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is an in-process TTL cache with request coalescing on misses.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	flight  resilience.SingleFlight
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &Store{
		entries: map[string]entry{},
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		s.Delete(key)
		return nil, false
	}

	return e.value, true
}

func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	s.entries[key] = entry{value: value, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
}

func (s *Store) Delete(key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// DeletePrefix drops every entry whose key starts with prefix. Writers use it
// to invalidate all cached reads for one aggregate at once.
func (s *Store) DeletePrefix(prefix string) {
	s.mu.Lock()
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key, loading and caching it on a
// miss. Concurrent misses for the same key share one load call.
func (s *Store) GetOrLoad(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}

	v, err, _ := s.flight.Do(key, func() (any, error) {
		if v, ok := s.Get(key); ok {
			return v, nil
		}
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		s.Set(key, v)
		return v, nil
	})
	if err != nil {
		return nil, err
	}

	return v, nil
}
