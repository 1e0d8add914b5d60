package limiter

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is the in-process Storage used when Redis is not
// configured.
type MemoryStorage struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]*window
}

type window struct {
	count     int64
	expiresAt time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		now:     time.Now,
		entries: make(map[string]*window),
	}
}

func (s *MemoryStorage) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.entries[key]
	if !ok || !now.Before(w.expiresAt) {
		w = &window{expiresAt: now.Add(ttl)}
		s.entries[key] = w
	}
	w.count++
	return w.count, nil
}

func (s *MemoryStorage) TTL(ctx context.Context, key string) (time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.entries[key]
	if !ok {
		return 0, nil
	}
	ttl := w.expiresAt.Sub(s.now())
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
