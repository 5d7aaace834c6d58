package cacheinfra

import (
	"context"
	"sort"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"
)

// memoryService is an unbounded map without expiry. Values are never evicted;
// they only leave the map through Delete.
type memoryService struct {
	entries *xsync.MapOf[string, any]
}

// NewMemoryService creates an empty memory backend.
func NewMemoryService() *memoryService {
	return &memoryService{entries: xsync.NewMapOf[string, any]()}
}

// GetOrFetch does not hold any lock while fetchFn runs, so fetchFn may itself
// call GetOrFetch for other keys. Two concurrent misses on the same key may
// both fetch; the first stored value wins.
func (s *memoryService) GetOrFetch(ctx context.Context, key string, fetchFn func(ctx context.Context) (any, error)) (any, error) {
	if v, ok := s.entries.Load(key); ok {
		return v, nil
	}

	v, err := fetchFn(ctx)
	if err != nil {
		return nil, err
	}

	actual, _ := s.entries.LoadOrStore(key, v)
	return actual, nil
}

func (s *memoryService) Get(_ context.Context, key string) (any, bool) {
	return s.entries.Load(key)
}

func (s *memoryService) Delete(_ context.Context, key string) error {
	s.entries.Delete(key)
	return nil
}

// DeleteByPrefix removes every entry whose key starts with prefix.
func (s *memoryService) DeleteByPrefix(_ context.Context, prefix string) error {
	s.entries.Range(func(key string, _ any) bool {
		if strings.HasPrefix(key, prefix) {
			s.entries.Delete(key)
		}
		return true
	})
	return nil
}

func (s *memoryService) Len() int {
	return s.entries.Size()
}

// Keys returns the stored keys in sorted order.
func (s *memoryService) Keys() []string {
	keys := make([]string, 0, s.entries.Size())
	s.entries.Range(func(key string, _ any) bool {
		keys = append(keys, key)
		return true
	})
	sort.Strings(keys)
	return keys
}
