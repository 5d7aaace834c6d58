package cacheinfra

import (
	"context"
	"strings"

	"github.com/viccon/sturdyc"
)

// Service is the method set shared by every backend. It matches cache.CacheService.
type Service interface {
	GetOrFetch(ctx context.Context, key string, fetchFn func(ctx context.Context) (any, error)) (any, error)
	Get(ctx context.Context, key string) (any, bool)
	Delete(ctx context.Context, key string) error
	Len() int
}

// NewService builds the backend selected by cfg.
func NewService(cfg Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Backend != BackendSturdyc {
		return NewMemoryService(), nil
	}

	svc, err := NewSturdycService(cfg)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// sturdycService wraps a sturdyc client providing caching behaviour.
type sturdycService struct {
	client *sturdyc.Client[any]
}

// NewSturdycService creates a new sturdyc cache service adapter.
// Capacity, NumShards, TTL and EvictionPercentage are passed to sturdyc.New();
// the remaining settings are applied through ToSturdycOptions.
func NewSturdycService(cfg Config) (*sturdycService, error) {
	cfg.Backend = BackendSturdyc
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &sturdycService{client: client}, nil
}

// GetOrFetch returns the cached value or runs fetchFn through sturdyc, which
// also deduplicates concurrent fetches for the same key.
func (s *sturdycService) GetOrFetch(ctx context.Context, key string, fetchFn func(ctx context.Context) (any, error)) (any, error) {
	return s.client.GetOrFetch(ctx, key, fetchFn)
}

func (s *sturdycService) Get(_ context.Context, key string) (any, bool) {
	return s.client.Get(key)
}

// Delete removes a single entry so the next GetOrFetch fetches fresh data.
func (s *sturdycService) Delete(_ context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// DeleteByPrefix removes every entry whose key starts with prefix.
func (s *sturdycService) DeleteByPrefix(_ context.Context, prefix string) error {
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}
	return nil
}

func (s *sturdycService) Len() int {
	return s.client.Size()
}
