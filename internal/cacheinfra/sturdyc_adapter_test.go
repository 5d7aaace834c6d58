package cacheinfra

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

func TestDefaultBoundedConfig(t *testing.T) {
	cfg := DefaultBoundedConfig()

	if cfg.Backend != BackendSturdyc {
		t.Errorf("expected Backend to be sturdyc, got %q", cfg.Backend)
	}
	if cfg.Capacity != 10000 {
		t.Errorf("expected Capacity to be 10000, got %d", cfg.Capacity)
	}
	if cfg.NumShards != 256 {
		t.Errorf("expected NumShards to be 256, got %d", cfg.NumShards)
	}
	if cfg.TTL != 5*time.Minute {
		t.Errorf("expected TTL to be 5 minutes, got %v", cfg.TTL)
	}
	if cfg.EvictionPercentage != 10 {
		t.Errorf("expected EvictionPercentage to be 10, got %d", cfg.EvictionPercentage)
	}
	if cfg.EarlyRefresh != nil {
		t.Error("expected EarlyRefresh to be disabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default bounded config should be valid: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	bounded := func(mut func(*Config)) Config {
		cfg := DefaultBoundedConfig()
		mut(&cfg)
		return cfg
	}

	tests := []struct {
		name      string
		cfg       Config
		wantError bool
		field     string
	}{
		{name: "valid memory config", cfg: DefaultConfig()},
		{name: "valid bounded config", cfg: DefaultBoundedConfig()},
		{name: "memory ignores sturdyc fields", cfg: Config{Backend: BackendMemory, Capacity: -5}},
		{name: "missing backend", cfg: Config{}, wantError: true, field: "Backend"},
		{name: "unknown backend", cfg: Config{Backend: "redis"}, wantError: true, field: "Backend"},
		{name: "zero capacity", cfg: bounded(func(c *Config) { c.Capacity = 0 }), wantError: true, field: "Capacity"},
		{name: "zero shards", cfg: bounded(func(c *Config) { c.NumShards = 0 }), wantError: true, field: "NumShards"},
		{name: "zero ttl", cfg: bounded(func(c *Config) { c.TTL = 0 }), wantError: true, field: "TTL"},
		{name: "eviction too high", cfg: bounded(func(c *Config) { c.EvictionPercentage = 101 }), wantError: true, field: "EvictionPercentage"},
		{
			name: "negative early refresh",
			cfg: bounded(func(c *Config) {
				c.EarlyRefresh = &EarlyRefreshConfig{MinAsyncRefreshTime: -time.Second}
			}),
			wantError: true,
			field:     "EarlyRefresh.MinAsyncRefreshTime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if !tt.wantError {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error but got none")
			}
			if !goerrors.IsValidation(err) {
				t.Errorf("expected validation category, got %v", err)
			}
			fields, ok := goerrors.GetValidationErrors(err)
			if !ok {
				t.Fatalf("expected field errors in %v", err)
			}
			found := false
			for _, f := range fields {
				if f.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected error on field %q, got %v", tt.field, fields)
			}
		})
	}
}

func TestNewService_SelectsBackend(t *testing.T) {
	mem, err := NewService(DefaultConfig())
	if err != nil {
		t.Fatalf("NewService(memory) error = %v", err)
	}
	if _, ok := mem.(*memoryService); !ok {
		t.Errorf("expected memory backend, got %T", mem)
	}

	bounded, err := NewService(DefaultBoundedConfig())
	if err != nil {
		t.Fatalf("NewService(sturdyc) error = %v", err)
	}
	if _, ok := bounded.(*sturdycService); !ok {
		t.Errorf("expected sturdyc backend, got %T", bounded)
	}

	if _, err := NewService(Config{Backend: "bogus"}); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestServices_ReadThrough(t *testing.T) {
	backends := map[string]func() Service{
		"memory": func() Service { return NewMemoryService() },
		"sturdyc": func() Service {
			svc, err := NewSturdycService(DefaultBoundedConfig())
			if err != nil {
				t.Fatalf("NewSturdycService() error = %v", err)
			}
			return svc
		},
	}

	for name, build := range backends {
		t.Run(name, func(t *testing.T) {
			svc := build()
			ctx := context.Background()
			var calls atomic.Int32

			fetch := func(ctx context.Context) (any, error) {
				calls.Add(1)
				return 42, nil
			}

			for i := 0; i < 3; i++ {
				v, err := svc.GetOrFetch(ctx, "answer", fetch)
				if err != nil {
					t.Fatalf("GetOrFetch() error = %v", err)
				}
				if v != 42 {
					t.Errorf("GetOrFetch() = %v, want 42", v)
				}
			}
			if calls.Load() != 1 {
				t.Errorf("expected 1 fetch, got %d", calls.Load())
			}

			if v, ok := svc.Get(ctx, "answer"); !ok || v != 42 {
				t.Errorf("Get() = %v, %v", v, ok)
			}
			if svc.Len() != 1 {
				t.Errorf("Len() = %d, want 1", svc.Len())
			}

			if err := svc.Delete(ctx, "answer"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, ok := svc.Get(ctx, "answer"); ok {
				t.Error("expected key to be gone after Delete")
			}

			if _, err := svc.GetOrFetch(ctx, "answer", fetch); err != nil {
				t.Fatalf("GetOrFetch() after delete error = %v", err)
			}
			if calls.Load() != 2 {
				t.Errorf("expected refetch after delete, got %d calls", calls.Load())
			}
		})
	}
}

func TestServices_ErrorsAreNotCached(t *testing.T) {
	svc := NewMemoryService()
	ctx := context.Background()
	boom := errors.New("boom")
	var calls int

	for i := 0; i < 2; i++ {
		_, err := svc.GetOrFetch(ctx, "k", func(ctx context.Context) (any, error) {
			calls++
			return nil, boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
	}
	if calls != 2 {
		t.Errorf("expected failed fetch to be retried, got %d calls", calls)
	}
	if svc.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", svc.Len())
	}
}

func TestMemoryService_NestedFetch(t *testing.T) {
	svc := NewMemoryService()
	ctx := context.Background()

	v, err := svc.GetOrFetch(ctx, "outer", func(ctx context.Context) (any, error) {
		inner, err := svc.GetOrFetch(ctx, "inner", func(context.Context) (any, error) {
			return 10, nil
		})
		if err != nil {
			return nil, err
		}
		return inner.(int) + 1, nil
	})
	if err != nil {
		t.Fatalf("GetOrFetch() error = %v", err)
	}
	if v != 11 {
		t.Errorf("GetOrFetch() = %v, want 11", v)
	}
	if got := strings.Join(svc.Keys(), ","); got != "inner,outer" {
		t.Errorf("Keys() = %s", got)
	}
}

func TestDeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	sturdy, err := NewSturdycService(DefaultBoundedConfig())
	if err != nil {
		t.Fatalf("NewSturdycService() error = %v", err)
	}
	mem := NewMemoryService()

	for _, svc := range []interface {
		Service
		DeleteByPrefix(context.Context, string) error
	}{mem, sturdy} {
		for _, key := range []string{"job::1", "job::2", "gate::h::1"} {
			k := key
			if _, err := svc.GetOrFetch(ctx, k, func(context.Context) (any, error) { return k, nil }); err != nil {
				t.Fatalf("GetOrFetch(%s) error = %v", k, err)
			}
		}
		if err := svc.DeleteByPrefix(ctx, "job::"); err != nil {
			t.Fatalf("DeleteByPrefix() error = %v", err)
		}
		if svc.Len() != 1 {
			t.Errorf("%T: expected 1 remaining entry, got %d", svc, svc.Len())
		}
		if _, ok := svc.Get(ctx, "gate::h::1"); !ok {
			t.Errorf("%T: unrelated key was removed", svc)
		}
	}
}
