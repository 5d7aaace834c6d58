package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// mockCacheService returns a fixed result without running fetchFn.
type mockCacheService struct {
	result any
	err    error
}

func (m *mockCacheService) GetOrFetch(ctx context.Context, key string, fetchFn func(ctx context.Context) (any, error)) (any, error) {
	return m.result, m.err
}

func (m *mockCacheService) Get(ctx context.Context, key string) (any, bool) {
	return m.result, m.result != nil
}

func (m *mockCacheService) Delete(ctx context.Context, key string) error {
	return nil
}

func (m *mockCacheService) Len() int {
	return 0
}

func TestGetOrFetch_NilInterfaceResult(t *testing.T) {
	mock := &mockCacheService{result: nil}

	type SomeInterface interface {
		DoSomething() string
	}

	result, err := GetOrFetch[SomeInterface](context.Background(), mock, "test-key", func(ctx context.Context) (SomeInterface, error) {
		return nil, nil
	})
	if err != nil {
		t.Errorf("expected no error but got: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result but got: %v", result)
	}
}

func TestGetOrFetch_NilPointerNoPanic(t *testing.T) {
	mock := &mockCacheService{result: (*string)(nil)}

	result, err := GetOrFetch[*string](context.Background(), mock, "test-key", func(ctx context.Context) (*string, error) {
		return nil, nil
	})
	if err != nil {
		t.Errorf("expected no error but got: %v", err)
	}
	if result != nil {
		t.Errorf("expected nil result but got: %v", result)
	}
}

func TestGetOrFetch_TypeAssertionFailure(t *testing.T) {
	mock := &mockCacheService{result: "wrong-type"}

	result, err := GetOrFetch[int](context.Background(), mock, "test-key", func(ctx context.Context) (int, error) {
		return 42, nil
	})
	if !errors.Is(err, ErrInvalidResultType) {
		t.Errorf("expected ErrInvalidResultType but got: %v", err)
	}
	if !goerrors.IsInternal(err) {
		t.Errorf("expected internal category, got %v", err)
	}
	if result != 0 {
		t.Errorf("expected zero value (0) but got: %v", result)
	}
}

func TestGetOrFetch_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	mock := &mockCacheService{err: boom}

	_, err := GetOrFetch[int](context.Background(), mock, "test-key", func(ctx context.Context) (int, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestGet_Typed(t *testing.T) {
	svc, err := NewCacheService(DefaultConfig())
	if err != nil {
		t.Fatalf("NewCacheService() error = %v", err)
	}
	ctx := context.Background()

	if _, ok, err := Get[int](ctx, svc, "missing"); ok || err != nil {
		t.Errorf("Get(missing) = %v, %v", ok, err)
	}

	if _, err := GetOrFetch(ctx, svc, "cx", func(ctx context.Context) (int, error) { return 10, nil }); err != nil {
		t.Fatalf("GetOrFetch() error = %v", err)
	}

	v, ok, err := Get[int](ctx, svc, "cx")
	if err != nil || !ok || v != 10 {
		t.Errorf("Get(cx) = %v, %v, %v", v, ok, err)
	}

	if _, _, err := Get[string](ctx, svc, "cx"); !errors.Is(err, ErrInvalidResultType) {
		t.Errorf("expected ErrInvalidResultType, got %v", err)
	}
}

func TestNewCacheService_Backends(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "memory", cfg: DefaultConfig()},
		{name: "bounded", cfg: DefaultBoundedConfig()},
		{
			name: "bounded with early refresh",
			cfg: func() Config {
				c := DefaultBoundedConfig()
				c.EarlyRefresh = &EarlyRefreshConfig{
					MinAsyncRefreshTime: time.Second,
					MaxAsyncRefreshTime: 2 * time.Second,
					SyncRefreshTime:     10 * time.Second,
					RetryBaseDelay:      time.Millisecond,
				}
				return c
			}(),
		},
		{name: "empty backend", cfg: Config{}, wantErr: true},
		{name: "bounded without capacity", cfg: Config{Backend: BackendSturdyc, TTL: time.Minute}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewCacheService(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !goerrors.IsValidation(err) {
					t.Errorf("expected validation category, got %v", err)
				}
				if svc != nil {
					t.Errorf("expected nil service, got %T", svc)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCacheService() error = %v", err)
			}
			if svc.Len() != 0 {
				t.Errorf("expected empty cache, got %d", svc.Len())
			}
		})
	}
}

func TestDeleteByPrefix(t *testing.T) {
	ctx := context.Background()
	svc, err := NewCacheService(DefaultConfig())
	if err != nil {
		t.Fatalf("NewCacheService() error = %v", err)
	}
	for _, key := range []string{"job::a", "job::b", "gate::u::1"} {
		if _, err := GetOrFetch(ctx, svc, key, func(ctx context.Context) (bool, error) { return true, nil }); err != nil {
			t.Fatalf("GetOrFetch() error = %v", err)
		}
	}

	supported, err := DeleteByPrefix(ctx, svc, "job::")
	if err != nil || !supported {
		t.Fatalf("DeleteByPrefix() = %v, %v", supported, err)
	}
	if svc.Len() != 1 {
		t.Errorf("expected 1 entry left, got %d", svc.Len())
	}

	supported, err = DeleteByPrefix(ctx, &mockCacheService{}, "job::")
	if supported || err != nil {
		t.Errorf("mock should not support prefix deletes: %v, %v", supported, err)
	}
}
