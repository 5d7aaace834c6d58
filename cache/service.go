package cache

import (
	"context"
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// ErrInvalidResultType is returned when a cached value does not have the type the caller expects.
var ErrInvalidResultType = errors.New("cached value has unexpected type")

// KeySerializer builds a cache key from a namespace + arbitrary args.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(namespace string, args ...any) string
}

// FetchFn is the function signature GetOrFetch expects when computing a value on a miss.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService exposes the read-through operations shared by the cost cache,
// the job cache and the submission store cache.
type CacheService interface {
	// GetOrFetch returns the cached value for key or calls fetchFn and stores its
	// result. Errors from fetchFn are returned and nothing is stored.
	GetOrFetch(ctx context.Context, key string, fetchFn func(ctx context.Context) (any, error)) (any, error)
	Get(ctx context.Context, key string) (any, bool)
	Delete(ctx context.Context, key string) error
	Len() int
}

// PrefixDeleter is implemented by services that can drop every key under a
// namespace. Both built-in backends implement it.
type PrefixDeleter interface {
	DeleteByPrefix(ctx context.Context, prefix string) error
}

// DeleteByPrefix removes every key starting with prefix when service supports it.
// It reports false when the service has no prefix support.
func DeleteByPrefix(ctx context.Context, service CacheService, prefix string) (bool, error) {
	pd, ok := service.(PrefixDeleter)
	if !ok {
		return false, nil
	}
	return true, pd.DeleteByPrefix(ctx, prefix)
}

// GetOrFetch is a type-safe wrapper function that provides generic support for CacheService.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	var zero T

	result, err := service.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fetchFn(ctx)
	})
	if err != nil {
		return zero, err
	}
	return assertResult[T](key, result)
}

// Get returns the cached value for key without fetching.
func Get[T any](ctx context.Context, service CacheService, key string) (T, bool, error) {
	var zero T

	result, ok := service.Get(ctx, key)
	if !ok {
		return zero, false, nil
	}
	typed, err := assertResult[T](key, result)
	if err != nil {
		return zero, false, err
	}
	return typed, true, nil
}

func assertResult[T any](key string, result any) (T, error) {
	var zero T
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, goerrors.Wrap(ErrInvalidResultType, goerrors.CategoryInternal,
			fmt.Sprintf("key %q holds %T, want %T", key, result, zero))
	}
	return typed, nil
}
