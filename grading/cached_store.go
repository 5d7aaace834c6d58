package grading

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/goliatone/go-qcgrader/cache"
	"github.com/goliatone/go-qcgrader/internal/logging"
	"github.com/puzpuzpuz/xsync/v3"
)

// StoreKeyNamespace prefixes every key written by CachedStore.
const StoreKeyNamespace = "submission"

var _ Store = (*CachedStore)(nil)

// CachedStore decorates a Store with read-through caching. Reads are cached
// under keys built by the key serializer; every successful Save drops the
// keys its submission can change.
type CachedStore struct {
	base     Store
	cache    cache.CacheService
	keys     cache.KeySerializer
	registry *xsync.MapOf[string, struct{}]
	logger   *slog.Logger
}

// NewCachedStore wraps base. A nil logger discards output.
func NewCachedStore(base Store, svc cache.CacheService, keys cache.KeySerializer, logger *slog.Logger) *CachedStore {
	return &CachedStore{
		base:     base,
		cache:    svc,
		keys:     keys,
		registry: xsync.NewMapOf[string, struct{}](),
		logger:   logging.OrDiscard(logger),
	}
}

func (c *CachedStore) key(op string, args ...any) string {
	return c.keys.SerializeKey(StoreKeyNamespace, append([]any{op}, args...)...)
}

// GetByJobID returns a copy of the cached submission for jobID.
func (c *CachedStore) GetByJobID(ctx context.Context, jobID string) (*Submission, error) {
	key := c.key("GetByJobID", jobID)
	c.trackKey(key)
	sub, err := cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (Submission, error) {
		s, err := c.base.GetByJobID(ctx, jobID)
		if err != nil {
			return Submission{}, err
		}
		return *s, nil
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListByCircuit returns a copy of the cached list for circuitName.
func (c *CachedStore) ListByCircuit(ctx context.Context, circuitName string) ([]Submission, error) {
	key := c.key("ListByCircuit", circuitName)
	c.trackKey(key)
	subs, err := cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) ([]Submission, error) {
		return c.base.ListByCircuit(ctx, circuitName)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(subs), nil
}

// Count returns the cached submission count.
func (c *CachedStore) Count(ctx context.Context) (int, error) {
	key := c.key("Count")
	c.trackKey(key)
	return cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (int, error) {
		return c.base.Count(ctx)
	})
}

// Save passes through to the base store and invalidates on success.
func (c *CachedStore) Save(ctx context.Context, sub *Submission) error {
	if err := c.base.Save(ctx, sub); err != nil {
		return err
	}
	c.invalidateAfterSave(ctx, sub)
	return nil
}

// Invalidate drops every key this store has cached.
func (c *CachedStore) Invalidate(ctx context.Context) {
	c.invalidateByPrefix(ctx, StoreKeyNamespace+cache.KeySeparator)
}

func (c *CachedStore) trackKey(key string) {
	c.registry.Store(key, struct{}{})
}

func (c *CachedStore) invalidateAfterSave(ctx context.Context, sub *Submission) {
	c.invalidateKey(ctx, c.key("GetByJobID", sub.JobID))
	c.invalidateKey(ctx, c.key("ListByCircuit", sub.CircuitName))
	c.invalidateByPrefix(ctx, c.key("Count"))
}

func (c *CachedStore) invalidateKey(ctx context.Context, key string) {
	if err := c.cache.Delete(ctx, key); err != nil {
		c.logger.WarnContext(ctx, "cache invalidation failed", "key", key, "error", err)
	}
	c.registry.Delete(key)
}

// invalidateByPrefix removes every tracked key that starts with prefix.
func (c *CachedStore) invalidateByPrefix(ctx context.Context, prefix string) {
	c.registry.Range(func(key string, _ struct{}) bool {
		if strings.HasPrefix(key, prefix) {
			c.invalidateKey(ctx, key)
		}
		return true
	})
}
