package di

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-qcgrader/cache"
	"github.com/goliatone/go-qcgrader/cost"
	"github.com/goliatone/go-qcgrader/grading"
	"github.com/goliatone/go-qcgrader/internal/logging"
	"github.com/goliatone/go-qcgrader/provider"
)

// Config selects the cache backends and cost weights the container wires.
type Config struct {
	// CostCache memoizes gate costs. It should not evict.
	CostCache cache.Config
	// JobCache holds jobs fetched by the provider.
	JobCache cache.Config
	// StoreCache fronts the submission store.
	StoreCache cache.Config
	Weights    cost.Weights
	Logger     *slog.Logger
}

// DefaultConfig keeps gate costs in an unbounded map and puts jobs and
// submissions in bounded sturdyc caches.
func DefaultConfig() Config {
	return Config{
		CostCache:  cache.DefaultConfig(),
		JobCache:   cache.DefaultBoundedConfig(),
		StoreCache: cache.DefaultBoundedConfig(),
		Weights:    cost.DefaultWeights(),
	}
}

// Container provides dependency injection for the grading components.
// It owns one cache service per concern, a shared key serializer and the
// estimator, and builds providers, stores and graders on top of them.
type Container struct {
	costCache     cache.CacheService
	jobCache      cache.CacheService
	storeCache    cache.CacheService
	keySerializer cache.KeySerializer
	estimator     *cost.Estimator
	logger        *slog.Logger
	config        Config
}

// NewContainer validates config and builds the shared services.
func NewContainer(config Config) (*Container, error) {
	costCache, err := cache.NewCacheService(config.CostCache)
	if err != nil {
		return nil, err
	}
	jobCache, err := cache.NewCacheService(config.JobCache)
	if err != nil {
		return nil, err
	}
	storeCache, err := cache.NewCacheService(config.StoreCache)
	if err != nil {
		return nil, err
	}

	keySerializer := cache.NewDefaultKeySerializer()
	logger := logging.OrDiscard(config.Logger)

	estimator, err := cost.NewEstimator(
		cost.WithWeights(config.Weights),
		cost.WithCache(costCache),
		cost.WithKeySerializer(keySerializer),
		cost.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	return &Container{
		costCache:     costCache,
		jobCache:      jobCache,
		storeCache:    storeCache,
		keySerializer: keySerializer,
		estimator:     estimator,
		logger:        logger,
		config:        config,
	}, nil
}

// NewContainerWithDefaults creates a container from DefaultConfig.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(DefaultConfig())
}

// CostCache returns the gate cost cache.
func (c *Container) CostCache() cache.CacheService {
	return c.costCache
}

// JobCache returns the provider job cache.
func (c *Container) JobCache() cache.CacheService {
	return c.jobCache
}

// StoreCache returns the submission store cache.
func (c *Container) StoreCache() cache.CacheService {
	return c.storeCache
}

// KeySerializer returns the key serializer shared by every cache user.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Estimator returns the singleton estimator.
func (c *Container) Estimator() *cost.Estimator {
	return c.estimator
}

// Logger returns the container logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() Config {
	return c.config
}

// ProviderOptions returns options that make a provider share the container
// job cache, key serializer and logger.
func (c *Container) ProviderOptions() []provider.Option {
	return []provider.Option{
		provider.WithJobCache(c.jobCache),
		provider.WithKeySerializer(c.keySerializer),
		provider.WithLogger(c.logger),
	}
}

// OpenStore opens the database at dsn and creates the schema.
func (c *Container) OpenStore(ctx context.Context, dsn string) (*grading.SQLStore, error) {
	store, err := grading.Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := store.CreateSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// NewCachedStore wraps base with the container store cache.
func (c *Container) NewCachedStore(base grading.Store) *grading.CachedStore {
	return grading.NewCachedStore(base, c.storeCache, c.keySerializer, c.logger)
}

// NewGrader returns a grader that uses the container estimator and records
// into store.
func (c *Container) NewGrader(store grading.Store, opts ...grading.GraderOption) (*grading.Grader, error) {
	opts = append([]grading.GraderOption{grading.WithGraderLogger(c.logger)}, opts...)
	return grading.NewGrader(c.estimator, store, opts...)
}
