package cache

import (
	"time"

	"github.com/goliatone/go-qcgrader/internal/cacheinfra"
)

// Backend selects the cache implementation behind a CacheService.
type Backend string

const (
	// BackendMemory keeps every entry for the lifetime of the service.
	BackendMemory Backend = Backend(cacheinfra.BackendMemory)
	// BackendSturdyc is bounded and expires entries after TTL.
	BackendSturdyc Backend = Backend(cacheinfra.BackendSturdyc)
)

// Config exposes cache configuration options for consumers of the cache package.
// Only Backend is read when the memory backend is selected.
type Config struct {
	Backend              Backend
	Capacity             int
	NumShards            int
	TTL                  time.Duration
	EvictionPercentage   int
	EarlyRefresh         *EarlyRefreshConfig
	MissingRecordStorage bool
	EvictionInterval     time.Duration
}

// EarlyRefreshConfig mirrors the underlying sturdyc early refresh options.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration
	MaxAsyncRefreshTime time.Duration
	SyncRefreshTime     time.Duration
	RetryBaseDelay      time.Duration
}

// DefaultConfig returns the append-only memory configuration used by the
// gate cost cache.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// DefaultBoundedConfig returns a sturdyc configuration for caches in front of
// remote or persistent data.
func DefaultBoundedConfig() Config {
	return convertFromInternal(cacheinfra.DefaultBoundedConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewCacheService constructs the cache service selected by cfg.Backend.
func NewCacheService(cfg Config) (CacheService, error) {
	svc, err := cacheinfra.NewService(cfg.toInternal())
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (c Config) toInternal() cacheinfra.Config {
	var early *cacheinfra.EarlyRefreshConfig
	if c.EarlyRefresh != nil {
		early = &cacheinfra.EarlyRefreshConfig{
			MinAsyncRefreshTime: c.EarlyRefresh.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: c.EarlyRefresh.MaxAsyncRefreshTime,
			SyncRefreshTime:     c.EarlyRefresh.SyncRefreshTime,
			RetryBaseDelay:      c.EarlyRefresh.RetryBaseDelay,
		}
	}

	return cacheinfra.Config{
		Backend:              cacheinfra.Backend(c.Backend),
		Capacity:             c.Capacity,
		NumShards:            c.NumShards,
		TTL:                  c.TTL,
		EvictionPercentage:   c.EvictionPercentage,
		EarlyRefresh:         early,
		MissingRecordStorage: c.MissingRecordStorage,
		EvictionInterval:     c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	var early *EarlyRefreshConfig
	if cfg.EarlyRefresh != nil {
		early = &EarlyRefreshConfig{
			MinAsyncRefreshTime: cfg.EarlyRefresh.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: cfg.EarlyRefresh.MaxAsyncRefreshTime,
			SyncRefreshTime:     cfg.EarlyRefresh.SyncRefreshTime,
			RetryBaseDelay:      cfg.EarlyRefresh.RetryBaseDelay,
		}
	}

	return Config{
		Backend:              Backend(cfg.Backend),
		Capacity:             cfg.Capacity,
		NumShards:            cfg.NumShards,
		TTL:                  cfg.TTL,
		EvictionPercentage:   cfg.EvictionPercentage,
		EarlyRefresh:         early,
		MissingRecordStorage: cfg.MissingRecordStorage,
		EvictionInterval:     cfg.EvictionInterval,
	}
}
