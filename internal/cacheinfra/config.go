package cacheinfra

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/viccon/sturdyc"
)

// Backend selects the cache implementation.
type Backend string

const (
	// BackendMemory is an unbounded, append-only map. Entries live for the
	// lifetime of the process unless deleted explicitly.
	BackendMemory Backend = "memory"
	// BackendSturdyc is a bounded, sharded cache with TTL based expiry.
	BackendSturdyc Backend = "sturdyc"
)

// Config holds the configuration for the cache adapters.
type Config struct {
	// Backend selects the implementation. Default: memory
	Backend Backend

	// Capacity defines the maximum number of entries that the sturdyc cache can store.
	Capacity int

	// NumShards determines the number of sturdyc shards for concurrent access.
	NumShards int

	// TTL is the time-to-live for sturdyc entries.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EarlyRefresh configures early refresh behavior for cached entries.
	// If nil, early refresh is disabled.
	EarlyRefresh *EarlyRefreshConfig

	// MissingRecordStorage lets sturdyc remember keys whose fetch returned
	// sturdyc.ErrNotFound.
	MissingRecordStorage bool

	// EvictionInterval sets how often expired entries are swept.
	// Zero value uses the default interval.
	EvictionInterval time.Duration
}

// EarlyRefreshConfig configures early refresh behavior.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration
	MaxAsyncRefreshTime time.Duration
	SyncRefreshTime     time.Duration
	RetryBaseDelay      time.Duration
}

// Validate implements validation.Validatable.
func (e EarlyRefreshConfig) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.MinAsyncRefreshTime, validation.Min(time.Duration(0))),
		validation.Field(&e.MaxAsyncRefreshTime, validation.Min(time.Duration(0))),
		validation.Field(&e.SyncRefreshTime, validation.Min(time.Duration(0))),
		validation.Field(&e.RetryBaseDelay, validation.Min(time.Duration(0))),
	)
}

// DefaultConfig returns the append-only memory configuration.
func DefaultConfig() Config {
	return Config{Backend: BackendMemory}
}

// DefaultBoundedConfig returns a sturdyc configuration suited to remote lookups.
func DefaultBoundedConfig() Config {
	return Config{
		Backend:            BackendSturdyc,
		Capacity:           10000,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
		EvictionInterval:   0, // Use default
	}
}

// ToSturdycOptions converts the Config to sturdyc options. Capacity, NumShards,
// TTL and EvictionPercentage go to sturdyc.New directly.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EarlyRefresh != nil {
		options = append(options, sturdyc.WithEarlyRefreshes(
			c.EarlyRefresh.MinAsyncRefreshTime,
			c.EarlyRefresh.MaxAsyncRefreshTime,
			c.EarlyRefresh.SyncRefreshTime,
			c.EarlyRefresh.RetryBaseDelay,
		))
	}

	if c.MissingRecordStorage {
		options = append(options, sturdyc.WithMissingRecordStorage())
	}

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks the configuration for the selected backend.
func (c Config) Validate() error {
	rules := []*validation.FieldRules{
		validation.Field(&c.Backend, validation.Required, validation.In(BackendMemory, BackendSturdyc)),
	}

	if c.Backend == BackendSturdyc {
		rules = append(rules,
			validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
			validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
			validation.Field(&c.TTL, validation.Required, validation.Min(time.Duration(1))),
			validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
			validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
			validation.Field(&c.EarlyRefresh),
		)
	}

	if err := validation.ValidateStruct(&c, rules...); err != nil {
		return goerrors.FromOzzoValidation(err, "invalid cache config")
	}
	return nil
}
