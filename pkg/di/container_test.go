package di

import (
	"context"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-qcgrader/cache"
	"github.com/goliatone/go-qcgrader/cost"
	"github.com/goliatone/go-qcgrader/stdgates"
)

func TestNewContainer(t *testing.T) {
	config := Config{
		CostCache: cache.DefaultConfig(),
		JobCache: cache.Config{
			Backend:            cache.BackendSturdyc,
			Capacity:           1000,
			NumShards:          16,
			TTL:                time.Minute,
			EvictionPercentage: 10,
		},
		StoreCache: cache.DefaultBoundedConfig(),
		Weights:    cost.Weights{SingleQubit: 2, TwoQubit: 20},
	}

	container, err := NewContainer(config)
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	if container.CostCache() == nil || container.JobCache() == nil || container.StoreCache() == nil {
		t.Fatal("Container should have non-nil cache services")
	}
	if container.KeySerializer() == nil {
		t.Error("Container should have a non-nil key serializer")
	}
	if container.Estimator() == nil {
		t.Fatal("Container should have a non-nil estimator")
	}
	if container.Logger() == nil {
		t.Error("Container should fall back to a discard logger")
	}

	if got := container.Estimator().Weights(); got != config.Weights {
		t.Errorf("Expected weights %+v, got %+v", config.Weights, got)
	}
	if got := container.Config().JobCache.Capacity; got != 1000 {
		t.Errorf("Expected job cache capacity 1000, got %d", got)
	}
}

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	config := container.Config()
	if config.CostCache.Backend != cache.BackendMemory {
		t.Errorf("Expected memory cost cache, got %q", config.CostCache.Backend)
	}
	if config.JobCache.Backend != cache.BackendSturdyc || config.StoreCache.Backend != cache.BackendSturdyc {
		t.Errorf("Expected bounded job and store caches, got %q and %q", config.JobCache.Backend, config.StoreCache.Backend)
	}
	if container.Estimator().Weights() != cost.DefaultWeights() {
		t.Errorf("Expected default weights, got %+v", container.Estimator().Weights())
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "bounded job cache without capacity",
			mutate: func(c *Config) { c.JobCache.Capacity = 0 },
		},
		{
			name:   "bounded store cache without shards",
			mutate: func(c *Config) { c.StoreCache.NumShards = 0 },
		},
		{
			name:   "zero two qubit weight",
			mutate: func(c *Config) { c.Weights.TwoQubit = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(&config)

			if _, err := NewContainer(config); !goerrors.IsValidation(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestContainerSingletonBehavior(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	if container.Estimator() != container.Estimator() {
		t.Error("Estimator should return the same instance")
	}
	if container.CostCache() != container.CostCache() {
		t.Error("CostCache should return the same instance")
	}
	if container.CostCache() == container.JobCache() {
		t.Error("Cost and job caches should be separate services")
	}
}

func TestEstimatorUsesContainerCache(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}
	ctx := context.Background()

	n, err := container.Estimator().GateCost(ctx, stdgates.CCX())
	if err != nil {
		t.Fatalf("GateCost failed: %v", err)
	}
	if n != 69 {
		t.Errorf("Expected ccx cost 69, got %d", n)
	}

	key := container.KeySerializer().SerializeKey(cost.KeyNamespace, "ccx", 3)
	cached, ok, err := cache.Get[int](ctx, container.CostCache(), key)
	if err != nil || !ok {
		t.Fatalf("Expected %s in the cost cache (ok=%v, err=%v)", key, ok, err)
	}
	if cached != 69 {
		t.Errorf("Expected cached cost 69, got %d", cached)
	}
}

func TestProviderOptions(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	if got := len(container.ProviderOptions()); got != 3 {
		t.Errorf("Expected 3 provider options, got %d", got)
	}
}
