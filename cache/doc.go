// Package cache provides the read-through cache abstraction shared by the gate
// cost estimator, the job provider and the submission store.
//
// # Overview
//
//   - CacheService: GetOrFetch, Get, Delete and Len over untyped values
//   - GetOrFetch / Get: generic wrappers that assert the cached type
//   - KeySerializer: builds stable keys from a namespace and arguments
//   - Config: selects and tunes a backend
//
// Two backends are available. BackendMemory is an append-only map: entries are
// never evicted, which is what memoised gate costs need since a gate's cost
// never changes while the process runs. BackendSturdyc is bounded, sharded and
// expires entries after TTL; it fronts remote job lookups and database reads.
//
// # Basic Usage
//
//	svc, err := cache.NewCacheService(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	key := cache.NewDefaultKeySerializer().SerializeKey("gate", "ccx", 3)
//	cost, err := cache.GetOrFetch(ctx, svc, key, func(ctx context.Context) (int, error) {
//		return compute(ctx)
//	})
//
// A failed fetch is returned to the caller and nothing is stored, so the next
// call retries.
//
// # Keys
//
// Strings, numbers and booleans are written as-is. fmt.Stringer values use
// String(). Byte slices and values without a scalar form are digested with
// xxhash over their JSON encoding. Functions and channels are keyed by pointer
// and are only stable within one process.
package cache
