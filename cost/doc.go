// Package cost estimates the cost of quantum gates and circuits.
//
// Primitive gates have a fixed weight: u and u3 cost 1 and cx costs 10 under
// DefaultWeights. Every other gate costs the sum of the gates in its
// definition, evaluated recursively. Directives (measure, barrier, reset,
// delay) cost nothing.
//
// An Estimator memoises gate costs in a cache.CacheService keyed by gate name
// and arity. The default cache is process-local and never evicts, so a gate is
// computed at most once per Estimator:
//
//	est, err := cost.NewEstimator()
//	if err != nil {
//		return err
//	}
//	total, err := est.CircuitCost(ctx, c)
//
// Composite gates without a definition fail with ErrMissingDefinition and
// self-referencing definitions with ErrCyclicDefinition. Neither is cached.
package cost
