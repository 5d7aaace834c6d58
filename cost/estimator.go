package cost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-qcgrader/cache"
	"github.com/goliatone/go-qcgrader/circuit"
	"github.com/goliatone/go-qcgrader/internal/logging"
)

// KeyNamespace prefixes every gate cost cache key.
const KeyNamespace = "gate"

// Estimator computes gate and circuit costs. Gate costs are memoised in the
// cache under (name, arity), so two gates sharing a name and arity are treated
// as having the same cost whatever their definitions.
type Estimator struct {
	weights Weights
	cache   cache.CacheService
	keys    cache.KeySerializer
	logger  *slog.Logger

	lookups      atomic.Int64
	computations atomic.Int64
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithWeights overrides DefaultWeights.
func WithWeights(w Weights) Option {
	return func(e *Estimator) {
		e.weights = w
	}
}

// WithCache sets the cost cache. The default is a memory backed service that
// never evicts.
func WithCache(svc cache.CacheService) Option {
	return func(e *Estimator) {
		if svc != nil {
			e.cache = svc
		}
	}
}

// WithKeySerializer overrides the default key serializer.
func WithKeySerializer(ks cache.KeySerializer) Option {
	return func(e *Estimator) {
		if ks != nil {
			e.keys = ks
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Estimator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEstimator returns an Estimator with its own cost cache unless WithCache is given.
func NewEstimator(opts ...Option) (*Estimator, error) {
	e := &Estimator{
		weights: DefaultWeights(),
		keys:    cache.NewDefaultKeySerializer(),
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.weights.Validate(); err != nil {
		return nil, err
	}

	if e.cache == nil {
		svc, err := cache.NewCacheService(cache.DefaultConfig())
		if err != nil {
			return nil, err
		}
		e.cache = svc
	}

	return e, nil
}

// Weights returns the weights in use.
func (e *Estimator) Weights() Weights {
	return e.weights
}

// Key returns the cache key for g.
func (e *Estimator) Key(g *circuit.Gate) string {
	return e.keys.SerializeKey(KeyNamespace, g.Name, g.NumQubits)
}

// GateCost returns the cost of g. Primitive gates cost their weight; any other
// gate costs the sum of the gates in its definition. Directives inside a
// definition cost nothing. Failed evaluations are not cached.
func (e *Estimator) GateCost(ctx context.Context, g *circuit.Gate) (int, error) {
	n, err := e.gateCost(ctx, g, nil)
	if err != nil {
		attrs := append([]slog.Attr{slog.String("gate", gateName(g))}, goerrors.ToSlogAttributes(err)...)
		e.logger.LogAttrs(ctx, slog.LevelDebug, "gate cost failed", attrs...)
		return 0, err
	}
	return n, nil
}

func (e *Estimator) gateCost(ctx context.Context, g *circuit.Gate, path []circuit.GateKey) (int, error) {
	if g == nil {
		return 0, costError(ErrNilGate, textCodeNilGate, "cannot cost a nil gate")
	}
	key := g.Key()
	for _, k := range path {
		if k == key {
			return 0, costError(ErrCyclicDefinition, textCodeCyclicDefinition,
				"gate %s is defined in terms of itself via %s", key, formatPath(append(path, key)))
		}
	}
	e.lookups.Add(1)

	return cache.GetOrFetch(ctx, e.cache, e.Key(g), func(ctx context.Context) (int, error) {
		e.computations.Add(1)
		n, err := e.compute(ctx, g, append(path, key))
		if err != nil {
			return 0, err
		}
		e.logger.DebugContext(ctx, "gate cost computed", "gate", key.String(), "cost", n)
		return n, nil
	})
}

func (e *Estimator) compute(ctx context.Context, g *circuit.Gate, path []circuit.GateKey) (int, error) {
	switch circuit.Classify(g) {
	case circuit.KindSingleQubitPrimitive:
		return e.weights.SingleQubit, nil
	case circuit.KindTwoQubitPrimitive:
		return e.weights.TwoQubit, nil
	}

	if len(g.Definition) == 0 {
		return 0, costError(ErrMissingDefinition, textCodeMissingDefinition,
			"gate %s is not a primitive and has no definition", g.Key())
	}

	total := 0
	for i, ins := range g.Definition {
		if ins.Op.Type != circuit.OpGate {
			continue
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n, err := e.gateCost(ctx, ins.Op.Gate, path)
		if err != nil {
			return 0, annotate(err, fmt.Sprintf("definition of %s, instruction %d", g.Key(), i))
		}
		total += n
	}
	return total, nil
}

// CircuitCost sums GateCost over the gate entries of c. Measurements,
// barriers, resets and delays are excluded.
func (e *Estimator) CircuitCost(ctx context.Context, c *circuit.Circuit) (int, error) {
	total := 0
	for i, ins := range c.Data {
		if ins.Op.Type != circuit.OpGate {
			continue
		}
		n, err := e.GateCost(ctx, ins.Op.Gate)
		if err != nil {
			return 0, annotate(err, fmt.Sprintf("circuit %q, instruction %d", c.Name, i))
		}
		total += n
	}
	return total, nil
}

// HasTwoQubitPrimitive reports whether any instruction of c applies cx
// directly. Gates that only use cx inside their definition do not count.
func HasTwoQubitPrimitive(c *circuit.Circuit) bool {
	return c.HasKind(circuit.KindTwoQubitPrimitive)
}

// Report is the cost breakdown of a circuit.
type Report struct {
	Circuit              string         `json:"circuit"`
	Total                int            `json:"total"`
	HasTwoQubitPrimitive bool           `json:"has_two_qubit_primitive"`
	GateCount            int            `json:"gate_count"`
	ByGate               map[string]int `json:"by_gate"`
}

// GateNames returns the keys of ByGate in sorted order.
func (r Report) GateNames() []string {
	names := make([]string, 0, len(r.ByGate))
	for name := range r.ByGate {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Report costs every gate entry of c and groups the totals by gate name.
func (e *Estimator) Report(ctx context.Context, c *circuit.Circuit) (Report, error) {
	r := Report{
		Circuit:              c.Name,
		HasTwoQubitPrimitive: HasTwoQubitPrimitive(c),
		ByGate:               make(map[string]int),
	}
	for i, ins := range c.Data {
		if ins.Op.Type != circuit.OpGate {
			continue
		}
		n, err := e.GateCost(ctx, ins.Op.Gate)
		if err != nil {
			return Report{}, annotate(err, fmt.Sprintf("circuit %q, instruction %d", c.Name, i))
		}
		r.Total += n
		r.GateCount++
		r.ByGate[ins.Op.Gate.Name] += n
	}
	return r, nil
}

// Stats reports cache activity. Lookups counts every gate evaluated, including
// the gates reached through definitions; Computations counts cache misses.
type Stats struct {
	Lookups      int64 `json:"lookups"`
	Computations int64 `json:"computations"`
	Hits         int64 `json:"hits"`
	Entries      int   `json:"entries"`
}

// Stats returns a snapshot of the counters.
func (e *Estimator) Stats() Stats {
	lookups := e.lookups.Load()
	computations := e.computations.Load()
	return Stats{
		Lookups:      lookups,
		Computations: computations,
		Hits:         lookups - computations,
		Entries:      e.cache.Len(),
	}
}

// annotate prefixes rich errors with location context. Other errors, such as
// context cancellation, are returned unchanged.
func annotate(err error, msg string) error {
	var rich *goerrors.Error
	if !errors.As(err, &rich) {
		return err
	}
	return goerrors.Wrap(err, rich.Category, msg)
}

func gateName(g *circuit.Gate) string {
	if g == nil {
		return "<nil>"
	}
	return g.Key().String()
}

func formatPath(path []circuit.GateKey) string {
	s := ""
	for i, k := range path {
		if i > 0 {
			s += " -> "
		}
		s += k.String()
	}
	return s
}
