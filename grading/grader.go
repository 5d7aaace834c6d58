package grading

import (
	"context"
	"log/slog"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-qcgrader/circuit"
	"github.com/goliatone/go-qcgrader/cost"
	"github.com/goliatone/go-qcgrader/internal/logging"
	"github.com/goliatone/go-qcgrader/provider"
	"github.com/goliatone/go-qcgrader/qobj"
)

// Result is a recorded submission with the cost breakdown it was built from.
type Result struct {
	Submission Submission  `json:"submission"`
	Report     cost.Report `json:"report"`
}

// Grader costs circuits and records the outcome.
type Grader struct {
	estimator *cost.Estimator
	store     Store
	assemble  qobj.Config
	logger    *slog.Logger
}

// GraderOption configures a Grader.
type GraderOption func(*Grader)

// WithAssembleConfig sets the config used to assemble circuits before they
// are fingerprinted.
func WithAssembleConfig(cfg qobj.Config) GraderOption {
	return func(g *Grader) { g.assemble = cfg }
}

// WithGraderLogger sets the grader logger.
func WithGraderLogger(logger *slog.Logger) GraderOption {
	return func(g *Grader) { g.logger = logger }
}

// NewGrader returns a Grader that records into store.
func NewGrader(estimator *cost.Estimator, store Store, opts ...GraderOption) (*Grader, error) {
	if estimator == nil || store == nil {
		return nil, goerrors.New("grader needs an estimator and a store", goerrors.CategoryBadInput)
	}
	g := &Grader{
		estimator: estimator,
		store:     store,
		assemble:  qobj.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = logging.OrDiscard(g.logger)
	if err := g.assemble.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Grade costs c, fingerprints its assembled form and saves a submission for job.
func (g *Grader) Grade(ctx context.Context, job provider.JobRef, c *circuit.Circuit) (*Result, error) {
	if job == nil || job.JobID() == "" {
		return nil, goerrors.New("job id is required", goerrors.CategoryValidation)
	}
	if c == nil {
		return nil, goerrors.New("circuit is nil", goerrors.CategoryBadInput)
	}

	report, err := g.estimator.Report(ctx, c)
	if err != nil {
		return nil, err
	}
	q, err := qobj.Assemble(g.assemble, c)
	if err != nil {
		return nil, err
	}
	fingerprint, err := q.Fingerprint()
	if err != nil {
		return nil, err
	}

	sub := Submission{
		JobID:                job.JobID(),
		CircuitName:          c.Name,
		Fingerprint:          fingerprint,
		Cost:                 report.Total,
		HasTwoQubitPrimitive: report.HasTwoQubitPrimitive,
	}
	if err := g.store.Save(ctx, &sub); err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "graded circuit",
		"job", sub.JobID,
		"circuit", sub.CircuitName,
		"cost", sub.Cost,
		"has_two_qubit_primitive", sub.HasTwoQubitPrimitive,
	)
	return &Result{Submission: sub, Report: report}, nil
}
