package grading

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrSubmissionNotFound is returned when no submission matches a lookup.
var ErrSubmissionNotFound = errors.New("submission not found")

// Submission is one graded circuit.
type Submission struct {
	bun.BaseModel `bun:"table:submissions,alias:s"`

	ID                   uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	JobID                string    `bun:"job_id,notnull" json:"job_id"`
	CircuitName          string    `bun:"circuit_name,notnull" json:"circuit_name"`
	Fingerprint          string    `bun:"fingerprint,notnull" json:"fingerprint"`
	Cost                 int       `bun:"cost,notnull" json:"cost"`
	HasTwoQubitPrimitive bool      `bun:"has_two_qubit_primitive,notnull" json:"has_two_qubit_primitive"`
	CreatedAt            time.Time `bun:"created_at,notnull" json:"created_at"`
}

// Validate implements validation.Validatable.
func (s Submission) Validate() error {
	err := validation.ValidateStruct(&s,
		validation.Field(&s.JobID, validation.Required),
		validation.Field(&s.CircuitName, validation.Required),
		validation.Field(&s.Fingerprint, validation.Required),
		validation.Field(&s.Cost, validation.Min(0)),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid submission")
	}
	return nil
}

// Store persists submissions.
type Store interface {
	// Save assigns an ID and creation time when they are unset and stores s.
	Save(ctx context.Context, s *Submission) error
	// GetByJobID returns the most recent submission for a job.
	GetByJobID(ctx context.Context, jobID string) (*Submission, error)
	// ListByCircuit returns the submissions for a circuit, oldest first.
	ListByCircuit(ctx context.Context, circuitName string) ([]Submission, error)
	Count(ctx context.Context) (int, error)
}

func prepare(s *Submission) error {
	if s == nil {
		return goerrors.New("submission is nil", goerrors.CategoryBadInput)
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	return s.Validate()
}

func notFound(format string, args ...any) error {
	return goerrors.Wrap(ErrSubmissionNotFound, goerrors.CategoryNotFound, fmt.Sprintf(format, args...)).
		WithTextCode("SUBMISSION_NOT_FOUND")
}
