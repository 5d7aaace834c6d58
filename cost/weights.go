package cost

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

// Weights is the fixed cost assigned to each primitive kind.
type Weights struct {
	SingleQubit int `json:"single_qubit"`
	TwoQubit    int `json:"two_qubit"`
}

// DefaultWeights returns the grading weights: one per single-qubit rotation,
// ten per cx.
func DefaultWeights() Weights {
	return Weights{SingleQubit: 1, TwoQubit: 10}
}

// Validate requires both weights to be positive.
func (w Weights) Validate() error {
	err := validation.ValidateStruct(&w,
		validation.Field(&w.SingleQubit, validation.Required, validation.Min(1)),
		validation.Field(&w.TwoQubit, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid cost weights")
	}
	return nil
}
