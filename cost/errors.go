package cost

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrNilGate is returned when GateCost is given no gate, or a definition
	// contains a gate entry without a gate.
	ErrNilGate = errors.New("nil gate")

	// ErrMissingDefinition is returned for a composite gate whose definition is empty.
	ErrMissingDefinition = errors.New("composite gate has no definition")

	// ErrCyclicDefinition is returned when a definition refers back to a gate
	// that is still being evaluated.
	ErrCyclicDefinition = errors.New("cyclic gate definition")
)

const (
	textCodeNilGate           = "COST_NIL_GATE"
	textCodeMissingDefinition = "COST_MISSING_DEFINITION"
	textCodeCyclicDefinition  = "COST_CYCLIC_DEFINITION"
)

func costError(sentinel error, code, format string, args ...any) error {
	return goerrors.Wrap(sentinel, goerrors.CategoryValidation, fmt.Sprintf(format, args...)).
		WithTextCode(code)
}
