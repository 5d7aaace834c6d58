package circuit

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrArityMismatch is returned when a gate is applied to the wrong number of qubits.
	ErrArityMismatch = errors.New("gate arity does not match qubit targets")

	// ErrQubitOutOfRange is returned when an instruction targets a qubit outside the circuit.
	ErrQubitOutOfRange = errors.New("qubit index out of range")

	// ErrClbitOutOfRange is returned when an instruction targets a classical bit outside the circuit.
	ErrClbitOutOfRange = errors.New("classical bit index out of range")

	// ErrDuplicateQubit is returned when an instruction targets the same qubit twice.
	ErrDuplicateQubit = errors.New("duplicate qubit target")

	// ErrNilGate is returned when a gate instruction carries no gate.
	ErrNilGate = errors.New("gate instruction has no gate")

	// ErrUnknownGate is returned when a gate name cannot be resolved.
	ErrUnknownGate = errors.New("unknown gate")

	// ErrParamCount is returned when a gate is given the wrong number of parameters.
	ErrParamCount = errors.New("wrong number of gate parameters")

	// ErrCyclicGate is returned when custom gate definitions refer to each other in a cycle.
	ErrCyclicGate = errors.New("cyclic gate definition")

	// ErrShadowedPrimitive is returned when a custom gate reuses the name and
	// arity of a primitive gate.
	ErrShadowedPrimitive = errors.New("custom gate shadows a primitive")

	// ErrInvalidFile is returned when a circuit file cannot be decoded.
	ErrInvalidFile = errors.New("invalid circuit file")
)

func validationError(sentinel error, format string, args ...any) error {
	return goerrors.Wrap(sentinel, goerrors.CategoryValidation, fmt.Sprintf(format, args...))
}
