package circuit

// OpType distinguishes gate applications from directives.
type OpType int

const (
	OpGate OpType = iota
	OpMeasure
	OpBarrier
	OpReset
	OpDelay
)

func (t OpType) String() string {
	switch t {
	case OpGate:
		return "gate"
	case OpMeasure:
		return "measure"
	case OpBarrier:
		return "barrier"
	case OpReset:
		return "reset"
	case OpDelay:
		return "delay"
	default:
		return "unknown"
	}
}

// IsDirective reports whether the operation is not a unitary gate.
func (t OpType) IsDirective() bool {
	return t != OpGate
}

// directiveTypes maps reserved operation names to their type.
var directiveTypes = map[string]OpType{
	"measure": OpMeasure,
	"barrier": OpBarrier,
	"reset":   OpReset,
	"delay":   OpDelay,
}

// DirectiveType returns the directive type for a reserved name.
func DirectiveType(name string) (OpType, bool) {
	t, ok := directiveTypes[name]
	return t, ok
}

// Operation is either a gate or a directive.
type Operation struct {
	Type OpType
	// Gate is set when Type is OpGate.
	Gate *Gate
	// Duration is only used by OpDelay.
	Duration float64
}

// Name returns the operation name as it appears in serialized circuits.
func (o Operation) Name() string {
	if o.Type == OpGate {
		if o.Gate == nil {
			return ""
		}
		return o.Gate.Name
	}
	return o.Type.String()
}

// IsGate reports whether the operation applies a gate.
func (o Operation) IsGate() bool {
	return o.Type == OpGate && o.Gate != nil
}

// Instruction applies an operation to qubits and classical bits.
type Instruction struct {
	Op     Operation
	Qubits []int
	Clbits []int
}

// Apply builds a gate instruction.
func Apply(g *Gate, qubits ...int) Instruction {
	return Instruction{
		Op:     Operation{Type: OpGate, Gate: g},
		Qubits: qubits,
	}
}

// MeasureOp builds a measurement instruction.
func MeasureOp(qubit, clbit int) Instruction {
	return Instruction{
		Op:     Operation{Type: OpMeasure},
		Qubits: []int{qubit},
		Clbits: []int{clbit},
	}
}

// BarrierOp builds a barrier across the given qubits.
func BarrierOp(qubits ...int) Instruction {
	return Instruction{
		Op:     Operation{Type: OpBarrier},
		Qubits: qubits,
	}
}

// ResetOp builds a reset instruction.
func ResetOp(qubit int) Instruction {
	return Instruction{
		Op:     Operation{Type: OpReset},
		Qubits: []int{qubit},
	}
}

// DelayOp builds an idle instruction of the given duration.
func DelayOp(qubit int, duration float64) Instruction {
	return Instruction{
		Op:     Operation{Type: OpDelay, Duration: duration},
		Qubits: []int{qubit},
	}
}
