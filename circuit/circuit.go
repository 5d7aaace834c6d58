package circuit

// Default register names used when a circuit is created with flat sizes.
const (
	DefaultQuantumRegister   = "q"
	DefaultClassicalRegister = "c"
)

// Register is a named, contiguous block of bits. Instructions address bits by
// their flat index across all registers of the same kind.
type Register struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

// Circuit is an ordered sequence of instructions over a fixed set of qubits
// and classical bits.
type Circuit struct {
	Name        string
	QRegs       []Register
	CRegs       []Register
	Data        []Instruction
	GlobalPhase float64
	Metadata    map[string]any
}

// New creates an empty circuit with a single quantum register and, when
// numClbits is positive, a single classical register.
func New(name string, numQubits, numClbits int) *Circuit {
	c := &Circuit{Name: name}
	if numQubits > 0 {
		c.QRegs = []Register{{Name: DefaultQuantumRegister, Size: numQubits}}
	}
	if numClbits > 0 {
		c.CRegs = []Register{{Name: DefaultClassicalRegister, Size: numClbits}}
	}
	return c
}

// NewWithRegisters creates an empty circuit over explicit registers.
func NewWithRegisters(name string, qregs, cregs []Register) *Circuit {
	return &Circuit{
		Name:  name,
		QRegs: append([]Register(nil), qregs...),
		CRegs: append([]Register(nil), cregs...),
	}
}

// NumQubits returns the total number of qubits across all quantum registers.
func (c *Circuit) NumQubits() int {
	return registerWidth(c.QRegs)
}

// NumClbits returns the total number of classical bits.
func (c *Circuit) NumClbits() int {
	return registerWidth(c.CRegs)
}

func registerWidth(regs []Register) int {
	n := 0
	for _, r := range regs {
		n += r.Size
	}
	return n
}

// Append validates and appends an instruction.
func (c *Circuit) Append(ins Instruction) error {
	if err := checkInstruction(ins, c.NumQubits(), c.NumClbits()); err != nil {
		return err
	}
	c.Data = append(c.Data, ins)
	return nil
}

// AppendGate applies g to the given qubits.
func (c *Circuit) AppendGate(g *Gate, qubits ...int) error {
	return c.Append(Apply(g, qubits...))
}

// Measure records qubit into clbit.
func (c *Circuit) Measure(qubit, clbit int) error {
	return c.Append(MeasureOp(qubit, clbit))
}

// MeasureAll measures qubit i into clbit i for every qubit that has a
// matching classical bit.
func (c *Circuit) MeasureAll() error {
	n := min(c.NumQubits(), c.NumClbits())
	for i := 0; i < n; i++ {
		if err := c.Measure(i, i); err != nil {
			return err
		}
	}
	return nil
}

// Barrier adds a barrier across the given qubits, or all qubits when none are given.
func (c *Circuit) Barrier(qubits ...int) error {
	if len(qubits) == 0 {
		qubits = make([]int, c.NumQubits())
		for i := range qubits {
			qubits[i] = i
		}
	}
	return c.Append(BarrierOp(qubits...))
}

// Reset returns a qubit to |0>.
func (c *Circuit) Reset(qubit int) error {
	return c.Append(ResetOp(qubit))
}

// Gates returns the gate of every gate entry, skipping directives.
func (c *Circuit) Gates() []*Gate {
	gates := make([]*Gate, 0, len(c.Data))
	for _, ins := range c.Data {
		if ins.Op.IsGate() {
			gates = append(gates, ins.Op.Gate)
		}
	}
	return gates
}

// HasKind reports whether any instruction applies a gate of the given kind.
func (c *Circuit) HasKind(kind Kind) bool {
	for _, ins := range c.Data {
		if ins.Op.IsGate() && Classify(ins.Op.Gate) == kind {
			return true
		}
	}
	return false
}

// CountOps returns the number of instructions per operation name.
func (c *Circuit) CountOps() map[string]int {
	counts := make(map[string]int)
	for _, ins := range c.Data {
		counts[ins.Op.Name()]++
	}
	return counts
}

func checkInstruction(ins Instruction, numQubits, numClbits int) error {
	if ins.Op.Type == OpGate {
		if ins.Op.Gate == nil {
			return validationError(ErrNilGate, "cannot append gate instruction without a gate")
		}
		if len(ins.Qubits) != ins.Op.Gate.NumQubits {
			return validationError(ErrArityMismatch, "gate %s expects %d qubits, got %d",
				ins.Op.Gate.Name, ins.Op.Gate.NumQubits, len(ins.Qubits))
		}
	}

	seen := make(map[int]struct{}, len(ins.Qubits))
	for _, q := range ins.Qubits {
		if q < 0 || q >= numQubits {
			return validationError(ErrQubitOutOfRange, "%s targets qubit %d of %d", ins.Op.Name(), q, numQubits)
		}
		if _, dup := seen[q]; dup {
			return validationError(ErrDuplicateQubit, "%s targets qubit %d more than once", ins.Op.Name(), q)
		}
		seen[q] = struct{}{}
	}

	for _, b := range ins.Clbits {
		if b < 0 || b >= numClbits {
			return validationError(ErrClbitOutOfRange, "%s targets clbit %d of %d", ins.Op.Name(), b, numClbits)
		}
	}
	return nil
}
