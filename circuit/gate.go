package circuit

import (
	"encoding/json"
	"fmt"
)

// GateKey identifies a gate for caching purposes. Two gates with the same
// name and arity are treated as equivalent regardless of their parameters
// or definitions.
type GateKey struct {
	Name      string
	NumQubits int
}

func (k GateKey) String() string {
	return fmt.Sprintf("%s/%d", k.Name, k.NumQubits)
}

// Kind classifies a gate for cost purposes.
type Kind int

const (
	// KindComposite gates are costed through their definition.
	KindComposite Kind = iota
	// KindSingleQubitPrimitive gates are the recognized single-qubit rotations.
	KindSingleQubitPrimitive
	// KindTwoQubitPrimitive gates are the recognized two-qubit entangling gates.
	KindTwoQubitPrimitive
)

func (k Kind) String() string {
	switch k {
	case KindSingleQubitPrimitive:
		return "single_qubit_primitive"
	case KindTwoQubitPrimitive:
		return "two_qubit_primitive"
	default:
		return "composite"
	}
}

// primitives is the closed table of gates with a fixed cost. Anything not
// listed here is composite and must carry a definition.
var primitives = map[GateKey]Kind{
	{Name: "u", NumQubits: 1}:  KindSingleQubitPrimitive,
	{Name: "u3", NumQubits: 1}: KindSingleQubitPrimitive,
	{Name: "cx", NumQubits: 2}: KindTwoQubitPrimitive,
}

// Classify returns the kind of the gate. A nil gate is composite.
func Classify(g *Gate) Kind {
	if g == nil {
		return KindComposite
	}
	if kind, ok := primitives[g.Key()]; ok {
		return kind
	}
	return KindComposite
}

// Gate is a named unitary operation over NumQubits qubits. Composite gates
// carry an ordered Definition expressed over local qubit indices
// 0..NumQubits-1.
type Gate struct {
	Name       string
	NumQubits  int
	Params     []Param
	Definition []Instruction
	Label      string
}

// NewGate creates a gate without a definition.
func NewGate(name string, numQubits int, params ...Param) *Gate {
	return &Gate{
		Name:      name,
		NumQubits: numQubits,
		Params:    params,
	}
}

// Key returns the caching identity of the gate.
func (g *Gate) Key() GateKey {
	return GateKey{Name: g.Name, NumQubits: g.NumQubits}
}

// Kind is shorthand for Classify(g).
func (g *Gate) Kind() Kind {
	return Classify(g)
}

// IsPrimitive reports whether the gate has a fixed cost.
func (g *Gate) IsPrimitive() bool {
	return g.Kind() != KindComposite
}

// WithDefinition replaces the gate definition and returns the gate.
func (g *Gate) WithDefinition(def ...Instruction) *Gate {
	g.Definition = def
	return g
}

// WithLabel sets a display label.
func (g *Gate) WithLabel(label string) *Gate {
	g.Label = label
	return g
}

func (g *Gate) String() string {
	if len(g.Params) == 0 {
		return g.Name
	}
	return fmt.Sprintf("%s%v", g.Name, g.Params)
}

// Param is a gate parameter. Most parameters are real angles; complex values
// are kept for gates that carry matrix entries.
type Param struct {
	value     complex128
	isComplex bool
}

// Real creates a real valued parameter.
func Real(v float64) Param {
	return Param{value: complex(v, 0)}
}

// Complex creates a complex valued parameter.
func Complex(v complex128) Param {
	return Param{value: v, isComplex: true}
}

// Reals converts angles to parameters.
func Reals(vs ...float64) []Param {
	out := make([]Param, len(vs))
	for i, v := range vs {
		out[i] = Real(v)
	}
	return out
}

func (p Param) IsComplex() bool     { return p.isComplex }
func (p Param) Float() float64      { return real(p.value) }
func (p Param) Complex() complex128 { return p.value }

func (p Param) String() string {
	if p.isComplex {
		return fmt.Sprint(p.value)
	}
	return fmt.Sprint(real(p.value))
}

// MarshalJSON encodes real parameters as numbers and complex parameters as
// a [re, im] pair.
func (p Param) MarshalJSON() ([]byte, error) {
	if p.isComplex {
		return json.Marshal([2]float64{real(p.value), imag(p.value)})
	}
	return json.Marshal(real(p.value))
}

// UnmarshalJSON accepts either a number or a [re, im] pair.
func (p *Param) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*p = Real(f)
		return nil
	}

	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("param must be a number or [re, im] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("param pair must have 2 elements, got %d", len(pair))
	}
	*p = Complex(complex(pair[0], pair[1]))
	return nil
}

// Equal compares two parameters.
func (p Param) Equal(other Param) bool {
	return p.isComplex == other.isComplex && p.value == other.value
}
