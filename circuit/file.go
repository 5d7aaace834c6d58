package circuit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
)

// GateResolver builds gates by name. The standard gate library implements it.
type GateResolver interface {
	Resolve(name string, params []Param) (*Gate, error)
}

// File is the JSON description of a circuit.
//
//	{
//	  "name": "bell",
//	  "qubits": 2,
//	  "clbits": 2,
//	  "gates": {"bell_pair": {"qubits": 2, "definition": [{"gate": "h", "qubits": [0]}, {"gate": "cx", "qubits": [0, 1]}]}},
//	  "ops": [{"gate": "bell_pair", "qubits": [0, 1]}, {"gate": "measure", "qubits": [0], "clbits": [0]}]
//	}
type File struct {
	Name   string              `json:"name"`
	Qubits int                 `json:"qubits"`
	Clbits int                 `json:"clbits,omitempty"`
	Gates  map[string]GateSpec `json:"gates,omitempty"`
	Ops    []OpSpec            `json:"ops"`
}

// GateSpec declares a custom composite gate.
type GateSpec struct {
	Qubits     int      `json:"qubits"`
	Definition []OpSpec `json:"definition"`
}

// OpSpec is a single operation in a circuit file.
type OpSpec struct {
	Gate     string  `json:"gate"`
	Qubits   []int   `json:"qubits"`
	Clbits   []int   `json:"clbits,omitempty"`
	Params   []Param `json:"params,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Validate implements validation.Validatable.
func (f File) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required),
		validation.Field(&f.Qubits, validation.Required, validation.Min(1)),
		validation.Field(&f.Clbits, validation.Min(0)),
		validation.Field(&f.Gates),
		validation.Field(&f.Ops, validation.Required),
	)
}

// Validate implements validation.Validatable.
func (g GateSpec) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.Qubits, validation.Required, validation.Min(1)),
		validation.Field(&g.Definition),
	)
}

// Validate implements validation.Validatable.
func (o OpSpec) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Gate, validation.Required),
		validation.Field(&o.Duration, validation.Min(0.0)),
	)
}

// Decode reads a JSON circuit file and builds the circuit.
func Decode(r io.Reader, resolver GateResolver) (*Circuit, error) {
	var f File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, goerrors.Wrap(ErrInvalidFile, goerrors.CategoryBadInput, fmt.Sprintf("decode circuit file: %v", err))
	}
	return f.Build(resolver)
}

// Unmarshal is Decode over a byte slice.
func Unmarshal(data []byte, resolver GateResolver) (*Circuit, error) {
	return Decode(bytes.NewReader(data), resolver)
}

// Build validates the file and resolves every operation into a circuit.
// Custom gates declared in Gates take precedence over the resolver, but may
// not reuse the name and arity of a primitive.
func (f File) Build(resolver GateResolver) (*Circuit, error) {
	if err := f.Validate(); err != nil {
		return nil, goerrors.FromOzzoValidation(err, "invalid circuit file")
	}
	for _, name := range f.CustomGateNames() {
		key := GateKey{Name: name, NumQubits: f.Gates[name].Qubits}
		if _, ok := primitives[key]; ok {
			return nil, validationError(ErrShadowedPrimitive, "gate %q", key)
		}
	}

	b := &fileBuilder{
		specs:    f.Gates,
		resolver: resolver,
		built:    make(map[string]*Gate),
		visiting: make(map[string]bool),
	}

	c := New(f.Name, f.Qubits, f.Clbits)
	for i, op := range f.Ops {
		ins, err := b.instruction(op)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, fmt.Sprintf("ops[%d]", i))
		}
		if ins.Op.Type == OpBarrier && len(ins.Qubits) == 0 {
			if err := c.Barrier(); err != nil {
				return nil, err
			}
			continue
		}
		if err := c.Append(ins); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, fmt.Sprintf("ops[%d]", i))
		}
	}
	return c, nil
}

// CustomGateNames returns the declared custom gate names in sorted order.
func (f File) CustomGateNames() []string {
	names := make([]string, 0, len(f.Gates))
	for name := range f.Gates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type fileBuilder struct {
	specs    map[string]GateSpec
	resolver GateResolver
	built    map[string]*Gate
	visiting map[string]bool
}

func (b *fileBuilder) instruction(op OpSpec) (Instruction, error) {
	if t, ok := DirectiveType(op.Gate); ok {
		return Instruction{
			Op:     Operation{Type: t, Duration: op.Duration},
			Qubits: op.Qubits,
			Clbits: op.Clbits,
		}, nil
	}

	g, err := b.gate(op.Gate, op.Params)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{
		Op:     Operation{Type: OpGate, Gate: g},
		Qubits: op.Qubits,
		Clbits: op.Clbits,
	}, nil
}

func (b *fileBuilder) gate(name string, params []Param) (*Gate, error) {
	spec, custom := b.specs[name]
	if !custom {
		if b.resolver == nil {
			return nil, validationError(ErrUnknownGate, "gate %q", name)
		}
		return b.resolver.Resolve(name, params)
	}

	if g, ok := b.built[name]; ok {
		return g, nil
	}
	if b.visiting[name] {
		return nil, validationError(ErrCyclicGate, "gate %q refers to itself", name)
	}
	b.visiting[name] = true
	defer delete(b.visiting, name)

	g := NewGate(name, spec.Qubits, params...)
	def := make([]Instruction, 0, len(spec.Definition))
	for i, op := range spec.Definition {
		ins, err := b.instruction(op)
		if err != nil {
			return nil, err
		}
		if err := checkInstruction(ins, spec.Qubits, 0); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryValidation, fmt.Sprintf("gate %q definition[%d]", name, i))
		}
		def = append(def, ins)
	}
	g.Definition = def
	b.built[name] = g
	return g, nil
}
