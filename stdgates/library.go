// Package stdgates provides the standard gate library expressed in terms of
// the primitive u, u3 and cx gates.
package stdgates

import (
	"fmt"
	"math"
	"sort"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-qcgrader/circuit"
)

// Builder creates a gate from real parameters.
type Builder func(params ...float64) *circuit.Gate

type entry struct {
	numParams int
	build     Builder
}

// Library resolves gate names to gates.
type Library struct {
	mu      sync.RWMutex
	entries map[string]entry
}

var _ circuit.GateResolver = (*Library)(nil)

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{entries: make(map[string]entry)}
}

// Default returns a library with every standard gate registered.
func Default() *Library {
	l := NewLibrary()
	l.Register("u", 3, func(p ...float64) *circuit.Gate { return U(p[0], p[1], p[2]) })
	l.Register("u3", 3, func(p ...float64) *circuit.Gate { return U3(p[0], p[1], p[2]) })
	l.Register("cx", 0, func(...float64) *circuit.Gate { return CX() })
	l.Register("p", 1, func(p ...float64) *circuit.Gate { return P(p[0]) })
	l.Register("u1", 1, func(p ...float64) *circuit.Gate { return U1(p[0]) })
	l.Register("u2", 2, func(p ...float64) *circuit.Gate { return U2(p[0], p[1]) })
	l.Register("rx", 1, func(p ...float64) *circuit.Gate { return RX(p[0]) })
	l.Register("ry", 1, func(p ...float64) *circuit.Gate { return RY(p[0]) })
	l.Register("rz", 1, func(p ...float64) *circuit.Gate { return RZ(p[0]) })
	l.Register("id", 0, func(...float64) *circuit.Gate { return ID() })
	l.Register("h", 0, func(...float64) *circuit.Gate { return H() })
	l.Register("x", 0, func(...float64) *circuit.Gate { return X() })
	l.Register("y", 0, func(...float64) *circuit.Gate { return Y() })
	l.Register("z", 0, func(...float64) *circuit.Gate { return Z() })
	l.Register("s", 0, func(...float64) *circuit.Gate { return S() })
	l.Register("sdg", 0, func(...float64) *circuit.Gate { return Sdg() })
	l.Register("t", 0, func(...float64) *circuit.Gate { return T() })
	l.Register("tdg", 0, func(...float64) *circuit.Gate { return Tdg() })
	l.Register("sx", 0, func(...float64) *circuit.Gate { return SX() })
	l.Register("cz", 0, func(...float64) *circuit.Gate { return CZ() })
	l.Register("cy", 0, func(...float64) *circuit.Gate { return CY() })
	l.Register("ch", 0, func(...float64) *circuit.Gate { return CH() })
	l.Register("swap", 0, func(...float64) *circuit.Gate { return Swap() })
	l.Register("ccx", 0, func(...float64) *circuit.Gate { return CCX() })
	l.Register("cswap", 0, func(...float64) *circuit.Gate { return CSwap() })
	return l
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
)

// Lookup resolves name against a shared Default library.
func Lookup(name string, params ...float64) (*circuit.Gate, error) {
	defaultOnce.Do(func() { defaultLib = Default() })
	return defaultLib.Resolve(name, circuit.Reals(params...))
}

// Register adds or replaces a gate builder.
func (l *Library) Register(name string, numParams int, build Builder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[name] = entry{numParams: numParams, build: build}
}

// Names returns the registered gate names in sorted order.
func (l *Library) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.entries))
	for name := range l.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve implements circuit.GateResolver. Complex parameters are rejected
// since every standard gate takes real angles.
func (l *Library) Resolve(name string, params []circuit.Param) (*circuit.Gate, error) {
	l.mu.RLock()
	e, ok := l.entries[name]
	l.mu.RUnlock()
	if !ok {
		return nil, goerrors.Wrap(circuit.ErrUnknownGate, goerrors.CategoryValidation, fmt.Sprintf("gate %q is not in the library", name))
	}
	if len(params) != e.numParams {
		return nil, goerrors.Wrap(circuit.ErrParamCount, goerrors.CategoryValidation,
			fmt.Sprintf("gate %q takes %d params, got %d", name, e.numParams, len(params)))
	}

	angles := make([]float64, len(params))
	for i, p := range params {
		if p.IsComplex() {
			return nil, goerrors.Wrap(circuit.ErrParamCount, goerrors.CategoryValidation,
				fmt.Sprintf("gate %q param %d must be real", name, i))
		}
		angles[i] = p.Float()
	}
	return e.build(angles...), nil
}

// U is the generic single-qubit rotation primitive.
func U(theta, phi, lambda float64) *circuit.Gate {
	return circuit.NewGate("u", 1, circuit.Reals(theta, phi, lambda)...)
}

// U3 is the legacy single-qubit rotation primitive.
func U3(theta, phi, lambda float64) *circuit.Gate {
	return circuit.NewGate("u3", 1, circuit.Reals(theta, phi, lambda)...)
}

// CX is the two-qubit entangling primitive.
func CX() *circuit.Gate {
	return circuit.NewGate("cx", 2)
}

func P(lambda float64) *circuit.Gate {
	return composite("p", 1, circuit.Reals(lambda),
		circuit.Apply(U(0, 0, lambda), 0),
	)
}

func U1(lambda float64) *circuit.Gate {
	return composite("u1", 1, circuit.Reals(lambda),
		circuit.Apply(U3(0, 0, lambda), 0),
	)
}

func U2(phi, lambda float64) *circuit.Gate {
	return composite("u2", 1, circuit.Reals(phi, lambda),
		circuit.Apply(U(math.Pi/2, phi, lambda), 0),
	)
}

func RX(theta float64) *circuit.Gate {
	return composite("rx", 1, circuit.Reals(theta),
		circuit.Apply(U(theta, -math.Pi/2, math.Pi/2), 0),
	)
}

func RY(theta float64) *circuit.Gate {
	return composite("ry", 1, circuit.Reals(theta),
		circuit.Apply(U(theta, 0, 0), 0),
	)
}

// RZ is defined through P; the two differ only by a global phase.
func RZ(phi float64) *circuit.Gate {
	return composite("rz", 1, circuit.Reals(phi),
		circuit.Apply(P(phi), 0),
	)
}

// ID is the identity, kept as a zero-angle rotation so it still costs one.
func ID() *circuit.Gate {
	return composite("id", 1, nil, circuit.Apply(U(0, 0, 0), 0))
}

func H() *circuit.Gate {
	return composite("h", 1, nil, circuit.Apply(U2(0, math.Pi), 0))
}

func X() *circuit.Gate {
	return composite("x", 1, nil, circuit.Apply(U3(math.Pi, 0, math.Pi), 0))
}

func Y() *circuit.Gate {
	return composite("y", 1, nil, circuit.Apply(U3(math.Pi, math.Pi/2, math.Pi/2), 0))
}

func Z() *circuit.Gate {
	return composite("z", 1, nil, circuit.Apply(P(math.Pi), 0))
}

func S() *circuit.Gate {
	return composite("s", 1, nil, circuit.Apply(P(math.Pi/2), 0))
}

func Sdg() *circuit.Gate {
	return composite("sdg", 1, nil, circuit.Apply(P(-math.Pi/2), 0))
}

func T() *circuit.Gate {
	return composite("t", 1, nil, circuit.Apply(P(math.Pi/4), 0))
}

func Tdg() *circuit.Gate {
	return composite("tdg", 1, nil, circuit.Apply(P(-math.Pi/4), 0))
}

func SX() *circuit.Gate {
	return composite("sx", 1, nil,
		circuit.Apply(Sdg(), 0),
		circuit.Apply(H(), 0),
		circuit.Apply(Sdg(), 0),
	)
}

func CZ() *circuit.Gate {
	return composite("cz", 2, nil,
		circuit.Apply(H(), 1),
		circuit.Apply(CX(), 0, 1),
		circuit.Apply(H(), 1),
	)
}

func CY() *circuit.Gate {
	return composite("cy", 2, nil,
		circuit.Apply(Sdg(), 1),
		circuit.Apply(CX(), 0, 1),
		circuit.Apply(S(), 1),
	)
}

func CH() *circuit.Gate {
	return composite("ch", 2, nil,
		circuit.Apply(S(), 1),
		circuit.Apply(H(), 1),
		circuit.Apply(T(), 1),
		circuit.Apply(CX(), 0, 1),
		circuit.Apply(Tdg(), 1),
		circuit.Apply(H(), 1),
		circuit.Apply(Sdg(), 1),
	)
}

func Swap() *circuit.Gate {
	return composite("swap", 2, nil,
		circuit.Apply(CX(), 0, 1),
		circuit.Apply(CX(), 1, 0),
		circuit.Apply(CX(), 0, 1),
	)
}

// CCX is the Toffoli gate: six cx and nine single-qubit gates.
func CCX() *circuit.Gate {
	return composite("ccx", 3, nil,
		circuit.Apply(H(), 2),
		circuit.Apply(CX(), 1, 2),
		circuit.Apply(Tdg(), 2),
		circuit.Apply(CX(), 0, 2),
		circuit.Apply(T(), 2),
		circuit.Apply(CX(), 1, 2),
		circuit.Apply(Tdg(), 2),
		circuit.Apply(CX(), 0, 2),
		circuit.Apply(T(), 1),
		circuit.Apply(T(), 2),
		circuit.Apply(H(), 2),
		circuit.Apply(CX(), 0, 1),
		circuit.Apply(T(), 0),
		circuit.Apply(Tdg(), 1),
		circuit.Apply(CX(), 0, 1),
	)
}

func CSwap() *circuit.Gate {
	return composite("cswap", 3, nil,
		circuit.Apply(CX(), 2, 1),
		circuit.Apply(CCX(), 0, 1, 2),
		circuit.Apply(CX(), 2, 1),
	)
}

func composite(name string, numQubits int, params []circuit.Param, def ...circuit.Instruction) *circuit.Gate {
	return circuit.NewGate(name, numQubits, params...).WithDefinition(def...)
}
