package qobj

import (
	"encoding/json"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-qcgrader/circuit"
	"github.com/google/uuid"
)

const (
	// TypeQASM is the only document type produced by Assemble.
	TypeQASM = "QASM"
	// SchemaVersion is the Qobj schema version written to documents.
	SchemaVersion = "1.3.0"
	// DefaultShots is used when Config.Shots is zero.
	DefaultShots = 1024
)

// ErrNoCircuits is returned when Assemble is called without circuits.
var ErrNoCircuits = errors.New("no circuits to assemble")

// Config controls how circuits are assembled.
type Config struct {
	Shots      int
	Memory     bool
	InitQubits bool
	// QobjID is generated when empty.
	QobjID         string
	ParameterBinds []map[string]float64
}

// DefaultConfig returns the settings used when assembling for grading.
func DefaultConfig() Config {
	return Config{Shots: DefaultShots, InitQubits: true}
}

// Validate implements validation.Validatable.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Shots, validation.Required, validation.Min(1)),
		validation.Field(&c.QobjID, validation.When(c.QobjID != "", validation.Length(1, 128))),
	)
	if err != nil {
		return goerrors.FromOzzoValidation(err, "invalid assemble config")
	}
	return nil
}

// Qobj is a QASM job document.
type Qobj struct {
	QobjID        string         `json:"qobj_id"`
	Type          string         `json:"type"`
	SchemaVersion string         `json:"schema_version"`
	Header        map[string]any `json:"header"`
	Config        RunConfig      `json:"config"`
	Experiments   []Experiment   `json:"experiments"`
}

// RunConfig is the document level run configuration.
type RunConfig struct {
	Shots          int                  `json:"shots"`
	Memory         bool                 `json:"memory"`
	MemorySlots    int                  `json:"memory_slots"`
	NumQubits      int                  `json:"n_qubits"`
	InitQubits     bool                 `json:"init_qubits"`
	ParameterBinds []map[string]float64 `json:"parameter_binds"`
}

// Experiment is one assembled circuit.
type Experiment struct {
	Header       ExperimentHeader `json:"header"`
	Config       ExperimentConfig `json:"config"`
	Instructions []Instruction    `json:"instructions"`
}

// ExperimentConfig sizes a single experiment.
type ExperimentConfig struct {
	NumQubits   int `json:"n_qubits"`
	MemorySlots int `json:"memory_slots"`
}

// ExperimentHeader describes the circuit an experiment came from.
type ExperimentHeader struct {
	Name        string         `json:"name"`
	NumQubits   int            `json:"n_qubits"`
	MemorySlots int            `json:"memory_slots"`
	QubitLabels []Label        `json:"qubit_labels"`
	ClbitLabels []Label        `json:"clbit_labels"`
	QregSizes   []Label        `json:"qreg_sizes"`
	CregSizes   []Label        `json:"creg_sizes"`
	GlobalPhase float64        `json:"global_phase"`
	Metadata    map[string]any `json:"metadata"`
}

// Instruction is one flattened operation.
type Instruction struct {
	Name   string          `json:"name"`
	Qubits []int           `json:"qubits,omitempty"`
	Params []circuit.Param `json:"params,omitempty"`
	Memory []int           `json:"memory,omitempty"`
}

// Label pairs a register name with an index or a size. It is encoded as a
// two element array, e.g. ["q", 0].
type Label struct {
	Register string
	Value    int
}

func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{l.Register, l.Value})
}

func (l *Label) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("label must have 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &l.Register); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &l.Value)
}

// Assemble builds a Qobj with one experiment per circuit.
func Assemble(cfg Config, circuits ...*circuit.Circuit) (*Qobj, error) {
	if len(circuits) == 0 {
		return nil, goerrors.Wrap(ErrNoCircuits, goerrors.CategoryBadInput, "assemble")
	}
	if cfg.Shots == 0 {
		cfg.Shots = DefaultShots
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	id := cfg.QobjID
	if id == "" {
		id = uuid.NewString()
	}
	binds := cfg.ParameterBinds
	if binds == nil {
		binds = []map[string]float64{}
	}

	q := &Qobj{
		QobjID:        id,
		Type:          TypeQASM,
		SchemaVersion: SchemaVersion,
		Header:        map[string]any{},
		Config: RunConfig{
			Shots:          cfg.Shots,
			Memory:         cfg.Memory,
			InitQubits:     cfg.InitQubits,
			ParameterBinds: binds,
		},
		Experiments: make([]Experiment, 0, len(circuits)),
	}

	for i, c := range circuits {
		if c == nil {
			return nil, goerrors.New(fmt.Sprintf("circuit %d is nil", i), goerrors.CategoryBadInput)
		}
		exp := assembleExperiment(c)
		q.Config.NumQubits = max(q.Config.NumQubits, exp.Config.NumQubits)
		q.Config.MemorySlots = max(q.Config.MemorySlots, exp.Config.MemorySlots)
		q.Experiments = append(q.Experiments, exp)
	}
	return q, nil
}

func assembleExperiment(c *circuit.Circuit) Experiment {
	nq, nc := c.NumQubits(), c.NumClbits()

	header := ExperimentHeader{
		Name:        c.Name,
		NumQubits:   nq,
		MemorySlots: nc,
		QubitLabels: bitLabels(c.QRegs),
		ClbitLabels: bitLabels(c.CRegs),
		QregSizes:   sizeLabels(c.QRegs),
		CregSizes:   sizeLabels(c.CRegs),
		GlobalPhase: c.GlobalPhase,
		Metadata:    c.Metadata,
	}
	if header.Metadata == nil {
		header.Metadata = map[string]any{}
	}

	instructions := make([]Instruction, 0, len(c.Data))
	for _, ins := range c.Data {
		instructions = append(instructions, assembleInstruction(ins))
	}

	return Experiment{
		Header:       header,
		Config:       ExperimentConfig{NumQubits: nq, MemorySlots: nc},
		Instructions: instructions,
	}
}

func assembleInstruction(ins circuit.Instruction) Instruction {
	out := Instruction{
		Name:   ins.Op.Name(),
		Qubits: append([]int(nil), ins.Qubits...),
	}
	switch ins.Op.Type {
	case circuit.OpGate:
		if ins.Op.Gate != nil && len(ins.Op.Gate.Params) > 0 {
			out.Params = append([]circuit.Param(nil), ins.Op.Gate.Params...)
		}
	case circuit.OpMeasure:
		out.Memory = append([]int(nil), ins.Clbits...)
	case circuit.OpDelay:
		out.Params = []circuit.Param{circuit.Real(ins.Op.Duration)}
	}
	return out
}

func bitLabels(regs []circuit.Register) []Label {
	labels := []Label{}
	for _, r := range regs {
		for i := 0; i < r.Size; i++ {
			labels = append(labels, Label{Register: r.Name, Value: i})
		}
	}
	return labels
}

func sizeLabels(regs []circuit.Register) []Label {
	labels := make([]Label, 0, len(regs))
	for _, r := range regs {
		labels = append(labels, Label{Register: r.Name, Value: r.Size})
	}
	return labels
}
