package qobj

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/cespare/xxhash/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-qcgrader/circuit"
	"github.com/vmihailenco/msgpack/v5"
)

// ToJSON encodes q. Complex parameters are written as [re, im].
func (q *Qobj) ToJSON() ([]byte, error) {
	data, err := json.Marshal(q)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "encode qobj as json")
	}
	return data, nil
}

// ToMsgpack encodes the ToDict form of q with msgpack.
func (q *Qobj) ToMsgpack() ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(q.ToDict()); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "encode qobj as msgpack")
	}
	return buf.Bytes(), nil
}

// FromMsgpack decodes a document written by ToMsgpack into its map form.
func FromMsgpack(data []byte) (map[string]any, error) {
	var out map[string]any
	if err := msgpack.Unmarshal(data, &out); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "decode qobj msgpack")
	}
	return out, nil
}

// ToDict returns q as nested maps and slices. Labels become two element
// slices and complex parameters become []float64{re, im}.
func (q *Qobj) ToDict() map[string]any {
	experiments := make([]any, 0, len(q.Experiments))
	for _, e := range q.Experiments {
		experiments = append(experiments, e.toDict())
	}

	binds := make([]any, 0, len(q.Config.ParameterBinds))
	for _, b := range q.Config.ParameterBinds {
		m := make(map[string]any, len(b))
		for k, v := range b {
			m[k] = v
		}
		binds = append(binds, m)
	}

	return map[string]any{
		"qobj_id":        q.QobjID,
		"type":           q.Type,
		"schema_version": q.SchemaVersion,
		"header":         copyMap(q.Header),
		"config": map[string]any{
			"shots":           q.Config.Shots,
			"memory":          q.Config.Memory,
			"memory_slots":    q.Config.MemorySlots,
			"n_qubits":        q.Config.NumQubits,
			"init_qubits":     q.Config.InitQubits,
			"parameter_binds": binds,
		},
		"experiments": experiments,
	}
}

func (e Experiment) toDict() map[string]any {
	instructions := make([]any, 0, len(e.Instructions))
	for _, ins := range e.Instructions {
		m := map[string]any{"name": ins.Name}
		if len(ins.Qubits) > 0 {
			m["qubits"] = ins.Qubits
		}
		if len(ins.Params) > 0 {
			m["params"] = paramValues(ins.Params)
		}
		if len(ins.Memory) > 0 {
			m["memory"] = ins.Memory
		}
		instructions = append(instructions, m)
	}

	h := e.Header
	return map[string]any{
		"header": map[string]any{
			"name":         h.Name,
			"n_qubits":     h.NumQubits,
			"memory_slots": h.MemorySlots,
			"qubit_labels": labelValues(h.QubitLabels),
			"clbit_labels": labelValues(h.ClbitLabels),
			"qreg_sizes":   labelValues(h.QregSizes),
			"creg_sizes":   labelValues(h.CregSizes),
			"global_phase": h.GlobalPhase,
			"metadata":     copyMap(h.Metadata),
		},
		"config": map[string]any{
			"n_qubits":     e.Config.NumQubits,
			"memory_slots": e.Config.MemorySlots,
		},
		"instructions": instructions,
	}
}

// Fingerprint hashes the JSON encoding of the experiments. The random qobj id
// and the run config are left out, so the same circuits always produce the
// same fingerprint.
func (q *Qobj) Fingerprint() (string, error) {
	data, err := json.Marshal(q.Experiments)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "fingerprint qobj")
	}
	return strconv.FormatUint(xxhash.Sum64(data), 16), nil
}

func paramValues(params []circuit.Param) []any {
	out := make([]any, len(params))
	for i, p := range params {
		if p.IsComplex() {
			c := p.Complex()
			out[i] = []float64{real(c), imag(c)}
			continue
		}
		out[i] = p.Float()
	}
	return out
}

func labelValues(labels []Label) []any {
	out := make([]any, len(labels))
	for i, l := range labels {
		out[i] = []any{l.Register, l.Value}
	}
	return out
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
