// Package circuit models quantum circuits for grading purposes.
//
// A Circuit is an ordered list of Instructions. Each instruction applies an
// Operation, either a Gate or a directive (measure, barrier, reset, delay),
// to flat qubit and classical bit indices.
//
// Gates are classified explicitly through Classify into three kinds:
//
//   - KindSingleQubitPrimitive: u and u3
//   - KindTwoQubitPrimitive: cx
//   - KindComposite: everything else, expected to carry a Definition
//
// The classification table is closed. Adding a primitive means adding it to
// the table; an unknown gate never silently becomes primitive.
//
// Circuits can be built programmatically or decoded from the JSON File
// format, resolving gate names through a GateResolver such as the stdgates
// library.
package circuit
