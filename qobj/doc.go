// Package qobj assembles circuits into QASM Qobj documents, the job payload
// format of the quantum service, and encodes them as JSON, msgpack or plain
// maps.
package qobj
