// Package provider talks to the remote quantum service: it loads account
// credentials, logs in, and looks up jobs and their storage URLs within a
// hub/group/project scope.
//
// Credentials come from QCGRADER_* environment variables, optionally read from
// a .env file:
//
//	QCGRADER_TOKEN    API token (required)
//	QCGRADER_URL      authentication endpoint
//	QCGRADER_HUB      hub name, default ibm-q
//	QCGRADER_GROUP    group name, default open
//	QCGRADER_PROJECT  project name, default main
//	QCGRADER_TIMEOUT  HTTP timeout, default 30s
//
// GetProvider returns a process wide provider, creating it on first use.
// GetJob and GetJobURLs wrap it for callers that only care whether a value is
// available: they never return errors.
package provider
