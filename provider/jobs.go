package provider

import (
	"time"
)

// JobStatus is the remote status of a job.
type JobStatus string

const (
	JobStatusCreating   JobStatus = "CREATING"
	JobStatusCreated    JobStatus = "CREATED"
	JobStatusValidating JobStatus = "VALIDATING"
	JobStatusQueued     JobStatus = "QUEUED"
	JobStatusRunning    JobStatus = "RUNNING"
	JobStatusCompleted  JobStatus = "COMPLETED"
	JobStatusCancelled  JobStatus = "CANCELLED"
	JobStatusFailed     JobStatus = "ERROR_RUNNING_JOB"
	JobStatusInvalid    JobStatus = "ERROR_VALIDATING_JOB"
)

// Final reports whether the job can no longer change status.
func (s JobStatus) Final() bool {
	switch s {
	case JobStatusCompleted, JobStatusCancelled, JobStatusFailed, JobStatusInvalid:
		return true
	}
	return false
}

// JobRef is anything that names a job: an ID or a retrieved *Job.
type JobRef interface {
	JobID() string
}

// ID is a bare job id.
type ID string

// JobID implements JobRef.
func (id ID) JobID() string { return string(id) }

// JobBackend names the device a job ran on.
type JobBackend struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Job is a job record as returned by the service.
type Job struct {
	ID           string     `json:"id"`
	Name         string     `json:"name,omitempty"`
	Kind         string     `json:"kind"`
	Status       JobStatus  `json:"status"`
	Backend      JobBackend `json:"backend"`
	CreationDate time.Time  `json:"creationDate"`
	Tags         []string   `json:"tags,omitempty"`
	Shots        int        `json:"shots,omitempty"`
}

// JobID implements JobRef. A nil job has an empty ID.
func (j *Job) JobID() string {
	if j == nil {
		return ""
	}
	return j.ID
}

// Done reports whether the job completed successfully.
func (j *Job) Done() bool { return j != nil && j.Status == JobStatusCompleted }

type urlResponse struct {
	URL string `json:"url"`
}
