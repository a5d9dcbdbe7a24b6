package quantum

import "time"

// JobStatus is the lifecycle state a backend reports for a submitted job.
// Statuses move monotonically toward a terminal state.
type JobStatus string

const (
	JobWaiting   JobStatus = "waiting"
	JobExecuting JobStatus = "executing"
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Terminal reports whether the status can no longer change.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobSucceeded, JobFailed, JobCancelled:
		return true
	}
	return false
}

// Job is the caller-owned handle for a submitted program. It holds no live
// state of its own; status and results are always fetched from the backend,
// so a handle stays usable across polling timeouts.
type Job struct {
	ID          string
	Backend     string
	SubmittedAt time.Time
}
