package quantum

import (
	"fmt"
	"time"
)

// DomainError reports an argument outside the valid domain, such as a
// register size below one or a marked index outside the search space.
type DomainError struct {
	Reason string
}

func (e *DomainError) Error() string {
	return "domain error: " + e.Reason
}

// SubmissionError reports that the backend rejected a program. Submission is
// attempted exactly once; a rejected program may be billable on the remote
// side, so the caller decides whether to resubmit.
type SubmissionError struct {
	Backend string
	Err     error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit to %s failed: %v", e.Backend, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// PollingTimeout reports that the caller's deadline expired before the job
// reached a terminal status. The job itself is unaffected and can be polled
// again with a fresh context.
type PollingTimeout struct {
	JobID   string
	Elapsed time.Duration
	Err     error
}

func (e *PollingTimeout) Error() string {
	return fmt.Sprintf("job %s not terminal after %v: %v", e.JobID, e.Elapsed, e.Err)
}

func (e *PollingTimeout) Unwrap() error {
	return e.Err
}

// BackendFailure reports that a job reached a terminal Failed or Cancelled
// status. Detail carries whatever the backend said about the failure.
type BackendFailure struct {
	JobID  string
	Status JobStatus
	Detail string
}

func (e *BackendFailure) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("job %s ended %s", e.JobID, e.Status)
	}
	return fmt.Sprintf("job %s ended %s: %s", e.JobID, e.Status, e.Detail)
}
