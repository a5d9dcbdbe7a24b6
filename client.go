package quantum

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/theapemachine/errnie"
)

// Client drives the lifecycle of jobs against one backend: submit once, poll
// until terminal, normalize the result. One Job is owned by one caller; the
// client itself is safe for concurrent use across jobs.
type Client struct {
	backend  Backend
	config   *Config
	strategy PollStrategy
	metrics  *Metrics
}

// ClientOption is a function type for configuring clients.
type ClientOption func(*Client)

// WithPollStrategy overrides the delay schedule between status polls.
func WithPollStrategy(strategy PollStrategy) ClientOption {
	return func(c *Client) {
		c.strategy = strategy
	}
}

// NewClient creates a lifecycle client for the given backend. A nil config
// gets the defaults from NewConfig.
func NewClient(backend Backend, config *Config, opts ...ClientOption) *Client {
	if config == nil {
		config = NewConfig()
	}
	c := &Client{
		backend: backend,
		config:  config,
		strategy: &ExponentialBackoff{
			Initial: config.PollInterval,
			Max:     config.MaxPollInterval,
		},
		metrics: NewMetrics(),
	}
	for _, opt := range opts {
		opt(c)
	}
	errnie.Info(
		"NewClient - backend %s, bit order %s",
		backend.Name(),
		backend.BitOrder(),
	)
	return c
}

// Metrics returns a snapshot of the client's counters.
func (c *Client) Metrics() MetricsSnapshot {
	return c.metrics.Snapshot()
}

/*
Submit enqueues a program on the backend and returns the job handle
immediately. Exactly one attempt is made: a rejected submission surfaces as a
SubmissionError and is never retried here, since resubmission may duplicate
billable work on the remote side.
*/
func (c *Client) Submit(ctx context.Context, p Program, shots int) (*Job, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if shots < 1 {
		return nil, &DomainError{Reason: fmt.Sprintf("shot count must be at least 1, got %d", shots)}
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.SubmitTimeout)
	defer cancel()

	id, err := c.backend.Submit(ctx, p, shots)
	if err != nil {
		c.metrics.recordSubmission(false)
		return nil, &SubmissionError{Backend: c.backend.Name(), Err: err}
	}
	c.metrics.recordSubmission(true)

	return &Job{
		ID:          id,
		Backend:     c.backend.Name(),
		SubmittedAt: time.Now(),
	}, nil
}

// Status fetches the job's current lifecycle state from the backend.
func (c *Client) Status(ctx context.Context, job *Job) (JobStatus, error) {
	return c.backend.Status(ctx, job.ID)
}

/*
BlockUntilResult polls the job at a bounded interval until it reaches a
terminal status, then returns the normalized ResultSet. The caller's context
carries the deadline: when it expires the call fails with a PollingTimeout and
the job is left untouched and still queryable. A job that terminates in
Failed or Cancelled surfaces as a BackendFailure carrying the backend's
error detail.
*/
func (c *Client) BlockUntilResult(ctx context.Context, job *Job) (*ResultSet, error) {
	start := time.Now()

	var status JobStatus
	for attempt := 1; ; attempt++ {
		var err error
		status, err = c.backend.Status(ctx, job.ID)
		c.metrics.recordPoll()
		if err != nil {
			if ctx.Err() != nil {
				return nil, &PollingTimeout{JobID: job.ID, Elapsed: time.Since(start), Err: ctx.Err()}
			}
			return nil, fmt.Errorf("poll job %s: %w", job.ID, err)
		}
		if status.Terminal() {
			break
		}

		delay := c.strategy.NextDelay(attempt)
		if delay < minPollInterval {
			delay = minPollInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, &PollingTimeout{JobID: job.ID, Elapsed: time.Since(start), Err: ctx.Err()}
		case <-timer.C:
		}
	}

	if status != JobSucceeded {
		detail := ""
		if _, err := c.backend.Result(ctx, job.ID); err != nil {
			detail = err.Error()
		}
		c.metrics.recordJobOutcome(start, false)
		log.Printf("Job %s reached terminal status %s", job.ID, status)
		return nil, &BackendFailure{JobID: job.ID, Status: status, Detail: detail}
	}

	raw, err := c.backend.Result(ctx, job.ID)
	if err != nil {
		c.metrics.recordJobOutcome(start, false)
		return nil, fmt.Errorf("fetch result for job %s: %w", job.ID, err)
	}
	rs, err := Normalize(raw, c.backend.BitOrder())
	if err != nil {
		c.metrics.recordJobOutcome(start, false)
		return nil, fmt.Errorf("normalize result for job %s: %w", job.ID, err)
	}
	c.metrics.recordJobOutcome(start, true)
	return rs, nil
}

// RunSynchronous is Submit followed by BlockUntilResult. Both paths return
// the same ResultSet shape.
func (c *Client) RunSynchronous(ctx context.Context, p Program, shots int) (*ResultSet, error) {
	job, err := c.Submit(ctx, p, shots)
	if err != nil {
		return nil, err
	}
	return c.BlockUntilResult(ctx, job)
}
