package quantum

import (
	"sync"
	"time"
)

// Metrics tracks what the client has done: submissions, polls and terminal
// outcomes. All counters are guarded by the mutex; readers take a Snapshot.
type Metrics struct {
	mu sync.RWMutex

	JobsSubmitted      int64
	SubmissionFailures int64
	JobsSucceeded      int64
	JobsFailed         int64
	PollCount          int64
	TotalWaitTime      time.Duration
}

// MetricsSnapshot is a plain copy of the counters at one point in time.
type MetricsSnapshot struct {
	JobsSubmitted      int64
	SubmissionFailures int64
	JobsSucceeded      int64
	JobsFailed         int64
	PollCount          int64
	TotalWaitTime      time.Duration
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) recordSubmission(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if success {
		m.JobsSubmitted++
	} else {
		m.SubmissionFailures++
	}
}

func (m *Metrics) recordPoll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PollCount++
}

func (m *Metrics) recordJobOutcome(startTime time.Time, success bool) {
	duration := time.Since(startTime)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.TotalWaitTime += duration
	if success {
		m.JobsSucceeded++
	} else {
		m.JobsFailed++
	}
}

// Snapshot returns a consistent copy of all counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return MetricsSnapshot{
		JobsSubmitted:      m.JobsSubmitted,
		SubmissionFailures: m.SubmissionFailures,
		JobsSucceeded:      m.JobsSucceeded,
		JobsFailed:         m.JobsFailed,
		PollCount:          m.PollCount,
		TotalWaitTime:      m.TotalWaitTime,
	}
}
