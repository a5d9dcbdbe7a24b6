package quantum

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/theapemachine/errnie"
)

// SimulatorConfig tunes the in-process backend.
type SimulatorConfig struct {
	// Workers is the number of goroutines executing programs. Zero workers is
	// allowed: jobs then stay in Waiting, which the polling tests rely on.
	Workers int
	// QueueDepth bounds how many jobs may wait for a worker.
	QueueDepth int
	// Latency is an artificial per-job execution delay.
	Latency time.Duration
}

func NewSimulatorConfig() *SimulatorConfig {
	return &SimulatorConfig{
		Workers:    2,
		QueueDepth: 32,
	}
}

type simJob struct {
	id      string
	program Program
	shots   int
}

type simRecord struct {
	status JobStatus
	raw    RawResult
	err    error
}

/*
Simulator is an in-process Backend executing search programs on a
statevector register. It queues submitted jobs, runs them on a fixed set of
workers and keeps per-job records with monotonic status transitions
(Waiting -> Executing -> Succeeded/Failed, or Waiting -> Cancelled), so it is
interchangeable with a remote service from the Client's point of view.
*/
type Simulator struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	jobs   chan simJob

	mu      sync.RWMutex
	records map[string]*simRecord

	config *SimulatorConfig
}

// NewSimulator starts a simulator backend. A nil config gets the defaults
// from NewSimulatorConfig.
func NewSimulator(ctx context.Context, config *SimulatorConfig) *Simulator {
	if config == nil {
		config = NewSimulatorConfig()
	}
	ctx, cancel := context.WithCancel(ctx)
	s := &Simulator{
		ctx:     ctx,
		cancel:  cancel,
		jobs:    make(chan simJob, config.QueueDepth),
		records: make(map[string]*simRecord),
		config:  config,
	}

	for i := 0; i < config.Workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runWorker()
		}()
	}

	errnie.Info(
		"NewSimulator - workers %d, queue depth %d",
		config.Workers,
		config.QueueDepth,
	)
	return s
}

func (s *Simulator) Name() string {
	return "local-simulator"
}

// BitOrder reports the simulator's measurement convention: outcome strings
// are little-endian, qubit 0 leftmost.
func (s *Simulator) BitOrder() BitOrder {
	return BitOrderLittleEndian
}

// Submit validates the program, records the job as Waiting and enqueues it.
func (s *Simulator) Submit(ctx context.Context, p Program, shots int) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if shots < 1 {
		return "", &DomainError{Reason: fmt.Sprintf("shot count must be at least 1, got %d", shots)}
	}
	if s.ctx.Err() != nil {
		return "", errors.New("simulator closed")
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.records[id] = &simRecord{status: JobWaiting}
	s.mu.Unlock()

	job := simJob{id: id, program: p, shots: shots}
	select {
	case s.jobs <- job:
		return id, nil
	case <-s.ctx.Done():
		s.dropRecord(id)
		return "", errors.New("simulator closed")
	case <-ctx.Done():
		s.dropRecord(id)
		return "", fmt.Errorf("queue full: %w", ctx.Err())
	}
}

// Status returns the job's current lifecycle state.
func (s *Simulator) Status(ctx context.Context, jobID string) (JobStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[jobID]
	if !ok {
		return "", fmt.Errorf("unknown job %s", jobID)
	}
	return rec.status, nil
}

// Result returns the job's payload once it is terminal. For a Failed or
// Cancelled job the error carries the failure detail.
func (s *Simulator) Result(ctx context.Context, jobID string) (RawResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[jobID]
	if !ok {
		return RawResult{}, fmt.Errorf("unknown job %s", jobID)
	}
	switch {
	case !rec.status.Terminal():
		return RawResult{}, fmt.Errorf("job %s still %s", jobID, rec.status)
	case rec.status == JobSucceeded:
		return rec.raw, nil
	case rec.err != nil:
		return RawResult{}, rec.err
	default:
		return RawResult{}, fmt.Errorf("job %s was %s", jobID, rec.status)
	}
}

// Cancel marks a job Cancelled if it has not started executing yet.
func (s *Simulator) Cancel(jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[jobID]
	if !ok {
		return fmt.Errorf("unknown job %s", jobID)
	}
	if rec.status != JobWaiting {
		return fmt.Errorf("job %s is %s, only waiting jobs can be cancelled", jobID, rec.status)
	}
	rec.status = JobCancelled
	rec.err = errors.New("cancelled by caller")
	return nil
}

// Close stops the workers and waits for in-flight jobs to settle. Records
// stay readable so terminal jobs can still be queried.
func (s *Simulator) Close() {
	log.Println("Closing simulator backend")
	s.cancel()
	s.wg.Wait()
}

func (s *Simulator) runWorker() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case job := <-s.jobs:
			if !s.advance(job.id, JobWaiting, JobExecuting) {
				// Cancelled while waiting.
				continue
			}
			if s.config.Latency > 0 {
				timer := time.NewTimer(s.config.Latency)
				select {
				case <-s.ctx.Done():
					timer.Stop()
					s.finish(job.id, RawResult{}, errors.New("simulator closed"))
					return
				case <-timer.C:
				}
			}
			raw, err := s.execute(job)
			s.finish(job.id, raw, err)
		}
	}
}

// execute runs the planned reflection rounds once, then samples the final
// distribution for every shot. Each outcome is a little-endian bit string for
// the single measurement register "b".
func (s *Simulator) execute(job simJob) (RawResult, error) {
	reg, err := evolve(job.program)
	if err != nil {
		return RawResult{}, err
	}

	outcomes := make([]string, job.shots)
	counts := make(map[string]int)
	for i := 0; i < job.shots; i++ {
		outcome := bitString(reg.Sample(), job.program.Qubits)
		outcomes[i] = outcome
		counts[outcome]++
	}

	return RawResult{
		Kind:     ResultTyped,
		Register: "b",
		Outcomes: outcomes,
		Counts:   counts,
	}, nil
}

// advance moves a job from one status to the next, refusing to touch a job
// that already left the expected state.
func (s *Simulator) advance(jobID string, from, to JobStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[jobID]
	if !ok || rec.status != from {
		return false
	}
	rec.status = to
	return true
}

func (s *Simulator) finish(jobID string, raw RawResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[jobID]
	if !ok || rec.status.Terminal() {
		return
	}
	if err != nil {
		rec.status = JobFailed
		rec.err = err
		log.Printf("Job %s failed: %v", jobID, err)
		return
	}
	rec.status = JobSucceeded
	rec.raw = raw
}

func (s *Simulator) dropRecord(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, jobID)
}
