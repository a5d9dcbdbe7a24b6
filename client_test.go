package quantum

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// stuckBackend accepts every submission and never lets the job leave Waiting.
type stuckBackend struct {
	mu      sync.Mutex
	submits int
	polls   int
}

func (b *stuckBackend) Name() string       { return "stuck" }
func (b *stuckBackend) BitOrder() BitOrder { return BitOrderAsReported }

func (b *stuckBackend) Submit(ctx context.Context, p Program, shots int) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submits++
	return "stuck-job", nil
}

func (b *stuckBackend) Status(ctx context.Context, jobID string) (JobStatus, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.polls++
	return JobWaiting, nil
}

func (b *stuckBackend) Result(ctx context.Context, jobID string) (RawResult, error) {
	return RawResult{}, errors.New("job not finished")
}

func (b *stuckBackend) pollCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.polls
}

// rejectingBackend refuses every submission.
type rejectingBackend struct {
	submits int
}

func (b *rejectingBackend) Name() string       { return "rejecting" }
func (b *rejectingBackend) BitOrder() BitOrder { return BitOrderAsReported }

func (b *rejectingBackend) Submit(ctx context.Context, p Program, shots int) (string, error) {
	b.submits++
	return "", errors.New("program rejected by scheduler")
}

func (b *rejectingBackend) Status(ctx context.Context, jobID string) (JobStatus, error) {
	return "", errors.New("unknown job")
}

func (b *rejectingBackend) Result(ctx context.Context, jobID string) (RawResult, error) {
	return RawResult{}, errors.New("unknown job")
}

// failingBackend accepts jobs and immediately reports them Failed.
type failingBackend struct{}

func (b *failingBackend) Name() string       { return "failing" }
func (b *failingBackend) BitOrder() BitOrder { return BitOrderAsReported }

func (b *failingBackend) Submit(ctx context.Context, p Program, shots int) (string, error) {
	return "failed-job", nil
}

func (b *failingBackend) Status(ctx context.Context, jobID string) (JobStatus, error) {
	return JobFailed, nil
}

func (b *failingBackend) Result(ctx context.Context, jobID string) (RawResult, error) {
	return RawResult{}, errors.New("decoherence detected on device")
}

func TestClientPollingTimeout(t *testing.T) {
	Convey("Given a backend whose jobs never terminate", t, func() {
		backend := &stuckBackend{}
		client := NewClient(backend, &Config{
			SubmitTimeout:   time.Second,
			PollInterval:    10 * time.Millisecond,
			MaxPollInterval: 10 * time.Millisecond,
		})

		program, _ := NewProgram(3, 6)
		job, err := client.Submit(context.Background(), program, 16)
		So(err, ShouldBeNil)

		Convey("Waiting past the deadline should raise a PollingTimeout", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
			defer cancel()

			_, err := client.BlockUntilResult(ctx, job)
			So(err, ShouldNotBeNil)

			var timeout *PollingTimeout
			So(errors.As(err, &timeout), ShouldBeTrue)
			So(timeout.JobID, ShouldEqual, job.ID)

			// Only that kind: not a backend failure or submission error.
			var failure *BackendFailure
			So(errors.As(err, &failure), ShouldBeFalse)

			Convey("And the job should remain queryable afterwards", func() {
				status, err := client.Status(context.Background(), job)
				So(err, ShouldBeNil)
				So(status, ShouldEqual, JobWaiting)
			})
		})

		Convey("Polling should honor the minimum interval", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			_, err := client.BlockUntilResult(ctx, job)
			So(err, ShouldNotBeNil)

			// With a 10ms floor a 100ms window allows roughly ten polls; a
			// busy loop would rack up thousands.
			So(backend.pollCount(), ShouldBeGreaterThan, 1)
			So(backend.pollCount(), ShouldBeLessThan, 20)
		})

		Convey("Cancelling the context should stop the wait", func() {
			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				time.Sleep(30 * time.Millisecond)
				cancel()
			}()

			_, err := client.BlockUntilResult(ctx, job)
			var timeout *PollingTimeout
			So(errors.As(err, &timeout), ShouldBeTrue)
		})
	})
}

func TestClientSubmission(t *testing.T) {
	Convey("Given a backend that rejects programs", t, func() {
		backend := &rejectingBackend{}
		client := NewClient(backend, nil)
		program, _ := NewProgram(3, 6)

		Convey("Submission should fail once and not be retried", func() {
			_, err := client.Submit(context.Background(), program, 16)

			var serr *SubmissionError
			So(errors.As(err, &serr), ShouldBeTrue)
			So(serr.Backend, ShouldEqual, "rejecting")
			So(backend.submits, ShouldEqual, 1)

			stats := client.Metrics()
			So(stats.SubmissionFailures, ShouldEqual, 1)
			So(stats.JobsSubmitted, ShouldEqual, 0)
		})
	})

	Convey("Given invalid search parameters", t, func() {
		client := NewClient(&stuckBackend{}, nil)

		Convey("The client should fail fast without touching the backend", func() {
			_, err := client.Submit(context.Background(), Program{Qubits: 0}, 16)
			var derr *DomainError
			So(errors.As(err, &derr), ShouldBeTrue)

			program, _ := NewProgram(3, 6)
			_, err = client.Submit(context.Background(), program, 0)
			So(errors.As(err, &derr), ShouldBeTrue)
		})
	})
}

func TestClientBackendFailure(t *testing.T) {
	Convey("Given a backend whose jobs fail", t, func() {
		client := NewClient(&failingBackend{}, &Config{
			SubmitTimeout:   time.Second,
			PollInterval:    10 * time.Millisecond,
			MaxPollInterval: 10 * time.Millisecond,
		})
		program, _ := NewProgram(3, 6)

		Convey("The wait should surface a BackendFailure with the detail", func() {
			_, err := client.RunSynchronous(context.Background(), program, 16)

			var failure *BackendFailure
			So(errors.As(err, &failure), ShouldBeTrue)
			So(failure.Status, ShouldEqual, JobFailed)
			So(failure.Detail, ShouldContainSubstring, "decoherence")

			stats := client.Metrics()
			So(stats.JobsFailed, ShouldEqual, 1)
		})
	})
}

func TestClientAgainstSimulator(t *testing.T) {
	Convey("Given a client on the simulator backend", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		sim := NewSimulator(ctx, nil)
		client := NewClient(sim, &Config{
			SubmitTimeout:   time.Second,
			PollInterval:    10 * time.Millisecond,
			MaxPollInterval: 50 * time.Millisecond,
		})

		Reset(func() {
			sim.Close()
			cancel()
		})

		program, _ := NewProgram(3, 6)

		Convey("The synchronous and asynchronous paths should return the same shape", func() {
			deadline, stop := context.WithTimeout(ctx, 5*time.Second)
			defer stop()

			direct, err := client.RunSynchronous(deadline, program, 128)
			So(err, ShouldBeNil)

			job, err := client.Submit(deadline, program, 128)
			So(err, ShouldBeNil)
			polled, err := client.BlockUntilResult(deadline, job)
			So(err, ShouldBeNil)

			So(direct.Register(), ShouldEqual, polled.Register())
			So(direct.Shots(), ShouldEqual, polled.Shots())
			So(direct.BitOrder(), ShouldEqual, polled.BitOrder())
			So(direct.Shots(), ShouldEqual, 128)
			So(direct.BitOrder(), ShouldEqual, BitOrderLittleEndian)
		})

		Convey("The search should find the marked state in most shots", func() {
			deadline, stop := context.WithTimeout(ctx, 5*time.Second)
			defer stop()

			result, err := client.RunSynchronous(deadline, program, 1000)
			So(err, ShouldBeNil)

			// Index 6 reads out little-endian as "011".
			top, count := result.TopOutcome()
			So(top, ShouldEqual, "011")
			So(count, ShouldBeGreaterThan, 900)
		})

		Convey("Client metrics should account for the run", func() {
			deadline, stop := context.WithTimeout(ctx, 5*time.Second)
			defer stop()

			_, err := client.RunSynchronous(deadline, program, 32)
			So(err, ShouldBeNil)

			stats := client.Metrics()
			So(stats.JobsSubmitted, ShouldEqual, 1)
			So(stats.JobsSucceeded, ShouldEqual, 1)
			So(stats.PollCount, ShouldBeGreaterThan, 0)
		})
	})
}
