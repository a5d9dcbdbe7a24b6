package quantum

import (
	"math"
	"time"
)

// PollStrategy defines the delay before the next status poll.
type PollStrategy interface {
	NextDelay(attempt int) time.Duration
}

// ExponentialBackoff implements PollStrategy, doubling the delay each attempt
// up to Max.
type ExponentialBackoff struct {
	Initial time.Duration
	Max     time.Duration
}

func (eb *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	delay := eb.Initial * time.Duration(math.Pow(2, float64(attempt-1)))
	if eb.Max > 0 && delay > eb.Max {
		delay = eb.Max
	}
	return delay
}

// FixedInterval implements PollStrategy with a constant delay.
type FixedInterval struct {
	Interval time.Duration
}

func (fi *FixedInterval) NextDelay(int) time.Duration {
	return fi.Interval
}
