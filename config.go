package quantum

import "time"

// minPollInterval is the floor under any configured or computed poll delay,
// so a misconfigured client can never busy-loop against a backend.
const minPollInterval = 10 * time.Millisecond

type Config struct {
	// SubmitTimeout bounds the single submission attempt.
	SubmitTimeout time.Duration
	// PollInterval is the initial delay between status polls.
	PollInterval time.Duration
	// MaxPollInterval caps the delay as the backoff grows.
	MaxPollInterval time.Duration
}

func NewConfig() *Config {
	return &Config{
		SubmitTimeout:   10 * time.Second,
		PollInterval:    250 * time.Millisecond,
		MaxPollInterval: 5 * time.Second,
	}
}
