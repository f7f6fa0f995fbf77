package orchestrator

import (
	"time"

	"github.com/hupe1980/gddforge/retry"
)

// Config holds the per-session tuning knobs. It is an immutable value
// constructed once at session start and passed by value; there is no hidden
// global state.
type Config struct {
	// MaxIterations bounds the review/revise loop. Even at 1 the controller
	// performs a full generate-review cycle; review is never skipped.
	MaxIterations int

	// ActorTemperature favors creativity, CriticTemperature consistency.
	ActorTemperature  float64
	CriticTemperature float64

	// MaxTokens is the Actor's generation budget; the Critic gets half.
	MaxTokens int64

	// Per-attempt timeouts for each role.
	ActorTimeout  time.Duration
	CriticTimeout time.Duration

	// Retry shape for both roles.
	MaxRetries  int
	BackoffBase float64
	// BackoffUnit scales backoff delays; tests set it to zero or
	// milliseconds to stay fast.
	BackoffUnit time.Duration
	// MaxBackoff caps a single backoff delay.
	MaxBackoff time.Duration
}

// DefaultConfig returns the process-wide defaults.
func DefaultConfig() Config {
	return Config{
		MaxIterations:     3,
		ActorTemperature:  0.6,
		CriticTemperature: 0.2,
		MaxTokens:         8192,
		ActorTimeout:      120 * time.Second,
		CriticTimeout:     60 * time.Second,
		MaxRetries:        3,
		BackoffBase:       2.0,
		BackoffUnit:       time.Second,
		MaxBackoff:        30 * time.Second,
	}
}

// retryPolicy maps the config onto the retry executor's policy.
func (c Config) retryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: c.MaxRetries,
		BackoffBase: c.BackoffBase,
		BackoffUnit: c.BackoffUnit,
		MaxDelay:    c.MaxBackoff,
	}
}
