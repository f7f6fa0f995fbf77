package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// Kind classifies a retryable failure. A different attempt may succeed for
// any of these; programming defects are deliberately not representable here
// and therefore never retried.
type Kind int

const (
	// KindNetwork covers connection-level failures talking to a backend.
	KindNetwork Kind = iota + 1
	// KindTimeout covers per-attempt deadline expiry.
	KindTimeout
	// KindParse covers malformed or schema-invalid generated output.
	KindParse
	// KindConsistency covers generated output that decodes but violates
	// cross-field rules (e.g. an approval carrying a critical issue).
	KindConsistency
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindParse:
		return "parse"
	case KindConsistency:
		return "consistency"
	default:
		return "unknown"
	}
}

// Error marks an underlying failure as retryable with its kind. It wraps the
// cause so errors.Is/As keep working through it.
type Error struct {
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string { return fmt.Sprintf("%s: %v", e.Kind, e.Err) }

// Unwrap exposes the wrapped cause.
func (e *Error) Unwrap() error { return e.Err }

// Wrap marks err as retryable with the given kind. Returns nil for a nil err.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// IsRetryable reports whether err is marked with a retryable kind.
func IsRetryable(err error) bool {
	var re *Error
	return errors.As(err, &re)
}

// KindOf returns the retryable kind of err, or 0 if it is not retryable.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return 0
}

// Policy controls attempt count and backoff shape. Policies are immutable
// values; share them freely across sessions.
type Policy struct {
	// MaxAttempts bounds the total number of attempts (not just retries).
	MaxAttempts int
	// BackoffBase is the exponent base of the delay curve.
	BackoffBase float64
	// BackoffUnit scales the curve; zero disables delays entirely, which is
	// what tests want.
	BackoffUnit time.Duration
	// MaxDelay caps a single delay.
	MaxDelay time.Duration
}

// DefaultPolicy mirrors the process-wide defaults: three attempts, base 2
// seconds-scale backoff capped at 30s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BackoffBase: 2.0,
		BackoffUnit: time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// Delay returns the backoff delay after the given zero-based attempt:
// min(base^attempt * unit, cap). The sequence is non-decreasing until capped.
func (p Policy) Delay(attempt int) time.Duration {
	if p.BackoffUnit <= 0 {
		return 0
	}
	d := time.Duration(math.Pow(p.BackoffBase, float64(attempt)) * float64(p.BackoffUnit))
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Do runs op up to p.MaxAttempts times, sleeping p.Delay(attempt) between
// attempts. Failures marked retryable (see Wrap) are retried; anything else
// propagates immediately without consuming remaining attempts. After the
// final failed attempt the last error is returned as-is; no fallback value
// is fabricated here. Context cancellation aborts both in-flight waits and
// pending backoff sleeps.
func Do[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		if !IsRetryable(err) {
			return zero, err
		}
		lastErr = err

		if attempt < attempts-1 {
			if delay := p.Delay(attempt); delay > 0 {
				select {
				case <-ctx.Done():
					return zero, ctx.Err()
				case <-time.After(delay):
				}
			}
		}
	}
	return zero, lastErr
}
