// Package retry implements the bounded retry loop shared by every adapter.
// The loop itself is k8s.io/apimachinery's wait.ExponentialBackoffWithContext
// driving a Policy-shaped wait.Backoff; this package adds the error
// classification (only retryable kinds re-enter the loop) and attaches the
// attempt count to the last error once attempts are exhausted.
package retry

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/stainedhead/lc-platform/pkg/cperrors"
	"k8s.io/apimachinery/pkg/util/wait"
)

// Policy configures the retry loop. Do replaces a Policy whose MaxAttempts
// is zero or negative, including the zero value, with DefaultPolicy().
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
	// Retryable classifies an error as retryable. Defaults to
	// cperrors.IsRetryable when nil.
	Retryable func(error) bool
}

// DefaultPolicy returns the package defaults: 3 attempts, 100ms base
// delay, 10s cap, jitter on.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Jitter:      true,
	}
}

func (p Policy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return cperrors.IsRetryable(err)
}

// backoff adapts Policy to wait.Backoff: the delay doubles each attempt
// from BaseDelay with the doubling progression capped at MaxDelay, and
// when Jitter is on each sleep is spread by wait's jitter factor so
// concurrent retries don't fire in lockstep.
func (p Policy) backoff() wait.Backoff {
	jitter := 0.0
	if p.Jitter {
		jitter = 1.0
	}
	return wait.Backoff{
		Steps:    p.MaxAttempts,
		Duration: p.BaseDelay,
		Factor:   2.0,
		Jitter:   jitter,
		Cap:      p.MaxDelay,
	}
}

// Do runs op under policy p. It returns op's result on the first success,
// or the last error observed once MaxAttempts is exhausted. A non-retryable
// error returns immediately after exactly one attempt. Context cancellation
// aborts before the next attempt rather than mid-flight.
func Do[T any](ctx context.Context, policy Policy, op func(ctx context.Context) (T, error)) (T, error) {
	p := policy
	if p.MaxAttempts <= 0 {
		p = DefaultPolicy()
	}

	var (
		result  T
		lastErr error
	)
	waitErr := wait.ExponentialBackoffWithContext(ctx, p.backoff(), func(ctx context.Context) (bool, error) {
		result, lastErr = op(ctx)
		if lastErr == nil {
			return true, nil
		}
		if !p.retryable(lastErr) {
			// Returning the error stops the loop after this one attempt.
			return false, lastErr
		}
		return false, nil
	})

	switch {
	case waitErr == nil:
		return result, nil
	case errors.Is(waitErr, context.Canceled) || errors.Is(waitErr, context.DeadlineExceeded):
		return result, cperrors.Wrap(cperrors.Timeout, waitErr, "retry loop cancelled before next attempt")
	case wait.Interrupted(waitErr):
		// MaxAttempts exhausted on a retryable error: surface the last
		// error, not wait's sentinel, with the attempt count attached.
		if cpErr, ok := lastErr.(*cperrors.Error); ok {
			return result, cpErr.WithContext(map[string]string{"attempts": strconv.Itoa(p.MaxAttempts)})
		}
		return result, lastErr
	default:
		// The non-retryable error the condition returned to stop the loop.
		return result, waitErr
	}
}

// DoVoid is Do for operations with no useful return value, for call sites
// that only care about the error.
func DoVoid(ctx context.Context, policy Policy, op func(ctx context.Context) error) error {
	_, err := Do(ctx, policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
