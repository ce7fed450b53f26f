package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stainedhead/lc-platform/pkg/cperrors"
)

func fastPolicy() Policy {
	p := DefaultPolicy()
	p.BaseDelay = time.Millisecond
	p.MaxDelay = 5 * time.Millisecond
	return p
}

func TestDoSucceedsWithoutRetryingOnFirstSuccess(t *testing.T) {
	attempts := 0
	_, err := Do(context.Background(), fastPolicy(), func(ctx context.Context) (string, error) {
		attempts++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
}

func TestDoRetriesRetryableErrorUntilMaxAttempts(t *testing.T) {
	attempts := 0
	p := fastPolicy()
	p.MaxAttempts = 3
	_, err := Do(context.Background(), p, func(ctx context.Context) (string, error) {
		attempts++
		return "", cperrors.Unavailable("svc", errors.New("down"), attempts)
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Fatalf("attempts = %d, want 3 (maxAttempts)", attempts)
	}
}

func TestDoMakesExactlyOneAttemptForNonRetryableError(t *testing.T) {
	attempts := 0
	_, err := Do(context.Background(), fastPolicy(), func(ctx context.Context) (string, error) {
		attempts++
		return "", cperrors.ValidationError("field", "bad value")
	})
	if err == nil {
		t.Fatal("expected validation error to surface")
	}
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1 for a non-retryable error", attempts)
	}
	if cperrors.KindOf(err) != cperrors.Validation {
		t.Fatalf("kind = %v, want ValidationError", cperrors.KindOf(err))
	}
}

func TestDoReturnsLastErrorNotFirst(t *testing.T) {
	attempts := 0
	p := fastPolicy()
	p.MaxAttempts = 3
	_, err := Do(context.Background(), p, func(ctx context.Context) (string, error) {
		attempts++
		return "", cperrors.Unavailable("svc", errors.New("attempt failure"), attempts)
	})
	var cpErr *cperrors.Error
	if !errors.As(err, &cpErr) {
		t.Fatalf("expected *cperrors.Error, got %T", err)
	}
	if cpErr.Context["attempts"] != "3" {
		t.Fatalf("attempts context = %q, want 3", cpErr.Context["attempts"])
	}
}

func TestDoAbortsBeforeNextAttemptOnCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := DefaultPolicy()
	p.BaseDelay = 50 * time.Millisecond
	p.MaxAttempts = 5

	attempts := 0
	cancel() // cancel up front: the very first attempt must see it before sleeping
	_, err := Do(ctx, p, func(ctx context.Context) (string, error) {
		attempts++
		return "", cperrors.Unavailable("svc", errors.New("down"), attempts)
	})
	if err == nil {
		t.Fatal("expected an error once the context is already cancelled")
	}
	if cperrors.KindOf(err) != cperrors.Timeout {
		t.Fatalf("kind = %v, want TimeoutError on cancellation", cperrors.KindOf(err))
	}
}

func TestBackoffStepNeverExceedsMaxDelay(t *testing.T) {
	p := Policy{MaxAttempts: 10, BaseDelay: time.Second, MaxDelay: 2 * time.Second, Jitter: false}
	b := p.backoff()
	for attempt := 1; attempt <= 10; attempt++ {
		if d := b.Step(); d > p.MaxDelay {
			t.Fatalf("step %d = %v, want <= %v", attempt, d, p.MaxDelay)
		}
	}
}
