package cperrors

import (
	"errors"
	"testing"
)

func TestRetryableKinds(t *testing.T) {
	cases := []struct {
		kind      Kind
		retryable bool
	}{
		{Validation, false},
		{ResourceNotFound, false},
		{Authentication, false},
		{Conflict, false},
		{ServiceUnavailable, true},
		{Timeout, true},
	}
	for _, c := range cases {
		if got := c.kind.Retryable(); got != c.retryable {
			t.Errorf("%s.Retryable() = %v, want %v", c.kind, got, c.retryable)
		}
	}
}

func TestIsRetryableRejectsPlainErrors(t *testing.T) {
	if IsRetryable(errors.New("boom")) {
		t.Fatal("a plain error must never be retryable")
	}
	if IsRetryable(nil) {
		t.Fatal("nil must never be retryable")
	}
}

func TestNotFoundCarriesResourceTypeAndID(t *testing.T) {
	err := NotFound("Deployment", "dep-123")
	if KindOf(err) != ResourceNotFound {
		t.Fatalf("kind = %v, want ResourceNotFoundError", KindOf(err))
	}
	if err.Context["resource"] != "dep-123" || err.Context["service"] != "Deployment" {
		t.Fatalf("context = %+v, missing resource/service", err.Context)
	}
}

func TestWrapPreservesCauseForUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	wrapped := Wrap(ServiceUnavailable, cause, "upstream down")
	if !errors.Is(wrapped, cause) {
		t.Fatal("expected errors.Is to find the wrapped cause")
	}
}

func TestErrorIsComparesOnlyKind(t *testing.T) {
	a := ValidationError("x", "bad")
	b := ValidationError("y", "also bad")
	if !errors.Is(a, b) {
		t.Fatal("two ValidationErrors with different messages should still match by Kind")
	}
	c := NotFound("Thing", "id")
	if errors.Is(a, c) {
		t.Fatal("ValidationError must not match ResourceNotFoundError")
	}
}

func TestWithContextMergesWithoutMutatingOriginal(t *testing.T) {
	base := Unavailable("svc", errors.New("down"), 1)
	extended := base.WithContext(map[string]string{"requestId": "abc"})
	if base.Context["requestId"] != "" {
		t.Fatal("WithContext must not mutate the receiver")
	}
	if extended.Context["requestId"] != "abc" || extended.Context["service"] != "svc" {
		t.Fatalf("merged context = %+v", extended.Context)
	}
}
