// Package cperrors defines the error taxonomy shared by every control-plane
// service and data-plane client contract. Adapters must translate
// provider-specific errors into exactly one Kind from this package; a
// provider error leaking past an adapter boundary is a contract violation.
package cperrors

import (
	"errors"
	"fmt"
)

// Kind is the closed set of error categories that may cross a contract
// boundary.
type Kind string

const (
	Validation         Kind = "ValidationError"
	ResourceNotFound   Kind = "ResourceNotFoundError"
	Authentication     Kind = "AuthenticationError"
	ServiceUnavailable Kind = "ServiceUnavailableError"
	Timeout            Kind = "TimeoutError"
	Conflict           Kind = "ConflictError"
)

// Retryable reports whether errors of this Kind are safe to retry.
// ServiceUnavailableError and TimeoutError are the only retryable kinds;
// every other kind is deterministic and retrying it cannot change the
// outcome.
func (k Kind) Retryable() bool {
	switch k {
	case ServiceUnavailable, Timeout:
		return true
	default:
		return false
	}
}

// Error is the concrete error type implementations return. It carries
// enough context for callers to build a useful diagnostic without ever
// needing to inspect a provider SDK error directly.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	// Context holds well-known keys: "resource", "service", "attempt",
	// "requestId". Values are opaque strings.
	Context map[string]string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is allows errors.Is(err, cperrors.New(SomeKind, "")) style kind checks by
// comparing only the Kind field.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

func newErr(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// New builds a bare error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return newErr(kind, format, args...)
}

// Wrap builds an error of the given kind that preserves cause as the
// underlying %w-unwrappable error.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	e := newErr(kind, format, args...)
	e.Cause = cause
	return e
}

// WithContext returns a shallow copy of e with ctx merged into its Context
// map (ctx wins on key collision).
func (e *Error) WithContext(ctx map[string]string) *Error {
	merged := make(map[string]string, len(e.Context)+len(ctx))
	for k, v := range e.Context {
		merged[k] = v
	}
	for k, v := range ctx {
		merged[k] = v
	}
	cp := *e
	cp.Context = merged
	return &cp
}

func ValidationError(resource, format string, args ...any) *Error {
	e := newErr(Validation, format, args...)
	if resource != "" {
		e.Context = map[string]string{"resource": resource}
	}
	return e
}

func NotFound(resourceType, id string) *Error {
	return &Error{
		Kind:    ResourceNotFound,
		Message: fmt.Sprintf("%s %q not found", resourceType, id),
		Context: map[string]string{"resource": id, "service": resourceType},
	}
}

func AuthError(format string, args ...any) *Error {
	return newErr(Authentication, format, args...)
}

func Unavailable(service string, cause error, attempt int) *Error {
	e := Wrap(ServiceUnavailable, cause, "%s is temporarily unavailable", service)
	e.Context = map[string]string{"service": service, "attempt": fmt.Sprintf("%d", attempt)}
	return e
}

func TimeoutErr(operation string) *Error {
	return newErr(Timeout, "%s exceeded its deadline", operation)
}

func ConflictErr(resource, format string, args ...any) *Error {
	e := newErr(Conflict, format, args...)
	e.Context = map[string]string{"resource": resource}
	return e
}

// KindOf extracts the Kind of err, or "" if err is not (or does not wrap) an
// *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsRetryable reports whether err's Kind is retryable. Non-*Error values
// (programmer errors, context.Canceled, context.DeadlineExceeded) are never
// retried.
func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind.Retryable()
}
