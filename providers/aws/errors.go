package aws

import (
	"context"
	"errors"
	"strings"

	"github.com/aws/smithy-go"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
)

// translate maps an AWS SDK error into the shared cperrors taxonomy so no
// smithy/SDK type ever crosses a contract boundary. It is
// a single code table rather than one switch per call site.
func translate(service string, err error) error {
	if err == nil {
		return nil
	}
	// An error already in the taxonomy (an adapter's own validation or
	// not-found error) keeps its kind.
	var cerr *cperrors.Error
	if errors.As(err, &cerr) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return cperrors.Wrap(cperrors.Timeout, err, "%s call exceeded its deadline", service)
	}
	if errors.Is(err, context.Canceled) {
		return cperrors.Wrap(cperrors.Timeout, err, "%s call was cancelled", service)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		switch {
		case containsAny(code, "NotFound", "NoSuchKey", "NoSuchEntity", "NoSuchBucket"):
			return cperrors.Wrap(cperrors.ResourceNotFound, err, "%s: %s", service, code)
		case containsAny(code, "AlreadyExists", "Conflict", "ResourceInUse"):
			return cperrors.Wrap(cperrors.Conflict, err, "%s: %s", service, code)
		case containsAny(code, "AccessDenied", "UnauthorizedException", "NotAuthorized", "ExpiredToken", "InvalidSignature"):
			return cperrors.Wrap(cperrors.Authentication, err, "%s: %s", service, code)
		case containsAny(code, "Throttling", "TooManyRequests", "ServiceUnavailable", "RequestTimeout", "InternalServerError", "InternalFailure"):
			return cperrors.Wrap(cperrors.ServiceUnavailable, err, "%s: %s", service, code)
		case containsAny(code, "Validation", "InvalidParameter", "MalformedPolicy", "InvalidRequest"):
			return cperrors.Wrap(cperrors.Validation, err, "%s: %s", service, code)
		default:
			return cperrors.Wrap(cperrors.ServiceUnavailable, err, "%s: %s", service, code)
		}
	}

	return cperrors.Wrap(cperrors.ServiceUnavailable, err, "%s call failed", service)
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
