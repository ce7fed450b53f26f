package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
)

// fakeAPIError satisfies smithy.APIError without pulling in a live AWS
// call, so translate's table can be exercised directly.
type fakeAPIError struct {
	code string
}

func (e *fakeAPIError) Error() string                 { return e.code }
func (e *fakeAPIError) ErrorCode() string             { return e.code }
func (e *fakeAPIError) ErrorMessage() string          { return e.code }
func (e *fakeAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultUnknown }

var _ smithy.APIError = (*fakeAPIError)(nil)

// TestTranslateMapsEveryObservedCodeToExactlyOneKind checks the full code
// table: every provider error code translate knows about maps to exactly
// one taxonomy kind.
func TestTranslateMapsEveryObservedCodeToExactlyOneKind(t *testing.T) {
	cases := []struct {
		code string
		want cperrors.Kind
	}{
		{"NoSuchKey", cperrors.ResourceNotFound},
		{"NoSuchEntity", cperrors.ResourceNotFound},
		{"NoSuchBucket", cperrors.ResourceNotFound},
		{"ResourceNotFoundException", cperrors.ResourceNotFound},
		{"ResourceInUseException", cperrors.Conflict},
		{"AlreadyExistsException", cperrors.Conflict},
		{"AccessDeniedException", cperrors.Authentication},
		{"UnauthorizedException", cperrors.Authentication},
		{"ExpiredTokenException", cperrors.Authentication},
		{"ThrottlingException", cperrors.ServiceUnavailable},
		{"TooManyRequestsException", cperrors.ServiceUnavailable},
		{"ServiceUnavailableException", cperrors.ServiceUnavailable},
		{"InternalFailure", cperrors.ServiceUnavailable},
		{"ValidationException", cperrors.Validation},
		{"InvalidParameterException", cperrors.Validation},
		{"SomeBrandNewCodeNeverSeenBefore", cperrors.ServiceUnavailable},
	}
	for _, c := range cases {
		err := translate("TestService", &fakeAPIError{code: c.code})
		var cerr *cperrors.Error
		if !errors.As(err, &cerr) {
			t.Fatalf("translate(%q) did not produce a *cperrors.Error: %v", c.code, err)
		}
		if cerr.Kind != c.want {
			t.Fatalf("translate(%q).Kind = %v, want %v", c.code, cerr.Kind, c.want)
		}
	}
}

func TestTranslateMapsContextDeadlineToTimeout(t *testing.T) {
	err := translate("TestService", context.DeadlineExceeded)
	var cerr *cperrors.Error
	if !errors.As(err, &cerr) || cerr.Kind != cperrors.Timeout {
		t.Fatalf("translate(context.DeadlineExceeded) = %v, want Kind %v", err, cperrors.Timeout)
	}
}

func TestTranslateNilIsNil(t *testing.T) {
	if got := translate("TestService", nil); got != nil {
		t.Fatalf("translate(nil) = %v, want nil", got)
	}
}
