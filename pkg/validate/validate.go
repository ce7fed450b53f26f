// Package validate implements the shape/pattern/enum validator used over
// typed configuration records and dependency descriptors. It is built on
// github.com/go-playground/validator/v10, validating `validate:"..."`
// struct tags against a typed Go record rather than interpreting an
// untyped JSON-Schema document.
package validate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	pv "github.com/go-playground/validator/v10"

	"github.com/stainedhead/lc-platform/api"
)

// FieldError describes exactly one failed constraint.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

// Result is the outcome of validating a single record.
type Result struct {
	OK     bool
	Errors []FieldError
}

// BatchInvalid pairs a batch index with the errors for that record.
type BatchInvalid struct {
	Index  int
	Errors []FieldError
}

// BatchSummary reports aggregate batch-validation statistics.
type BatchSummary struct {
	Total    int
	Passed   int
	Failed   int
	Duration time.Duration
}

// BatchResult is the outcome of validateBatch.
type BatchResult struct {
	OK        bool
	Validated []any
	Invalid   []BatchInvalid
	Summary   BatchSummary
}

// Validator validates typed records against rules registered once and
// reused for every call, matching validator.New()'s documented usage
// pattern (a single long-lived *pv.Validate with custom validations
// registered at construction, not per call).
type Validator struct {
	v *pv.Validate
}

// New builds a Validator with the default struct-tag rule set plus the
// domain-specific custom validators this library needs (region shape,
// dependency id shape, semver).
func New() *Validator {
	v := pv.New(pv.WithRequiredStructEnabled())
	registerCustomValidations(v)
	return &Validator{v: v}
}

// CreateCustom builds a Validator that additionally knows about the named
// validations in extra (tag name -> func), for callers that need rules
// beyond the built-in pattern/enum/shape set.
func (val *Validator) CreateCustom(extra map[string]pv.Func) *Validator {
	nv := pv.New(pv.WithRequiredStructEnabled())
	registerCustomValidations(nv)
	for tag, fn := range extra {
		_ = nv.RegisterValidation(tag, fn)
	}
	return &Validator{v: nv}
}

// Validate checks record (must be a struct or struct pointer) against its
// `validate:"..."` tags and returns a structured Result instead of an
// error, so a malformed record is reported rather than panicking a caller.
func (val *Validator) Validate(record any) Result {
	err := val.v.Struct(record)
	if err == nil {
		return Result{OK: true}
	}

	var verrs pv.ValidationErrors
	if !asValidationErrors(err, &verrs) {
		// A non-ValidationErrors error means the input itself was malformed
		// (e.g. not a struct); report it as a single root-level failure
		// rather than panicking or returning a bare error.
		return Result{Errors: []FieldError{{Path: "/", Message: err.Error()}}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldErrorFrom(fe))
	}
	return Result{Errors: out}
}

// ValidateBatch validates every record and reports a structural
// partial-success summary: the call itself always succeeds, callers
// inspect Invalid for per-record failures.
func (val *Validator) ValidateBatch(records []any) BatchResult {
	start := nowFunc()
	res := BatchResult{OK: true, Validated: make([]any, 0, len(records))}
	for i, r := range records {
		rr := val.Validate(r)
		if rr.OK {
			res.Validated = append(res.Validated, r)
			res.Summary.Passed++
			continue
		}
		res.OK = false
		res.Summary.Failed++
		res.Invalid = append(res.Invalid, BatchInvalid{Index: i, Errors: rr.Errors})
	}
	res.Summary.Total = len(records)
	res.Summary.Duration = sinceFunc(start)
	return res
}

// fieldErrorFrom turns a validator FieldError into a JSON pointer into the
// record plus a human-readable message. Namespace() already reports JSON
// field names here because registerCustomValidations installs a
// RegisterTagNameFunc that maps each field to its `json` tag.
func fieldErrorFrom(fe pv.FieldError) FieldError {
	path := "/" + strings.ReplaceAll(fe.Namespace()[strings.Index(fe.Namespace(), ".")+1:], ".", "/")
	return FieldError{
		Path:    path,
		Message: humanMessage(fe),
		Value:   fe.Value(),
	}
}

// humanMessage renders domain-oriented messages ("Must be one of:...",
// "Invalid format: does not match pattern...", "Missing required field:
// X") instead of validator's terse default strings.
func humanMessage(fe pv.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Missing required field: %s", field)
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be an ISO-8601 timestamp", field)
	case "depid", "depname", "depregion", "semver":
		return fmt.Sprintf("Invalid format: %s does not match pattern for %s", field, fe.Tag())
	default:
		return fmt.Sprintf("%s failed validation %q", field, fe.Tag())
	}
}

// DecodeDependency decodes raw JSON into an ApplicationDependency, rejecting
// any field not named in the struct's `json` tags before struct-tag
// validation ever runs. This is what enforces "no additional properties"
// on dependency records; Validate only checks the fields that exist.
func DecodeDependency(data []byte) (api.ApplicationDependency, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var d api.ApplicationDependency
	if err := dec.Decode(&d); err != nil {
		return api.ApplicationDependency{}, fmt.Errorf("decode dependency: %w", err)
	}
	return d, nil
}

func asValidationErrors(err error, out *pv.ValidationErrors) bool {
	if verrs, ok := err.(pv.ValidationErrors); ok {
		*out = verrs
		return true
	}
	return false
}

// nowFunc/sinceFunc are indirected so tests can keep the 100-record/<10ms
// regression target deterministic if needed; production code uses
// the real clock.
var nowFunc = time.Now
var sinceFunc = time.Since
