package validate

import (
	"fmt"
	"testing"

	"github.com/stainedhead/lc-platform/api"
)

func validDependency(n int) api.ApplicationDependency {
	return api.ApplicationDependency{
		ID:       fmt.Sprintf("dep-app-%d", n),
		Name:     fmt.Sprintf("dependency-%d", n),
		Type:     api.DepDatabase,
		Provider: api.DepProviderAWS,
		Region:   "us-east-1",
		Status:   api.DepPending,
		Created:  "2026-01-01T00:00:00Z",
		Updated:  "2026-01-01T00:00:00Z",
	}
}

func TestValidateAcceptsAConformingRecord(t *testing.T) {
	v := New()
	res := v.Validate(validDependency(1))
	if !res.OK {
		t.Fatalf("expected OK, got errors %+v", res.Errors)
	}
}

func TestValidateFlagsEachSchemaConstraintAtItsOwnPath(t *testing.T) {
	v := New()

	cases := []struct {
		name   string
		mutate func(d *api.ApplicationDependency)
		path   string
	}{
		{"bad id", func(d *api.ApplicationDependency) { d.ID = "invalid-id" }, "/id"},
		{"bad region", func(d *api.ApplicationDependency) { d.Region = "bad-region" }, "/region"},
		{"bad type", func(d *api.ApplicationDependency) { d.Type = "not-a-type" }, "/type"},
		{"bad provider", func(d *api.ApplicationDependency) { d.Provider = "not-a-provider" }, "/provider"},
		{"bad status", func(d *api.ApplicationDependency) { d.Status = "not-a-status" }, "/status"},
		{"missing name", func(d *api.ApplicationDependency) { d.Name = "" }, "/name"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d := validDependency(1)
			c.mutate(&d)
			res := v.Validate(d)
			if res.OK {
				t.Fatalf("expected a violation for %s", c.name)
			}
			found := false
			for _, fe := range res.Errors {
				if fe.Path == c.path {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected an error at path %s, got %+v", c.path, res.Errors)
			}
		})
	}
}

// TestValidateBatchFlagsExactlyTheBadRecord validates a 100-record batch
// where exactly one record, at a known index, has a bad id and bad region.
func TestValidateBatchFlagsExactlyTheBadRecord(t *testing.T) {
	v := New()
	const badIndex = 42
	records := make([]any, 100)
	for i := range records {
		d := validDependency(i)
		if i == badIndex {
			d.ID = "invalid-id"
			d.Region = "bad-region"
		}
		records[i] = d
	}

	res := v.ValidateBatch(records)
	if res.OK {
		t.Fatal("expected ValidateBatch to report a failure")
	}
	if len(res.Invalid) != 1 {
		t.Fatalf("len(Invalid) = %d, want 1", len(res.Invalid))
	}
	bad := res.Invalid[0]
	if bad.Index != badIndex {
		t.Fatalf("bad index = %d, want %d", bad.Index, badIndex)
	}
	var sawID, sawRegion bool
	for _, fe := range bad.Errors {
		if fe.Path == "/id" {
			sawID = true
		}
		if fe.Path == "/region" {
			sawRegion = true
		}
	}
	if !sawID || !sawRegion {
		t.Fatalf("expected errors at /id and /region, got %+v", bad.Errors)
	}
	if res.Summary.Total != 100 || res.Summary.Passed != 99 || res.Summary.Failed != 1 {
		t.Fatalf("summary = %+v, want {100, 99, 1}", res.Summary)
	}
	if res.Summary.Duration < 0 {
		t.Fatal("expected a populated, non-negative duration")
	}
}

func TestValidateBatchCallSucceedsEvenWithAllRecordsInvalid(t *testing.T) {
	v := New()
	records := []any{
		api.ApplicationDependency{}, // every required field missing
		api.ApplicationDependency{}, // every required field missing
	}
	res := v.ValidateBatch(records)
	// Partial success is reported structurally; the call itself succeeds
	// rather than returning a Go error.
	if len(res.Invalid) != 2 {
		t.Fatalf("len(Invalid) = %d, want 2", len(res.Invalid))
	}
}

func TestOptionalFieldsAcceptValidValuesAndRejectInvalidOnes(t *testing.T) {
	v := New()
	d := validDependency(1)
	version := "1.2.3"
	d.Version = &version
	env := "staging"
	d.Environment = &env
	if res := v.Validate(d); !res.OK {
		t.Fatalf("expected valid optional fields to pass, got %+v", res.Errors)
	}

	badVersion := "not-semver"
	d.Version = &badVersion
	if res := v.Validate(d); res.OK {
		t.Fatal("expected a bad semver to fail validation")
	}
}

func TestDecodeDependencyRejectsUnknownFields(t *testing.T) {
	good := `{"id":"dep-app-1","name":"n","type":"database","provider":"aws","region":"us-east-1","status":"pending","created":"2026-01-01T00:00:00Z","updated":"2026-01-01T00:00:00Z"}`
	if _, err := DecodeDependency([]byte(good)); err != nil {
		t.Fatalf("expected a conforming record to decode, got %v", err)
	}

	withExtra := `{"id":"dep-app-1","name":"n","type":"database","provider":"aws","region":"us-east-1","status":"pending","created":"2026-01-01T00:00:00Z","updated":"2026-01-01T00:00:00Z","bogus":"field"}`
	if _, err := DecodeDependency([]byte(withExtra)); err == nil {
		t.Fatal("expected an unknown field to be rejected")
	}
}
