package mock

import (
	"bytes"
	"context"
	"crypto/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
)

// TestObjectStoreRoundTrip: for any payload up to 5 MiB, a Put followed by
// a Get returns the same bytes and etag.
func TestObjectStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	cf, _ := newTestFacades(t)
	objects, err := cf.ObjectStore()
	if err != nil {
		t.Fatalf("ObjectStore: %v", err)
	}
	if err := objects.CreateBucket(ctx, "rt-bucket", api.BucketOptions{}); err != nil {
		t.Fatalf("CreateBucket: %v", err)
	}

	for _, size := range []int{0, 1, 4096, 256 * 1024, 5 * 1024 * 1024} {
		payload := make([]byte, size)
		if _, err := rand.Read(payload); err != nil {
			t.Fatalf("rand.Read: %v", err)
		}
		put, err := objects.PutObject(ctx, "rt-bucket", "blob", payload, "application/octet-stream", nil)
		if err != nil {
			t.Fatalf("PutObject(size=%d): %v", size, err)
		}
		got, err := objects.GetObject(ctx, "rt-bucket", "blob")
		if err != nil {
			t.Fatalf("GetObject(size=%d): %v", size, err)
		}
		if !bytes.Equal(got.Data, payload) {
			t.Fatalf("round-tripped data (size=%d) does not match what was put", size)
		}
		if got.ETag != put.ETag {
			t.Fatalf("etag = %q, want %q (the one returned from Put)", got.ETag, put.ETag)
		}
	}
}

// TestIdempotentGet: calling a pure get… twice in
// a row, with no mutation between the calls, returns equal records.
func TestIdempotentGet(t *testing.T) {
	ctx := context.Background()
	cf, _ := newTestFacades(t)

	secrets, _ := cf.Secrets()
	if _, err := secrets.CreateSecret(ctx, "idempotent-secret", api.SecretValue{String: strPtr("v")}, nil); err != nil {
		t.Fatalf("CreateSecret: %v", err)
	}
	first, err := secrets.GetSecretValue(ctx, "idempotent-secret")
	if err != nil {
		t.Fatalf("GetSecretValue (1): %v", err)
	}
	second, err := secrets.GetSecretValue(ctx, "idempotent-secret")
	if err != nil {
		t.Fatalf("GetSecretValue (2): %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("GetSecretValue is not idempotent (-first +second):\n%s", diff)
	}

	web, _ := cf.WebHosting()
	dep, err := web.DeployApplication(ctx, control.DeployParams{Name: "idempotent-app", Image: "img:v1"})
	require.NoError(t, err, "DeployApplication")

	d1, err := web.GetDeployment(ctx, dep.ID)
	require.NoError(t, err, "GetDeployment (1)")
	d2, err := web.GetDeployment(ctx, dep.ID)
	require.NoError(t, err, "GetDeployment (2)")
	if diff := cmp.Diff(d1, d2); diff != "" {
		t.Fatalf("GetDeployment is not idempotent (-first +second):\n%s", diff)
	}
}
