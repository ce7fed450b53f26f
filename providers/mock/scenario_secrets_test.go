package mock

import (
	"context"
	"testing"
	"time"

	"github.com/stainedhead/lc-platform/api"
)

func strPtr(s string) *string { return &s }

// TestScenarioSecretRotationInvariant: updating a secret yields a strictly
// greater version and every subsequent read sees the new value.
func TestScenarioSecretRotationInvariant(t *testing.T) {
	ctx := context.Background()
	cf, rf := newTestFacades(t)
	secrets, err := cf.Secrets()
	if err != nil {
		t.Fatalf("Secrets: %v", err)
	}

	created, err := secrets.CreateSecret(ctx, "db-password", api.SecretValue{String: strPtr("p0")}, nil)
	if err != nil {
		t.Fatalf("CreateSecret: %v", err)
	}

	updated, err := secrets.UpdateSecret(ctx, "db-password", api.SecretValue{String: strPtr("p1")})
	if err != nil {
		t.Fatalf("UpdateSecret: %v", err)
	}
	if updated.Version <= created.Version {
		t.Fatalf("version = %q, want strictly greater than %q", updated.Version, created.Version)
	}

	val, err := secrets.GetSecretValue(ctx, "db-password")
	if err != nil {
		t.Fatalf("GetSecretValue: %v", err)
	}
	if val.String == nil || *val.String != "p1" {
		t.Fatalf("value = %v, want p1", val)
	}

	list, err := secrets.ListSecrets(ctx)
	if err != nil {
		t.Fatalf("ListSecrets: %v", err)
	}
	found := false
	for _, s := range list {
		if s.Name == "db-password" && s.Version == updated.Version {
			found = true
		}
	}
	if !found {
		t.Fatal("expected ListSecrets to reflect the rotated version")
	}

	// Runtime SecretsClient.Get caches; within TTL it must not go stale
	// once the provider's value has already changed before the first Get.
	client, err := rf.Secrets()
	if err != nil {
		t.Fatalf("Secrets client: %v", err)
	}
	got, err := client.Get(ctx, "db-password")
	if err != nil {
		t.Fatalf("client.Get: %v", err)
	}
	if got != "p1" {
		t.Fatalf("cached get = %q, want p1", got)
	}
}

// TestSecretsClientCacheSemantics: within TTL the
// provider is not re-fetched; after TTL it is, observed through the
// version visible to the control-plane side.
func TestSecretsClientCacheSemantics(t *testing.T) {
	ctx := context.Background()
	reg := newRegistryForCacheTest(t)
	cfg := testConfigWithShortCacheTTL()

	cf := newControlFacadeWith(t, reg, cfg)
	rf := newRuntimeFacadeWith(t, reg, cfg)

	secrets, _ := cf.Secrets()
	_, err := secrets.CreateSecret(ctx, "k", api.SecretValue{String: strPtr("v1")}, nil)
	if err != nil {
		t.Fatalf("CreateSecret: %v", err)
	}

	client, _ := rf.Secrets()
	first, err := client.Get(ctx, "k")
	if err != nil || first != "v1" {
		t.Fatalf("first Get = (%q, %v), want v1", first, err)
	}

	// Provider-side value changes without invalidating the client cache.
	_, err = secrets.UpdateSecret(ctx, "k", api.SecretValue{String: strPtr("v2")})
	if err != nil {
		t.Fatalf("UpdateSecret: %v", err)
	}

	withinTTL, err := client.Get(ctx, "k")
	if err != nil || withinTTL != "v1" {
		t.Fatalf("Get within TTL = (%q, %v), want cached v1", withinTTL, err)
	}

	time.Sleep(30 * time.Millisecond)
	afterTTL, err := client.Get(ctx, "k")
	if err != nil || afterTTL != "v2" {
		t.Fatalf("Get after TTL = (%q, %v), want fresh v2", afterTTL, err)
	}
}
