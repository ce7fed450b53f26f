package mock

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
)

// TestScenarioAuthTokenLifecycle: the authorization URL carries the OAuth2
// code-flow parameters, and a tampered access token fails validation.
func TestScenarioAuthTokenLifecycle(t *testing.T) {
	ctx := context.Background()
	cf, _ := newTestFacades(t)
	auth, err := cf.Authentication()
	if err != nil {
		t.Fatalf("Authentication: %v", err)
	}

	if err := auth.Configure(ctx, api.AuthConfig{Issuer: "https://auth.example.invalid", ClientID: "client-1"}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	authURL, err := auth.GetAuthorizationURL(ctx, "https://app.example.invalid/callback", []string{"openid", "email"}, "s")
	if err != nil {
		t.Fatalf("GetAuthorizationURL: %v", err)
	}
	u, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("authorization url did not parse: %v", err)
	}
	q := u.Query()
	if q.Get("response_type") != "code" {
		t.Fatalf("response_type = %q, want code", q.Get("response_type"))
	}
	if q.Get("client_id") != "client-1" {
		t.Fatalf("client_id = %q, want client-1", q.Get("client_id"))
	}
	if q.Get("redirect_uri") != "https://app.example.invalid/callback" {
		t.Fatalf("redirect_uri = %q", q.Get("redirect_uri"))
	}
	if q.Get("scope") != "openid email" {
		t.Fatalf("scope = %q, want %q", q.Get("scope"), "openid email")
	}
	if q.Get("state") != "s" {
		t.Fatalf("state = %q, want s", q.Get("state"))
	}

	tokens, err := auth.ExchangeCodeForTokens(ctx, "authcode-1", "https://app.example.invalid/callback")
	if err != nil {
		t.Fatalf("ExchangeCodeForTokens: %v", err)
	}
	if tokens.AccessToken == "" {
		t.Fatal("expected a non-empty access token")
	}

	tampered := tokens.AccessToken + "tampered"
	_, err = auth.ValidateToken(ctx, tampered)
	if err == nil {
		t.Fatal("expected ValidateToken to reject a tampered access token")
	}
	var cerr *cperrors.Error
	if !errors.As(err, &cerr) || cerr.Kind != cperrors.Authentication {
		t.Fatalf("error kind = %v, want %v", err, cperrors.Authentication)
	}

	claims, err := auth.ValidateToken(ctx, tokens.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken on the untampered token: %v", err)
	}
	if claims.Subject == "" {
		t.Fatal("expected a non-empty subject on a valid token")
	}
}

// TestGetAuthorizationURLRequiresConfigure exercises the precondition the
// mock enforces: Configure must run before GetAuthorizationURL.
func TestGetAuthorizationURLRequiresConfigure(t *testing.T) {
	ctx := context.Background()
	cf, _ := newTestFacades(t)
	auth, _ := cf.Authentication()
	_, err := auth.GetAuthorizationURL(ctx, "https://app.example.invalid/cb", []string{"openid"}, "s")
	if err == nil {
		t.Fatal("expected an error when Configure was never called")
	}
	if !strings.Contains(err.Error(), "Configure") {
		t.Fatalf("error = %v, want it to mention Configure", err)
	}
}
