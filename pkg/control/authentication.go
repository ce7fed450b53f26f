package control

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
)

// AuthenticationService implements the OAuth2/OIDC authorization-code flow
// . Validation must verify signature, issuer, audience, and expiry;
// expired or tampered tokens return AuthenticationError.
type AuthenticationService interface {
	Configure(ctx context.Context, cfg api.AuthConfig) error

	GetAuthorizationURL(ctx context.Context, redirectURI string, scopes []string, state string) (string, error)
	ExchangeCodeForTokens(ctx context.Context, code, redirectURI string) (api.TokenSet, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (api.TokenSet, error)

	ValidateToken(ctx context.Context, accessToken string) (api.TokenClaims, error)
	VerifyIDToken(ctx context.Context, idToken string) (api.TokenClaims, error)
	GetUserInfo(ctx context.Context, accessToken string) (api.UserInfo, error)
	RevokeToken(ctx context.Context, token string) error
}
