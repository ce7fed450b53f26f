package mock

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
)

// mockSigningKey signs the JWTs the mock issues. It never leaves this
// process and exists purely so ValidateToken can exercise real
// golang-jwt/jwt/v5 signature verification instead of trusting an opaque
// string, the same library AuthenticationService's real adapters use for
// ID-token verification.
var mockSigningKey = []byte("lc-platform-mock-signing-key")

// mockClaims is the JWT payload shape the mock issues and parses back.
type mockClaims struct {
	jwt.RegisteredClaims
	Email *string  `json:"email,omitempty"`
	Name  *string  `json:"name,omitempty"`
	Scope *string  `json:"scope,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

type authentication struct{ w *world }

var _ control.AuthenticationService = (*authentication)(nil)

func (s *authentication) Configure(ctx context.Context, cfg api.AuthConfig) error {
	s.w.authMu.Lock()
	defer s.w.authMu.Unlock()
	if cfg.RolesClaim == "" {
		cfg.RolesClaim = "roles"
	}
	s.w.authCfg = cfg
	return nil
}

func (s *authentication) GetAuthorizationURL(ctx context.Context, redirectURI string, scopes []string, state string) (string, error) {
	s.w.authMu.RLock()
	cfg := s.w.authCfg
	s.w.authMu.RUnlock()
	if cfg.Issuer == "" {
		return "", cperrors.ValidationError("authConfig", "AuthenticationService.Configure must be called before GetAuthorizationURL")
	}
	q := url.Values{}
	q.Set("client_id", cfg.ClientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("scope", strings.Join(scopes, " "))
	q.Set("state", state)
	q.Set("response_type", "code")
	return fmt.Sprintf("%s/authorize?%s", strings.TrimRight(cfg.Issuer, "/"), q.Encode()), nil
}

func (s *authentication) issueTokenSet(subject string, scope string, roles []string, email, name *string) (api.TokenSet, error) {
	s.w.authMu.RLock()
	cfg := s.w.authCfg
	s.w.authMu.RUnlock()
	now := s.w.now()
	claims := mockClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    cfg.Issuer,
			Audience:  jwt.ClaimStrings{cfg.ClientID},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email: email,
		Name:  name,
		Scope: &scope,
		Roles: roles,
	}
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	accessSigned, err := access.SignedString(mockSigningKey)
	if err != nil {
		return api.TokenSet{}, cperrors.Wrap(cperrors.Authentication, err, "failed to sign mock access token")
	}
	idClaims := claims
	idToken := jwt.NewWithClaims(jwt.SigningMethodHS256, idClaims)
	idSigned, err := idToken.SignedString(mockSigningKey)
	if err != nil {
		return api.TokenSet{}, cperrors.Wrap(cperrors.Authentication, err, "failed to sign mock ID token")
	}
	refreshToken := s.w.nextID("refresh-token")
	s.w.authMu.Lock()
	s.w.refreshTokens[refreshToken] = subject
	s.w.authMu.Unlock()
	return api.TokenSet{
		AccessToken:  accessSigned,
		IDToken:      idSigned,
		RefreshToken: refreshToken,
		ExpiresIn:    3600,
		TokenType:    "Bearer",
		Scope:        scope,
	}, nil
}

func (s *authentication) ExchangeCodeForTokens(ctx context.Context, code, redirectURI string) (api.TokenSet, error) {
	s.w.injectLatency()
	if code == "" {
		return api.TokenSet{}, cperrors.ValidationError("code", "authorization code must not be empty")
	}
	subject := "mock-user-" + code
	email := subject + "@example.invalid"
	name := "Mock User"
	return s.issueTokenSet(subject, "openid profile email", nil, &email, &name)
}

func (s *authentication) RefreshAccessToken(ctx context.Context, refreshToken string) (api.TokenSet, error) {
	s.w.injectLatency()
	s.w.authMu.RLock()
	subject, ok := s.w.refreshTokens[refreshToken]
	s.w.authMu.RUnlock()
	if !ok {
		return api.TokenSet{}, cperrors.AuthError("refresh token is unknown or has been revoked")
	}
	return s.issueTokenSet(subject, "openid profile email", nil, nil, nil)
}

func (w *world) parseToken(tokenString string) (api.TokenClaims, error) {
	w.authMu.RLock()
	revoked := w.revoked[tokenString]
	cfg := w.authCfg
	w.authMu.RUnlock()
	if revoked {
		return api.TokenClaims{}, cperrors.AuthError("token has been revoked")
	}
	var opts []jwt.ParserOption
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.ClientID != "" {
		opts = append(opts, jwt.WithAudience(cfg.ClientID))
	}
	var claims mockClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return mockSigningKey, nil
	}, opts...)
	if err != nil {
		return api.TokenClaims{}, cperrors.Wrap(cperrors.Authentication, err, "token failed signature, issuer, audience or expiry validation")
	}
	aud := ""
	if len(claims.Audience) > 0 {
		aud = claims.Audience[0]
	}
	var expiresAt, issuedAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}
	return api.TokenClaims{
		Subject:   claims.Subject,
		Issuer:    claims.Issuer,
		Audience:  aud,
		ExpiresAt: expiresAt,
		IssuedAt:  issuedAt,
		Email:     claims.Email,
		Name:      claims.Name,
		Scope:     claims.Scope,
		Roles:     claims.Roles,
	}, nil
}

func (s *authentication) ValidateToken(ctx context.Context, accessToken string) (api.TokenClaims, error) {
	s.w.injectLatency()
	return s.w.parseToken(accessToken)
}

func (s *authentication) VerifyIDToken(ctx context.Context, idToken string) (api.TokenClaims, error) {
	s.w.injectLatency()
	return s.w.parseToken(idToken)
}

func (s *authentication) GetUserInfo(ctx context.Context, accessToken string) (api.UserInfo, error) {
	claims, err := s.w.parseToken(accessToken)
	if err != nil {
		return api.UserInfo{}, err
	}
	return api.UserInfo{Subject: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}

func (s *authentication) RevokeToken(ctx context.Context, token string) error {
	s.w.authMu.Lock()
	defer s.w.authMu.Unlock()
	s.w.revoked[token] = true
	return nil
}
