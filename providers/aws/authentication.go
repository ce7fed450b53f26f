package aws

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
	"github.com/stainedhead/lc-platform/pkg/provider"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

const authServiceName = "cognito"

// authentication adapts control.AuthenticationService to Amazon Cognito's
// hosted-UI OAuth2/OIDC authorization-code flow plus
// aws-sdk-go-v2/service/cognitoidentityprovider for user-pool operations.
// Token verification uses golang-jwt/jwt/v5 against the user
// pool's published JWKS, the same library providers/mock/authentication.go
// uses to sign and parse its own tokens; JWKS retrieval and RSA key
// assembly use crypto/rsa and encoding/json directly.
type authentication struct {
	base
	client     *cognitoidentityprovider.Client
	httpClient *http.Client

	mu       sync.RWMutex
	cfg      api.AuthConfig
	domain   string
	userPool string

	jwksMu      sync.Mutex
	jwksKeys    map[string]*rsa.PublicKey
	jwksFetched time.Time
}

var _ control.AuthenticationService = (*authentication)(nil)

func newAuthentication(cfg provider.Config, shared *provider.Shared) (any, error) {
	awsCfg, err := loadConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	client := cognitoidentityprovider.NewFromConfig(awsCfg, func(o *cognitoidentityprovider.Options) {
		if ep := endpointOverride(cfg); ep != nil {
			o.BaseEndpoint = ep
		}
	})
	return &authentication{
		base:       newBase(cfg, shared),
		client:     client,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		domain:     cfg.Options.UserPoolDomain,
		userPool:   cfg.Options.UserPoolID,
	}, nil
}

func (s *authentication) Configure(ctx context.Context, cfg api.AuthConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cfg.RolesClaim == "" {
		cfg.RolesClaim = "cognito:groups"
	}
	s.cfg = cfg
	return nil
}

func (s *authentication) config() api.AuthConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *authentication) GetAuthorizationURL(ctx context.Context, redirectURI string, scopes []string, state string) (string, error) {
	cfg := s.config()
	if cfg.Issuer == "" && s.domain == "" {
		return "", cperrors.ValidationError("authConfig", "AuthenticationService.Configure must be called before GetAuthorizationURL")
	}
	domain := s.domain
	if domain == "" {
		domain = cfg.Issuer
	}
	q := url.Values{}
	clientID := cfg.ClientID
	q.Set("client_id", clientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("scope", strings.Join(scopes, " "))
	q.Set("state", state)
	q.Set("response_type", "code")
	return fmt.Sprintf("https://%s/oauth2/authorize?%s", strings.TrimRight(domain, "/"), q.Encode()), nil
}

func (s *authentication) tokenEndpoint() string {
	return fmt.Sprintf("https://%s/oauth2/token", strings.TrimRight(s.domain, "/"))
}

func (s *authentication) postToken(ctx context.Context, form url.Values) (api.TokenSet, error) {
	cfg := s.config()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenEndpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return api.TokenSet{}, cperrors.Wrap(cperrors.ServiceUnavailable, err, "failed to build token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cfg.ClientSecret != "" {
		req.SetBasicAuth(cfg.ClientID, cfg.ClientSecret)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return api.TokenSet{}, cperrors.Wrap(cperrors.ServiceUnavailable, err, "cognito token endpoint unreachable")
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return api.TokenSet{}, cperrors.AuthError("cognito rejected the token request: %s", string(body))
	}
	if resp.StatusCode >= 500 {
		return api.TokenSet{}, cperrors.New(cperrors.ServiceUnavailable, "cognito token endpoint returned %d", resp.StatusCode)
	}
	var payload struct {
		AccessToken  string `json:"access_token"`
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
		TokenType    string `json:"token_type"`
		Scope        string `json:"scope"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return api.TokenSet{}, cperrors.Wrap(cperrors.ServiceUnavailable, err, "cognito token response was not valid JSON")
	}
	return api.TokenSet{
		AccessToken:  payload.AccessToken,
		IDToken:      payload.IDToken,
		RefreshToken: payload.RefreshToken,
		ExpiresIn:    payload.ExpiresIn,
		TokenType:    payload.TokenType,
		Scope:        payload.Scope,
	}, nil
}

func (s *authentication) ExchangeCodeForTokens(ctx context.Context, code, redirectURI string) (api.TokenSet, error) {
	if code == "" {
		return api.TokenSet{}, cperrors.ValidationError("code", "authorization code must not be empty")
	}
	cfg := s.config()
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", cfg.ClientID)
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	return s.postToken(ctx, form)
}

func (s *authentication) RefreshAccessToken(ctx context.Context, refreshToken string) (api.TokenSet, error) {
	cfg := s.config()
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", cfg.ClientID)
	form.Set("refresh_token", refreshToken)
	ts, err := s.postToken(ctx, form)
	if err != nil {
		return api.TokenSet{}, err
	}
	if ts.RefreshToken == "" {
		ts.RefreshToken = refreshToken
	}
	return ts, nil
}

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwkSet struct {
	Keys []jwk `json:"keys"`
}

func (s *authentication) jwksURL() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s/.well-known/jwks.json", s.base.cfg.Region, s.userPool)
}

// fetchJWKS refreshes the user pool's signing keys at most once every ten
// minutes; token validation is on the hot request path so a bare "fetch
// every call" policy would mean an HTTP round trip per token.
func (s *authentication) fetchJWKS(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	s.jwksMu.Lock()
	defer s.jwksMu.Unlock()
	if s.jwksKeys != nil && time.Since(s.jwksFetched) < 10*time.Minute {
		return s.jwksKeys, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.jwksURL(), nil)
	if err != nil {
		return nil, cperrors.Wrap(cperrors.ServiceUnavailable, err, "failed to build JWKS request")
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, cperrors.Wrap(cperrors.ServiceUnavailable, err, "failed to fetch user pool JWKS")
	}
	defer resp.Body.Close()
	var set jwkSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, cperrors.Wrap(cperrors.ServiceUnavailable, err, "JWKS response was not valid JSON")
	}
	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		pub, err := jwkToRSAPublicKey(k)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	s.jwksKeys = keys
	s.jwksFetched = time.Now()
	return keys, nil
}

func jwkToRSAPublicKey(k jwk) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}
	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes)
	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}

type cognitoClaims struct {
	jwt.RegisteredClaims
	Email         *string  `json:"email,omitempty"`
	Name          *string  `json:"name,omitempty"`
	Scope         *string  `json:"scope,omitempty"`
	CognitoGroups []string `json:"cognito:groups,omitempty"`
}

func (s *authentication) parseToken(ctx context.Context, tokenString string) (api.TokenClaims, error) {
	var claims cognitoClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != "RS256" {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		kid, _ := t.Header["kid"].(string)
		keys, err := s.fetchJWKS(ctx)
		if err != nil {
			return nil, err
		}
		key, ok := keys[kid]
		if !ok {
			return nil, fmt.Errorf("unknown signing key %q", kid)
		}
		return key, nil
	})
	if err != nil {
		return api.TokenClaims{}, cperrors.Wrap(cperrors.Authentication, err, "token failed signature or expiry validation")
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
		Roles:     claims.CognitoGroups,
	}, nil
}

func (s *authentication) ValidateToken(ctx context.Context, accessToken string) (api.TokenClaims, error) {
	return s.parseToken(ctx, accessToken)
}

func (s *authentication) VerifyIDToken(ctx context.Context, idToken string) (api.TokenClaims, error) {
	return s.parseToken(ctx, idToken)
}

func (s *authentication) GetUserInfo(ctx context.Context, accessToken string) (api.UserInfo, error) {
	return do(ctx, s.base, authServiceName, func(ctx context.Context) (api.UserInfo, error) {
		out, err := s.client.GetUser(ctx, &cognitoidentityprovider.GetUserInput{AccessToken: aws.String(accessToken)})
		if err != nil {
			return api.UserInfo{}, err
		}
		info := api.UserInfo{Subject: aws.ToString(out.Username)}
		for _, a := range out.UserAttributes {
			switch aws.ToString(a.Name) {
			case "email":
				v := aws.ToString(a.Value)
				info.Email = &v
			case "name":
				v := aws.ToString(a.Value)
				info.Name = &v
			}
		}
		return info, nil
	})
}

func (s *authentication) RevokeToken(ctx context.Context, token string) error {
	_, err := do(ctx, s.base, authServiceName, func(ctx context.Context) (struct{}, error) {
		cfg := s.config()
		in := &cognitoidentityprovider.RevokeTokenInput{Token: aws.String(token), ClientId: aws.String(cfg.ClientID)}
		if cfg.ClientSecret != "" {
			in.ClientSecret = aws.String(cfg.ClientSecret)
		}
		_, err := s.client.RevokeToken(ctx, in)
		return struct{}{}, err
	})
	return err
}

// authClient is the runtime.AuthClient data path: it verifies tokens and
// inspects claims without needing a user-pool write path.
type authClient struct {
	*authentication
}

var _ runtime.AuthClient = (*authClient)(nil)

func newAuthClient(cfg provider.Config, shared *provider.Shared) (any, error) {
	a, err := newAuthentication(cfg, shared)
	if err != nil {
		return nil, err
	}
	return &authClient{authentication: a.(*authentication)}, nil
}

func (c *authClient) HasScope(claims api.TokenClaims, scope string) bool {
	if claims.Scope == nil {
		return false
	}
	for _, sc := range strings.Fields(*claims.Scope) {
		if sc == scope {
			return true
		}
	}
	return false
}

func (c *authClient) HasRole(claims api.TokenClaims, role string) bool {
	for _, r := range claims.Roles {
		if r == role {
			return true
		}
	}
	return false
}
