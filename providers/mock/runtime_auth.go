package mock

import (
	"context"
	"strings"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/runtime"
)

type authClient struct{ w *world }

var _ runtime.AuthClient = (*authClient)(nil)

func (c *authClient) ValidateToken(ctx context.Context, accessToken string) (api.TokenClaims, error) {
	c.w.injectLatency()
	return c.w.parseToken(accessToken)
}

func (c *authClient) GetUserInfo(ctx context.Context, accessToken string) (api.UserInfo, error) {
	claims, err := c.w.parseToken(accessToken)
	if err != nil {
		return api.UserInfo{}, err
	}
	return api.UserInfo{Subject: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}

func (c *authClient) HasScope(claims api.TokenClaims, scope string) bool {
	if claims.Scope == nil {
		return false
	}
	for _, s := range strings.Fields(*claims.Scope) {
		if s == scope {
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
