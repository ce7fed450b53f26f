package runtime

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
)

// AuthClient validates tokens and inspects claims at request time.
// HasScope checks the space-separated scope claim; HasRole checks the
// provider-configured role claim (default "roles").
type AuthClient interface {
	ValidateToken(ctx context.Context, accessToken string) (api.TokenClaims, error)
	GetUserInfo(ctx context.Context, accessToken string) (api.UserInfo, error)
	HasScope(claims api.TokenClaims, scope string) bool
	HasRole(claims api.TokenClaims, role string) bool
}
