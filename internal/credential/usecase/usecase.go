package usecase

import (
	"context"

	"execassist-backend/internal/credential/domain"
)

// TokenCoordinator guarantees a currently-usable access token for an
// account. Expiry is discovered reactively (a surface returns 401), not
// predicted, so a stored access token is returned as-is.
type TokenCoordinator interface {
	// EnsureUsableToken returns the stored credential and an access
	// token, refreshing via the identity provider when only a refresh
	// token is on file
	EnsureUsableToken(ctx context.Context, accountID string) (*domain.AccountCredential, string, error)

	// AccessToken is EnsureUsableToken without the credential row
	AccessToken(ctx context.Context, accountID string) (string, error)

	// RefreshAfterReject exchanges the refresh token after a surface
	// rejected the given access token. Callers get either a token that
	// differs from the rejected one or a terminal error.
	RefreshAfterReject(ctx context.Context, accountID, rejected string) (string, error)

	// SaveAuthorizedToken persists the token pair obtained from the
	// initial authorization-code exchange
	SaveAuthorizedToken(ctx context.Context, accountID, email, accessToken, refreshToken string) error
}
