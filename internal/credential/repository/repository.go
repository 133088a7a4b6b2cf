package repository

import (
	"context"

	"execassist-backend/internal/credential/domain"
)

// CredentialRepository defines data access for stored token pairs
type CredentialRepository interface {
	// FindByAccountID returns the credential for the account, or nil
	// when none has been stored yet
	FindByAccountID(ctx context.Context, accountID string) (*domain.AccountCredential, error)

	// Upsert inserts the credential or updates the existing row
	Upsert(ctx context.Context, cred *domain.AccountCredential) error
}
