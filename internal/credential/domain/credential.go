package domain

import "time"

// AccountCredential is the stored Google token pair for one local user.
// Mutated only by the token coordinator; rows are updated in place,
// never deleted. A nil RefreshToken means the credential cannot be
// repaired once the access token expires.
type AccountCredential struct {
	AccountID    string    `json:"account_id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"index"`
	AccessToken  *string   `json:"-" gorm:"size:4096"`
	RefreshToken *string   `json:"-" gorm:"size:4096"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasAccessToken reports whether a non-empty access token is stored.
func (c *AccountCredential) HasAccessToken() bool {
	return c != nil && c.AccessToken != nil && *c.AccessToken != ""
}

// HasRefreshToken reports whether a non-empty refresh token is stored.
func (c *AccountCredential) HasRefreshToken() bool {
	return c != nil && c.RefreshToken != nil && *c.RefreshToken != ""
}
