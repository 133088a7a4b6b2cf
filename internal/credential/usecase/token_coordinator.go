package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"execassist-backend/internal/credential/domain"
	"execassist-backend/internal/credential/repository"
	"execassist-backend/pkg/apperror"
	"execassist-backend/pkg/config"
	"execassist-backend/pkg/logger"
	"execassist-backend/pkg/metrics"

	"go.uber.org/zap"
)

// tokenCoordinator implements TokenCoordinator
type tokenCoordinator struct {
	credRepo     repository.CredentialRepository
	tokenURL     string
	clientID     string
	clientSecret string
	client       *http.Client

	// Per-account locks so two racing requests cannot both spend the
	// same refresh token at the provider.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTokenCoordinator creates a new instance of tokenCoordinator
func NewTokenCoordinator(credRepo repository.CredentialRepository, cfg *config.Config) TokenCoordinator {
	return &tokenCoordinator{
		credRepo:     credRepo,
		tokenURL:     cfg.GoogleTokenURL,
		clientID:     cfg.GoogleClientID,
		clientSecret: cfg.GoogleClientSecret,
		client:       &http.Client{Timeout: cfg.HTTPTimeout},
		locks:        map[string]*sync.Mutex{},
	}
}

func (c *tokenCoordinator) accountLock(accountID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[accountID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[accountID] = l
	}
	return l
}

func (c *tokenCoordinator) EnsureUsableToken(ctx context.Context, accountID string) (*domain.AccountCredential, string, error) {
	cred, err := c.credRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, "", fmt.Errorf("load credential: %w", err)
	}
	if cred.HasAccessToken() {
		return cred, *cred.AccessToken, nil
	}
	if !cred.HasRefreshToken() {
		return nil, "", apperror.ErrCredentialUnavailable
	}

	lock := c.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	// Another request may have refreshed while we waited for the lock.
	cred, err = c.credRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, "", fmt.Errorf("load credential: %w", err)
	}
	if cred.HasAccessToken() {
		return cred, *cred.AccessToken, nil
	}

	cred, err = c.exchangeAndPersist(ctx, cred)
	if err != nil {
		return nil, "", err
	}
	return cred, *cred.AccessToken, nil
}

func (c *tokenCoordinator) AccessToken(ctx context.Context, accountID string) (string, error) {
	_, token, err := c.EnsureUsableToken(ctx, accountID)
	return token, err
}

func (c *tokenCoordinator) RefreshAfterReject(ctx context.Context, accountID, rejected string) (string, error) {
	lock := c.accountLock(accountID)
	lock.Lock()
	defer lock.Unlock()

	cred, err := c.credRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	if cred == nil || !cred.HasRefreshToken() {
		return "", apperror.ErrCredentialUnavailable
	}

	// Someone else already replaced the rejected token.
	if cred.HasAccessToken() && *cred.AccessToken != rejected {
		return *cred.AccessToken, nil
	}

	cred, err = c.exchangeAndPersist(ctx, cred)
	if err != nil {
		return "", err
	}
	return *cred.AccessToken, nil
}

func (c *tokenCoordinator) SaveAuthorizedToken(ctx context.Context, accountID, email, accessToken, refreshToken string) error {
	cred, err := c.credRepo.FindByAccountID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}
	if cred == nil {
		cred = &domain.AccountCredential{AccountID: accountID}
	}
	cred.Email = email
	cred.AccessToken = &accessToken
	// Google omits the refresh token on re-consent; keep the stored one.
	if refreshToken != "" {
		cred.RefreshToken = &refreshToken
	}
	return c.credRepo.Upsert(ctx, cred)
}

// tokenEndpointResponse is the identity provider's token payload
type tokenEndpointResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// exchangeAndPersist spends the stored refresh token at the token
// endpoint and writes the result back. The caller holds the account lock.
func (c *tokenCoordinator) exchangeAndPersist(ctx context.Context, cred *domain.AccountCredential) (*domain.AccountCredential, error) {
	form := url.Values{}
	form.Set("refresh_token", *cred.RefreshToken)
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("token endpoint request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.TokenRefreshes.WithLabelValues("rejected").Inc()
		logger.L.Warn("token refresh rejected",
			zap.String("account_id", cred.AccountID),
			zap.Int("status", resp.StatusCode))
		return nil, &apperror.CredentialRefreshError{Status: resp.StatusCode, Body: string(body)}
	}

	var tr tokenEndpointResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		metrics.TokenRefreshes.WithLabelValues("bad_payload").Inc()
		return nil, fmt.Errorf("token endpoint returned malformed payload: %w", err)
	}
	if tr.AccessToken == "" {
		metrics.TokenRefreshes.WithLabelValues("bad_payload").Inc()
		return nil, &apperror.CredentialRefreshError{Status: resp.StatusCode, Body: "empty access_token in token response"}
	}

	cred.AccessToken = &tr.AccessToken
	// Providers may omit the refresh token, meaning "unchanged".
	if tr.RefreshToken != "" {
		cred.RefreshToken = &tr.RefreshToken
	}
	if err := c.credRepo.Upsert(ctx, cred); err != nil {
		return nil, fmt.Errorf("persist refreshed credential: %w", err)
	}

	metrics.TokenRefreshes.WithLabelValues("ok").Inc()
	logger.L.Info("access token refreshed", zap.String("account_id", cred.AccountID))
	return cred, nil
}
