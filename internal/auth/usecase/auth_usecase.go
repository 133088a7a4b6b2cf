package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	authdomain "execassist-backend/internal/auth/domain"
	authdto "execassist-backend/internal/auth/dto"
	"execassist-backend/internal/auth/repository"
	credusecase "execassist-backend/internal/credential/usecase"
	"execassist-backend/pkg/config"
	"execassist-backend/pkg/statestore"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// AuthUsecase resolves the caller's identity and runs the one-provider
// account-connect flow
type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	ValidateToken(tokenString string) (*authdomain.User, error)

	// GoogleAuthURL issues a consent URL with a single-use state marker
	GoogleAuthURL(ctx context.Context, userID string) (string, error)

	// HandleGoogleCallback consumes the marker, exchanges the code and
	// stores the resulting token pair for the marked user
	HandleGoogleCallback(ctx context.Context, state, code string) error
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo    repository.UserRepository
	states      *statestore.Store
	coordinator credusecase.TokenCoordinator
	oauth       *oauth2.Config
	config      *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, states *statestore.Store, coordinator credusecase.TokenCoordinator, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		states:      states,
		coordinator: coordinator,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Endpoint:     google.Endpoint,
			Scopes: []string{
				"https://www.googleapis.com/auth/gmail.modify",
				"https://www.googleapis.com/auth/calendar",
				"https://www.googleapis.com/auth/documents",
				"https://www.googleapis.com/auth/spreadsheets",
				"https://www.googleapis.com/auth/drive.readonly",
				"https://www.googleapis.com/auth/tasks",
				"email",
			},
		},
		config: cfg,
	}
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("invalid email or password")
	}
	if !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, errors.New("invalid email or password")
	}
	return u.tokenResponse(user)
}

func (u *authUsecase) Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	existing, err := u.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	teamID := req.TeamID
	if teamID == "" {
		teamID = uuid.New().String()
	}
	user := &authdomain.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
		TeamID:   teamID,
	}
	if err := u.userRepo.Create(user); err != nil {
		return nil, err
	}
	return u.tokenResponse(user)
}

func (u *authUsecase) GoogleAuthURL(ctx context.Context, userID string) (string, error) {
	state := uuid.New().String()
	if err := u.states.Put(ctx, state, userID); err != nil {
		return "", fmt.Errorf("store handshake marker: %w", err)
	}
	return u.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent")), nil
}

func (u *authUsecase) HandleGoogleCallback(ctx context.Context, state, code string) error {
	userID, ok, err := u.states.Consume(ctx, state)
	if err != nil {
		return fmt.Errorf("consume handshake marker: %w", err)
	}
	if !ok {
		return errors.New("unknown or already-used state")
	}

	token, err := u.oauth.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("code exchange failed: %w", err)
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("user not found")
	}

	return u.coordinator.SaveAuthorizedToken(ctx, user.ID, user.Email, token.AccessToken, token.RefreshToken)
}

func (u *authUsecase) tokenResponse(user *authdomain.User) (*authdto.TokenResponse, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"team_id": user.TeamID,
		"email":   user.Email,
		"exp":     time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(u.config.JWTSecret))
	if err != nil {
		return nil, err
	}
	return &authdto.TokenResponse{AccessToken: signed, User: user}, nil
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}
