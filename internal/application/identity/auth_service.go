package identity

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/domain/shared"
	"github.com/pharma/backend/internal/infrastructure/auth"
)

// AuthService handles login and token refresh
type AuthService struct {
	store      pharmacy.UserStore
	jwtService *auth.JWTService
}

// NewAuthService creates a new AuthService
func NewAuthService(store pharmacy.UserStore, jwtService *auth.JWTService) *AuthService {
	return &AuthService{store: store, jwtService: jwtService}
}

func invalidCredentials() error {
	return shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
}

// Login verifies the credentials and issues a token pair.
// Unknown usernames and wrong passwords produce the same error so the
// response does not leak which accounts exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*auth.TokenPair, *pharmacy.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND" {
			return nil, nil, invalidCredentials()
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, invalidCredentials()
	}

	pair, err := s.jwtService.GenerateTokenPair(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Refresh validates a refresh token and issues a fresh token pair.
// The user must still exist; tokens for deleted accounts are rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid or expired refresh token")
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid or expired refresh token")
	}

	return s.jwtService.GenerateTokenPair(user.ID, user.Username, string(user.Role))
}
