package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"zoorequest/internal/caching"
	"zoorequest/internal/models"
	"zoorequest/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService covers registration, credential checks and the session token
// lifecycle. Tokens are opaque random values held server-side; revoking one
// takes effect immediately.
type AuthService interface {
	Register(ctx context.Context, username, password, email string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
	ResolveCaller(ctx context.Context, token string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, email, password *string) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
	sessions caching.SessionStore
}

func NewAuthService(userRepo repositories.UserRepository, sessions caching.SessionStore) AuthService {
	return &authService{userRepo: userRepo, sessions: sessions}
}

func (s *authService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", repositories.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
		Email:        email,
		Role:         models.RoleRequester,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, fmt.Errorf("%w: username already taken", repositories.ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

// Login verifies the credential and issues a session token. A missing user
// and a wrong password are reported identically.
func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", fmt.Errorf("%w: invalid credentials", repositories.ErrValidation)
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("%w: invalid credentials", repositories.ErrValidation)
	}

	token := uuid.NewString()
	if err := s.sessions.Set(ctx, token, user.Username); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ResolveCaller maps a session token to its user. A missing or unknown token
// yields caching.ErrSessionNotFound; the middleware treats that as an
// anonymous caller rather than a failure.
func (s *authService) ResolveCaller(ctx context.Context, token string) (*models.User, error) {
	username, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByUsername(ctx, username)
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, email, password *string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if email != nil {
		user.Email = *email
	}
	if password != nil {
		if *password == "" {
			return nil, fmt.Errorf("%w: password must not be empty", repositories.ErrValidation)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
