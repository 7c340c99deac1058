package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/sharek-engine/internal/domain"
	"github.com/spec-kit/sharek-engine/internal/repository"
)

// AuthService coordinates signup, login and the session marker.
type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	logger   *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	SessionRepo repository.SessionRepository
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:    deps.UserRepo,
		sessions: deps.SessionRepo,
		logger:   logger,
	}
}

// RegisterUser creates an account and starts a session for it.
func (s *AuthService) RegisterUser(ctx context.Context, profile domain.UserProfile) (*domain.UserData, error) {
	switch {
	case strings.TrimSpace(profile.Name) == "":
		return nil, domain.NewValidationError("name", "required")
	case strings.TrimSpace(profile.Email) == "":
		return nil, domain.NewValidationError("email", "required")
	case !strings.Contains(profile.Email, "@"):
		return nil, domain.NewValidationError("email", "must be an email address")
	case profile.Password == "":
		return nil, domain.NewValidationError("password", "required")
	}

	exists, err := s.users.EmailExists(ctx, profile.Email)
	if err != nil {
		return nil, fmt.Errorf("auth.RegisterUser: %w", err)
	}
	if exists {
		return nil, domain.ErrAlreadyExists
	}

	user, err := s.users.CreateUser(ctx, profile)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.SetCurrentUser(ctx, user.Profile.Email); err != nil {
		return nil, fmt.Errorf("auth.RegisterUser: start session: %w", err)
	}
	return user, nil
}

// LoginUser validates credentials and records the session marker.
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*domain.UserData, error) {
	user, err := s.users.ValidateCredentials(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			s.logger.Info("login rejected", zap.String("email", email))
		}
		return nil, err
	}
	if err := s.sessions.SetCurrentUser(ctx, user.Profile.Email); err != nil {
		return nil, fmt.Errorf("auth.LoginUser: start session: %w", err)
	}
	return user, nil
}

// Logout clears the session marker.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.ClearCurrentUser(ctx)
}

// CurrentUser returns the record of the logged-in user, or ErrNotFound when
// there is no session. A marker pointing at a vanished record is cleared.
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.UserData, error) {
	email, found, err := s.sessions.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth.CurrentUser: %w", err)
	}
	if !found {
		return nil, domain.ErrNotFound
	}

	user, err := s.users.GetUser(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("session marker references missing user", zap.String("email", email))
		_ = s.sessions.ClearCurrentUser(ctx)
	}
	return user, err
}
