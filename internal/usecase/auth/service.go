// Package auth handles registration, login and token refresh.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	authpkg "github.com/kailas-cloud/caskbook/internal/auth"
	"github.com/kailas-cloud/caskbook/internal/domain"
	domuser "github.com/kailas-cloud/caskbook/internal/domain/user"
	"github.com/kailas-cloud/caskbook/internal/logger"
	"github.com/kailas-cloud/caskbook/internal/metrics"
)

// Tokens is the result of a successful authentication. RefreshToken is empty
// after a refresh.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int // seconds
	User         domuser.User
}

// Service handles account operations.
type Service struct {
	users     UserRepository
	tokens    TokenIssuer
	hasher    PasswordHasher
	accessTTL time.Duration
	now       func() time.Time
	newID     func() string
}

// New creates an auth service. accessTTL is reported to clients as expires_in.
func New(users UserRepository, tokens TokenIssuer, hasher PasswordHasher, accessTTL time.Duration) *Service {
	return &Service{
		users:     users,
		tokens:    tokens,
		hasher:    hasher,
		accessTTL: accessTTL,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// Register creates an account and signs the user in.
func (s *Service) Register(ctx context.Context, email, password string) (Tokens, error) {
	tokens, err := s.register(ctx, email, password)
	observe("register", err)
	return tokens, err
}

func (s *Service) register(ctx context.Context, email, password string) (Tokens, error) {
	email, err := domuser.NormalizeEmail(email)
	if err != nil {
		return Tokens{}, err
	}
	if err := domuser.ValidatePassword(password); err != nil {
		return Tokens{}, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return Tokens{}, err
	}

	now := s.now()
	u := domuser.User{ID: s.newID(), Email: email, PasswordHash: hash, CreatedAt: now, UpdatedAt: now}
	if err := s.users.Create(ctx, &u); err != nil {
		return Tokens{}, fmt.Errorf("create user: %w", err)
	}
	logger.FromContext(ctx).Info("User registered", zap.String("user_id", u.ID))
	return s.issue(&u)
}

// Login verifies credentials. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Tokens, error) {
	tokens, err := s.login(ctx, email, password)
	observe("login", err)
	return tokens, err
}

func (s *Service) login(ctx context.Context, email, password string) (Tokens, error) {
	email, err := domuser.NormalizeEmail(email)
	if err != nil {
		return Tokens{}, domain.ErrInvalidCredentials
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return Tokens{}, domain.ErrInvalidCredentials
		}
		return Tokens{}, fmt.Errorf("get user: %w", err)
	}
	ok, err := s.hasher.Verify(u.PasswordHash, password)
	if err != nil {
		return Tokens{}, err
	}
	if !ok {
		return Tokens{}, domain.ErrInvalidCredentials
	}
	return s.issue(&u)
}

// Refresh exchanges a refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	tokens, err := s.refresh(ctx, refreshToken)
	observe("refresh", err)
	return tokens, err
}

func (s *Service) refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	claims, err := s.tokens.Validate(refreshToken, authpkg.TokenRefresh)
	if err != nil {
		return Tokens{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	u, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return Tokens{}, fmt.Errorf("%w: user no longer exists", domain.ErrUnauthorized)
		}
		return Tokens{}, fmt.Errorf("get user: %w", err)
	}
	access, err := s.tokens.IssueAccess(u.ID, u.Email)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: access, ExpiresIn: int(s.accessTTL.Seconds()), User: u}, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	ok, err := s.hasher.Verify(u.PasswordHash, current)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewFieldError("current_password", "is incorrect")
	}
	if err := domuser.ValidatePassword(next); err != nil {
		var fe *domain.FieldError
		if errors.As(err, &fe) {
			return domain.NewFieldError("new_password", fe.Reason)
		}
		return err
	}
	if u.PasswordHash, err = s.hasher.Hash(next); err != nil {
		return err
	}
	u.UpdatedAt = s.now()
	if err := s.users.Update(ctx, &u); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// RequestPasswordReset always succeeds so callers cannot learn which emails are registered.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email, err := domuser.NormalizeEmail(email)
	if err != nil {
		return nil
	}
	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("get user: %w", err)
	}
	logger.FromContext(ctx).Info("Password reset requested", zap.String("user_id", u.ID))
	return nil
}

// Me returns the authenticated user.
func (s *Service) Me(ctx context.Context, userID string) (domuser.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domuser.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Service) issue(u *domuser.User) (Tokens, error) {
	access, err := s.tokens.IssueAccess(u.ID, u.Email)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := s.tokens.IssueRefresh(u.ID)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.accessTTL.Seconds()),
		User:         *u,
	}, nil
}

func observe(action string, err error) {
	result := "ok"
	if err != nil {
		result = "fail"
	}
	metrics.AuthAttemptsTotal.WithLabelValues(action, result).Inc()
}
