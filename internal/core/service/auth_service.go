package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bloghub/blog-api/internal/core/domain"
	"github.com/bloghub/blog-api/internal/core/ports"
	"github.com/bloghub/blog-api/internal/pkg/password"
	"github.com/bloghub/blog-api/internal/pkg/token"
)

// AuthService implements registration, login, logout and refresh on top of
// the user repository, the token codec and the session store.
type AuthService struct {
	users      ports.UserRepository
	sessions   ports.SessionStore
	codec      *token.Codec
	sessionTTL time.Duration
	logger     zerolog.Logger
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionStore, codec *token.Codec, sessionTTL time.Duration, logger zerolog.Logger) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		codec:      codec,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, pass, role string) (*ports.AuthResult, error) {
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := password.Hash(pass)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Insert(ctx, user)
	if err != nil {
		return nil, err
	}

	result, err := s.tokenPair(created)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user registered")
	return result, nil
}

// Login authenticates by email and password. An unknown email and a wrong
// password both return ErrInvalidCredentials so the two cases cannot be
// told apart from outside.
func (s *AuthService) Login(ctx context.Context, email, pass string) (*ports.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(pass, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.tokenPair(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return result, nil
}

func (s *AuthService) StartSession(ctx context.Context, user domain.PublicUser) (*domain.Session, error) {
	sess := domain.Session{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		Email:         user.Email,
		UserName:      user.Name,
		Role:          user.Role,
		Authenticated: true,
		ExpiresAt:     time.Now().UTC().Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		// Pure token mode: the client discards its tokens, nothing to do
		// server-side.
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info().Str("session_id", sessionID).Msg("session destroyed")
	return nil
}

// Refresh trusts a structurally valid, unexpired refresh token and mints a
// new access token from the current persisted user record, so a changed
// name, email or role is picked up and a deleted user is rejected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.RefreshResult, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	access, err := s.codec.IssueAccess(user)
	if err != nil {
		return nil, err
	}

	s.logger.Debug().Str("user_id", user.ID).Msg("access token refreshed")
	return &ports.RefreshResult{
		Token: access,
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

func (s *AuthService) tokenPair(user *domain.User) (*ports.AuthResult, error) {
	access, err := s.codec.IssueAccess(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.IssueRefresh(user)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{
		Token:        access,
		RefreshToken: refresh,
		User:         user.Public(),
	}, nil
}
