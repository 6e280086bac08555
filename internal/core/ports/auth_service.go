package ports

import (
	"context"

	"github.com/bloghub/blog-api/internal/core/domain"
)

// AuthResult is returned by Register and Login: a token pair plus the
// public view of the account.
type AuthResult struct {
	Token        string            `json:"token"`
	RefreshToken string            `json:"refreshToken"`
	User         domain.PublicUser `json:"user"`
}

// RefreshResult is returned by Refresh: a new access token minted from the
// current persisted user state.
type RefreshResult struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthService orchestrates registration, login, logout and token refresh.
type AuthService interface {
	Register(ctx context.Context, name, email, pass, role string) (*AuthResult, error)
	Login(ctx context.Context, email, pass string) (*AuthResult, error)
	// StartSession creates a server-side session for a logged-in user and
	// returns it so the transport layer can set the cookie.
	StartSession(ctx context.Context, user domain.PublicUser) (*domain.Session, error)
	// Logout destroys the session with the given id. An empty id is a
	// no-op: token-mode clients simply discard their tokens.
	Logout(ctx context.Context, sessionID string) error
	Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error)
}
