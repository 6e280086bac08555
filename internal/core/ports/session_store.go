package ports

import (
	"context"

	"github.com/bloghub/blog-api/internal/core/domain"
)

// SessionStore holds server-side sessions, the cookie-based alternative to
// bearer tokens.
type SessionStore interface {
	Save(ctx context.Context, sess domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
