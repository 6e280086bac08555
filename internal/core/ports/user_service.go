package ports

import (
	"context"

	"github.com/bloghub/blog-api/internal/core/domain"
)

// UpdateUserInput carries the mutable user fields. A nil Password leaves
// the stored hash untouched.
type UpdateUserInput struct {
	Name     string
	Email    string
	Password *string
}

// UserService exposes the user management surface.
type UserService interface {
	GetAll(ctx context.Context) ([]domain.PublicUser, error)
	GetByID(ctx context.Context, id string) (*domain.PublicUser, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.PublicUser, error)
	Delete(ctx context.Context, id string) (*domain.PublicUser, error)
}
