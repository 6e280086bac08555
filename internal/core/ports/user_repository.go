package ports

import (
	"context"

	"github.com/bloghub/blog-api/internal/core/domain"
)

// UserRepository defines the persistence interface for user accounts.
// Implementations must enforce email uniqueness on insert.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, id string) (*domain.User, error)
}
