package ports

import (
	"context"

	"github.com/bloghub/blog-api/internal/core/domain"
)

// BlogRepository defines the persistence interface for blog posts.
type BlogRepository interface {
	Insert(ctx context.Context, blog *domain.Blog) (*domain.Blog, error)
	FindByID(ctx context.Context, id string) (*domain.Blog, error)
	// FindPublished returns all published posts, newest first.
	FindPublished(ctx context.Context) ([]domain.Blog, error)
	// FindByAuthor returns all posts by the given author, newest first,
	// regardless of published state.
	FindByAuthor(ctx context.Context, authorID string) ([]domain.Blog, error)
	Update(ctx context.Context, blog *domain.Blog) (*domain.Blog, error)
	Delete(ctx context.Context, id string) error
}
