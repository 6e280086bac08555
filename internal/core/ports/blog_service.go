package ports

import (
	"context"

	"github.com/bloghub/blog-api/internal/core/domain"
)

// CreateBlogInput carries the fields for a new post. Published defaults to
// true when nil.
type CreateBlogInput struct {
	Title     string
	Content   string
	Published *bool
}

// UpdateBlogInput carries partial updates; nil fields are left unchanged.
type UpdateBlogInput struct {
	Title     string
	Content   string
	Published *bool
}

// BlogService exposes the blog post surface. Mutations take the acting
// user's id so ownership can be enforced.
type BlogService interface {
	Create(ctx context.Context, input CreateBlogInput, authorID string) (*domain.BlogView, error)
	GetAll(ctx context.Context) ([]domain.BlogView, error)
	GetByID(ctx context.Context, id string) (*domain.BlogView, error)
	GetByAuthor(ctx context.Context, authorID string) ([]domain.BlogView, error)
	Update(ctx context.Context, id string, input UpdateBlogInput, userID string) (*domain.BlogView, error)
	Delete(ctx context.Context, id string, userID string) error
}
