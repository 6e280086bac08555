package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bloghub/blog-api/internal/core/domain"
	"github.com/bloghub/blog-api/internal/core/ports"
)

// BlogService implements blog post CRUD with author-ownership enforcement.
type BlogService struct {
	blogs  ports.BlogRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewBlogService(blogs ports.BlogRepository, users ports.UserRepository, logger zerolog.Logger) *BlogService {
	return &BlogService{blogs: blogs, users: users, logger: logger}
}

func (s *BlogService) Create(ctx context.Context, input ports.CreateBlogInput, authorID string) (*domain.BlogView, error) {
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	published := true
	if input.Published != nil {
		published = *input.Published
	}

	now := time.Now().UTC()
	blog := &domain.Blog{
		Title:     input.Title,
		Content:   input.Content,
		AuthorID:  authorID,
		Published: published,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.blogs.Insert(ctx, blog)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("blog_id", created.ID).Str("author_id", authorID).Msg("blog post created")
	view := view(created, author)
	return &view, nil
}

func (s *BlogService) GetAll(ctx context.Context) ([]domain.BlogView, error) {
	blogs, err := s.blogs.FindPublished(ctx)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, blogs)
}

func (s *BlogService) GetByID(ctx context.Context, id string) (*domain.BlogView, error) {
	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	author, err := s.users.FindByID(ctx, blog.AuthorID)
	if err != nil {
		return nil, err
	}
	v := view(blog, author)
	return &v, nil
}

func (s *BlogService) GetByAuthor(ctx context.Context, authorID string) ([]domain.BlogView, error) {
	blogs, err := s.blogs.FindByAuthor(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, blogs)
}

func (s *BlogService) Update(ctx context.Context, id string, input ports.UpdateBlogInput, userID string) (*domain.BlogView, error) {
	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if blog.AuthorID != userID {
		return nil, domain.ErrNotOwner
	}

	if input.Title != "" {
		blog.Title = input.Title
	}
	if input.Content != "" {
		blog.Content = input.Content
	}
	if input.Published != nil {
		blog.Published = *input.Published
	}
	blog.UpdatedAt = time.Now().UTC()

	updated, err := s.blogs.Update(ctx, blog)
	if err != nil {
		return nil, err
	}

	author, err := s.users.FindByID(ctx, updated.AuthorID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("blog_id", id).Msg("blog post updated")
	v := view(updated, author)
	return &v, nil
}

func (s *BlogService) Delete(ctx context.Context, id string, userID string) error {
	blog, err := s.blogs.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if blog.AuthorID != userID {
		return domain.ErrNotOwner
	}
	if err := s.blogs.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("blog_id", id).Msg("blog post deleted")
	return nil
}

// populate resolves author references, caching users so a page of posts by
// one author costs a single lookup.
func (s *BlogService) populate(ctx context.Context, blogs []domain.Blog) ([]domain.BlogView, error) {
	authors := make(map[string]*domain.User)
	views := make([]domain.BlogView, 0, len(blogs))
	for i := range blogs {
		author, ok := authors[blogs[i].AuthorID]
		if !ok {
			var err error
			author, err = s.users.FindByID(ctx, blogs[i].AuthorID)
			if err != nil {
				return nil, err
			}
			authors[blogs[i].AuthorID] = author
		}
		views = append(views, view(&blogs[i], author))
	}
	return views, nil
}

func view(blog *domain.Blog, author *domain.User) domain.BlogView {
	return domain.BlogView{
		ID:      blog.ID,
		Title:   blog.Title,
		Content: blog.Content,
		Author: domain.BlogAuthor{
			ID:    author.ID,
			Name:  author.Name,
			Email: author.Email,
		},
		Published: blog.Published,
		CreatedAt: blog.CreatedAt,
		UpdatedAt: blog.UpdatedAt,
	}
}
