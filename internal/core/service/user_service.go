package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/bloghub/blog-api/internal/core/domain"
	"github.com/bloghub/blog-api/internal/core/ports"
	"github.com/bloghub/blog-api/internal/pkg/password"
)

// UserService implements user management over the repository.
type UserService struct {
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) GetAll(ctx context.Context) ([]domain.PublicUser, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]domain.PublicUser, 0, len(users))
	for i := range users {
		list = append(list, users[i].Public())
	}
	return list, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*domain.PublicUser, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pub := user.Public()
	return &pub, nil
}

func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.PublicUser, error) {
	existing, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != "" && input.Email != existing.Email {
		if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
			return nil, domain.ErrEmailExists
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		existing.Email = input.Email
	}
	if input.Name != "" {
		existing.Name = input.Name
	}
	if input.Password != nil {
		hash, err := password.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		existing.PasswordHash = hash
	}
	existing.UpdatedAt = time.Now().UTC()

	updated, err := s.users.Update(ctx, existing)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Msg("user updated")
	pub := updated.Public()
	return &pub, nil
}

func (s *UserService) Delete(ctx context.Context, id string) (*domain.PublicUser, error) {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	pub := deleted.Public()
	return &pub, nil
}
