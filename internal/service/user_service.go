package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	dom "github.com/joaommmadureira/challenges-ignite/internal/domain"
	"github.com/joaommmadureira/challenges-ignite/internal/repo"
)

// UserService registers users and resolves them by username.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// Create registers a user with an empty todo list. Usernames are matched
// exactly; a taken one yields ErrUserExists.
func (s *UserService) Create(ctx context.Context, name, username string) (dom.User, error) {
	u, err := s.repo.Create(ctx, dom.User{
		ID:       uuid.New(),
		Name:     name,
		Username: username,
		Todos:    []dom.Todo{},
	})
	if err != nil {
		if errors.Is(err, repo.ErrUserExists) {
			return dom.User{}, ErrUserExists
		}
		return dom.User{}, err
	}
	return u, nil
}

// FindByUsername returns the user owning username.
func (s *UserService) FindByUsername(ctx context.Context, username string) (dom.User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return dom.User{}, ErrUserNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}
