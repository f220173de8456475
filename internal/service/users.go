package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ymatsuda/clubhub/internal/domain"
)

// userRepository is the subset of store.UserStore that UserService requires.
type userRepository interface {
	List(ctx context.Context) ([]*domain.User, error)
	GetByNameExact(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, name, displayName string, admin bool) (*domain.User, error)
	Update(ctx context.Context, pageID, name, displayName string, admin bool) (*domain.User, error)
}

type UserService struct {
	users  userRepository
	logger *slog.Logger
}

func NewUserService(users userRepository, logger *slog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// GetByUsername finds a member by the exact stored handle.
func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByNameExact(ctx, username)
}

// Create registers a member. Admin gating happens at the HTTP layer.
func (s *UserService) Create(ctx context.Context, name, displayName string, admin bool) (*domain.User, error) {
	user, err := s.users.Create(ctx, name, displayName, admin)
	if err != nil {
		return nil, err
	}
	s.logger.Info("member created", "user", user.Name, "id", user.ID, "admin", user.Admin)
	return user, nil
}

// UpdateUserParams identifies a member by store page id and carries the new
// field values.
type UpdateUserParams struct {
	PageID      string
	Name        string
	DisplayName string
	Admin       bool
}

// Update overwrites a member's fields. Renaming onto another member's handle
// is a domain.ErrDuplicateName.
func (s *UserService) Update(ctx context.Context, params UpdateUserParams) (*domain.User, error) {
	existing, err := s.users.GetByNameExact(ctx, params.Name)
	switch {
	case err == nil:
		if existing.PageID != params.PageID {
			return nil, fmt.Errorf("user %q: %w", params.Name, domain.ErrDuplicateName)
		}
	case errors.Is(err, domain.ErrNotFound):
		// Handle is free.
	default:
		return nil, err
	}

	return s.users.Update(ctx, params.PageID, params.Name, params.DisplayName, params.Admin)
}

// BatchUpdate applies updates one by one in the given order. The first
// failure aborts the rest; earlier updates are not rolled back (the store has
// no transactions to roll back with).
func (s *UserService) BatchUpdate(ctx context.Context, updates []UpdateUserParams) ([]*domain.User, error) {
	updated := make([]*domain.User, 0, len(updates))
	for _, params := range updates {
		user, err := s.Update(ctx, params)
		if err != nil {
			return updated, fmt.Errorf("batch update stopped at %q: %w", params.Name, err)
		}
		updated = append(updated, user)
	}
	return updated, nil
}
