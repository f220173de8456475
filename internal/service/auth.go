package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ymatsuda/clubhub/internal/domain"
)

// userFinder is the subset of store.UserStore that AuthService requires.
type userFinder interface {
	GetByName(ctx context.Context, username string) (*domain.User, error)
}

// AuthService checks the shared club password and resolves the member record.
// It issues no session: the returned identity is handed to the client, which
// stores it and echoes it back on privileged requests. The scheme is
// deliberately weak (single static secret, unsigned client-held identity) and
// is not a security boundary.
type AuthService struct {
	users          userFinder
	sharedPassword string
	logger         *slog.Logger
}

func NewAuthService(users userFinder, sharedPassword string, logger *slog.Logger) *AuthService {
	return &AuthService{users: users, sharedPassword: sharedPassword, logger: logger}
}

// Authenticate rejects any password other than the shared secret, then looks
// the member up by handle ignoring whitespace.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*domain.Identity, error) {
	if password != s.sharedPassword {
		return nil, domain.ErrWrongPassword
	}

	user, err := s.users.GetByName(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("authenticate %q: %w", username, err)
	}

	s.logger.Info("member logged in", "user", user.Name, "admin", user.Admin)
	return &domain.Identity{
		UserID:      user.PageID,
		ID:          user.ID,
		Name:        user.Name,
		DisplayName: user.DisplayName,
		Admin:       user.Admin,
	}, nil
}
