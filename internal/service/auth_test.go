package service

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymatsuda/clubhub/internal/domain"
)

// stubUserFinder resolves any username whose whitespace-stripped form matches
// the stored user, mimicking the store's lookup semantics closely enough for
// the service tests.
type stubUserFinder struct {
	user *domain.User
	err  error
}

func (s *stubUserFinder) GetByName(_ context.Context, username string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil {
		return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
	}
	return s.user, nil
}

func TestAuthenticateRejectsWrongPasswordForAnyUsername(t *testing.T) {
	svc := NewAuthService(&stubUserFinder{user: &domain.User{Name: "Alice"}}, "2015", slog.Default())
	ctx := context.Background()

	for _, username := range []string{"Alice", "nobody", ""} {
		_, err := svc.Authenticate(ctx, username, "wrong")
		assert.ErrorIs(t, err, domain.ErrWrongPassword, "username %q", username)
	}
}

func TestAuthenticateUnknownUser(t *testing.T) {
	svc := NewAuthService(&stubUserFinder{}, "2015", slog.Default())

	_, err := svc.Authenticate(context.Background(), "nobody", "2015")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAuthenticateReturnsIdentity(t *testing.T) {
	user := &domain.User{PageID: "page-1", ID: 3, Name: "Alice Smith", DisplayName: "Ali", Admin: true}
	svc := NewAuthService(&stubUserFinder{user: user}, "2015", slog.Default())

	identity, err := svc.Authenticate(context.Background(), "AliceSmith", "2015")
	require.NoError(t, err)
	assert.Equal(t, "page-1", identity.UserID)
	assert.Equal(t, int64(3), identity.ID)
	assert.Equal(t, "Alice Smith", identity.Name)
	assert.Equal(t, "Ali", identity.DisplayName)
	assert.True(t, identity.Admin)
}
