package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymatsuda/clubhub/internal/domain"
)

type stubUserRepo struct {
	byName  map[string]*domain.User
	updates []UpdateUserParams
	failOn  string
}

func (s *stubUserRepo) List(context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(s.byName))
	for _, u := range s.byName {
		users = append(users, u)
	}
	return users, nil
}

func (s *stubUserRepo) GetByNameExact(_ context.Context, username string) (*domain.User, error) {
	if u, ok := s.byName[username]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
}

func (s *stubUserRepo) Create(_ context.Context, name, displayName string, admin bool) (*domain.User, error) {
	return &domain.User{PageID: "u-new", Name: name, DisplayName: displayName, Admin: admin}, nil
}

func (s *stubUserRepo) Update(_ context.Context, pageID, name, displayName string, admin bool) (*domain.User, error) {
	if s.failOn != "" && name == s.failOn {
		return nil, errors.New("store down")
	}
	s.updates = append(s.updates, UpdateUserParams{PageID: pageID, Name: name, DisplayName: displayName, Admin: admin})
	return &domain.User{PageID: pageID, Name: name, DisplayName: displayName, Admin: admin}, nil
}

func TestUpdateRejectsRenameOntoExistingHandle(t *testing.T) {
	repo := &stubUserRepo{byName: map[string]*domain.User{
		"alice": {PageID: "u1", Name: "alice"},
		"bob":   {PageID: "u2", Name: "bob"},
	}}
	svc := NewUserService(repo, slog.Default())

	_, err := svc.Update(context.Background(), UpdateUserParams{PageID: "u2", Name: "alice"})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
	assert.Empty(t, repo.updates)
}

func TestUpdateAllowsKeepingOwnHandle(t *testing.T) {
	repo := &stubUserRepo{byName: map[string]*domain.User{
		"alice": {PageID: "u1", Name: "alice"},
	}}
	svc := NewUserService(repo, slog.Default())

	user, err := svc.Update(context.Background(), UpdateUserParams{PageID: "u1", Name: "alice", DisplayName: "Ali", Admin: true})
	require.NoError(t, err)
	assert.Equal(t, "Ali", user.DisplayName)
	assert.True(t, user.Admin)
}

func TestUpdateAllowsFreeHandle(t *testing.T) {
	repo := &stubUserRepo{byName: map[string]*domain.User{
		"alice": {PageID: "u1", Name: "alice"},
	}}
	svc := NewUserService(repo, slog.Default())

	_, err := svc.Update(context.Background(), UpdateUserParams{PageID: "u1", Name: "alicia"})
	require.NoError(t, err)
	require.Len(t, repo.updates, 1)
	assert.Equal(t, "alicia", repo.updates[0].Name)
}

func TestBatchUpdateStopsAtFirstFailure(t *testing.T) {
	repo := &stubUserRepo{
		byName: map[string]*domain.User{
			"alice": {PageID: "u1", Name: "alice"},
			"bob":   {PageID: "u2", Name: "bob"},
			"carol": {PageID: "u3", Name: "carol"},
		},
		failOn: "bob",
	}
	svc := NewUserService(repo, slog.Default())

	updated, err := svc.BatchUpdate(context.Background(), []UpdateUserParams{
		{PageID: "u1", Name: "alice"},
		{PageID: "u2", Name: "bob"},
		{PageID: "u3", Name: "carol"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"bob"`)
	require.Len(t, updated, 1)
	assert.Equal(t, "alice", updated[0].Name)
	// carol was never attempted
	require.Len(t, repo.updates, 1)
}
