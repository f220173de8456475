package store

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymatsuda/clubhub/internal/domain"
	"github.com/ymatsuda/clubhub/internal/notion"
	"github.com/ymatsuda/clubhub/internal/notion/notiontest"
)

const testUsersDB = "db-users"

func newUserStore(t *testing.T) (*UserStore, *notiontest.Server) {
	t.Helper()
	srv := notiontest.New(testUsersDB)
	t.Cleanup(srv.Close)
	return NewUserStore(srv.Client(), testUsersDB, slog.Default()), srv
}

func seedUser(srv *notiontest.Server, id int64, name string, admin bool) string {
	adminFlag := int64(0)
	if admin {
		adminFlag = 1
	}
	return srv.AddPage(testUsersDB, notion.Properties{
		"name":         notion.Title(name),
		"display_name": notion.Text(name + " display"),
		"admin":        notion.Number(adminFlag),
		"_id":          notion.Number(id),
	})
}

func TestUserStoreListSkipsMalformedPages(t *testing.T) {
	s, srv := newUserStore(t)
	seedUser(srv, 1, "Alice Smith", true)
	seedUser(srv, 2, "Bob", false)
	// No _id: must be dropped, not surfaced.
	srv.AddPage(testUsersDB, notion.Properties{"name": notion.Title("Ghost")})

	users, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice Smith", users[0].Name)
	assert.True(t, users[0].Admin)
	assert.Equal(t, "Bob", users[1].Name)
	assert.False(t, users[1].Admin)
}

func TestUserStoreGetByNameIgnoresWhitespace(t *testing.T) {
	s, srv := newUserStore(t)
	pageID := seedUser(srv, 1, "Alice Smith", false)
	ctx := context.Background()

	for _, input := range []string{"Alice Smith", "AliceSmith", "Alice  Smith", " AliceSmith "} {
		user, err := s.GetByName(ctx, input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, pageID, user.PageID, "input %q", input)
	}

	_, err := s.GetByName(ctx, "Nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserStoreCreateAllocatesSequentialIDs(t *testing.T) {
	s, srv := newUserStore(t)
	seedUser(srv, 5, "Existing", false)
	ctx := context.Background()

	names := []string{"First", "Second", "Third"}
	for i, name := range names {
		user, err := s.Create(ctx, name, name, false)
		require.NoError(t, err)
		assert.Equal(t, int64(6+i), user.ID)
	}
}

func TestUserStoreCreateRejectsDuplicateName(t *testing.T) {
	s, srv := newUserStore(t)
	seedUser(srv, 1, "Taken", false)

	_, err := s.Create(context.Background(), "Taken", "Someone", false)
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
	assert.Len(t, srv.Pages(testUsersDB), 1)
}

func TestUserStoreUpdate(t *testing.T) {
	s, srv := newUserStore(t)
	pageID := seedUser(srv, 1, "Old Name", false)
	ctx := context.Background()

	user, err := s.Update(ctx, pageID, "New Name", "Newbie", true)
	require.NoError(t, err)
	assert.Equal(t, "New Name", user.Name)
	assert.Equal(t, "Newbie", user.DisplayName)
	assert.True(t, user.Admin)

	_, err = s.Update(ctx, "no-such-page", "X", "", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
