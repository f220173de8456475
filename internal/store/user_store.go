package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ymatsuda/clubhub/internal/domain"
	"github.com/ymatsuda/clubhub/internal/notion"
)

// User table property names.
const (
	propUserName    = "name"
	propDisplayName = "display_name"
	propAdmin       = "admin"
)

type UserStore struct {
	client     *notion.Client
	databaseID string
	logger     *slog.Logger
}

func NewUserStore(client *notion.Client, databaseID string, logger *slog.Logger) *UserStore {
	return &UserStore{client: client, databaseID: databaseID, logger: logger}
}

// List returns all members sorted by login handle. Pages missing required
// properties are dropped, not surfaced as errors.
func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID, &notion.Query{
		Sorts: []notion.Sort{{Property: propUserName, Direction: notion.Ascending}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*domain.User, 0, len(pages))
	for i := range pages {
		user, err := parseUser(&pages[i])
		if err != nil {
			s.logger.Warn("skipping malformed user page", "page_id", pages[i].ID, "error", err)
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

// GetByName finds a member by login handle ignoring whitespace. The user
// table has no indexed lookup for this, so the full table is loaded and
// filtered here.
func (s *UserStore) GetByName(ctx context.Context, username string) (*domain.User, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	want := normalizeName(username)
	for i := range pages {
		user, err := parseUser(&pages[i])
		if err != nil {
			continue
		}
		if normalizeName(user.Name) == want {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
}

// GetByNameExact finds a member by the exact stored handle.
func (s *UserStore) GetByNameExact(ctx context.Context, username string) (*domain.User, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID, &notion.Query{
		Filter: notion.TitleEquals(propUserName, username),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	for i := range pages {
		if user, err := parseUser(&pages[i]); err == nil {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
}

// Create registers a new member with the next sequence id. A member with the
// same exact handle already present is a domain.ErrDuplicateName.
func (s *UserStore) Create(ctx context.Context, name, displayName string, admin bool) (*domain.User, error) {
	if _, err := s.GetByNameExact(ctx, name); err == nil {
		return nil, fmt.Errorf("user %q: %w", name, domain.ErrDuplicateName)
	}

	nextID, err := nextSequenceID(ctx, s.client, s.databaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate user id: %w", err)
	}

	adminFlag := int64(0)
	if admin {
		adminFlag = 1
	}
	page, err := s.client.CreatePage(ctx, s.databaseID, notion.Properties{
		propUserName:    notion.Title(name),
		propDisplayName: notion.Text(displayName),
		propAdmin:       notion.Number(adminFlag),
		propID:          notion.Number(nextID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user, err := parseUser(page)
	if err != nil {
		return nil, fmt.Errorf("user write not readable back: %w", domain.ErrUpdateFailed)
	}
	return user, nil
}

// Update overwrites a member's handle, display name, and admin flag.
func (s *UserStore) Update(ctx context.Context, pageID, name, displayName string, admin bool) (*domain.User, error) {
	adminFlag := int64(0)
	if admin {
		adminFlag = 1
	}
	page, err := s.client.UpdatePage(ctx, pageID, notion.Properties{
		propUserName:    notion.Title(name),
		propDisplayName: notion.Text(displayName),
		propAdmin:       notion.Number(adminFlag),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("user %s: %w", pageID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	user, err := parseUser(page)
	if err != nil {
		return nil, fmt.Errorf("user write not readable back: %w", domain.ErrUpdateFailed)
	}
	return user, nil
}

// parseUser validates a raw page into a member. The handle and `_id` are
// required; display name defaults to empty and admin to false.
func parseUser(page *notion.Page) (*domain.User, error) {
	name := page.Text(propUserName)
	if name == "" {
		return nil, fmt.Errorf("page %s: missing name", page.ID)
	}
	id, ok := page.Int(propID)
	if !ok {
		return nil, fmt.Errorf("page %s: missing %s", page.ID, propID)
	}
	adminFlag, _ := page.Int(propAdmin)
	return &domain.User{
		PageID:      page.ID,
		ID:          id,
		Name:        name,
		DisplayName: page.Text(propDisplayName),
		Admin:       adminFlag == 1,
	}, nil
}
