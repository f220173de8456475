package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ymatsuda/clubhub/internal/domain"
	"github.com/ymatsuda/clubhub/internal/notion"
)

// Location table property names.
const (
	propLocationName = "location_name"
	propAddress      = "address"
	propCategory     = "category"
	propTel          = "tell"
	propMapURL       = "map_url"
)

type LocationStore struct {
	client     *notion.Client
	databaseID string
	logger     *slog.Logger
}

func NewLocationStore(client *notion.Client, databaseID string, logger *slog.Logger) *LocationStore {
	return &LocationStore{client: client, databaseID: databaseID, logger: logger}
}

// CreateLocationParams carries the fields of a venue registration. Venues are
// immutable after creation; there is no update or delete.
type CreateLocationParams struct {
	Name     string
	Address  string
	Category string
	Tel      string
	MapURL   string
}

// List returns all venues in sequence-id order.
func (s *LocationStore) List(ctx context.Context) ([]*domain.Location, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID, &notion.Query{
		Sorts: []notion.Sort{{Property: propID, Direction: notion.Ascending}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	locations := make([]*domain.Location, 0, len(pages))
	for i := range pages {
		loc, err := parseLocation(&pages[i])
		if err != nil {
			s.logger.Warn("skipping malformed location page", "page_id", pages[i].ID, "error", err)
			continue
		}
		locations = append(locations, loc)
	}
	return locations, nil
}

// GetByID fetches one venue by its store page id.
func (s *LocationStore) GetByID(ctx context.Context, pageID string) (*domain.Location, error) {
	page, err := s.client.RetrievePage(ctx, pageID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("location %s: %w", pageID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to retrieve location %s: %w", pageID, err)
	}
	loc, err := parseLocation(page)
	if err != nil {
		return nil, fmt.Errorf("location %s: %w", pageID, err)
	}
	return loc, nil
}

// Create registers a venue with the next sequence id.
func (s *LocationStore) Create(ctx context.Context, params CreateLocationParams) (*domain.Location, error) {
	nextID, err := nextSequenceID(ctx, s.client, s.databaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate location id: %w", err)
	}

	page, err := s.client.CreatePage(ctx, s.databaseID, notion.Properties{
		propID:           notion.Number(nextID),
		propLocationName: notion.Text(params.Name),
		propAddress:      notion.Text(params.Address),
		propCategory:     notion.Select(params.Category),
		propTel:          notion.Text(params.Tel),
		propMapURL:       notion.URL(params.MapURL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	loc, err := parseLocation(page)
	if err != nil {
		return nil, fmt.Errorf("location write not readable back: %w", domain.ErrUpdateFailed)
	}
	return loc, nil
}

// Categories returns the distinct venue categories in first-seen order.
func (s *LocationStore) Categories(ctx context.Context) ([]string, error) {
	locations, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var categories []string
	for _, loc := range locations {
		if loc.Category == "" || seen[loc.Category] {
			continue
		}
		seen[loc.Category] = true
		categories = append(categories, loc.Category)
	}
	return categories, nil
}

// parseLocation validates a raw page into a venue. Name and `_id` are
// required; everything else is optional.
func parseLocation(page *notion.Page) (*domain.Location, error) {
	name := page.Text(propLocationName)
	if name == "" {
		return nil, fmt.Errorf("page %s: missing location name", page.ID)
	}
	id, ok := page.Int(propID)
	if !ok {
		return nil, fmt.Errorf("page %s: missing %s", page.ID, propID)
	}
	return &domain.Location{
		PageID:   page.ID,
		ID:       id,
		Name:     name,
		Address:  page.Text(propAddress),
		Category: page.SelectName(propCategory),
		MapURL:   page.URLValue(propMapURL),
		Tel:      page.Text(propTel),
	}, nil
}
