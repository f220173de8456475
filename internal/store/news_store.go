package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ymatsuda/clubhub/internal/domain"
	"github.com/ymatsuda/clubhub/internal/notion"
)

// News table property names. News is read-only for this application; there
// is no write path.
const (
	propNewsTitle    = "title"
	propNewsCategory = "category"
	propNewsBody     = "body"
	propRegisterDate = "register_date"
)

type NewsStore struct {
	client     *notion.Client
	databaseID string
	logger     *slog.Logger
}

func NewNewsStore(client *notion.Client, databaseID string, logger *slog.Logger) *NewsStore {
	return &NewsStore{client: client, databaseID: databaseID, logger: logger}
}

// Latest returns up to limit announcements, newest first.
func (s *NewsStore) Latest(ctx context.Context, limit int) ([]*domain.NewsItem, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID, &notion.Query{
		Sorts:    []notion.Sort{{Property: propRegisterDate, Direction: notion.Descending}},
		PageSize: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}

	items := make([]*domain.NewsItem, 0, len(pages))
	for i := range pages {
		item, err := parseNewsItem(&pages[i])
		if err != nil {
			s.logger.Warn("skipping malformed news page", "page_id", pages[i].ID, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// GetByID finds one announcement by its sequence id.
func (s *NewsStore) GetByID(ctx context.Context, id int64) (*domain.NewsItem, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID, &notion.Query{
		Filter: notion.NumberEquals(propID, id),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query news: %w", err)
	}
	for i := range pages {
		if item, err := parseNewsItem(&pages[i]); err == nil {
			return item, nil
		}
	}
	return nil, fmt.Errorf("news %d: %w", id, domain.ErrNotFound)
}

// parseNewsItem validates a raw page into an announcement. The title and
// `_id` are required.
func parseNewsItem(page *notion.Page) (*domain.NewsItem, error) {
	title := page.Text(propNewsTitle)
	if title == "" {
		return nil, fmt.Errorf("page %s: missing title", page.ID)
	}
	id, ok := page.Int(propID)
	if !ok {
		return nil, fmt.Errorf("page %s: missing %s", page.ID, propID)
	}
	start, _, _ := page.DateRange(propRegisterDate)
	return &domain.NewsItem{
		ID:           id,
		Category:     page.SelectName(propNewsCategory),
		Title:        title,
		Body:         page.Text(propNewsBody),
		RegisterDate: start,
	}, nil
}
