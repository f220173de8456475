package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ymatsuda/clubhub/internal/domain"
	"github.com/ymatsuda/clubhub/internal/notion"
)

// Event table property names.
const (
	propEventDate  = "event_date"
	propEventTitle = "title"
	propLocationID = "location_id"
)

type EventStore struct {
	client     *notion.Client
	databaseID string
	logger     *slog.Logger
}

func NewEventStore(client *notion.Client, databaseID string, logger *slog.Logger) *EventStore {
	return &EventStore{client: client, databaseID: databaseID, logger: logger}
}

// List returns all events ordered by start date ascending. Location
// references are returned raw (LocationPageID); resolution happens in the
// service layer. Pages without a parseable date or `_id` are dropped.
func (s *EventStore) List(ctx context.Context) ([]*domain.Event, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID, &notion.Query{
		Sorts: []notion.Sort{{Property: propEventDate, Direction: notion.Ascending}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]*domain.Event, 0, len(pages))
	for i := range pages {
		event, err := parseEvent(&pages[i])
		if err != nil {
			s.logger.Warn("skipping malformed event page", "page_id", pages[i].ID, "error", err)
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// Create schedules an event at a venue with the next sequence id. end may be
// nil for events without a fixed end time.
func (s *EventStore) Create(ctx context.Context, locationPageID string, start time.Time, end *time.Time) (*domain.Event, error) {
	nextID, err := nextSequenceID(ctx, s.client, s.databaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate event id: %w", err)
	}

	page, err := s.client.CreatePage(ctx, s.databaseID, notion.Properties{
		propEventTitle: notion.Title(fmt.Sprintf("event_%d", nextID)),
		propID:         notion.Number(nextID),
		propEventDate:  notion.Date(start, end),
		propLocationID: notion.RelationTo(locationPageID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	event, err := parseEvent(page)
	if err != nil {
		return nil, fmt.Errorf("event write not readable back: %w", domain.ErrUpdateFailed)
	}
	return event, nil
}

// parseEvent validates a raw page into an event. The date and `_id` are
// required; a missing location relation leaves LocationPageID empty and the
// service substitutes a placeholder venue.
func parseEvent(page *notion.Page) (*domain.Event, error) {
	id, ok := page.Int(propID)
	if !ok {
		return nil, fmt.Errorf("page %s: missing %s", page.ID, propID)
	}
	startRaw, endRaw, ok := page.DateRange(propEventDate)
	if !ok {
		return nil, fmt.Errorf("page %s: missing %s", page.ID, propEventDate)
	}
	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		return nil, fmt.Errorf("page %s: bad start date %q: %w", page.ID, startRaw, err)
	}
	var end *time.Time
	if endRaw != "" {
		e, err := time.Parse(time.RFC3339, endRaw)
		if err != nil {
			return nil, fmt.Errorf("page %s: bad end date %q: %w", page.ID, endRaw, err)
		}
		end = &e
	}

	event := &domain.Event{
		PageID:    page.ID,
		ID:        id,
		StartDate: start,
		EndDate:   end,
	}
	if rel := page.RelationIDs(propLocationID); len(rel) > 0 {
		event.LocationPageID = rel[0]
	}
	return event, nil
}
