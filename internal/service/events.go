package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ymatsuda/clubhub/internal/domain"
)

// eventRepository is the subset of store.EventStore that EventService requires.
type eventRepository interface {
	List(ctx context.Context) ([]*domain.Event, error)
	Create(ctx context.Context, locationPageID string, start time.Time, end *time.Time) (*domain.Event, error)
}

// locationResolver is the subset of store.LocationStore that EventService requires.
type locationResolver interface {
	GetByID(ctx context.Context, pageID string) (*domain.Location, error)
}

// attendanceLister is the subset of store.AttendanceStore that EventService requires.
type attendanceLister interface {
	ListByEvent(ctx context.Context, eventPageID string) ([]*domain.Attendance, error)
}

// memberLister is the subset of store.UserStore that EventService requires.
type memberLister interface {
	List(ctx context.Context) ([]*domain.User, error)
}

type EventService struct {
	events     eventRepository
	locations  locationResolver
	attendance attendanceLister
	users      memberLister
	logger     *slog.Logger
}

func NewEventService(
	events eventRepository,
	locations locationResolver,
	attendance attendanceLister,
	users memberLister,
	logger *slog.Logger,
) *EventService {
	return &EventService{
		events:     events,
		locations:  locations,
		attendance: attendance,
		users:      users,
		logger:     logger,
	}
}

// placeholderLocation substitutes for an event whose venue reference is
// missing or cannot be resolved. The listing still renders; only the venue
// shows as undecided.
func placeholderLocation() *domain.Location {
	return &domain.Location{Name: "TBD"}
}

// ListWithAttendance returns all events sorted by start date, each with its
// venue resolved and its replies attached. Venue and reply lookups fan out
// concurrently, one pair of store calls per event; fine at club scale (tens
// of events), not a pattern to keep if the tables grow. A failed venue
// lookup degrades that event to the placeholder venue; a failed reply lookup
// fails the whole listing.
func (s *EventService) ListWithAttendance(ctx context.Context) ([]*domain.Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	nameByPageID := make(map[string]string, len(users))
	for _, u := range users {
		name := u.DisplayName
		if name == "" {
			name = u.Name
		}
		nameByPageID[u.PageID] = name
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, event := range events {
		event := event
		g.Go(func() error {
			event.Location = s.resolveLocation(gctx, event)

			attendances, err := s.attendance.ListByEvent(gctx, event.PageID)
			if err != nil {
				return fmt.Errorf("failed to list attendance for event %d: %w", event.ID, err)
			}
			event.Attendances = make([]domain.EventAttendance, 0, len(attendances))
			for _, att := range attendances {
				event.Attendances = append(event.Attendances, domain.EventAttendance{
					UserID:   att.UserPageID,
					UserName: nameByPageID[att.UserPageID],
					Status:   att.Status,
				})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartDate.Before(events[j].StartDate)
	})
	return events, nil
}

func (s *EventService) resolveLocation(ctx context.Context, event *domain.Event) *domain.Location {
	if event.LocationPageID == "" {
		return placeholderLocation()
	}
	loc, err := s.locations.GetByID(ctx, event.LocationPageID)
	if err != nil {
		s.logger.Warn("failed to resolve event venue",
			"event_id", event.ID, "location_page_id", event.LocationPageID, "error", err)
		return placeholderLocation()
	}
	return loc
}

// Create schedules an event at an existing venue.
func (s *EventService) Create(ctx context.Context, locationPageID string, start time.Time, end *time.Time) (*domain.Event, error) {
	location, err := s.locations.GetByID(ctx, locationPageID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve venue %s: %w", locationPageID, err)
	}

	event, err := s.events.Create(ctx, locationPageID, start, end)
	if err != nil {
		return nil, err
	}
	event.Location = location
	event.Attendances = []domain.EventAttendance{}

	s.logger.Info("event created", "event_id", event.ID, "venue", location.Name, "start", start)
	return event, nil
}
