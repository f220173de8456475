package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymatsuda/clubhub/internal/domain"
)

type stubEventRepo struct {
	events []*domain.Event
	err    error
}

func (s *stubEventRepo) List(context.Context) ([]*domain.Event, error) {
	return s.events, s.err
}

func (s *stubEventRepo) Create(_ context.Context, locationPageID string, start time.Time, end *time.Time) (*domain.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Event{PageID: "ev-new", ID: 1, StartDate: start, EndDate: end, LocationPageID: locationPageID}, nil
}

type stubLocationResolver struct {
	locations map[string]*domain.Location
}

func (s *stubLocationResolver) GetByID(_ context.Context, pageID string) (*domain.Location, error) {
	if loc, ok := s.locations[pageID]; ok {
		return loc, nil
	}
	return nil, fmt.Errorf("location %s: %w", pageID, domain.ErrNotFound)
}

type stubAttendanceLister struct {
	byEvent map[string][]*domain.Attendance
	err     error
}

func (s *stubAttendanceLister) ListByEvent(_ context.Context, eventPageID string) ([]*domain.Attendance, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byEvent[eventPageID], nil
}

type stubMemberLister struct {
	users []*domain.User
}

func (s *stubMemberLister) List(context.Context) ([]*domain.User, error) {
	return s.users, nil
}

func newEventService(events *stubEventRepo, locs *stubLocationResolver, atts *stubAttendanceLister, users *stubMemberLister) *EventService {
	if locs == nil {
		locs = &stubLocationResolver{}
	}
	if atts == nil {
		atts = &stubAttendanceLister{}
	}
	if users == nil {
		users = &stubMemberLister{}
	}
	return NewEventService(events, locs, atts, users, slog.Default())
}

func TestListWithAttendanceJoinsVenuesAndReplies(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc := newEventService(
		&stubEventRepo{events: []*domain.Event{
			{PageID: "ev1", ID: 1, StartDate: start, LocationPageID: "loc1"},
		}},
		&stubLocationResolver{locations: map[string]*domain.Location{
			"loc1": {PageID: "loc1", Name: "Riverside Court", Category: "tennis"},
		}},
		&stubAttendanceLister{byEvent: map[string][]*domain.Attendance{
			"ev1": {
				{UserPageID: "u1", Status: domain.StatusGoing},
				{UserPageID: "u2", Status: domain.StatusMaybe},
			},
		}},
		&stubMemberLister{users: []*domain.User{
			{PageID: "u1", Name: "Alice", DisplayName: "Ali"},
			{PageID: "u2", Name: "Bob"},
		}},
	)

	events, err := svc.ListWithAttendance(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	require.NotNil(t, ev.Location)
	assert.Equal(t, "Riverside Court", ev.Location.Name)
	require.Len(t, ev.Attendances, 2)
	assert.Equal(t, "Ali", ev.Attendances[0].UserName)
	assert.Equal(t, domain.StatusGoing, ev.Attendances[0].Status)
	assert.Equal(t, "Bob", ev.Attendances[1].UserName)
}

func TestListWithAttendanceUsesPlaceholderWhenVenueMissing(t *testing.T) {
	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc := newEventService(
		&stubEventRepo{events: []*domain.Event{
			{PageID: "ev1", ID: 1, StartDate: start, LocationPageID: "gone"},
			{PageID: "ev2", ID: 2, StartDate: start.AddDate(0, 0, 1)},
		}},
		nil, nil, nil,
	)

	events, err := svc.ListWithAttendance(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	for _, ev := range events {
		require.NotNil(t, ev.Location)
		assert.Equal(t, placeholderLocation().Name, ev.Location.Name)
		assert.NotNil(t, ev.Attendances)
	}
}

func TestListWithAttendanceFailsWhenReplyLookupFails(t *testing.T) {
	svc := newEventService(
		&stubEventRepo{events: []*domain.Event{
			{PageID: "ev1", ID: 1, StartDate: time.Now()},
		}},
		nil,
		&stubAttendanceLister{err: errors.New("store down")},
		nil,
	)

	_, err := svc.ListWithAttendance(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store down")
}

func TestListWithAttendanceSortsByStartDate(t *testing.T) {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	svc := newEventService(
		&stubEventRepo{events: []*domain.Event{
			{PageID: "ev-late", ID: 2, StartDate: base.AddDate(0, 1, 0)},
			{PageID: "ev-early", ID: 1, StartDate: base},
		}},
		nil, nil, nil,
	)

	events, err := svc.ListWithAttendance(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "ev-early", events[0].PageID)
	assert.Equal(t, "ev-late", events[1].PageID)
}

func TestCreateEventRequiresExistingVenue(t *testing.T) {
	svc := newEventService(&stubEventRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), "no-such-venue", time.Now(), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateEventAttachesVenue(t *testing.T) {
	venue := &domain.Location{PageID: "loc1", Name: "City Gym", Category: "futsal"}
	svc := newEventService(
		&stubEventRepo{},
		&stubLocationResolver{locations: map[string]*domain.Location{"loc1": venue}},
		nil, nil,
	)

	start := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	event, err := svc.Create(context.Background(), "loc1", start, nil)
	require.NoError(t, err)
	assert.Equal(t, venue, event.Location)
	assert.NotNil(t, event.Attendances)
}
