package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ymatsuda/clubhub/internal/domain"
	"github.com/ymatsuda/clubhub/internal/notion"
)

// Attendance table property names.
const (
	propAttendanceTitle  = "title"
	propEventRelation    = "event_date_id"
	propUserRelation     = "attendance_user_id"
	propAttendanceStatus = "attendance_status"
	propMemo             = "memo"
)

type AttendanceStore struct {
	client     *notion.Client
	databaseID string
	logger     *slog.Logger
}

func NewAttendanceStore(client *notion.Client, databaseID string, logger *slog.Logger) *AttendanceStore {
	return &AttendanceStore{client: client, databaseID: databaseID, logger: logger}
}

// ListByEvent returns the replies recorded for one event. Rows without a
// valid status, sequence id, or member reference are dropped.
func (s *AttendanceStore) ListByEvent(ctx context.Context, eventPageID string) ([]*domain.Attendance, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID, &notion.Query{
		Filter: notion.RelationContains(propEventRelation, eventPageID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for event %s: %w", eventPageID, err)
	}

	attendances := make([]*domain.Attendance, 0, len(pages))
	for i := range pages {
		att, err := parseAttendance(&pages[i])
		if err != nil {
			s.logger.Warn("skipping malformed attendance page", "page_id", pages[i].ID, "error", err)
			continue
		}
		if att.EventPageID == "" {
			att.EventPageID = eventPageID
		}
		attendances = append(attendances, att)
	}
	return attendances, nil
}

// Upsert records one member's reply to one event: if a row for the
// (event, user) pair exists the first match is updated in place, otherwise a
// new row is created under the next sequence id. Pre-existing duplicate rows
// for the pair beyond the first are left untouched. The existence check and
// the write are separate store calls with no isolation, so two concurrent
// calls for the same pair can both create a row.
func (s *AttendanceStore) Upsert(ctx context.Context, eventPageID, userPageID string, status domain.AttendanceStatus, memo string) (*domain.Attendance, error) {
	pages, err := s.client.QueryDatabase(ctx, s.databaseID, &notion.Query{
		Filter: notion.And(
			notion.RelationContains(propEventRelation, eventPageID),
			notion.RelationContains(propUserRelation, userPageID),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}

	var page *notion.Page
	if len(pages) > 0 {
		page, err = s.client.UpdatePage(ctx, pages[0].ID, notion.Properties{
			propAttendanceStatus: notion.Text(string(status)),
			propMemo:             notion.Text(memo),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to update attendance: %w", err)
		}
	} else {
		nextID, err := nextSequenceID(ctx, s.client, s.databaseID)
		if err != nil {
			return nil, fmt.Errorf("failed to allocate attendance id: %w", err)
		}
		page, err = s.client.CreatePage(ctx, s.databaseID, notion.Properties{
			propAttendanceTitle:  notion.Title(fmt.Sprintf("attendance_%d", nextID)),
			propID:               notion.Number(nextID),
			propEventRelation:    notion.RelationTo(eventPageID),
			propUserRelation:     notion.RelationTo(userPageID),
			propAttendanceStatus: notion.Text(string(status)),
			propMemo:             notion.Text(memo),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create attendance: %w", err)
		}
	}

	att, err := parseAttendance(page)
	if err != nil {
		s.logger.Warn("attendance write not readable back", "page_id", page.ID, "error", err)
		return nil, fmt.Errorf("attendance for event %s user %s: %w", eventPageID, userPageID, domain.ErrUpdateFailed)
	}
	if att.EventPageID == "" {
		att.EventPageID = eventPageID
	}
	return att, nil
}

// parseAttendance validates a raw page into a reply. Status (one of the
// known values), `_id`, and the member reference are required.
func parseAttendance(page *notion.Page) (*domain.Attendance, error) {
	status := domain.AttendanceStatus(page.Text(propAttendanceStatus))
	if status == "" {
		return nil, fmt.Errorf("page %s: missing status", page.ID)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("page %s: unknown status %q", page.ID, status)
	}
	id, ok := page.Int(propID)
	if !ok {
		return nil, fmt.Errorf("page %s: missing %s", page.ID, propID)
	}
	userRel := page.RelationIDs(propUserRelation)
	if len(userRel) == 0 {
		return nil, fmt.Errorf("page %s: missing member reference", page.ID)
	}

	att := &domain.Attendance{
		PageID:     page.ID,
		ID:         id,
		UserPageID: userRel[0],
		Status:     status,
		Memo:       page.Text(propMemo),
	}
	if eventRel := page.RelationIDs(propEventRelation); len(eventRel) > 0 {
		att.EventPageID = eventRel[0]
	}
	return att, nil
}
