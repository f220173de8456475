package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ymatsuda/clubhub/internal/domain"
)

// attendanceUpserter is the subset of store.AttendanceStore that
// AttendanceService requires.
type attendanceUpserter interface {
	Upsert(ctx context.Context, eventPageID, userPageID string, status domain.AttendanceStatus, memo string) (*domain.Attendance, error)
}

type AttendanceService struct {
	attendance attendanceUpserter
	logger     *slog.Logger
}

func NewAttendanceService(attendance attendanceUpserter, logger *slog.Logger) *AttendanceService {
	return &AttendanceService{attendance: attendance, logger: logger}
}

// Set records a member's reply to an event. The status is validated before
// any store call: an invalid status writes nothing.
func (s *AttendanceService) Set(ctx context.Context, eventPageID, userPageID string, status domain.AttendanceStatus, memo string) (*domain.Attendance, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("status %q: %w", status, domain.ErrInvalidStatus)
	}

	att, err := s.attendance.Upsert(ctx, eventPageID, userPageID, status, memo)
	if err != nil {
		return nil, err
	}

	s.logger.Info("attendance recorded",
		"event_page_id", eventPageID, "user_page_id", userPageID, "status", status)
	return att, nil
}
