package web

import (
	"net/http"

	"github.com/ymatsuda/clubhub/internal/domain"
)

type attendanceRequest struct {
	EventID string `json:"eventId" validate:"required"`
	UserID  string `json:"userId" validate:"required"`
	Status  string `json:"status" validate:"required"`
	Memo    string `json:"memo,omitempty"`
}

// handleSetAttendance serves both the create and the update endpoint; the
// store's upsert makes them the same operation.
func (s *Server) handleSetAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendanceRequest
	if err := readJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	att, err := s.attendance.Set(r.Context(), req.EventID, req.UserID, domain.AttendanceStatus(req.Status), req.Memo)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, att)
}
