package web

import (
	"net/http"
	"time"
)

type createEventRequest struct {
	LocationID string `json:"locationId" validate:"required"`
	StartDate  string `json:"startDate" validate:"required"`
	EndDate    string `json:"endDate,omitempty"`
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.ListWithAttendance(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := readJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "startDate must be an RFC 3339 timestamp")
		return
	}
	var end *time.Time
	if req.EndDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "endDate must be an RFC 3339 timestamp")
			return
		}
		if parsed.Before(start) {
			writeError(w, http.StatusBadRequest, "endDate must not precede startDate")
			return
		}
		end = &parsed
	}

	event, err := s.events.Create(r.Context(), req.LocationID, start, end)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, event)
}
