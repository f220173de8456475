package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ymatsuda/clubhub/internal/store"
)

type createLocationRequest struct {
	LocationName string `json:"locationName" validate:"required"`
	Address      string `json:"address" validate:"required"`
	Category     string `json:"category" validate:"required"`
	Tell         string `json:"tell,omitempty"`
	MapURL       string `json:"mapUrl,omitempty"`
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.locations.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	location, err := s.locations.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, location)
}

func (s *Server) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var req createLocationRequest
	if err := readJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	location, err := s.locations.Create(r.Context(), store.CreateLocationParams{
		Name:     req.LocationName,
		Address:  req.Address,
		Category: req.Category,
		Tel:      req.Tell,
		MapURL:   req.MapURL,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, location)
}

func (s *Server) handleLocationCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.locations.Categories(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}
