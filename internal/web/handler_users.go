package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ymatsuda/clubhub/internal/service"
)

type createUserRequest struct {
	Name        string `json:"name" validate:"required"`
	DisplayName string `json:"displayName,omitempty"`
	Admin       bool   `json:"admin"`
}

type updateUserRequest struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	DisplayName string `json:"displayName,omitempty"`
	Admin       bool   `json:"admin"`
}

type batchUpdateUsersRequest struct {
	Users []updateUserRequest `json:"users" validate:"required,min=1,dive"`
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := readJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	user, err := s.users.Create(r.Context(), req.Name, req.DisplayName, req.Admin)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := readJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	user, err := s.users.Update(r.Context(), service.UpdateUserParams{
		PageID:      req.ID,
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Admin:       req.Admin,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleBatchUpdateUsers(w http.ResponseWriter, r *http.Request) {
	var req batchUpdateUsersRequest
	if err := readJSON(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}

	updates := make([]service.UpdateUserParams, 0, len(req.Users))
	for _, u := range req.Users {
		updates = append(updates, service.UpdateUserParams{
			PageID:      u.ID,
			Name:        u.Name,
			DisplayName: u.DisplayName,
			Admin:       u.Admin,
		})
	}

	users, err := s.users.BatchUpdate(r.Context(), updates)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
