// Package notiontest provides an in-memory fake of the record store's
// tabular-page API for tests. It implements the four operations the client
// uses (query, create, update, retrieve) with relation-contains,
// number-equals, and title-equals filters, and/or compounds, property sorts,
// and page_size limits.
package notiontest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ymatsuda/clubhub/internal/notion"
)

type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	dbs      map[string][]string // databaseID -> page ids in insertion order
	pages    map[string]*notion.Page
	pageDB   map[string]string // pageID -> databaseID
	forceErr *notion.APIError
}

// New starts a fake store with the given database ids registered. Callers
// must Close it.
func New(databaseIDs ...string) *Server {
	s := &Server{
		dbs:    make(map[string][]string),
		pages:  make(map[string]*notion.Page),
		pageDB: make(map[string]string),
	}
	for _, id := range databaseIDs {
		s.dbs[id] = nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/databases/{id}/query", s.handleQuery)
	mux.HandleFunc("POST /v1/pages", s.handleCreate)
	mux.HandleFunc("PATCH /v1/pages/{id}", s.handleUpdate)
	mux.HandleFunc("GET /v1/pages/{id}", s.handleRetrieve)
	s.srv = httptest.NewServer(mux)
	return s
}

func (s *Server) URL() string { return s.srv.URL }

func (s *Server) Close() { s.srv.Close() }

// Client returns a notion.Client pointed at this fake store.
func (s *Server) Client() *notion.Client {
	return notion.NewClient("test-key", notion.WithBaseURL(s.srv.URL))
}

// SetError makes every subsequent request fail with the given status until
// ClearError is called.
func (s *Server) SetError(status int, code, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forceErr = &notion.APIError{StatusCode: status, Code: code, Message: message}
}

func (s *Server) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forceErr = nil
}

// AddPage seeds a page directly, bypassing the HTTP surface, and returns its
// generated page id.
func (s *Server) AddPage(databaseID string, props notion.Properties) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	page := &notion.Page{ID: id, Properties: clone(props)}
	s.pages[id] = page
	s.pageDB[id] = databaseID
	s.dbs[databaseID] = append(s.dbs[databaseID], id)
	return id
}

// RemovePage deletes a page so later retrievals miss (simulates a dangling
// relation reference).
func (s *Server) RemovePage(pageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dbID, ok := s.pageDB[pageID]; ok {
		ids := s.dbs[dbID]
		for i, id := range ids {
			if id == pageID {
				s.dbs[dbID] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
	}
	delete(s.pages, pageID)
	delete(s.pageDB, pageID)
}

// Pages returns copies of all pages in a database, in insertion order.
func (s *Server) Pages(databaseID string) []notion.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notion.Page, 0, len(s.dbs[databaseID]))
	for _, id := range s.dbs[databaseID] {
		p := s.pages[id]
		out = append(out, notion.Page{ID: p.ID, Properties: clone(p.Properties)})
	}
	return out
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeForcedError(w) {
		return
	}

	dbID := r.PathValue("id")
	ids, ok := s.dbs[dbID]
	if !ok {
		writeError(w, http.StatusNotFound, "object_not_found", "database not found: "+dbID)
		return
	}

	var q notion.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "bad query body: "+err.Error())
		return
	}

	var results []notion.Page
	for _, id := range ids {
		p := s.pages[id]
		if matches(p, q.Filter) {
			results = append(results, notion.Page{ID: p.ID, Properties: clone(p.Properties)})
		}
	}

	// Later sort keys are applied first so earlier keys take precedence.
	for i := len(q.Sorts) - 1; i >= 0; i-- {
		spec := q.Sorts[i]
		sort.SliceStable(results, func(a, b int) bool {
			cmp := comparePages(&results[a], &results[b], spec.Property)
			if spec.Direction == notion.Descending {
				return cmp > 0
			}
			return cmp < 0
		})
	}

	if q.PageSize > 0 && len(results) > q.PageSize {
		results = results[:q.PageSize]
	}
	if results == nil {
		results = []notion.Page{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results":     results,
		"has_more":    false,
		"next_cursor": nil,
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeForcedError(w) {
		return
	}

	var req struct {
		Parent struct {
			DatabaseID string `json:"database_id"`
		} `json:"parent"`
		Properties notion.Properties `json:"properties"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "bad page body: "+err.Error())
		return
	}
	if _, ok := s.dbs[req.Parent.DatabaseID]; !ok {
		writeError(w, http.StatusNotFound, "object_not_found", "database not found: "+req.Parent.DatabaseID)
		return
	}

	id := uuid.NewString()
	page := &notion.Page{ID: id, Properties: clone(req.Properties)}
	s.pages[id] = page
	s.pageDB[id] = req.Parent.DatabaseID
	s.dbs[req.Parent.DatabaseID] = append(s.dbs[req.Parent.DatabaseID], id)

	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeForcedError(w) {
		return
	}

	page, ok := s.pages[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "object_not_found", "page not found")
		return
	}

	var req struct {
		Properties notion.Properties `json:"properties"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", "bad page body: "+err.Error())
		return
	}
	for name, prop := range req.Properties {
		page.Properties[name] = prop
	}

	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleRetrieve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeForcedError(w) {
		return
	}

	page, ok := s.pages[r.PathValue("id")]
	if !ok {
		writeError(w, http.StatusNotFound, "object_not_found", "page not found")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) writeForcedError(w http.ResponseWriter) bool {
	if s.forceErr == nil {
		return false
	}
	writeError(w, s.forceErr.StatusCode, s.forceErr.Code, s.forceErr.Message)
	return true
}

func matches(p *notion.Page, f *notion.Filter) bool {
	if f == nil {
		return true
	}
	if len(f.And) > 0 {
		for _, sub := range f.And {
			if !matches(p, sub) {
				return false
			}
		}
		return true
	}
	if len(f.Or) > 0 {
		for _, sub := range f.Or {
			if matches(p, sub) {
				return true
			}
		}
		return false
	}
	switch {
	case f.Relation != nil:
		for _, id := range p.RelationIDs(f.Property) {
			if id == f.Relation.Contains {
				return true
			}
		}
		return false
	case f.Number != nil:
		if f.Number.Equals == nil {
			return false
		}
		n, ok := p.Int(f.Property)
		return ok && float64(n) == *f.Number.Equals
	case f.Title != nil:
		return p.Text(f.Property) == f.Title.Equals
	case f.RichText != nil:
		return p.Text(f.Property) == f.RichText.Equals
	}
	return false
}

// comparePages orders two pages by one property: numbers numerically, dates
// chronologically, text lexically. Missing values sort first.
func comparePages(a, b *notion.Page, property string) int {
	if an, aok := a.Int(property); aok {
		bn, _ := b.Int(property)
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}
	if as, _, aok := a.DateRange(property); aok {
		bs, _, _ := b.DateRange(property)
		at, aerr := time.Parse(time.RFC3339, as)
		bt, berr := time.Parse(time.RFC3339, bs)
		if aerr == nil && berr == nil {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			}
			return 0
		}
		return strings.Compare(as, bs)
	}
	return strings.Compare(a.Text(property), b.Text(property))
}

func clone(props notion.Properties) notion.Properties {
	out := make(notion.Properties, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"object":  "error",
		"status":  status,
		"code":    code,
		"message": message,
	})
}
