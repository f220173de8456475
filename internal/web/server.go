package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ymatsuda/clubhub/internal/metrics"
	"github.com/ymatsuda/clubhub/internal/service"
)

type Server struct {
	auth       *service.AuthService
	events     *service.EventService
	attendance *service.AttendanceService
	users      *service.UserService
	locations  *service.LocationService
	news       *service.NewsService

	router chi.Router
	logger *slog.Logger
}

// Options controls optional server surfaces.
type Options struct {
	MetricsEnabled bool
}

func NewServer(
	auth *service.AuthService,
	events *service.EventService,
	attendance *service.AttendanceService,
	users *service.UserService,
	locations *service.LocationService,
	news *service.NewsService,
	logger *slog.Logger,
	opts Options,
) *Server {
	s := &Server{
		auth:       auth,
		events:     events,
		attendance: attendance,
		users:      users,
		locations:  locations,
		news:       news,
		logger:     logger,
	}
	s.router = s.buildRouter(opts)
	return s
}

func (s *Server) buildRouter(opts Options) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.MetricsEnabled {
		r.Get("/metrics", metrics.Handler().ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth", s.handleAuth)

		r.Get("/events", s.handleListEvents)
		r.With(s.requireAdmin).Post("/events", s.handleCreateEvent)

		r.Post("/attendance", s.handleSetAttendance)
		r.Put("/attendance/update", s.handleSetAttendance)

		r.Get("/locations", s.handleListLocations)
		r.Post("/locations", s.handleCreateLocation)
		r.Get("/locations/categories", s.handleLocationCategories)
		r.Get("/locations/{id}", s.handleGetLocation)

		r.Get("/users", s.handleListUsers)
		r.Get("/users/{username}", s.handleGetUser)
		r.With(s.requireAdmin).Post("/users/create", s.handleCreateUser)
		r.With(s.requireAdmin).Put("/users/update", s.handleUpdateUser)
		r.With(s.requireAdmin).Put("/users/batch-update", s.handleBatchUpdateUsers)

		r.Get("/news", s.handleListNews)
		r.Get("/news/{id}", s.handleGetNews)
	})

	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"request_id", middleware.GetReqID(r.Context()),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}
