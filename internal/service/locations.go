package service

import (
	"context"
	"log/slog"

	"github.com/ymatsuda/clubhub/internal/domain"
	"github.com/ymatsuda/clubhub/internal/store"
)

// locationRepository is the subset of store.LocationStore that
// LocationService requires.
type locationRepository interface {
	List(ctx context.Context) ([]*domain.Location, error)
	GetByID(ctx context.Context, pageID string) (*domain.Location, error)
	Create(ctx context.Context, params store.CreateLocationParams) (*domain.Location, error)
	Categories(ctx context.Context) ([]string, error)
}

type LocationService struct {
	locations locationRepository
	logger    *slog.Logger
}

func NewLocationService(locations locationRepository, logger *slog.Logger) *LocationService {
	return &LocationService{locations: locations, logger: logger}
}

func (s *LocationService) List(ctx context.Context) ([]*domain.Location, error) {
	return s.locations.List(ctx)
}

func (s *LocationService) Get(ctx context.Context, pageID string) (*domain.Location, error) {
	return s.locations.GetByID(ctx, pageID)
}

func (s *LocationService) Create(ctx context.Context, params store.CreateLocationParams) (*domain.Location, error) {
	location, err := s.locations.Create(ctx, params)
	if err != nil {
		return nil, err
	}
	s.logger.Info("venue registered", "venue", location.Name, "id", location.ID, "category", location.Category)
	return location, nil
}

func (s *LocationService) Categories(ctx context.Context) ([]string, error) {
	return s.locations.Categories(ctx)
}
