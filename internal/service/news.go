package service

import (
	"context"

	"github.com/ymatsuda/clubhub/internal/domain"
)

// newsRepository is the subset of store.NewsStore that NewsService requires.
type newsRepository interface {
	Latest(ctx context.Context, limit int) ([]*domain.NewsItem, error)
	GetByID(ctx context.Context, id int64) (*domain.NewsItem, error)
}

// latestNewsCount is how many announcements the front page shows.
const latestNewsCount = 3

type NewsService struct {
	news newsRepository
}

func NewNewsService(news newsRepository) *NewsService {
	return &NewsService{news: news}
}

func (s *NewsService) Latest(ctx context.Context) ([]*domain.NewsItem, error) {
	return s.news.Latest(ctx, latestNewsCount)
}

func (s *NewsService) GetByID(ctx context.Context, id int64) (*domain.NewsItem, error) {
	return s.news.GetByID(ctx, id)
}
