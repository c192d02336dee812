package service

import (
	"context"
	"fmt"
	"time"

	"avatarlab/internal/entity"
	"avatarlab/internal/model"

	gocache "github.com/patrickmn/go-cache"
)

const (
	statsCacheKey = "platform_stats"
	statsCacheTTL = 30 * time.Second
)

// StatsService serves the administrative platform aggregate. The underlying
// repository aggregation touches every table, so results are cached for a
// short window; admin dashboards poll faster than the numbers change.
type StatsService struct {
	repo  model.Repository
	cache *gocache.Cache
}

// NewStatsService creates the stats service.
func NewStatsService(repo model.Repository) *StatsService {
	return &StatsService{
		repo:  repo,
		cache: gocache.New(statsCacheTTL, time.Minute),
	}
}

// PlatformStats returns the current aggregate, at most statsCacheTTL stale.
func (s *StatsService) PlatformStats(ctx context.Context) (*entity.PlatformStats, error) {
	if s == nil || s.repo == nil {
		return nil, fmt.Errorf("stats service not initialised")
	}

	if cached, ok := s.cache.Get(statsCacheKey); ok {
		if stats, ok := cached.(*entity.PlatformStats); ok {
			return stats, nil
		}
	}

	stats, err := s.repo.PlatformStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.GeneratedAt = time.Now().UTC()
	s.cache.Set(statsCacheKey, stats, gocache.DefaultExpiration)
	return stats, nil
}
