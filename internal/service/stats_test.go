package service

import (
	"context"
	"sync/atomic"
	"testing"

	"avatarlab/internal/entity"
	"avatarlab/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStatsRepo struct {
	model.Repository

	calls atomic.Int64
}

func (f *fakeStatsRepo) PlatformStats(ctx context.Context) (*entity.PlatformStats, error) {
	f.calls.Add(1)
	return &entity.PlatformStats{TotalUsers: 5, TotalAssets: 11}, nil
}

func TestPlatformStatsUsesCache(t *testing.T) {
	repo := &fakeStatsRepo{}
	svc := NewStatsService(repo)

	first, err := svc.PlatformStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), first.TotalUsers)
	assert.False(t, first.GeneratedAt.IsZero())

	second, err := svc.PlatformStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	assert.Equal(t, int64(1), repo.calls.Load(), "second read within the TTL must hit the cache")
}
