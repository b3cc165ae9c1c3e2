package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/autoseo-dev/autoseo-api/internal/models"
)

func TestDashboardStatsAggregatesCounters(t *testing.T) {
	content := &contentRepoStub{items: []models.ContentItem{
		{ID: 1, Status: models.ContentStatusPending},
		{ID: 2, Status: models.ContentStatusPending},
		{ID: 3, Status: models.ContentStatusApproved},
		{ID: 4, Status: models.ContentStatusPublished},
	}}
	sites := &siteRepoStub{sites: map[uint]models.Site{1: {ID: 1}, 2: {ID: 2}}}
	apps := &applicationRepoStub{applications: []models.RoleApplication{
		{ID: 1, Status: models.ApplicationStatusPending},
		{ID: 2, Status: models.ApplicationStatusApproved},
	}}

	svc := NewDashboardService(content, sites, apps, nil, time.Minute, testLogger())

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Sites)
	require.Equal(t, int64(2), stats.PendingContent)
	require.Equal(t, int64(1), stats.ApprovedContent)
	require.Equal(t, int64(0), stats.RejectedContent)
	require.Equal(t, int64(1), stats.PublishedContent)
	require.Equal(t, int64(1), stats.PendingApplications)
	require.False(t, stats.CacheHit)
}

func TestDashboardStatsCache(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer redisClient.Close()

	content := &contentRepoStub{items: []models.ContentItem{
		{ID: 1, Status: models.ContentStatusPending},
	}}
	sites := &siteRepoStub{sites: map[uint]models.Site{1: {ID: 1}}}
	apps := &applicationRepoStub{}

	svc := NewDashboardService(content, sites, apps, redisClient, time.Minute, testLogger())

	first, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.False(t, first.CacheHit)
	require.Equal(t, int64(1), first.PendingContent)

	// mutate the repo to prove the second read comes from cache
	content.items = nil

	second, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.True(t, second.CacheHit)
	require.Equal(t, int64(1), second.PendingContent)
}
