package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/autoseo-dev/autoseo-api/internal/dto"
	"github.com/autoseo-dev/autoseo-api/internal/models"
	"github.com/autoseo-dev/autoseo-api/internal/observability"
	"github.com/autoseo-dev/autoseo-api/internal/repository"
)

const dashboardStatsCacheKey = "dashboard:stats:v1"

// DashboardService aggregates queue and workflow counters for the
// operator dashboard.
type DashboardService interface {
	Stats(ctx context.Context) (dto.DashboardStatsResponse, error)
}

type dashboardService struct {
	content      repository.ContentRepository
	sites        repository.SiteRepository
	applications repository.RoleApplicationRepository
	cache        *redis.Client
	ttl          time.Duration
	logger       zerolog.Logger
}

// NewDashboardService constructs the dashboard service. cache may be nil
// to disable caching.
func NewDashboardService(content repository.ContentRepository, sites repository.SiteRepository, applications repository.RoleApplicationRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &dashboardService{
		content:      content,
		sites:        sites,
		applications: applications,
		cache:        cache,
		ttl:          ttl,
		logger:       logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) Stats(ctx context.Context) (dto.DashboardStatsResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardStatsCacheKey).Result(); err == nil && cached != "" {
			var response dto.DashboardStatsResponse
			if err := json.Unmarshal([]byte(cached), &response); err == nil {
				response.CacheHit = true
				observability.DashboardRequests().WithLabelValues("hit").Inc()
				return response, nil
			}
		}
	}

	statusCounts, err := s.content.CountByStatus(ctx)
	if err != nil {
		observability.DashboardRequests().WithLabelValues("error").Inc()
		return dto.DashboardStatsResponse{}, err
	}

	siteCount, err := s.sites.Count(ctx)
	if err != nil {
		observability.DashboardRequests().WithLabelValues("error").Inc()
		return dto.DashboardStatsResponse{}, err
	}

	pendingApplications, err := s.applications.CountPending(ctx)
	if err != nil {
		observability.DashboardRequests().WithLabelValues("error").Inc()
		return dto.DashboardStatsResponse{}, err
	}

	response := dto.DashboardStatsResponse{
		Sites:               siteCount,
		PendingContent:      statusCounts[models.ContentStatusPending],
		ApprovedContent:     statusCounts[models.ContentStatusApproved],
		RejectedContent:     statusCounts[models.ContentStatusRejected],
		PublishedContent:    statusCounts[models.ContentStatusPublished],
		PendingApplications: pendingApplications,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, dashboardStatsCacheKey, payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache dashboard stats")
			}
		}
	}

	observability.DashboardRequests().WithLabelValues("miss").Inc()
	return response, nil
}
