package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/autoseo-dev/autoseo-api/internal/dto"
	"github.com/autoseo-dev/autoseo-api/internal/models"
	"github.com/autoseo-dev/autoseo-api/internal/observability"
	"github.com/autoseo-dev/autoseo-api/internal/repository"
)

// Skip reasons for a scheduler evaluation. All skips are soft outcomes:
// the evaluation reports them and returns cleanly.
const (
	SkipReasonSiteMissing    = "site-missing"
	SkipReasonAutoDisabled   = "auto-disabled"
	SkipReasonOutOfWindow    = "out-of-window"
	SkipReasonQuotaExhausted = "quota-exhausted"
)

// DraftComposer produces the title and body for a new draft. Composers
// may fail; the scheduler falls back to a placeholder and continues.
type DraftComposer interface {
	ComposeDraft(ctx context.Context, site models.Site) (title string, body string, err error)
}

// WithinActiveWindow reports whether the hour falls inside the site's
// active window. Equal bounds mean always active; start above end wraps
// past midnight. All hours are UTC.
func WithinActiveWindow(hour, startHour, endHour int) bool {
	if startHour == endHour {
		return true
	}
	if startHour < endHour {
		return startHour <= hour && hour < endHour
	}
	return hour >= startHour || hour < endHour
}

// SchedulerService decides, per site and evaluation instant, whether a
// new draft should be generated, and creates it when so.
type SchedulerService interface {
	GenerateDraftForSite(ctx context.Context, siteID uint) (dto.GenerateDraftResponse, error)
	CountGeneratedToday(ctx context.Context, siteID uint) (int64, error)
	EnabledSites(ctx context.Context) ([]models.Site, error)
}

type schedulerService struct {
	sites    repository.SiteRepository
	content  repository.ContentRepository
	composer DraftComposer
	logger   zerolog.Logger
	now      func() time.Time

	// Per-site execution mutexes serialize the count-then-insert quota
	// check for overlapping evaluations of the same site.
	siteLocks sync.Map
}

// NewSchedulerService constructs the scheduler service. composer may be
// nil; drafts then use the placeholder title only.
func NewSchedulerService(sites repository.SiteRepository, content repository.ContentRepository, composer DraftComposer, logger zerolog.Logger) SchedulerService {
	return &schedulerService{
		sites:    sites,
		content:  content,
		composer: composer,
		logger:   logger.With().Str("component", "scheduler_service").Logger(),
		now:      time.Now,
	}
}

func (s *schedulerService) lockSite(siteID uint) *sync.Mutex {
	value, _ := s.siteLocks.LoadOrStore(siteID, &sync.Mutex{})
	return value.(*sync.Mutex)
}

// GenerateDraftForSite runs one unattended evaluation. Routine skip
// conditions (missing or disabled site, closed window, exhausted quota)
// return a zero content ID and a reason, never an error.
func (s *schedulerService) GenerateDraftForSite(ctx context.Context, siteID uint) (dto.GenerateDraftResponse, error) {
	tracer := otel.Tracer("github.com/autoseo-dev/autoseo-api/internal/service/scheduler")
	ctx, span := tracer.Start(ctx, "scheduler.generate_draft")
	span.SetAttributes(attribute.Int64("scheduler.site_id", int64(siteID)))
	defer span.End()

	mu := s.lockSite(siteID)
	mu.Lock()
	defer mu.Unlock()

	response := dto.GenerateDraftResponse{SiteID: siteID}

	site, err := s.sites.GetByID(ctx, siteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.skip(response, SkipReasonSiteMissing), nil
		}
		observability.SchedulerEvaluations().WithLabelValues("error").Inc()
		return response, err
	}

	if !site.IsAutoEnabled {
		return s.skip(response, SkipReasonAutoDisabled), nil
	}

	nowUTC := s.now().UTC()
	if !WithinActiveWindow(nowUTC.Hour(), site.ActiveStartHour, site.ActiveEndHour) {
		return s.skip(response, SkipReasonOutOfWindow), nil
	}

	if site.DailyQuota != nil {
		generated, err := s.content.CountForSiteSince(ctx, site.ID, startOfUTCDay(nowUTC))
		if err != nil {
			observability.SchedulerEvaluations().WithLabelValues("error").Inc()
			return response, err
		}
		if generated >= int64(*site.DailyQuota) {
			return s.skip(response, SkipReasonQuotaExhausted), nil
		}
	}

	title, body := s.composeDraft(ctx, site, nowUTC)
	item := models.ContentItem{
		SiteID: site.ID,
		Title:  title,
		Body:   body,
		Status: models.ContentStatusPending,
	}
	if err := s.content.Create(ctx, &item); err != nil {
		observability.SchedulerEvaluations().WithLabelValues("error").Inc()
		return response, err
	}

	observability.SchedulerEvaluations().WithLabelValues("generated").Inc()
	s.logger.Info().Uint("site_id", site.ID).Uint("content_id", item.ID).Msg("draft generated")

	response.ContentID = item.ID
	response.Generated = true
	return response, nil
}

func (s *schedulerService) skip(response dto.GenerateDraftResponse, reason string) dto.GenerateDraftResponse {
	observability.SchedulerEvaluations().WithLabelValues(reason).Inc()
	s.logger.Debug().Uint("site_id", response.SiteID).Str("reason", reason).Msg("draft generation skipped")
	response.SkipReason = reason
	return response
}

func (s *schedulerService) composeDraft(ctx context.Context, site models.Site, nowUTC time.Time) (string, *string) {
	fallback := fmt.Sprintf("Auto Draft %s", nowUTC.Format(time.RFC3339))
	if s.composer == nil {
		return fallback, nil
	}
	title, body, err := s.composer.ComposeDraft(ctx, site)
	if err != nil || title == "" {
		if err != nil {
			s.logger.Warn().Err(err).Uint("site_id", site.ID).Msg("draft composer failed; using placeholder")
		}
		return fallback, nil
	}
	if body == "" {
		return title, nil
	}
	return title, &body
}

// CountGeneratedToday counts content rows created for the site since
// midnight UTC of the current calendar day.
func (s *schedulerService) CountGeneratedToday(ctx context.Context, siteID uint) (int64, error) {
	return s.content.CountForSiteSince(ctx, siteID, startOfUTCDay(s.now().UTC()))
}

func (s *schedulerService) EnabledSites(ctx context.Context) ([]models.Site, error) {
	return s.sites.ListAutoEnabled(ctx)
}

func startOfUTCDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
