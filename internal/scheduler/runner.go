package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/autoseo-dev/autoseo-api/internal/dto"
	"github.com/autoseo-dev/autoseo-api/internal/models"
)

// DraftGenerator runs one scheduler evaluation for a site.
type DraftGenerator interface {
	GenerateDraftForSite(ctx context.Context, siteID uint) (dto.GenerateDraftResponse, error)
}

var specParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ParseDescriptor parses a five-field cron descriptor. Malformed
// descriptors fall back to top of every hour; the second return reports
// whether the fallback was taken.
func ParseDescriptor(spec string) (cron.Schedule, bool) {
	schedule, err := specParser.Parse(spec)
	if err == nil {
		return schedule, false
	}
	fallback, _ := specParser.Parse(models.DefaultScheduleSpec)
	return fallback, true
}

// Runner owns the recurring per-site triggers. Rebuild replaces the
// entire trigger set from the current site rows; there is no incremental
// edit path.
type Runner struct {
	generator DraftGenerator
	logger    zerolog.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// NewRunner constructs a Runner around the given generator.
func NewRunner(generator DraftGenerator, logger zerolog.Logger) *Runner {
	return &Runner{
		generator: generator,
		logger:    logger.With().Str("component", "scheduler_runner").Logger(),
	}
}

// Rebuild recomputes every trigger from the supplied sites and starts
// the new set, stopping the previous one. Disabled sites and malformed
// descriptors never block the rebuild. Returns the number of scheduled
// sites.
func (r *Runner) Rebuild(sites []models.Site) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron != nil {
		r.cron.Stop()
	}

	next := cron.New(cron.WithParser(specParser), cron.WithLocation(time.UTC))
	scheduled := 0
	for _, site := range sites {
		if !site.IsAutoEnabled {
			continue
		}

		schedule, fellBack := ParseDescriptor(site.ScheduleCron)
		if fellBack {
			r.logger.Warn().
				Uint("site_id", site.ID).
				Str("schedule", site.ScheduleCron).
				Msg("malformed schedule descriptor; using hourly default")
		}

		siteID := site.ID
		next.Schedule(schedule, cron.FuncJob(func() {
			r.evaluate(siteID)
		}))
		scheduled++
	}

	next.Start()
	r.cron = next
	r.logger.Info().Int("sites", scheduled).Msg("schedule rebuilt")
	return scheduled
}

// evaluate is the trigger boundary: evaluation failures are logged and
// never propagate out of the scheduling loop.
func (r *Runner) evaluate(siteID uint) {
	response, err := r.generator.GenerateDraftForSite(context.Background(), siteID)
	if err != nil {
		r.logger.Error().Err(err).Uint("site_id", siteID).Msg("scheduled evaluation failed")
		return
	}
	if response.Generated {
		r.logger.Info().Uint("site_id", siteID).Uint("content_id", response.ContentID).Msg("scheduled draft generated")
	} else {
		r.logger.Debug().Uint("site_id", siteID).Str("reason", response.SkipReason).Msg("scheduled evaluation skipped")
	}
}

// Stop halts the active trigger set.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		r.cron.Stop()
		r.cron = nil
	}
}
