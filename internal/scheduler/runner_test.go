package scheduler

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/autoseo-dev/autoseo-api/internal/dto"
	"github.com/autoseo-dev/autoseo-api/internal/models"
)

type generatorStub struct{}

func (generatorStub) GenerateDraftForSite(ctx context.Context, siteID uint) (dto.GenerateDraftResponse, error) {
	return dto.GenerateDraftResponse{SiteID: siteID, Generated: true, ContentID: 1}, nil
}

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func TestParseDescriptor(t *testing.T) {
	schedule, fellBack := ParseDescriptor("*/15 * * * *")
	require.False(t, fellBack)
	require.NotNil(t, schedule)

	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	require.Equal(t, base.Add(15*time.Minute), schedule.Next(base))
}

func TestParseDescriptorFallsBackToHourly(t *testing.T) {
	schedule, fellBack := ParseDescriptor("not a cron line")
	require.True(t, fellBack)
	require.NotNil(t, schedule)

	base := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	require.Equal(t, time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC), schedule.Next(base))
}

func TestParseDescriptorRejectsSixFieldSpecs(t *testing.T) {
	_, fellBack := ParseDescriptor("0 0 * * * *")
	require.True(t, fellBack)
}

func TestRebuildSchedulesOnlyEnabledSites(t *testing.T) {
	runner := NewRunner(generatorStub{}, testLogger())
	defer runner.Stop()

	sites := []models.Site{
		{ID: 1, IsAutoEnabled: true, ScheduleCron: "0 * * * *"},
		{ID: 2, IsAutoEnabled: false, ScheduleCron: "0 * * * *"},
		{ID: 3, IsAutoEnabled: true, ScheduleCron: "garbage"},
	}

	scheduled := runner.Rebuild(sites)
	require.Equal(t, 2, scheduled)
}

func TestRebuildReplacesPreviousSet(t *testing.T) {
	runner := NewRunner(generatorStub{}, testLogger())
	defer runner.Stop()

	first := runner.Rebuild([]models.Site{
		{ID: 1, IsAutoEnabled: true, ScheduleCron: "0 * * * *"},
		{ID: 2, IsAutoEnabled: true, ScheduleCron: "30 * * * *"},
	})
	require.Equal(t, 2, first)

	second := runner.Rebuild([]models.Site{
		{ID: 1, IsAutoEnabled: true, ScheduleCron: "0 * * * *"},
	})
	require.Equal(t, 1, second)
}

func TestStopIsIdempotent(t *testing.T) {
	runner := NewRunner(generatorStub{}, testLogger())
	runner.Rebuild([]models.Site{{ID: 1, IsAutoEnabled: true, ScheduleCron: "0 * * * *"}})
	runner.Stop()
	runner.Stop()
}
