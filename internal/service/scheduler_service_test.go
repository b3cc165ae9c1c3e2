package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/autoseo-dev/autoseo-api/internal/models"
	"github.com/autoseo-dev/autoseo-api/internal/repository"
)

type siteRepoStub struct {
	sites map[uint]models.Site
}

func (r *siteRepoStub) GetByID(ctx context.Context, id uint) (models.Site, error) {
	site, ok := r.sites[id]
	if !ok {
		return models.Site{}, gorm.ErrRecordNotFound
	}
	return site, nil
}

func (r *siteRepoStub) List(ctx context.Context) ([]models.Site, error) {
	out := make([]models.Site, 0, len(r.sites))
	for _, site := range r.sites {
		out = append(out, site)
	}
	return out, nil
}

func (r *siteRepoStub) ListAutoEnabled(ctx context.Context) ([]models.Site, error) {
	out := make([]models.Site, 0, len(r.sites))
	for _, site := range r.sites {
		if site.IsAutoEnabled {
			out = append(out, site)
		}
	}
	return out, nil
}

func (r *siteRepoStub) Count(ctx context.Context) (int64, error) {
	return int64(len(r.sites)), nil
}

type contentRepoStub struct {
	items  []models.ContentItem
	nextID uint
	audits []models.AuditLog
}

func (r *contentRepoStub) GetByID(ctx context.Context, id uint) (models.ContentItem, error) {
	for _, item := range r.items {
		if item.ID == id {
			return item, nil
		}
	}
	return models.ContentItem{}, gorm.ErrRecordNotFound
}

func (r *contentRepoStub) Create(ctx context.Context, item *models.ContentItem) error {
	r.nextID++
	item.ID = r.nextID
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	r.items = append(r.items, *item)
	return nil
}

func (r *contentRepoStub) List(ctx context.Context, filter repository.ContentFilter) ([]models.ContentItem, int64, error) {
	return r.items, int64(len(r.items)), nil
}

func (r *contentRepoStub) CountForSiteSince(ctx context.Context, siteID uint, since time.Time) (int64, error) {
	count := int64(0)
	for _, item := range r.items {
		if item.SiteID == siteID && !item.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (r *contentRepoStub) CountByStatus(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, item := range r.items {
		counts[item.Status]++
	}
	return counts, nil
}

func (r *contentRepoStub) Transition(ctx context.Context, id uint, from []string, to string, audit *models.AuditLog) (models.ContentItem, error) {
	for i, item := range r.items {
		if item.ID != id {
			continue
		}
		allowed := false
		for _, status := range from {
			if item.Status == status {
				allowed = true
				break
			}
		}
		if !allowed {
			return models.ContentItem{}, &repository.StatusConflictError{Current: item.Status}
		}
		r.items[i].Status = to
		r.items[i].UpdatedAt = time.Now().UTC()
		if audit != nil {
			audit.TargetID = id
			r.audits = append(r.audits, *audit)
		}
		return r.items[i], nil
	}
	return models.ContentItem{}, gorm.ErrRecordNotFound
}

func quota(n int) *int { return &n }

func newSchedulerForTest(sites *siteRepoStub, content *contentRepoStub, at time.Time) *schedulerService {
	svc := NewSchedulerService(sites, content, nil, testLogger()).(*schedulerService)
	svc.now = func() time.Time { return at }
	return svc
}

func TestWithinActiveWindow(t *testing.T) {
	cases := []struct {
		hour, start, end int
		want             bool
	}{
		{10, 9, 17, true},
		{9, 9, 17, true},
		{17, 9, 17, false},
		{8, 9, 17, false},
		{23, 22, 6, true},
		{2, 22, 6, true},
		{10, 22, 6, false},
		{5, 0, 0, true},
		{13, 13, 13, true},
	}
	for _, tc := range cases {
		got := WithinActiveWindow(tc.hour, tc.start, tc.end)
		require.Equal(t, tc.want, got, "hour=%d start=%d end=%d", tc.hour, tc.start, tc.end)
	}
}

func TestGenerateDraftCreatesPendingItem(t *testing.T) {
	at := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	sites := &siteRepoStub{sites: map[uint]models.Site{
		1: {ID: 1, Name: "Example", IsAutoEnabled: true, ActiveStartHour: 9, ActiveEndHour: 17, DailyQuota: quota(5)},
	}}
	content := &contentRepoStub{}
	svc := newSchedulerForTest(sites, content, at)

	result, err := svc.GenerateDraftForSite(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, result.Generated)
	require.NotZero(t, result.ContentID)
	require.Empty(t, result.SkipReason)

	require.Len(t, content.items, 1)
	require.Equal(t, models.ContentStatusPending, content.items[0].Status)
	require.Equal(t, fmt.Sprintf("Auto Draft %s", at.Format(time.RFC3339)), content.items[0].Title)
}

func TestGenerateDraftSkipsMissingSite(t *testing.T) {
	svc := newSchedulerForTest(&siteRepoStub{sites: map[uint]models.Site{}}, &contentRepoStub{}, time.Now().UTC())

	result, err := svc.GenerateDraftForSite(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, result.Generated)
	require.Zero(t, result.ContentID)
	require.Equal(t, SkipReasonSiteMissing, result.SkipReason)
}

func TestGenerateDraftSkipsDisabledSite(t *testing.T) {
	sites := &siteRepoStub{sites: map[uint]models.Site{
		1: {ID: 1, IsAutoEnabled: false},
	}}
	svc := newSchedulerForTest(sites, &contentRepoStub{}, time.Now().UTC())

	result, err := svc.GenerateDraftForSite(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, SkipReasonAutoDisabled, result.SkipReason)
}

func TestGenerateDraftSkipsOutsideWindow(t *testing.T) {
	at := time.Date(2026, 3, 10, 3, 0, 0, 0, time.UTC)
	sites := &siteRepoStub{sites: map[uint]models.Site{
		1: {ID: 1, IsAutoEnabled: true, ActiveStartHour: 9, ActiveEndHour: 17},
	}}
	svc := newSchedulerForTest(sites, &contentRepoStub{}, at)

	result, err := svc.GenerateDraftForSite(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, SkipReasonOutOfWindow, result.SkipReason)
}

func TestGenerateDraftEnforcesDailyQuota(t *testing.T) {
	at := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	sites := &siteRepoStub{sites: map[uint]models.Site{
		1: {ID: 1, IsAutoEnabled: true, DailyQuota: quota(2)},
	}}
	content := &contentRepoStub{}
	svc := newSchedulerForTest(sites, content, at)

	for i := 0; i < 2; i++ {
		result, err := svc.GenerateDraftForSite(context.Background(), 1)
		require.NoError(t, err)
		require.True(t, result.Generated)
	}

	result, err := svc.GenerateDraftForSite(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, result.Generated)
	require.Equal(t, SkipReasonQuotaExhausted, result.SkipReason)
	require.Len(t, content.items, 2)
}

func TestGenerateDraftUnlimitedWhenQuotaNil(t *testing.T) {
	at := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	sites := &siteRepoStub{sites: map[uint]models.Site{
		1: {ID: 1, IsAutoEnabled: true},
	}}
	content := &contentRepoStub{}
	svc := newSchedulerForTest(sites, content, at)

	for i := 0; i < 5; i++ {
		result, err := svc.GenerateDraftForSite(context.Background(), 1)
		require.NoError(t, err)
		require.True(t, result.Generated)
	}
	require.Len(t, content.items, 5)
}

type failingComposer struct{}

func (failingComposer) ComposeDraft(ctx context.Context, site models.Site) (string, string, error) {
	return "", "", fmt.Errorf("model unavailable")
}

func TestGenerateDraftFallsBackWhenComposerFails(t *testing.T) {
	at := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	sites := &siteRepoStub{sites: map[uint]models.Site{
		1: {ID: 1, IsAutoEnabled: true},
	}}
	content := &contentRepoStub{}
	svc := NewSchedulerService(sites, content, failingComposer{}, testLogger()).(*schedulerService)
	svc.now = func() time.Time { return at }

	result, err := svc.GenerateDraftForSite(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, result.Generated)
	require.Equal(t, fmt.Sprintf("Auto Draft %s", at.Format(time.RFC3339)), content.items[0].Title)
	require.Nil(t, content.items[0].Body)
}

func TestCountGeneratedTodayIgnoresPreviousDays(t *testing.T) {
	at := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	content := &contentRepoStub{items: []models.ContentItem{
		{ID: 1, SiteID: 1, CreatedAt: at.Add(-2 * time.Hour)},
		{ID: 2, SiteID: 1, CreatedAt: at.Add(-40 * time.Hour)},
		{ID: 3, SiteID: 2, CreatedAt: at.Add(-time.Hour)},
	}}
	svc := newSchedulerForTest(&siteRepoStub{}, content, at)

	count, err := svc.CountGeneratedToday(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
