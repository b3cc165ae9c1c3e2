package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/autoseo-dev/autoseo-api/internal/dto"
	"github.com/autoseo-dev/autoseo-api/internal/models"
)

type publisherStub struct {
	post  PublishedPost
	err   error
	calls int
}

func (p *publisherStub) Publish(ctx context.Context, site models.Site, title, body string) (PublishedPost, error) {
	p.calls++
	return p.post, p.err
}

func newLifecycleForTest(content *contentRepoStub, sites *siteRepoStub, publisher Publisher) ContentLifecycleService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewContentLifecycleService(content, sites, publisher, validate, testLogger())
}

func manager() AuditActor { return AuditActor{ID: 7, Role: "manager"} }

func TestApproveMovesPendingToApproved(t *testing.T) {
	content := &contentRepoStub{items: []models.ContentItem{
		{ID: 1, SiteID: 1, Title: "Draft", Status: models.ContentStatusPending},
	}, nextID: 1}
	svc := newLifecycleForTest(content, &siteRepoStub{}, nil)

	item, err := svc.Approve(context.Background(), 1, manager())
	require.NoError(t, err)
	require.Equal(t, models.ContentStatusApproved, item.Status)

	require.Len(t, content.audits, 1)
	require.Equal(t, models.AuditActionApprove, content.audits[0].Action)
	require.Equal(t, uint(7), content.audits[0].ActorUserID)
	require.Equal(t, models.AuditTargetContent, content.audits[0].TargetType)
	require.Equal(t, uint(1), content.audits[0].TargetID)
}

func TestApproveTwiceReportsCurrentStatus(t *testing.T) {
	content := &contentRepoStub{items: []models.ContentItem{
		{ID: 1, SiteID: 1, Status: models.ContentStatusPending},
	}, nextID: 1}
	svc := newLifecycleForTest(content, &siteRepoStub{}, nil)

	_, err := svc.Approve(context.Background(), 1, manager())
	require.NoError(t, err)

	_, err = svc.Approve(context.Background(), 1, manager())
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Contains(t, err.Error(), "approved")
	require.Len(t, content.audits, 1)
}

func TestRejectPublishedIsTerminal(t *testing.T) {
	content := &contentRepoStub{items: []models.ContentItem{
		{ID: 1, SiteID: 1, Status: models.ContentStatusPublished},
	}, nextID: 1}
	svc := newLifecycleForTest(content, &siteRepoStub{}, nil)

	_, err := svc.Reject(context.Background(), 1, manager(), "stale")
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Contains(t, err.Error(), "published")
}

func TestRejectUsesDefaultReason(t *testing.T) {
	content := &contentRepoStub{items: []models.ContentItem{
		{ID: 1, SiteID: 1, Status: models.ContentStatusApproved},
	}, nextID: 1}
	svc := newLifecycleForTest(content, &siteRepoStub{}, nil)

	item, err := svc.Reject(context.Background(), 1, manager(), "   ")
	require.NoError(t, err)
	require.Equal(t, models.ContentStatusRejected, item.Status)

	require.Len(t, content.audits, 1)
	require.NotNil(t, content.audits[0].Note)
	require.Equal(t, "no reason given", *content.audits[0].Note)
}

func TestApproveDeniedForViewer(t *testing.T) {
	content := &contentRepoStub{items: []models.ContentItem{
		{ID: 1, SiteID: 1, Status: models.ContentStatusPending},
	}, nextID: 1}
	svc := newLifecycleForTest(content, &siteRepoStub{}, nil)

	_, err := svc.Approve(context.Background(), 1, AuditActor{ID: 9, Role: "viewer"})
	require.ErrorIs(t, err, ErrPermissionDenied)
	require.Empty(t, content.audits)
	require.Equal(t, models.ContentStatusPending, content.items[0].Status)
}

func TestApproveUnknownContent(t *testing.T) {
	svc := newLifecycleForTest(&contentRepoStub{}, &siteRepoStub{}, nil)

	_, err := svc.Approve(context.Background(), 99, manager())
	require.ErrorIs(t, err, ErrContentNotFound)
}

func TestPublishReportsRemoteResult(t *testing.T) {
	body := "<p>hello</p>"
	content := &contentRepoStub{items: []models.ContentItem{
		{ID: 1, SiteID: 3, Title: "Ready", Body: &body, Status: models.ContentStatusApproved},
	}, nextID: 1}
	sites := &siteRepoStub{sites: map[uint]models.Site{
		3: {ID: 3, Name: "Example", WPBaseURL: "https://example.com"},
	}}
	publisher := &publisherStub{post: PublishedPost{RemoteID: 1234, Link: "https://example.com/?p=1234"}}
	svc := newLifecycleForTest(content, sites, publisher)

	result, err := svc.Publish(context.Background(), 1, manager())
	require.NoError(t, err)
	require.Equal(t, models.ContentStatusPublished, result.Item.Status)
	require.Equal(t, "published", result.RemoteStatus)
	require.Equal(t, 1234, result.RemoteID)
	require.Equal(t, "https://example.com/?p=1234", result.RemoteLink)
	require.Equal(t, 1, publisher.calls)
}

func TestPublishKeepsLocalFlipOnRemoteFailure(t *testing.T) {
	content := &contentRepoStub{items: []models.ContentItem{
		{ID: 1, SiteID: 3, Title: "Ready", Status: models.ContentStatusApproved},
	}, nextID: 1}
	sites := &siteRepoStub{sites: map[uint]models.Site{
		3: {ID: 3, Name: "Example"},
	}}
	publisher := &publisherStub{err: fmt.Errorf("upstream 500")}
	svc := newLifecycleForTest(content, sites, publisher)

	result, err := svc.Publish(context.Background(), 1, manager())
	require.NoError(t, err)
	require.Equal(t, "failed", result.RemoteStatus)
	require.Equal(t, models.ContentStatusPublished, content.items[0].Status)
	require.Len(t, content.audits, 1)
	require.Equal(t, models.AuditActionPublish, content.audits[0].Action)
}

func TestPublishSkipsRemoteWithoutPublisher(t *testing.T) {
	content := &contentRepoStub{items: []models.ContentItem{
		{ID: 1, SiteID: 3, Status: models.ContentStatusApproved},
	}, nextID: 1}
	svc := newLifecycleForTest(content, &siteRepoStub{}, nil)

	result, err := svc.Publish(context.Background(), 1, manager())
	require.NoError(t, err)
	require.Equal(t, "skipped", result.RemoteStatus)
	require.Equal(t, models.ContentStatusPublished, content.items[0].Status)
}

func TestPublishRequiresApprovedStatus(t *testing.T) {
	content := &contentRepoStub{items: []models.ContentItem{
		{ID: 1, SiteID: 3, Status: models.ContentStatusPending},
	}, nextID: 1}
	publisher := &publisherStub{}
	svc := newLifecycleForTest(content, &siteRepoStub{}, publisher)

	_, err := svc.Publish(context.Background(), 1, manager())
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.Zero(t, publisher.calls)
}

func TestCreateDraftRequiresExistingSite(t *testing.T) {
	svc := newLifecycleForTest(&contentRepoStub{}, &siteRepoStub{}, nil)

	_, err := svc.CreateDraft(context.Background(), dto.CreateDraftRequest{SiteID: 5, Title: "Manual"}, manager())
	require.ErrorIs(t, err, ErrContentNotFound)
}

func TestCreateDraftStartsPending(t *testing.T) {
	content := &contentRepoStub{}
	sites := &siteRepoStub{sites: map[uint]models.Site{5: {ID: 5}}}
	svc := newLifecycleForTest(content, sites, nil)

	item, err := svc.CreateDraft(context.Background(), dto.CreateDraftRequest{SiteID: 5, Title: "  Manual  "}, manager())
	require.NoError(t, err)
	require.Equal(t, models.ContentStatusPending, item.Status)
	require.Equal(t, "Manual", item.Title)
}
