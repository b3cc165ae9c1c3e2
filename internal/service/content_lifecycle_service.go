package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/autoseo-dev/autoseo-api/internal/dto"
	"github.com/autoseo-dev/autoseo-api/internal/models"
	"github.com/autoseo-dev/autoseo-api/internal/observability"
	"github.com/autoseo-dev/autoseo-api/internal/permissions"
	"github.com/autoseo-dev/autoseo-api/internal/repository"
)

// ErrContentNotFound indicates the content item does not exist.
var ErrContentNotFound = errors.New("content item not found")

// ErrPermissionDenied indicates the actor lacks the required permission
// or hierarchy standing.
var ErrPermissionDenied = errors.New("permission denied")

// ErrInvalidTransition indicates the item's current status does not allow
// the requested transition. The wrapped message names that status.
var ErrInvalidTransition = errors.New("invalid transition")

const defaultRejectReason = "no reason given"

// PublishedPost is the remote publisher's view of a created post.
type PublishedPost struct {
	RemoteID int
	Link     string
}

// Publisher hands approved content to the external content-management
// system. Calls may fail; the pipeline does not retry them.
type Publisher interface {
	Publish(ctx context.Context, site models.Site, title, body string) (PublishedPost, error)
}

// ContentLifecycleService drives the moderation state machine. Every
// transition re-checks the source status and writes its audit entry in
// one transaction.
type ContentLifecycleService interface {
	List(ctx context.Context, req dto.ContentListRequest) (dto.ContentListResponse, error)
	CreateDraft(ctx context.Context, req dto.CreateDraftRequest, actor AuditActor) (dto.ContentItemResponse, error)
	Approve(ctx context.Context, contentID uint, actor AuditActor) (dto.ContentItemResponse, error)
	Reject(ctx context.Context, contentID uint, actor AuditActor, reason string) (dto.ContentItemResponse, error)
	Publish(ctx context.Context, contentID uint, actor AuditActor) (dto.PublishContentResponse, error)
}

type contentLifecycleService struct {
	content   repository.ContentRepository
	sites     repository.SiteRepository
	publisher Publisher
	validator *validator.Validate
	policy    *bluemonday.Policy
	logger    zerolog.Logger
}

// NewContentLifecycleService constructs the lifecycle service. publisher
// may be nil; publish then only performs the local status flip.
func NewContentLifecycleService(content repository.ContentRepository, sites repository.SiteRepository, publisher Publisher, validate *validator.Validate, logger zerolog.Logger) ContentLifecycleService {
	return &contentLifecycleService{
		content:   content,
		sites:     sites,
		publisher: publisher,
		validator: validate,
		policy:    bluemonday.UGCPolicy(),
		logger:    logger.With().Str("component", "content_lifecycle_service").Logger(),
	}
}

func (s *contentLifecycleService) List(ctx context.Context, req dto.ContentListRequest) (dto.ContentListResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ContentListResponse{}, err
	}

	page := maxInt(req.Page, 1)
	pageSize := clampPageSize(req.PageSize)

	items, total, err := s.content.List(ctx, repository.ContentFilter{
		SiteID:   req.SiteID,
		Status:   req.Status,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return dto.ContentListResponse{}, err
	}

	responses := make([]dto.ContentItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, newContentItemResponse(item))
	}

	return dto.ContentListResponse{
		Items:      responses,
		Pagination: paginationMeta(page, pageSize, total),
	}, nil
}

func (s *contentLifecycleService) CreateDraft(ctx context.Context, req dto.CreateDraftRequest, actor AuditActor) (dto.ContentItemResponse, error) {
	if !permissions.HasPermission(actor.Role, permissions.PermissionContentApprove) {
		return dto.ContentItemResponse{}, ErrPermissionDenied
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.ContentItemResponse{}, err
	}

	if _, err := s.sites.GetByID(ctx, req.SiteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ContentItemResponse{}, fmt.Errorf("%w: site %d", ErrContentNotFound, req.SiteID)
		}
		return dto.ContentItemResponse{}, err
	}

	item := models.ContentItem{
		SiteID: req.SiteID,
		Title:  strings.TrimSpace(req.Title),
		Body:   req.Body,
		Status: models.ContentStatusPending,
	}
	if err := s.content.Create(ctx, &item); err != nil {
		return dto.ContentItemResponse{}, err
	}

	s.logger.Info().Uint("content_id", item.ID).Uint("site_id", item.SiteID).Uint("actor_id", actor.ID).Msg("manual draft created")
	return newContentItemResponse(item), nil
}

func (s *contentLifecycleService) Approve(ctx context.Context, contentID uint, actor AuditActor) (dto.ContentItemResponse, error) {
	item, err := s.transition(ctx, contentID, actor,
		permissions.PermissionContentApprove,
		models.AuditActionApprove,
		[]string{models.ContentStatusPending},
		models.ContentStatusApproved,
		nil,
	)
	if err != nil {
		return dto.ContentItemResponse{}, err
	}
	return newContentItemResponse(item), nil
}

func (s *contentLifecycleService) Reject(ctx context.Context, contentID uint, actor AuditActor, reason string) (dto.ContentItemResponse, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultRejectReason
	}

	item, err := s.transition(ctx, contentID, actor,
		permissions.PermissionContentReject,
		models.AuditActionReject,
		[]string{models.ContentStatusPending, models.ContentStatusApproved},
		models.ContentStatusRejected,
		&reason,
	)
	if err != nil {
		return dto.ContentItemResponse{}, err
	}
	return newContentItemResponse(item), nil
}

// Publish flips the item to published and records the audit entry, then
// hands the sanitized body to the remote publisher. The flip is durable:
// a failing remote call is reported in the response, never rolled back,
// so a retried publish cannot double-post.
func (s *contentLifecycleService) Publish(ctx context.Context, contentID uint, actor AuditActor) (dto.PublishContentResponse, error) {
	item, err := s.transition(ctx, contentID, actor,
		permissions.PermissionContentPublish,
		models.AuditActionPublish,
		[]string{models.ContentStatusApproved},
		models.ContentStatusPublished,
		nil,
	)
	if err != nil {
		return dto.PublishContentResponse{}, err
	}

	response := dto.PublishContentResponse{
		Item:         newContentItemResponse(item),
		RemoteStatus: "skipped",
	}
	if s.publisher == nil {
		return response, nil
	}

	site, err := s.sites.GetByID(ctx, item.SiteID)
	if err != nil {
		observability.PublisherFailures().Inc()
		s.logger.Error().Err(err).Uint("content_id", item.ID).Uint("site_id", item.SiteID).Msg("site lookup failed after publish flip")
		response.RemoteStatus = "failed"
		return response, nil
	}

	body := ""
	if item.Body != nil {
		body = s.policy.Sanitize(*item.Body)
	}

	post, err := s.publisher.Publish(ctx, site, item.Title, body)
	if err != nil {
		observability.PublisherFailures().Inc()
		s.logger.Error().Err(err).Uint("content_id", item.ID).Uint("site_id", site.ID).Msg("remote publish failed; local status remains published")
		response.RemoteStatus = "failed"
		return response, nil
	}

	response.RemoteID = post.RemoteID
	response.RemoteLink = post.Link
	response.RemoteStatus = "published"
	return response, nil
}

func (s *contentLifecycleService) transition(ctx context.Context, contentID uint, actor AuditActor, required permissions.Permission, action string, from []string, to string, note *string) (models.ContentItem, error) {
	tracer := otel.Tracer("github.com/autoseo-dev/autoseo-api/internal/service/content_lifecycle")
	ctx, span := tracer.Start(ctx, "content."+action)
	span.SetAttributes(
		attribute.Int64("content.id", int64(contentID)),
		attribute.Int64("content.actor_id", int64(actor.ID)),
	)
	defer span.End()

	if !permissions.HasPermission(actor.Role, required) {
		span.SetStatus(codes.Error, "permission_denied")
		return models.ContentItem{}, ErrPermissionDenied
	}

	audit := newAuditEntry(actor, action, models.AuditTargetContent, contentID, note, nil)
	item, err := s.content.Transition(ctx, contentID, from, to, audit)
	if err != nil {
		var conflict *repository.StatusConflictError
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			span.SetStatus(codes.Error, "not_found")
			return models.ContentItem{}, ErrContentNotFound
		case errors.As(err, &conflict):
			span.SetStatus(codes.Error, "invalid_transition")
			return models.ContentItem{}, fmt.Errorf("%w: content is already %s", ErrInvalidTransition, conflict.Current)
		default:
			span.RecordError(err)
			span.SetStatus(codes.Error, "transition_failed")
			return models.ContentItem{}, err
		}
	}

	observability.ModerationTransitions().WithLabelValues(action).Inc()
	s.logger.Info().Uint("content_id", item.ID).Str("action", action).Uint("actor_id", actor.ID).Msg("content transition applied")
	return item, nil
}

func newContentItemResponse(item models.ContentItem) dto.ContentItemResponse {
	return dto.ContentItemResponse{
		ID:        item.ID,
		SiteID:    item.SiteID,
		Title:     item.Title,
		Body:      item.Body,
		Status:    item.Status,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
