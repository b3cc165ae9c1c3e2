package service

import (
	"context"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/autoseo-dev/autoseo-api/internal/dto"
	"github.com/autoseo-dev/autoseo-api/internal/models"
	"github.com/autoseo-dev/autoseo-api/internal/repository"
)

// AuditActor is the already-authenticated actor performing an operation,
// with its role resolved by the surrounding auth layer.
type AuditActor struct {
	ID   uint
	Role string
}

// newAuditEntry builds the audit row recorded alongside a state change.
// The owning repository fills TargetID and persists it in-transaction.
func newAuditEntry(actor AuditActor, action, targetType string, targetID uint, note *string, metadata map[string]interface{}) *models.AuditLog {
	entry := &models.AuditLog{
		ActorUserID: actor.ID,
		Action:      action,
		TargetType:  targetType,
		TargetID:    targetID,
		Note:        note,
	}
	if len(metadata) > 0 {
		entry.Metadata = datatypes.JSONMap(metadata)
	}
	return entry
}

// AuditService exposes the read side of the audit trail.
type AuditService interface {
	List(ctx context.Context, req dto.AuditLogListRequest) (dto.AuditLogListResponse, error)
}

type auditService struct {
	repo   repository.AuditLogRepository
	logger zerolog.Logger
}

// NewAuditService constructs the audit service.
func NewAuditService(repo repository.AuditLogRepository, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) List(ctx context.Context, req dto.AuditLogListRequest) (dto.AuditLogListResponse, error) {
	page := maxInt(req.Page, 1)
	pageSize := clampPageSize(req.PageSize)

	entries, total, err := s.repo.List(ctx, repository.AuditLogFilter{
		Page:       page,
		PageSize:   pageSize,
		ActorID:    req.ActorID,
		Action:     req.Action,
		TargetType: req.TargetType,
	})
	if err != nil {
		return dto.AuditLogListResponse{}, err
	}

	items := make([]dto.AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, newAuditLogResponse(entry))
	}

	return dto.AuditLogListResponse{
		Items:      items,
		Pagination: paginationMeta(page, pageSize, total),
	}, nil
}

func newAuditLogResponse(entry models.AuditLog) dto.AuditLogResponse {
	response := dto.AuditLogResponse{
		ID:          entry.ID,
		ActorUserID: entry.ActorUserID,
		Action:      entry.Action,
		TargetType:  entry.TargetType,
		TargetID:    entry.TargetID,
		Note:        entry.Note,
		CreatedAt:   entry.CreatedAt,
	}
	if len(entry.Metadata) > 0 {
		response.Metadata = map[string]interface{}(entry.Metadata)
	}
	return response
}
