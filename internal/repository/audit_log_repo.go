package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/autoseo-dev/autoseo-api/internal/models"
)

// AuditLogFilter narrows audit trail queries.
type AuditLogFilter struct {
	Page       int
	PageSize   int
	ActorID    *uint
	Action     string
	TargetType string
}

// AuditLogRepository persists the append-only audit trail. Entries tied
// to a state change are created inside that change's transaction by the
// owning repository; Create exists for standalone records.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]models.AuditLog, int64, error)
}

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository constructs the audit log repository.
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepository) List(ctx context.Context, filter AuditLogFilter) ([]models.AuditLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.AuditLog{})

	if filter.ActorID != nil {
		query = query.Where("actor_user_id = ?", *filter.ActorID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.TargetType != "" {
		query = query.Where("target_type = ?", filter.TargetType)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var entries []models.AuditLog
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
