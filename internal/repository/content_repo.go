package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/autoseo-dev/autoseo-api/internal/models"
)

// ContentFilter narrows content queue queries.
type ContentFilter struct {
	SiteID   *uint
	Status   string
	Page     int
	PageSize int
}

// ContentRepository persists content items. Status changes go through
// Transition, which re-checks the source status and writes the audit
// entry in one transaction.
type ContentRepository interface {
	GetByID(ctx context.Context, id uint) (models.ContentItem, error)
	Create(ctx context.Context, item *models.ContentItem) error
	List(ctx context.Context, filter ContentFilter) ([]models.ContentItem, int64, error)
	CountForSiteSince(ctx context.Context, siteID uint, since time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	Transition(ctx context.Context, id uint, from []string, to string, audit *models.AuditLog) (models.ContentItem, error)
}

type contentRepository struct {
	db *gorm.DB
}

// NewContentRepository constructs the content repository.
func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) GetByID(ctx context.Context, id uint) (models.ContentItem, error) {
	var item models.ContentItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	return item, err
}

func (r *contentRepository) Create(ctx context.Context, item *models.ContentItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *contentRepository) List(ctx context.Context, filter ContentFilter) ([]models.ContentItem, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ContentItem{})

	if filter.SiteID != nil {
		query = query.Where("site_id = ?", *filter.SiteID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var items []models.ContentItem
	if err := query.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *contentRepository) CountForSiteSince(ctx context.Context, siteID uint, since time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.ContentItem{}).
		Where("site_id = ? AND created_at >= ?", siteID, since).
		Count(&total).Error
	return total, err
}

func (r *contentRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Total  int64
	}
	var rows []statusCount
	err := r.db.WithContext(ctx).
		Model(&models.ContentItem{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// Transition moves the item to the target status if its current status is
// one of the accepted source states, writing the audit entry in the same
// transaction. A mismatched source state aborts with StatusConflictError
// carrying the observed status.
func (r *contentRepository) Transition(ctx context.Context, id uint, from []string, to string, audit *models.AuditLog) (models.ContentItem, error) {
	var item models.ContentItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&item, id).Error; err != nil {
			return err
		}

		accepted := false
		for _, status := range from {
			if item.Status == status {
				accepted = true
				break
			}
		}
		if !accepted {
			return &StatusConflictError{Current: item.Status}
		}

		item.Status = to
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		if audit != nil {
			audit.TargetID = item.ID
			if err := tx.Create(audit).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return item, err
}
