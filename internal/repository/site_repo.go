package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/autoseo-dev/autoseo-api/internal/models"
)

// SiteRepository reads site rows. Sites are owned by the CRUD layer; the
// pipeline never mutates them.
type SiteRepository interface {
	GetByID(ctx context.Context, id uint) (models.Site, error)
	List(ctx context.Context) ([]models.Site, error)
	ListAutoEnabled(ctx context.Context) ([]models.Site, error)
	Count(ctx context.Context) (int64, error)
}

type siteRepository struct {
	db *gorm.DB
}

// NewSiteRepository constructs the site repository.
func NewSiteRepository(db *gorm.DB) SiteRepository {
	return &siteRepository{db: db}
}

func (r *siteRepository) GetByID(ctx context.Context, id uint) (models.Site, error) {
	var site models.Site
	err := r.db.WithContext(ctx).First(&site, id).Error
	return site, err
}

func (r *siteRepository) List(ctx context.Context) ([]models.Site, error) {
	var sites []models.Site
	err := r.db.WithContext(ctx).Order("id ASC").Find(&sites).Error
	return sites, err
}

func (r *siteRepository) ListAutoEnabled(ctx context.Context) ([]models.Site, error) {
	var sites []models.Site
	err := r.db.WithContext(ctx).Where("is_auto_enabled = ?", true).Order("id ASC").Find(&sites).Error
	return sites, err
}

func (r *siteRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Site{}).Count(&total).Error
	return total, err
}
