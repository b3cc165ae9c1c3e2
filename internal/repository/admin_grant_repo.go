package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/autoseo-dev/autoseo-api/internal/models"
)

// AdminGrantRepository persists the DB-backed admin allowlist consumed by
// the Authorizer.
type AdminGrantRepository interface {
	HasGrant(ctx context.Context, userID uint) (bool, error)
	Grant(ctx context.Context, userID uint) error
	Revoke(ctx context.Context, userID uint) error
}

type adminGrantRepository struct {
	db *gorm.DB
}

// NewAdminGrantRepository constructs the admin grant repository.
func NewAdminGrantRepository(db *gorm.DB) AdminGrantRepository {
	return &adminGrantRepository{db: db}
}

func (r *adminGrantRepository) HasGrant(ctx context.Context, userID uint) (bool, error) {
	var grant models.AdminGrant
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&grant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *adminGrantRepository) Grant(ctx context.Context, userID uint) error {
	existing, err := r.HasGrant(ctx, userID)
	if err != nil {
		return err
	}
	if existing {
		return nil
	}
	return r.db.WithContext(ctx).Create(&models.AdminGrant{UserID: userID}).Error
}

func (r *adminGrantRepository) Revoke(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.AdminGrant{}).Error
}
