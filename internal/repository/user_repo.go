package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/autoseo-dev/autoseo-api/internal/models"
)

// UserRepository reads user accounts. Role reassignment happens inside
// the role application review transaction, not here.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (models.User, error)
	CountByRoleID(ctx context.Context, roleID uint) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs the user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Role").First(&user, id).Error
	return user, err
}

func (r *userRepository) CountByRoleID(ctx context.Context, roleID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("role_id = ?", roleID).Count(&total).Error
	return total, err
}
