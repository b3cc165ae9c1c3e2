package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/autoseo-dev/autoseo-api/internal/models"
	"github.com/autoseo-dev/autoseo-api/internal/permissions"
)

// RoleRepository reads role rows and seeds the built-in tiers.
type RoleRepository interface {
	GetByName(ctx context.Context, name string) (models.Role, error)
	EnsureDefaults(ctx context.Context) error
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository constructs the role repository.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("name = ?", permissions.NormalizeRole(name)).First(&role).Error
	return role, err
}

// EnsureDefaults creates the built-in roles when missing. Existing rows,
// including operator-tuned member limits, are left untouched.
func (r *roleRepository) EnsureDefaults(ctx context.Context) error {
	defaults := []models.Role{
		{Name: permissions.RoleAdmin, MaxUsers: 1},
		{Name: permissions.RoleManager, MaxUsers: 5},
		{Name: permissions.RoleViewer, MaxUsers: -1},
	}
	for _, role := range defaults {
		var existing models.Role
		err := r.db.WithContext(ctx).Where("name = ?", role.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := r.db.WithContext(ctx).Create(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
