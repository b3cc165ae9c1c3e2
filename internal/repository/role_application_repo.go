package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/autoseo-dev/autoseo-api/internal/models"
	"github.com/autoseo-dev/autoseo-api/internal/permissions"
)

// RoleApplicationFilter narrows application listings.
type RoleApplicationFilter struct {
	UserID   *uint
	Status   string
	Page     int
	PageSize int
}

// RoleApplicationRepository persists role-upgrade requests. The pending
// singularity check, the review decision, and the capacity-guarded role
// reassignment each run as a single transaction.
type RoleApplicationRepository interface {
	GetByID(ctx context.Context, id uint) (models.RoleApplication, error)
	List(ctx context.Context, filter RoleApplicationFilter) ([]models.RoleApplication, int64, error)
	CountPending(ctx context.Context) (int64, error)
	CreateIfNoPending(ctx context.Context, application *models.RoleApplication) error
	Review(ctx context.Context, id uint, approve bool, notes string, reviewerID uint, reviewedAt time.Time, audit *models.AuditLog) (models.RoleApplication, error)
	CancelPending(ctx context.Context, id, userID uint) error
}

type roleApplicationRepository struct {
	db *gorm.DB
}

// NewRoleApplicationRepository constructs the role application repository.
func NewRoleApplicationRepository(db *gorm.DB) RoleApplicationRepository {
	return &roleApplicationRepository{db: db}
}

func (r *roleApplicationRepository) GetByID(ctx context.Context, id uint) (models.RoleApplication, error) {
	var application models.RoleApplication
	err := r.db.WithContext(ctx).First(&application, id).Error
	return application, err
}

func (r *roleApplicationRepository) List(ctx context.Context, filter RoleApplicationFilter) ([]models.RoleApplication, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.RoleApplication{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
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

	var applications []models.RoleApplication
	if err := query.Order("created_at DESC").Find(&applications).Error; err != nil {
		return nil, 0, err
	}
	return applications, total, nil
}

func (r *roleApplicationRepository) CountPending(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.RoleApplication{}).
		Where("status = ?", models.ApplicationStatusPending).
		Count(&total).Error
	return total, err
}

// CreateIfNoPending inserts the application unless the user already has a
// pending one. The count is only a fast path; the real guarantee is the
// partial unique index on (user_id) where status = 'pending', which makes
// a losing concurrent insert fail with a duplicate-key error mapped here.
func (r *roleApplicationRepository) CreateIfNoPending(ctx context.Context, application *models.RoleApplication) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		err := tx.Model(&models.RoleApplication{}).
			Where("user_id = ? AND status = ?", application.UserID, models.ApplicationStatusPending).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrPendingApplicationExists
		}
		application.Status = models.ApplicationStatusPending
		if err := tx.Create(application).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrPendingApplicationExists
			}
			return err
		}
		return nil
	})
}

// Review decides a pending application. Rejection records the decision;
// approval additionally checks the target role's member limit and
// reassigns the applicant's role. Everything, including the audit entry,
// commits or rolls back as one unit, so a capacity failure leaves the
// application pending and the applicant untouched.
func (r *roleApplicationRepository) Review(ctx context.Context, id uint, approve bool, notes string, reviewerID uint, reviewedAt time.Time, audit *models.AuditLog) (models.RoleApplication, error) {
	var application models.RoleApplication
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&application, id).Error; err != nil {
			return err
		}
		if application.Status != models.ApplicationStatusPending {
			return &StatusConflictError{Current: application.Status}
		}

		if approve {
			var role models.Role
			name := permissions.NormalizeRole(application.RequestedRole)
			if err := tx.Where("name = ?", name).First(&role).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrRoleMissing, name)
				}
				return err
			}

			if role.MaxUsers != -1 {
				var members int64
				if err := tx.Model(&models.User{}).Where("role_id = ?", role.ID).Count(&members).Error; err != nil {
					return err
				}
				if members >= int64(role.MaxUsers) {
					return &RoleCapacityError{Role: role.Name, Max: role.MaxUsers}
				}
			}

			if err := tx.Model(&models.User{}).Where("id = ?", application.UserID).Update("role_id", role.ID).Error; err != nil {
				return err
			}
			application.Status = models.ApplicationStatusApproved
		} else {
			application.Status = models.ApplicationStatusRejected
		}

		application.ReviewedBy = &reviewerID
		application.ReviewedAt = &reviewedAt
		application.AdminNotes = notes
		if err := tx.Save(&application).Error; err != nil {
			return err
		}

		if audit != nil {
			audit.TargetID = application.ID
			if err := tx.Create(audit).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return application, err
}

// CancelPending removes the caller's own pending application.
func (r *roleApplicationRepository) CancelPending(ctx context.Context, id, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var application models.RoleApplication
		if err := lockForUpdate(tx).First(&application, id).Error; err != nil {
			return err
		}
		if application.UserID != userID {
			return ErrNotApplicant
		}
		if application.Status != models.ApplicationStatusPending {
			return &StatusConflictError{Current: application.Status}
		}
		return tx.Delete(&application).Error
	})
}
