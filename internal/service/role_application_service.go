package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/autoseo-dev/autoseo-api/internal/dto"
	"github.com/autoseo-dev/autoseo-api/internal/models"
	"github.com/autoseo-dev/autoseo-api/internal/permissions"
	"github.com/autoseo-dev/autoseo-api/internal/repository"
)

// ErrApplicationNotFound indicates the application does not exist.
var ErrApplicationNotFound = errors.New("role application not found")

// ErrAlreadyReviewed indicates the application has left the pending
// state.
var ErrAlreadyReviewed = errors.New("application has already been reviewed")

// ErrDuplicatePending indicates the user already holds a pending
// application.
var ErrDuplicatePending = errors.New("a pending role application already exists")

// ErrAlreadyHasRole indicates the user's current role ranks at or above
// the requested one.
var ErrAlreadyHasRole = errors.New("user already holds the requested role or higher")

// ErrInvalidRequestedRole indicates the requested role is not
// upgradeable.
var ErrInvalidRequestedRole = errors.New("requested role is not upgradeable")

// ErrRoleCapacity indicates the target role is at its member limit.
var ErrRoleCapacity = errors.New("role capacity exceeded")

// ErrNotApplicant indicates the caller does not own the application.
var ErrNotApplicant = errors.New("only the applicant may cancel an application")

// ErrUserNotFound indicates the applicant account does not exist.
var ErrUserNotFound = errors.New("user not found")

// RoleApplicationService runs the role-upgrade workflow: a user applies,
// a privileged reviewer approves or rejects, approval reassigns the role
// subject to capacity.
type RoleApplicationService interface {
	Apply(ctx context.Context, userID uint, req dto.ApplyForRoleRequest) (dto.RoleApplicationResponse, error)
	Review(ctx context.Context, applicationID uint, req dto.ReviewApplicationRequest, actor AuditActor) (dto.RoleApplicationResponse, error)
	Cancel(ctx context.Context, applicationID, userID uint) error
	List(ctx context.Context, page, pageSize int, actor AuditActor) (dto.RoleApplicationListResponse, error)
	ListMine(ctx context.Context, userID uint, page, pageSize int) (dto.RoleApplicationListResponse, error)
}

type roleApplicationService struct {
	applications repository.RoleApplicationRepository
	users        repository.UserRepository
	validator    *validator.Validate
	logger       zerolog.Logger
	now          func() time.Time
}

// NewRoleApplicationService constructs the role application service.
func NewRoleApplicationService(applications repository.RoleApplicationRepository, users repository.UserRepository, validate *validator.Validate, logger zerolog.Logger) RoleApplicationService {
	return &roleApplicationService{
		applications: applications,
		users:        users,
		validator:    validate,
		logger:       logger.With().Str("component", "role_application_service").Logger(),
		now:          time.Now,
	}
}

func (s *roleApplicationService) Apply(ctx context.Context, userID uint, req dto.ApplyForRoleRequest) (dto.RoleApplicationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.RoleApplicationResponse{}, err
	}

	requested := permissions.NormalizeRole(req.RequestedRole)
	if !permissions.IsUpgradeableRole(requested) {
		return dto.RoleApplicationResponse{}, fmt.Errorf("%w: %s", ErrInvalidRequestedRole, requested)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RoleApplicationResponse{}, ErrUserNotFound
		}
		return dto.RoleApplicationResponse{}, err
	}

	if permissions.HierarchyRank(user.Role.Name) >= permissions.HierarchyRank(requested) {
		return dto.RoleApplicationResponse{}, fmt.Errorf("%w: current role %s", ErrAlreadyHasRole, user.Role.Name)
	}

	application := models.RoleApplication{
		UserID:        userID,
		RequestedRole: requested,
		Reason:        strings.TrimSpace(req.Reason),
	}
	if err := s.applications.CreateIfNoPending(ctx, &application); err != nil {
		if errors.Is(err, repository.ErrPendingApplicationExists) {
			return dto.RoleApplicationResponse{}, ErrDuplicatePending
		}
		return dto.RoleApplicationResponse{}, err
	}

	s.logger.Info().Uint("user_id", userID).Str("requested_role", requested).Uint("application_id", application.ID).Msg("role application created")
	return newRoleApplicationResponse(application), nil
}

// Review decides a pending application. Approval, the capacity check,
// the role reassignment, and the audit entry commit as one unit; a
// capacity failure leaves the application pending.
func (s *roleApplicationService) Review(ctx context.Context, applicationID uint, req dto.ReviewApplicationRequest, actor AuditActor) (dto.RoleApplicationResponse, error) {
	if !permissions.HasPermission(actor.Role, permissions.PermissionUsersManage) {
		return dto.RoleApplicationResponse{}, ErrPermissionDenied
	}
	if err := s.validator.Struct(req); err != nil {
		return dto.RoleApplicationResponse{}, err
	}

	approve := req.Decision == models.ApplicationStatusApproved
	notes := strings.TrimSpace(req.Notes)

	var note *string
	if notes != "" {
		note = &notes
	}
	audit := newAuditEntry(actor, models.AuditActionApplicationReview, models.AuditTargetRoleApplication, applicationID, note, map[string]interface{}{
		"decision": req.Decision,
	})

	application, err := s.applications.Review(ctx, applicationID, approve, notes, actor.ID, s.now().UTC(), audit)
	if err != nil {
		var conflict *repository.StatusConflictError
		var capacity *repository.RoleCapacityError
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return dto.RoleApplicationResponse{}, ErrApplicationNotFound
		case errors.As(err, &conflict):
			return dto.RoleApplicationResponse{}, fmt.Errorf("%w: application is %s", ErrAlreadyReviewed, conflict.Current)
		case errors.As(err, &capacity):
			return dto.RoleApplicationResponse{}, fmt.Errorf("%w: role %s has reached maximum users (%d)", ErrRoleCapacity, capacity.Role, capacity.Max)
		case errors.Is(err, repository.ErrRoleMissing):
			return dto.RoleApplicationResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequestedRole, err)
		default:
			return dto.RoleApplicationResponse{}, err
		}
	}

	s.logger.Info().
		Uint("application_id", application.ID).
		Str("decision", req.Decision).
		Uint("reviewer_id", actor.ID).
		Msg("role application reviewed")
	return newRoleApplicationResponse(application), nil
}

func (s *roleApplicationService) Cancel(ctx context.Context, applicationID, userID uint) error {
	err := s.applications.CancelPending(ctx, applicationID, userID)
	if err == nil {
		s.logger.Info().Uint("application_id", applicationID).Uint("user_id", userID).Msg("role application cancelled")
		return nil
	}

	var conflict *repository.StatusConflictError
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrApplicationNotFound
	case errors.Is(err, repository.ErrNotApplicant):
		return ErrNotApplicant
	case errors.As(err, &conflict):
		return fmt.Errorf("%w: application is %s", ErrAlreadyReviewed, conflict.Current)
	default:
		return err
	}
}

func (s *roleApplicationService) List(ctx context.Context, page, pageSize int, actor AuditActor) (dto.RoleApplicationListResponse, error) {
	if !permissions.HasPermission(actor.Role, permissions.PermissionUsersManage) {
		return dto.RoleApplicationListResponse{}, ErrPermissionDenied
	}
	return s.list(ctx, repository.RoleApplicationFilter{Page: maxInt(page, 1), PageSize: clampPageSize(pageSize)})
}

func (s *roleApplicationService) ListMine(ctx context.Context, userID uint, page, pageSize int) (dto.RoleApplicationListResponse, error) {
	return s.list(ctx, repository.RoleApplicationFilter{
		UserID:   &userID,
		Page:     maxInt(page, 1),
		PageSize: clampPageSize(pageSize),
	})
}

func (s *roleApplicationService) list(ctx context.Context, filter repository.RoleApplicationFilter) (dto.RoleApplicationListResponse, error) {
	applications, total, err := s.applications.List(ctx, filter)
	if err != nil {
		return dto.RoleApplicationListResponse{}, err
	}

	items := make([]dto.RoleApplicationResponse, 0, len(applications))
	for _, application := range applications {
		items = append(items, newRoleApplicationResponse(application))
	}

	return dto.RoleApplicationListResponse{
		Items:      items,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func newRoleApplicationResponse(application models.RoleApplication) dto.RoleApplicationResponse {
	return dto.RoleApplicationResponse{
		ID:            application.ID,
		UserID:        application.UserID,
		RequestedRole: application.RequestedRole,
		Reason:        application.Reason,
		Status:        application.Status,
		ReviewedBy:    application.ReviewedBy,
		ReviewedAt:    application.ReviewedAt,
		AdminNotes:    application.AdminNotes,
		CreatedAt:     application.CreatedAt,
	}
}
