package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/autoseo-dev/autoseo-api/internal/models"
)

func seedRoles(t *testing.T, db *gorm.DB) (admin, manager, viewer models.Role) {
	t.Helper()
	admin = models.Role{Name: "admin", MaxUsers: 1}
	manager = models.Role{Name: "manager", MaxUsers: 5}
	viewer = models.Role{Name: "viewer", MaxUsers: -1}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&manager).Error)
	require.NoError(t, db.Create(&viewer).Error)
	return admin, manager, viewer
}

func TestCreateIfNoPendingRejectsDuplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoleApplicationRepository(db)

	first := models.RoleApplication{UserID: 10, RequestedRole: "manager"}
	require.NoError(t, repo.CreateIfNoPending(context.Background(), &first))
	require.Equal(t, models.ApplicationStatusPending, first.Status)

	second := models.RoleApplication{UserID: 10, RequestedRole: "admin"}
	err := repo.CreateIfNoPending(context.Background(), &second)
	require.ErrorIs(t, err, ErrPendingApplicationExists)

	// a different user is unaffected
	other := models.RoleApplication{UserID: 11, RequestedRole: "manager"}
	require.NoError(t, repo.CreateIfNoPending(context.Background(), &other))
}

func TestPendingApplicationsUniquePerUserAtDatabaseLevel(t *testing.T) {
	db := setupTestDB(t)

	first := models.RoleApplication{UserID: 10, RequestedRole: "manager", Status: models.ApplicationStatusPending}
	require.NoError(t, db.Create(&first).Error)

	// an insert that skips the repository's count check still cannot
	// create a second pending row for the same user
	racer := models.RoleApplication{UserID: 10, RequestedRole: "admin", Status: models.ApplicationStatusPending}
	require.ErrorIs(t, db.Create(&racer).Error, gorm.ErrDuplicatedKey)

	// reviewed rows are outside the index: history accumulates freely
	require.NoError(t, db.Model(&first).Update("status", models.ApplicationStatusRejected).Error)
	second := models.RoleApplication{UserID: 10, RequestedRole: "manager", Status: models.ApplicationStatusPending}
	require.NoError(t, db.Create(&second).Error)

	repo := NewRoleApplicationRepository(db)
	third := models.RoleApplication{UserID: 10, RequestedRole: "admin"}
	require.ErrorIs(t, repo.CreateIfNoPending(context.Background(), &third), ErrPendingApplicationExists)
}

func TestReviewApprovalReassignsRole(t *testing.T) {
	db := setupTestDB(t)
	_, managerRole, viewerRole := seedRoles(t, db)
	repo := NewRoleApplicationRepository(db)

	user := models.User{Email: "a@example.com", RoleID: viewerRole.ID}
	require.NoError(t, db.Create(&user).Error)

	application := models.RoleApplication{UserID: user.ID, RequestedRole: "manager", Status: models.ApplicationStatusPending}
	require.NoError(t, db.Create(&application).Error)

	audit := &models.AuditLog{ActorUserID: 1, Action: models.AuditActionApplicationReview, TargetType: models.AuditTargetRoleApplication}
	reviewed, err := repo.Review(context.Background(), application.ID, true, "approved", 1, time.Now().UTC(), audit)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.ReviewedBy)
	require.Equal(t, uint(1), *reviewed.ReviewedBy)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.Equal(t, managerRole.ID, reloaded.RoleID)

	var entries []models.AuditLog
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	require.Equal(t, application.ID, entries[0].TargetID)
}

func TestReviewApprovalEnforcesCapacity(t *testing.T) {
	db := setupTestDB(t)
	adminRole, _, viewerRole := seedRoles(t, db)
	repo := NewRoleApplicationRepository(db)

	incumbent := models.User{Email: "boss@example.com", RoleID: adminRole.ID}
	require.NoError(t, db.Create(&incumbent).Error)

	applicant := models.User{Email: "next@example.com", RoleID: viewerRole.ID}
	require.NoError(t, db.Create(&applicant).Error)

	application := models.RoleApplication{UserID: applicant.ID, RequestedRole: "admin", Status: models.ApplicationStatusPending}
	require.NoError(t, db.Create(&application).Error)

	_, err := repo.Review(context.Background(), application.ID, true, "", 1, time.Now().UTC(), nil)

	var capacity *RoleCapacityError
	require.ErrorAs(t, err, &capacity)
	require.Equal(t, "admin", capacity.Role)
	require.Equal(t, 1, capacity.Max)

	// the whole review rolled back: application still pending, role unchanged
	var reloadedApp models.RoleApplication
	require.NoError(t, db.First(&reloadedApp, application.ID).Error)
	require.Equal(t, models.ApplicationStatusPending, reloadedApp.Status)

	var reloadedUser models.User
	require.NoError(t, db.First(&reloadedUser, applicant.ID).Error)
	require.Equal(t, viewerRole.ID, reloadedUser.RoleID)
}

func TestReviewRejectionLeavesRoleUnchanged(t *testing.T) {
	db := setupTestDB(t)
	_, _, viewerRole := seedRoles(t, db)
	repo := NewRoleApplicationRepository(db)

	user := models.User{Email: "a@example.com", RoleID: viewerRole.ID}
	require.NoError(t, db.Create(&user).Error)

	application := models.RoleApplication{UserID: user.ID, RequestedRole: "manager", Status: models.ApplicationStatusPending}
	require.NoError(t, db.Create(&application).Error)

	reviewed, err := repo.Review(context.Background(), application.ID, false, "not yet", 1, time.Now().UTC(), nil)
	require.NoError(t, err)
	require.Equal(t, models.ApplicationStatusRejected, reviewed.Status)
	require.Equal(t, "not yet", reviewed.AdminNotes)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	require.Equal(t, viewerRole.ID, reloaded.RoleID)
}

func TestReviewNonPendingConflicts(t *testing.T) {
	db := setupTestDB(t)
	seedRoles(t, db)
	repo := NewRoleApplicationRepository(db)

	application := models.RoleApplication{UserID: 10, RequestedRole: "manager", Status: models.ApplicationStatusApproved}
	require.NoError(t, db.Create(&application).Error)

	_, err := repo.Review(context.Background(), application.ID, true, "", 1, time.Now().UTC(), nil)

	var conflict *StatusConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, models.ApplicationStatusApproved, conflict.Current)
}

func TestCancelPendingChecksOwnerAndStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRoleApplicationRepository(db)

	application := models.RoleApplication{UserID: 10, RequestedRole: "manager", Status: models.ApplicationStatusPending}
	require.NoError(t, db.Create(&application).Error)

	require.ErrorIs(t, repo.CancelPending(context.Background(), application.ID, 11), ErrNotApplicant)
	require.NoError(t, repo.CancelPending(context.Background(), application.ID, 10))

	var count int64
	require.NoError(t, db.Model(&models.RoleApplication{}).Count(&count).Error)
	require.Zero(t, count)

	require.ErrorIs(t, repo.CancelPending(context.Background(), application.ID, 10), gorm.ErrRecordNotFound)
}
