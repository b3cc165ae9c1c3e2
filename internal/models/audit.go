package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions recorded by the pipeline.
const (
	AuditActionApprove           = "approve"
	AuditActionReject            = "reject"
	AuditActionPublish           = "publish"
	AuditActionRoleGrant         = "role_grant"
	AuditActionRoleRevoke        = "role_revoke"
	AuditActionApplicationReview = "application_review"
)

// Audit target types.
const (
	AuditTargetContent         = "content"
	AuditTargetUser            = "user"
	AuditTargetRoleApplication = "role_application"
)

// AuditLog is an append-only record of who did what to which entity.
// Entries are written in the same transaction as the state change they
// describe and are never mutated or deleted.
type AuditLog struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	ActorUserID uint              `gorm:"index;not null" json:"actor_user_id"`
	Action      string            `gorm:"size:64;index;not null" json:"action"`
	TargetType  string            `gorm:"size:64;index;not null" json:"target_type"`
	TargetID    uint              `gorm:"not null" json:"target_id"`
	Note        *string           `gorm:"type:text" json:"note"`
	Metadata    datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt   time.Time         `gorm:"index" json:"created_at"`
}
