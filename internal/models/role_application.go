package models

import "time"

// Role application statuses.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusApproved = "approved"
	ApplicationStatusRejected = "rejected"
)

// RoleApplication is a user-initiated request for promotion to a
// higher-privilege role. The partial unique index on UserID enforces at
// most one pending application per user at the database level, so the
// invariant holds even for concurrent inserts.
type RoleApplication struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index:uniq_role_applications_pending_user,unique,where:status = 'pending'" json:"user_id"`
	RequestedRole string     `gorm:"size:50;not null" json:"requested_role"`
	Reason        string     `gorm:"type:text" json:"reason"`
	Status        string     `gorm:"size:20;index;not null;default:'pending'" json:"status"`
	ReviewedBy    *uint      `json:"reviewed_by"`
	ReviewedAt    *time.Time `json:"reviewed_at"`
	AdminNotes    string     `gorm:"type:text" json:"admin_notes"`
	CreatedAt     time.Time  `json:"created_at"`
}
