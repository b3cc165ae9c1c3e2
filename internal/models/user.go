package models

import "time"

// Role represents a named privilege tier. MaxUsers of -1 means the role
// accepts an unlimited number of members.
type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	MaxUsers  int       `gorm:"not null;default:-1" json:"max_users"`
	CreatedAt time.Time `json:"created_at"`
}

// User is an authenticated account. Every user holds exactly one role;
// new accounts default to the lowest-privilege role.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	RoleID    uint      `gorm:"index;not null" json:"role_id"`
	Role      Role      `json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminGrant marks a user as privileged independently of the role table.
// It backs the Authorizer alongside the statically configured admin IDs.
type AdminGrant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
