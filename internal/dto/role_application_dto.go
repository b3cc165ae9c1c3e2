package dto

import "time"

// ApplyForRoleRequest opens a role-upgrade application.
type ApplyForRoleRequest struct {
	RequestedRole string `json:"requested_role" validate:"required,max=50"`
	Reason        string `json:"reason" validate:"omitempty,max=2000"`
}

// ReviewApplicationRequest decides a pending application.
type ReviewApplicationRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Notes    string `json:"notes" validate:"omitempty,max=2000"`
}

// RoleApplicationResponse is the external view of an application.
type RoleApplicationResponse struct {
	ID            uint       `json:"id"`
	UserID        uint       `json:"user_id"`
	RequestedRole string     `json:"requested_role"`
	Reason        string     `json:"reason"`
	Status        string     `json:"status"`
	ReviewedBy    *uint      `json:"reviewed_by"`
	ReviewedAt    *time.Time `json:"reviewed_at"`
	AdminNotes    string     `json:"admin_notes"`
	CreatedAt     time.Time  `json:"created_at"`
}

// RoleApplicationListResponse pages applications.
type RoleApplicationListResponse struct {
	Items      []RoleApplicationResponse `json:"items"`
	Pagination PaginationMeta            `json:"pagination"`
}
