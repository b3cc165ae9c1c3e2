package dto

import "time"

// AuditLogListRequest filters the audit trail.
type AuditLogListRequest struct {
	ActorID    *uint  `json:"actor_id"`
	Action     string `json:"action" validate:"omitempty,max=64"`
	TargetType string `json:"target_type" validate:"omitempty,max=64"`
	Page       int    `json:"page" validate:"omitempty,min=1"`
	PageSize   int    `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// AuditLogResponse is the external view of one audit entry.
type AuditLogResponse struct {
	ID          uint                   `json:"id"`
	ActorUserID uint                   `json:"actor_user_id"`
	Action      string                 `json:"action"`
	TargetType  string                 `json:"target_type"`
	TargetID    uint                   `json:"target_id"`
	Note        *string                `json:"note"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// AuditLogListResponse pages audit entries.
type AuditLogListResponse struct {
	Items      []AuditLogResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}
