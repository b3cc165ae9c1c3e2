package dto

import "time"

// ContentItemResponse is the external view of a queue item.
type ContentItemResponse struct {
	ID        uint      `json:"id"`
	SiteID    uint      `json:"site_id"`
	Title     string    `json:"title"`
	Body      *string   `json:"body"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContentListRequest filters the moderation queue.
type ContentListRequest struct {
	SiteID   *uint  `json:"site_id"`
	Status   string `json:"status" validate:"omitempty,oneof=pending approved rejected published"`
	Page     int    `json:"page" validate:"omitempty,min=1"`
	PageSize int    `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// ContentListResponse pages the moderation queue.
type ContentListResponse struct {
	Items      []ContentItemResponse `json:"items"`
	Pagination PaginationMeta        `json:"pagination"`
}

// CreateDraftRequest is the manual draft entry point.
type CreateDraftRequest struct {
	SiteID uint    `json:"site_id" validate:"required"`
	Title  string  `json:"title" validate:"required,max=500"`
	Body   *string `json:"body"`
}

// RejectContentRequest carries the optional rejection reason.
type RejectContentRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=2000"`
}

// PublishContentResponse reports the local status flip plus the outcome
// of the remote publisher call, which is not part of the flip's
// atomicity.
type PublishContentResponse struct {
	Item         ContentItemResponse `json:"item"`
	RemoteID     int                 `json:"remote_id,omitempty"`
	RemoteLink   string              `json:"remote_link,omitempty"`
	RemoteStatus string              `json:"remote_status"`
}
