package models

import "time"

// Content item statuses. Transitions run pending -> approved|rejected and
// approved -> published|rejected; rejected and published are terminal.
const (
	ContentStatusPending   = "pending"
	ContentStatusApproved  = "approved"
	ContentStatusRejected  = "rejected"
	ContentStatusPublished = "published"
)

// ContentItem is a generated draft moving through the moderation queue.
// Rows are created in status pending and are never deleted.
type ContentItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SiteID    uint      `gorm:"index;not null" json:"site_id"`
	Title     string    `gorm:"size:500;not null" json:"title"`
	Body      *string   `gorm:"type:text" json:"body"`
	Status    string    `gorm:"size:32;index;not null;default:'pending'" json:"status"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
