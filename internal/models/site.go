package models

import "time"

// DefaultScheduleSpec is the five-field cron expression used whenever a
// site carries a malformed schedule descriptor: top of every hour.
const DefaultScheduleSpec = "0 * * * *"

// Site is an external publishing target. The CRUD layer owns these rows;
// the pipeline only reads the auto-generation configuration and the
// WordPress connection fields.
type Site struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"size:255;not null" json:"name"`
	WPBaseURL     string `gorm:"size:500;not null" json:"wp_base_url"`
	WPUsername    string `gorm:"size:255" json:"wp_username"`
	WPPasswordEnc string `gorm:"size:500" json:"-"`

	IsAutoEnabled bool   `gorm:"not null;default:false" json:"is_auto_enabled"`
	ScheduleCron  string `gorm:"size:64;default:'0 * * * *'" json:"schedule_cron"`
	// DailyQuota bounds drafts generated per UTC calendar day. Nil means
	// unlimited; zero disables generation entirely.
	DailyQuota      *int `json:"daily_quota"`
	ActiveStartHour int  `gorm:"not null;default:0" json:"active_start_hour"`
	ActiveEndHour   int  `gorm:"not null;default:0" json:"active_end_hour"`

	CreatedAt time.Time `json:"created_at"`
}
