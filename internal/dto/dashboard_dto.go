package dto

// DashboardStatsResponse aggregates pipeline counters for the dashboard.
type DashboardStatsResponse struct {
	Sites               int64 `json:"sites"`
	PendingContent      int64 `json:"pending_content"`
	ApprovedContent     int64 `json:"approved_content"`
	RejectedContent     int64 `json:"rejected_content"`
	PublishedContent    int64 `json:"published_content"`
	PendingApplications int64 `json:"pending_applications"`
	CacheHit            bool  `json:"cache_hit,omitempty"`
}
