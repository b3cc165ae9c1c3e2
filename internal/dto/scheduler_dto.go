package dto

// GenerateDraftRequest triggers one scheduler evaluation for a site.
type GenerateDraftRequest struct {
	SiteID uint `json:"site_id" validate:"required"`
}

// GenerateDraftResponse reports one evaluation outcome. Skips are soft:
// ContentID stays zero and SkipReason names the branch taken.
type GenerateDraftResponse struct {
	SiteID     uint   `json:"site_id"`
	ContentID  uint   `json:"content_id"`
	Generated  bool   `json:"generated"`
	SkipReason string `json:"skip_reason,omitempty"`
}

// RebuildScheduleResponse summarises a full trigger-set recompute.
type RebuildScheduleResponse struct {
	Sites int `json:"sites"`
}
