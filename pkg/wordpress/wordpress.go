package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/autoseo-dev/autoseo-api/internal/models"
	"github.com/autoseo-dev/autoseo-api/internal/service"
)

// Config defines configuration options for the WordPress publisher.
type Config struct {
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Client publishes content to WordPress sites over the REST v2 API.
// Credentials come from the site row; the password field is opaque to
// this client.
type Client struct {
	http   *http.Client
	logger zerolog.Logger
}

// New builds a WordPress publisher client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:   &http.Client{Timeout: timeout},
		logger: cfg.Logger.With().Str("component", "wordpress_client").Logger(),
	}
}

type createPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

type createPostResponse struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

// Publish creates a published post on the site's WordPress instance.
func (c *Client) Publish(ctx context.Context, site models.Site, title, body string) (service.PublishedPost, error) {
	if strings.TrimSpace(site.WPBaseURL) == "" {
		return service.PublishedPost{}, fmt.Errorf("site %d has no wordpress base url", site.ID)
	}

	endpoint := strings.TrimRight(site.WPBaseURL, "/") + "/wp-json/wp/v2/posts"

	payload, err := json.Marshal(createPostRequest{
		Title:   title,
		Content: body,
		Status:  "publish",
	})
	if err != nil {
		return service.PublishedPost{}, fmt.Errorf("failed to encode post payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return service.PublishedPost{}, fmt.Errorf("failed to build publish request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(site.WPUsername, site.WPPasswordEnc)

	resp, err := c.http.Do(req)
	if err != nil {
		return service.PublishedPost{}, fmt.Errorf("wordpress request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return service.PublishedPost{}, fmt.Errorf("wordpress returned status %d", resp.StatusCode)
	}

	var created createPostResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return service.PublishedPost{}, fmt.Errorf("failed to decode wordpress response: %w", err)
	}

	c.logger.Info().Uint("site_id", site.ID).Int("remote_id", created.ID).Msg("post published to wordpress")
	return service.PublishedPost{RemoteID: created.ID, Link: created.Link}, nil
}
