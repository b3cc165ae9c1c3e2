package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/autoseo-dev/autoseo-api/internal/models"
)

var (
	composeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "autoseo",
		Subsystem: "ai",
		Name:      "compose_duration_seconds",
		Help:      "Duration of AI draft composition requests",
	}, []string{"model"})

	composeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "autoseo",
		Subsystem: "ai",
		Name:      "compose_failures_total",
		Help:      "Number of AI draft composition failures",
	}, []string{"model"})
)

// OpenAIConfig defines configuration options for the OpenAI composer.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIComposer drafts SEO article titles and bodies through the OpenAI
// chat completion API.
type OpenAIComposer struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIComposer builds a composer using the provided configuration.
func NewOpenAIComposer(cfg OpenAIConfig) (*OpenAIComposer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}

	tracer := otel.Tracer("github.com/autoseo-dev/autoseo-api/pkg/ai")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	client := openai.NewClientWithConfig(openai.DefaultConfig(cfg.APIKey))

	return &OpenAIComposer{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger.With().Str("component", "openai_composer").Logger(),
	}, nil
}

// ComposeDraft asks the model for a draft title and body for the site.
func (c *OpenAIComposer) ComposeDraft(ctx context.Context, site models.Site) (string, string, error) {
	ctx, span := c.tracer.Start(ctx, "ai.compose_draft")
	defer span.End()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You write a single SEO article draft. Respond with the title on the first line and the HTML body on the following lines.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Write a draft article for the site %q.", site.Name),
			},
		},
	})
	composeDuration.WithLabelValues(c.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		composeFailures.WithLabelValues(c.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion_failed")
		return "", "", fmt.Errorf("openai completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		composeFailures.WithLabelValues(c.cfg.Model).Inc()
		span.SetStatus(codes.Error, "empty_response")
		return "", "", fmt.Errorf("openai returned no choices")
	}

	title, body := splitDraft(resp.Choices[0].Message.Content)
	if title == "" {
		composeFailures.WithLabelValues(c.cfg.Model).Inc()
		span.SetStatus(codes.Error, "empty_title")
		return "", "", fmt.Errorf("openai returned an empty draft")
	}

	return title, body, nil
}
