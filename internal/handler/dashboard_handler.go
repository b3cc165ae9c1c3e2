package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/autoseo-dev/autoseo-api/internal/service"
	"github.com/autoseo-dev/autoseo-api/internal/utils"
)

// DashboardHandler exposes aggregated pipeline statistics.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register wires dashboard routes.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/stats", h.stats)
}

func (h *DashboardHandler) stats(c *fiber.Ctx) error {
	result, err := h.service.Stats(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to compute dashboard stats")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to compute dashboard stats")
	}

	if result.CacheHit {
		c.Set("X-Cache-Hit", "true")
	} else {
		c.Set("X-Cache-Hit", "false")
	}

	return utils.SendSuccess(c, "dashboard stats retrieved", result)
}
