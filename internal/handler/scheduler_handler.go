package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/autoseo-dev/autoseo-api/internal/dto"
	"github.com/autoseo-dev/autoseo-api/internal/scheduler"
	"github.com/autoseo-dev/autoseo-api/internal/service"
	"github.com/autoseo-dev/autoseo-api/internal/utils"
)

// SchedulerHandler exposes manual scheduler controls. The routes are
// mounted behind the privileged-user middleware.
type SchedulerHandler struct {
	service service.SchedulerService
	runner  *scheduler.Runner
	logger  zerolog.Logger
}

// NewSchedulerHandler constructs the handler. runner may be nil when the
// background scheduler is disabled.
func NewSchedulerHandler(service service.SchedulerService, runner *scheduler.Runner, logger zerolog.Logger) *SchedulerHandler {
	return &SchedulerHandler{
		service: service,
		runner:  runner,
		logger:  logger.With().Str("component", "scheduler_handler").Logger(),
	}
}

// Register wires scheduler control routes.
func (h *SchedulerHandler) Register(router fiber.Router) {
	router.Post("/run-draft-now", h.runDraftNow)
	router.Post("/rebuild", h.rebuild)
}

func (h *SchedulerHandler) runDraftNow(c *fiber.Ctx) error {
	var req dto.GenerateDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.SiteID == 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "site_id is required")
	}

	result, err := h.service.GenerateDraftForSite(c.Context(), req.SiteID)
	if err != nil {
		h.logger.Error().Err(err).Uint("site_id", req.SiteID).Msg("manual draft generation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "draft generation failed")
	}

	return utils.SendSuccess(c, "evaluation completed", result)
}

func (h *SchedulerHandler) rebuild(c *fiber.Ctx) error {
	if h.runner == nil {
		return utils.SendError(c, fiber.StatusServiceUnavailable, "scheduler is disabled")
	}

	sites, err := h.service.EnabledSites(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load sites for rebuild")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to rebuild schedule")
	}

	scheduled := h.runner.Rebuild(sites)
	return utils.SendSuccess(c, "schedule rebuilt", dto.RebuildScheduleResponse{Sites: scheduled})
}
