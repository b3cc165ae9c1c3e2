package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/autoseo-dev/autoseo-api/internal/dto"
	"github.com/autoseo-dev/autoseo-api/internal/service"
	"github.com/autoseo-dev/autoseo-api/internal/utils"
)

// AuditLogHandler exposes the read side of the audit trail.
type AuditLogHandler struct {
	service service.AuditService
	logger  zerolog.Logger
}

// NewAuditLogHandler constructs the handler.
func NewAuditLogHandler(service service.AuditService, logger zerolog.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		service: service,
		logger:  logger.With().Str("component", "audit_log_handler").Logger(),
	}
}

// Register wires routes for the audit trail.
func (h *AuditLogHandler) Register(router fiber.Router) {
	router.Get("", h.list)
}

func (h *AuditLogHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	req := dto.AuditLogListRequest{
		Action:     c.Query("action"),
		TargetType: c.Query("targetType"),
		Page:       page,
		PageSize:   pageSize,
	}
	if actorID, err := parseQueryInt(c, "actorId"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid actor id")
	} else if actorID > 0 {
		id := uint(actorID)
		req.ActorID = &id
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list audit entries")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list audit entries")
	}

	return utils.SendSuccess(c, "audit entries retrieved", result)
}
