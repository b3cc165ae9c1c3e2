package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/autoseo-dev/autoseo-api/internal/dto"
	"github.com/autoseo-dev/autoseo-api/internal/service"
	"github.com/autoseo-dev/autoseo-api/internal/utils"
)

// ContentHandler exposes the moderation queue endpoints.
type ContentHandler struct {
	service service.ContentLifecycleService
	logger  zerolog.Logger
}

// NewContentHandler constructs the handler.
func NewContentHandler(service service.ContentLifecycleService, logger zerolog.Logger) *ContentHandler {
	return &ContentHandler{
		service: service,
		logger:  logger.With().Str("component", "content_handler").Logger(),
	}
}

// Register wires routes for the moderation queue.
func (h *ContentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.createDraft)
	router.Post("/:id/approve", h.approve)
	router.Post("/:id/reject", h.reject)
	router.Post("/:id/publish", h.publish)
}

func (h *ContentHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	req := dto.ContentListRequest{
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	}
	if siteID, err := parseQueryInt(c, "siteId"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid site id")
	} else if siteID > 0 {
		id := uint(siteID)
		req.SiteID = &id
	}

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to list content")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list content")
	}

	return utils.SendSuccess(c, "content retrieved", result)
}

func (h *ContentHandler) createDraft(c *fiber.Ctx) error {
	var req dto.CreateDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	item, err := h.service.CreateDraft(c.Context(), req, auditActorFromContext(c))
	if err != nil {
		return h.mapLifecycleError(c, err, "failed to create draft")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "draft created", item)
}

func (h *ContentHandler) approve(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	item, err := h.service.Approve(c.Context(), id, auditActorFromContext(c))
	if err != nil {
		return h.mapLifecycleError(c, err, "failed to approve content")
	}

	return utils.SendSuccess(c, "content approved", item)
}

func (h *ContentHandler) reject(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var req dto.RejectContentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
		}
	}

	item, err := h.service.Reject(c.Context(), id, auditActorFromContext(c), req.Reason)
	if err != nil {
		return h.mapLifecycleError(c, err, "failed to reject content")
	}

	return utils.SendSuccess(c, "content rejected", item)
}

func (h *ContentHandler) publish(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.service.Publish(c.Context(), id, auditActorFromContext(c))
	if err != nil {
		return h.mapLifecycleError(c, err, "failed to publish content")
	}

	return utils.SendSuccess(c, "content published", result)
}

func (h *ContentHandler) mapLifecycleError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrContentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidTransition):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrPermissionDenied):
		return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
	default:
		h.logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
