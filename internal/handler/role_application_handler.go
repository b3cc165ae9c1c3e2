package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/autoseo-dev/autoseo-api/internal/dto"
	"github.com/autoseo-dev/autoseo-api/internal/service"
	"github.com/autoseo-dev/autoseo-api/internal/utils"
)

// RoleApplicationHandler exposes the role-upgrade workflow endpoints.
type RoleApplicationHandler struct {
	service service.RoleApplicationService
	logger  zerolog.Logger
}

// NewRoleApplicationHandler constructs the handler.
func NewRoleApplicationHandler(service service.RoleApplicationService, logger zerolog.Logger) *RoleApplicationHandler {
	return &RoleApplicationHandler{
		service: service,
		logger:  logger.With().Str("component", "role_application_handler").Logger(),
	}
}

// Register wires routes for role applications.
func (h *RoleApplicationHandler) Register(router fiber.Router) {
	router.Post("", h.apply)
	router.Get("", h.list)
	router.Get("/mine", h.listMine)
	router.Post("/:id/review", h.review)
	router.Delete("/:id", h.cancel)
}

func (h *RoleApplicationHandler) apply(c *fiber.Ctx) error {
	var req dto.ApplyForRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	application, err := h.service.Apply(c.Context(), userIDFromContext(c), req)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrInvalidRequestedRole):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrDuplicatePending), errors.Is(err, service.ErrAlreadyHasRole):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to create role application")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create role application")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "application submitted", application)
}

func (h *RoleApplicationHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	result, err := h.service.List(c.Context(), page, pageSize, auditActorFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrPermissionDenied) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		h.logger.Error().Err(err).Msg("failed to list role applications")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list role applications")
	}

	return utils.SendSuccess(c, "applications retrieved", result)
}

func (h *RoleApplicationHandler) listMine(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "pageSize")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	result, err := h.service.ListMine(c.Context(), userIDFromContext(c), page, pageSize)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list own role applications")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list role applications")
	}

	return utils.SendSuccess(c, "applications retrieved", result)
}

func (h *RoleApplicationHandler) review(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var req dto.ReviewApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	application, err := h.service.Review(c.Context(), id, req, auditActorFromContext(c))
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrInvalidRequestedRole):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrApplicationNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAlreadyReviewed), errors.Is(err, service.ErrRoleCapacity):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, service.ErrPermissionDenied):
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		default:
			h.logger.Error().Err(err).Uint("application_id", id).Msg("failed to review role application")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to review role application")
		}
	}

	return utils.SendSuccess(c, "application reviewed", application)
}

func (h *RoleApplicationHandler) cancel(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Cancel(c.Context(), id, userIDFromContext(c)); err != nil {
		switch {
		case errors.Is(err, service.ErrApplicationNotFound):
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotApplicant):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrAlreadyReviewed):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			h.logger.Error().Err(err).Uint("application_id", id).Msg("failed to cancel role application")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to cancel role application")
		}
	}

	return utils.SendSuccess(c, "application cancelled", nil)
}
