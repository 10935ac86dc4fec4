package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/service"
	"github.com/noah-isme/pathfinder-api/internal/utils"
)

// AdminCareerHandler manages the career catalog.
type AdminCareerHandler struct {
	service service.CareerService
	logger  zerolog.Logger
}

// NewAdminCareerHandler constructs the handler.
func NewAdminCareerHandler(service service.CareerService, logger zerolog.Logger) *AdminCareerHandler {
	return &AdminCareerHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_career_handler").Logger(),
	}
}

// Register wires admin career routes.
func (h *AdminCareerHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.deactivate)
}

func (h *AdminCareerHandler) list(c *fiber.Ctx) error {
	req, err := careerListRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	req.IncludeInactive = parseQueryBool(c, "include_inactive")

	result, err := h.service.List(c.Context(), req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list careers")
	}
	return utils.OK(c, result.Items, "careers retrieved", result.Pagination)
}

func (h *AdminCareerHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid career id")
	}

	career, err := h.service.Get(c.Context(), id, true)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load career")
	}
	return utils.SendSuccess(c, "career retrieved", career)
}

func (h *AdminCareerHandler) create(c *fiber.Ctx) error {
	var payload dto.CareerUpsertRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	career, err := h.service.Create(c.Context(), activityActorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to create career")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "career created", career)
}

func (h *AdminCareerHandler) update(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid career id")
	}

	var payload dto.CareerUpsertRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	career, err := h.service.Update(c.Context(), activityActorFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to update career")
	}
	return utils.SendSuccess(c, "career updated", career)
}

func (h *AdminCareerHandler) deactivate(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid career id")
	}

	if err := h.service.Deactivate(c.Context(), activityActorFromContext(c), id); err != nil {
		return respondError(c, h.logger, err, "failed to deactivate career")
	}
	return utils.SendSuccess(c, "career deactivated", fiber.Map{"id": id})
}
