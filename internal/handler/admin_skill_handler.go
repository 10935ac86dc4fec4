package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/service"
	"github.com/noah-isme/pathfinder-api/internal/utils"
)

// AdminSkillHandler adds skills to the catalog.
type AdminSkillHandler struct {
	service service.SkillService
	logger  zerolog.Logger
}

// NewAdminSkillHandler constructs the handler.
func NewAdminSkillHandler(service service.SkillService, logger zerolog.Logger) *AdminSkillHandler {
	return &AdminSkillHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_skill_handler").Logger(),
	}
}

// Register wires admin skill routes.
func (h *AdminSkillHandler) Register(router fiber.Router) {
	router.Post("", h.create)
}

func (h *AdminSkillHandler) create(c *fiber.Ctx) error {
	var payload dto.SkillCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	skill, err := h.service.Create(c.Context(), activityActorFromContext(c), payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to create skill")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "skill created", skill)
}
