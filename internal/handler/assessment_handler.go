package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/service"
	"github.com/noah-isme/pathfinder-api/internal/utils"
)

// AssessmentHandler exposes the assessment catalog and attempt lifecycle.
type AssessmentHandler struct {
	service     service.AssessmentService
	submitLimit fiber.Handler
	logger      zerolog.Logger
}

// NewAssessmentHandler constructs the handler. submitLimit may be nil.
func NewAssessmentHandler(service service.AssessmentService, submitLimit fiber.Handler, logger zerolog.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		service:     service,
		submitLimit: submitLimit,
		logger:      logger.With().Str("component", "assessment_handler").Logger(),
	}
}

// Register wires assessment routes. All routes expect an authenticated user.
func (h *AssessmentHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/history", h.history)
	router.Get("/skills", h.skills)
	router.Get("/stats", h.stats)
	router.Get("/:id", h.get)
	router.Post("/:id/start", h.start)
	if h.submitLimit != nil {
		router.Post("/:id/submit", h.submitLimit, h.submit)
	} else {
		router.Post("/:id/submit", h.submit)
	}
}

func (h *AssessmentHandler) list(c *fiber.Ctx) error {
	items, err := h.service.List(c.Context(), dto.AssessmentListRequest{Category: c.Query("category")})
	if err != nil {
		return respondError(c, h.logger, err, "failed to list assessments")
	}
	return utils.OK(c, items, "assessments retrieved", fiber.Map{"count": len(items)})
}

func (h *AssessmentHandler) get(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	detail, err := h.service.Get(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load assessment")
	}
	return utils.SendSuccess(c, "assessment retrieved", detail)
}

func (h *AssessmentHandler) start(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	attempt, err := h.service.Start(c.Context(), activityActorFromContext(c), id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to start assessment")
	}
	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assessment started", attempt)
}

func (h *AssessmentHandler) submit(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	var payload dto.SubmitAssessmentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.Submit(c.Context(), activityActorFromContext(c), id, payload)
	if err != nil {
		return respondError(c, h.logger, err, "failed to submit assessment")
	}

	requestLogger(h.logger, c).Info().
		Uint("progress_id", result.ProgressID).
		Int("overall_percentage", result.OverallPercentage).
		Msg("assessment submitted")
	return utils.SendSuccess(c, "assessment submitted", result)
}

func (h *AssessmentHandler) history(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	result, err := h.service.History(c.Context(), userIDFromContext(c), dto.ProgressListRequest{
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return respondError(c, h.logger, err, "failed to load progress")
	}
	return utils.OK(c, result.Items, "progress retrieved", result.Pagination)
}

func (h *AssessmentHandler) skills(c *fiber.Ctx) error {
	items, err := h.service.SkillProfile(c.Context(), userIDFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to load skill profile")
	}
	return utils.SendSuccess(c, "skill profile retrieved", items)
}

func (h *AssessmentHandler) stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.Context(), userIDFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to load assessment stats")
	}
	return utils.SendSuccess(c, "assessment stats retrieved", stats)
}
