package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/scoring"
	"github.com/noah-isme/pathfinder-api/internal/service"
	"github.com/noah-isme/pathfinder-api/internal/utils"
)

// RecommendationHandler exposes ranked learning paths and careers.
type RecommendationHandler struct {
	service service.RecommendationService
	logger  zerolog.Logger
}

// NewRecommendationHandler constructs the handler.
func NewRecommendationHandler(service service.RecommendationService, logger zerolog.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		service: service,
		logger:  logger.With().Str("component", "recommendation_handler").Logger(),
	}
}

// Register wires recommendation routes.
func (h *RecommendationHandler) Register(router fiber.Router) {
	router.Get("", h.overview)
	router.Get("/learning-paths", h.learningPaths)
	router.Get("/careers", h.careers)
	router.Get("/careers/filter", h.filterCareers)
}

func (h *RecommendationHandler) overview(c *fiber.Ctx) error {
	result, err := h.service.Overview(c.Context(), userIDFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to build recommendations")
	}
	return utils.OK(c, result, recommendationMessage(result.Message), fiber.Map{"cache_hit": result.CacheHit})
}

func (h *RecommendationHandler) learningPaths(c *fiber.Ctx) error {
	result, err := h.service.LearningPaths(c.Context(), userIDFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to recommend learning paths")
	}
	return utils.OK(c, result, recommendationMessage(result.Message), fiber.Map{"cache_hit": result.CacheHit})
}

func (h *RecommendationHandler) careers(c *fiber.Ctx) error {
	result, err := h.service.Careers(c.Context(), userIDFromContext(c))
	if err != nil {
		return respondError(c, h.logger, err, "failed to recommend careers")
	}
	return utils.OK(c, result, recommendationMessage(result.Message), fiber.Map{"cache_hit": result.CacheHit})
}

// filterCareers coerces query parameters into typed constraints before they reach the service.
func (h *RecommendationHandler) filterCareers(c *fiber.Ctx) error {
	budget, err := parseQueryFloat(c, "budget_max")
	if err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "budget_max must be a non-negative number", fiber.Map{"field": "budget_max"})
	}

	result, err := h.service.FilterCareers(c.Context(), dto.CareerConstraintRequest{
		BudgetMax:           budget,
		Location:            c.Query("location"),
		EducationLevel:      c.Query("education_level"),
		AcademicPerformance: c.Query("academic_performance"),
		RiskTolerance:       c.Query("risk_tolerance"),
	})
	if err != nil {
		return respondError(c, h.logger, err, "failed to filter careers")
	}
	return utils.OK(c, result, "careers filtered", fiber.Map{"count": len(result.Items), "limit": scoring.RecommendationLimit})
}

func recommendationMessage(message string) string {
	if message != "" {
		return message
	}
	return "recommendations generated"
}
