package handler

import (
	"bytes"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/service"
	"github.com/noah-isme/pathfinder-api/internal/utils"
)

// SeedHandler exposes tooling endpoints for seeding catalog data.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register wires seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/assessments", h.assessments)
	router.Post("/learning-paths", h.learningPaths)
	router.Post("/careers", h.careers)
	router.Post("/import", h.importCatalog)
}

type seedAssessmentsRequest struct {
	Items []dto.SeedAssessment `json:"items"`
}

type seedLearningPathsRequest struct {
	Items []dto.SeedLearningPath `json:"items"`
}

type seedCareersRequest struct {
	Items []dto.CareerUpsertRequest `json:"items"`
}

func (h *SeedHandler) assessments(c *fiber.Ctx) error {
	var payload seedAssessmentsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	affected, err := h.service.SeedAssessments(c.Context(), seedToken(c), payload.Items)
	if err != nil {
		return h.seedError(c, err)
	}
	return utils.SendSuccess(c, "assessments seeded", fiber.Map{"affected": affected})
}

func (h *SeedHandler) learningPaths(c *fiber.Ctx) error {
	var payload seedLearningPathsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	affected, err := h.service.SeedLearningPaths(c.Context(), seedToken(c), payload.Items)
	if err != nil {
		return h.seedError(c, err)
	}
	return utils.SendSuccess(c, "learning paths seeded", fiber.Map{"affected": affected})
}

func (h *SeedHandler) careers(c *fiber.Ctx) error {
	var payload seedCareersRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	affected, err := h.service.SeedCareers(c.Context(), seedToken(c), payload.Items)
	if err != nil {
		return h.seedError(c, err)
	}
	return utils.SendSuccess(c, "careers seeded", fiber.Map{"affected": affected})
}

// importCatalog accepts either a multipart "file" field or the raw document as the request body.
func (h *SeedHandler) importCatalog(c *fiber.Ctx) error {
	var source io.Reader
	if header, err := c.FormFile("file"); err == nil {
		file, err := header.Open()
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "unable to read upload")
		}
		defer file.Close()
		source = file
	} else {
		body := c.Body()
		if len(body) == 0 {
			return utils.SendError(c, fiber.StatusBadRequest, "catalog file is required")
		}
		source = bytes.NewReader(body)
	}

	result, err := h.service.ImportCatalog(c.Context(), seedToken(c), source)
	if err != nil {
		return h.seedError(c, err)
	}

	requestLogger(h.logger, c).Info().
		Int64("assessments", result.Assessments).
		Int64("learning_paths", result.LearningPaths).
		Int64("careers", result.Careers).
		Msg("catalog imported")
	return utils.SendSuccess(c, "catalog imported", result)
}

func (h *SeedHandler) seedError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSeedDisabled):
		return utils.SendError(c, fiber.StatusForbidden, "seeding disabled")
	case errors.Is(err, service.ErrSeedUnauthorized):
		return utils.SendError(c, fiber.StatusForbidden, "invalid token")
	default:
		return respondError(c, h.logger, err, "seed operation failed")
	}
}

func seedToken(c *fiber.Ctx) string {
	return c.Get("X-Seed-Token")
}
