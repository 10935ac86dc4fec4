package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/service"
	"github.com/noah-isme/pathfinder-api/internal/utils"
)

// CatalogHandler serves the public career, learning path and skill catalogs.
type CatalogHandler struct {
	careers service.CareerService
	paths   service.LearningPathService
	skills  service.SkillService
	logger  zerolog.Logger
}

// NewCatalogHandler constructs the handler.
func NewCatalogHandler(careers service.CareerService, paths service.LearningPathService, skills service.SkillService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		careers: careers,
		paths:   paths,
		skills:  skills,
		logger:  logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// Register wires catalog routes.
func (h *CatalogHandler) Register(router fiber.Router) {
	router.Get("/careers", h.listCareers)
	router.Get("/careers/:id", h.getCareer)
	router.Get("/learning-paths", h.listLearningPaths)
	router.Get("/learning-paths/:id", h.getLearningPath)
	router.Get("/interests", h.interests)
	router.Get("/skills", h.listSkills)
	router.Get("/skills/categories", h.skillCategories)
	router.Get("/skills/:id", h.getSkill)
}

func (h *CatalogHandler) listCareers(c *fiber.Ctx) error {
	req, err := careerListRequest(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.careers.List(c.Context(), req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list careers")
	}
	return utils.OK(c, result.Items, "careers retrieved", result.Pagination)
}

func (h *CatalogHandler) getCareer(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid career id")
	}

	career, err := h.careers.Get(c.Context(), id, false)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load career")
	}
	return utils.SendSuccess(c, "career retrieved", career)
}

func (h *CatalogHandler) listLearningPaths(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page size")
	}

	result, err := h.paths.List(c.Context(), dto.LearningPathListRequest{
		Category: c.Query("category"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return respondError(c, h.logger, err, "failed to list learning paths")
	}
	return utils.OK(c, result.Items, "learning paths retrieved", result.Pagination)
}

func (h *CatalogHandler) getLearningPath(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid learning path id")
	}

	path, err := h.paths.Get(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load learning path")
	}
	return utils.SendSuccess(c, "learning path retrieved", path)
}

func (h *CatalogHandler) interests(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "interest options", h.paths.Interests())
}

func (h *CatalogHandler) listSkills(c *fiber.Ctx) error {
	req := dto.SkillListRequest{
		Category:        c.Query("category"),
		DifficultyLevel: c.Query("difficulty_level"),
	}
	if raw := strings.TrimSpace(c.Query("trending")); raw != "" {
		trending, err := strconv.ParseBool(raw)
		if err != nil {
			return utils.Fail(c, fiber.StatusBadRequest, "trending must be true or false", fiber.Map{"field": "trending"})
		}
		req.Trending = &trending
	}

	items, err := h.skills.List(c.Context(), req)
	if err != nil {
		return respondError(c, h.logger, err, "failed to list skills")
	}
	return utils.OK(c, items, "skills retrieved", fiber.Map{"count": len(items)})
}

func (h *CatalogHandler) skillCategories(c *fiber.Ctx) error {
	result, err := h.skills.Categories(c.Context())
	if err != nil {
		return respondError(c, h.logger, err, "failed to list skill categories")
	}
	return utils.SendSuccess(c, "skill categories retrieved", result)
}

func (h *CatalogHandler) getSkill(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid skill id")
	}

	skill, err := h.skills.Get(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, err, "failed to load skill")
	}
	return utils.SendSuccess(c, "skill retrieved", skill)
}

func careerListRequest(c *fiber.Ctx) (dto.CareerListRequest, error) {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return dto.CareerListRequest{}, fiber.NewError(fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return dto.CareerListRequest{}, fiber.NewError(fiber.StatusBadRequest, "invalid page size")
	}
	return dto.CareerListRequest{
		Category: c.Query("category"),
		Demand:   c.Query("demand"),
		Location: c.Query("location"),
		Search:   c.Query("search"),
		Page:     page,
		PageSize: pageSize,
	}, nil
}
