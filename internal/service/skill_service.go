package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/models"
	"github.com/noah-isme/pathfinder-api/internal/repository"
	"github.com/noah-isme/pathfinder-api/internal/scoring"
)

// SkillService exposes the skill catalog.
type SkillService interface {
	List(ctx context.Context, req dto.SkillListRequest) ([]dto.SkillResponse, error)
	Get(ctx context.Context, id uint) (dto.SkillResponse, error)
	Categories(ctx context.Context) (dto.SkillCategoriesResponse, error)
	Create(ctx context.Context, actor ActivityActor, req dto.SkillCreateRequest) (dto.SkillResponse, error)
}

type skillService struct {
	repo      repository.SkillRepository
	validator *validator.Validate
	sanitizer catalogSanitizer
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewSkillService constructs the skill catalog service.
func NewSkillService(repo repository.SkillRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) SkillService {
	if validate == nil {
		validate = validator.New()
	}
	return &skillService{
		repo:      repo,
		validator: validate,
		sanitizer: newCatalogSanitizer(),
		activity:  activity,
		logger:    logger.With().Str("component", "skill_service").Logger(),
	}
}

// List returns skills with trending entries first.
func (s *skillService) List(ctx context.Context, req dto.SkillListRequest) ([]dto.SkillResponse, error) {
	category := strings.TrimSpace(req.Category)
	if category != "" && !containsValue(models.SkillCategories, category) {
		return nil, ErrInvalidCategory
	}
	level := strings.TrimSpace(req.DifficultyLevel)
	if level != "" && !containsValue(models.SkillDifficultyLevels, level) {
		return nil, ErrInvalidDifficulty
	}

	skills, err := s.repo.List(ctx, repository.SkillFilter{
		Category:        category,
		DifficultyLevel: level,
		Trending:        req.Trending,
	})
	if err != nil {
		return nil, err
	}

	items := make([]dto.SkillResponse, 0, len(skills))
	for _, skill := range skills {
		items = append(items, dto.NewSkillResponse(skill))
	}
	return items, nil
}

func (s *skillService) Get(ctx context.Context, id uint) (dto.SkillResponse, error) {
	skill, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.SkillResponse{}, translateNotFound(err, ErrSkillNotFound)
	}
	return dto.NewSkillResponse(skill), nil
}

// Categories lists the distinct categories that have at least one skill.
func (s *skillService) Categories(ctx context.Context) (dto.SkillCategoriesResponse, error) {
	categories, err := s.repo.Categories(ctx)
	if err != nil {
		return dto.SkillCategoriesResponse{}, err
	}
	if categories == nil {
		categories = []string{}
	}
	return dto.SkillCategoriesResponse{Categories: categories}, nil
}

func (s *skillService) Create(ctx context.Context, actor ActivityActor, req dto.SkillCreateRequest) (dto.SkillResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.SkillResponse{}, err
	}
	category := strings.TrimSpace(req.Category)
	if !containsValue(models.SkillCategories, category) {
		return dto.SkillResponse{}, ErrInvalidCategory
	}
	level := strings.TrimSpace(req.DifficultyLevel)
	if level != "" && !containsValue(models.SkillDifficultyLevels, level) {
		return dto.SkillResponse{}, ErrInvalidDifficulty
	}

	skill := models.Skill{
		Name:              s.sanitizer.plain(req.Name),
		Category:          category,
		Description:       s.sanitizer.formatted(req.Description),
		DifficultyLevel:   level,
		LearningTimeHours: req.LearningTimeHours,
		JobMarketDemand:   req.JobMarketDemand,
		Trending:          req.Trending,
		Prerequisites:     s.sanitizer.list(req.Prerequisites),
		Resources:         s.sanitizer.list(req.Resources),
	}
	if skill.Name == "" {
		return dto.SkillResponse{}, scoring.ValidationError("name must contain text", map[string]interface{}{"field": "name"})
	}

	taken, err := s.repo.NameExists(ctx, skill.Name)
	if err != nil {
		return dto.SkillResponse{}, err
	}
	if taken {
		return dto.SkillResponse{}, ErrSkillNameTaken
	}

	if err := s.repo.Create(ctx, &skill); err != nil {
		s.logger.Error().Err(err).Str("name", skill.Name).Msg("failed to create skill")
		return dto.SkillResponse{}, err
	}

	if s.activity != nil {
		entityID := skill.ID
		if _, err := s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     ActionSkillCreated,
			EntityType: "skill",
			EntityID:   &entityID,
			Metadata:   map[string]interface{}{"name": skill.Name, "category": skill.Category},
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to record activity")
		}
	}
	return dto.NewSkillResponse(skill), nil
}

func containsValue(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
