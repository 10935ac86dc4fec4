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

// CareerService exposes the career catalog and its administration.
type CareerService interface {
	List(ctx context.Context, req dto.CareerListRequest) (dto.CareerListResponse, error)
	Get(ctx context.Context, id uint, includeInactive bool) (dto.CareerResponse, error)
	Create(ctx context.Context, actor ActivityActor, req dto.CareerUpsertRequest) (dto.CareerResponse, error)
	Update(ctx context.Context, actor ActivityActor, id uint, req dto.CareerUpsertRequest) (dto.CareerResponse, error)
	Deactivate(ctx context.Context, actor ActivityActor, id uint) error
}

type careerService struct {
	repo      repository.CareerRepository
	validator *validator.Validate
	sanitizer catalogSanitizer
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewCareerService constructs the career catalog service.
func NewCareerService(repo repository.CareerRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) CareerService {
	if validate == nil {
		validate = validator.New()
	}
	return &careerService{
		repo:      repo,
		validator: validate,
		sanitizer: newCatalogSanitizer(),
		activity:  activity,
		logger:    logger.With().Str("component", "career_service").Logger(),
	}
}

func (s *careerService) List(ctx context.Context, req dto.CareerListRequest) (dto.CareerListResponse, error) {
	demand := strings.TrimSpace(req.Demand)
	if demand != "" && !scoring.IsLevel(demand) {
		return dto.CareerListResponse{}, ErrInvalidDemand
	}
	category := strings.TrimSpace(req.Category)
	if category != "" && !isCareerCategory(category) {
		return dto.CareerListResponse{}, ErrInvalidCategory
	}

	filter := repository.CareerFilter{
		Category:   category,
		Demand:     demand,
		Location:   strings.TrimSpace(req.Location),
		Search:     strings.TrimSpace(req.Search),
		ActiveOnly: !req.IncludeInactive,
		Page:       normalizePage(req.Page),
		PageSize:   clampPageSize(req.PageSize),
	}

	careers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.CareerListResponse{}, err
	}

	items := make([]dto.CareerResponse, 0, len(careers))
	for _, career := range careers {
		items = append(items, dto.NewCareerResponse(career))
	}
	return dto.CareerListResponse{
		Items:      items,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *careerService) Get(ctx context.Context, id uint, includeInactive bool) (dto.CareerResponse, error) {
	career, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.CareerResponse{}, translateNotFound(err, ErrCareerNotFound)
	}
	if !career.IsActive && !includeInactive {
		return dto.CareerResponse{}, ErrCareerNotFound
	}
	return dto.NewCareerResponse(career), nil
}

func (s *careerService) Create(ctx context.Context, actor ActivityActor, req dto.CareerUpsertRequest) (dto.CareerResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.CareerResponse{}, err
	}

	career := models.CareerProfile{IsActive: true}
	s.sanitizer.applyCareer(&career, req)
	if err := s.ensureSlug(ctx, &career, req.Slug); err != nil {
		return dto.CareerResponse{}, err
	}

	if err := s.repo.Create(ctx, &career); err != nil {
		s.logger.Error().Err(err).Str("slug", career.Slug).Msg("failed to create career")
		return dto.CareerResponse{}, err
	}

	s.recordActivity(ctx, actor, ActionCareerCreated, career)
	return dto.NewCareerResponse(career), nil
}

func (s *careerService) Update(ctx context.Context, actor ActivityActor, id uint, req dto.CareerUpsertRequest) (dto.CareerResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.CareerResponse{}, err
	}

	career, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.CareerResponse{}, translateNotFound(err, ErrCareerNotFound)
	}

	s.sanitizer.applyCareer(&career, req)
	if strings.TrimSpace(req.Slug) != "" {
		if err := s.ensureSlug(ctx, &career, req.Slug); err != nil {
			return dto.CareerResponse{}, err
		}
	}

	if err := s.repo.Save(ctx, &career); err != nil {
		s.logger.Error().Err(err).Uint("career_id", id).Msg("failed to update career")
		return dto.CareerResponse{}, err
	}

	s.recordActivity(ctx, actor, ActionCareerUpdated, career)
	return dto.NewCareerResponse(career), nil
}

func (s *careerService) Deactivate(ctx context.Context, actor ActivityActor, id uint) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return translateNotFound(err, ErrCareerNotFound)
	}
	s.recordActivity(ctx, actor, ActionCareerDeactivated, models.CareerProfile{ID: id})
	return nil
}

func (s *careerService) ensureSlug(ctx context.Context, career *models.CareerProfile, requested string) error {
	slug := slugify(requested)
	if slug == "" {
		slug = slugify(career.Title)
	}
	if slug == "" {
		return scoring.ValidationError("slug could not be derived from title", map[string]interface{}{"field": "slug"})
	}

	taken, err := s.repo.SlugExists(ctx, slug, career.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrCareerSlugTaken
	}
	career.Slug = slug
	return nil
}

func (s *careerService) recordActivity(ctx context.Context, actor ActivityActor, action string, career models.CareerProfile) {
	if s.activity == nil {
		return
	}
	entityID := career.ID
	metadata := map[string]interface{}{}
	if career.Slug != "" {
		metadata["slug"] = career.Slug
	}
	if _, err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "career",
		EntityID:   &entityID,
		Metadata:   metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}

func isCareerCategory(value string) bool {
	for _, category := range scoring.CareerCategories {
		if category == value {
			return true
		}
	}
	return false
}
