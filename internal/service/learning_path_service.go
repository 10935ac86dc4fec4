package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/repository"
	"github.com/noah-isme/pathfinder-api/internal/scoring"
)

// InterestOptions lists the selectable interest areas in display order.
var InterestOptions = []string{
	"Technology",
	"Business",
	"Finance",
	"Engineering",
	"Healthcare",
	"Education",
	"Creative Arts",
	"Hospitality",
	"Agriculture",
	"Science & Research",
	"Public Service",
	"Sports & Fitness",
}

// LearningPathService exposes the learning path catalog.
type LearningPathService interface {
	List(ctx context.Context, req dto.LearningPathListRequest) (dto.LearningPathListResponse, error)
	Get(ctx context.Context, id uint) (dto.LearningPathResponse, error)
	Interests() dto.InterestOptionsResponse
}

type learningPathService struct {
	repo   repository.LearningPathRepository
	logger zerolog.Logger
}

// NewLearningPathService constructs the learning path service.
func NewLearningPathService(repo repository.LearningPathRepository, logger zerolog.Logger) LearningPathService {
	return &learningPathService{
		repo:   repo,
		logger: logger.With().Str("component", "learning_path_service").Logger(),
	}
}

func (s *learningPathService) List(ctx context.Context, req dto.LearningPathListRequest) (dto.LearningPathListResponse, error) {
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if category != "" && !scoring.IsAssessmentCategory(category) {
		return dto.LearningPathListResponse{}, ErrInvalidCategory
	}

	filter := repository.LearningPathFilter{
		Category:   category,
		ActiveOnly: true,
		Page:       normalizePage(req.Page),
		PageSize:   clampPageSize(req.PageSize),
	}
	paths, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.LearningPathListResponse{}, err
	}

	items := make([]dto.LearningPathResponse, 0, len(paths))
	for _, path := range paths {
		items = append(items, dto.NewLearningPathResponse(path))
	}
	return dto.LearningPathListResponse{
		Items:      items,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *learningPathService) Get(ctx context.Context, id uint) (dto.LearningPathResponse, error) {
	path, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return dto.LearningPathResponse{}, translateNotFound(err, ErrLearningPathNotFound)
	}
	if !path.IsActive {
		return dto.LearningPathResponse{}, ErrLearningPathNotFound
	}
	return dto.NewLearningPathResponse(path), nil
}

func (s *learningPathService) Interests() dto.InterestOptionsResponse {
	return dto.InterestOptionsResponse{Interests: append([]string(nil), InterestOptions...)}
}
