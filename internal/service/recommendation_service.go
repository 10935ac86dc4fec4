package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/models"
	"github.com/noah-isme/pathfinder-api/internal/observability"
	"github.com/noah-isme/pathfinder-api/internal/repository"
	"github.com/noah-isme/pathfinder-api/internal/scoring"
)

// NoHistoryMessage accompanies empty recommendations for users without completed assessments.
const NoHistoryMessage = "Complete an assessment to receive personalised recommendations"

const (
	recommendationKindPaths    = "learning_paths"
	recommendationKindCareers  = "careers"
	recommendationKindOverview = "overview"
	recommendationKindFilter   = "constraints"
)

// RecommendationService ranks catalog entries for a user.
type RecommendationService interface {
	LearningPaths(ctx context.Context, userID uint) (dto.LearningPathRecommendations, error)
	Careers(ctx context.Context, userID uint) (dto.CareerRecommendations, error)
	Overview(ctx context.Context, userID uint) (dto.RecommendationOverview, error)
	FilterCareers(ctx context.Context, req dto.CareerConstraintRequest) (dto.ConstrainedCareerResponse, error)
	Invalidate(ctx context.Context, userID uint) error
}

type recommendationService struct {
	progress repository.ProgressRepository
	paths    repository.LearningPathRepository
	careers  repository.CareerRepository
	ranker   *scoring.Ranker
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// NewRecommendationService constructs the recommendation service. cache may be nil.
func NewRecommendationService(progress repository.ProgressRepository, paths repository.LearningPathRepository, careers repository.CareerRepository, ranker *scoring.Ranker, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) RecommendationService {
	if ranker == nil {
		ranker = scoring.NewRanker(nil)
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &recommendationService{
		progress: progress,
		paths:    paths,
		careers:  careers,
		ranker:   ranker,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "recommendation_service").Logger(),
		tracer:   otel.Tracer("github.com/noah-isme/pathfinder-api/internal/service/recommendation"),
	}
}

type recommendationInputs struct {
	scores  scoring.CategoryScores
	paths   []models.LearningPath
	careers []models.CareerProfile
}

func (s *recommendationService) LearningPaths(ctx context.Context, userID uint) (dto.LearningPathRecommendations, error) {
	ctx, span := s.tracer.Start(ctx, "recommendations.learning_paths")
	span.SetAttributes(attribute.Int("user.id", int(userID)))
	defer span.End()
	started := time.Now()
	defer observeLatency(recommendationKindPaths, started)

	key, cacheable := s.cacheKeyFor(ctx, userID, recommendationKindPaths)
	var response dto.LearningPathRecommendations
	if cacheable && s.readCache(ctx, key, recommendationKindPaths, &response) {
		response.CacheHit = true
		s.countRequest(recommendationKindPaths, "hit")
		span.SetAttributes(attribute.Bool("recommendations.cache_hit", true))
		return response, nil
	}

	inputs, err := s.load(ctx, userID, true, false)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load_inputs_failed")
		return dto.LearningPathRecommendations{}, err
	}

	response = dto.LearningPathRecommendations{
		Items:          s.rankPaths(inputs),
		CategoryScores: nonNilScores(inputs.scores),
		TopCategories:  nonNilStrings(inputs.scores.TopCategories),
	}
	if inputs.scores.Empty() {
		response.Message = NoHistoryMessage
	}

	if cacheable {
		s.writeCache(ctx, key, response)
	}
	s.countRequest(recommendationKindPaths, "miss")
	return response, nil
}

func (s *recommendationService) Careers(ctx context.Context, userID uint) (dto.CareerRecommendations, error) {
	ctx, span := s.tracer.Start(ctx, "recommendations.careers")
	span.SetAttributes(attribute.Int("user.id", int(userID)))
	defer span.End()
	started := time.Now()
	defer observeLatency(recommendationKindCareers, started)

	key, cacheable := s.cacheKeyFor(ctx, userID, recommendationKindCareers)
	var response dto.CareerRecommendations
	if cacheable && s.readCache(ctx, key, recommendationKindCareers, &response) {
		response.CacheHit = true
		s.countRequest(recommendationKindCareers, "hit")
		span.SetAttributes(attribute.Bool("recommendations.cache_hit", true))
		return response, nil
	}

	inputs, err := s.load(ctx, userID, false, true)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load_inputs_failed")
		return dto.CareerRecommendations{}, err
	}

	response = dto.CareerRecommendations{
		Items:          s.rankCareers(inputs),
		CategoryScores: nonNilScores(inputs.scores),
		TopCategories:  nonNilStrings(inputs.scores.TopCategories),
	}
	if inputs.scores.Empty() {
		response.Message = NoHistoryMessage
	}

	if cacheable {
		s.writeCache(ctx, key, response)
	}
	s.countRequest(recommendationKindCareers, "miss")
	return response, nil
}

func (s *recommendationService) Overview(ctx context.Context, userID uint) (dto.RecommendationOverview, error) {
	ctx, span := s.tracer.Start(ctx, "recommendations.overview")
	span.SetAttributes(attribute.Int("user.id", int(userID)))
	defer span.End()
	started := time.Now()
	defer observeLatency(recommendationKindOverview, started)

	key, cacheable := s.cacheKeyFor(ctx, userID, recommendationKindOverview)
	var response dto.RecommendationOverview
	if cacheable && s.readCache(ctx, key, recommendationKindOverview, &response) {
		response.CacheHit = true
		s.countRequest(recommendationKindOverview, "hit")
		span.SetAttributes(attribute.Bool("recommendations.cache_hit", true))
		return response, nil
	}

	inputs, err := s.load(ctx, userID, true, true)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load_inputs_failed")
		return dto.RecommendationOverview{}, err
	}

	response = dto.RecommendationOverview{
		LearningPaths:  s.rankPaths(inputs),
		Careers:        s.rankCareers(inputs),
		CategoryScores: nonNilScores(inputs.scores),
		TopCategories:  nonNilStrings(inputs.scores.TopCategories),
	}
	if inputs.scores.Empty() {
		response.Message = NoHistoryMessage
	}

	if cacheable {
		s.writeCache(ctx, key, response)
	}
	s.countRequest(recommendationKindOverview, "miss")
	return response, nil
}

func (s *recommendationService) FilterCareers(ctx context.Context, req dto.CareerConstraintRequest) (dto.ConstrainedCareerResponse, error) {
	ctx, span := s.tracer.Start(ctx, "recommendations.filter_careers")
	defer span.End()
	started := time.Now()
	defer observeLatency(recommendationKindFilter, started)

	constraints := scoring.Constraints{
		BudgetMax:           req.BudgetMax,
		Location:            strings.TrimSpace(req.Location),
		EducationLevel:      strings.TrimSpace(req.EducationLevel),
		AcademicPerformance: strings.TrimSpace(req.AcademicPerformance),
		RiskTolerance:       strings.TrimSpace(req.RiskTolerance),
	}
	if err := s.ranker.ValidateConstraints(constraints); err != nil {
		span.SetStatus(codes.Error, "invalid_constraints")
		return dto.ConstrainedCareerResponse{}, err
	}
	span.SetAttributes(
		attribute.String("constraints.location", constraints.Location),
		attribute.String("constraints.risk_tolerance", constraints.RiskTolerance),
	)

	careers, _, err := s.careers.List(ctx, repository.CareerFilter{ActiveOnly: true, Location: constraints.Location})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_careers_failed")
		return dto.ConstrainedCareerResponse{}, err
	}

	byID := make(map[uint]models.CareerProfile, len(careers))
	views := make([]scoring.CareerProfile, 0, len(careers))
	for _, career := range careers {
		byID[career.ID] = career
		views = append(views, career.RankingView())
	}

	ranked, err := s.ranker.FilterCareers(views, constraints)
	if err != nil {
		return dto.ConstrainedCareerResponse{}, err
	}

	items := make([]dto.ConstrainedCareer, 0, len(ranked))
	for _, entry := range ranked {
		items = append(items, dto.ConstrainedCareer{
			CareerResponse: dto.NewCareerResponse(byID[entry.ID]),
			RelevanceScore: entry.RelevanceScore,
			Rationale: dto.ConstraintRationale{
				DemandScore:   entry.Rationale.DemandScore,
				RiskScore:     entry.Rationale.RiskScore,
				LocationScore: entry.Rationale.LocationScore,
				BudgetScore:   entry.Rationale.BudgetScore,
			},
		})
	}

	s.countRequest(recommendationKindFilter, "none")
	return dto.ConstrainedCareerResponse{
		Items: items,
		Constraints: dto.CareerConstraintRequest{
			BudgetMax:           constraints.BudgetMax,
			Location:            constraints.Location,
			EducationLevel:      constraints.EducationLevel,
			AcademicPerformance: constraints.AcademicPerformance,
			RiskTolerance:       constraints.RiskTolerance,
		},
	}, nil
}

// Invalidate moves the user to a new cache generation. Results computed from history read before
// the bump are written under the previous generation and never served.
func (s *recommendationService) Invalidate(ctx context.Context, userID uint) error {
	if s.cache == nil {
		return nil
	}
	generation := generationKey(userID)
	current, err := s.cache.Get(ctx, generation).Int64()
	if err != nil && err != redis.Nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to invalidate recommendation cache")
		return err
	}

	pipe := s.cache.TxPipeline()
	pipe.Del(ctx,
		cacheKey(userID, current, recommendationKindPaths),
		cacheKey(userID, current, recommendationKindCareers),
		cacheKey(userID, current, recommendationKindOverview),
	)
	pipe.Incr(ctx, generation)
	pipe.Expire(ctx, generation, s.generationTTL())
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to invalidate recommendation cache")
		return err
	}
	return nil
}

// cacheKeyFor resolves the key for the user's current generation. Caching is skipped when the
// generation cannot be read.
func (s *recommendationService) cacheKeyFor(ctx context.Context, userID uint, kind string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	current, err := s.cache.Get(ctx, generationKey(userID)).Int64()
	if err != nil && err != redis.Nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("failed to read recommendation cache generation")
		s.countRequest(kind, "error")
		return "", false
	}
	return cacheKey(userID, current, kind), true
}

// generationTTL outlives every entry written under an older generation.
func (s *recommendationService) generationTTL() time.Duration {
	return 2 * s.cacheTTL
}

// load reads the user's history and the requested catalogs concurrently.
func (s *recommendationService) load(ctx context.Context, userID uint, withPaths, withCareers bool) (recommendationInputs, error) {
	var inputs recommendationInputs
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		records, err := s.progress.CompletedScores(groupCtx, userID)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		inputs.scores = scoring.Aggregate(records)
		return nil
	})
	if withPaths {
		group.Go(func() error {
			paths, _, err := s.paths.List(groupCtx, repository.LearningPathFilter{ActiveOnly: true})
			if err != nil {
				return fmt.Errorf("load learning paths: %w", err)
			}
			inputs.paths = paths
			return nil
		})
	}
	if withCareers {
		group.Go(func() error {
			careers, _, err := s.careers.List(groupCtx, repository.CareerFilter{ActiveOnly: true})
			if err != nil {
				return fmt.Errorf("load careers: %w", err)
			}
			inputs.careers = careers
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return recommendationInputs{}, err
	}
	return inputs, nil
}

func (s *recommendationService) rankPaths(inputs recommendationInputs) []dto.RecommendedLearningPath {
	items := make([]dto.RecommendedLearningPath, 0)
	if inputs.scores.Empty() {
		return items
	}

	byID := make(map[uint]models.LearningPath, len(inputs.paths))
	views := make([]scoring.LearningPath, 0, len(inputs.paths))
	for _, path := range inputs.paths {
		byID[path.ID] = path
		views = append(views, path.RankingView())
	}

	for _, entry := range s.ranker.RankLearningPaths(views, inputs.scores) {
		items = append(items, dto.RecommendedLearningPath{
			LearningPathResponse: dto.NewLearningPathResponse(byID[entry.ID]),
			RelevanceScore:       entry.RelevanceScore,
		})
	}
	return items
}

func (s *recommendationService) rankCareers(inputs recommendationInputs) []dto.RecommendedCareer {
	items := make([]dto.RecommendedCareer, 0)
	if inputs.scores.Empty() {
		return items
	}

	byID := make(map[uint]models.CareerProfile, len(inputs.careers))
	views := make([]scoring.CareerProfile, 0, len(inputs.careers))
	for _, career := range inputs.careers {
		byID[career.ID] = career
		views = append(views, career.RankingView())
	}

	for _, entry := range s.ranker.RankCareers(views, inputs.scores) {
		items = append(items, dto.RecommendedCareer{
			CareerResponse: dto.NewCareerResponse(byID[entry.ID]),
			RelevanceScore: entry.RelevanceScore,
			Rationale: dto.AptitudeRationale{
				AssessmentScore: entry.Rationale.AssessmentScore,
				DemandScore:     entry.Rationale.DemandScore,
				RiskScore:       entry.Rationale.RiskScore,
			},
		})
	}
	return items
}

func (s *recommendationService) readCache(ctx context.Context, key, kind string, target interface{}) bool {
	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to read recommendation cache")
			s.countRequest(kind, "error")
		}
		return false
	}
	if err := json.Unmarshal([]byte(cached), target); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("discarding malformed recommendation cache entry")
		return false
	}
	return true
}

func (s *recommendationService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to store recommendation cache")
	}
}

func (s *recommendationService) countRequest(kind, cache string) {
	observability.RecommendationRequests().WithLabelValues(kind, cache).Inc()
}

func observeLatency(kind string, started time.Time) {
	observability.RecommendationLatency().WithLabelValues(kind).Observe(time.Since(started).Seconds())
}

func cacheKey(userID uint, generation int64, kind string) string {
	return fmt.Sprintf("recommendations:v1:%d:g%d:%s", userID, generation, kind)
}

func generationKey(userID uint) string {
	return fmt.Sprintf("recommendations:v1:%d:gen", userID)
}

func nonNilScores(scores scoring.CategoryScores) map[string]float64 {
	if scores.Scores == nil {
		return map[string]float64{}
	}
	return scores.Scores
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
