package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/models"
	"github.com/noah-isme/pathfinder-api/internal/observability"
	"github.com/noah-isme/pathfinder-api/internal/repository"
	"github.com/noah-isme/pathfinder-api/internal/scoring"
)

// AssessmentService runs the assessment lifecycle: catalog, attempts, submission and history.
type AssessmentService interface {
	List(ctx context.Context, req dto.AssessmentListRequest) ([]dto.AssessmentSummary, error)
	Get(ctx context.Context, id uint) (dto.AssessmentDetail, error)
	Start(ctx context.Context, actor ActivityActor, assessmentID uint) (dto.StartAttemptResponse, error)
	Submit(ctx context.Context, actor ActivityActor, assessmentID uint, req dto.SubmitAssessmentRequest) (dto.SubmissionResultResponse, error)
	History(ctx context.Context, userID uint, req dto.ProgressListRequest) (dto.ProgressListResponse, error)
	SkillProfile(ctx context.Context, userID uint) ([]dto.SkillProgressResponse, error)
	Stats(ctx context.Context, userID uint) (dto.AssessmentStatsResponse, error)
}

// CacheInvalidator drops cached derived data for a user.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, userID uint) error
}

type assessmentService struct {
	assessments repository.AssessmentRepository
	progress    repository.ProgressRepository
	validator   *validator.Validate
	activity    ActivityRecorder
	events      ProgressEventPublisher
	cache       CacheInvalidator
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewAssessmentService constructs the assessment service. activity, events and cache are optional.
func NewAssessmentService(
	assessments repository.AssessmentRepository,
	progress repository.ProgressRepository,
	validate *validator.Validate,
	activity ActivityRecorder,
	events ProgressEventPublisher,
	cache CacheInvalidator,
	logger zerolog.Logger,
) AssessmentService {
	if validate == nil {
		validate = validator.New()
	}
	return &assessmentService{
		assessments: assessments,
		progress:    progress,
		validator:   validate,
		activity:    activity,
		events:      events,
		cache:       cache,
		logger:      logger.With().Str("component", "assessment_service").Logger(),
		tracer:      otel.Tracer("github.com/noah-isme/pathfinder-api/internal/service/assessment"),
		now:         time.Now,
	}
}

func (s *assessmentService) List(ctx context.Context, req dto.AssessmentListRequest) ([]dto.AssessmentSummary, error) {
	category := strings.ToLower(strings.TrimSpace(req.Category))
	if category != "" && !scoring.IsAssessmentCategory(category) {
		return nil, ErrInvalidCategory
	}

	items, err := s.assessments.List(ctx, repository.AssessmentFilter{Category: category, ActiveOnly: true})
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	counts, err := s.assessments.QuestionCounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.AssessmentSummary, 0, len(items))
	for _, item := range items {
		summaries = append(summaries, dto.NewAssessmentSummary(item, counts[item.ID]))
	}
	return summaries, nil
}

func (s *assessmentService) Get(ctx context.Context, id uint) (dto.AssessmentDetail, error) {
	assessment, err := s.activeAssessment(ctx, id)
	if err != nil {
		return dto.AssessmentDetail{}, err
	}
	return dto.NewAssessmentDetail(assessment), nil
}

func (s *assessmentService) Start(ctx context.Context, actor ActivityActor, assessmentID uint) (dto.StartAttemptResponse, error) {
	assessment, err := s.activeAssessment(ctx, assessmentID)
	if err != nil {
		return dto.StartAttemptResponse{}, err
	}
	if len(assessment.Questions) == 0 {
		return dto.StartAttemptResponse{}, scoring.NewError(scoring.KindDataIntegrity, "assessment has no questions")
	}

	record := models.ProgressRecord{
		UserID:       actor.ID,
		AssessmentID: assessment.ID,
		Status:       scoring.StatusInProgress,
		StartedAt:    s.now().UTC(),
	}
	if err := s.progress.Create(ctx, &record); err != nil {
		s.logger.Error().Err(err).Uint("assessment_id", assessmentID).Msg("failed to create progress record")
		return dto.StartAttemptResponse{}, err
	}

	s.recordActivity(ctx, actor, ActionAssessmentStarted, record.ID, map[string]interface{}{
		"assessment_id": assessment.ID,
		"category":      assessment.Category,
	})

	return dto.StartAttemptResponse{
		ProgressID: record.ID,
		StartedAt:  record.StartedAt,
		Assessment: dto.NewAssessmentDetail(assessment),
	}, nil
}

func (s *assessmentService) Submit(ctx context.Context, actor ActivityActor, assessmentID uint, req dto.SubmitAssessmentRequest) (dto.SubmissionResultResponse, error) {
	ctx, span := s.tracer.Start(ctx, "assessments.submit")
	span.SetAttributes(
		attribute.Int("assessment.id", int(assessmentID)),
		attribute.Int("progress.id", int(req.ProgressID)),
	)
	defer span.End()

	if err := s.validator.Struct(req); err != nil {
		span.SetStatus(codes.Error, "invalid_request")
		return dto.SubmissionResultResponse{}, err
	}

	record, err := s.progress.GetByID(ctx, req.ProgressID)
	if err != nil {
		return dto.SubmissionResultResponse{}, translateNotFound(err, ErrProgressNotFound)
	}
	if record.UserID != actor.ID {
		span.SetStatus(codes.Error, "ownership")
		return dto.SubmissionResultResponse{}, ErrProgressForbidden
	}
	if record.AssessmentID != assessmentID {
		return dto.SubmissionResultResponse{}, ErrProgressMismatch
	}
	if record.Status == scoring.StatusCompleted {
		return dto.SubmissionResultResponse{}, ErrAttemptClosed
	}

	assessment, err := s.assessments.GetByID(ctx, assessmentID, true)
	if err != nil {
		return dto.SubmissionResultResponse{}, translateNotFound(err, ErrAssessmentNotFound)
	}

	evaluation, err := scoring.Evaluate(assessment.ScoringDef(), req.Answers)
	if err != nil {
		observability.AssessmentEvaluations().WithLabelValues(assessment.Category, string(scoring.KindOf(err))).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation_failed")
		return dto.SubmissionResultResponse{}, err
	}

	completedAt := s.now().UTC()
	response := buildSubmissionResponse(record.ID, assessment, evaluation, completedAt)
	payload, err := json.Marshal(response)
	if err != nil {
		return dto.SubmissionResultResponse{}, err
	}

	timeSpent := req.TimeSpentSeconds
	if timeSpent <= 0 && !record.StartedAt.IsZero() {
		timeSpent = int64(completedAt.Sub(record.StartedAt).Seconds())
	}

	err = s.progress.CompleteAttempt(ctx, repository.AttemptCompletion{
		ProgressID:      record.ID,
		UserID:          actor.ID,
		ExpectedVersion: record.Version,
		Score:           float64(evaluation.OverallPercentage),
		CompletedAt:     completedAt,
		TimeSpent:       maxInt64(timeSpent, 0),
		Result:          payload,
		Skills:          skillRows(evaluation),
	})
	if err != nil {
		if errors.Is(err, repository.ErrStaleProgress) {
			observability.AssessmentEvaluations().WithLabelValues(assessment.Category, string(scoring.KindConflict)).Inc()
			return dto.SubmissionResultResponse{}, ErrAttemptClosed
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist_failed")
		s.logger.Error().Err(err).Uint("progress_id", record.ID).Msg("failed to complete attempt")
		return dto.SubmissionResultResponse{}, err
	}

	observability.AssessmentEvaluations().WithLabelValues(assessment.Category, "completed").Inc()
	observability.AssessmentScores().Observe(float64(evaluation.OverallPercentage))
	span.SetAttributes(attribute.Int("assessment.overall_percentage", evaluation.OverallPercentage))

	s.afterCompletion(ctx, actor, assessment, record.ID, evaluation, completedAt)
	return response, nil
}

// afterCompletion runs best-effort side effects; failures are logged and never fail the submission.
func (s *assessmentService) afterCompletion(ctx context.Context, actor ActivityActor, assessment models.Assessment, progressID uint, evaluation scoring.EvaluationResult, completedAt time.Time) {
	s.recordActivity(ctx, actor, ActionAssessmentCompleted, progressID, map[string]interface{}{
		"assessment_id":      assessment.ID,
		"category":           assessment.Category,
		"overall_percentage": evaluation.OverallPercentage,
		"passed":             evaluation.Passed,
	})

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, actor.ID); err != nil {
			s.logger.Warn().Err(err).Uint("user_id", actor.ID).Msg("failed to invalidate recommendations")
		}
	}

	if s.events != nil {
		event := ProgressEvent{
			Type:         EventAssessmentCompleted,
			UserID:       actor.ID,
			AssessmentID: assessment.ID,
			ProgressID:   progressID,
			Category:     assessment.Category,
			Score:        float64(evaluation.OverallPercentage),
			OccurredAt:   completedAt,
		}
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn().Err(err).Uint("progress_id", progressID).Msg("failed to publish progress event")
		}
	}
}

func (s *assessmentService) History(ctx context.Context, userID uint, req dto.ProgressListRequest) (dto.ProgressListResponse, error) {
	status := strings.TrimSpace(req.Status)
	switch status {
	case "", scoring.StatusInProgress, scoring.StatusCompleted:
	default:
		return dto.ProgressListResponse{}, scoring.ValidationError("status must be one of: In Progress, Completed", map[string]interface{}{"field": "status"})
	}

	filter := repository.ProgressFilter{
		Status:   status,
		Page:     normalizePage(req.Page),
		PageSize: clampPageSize(req.PageSize),
	}
	records, total, err := s.progress.ListByUser(ctx, userID, filter)
	if err != nil {
		return dto.ProgressListResponse{}, err
	}

	items := make([]dto.ProgressResponse, 0, len(records))
	for _, record := range records {
		items = append(items, dto.NewProgressResponse(record))
	}
	return dto.ProgressListResponse{
		Items:      items,
		Pagination: paginationMeta(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *assessmentService) SkillProfile(ctx context.Context, userID uint) ([]dto.SkillProgressResponse, error) {
	rows, err := s.progress.ListSkillProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SkillProgressResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.NewSkillProgressResponse(row))
	}
	return items, nil
}

func (s *assessmentService) Stats(ctx context.Context, userID uint) (dto.AssessmentStatsResponse, error) {
	stats, err := s.progress.Stats(ctx, userID)
	if err != nil {
		return dto.AssessmentStatsResponse{}, err
	}
	available, err := s.assessments.CountActive(ctx)
	if err != nil {
		return dto.AssessmentStatsResponse{}, err
	}

	response := dto.AssessmentStatsResponse{
		TotalAttempts:  stats.Total,
		Completed:      stats.Completed,
		InProgress:     stats.InProgress,
		AvailableTotal: available,
		DistinctTaken:  stats.DistinctTaken,
	}
	if stats.AverageScore != nil {
		response.AverageScore = math.Round(*stats.AverageScore*100) / 100
	}
	if stats.Total > 0 {
		response.CompletionRate = int(math.Round(float64(stats.Completed) * 100 / float64(stats.Total)))
	}
	return response, nil
}

func (s *assessmentService) activeAssessment(ctx context.Context, id uint) (models.Assessment, error) {
	assessment, err := s.assessments.GetByID(ctx, id, true)
	if err != nil {
		return models.Assessment{}, translateNotFound(err, ErrAssessmentNotFound)
	}
	if !assessment.IsActive {
		return models.Assessment{}, ErrAssessmentNotFound
	}
	return assessment, nil
}

func (s *assessmentService) recordActivity(ctx context.Context, actor ActivityActor, action string, progressID uint, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	entityID := progressID
	if _, err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "progress_record",
		EntityID:   &entityID,
		Metadata:   metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}

func buildSubmissionResponse(progressID uint, assessment models.Assessment, evaluation scoring.EvaluationResult, completedAt time.Time) dto.SubmissionResultResponse {
	categories := make(map[string]dto.CategoryResultResponse, len(evaluation.Categories))
	for name, profile := range evaluation.Categories {
		categories[name] = dto.CategoryResultResponse{
			Score:      profile.Score,
			Count:      profile.Count,
			MaxScore:   profile.MaxScore,
			Percentage: profile.Percentage,
			Profile:    profile.Profile,
		}
	}

	skills := make([]dto.SkillResultResponse, 0, len(evaluation.Skills))
	for _, name := range scoring.SkillNames {
		profile, ok := evaluation.Skills[name]
		if !ok {
			continue
		}
		skills = append(skills, dto.SkillResultResponse{
			Skill:      name,
			Score:      math.Round(profile.Score*100) / 100,
			MaxScore:   profile.MaxScore,
			Percentage: profile.Percentage,
			Profile:    profile.Profile,
		})
	}

	questions := make([]dto.QuestionResultResponse, 0, len(evaluation.Questions))
	for _, q := range evaluation.Questions {
		questions = append(questions, dto.QuestionResultResponse{
			Index:      q.Index,
			Question:   q.Question,
			Category:   q.Category,
			UserAnswer: q.UserAnswer,
			Score:      q.Value,
			IsCorrect:  q.Correct,
			Insight:    q.Insight,
		})
	}

	return dto.SubmissionResultResponse{
		ProgressID:        progressID,
		AssessmentID:      assessment.ID,
		AssessmentTitle:   assessment.Title,
		Status:            scoring.StatusCompleted,
		OverallPercentage: evaluation.OverallPercentage,
		OverallProfile:    evaluation.OverallProfile,
		Passed:            evaluation.Passed,
		CorrectCount:      evaluation.CorrectCount,
		MCQCount:          evaluation.MCQCount,
		Categories:        categories,
		Skills:            skills,
		Questions:         questions,
		CompletedAt:       completedAt,
	}
}

func skillRows(evaluation scoring.EvaluationResult) []models.SkillProgress {
	names := make([]string, 0, len(evaluation.Skills))
	for name := range evaluation.Skills {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]models.SkillProgress, 0, len(names))
	for _, name := range names {
		profile := evaluation.Skills[name]
		rows = append(rows, models.SkillProgress{
			Skill:      name,
			Percentage: profile.Percentage,
			Level:      profile.Profile,
		})
	}
	return rows
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
