package service

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/models"
	"github.com/noah-isme/pathfinder-api/internal/observability"
	"github.com/noah-isme/pathfinder-api/internal/repository"
	"github.com/noah-isme/pathfinder-api/internal/scoring"
)

var (
	// ErrSeedDisabled indicates the seeding tools are disabled by configuration.
	ErrSeedDisabled = errors.New("seeding is disabled")
	// ErrSeedUnauthorized indicates the provided token is invalid.
	ErrSeedUnauthorized = errors.New("invalid seed token")
)

// SeedService upserts catalog content. Every operation is guarded by the seed token.
type SeedService interface {
	SeedAssessments(ctx context.Context, token string, items []dto.SeedAssessment) (int64, error)
	SeedLearningPaths(ctx context.Context, token string, items []dto.SeedLearningPath) (int64, error)
	SeedCareers(ctx context.Context, token string, items []dto.CareerUpsertRequest) (int64, error)
	ImportCatalog(ctx context.Context, token string, r io.Reader) (dto.CatalogImportResult, error)
}

// SeedConfig controls the seeding tools.
type SeedConfig struct {
	Enabled        bool
	Token          string
	ImportMaxBytes int64
}

type seedService struct {
	assessments repository.AssessmentRepository
	paths       repository.LearningPathRepository
	careers     repository.CareerRepository
	validator   *validator.Validate
	sanitizer   catalogSanitizer
	activity    ActivityRecorder
	config      SeedConfig
	logger      zerolog.Logger
}

// NewSeedService constructs a seeding service.
func NewSeedService(
	assessments repository.AssessmentRepository,
	paths repository.LearningPathRepository,
	careers repository.CareerRepository,
	validate *validator.Validate,
	activity ActivityRecorder,
	config SeedConfig,
	logger zerolog.Logger,
) SeedService {
	if validate == nil {
		validate = validator.New()
	}
	if config.ImportMaxBytes <= 0 {
		config.ImportMaxBytes = 5 << 20
	}
	return &seedService{
		assessments: assessments,
		paths:       paths,
		careers:     careers,
		validator:   validate,
		sanitizer:   newCatalogSanitizer(),
		activity:    activity,
		config:      config,
		logger:      logger.With().Str("component", "seed_service").Logger(),
	}
}

func (s *seedService) SeedAssessments(ctx context.Context, token string, items []dto.SeedAssessment) (int64, error) {
	if err := s.authorize(token); err != nil {
		return 0, err
	}
	return s.upsertAssessments(ctx, items)
}

func (s *seedService) SeedLearningPaths(ctx context.Context, token string, items []dto.SeedLearningPath) (int64, error) {
	if err := s.authorize(token); err != nil {
		return 0, err
	}
	return s.upsertLearningPaths(ctx, items)
}

func (s *seedService) SeedCareers(ctx context.Context, token string, items []dto.CareerUpsertRequest) (int64, error) {
	if err := s.authorize(token); err != nil {
		return 0, err
	}
	return s.upsertCareers(ctx, items)
}

func (s *seedService) ImportCatalog(ctx context.Context, token string, r io.Reader) (dto.CatalogImportResult, error) {
	if err := s.authorize(token); err != nil {
		return dto.CatalogImportResult{}, err
	}

	payload, err := io.ReadAll(io.LimitReader(r, s.config.ImportMaxBytes+1))
	if err != nil {
		return dto.CatalogImportResult{}, err
	}
	if int64(len(payload)) > s.config.ImportMaxBytes {
		return dto.CatalogImportResult{}, scoring.ValidationError(
			fmt.Sprintf("catalog import exceeds %d bytes", s.config.ImportMaxBytes),
			map[string]interface{}{"max_bytes": s.config.ImportMaxBytes},
		)
	}
	if !mimetype.Detect(payload).Is("application/json") {
		return dto.CatalogImportResult{}, ErrInvalidCatalogFile
	}

	var document dto.CatalogImport
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&document); err != nil {
		return dto.CatalogImportResult{}, scoring.ValidationError("catalog import is malformed: "+err.Error(), nil)
	}

	var result dto.CatalogImportResult
	if result.Assessments, err = s.upsertAssessments(ctx, document.Assessments); err != nil {
		return result, err
	}
	if result.LearningPaths, err = s.upsertLearningPaths(ctx, document.LearningPaths); err != nil {
		return result, err
	}
	if result.Careers, err = s.upsertCareers(ctx, document.Careers); err != nil {
		return result, err
	}

	if s.activity != nil {
		if _, err := s.activity.Record(ctx, ActivityEntry{
			Action:     ActionCatalogImported,
			EntityType: "catalog",
			Metadata: map[string]interface{}{
				"assessments":    result.Assessments,
				"learning_paths": result.LearningPaths,
				"careers":        result.Careers,
			},
		}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to record catalog import")
		}
	}

	s.logger.Info().
		Int64("assessments", result.Assessments).
		Int64("learning_paths", result.LearningPaths).
		Int64("careers", result.Careers).
		Msg("catalog imported")
	return result, nil
}

func (s *seedService) upsertAssessments(ctx context.Context, items []dto.SeedAssessment) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	assessments := make([]models.Assessment, 0, len(items))
	for idx, item := range items {
		if err := s.validator.Struct(item); err != nil {
			return 0, err
		}
		assessment, err := s.assessmentModel(item)
		if err != nil {
			return 0, withIndex(err, "assessments", idx)
		}
		assessments = append(assessments, assessment)
	}

	affected, err := s.assessments.UpsertBatch(ctx, assessments)
	if err != nil {
		return 0, err
	}
	observability.CatalogImportItems().WithLabelValues("assessment").Add(float64(affected))
	s.logger.Info().Int64("affected", affected).Msg("assessments seeded")
	return affected, nil
}

func (s *seedService) assessmentModel(item dto.SeedAssessment) (models.Assessment, error) {
	title := s.sanitizer.plain(item.Title)
	assessment := models.Assessment{
		Slug:            slugOrTitle(item.Slug, title),
		Title:           title,
		Description:     s.sanitizer.formatted(item.Description),
		Category:        item.Category,
		DurationMinutes: item.DurationMinutes,
		PassingScore:    item.PassingScore,
		IsActive:        boolOrTrue(item.IsActive),
	}

	for idx, q := range item.Questions {
		question := models.AssessmentQuestion{
			Position:     idx,
			Prompt:       s.sanitizer.plain(q.Prompt),
			QuestionType: seedQuestionType(q.QuestionType),
			Category:     strings.TrimSpace(q.Category),
			Insight:      s.sanitizer.plain(q.Insight),
			SkillWeights: datatypes.NewJSONType(q.SkillWeights),
		}
		optionCount := len(scoring.LikertLabels)
		if question.QuestionType == scoring.AnswerTypeMCQ {
			options := s.sanitizer.list(q.Options)
			if len(options) < 2 {
				return models.Assessment{}, scoring.ValidationError(fmt.Sprintf("question %d: mcq questions need at least two options", idx), nil)
			}
			question.CorrectAnswer = s.sanitizer.entry(q.CorrectAnswer)
			if scoring.OptionIndex(scoring.AnswerTypeMCQ, options, question.CorrectAnswer) < 0 {
				return models.Assessment{}, scoring.ValidationError(fmt.Sprintf("question %d: correct answer must be one of the options", idx), nil)
			}
			question.Options = options
			optionCount = len(options)
		}
		if err := checkSkillNames(q.SkillWeights); err != nil {
			return models.Assessment{}, scoring.ValidationError(fmt.Sprintf("question %d: %s", idx, err.Error()), nil)
		}
		for _, override := range q.OptionWeights {
			if override.OptionIndex < 0 || override.OptionIndex >= optionCount {
				return models.Assessment{}, scoring.ValidationError(
					fmt.Sprintf("question %d: option_index %d is out of range (%d options)", idx, override.OptionIndex, optionCount),
					map[string]interface{}{"question": idx, "option_index": override.OptionIndex},
				)
			}
			if err := checkSkillNames(override.Weights); err != nil {
				return models.Assessment{}, scoring.ValidationError(fmt.Sprintf("question %d: %s", idx, err.Error()), nil)
			}
			question.OptionMappings = append(question.OptionMappings, models.OptionWeight{
				OptionIndex: override.OptionIndex,
				Weights:     override.Weights,
			})
		}
		assessment.Questions = append(assessment.Questions, question)
	}
	return assessment, nil
}

// seedQuestionType maps any type other than mcq, in any case, to likert.
func seedQuestionType(value string) string {
	if strings.EqualFold(strings.TrimSpace(value), scoring.AnswerTypeMCQ) {
		return scoring.AnswerTypeMCQ
	}
	return scoring.AnswerTypeLikert
}

func (s *seedService) upsertLearningPaths(ctx context.Context, items []dto.SeedLearningPath) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	paths := make([]models.LearningPath, 0, len(items))
	for _, item := range items {
		if err := s.validator.Struct(item); err != nil {
			return 0, err
		}
		title := s.sanitizer.plain(item.Title)
		paths = append(paths, models.LearningPath{
			Slug:            slugOrTitle(item.Slug, title),
			Title:           title,
			Description:     s.sanitizer.formatted(item.Description),
			Category:        item.Category,
			TargetUsers:     s.sanitizer.list(item.TargetUsers),
			Skills:          s.sanitizer.list(item.Skills),
			JobOutcomes:     s.sanitizer.list(item.JobOutcomes),
			TotalHours:      item.TotalHours,
			DifficultyLevel: s.sanitizer.plain(item.DifficultyLevel),
			IsActive:        boolOrTrue(item.IsActive),
		})
	}

	affected, err := s.paths.UpsertBatch(ctx, paths)
	if err != nil {
		return 0, err
	}
	observability.CatalogImportItems().WithLabelValues("learning_path").Add(float64(affected))
	s.logger.Info().Int64("affected", affected).Msg("learning paths seeded")
	return affected, nil
}

func (s *seedService) upsertCareers(ctx context.Context, items []dto.CareerUpsertRequest) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	careers := make([]models.CareerProfile, 0, len(items))
	for _, item := range items {
		if err := s.validator.Struct(item); err != nil {
			return 0, err
		}
		career := models.CareerProfile{IsActive: true}
		s.sanitizer.applyCareer(&career, item)
		career.Slug = slugOrTitle(item.Slug, career.Title)
		careers = append(careers, career)
	}

	affected, err := s.careers.UpsertBatch(ctx, careers)
	if err != nil {
		return 0, err
	}
	observability.CatalogImportItems().WithLabelValues("career").Add(float64(affected))
	s.logger.Info().Int64("affected", affected).Msg("careers seeded")
	return affected, nil
}

func (s *seedService) authorize(token string) error {
	if !s.config.Enabled {
		return ErrSeedDisabled
	}
	expected := strings.TrimSpace(s.config.Token)
	if expected == "" {
		return ErrSeedUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(strings.TrimSpace(token))) != 1 {
		return ErrSeedUnauthorized
	}
	return nil
}

func checkSkillNames(weights map[string]float64) error {
	for name := range weights {
		if !isSkill(name) {
			return fmt.Errorf("unknown skill %q", name)
		}
	}
	return nil
}

func isSkill(name string) bool {
	for _, skill := range scoring.SkillNames {
		if skill == name {
			return true
		}
	}
	return false
}

func slugOrTitle(slug, title string) string {
	if value := slugify(slug); value != "" {
		return value
	}
	return slugify(title)
}

func boolOrTrue(value *bool) bool {
	if value == nil {
		return true
	}
	return *value
}

func withIndex(err error, section string, idx int) error {
	var typed *scoring.Error
	if errors.As(err, &typed) {
		details := map[string]interface{}{"section": section, "index": idx}
		for key, value := range typed.Details {
			details[key] = value
		}
		return scoring.ValidationError(fmt.Sprintf("%s[%d]: %s", section, idx, typed.Message), details)
	}
	return err
}
