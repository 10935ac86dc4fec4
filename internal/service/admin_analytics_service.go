package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/models"
	"github.com/noah-isme/pathfinder-api/internal/repository"
	"github.com/noah-isme/pathfinder-api/internal/scoring"
)

const (
	analyticsCacheKey = "analytics:v1:summary"
	analyticsWeeks    = 8
)

// AdminAnalyticsService aggregates assessment analytics for the admin dashboard.
type AdminAnalyticsService interface {
	GetSummary(ctx context.Context) (dto.AnalyticsSummaryResponse, error)
}

type adminAnalyticsService struct {
	repo     repository.AdminAnalyticsRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewAdminAnalyticsService constructs the analytics service.
func NewAdminAnalyticsService(repo repository.AdminAnalyticsRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) AdminAnalyticsService {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &adminAnalyticsService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "admin_analytics_service").Logger(),
		tracer:   otel.Tracer("github.com/noah-isme/pathfinder-api/internal/service/admin_analytics"),
		now:      time.Now,
	}
}

func (s *adminAnalyticsService) GetSummary(ctx context.Context) (dto.AnalyticsSummaryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.aggregate")
	span.SetAttributes(attribute.String("analytics.cache_key", analyticsCacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, analyticsCacheKey).Result()
		if err == nil {
			var response dto.AnalyticsSummaryResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("analytics.cache_hit", true))
				return response, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read analytics cache")
			span.RecordError(err)
		}
	}

	counts, err := s.repo.CountAttempts(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_attempts_failed")
		return dto.AnalyticsSummaryResponse{}, err
	}

	records, err := s.repo.ListCompletedAttempts(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_completed_attempts_failed")
		return dto.AnalyticsSummaryResponse{}, err
	}

	summary := s.buildSummary(counts, records)
	span.SetAttributes(
		attribute.Int64("analytics.active_learners", counts.ActiveLearners),
		attribute.Int("analytics.completed_count", len(records)),
	)

	if s.cache != nil {
		payload, err := json.Marshal(summary)
		if err == nil {
			if err := s.cache.Set(ctx, analyticsCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store analytics cache")
				span.RecordError(err)
			}
		}
	}

	return summary, nil
}

func (s *adminAnalyticsService) buildSummary(counts repository.AttemptCounts, records []models.ProgressRecord) dto.AnalyticsSummaryResponse {
	now := s.now()
	distribution := map[string]int64{
		scoring.ProfileVeryStrong: 0,
		scoring.ProfileStrong:     0,
		scoring.ProfileModerate:   0,
		scoring.ProfileDeveloping: 0,
		scoring.ProfileEmerging:   0,
	}
	categories := make(map[string]int64)
	weekly := map[time.Time]int64{}
	cutoff := startOfWeek(now).AddDate(0, 0, -7*(analyticsWeeks-1))

	var scoreSum float64
	var scored, passed int64
	for _, record := range records {
		if record.Score != nil {
			score := *record.Score
			scoreSum += score
			scored++
			distribution[scoring.ProfileLabel(score)]++
			if record.Assessment != nil && score >= record.Assessment.PassingScore {
				passed++
			}
		}
		if record.Assessment != nil {
			categories[record.Assessment.Category]++
		}
		if record.CompletedAt != nil && !record.CompletedAt.Before(cutoff) {
			weekly[startOfWeek(*record.CompletedAt)]++
		}
	}

	weeks := make([]time.Time, 0, len(weekly))
	for week := range weekly {
		weeks = append(weeks, week)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	completions := make([]dto.WeeklyCompletionPoint, 0, len(weeks))
	for _, week := range weeks {
		completions = append(completions, dto.WeeklyCompletionPoint{WeekStart: week, Completions: weekly[week]})
	}

	summary := dto.AnalyticsSummaryResponse{
		ActiveLearners:      counts.ActiveLearners,
		CompletedAttempts:   counts.Completed,
		InProgressAttempts:  counts.InProgress,
		ProfileDistribution: distribution,
		CategoryCompletions: categories,
		WeeklyCompletions:   completions,
		GeneratedAt:         now.UTC(),
	}
	if scored > 0 {
		summary.AverageScore = math.Round(scoreSum/float64(scored)*100) / 100
		summary.PassRate = int(math.Round(float64(passed) * 100 / float64(scored)))
	}
	return summary
}

func startOfWeek(t time.Time) time.Time {
	utc := t.UTC()
	weekday := int(utc.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start := utc.AddDate(0, 0, -(weekday - 1))
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
}
