package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/models"
	"github.com/noah-isme/pathfinder-api/internal/repository"
	"github.com/noah-isme/pathfinder-api/internal/scoring"
)

type recommendationFixture struct {
	svc   RecommendationService
	mini  *miniredis.Miniredis
	redis *redis.Client
}

func newRecommendationFixture(t *testing.T) recommendationFixture {
	t.Helper()
	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	db := setupServiceDB(t)
	ctx := context.Background()
	assessments := repository.NewAssessmentRepository(db)
	progress := repository.NewProgressRepository(db)
	paths := repository.NewLearningPathRepository(db)
	careers := repository.NewCareerRepository(db)

	technical := storeAssessment(t, assessments, technicalAssessment())
	completedAt := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, progress.Create(ctx, &models.ProgressRecord{
		UserID: 7, AssessmentID: technical.ID, Status: scoring.StatusCompleted,
		Score: floatPtr(90), StartedAt: completedAt, CompletedAt: &completedAt,
	}))
	require.NoError(t, progress.Create(ctx, &models.ProgressRecord{
		UserID: 7, AssessmentID: technical.ID, Status: scoring.StatusInProgress, StartedAt: completedAt,
	}))

	_, err = paths.UpsertBatch(ctx, []models.LearningPath{
		{Slug: "web", Title: "Web Development", Category: scoring.AssessmentCategoryTechnical, IsActive: true},
		{Slug: "teaching", Title: "Teaching Foundations", Category: scoring.AssessmentCategoryAptitude, IsActive: true},
		{Slug: "legacy", Title: "Legacy Systems", Category: scoring.AssessmentCategoryTechnical, IsActive: false},
	})
	require.NoError(t, err)

	_, err = careers.UpsertBatch(ctx, []models.CareerProfile{
		{
			Slug: "software-engineer", Title: "Software Engineer", Category: scoring.CareerCategoryTechnology,
			DemandIndicator: scoring.LevelHigh, RiskIndex: scoring.LevelLow, IsActive: true,
			Locations:     []string{"Kathmandu"},
			EducationCost: models.CostRange{Min: floatPtr(400000), Max: floatPtr(800000)},
		},
		{
			Slug: "nurse", Title: "Nurse", Category: scoring.CareerCategoryHealthcare,
			DemandIndicator: scoring.LevelHigh, RiskIndex: scoring.LevelLow, IsActive: true,
			Locations:     []string{"Pokhara"},
			EducationCost: models.CostRange{Max: floatPtr(300000)},
		},
		{
			Slug: "accountant", Title: "Accountant", Category: scoring.CareerCategoryFinance,
			DemandIndicator: scoring.LevelMedium, RiskIndex: scoring.LevelMedium, IsActive: true,
			Locations: []string{"Kathmandu"},
		},
	})
	require.NoError(t, err)

	svc := NewRecommendationService(progress, paths, careers, scoring.NewRanker(nil), client, time.Minute, testLogger())
	return recommendationFixture{svc: svc, mini: mini, redis: client}
}

func TestRecommendationServiceRanksAndCaches(t *testing.T) {
	f := newRecommendationFixture(t)
	ctx := context.Background()

	paths, err := f.svc.LearningPaths(ctx, 7)
	require.NoError(t, err)
	require.False(t, paths.CacheHit)
	require.Equal(t, []string{scoring.AssessmentCategoryTechnical}, paths.TopCategories)
	require.Len(t, paths.Items, 1)
	require.Equal(t, "Web Development", paths.Items[0].Title)
	require.Equal(t, float64(90), paths.Items[0].RelevanceScore)

	careers, err := f.svc.Careers(ctx, 7)
	require.NoError(t, err)
	require.Len(t, careers.Items, 3)
	require.Equal(t, "Software Engineer", careers.Items[0].Title)
	require.Equal(t, float64(75), careers.Items[0].RelevanceScore)
	require.Equal(t, dto.AptitudeRationale{AssessmentScore: 45, DemandScore: 20, RiskScore: 10}, careers.Items[0].Rationale)
	require.Equal(t, "Nurse", careers.Items[1].Title)
	require.Equal(t, "Accountant", careers.Items[2].Title)

	cached, err := f.svc.Careers(ctx, 7)
	require.NoError(t, err)
	require.True(t, cached.CacheHit)
	require.Len(t, cached.Items, 3)
	require.Equal(t, careers.Items[0].Title, cached.Items[0].Title)
	require.Equal(t, careers.Items[0].Rationale, cached.Items[0].Rationale)
	require.True(t, f.mini.Exists("recommendations:v1:7:g0:careers"))

	overview, err := f.svc.Overview(ctx, 7)
	require.NoError(t, err)
	require.Len(t, overview.LearningPaths, 1)
	require.Len(t, overview.Careers, 3)

	require.NoError(t, f.svc.Invalidate(ctx, 7))
	require.False(t, f.mini.Exists("recommendations:v1:7:g0:careers"))
	require.False(t, f.mini.Exists("recommendations:v1:7:g0:learning_paths"))
	require.False(t, f.mini.Exists("recommendations:v1:7:g0:overview"))
	generation, err := f.mini.Get("recommendations:v1:7:gen")
	require.NoError(t, err)
	require.Equal(t, "1", generation)

	fresh, err := f.svc.Careers(ctx, 7)
	require.NoError(t, err)
	require.False(t, fresh.CacheHit)
	require.True(t, f.mini.Exists("recommendations:v1:7:g1:careers"))
}

func TestRecommendationServiceIgnoresWritesFromBeforeInvalidate(t *testing.T) {
	f := newRecommendationFixture(t)
	ctx := context.Background()
	svc := f.svc.(*recommendationService)

	// A read that resolved its key before the submission finishes after the invalidation.
	staleKey, cacheable := svc.cacheKeyFor(ctx, 7, recommendationKindCareers)
	require.True(t, cacheable)
	require.NoError(t, f.svc.Invalidate(ctx, 7))
	svc.writeCache(ctx, staleKey, dto.CareerRecommendations{Items: []dto.RecommendedCareer{}})

	result, err := f.svc.Careers(ctx, 7)
	require.NoError(t, err)
	require.False(t, result.CacheHit)
	require.Len(t, result.Items, 3)

	cached, err := f.svc.Careers(ctx, 7)
	require.NoError(t, err)
	require.True(t, cached.CacheHit)
	require.Len(t, cached.Items, 3)
}

func TestRecommendationServiceWithoutHistory(t *testing.T) {
	f := newRecommendationFixture(t)

	result, err := f.svc.Overview(context.Background(), 99)
	require.NoError(t, err)
	require.Empty(t, result.LearningPaths)
	require.Empty(t, result.Careers)
	require.NotNil(t, result.CategoryScores)
	require.Empty(t, result.CategoryScores)
	require.Equal(t, NoHistoryMessage, result.Message)
}

func TestRecommendationServiceToleratesCacheOutage(t *testing.T) {
	f := newRecommendationFixture(t)
	f.mini.Close()

	result, err := f.svc.LearningPaths(context.Background(), 7)
	require.NoError(t, err)
	require.False(t, result.CacheHit)
	require.Len(t, result.Items, 1)
}

func TestRecommendationServiceFilterCareers(t *testing.T) {
	f := newRecommendationFixture(t)
	ctx := context.Background()

	result, err := f.svc.FilterCareers(ctx, dto.CareerConstraintRequest{BudgetMax: floatPtr(500000)})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	require.Equal(t, "Nurse", result.Items[0].Title)
	require.Equal(t, float64(35), result.Items[0].RelevanceScore)
	require.Equal(t, float64(scoring.BudgetMatchBonus), result.Items[0].Rationale.BudgetScore)
	require.Equal(t, "Accountant", result.Items[1].Title)
	require.Zero(t, result.Items[1].Rationale.BudgetScore)

	result, err = f.svc.FilterCareers(ctx, dto.CareerConstraintRequest{Location: "Pokhara"})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	require.Equal(t, "Nurse", result.Items[0].Title)
	require.Equal(t, float64(scoring.LocationMatchBonus), result.Items[0].Rationale.LocationScore)

	result, err = f.svc.FilterCareers(ctx, dto.CareerConstraintRequest{RiskTolerance: scoring.LevelLow})
	require.NoError(t, err)
	require.Len(t, result.Items, 2)

	_, err = f.svc.FilterCareers(ctx, dto.CareerConstraintRequest{RiskTolerance: "Extreme"})
	require.True(t, scoring.IsKind(err, scoring.KindValidation))
	require.EqualError(t, err, "risk_tolerance must be one of: Low, Medium, High")

	_, err = f.svc.FilterCareers(ctx, dto.CareerConstraintRequest{BudgetMax: floatPtr(-1)})
	require.EqualError(t, err, "budget_max must be a non-negative number")
}
