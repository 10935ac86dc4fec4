package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pathfinder-api/internal/models"
	"github.com/noah-isme/pathfinder-api/internal/scoring"
)

func seedAssessment(t *testing.T, repo AssessmentRepository, slug, category string) models.Assessment {
	t.Helper()
	_, err := repo.UpsertBatch(context.Background(), []models.Assessment{{
		Slug: slug, Title: slug, Category: category, IsActive: true,
		Questions: []models.AssessmentQuestion{{Prompt: "Statement", Category: category}},
	}})
	require.NoError(t, err)
	list, err := repo.List(context.Background(), AssessmentFilter{Category: category})
	require.NoError(t, err)
	for _, item := range list {
		if item.Slug == slug {
			return item
		}
	}
	t.Fatalf("assessment %s not stored", slug)
	return models.Assessment{}
}

func TestProgressRepositoryCompleteAttemptIsVersioned(t *testing.T) {
	db := setupPathfinderDB(t)
	assessments := NewAssessmentRepository(db)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	assessment := seedAssessment(t, assessments, "tech", scoring.AssessmentCategoryTechnical)
	record := models.ProgressRecord{UserID: 7, AssessmentID: assessment.ID, Status: scoring.StatusInProgress, StartedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, &record))
	require.Equal(t, 1, record.Version)

	completion := AttemptCompletion{
		ProgressID:      record.ID,
		UserID:          7,
		ExpectedVersion: 1,
		Score:           90,
		CompletedAt:     time.Now(),
		Skills: []models.SkillProgress{
			{Skill: scoring.SkillTechnical, Percentage: 80, Level: scoring.ProfileVeryStrong},
		},
	}
	require.NoError(t, repo.CompleteAttempt(ctx, completion))

	err := repo.CompleteAttempt(ctx, completion)
	require.True(t, errors.Is(err, ErrStaleProgress), "second completion must lose the version race")

	stored, err := repo.GetByID(ctx, record.ID)
	require.NoError(t, err)
	require.Equal(t, scoring.StatusCompleted, stored.Status)
	require.NotNil(t, stored.Score)
	require.Equal(t, float64(90), *stored.Score)
	require.Equal(t, 100, stored.CompletionPercentage)
	require.Equal(t, 2, stored.Version)
	require.NotNil(t, stored.Assessment)

	skills, err := repo.ListSkillProgress(ctx, 7)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	require.Equal(t, 1, skills[0].AssessmentsCount)
}

func TestProgressRepositoryCompleteAttemptRejectsOtherUser(t *testing.T) {
	db := setupPathfinderDB(t)
	assessments := NewAssessmentRepository(db)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	assessment := seedAssessment(t, assessments, "apt", scoring.AssessmentCategoryAptitude)
	record := models.ProgressRecord{UserID: 1, AssessmentID: assessment.ID, Status: scoring.StatusInProgress, StartedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, &record))

	err := repo.CompleteAttempt(ctx, AttemptCompletion{ProgressID: record.ID, UserID: 2, ExpectedVersion: 1, Score: 50, CompletedAt: time.Now()})
	require.ErrorIs(t, err, ErrStaleProgress)
}

func TestProgressRepositorySkillUpsertIncrementsCount(t *testing.T) {
	db := setupPathfinderDB(t)
	assessments := NewAssessmentRepository(db)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	assessment := seedAssessment(t, assessments, "tech", scoring.AssessmentCategoryTechnical)
	for i, pct := range []int{40, 85} {
		record := models.ProgressRecord{UserID: 3, AssessmentID: assessment.ID, Status: scoring.StatusInProgress, StartedAt: time.Now()}
		require.NoError(t, repo.Create(ctx, &record))
		require.NoError(t, repo.CompleteAttempt(ctx, AttemptCompletion{
			ProgressID: record.ID, UserID: 3, ExpectedVersion: 1, Score: float64(pct), CompletedAt: time.Now().Add(time.Duration(i) * time.Minute),
			Skills: []models.SkillProgress{{Skill: scoring.SkillAnalytical, Percentage: pct, Level: scoring.ProfileLabel(float64(pct))}},
		}))
	}

	skills, err := repo.ListSkillProgress(ctx, 3)
	require.NoError(t, err)
	require.Len(t, skills, 1)
	require.Equal(t, 85, skills[0].Percentage)
	require.Equal(t, scoring.ProfileVeryStrong, skills[0].Level)
	require.Equal(t, 2, skills[0].AssessmentsCount)
}

func TestProgressRepositoryCompletedScoresAndStats(t *testing.T) {
	db := setupPathfinderDB(t)
	assessments := NewAssessmentRepository(db)
	repo := NewProgressRepository(db)
	ctx := context.Background()

	tech := seedAssessment(t, assessments, "tech", scoring.AssessmentCategoryTechnical)
	apt := seedAssessment(t, assessments, "apt", scoring.AssessmentCategoryAptitude)

	complete := func(assessmentID uint, score float64) {
		record := models.ProgressRecord{UserID: 9, AssessmentID: assessmentID, Status: scoring.StatusInProgress, StartedAt: time.Now()}
		require.NoError(t, repo.Create(ctx, &record))
		require.NoError(t, repo.CompleteAttempt(ctx, AttemptCompletion{ProgressID: record.ID, UserID: 9, ExpectedVersion: 1, Score: score, CompletedAt: time.Now()}))
	}
	complete(tech.ID, 80)
	complete(tech.ID, 60)
	complete(apt.ID, 40)
	require.NoError(t, repo.Create(ctx, &models.ProgressRecord{UserID: 9, AssessmentID: apt.ID, Status: scoring.StatusInProgress, StartedAt: time.Now()}))
	require.NoError(t, repo.Create(ctx, &models.ProgressRecord{UserID: 10, AssessmentID: apt.ID, Status: scoring.StatusInProgress, StartedAt: time.Now()}))

	records, err := repo.CompletedScores(ctx, 9)
	require.NoError(t, err)
	require.Len(t, records, 3)

	aggregated := scoring.Aggregate(records)
	require.Equal(t, float64(140), aggregated.Scores[scoring.AssessmentCategoryTechnical])
	require.Equal(t, float64(40), aggregated.Scores[scoring.AssessmentCategoryAptitude])

	stats, err := repo.Stats(ctx, 9)
	require.NoError(t, err)
	require.Equal(t, int64(4), stats.Total)
	require.Equal(t, int64(3), stats.Completed)
	require.Equal(t, int64(1), stats.InProgress)
	require.Equal(t, int64(2), stats.DistinctTaken)
	require.NotNil(t, stats.AverageScore)
	require.InDelta(t, 60.0, *stats.AverageScore, 1e-9)

	history, total, err := repo.ListByUser(ctx, 9, ProgressFilter{Status: scoring.StatusCompleted, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, history, 2)
}
