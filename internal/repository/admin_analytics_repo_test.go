package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pathfinder-api/internal/models"
	"github.com/noah-isme/pathfinder-api/internal/scoring"
)

func TestAdminAnalyticsRepositoryAggregates(t *testing.T) {
	db := setupPathfinderDB(t)
	assessment := seedAssessment(t, NewAssessmentRepository(db), "analytics", scoring.AssessmentCategoryAnalytical)
	progress := NewProgressRepository(db)
	repo := NewAdminAnalyticsRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, userID := range []uint{1, 1, 2} {
		record := models.ProgressRecord{UserID: userID, AssessmentID: assessment.ID, Status: scoring.StatusInProgress, StartedAt: now}
		require.NoError(t, progress.Create(ctx, &record))
		require.NoError(t, progress.CompleteAttempt(ctx, AttemptCompletion{
			ProgressID:      record.ID,
			UserID:          userID,
			ExpectedVersion: record.Version,
			Score:           70,
			CompletedAt:     now,
		}))
	}
	open := models.ProgressRecord{UserID: 3, AssessmentID: assessment.ID, Status: scoring.StatusInProgress, StartedAt: now}
	require.NoError(t, progress.Create(ctx, &open))

	counts, err := repo.CountAttempts(ctx)
	require.NoError(t, err)
	require.Equal(t, AttemptCounts{ActiveLearners: 3, Completed: 3, InProgress: 1}, counts)

	completed, err := repo.ListCompletedAttempts(ctx)
	require.NoError(t, err)
	require.Len(t, completed, 3)
	require.NotNil(t, completed[0].Assessment)
	require.Equal(t, scoring.AssessmentCategoryAnalytical, completed[0].Assessment.Category)
}
