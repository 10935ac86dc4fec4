package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/pathfinder-api/internal/models"
	"github.com/noah-isme/pathfinder-api/internal/scoring"
)

// AttemptCounts summarises attempts across all users.
type AttemptCounts struct {
	ActiveLearners int64
	Completed      int64
	InProgress     int64
}

// AdminAnalyticsRepository supplies data for the analytics dashboard.
type AdminAnalyticsRepository interface {
	CountAttempts(ctx context.Context) (AttemptCounts, error)
	ListCompletedAttempts(ctx context.Context) ([]models.ProgressRecord, error)
}

type adminAnalyticsRepository struct {
	db *gorm.DB
}

// NewAdminAnalyticsRepository constructs the analytics repository.
func NewAdminAnalyticsRepository(db *gorm.DB) AdminAnalyticsRepository {
	return &adminAnalyticsRepository{db: db}
}

func (r *adminAnalyticsRepository) CountAttempts(ctx context.Context) (AttemptCounts, error) {
	var row AttemptCounts
	err := r.db.WithContext(ctx).
		Model(&models.ProgressRecord{}).
		Select(`COUNT(DISTINCT user_id) AS active_learners,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS in_progress`,
			scoring.StatusCompleted, scoring.StatusInProgress).
		Scan(&row).Error
	return row, err
}

// ListCompletedAttempts returns completed attempts with their assessment, oldest first.
func (r *adminAnalyticsRepository) ListCompletedAttempts(ctx context.Context) ([]models.ProgressRecord, error) {
	var records []models.ProgressRecord
	err := r.db.WithContext(ctx).
		Preload("Assessment").
		Where("status = ?", scoring.StatusCompleted).
		Order("completed_at ASC").
		Find(&records).Error
	return records, err
}
