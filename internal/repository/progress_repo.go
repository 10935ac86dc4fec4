package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/pathfinder-api/internal/models"
	"github.com/noah-isme/pathfinder-api/internal/scoring"
)

// ErrStaleProgress is returned when a progress record changed since it was read.
var ErrStaleProgress = errors.New("progress record was modified concurrently")

// AttemptCompletion carries the final state written when an attempt is scored.
type AttemptCompletion struct {
	ProgressID      uint
	UserID          uint
	ExpectedVersion int
	Score           float64
	CompletedAt     time.Time
	TimeSpent       int64
	Result          datatypes.JSON
	Skills          []models.SkillProgress
}

// ProgressFilter narrows history queries.
type ProgressFilter struct {
	Status   string
	Page     int
	PageSize int
}

// ProgressStats aggregates a user's attempts.
type ProgressStats struct {
	Total         int64
	Completed     int64
	InProgress    int64
	AverageScore  *float64
	DistinctTaken int64
}

// ProgressRepository persists assessment attempts and skill progress.
type ProgressRepository interface {
	Create(ctx context.Context, record *models.ProgressRecord) error
	GetByID(ctx context.Context, id uint) (models.ProgressRecord, error)
	CompleteAttempt(ctx context.Context, completion AttemptCompletion) error
	ListByUser(ctx context.Context, userID uint, filter ProgressFilter) ([]models.ProgressRecord, int64, error)
	CompletedScores(ctx context.Context, userID uint) ([]scoring.ProgressRecord, error)
	Stats(ctx context.Context, userID uint) (ProgressStats, error)
	ListSkillProgress(ctx context.Context, userID uint) ([]models.SkillProgress, error)
}

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository constructs the progress repository.
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Create(ctx context.Context, record *models.ProgressRecord) error {
	if record.Version == 0 {
		record.Version = 1
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
}

func (r *progressRepository) GetByID(ctx context.Context, id uint) (models.ProgressRecord, error) {
	var record models.ProgressRecord
	if err := r.db.WithContext(ctx).Preload("Assessment").First(&record, id).Error; err != nil {
		return models.ProgressRecord{}, err
	}
	return record, nil
}

// CompleteAttempt marks an in-progress attempt completed and upserts skill progress in one
// transaction. The update only applies if the record still carries ExpectedVersion.
func (r *progressRepository) CompleteAttempt(ctx context.Context, completion AttemptCompletion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ProgressRecord{}).
			Where("id = ? AND user_id = ? AND version = ? AND status = ?",
				completion.ProgressID, completion.UserID, completion.ExpectedVersion, scoring.StatusInProgress).
			Updates(map[string]interface{}{
				"status":                scoring.StatusCompleted,
				"score":                 completion.Score,
				"completion_percentage": 100,
				"completed_at":          completion.CompletedAt,
				"time_spent_seconds":    completion.TimeSpent,
				"result":                completion.Result,
				"version":               gorm.Expr("version + 1"),
				"updated_at":            completion.CompletedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleProgress
		}

		for i := range completion.Skills {
			skill := completion.Skills[i]
			skill.ID = 0
			skill.UserID = completion.UserID
			skill.AssessmentsCount = 1
			skill.LastAssessedAt = completion.CompletedAt
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "skill"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"percentage":        skill.Percentage,
					"level":             skill.Level,
					"last_assessed_at":  completion.CompletedAt,
					"updated_at":        completion.CompletedAt,
					"assessments_count": gorm.Expr("skill_progress.assessments_count + 1"),
				}),
			}).Create(&skill).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *progressRepository) ListByUser(ctx context.Context, userID uint, filter ProgressFilter) ([]models.ProgressRecord, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProgressRecord{}).Where("user_id = ?", userID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var records []models.ProgressRecord
	if err := query.Preload("Assessment").Order("started_at DESC, id DESC").Find(&records).Error; err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// CompletedScores returns the user's completed attempts joined with their assessment category.
func (r *progressRepository) CompletedScores(ctx context.Context, userID uint) ([]scoring.ProgressRecord, error) {
	var rows []struct {
		Category string
		Status   string
		Score    *float64
	}
	err := r.db.WithContext(ctx).
		Table("progress_records").
		Select("assessments.category AS category, progress_records.status AS status, progress_records.score AS score").
		Joins("JOIN assessments ON assessments.id = progress_records.assessment_id").
		Where("progress_records.user_id = ? AND progress_records.status = ?", userID, scoring.StatusCompleted).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]scoring.ProgressRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, scoring.ProgressRecord{Category: row.Category, Status: row.Status, Score: row.Score})
	}
	return records, nil
}

func (r *progressRepository) Stats(ctx context.Context, userID uint) (ProgressStats, error) {
	var row struct {
		Total         int64
		Completed     int64
		InProgress    int64
		AverageScore  *float64
		DistinctTaken int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.ProgressRecord{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS in_progress,
			AVG(CASE WHEN status = ? THEN score END) AS average_score,
			COUNT(DISTINCT assessment_id) AS distinct_taken`,
			scoring.StatusCompleted, scoring.StatusInProgress, scoring.StatusCompleted).
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return ProgressStats{}, err
	}

	return ProgressStats{
		Total:         row.Total,
		Completed:     row.Completed,
		InProgress:    row.InProgress,
		AverageScore:  row.AverageScore,
		DistinctTaken: row.DistinctTaken,
	}, nil
}

func (r *progressRepository) ListSkillProgress(ctx context.Context, userID uint) ([]models.SkillProgress, error) {
	var items []models.SkillProgress
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("skill ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
