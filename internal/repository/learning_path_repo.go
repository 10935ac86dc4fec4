package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/pathfinder-api/internal/models"
)

// LearningPathFilter narrows learning path queries.
type LearningPathFilter struct {
	Category   string
	Categories []string
	ActiveOnly bool
	Page       int
	PageSize   int
}

// LearningPathRepository persists learning paths.
type LearningPathRepository interface {
	List(ctx context.Context, filter LearningPathFilter) ([]models.LearningPath, int64, error)
	GetByID(ctx context.Context, id uint) (models.LearningPath, error)
	UpsertBatch(ctx context.Context, items []models.LearningPath) (int64, error)
}

type learningPathRepository struct {
	db *gorm.DB
}

// NewLearningPathRepository constructs the learning path repository.
func NewLearningPathRepository(db *gorm.DB) LearningPathRepository {
	return &learningPathRepository{db: db}
}

func (r *learningPathRepository) List(ctx context.Context, filter LearningPathFilter) ([]models.LearningPath, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LearningPath{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if len(filter.Categories) > 0 {
		query = query.Where("category IN ?", filter.Categories)
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

	var paths []models.LearningPath
	if err := query.Order("title ASC").Find(&paths).Error; err != nil {
		return nil, 0, err
	}
	return paths, total, nil
}

func (r *learningPathRepository) GetByID(ctx context.Context, id uint) (models.LearningPath, error) {
	var path models.LearningPath
	if err := r.db.WithContext(ctx).First(&path, id).Error; err != nil {
		return models.LearningPath{}, err
	}
	return path, nil
}

func (r *learningPathRepository) UpsertBatch(ctx context.Context, items []models.LearningPath) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "category", "total_hours", "difficulty_level", "is_active",
			"target_users", "skills", "job_outcomes", "updated_at",
		}),
	})

	result := tx.Create(&items)
	return result.RowsAffected, result.Error
}
