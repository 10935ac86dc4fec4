package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/pathfinder-api/internal/models"
)

// AssessmentFilter narrows assessment catalog queries.
type AssessmentFilter struct {
	Category   string
	ActiveOnly bool
}

// AssessmentRepository persists assessments and their ordered questions.
type AssessmentRepository interface {
	List(ctx context.Context, filter AssessmentFilter) ([]models.Assessment, error)
	QuestionCounts(ctx context.Context, ids []uint) (map[uint]int, error)
	GetByID(ctx context.Context, id uint, withQuestions bool) (models.Assessment, error)
	CountActive(ctx context.Context) (int64, error)
	UpsertBatch(ctx context.Context, items []models.Assessment) (int64, error)
}

type assessmentRepository struct {
	db *gorm.DB
}

// NewAssessmentRepository constructs the assessment repository.
func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) List(ctx context.Context, filter AssessmentFilter) ([]models.Assessment, error) {
	query := r.db.WithContext(ctx).Model(&models.Assessment{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}

	var items []models.Assessment
	if err := query.Order("title ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *assessmentRepository) QuestionCounts(ctx context.Context, ids []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		AssessmentID uint
		Total        int
	}
	err := r.db.WithContext(ctx).
		Model(&models.AssessmentQuestion{}).
		Select("assessment_id, COUNT(*) AS total").
		Where("assessment_id IN ?", ids).
		Group("assessment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.AssessmentID] = row.Total
	}
	return counts, nil
}

func (r *assessmentRepository) GetByID(ctx context.Context, id uint, withQuestions bool) (models.Assessment, error) {
	query := r.db.WithContext(ctx)
	if withQuestions {
		query = query.Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		})
	}

	var assessment models.Assessment
	if err := query.First(&assessment, id).Error; err != nil {
		return models.Assessment{}, err
	}
	return assessment, nil
}

func (r *assessmentRepository) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Assessment{}).Where("is_active = ?", true).Count(&total).Error
	return total, err
}

// UpsertBatch upserts assessments by slug and replaces each assessment's question list.
func (r *assessmentRepository) UpsertBatch(ctx context.Context, items []models.Assessment) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range items {
			item := items[i]
			questions := item.Questions
			item.Questions = nil

			err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoUpdates: clause.AssignmentColumns([]string{"title", "description", "category", "duration_minutes", "passing_score", "is_active", "updated_at"}),
			}).Create(&item).Error
			if err != nil {
				return err
			}

			var stored models.Assessment
			if err := tx.Select("id").Where("slug = ?", item.Slug).First(&stored).Error; err != nil {
				return err
			}

			if err := tx.Where("assessment_id = ?", stored.ID).Delete(&models.AssessmentQuestion{}).Error; err != nil {
				return err
			}

			for j := range questions {
				questions[j].ID = 0
				questions[j].AssessmentID = stored.ID
				questions[j].Position = j
			}
			if len(questions) > 0 {
				if err := tx.Create(&questions).Error; err != nil {
					return err
				}
			}
			affected++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
