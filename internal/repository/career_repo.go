package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/pathfinder-api/internal/models"
)

// CareerFilter narrows career catalog queries.
type CareerFilter struct {
	Category   string
	Demand     string
	Location   string
	Search     string
	ActiveOnly bool
	Page       int
	PageSize   int
}

// CareerRepository persists career profiles.
type CareerRepository interface {
	List(ctx context.Context, filter CareerFilter) ([]models.CareerProfile, int64, error)
	GetByID(ctx context.Context, id uint) (models.CareerProfile, error)
	Create(ctx context.Context, career *models.CareerProfile) error
	Save(ctx context.Context, career *models.CareerProfile) error
	Deactivate(ctx context.Context, id uint) error
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	UpsertBatch(ctx context.Context, items []models.CareerProfile) (int64, error)
}

type careerRepository struct {
	db *gorm.DB
}

// NewCareerRepository constructs the career repository.
func NewCareerRepository(db *gorm.DB) CareerRepository {
	return &careerRepository{db: db}
}

func (r *careerRepository) List(ctx context.Context, filter CareerFilter) ([]models.CareerProfile, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CareerProfile{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if demand := strings.TrimSpace(filter.Demand); demand != "" {
		query = query.Where("demand_indicator = ?", demand)
	}
	if location := strings.TrimSpace(filter.Location); location != "" {
		query = query.Where(`locations LIKE ? ESCAPE '\'`, models.ListPattern(location))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := models.ContainsPattern(strings.ToLower(search))
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, pattern, pattern)
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

	var careers []models.CareerProfile
	if err := query.Order("title ASC").Find(&careers).Error; err != nil {
		return nil, 0, err
	}
	return careers, total, nil
}

func (r *careerRepository) GetByID(ctx context.Context, id uint) (models.CareerProfile, error) {
	var career models.CareerProfile
	if err := r.db.WithContext(ctx).First(&career, id).Error; err != nil {
		return models.CareerProfile{}, err
	}
	return career, nil
}

func (r *careerRepository) Create(ctx context.Context, career *models.CareerProfile) error {
	return r.db.WithContext(ctx).Create(career).Error
}

func (r *careerRepository) Save(ctx context.Context, career *models.CareerProfile) error {
	return r.db.WithContext(ctx).Save(career).Error
}

func (r *careerRepository) Deactivate(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Model(&models.CareerProfile{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *careerRepository) SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.CareerProfile{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *careerRepository) UpsertBatch(ctx context.Context, items []models.CareerProfile) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "category", "description",
			"salary_entry_min", "salary_entry_max", "salary_mid_min", "salary_mid_max",
			"salary_senior_min", "salary_senior_max", "salary_currency",
			"demand_indicator", "risk_index", "time_to_employment_months",
			"education_cost_min", "education_cost_max", "education_cost_currency",
			"education_duration_years", "is_active",
			"qualification_required", "locations", "required_skills", "updated_at",
		}),
	})

	result := tx.Create(&items)
	return result.RowsAffected, result.Error
}
