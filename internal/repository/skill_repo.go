package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/pathfinder-api/internal/models"
)

// SkillFilter narrows skill catalog queries. A nil Trending matches both.
type SkillFilter struct {
	Category        string
	DifficultyLevel string
	Trending        *bool
}

// SkillRepository persists the skill catalog.
type SkillRepository interface {
	List(ctx context.Context, filter SkillFilter) ([]models.Skill, error)
	GetByID(ctx context.Context, id uint) (models.Skill, error)
	Categories(ctx context.Context) ([]string, error)
	NameExists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, skill *models.Skill) error
}

type skillRepository struct {
	db *gorm.DB
}

// NewSkillRepository constructs the skill repository.
func NewSkillRepository(db *gorm.DB) SkillRepository {
	return &skillRepository{db: db}
}

func (r *skillRepository) List(ctx context.Context, filter SkillFilter) ([]models.Skill, error) {
	query := r.db.WithContext(ctx).Model(&models.Skill{})
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if level := strings.TrimSpace(filter.DifficultyLevel); level != "" {
		query = query.Where("difficulty_level = ?", level)
	}
	if filter.Trending != nil {
		query = query.Where("trending = ?", *filter.Trending)
	}

	var skills []models.Skill
	if err := query.Order("trending DESC").Order("name ASC").Find(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

func (r *skillRepository) GetByID(ctx context.Context, id uint) (models.Skill, error) {
	var skill models.Skill
	if err := r.db.WithContext(ctx).First(&skill, id).Error; err != nil {
		return models.Skill{}, err
	}
	return skill, nil
}

func (r *skillRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&models.Skill{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *skillRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Skill{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Count(&count).Error
	return count > 0, err
}

func (r *skillRepository) Create(ctx context.Context, skill *models.Skill) error {
	return r.db.WithContext(ctx).Create(skill).Error
}
