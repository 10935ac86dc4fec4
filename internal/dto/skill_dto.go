package dto

import (
	"time"

	"github.com/noah-isme/pathfinder-api/internal/models"
)

// SkillListRequest captures skill catalog filters.
type SkillListRequest struct {
	Category        string
	DifficultyLevel string
	Trending        *bool
}

// SkillCreateRequest adds a skill to the catalog. Category and difficulty are checked by the service.
type SkillCreateRequest struct {
	Name              string   `json:"name" validate:"required,min=2,max=120"`
	Category          string   `json:"category" validate:"required"`
	Description       string   `json:"description" validate:"omitempty,max=5000"`
	DifficultyLevel   string   `json:"difficulty_level"`
	LearningTimeHours int      `json:"learning_time_hours" validate:"gte=0"`
	Prerequisites     []string `json:"prerequisites" validate:"omitempty,dive,required"`
	JobMarketDemand   string   `json:"job_market_demand" validate:"omitempty,oneof=High Medium Low"`
	Trending          bool     `json:"trending"`
	Resources         []string `json:"resources" validate:"omitempty,dive,url"`
}

// SkillResponse serializes a catalog skill.
type SkillResponse struct {
	ID                uint      `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	Description       string    `json:"description"`
	DifficultyLevel   string    `json:"difficulty_level"`
	LearningTimeHours int       `json:"learning_time_hours"`
	Prerequisites     []string  `json:"prerequisites"`
	JobMarketDemand   string    `json:"job_market_demand,omitempty"`
	Trending          bool      `json:"trending"`
	Resources         []string  `json:"resources"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SkillCategoriesResponse lists the categories in use.
type SkillCategoriesResponse struct {
	Categories []string `json:"categories"`
}

// NewSkillResponse converts a skill model.
func NewSkillResponse(skill models.Skill) SkillResponse {
	prerequisites := skill.Prerequisites
	if prerequisites == nil {
		prerequisites = []string{}
	}
	resources := skill.Resources
	if resources == nil {
		resources = []string{}
	}
	return SkillResponse{
		ID:                skill.ID,
		Name:              skill.Name,
		Category:          skill.Category,
		Description:       skill.Description,
		DifficultyLevel:   skill.DifficultyLevel,
		LearningTimeHours: skill.LearningTimeHours,
		Prerequisites:     prerequisites,
		JobMarketDemand:   skill.JobMarketDemand,
		Trending:          skill.Trending,
		Resources:         resources,
		UpdatedAt:         skill.UpdatedAt,
	}
}
