package models

import (
	"time"

	"gorm.io/gorm"
)

// Skill catalog categories.
var SkillCategories = []string{
	"Web Development",
	"Data Science",
	"Mobile Development",
	"Cloud Computing",
	"DevOps",
	"Cybersecurity",
	"AI/ML",
	"Other",
}

// Skill difficulty levels, easiest first.
var SkillDifficultyLevels = []string{"Beginner", "Intermediate", "Advanced"}

// DefaultSkillDifficulty applies when a skill is created without a level.
const DefaultSkillDifficulty = "Beginner"

// Skill is a learnable skill in the public catalog.
type Skill struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"size:120;uniqueIndex;not null" json:"name"`
	Category          string    `gorm:"size:32;index;not null" json:"category"`
	Description       string    `gorm:"type:text" json:"description"`
	DifficultyLevel   string    `gorm:"size:16;index" json:"difficulty_level"`
	LearningTimeHours int       `json:"learning_time_hours"`
	JobMarketDemand   string    `gorm:"size:16" json:"job_market_demand"`
	Trending          bool      `gorm:"index" json:"trending"`
	PrerequisitesRaw  string    `gorm:"column:prerequisites;type:text" json:"-"`
	ResourcesRaw      string    `gorm:"column:resources;type:text" json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Prerequisites     []string  `gorm:"-" json:"prerequisites"`
	Resources         []string  `gorm:"-" json:"resources"`
}

// TableName separates catalog skills from per-user skill progress.
func (Skill) TableName() string {
	return "catalog_skills"
}

// BeforeSave encodes list columns and defaults the difficulty.
func (s *Skill) BeforeSave(tx *gorm.DB) error {
	s.PrerequisitesRaw = encodeList(s.Prerequisites)
	s.ResourcesRaw = encodeList(s.Resources)
	if s.DifficultyLevel == "" {
		s.DifficultyLevel = DefaultSkillDifficulty
	}
	return nil
}

// AfterFind decodes list columns.
func (s *Skill) AfterFind(tx *gorm.DB) error {
	s.Prerequisites = decodeList(s.PrerequisitesRaw)
	s.Resources = decodeList(s.ResourcesRaw)
	return nil
}
