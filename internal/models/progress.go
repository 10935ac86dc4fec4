package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProgressRecord tracks one user's attempt at an assessment.
type ProgressRecord struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	UserID               uint           `gorm:"index;not null" json:"user_id"`
	AssessmentID         uint           `gorm:"index;not null" json:"assessment_id"`
	Assessment           *Assessment    `gorm:"constraint:OnDelete:CASCADE" json:"assessment,omitempty"`
	Status               string         `gorm:"size:32;index;not null" json:"status"`
	Score                *float64       `json:"score"`
	CompletionPercentage int            `gorm:"default:0" json:"completion_percentage"`
	StartedAt            time.Time      `json:"started_at"`
	CompletedAt          *time.Time     `json:"completed_at"`
	TimeSpentSeconds     int64          `json:"time_spent_seconds"`
	Result               datatypes.JSON `gorm:"type:json" json:"result,omitempty"`
	Notes                string         `gorm:"type:text" json:"notes,omitempty"`
	Version              int            `gorm:"not null;default:1" json:"-"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// SkillProgress holds the latest measured level of one skill for a user.
type SkillProgress struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	UserID           uint      `gorm:"uniqueIndex:idx_skill_progress_user_skill;not null" json:"user_id"`
	Skill            string    `gorm:"size:32;uniqueIndex:idx_skill_progress_user_skill;not null" json:"skill"`
	Percentage       int       `json:"percentage"`
	Level            string    `gorm:"size:32" json:"level"`
	AssessmentsCount int       `gorm:"default:0" json:"assessments_count"`
	LastAssessedAt   time.Time `json:"last_assessed_at"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName keeps the skill table name singular.
func (SkillProgress) TableName() string {
	return "skill_progress"
}
