package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/pathfinder-api/internal/scoring"
)

// LearningPath is a curated course of study tagged with one assessment category.
type LearningPath struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Slug            string    `gorm:"size:160;uniqueIndex" json:"slug"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Description     string    `gorm:"type:text" json:"description"`
	Category        string    `gorm:"size:32;index;not null" json:"category"`
	TotalHours      int       `json:"total_hours"`
	DifficultyLevel string    `gorm:"size:32" json:"difficulty_level"`
	IsActive        bool      `gorm:"index" json:"is_active"`
	TargetUsersRaw  string    `gorm:"column:target_users;type:text" json:"-"`
	SkillsRaw       string    `gorm:"column:skills;type:text" json:"-"`
	JobOutcomesRaw  string    `gorm:"column:job_outcomes;type:text" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	TargetUsers     []string  `gorm:"-" json:"target_users"`
	Skills          []string  `gorm:"-" json:"skills"`
	JobOutcomes     []string  `gorm:"-" json:"job_outcomes"`
}

// BeforeSave encodes list columns.
func (p *LearningPath) BeforeSave(tx *gorm.DB) error {
	p.TargetUsersRaw = encodeList(p.TargetUsers)
	p.SkillsRaw = encodeList(p.Skills)
	p.JobOutcomesRaw = encodeList(p.JobOutcomes)
	return nil
}

// AfterFind decodes list columns.
func (p *LearningPath) AfterFind(tx *gorm.DB) error {
	p.TargetUsers = decodeList(p.TargetUsersRaw)
	p.Skills = decodeList(p.SkillsRaw)
	p.JobOutcomes = decodeList(p.JobOutcomesRaw)
	return nil
}

// RankingView converts the path for the ranker.
func (p LearningPath) RankingView() scoring.LearningPath {
	return scoring.LearningPath{ID: p.ID, Title: p.Title, Category: p.Category, IsActive: p.IsActive}
}

// SalaryBand is a min/max pair for one seniority level.
type SalaryBand struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SalaryRange holds salary bands per seniority.
type SalaryRange struct {
	Entry    SalaryBand `gorm:"embedded;embeddedPrefix:entry_" json:"entry"`
	Mid      SalaryBand `gorm:"embedded;embeddedPrefix:mid_" json:"mid"`
	Senior   SalaryBand `gorm:"embedded;embeddedPrefix:senior_" json:"senior"`
	Currency string     `gorm:"size:8" json:"currency"`
}

// CostRange is the education cost of reaching a career. Nil bounds mean unknown.
type CostRange struct {
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Currency string   `gorm:"size:8" json:"currency"`
}

// CareerProfile is a catalog career with market indicators.
type CareerProfile struct {
	ID                     uint        `gorm:"primaryKey" json:"id"`
	Slug                   string      `gorm:"size:160;uniqueIndex" json:"slug"`
	Title                  string      `gorm:"size:255;not null" json:"title"`
	Category               string      `gorm:"size:32;index;not null" json:"category"`
	Description            string      `gorm:"type:text" json:"description"`
	Salary                 SalaryRange `gorm:"embedded;embeddedPrefix:salary_" json:"salary_range"`
	DemandIndicator        string      `gorm:"size:16;index" json:"demand_indicator"`
	RiskIndex              string      `gorm:"size:16;index" json:"risk_index"`
	TimeToEmploymentMonths int         `json:"time_to_employment_months"`
	EducationCost          CostRange   `gorm:"embedded;embeddedPrefix:education_cost_" json:"education_cost_range"`
	EducationDurationYears float64     `json:"education_duration_years"`
	IsActive               bool        `gorm:"index" json:"is_active"`
	QualificationsRaw      string      `gorm:"column:qualification_required;type:text" json:"-"`
	LocationsRaw           string      `gorm:"column:locations;type:text" json:"-"`
	RequiredSkillsRaw      string      `gorm:"column:required_skills;type:text" json:"-"`
	CreatedAt              time.Time   `json:"created_at"`
	UpdatedAt              time.Time   `json:"updated_at"`
	QualificationRequired  []string    `gorm:"-" json:"qualification_required"`
	Locations              []string    `gorm:"-" json:"locations"`
	RequiredSkills         []string    `gorm:"-" json:"required_skills"`
}

// TableName keeps the catalog table name short.
func (CareerProfile) TableName() string {
	return "careers"
}

// BeforeSave encodes list columns and fills the salary currency.
func (c *CareerProfile) BeforeSave(tx *gorm.DB) error {
	c.QualificationsRaw = encodeList(c.QualificationRequired)
	c.LocationsRaw = encodeList(c.Locations)
	c.RequiredSkillsRaw = encodeList(c.RequiredSkills)
	if c.Salary.Currency == "" {
		c.Salary.Currency = "NPR"
	}
	if c.EducationCost.Currency == "" {
		c.EducationCost.Currency = "NPR"
	}
	return nil
}

// AfterFind decodes list columns.
func (c *CareerProfile) AfterFind(tx *gorm.DB) error {
	c.QualificationRequired = decodeList(c.QualificationsRaw)
	c.Locations = decodeList(c.LocationsRaw)
	c.RequiredSkills = decodeList(c.RequiredSkillsRaw)
	return nil
}

// RankingView converts the career for the ranker and constraint filter.
func (c CareerProfile) RankingView() scoring.CareerProfile {
	view := scoring.CareerProfile{
		ID:                    c.ID,
		Title:                 c.Title,
		Category:              c.Category,
		DemandIndicator:       c.DemandIndicator,
		RiskIndex:             c.RiskIndex,
		QualificationRequired: c.QualificationRequired,
		Locations:             c.Locations,
		IsActive:              c.IsActive,
	}
	if c.EducationCost.Min != nil || c.EducationCost.Max != nil {
		view.EducationCost = &scoring.CostRange{Min: c.EducationCost.Min, Max: c.EducationCost.Max}
	}
	return view
}
