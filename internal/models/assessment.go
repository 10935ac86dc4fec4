package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/pathfinder-api/internal/scoring"
)

// Assessment is a self-assessment questionnaire.
type Assessment struct {
	ID              uint                 `gorm:"primaryKey" json:"id"`
	Slug            string               `gorm:"size:160;uniqueIndex" json:"slug"`
	Title           string               `gorm:"size:255;not null" json:"title"`
	Description     string               `gorm:"type:text" json:"description"`
	Category        string               `gorm:"size:32;index;not null" json:"category"`
	DurationMinutes int                  `gorm:"default:15" json:"duration_minutes"`
	PassingScore    float64              `gorm:"default:60" json:"passing_score"`
	IsActive        bool                 `gorm:"index" json:"is_active"`
	Questions       []AssessmentQuestion `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// BeforeSave applies assessment defaults.
func (a *Assessment) BeforeSave(tx *gorm.DB) error {
	if a.PassingScore <= 0 {
		a.PassingScore = 60
	}
	if a.DurationMinutes <= 0 {
		a.DurationMinutes = 15
	}
	return nil
}

// OptionWeight overrides a question's skill vector for one option.
type OptionWeight struct {
	OptionIndex int                `json:"option_index"`
	Weights     map[string]float64 `json:"weights"`
}

// AssessmentQuestion is an ordered question belonging to an assessment.
type AssessmentQuestion struct {
	ID             uint                                   `gorm:"primaryKey" json:"id"`
	AssessmentID   uint                                   `gorm:"index;not null" json:"assessment_id"`
	Position       int                                    `gorm:"not null" json:"position"`
	Prompt         string                                 `gorm:"type:text;not null" json:"prompt"`
	QuestionType   string                                 `gorm:"size:16;not null" json:"question_type"`
	Options        datatypes.JSONSlice[string]            `gorm:"type:json" json:"options"`
	CorrectAnswer  string                                 `gorm:"size:255" json:"-"`
	Category       string                                 `gorm:"size:64" json:"category"`
	Insight        string                                 `gorm:"type:text" json:"insight,omitempty"`
	SkillWeights   datatypes.JSONType[map[string]float64] `gorm:"type:json" json:"-"`
	OptionMappings datatypes.JSONSlice[OptionWeight]      `gorm:"type:json" json:"-"`
	CreatedAt      time.Time                              `json:"created_at"`
	UpdatedAt      time.Time                              `json:"updated_at"`
}

// BeforeSave pins Likert questions to the canonical labels.
func (q *AssessmentQuestion) BeforeSave(tx *gorm.DB) error {
	if q.QuestionType != scoring.AnswerTypeMCQ {
		q.QuestionType = scoring.AnswerTypeLikert
		q.Options = append(datatypes.JSONSlice[string](nil), scoring.LikertLabels...)
	}
	return nil
}

// ScoringDef converts the assessment to the scoring core's view. Questions must be sorted by Position.
func (a Assessment) ScoringDef() scoring.AssessmentDef {
	questions := make([]scoring.QuestionDef, 0, len(a.Questions))
	for _, q := range a.Questions {
		def := scoring.QuestionDef{
			Prompt:        q.Prompt,
			Type:          q.QuestionType,
			Options:       []string(q.Options),
			CorrectAnswer: q.CorrectAnswer,
			Category:      q.Category,
			Insight:       q.Insight,
			SkillWeights:  scoring.SkillVector(q.SkillWeights.Data()),
		}
		if len(q.OptionMappings) > 0 {
			def.OptionWeights = make(map[int]scoring.SkillVector, len(q.OptionMappings))
			for _, mapping := range q.OptionMappings {
				def.OptionWeights[mapping.OptionIndex] = scoring.SkillVector(mapping.Weights)
			}
		}
		questions = append(questions, def)
	}

	return scoring.AssessmentDef{
		ID:           a.ID,
		Title:        a.Title,
		Category:     a.Category,
		PassingScore: a.PassingScore,
		Questions:    questions,
	}
}
