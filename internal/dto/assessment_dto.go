package dto

import (
	"time"

	"github.com/noah-isme/pathfinder-api/internal/models"
)

// AssessmentListRequest captures assessment catalog filters.
type AssessmentListRequest struct {
	Category string
}

// AssessmentSummary is the catalog view of an assessment.
type AssessmentSummary struct {
	ID              uint    `json:"id"`
	Slug            string  `json:"slug"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	DurationMinutes int     `json:"duration_minutes"`
	PassingScore    float64 `json:"passing_score"`
	QuestionCount   int     `json:"question_count"`
}

// QuestionResponse exposes a question without its answer key or weights.
type QuestionResponse struct {
	Index        int      `json:"index"`
	Prompt       string   `json:"prompt"`
	QuestionType string   `json:"question_type"`
	Options      []string `json:"options"`
	Category     string   `json:"category,omitempty"`
}

// AssessmentDetail is an assessment with its ordered questions.
type AssessmentDetail struct {
	AssessmentSummary
	Questions []QuestionResponse `json:"questions"`
}

// StartAttemptResponse is returned when a user begins an attempt.
type StartAttemptResponse struct {
	ProgressID uint             `json:"progress_id"`
	StartedAt  time.Time        `json:"started_at"`
	Assessment AssessmentDetail `json:"assessment"`
}

// SubmitAssessmentRequest carries the ordered answers for an attempt.
type SubmitAssessmentRequest struct {
	ProgressID       uint     `json:"progress_id" validate:"required"`
	Answers          []string `json:"answers" validate:"required,min=1"`
	TimeSpentSeconds int64    `json:"time_spent_seconds" validate:"omitempty,gte=0"`
}

// QuestionResultResponse explains how one answer was scored.
type QuestionResultResponse struct {
	Index      int    `json:"index"`
	Question   string `json:"question"`
	Category   string `json:"category"`
	UserAnswer string `json:"user_answer"`
	Score      int    `json:"score"`
	IsCorrect  *bool  `json:"is_correct,omitempty"`
	Insight    string `json:"insight,omitempty"`
}

// CategoryResultResponse summarises one question category.
type CategoryResultResponse struct {
	Score      int    `json:"score"`
	Count      int    `json:"count"`
	MaxScore   int    `json:"max_score"`
	Percentage int    `json:"percentage"`
	Profile    string `json:"profile"`
}

// SkillResultResponse summarises one weighted skill.
type SkillResultResponse struct {
	Skill      string  `json:"skill"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Percentage int     `json:"percentage"`
	Profile    string  `json:"profile"`
}

// SubmissionResultResponse is the outcome of a completed attempt.
type SubmissionResultResponse struct {
	ProgressID        uint                              `json:"progress_id"`
	AssessmentID      uint                              `json:"assessment_id"`
	AssessmentTitle   string                            `json:"assessment_title"`
	Status            string                            `json:"status"`
	OverallPercentage int                               `json:"overall_percentage"`
	OverallProfile    string                            `json:"overall_profile"`
	Passed            bool                              `json:"passed"`
	CorrectCount      int                               `json:"correct_count"`
	MCQCount          int                               `json:"mcq_count"`
	Categories        map[string]CategoryResultResponse `json:"categories"`
	Skills            []SkillResultResponse             `json:"skills"`
	Questions         []QuestionResultResponse          `json:"questions"`
	CompletedAt       time.Time                         `json:"completed_at"`
}

// ProgressResponse serializes an attempt for history listings.
type ProgressResponse struct {
	ID                   uint       `json:"id"`
	AssessmentID         uint       `json:"assessment_id"`
	AssessmentTitle      string     `json:"assessment_title,omitempty"`
	AssessmentCategory   string     `json:"assessment_category,omitempty"`
	Status               string     `json:"status"`
	Score                *float64   `json:"score"`
	CompletionPercentage int        `json:"completion_percentage"`
	StartedAt            time.Time  `json:"started_at"`
	CompletedAt          *time.Time `json:"completed_at"`
	TimeSpentSeconds     int64      `json:"time_spent_seconds"`
}

// ProgressListRequest captures history filters.
type ProgressListRequest struct {
	Status   string
	Page     int
	PageSize int
}

// ProgressListResponse wraps a page of attempts.
type ProgressListResponse struct {
	Items      []ProgressResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// SkillProgressResponse serializes a user's latest level for one skill.
type SkillProgressResponse struct {
	Skill            string    `json:"skill"`
	Percentage       int       `json:"percentage"`
	Level            string    `json:"level"`
	AssessmentsCount int       `json:"assessments_count"`
	LastAssessedAt   time.Time `json:"last_assessed_at"`
}

// AssessmentStatsResponse aggregates a user's attempts.
type AssessmentStatsResponse struct {
	TotalAttempts  int64   `json:"total_attempts"`
	Completed      int64   `json:"completed"`
	InProgress     int64   `json:"in_progress"`
	AverageScore   float64 `json:"average_score"`
	CompletionRate int     `json:"completion_rate"`
	AvailableTotal int64   `json:"available_assessments"`
	DistinctTaken  int64   `json:"distinct_assessments_taken"`
}

// NewAssessmentSummary converts a model into its catalog view.
func NewAssessmentSummary(assessment models.Assessment, questionCount int) AssessmentSummary {
	return AssessmentSummary{
		ID:              assessment.ID,
		Slug:            assessment.Slug,
		Title:           assessment.Title,
		Description:     assessment.Description,
		Category:        assessment.Category,
		DurationMinutes: assessment.DurationMinutes,
		PassingScore:    assessment.PassingScore,
		QuestionCount:   questionCount,
	}
}

// NewAssessmentDetail converts a model with loaded questions, dropping answer keys and weights.
func NewAssessmentDetail(assessment models.Assessment) AssessmentDetail {
	questions := make([]QuestionResponse, 0, len(assessment.Questions))
	for idx, q := range assessment.Questions {
		questions = append(questions, QuestionResponse{
			Index:        idx,
			Prompt:       q.Prompt,
			QuestionType: q.QuestionType,
			Options:      append([]string{}, q.Options...),
			Category:     q.Category,
		})
	}
	return AssessmentDetail{
		AssessmentSummary: NewAssessmentSummary(assessment, len(assessment.Questions)),
		Questions:         questions,
	}
}

// NewProgressResponse converts a progress record.
func NewProgressResponse(record models.ProgressRecord) ProgressResponse {
	response := ProgressResponse{
		ID:                   record.ID,
		AssessmentID:         record.AssessmentID,
		Status:               record.Status,
		Score:                record.Score,
		CompletionPercentage: record.CompletionPercentage,
		StartedAt:            record.StartedAt,
		CompletedAt:          record.CompletedAt,
		TimeSpentSeconds:     record.TimeSpentSeconds,
	}
	if record.Assessment != nil {
		response.AssessmentTitle = record.Assessment.Title
		response.AssessmentCategory = record.Assessment.Category
	}
	return response
}

// NewSkillProgressResponse converts a skill progress row.
func NewSkillProgressResponse(progress models.SkillProgress) SkillProgressResponse {
	return SkillProgressResponse{
		Skill:            progress.Skill,
		Percentage:       progress.Percentage,
		Level:            progress.Level,
		AssessmentsCount: progress.AssessmentsCount,
		LastAssessedAt:   progress.LastAssessedAt,
	}
}
