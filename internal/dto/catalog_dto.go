package dto

import (
	"time"

	"github.com/noah-isme/pathfinder-api/internal/models"
)

// LearningPathListRequest captures learning path filters.
type LearningPathListRequest struct {
	Category string
	Page     int
	PageSize int
}

// LearningPathResponse serializes a learning path.
type LearningPathResponse struct {
	ID              uint      `json:"id"`
	Slug            string    `json:"slug"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	TargetUsers     []string  `json:"target_users"`
	Skills          []string  `json:"skills"`
	JobOutcomes     []string  `json:"job_outcomes"`
	TotalHours      int       `json:"total_hours"`
	DifficultyLevel string    `json:"difficulty_level"`
	IsActive        bool      `json:"is_active"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// LearningPathListResponse wraps paginated learning paths.
type LearningPathListResponse struct {
	Items      []LearningPathResponse `json:"items"`
	Pagination PaginationMeta         `json:"pagination"`
}

// CareerListRequest captures career catalog filters.
type CareerListRequest struct {
	Category        string
	Demand          string
	Location        string
	Search          string
	IncludeInactive bool
	Page            int
	PageSize        int
}

// SalaryBandPayload is a salary min/max pair.
type SalaryBandPayload struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gte=0,gtefield=Min"`
}

// SalaryRangePayload groups salary bands by seniority.
type SalaryRangePayload struct {
	Entry    SalaryBandPayload `json:"entry"`
	Mid      SalaryBandPayload `json:"mid"`
	Senior   SalaryBandPayload `json:"senior"`
	Currency string            `json:"currency" validate:"omitempty,len=3"`
}

// CostRangePayload is an education cost range with optional bounds.
type CostRangePayload struct {
	Min      *float64 `json:"min" validate:"omitempty,gte=0"`
	Max      *float64 `json:"max" validate:"omitempty,gte=0"`
	Currency string   `json:"currency" validate:"omitempty,len=3"`
}

// CareerResponse serializes a career profile.
type CareerResponse struct {
	ID                     uint               `json:"id"`
	Slug                   string             `json:"slug"`
	Title                  string             `json:"title"`
	Category               string             `json:"category"`
	Description            string             `json:"description"`
	SalaryRange            SalaryRangePayload `json:"salary_range"`
	DemandIndicator        string             `json:"demand_indicator"`
	QualificationRequired  []string           `json:"qualification_required"`
	TimeToEmploymentMonths int                `json:"time_to_employment_months"`
	RiskIndex              string             `json:"risk_index"`
	Locations              []string           `json:"locations"`
	RequiredSkills         []string           `json:"required_skills"`
	EducationCostRange     *CostRangePayload  `json:"education_cost_range"`
	EducationDurationYears float64            `json:"education_duration_years"`
	IsActive               bool               `json:"is_active"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// CareerListResponse wraps paginated careers.
type CareerListResponse struct {
	Items      []CareerResponse `json:"items"`
	Pagination PaginationMeta   `json:"pagination"`
}

// CareerUpsertRequest creates or replaces a career profile.
type CareerUpsertRequest struct {
	Slug                   string             `json:"slug" validate:"omitempty,max=160"`
	Title                  string             `json:"title" validate:"required,min=2,max=255"`
	Category               string             `json:"category" validate:"required,oneof=Technology Business Finance Engineering Healthcare Education Creative Hospitality Agriculture"`
	Description            string             `json:"description" validate:"omitempty,max=5000"`
	SalaryRange            SalaryRangePayload `json:"salary_range"`
	DemandIndicator        string             `json:"demand_indicator" validate:"required,oneof=High Medium Low"`
	QualificationRequired  []string           `json:"qualification_required" validate:"omitempty,dive,required"`
	TimeToEmploymentMonths int                `json:"time_to_employment_months" validate:"gte=0"`
	RiskIndex              string             `json:"risk_index" validate:"required,oneof=Low Medium High"`
	Locations              []string           `json:"locations" validate:"omitempty,dive,required"`
	RequiredSkills         []string           `json:"required_skills" validate:"omitempty,dive,required"`
	EducationCostRange     *CostRangePayload  `json:"education_cost_range"`
	EducationDurationYears float64            `json:"education_duration_years" validate:"gte=0"`
	IsActive               *bool              `json:"is_active"`
}

// InterestOptionsResponse lists the selectable interest areas.
type InterestOptionsResponse struct {
	Interests []string `json:"interests"`
}

// NewLearningPathResponse converts a learning path model.
func NewLearningPathResponse(path models.LearningPath) LearningPathResponse {
	return LearningPathResponse{
		ID:              path.ID,
		Slug:            path.Slug,
		Title:           path.Title,
		Description:     path.Description,
		Category:        path.Category,
		TargetUsers:     append([]string{}, path.TargetUsers...),
		Skills:          append([]string{}, path.Skills...),
		JobOutcomes:     append([]string{}, path.JobOutcomes...),
		TotalHours:      path.TotalHours,
		DifficultyLevel: path.DifficultyLevel,
		IsActive:        path.IsActive,
		UpdatedAt:       path.UpdatedAt,
	}
}

// NewCareerResponse converts a career model.
func NewCareerResponse(career models.CareerProfile) CareerResponse {
	response := CareerResponse{
		ID:          career.ID,
		Slug:        career.Slug,
		Title:       career.Title,
		Category:    career.Category,
		Description: career.Description,
		SalaryRange: SalaryRangePayload{
			Entry:    SalaryBandPayload{Min: career.Salary.Entry.Min, Max: career.Salary.Entry.Max},
			Mid:      SalaryBandPayload{Min: career.Salary.Mid.Min, Max: career.Salary.Mid.Max},
			Senior:   SalaryBandPayload{Min: career.Salary.Senior.Min, Max: career.Salary.Senior.Max},
			Currency: career.Salary.Currency,
		},
		DemandIndicator:        career.DemandIndicator,
		QualificationRequired:  append([]string{}, career.QualificationRequired...),
		TimeToEmploymentMonths: career.TimeToEmploymentMonths,
		RiskIndex:              career.RiskIndex,
		Locations:              append([]string{}, career.Locations...),
		RequiredSkills:         append([]string{}, career.RequiredSkills...),
		EducationDurationYears: career.EducationDurationYears,
		IsActive:               career.IsActive,
		UpdatedAt:              career.UpdatedAt,
	}
	if career.EducationCost.Min != nil || career.EducationCost.Max != nil {
		response.EducationCostRange = &CostRangePayload{
			Min:      career.EducationCost.Min,
			Max:      career.EducationCost.Max,
			Currency: career.EducationCost.Currency,
		}
	}
	return response
}
