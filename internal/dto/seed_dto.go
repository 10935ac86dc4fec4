package dto

// SeedOptionWeight overrides a question's skill vector when the option at OptionIndex is chosen.
type SeedOptionWeight struct {
	OptionIndex int                `json:"option_index" validate:"gte=0"`
	Weights     map[string]float64 `json:"weights" validate:"required,dive,keys,required,endkeys,gte=0,lte=10"`
}

// SeedQuestion is one question in a seeded assessment.
type SeedQuestion struct {
	Prompt        string             `json:"prompt" validate:"required"`
	QuestionType  string             `json:"question_type" validate:"omitempty,max=16"`
	Options       []string           `json:"options"`
	CorrectAnswer string             `json:"correct_answer"`
	Category      string             `json:"category" validate:"omitempty,max=64"`
	Insight       string             `json:"insight"`
	SkillWeights  map[string]float64 `json:"skill_weights" validate:"omitempty,dive,keys,required,endkeys,gte=0,lte=10"`
	OptionWeights []SeedOptionWeight `json:"option_weights" validate:"omitempty,dive"`
}

// SeedAssessment is an assessment definition supplied to the seeding tools.
type SeedAssessment struct {
	Slug            string         `json:"slug" validate:"omitempty,max=160"`
	Title           string         `json:"title" validate:"required,max=255"`
	Description     string         `json:"description"`
	Category        string         `json:"category" validate:"required,oneof=aptitude technical analytical personality all"`
	DurationMinutes int            `json:"duration_minutes" validate:"gte=0"`
	PassingScore    float64        `json:"passing_score" validate:"gte=0,lte=100"`
	IsActive        *bool          `json:"is_active"`
	Questions       []SeedQuestion `json:"questions" validate:"required,min=1,dive"`
}

// SeedLearningPath is a learning path supplied to the seeding tools.
type SeedLearningPath struct {
	Slug            string   `json:"slug" validate:"omitempty,max=160"`
	Title           string   `json:"title" validate:"required,max=255"`
	Description     string   `json:"description"`
	Category        string   `json:"category" validate:"required,oneof=aptitude technical analytical personality all"`
	TargetUsers     []string `json:"target_users"`
	Skills          []string `json:"skills"`
	JobOutcomes     []string `json:"job_outcomes"`
	TotalHours      int      `json:"total_hours" validate:"gte=0"`
	DifficultyLevel string   `json:"difficulty_level" validate:"omitempty,max=32"`
	IsActive        *bool    `json:"is_active"`
}

// CatalogImport is the document accepted by the catalog import endpoint.
type CatalogImport struct {
	Assessments   []SeedAssessment      `json:"assessments" validate:"omitempty,dive"`
	LearningPaths []SeedLearningPath    `json:"learning_paths" validate:"omitempty,dive"`
	Careers       []CareerUpsertRequest `json:"careers" validate:"omitempty,dive"`
}

// CatalogImportResult reports how many rows each catalog section upserted.
type CatalogImportResult struct {
	Assessments   int64 `json:"assessments"`
	LearningPaths int64 `json:"learning_paths"`
	Careers       int64 `json:"careers"`
}
