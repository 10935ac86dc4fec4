package dto

// RecommendedLearningPath is a learning path with its relevance score.
type RecommendedLearningPath struct {
	LearningPathResponse
	RelevanceScore float64 `json:"relevance_score"`
}

// AptitudeRationale explains an assessment-driven career score.
type AptitudeRationale struct {
	AssessmentScore float64 `json:"assessment_score"`
	DemandScore     float64 `json:"demand_score"`
	RiskScore       float64 `json:"risk_score"`
}

// RecommendedCareer is a career ranked from assessment results.
type RecommendedCareer struct {
	CareerResponse
	RelevanceScore float64           `json:"relevance_score"`
	Rationale      AptitudeRationale `json:"rationale"`
}

// ConstraintRationale explains a constraint-driven career score.
type ConstraintRationale struct {
	DemandScore   float64 `json:"demand_score"`
	RiskScore     float64 `json:"risk_score"`
	LocationScore float64 `json:"location_score"`
	BudgetScore   float64 `json:"budget_score"`
}

// ConstrainedCareer is a career that satisfied explicit constraints.
type ConstrainedCareer struct {
	CareerResponse
	RelevanceScore float64             `json:"relevance_score"`
	Rationale      ConstraintRationale `json:"rationale"`
}

// LearningPathRecommendations is returned by the learning path recommender.
type LearningPathRecommendations struct {
	Items          []RecommendedLearningPath `json:"items"`
	CategoryScores map[string]float64        `json:"category_scores"`
	TopCategories  []string                  `json:"top_categories"`
	Message        string                    `json:"message,omitempty"`
	CacheHit       bool                      `json:"cache_hit"`
}

// CareerRecommendations is returned by the career recommender.
type CareerRecommendations struct {
	Items          []RecommendedCareer `json:"items"`
	CategoryScores map[string]float64  `json:"category_scores"`
	TopCategories  []string            `json:"top_categories"`
	Message        string              `json:"message,omitempty"`
	CacheHit       bool                `json:"cache_hit"`
}

// RecommendationOverview bundles both recommenders.
type RecommendationOverview struct {
	LearningPaths  []RecommendedLearningPath `json:"learning_paths"`
	Careers        []RecommendedCareer       `json:"careers"`
	CategoryScores map[string]float64        `json:"category_scores"`
	TopCategories  []string                  `json:"top_categories"`
	Message        string                    `json:"message,omitempty"`
	CacheHit       bool                      `json:"cache_hit"`
}

// CareerConstraintRequest carries typed constraint values parsed at the HTTP boundary.
type CareerConstraintRequest struct {
	BudgetMax           *float64 `json:"budget_max"`
	Location            string   `json:"location"`
	EducationLevel      string   `json:"education_level"`
	AcademicPerformance string   `json:"academic_performance"`
	RiskTolerance       string   `json:"risk_tolerance"`
}

// ConstrainedCareerResponse is returned by the constraint filter.
type ConstrainedCareerResponse struct {
	Items       []ConstrainedCareer     `json:"items"`
	Constraints CareerConstraintRequest `json:"constraints"`
}
