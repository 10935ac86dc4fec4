package scoring

// Answer types supported by assessment questions.
const (
	AnswerTypeLikert = "likert"
	AnswerTypeMCQ    = "mcq"
)

// LikertScaleMax is the ceiling of the Likert scale and the per-question maximum contribution.
const LikertScaleMax = 5

// LikertLabels lists the canonical Likert labels in ascending agreement order.
var LikertLabels = []string{
	"Strongly Disagree",
	"Disagree",
	"Neutral",
	"Agree",
	"Strongly Agree",
}

// Skill names tracked by weighted questions.
const (
	SkillAnalytical        = "analytical"
	SkillTechnical         = "technical"
	SkillCreative          = "creative"
	SkillCommunication     = "communication"
	SkillLeadership        = "leadership"
	SkillProblemSolving    = "problem_solving"
	SkillAttentionToDetail = "attention_to_detail"
	SkillTeamwork          = "teamwork"
)

// SkillNames is the fixed set of skills in display order.
var SkillNames = []string{
	SkillAnalytical,
	SkillTechnical,
	SkillCreative,
	SkillCommunication,
	SkillLeadership,
	SkillProblemSolving,
	SkillAttentionToDetail,
	SkillTeamwork,
}

// Assessment categories.
const (
	AssessmentCategoryAptitude    = "aptitude"
	AssessmentCategoryTechnical   = "technical"
	AssessmentCategoryAnalytical  = "analytical"
	AssessmentCategoryPersonality = "personality"
	AssessmentCategoryAll         = "all"
)

// AssessmentCategories lists every valid assessment category.
var AssessmentCategories = []string{
	AssessmentCategoryAptitude,
	AssessmentCategoryTechnical,
	AssessmentCategoryAnalytical,
	AssessmentCategoryPersonality,
	AssessmentCategoryAll,
}

// DefaultQuestionCategory buckets questions that carry no category.
const DefaultQuestionCategory = "General"

// Career categories.
const (
	CareerCategoryTechnology  = "Technology"
	CareerCategoryBusiness    = "Business"
	CareerCategoryFinance     = "Finance"
	CareerCategoryEngineering = "Engineering"
	CareerCategoryHealthcare  = "Healthcare"
	CareerCategoryEducation   = "Education"
	CareerCategoryCreative    = "Creative"
	CareerCategoryHospitality = "Hospitality"
	CareerCategoryAgriculture = "Agriculture"
)

// CareerCategories lists the nine career sectors.
var CareerCategories = []string{
	CareerCategoryTechnology,
	CareerCategoryBusiness,
	CareerCategoryFinance,
	CareerCategoryEngineering,
	CareerCategoryHealthcare,
	CareerCategoryEducation,
	CareerCategoryCreative,
	CareerCategoryHospitality,
	CareerCategoryAgriculture,
}

// Demand and risk levels share the same three-value vocabulary.
const (
	LevelHigh   = "High"
	LevelMedium = "Medium"
	LevelLow    = "Low"
)

// Progress statuses.
const (
	StatusNotStarted = "Not Started"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
)

// Profile labels, strongest first.
const (
	ProfileVeryStrong = "Very Strong"
	ProfileStrong     = "Strong"
	ProfileModerate   = "Moderate"
	ProfileDeveloping = "Developing"
	ProfileEmerging   = "Emerging"
)

// ProfileLabel returns the qualitative tier for a percentage. Thresholds are inclusive.
func ProfileLabel(percentage float64) string {
	switch {
	case percentage >= 80:
		return ProfileVeryStrong
	case percentage >= 60:
		return ProfileStrong
	case percentage >= 40:
		return ProfileModerate
	case percentage >= 20:
		return ProfileDeveloping
	default:
		return ProfileEmerging
	}
}

// IsLevel reports whether value is one of High, Medium or Low.
func IsLevel(value string) bool {
	switch value {
	case LevelHigh, LevelMedium, LevelLow:
		return true
	default:
		return false
	}
}

// IsAssessmentCategory reports whether value is a known assessment category.
func IsAssessmentCategory(value string) bool {
	for _, category := range AssessmentCategories {
		if category == value {
			return true
		}
	}
	return false
}
