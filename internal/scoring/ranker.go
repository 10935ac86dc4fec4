package scoring

import (
	"sort"

	"github.com/go-playground/validator/v10"
)

// RecommendationLimit caps every ranked list.
const RecommendationLimit = 5

// CategoryMapping bridges assessment categories to the career categories they inform.
type CategoryMapping map[string][]string

// DefaultCategoryMapping returns a fresh copy of the built-in assessment-to-career mapping.
func DefaultCategoryMapping() CategoryMapping {
	return CategoryMapping{
		AssessmentCategoryAptitude: {
			CareerCategoryBusiness,
			CareerCategoryEducation,
			CareerCategoryHealthcare,
			CareerCategoryHospitality,
			CareerCategoryAgriculture,
		},
		AssessmentCategoryTechnical: {
			CareerCategoryTechnology,
			CareerCategoryEngineering,
		},
		AssessmentCategoryAnalytical: {
			CareerCategoryFinance,
			CareerCategoryTechnology,
			CareerCategoryEngineering,
			CareerCategoryBusiness,
		},
		AssessmentCategoryPersonality: {
			CareerCategoryCreative,
			CareerCategoryEducation,
			CareerCategoryHospitality,
			CareerCategoryHealthcare,
			CareerCategoryBusiness,
		},
		AssessmentCategoryAll: append([]string(nil), CareerCategories...),
	}
}

func (m CategoryMapping) clone() CategoryMapping {
	out := make(CategoryMapping, len(m))
	for key, targets := range m {
		out[key] = append([]string(nil), targets...)
	}
	return out
}

// DemandBonus returns the ranking bonus for a demand indicator.
func DemandBonus(level string) float64 {
	switch level {
	case LevelHigh:
		return 20
	case LevelMedium:
		return 10
	default:
		return 0
	}
}

// RiskBonus returns the ranking bonus for a risk index. Lower risk scores higher.
func RiskBonus(level string) float64 {
	switch level {
	case LevelLow:
		return 10
	case LevelMedium:
		return 5
	case LevelHigh:
		return -5
	default:
		return 0
	}
}

// LearningPath is the ranking view of a learning path.
type LearningPath struct {
	ID       uint
	Title    string
	Category string
	IsActive bool
}

// CostRange is an education cost range; either bound may be absent.
type CostRange struct {
	Min *float64
	Max *float64
}

// CareerProfile is the ranking view of a career.
type CareerProfile struct {
	ID                    uint
	Title                 string
	Category              string
	DemandIndicator       string
	RiskIndex             string
	QualificationRequired []string
	Locations             []string
	EducationCost         *CostRange
	IsActive              bool
}

// RankedLearningPath pairs a learning path with its relevance score.
type RankedLearningPath struct {
	LearningPath
	RelevanceScore float64
}

// AptitudeRationale explains an assessment-driven career score.
type AptitudeRationale struct {
	AssessmentScore float64 `json:"assessment_score"`
	DemandScore     float64 `json:"demand_score"`
	RiskScore       float64 `json:"risk_score"`
}

// RankedCareer pairs a career with its assessment-driven score.
type RankedCareer struct {
	CareerProfile
	RelevanceScore float64
	Rationale      AptitudeRationale
}

// Ranker orders catalog entries for a user. It is immutable after construction.
type Ranker struct {
	mapping  CategoryMapping
	limit    int
	validate *validator.Validate
}

// Option customises a Ranker.
type Option func(*Ranker)

// WithLimit overrides the result cap.
func WithLimit(limit int) Option {
	return func(r *Ranker) {
		if limit > 0 {
			r.limit = limit
		}
	}
}

// NewRanker constructs a ranker over the given mapping; nil selects DefaultCategoryMapping.
func NewRanker(mapping CategoryMapping, opts ...Option) *Ranker {
	if mapping == nil {
		mapping = DefaultCategoryMapping()
	}
	r := &Ranker{
		mapping:  mapping.clone(),
		limit:    RecommendationLimit,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RankLearningPaths keeps active paths in the user's top categories and orders them by the score
// of their category.
func (r *Ranker) RankLearningPaths(paths []LearningPath, scores CategoryScores) []RankedLearningPath {
	top := make(map[string]struct{}, len(scores.TopCategories))
	for _, category := range scores.TopCategories {
		top[category] = struct{}{}
	}

	ranked := make([]RankedLearningPath, 0, len(paths))
	for _, path := range paths {
		if !path.IsActive {
			continue
		}
		if _, ok := top[path.Category]; !ok {
			continue
		}
		ranked = append(ranked, RankedLearningPath{
			LearningPath:   path,
			RelevanceScore: scores.Scores[path.Category],
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].RelevanceScore != ranked[j].RelevanceScore {
			return ranked[i].RelevanceScore > ranked[j].RelevanceScore
		}
		return ranked[i].Title < ranked[j].Title
	})

	return capSlice(ranked, r.limit)
}

// CareerCategoryScores spreads each assessment-category score evenly over its mapped career
// categories and sums the shares per career category.
func (r *Ranker) CareerCategoryScores(scores CategoryScores) map[string]float64 {
	categories := make([]string, 0, len(scores.Scores))
	for category := range scores.Scores {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	distributed := make(map[string]float64)
	for _, category := range categories {
		targets := r.mapping[category]
		if len(targets) == 0 {
			continue
		}
		share := scores.Scores[category] / float64(len(targets))
		for _, target := range targets {
			distributed[target] += share
		}
	}
	return distributed
}

// RankCareers scores active careers by distributed aptitude plus demand and risk bonuses.
func (r *Ranker) RankCareers(careers []CareerProfile, scores CategoryScores) []RankedCareer {
	distributed := r.CareerCategoryScores(scores)

	ranked := make([]RankedCareer, 0, len(careers))
	for _, career := range careers {
		if !career.IsActive {
			continue
		}
		rationale := AptitudeRationale{
			AssessmentScore: distributed[career.Category],
			DemandScore:     DemandBonus(career.DemandIndicator),
			RiskScore:       RiskBonus(career.RiskIndex),
		}
		ranked = append(ranked, RankedCareer{
			CareerProfile:  career,
			RelevanceScore: rationale.AssessmentScore + rationale.DemandScore + rationale.RiskScore,
			Rationale:      rationale,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].RelevanceScore != ranked[j].RelevanceScore {
			return ranked[i].RelevanceScore > ranked[j].RelevanceScore
		}
		return ranked[i].Title < ranked[j].Title
	})

	return capSlice(ranked, r.limit)
}

func capSlice[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}
