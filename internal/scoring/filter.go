package scoring

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Bonuses awarded when a career satisfies an explicit constraint.
const (
	LocationMatchBonus = 5
	BudgetMatchBonus   = 5
)

// Constraints are the explicit user preferences applied by FilterCareers. All fields are optional.
type Constraints struct {
	BudgetMax           *float64 `validate:"omitempty,gte=0"`
	Location            string
	EducationLevel      string
	AcademicPerformance string
	RiskTolerance       string `validate:"omitempty,oneof=Low Medium High"`
}

// ConstraintRationale explains a constraint-driven career score.
type ConstraintRationale struct {
	DemandScore   float64 `json:"demand_score"`
	RiskScore     float64 `json:"risk_score"`
	LocationScore float64 `json:"location_score"`
	BudgetScore   float64 `json:"budget_score"`
}

// ConstrainedCareer pairs a career with its constraint-match score.
type ConstrainedCareer struct {
	CareerProfile
	RelevanceScore float64
	Rationale      ConstraintRationale
}

// ValidateConstraints rejects malformed constraint values.
func (r *Ranker) ValidateConstraints(constraints Constraints) error {
	if err := r.validate.Struct(constraints); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			return constraintError(fieldErrors[0].StructField())
		}
		return ValidationError(err.Error(), nil)
	}
	if constraints.BudgetMax != nil && (math.IsNaN(*constraints.BudgetMax) || math.IsInf(*constraints.BudgetMax, 0)) {
		return constraintError("BudgetMax")
	}
	return nil
}

func constraintError(field string) error {
	switch field {
	case "BudgetMax":
		return ValidationError("budget_max must be a non-negative number", map[string]interface{}{"field": "budget_max"})
	case "RiskTolerance":
		return ValidationError("risk_tolerance must be one of: Low, Medium, High", map[string]interface{}{"field": "risk_tolerance"})
	default:
		return ValidationError("invalid constraint: "+field, map[string]interface{}{"field": field})
	}
}

// FilterCareers keeps active careers satisfying every supplied constraint and ranks them by
// demand, risk, location and budget fit.
func (r *Ranker) FilterCareers(careers []CareerProfile, constraints Constraints) ([]ConstrainedCareer, error) {
	if err := r.ValidateConstraints(constraints); err != nil {
		return nil, err
	}

	location := strings.TrimSpace(constraints.Location)
	ranked := make([]ConstrainedCareer, 0, len(careers))
	for _, career := range careers {
		if !career.IsActive {
			continue
		}
		if location != "" && !containsString(career.Locations, location) {
			continue
		}
		if !QualificationMatches(career.QualificationRequired, constraints.EducationLevel) {
			continue
		}
		if !RiskMatches(career.RiskIndex, constraints.RiskTolerance, constraints.AcademicPerformance) {
			continue
		}
		if !withinBudget(career.EducationCost, constraints.BudgetMax) {
			continue
		}

		rationale := ConstraintRationale{
			DemandScore: DemandBonus(career.DemandIndicator),
			RiskScore:   RiskBonus(career.RiskIndex),
		}
		if location != "" {
			rationale.LocationScore = LocationMatchBonus
		}
		if constraints.BudgetMax != nil && career.EducationCost != nil && career.EducationCost.Max != nil {
			rationale.BudgetScore = BudgetMatchBonus
		}

		ranked = append(ranked, ConstrainedCareer{
			CareerProfile:  career,
			RelevanceScore: rationale.DemandScore + rationale.RiskScore + rationale.LocationScore + rationale.BudgetScore,
			Rationale:      rationale,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].RelevanceScore != ranked[j].RelevanceScore {
			return ranked[i].RelevanceScore > ranked[j].RelevanceScore
		}
		return ranked[i].Title < ranked[j].Title
	})

	return capSlice(ranked, r.limit), nil
}

// QualificationMatches applies the education-level rule: a "+2" graduate needs a "+2" or diploma
// route, a bachelor needs a bachelor, diploma or "+2" route, and master or unset levels always pass.
// Higher levels are assumed to cover lower prerequisites.
func QualificationMatches(qualifications []string, educationLevel string) bool {
	level := strings.ToLower(strings.TrimSpace(educationLevel))
	if level == "" {
		return true
	}

	normalized := make([]string, 0, len(qualifications))
	for _, q := range qualifications {
		normalized = append(normalized, strings.ToLower(q))
	}

	switch {
	case strings.Contains(level, "+2"):
		return anyContains(normalized, "+2", "diploma")
	case strings.Contains(level, "bachelor"):
		return anyContains(normalized, "bachelor", "diploma", "+2")
	default:
		return true
	}
}

// RiskMatches applies risk tolerance. Low academic performance excludes High risk careers
// regardless of the stated tolerance.
func RiskMatches(riskIndex, riskTolerance, academicPerformance string) bool {
	if strings.ToLower(strings.TrimSpace(academicPerformance)) == "low" {
		return riskIndex != LevelHigh
	}

	switch riskTolerance {
	case LevelLow:
		return riskIndex == LevelLow
	case LevelMedium:
		return riskIndex != LevelHigh
	default:
		return true
	}
}

func withinBudget(cost *CostRange, budget *float64) bool {
	if budget == nil || cost == nil || cost.Max == nil {
		return true
	}
	return *cost.Max <= *budget
}

func anyContains(values []string, needles ...string) bool {
	for _, value := range values {
		for _, needle := range needles {
			if strings.Contains(value, needle) {
				return true
			}
		}
	}
	return false
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
