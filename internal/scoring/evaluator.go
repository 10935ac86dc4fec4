package scoring

import (
	"math"
	"sort"
	"strings"
)

// SkillVector holds per-skill weights in [0,10].
type SkillVector map[string]float64

// QuestionDef is the scoring view of an assessment question.
type QuestionDef struct {
	Prompt        string
	Type          string
	Options       []string
	CorrectAnswer string
	Category      string
	Insight       string
	SkillWeights  SkillVector
	// OptionWeights overrides SkillWeights for the option at the given index.
	OptionWeights map[int]SkillVector
}

// AssessmentDef is the scoring view of an assessment.
type AssessmentDef struct {
	ID           uint
	Title        string
	Category     string
	PassingScore float64
	Questions    []QuestionDef
}

// QuestionResult describes how a single answer was scored.
type QuestionResult struct {
	Index      int
	Question   string
	Type       string
	Category   string
	UserAnswer string
	Value      int
	Correct    *bool
	Insight    string
}

// CategoryProfile summarises one question category of an evaluation.
type CategoryProfile struct {
	Score      int    `json:"score"`
	Count      int    `json:"count"`
	MaxScore   int    `json:"max_score"`
	Percentage int    `json:"percentage"`
	Profile    string `json:"profile"`
}

// SkillProfile summarises the weighted contribution towards one skill.
type SkillProfile struct {
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
	Percentage int     `json:"percentage"`
	Profile    string  `json:"profile"`
}

// EvaluationResult is the full outcome of scoring a submission.
type EvaluationResult struct {
	Questions         []QuestionResult
	Categories        map[string]CategoryProfile
	Skills            map[string]SkillProfile
	TotalScore        int
	TotalMaxScore     int
	OverallPercentage int
	OverallProfile    string
	CorrectCount      int
	MCQCount          int
	Passed            bool
}

// CategoryNames returns the evaluated categories in name order.
func (r EvaluationResult) CategoryNames() []string {
	names := make([]string, 0, len(r.Categories))
	for name := range r.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type bucket struct {
	total int
	count int
}

// Evaluate scores answers against assessment. The answer count must equal the question count;
// the check runs before any scoring.
func Evaluate(assessment AssessmentDef, answers []string) (EvaluationResult, error) {
	if len(answers) != len(assessment.Questions) {
		return EvaluationResult{}, AnswerCountError(len(assessment.Questions), len(answers))
	}

	buckets := make(map[string]*bucket)
	skillTotals := make(map[string]float64)
	skillMax := make(map[string]float64)
	results := make([]QuestionResult, 0, len(assessment.Questions))
	correctCount := 0
	mcqCount := 0

	for idx, question := range assessment.Questions {
		answer := answers[idx]
		value := Score(question.Type, answer, question.CorrectAnswer)

		category := strings.TrimSpace(question.Category)
		if category == "" {
			category = DefaultQuestionCategory
		}
		b, ok := buckets[category]
		if !ok {
			b = &bucket{}
			buckets[category] = b
		}
		b.total += value
		b.count++

		result := QuestionResult{
			Index:      idx,
			Question:   question.Prompt,
			Type:       normalizeAnswerType(question.Type),
			Category:   category,
			UserAnswer: answer,
			Value:      value,
			Insight:    question.Insight,
		}
		if result.Type == AnswerTypeMCQ {
			mcqCount++
			correct := value > 0
			if correct {
				correctCount++
			}
			result.Correct = &correct
		}
		results = append(results, result)

		accumulateSkills(question, answer, value, skillTotals, skillMax)
	}

	categories := make(map[string]CategoryProfile, len(buckets))
	totalScore := 0
	totalMax := 0
	for name, b := range buckets {
		maxScore := b.count * LikertScaleMax
		pct := percentage(float64(b.total), float64(maxScore))
		categories[name] = CategoryProfile{
			Score:      b.total,
			Count:      b.count,
			MaxScore:   maxScore,
			Percentage: pct,
			Profile:    ProfileLabel(float64(pct)),
		}
		totalScore += b.total
		totalMax += maxScore
	}

	if totalMax == 0 {
		return EvaluationResult{}, NewError(KindDataIntegrity, "assessment has no scorable questions")
	}

	skills := make(map[string]SkillProfile, len(skillMax))
	for skill, maxScore := range skillMax {
		if maxScore <= 0 {
			continue
		}
		total := skillTotals[skill]
		pct := percentage(total, maxScore)
		skills[skill] = SkillProfile{
			Score:      total,
			MaxScore:   maxScore,
			Percentage: pct,
			Profile:    ProfileLabel(float64(pct)),
		}
	}

	overall := percentage(float64(totalScore), float64(totalMax))

	return EvaluationResult{
		Questions:         results,
		Categories:        categories,
		Skills:            skills,
		TotalScore:        totalScore,
		TotalMaxScore:     totalMax,
		OverallPercentage: overall,
		OverallProfile:    ProfileLabel(float64(overall)),
		CorrectCount:      correctCount,
		MCQCount:          mcqCount,
		Passed:            float64(overall) >= assessment.PassingScore,
	}, nil
}

// accumulateSkills adds the selected option's override vector, or the question vector scaled by
// value/LikertScaleMax, and tracks the best attainable weight per skill.
func accumulateSkills(question QuestionDef, answer string, value int, totals, maxima map[string]float64) {
	if len(question.SkillWeights) == 0 && len(question.OptionWeights) == 0 {
		return
	}

	best := make(map[string]float64)
	for skill, weight := range question.SkillWeights {
		if isSkill(skill) && weight > best[skill] {
			best[skill] = weight
		}
	}
	for _, vector := range question.OptionWeights {
		for skill, weight := range vector {
			if isSkill(skill) && weight > best[skill] {
				best[skill] = weight
			}
		}
	}
	for skill, weight := range best {
		maxima[skill] += weight
	}

	index := OptionIndex(question.Type, question.Options, answer)
	if override, ok := question.OptionWeights[index]; ok && index >= 0 {
		for skill, weight := range override {
			if isSkill(skill) {
				totals[skill] += weight
			}
		}
		return
	}

	if value <= 0 {
		return
	}
	factor := float64(value) / LikertScaleMax
	for skill, weight := range question.SkillWeights {
		if isSkill(skill) {
			totals[skill] += weight * factor
		}
	}
}

func isSkill(name string) bool {
	for _, skill := range SkillNames {
		if skill == name {
			return true
		}
	}
	return false
}

func normalizeAnswerType(answerType string) string {
	if strings.ToLower(strings.TrimSpace(answerType)) == AnswerTypeMCQ {
		return AnswerTypeMCQ
	}
	return AnswerTypeLikert
}

func ratio(total, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	return total * 100 / maxScore
}

// percentage rounds half away from zero; profile labels are derived from this rounded value.
func percentage(total, maxScore float64) int {
	return int(math.Round(ratio(total, maxScore)))
}
