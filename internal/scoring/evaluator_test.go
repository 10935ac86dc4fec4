package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func likertQuestions(category string, n int) []QuestionDef {
	questions := make([]QuestionDef, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, QuestionDef{
			Prompt:   "Statement",
			Type:     AnswerTypeLikert,
			Options:  LikertLabels,
			Category: category,
		})
	}
	return questions
}

func repeat(answer string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = answer
	}
	return out
}

func TestEvaluateAllStronglyAgree(t *testing.T) {
	questions := append(likertQuestions("technical", 3), likertQuestions("analytical", 2)...)
	assessment := AssessmentDef{Questions: questions, PassingScore: 60}

	result, err := Evaluate(assessment, repeat("Strongly Agree", len(questions)))
	require.NoError(t, err)
	require.Equal(t, 100, result.OverallPercentage)
	require.Equal(t, ProfileVeryStrong, result.OverallProfile)
	require.True(t, result.Passed)
	for name, profile := range result.Categories {
		require.Equal(t, 100, profile.Percentage, name)
	}
}

func TestEvaluateAllStronglyDisagreeLandsOnDevelopingBoundary(t *testing.T) {
	assessment := AssessmentDef{Questions: likertQuestions("personality", 4), PassingScore: 60}

	result, err := Evaluate(assessment, repeat("Strongly Disagree", 4))
	require.NoError(t, err)
	require.Equal(t, 20, result.OverallPercentage)
	require.Equal(t, ProfileDeveloping, result.OverallProfile)
	require.False(t, result.Passed)
}

func TestEvaluateLabelsFollowRoundedPercentage(t *testing.T) {
	// 39 of 200 points is 19.5%, which rounds to 20 and must read as Developing.
	assessment := AssessmentDef{Questions: likertQuestions("personality", 40)}
	answers := append(repeat("Strongly Disagree", 39), "")

	result, err := Evaluate(assessment, answers)
	require.NoError(t, err)
	require.Equal(t, 39, result.TotalScore)
	require.Equal(t, 200, result.TotalMaxScore)
	require.Equal(t, 20, result.OverallPercentage)
	require.Equal(t, ProfileDeveloping, result.OverallProfile)

	personality := result.Categories["personality"]
	require.Equal(t, 20, personality.Percentage)
	require.Equal(t, ProfileDeveloping, personality.Profile)
}

func TestEvaluateTwoTechnicalQuestions(t *testing.T) {
	assessment := AssessmentDef{Questions: likertQuestions("technical", 2)}

	result, err := Evaluate(assessment, []string{"Strongly Agree", "Agree"})
	require.NoError(t, err)

	technical := result.Categories["technical"]
	require.Equal(t, 9, technical.Score)
	require.Equal(t, 2, technical.Count)
	require.Equal(t, 10, technical.MaxScore)
	require.Equal(t, 90, technical.Percentage)
	require.Equal(t, ProfileVeryStrong, technical.Profile)
	require.Equal(t, 90, result.OverallPercentage)
}

func TestEvaluateRejectsAnswerCountMismatch(t *testing.T) {
	assessment := AssessmentDef{Questions: likertQuestions("aptitude", 3)}

	_, err := Evaluate(assessment, []string{"Agree", "Agree"})
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidation))
	require.EqualError(t, err, "expected 3 answers, received 2")
}

func TestEvaluateRejectsEmptyAssessment(t *testing.T) {
	_, err := Evaluate(AssessmentDef{}, nil)
	require.Error(t, err)
	require.True(t, IsKind(err, KindDataIntegrity))
}

func TestEvaluateOverallSumsRawTotals(t *testing.T) {
	// technical 5/5 (100%), analytical 2/10 (20%): averaging would give 60, summing gives 47.
	questions := append(likertQuestions("technical", 1), likertQuestions("analytical", 2)...)
	result, err := Evaluate(AssessmentDef{Questions: questions}, []string{"Strongly Agree", "Disagree", ""})
	require.NoError(t, err)
	require.Equal(t, 7, result.TotalScore)
	require.Equal(t, 15, result.TotalMaxScore)
	require.Equal(t, 47, result.OverallPercentage)
	require.Equal(t, ProfileModerate, result.OverallProfile)
}

func TestEvaluateDefaultsCategoryAndCountsMCQ(t *testing.T) {
	assessment := AssessmentDef{Questions: []QuestionDef{
		{Prompt: "2+2?", Type: AnswerTypeMCQ, Options: []string{"3", "4"}, CorrectAnswer: "4"},
		{Prompt: "3+3?", Type: AnswerTypeMCQ, Options: []string{"6", "7"}, CorrectAnswer: "6"},
	}}

	result, err := Evaluate(assessment, []string{"4", "7"})
	require.NoError(t, err)
	require.Equal(t, []string{DefaultQuestionCategory}, result.CategoryNames())
	require.Equal(t, 2, result.MCQCount)
	require.Equal(t, 1, result.CorrectCount)
	require.NotNil(t, result.Questions[0].Correct)
	require.True(t, *result.Questions[0].Correct)
	require.False(t, *result.Questions[1].Correct)
	require.Equal(t, 50, result.OverallPercentage)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	questions := append(likertQuestions("technical", 2), likertQuestions("aptitude", 2)...)
	answers := []string{"Agree", "Neutral", "Disagree", "Strongly Agree"}

	first, err := Evaluate(AssessmentDef{Questions: questions}, answers)
	require.NoError(t, err)
	second, err := Evaluate(AssessmentDef{Questions: questions}, answers)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestEvaluateSkillWeights(t *testing.T) {
	assessment := AssessmentDef{Questions: []QuestionDef{
		{
			Prompt:       "I enjoy debugging",
			Type:         AnswerTypeLikert,
			Category:     "technical",
			SkillWeights: SkillVector{SkillTechnical: 10, SkillProblemSolving: 5},
		},
		{
			Prompt:       "I enjoy leading teams",
			Type:         AnswerTypeLikert,
			Category:     "personality",
			SkillWeights: SkillVector{SkillLeadership: 8},
			OptionWeights: map[int]SkillVector{
				4: {SkillLeadership: 10, SkillTeamwork: 6},
			},
		},
	}}

	result, err := Evaluate(assessment, []string{"Agree", "Strongly Agree"})
	require.NoError(t, err)

	technical := result.Skills[SkillTechnical]
	require.InDelta(t, 8.0, technical.Score, 1e-9)
	require.InDelta(t, 10.0, technical.MaxScore, 1e-9)
	require.Equal(t, 80, technical.Percentage)
	require.Equal(t, ProfileVeryStrong, technical.Profile)

	leadership := result.Skills[SkillLeadership]
	require.InDelta(t, 10.0, leadership.Score, 1e-9)
	require.Equal(t, 100, leadership.Percentage)

	teamwork := result.Skills[SkillTeamwork]
	require.InDelta(t, 6.0, teamwork.Score, 1e-9)
	require.Equal(t, 100, teamwork.Percentage)

	_, tracked := result.Skills[SkillCreative]
	require.False(t, tracked)
}

func TestProfileLabelThresholdsAreInclusive(t *testing.T) {
	require.Equal(t, ProfileVeryStrong, ProfileLabel(80))
	require.Equal(t, ProfileStrong, ProfileLabel(79.9))
	require.Equal(t, ProfileStrong, ProfileLabel(60))
	require.Equal(t, ProfileModerate, ProfileLabel(40))
	require.Equal(t, ProfileDeveloping, ProfileLabel(20))
	require.Equal(t, ProfileEmerging, ProfileLabel(19.99))
}
