package scoring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLikertValueIsMonotonic(t *testing.T) {
	previous := 0
	for _, label := range LikertLabels {
		value := LikertValue(label)
		require.Greater(t, value, previous, label)
		previous = value
	}
	require.Equal(t, 5, previous)
}

func TestLikertValueUnknownLabelScoresZero(t *testing.T) {
	require.Equal(t, 0, LikertValue(""))
	require.Equal(t, 0, LikertValue("Somewhat Agree"))
	require.Equal(t, 4, LikertValue("  Agree "))
}

func TestScoreMultipleChoice(t *testing.T) {
	require.Equal(t, LikertScaleMax, Score(AnswerTypeMCQ, "Paris", "Paris"))
	require.Equal(t, 0, Score(AnswerTypeMCQ, "Rome", "Paris"))
	require.Equal(t, 0, Score(AnswerTypeMCQ, "", ""), "mcq without a correct answer never scores")
}

func TestOptionIndexFallsBackToLikertLabels(t *testing.T) {
	require.Equal(t, 4, OptionIndex(AnswerTypeLikert, nil, "Strongly Agree"))
	require.Equal(t, -1, OptionIndex(AnswerTypeMCQ, nil, "Strongly Agree"))
	require.Equal(t, 1, OptionIndex(AnswerTypeMCQ, []string{"a", "b"}, "b"))
	require.Equal(t, -1, OptionIndex(AnswerTypeMCQ, []string{"a", "b"}, ""))
}
