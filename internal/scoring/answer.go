package scoring

import "strings"

// LikertValue maps a Likert label to 1..5. Unrecognised or blank labels score 0.
func LikertValue(label string) int {
	label = strings.TrimSpace(label)
	for idx, candidate := range LikertLabels {
		if candidate == label {
			return idx + 1
		}
	}
	return 0
}

// IsCorrect reports whether an mcq answer equals the designated correct option.
func IsCorrect(answer, correctAnswer string) bool {
	correctAnswer = strings.TrimSpace(correctAnswer)
	if correctAnswer == "" {
		return false
	}
	return strings.TrimSpace(answer) == correctAnswer
}

// Score returns the numeric contribution of one raw answer. Likert answers contribute their scale
// value; a correct mcq answer contributes the scale ceiling and an incorrect one contributes 0.
func Score(answerType, answer, correctAnswer string) int {
	switch strings.ToLower(strings.TrimSpace(answerType)) {
	case AnswerTypeMCQ:
		if IsCorrect(answer, correctAnswer) {
			return LikertScaleMax
		}
		return 0
	default:
		return LikertValue(answer)
	}
}

// OptionIndex locates answer within options, returning -1 when absent. Likert questions without an
// explicit option list use the canonical labels.
func OptionIndex(answerType string, options []string, answer string) int {
	if len(options) == 0 && strings.ToLower(strings.TrimSpace(answerType)) != AnswerTypeMCQ {
		options = LikertLabels
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return -1
	}
	for idx, option := range options {
		if strings.TrimSpace(option) == answer {
			return idx
		}
	}
	return -1
}
