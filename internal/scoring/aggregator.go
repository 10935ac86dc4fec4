package scoring

import (
	"math"
	"sort"
	"strings"
)

// TopCategoryLimit caps the number of categories surfaced as a user's strengths.
const TopCategoryLimit = 3

// ProgressRecord is the aggregation view of a persisted assessment attempt.
type ProgressRecord struct {
	Category string
	Status   string
	Score    *float64
}

// CategoryScores maps assessment categories to accumulated scores.
type CategoryScores struct {
	Scores        map[string]float64
	TopCategories []string
}

// Empty reports whether no category received a score.
func (c CategoryScores) Empty() bool {
	return len(c.Scores) == 0
}

// Aggregate sums the scores of completed attempts per assessment category. Records that are not
// completed, lack a category or carry a non-finite score are skipped.
func Aggregate(records []ProgressRecord) CategoryScores {
	scores := make(map[string]float64)
	for _, record := range records {
		if record.Status != StatusCompleted || record.Score == nil {
			continue
		}
		score := *record.Score
		if math.IsNaN(score) || math.IsInf(score, 0) {
			continue
		}
		category := strings.TrimSpace(record.Category)
		if category == "" {
			continue
		}
		scores[category] += score
	}

	return CategoryScores{
		Scores:        scores,
		TopCategories: topCategories(scores, TopCategoryLimit),
	}
}

func topCategories(scores map[string]float64, limit int) []string {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if scores[names[i]] != scores[names[j]] {
			return scores[names[i]] > scores[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}
