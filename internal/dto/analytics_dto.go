package dto

import "time"

// WeeklyCompletionPoint counts completed attempts in the week starting at WeekStart (Monday, UTC).
type WeeklyCompletionPoint struct {
	WeekStart   time.Time `json:"week_start"`
	Completions int64     `json:"completions"`
}

// AnalyticsSummaryResponse aggregates assessment activity for counselors and administrators.
type AnalyticsSummaryResponse struct {
	ActiveLearners      int64                   `json:"active_learners"`
	CompletedAttempts   int64                   `json:"completed_attempts"`
	InProgressAttempts  int64                   `json:"in_progress_attempts"`
	AverageScore        float64                 `json:"average_score"`
	PassRate            int                     `json:"pass_rate"`
	ProfileDistribution map[string]int64        `json:"profile_distribution"`
	CategoryCompletions map[string]int64        `json:"category_completions"`
	WeeklyCompletions   []WeeklyCompletionPoint `json:"weekly_completions"`
	GeneratedAt         time.Time               `json:"generated_at"`
	CacheHit            bool                    `json:"cache_hit"`
}
