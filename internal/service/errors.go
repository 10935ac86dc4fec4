package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/pathfinder-api/internal/scoring"
)

var (
	// ErrAssessmentNotFound indicates the requested assessment does not exist or is inactive.
	ErrAssessmentNotFound = scoring.NewError(scoring.KindNotFound, "assessment not found")
	// ErrProgressNotFound indicates the referenced attempt does not exist.
	ErrProgressNotFound = scoring.NewError(scoring.KindNotFound, "progress record not found")
	// ErrProgressForbidden indicates the attempt belongs to another user.
	ErrProgressForbidden = scoring.NewError(scoring.KindOwnership, "progress record belongs to another user")
	// ErrProgressMismatch indicates the attempt was started for a different assessment.
	ErrProgressMismatch = scoring.NewError(scoring.KindValidation, "progress record does not belong to this assessment")
	// ErrAttemptClosed indicates the attempt was already completed; a new attempt must be started.
	ErrAttemptClosed = scoring.NewError(scoring.KindConflict, "attempt already completed")
	// ErrCareerNotFound indicates the requested career does not exist.
	ErrCareerNotFound = scoring.NewError(scoring.KindNotFound, "career not found")
	// ErrCareerSlugTaken indicates another career already uses the slug.
	ErrCareerSlugTaken = scoring.NewError(scoring.KindConflict, "career slug already exists")
	// ErrLearningPathNotFound indicates the requested learning path does not exist.
	ErrLearningPathNotFound = scoring.NewError(scoring.KindNotFound, "learning path not found")
	// ErrSkillNotFound indicates the requested catalog skill does not exist.
	ErrSkillNotFound = scoring.NewError(scoring.KindNotFound, "skill not found")
	// ErrSkillNameTaken indicates another skill already uses the name.
	ErrSkillNameTaken = scoring.NewError(scoring.KindConflict, "skill name already exists")
	// ErrInvalidDifficulty indicates an unknown difficulty level.
	ErrInvalidDifficulty = scoring.ValidationError("difficulty_level must be one of: Beginner, Intermediate, Advanced", map[string]interface{}{"field": "difficulty_level"})
	// ErrInvalidDemand indicates an unknown demand filter.
	ErrInvalidDemand = scoring.ValidationError("demand must be one of: High, Medium, Low", map[string]interface{}{"field": "demand"})
	// ErrInvalidCategory indicates an unknown category filter.
	ErrInvalidCategory = scoring.ValidationError("unknown category", map[string]interface{}{"field": "category"})
	// ErrInvalidCatalogFile indicates an import file that is not JSON.
	ErrInvalidCatalogFile = scoring.ValidationError("catalog import must be a JSON document", nil)
)

func translateNotFound(err error, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
