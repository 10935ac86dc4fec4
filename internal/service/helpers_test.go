package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/noah-isme/pathfinder-api/internal/dto"
	"github.com/noah-isme/pathfinder-api/internal/models"
	"github.com/noah-isme/pathfinder-api/internal/repository"
	"github.com/noah-isme/pathfinder-api/internal/scoring"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// setupServiceDB opens a private in-memory database. A single connection serialises the
// concurrent reads issued by the recommendation service.
func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.Assessment{},
		&models.AssessmentQuestion{},
		&models.ProgressRecord{},
		&models.SkillProgress{},
		&models.LearningPath{},
		&models.CareerProfile{},
		&models.Skill{},
		&models.ActivityLog{},
	))
	return db
}

func likert(prompt, category string, weights map[string]float64) models.AssessmentQuestion {
	return models.AssessmentQuestion{
		Prompt:       prompt,
		Category:     category,
		SkillWeights: datatypes.NewJSONType(weights),
	}
}

func storeAssessment(t *testing.T, repo repository.AssessmentRepository, assessment models.Assessment) models.Assessment {
	t.Helper()
	ctx := context.Background()
	_, err := repo.UpsertBatch(ctx, []models.Assessment{assessment})
	require.NoError(t, err)

	items, err := repo.List(ctx, repository.AssessmentFilter{})
	require.NoError(t, err)
	for _, item := range items {
		if item.Slug == assessment.Slug {
			stored, err := repo.GetByID(ctx, item.ID, true)
			require.NoError(t, err)
			return stored
		}
	}
	t.Fatalf("assessment %s not stored", assessment.Slug)
	return models.Assessment{}
}

func technicalAssessment() models.Assessment {
	return models.Assessment{
		Slug:         "technical-aptitude",
		Title:        "Technical Aptitude",
		Category:     scoring.AssessmentCategoryTechnical,
		PassingScore: 60,
		IsActive:     true,
		Questions: []models.AssessmentQuestion{
			likert("I enjoy debugging code", "Technical", map[string]float64{scoring.SkillTechnical: 8, scoring.SkillProblemSolving: 6}),
			likert("I like building things", "Technical", map[string]float64{scoring.SkillTechnical: 6}),
		},
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ProgressEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event ProgressEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Start(context.Context) {}

func (p *recordingPublisher) published() []ProgressEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ProgressEvent(nil), p.events...)
}

type recordingInvalidator struct {
	mu    sync.Mutex
	users []uint
}

func (r *recordingInvalidator) Invalidate(_ context.Context, userID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, userID)
	return nil
}

func (r *recordingInvalidator) invalidated() []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint(nil), r.users...)
}

type recordingActivity struct {
	mu      sync.Mutex
	entries []ActivityEntry
}

func (r *recordingActivity) Record(_ context.Context, entry ActivityEntry) (dto.ActivityResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return dto.ActivityResponse{Action: entry.Action}, nil
}

func (r *recordingActivity) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

func boolPtr(v bool) *bool { return &v }

func floatPtr(v float64) *float64 { return &v }
