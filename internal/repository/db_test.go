package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/pathfinder-api/internal/models"
)

func setupPathfinderDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	require.NoError(t, err)
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
