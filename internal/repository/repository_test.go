package repository

import (
	"codehabit_backend/internal/model"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultTestDSN = "host=localhost user=devuser password=devpass dbname=codehabit_test port=5434 sslmode=disable"

// setupTestDB connects to the integration database or skips the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("CODEHABIT_TEST_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Skip("Test database not available, skipping integration tests")
		return nil
	}

	models := append(model.InterviewModels(), model.HabitModels()...)
	require.NoError(t, db.AutoMigrate(models...))
	return db
}
