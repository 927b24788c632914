package services

import (
	"fmt"
	"os"
	"sync/atomic"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/learnhubio/learnhub/models"
)

func TestMain(m *testing.M) {
	// config.Load refuses to run without a JWT secret.
	os.Setenv("JWT_SECRET", "test-secret")
	// Point the cache at a closed port so best-effort caching is always a
	// miss; tests must not see state from a developer's local redis.
	os.Setenv("REDIS_PORT", "6390")
	os.Exit(m.Run())
}

var testDBSeq atomic.Int64

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:test%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lesson{},
		&models.Enrollment{},
		&models.LessonProgress{},
		&models.Badge{},
		&models.AwardedBadge{},
		&models.LeaderboardEntry{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func uintPtr(v uint) *uint {
	return &v
}
