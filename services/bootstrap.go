package services

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/learnhubio/learnhub/config"
	"github.com/learnhubio/learnhub/models"
)

// defaultBadges are the system-owned global badges, keyed by their unique
// name so re-running the seed never duplicates them.
var defaultBadges = []models.Badge{
	{Name: "First Steps", Description: "Complete your first lesson", Icon: "🎯", CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 1},
	{Name: "Dedicated Learner", Description: "Complete 10 lessons", Icon: "📚", CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 10},
	{Name: "Knowledge Seeker", Description: "Complete 50 lessons", Icon: "🔍", CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 50},
	{Name: "Course Finisher", Description: "Finish your first course", Icon: "🏁", CriteriaKind: CriteriaCourseCount, CriteriaThreshold: 1},
	{Name: "Serial Graduate", Description: "Finish 5 courses", Icon: "🎓", CriteriaKind: CriteriaCourseCount, CriteriaThreshold: 5},
	{Name: "Point Collector", Description: "Earn 100 points", Icon: "⭐", CriteriaKind: CriteriaPointsThreshold, CriteriaThreshold: 100},
	{Name: "Point Hoarder", Description: "Earn 1000 points", Icon: "🌟", CriteriaKind: CriteriaPointsThreshold, CriteriaThreshold: 1000},
}

// SeedDefaults creates the default global badges and the bootstrap admin
// account. Idempotent: existing rows are left untouched, so it is safe to run
// on every boot after migration.
func SeedDefaults(db *gorm.DB, cfg config.AppConfig) error {
	for _, badge := range defaultBadges {
		// CreatorID stays nil: system-owned, not deletable through the registry.
		b := badge
		if err := db.Where("name = ?", b.Name).FirstOrCreate(&b).Error; err != nil {
			return err
		}
	}

	if cfg.AdminUsername == "" || cfg.AdminPassword == "" {
		return nil
	}
	var existing int64
	if err := db.Model(&models.User{}).Where("username = ?", cfg.AdminUsername).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		Role:         models.RoleInstructor,
	}
	return db.Create(&admin).Error
}
