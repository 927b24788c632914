package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/learnhubio/learnhub/models"
)

func newAwarder(db *gorm.DB) *BadgeAwarder {
	ledger := NewPointsLedger(db)
	return NewBadgeAwarder(db, ledger, NewProgressReader(db))
}

func completeLessons(t *testing.T, db *gorm.DB, userID, courseID uint, lessonIDs ...uint) {
	t.Helper()
	for _, lessonID := range lessonIDs {
		err := db.Create(&models.LessonProgress{
			UserID:      userID,
			LessonID:    lessonID,
			CourseID:    courseID,
			CompletedAt: time.Now(),
		}).Error
		require.NoError(t, err)
	}
}

func awardCount(t *testing.T, db *gorm.DB, userID, badgeID uint) int64 {
	t.Helper()
	var count int64
	err := db.Model(&models.AwardedBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error
	require.NoError(t, err)
	return count
}

func TestCheckAndAwardIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	awarder := newAwarder(db)

	badge := models.Badge{Name: "Three Lessons", CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 3}
	require.NoError(t, db.Create(&badge).Error)
	completeLessons(t, db, 1, 10, 101, 102, 103)

	// Repeated calls with a satisfied criteria must produce exactly one row.
	awarder.CheckAndAwardBadges(1, nil)
	awarder.CheckAndAwardBadges(1, nil)
	awarder.CheckAndAwardBadges(1, uintPtr(10))

	require.Equal(t, int64(1), awardCount(t, db, 1, badge.ID))
}

func TestAwardSkipsUnsatisfiedCriteria(t *testing.T) {
	db := newTestDB(t)
	awarder := newAwarder(db)

	badge := models.Badge{Name: "Five Lessons", CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 5}
	require.NoError(t, db.Create(&badge).Error)
	completeLessons(t, db, 1, 10, 101, 102, 103, 104)

	awarder.CheckAndAwardBadges(1, nil)
	require.Equal(t, int64(0), awardCount(t, db, 1, badge.ID))

	// One more lesson crosses the threshold.
	completeLessons(t, db, 1, 10, 105)
	awarder.CheckAndAwardBadges(1, nil)
	require.Equal(t, int64(1), awardCount(t, db, 1, badge.ID))
}

func TestCourseScopedBadgeIgnoresOtherCourses(t *testing.T) {
	db := newTestDB(t)
	awarder := newAwarder(db)

	badge := models.Badge{
		Name:              "Course 7 Devotee",
		CriteriaKind:      CriteriaLessonCount,
		CriteriaThreshold: 2,
		ScopeCourseID:     uintPtr(7),
	}
	require.NoError(t, db.Create(&badge).Error)

	// Plenty of progress, all of it in course 8.
	completeLessons(t, db, 1, 8, 201, 202, 203)
	awarder.CheckAndAwardBadges(1, nil)
	require.Equal(t, int64(0), awardCount(t, db, 1, badge.ID))

	completeLessons(t, db, 1, 7, 301, 302)
	awarder.CheckAndAwardBadges(1, uintPtr(7))
	require.Equal(t, int64(1), awardCount(t, db, 1, badge.ID))
}

func TestCourseScopeHintFiltersCandidates(t *testing.T) {
	db := newTestDB(t)
	awarder := newAwarder(db)

	scoped := models.Badge{
		Name:              "Other Course",
		CriteriaKind:      CriteriaLessonCount,
		CriteriaThreshold: 1,
		ScopeCourseID:     uintPtr(9),
	}
	global := models.Badge{Name: "Anywhere", CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 1}
	require.NoError(t, db.Create(&scoped).Error)
	require.NoError(t, db.Create(&global).Error)

	completeLessons(t, db, 1, 9, 401)

	// Pass course 5: the course-9 badge is not a candidate, the global one is.
	awarder.CheckAndAwardBadges(1, uintPtr(5))
	require.Equal(t, int64(0), awardCount(t, db, 1, scoped.ID))
	require.Equal(t, int64(1), awardCount(t, db, 1, global.ID))

	// Without the hint every scoped badge is considered.
	awarder.CheckAndAwardBadges(1, nil)
	require.Equal(t, int64(1), awardCount(t, db, 1, scoped.ID))
}

func TestPointsThresholdBadge(t *testing.T) {
	db := newTestDB(t)
	ledger := NewPointsLedger(db)
	awarder := NewBadgeAwarder(db, ledger, NewProgressReader(db))

	badge := models.Badge{Name: "Centurion", CriteriaKind: CriteriaPointsThreshold, CriteriaThreshold: 100}
	require.NoError(t, db.Create(&badge).Error)

	_, err := ledger.AddPoints(1, 60)
	require.NoError(t, err)
	awarder.CheckAndAwardBadges(1, nil)
	require.Equal(t, int64(0), awardCount(t, db, 1, badge.ID))

	_, err = ledger.AddPoints(1, 40)
	require.NoError(t, err)
	awarder.CheckAndAwardBadges(1, nil)
	require.Equal(t, int64(1), awardCount(t, db, 1, badge.ID))
}

func TestCourseCountBadge(t *testing.T) {
	db := newTestDB(t)
	awarder := newAwarder(db)

	badge := models.Badge{Name: "Graduate", CriteriaKind: CriteriaCourseCount, CriteriaThreshold: 1}
	require.NoError(t, db.Create(&badge).Error)

	// Unfinished enrollment does not count.
	require.NoError(t, db.Create(&models.Enrollment{UserID: 1, CourseID: 3}).Error)
	awarder.CheckAndAwardBadges(1, nil)
	require.Equal(t, int64(0), awardCount(t, db, 1, badge.ID))

	now := time.Now()
	err := db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", 1, 3).
		Updates(map[string]interface{}{"finished": true, "finished_at": now}).Error
	require.NoError(t, err)

	awarder.CheckAndAwardBadges(1, uintPtr(3))
	require.Equal(t, int64(1), awardCount(t, db, 1, badge.ID))
}

func TestMalformedBadgeDoesNotBlockOthers(t *testing.T) {
	db := newTestDB(t)
	awarder := newAwarder(db)

	// A descriptor that slipped past validation must stay inert while the
	// rest of the candidates are still evaluated.
	broken := models.Badge{Name: "Broken", CriteriaKind: "mystery", CriteriaThreshold: 1}
	good := models.Badge{Name: "Good", CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 1}
	require.NoError(t, db.Create(&broken).Error)
	require.NoError(t, db.Create(&good).Error)

	completeLessons(t, db, 1, 2, 501)
	awarder.CheckAndAwardBadges(1, nil)

	require.Equal(t, int64(0), awardCount(t, db, 1, broken.ID))
	require.Equal(t, int64(1), awardCount(t, db, 1, good.ID))
}
