package services

import (
	"gorm.io/gorm"

	"github.com/learnhubio/learnhub/models"
)

// ProgressReader exposes the read-only progress facts owned by the
// course/enrollment subsystem. The achievement engine never writes through
// this boundary.
type ProgressReader interface {
	// CountCompletedLessons returns the number of distinct completed lessons,
	// optionally filtered to one course.
	CountCompletedLessons(userID uint, courseID *uint) (int64, error)
	// CountFinishedEnrollments returns the number of enrollments marked
	// finished, optionally filtered to one course.
	CountFinishedEnrollments(userID uint, courseID *uint) (int64, error)
}

type gormProgressReader struct {
	db *gorm.DB
}

// NewProgressReader returns a ProgressReader backed by the shared database.
func NewProgressReader(db *gorm.DB) ProgressReader {
	return &gormProgressReader{db: db}
}

func (r *gormProgressReader) CountCompletedLessons(userID uint, courseID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.LessonProgress{}).Where("user_id = ?", userID)
	if courseID != nil {
		query = query.Where("course_id = ?", *courseID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *gormProgressReader) CountFinishedEnrollments(userID uint, courseID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.Enrollment{}).Where("user_id = ? AND finished = ?", userID, true)
	if courseID != nil {
		query = query.Where("course_id = ?", *courseID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
