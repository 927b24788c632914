package services

import (
	"fmt"

	"github.com/learnhubio/learnhub/models"
)

// Criteria kinds. A badge's descriptor is a kind plus a single integer
// threshold; both are validated when the definition is written, never parsed
// at evaluation time.
const (
	// CriteriaLessonCount qualifies once the scoped completed-lesson count
	// reaches the threshold.
	CriteriaLessonCount = "lesson_count"
	// CriteriaCourseCount qualifies once the scoped finished-course count
	// reaches the threshold.
	CriteriaCourseCount = "course_count"
	// CriteriaPointsThreshold qualifies once the account-wide point balance
	// reaches the threshold. Points are never course-scoped.
	CriteriaPointsThreshold = "points_threshold"
)

// ValidCriteriaKind reports whether kind is one of the known descriptors.
func ValidCriteriaKind(kind string) bool {
	switch kind {
	case CriteriaLessonCount, CriteriaCourseCount, CriteriaPointsThreshold:
		return true
	}
	return false
}

// ValidateCriteria checks a descriptor at creation/update time.
func ValidateCriteria(kind string, threshold int) error {
	if !ValidCriteriaKind(kind) {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidCriteria, kind)
	}
	if threshold < 1 {
		return fmt.Errorf("%w: threshold must be at least 1", ErrInvalidCriteria)
	}
	return nil
}

// ProgressFacts carries one consistent read of a user's progress, scoped the
// way the badge under evaluation requires. The lesson and course counts are
// filtered to the badge's course when it is course-scoped; the point balance
// is always account-wide.
type ProgressFacts struct {
	CompletedLessons    int64
	FinishedEnrollments int64
	TotalPoints         int
}

// EvaluateCriteria decides whether the facts satisfy the badge's descriptor.
// Pure function: no queries, no side effects. An unrecognized or malformed
// descriptor never qualifies; that is a deliberate non-error outcome so a bad
// definition can never block the awarding pass.
func EvaluateCriteria(badge *models.Badge, facts ProgressFacts) bool {
	n := badge.CriteriaThreshold
	if n < 1 {
		return false
	}
	switch badge.CriteriaKind {
	case CriteriaLessonCount:
		return facts.CompletedLessons >= int64(n)
	case CriteriaCourseCount:
		return facts.FinishedEnrollments >= int64(n)
	case CriteriaPointsThreshold:
		return facts.TotalPoints >= n
	default:
		return false
	}
}
