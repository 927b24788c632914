package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/learnhubio/learnhub/models"
)

func TestEvaluateLessonCountBoundary(t *testing.T) {
	badge := &models.Badge{CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 5}

	require.False(t, EvaluateCriteria(badge, ProgressFacts{CompletedLessons: 4}))
	require.True(t, EvaluateCriteria(badge, ProgressFacts{CompletedLessons: 5}))
	require.True(t, EvaluateCriteria(badge, ProgressFacts{CompletedLessons: 6}))
}

func TestEvaluateCourseCount(t *testing.T) {
	badge := &models.Badge{CriteriaKind: CriteriaCourseCount, CriteriaThreshold: 2}

	require.False(t, EvaluateCriteria(badge, ProgressFacts{FinishedEnrollments: 1}))
	require.True(t, EvaluateCriteria(badge, ProgressFacts{FinishedEnrollments: 2}))
}

func TestEvaluatePointsThreshold(t *testing.T) {
	badge := &models.Badge{CriteriaKind: CriteriaPointsThreshold, CriteriaThreshold: 100}

	require.False(t, EvaluateCriteria(badge, ProgressFacts{TotalPoints: 99}))
	require.True(t, EvaluateCriteria(badge, ProgressFacts{TotalPoints: 100}))
}

func TestEvaluateUnknownKindNeverQualifies(t *testing.T) {
	badge := &models.Badge{CriteriaKind: "streak_days", CriteriaThreshold: 1}

	// Not an error: a malformed descriptor simply never matches.
	require.False(t, EvaluateCriteria(badge, ProgressFacts{
		CompletedLessons:    1000,
		FinishedEnrollments: 1000,
		TotalPoints:         1000,
	}))
}

func TestEvaluateMalformedThresholdNeverQualifies(t *testing.T) {
	badge := &models.Badge{CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 0}
	require.False(t, EvaluateCriteria(badge, ProgressFacts{CompletedLessons: 1000}))

	badge.CriteriaThreshold = -3
	require.False(t, EvaluateCriteria(badge, ProgressFacts{CompletedLessons: 1000}))
}

func TestValidateCriteria(t *testing.T) {
	require.NoError(t, ValidateCriteria(CriteriaLessonCount, 1))
	require.NoError(t, ValidateCriteria(CriteriaCourseCount, 10))
	require.NoError(t, ValidateCriteria(CriteriaPointsThreshold, 500))

	require.ErrorIs(t, ValidateCriteria("streak_days", 1), ErrInvalidCriteria)
	require.ErrorIs(t, ValidateCriteria(CriteriaLessonCount, 0), ErrInvalidCriteria)
	require.ErrorIs(t, ValidateCriteria(CriteriaPointsThreshold, -1), ErrInvalidCriteria)
}
