package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/learnhubio/learnhub/models"
)

func TestGetStatsSolePointHolder(t *testing.T) {
	db := newTestDB(t)
	ledger := NewPointsLedger(db)
	calc := NewAchievementStatsCalculator(db, ledger)

	_, err := ledger.AddPoints(1, 40)
	require.NoError(t, err)

	stats, err := calc.GetStats(1)
	require.NoError(t, err)
	require.Equal(t, 40, stats.TotalPoints)
	require.Equal(t, int64(1), stats.GlobalRank)
	require.Equal(t, float64(100), stats.Percentile)
}

func TestGetStatsUserWithoutEntry(t *testing.T) {
	db := newTestDB(t)
	ledger := NewPointsLedger(db)
	calc := NewAchievementStatsCalculator(db, ledger)

	stats, err := calc.GetStats(99)
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalPoints)
	require.Equal(t, float64(0), stats.Percentile)
	require.Equal(t, int64(1), stats.GlobalRank)
}

func TestGetStatsRankAndPercentile(t *testing.T) {
	db := newTestDB(t)
	ledger := NewPointsLedger(db)
	calc := NewAchievementStatsCalculator(db, ledger)

	for userID, points := range map[uint]int{1: 10, 2: 20, 3: 30} {
		_, err := ledger.AddPoints(userID, points)
		require.NoError(t, err)
	}

	stats, err := calc.GetStats(2)
	require.NoError(t, err)
	require.Equal(t, 20, stats.TotalPoints)
	// One user (30 points) strictly above.
	require.Equal(t, int64(2), stats.GlobalRank)
	// Two of three users at or below 20 points.
	require.InDelta(t, 66.7, stats.Percentile, 0.001)

	bottom, err := calc.GetStats(1)
	require.NoError(t, err)
	require.Equal(t, int64(3), bottom.GlobalRank)
	require.InDelta(t, 33.3, bottom.Percentile, 0.001)

	top, err := calc.GetStats(3)
	require.NoError(t, err)
	require.Equal(t, int64(1), top.GlobalRank)
	require.InDelta(t, 100, top.Percentile, 0.001)
}

func TestGetStatsTiedUsersShareRank(t *testing.T) {
	db := newTestDB(t)
	ledger := NewPointsLedger(db)
	calc := NewAchievementStatsCalculator(db, ledger)

	for userID, points := range map[uint]int{1: 100, 2: 100, 3: 50} {
		_, err := ledger.AddPoints(userID, points)
		require.NoError(t, err)
	}

	for _, userID := range []uint{1, 2} {
		stats, err := calc.GetStats(userID)
		require.NoError(t, err)
		require.Equal(t, int64(1), stats.GlobalRank)
	}
	stats, err := calc.GetStats(3)
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.GlobalRank)
}

func TestGetStatsBadgeCounts(t *testing.T) {
	db := newTestDB(t)
	ledger := NewPointsLedger(db)
	calc := NewAchievementStatsCalculator(db, ledger)

	badges := []models.Badge{
		{Name: "One", CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 1},
		{Name: "Two", CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 2},
		{Name: "Three", CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 3},
	}
	for i := range badges {
		require.NoError(t, db.Create(&badges[i]).Error)
	}
	require.NoError(t, db.Create(&models.AwardedBadge{UserID: 1, BadgeID: badges[0].ID, AwardedAt: time.Now()}).Error)
	require.NoError(t, db.Create(&models.AwardedBadge{UserID: 1, BadgeID: badges[1].ID, AwardedAt: time.Now()}).Error)

	stats, err := calc.GetStats(1)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.EarnedBadges)
	require.Equal(t, int64(3), stats.TotalBadges)
}
