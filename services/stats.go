package services

import (
	"errors"
	"math"

	"gorm.io/gorm"

	"github.com/learnhubio/learnhub/models"
)

// Stats is the per-user achievement summary.
type Stats struct {
	TotalPoints  int     `json:"total_points"`
	GlobalRank   int64   `json:"global_rank"`
	Percentile   float64 `json:"percentile"`
	EarnedBadges int64   `json:"earned_badges"`
	TotalBadges  int64   `json:"total_badges"`
}

// AchievementStatsCalculator composes the ledger, the ranking and the award
// counts into a single summary.
type AchievementStatsCalculator struct {
	db     *gorm.DB
	ledger *PointsLedger
}

// NewAchievementStatsCalculator creates a calculator over the shared database.
func NewAchievementStatsCalculator(db *gorm.DB, ledger *PointsLedger) *AchievementStatsCalculator {
	return &AchievementStatsCalculator{db: db, ledger: ledger}
}

// GetStats computes the user's summary. Rank counts users with strictly more
// points, so tied users share a rank here (unlike the positional top list).
// Percentile is the fraction of point-holding users at or below this user's
// balance: 100 for the sole point holder, 0 for a user with no entry at all,
// otherwise rounded to one decimal.
func (c *AchievementStatsCalculator) GetStats(userID uint) (*Stats, error) {
	points, err := c.ledger.GetPoints(userID)
	if err != nil {
		return nil, err
	}

	var totalUsers int64
	if err := c.db.Model(&models.LeaderboardEntry{}).Count(&totalUsers).Error; err != nil {
		return nil, err
	}

	var higher int64
	if err := c.db.Model(&models.LeaderboardEntry{}).
		Where("total_points > ?", points).
		Count(&higher).Error; err != nil {
		return nil, err
	}

	hasEntry := true
	var entry models.LeaderboardEntry
	if err := c.db.Where("user_id = ?", userID).First(&entry).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		hasEntry = false
	}

	var percentile float64
	switch {
	case !hasEntry:
		percentile = 0
	case totalUsers <= 1:
		percentile = 100
	default:
		var atOrBelow int64
		if err := c.db.Model(&models.LeaderboardEntry{}).
			Where("total_points <= ?", points).
			Count(&atOrBelow).Error; err != nil {
			return nil, err
		}
		percentile = math.Round(float64(atOrBelow)/float64(totalUsers)*1000) / 10
	}

	var earned int64
	if err := c.db.Model(&models.AwardedBadge{}).Where("user_id = ?", userID).Count(&earned).Error; err != nil {
		return nil, err
	}

	var totalBadges int64
	if err := c.db.Model(&models.Badge{}).Count(&totalBadges).Error; err != nil {
		return nil, err
	}

	return &Stats{
		TotalPoints:  points,
		GlobalRank:   higher + 1,
		Percentile:   percentile,
		EarnedBadges: earned,
		TotalBadges:  totalBadges,
	}, nil
}
