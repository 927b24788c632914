package services

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/learnhubio/learnhub/models"
	"github.com/learnhubio/learnhub/utils"
)

const leaderboardCacheTTL = time.Minute

// RankedEntry is one row of the leaderboard as the UI consumes it.
type RankedEntry struct {
	Rank        int    `json:"rank"`
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	TotalPoints int    `json:"total_points"`
}

// LeaderboardRanker produces the deterministic top-N ranking.
type LeaderboardRanker struct {
	db *gorm.DB
}

// NewLeaderboardRanker creates a ranker bound to the given database.
func NewLeaderboardRanker(db *gorm.DB) *LeaderboardRanker {
	return &LeaderboardRanker{db: db}
}

// GetTopStudents returns the first limit entries ordered by points descending.
// Ties break by ascending user id so equal balances always rank in the same
// order; rank is the 1-based position in the truncated list, so tied users
// occupy consecutive ranks rather than sharing one.
func (r *LeaderboardRanker) GetTopStudents(limit int) ([]RankedEntry, error) {
	if limit <= 0 {
		return nil, nil
	}

	cacheKey := fmt.Sprintf("cache:leaderboard:top:%d", limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		var cached []RankedEntry
		if err := json.Unmarshal(b, &cached); err == nil {
			return cached, nil
		}
	}

	var rows []struct {
		UserID      uint
		Username    string
		TotalPoints int
	}
	err := r.db.Model(&models.LeaderboardEntry{}).
		Select("leaderboard_entries.user_id, users.username, leaderboard_entries.total_points").
		Joins("LEFT JOIN users ON users.id = leaderboard_entries.user_id").
		Order("leaderboard_entries.total_points DESC, leaderboard_entries.user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]RankedEntry, len(rows))
	for i, row := range rows {
		entries[i] = RankedEntry{
			Rank:        i + 1,
			UserID:      row.UserID,
			Username:    row.Username,
			TotalPoints: row.TotalPoints,
		}
	}

	utils.CacheSetJSON(cacheKey, entries, leaderboardCacheTTL)
	return entries, nil
}
