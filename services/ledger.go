package services

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/learnhubio/learnhub/models"
	"github.com/learnhubio/learnhub/utils"
)

// PointsLedger maintains per-user point balances. The only mutation it exposes
// is a positive increment; balances never decrease through this surface.
type PointsLedger struct {
	db *gorm.DB
}

// NewPointsLedger creates a ledger bound to the given database.
func NewPointsLedger(db *gorm.DB) *PointsLedger {
	return &PointsLedger{db: db}
}

// AddPoints atomically increments the user's balance, creating the entry with
// an initial value of delta when absent. The write is a single upsert so
// concurrent grants for the same user cannot lose updates.
func (l *PointsLedger) AddPoints(userID uint, delta int) (int, error) {
	if delta <= 0 {
		return 0, ErrInvalidDelta
	}

	entry := models.LeaderboardEntry{UserID: userID, TotalPoints: delta}
	err := l.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_points": gorm.Expr("total_points + ?", delta),
			"updated_at":   time.Now(),
		}),
	}).Create(&entry).Error
	if err != nil {
		return 0, err
	}

	utils.InvalidateByPrefix("cache:leaderboard:")

	// Re-read: the upsert path does not report the incremented value.
	return l.GetPoints(userID)
}

// GetPoints returns the user's current balance, 0 when no entry exists.
func (l *PointsLedger) GetPoints(userID uint) (int, error) {
	var entry models.LeaderboardEntry
	if err := l.db.Where("user_id = ?", userID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return entry.TotalPoints, nil
}
