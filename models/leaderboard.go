package models

import "time"

// LeaderboardEntry is a user's cumulative point balance. One row per user who
// has ever earned points; created on the first point grant, then updated in
// place. TotalPoints only grows through the achievement engine's surface.
type LeaderboardEntry struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	TotalPoints int       `gorm:"not null;default:0" json:"total_points"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
