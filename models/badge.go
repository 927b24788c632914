package models

import "time"

// Badge is an achievement definition. Criteria are stored as a tagged kind
// plus integer threshold, validated once at creation; nothing is parsed at
// evaluation time. ScopeCourseID is fixed at creation: nil means the badge is
// evaluated against account-wide activity, a value restricts evaluation to
// that course's facts. CreatorID nil marks a system-owned badge.
type Badge struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Description       string    `gorm:"type:text" json:"description"`
	Icon              string    `gorm:"size:255" json:"icon"`
	CriteriaKind      string    `gorm:"size:32;not null" json:"criteria_kind"`
	CriteriaThreshold int       `gorm:"not null" json:"criteria_threshold"`
	ScopeCourseID     *uint     `gorm:"index" json:"scope_course_id"`
	CreatorID         *uint     `gorm:"index" json:"creator_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsGlobal reports whether the badge is evaluated account-wide.
func (b *Badge) IsGlobal() bool {
	return b.ScopeCourseID == nil
}

// IsSystemOwned reports whether the badge was created by the seeding routine
// rather than an instructor. System badges cannot be edited or deleted.
func (b *Badge) IsSystemOwned() bool {
	return b.CreatorID == nil
}

// AwardedBadge records that a user earned a badge. Append-only; the unique
// pair index is the final arbiter against double awards.
type AwardedBadge struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index:idx_awarded_user_badge,unique;not null" json:"user_id"`
	BadgeID   uint      `gorm:"index:idx_awarded_user_badge,unique;not null" json:"badge_id"`
	AwardedAt time.Time `gorm:"not null" json:"awarded_at"`
}
