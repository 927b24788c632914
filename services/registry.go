package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/learnhubio/learnhub/models"
	"github.com/learnhubio/learnhub/utils"
)

// BadgeDefinition is the input for creating a badge. ScopeCourseID is fixed
// at creation; there is no way to re-scope an existing badge.
type BadgeDefinition struct {
	Name              string
	Description       string
	Icon              string
	CriteriaKind      string
	CriteriaThreshold int
	ScopeCourseID     *uint
}

// BadgePatch carries the editable fields for an update. Nil pointers leave
// the stored value untouched. Scope is deliberately absent.
type BadgePatch struct {
	Name              *string
	Description       *string
	Icon              *string
	CriteriaKind      *string
	CriteriaThreshold *int
}

// BadgeWithStatus pairs a badge with one user's earned state.
type BadgeWithStatus struct {
	models.Badge
	Earned    bool       `json:"earned"`
	AwardedAt *time.Time `json:"awarded_at,omitempty"`
}

// BadgeRegistry is the management surface for badge definitions. Ownership
// rules: only the recorded creator may update or delete a badge, and system
// badges (no creator) are immutable through this path.
type BadgeRegistry struct {
	db *gorm.DB
}

// NewBadgeRegistry creates a registry over the shared database.
func NewBadgeRegistry(db *gorm.DB) *BadgeRegistry {
	return &BadgeRegistry{db: db}
}

// Create validates the criteria descriptor and stores a new badge owned by
// creatorID.
func (r *BadgeRegistry) Create(def BadgeDefinition, creatorID uint) (*models.Badge, error) {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return nil, errors.New("badge name cannot be empty")
	}
	if err := ValidateCriteria(def.CriteriaKind, def.CriteriaThreshold); err != nil {
		return nil, err
	}

	var existing int64
	if err := r.db.Model(&models.Badge{}).Where("name = ?", name).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrBadgeNameTaken
	}

	badge := models.Badge{
		Name:              name,
		Description:       def.Description,
		Icon:              def.Icon,
		CriteriaKind:      def.CriteriaKind,
		CriteriaThreshold: def.CriteriaThreshold,
		ScopeCourseID:     def.ScopeCourseID,
		CreatorID:         &creatorID,
	}
	if err := r.db.Create(&badge).Error; err != nil {
		return nil, err
	}

	utils.InvalidateByPrefix("cache:badges:")
	return &badge, nil
}

// Update applies the patch to a badge the caller owns. Criteria changes are
// re-validated; the course scope cannot change.
func (r *BadgeRegistry) Update(badgeID, creatorID uint, patch BadgePatch) (*models.Badge, error) {
	badge, err := r.load(badgeID)
	if err != nil {
		return nil, err
	}
	if badge.IsSystemOwned() || *badge.CreatorID != creatorID {
		return nil, ErrPermissionDenied
	}

	kind := badge.CriteriaKind
	threshold := badge.CriteriaThreshold
	if patch.CriteriaKind != nil {
		kind = *patch.CriteriaKind
	}
	if patch.CriteriaThreshold != nil {
		threshold = *patch.CriteriaThreshold
	}
	if err := ValidateCriteria(kind, threshold); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, errors.New("badge name cannot be empty")
		}
		if name != badge.Name {
			var existing int64
			if err := r.db.Model(&models.Badge{}).
				Where("name = ? AND id <> ?", name, badgeID).
				Count(&existing).Error; err != nil {
				return nil, err
			}
			if existing > 0 {
				return nil, ErrBadgeNameTaken
			}
		}
		badge.Name = name
	}
	if patch.Description != nil {
		badge.Description = *patch.Description
	}
	if patch.Icon != nil {
		badge.Icon = *patch.Icon
	}
	badge.CriteriaKind = kind
	badge.CriteriaThreshold = threshold

	if err := r.db.Save(badge).Error; err != nil {
		return nil, err
	}

	utils.InvalidateByPrefix("cache:badges:")
	return badge, nil
}

// Delete removes a badge the caller owns, provided nobody holds it yet. A
// held badge fails with a ConflictError carrying the exact holder count.
func (r *BadgeRegistry) Delete(badgeID, creatorID uint) error {
	badge, err := r.load(badgeID)
	if err != nil {
		return err
	}
	if badge.IsSystemOwned() || *badge.CreatorID != creatorID {
		return ErrPermissionDenied
	}

	var holders int64
	if err := r.db.Model(&models.AwardedBadge{}).Where("badge_id = ?", badgeID).Count(&holders).Error; err != nil {
		return err
	}
	if holders > 0 {
		return &ConflictError{Holders: holders}
	}

	if err := r.db.Delete(badge).Error; err != nil {
		return err
	}

	utils.InvalidateByPrefix("cache:badges:")
	return nil
}

// Get returns one badge by id.
func (r *BadgeRegistry) Get(badgeID uint) (*models.Badge, error) {
	return r.load(badgeID)
}

// List returns all badge definitions.
func (r *BadgeRegistry) List() ([]models.Badge, error) {
	var badges []models.Badge
	if err := r.db.Order("id ASC").Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

// ListWithStatus returns every badge together with whether the user earned
// it and when.
func (r *BadgeRegistry) ListWithStatus(userID uint) ([]BadgeWithStatus, error) {
	badges, err := r.List()
	if err != nil {
		return nil, err
	}

	var awards []models.AwardedBadge
	if err := r.db.Where("user_id = ?", userID).Find(&awards).Error; err != nil {
		return nil, err
	}
	awardedAt := make(map[uint]time.Time, len(awards))
	for _, award := range awards {
		awardedAt[award.BadgeID] = award.AwardedAt
	}

	result := make([]BadgeWithStatus, len(badges))
	for i, badge := range badges {
		result[i] = BadgeWithStatus{Badge: badge}
		if at, ok := awardedAt[badge.ID]; ok {
			result[i].Earned = true
			t := at
			result[i].AwardedAt = &t
		}
	}
	return result, nil
}

func (r *BadgeRegistry) load(badgeID uint) (*models.Badge, error) {
	var badge models.Badge
	if err := r.db.First(&badge, badgeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadgeNotFound
		}
		return nil, err
	}
	return &badge, nil
}
