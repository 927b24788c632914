package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/learnhubio/learnhub/models"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestRegistryCreateValidatesCriteria(t *testing.T) {
	db := newTestDB(t)
	registry := NewBadgeRegistry(db)

	_, err := registry.Create(BadgeDefinition{
		Name:              "Bad Kind",
		CriteriaKind:      "streak_days",
		CriteriaThreshold: 3,
	}, 1)
	require.ErrorIs(t, err, ErrInvalidCriteria)

	_, err = registry.Create(BadgeDefinition{
		Name:              "Bad Threshold",
		CriteriaKind:      CriteriaLessonCount,
		CriteriaThreshold: 0,
	}, 1)
	require.ErrorIs(t, err, ErrInvalidCriteria)

	badge, err := registry.Create(BadgeDefinition{
		Name:              "Fine",
		CriteriaKind:      CriteriaLessonCount,
		CriteriaThreshold: 3,
	}, 1)
	require.NoError(t, err)
	require.NotNil(t, badge.CreatorID)
	require.Equal(t, uint(1), *badge.CreatorID)
}

func TestRegistryRejectsDuplicateName(t *testing.T) {
	db := newTestDB(t)
	registry := NewBadgeRegistry(db)

	_, err := registry.Create(BadgeDefinition{Name: "Unique", CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 1}, 1)
	require.NoError(t, err)

	_, err = registry.Create(BadgeDefinition{Name: "Unique", CriteriaKind: CriteriaCourseCount, CriteriaThreshold: 1}, 2)
	require.ErrorIs(t, err, ErrBadgeNameTaken)
}

func TestRegistryUpdatePermissions(t *testing.T) {
	db := newTestDB(t)
	registry := NewBadgeRegistry(db)

	badge, err := registry.Create(BadgeDefinition{Name: "Mine", CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 1}, 1)
	require.NoError(t, err)

	_, err = registry.Update(badge.ID, 2, BadgePatch{Name: strPtr("Yours")})
	require.ErrorIs(t, err, ErrPermissionDenied)

	updated, err := registry.Update(badge.ID, 1, BadgePatch{
		Name:              strPtr("Renamed"),
		CriteriaThreshold: intPtr(5),
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, 5, updated.CriteriaThreshold)
	// Untouched fields survive a partial patch.
	require.Equal(t, CriteriaLessonCount, updated.CriteriaKind)
}

func TestRegistryUpdateValidatesPatchedCriteria(t *testing.T) {
	db := newTestDB(t)
	registry := NewBadgeRegistry(db)

	badge, err := registry.Create(BadgeDefinition{Name: "Patchy", CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 1}, 1)
	require.NoError(t, err)

	_, err = registry.Update(badge.ID, 1, BadgePatch{CriteriaKind: strPtr("bogus")})
	require.ErrorIs(t, err, ErrInvalidCriteria)

	_, err = registry.Update(badge.ID, 1, BadgePatch{CriteriaThreshold: intPtr(0)})
	require.ErrorIs(t, err, ErrInvalidCriteria)
}

func TestRegistrySystemBadgeIsImmutable(t *testing.T) {
	db := newTestDB(t)
	registry := NewBadgeRegistry(db)

	system := models.Badge{Name: "System", CriteriaKind: CriteriaPointsThreshold, CriteriaThreshold: 100}
	require.NoError(t, db.Create(&system).Error)

	_, err := registry.Update(system.ID, 1, BadgePatch{Name: strPtr("Hijacked")})
	require.ErrorIs(t, err, ErrPermissionDenied)

	err = registry.Delete(system.ID, 1)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestRegistryDeleteBlockedByHolders(t *testing.T) {
	db := newTestDB(t)
	registry := NewBadgeRegistry(db)

	badge, err := registry.Create(BadgeDefinition{Name: "Held", CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 1}, 1)
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.AwardedBadge{UserID: 5, BadgeID: badge.ID, AwardedAt: time.Now()}).Error)
	require.NoError(t, db.Create(&models.AwardedBadge{UserID: 6, BadgeID: badge.ID, AwardedAt: time.Now()}).Error)

	err = registry.Delete(badge.ID, 1)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, int64(2), conflict.Holders)
}

func TestRegistryDeleteByCreatorSucceeds(t *testing.T) {
	db := newTestDB(t)
	registry := NewBadgeRegistry(db)

	badge, err := registry.Create(BadgeDefinition{Name: "Unheld", CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 1}, 1)
	require.NoError(t, err)

	err = registry.Delete(badge.ID, 2)
	require.ErrorIs(t, err, ErrPermissionDenied)

	require.NoError(t, registry.Delete(badge.ID, 1))

	_, err = registry.Get(badge.ID)
	require.ErrorIs(t, err, ErrBadgeNotFound)
}

func TestRegistryDeleteUnknownBadge(t *testing.T) {
	db := newTestDB(t)
	registry := NewBadgeRegistry(db)

	err := registry.Delete(12345, 1)
	require.ErrorIs(t, err, ErrBadgeNotFound)
}

func TestRegistryListWithStatus(t *testing.T) {
	db := newTestDB(t)
	registry := NewBadgeRegistry(db)

	earned, err := registry.Create(BadgeDefinition{Name: "Earned", CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 1}, 1)
	require.NoError(t, err)
	_, err = registry.Create(BadgeDefinition{Name: "Not Yet", CriteriaKind: CriteriaLessonCount, CriteriaThreshold: 9}, 1)
	require.NoError(t, err)

	awardedAt := time.Now()
	require.NoError(t, db.Create(&models.AwardedBadge{UserID: 3, BadgeID: earned.ID, AwardedAt: awardedAt}).Error)

	items, err := registry.ListWithStatus(3)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byName := map[string]BadgeWithStatus{}
	for _, item := range items {
		byName[item.Name] = item
	}
	require.True(t, byName["Earned"].Earned)
	require.NotNil(t, byName["Earned"].AwardedAt)
	require.False(t, byName["Not Yet"].Earned)
	require.Nil(t, byName["Not Yet"].AwardedAt)
}
