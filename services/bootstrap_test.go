package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/learnhubio/learnhub/config"
	"github.com/learnhubio/learnhub/models"
)

func TestSeedDefaultsIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	cfg := config.AppConfig{AdminUsername: "admin", AdminPassword: "changeme"}

	require.NoError(t, SeedDefaults(db, cfg))
	require.NoError(t, SeedDefaults(db, cfg))

	var badgeCount int64
	require.NoError(t, db.Model(&models.Badge{}).Count(&badgeCount).Error)
	require.Equal(t, int64(len(defaultBadges)), badgeCount)

	// Seeded badges are system-owned.
	var owned int64
	require.NoError(t, db.Model(&models.Badge{}).Where("creator_id IS NOT NULL").Count(&owned).Error)
	require.Equal(t, int64(0), owned)

	var adminCount int64
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "admin").Count(&adminCount).Error)
	require.Equal(t, int64(1), adminCount)
}

func TestSeedDefaultsSkipsAdminWithoutPassword(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, SeedDefaults(db, config.AppConfig{AdminUsername: "admin"}))

	var adminCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&adminCount).Error)
	require.Equal(t, int64(0), adminCount)
}
