package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/learnhubio/learnhub/models"
)

func seedBalances(t *testing.T, db *gorm.DB, balances map[uint]int) {
	t.Helper()
	for userID, points := range balances {
		require.NoError(t, db.Create(&models.LeaderboardEntry{UserID: userID, TotalPoints: points}).Error)
	}
}

func TestGetTopStudentsOrderAndRanks(t *testing.T) {
	db := newTestDB(t)
	ranker := NewLeaderboardRanker(db)

	// A and B tie at 100; the lower user id must always come first.
	seedBalances(t, db, map[uint]int{
		1: 100, // A
		2: 100, // B
		3: 50,  // C
		4: 10,  // D
	})

	entries, err := ranker.GetTopStudents(3)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, uint(1), entries[0].UserID)
	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, 100, entries[0].TotalPoints)

	// Positional rank: the tied user gets rank 2, not a shared rank 1.
	require.Equal(t, uint(2), entries[1].UserID)
	require.Equal(t, 2, entries[1].Rank)
	require.Equal(t, 100, entries[1].TotalPoints)

	require.Equal(t, uint(3), entries[2].UserID)
	require.Equal(t, 3, entries[2].Rank)
	require.Equal(t, 50, entries[2].TotalPoints)
}

func TestGetTopStudentsTruncates(t *testing.T) {
	db := newTestDB(t)
	ranker := NewLeaderboardRanker(db)

	seedBalances(t, db, map[uint]int{1: 5, 2: 15, 3: 25})

	entries, err := ranker.GetTopStudents(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, uint(3), entries[0].UserID)
	require.Equal(t, uint(2), entries[1].UserID)
}

func TestGetTopStudentsNonPositiveLimit(t *testing.T) {
	db := newTestDB(t)
	ranker := NewLeaderboardRanker(db)

	seedBalances(t, db, map[uint]int{1: 5})

	entries, err := ranker.GetTopStudents(0)
	require.NoError(t, err)
	require.Nil(t, entries)
}

func TestGetTopStudentsIncludesUsername(t *testing.T) {
	db := newTestDB(t)
	ranker := NewLeaderboardRanker(db)

	require.NoError(t, db.Create(&models.User{Username: "alice", PasswordHash: "x"}).Error)
	var alice models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&alice).Error)
	seedBalances(t, db, map[uint]int{alice.ID: 70})

	entries, err := ranker.GetTopStudents(5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "alice", entries[0].Username)
}
