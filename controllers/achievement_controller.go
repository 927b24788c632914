package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/learnhubio/learnhub/services"
	"github.com/learnhubio/learnhub/utils"
)

const defaultLeaderboardLimit = 10

// AchievementController is the read path for leaderboard and per-user stats.
type AchievementController struct {
	db     *gorm.DB
	ranker *services.LeaderboardRanker
	stats  *services.AchievementStatsCalculator
}

// NewAchievementController creates a new controller instance.
func NewAchievementController(db *gorm.DB) *AchievementController {
	return &AchievementController{
		db:     db,
		ranker: services.NewLeaderboardRanker(db),
		stats:  services.NewAchievementStatsCalculator(db, services.NewPointsLedger(db)),
	}
}

// GetLeaderboard returns the top students ordered by points.
func (a *AchievementController) GetLeaderboard(ctx *gin.Context) {
	limit := defaultLeaderboardLimit
	if v := ctx.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := a.ranker.GetTopStudents(limit)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to load leaderboard")
		return
	}
	if entries == nil {
		entries = []services.RankedEntry{}
	}

	utils.Success(ctx, gin.H{"items": entries, "limit": limit})
}

// GetUserStats returns the achievement summary for any user id.
func (a *AchievementController) GetUserStats(ctx *gin.Context) {
	userID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid user id")
		return
	}

	stats, err := a.stats.GetStats(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to compute stats")
		return
	}

	utils.Success(ctx, gin.H{"stats": stats})
}

// GetMyStats returns the caller's own achievement summary.
func (a *AchievementController) GetMyStats(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	stats, err := a.stats.GetStats(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to compute stats")
		return
	}

	utils.Success(ctx, gin.H{"stats": stats})
}
