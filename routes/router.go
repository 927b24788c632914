package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/learnhubio/learnhub/config"
	"github.com/learnhubio/learnhub/controllers"
	"github.com/learnhubio/learnhub/middleware"
	"github.com/learnhubio/learnhub/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}
	r.Use(middleware.RequestID())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	courseController := controllers.NewCourseController(db)
	badgeController := controllers.NewBadgeController(db)
	achievementController := controllers.NewAchievementController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Public read paths
	api.GET("/courses", courseController.ListCourses)
	api.GET("/badges", badgeController.ListBadges)
	api.GET("/leaderboard", achievementController.GetLeaderboard)
	api.GET("/users/:id/stats", achievementController.GetUserStats)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())

	// Course management and progress triggers
	protected.POST("/courses", courseController.CreateCourse)
	protected.POST("/courses/:id/lessons", courseController.AddLesson)
	protected.POST("/courses/:id/enroll", courseController.Enroll)
	protected.POST("/courses/:id/finish", courseController.FinishCourse)
	protected.POST("/lessons/:id/complete", courseController.CompleteLesson)

	// Badge registry
	protected.GET("/badges/me", badgeController.ListMyBadges)
	protected.POST("/badges", badgeController.CreateBadge)
	protected.PUT("/badges/:id", badgeController.UpdateBadge)
	protected.DELETE("/badges/:id", badgeController.DeleteBadge)

	// Achievement summary for the caller
	protected.GET("/achievements/me", achievementController.GetMyStats)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
