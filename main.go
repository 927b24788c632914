package main

import (
	"github.com/learnhubio/learnhub/config"
	"github.com/learnhubio/learnhub/models"
	"github.com/learnhubio/learnhub/routes"
	"github.com/learnhubio/learnhub/services"
	"github.com/learnhubio/learnhub/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Course{},
		&models.Lesson{},
		&models.Enrollment{},
		&models.LessonProgress{},
		&models.Badge{},
		&models.AwardedBadge{},
		&models.LeaderboardEntry{},
	)

	// One-time bootstrap: default global badges and the admin account.
	if err := services.SeedDefaults(db, cfg); err != nil {
		utils.Sugar.Fatalf("bootstrap seeding failed: %v", err)
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
