package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/learnhubio/learnhub/config"
	"github.com/learnhubio/learnhub/models"
	"github.com/learnhubio/learnhub/services"
	"github.com/learnhubio/learnhub/utils"
)

// CourseController manages the minimal course/lesson/enrollment surface and
// the progress endpoints that feed the achievement engine. Completing a
// lesson or finishing a course asserts the fact first; point grants and badge
// checks afterwards are best-effort and never fail the request.
type CourseController struct {
	db      *gorm.DB
	ledger  *services.PointsLedger
	awarder *services.BadgeAwarder
}

// NewCourseController creates a new controller instance.
func NewCourseController(db *gorm.DB) *CourseController {
	ledger := services.NewPointsLedger(db)
	return &CourseController{
		db:      db,
		ledger:  ledger,
		awarder: services.NewBadgeAwarder(db, ledger, services.NewProgressReader(db)),
	}
}

// ListCourses returns all courses with their lessons.
func (c *CourseController) ListCourses(ctx *gin.Context) {
	var courses []models.Course
	if err := c.db.Preload("Lessons").Order("id ASC").Find(&courses).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to list courses")
		return
	}
	utils.Success(ctx, gin.H{"items": courses})
}

// CreateCourse allows instructors to create a course.
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required,min=1"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}

	user, ok := currentUser(ctx, c.db)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if !user.IsInstructor() {
		utils.Error(ctx, http.StatusForbidden, 40340, "only instructors can create courses")
		return
	}

	course := models.Course{
		CreatorID:   user.ID,
		Title:       utils.Sanitize(strings.TrimSpace(req.Title)),
		Description: utils.Sanitize(req.Description),
	}
	if course.Title == "" {
		utils.Error(ctx, http.StatusBadRequest, 40041, "title cannot be empty")
		return
	}
	if err := c.db.Create(&course).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to create course")
		return
	}

	utils.Success(ctx, gin.H{"course": course})
}

// AddLesson appends a lesson to a course the caller owns.
func (c *CourseController) AddLesson(ctx *gin.Context) {
	courseID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid course id")
		return
	}

	var req struct {
		Title    string `json:"title" binding:"required,min=1"`
		Position int    `json:"position"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40043, "invalid request payload")
		return
	}

	user, ok := currentUser(ctx, c.db)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var course models.Course
	if err := c.db.First(&course, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40440, "course not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to load course")
		return
	}
	if course.CreatorID != user.ID {
		utils.Error(ctx, http.StatusForbidden, 40341, "you can only add lessons to your own courses")
		return
	}

	lesson := models.Lesson{
		CourseID: courseID,
		Title:    utils.Sanitize(strings.TrimSpace(req.Title)),
		Position: req.Position,
	}
	if err := c.db.Create(&lesson).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to create lesson")
		return
	}

	utils.Success(ctx, gin.H{"lesson": lesson})
}

// Enroll registers the caller in a course. Enrolling twice is a no-op.
func (c *CourseController) Enroll(ctx *gin.Context) {
	courseID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40044, "invalid course id")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var course models.Course
	if err := c.db.First(&course, courseID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40441, "course not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to load course")
		return
	}

	enrollment := models.Enrollment{UserID: userID, CourseID: courseID}
	if err := c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&enrollment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to enroll")
		return
	}

	utils.Success(ctx, gin.H{"message": "enrolled"})
}

// CompleteLesson records a completed lesson. The first completion earns
// points and triggers a badge check; repeats are idempotent no-ops.
func (c *CourseController) CompleteLesson(ctx *gin.Context) {
	lessonID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40045, "invalid lesson id")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var lesson models.Lesson
	if err := c.db.First(&lesson, lessonID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40442, "lesson not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50046, "failed to load lesson")
		return
	}

	var enrolled int64
	if err := c.db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, lesson.CourseID).
		Count(&enrolled).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50047, "failed to check enrollment")
		return
	}
	if enrolled == 0 {
		utils.Error(ctx, http.StatusForbidden, 40342, "not enrolled in this course")
		return
	}

	progress := models.LessonProgress{
		UserID:      userID,
		LessonID:    lessonID,
		CourseID:    lesson.CourseID,
		CompletedAt: time.Now(),
	}
	res := c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoNothing: true,
	}).Create(&progress)
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50048, "failed to record progress")
		return
	}
	if res.RowsAffected == 0 {
		utils.Success(ctx, gin.H{"message": "lesson already completed", "points_awarded": 0})
		return
	}

	// The progress fact is recorded; everything below is best-effort.
	reward := config.Get().LessonRewardPoints
	if _, err := c.ledger.AddPoints(userID, reward); err != nil {
		utils.Sugar.Warnf("failed to award lesson points: user=%d lesson=%d err=%v", userID, lessonID, err)
		reward = 0
	}
	c.awarder.CheckAndAwardBadges(userID, &lesson.CourseID)

	utils.Success(ctx, gin.H{"message": "lesson completed", "points_awarded": reward})
}

// FinishCourse marks the caller's enrollment finished once every lesson in
// the course is completed, then grants the course reward and runs the badge
// check. Finishing twice is an idempotent no-op.
func (c *CourseController) FinishCourse(ctx *gin.Context) {
	courseID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40046, "invalid course id")
		return
	}
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var enrollment models.Enrollment
	if err := c.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusForbidden, 40343, "not enrolled in this course")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50049, "failed to load enrollment")
		return
	}
	if enrollment.Finished {
		utils.Success(ctx, gin.H{"message": "course already finished", "points_awarded": 0})
		return
	}

	var totalLessons, completed int64
	if err := c.db.Model(&models.Lesson{}).Where("course_id = ?", courseID).Count(&totalLessons).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to count lessons")
		return
	}
	if err := c.db.Model(&models.LessonProgress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&completed).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to count progress")
		return
	}
	if completed < totalLessons {
		utils.Error(ctx, http.StatusBadRequest, 40047, "course has uncompleted lessons")
		return
	}

	now := time.Now()
	enrollment.Finished = true
	enrollment.FinishedAt = &now
	if err := c.db.Save(&enrollment).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to finish course")
		return
	}

	reward := config.Get().CourseRewardPoints
	if _, err := c.ledger.AddPoints(userID, reward); err != nil {
		utils.Sugar.Warnf("failed to award course points: user=%d course=%d err=%v", userID, courseID, err)
		reward = 0
	}
	c.awarder.CheckAndAwardBadges(userID, &courseID)

	utils.Success(ctx, gin.H{"message": "course finished", "points_awarded": reward})
}
