package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/learnhubio/learnhub/models"
	"github.com/learnhubio/learnhub/services"
	"github.com/learnhubio/learnhub/utils"
)

// BadgeController exposes the badge registry: public listing, the caller's
// earned-status view, and instructor-owned definition management.
type BadgeController struct {
	db       *gorm.DB
	registry *services.BadgeRegistry
}

// NewBadgeController creates a new controller instance.
func NewBadgeController(db *gorm.DB) *BadgeController {
	return &BadgeController{db: db, registry: services.NewBadgeRegistry(db)}
}

// ListBadges returns every badge definition.
func (b *BadgeController) ListBadges(ctx *gin.Context) {
	if cached, ok := utils.CacheGetBytes("cache:badges:list"); ok {
		ctx.Data(http.StatusOK, "application/json", cached)
		return
	}

	badges, err := b.registry.List()
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to list badges")
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"items": badges}}
	utils.CacheSetJSON("cache:badges:list", wrapper, 0)
	utils.Success(ctx, gin.H{"items": badges})
}

// ListMyBadges returns every badge plus whether the caller earned it and when.
func (b *BadgeController) ListMyBadges(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	cacheKey := fmt.Sprintf("cache:badges:user:%d", userID)
	if cached, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", cached)
		return
	}

	items, err := b.registry.ListWithStatus(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to list badges")
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: gin.H{"items": items}}
	utils.CacheSetJSON(cacheKey, wrapper, 0)
	utils.Success(ctx, gin.H{"items": items})
}

// CreateBadge lets an instructor define a badge, optionally scoped to one of
// their courses.
func (b *BadgeController) CreateBadge(ctx *gin.Context) {
	var req struct {
		Name              string `json:"name" binding:"required,min=1,max=128"`
		Description       string `json:"description"`
		Icon              string `json:"icon"`
		CriteriaKind      string `json:"criteria_kind" binding:"required"`
		CriteriaThreshold int    `json:"criteria_threshold" binding:"required"`
		ScopeCourseID     *uint  `json:"scope_course_id"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid request payload")
		return
	}

	user, ok := currentUser(ctx, b.db)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}
	if !user.IsInstructor() {
		utils.Error(ctx, http.StatusForbidden, 40360, "only instructors can create badges")
		return
	}

	if req.ScopeCourseID != nil {
		var course models.Course
		if err := b.db.First(&course, *req.ScopeCourseID).Error; err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40061, "scope course not found")
			return
		}
	}

	badge, err := b.registry.Create(services.BadgeDefinition{
		Name:              utils.Sanitize(strings.TrimSpace(req.Name)),
		Description:       utils.Sanitize(req.Description),
		Icon:              utils.Sanitize(req.Icon),
		CriteriaKind:      req.CriteriaKind,
		CriteriaThreshold: req.CriteriaThreshold,
		ScopeCourseID:     req.ScopeCourseID,
	}, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCriteria):
			utils.Error(ctx, http.StatusBadRequest, 40062, err.Error())
		case errors.Is(err, services.ErrBadgeNameTaken):
			utils.Error(ctx, http.StatusConflict, 40960, "badge name already taken")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to create badge")
		}
		return
	}

	utils.Success(ctx, gin.H{"badge": badge})
}

// UpdateBadge edits name/description/icon/criteria of a badge the caller
// created. The course scope is fixed at creation and cannot be changed.
func (b *BadgeController) UpdateBadge(ctx *gin.Context) {
	badgeID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40063, "invalid badge id")
		return
	}

	var req struct {
		Name              *string `json:"name"`
		Description       *string `json:"description"`
		Icon              *string `json:"icon"`
		CriteriaKind      *string `json:"criteria_kind"`
		CriteriaThreshold *int    `json:"criteria_threshold"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40064, "invalid request payload")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	patch := services.BadgePatch{
		CriteriaKind:      req.CriteriaKind,
		CriteriaThreshold: req.CriteriaThreshold,
	}
	if req.Name != nil {
		name := utils.Sanitize(strings.TrimSpace(*req.Name))
		patch.Name = &name
	}
	if req.Description != nil {
		desc := utils.Sanitize(*req.Description)
		patch.Description = &desc
	}
	if req.Icon != nil {
		icon := utils.Sanitize(*req.Icon)
		patch.Icon = &icon
	}

	badge, err := b.registry.Update(badgeID, userID, patch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBadgeNotFound):
			utils.Error(ctx, http.StatusNotFound, 40460, "badge not found")
		case errors.Is(err, services.ErrPermissionDenied):
			utils.Error(ctx, http.StatusForbidden, 40361, "you can only update your own badges")
		case errors.Is(err, services.ErrInvalidCriteria):
			utils.Error(ctx, http.StatusBadRequest, 40065, err.Error())
		case errors.Is(err, services.ErrBadgeNameTaken):
			utils.Error(ctx, http.StatusConflict, 40961, "badge name already taken")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to update badge")
		}
		return
	}

	utils.Success(ctx, gin.H{"badge": badge})
}

// DeleteBadge removes a badge the caller created, refusing when anyone
// already holds it.
func (b *BadgeController) DeleteBadge(ctx *gin.Context) {
	badgeID, ok := parseUintParam(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40066, "invalid badge id")
		return
	}

	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	if err := b.registry.Delete(badgeID, userID); err != nil {
		var conflict *services.ConflictError
		switch {
		case errors.Is(err, services.ErrBadgeNotFound):
			utils.Error(ctx, http.StatusNotFound, 40461, "badge not found")
		case errors.Is(err, services.ErrPermissionDenied):
			utils.Error(ctx, http.StatusForbidden, 40362, "you can only delete your own badges")
		case errors.As(err, &conflict):
			utils.Error(ctx, http.StatusConflict, 40962, conflict.Error())
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50064, "failed to delete badge")
		}
		return
	}

	utils.Success(ctx, gin.H{"message": "badge deleted"})
}
