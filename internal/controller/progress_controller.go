package controller

import (
	"python_tutor_backend/internal/service"
	"python_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// swagger:model CompleteLessonRequest
type CompleteLessonRequest struct {
	LessonID          uint   `json:"lessonId" binding:"required"`
	LastSubmittedCode string `json:"lastSubmittedCode"`
	Score             *int   `json:"score"`
}

// CompleteLesson godoc
// @Summary Mark a lesson as completed
// @Description Upserts the caller's progress on the lesson and records the activity
// @Tags progress
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body CompleteLessonRequest true "Completion"
// @Success 200 {object} util.Response{data=model.Progress}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "Lesson not found"
// @Router /api/progress/complete [post]
func (c *ProgressController) CompleteLesson(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CompleteLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.ProgressService.Complete(claims.UserID, req.LessonID, req.LastSubmittedCode, req.Score)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// GetMyProgress godoc
// @Summary Caller's progress
// @Tags progress
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ProgressSummary}
// @Router /api/progress/me [get]
func (c *ProgressController) GetMyProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	summary, err := c.ProgressService.ForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
