package controller

import (
	"python_tutor_backend/internal/service"
	"python_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FeedbackController struct {
	FeedbackService *service.FeedbackService
}

func NewFeedbackController(feedbackService *service.FeedbackService) *FeedbackController {
	return &FeedbackController{FeedbackService: feedbackService}
}

// swagger:model CreateFeedbackRequest
type CreateFeedbackRequest struct {
	Content    string `json:"content"`
	ProgressID uint   `json:"progressId" binding:"required"`
	Rating     *int   `json:"rating"`
}

// CreateFeedback godoc
// @Summary Leave feedback on a student's progress
// @Tags feedback
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body CreateFeedbackRequest true "Feedback"
// @Success 201 {object} util.Response{data=model.Feedback}
// @Failure 400 {object} util.Response "Empty content or rating out of range"
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response "Progress not found"
// @Router /api/feedback [post]
func (c *FeedbackController) CreateFeedback(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CreateFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	feedback, err := c.FeedbackService.Create(claims.UserID, req.ProgressID, req.Content, req.Rating)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, feedback, "Feedback sent")
}

// GetStudentFeedback godoc
// @Summary Feedback received by a student
// @Description Newest first. Students may only read their own.
// @Tags feedback
// @Produce  json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Success 200 {object} util.Response{data=[]model.Feedback}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/feedback/student/{studentId} [get]
func (c *FeedbackController) GetStudentFeedback(ctx *gin.Context) {
	studentID, ok := pathID(ctx, "studentId")
	if !ok {
		return
	}

	_, list, err := c.FeedbackService.ForStudent(util.GetUserFromContext(ctx), studentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessList(ctx, list, len(list))
}
