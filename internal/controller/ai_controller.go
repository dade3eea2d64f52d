package controller

import (
	"errors"
	"net/http"
	"python_tutor_backend/internal/service"
	"python_tutor_backend/internal/util"
	"python_tutor_backend/pkg/logger"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AIController struct {
	AIService *service.AIService
}

func NewAIController(aiService *service.AIService) *AIController {
	return &AIController{AIService: aiService}
}

// swagger:model CodeRequest
type CodeRequest struct {
	Code string `json:"code"`
}

// swagger:model AskRequest
type AskRequest struct {
	Question string `json:"question"`
}

func bindCode(ctx *gin.Context) (string, bool) {
	var req CodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return "", false
	}
	if strings.TrimSpace(req.Code) == "" {
		util.BadRequest(ctx, "code must not be empty")
		return "", false
	}
	return req.Code, true
}

// Critique godoc
// @Summary Formative hint on a code snippet
// @Description Asks the language model for a short encouraging hint that never gives away the solution
// @Tags ai
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body CodeRequest true "Code"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 503 {object} util.Response "No API key configured"
// @Router /api/ai/critique [post]
// @Router /api/gemini/critique [post]
func (c *AIController) Critique(ctx *gin.Context) {
	code, ok := bindCode(ctx)
	if !ok {
		return
	}
	claims := util.GetUserFromContext(ctx)

	critique, err := c.AIService.Critique(ctx.Request.Context(), claims.UserID, code)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"critique":  critique,
		"userId":    claims.UserID,
		"timestamp": time.Now(),
	})
}

// Explain godoc
// @Summary Beginner-friendly explanation of a code snippet
// @Tags ai
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body CodeRequest true "Code"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 503 {object} util.Response "No API key configured"
// @Router /api/ai/explain [post]
func (c *AIController) Explain(ctx *gin.Context) {
	code, ok := bindCode(ctx)
	if !ok {
		return
	}

	explanation, err := c.AIService.Explain(ctx.Request.Context(), code)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"explanation": explanation})
}

// AskLesson godoc
// @Summary Ask a question about a lesson
// @Tags ai
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param body body AskRequest true "Question"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 503 {object} util.Response "No API key configured"
// @Router /api/lessons/{id}/ask [post]
func (c *AIController) AskLesson(ctx *gin.Context) {
	lessonID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		util.BadRequest(ctx, "question must not be empty")
		return
	}
	claims := util.GetUserFromContext(ctx)

	answer, err := c.AIService.Ask(ctx.Request.Context(), claims.UserID, lessonID, req.Question)
	if err != nil {
		c.fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"answer":   answer,
		"lessonId": lessonID,
	})
}

// GetStudentAILogs godoc
// @Summary A student's AI interactions, newest first
// @Tags ai
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} util.Response{data=[]model.AILogEntry}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/student/{id}/ai_logs [get]
func (c *AIController) GetStudentAILogs(ctx *gin.Context) {
	studentID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	student, entries, err := c.AIService.Logs(studentID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entries,
		"total":   len(entries),
		"student": student.Summary(),
	})
}

// fail answers provider failures with 500 and the provider's message in details.
func (c *AIController) fail(ctx *gin.Context, err error) {
	if errors.Is(err, util.ErrAINotConfigured) || errors.Is(err, util.ErrEmptyContent) || errors.Is(err, util.ErrLessonNotFound) {
		respondError(ctx, err)
		return
	}
	logger.Log.Error("AI request failed", zap.Error(err), zap.String("path", ctx.FullPath()))
	ctx.JSON(http.StatusInternalServerError, util.Response{
		Success: false,
		Error:   "AI request failed",
		Details: err.Error(),
	})
}
