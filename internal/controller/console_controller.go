package controller

import (
	"python_tutor_backend/internal/service"
	"python_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ConsoleController struct {
	ConsoleService *service.ConsoleService
}

func NewConsoleController(consoleService *service.ConsoleService) *ConsoleController {
	return &ConsoleController{ConsoleService: consoleService}
}

// swagger:model RunCodeRequest
type RunCodeRequest struct {
	Code     string `json:"code"`
	LessonID uint   `json:"lessonId"`
}

// RunCode godoc
// @Summary Simulate a Python snippet
// @Description Pattern-matches assignments and print calls to produce a transcript. Nothing is executed.
// @Tags console
// @Accept json
// @Produce json
// @Param body body RunCodeRequest true "Snippet"
// @Success 200 {object} util.Response{data=console.Result}
// @Failure 400 {object} util.Response
// @Router /api/console/run [post]
func (c *ConsoleController) RunCode(ctx *gin.Context) {
	var req RunCodeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var userID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = claims.UserID
	}

	result, err := c.ConsoleService.Run(userID, req.LessonID, req.Code)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
