package controller

import (
	"net/http"
	"net/url"
	"python_tutor_backend/internal/service"
	"python_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// @Summary Dashboard overview
// @Description Lessons completed and last activity per student, most recent first
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.StudentOverview}
// @Router /api/dashboard/overview [get]
func (c *AnalyticsController) GetOverview(ctx *gin.Context) {
	overview, err := c.AnalyticsService.Overview()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessList(ctx, overview, len(overview))
}

// @Summary Student analytics
// @Description Completion, average score and activity status per student
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.StudentAnalytics}
// @Router /api/analytics/students [get]
func (c *AnalyticsController) GetStudents(ctx *gin.Context) {
	rows, err := c.AnalyticsService.Students()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessList(ctx, rows, len(rows))
}

// @Summary Export student analytics
// @Tags analytics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Router /api/analytics/students/export [get]
func (c *AnalyticsController) ExportStudents(ctx *gin.Context) {
	buf, filename, err := c.AnalyticsService.ExportStudents()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.Header("Content-Description", "File Transfer")
	ctx.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// @Summary Lesson analytics
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.LessonAnalytics}
// @Router /api/analytics/lessons [get]
func (c *AnalyticsController) GetLessons(ctx *gin.Context) {
	rows, err := c.AnalyticsService.Lessons()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessList(ctx, rows, len(rows))
}

// @Summary Professor dashboard counters
// @Tags analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.ProfessorStats}
// @Router /api/dashboard/professor-stats [get]
func (c *AnalyticsController) GetProfessorStats(ctx *gin.Context) {
	stats, err := c.AnalyticsService.ProfessorStats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
