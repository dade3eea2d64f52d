package controller

import (
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/service"
	"python_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// GetStructure godoc
// @Summary Course structure
// @Description Modules ordered ascending with their lessons. Professors may pass all=true to include unpublished content.
// @Tags course
// @Produce  json
// @Security BearerAuth
// @Param all query bool false "Include unpublished modules and lessons"
// @Success 200 {object} util.Response{data=[]model.Module}
// @Router /api/course/structure [get]
func (c *CourseController) GetStructure(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	includeAll := claims != nil && claims.IsProfessor() && ctx.Query("all") == "true"

	modules, err := c.CourseService.Structure(ctx.Request.Context(), includeAll)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessList(ctx, modules, len(modules))
}

// swagger:model CreateModuleRequest
type CreateModuleRequest struct {
	Title     string `json:"title" binding:"required"`
	Order     *int   `json:"order"`
	Published *bool  `json:"published"`
}

// CreateModule godoc
// @Summary Create module
// @Tags course
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body CreateModuleRequest true "Module"
// @Success 201 {object} util.Response{data=model.Module}
// @Failure 400 {object} util.Response
// @Router /api/modules [post]
func (c *CourseController) CreateModule(ctx *gin.Context) {
	var req CreateModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CourseService.CreateModule(ctx.Request.Context(), req.Title, req.Order, req.Published)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, module, "Module created")
}

// swagger:model UpdateModuleRequest
type UpdateModuleRequest struct {
	Title     *string `json:"title"`
	Order     *int    `json:"order"`
	Published *bool   `json:"published"`
}

// UpdateModule godoc
// @Summary Update module
// @Tags course
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Param body body UpdateModuleRequest true "Fields to change"
// @Success 200 {object} util.Response{data=model.Module}
// @Failure 404 {object} util.Response
// @Router /api/modules/{id} [put]
func (c *CourseController) UpdateModule(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req UpdateModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.CourseService.UpdateModule(ctx.Request.Context(), id, service.ModulePatch{
		Title:     req.Title,
		Order:     req.Order,
		Published: req.Published,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// DeleteModule godoc
// @Summary Delete module and its lessons
// @Tags course
// @Security BearerAuth
// @Param id path int true "Module ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/modules/{id} [delete]
func (c *CourseController) DeleteModule(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.CourseService.DeleteModule(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessMessage(ctx, "Module deleted")
}

// swagger:model ReorderModulesRequest
type ReorderModulesRequest struct {
	Modules []model.ModuleOrder `json:"modules" binding:"required,dive"`
}

// ReorderModules godoc
// @Summary Reorder modules
// @Tags course
// @Accept  json
// @Security BearerAuth
// @Param body body ReorderModulesRequest true "New order"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/modules/reorder [put]
func (c *CourseController) ReorderModules(ctx *gin.Context) {
	var req ReorderModulesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "modules must be an array of {id, order}")
		return
	}
	if err := c.CourseService.ReorderModules(ctx.Request.Context(), req.Modules); err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessMessage(ctx, "Modules reordered")
}

// GetLesson godoc
// @Summary Lesson detail
// @Tags course
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *CourseController) GetLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	lesson, err := c.CourseService.GetLesson(id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	claims := util.GetUserFromContext(ctx)
	if !lesson.Published && (claims == nil || !claims.IsProfessor()) {
		util.NotFound(ctx, util.ErrLessonNotFound.Error())
		return
	}
	util.Success(ctx, lesson)
}

// swagger:model CreateLessonRequest
type CreateLessonRequest struct {
	Title     string `json:"title" binding:"required"`
	ModuleID  uint   `json:"moduleId" binding:"required"`
	Content   string `json:"content"`
	Order     *int   `json:"order"`
	Published *bool  `json:"published"`
}

// CreateLesson godoc
// @Summary Create lesson
// @Tags course
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body CreateLessonRequest true "Lesson"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "Module not found"
// @Router /api/lessons [post]
func (c *CourseController) CreateLesson(ctx *gin.Context) {
	var req CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CourseService.CreateLesson(ctx.Request.Context(), &model.Lesson{
		Title:    req.Title,
		ModuleID: req.ModuleID,
		Content:  req.Content,
	}, req.Order, req.Published)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, lesson, "Lesson created")
}

// swagger:model UpdateLessonRequest
type UpdateLessonRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Order     *int    `json:"order"`
	Published *bool   `json:"published"`
	ModuleID  *uint   `json:"moduleId"`
}

// UpdateLesson godoc
// @Summary Update lesson
// @Tags course
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Param body body UpdateLessonRequest true "Fields to change"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id} [put]
func (c *CourseController) UpdateLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req UpdateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CourseService.UpdateLesson(ctx.Request.Context(), id, service.LessonPatch{
		Title:     req.Title,
		Content:   req.Content,
		Order:     req.Order,
		Published: req.Published,
		ModuleID:  req.ModuleID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// DeleteLesson godoc
// @Summary Delete lesson
// @Tags course
// @Security BearerAuth
// @Param id path int true "Lesson ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id} [delete]
func (c *CourseController) DeleteLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.CourseService.DeleteLesson(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessMessage(ctx, "Lesson deleted")
}

// swagger:model ReorderLessonsRequest
type ReorderLessonsRequest struct {
	Lessons []model.LessonOrder `json:"lessons" binding:"required,dive"`
}

// ReorderLessons godoc
// @Summary Reorder lessons, optionally moving them between modules
// @Tags course
// @Accept  json
// @Security BearerAuth
// @Param body body ReorderLessonsRequest true "New order"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response
// @Router /api/lessons/reorder [put]
func (c *CourseController) ReorderLessons(ctx *gin.Context) {
	var req ReorderLessonsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "lessons must be an array of {id, order, moduleId?}")
		return
	}
	if err := c.CourseService.ReorderLessons(ctx.Request.Context(), req.Lessons); err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessMessage(ctx, "Lessons reordered")
}
