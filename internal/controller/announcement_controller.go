package controller

import (
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/service"
	"python_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnnouncementController struct {
	AnnouncementService *service.AnnouncementService
}

func NewAnnouncementController(announcementService *service.AnnouncementService) *AnnouncementController {
	return &AnnouncementController{AnnouncementService: announcementService}
}

// ListAnnouncements godoc
// @Summary Announcements, newest first
// @Tags announcements
// @Produce  json
// @Security BearerAuth
// @Param showAll query bool false "Professors only: include drafts"
// @Success 200 {object} util.Response{data=[]model.Announcement}
// @Router /api/announcements [get]
func (c *AnnouncementController) ListAnnouncements(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	showAll := claims != nil && claims.IsProfessor() && ctx.Query("showAll") == "true"

	list, err := c.AnnouncementService.List(showAll)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessList(ctx, list, len(list))
}

// swagger:model CreateAnnouncementRequest
type CreateAnnouncementRequest struct {
	Title     string                     `json:"title" binding:"required"`
	Message   string                     `json:"message" binding:"required"`
	Priority  model.AnnouncementPriority `json:"priority"`
	Published *bool                      `json:"published"`
	LessonID  *uint                      `json:"lessonId"`
	ModuleID  *uint                      `json:"moduleId"`
}

// CreateAnnouncement godoc
// @Summary Publish an announcement
// @Description Published announcements are pushed to every connected client
// @Tags announcements
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body CreateAnnouncementRequest true "Announcement"
// @Success 201 {object} util.Response{data=model.Announcement}
// @Failure 400 {object} util.Response
// @Router /api/announcements [post]
func (c *AnnouncementController) CreateAnnouncement(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CreateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	announcement, err := c.AnnouncementService.Create(&model.Announcement{
		Title:       req.Title,
		Message:     req.Message,
		Priority:    req.Priority,
		ProfessorID: claims.UserID,
		LessonID:    req.LessonID,
		ModuleID:    req.ModuleID,
	}, req.Published)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, announcement, "Announcement created")
}

// swagger:model UpdateAnnouncementRequest
type UpdateAnnouncementRequest struct {
	Title     *string                     `json:"title"`
	Message   *string                     `json:"message"`
	Priority  *model.AnnouncementPriority `json:"priority"`
	Published *bool                       `json:"published"`
}

// UpdateAnnouncement godoc
// @Summary Update an announcement
// @Tags announcements
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Param body body UpdateAnnouncementRequest true "Fields to change"
// @Success 200 {object} util.Response{data=model.Announcement}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/announcements/{id} [put]
func (c *AnnouncementController) UpdateAnnouncement(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req UpdateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	announcement, err := c.AnnouncementService.Update(id, service.AnnouncementPatch{
		Title:     req.Title,
		Message:   req.Message,
		Priority:  req.Priority,
		Published: req.Published,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, announcement)
}

// DeleteAnnouncement godoc
// @Summary Delete an announcement
// @Tags announcements
// @Security BearerAuth
// @Param id path int true "Announcement ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/announcements/{id} [delete]
func (c *AnnouncementController) DeleteAnnouncement(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.AnnouncementService.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessMessage(ctx, "Announcement deleted")
}
