package controller

import (
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/repository"
	"python_tutor_backend/internal/service"
	"python_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MessageController struct {
	MessageService *service.MessageService
}

func NewMessageController(messageService *service.MessageService) *MessageController {
	return &MessageController{MessageService: messageService}
}

// ListMessages godoc
// @Summary Student messages, newest first
// @Description Students only ever see their own messages
// @Tags messages
// @Produce  json
// @Security BearerAuth
// @Param studentId query int false "Filter by student"
// @Param status query string false "pending, read, answered or closed"
// @Success 200 {object} util.Response{data=[]model.StudentMessage}
// @Failure 400 {object} util.Response
// @Router /api/messages [get]
func (c *MessageController) ListMessages(ctx *gin.Context) {
	filter := repository.MessageFilter{Status: model.MessageStatus(ctx.Query("status"))}
	if raw := ctx.Query("studentId"); raw != "" {
		id, ok := util.ParseID(raw)
		if !ok {
			util.BadRequest(ctx, "invalid studentId")
			return
		}
		filter.StudentID = &id
	}

	list, err := c.MessageService.List(util.GetUserFromContext(ctx), filter)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessList(ctx, list, len(list))
}

// swagger:model CreateMessageRequest
type CreateMessageRequest struct {
	Subject  string `json:"subject" binding:"required"`
	Message  string `json:"message" binding:"required"`
	Category string `json:"category"`
	LessonID *uint  `json:"lessonId"`
	ModuleID *uint  `json:"moduleId"`
}

// CreateMessage godoc
// @Summary Send a question to the professors
// @Tags messages
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param body body CreateMessageRequest true "Message"
// @Success 201 {object} util.Response{data=model.StudentMessage}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response "Only students can send messages"
// @Router /api/messages [post]
func (c *MessageController) CreateMessage(ctx *gin.Context) {
	var req CreateMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	msg, err := c.MessageService.Create(util.GetUserFromContext(ctx), &model.StudentMessage{
		Subject:  req.Subject,
		Message:  req.Message,
		Category: req.Category,
		LessonID: req.LessonID,
		ModuleID: req.ModuleID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, msg, "Message sent")
}

// swagger:model RespondMessageRequest
type RespondMessageRequest struct {
	Response string              `json:"response"`
	Status   model.MessageStatus `json:"status"`
}

// RespondMessage godoc
// @Summary Answer a message or change its status
// @Tags messages
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Param body body RespondMessageRequest true "Response and/or status"
// @Success 200 {object} util.Response{data=model.StudentMessage}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/messages/{id} [put]
func (c *MessageController) RespondMessage(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req RespondMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	msg, err := c.MessageService.Respond(util.GetUserFromContext(ctx), id, req.Response, req.Status)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, msg)
}

// DeleteMessage godoc
// @Summary Delete a message
// @Tags messages
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/messages/{id} [delete]
func (c *MessageController) DeleteMessage(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.MessageService.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessMessage(ctx, "Message deleted")
}
