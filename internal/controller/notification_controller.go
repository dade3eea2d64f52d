package controller

import (
	"python_tutor_backend/internal/service"
	"python_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	Hub *service.NotificationHub
}

func NewNotificationController(hub *service.NotificationHub) *NotificationController {
	return &NotificationController{Hub: hub}
}

// Connect godoc
// @Summary Live notifications
// @Description Upgrades to a websocket that receives ANNOUNCEMENT, NEW_MESSAGE and MESSAGE_ANSWERED events
// @Tags notifications
// @Param token query string true "JWT"
// @Success 101
// @Failure 401 {object} util.Response
// @Router /api/ws [get]
func (c *NotificationController) Connect(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	service.ServeWs(c.Hub, ctx.Writer, ctx.Request, claims.UserID, claims.Role)
}
