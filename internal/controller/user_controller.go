package controller

import (
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/service"
	"python_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
	Hub         *service.NotificationHub
}

func NewUserController(userService *service.UserService, hub *service.NotificationHub) *UserController {
	return &UserController{
		UserService: userService,
		Hub:         hub,
	}
}

// StudentEntry is a student as listed to professors.
// swagger:model StudentEntry
type StudentEntry struct {
	*model.User
	Online bool `json:"online"`
}

// GetStudents godoc
// @Summary List students
// @Description Every student with a flag telling whether they hold a live notification connection
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]StudentEntry}
// @Router /api/users/students [get]
func (c *UserController) GetStudents(ctx *gin.Context) {
	students, err := c.UserService.Students()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	entries := make([]StudentEntry, 0, len(students))
	for i := range students {
		entries = append(entries, StudentEntry{
			User:   &students[i],
			Online: c.Hub != nil && c.Hub.IsOnline(students[i].ID),
		})
	}
	util.SuccessList(ctx, entries, len(entries))
}
