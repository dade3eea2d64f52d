package controller

import (
	"errors"
	"net/http"
	"python_tutor_backend/internal/service"
	"python_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP answers. Unknown errors are logged and hidden.
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrModuleNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrProgressNotFound),
		errors.Is(err, util.ErrAnnouncementNotFound),
		errors.Is(err, util.ErrMessageNotFound),
		errors.Is(err, util.ErrResourceNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrPermissionDenied),
		errors.Is(err, util.ErrNotProfessor),
		errors.Is(err, util.ErrNotStudent):
		util.Forbidden(ctx, err.Error())
	case errors.Is(err, util.ErrEmailRegistered):
		util.Error(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrAINotConfigured):
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, util.ErrInvalidRating),
		errors.Is(err, util.ErrEmptyContent),
		errors.Is(err, util.ErrUnsupportedFile),
		errors.Is(err, service.ErrInvalidPriority),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidResourceURL),
		errors.Is(err, service.ErrInvalidScore),
		errors.Is(err, service.ErrSnippetTooLong):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// pathID reads a positive numeric path parameter, answering 400 when it is malformed.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, ok := util.ParseID(ctx.Param(name))
	if !ok {
		util.BadRequest(ctx, "invalid "+name)
	}
	return id, ok
}
