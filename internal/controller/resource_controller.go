package controller

import (
	"net/http"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/service"
	"python_tutor_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
)

type ResourceController struct {
	ResourceService *service.ResourceService
}

func NewResourceController(resourceService *service.ResourceService) *ResourceController {
	return &ResourceController{ResourceService: resourceService}
}

// @Summary Content library
// @Tags resources
// @Produce json
// @Security BearerAuth
// @Param type query string false "pdf, code, video or link"
// @Success 200 {object} util.Response{data=[]model.Resource}
// @Router /api/resources [get]
func (c *ResourceController) ListResources(ctx *gin.Context) {
	list, err := c.ResourceService.List(model.ResourceType(ctx.Query("type")))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessList(ctx, list, len(list))
}

// UploadResource godoc
// @Summary Add a resource
// @Description Multipart upload of a file, or a url for link resources. The file type is detected from its content.
// @Tags resources
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param type formData string false "pdf, code, video or link"
// @Param category formData string false "Category"
// @Param description formData string false "Description"
// @Param url formData string false "Link target when no file is sent"
// @Param tags formData string false "Comma separated tags"
// @Param lessonIds formData string false "Comma separated lesson ids"
// @Param file formData file false "File"
// @Success 201 {object} util.Response{data=model.Resource}
// @Failure 400 {object} util.Response
// @Router /api/resources/upload [post]
func (c *ResourceController) UploadResource(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	in := service.ResourceInput{
		Title:       ctx.PostForm("title"),
		Type:        model.ResourceType(ctx.PostForm("type")),
		Category:    ctx.PostForm("category"),
		Description: ctx.PostForm("description"),
		URL:         ctx.PostForm("url"),
		Tags:        splitList(ctx.PostForm("tags")),
	}
	for _, raw := range splitList(ctx.PostForm("lessonIds")) {
		id, ok := util.ParseID(raw)
		if !ok {
			util.BadRequest(ctx, "invalid lessonIds")
			return
		}
		in.LessonIDs = append(in.LessonIDs, id)
	}

	file, err := ctx.FormFile("file")
	if err != nil && err != http.ErrMissingFile {
		util.BadRequest(ctx, err.Error())
		return
	}

	res, err := c.ResourceService.Create(ctx.Request.Context(), claims.UserID, in, file)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, res, "Resource created")
}

// @Summary Delete a resource and its stored file
// @Tags resources
// @Security BearerAuth
// @Param id path int true "Resource ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/resources/{id} [delete]
func (c *ResourceController) DeleteResource(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.ResourceService.Delete(ctx.Request.Context(), id); err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessMessage(ctx, "Resource deleted")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
