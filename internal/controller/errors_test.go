package controller

import (
	"errors"
	"fmt"
	"net/http"
	"python_tutor_backend/internal/service"
	"python_tutor_backend/internal/util"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRespondError_Sentinels(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{util.ErrLessonNotFound, http.StatusNotFound},
		{fmt.Errorf("load: %w", util.ErrModuleNotFound), http.StatusNotFound},
		{util.ErrPermissionDenied, http.StatusForbidden},
		{util.ErrNotProfessor, http.StatusForbidden},
		{util.ErrEmailRegistered, http.StatusConflict},
		{util.ErrInvalidCredentials, http.StatusUnauthorized},
		{util.ErrAINotConfigured, http.StatusServiceUnavailable},
		{util.ErrInvalidRating, http.StatusBadRequest},
		{fmt.Errorf("%w: image/png", util.ErrUnsupportedFile), http.StatusBadRequest},
	}
	for _, tt := range tests {
		r := gin.New()
		r.GET("/", func(c *gin.Context) { respondError(c, tt.err) })
		w := doJSON(r, http.MethodGet, "/", nil)
		if w.Code != tt.code {
			t.Errorf("respondError(%v) status = %d, want %d", tt.err, w.Code, tt.code)
		}
		if resp := decode(t, w); resp.Success || resp.Error != tt.err.Error() {
			t.Errorf("respondError(%v) body = %+v", tt.err, resp)
		}
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{service.ErrInvalidScore, http.StatusBadRequest},
		{service.ErrSnippetTooLong, http.StatusBadRequest},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		r := gin.New()
		r.GET("/", func(c *gin.Context) { respondError(c, tt.err) })
		w := doJSON(r, http.MethodGet, "/", nil)
		if w.Code != tt.code {
			t.Errorf("respondError(%v) status = %d, want %d", tt.err, w.Code, tt.code)
		}
	}

	// internal details stay in the log
	r := gin.New()
	r.GET("/", func(c *gin.Context) { respondError(c, errors.New("dial tcp 10.0.0.3:3306")) })
	if resp := decode(t, doJSON(r, http.MethodGet, "/", nil)); resp.Error != "Internal server error" {
		t.Errorf("internal error leaked: %q", resp.Error)
	}
}
