package controller

import (
	"encoding/json"
	"net/http"
	"python_tutor_backend/internal/console"
	"python_tutor_backend/internal/service"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newConsoleRouter() *gin.Engine {
	r := gin.New()
	ctrl := NewConsoleController(service.NewConsoleService(nil))
	r.POST("/api/console/run", ctrl.RunCode)
	return r
}

func TestConsoleController_RunCode(t *testing.T) {
	r := newConsoleRouter()

	w := doJSON(r, http.MethodPost, "/api/console/run", RunCodeRequest{Code: "nombre = \"Ana\"\nprint(\"Hola \" + nombre)"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode(t, w)
	var result console.Result
	json.Unmarshal(resp.Data, &result)
	if !resp.Success || result.Output != "Hola Ana" || result.Status != console.StatusOutput {
		t.Errorf("response = %+v, result %+v", resp, result)
	}
}

func TestConsoleController_RunCode_Errors(t *testing.T) {
	r := newConsoleRouter()

	if w := doJSON(r, http.MethodPost, "/api/console/run", "{not json"); w.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", w.Code)
	}

	long := strings.Repeat("x", service.MaxSnippetLength+1)
	w := doJSON(r, http.MethodPost, "/api/console/run", RunCodeRequest{Code: long})
	if w.Code != http.StatusBadRequest {
		t.Errorf("oversized snippet status = %d, want 400", w.Code)
	}
	if resp := decode(t, w); resp.Success {
		t.Error("oversized snippet reported success")
	}
}

func TestConsoleController_RunCode_EmptyIsNotAnError(t *testing.T) {
	w := doJSON(newConsoleRouter(), http.MethodPost, "/api/console/run", RunCodeRequest{})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var result console.Result
	json.Unmarshal(decode(t, w).Data, &result)
	if result.Status != console.StatusNoOutput {
		t.Errorf("status = %s, want no_output", result.Status)
	}
}
