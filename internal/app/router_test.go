package app

import (
	"encoding/json"
	"python_tutor_backend/docs"
	"python_tutor_backend/internal/config"
	"regexp"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

var pathParam = regexp.MustCompile(`:(\w+)`)

// Every API route served by the router must appear in the swagger document.
func TestRegisterRoutes_Documented(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	a := &App{services: &services{}}
	a.registerRoutes(router, &controllers{}, &config.Config{})

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &doc); err != nil {
		t.Fatalf("swagger document is not valid JSON: %v", err)
	}

	documented := 0
	for _, r := range router.Routes() {
		if !strings.HasPrefix(r.Path, "/api/") {
			continue
		}
		path := pathParam.ReplaceAllString(r.Path, "{$1}")
		if _, ok := doc.Paths[path][strings.ToLower(r.Method)]; !ok {
			t.Errorf("%s %s is not documented", r.Method, path)
			continue
		}
		documented++
	}

	total := 0
	for _, ops := range doc.Paths {
		total += len(ops)
	}
	if documented != total {
		t.Errorf("router serves %d documented operations, document lists %d", documented, total)
	}
}
